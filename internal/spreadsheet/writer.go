package spreadsheet

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/vanzari-imobiliare/api/internal/complex"
	"github.com/vanzari-imobiliare/api/internal/property"
	"github.com/vanzari-imobiliare/api/internal/utils"
	"github.com/xuri/excelize/v2"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	maxSheetName     = 31
	defaultSheetName = "Proprietati"
)

// SheetName strips the characters Excel rejects in sheet names and cuts the
// result to 31 characters.
func SheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	for utf8.RuneCountInString(name) > maxSheetName {
		_, size := utf8.DecodeLastRuneInString(name)
		name = name[:len(name)-size]
	}
	name = strings.Trim(name, "' ")
	if name == "" {
		return defaultSheetName
	}
	return name
}

// FileName is the download name of an export: the folded complex name with
// runs of other characters collapsed to "_", then the export date.
func FileName(complexName string, now time.Time) string {
	var b strings.Builder
	underscore := false
	for _, r := range utils.Fold(complexName) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
			underscore = false
		default:
			if !underscore && b.Len() > 0 {
				b.WriteByte('_')
				underscore = true
			}
		}
	}
	base := strings.TrimSuffix(b.String(), "_")
	if base == "" {
		base = "export"
	}
	return fmt.Sprintf("%s_%s.xlsx", base, now.Format("2006-01-02"))
}

// WriteXLSX writes one sheet with a header row of column labels followed by
// the given rows. Numbers are stored as numeric cells.
func WriteXLSX(w io.Writer, sheet string, cols []complex.Column, rows [][]property.Value) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(cols))
	for i, c := range cols {
		label := c.Label
		if label == "" {
			label = c.Key
		}
		header[i] = label
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			if n, ok := v.Float(); ok {
				cells[j] = n
			} else {
				cells[j] = v.String()
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	_, err := f.WriteTo(w)
	return err
}
