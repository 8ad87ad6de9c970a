package spreadsheet

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/vanzari-imobiliare/api/internal/complex"
	"github.com/vanzari-imobiliare/api/internal/property"
	"github.com/vanzari-imobiliare/api/internal/utils"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// column is one labelled column of an imported sheet.
type column struct {
	index int
	label string
}

// headerColumns reads the labelled columns of the header row. Blank header
// cells are skipped and a repeated label gets the first free _1, _2...
// suffix, so no two columns share a label.
func headerColumns(header []string) []column {
	var cols []column
	used := map[string]bool{}
	for i, raw := range header {
		label := strings.TrimSpace(raw)
		if label == "" {
			continue
		}
		if used[label] {
			base := label
			for n := 1; used[label]; n++ {
				label = base + "_" + strconv.Itoa(n)
			}
		}
		used[label] = true
		cols = append(cols, column{index: i, label: label})
	}
	return cols
}

// MapImport turns sheet rows into properties. The first row is the header;
// every later row with at least one non-blank cell becomes a property whose
// attributes are its non-blank cells under their header labels, as text.
// The labels are returned in column order.
func MapImport(rows [][]string) ([]property.Property, []string, error) {
	if len(rows) == 0 {
		return nil, nil, ErrNoHeader
	}
	cols := headerColumns(rows[0])
	if len(cols) == 0 {
		return nil, nil, ErrNoHeader
	}

	var props []property.Property
	for _, row := range rows[1:] {
		p := property.Property{ID: uuid.NewString()}
		for _, c := range cols {
			if c.index >= len(row) {
				continue
			}
			if cell := row[c.index]; strings.TrimSpace(cell) != "" {
				p.Attributes.Set(c.label, property.Text(cell))
			}
		}
		if p.Attributes.Len() == 0 {
			continue
		}
		props = append(props, p)
	}

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.label
	}
	return props, headers, nil
}

// ExportColumns is the complex column schema, or the union of the
// attribute keys in first-seen order when the complex has none.
func ExportColumns(c *complex.Complex, props []property.Property) []complex.Column {
	if len(c.Columns) > 0 {
		return c.Columns
	}
	var keys []string
	seen := map[string]bool{}
	for i := range props {
		for _, k := range props[i].Attributes.Keys() {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	return complex.ColumnsFromHeaders(keys)
}

var titleCaser = cases.Title(language.Romanian)

// CellValue resolves the value a property shows under an export column:
// the client name for a "Client" column, the stored commission and status
// for their columns, then a direct attribute lookup of the column key under
// common spellings, then the synonym table.
func CellValue(p *property.Property, col complex.Column) property.Value {
	if p.ClientName != "" && (isClientHeader(col.Key) || isClientHeader(col.Label)) {
		return property.Text(p.ClientName)
	}
	switch canonicalColumn(col) {
	case property.FieldCommission:
		if strings.TrimSpace(p.Commission) != "" {
			return property.Text(p.Commission)
		}
	case property.FieldStatus:
		return property.Text(property.EffectiveStatus(p))
	}

	key := col.Key
	trimmed := strings.TrimSpace(key)
	for _, k := range []string{key, trimmed, strings.ToLower(trimmed), strings.ToUpper(trimmed), titleCaser.String(trimmed)} {
		if v, ok := p.Attributes.Get(k); ok && v.Present() {
			return v
		}
	}
	want := utils.NormalizeHeader(key)
	for _, k := range p.Attributes.Keys() {
		if utils.NormalizeHeader(k) == want {
			if v, _ := p.Attributes.Get(k); v.Present() {
				return v
			}
		}
	}

	if canonical := canonicalColumn(col); canonical != "" {
		return property.Resolve(&p.Attributes, canonical)
	}
	return property.Null()
}

func canonicalColumn(col complex.Column) string {
	for _, h := range []string{col.Key, col.Label} {
		if canonical, ok := property.CanonicalFor(h); ok {
			return canonical
		}
	}
	return ""
}

func isClientHeader(h string) bool {
	return utils.NormalizeHeader(h) == "client"
}

// ExportRows builds the cell values of every property for cols.
func ExportRows(props []property.Property, cols []complex.Column) [][]property.Value {
	rows := make([][]property.Value, len(props))
	for i := range props {
		row := make([]property.Value, len(cols))
		for j, col := range cols {
			row[j] = CellValue(&props[i], col)
		}
		rows[i] = row
	}
	return rows
}
