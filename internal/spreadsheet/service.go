package spreadsheet

import (
	"bytes"
	"context"
	"time"

	"github.com/vanzari-imobiliare/api/internal/complex"
	"github.com/vanzari-imobiliare/api/internal/logging"
	"github.com/vanzari-imobiliare/api/internal/property"
)

// ImportSummary reports a finished import.
type ImportSummary struct {
	Imported int      `json:"imported"`
	Headers  []string `json:"headers"`
}

// Export is a rendered workbook ready to be sent.
type Export struct {
	FileName string
	Data     []byte
}

type Service struct {
	Properties *property.Service
	Now        func() time.Time
}

func NewService(props *property.Service) *Service {
	return &Service{Properties: props, Now: time.Now}
}

// Import replaces every property of a complex with the rows of the first
// sheet of the file and adopts its header row as the column schema.
func (s *Service) Import(ctx context.Context, complexID uint, filename string, data []byte) (ImportSummary, error) {
	rows, err := ReadRows(data, filename)
	if err != nil {
		return ImportSummary{}, err
	}
	props, headers, err := MapImport(rows)
	if err != nil {
		return ImportSummary{}, err
	}
	if err := s.Properties.ReplaceComplexProperties(ctx, complexID, props, complex.ColumnsFromHeaders(headers)); err != nil {
		return ImportSummary{}, err
	}
	logging.FromContext(ctx).Info("spreadsheet imported",
		"complex_id", complexID, "file", filename, "properties", len(props), "columns", len(headers))
	return ImportSummary{Imported: len(props), Headers: headers}, nil
}

// Export renders the filtered properties of a complex as an .xlsx workbook.
func (s *Service) Export(ctx context.Context, complexID uint, f property.Filter) (*Export, error) {
	c, err := s.Properties.Complex(ctx, complexID)
	if err != nil {
		return nil, err
	}
	props, err := s.Properties.List(ctx, complexID, f)
	if err != nil {
		return nil, err
	}

	cols := ExportColumns(c, props)
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, SheetName(c.Name), cols, ExportRows(props, cols)); err != nil {
		return nil, err
	}
	return &Export{FileName: FileName(c.Name, s.Now()), Data: buf.Bytes()}, nil
}
