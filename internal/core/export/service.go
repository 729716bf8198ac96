package export

import (
	"bytes"
	"fmt"
)

// Service picks the exporter for a format.
type Service struct {
	exporters map[Format]Exporter
}

func NewService() *Service {
	return &Service{
		exporters: map[Format]Exporter{
			FormatPDF:   NewPDFExporter(),
			FormatExcel: NewExcelExporter(),
			FormatCSV:   NewCSVExporter(),
		},
	}
}

// File is a rendered export.
type File struct {
	Data        []byte
	ContentType string
	Extension   string
}

func (s *Service) Export(table *Table, format Format) (*File, error) {
	exporter, ok := s.exporters[format]
	if !ok {
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
	if len(table.Columns) == 0 {
		return nil, fmt.Errorf("no columns provided")
	}

	var buf bytes.Buffer
	if err := exporter.Export(table, &buf); err != nil {
		return nil, fmt.Errorf("%s export failed: %w", format, err)
	}

	return &File{
		Data:        buf.Bytes(),
		ContentType: exporter.ContentType(),
		Extension:   exporter.FileExtension(),
	}, nil
}
