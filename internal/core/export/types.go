package export

import (
	"fmt"
	"io"
	"strings"
	"time"
)

type Format string

const (
	FormatPDF   Format = "pdf"
	FormatExcel Format = "excel"
	FormatCSV   Format = "csv"
)

// ParseFormat accepts the format names used in query strings.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pdf":
		return FormatPDF, nil
	case "excel", "xlsx":
		return FormatExcel, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unsupported export format: %q", s)
}

// Exporter writes a table in one file format.
type Exporter interface {
	Export(table *Table, w io.Writer) error
	ContentType() string
	FileExtension() string
}

// Column describes one column of an exported table. Width is relative.
type Column struct {
	Header     string
	Width      float64
	AlignRight bool
}

// Table is the data to be exported. Cell values are strings or numbers;
// numbers stay numeric in spreadsheets.
type Table struct {
	Title       string
	Subtitle    string
	GeneratedAt time.Time
	Columns     []Column
	Rows        [][]interface{}
	Footer      []interface{}
	Style       Style
}

func (t *Table) Headers() []string {
	headers := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = c.Header
	}
	return headers
}

// Style defines styling options shared by the PDF and Excel exporters.
type Style struct {
	Landscape     bool
	FontSize      float64
	HeaderBgColor string
	RowBgColor1   string
	RowBgColor2   string
	FreezeHeader  bool
	AutoFilter    bool
}

func DefaultStyle() Style {
	return Style{
		Landscape:     true,
		FontSize:      9,
		HeaderBgColor: "#4472C4",
		RowBgColor1:   "#FFFFFF",
		RowBgColor2:   "#F2F2F2",
		FreezeHeader:  true,
		AutoFilter:    true,
	}
}

func cellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return fmt.Sprintf("%.2f", val)
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.Format("2006-01-02")
	case *time.Time:
		if val == nil {
			return ""
		}
		return val.Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", val)
	}
}
