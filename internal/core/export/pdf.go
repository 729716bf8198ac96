package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfHeaderHeight = 7.0
	pdfRowHeight    = 6.0
)

// PDFExporter implements PDF export using gofpdf. Only core fonts are used,
// so text is translated to cp1252.
type PDFExporter struct {
	pageSize string
}

func NewPDFExporter() *PDFExporter {
	return &PDFExporter{pageSize: "A4"}
}

func (p *PDFExporter) Export(table *Table, w io.Writer) error {
	if len(table.Columns) == 0 {
		return fmt.Errorf("no columns provided")
	}

	orientation := "P"
	if table.Style.Landscape {
		orientation = "L"
	}
	fontSize := table.Style.FontSize
	if fontSize <= 0 {
		fontSize = 9
	}

	pdf := gofpdf.New(orientation, "mm", p.pageSize, "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(false, 10)
	pdf.AddPage()

	if table.Title != "" {
		pdf.SetFont("Arial", "B", 16)
		pdf.Cell(0, 10, tr(table.Title))
		pdf.Ln(10)
	}
	if table.Subtitle != "" {
		pdf.SetFont("Arial", "", fontSize+1)
		pdf.MultiCell(0, 5, tr(table.Subtitle), "", "", false)
	}
	if !table.GeneratedAt.IsZero() {
		pdf.SetFont("Arial", "I", 8)
		pdf.Cell(0, 5, "Generated: "+table.GeneratedAt.Format("2006-01-02 15:04 MST"))
		pdf.Ln(8)
	}

	widths := p.columnWidths(pdf, table.Columns)
	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottomMargin := pdf.GetMargins()

	drawHeader := func() {
		pdf.SetFont("Arial", "B", fontSize)
		r, g, b := hexToRGB(table.Style.HeaderBgColor)
		pdf.SetFillColor(r, g, b)
		pdf.SetTextColor(255, 255, 255)
		for i, col := range table.Columns {
			pdf.CellFormat(widths[i], pdfHeaderHeight, tr(col.Header), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Arial", "", fontSize)
	}

	drawRow := func(values []interface{}, fill bool) {
		for i := range table.Columns {
			var v interface{}
			if i < len(values) {
				v = values[i]
			}
			align := "L"
			if table.Columns[i].AlignRight {
				align = "R"
			}
			pdf.CellFormat(widths[i], pdfRowHeight, tr(cellString(v)), "1", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
	}

	drawHeader()
	for idx, row := range table.Rows {
		if pdf.GetY()+pdfRowHeight > pageHeight-bottomMargin {
			pdf.AddPage()
			drawHeader()
		}
		color := table.Style.RowBgColor1
		if idx%2 == 1 {
			color = table.Style.RowBgColor2
		}
		r, g, b := hexToRGB(color)
		pdf.SetFillColor(r, g, b)
		drawRow(row, true)
	}

	if len(table.Footer) > 0 {
		pdf.SetFont("Arial", "B", fontSize)
		drawRow(table.Footer, false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

func (p *PDFExporter) ContentType() string {
	return "application/pdf"
}

func (p *PDFExporter) FileExtension() string {
	return ".pdf"
}

// columnWidths spreads the usable page width by relative column width.
func (p *PDFExporter) columnWidths(pdf *gofpdf.Fpdf, cols []Column) []float64 {
	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageWidth - left - right

	total := 0.0
	for _, c := range cols {
		total += relWidth(c)
	}

	widths := make([]float64, len(cols))
	for i, c := range cols {
		widths[i] = usable * relWidth(c) / total
	}
	return widths
}

func relWidth(c Column) float64 {
	if c.Width <= 0 {
		return 10
	}
	return c.Width
}

func hexToRGB(hex string) (int, int, int) {
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) != 6 {
		return 255, 255, 255
	}
	var r, g, b int
	fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b)
	return r, g, b
}
