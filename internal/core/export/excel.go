package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// numFmtTwoDecimals is excelize's built-in "#,##0.00" format.
const numFmtTwoDecimals = 4

// ExcelExporter implements Excel export using excelize
type ExcelExporter struct {
	sheetName string
}

func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{sheetName: "Overview"}
}

func (e *ExcelExporter) Export(table *Table, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", e.sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	row := 1
	if table.Title != "" {
		titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
		if err != nil {
			return fmt.Errorf("failed to create title style: %w", err)
		}
		e.set(f, 1, row, table.Title, titleStyle)
		row++
		if table.Subtitle != "" {
			e.set(f, 1, row, table.Subtitle, 0)
			row++
		}
		if !table.GeneratedAt.IsZero() {
			e.set(f, 1, row, "Generated "+table.GeneratedAt.Format("2006-01-02 15:04 MST"), 0)
			row++
		}
		row++
	}

	styles, err := e.createStyles(f, table.Style)
	if err != nil {
		return err
	}

	headerRow := row
	for i, col := range table.Columns {
		e.set(f, i+1, row, col.Header, styles.header)
		if col.Width > 0 {
			name, _ := excelize.ColumnNumberToName(i + 1)
			_ = f.SetColWidth(e.sheetName, name, name, col.Width)
		}
	}
	row++

	for idx, values := range table.Rows {
		for i, v := range values {
			e.set(f, i+1, row, v, styles.cell(idx, i < len(table.Columns) && table.Columns[i].AlignRight))
		}
		row++
	}

	if len(table.Footer) > 0 {
		for i, v := range table.Footer {
			e.set(f, i+1, row, v, styles.footer)
		}
	}

	if table.Style.FreezeHeader {
		_ = f.SetPanes(e.sheetName, &excelize.Panes{
			Freeze:      true,
			YSplit:      headerRow,
			TopLeftCell: fmt.Sprintf("A%d", headerRow+1),
			ActivePane:  "bottomLeft",
		})
	}

	if table.Style.AutoFilter && len(table.Rows) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(table.Columns), headerRow+len(table.Rows))
		_ = f.AutoFilter(e.sheetName, fmt.Sprintf("A%d:%s", headerRow, last), nil)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

func (e *ExcelExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (e *ExcelExporter) FileExtension() string {
	return ".xlsx"
}

func (e *ExcelExporter) set(f *excelize.File, col, row int, value interface{}, style int) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return
	}
	switch v := value.(type) {
	case string, float64, int, int64, nil:
		_ = f.SetCellValue(e.sheetName, cell, v)
	default:
		_ = f.SetCellValue(e.sheetName, cell, cellString(v))
	}
	if style != 0 {
		_ = f.SetCellStyle(e.sheetName, cell, cell, style)
	}
}

type excelStyles struct {
	header                int
	footer                int
	odd, even             int
	oddNumber, evenNumber int
}

func (s excelStyles) cell(rowIdx int, numeric bool) int {
	switch {
	case rowIdx%2 == 0 && numeric:
		return s.oddNumber
	case rowIdx%2 == 0:
		return s.odd
	case numeric:
		return s.evenNumber
	default:
		return s.even
	}
}

func (e *ExcelExporter) createStyles(f *excelize.File, style Style) (excelStyles, error) {
	var s excelStyles
	var err error

	s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: style.FontSize + 1, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{hexColor(style.HeaderBgColor)}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return s, fmt.Errorf("failed to create header style: %w", err)
	}

	s.footer, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: style.FontSize + 1},
		NumFmt: numFmtTwoDecimals,
	})
	if err != nil {
		return s, fmt.Errorf("failed to create footer style: %w", err)
	}

	row := func(bg string, numeric bool) (int, error) {
		st := &excelize.Style{Font: &excelize.Font{Size: style.FontSize + 1}}
		if bg != "" && !strings.EqualFold(bg, "#FFFFFF") {
			st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{hexColor(bg)}}
		}
		if numeric {
			st.NumFmt = numFmtTwoDecimals
			st.Alignment = &excelize.Alignment{Horizontal: "right"}
		}
		return f.NewStyle(st)
	}

	for _, target := range []struct {
		dst     *int
		bg      string
		numeric bool
	}{
		{&s.odd, style.RowBgColor1, false},
		{&s.even, style.RowBgColor2, false},
		{&s.oddNumber, style.RowBgColor1, true},
		{&s.evenNumber, style.RowBgColor2, true},
	} {
		if *target.dst, err = row(target.bg, target.numeric); err != nil {
			return s, fmt.Errorf("failed to create row style: %w", err)
		}
	}
	return s, nil
}

func hexColor(color string) string {
	return strings.TrimPrefix(color, "#")
}
