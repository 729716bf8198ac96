package invoicepdf

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

const dateLayout = "January 2, 2006"

// Renderer lays out invoices with maroto.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render returns the PDF bytes of doc.
func (r *Renderer) Render(doc Document) ([]byte, error) {
	m := maroto.New(config.NewBuilder().Build())

	r.header(m, doc)
	m.AddRow(8)
	r.billTo(m, doc.BillTo)
	m.AddRow(8)
	r.lines(m, doc.Lines)
	m.AddRow(4)
	r.summary(m, doc.Summary)

	if doc.Terms != "" || doc.Notes != "" {
		m.AddRow(10)
		m.AddRow(7, col.New(12).Add(text.New("Payment Information", props.Text{Size: 11, Style: fontstyle.Bold})))
		if doc.Terms != "" {
			m.AddRow(5, col.New(12).Add(text.New("Terms: "+doc.Terms, props.Text{Size: 9})))
		}
		if doc.Notes != "" {
			m.AddRow(8, col.New(12).Add(text.New(doc.Notes, props.Text{Size: 8})))
		}
	}

	document, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invoice PDF: %w", err)
	}
	return document.GetBytes(), nil
}

func (r *Renderer) header(m core.Maroto, doc Document) {
	m.AddRow(10,
		col.New(8).Add(text.New(doc.From.Name, props.Text{Size: 16, Style: fontstyle.Bold})),
		col.New(4).Add(text.New("INVOICE", props.Text{Size: 20, Style: fontstyle.BoldItalic, Align: align.Right})),
	)

	left := []string{doc.From.Address, doc.From.Email}
	right := []string{
		"Invoice #: " + doc.Number,
		"Date: " + doc.InvoiceDate.Format(dateLayout),
		"Due Date: " + doc.DueDate.Format(dateLayout),
	}
	if doc.Period != "" {
		right = append(right, "Period: "+doc.Period)
	}
	if doc.PaidOn != nil {
		right = append(right, "Paid: "+doc.PaidOn.Format(dateLayout))
	} else if doc.Status != "" {
		right = append(right, "Status: "+doc.Status)
	}

	for i := 0; i < len(right); i++ {
		leftCol := col.New(8)
		if i < len(left) && left[i] != "" {
			leftCol.Add(text.New(left[i], props.Text{Size: 9}))
		}
		style := props.Text{Size: 9, Align: align.Right}
		if i == 0 {
			style.Style = fontstyle.Bold
			style.Size = 10
		}
		m.AddRow(5, leftCol, col.New(4).Add(text.New(right[i], style)))
	}
}

func (r *Renderer) billTo(m core.Maroto, p Party) {
	m.AddRow(7, col.New(12).Add(text.New("Bill To: "+p.Name, props.Text{Size: 11, Style: fontstyle.Bold})))
	for _, s := range []string{p.Contact, p.Email, p.Address} {
		if s == "" {
			continue
		}
		m.AddRow(5, col.New(12).Add(text.New(s, props.Text{Size: 9})))
	}
}

func (r *Renderer) lines(m core.Maroto, lines []Line) {
	bold := props.Text{Size: 9, Style: fontstyle.Bold}
	boldRight := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}

	m.AddRow(8,
		col.New(6).Add(text.New("Description", bold)),
		col.New(2).Add(text.New("Qty", boldRight)),
		col.New(2).Add(text.New("Unit Price", boldRight)),
		col.New(2).Add(text.New("Amount", boldRight)),
	)
	m.AddRow(2, col.New(12).Add(line.New()))

	plain := props.Text{Size: 9}
	right := props.Text{Size: 9, Align: align.Right}
	for _, l := range lines {
		m.AddRow(6,
			col.New(6).Add(text.New(l.Description, plain)),
			col.New(2).Add(text.New(l.Quantity, right)),
			col.New(2).Add(text.New(l.UnitPrice, right)),
			col.New(2).Add(text.New(l.Amount, right)),
		)
	}
	m.AddRow(2, col.New(12).Add(line.New()))
}

func (r *Renderer) summary(m core.Maroto, rows []SummaryRow) {
	for _, row := range rows {
		style := props.Text{Size: 9, Align: align.Right}
		if row.Bold {
			style.Style = fontstyle.Bold
			style.Size = 10
		}
		m.AddRow(6,
			col.New(6),
			col.New(3).Add(text.New(row.Label, style)),
			col.New(3).Add(text.New(row.Value, style)),
		)
	}
}
