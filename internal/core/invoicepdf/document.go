package invoicepdf

import "time"

// Party is a name and address block on the invoice.
type Party struct {
	Name    string
	Contact string
	Email   string
	Address string
}

// Line is one billed item. Values are preformatted.
type Line struct {
	Description string
	Quantity    string
	UnitPrice   string
	Amount      string
}

// SummaryRow is a label/value pair under the line items.
type SummaryRow struct {
	Label string
	Value string
	Bold  bool
}

// Document is everything printed on one invoice.
type Document struct {
	Number      string
	Period      string
	InvoiceDate time.Time
	DueDate     time.Time
	Status      string
	PaidOn      *time.Time

	From   Party
	BillTo Party

	Lines   []Line
	Summary []SummaryRow
	Terms   string
	Notes   string
}

// FileName is the name used for the PDF inside downloads and archives.
func (d Document) FileName() string {
	return d.Number + ".pdf"
}
