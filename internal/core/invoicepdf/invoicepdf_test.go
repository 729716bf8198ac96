package invoicepdf

import (
	"archive/zip"
	"bytes"
	"testing"
	"time"
)

func sampleDocument() Document {
	return Document{
		Number:      "INV-202403-0001",
		Period:      "March 2024",
		InvoiceDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:     time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		Status:      "GENERATED",
		From:        Party{Name: "Sales Ops", Email: "billing@example.com"},
		BillTo:      Party{Name: "Acme", Contact: "Jane Doe"},
		Lines: []Line{
			{Description: "Growth plan - licenses", Quantity: "10", UnitPrice: "USD 50.00", Amount: "USD 500.00"},
		},
		Summary: []SummaryRow{
			{Label: "Subtotal", Value: "USD 500.00"},
			{Label: "Discount (20%)", Value: "-USD 100.00"},
			{Label: "Total", Value: "USD 400.00", Bold: true},
		},
		Terms: "Net 30",
	}
}

func TestRender(t *testing.T) {
	data, err := NewRenderer().Render(sampleDocument())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("output is not a PDF")
	}
	if got := sampleDocument().FileName(); got != "INV-202403-0001.pdf" {
		t.Fatalf("file name %q", got)
	}
}

func TestZip(t *testing.T) {
	files := []File{
		{Name: "a.pdf", Data: []byte("one")},
		{Name: "b.pdf", Data: []byte("two")},
		{Name: "a.pdf", Data: []byte("three")},
	}
	data, err := Zip(files, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("zip: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("read zip: %v", err)
	}
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	if len(names) != 3 || names[0] != "a.pdf" || names[1] != "b.pdf" || names[2] != "1-a.pdf" {
		t.Fatalf("unexpected names %v", names)
	}
}
