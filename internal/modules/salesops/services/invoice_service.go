package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/invoicepdf"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/invoicing"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/pricing"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/storage"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/models"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/repositories"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/apperr"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/utils"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/validation"
)

// BulkActionMarkPaid is the only bulk action supported so far.
const BulkActionMarkPaid = "mark-paid"

// InvoiceOptions configures numbering and the issuer printed on PDFs. With
// a Store, the PDF as issued is archived and referenced by fileRef.
type InvoiceOptions struct {
	NumberPrefix string
	Issuer       invoicepdf.Party
	Store        storage.Provider
}

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

type InvoiceService struct {
	repo     repositories.InvoiceRepo
	clients  repositories.ClientRepo
	renderer *invoicepdf.Renderer
	opts     InvoiceOptions
	audit    auditor
	now      Clock
}

func NewInvoiceService(
	repo repositories.InvoiceRepo,
	clients repositories.ClientRepo,
	renderer *invoicepdf.Renderer,
	auditSvc *audit.Service,
	opts InvoiceOptions,
) *InvoiceService {
	if opts.NumberPrefix == "" {
		opts.NumberPrefix = "INV"
	}
	return &InvoiceService{
		repo:     repo,
		clients:  clients,
		renderer: renderer,
		opts:     opts,
		audit:    auditor{svc: auditSvc},
		now:      systemClock,
	}
}

// SetClock replaces the time source.
func (s *InvoiceService) SetClock(now Clock) {
	s.now = now
}

// GenerateInput is the body of invoice generation. Everything except the
// period is optional.
type GenerateInput struct {
	Month          int              `json:"month"`
	Year           int              `json:"year"`
	AmountOverride *decimal.Decimal `json:"amountOverride"`
	Description    string           `json:"description" validate:"max=1000"`
	InvoiceDate    string           `json:"invoiceDate"`
	DueDate        string           `json:"dueDate"`
	InvoiceNumber  string           `json:"invoiceNumber" validate:"max=64"`
	PaymentTerms   string           `json:"paymentTerms" validate:"max=200"`
}

type BulkInput struct {
	Action string      `json:"action" validate:"required,oneof=mark-paid"`
	IDs    []uuid.UUID `json:"ids" validate:"required,min=1,max=500"`
}

type BulkDownloadInput struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1,max=500"`
}

// BulkResult reports how a bulk action went. Skipped counts invoices that
// exist but were already in the target state.
type BulkResult struct {
	Requested int         `json:"requested"`
	Affected  int64       `json:"affected"`
	Skipped   int64       `json:"skipped"`
	NotFound  []uuid.UUID `json:"notFound"`
}

// InvoiceView is an invoice with its status as of today and a display amount.
type InvoiceView struct {
	models.Invoice
	ClientName    string `json:"clientName,omitempty"`
	AmountDisplay string `json:"amountDisplay"`
}

func (s *InvoiceService) view(inv models.Invoice) InvoiceView {
	inv.Status = string(invoicing.EffectiveStatus(invoicing.Status(inv.Status), inv.DueDate, s.now()))
	v := InvoiceView{
		Invoice:       inv,
		AmountDisplay: pricing.FormatMoney(inv.Amount, pricing.Currency(inv.Currency)),
	}
	if inv.Client != nil {
		v.ClientName = inv.Client.BusinessName
		v.Invoice.Client = nil
	}
	return v
}

// Generate creates the invoice of a client for one month. The amount is the
// client's final cost unless overridden.
func (s *InvoiceService) Generate(ctx context.Context, meta audit.RequestMeta, clientID uuid.UUID, in GenerateInput) (*InvoiceView, error) {
	if err := invoicing.ValidatePeriod(in.Month, in.Year); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, apperr.FromDB(err, "client")
	}

	exists, err := s.repo.ExistsForPeriod(ctx, clientID, in.Month, in.Year)
	if err != nil {
		return nil, apperr.FromDB(err, "invoice")
	}
	if exists {
		return nil, apperr.Conflict(fmt.Sprintf("invoice for %02d/%d already exists for this client", in.Month, in.Year))
	}

	cost := client.Cost()
	amount, overridden, err := invoicing.ResolveAmount(cost.FinalCost, in.AmountOverride)
	if err != nil {
		return nil, err
	}

	invoiceDate, dueDate := invoicing.DefaultDates(in.Month, in.Year)
	if d, err := optionalDate("invoiceDate", in.InvoiceDate); err != nil {
		return nil, err
	} else if d != nil {
		invoiceDate = *d
	}
	if d, err := optionalDate("dueDate", in.DueDate); err != nil {
		return nil, err
	} else if d != nil {
		dueDate = *d
	}
	if dueDate.Before(invoiceDate) {
		return nil, apperr.Validation("dueDate", "must not be before invoiceDate")
	}

	number := strings.TrimSpace(in.InvoiceNumber)
	if number == "" {
		number, err = s.nextNumber(ctx, in.Month, in.Year)
		if err != nil {
			return nil, err
		}
	}

	description := strings.TrimSpace(in.Description)
	if description == "" {
		description = fmt.Sprintf("%s - %s %d", client.PlanName(), time.Month(in.Month), in.Year)
	}
	terms := strings.TrimSpace(in.PaymentTerms)
	if terms == "" {
		terms = client.PaymentTerms
	}

	invoice := &models.Invoice{
		ClientID:         client.ID,
		InvoiceNumber:    number,
		Month:            in.Month,
		Year:             in.Year,
		InvoiceDate:      invoiceDate,
		DueDate:          dueDate,
		Amount:           amount.Round(2),
		Currency:         client.Currency,
		AmountOverridden: overridden,
		Description:      description,
		PaymentTerms:     terms,
		Status:           string(invoicing.StatusGenerated),
	}
	if err := s.repo.Create(ctx, invoice); err != nil {
		if apperr.IsUniqueViolation(err) {
			return nil, apperr.Conflict("invoice number or period already in use")
		}
		return nil, apperr.FromDB(err, "invoice")
	}

	s.audit.record(ctx, audit.Entry{
		Meta:        meta,
		ClientID:    uuidPtr(client.ID),
		Action:      audit.ActionGenerate,
		Entity:      audit.EntityInvoice,
		EntityID:    invoice.ID.String(),
		NewValue:    invoice,
		Description: "invoice " + invoice.InvoiceNumber + " generated",
	})
	utils.LogInfo("invoice generated", map[string]interface{}{
		"invoice_number": invoice.InvoiceNumber,
		"client_id":      client.ID.String(),
		"amount":         invoice.Amount.String(),
		"overridden":     overridden,
	})

	invoice.Client = client
	s.archive(ctx, invoice)
	v := s.view(*invoice)
	return &v, nil
}

// archive stores the issued PDF and records its key. Failures are logged;
// the invoice stays valid and can always be rendered again.
func (s *InvoiceService) archive(ctx context.Context, invoice *models.Invoice) {
	if s.opts.Store == nil {
		return
	}
	fields := map[string]interface{}{"invoice_number": invoice.InvoiceNumber, "store": s.opts.Store.Name()}

	data, err := s.renderer.Render(s.document(*invoice))
	if err != nil {
		utils.LogError("failed to render invoice for archive", err, fields)
		return
	}
	key := fmt.Sprintf("invoices/%04d/%02d/%s.pdf", invoice.Year, invoice.Month,
		unsafeKeyChars.ReplaceAllString(invoice.InvoiceNumber, "_"))
	obj, err := s.opts.Store.Put(ctx, key, data, "application/pdf")
	if err != nil {
		utils.LogError("failed to archive invoice", err, fields)
		return
	}
	if err := s.repo.SetFileRef(ctx, invoice.ID, obj.Key); err != nil {
		utils.LogError("failed to record invoice file", err, fields)
		if derr := s.opts.Store.Delete(ctx, obj.Key); derr != nil {
			utils.LogWarn("orphaned invoice file", map[string]interface{}{"key": obj.Key})
		}
		return
	}
	invoice.FileRef = obj.Key
}

func (s *InvoiceService) nextNumber(ctx context.Context, month, year int) (string, error) {
	prefix := invoicing.NumberPrefix(s.opts.NumberPrefix, month, year)
	taken, err := s.repo.NumbersWithPrefix(ctx, prefix)
	if err != nil {
		return "", apperr.FromDB(err, "invoice")
	}
	return invoicing.FormatNumber(s.opts.NumberPrefix, month, year, invoicing.NextSequence(prefix, taken)), nil
}

func (s *InvoiceService) Get(ctx context.Context, id uuid.UUID) (*InvoiceView, error) {
	invoice, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromDB(err, "invoice")
	}
	v := s.view(*invoice)
	return &v, nil
}

func (s *InvoiceService) List(ctx context.Context, filter models.InvoiceFilter) (PagedResult[InvoiceView], error) {
	if filter.Status != "" {
		if _, ok := invoicing.ParseStatus(filter.Status); !ok {
			return PagedResult[InvoiceView]{}, apperr.Validation("status", "must be one of [GENERATED PAID OVERDUE]")
		}
	}
	if filter.Month != 0 && (filter.Month < 1 || filter.Month > 12) {
		return PagedResult[InvoiceView]{}, apperr.Validation("month", "must be between 1 and 12")
	}

	invoices, total, err := s.repo.List(ctx, filter, invoicing.DateOnly(s.now()))
	if err != nil {
		return PagedResult[InvoiceView]{}, apperr.FromDB(err, "invoice")
	}
	views := make([]InvoiceView, len(invoices))
	for i := range invoices {
		views[i] = s.view(invoices[i])
	}
	return newPage(views, total, filter.Pagination), nil
}

// MarkPaid settles one invoice. Paying an invoice twice is a conflict.
func (s *InvoiceService) MarkPaid(ctx context.Context, meta audit.RequestMeta, id uuid.UUID) (*InvoiceView, error) {
	invoice, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromDB(err, "invoice")
	}
	if err := invoicing.CanMarkPaid(invoicing.Status(invoice.Status)); err != nil {
		return nil, err
	}

	paidAt := s.now().UTC()
	affected, err := s.repo.MarkPaid(ctx, []uuid.UUID{id}, paidAt)
	if err != nil {
		return nil, apperr.FromDB(err, "invoice")
	}
	if affected == 0 {
		// paid concurrently between the read and the update
		return nil, apperr.Conflict("invoice already paid")
	}

	before := invoice.Status
	invoice.Status = string(invoicing.StatusPaid)
	invoice.PaymentDate = &paidAt

	s.audit.record(ctx, audit.Entry{
		Meta:     meta,
		ClientID: uuidPtr(invoice.ClientID),
		Action:   audit.ActionMarkPaid,
		Entity:   audit.EntityInvoice,
		EntityID: invoice.ID.String(),
		OldValue: map[string]interface{}{"status": before},
		NewValue: map[string]interface{}{"status": invoice.Status, "paymentDate": paidAt},
	})

	v := s.view(*invoice)
	return &v, nil
}

// Bulk applies an action to many invoices in one statement. Already-paid
// invoices are left untouched and counted as skipped.
func (s *InvoiceService) Bulk(ctx context.Context, meta audit.RequestMeta, in BulkInput) (*BulkResult, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	ids := uniqueIDs(in.IDs)

	found, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.FromDB(err, "invoice")
	}
	existing := make([]uuid.UUID, 0, len(found))
	seen := make(map[uuid.UUID]bool, len(found))
	for _, inv := range found {
		existing = append(existing, inv.ID)
		seen[inv.ID] = true
	}
	notFound := []uuid.UUID{}
	for _, id := range ids {
		if !seen[id] {
			notFound = append(notFound, id)
		}
	}

	paidAt := s.now().UTC()
	affected, err := s.repo.MarkPaid(ctx, existing, paidAt)
	if err != nil {
		return nil, apperr.FromDB(err, "invoice")
	}

	result := &BulkResult{
		Requested: len(ids),
		Affected:  affected,
		Skipped:   int64(len(existing)) - affected,
		NotFound:  notFound,
	}

	if affected > 0 {
		s.audit.record(ctx, audit.Entry{
			Meta:        meta,
			Action:      audit.ActionMarkPaid,
			Entity:      audit.EntityInvoice,
			EntityID:    "bulk",
			NewValue:    map[string]interface{}{"ids": existing, "affected": affected, "paymentDate": paidAt},
			Description: fmt.Sprintf("bulk mark-paid: %d of %d invoices", affected, len(ids)),
		})
	}
	utils.LogInfo("bulk invoice action", map[string]interface{}{
		"action":    in.Action,
		"requested": result.Requested,
		"affected":  result.Affected,
		"skipped":   result.Skipped,
	})
	return result, nil
}

// SweepOverdue persists OVERDUE on unpaid invoices whose due day has passed.
func (s *InvoiceService) SweepOverdue(ctx context.Context) (int64, error) {
	n, err := s.repo.MarkOverdue(ctx, invoicing.DateOnly(s.now()))
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue invoices: %w", err)
	}
	return n, nil
}

// Download renders one invoice as PDF.
func (s *InvoiceService) Download(ctx context.Context, id uuid.UUID) (*invoicepdf.File, error) {
	invoice, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromDB(err, "invoice")
	}
	doc := s.document(*invoice)
	data, err := s.renderer.Render(doc)
	if err != nil {
		return nil, apperr.Internal("failed to render invoice", err)
	}
	return &invoicepdf.File{Name: doc.FileName(), Data: data}, nil
}

// DownloadIssued returns the archived PDF exactly as it was issued.
func (s *InvoiceService) DownloadIssued(ctx context.Context, id uuid.UUID) (*invoicepdf.File, error) {
	invoice, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromDB(err, "invoice")
	}
	if s.opts.Store == nil || invoice.FileRef == "" {
		return nil, apperr.NotFound("issued invoice copy")
	}
	data, err := s.opts.Store.Get(ctx, invoice.FileRef)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFound("issued invoice copy")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load issued invoice", err)
	}
	return &invoicepdf.File{Name: invoice.InvoiceNumber + "-issued.pdf", Data: data}, nil
}

// BulkDownload renders the requested invoices into one zip archive. Unknown
// ids are ignored unless none of them exist.
func (s *InvoiceService) BulkDownload(ctx context.Context, in BulkDownloadInput) ([]byte, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	invoices, err := s.repo.GetByIDs(ctx, uniqueIDs(in.IDs))
	if err != nil {
		return nil, apperr.FromDB(err, "invoice")
	}
	if len(invoices) == 0 {
		return nil, apperr.NotFound("invoice")
	}

	files := make([]invoicepdf.File, 0, len(invoices))
	for _, inv := range invoices {
		doc := s.document(inv)
		data, err := s.renderer.Render(doc)
		if err != nil {
			return nil, apperr.Internal("failed to render invoice "+inv.InvoiceNumber, err)
		}
		files = append(files, invoicepdf.File{Name: doc.FileName(), Data: data})
	}

	archive, err := invoicepdf.Zip(files, s.now())
	if err != nil {
		return nil, apperr.Internal("failed to build archive", err)
	}
	return archive, nil
}

func (s *InvoiceService) document(inv models.Invoice) invoicepdf.Document {
	currency := pricing.Currency(inv.Currency)
	amount := inv.Currency + " " + pricing.FormatAmount(inv.Amount, currency)
	status := invoicing.EffectiveStatus(invoicing.Status(inv.Status), inv.DueDate, s.now())

	doc := invoicepdf.Document{
		Number:      inv.InvoiceNumber,
		Period:      fmt.Sprintf("%s %d", time.Month(inv.Month), inv.Year),
		InvoiceDate: inv.InvoiceDate,
		DueDate:     inv.DueDate,
		Status:      string(status),
		PaidOn:      inv.PaymentDate,
		From:        s.opts.Issuer,
		Lines: []invoicepdf.Line{{
			Description: inv.Description,
			Quantity:    "1",
			UnitPrice:   amount,
			Amount:      amount,
		}},
		Summary: []invoicepdf.SummaryRow{
			{Label: "Total", Value: amount, Bold: true},
		},
		Terms: inv.PaymentTerms,
	}
	if c := inv.Client; c != nil {
		doc.BillTo = invoicepdf.Party{
			Name:    c.BusinessName,
			Contact: c.ContactName,
			Email:   c.ContactEmail,
			Address: joinNonEmpty(", ", c.Address, c.City, c.State, c.PostalCode, c.Country),
		}
	}
	return doc
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
