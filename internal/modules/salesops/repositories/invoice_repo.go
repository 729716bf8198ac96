package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/invoicing"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/models"
)

type InvoiceRepo interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Invoice, error)
	List(ctx context.Context, filter models.InvoiceFilter, today time.Time) ([]models.Invoice, int64, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Invoice, error)
	ListPaidByClients(ctx context.Context, clientIDs []uuid.UUID) ([]models.Invoice, error)
	ListPaidBetween(ctx context.Context, start, end time.Time) ([]models.Invoice, error)
	ExistsForPeriod(ctx context.Context, clientID uuid.UUID, month, year int) (bool, error)
	NumbersWithPrefix(ctx context.Context, prefix string) ([]string, error)
	MarkPaid(ctx context.Context, ids []uuid.UUID, paidAt time.Time) (int64, error)
	MarkOverdue(ctx context.Context, today time.Time) (int64, error)
	SetFileRef(ctx context.Context, id uuid.UUID, ref string) error
}

type invoiceRepo struct {
	db *gorm.DB
}

func NewInvoiceRepo(db *gorm.DB) InvoiceRepo {
	return &invoiceRepo{db: db}
}

func (r *invoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(invoice).Error
}

func (r *invoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).Preload("Client").First(&invoice, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Invoice, error) {
	var invoices []models.Invoice
	if len(ids) == 0 {
		return invoices, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Client").
		Where("id IN ?", ids).
		Order("invoice_number ASC").
		Find(&invoices).Error
	return invoices, err
}

// List filters by effective status: an unpaid invoice whose due date is
// before today counts as OVERDUE even if the sweep has not run yet.
func (r *invoiceRepo) List(ctx context.Context, filter models.InvoiceFilter, today time.Time) ([]models.Invoice, int64, error) {
	var invoices []models.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Invoice{})

	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Month > 0 {
		query = query.Where("month = ?", filter.Month)
	}
	if filter.Year > 0 {
		query = query.Where("year = ?", filter.Year)
	}

	switch invoicing.Status(filter.Status) {
	case invoicing.StatusPaid:
		query = query.Where("status = ?", invoicing.StatusPaid)
	case invoicing.StatusOverdue:
		query = query.Where("status = ? OR (status = ? AND due_date < ?)",
			invoicing.StatusOverdue, invoicing.StatusGenerated, today)
	case invoicing.StatusGenerated:
		query = query.Where("status = ? AND due_date >= ?", invoicing.StatusGenerated, today)
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := containsPattern(search)
		query = query.Where(`LOWER(invoice_number) LIKE ? ESCAPE '\' OR client_id IN (?)`, pattern,
			r.db.Model(&models.Client{}).Select("id").Where(`LOWER(business_name) LIKE ? ESCAPE '\'`, pattern))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Pagination.Normalize()
	err := query.Preload("Client").
		Offset(page.Offset()).
		Limit(page.Limit).
		Order("invoice_date DESC, invoice_number DESC").
		Find(&invoices).Error
	if err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

func (r *invoiceRepo) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("invoice_date DESC, invoice_number DESC").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepo) ListPaidByClients(ctx context.Context, clientIDs []uuid.UUID) ([]models.Invoice, error) {
	var invoices []models.Invoice
	if len(clientIDs) == 0 {
		return invoices, nil
	}
	err := r.db.WithContext(ctx).
		Select("id", "client_id", "amount", "currency", "payment_date").
		Where("client_id IN ? AND status = ?", clientIDs, invoicing.StatusPaid).
		Find(&invoices).Error
	return invoices, err
}

// ListPaidBetween returns invoices paid in [start, end).
func (r *invoiceRepo) ListPaidBetween(ctx context.Context, start, end time.Time) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).
		Where("status = ? AND payment_date >= ? AND payment_date < ?", invoicing.StatusPaid, start, end).
		Order("payment_date ASC").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepo) ExistsForPeriod(ctx context.Context, clientID uuid.UUID, month, year int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("client_id = ? AND month = ? AND year = ?", clientID, month, year).
		Count(&count).Error
	return count > 0, err
}

// NumbersWithPrefix lists every invoice number starting with prefix.
func (r *invoiceRepo) NumbersWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	var numbers []string
	err := r.db.WithContext(ctx).Model(&models.Invoice{}).
		Where(`invoice_number LIKE ? ESCAPE '\'`, prefixPattern(prefix)).
		Pluck("invoice_number", &numbers).Error
	return numbers, err
}

// MarkPaid settles every listed invoice that is not paid yet in a single
// statement and returns how many rows changed.
func (r *invoiceRepo) MarkPaid(ctx context.Context, ids []uuid.UUID, paidAt time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("id IN ? AND status <> ?", ids, invoicing.StatusPaid).
		Updates(map[string]interface{}{
			"status":       invoicing.StatusPaid,
			"payment_date": paidAt,
			"updated_at":   paidAt,
		})
	return result.RowsAffected, result.Error
}

// MarkOverdue persists OVERDUE on unpaid invoices due before today.
func (r *invoiceRepo) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("status = ? AND due_date < ?", invoicing.StatusGenerated, today).
		Updates(map[string]interface{}{
			"status":     invoicing.StatusOverdue,
			"updated_at": time.Now().UTC(),
		})
	return result.RowsAffected, result.Error
}

func (r *invoiceRepo) SetFileRef(ctx context.Context, id uuid.UUID, ref string) error {
	res := r.db.WithContext(ctx).Model(&models.Invoice{}).Where("id = ?", id).Update("file_ref", ref)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
