package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice is a monthly bill for a client. Status is stored as GENERATED or
// PAID; OVERDUE is derived from the due date when read and persisted by the
// nightly sweep.
type Invoice struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_invoices_client_period" json:"clientId"`
	Client        *Client   `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	InvoiceNumber string    `gorm:"type:text;not null;uniqueIndex" json:"invoiceNumber"`

	// Period
	Month       int       `gorm:"type:integer;not null;uniqueIndex:idx_invoices_client_period" json:"month"`
	Year        int       `gorm:"type:integer;not null;uniqueIndex:idx_invoices_client_period" json:"year"`
	InvoiceDate time.Time `gorm:"type:date;not null" json:"invoiceDate"`
	DueDate     time.Time `gorm:"type:date;not null;index" json:"dueDate"`

	// Amount
	Amount           decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Currency         string          `gorm:"type:text;not null" json:"currency"`
	AmountOverridden bool            `gorm:"type:boolean;not null" json:"amountOverridden"`
	Description      string          `gorm:"type:text" json:"description,omitempty"`
	PaymentTerms     string          `gorm:"type:text" json:"paymentTerms,omitempty"`

	// Payment
	Status      string     `gorm:"type:text;not null;index" json:"status"`
	PaymentDate *time.Time `json:"paymentDate,omitempty"`
	FileRef     string     `gorm:"type:text" json:"fileRef,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Invoice) TableName() string {
	return "invoices"
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
