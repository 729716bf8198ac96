package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/pricing"
)

// Plan is a catalog entry clients subscribe to. Plans are reference data
// loaded by the seeder and never edited through the API.
type Plan struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string          `gorm:"type:text;not null;uniqueIndex" json:"name"`
	Description     string          `gorm:"type:text" json:"description,omitempty"`
	PricePerMonth   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"pricePerMonth"`
	CreditsPerMonth int             `gorm:"type:integer;not null" json:"creditsPerMonth"`

	Configuration pricing.PlanConfiguration `gorm:"embedded" json:"planConfiguration"`

	IsActive bool `gorm:"type:boolean;not null" json:"isActive"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Plan) TableName() string {
	return "plans"
}

func (p *Plan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
