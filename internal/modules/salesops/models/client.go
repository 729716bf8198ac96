package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/pricing"
)

// SdrAllocation records how many licenses an SDR works for a client.
type SdrAllocation struct {
	SdrID    uuid.UUID `json:"sdrId"`
	Licenses int       `json:"licenses"`
}

// Client is a customer business. Cost figures are derived from the plan and
// the pricing fields on every read and never stored.
type Client struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	// Business
	BusinessName string `gorm:"type:text;not null;index" json:"businessName"`
	ContactName  string `gorm:"type:text;not null" json:"contactName"`
	ContactEmail string `gorm:"type:text" json:"contactEmail,omitempty"`
	ContactPhone string `gorm:"type:text" json:"contactPhone,omitempty"`

	// Address
	Address    string `gorm:"type:text" json:"address,omitempty"`
	City       string `gorm:"type:text" json:"city,omitempty"`
	State      string `gorm:"type:text" json:"state,omitempty"`
	Country    string `gorm:"type:text" json:"country,omitempty"`
	PostalCode string `gorm:"type:text" json:"postalCode,omitempty"`

	// Plan: either PlanID or CustomPlanName is set
	PlanID         *uuid.UUID `gorm:"type:uuid;index" json:"planId,omitempty"`
	Plan           *Plan      `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	CustomPlanName string     `gorm:"type:text" json:"customPlanName,omitempty"`
	PlanType       string     `gorm:"type:text;not null" json:"planType"`

	// Pricing
	UnitPrice          decimal.Decimal                    `gorm:"type:numeric(14,2);not null" json:"unitPrice"`
	Currency           string                             `gorm:"type:text;not null" json:"currency"`
	DiscountPercentage decimal.Decimal                    `gorm:"type:numeric(5,2);not null" json:"discountPercentage"`
	NumberOfLicenses   int                                `gorm:"type:integer;not null" json:"numberOfLicenses"`
	NumberOfSdrs       int                                `gorm:"type:integer;not null" json:"numberOfSdrs"`
	SdrAllocations     datatypes.JSONSlice[SdrAllocation] `json:"sdrAllocations"`

	// Payment
	PaymentMonths  int        `gorm:"type:integer;not null" json:"paymentMonths"`
	PaymentTerms   string     `gorm:"type:text" json:"paymentTerms,omitempty"`
	DealClosedDate *time.Time `gorm:"type:date" json:"dealClosedDate,omitempty"`

	// Targets
	TargetPositiveResponses int `gorm:"type:integer;not null" json:"targetPositiveResponses"`
	TargetMeetingsBooked    int `gorm:"type:integer;not null" json:"targetMeetingsBooked"`

	IsActive bool `gorm:"type:boolean;not null" json:"isActive"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Client) TableName() string {
	return "clients"
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// PlanConfiguration returns the pricing rules of the linked plan, nil for
// custom plans or when the plan was not loaded.
func (c *Client) PlanConfiguration() *pricing.PlanConfiguration {
	if c.Plan == nil || c.PlanID == nil {
		return nil
	}
	cfg := c.Plan.Configuration
	return &cfg
}

// PlanName is the catalog plan name or the custom one.
func (c *Client) PlanName() string {
	if c.Plan != nil {
		return c.Plan.Name
	}
	return c.CustomPlanName
}

// Pricing resolves the billing basis from the stored fields.
func (c *Client) Pricing() pricing.Pricing {
	unit := c.UnitPrice
	return pricing.Resolve(c.PlanConfiguration(), pricing.FormState{
		NumberOfLicenses: c.NumberOfLicenses,
		NumberOfSdrs:     c.NumberOfSdrs,
		UnitPrice:        &unit,
	})
}

// Cost computes the client's cost breakdown.
func (c *Client) Cost() pricing.Breakdown {
	return pricing.Calculate(c.Pricing(), c.DiscountPercentage, pricing.Currency(c.Currency))
}

const (
	PlanTypeRegular = "REGULAR"
	PlanTypePOC     = "POC"
)
