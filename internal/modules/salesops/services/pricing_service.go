package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/pricing"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/apperr"
)

// PricingService backs the live cost preview of the client form. It runs
// the same resolution and calculation as stored clients.
type PricingService struct {
	plans *PlanService
}

func NewPricingService(plans *PlanService) *PricingService {
	return &PricingService{plans: plans}
}

// PreviewInput mirrors the pricing part of the client form. PreviousPlanID
// is set when the admin just switched plans.
type PreviewInput struct {
	PlanID             string           `json:"planId"`
	PreviousPlanID     string           `json:"previousPlanId"`
	NumberOfLicenses   int              `json:"numberOfLicenses"`
	NumberOfSdrs       int              `json:"numberOfSdrs"`
	UnitPrice          *decimal.Decimal `json:"unitPrice"`
	DiscountPercentage decimal.Decimal  `json:"discountPercentage"`
	Currency           string           `json:"currency"`
}

// Preview is the form state after plan rules were applied plus the cost.
type Preview struct {
	NumberOfSdrs     int               `json:"numberOfSdrs"`
	UnitPrice        *decimal.Decimal  `json:"unitPrice"`
	UnitPriceLocked  bool              `json:"unitPriceLocked"`
	RequiresSdrCount bool              `json:"requiresSdrCount"`
	Pricing          pricing.Pricing   `json:"pricing"`
	Cost             pricing.Breakdown `json:"cost"`
}

func (s *PricingService) Preview(ctx context.Context, in PreviewInput) (*Preview, error) {
	currency := pricing.USD
	if in.Currency != "" {
		c, ok := pricing.ParseCurrency(in.Currency)
		if !ok {
			return nil, apperr.Validation("currency", "must be one of [USD INR]")
		}
		currency = c
	}

	next, err := s.configFor(ctx, in.PlanID, "planId")
	if err != nil {
		return nil, err
	}

	form := pricing.FormState{
		NumberOfLicenses: in.NumberOfLicenses,
		NumberOfSdrs:     in.NumberOfSdrs,
		UnitPrice:        in.UnitPrice,
	}
	if prevID := strings.TrimSpace(in.PreviousPlanID); prevID != "" && !strings.EqualFold(prevID, strings.TrimSpace(in.PlanID)) {
		prev, err := s.configFor(ctx, prevID, "previousPlanId")
		if err != nil {
			return nil, err
		}
		form = pricing.ApplyPlanChange(prev, next, form)
	}

	resolved := pricing.Resolve(next, form)
	return &Preview{
		NumberOfSdrs:     form.NumberOfSdrs,
		UnitPrice:        form.UnitPrice,
		UnitPriceLocked:  pricing.Locked(next),
		RequiresSdrCount: next != nil && next.RequiresSdrCount,
		Pricing:          resolved,
		Cost:             pricing.Calculate(resolved, in.DiscountPercentage, currency),
	}, nil
}

// configFor resolves a plan id to its configuration. A blank id or OTHER
// has none; the preview does not require the custom name yet.
func (s *PricingService) configFor(ctx context.Context, planID, field string) (*pricing.PlanConfiguration, error) {
	planID = strings.TrimSpace(planID)
	if planID == "" || strings.EqualFold(planID, pricing.OtherPlanID) {
		return nil, nil
	}
	sel, err := pricing.ParseSelection(planID, "")
	if err != nil {
		return nil, apperr.Validation(field, "must be a valid UUID or OTHER")
	}
	plan, err := s.plans.ForSelection(ctx, sel, field)
	if err != nil {
		return nil, err
	}
	return configOf(plan), nil
}
