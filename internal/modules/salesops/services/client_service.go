package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/invoicing"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/pricing"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/models"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/repositories"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/apperr"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/utils"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/validation"
)

type ClientService struct {
	repo  repositories.ClientRepo
	plans *PlanService
	audit auditor
}

func NewClientService(repo repositories.ClientRepo, plans *PlanService, auditSvc *audit.Service) *ClientService {
	return &ClientService{
		repo:  repo,
		plans: plans,
		audit: auditor{svc: auditSvc},
	}
}

// ClientInput is the body of client create and edit. Edits replace every
// field.
type ClientInput struct {
	BusinessName string `json:"businessName" validate:"required,max=200"`
	ContactName  string `json:"contactName" validate:"required,max=200"`
	ContactEmail string `json:"contactEmail" validate:"omitempty,email"`
	ContactPhone string `json:"contactPhone" validate:"max=50"`

	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode" validate:"max=20"`

	PlanID         string `json:"planId" validate:"required"`
	CustomPlanName string `json:"customPlanName" validate:"max=200"`
	PlanType       string `json:"planType" validate:"omitempty,oneof=REGULAR POC"`

	UnitPrice          *decimal.Decimal       `json:"unitPrice"`
	Currency           string                 `json:"currency" validate:"omitempty,oneof=USD INR"`
	DiscountPercentage decimal.Decimal        `json:"discountPercentage"`
	NumberOfLicenses   int                    `json:"numberOfLicenses" validate:"gte=0"`
	NumberOfSdrs       int                    `json:"numberOfSdrs" validate:"gte=0"`
	SdrAllocations     []models.SdrAllocation `json:"sdrAllocations"`

	PaymentMonths  int    `json:"paymentMonths" validate:"gte=0,lte=120"`
	PaymentTerms   string `json:"paymentTerms"`
	DealClosedDate string `json:"dealClosedDate"`

	TargetPositiveResponses int `json:"targetPositiveResponses" validate:"gte=0"`
	TargetMeetingsBooked    int `json:"targetMeetingsBooked" validate:"gte=0"`

	IsActive *bool `json:"isActive"`
}

// ClientView is a client with its derived pricing and cost.
type ClientView struct {
	models.Client
	PlanName        string            `json:"planName"`
	Pricing         pricing.Pricing   `json:"pricing"`
	Cost            pricing.Breakdown `json:"cost"`
	UnitPriceLocked bool              `json:"unitPriceLocked"`
}

func newClientView(c *models.Client) ClientView {
	return ClientView{
		Client:          *c,
		PlanName:        c.PlanName(),
		Pricing:         c.Pricing(),
		Cost:            c.Cost(),
		UnitPriceLocked: pricing.Locked(c.PlanConfiguration()),
	}
}

func (s *ClientService) Create(ctx context.Context, meta audit.RequestMeta, in ClientInput) (*ClientView, error) {
	client := &models.Client{IsActive: true}
	if err := s.apply(ctx, client, in); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, client); err != nil {
		return nil, apperr.FromDB(err, "client")
	}

	view := newClientView(client)
	s.audit.record(ctx, audit.Entry{
		Meta:        meta,
		ClientID:    uuidPtr(client.ID),
		Action:      audit.ActionCreate,
		Entity:      audit.EntityClient,
		EntityID:    client.ID.String(),
		NewValue:    client,
		Description: "client created",
	})
	utils.LogInfo("client created", map[string]interface{}{
		"client_id":  client.ID.String(),
		"final_cost": view.Cost.FinalCost.String(),
	})
	return &view, nil
}

func (s *ClientService) Update(ctx context.Context, meta audit.RequestMeta, id uuid.UUID, in ClientInput) (*ClientView, error) {
	client, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromDB(err, "client")
	}
	before := *client

	if err := s.apply(ctx, client, in); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, client); err != nil {
		return nil, apperr.FromDB(err, "client")
	}

	view := newClientView(client)
	s.audit.record(ctx, audit.Entry{
		Meta:        meta,
		ClientID:    uuidPtr(client.ID),
		Action:      audit.ActionUpdate,
		Entity:      audit.EntityClient,
		EntityID:    client.ID.String(),
		OldValue:    before,
		NewValue:    client,
		Description: "client updated",
	})
	return &view, nil
}

func (s *ClientService) Get(ctx context.Context, id uuid.UUID) (*ClientView, error) {
	client, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromDB(err, "client")
	}
	view := newClientView(client)
	return &view, nil
}

// List returns clients with the same cost breakdown the form preview shows.
func (s *ClientService) List(ctx context.Context, filter models.ClientFilter) (PagedResult[ClientView], error) {
	if filter.PlanType != "" && filter.PlanType != models.PlanTypeRegular && filter.PlanType != models.PlanTypePOC {
		return PagedResult[ClientView]{}, apperr.Validation("planType", "must be one of [REGULAR POC]")
	}
	clients, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return PagedResult[ClientView]{}, apperr.FromDB(err, "client")
	}
	views := make([]ClientView, len(clients))
	for i := range clients {
		views[i] = newClientView(&clients[i])
	}
	return newPage(views, total, filter.Pagination), nil
}

// apply validates in and copies it onto client, resolving the plan and the
// billable unit price.
func (s *ClientService) apply(ctx context.Context, client *models.Client, in ClientInput) error {
	if err := validation.Struct(in); err != nil {
		return err
	}

	sel, err := pricing.ParseSelection(in.PlanID, in.CustomPlanName)
	if err != nil {
		return err
	}
	plan, err := s.plans.ForSelection(ctx, sel, "planId")
	if err != nil {
		return err
	}
	cfg := configOf(plan)

	currency := pricing.USD
	if in.Currency != "" {
		currency, _ = pricing.ParseCurrency(in.Currency)
	}

	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return apperr.Validation("unitPrice", "must not be negative")
	}
	if _, hasDefault := pricing.DefaultUnitPrice(cfg); in.UnitPrice == nil && !hasDefault {
		return apperr.Validation("unitPrice", "is required")
	}

	numberOfSdrs := in.NumberOfSdrs
	if cfg != nil && cfg.RequiresSdrCount {
		if numberOfSdrs < 1 {
			return apperr.Validation("numberOfSdrs", "must be at least 1 for this plan")
		}
	} else {
		// only SDR-billed plans carry an SDR count
		numberOfSdrs = 0
	}

	resolved := pricing.Resolve(cfg, pricing.FormState{
		NumberOfLicenses: in.NumberOfLicenses,
		NumberOfSdrs:     numberOfSdrs,
		UnitPrice:        in.UnitPrice,
	})

	var dealClosed *time.Time
	if raw := strings.TrimSpace(in.DealClosedDate); raw != "" {
		d, err := invoicing.ParseDate("dealClosedDate", raw)
		if err != nil {
			return err
		}
		dealClosed = &d
	}

	for i, a := range in.SdrAllocations {
		if a.SdrID == uuid.Nil {
			return apperr.Validation("sdrAllocations", "entry "+strconv.Itoa(i)+" has no sdrId")
		}
		if a.Licenses < 0 {
			return apperr.Validation("sdrAllocations", "entry "+strconv.Itoa(i)+" has a negative license count")
		}
	}

	planType := in.PlanType
	if planType == "" {
		planType = models.PlanTypeRegular
	}

	client.BusinessName = strings.TrimSpace(in.BusinessName)
	client.ContactName = strings.TrimSpace(in.ContactName)
	client.ContactEmail = strings.TrimSpace(in.ContactEmail)
	client.ContactPhone = in.ContactPhone
	client.Address = in.Address
	client.City = in.City
	client.State = in.State
	client.Country = in.Country
	client.PostalCode = in.PostalCode

	if sel.IsCustom() {
		client.PlanID = nil
		client.Plan = nil
		client.CustomPlanName = sel.CustomName
	} else {
		client.PlanID = uuidPtr(plan.ID)
		client.Plan = plan
		client.CustomPlanName = ""
	}
	client.PlanType = planType

	client.UnitPrice = resolved.UnitPrice
	client.Currency = string(currency)
	client.DiscountPercentage = pricing.ClampDiscount(in.DiscountPercentage)
	client.NumberOfLicenses = in.NumberOfLicenses
	client.NumberOfSdrs = numberOfSdrs
	client.SdrAllocations = in.SdrAllocations
	if client.SdrAllocations == nil {
		client.SdrAllocations = []models.SdrAllocation{}
	}

	client.PaymentMonths = in.PaymentMonths
	client.PaymentTerms = in.PaymentTerms
	client.DealClosedDate = dealClosed
	client.TargetPositiveResponses = in.TargetPositiveResponses
	client.TargetMeetingsBooked = in.TargetMeetingsBooked
	if in.IsActive != nil {
		client.IsActive = *in.IsActive
	}
	return nil
}
