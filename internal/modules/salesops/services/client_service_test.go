package services

import (
	"context"
	"testing"
	"time"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/pricing"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/models"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/apperr"
)

var testNow = time.Date(2024, 4, 15, 9, 0, 0, 0, time.UTC)

func TestCostIsIdenticalInPreviewAndClientList(t *testing.T) {
	env := setupEnv(t, testNow)
	ctx := context.Background()
	plan := env.seedPlan(t, "Growth", pricing.PlanConfiguration{})

	preview, err := env.pricing.Preview(ctx, PreviewInput{
		PlanID:             plan.ID.String(),
		NumberOfLicenses:   10,
		UnitPrice:          decPtr("50"),
		DiscountPercentage: dec("20"),
		Currency:           "USD",
	})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}

	created := env.createClient(t, standardClient(plan.ID, "Acme"))

	list, err := env.clients.List(ctx, models.ClientFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.Total != 1 || len(list.Data) != 1 {
		t.Fatalf("expected one client, got %+v", list)
	}

	want := pricing.Display{BaseCost: "$500.00", DiscountAmount: "-$100.00", FinalCost: "$400.00"}
	for name, got := range map[string]pricing.Display{
		"preview": preview.Cost.Display,
		"create":  created.Cost.Display,
		"list":    list.Data[0].Cost.Display,
	} {
		if got != want {
			t.Fatalf("%s display = %+v, want %+v", name, got, want)
		}
	}
	if list.Data[0].PlanName != "Growth" {
		t.Fatalf("plan name %q", list.Data[0].PlanName)
	}
}

func TestCreateClientFixedPricePlan(t *testing.T) {
	env := setupEnv(t, testNow)
	plan := env.seedPlan(t, "Fixed", pricing.PlanConfiguration{FixedPrice: true, PricePerLicense: decPtr("75")})

	in := standardClient(plan.ID, "Fixed Co")
	in.UnitPrice = decPtr("10")
	view := env.createClient(t, in)

	if !view.UnitPrice.Equal(dec("75")) || !view.UnitPriceLocked {
		t.Fatalf("fixed plan price not enforced: %s locked=%v", view.UnitPrice, view.UnitPriceLocked)
	}
	if !view.Cost.FinalCost.Equal(dec("600")) {
		t.Fatalf("final cost %s, want 600", view.Cost.FinalCost)
	}
}

func TestCreateClientPerSdrPlan(t *testing.T) {
	env := setupEnv(t, testNow)
	plan := env.seedPlan(t, "SDR Pod", pricing.PlanConfiguration{RequiresSdrCount: true, PricePerSdr: decPtr("3000")})

	in := standardClient(plan.ID, "Pod Co")
	in.UnitPrice = nil
	in.DiscountPercentage = dec("0")

	_, err := env.clients.Create(context.Background(), audit.RequestMeta{}, in)
	if !apperr.Is(err, apperr.KindValidation) || err.Error() != "numberOfSdrs: must be at least 1 for this plan" {
		t.Fatalf("expected numberOfSdrs validation error, got %v", err)
	}

	in.NumberOfSdrs = 2
	view := env.createClient(t, in)
	if view.Pricing.Kind != pricing.PerSdr || view.Pricing.Quantity != 2 {
		t.Fatalf("unexpected pricing %+v", view.Pricing)
	}
	if view.Cost.Display.FinalCost != "$6,000.00" {
		t.Fatalf("final cost %s", view.Cost.Display.FinalCost)
	}
}

func TestCreateClientCustomPlan(t *testing.T) {
	env := setupEnv(t, testNow)
	ctx := context.Background()

	in := standardClient(env.seedPlan(t, "unused", pricing.PlanConfiguration{}).ID, "Custom Co")
	in.PlanID = pricing.OtherPlanID
	in.CustomPlanName = ""
	_, err := env.clients.Create(ctx, audit.RequestMeta{}, in)
	if err == nil || err.Error() != "customPlanName: is required when planId is OTHER" {
		t.Fatalf("expected custom name error, got %v", err)
	}

	in.CustomPlanName = "Enterprise Special"
	in.NumberOfSdrs = 4
	in.Currency = "INR"
	in.UnitPrice = decPtr("10000")
	view := env.createClient(t, in)

	if view.PlanID != nil || view.PlanName != "Enterprise Special" {
		t.Fatalf("custom plan not stored: %+v", view.Client)
	}
	if view.NumberOfSdrs != 0 {
		t.Fatalf("non-SDR plan kept sdr count %d", view.NumberOfSdrs)
	}
	if view.Cost.Display.BaseCost != "₹1,00,000.00" {
		t.Fatalf("INR display %s", view.Cost.Display.BaseCost)
	}
}

func TestCreateClientValidation(t *testing.T) {
	env := setupEnv(t, testNow)
	plan := env.seedPlan(t, "Growth", pricing.PlanConfiguration{})
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*ClientInput)
		want   string
	}{
		{"missing business", func(in *ClientInput) { in.BusinessName = "" }, "businessName: is required"},
		{"bad email", func(in *ClientInput) { in.ContactEmail = "nope" }, "contactEmail: must be a valid email"},
		{"bad currency", func(in *ClientInput) { in.Currency = "EUR" }, "currency: must be one of [USD INR]"},
		{"missing price", func(in *ClientInput) { in.UnitPrice = nil }, "unitPrice: is required"},
		{"negative price", func(in *ClientInput) { in.UnitPrice = decPtr("-1") }, "unitPrice: must not be negative"},
		{"unknown plan", func(in *ClientInput) { in.PlanID = "8a6e0804-2bd0-4672-b79d-d97027f9071a" }, "planId: does not match any plan"},
		{"bad date", func(in *ClientInput) { in.DealClosedDate = "yesterday" }, "dealClosedDate: must be a date in YYYY-MM-DD format"},
	}
	for _, tc := range cases {
		in := standardClient(plan.ID, "Acme")
		tc.mutate(&in)
		_, err := env.clients.Create(ctx, audit.RequestMeta{}, in)
		if !apperr.Is(err, apperr.KindValidation) || err.Error() != tc.want {
			t.Fatalf("%s: got %v, want %q", tc.name, err, tc.want)
		}
	}
}

func TestUpdateClientClampsDiscountAndAudits(t *testing.T) {
	env := setupEnv(t, testNow)
	ctx := context.Background()
	plan := env.seedPlan(t, "Growth", pricing.PlanConfiguration{})
	created := env.createClient(t, standardClient(plan.ID, "Acme"))

	in := standardClient(plan.ID, "Acme Renamed")
	in.DiscountPercentage = dec("150")
	updated, err := env.clients.Update(ctx, audit.RequestMeta{Method: "PUT"}, created.ID, in)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.DiscountPercentage.Equal(dec("100")) || !updated.Cost.FinalCost.IsZero() {
		t.Fatalf("discount not clamped: %s final %s", updated.DiscountPercentage, updated.Cost.FinalCost)
	}

	got, err := env.clients.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.BusinessName != "Acme Renamed" {
		t.Fatalf("update not persisted: %q", got.BusinessName)
	}

	logs, err := env.audit.GetLogs(ctx, audit.AuditFilter{ClientID: &created.ID, Action: audit.ActionUpdate})
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if logs.TotalCount != 1 {
		t.Fatalf("expected one update audit entry, got %d", logs.TotalCount)
	}

	if _, err := env.clients.Get(ctx, plan.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPreviewPlanChangeResetsSdrCount(t *testing.T) {
	env := setupEnv(t, testNow)
	ctx := context.Background()
	sdrPlan := env.seedPlan(t, "SDR Pod", pricing.PlanConfiguration{RequiresSdrCount: true, PricePerSdr: decPtr("3000")})
	otherSdrPlan := env.seedPlan(t, "SDR Pod Plus", pricing.PlanConfiguration{RequiresSdrCount: true, PricePerSdr: decPtr("3500")})
	licensePlan := env.seedPlan(t, "Seats", pricing.PlanConfiguration{PricePerLicense: decPtr("40")})

	kept, err := env.pricing.Preview(ctx, PreviewInput{
		PlanID:         otherSdrPlan.ID.String(),
		PreviousPlanID: sdrPlan.ID.String(),
		NumberOfSdrs:   3,
	})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if kept.NumberOfSdrs != 3 || !kept.Cost.FinalCost.Equal(dec("10500")) {
		t.Fatalf("sdr count should survive SDR to SDR change: %+v", kept)
	}

	reset, err := env.pricing.Preview(ctx, PreviewInput{
		PlanID:           licensePlan.ID.String(),
		PreviousPlanID:   sdrPlan.ID.String(),
		NumberOfSdrs:     3,
		NumberOfLicenses: 5,
	})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if reset.NumberOfSdrs != 0 || reset.UnitPrice == nil || !reset.UnitPrice.Equal(dec("40")) {
		t.Fatalf("switching away from SDR plan should reset: %+v", reset)
	}
	if reset.Cost.Display.FinalCost != "$200.00" {
		t.Fatalf("final %s", reset.Cost.Display.FinalCost)
	}

	if _, err := env.pricing.Preview(ctx, PreviewInput{PlanID: "nope"}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
