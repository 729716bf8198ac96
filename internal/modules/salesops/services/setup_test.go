package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/invoicepdf"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/pricing"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/models"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/repositories"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/database"
)

type testEnv struct {
	db          *gorm.DB
	audit       *audit.Service
	plans       *PlanService
	pricing     *PricingService
	clients     *ClientService
	licenses    *LicenseService
	assignments *AssignmentService
	activity    *ActivityService
	users       *UserService
	invoices    *InvoiceService
	overview    *OverviewService
	userRepo    repositories.UserRepo
	planRepo    repositories.PlanRepo
	invoiceRepo repositories.InvoiceRepo
	clientRepo  repositories.ClientRepo
}

func setupEnv(t *testing.T, now time.Time) *testEnv {
	t.Helper()
	conn, err := database.Open("sqlite::memory:", database.DefaultOptions())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	tables := append(models.All(), &audit.AuditLog{})
	if err := conn.GORM.AutoMigrate(tables...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	db := conn.GORM
	clientRepo := repositories.NewClientRepo(db)
	planRepo := repositories.NewPlanRepo(db)
	userRepo := repositories.NewUserRepo(db)
	licenseRepo := repositories.NewLicenseRepo(db)
	assignmentRepo := repositories.NewAssignmentRepo(db)
	invoiceRepo := repositories.NewInvoiceRepo(db)
	reportRepo := repositories.NewReportRepo(db)
	activityRepo := repositories.NewActivityRepo(db)

	auditSvc := audit.NewService(db)
	plans := NewPlanService(planRepo, time.Minute)
	clock := func() time.Time { return now }

	invoices := NewInvoiceService(invoiceRepo, clientRepo, invoicepdf.NewRenderer(), auditSvc, InvoiceOptions{
		NumberPrefix: "INV",
		Issuer:       invoicepdf.Party{Name: "Sales Ops", Email: "billing@example.com"},
	})
	invoices.SetClock(clock)

	overviewSvc := NewOverviewService(OverviewDeps{
		Clients:     clientRepo,
		Licenses:    licenseRepo,
		Assignments: assignmentRepo,
		Reports:     reportRepo,
		Activity:    activityRepo,
		Invoices:    invoiceRepo,
		Aggregator:  analytics.NewAggregator(db),
		Exporter:    export.NewService(),
	})
	overviewSvc.SetClock(clock)

	return &testEnv{
		db:          db,
		audit:       auditSvc,
		plans:       plans,
		pricing:     NewPricingService(plans),
		clients:     NewClientService(clientRepo, plans, auditSvc),
		licenses:    NewLicenseService(licenseRepo, clientRepo, auditSvc),
		assignments: NewAssignmentService(assignmentRepo, clientRepo, userRepo, licenseRepo, auditSvc),
		activity:    NewActivityService(reportRepo, activityRepo, clientRepo),
		users:       NewUserService(userRepo),
		invoices:    invoices,
		overview:    overviewSvc,
		userRepo:    userRepo,
		planRepo:    planRepo,
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func (e *testEnv) seedPlan(t *testing.T, name string, cfg pricing.PlanConfiguration) *models.Plan {
	t.Helper()
	plan := &models.Plan{Name: name, PricePerMonth: dec("0"), Configuration: cfg, IsActive: true}
	if err := e.planRepo.UpsertByName(context.Background(), plan); err != nil {
		t.Fatalf("seed plan: %v", err)
	}
	return plan
}

func (e *testEnv) seedUser(t *testing.T, name, role string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: name + "@example.com", Role: role, IsActive: true}
	if err := e.userRepo.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

// standardClient is the reference client: 10 licenses at 50 with 20% off.
func standardClient(planID uuid.UUID, name string) ClientInput {
	return ClientInput{
		BusinessName:            name,
		ContactName:             "Jane Doe",
		ContactEmail:            "jane@example.com",
		PlanID:                  planID.String(),
		UnitPrice:               decPtr("50"),
		Currency:                "USD",
		DiscountPercentage:      dec("20"),
		NumberOfLicenses:        10,
		PaymentMonths:           6,
		PaymentTerms:            "Net 30",
		TargetPositiveResponses: 100,
		TargetMeetingsBooked:    10,
	}
}

func (e *testEnv) createClient(t *testing.T, in ClientInput) *ClientView {
	t.Helper()
	view, err := e.clients.Create(context.Background(), audit.RequestMeta{}, in)
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	return view
}
