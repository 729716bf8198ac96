package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/auth"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/invoicepdf"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/pricing"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/models"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/repositories"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/services"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/apperr"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/database"
)

var now = time.Date(2024, 4, 15, 9, 0, 0, 0, time.UTC)

type testServer struct {
	app   *fiber.App
	jwt   *auth.JWTService
	plan  *models.Plan
	admin *models.User
	sdr   *models.User
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	conn, err := database.Open("sqlite::memory:", database.DefaultOptions())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	if err := conn.GORM.AutoMigrate(append(models.All(), &audit.AuditLog{})...); err != nil {
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
	plans := services.NewPlanService(planRepo, time.Minute)
	clock := func() time.Time { return now }

	invoices := services.NewInvoiceService(invoiceRepo, clientRepo, invoicepdf.NewRenderer(), auditSvc, services.InvoiceOptions{NumberPrefix: "INV"})
	invoices.SetClock(clock)
	overview := services.NewOverviewService(services.OverviewDeps{
		Clients:     clientRepo,
		Licenses:    licenseRepo,
		Assignments: assignmentRepo,
		Reports:     reportRepo,
		Activity:    activityRepo,
		Invoices:    invoiceRepo,
		Aggregator:  analytics.NewAggregator(db),
		Exporter:    export.NewService(),
	})
	overview.SetClock(clock)

	jwtService := auth.NewJWTService("test-secret")
	app := fiber.New(fiber.Config{ErrorHandler: apperr.ErrorHandler})
	RegisterRoutes(app, Handlers{
		Health:   NewHealthHandler(db),
		Client:   NewClientHandler(services.NewClientService(clientRepo, plans, auditSvc), services.NewPricingService(plans), plans, services.NewUserService(userRepo)),
		Account:  NewAccountHandler(services.NewLicenseService(licenseRepo, clientRepo, auditSvc), services.NewAssignmentService(assignmentRepo, clientRepo, userRepo, licenseRepo, auditSvc)),
		Activity: NewActivityHandler(services.NewActivityService(reportRepo, activityRepo, clientRepo)),
		Invoice:  NewInvoiceHandler(invoices),
		Overview: NewOverviewHandler(overview),
		Audit:    NewAuditHandler(auditSvc),
	}, jwtService)

	ctx := context.Background()
	plan := &models.Plan{Name: "Growth", Configuration: pricing.PlanConfiguration{}, IsActive: true}
	if err := planRepo.UpsertByName(ctx, plan); err != nil {
		t.Fatalf("seed plan: %v", err)
	}
	admin := &models.User{Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin, IsActive: true}
	sdr := &models.User{Name: "Sam", Email: "sam@example.com", Role: models.RoleSDR, IsActive: true}
	for _, u := range []*models.User{admin, sdr} {
		if err := userRepo.Create(ctx, u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	return &testServer{app: app, jwt: jwtService, plan: plan, admin: admin, sdr: sdr}
}

func (s *testServer) token(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := s.jwt.GenerateAccessToken(auth.Claims{UserID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return token
}

// do sends a request as user (nil for anonymous) and decodes a JSON response
// into out when given.
func (s *testServer) do(t *testing.T, user *models.User, method, path string, body interface{}, out interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if user != nil {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+s.token(t, user))
	}

	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	rec := httptest.NewRecorder()
	rec.Code = resp.StatusCode
	for k, v := range resp.Header {
		rec.Header()[k] = v
	}
	if _, err := io.Copy(rec.Body, resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	if out != nil && rec.Code < 300 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s %s: %v (%s)", method, path, err, rec.Body.String())
		}
	}
	return rec
}

func (s *testServer) clientBody() fiber.Map {
	return fiber.Map{
		"businessName":            "Acme",
		"contactName":             "Jane Doe",
		"contactEmail":            "jane@example.com",
		"planId":                  s.plan.ID.String(),
		"unitPrice":               "50",
		"currency":                "USD",
		"discountPercentage":      "20",
		"numberOfLicenses":        10,
		"paymentMonths":           6,
		"dealClosedDate":          "2024-01-10",
		"targetPositiveResponses": 100,
	}
}

type clientResponse struct {
	ID   uuid.UUID `json:"id"`
	Cost struct {
		Display pricing.Display `json:"display"`
	} `json:"cost"`
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	if rec := s.do(t, nil, fiber.MethodGet, "/health", nil, nil); rec.Code != fiber.StatusOK {
		t.Fatalf("health status %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	s := newTestServer(t)

	if rec := s.do(t, nil, fiber.MethodGet, "/api/admin/overview", nil, nil); rec.Code != fiber.StatusUnauthorized {
		t.Fatalf("anonymous got %d", rec.Code)
	}
	if rec := s.do(t, s.sdr, fiber.MethodGet, "/api/admin/overview", nil, nil); rec.Code != fiber.StatusForbidden {
		t.Fatalf("sdr got %d", rec.Code)
	}
	if rec := s.do(t, s.admin, fiber.MethodGet, "/api/admin/overview", nil, nil); rec.Code != fiber.StatusOK {
		t.Fatalf("admin got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestClientCostMatchesPreview(t *testing.T) {
	s := newTestServer(t)
	want := pricing.Display{BaseCost: "$500.00", DiscountAmount: "-$100.00", FinalCost: "$400.00"}

	var preview clientResponse
	rec := s.do(t, s.admin, fiber.MethodPost, "/api/admin/pricing/preview", fiber.Map{
		"planId":             s.plan.ID.String(),
		"numberOfLicenses":   10,
		"unitPrice":          "50",
		"discountPercentage": "20",
		"currency":           "USD",
	}, &preview)
	if rec.Code != fiber.StatusOK || preview.Cost.Display != want {
		t.Fatalf("preview %d %+v", rec.Code, preview.Cost.Display)
	}

	var created clientResponse
	rec = s.do(t, s.admin, fiber.MethodPost, "/api/admin/clients", s.clientBody(), &created)
	if rec.Code != fiber.StatusCreated {
		t.Fatalf("create status %d: %s", rec.Code, rec.Body.String())
	}

	var list struct {
		Data  []clientResponse `json:"data"`
		Total int64            `json:"total"`
	}
	s.do(t, s.admin, fiber.MethodGet, "/api/admin/clients", nil, &list)
	if list.Total != 1 || list.Data[0].ID != created.ID || list.Data[0].Cost.Display != want {
		t.Fatalf("list %+v", list)
	}

	var overview struct {
		Data []struct {
			ClientID uuid.UUID `json:"clientId"`
			Achieved int       `json:"achieved"`
		} `json:"data"`
	}
	s.do(t, s.admin, fiber.MethodGet, "/api/admin/overview", nil, &overview)
	if len(overview.Data) != 1 || overview.Data[0].ClientID != created.ID {
		t.Fatalf("overview %+v", overview)
	}
}

func TestValidationErrorBody(t *testing.T) {
	s := newTestServer(t)
	body := s.clientBody()
	body["unitPrice"] = "-1"

	rec := s.do(t, s.admin, fiber.MethodPost, "/api/admin/clients", body, nil)
	if rec.Code != fiber.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
	var errBody map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &errBody); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if errBody["error"] != "unitPrice: must not be negative" || errBody["field"] != "unitPrice" {
		t.Fatalf("unexpected body %v", errBody)
	}

	rec = s.do(t, s.admin, fiber.MethodGet, "/api/admin/clients/not-a-uuid", nil, nil)
	if rec.Code != fiber.StatusBadRequest {
		t.Fatalf("bad id status %d", rec.Code)
	}
	rec = s.do(t, s.admin, fiber.MethodGet, "/api/admin/clients/"+uuid.NewString(), nil, nil)
	if rec.Code != fiber.StatusNotFound {
		t.Fatalf("missing client status %d", rec.Code)
	}
}

func TestInvoiceLifecycle(t *testing.T) {
	s := newTestServer(t)
	var client clientResponse
	s.do(t, s.admin, fiber.MethodPost, "/api/admin/clients", s.clientBody(), &client)

	var invoice struct {
		ID            uuid.UUID       `json:"id"`
		InvoiceNumber string          `json:"invoiceNumber"`
		Amount        decimal.Decimal `json:"amount"`
		Status        string          `json:"status"`
		AmountDisplay string          `json:"amountDisplay"`
	}
	path := "/api/admin/clients/" + client.ID.String() + "/invoice/generate"
	rec := s.do(t, s.admin, fiber.MethodPost, path, fiber.Map{"month": 4, "year": 2024}, &invoice)
	if rec.Code != fiber.StatusCreated {
		t.Fatalf("generate status %d: %s", rec.Code, rec.Body.String())
	}
	if invoice.InvoiceNumber != "INV-202404-0001" || !invoice.Amount.Equal(decimal.NewFromInt(400)) || invoice.Status != "GENERATED" || invoice.AmountDisplay != "$400.00" {
		t.Fatalf("unexpected invoice %+v", invoice)
	}

	if rec := s.do(t, s.admin, fiber.MethodPost, path, fiber.Map{"month": 4, "year": 2024}, nil); rec.Code != fiber.StatusConflict {
		t.Fatalf("duplicate period status %d", rec.Code)
	}

	rec = s.do(t, s.admin, fiber.MethodGet, "/api/admin/invoices/"+invoice.ID.String()+"/pdf", nil, nil)
	if rec.Code != fiber.StatusOK || rec.Header().Get(fiber.HeaderContentType) != "application/pdf" {
		t.Fatalf("pdf %d %q", rec.Code, rec.Header().Get(fiber.HeaderContentType))
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Fatal("pdf body missing header")
	}

	markPaid := "/api/admin/invoices/" + invoice.ID.String() + "/mark-paid"
	rec = s.do(t, s.admin, fiber.MethodPost, markPaid, nil, &invoice)
	if rec.Code != fiber.StatusOK || invoice.Status != "PAID" {
		t.Fatalf("mark paid %d %+v", rec.Code, invoice)
	}
	if rec := s.do(t, s.admin, fiber.MethodPost, markPaid, nil, nil); rec.Code != fiber.StatusConflict {
		t.Fatalf("second mark paid status %d", rec.Code)
	}

	var bulk services.BulkResult
	rec = s.do(t, s.admin, fiber.MethodPost, "/api/admin/invoices/bulk", fiber.Map{
		"action": "mark-paid",
		"ids":    []uuid.UUID{invoice.ID, uuid.New()},
	}, &bulk)
	if rec.Code != fiber.StatusOK || bulk.Affected != 0 || bulk.Skipped != 1 || len(bulk.NotFound) != 1 {
		t.Fatalf("bulk %d %+v", rec.Code, bulk)
	}

	rec = s.do(t, s.admin, fiber.MethodPost, "/api/admin/invoices/bulk/download", fiber.Map{
		"ids": []uuid.UUID{invoice.ID},
	}, nil)
	if rec.Code != fiber.StatusOK || rec.Header().Get(fiber.HeaderContentType) != "application/zip" {
		t.Fatalf("bulk download %d %q", rec.Code, rec.Header().Get(fiber.HeaderContentType))
	}
}

func TestSdrReportFlow(t *testing.T) {
	s := newTestServer(t)
	var client clientResponse
	s.do(t, s.admin, fiber.MethodPost, "/api/admin/clients", s.clientBody(), &client)

	rec := s.do(t, s.sdr, fiber.MethodPost, "/api/sdr/reports", fiber.Map{
		"clientId":                    client.ID.String(),
		"periodStart":                 "2024-04-08",
		"periodEnd":                   "2024-04-12",
		"inmailsSent":                 40,
		"inmailPositiveResponses":     6,
		"connectionRequestsSent":      30,
		"connectionPositiveResponses": 4,
	}, nil)
	if rec.Code != fiber.StatusCreated {
		t.Fatalf("report status %d: %s", rec.Code, rec.Body.String())
	}

	var reports []map[string]interface{}
	rec = s.do(t, s.sdr, fiber.MethodGet, "/api/sdr/clients/"+client.ID.String()+"/reports", nil, &reports)
	if rec.Code != fiber.StatusOK || len(reports) != 1 {
		t.Fatalf("reports %d %v", rec.Code, reports)
	}

	if rec := s.do(t, s.sdr, fiber.MethodPost, "/api/admin/clients/"+client.ID.String()+"/notes", fiber.Map{"content": "hi"}, nil); rec.Code != fiber.StatusForbidden {
		t.Fatalf("sdr wrote admin note: %d", rec.Code)
	}
}

func TestAuditLogListing(t *testing.T) {
	s := newTestServer(t)
	var client clientResponse
	s.do(t, s.admin, fiber.MethodPost, "/api/admin/clients", s.clientBody(), &client)
	generate := "/api/admin/clients/" + client.ID.String() + "/invoice/generate"
	if rec := s.do(t, s.admin, fiber.MethodPost, generate, fiber.Map{"month": 4, "year": 2024}, nil); rec.Code != fiber.StatusCreated {
		t.Fatalf("generate status %d", rec.Code)
	}

	var logs struct {
		Logs []struct {
			Action  string     `json:"action"`
			Entity  string     `json:"entity"`
			ActorID *uuid.UUID `json:"actorId"`
		} `json:"logs"`
		TotalCount int64 `json:"totalCount"`
		Page       int   `json:"page"`
	}
	rec := s.do(t, s.admin, fiber.MethodGet, "/api/admin/audit-logs?entity=invoice&clientId="+client.ID.String(), nil, &logs)
	if rec.Code != fiber.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if logs.TotalCount != 1 || len(logs.Logs) != 1 || logs.Logs[0].Action != audit.ActionGenerate {
		t.Fatalf("unexpected logs %+v", logs)
	}
	if logs.Logs[0].ActorID == nil || *logs.Logs[0].ActorID != s.admin.ID {
		t.Fatalf("actor not recorded: %+v", logs.Logs[0].ActorID)
	}

	rec = s.do(t, s.admin, fiber.MethodGet, "/api/admin/audit-logs?page=92233720368547760", nil, &logs)
	if rec.Code != fiber.StatusOK || len(logs.Logs) != 0 {
		t.Fatalf("far page: %d with %d logs", rec.Code, len(logs.Logs))
	}

	cases := []struct {
		name string
		user *models.User
		path string
		want int
	}{
		{"bad date", s.admin, "/api/admin/audit-logs?from=yesterday", fiber.StatusBadRequest},
		{"bad client id", s.admin, "/api/admin/audit-logs?clientId=nope", fiber.StatusBadRequest},
		{"sdr forbidden", s.sdr, "/api/admin/audit-logs", fiber.StatusForbidden},
	}
	for _, tc := range cases {
		if rec := s.do(t, tc.user, fiber.MethodGet, tc.path, nil, nil); rec.Code != tc.want {
			t.Fatalf("%s: got %d, want %d", tc.name, rec.Code, tc.want)
		}
	}
}
