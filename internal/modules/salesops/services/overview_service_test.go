package services

import (
	"bytes"
	"context"
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/overview"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/pricing"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/models"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/apperr"
)

// overviewFixture builds three clients:
//   - Acme: target 100, 25 achieved, engagement still running
//   - Beta: target 10, 12 achieved
//   - Gamma: target 50, nothing achieved, engagement ended
type overviewFixture struct {
	env               *testEnv
	sdr               *models.User
	acme, beta, gamma *ClientView
}

func newOverviewFixture(t *testing.T) *overviewFixture {
	t.Helper()
	env := setupEnv(t, testNow)
	ctx := context.Background()
	plan := env.seedPlan(t, "Growth", pricing.PlanConfiguration{})
	sdr := env.seedUser(t, "sam", models.RoleSDR)

	acmeIn := standardClient(plan.ID, "Acme")
	acmeIn.DealClosedDate = "2024-03-01"
	acme := env.createClient(t, acmeIn)

	betaIn := standardClient(plan.ID, "Beta Labs")
	betaIn.ContactName = "Bob Stone"
	betaIn.TargetPositiveResponses = 10
	beta := env.createClient(t, betaIn)

	gammaIn := standardClient(plan.ID, "Gamma")
	gammaIn.TargetPositiveResponses = 50
	gammaIn.DealClosedDate = "2023-01-01"
	gammaIn.PaymentMonths = 3
	gamma := env.createClient(t, gammaIn)

	if _, err := env.assignments.Create(ctx, audit.RequestMeta{}, CreateAssignmentInput{SdrID: sdr.ID, ClientID: acme.ID}); err != nil {
		t.Fatalf("assign: %v", err)
	}

	reports := []CreateReportInput{
		{ClientID: acme.ID, PeriodStart: "2024-04-01", PeriodEnd: "2024-04-07", InmailsSent: 100, InmailPositiveResponses: 15, ConnectionRequestsSent: 50, ConnectionPositiveResponses: 10, MeetingsBooked: 2},
		{ClientID: beta.ID, PeriodStart: "2024-04-01", PeriodEnd: "2024-04-07", InmailsSent: 40, InmailPositiveResponses: 12},
	}
	for _, r := range reports {
		if _, err := env.activity.CreateReport(ctx, sdr.ID, r); err != nil {
			t.Fatalf("report: %v", err)
		}
	}

	return &overviewFixture{env: env, sdr: sdr, acme: acme, beta: beta, gamma: gamma}
}

func TestOverviewRows(t *testing.T) {
	f := newOverviewFixture(t)
	ctx := context.Background()

	page, err := f.env.overview.List(ctx, models.OverviewFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 3 {
		t.Fatalf("expected 3 rows, got %d", page.Total)
	}

	byID := make(map[uuid.UUID]OverviewRow)
	for _, r := range page.Data {
		byID[r.ClientID] = r
	}

	acme := byID[f.acme.ID]
	if acme.Achieved != 25 || acme.ProgressPercent != 25 || acme.AchievementStatus != overview.StatusInProgress {
		t.Fatalf("acme row %+v", acme)
	}
	if acme.AssignedSdr == nil || acme.AssignedSdr.Name != "sam" || acme.MeetingsBooked != 2 {
		t.Fatalf("acme sdr %+v", acme.AssignedSdr)
	}
	if acme.Cost.Display.FinalCost != "$400.00" || acme.TotalLicenses != 10 {
		t.Fatalf("acme cost %+v", acme.Cost.Display)
	}

	beta := byID[f.beta.ID]
	if beta.AchievementStatus != overview.StatusAchieved || beta.ProgressPercent != 120 || beta.BarPercent != 100 {
		t.Fatalf("beta row %+v", beta)
	}
	if beta.AssignedSdr != nil || len(beta.AssignedSdrs) != 0 {
		t.Fatalf("beta should be unassigned")
	}

	if gamma := byID[f.gamma.ID]; gamma.AchievementStatus != overview.StatusOverdue {
		t.Fatalf("gamma row %+v", gamma)
	}
}

func TestOverviewFilters(t *testing.T) {
	f := newOverviewFixture(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		filter models.OverviewFilter
		want   []uuid.UUID
	}{
		{"status achieved", models.OverviewFilter{Status: "ACHIEVED"}, []uuid.UUID{f.beta.ID}},
		{"status overdue", models.OverviewFilter{Status: "OVERDUE"}, []uuid.UUID{f.gamma.ID}},
		{"search contact", models.OverviewFilter{Search: "bob"}, []uuid.UUID{f.beta.ID}},
		{"search business", models.OverviewFilter{Search: "ACM"}, []uuid.UUID{f.acme.ID}},
		{"sdr", models.OverviewFilter{SdrID: &f.sdr.ID}, []uuid.UUID{f.acme.ID}},
		{"percent is literal", models.OverviewFilter{Search: "%"}, nil},
		{"underscore is literal", models.OverviewFilter{Search: "_"}, nil},
	}
	for _, tc := range cases {
		page, err := f.env.overview.List(ctx, tc.filter)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if int(page.Total) != len(tc.want) || len(page.Data) != len(tc.want) {
			t.Fatalf("%s: got %d rows", tc.name, page.Total)
		}
		for i, id := range tc.want {
			if page.Data[i].ClientID != id {
				t.Fatalf("%s: row %d is %s", tc.name, i, page.Data[i].BusinessName)
			}
		}
	}

	paged, err := f.env.overview.List(ctx, models.OverviewFilter{
		Status:     "IN_PROGRESS",
		Pagination: models.Pagination{Page: 2, Limit: 1},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if paged.Total != 1 || len(paged.Data) != 0 || paged.TotalPages != 1 {
		t.Fatalf("unexpected page %+v", paged)
	}

	for _, status := range []string{"IN_PROGRESS", ""} {
		far, err := f.env.overview.List(ctx, models.OverviewFilter{
			Status:     status,
			Pagination: models.Pagination{Page: math.MaxInt / 100, Limit: 100},
		})
		if err != nil {
			t.Fatalf("far page %q: %v", status, err)
		}
		if len(far.Data) != 0 || far.Page != models.MaxPage {
			t.Fatalf("far page %q: %d rows on page %d", status, len(far.Data), far.Page)
		}
	}

	if _, err := f.env.overview.List(ctx, models.OverviewFilter{Status: "DONE"}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestOverviewDetail(t *testing.T) {
	f := newOverviewFixture(t)
	env := f.env
	ctx := context.Background()
	admin := env.seedUser(t, "ada", models.RoleAdmin)

	for i, in := range []CreateNoteInput{
		{Tag: models.NoteTagAccount, Body: "kickoff done"},
		{Tag: models.NoteTagRisk, Body: "champion left", Pinned: true},
		{Tag: models.NoteTagBilling, Body: "wants quarterly billing"},
	} {
		if _, err := env.activity.CreateNote(ctx, admin.ID, f.acme.ID, in); err != nil {
			t.Fatalf("note %d: %v", i, err)
		}
	}
	if _, err := env.activity.CreateUpdate(ctx, f.sdr.ID, CreateUpdateInput{ClientID: f.acme.ID, Kind: models.UpdateKindCall, Message: "intro call"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := env.licenses.Create(ctx, audit.RequestMeta{}, f.acme.ID, CreateLicenseInput{ServiceType: "LinkedIn", StartDate: "2024-03-01"}); err != nil {
		t.Fatalf("license: %v", err)
	}

	paidInv, err := env.invoices.Generate(ctx, audit.RequestMeta{}, f.acme.ID, GenerateInput{Month: 3, Year: 2024})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := env.invoices.MarkPaid(ctx, audit.RequestMeta{}, paidInv.ID); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if _, err := env.invoices.Generate(ctx, audit.RequestMeta{}, f.acme.ID, GenerateInput{Month: 4, Year: 2024}); err != nil {
		t.Fatalf("generate: %v", err)
	}

	detail, err := env.overview.Detail(ctx, f.acme.ID)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if detail.Client.BusinessName != "Acme" || detail.Plan == nil || detail.Plan.Name != "Growth" {
		t.Fatalf("client %+v", detail.Client.Client)
	}
	if len(detail.Licenses) != 1 || len(detail.Assignments) != 1 || len(detail.Updates) != 1 || len(detail.Reports) != 1 {
		t.Fatalf("unexpected related counts: %d licenses %d assignments %d updates %d reports",
			len(detail.Licenses), len(detail.Assignments), len(detail.Updates), len(detail.Reports))
	}
	if len(detail.Notes) != 3 || !detail.Notes[0].Pinned {
		t.Fatalf("pinned note should come first: %+v", detail.Notes)
	}
	if detail.Achievement.TotalLicenses != 1 || detail.Achievement.PaymentCount != 1 {
		t.Fatalf("achievement %+v", detail.Achievement)
	}

	sum := detail.PaymentSummary
	if sum.TotalInvoices != 2 || sum.PaidCount != 1 || sum.Display.TotalPaid != "$400.00" || sum.Display.Outstanding != "$400.00" {
		t.Fatalf("payment summary %+v", sum)
	}
	if sum.LastPaymentDate == nil || !sum.LastPaymentDate.Equal(testNow) {
		t.Fatalf("last payment %v", sum.LastPaymentDate)
	}

	if _, err := env.overview.Detail(ctx, uuid.New()); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRevenueAndExport(t *testing.T) {
	f := newOverviewFixture(t)
	env := f.env
	ctx := context.Background()

	inv, err := env.invoices.Generate(ctx, audit.RequestMeta{}, f.acme.ID, GenerateInput{Month: 4, Year: 2024})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := env.invoices.MarkPaid(ctx, audit.RequestMeta{}, inv.ID); err != nil {
		t.Fatalf("mark paid: %v", err)
	}

	dash, err := env.overview.Revenue(ctx, "this_month")
	if err != nil {
		t.Fatalf("revenue: %v", err)
	}
	if len(dash.Chart.Labels) != 1 || dash.Chart.Labels[0] != "2024-04" {
		t.Fatalf("labels %v", dash.Chart.Labels)
	}
	if len(dash.Chart.Data) != 1 || dash.Chart.Data[0].Name != "USD" || dash.Chart.Data[0].Values[0] != 400 {
		t.Fatalf("series %+v", dash.Chart.Data)
	}
	if dash.Cards[0].Value != "$400.00" || dash.Cards[0].Trend != "up" {
		t.Fatalf("revenue card %+v", dash.Cards[0])
	}

	if _, err := env.overview.Revenue(ctx, "forever"); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	file, err := env.overview.Export(ctx, models.OverviewFilter{}, export.FormatCSV)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !bytes.Contains(file.Data, []byte("Acme")) || !bytes.Contains(file.Data, []byte("USD 400.00")) {
		t.Fatalf("csv export missing rows:\n%s", file.Data)
	}

	pdf, err := env.overview.Export(ctx, models.OverviewFilter{Status: "ACHIEVED"}, export.FormatPDF)
	if err != nil {
		t.Fatalf("export pdf: %v", err)
	}
	if !bytes.HasPrefix(pdf.Data, []byte("%PDF")) {
		t.Fatal("pdf export is not a PDF")
	}
}
