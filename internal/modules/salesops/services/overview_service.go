package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/invoicing"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/overview"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/pricing"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/models"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/repositories"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/apperr"
)

// OverviewService assembles the admin dashboard from clients, licenses,
// assignments, reports and invoices.
type OverviewService struct {
	clients     repositories.ClientRepo
	licenses    repositories.LicenseRepo
	assignments repositories.AssignmentRepo
	reports     repositories.ReportRepo
	activity    repositories.ActivityRepo
	invoices    repositories.InvoiceRepo
	aggregator  *analytics.Aggregator
	exporter    *export.Service
	now         Clock
}

type OverviewDeps struct {
	Clients     repositories.ClientRepo
	Licenses    repositories.LicenseRepo
	Assignments repositories.AssignmentRepo
	Reports     repositories.ReportRepo
	Activity    repositories.ActivityRepo
	Invoices    repositories.InvoiceRepo
	Aggregator  *analytics.Aggregator
	Exporter    *export.Service
}

func NewOverviewService(deps OverviewDeps) *OverviewService {
	return &OverviewService{
		clients:     deps.Clients,
		licenses:    deps.Licenses,
		assignments: deps.Assignments,
		reports:     deps.Reports,
		activity:    deps.Activity,
		invoices:    deps.Invoices,
		aggregator:  deps.Aggregator,
		exporter:    deps.Exporter,
		now:         systemClock,
	}
}

func (s *OverviewService) SetClock(now Clock) {
	s.now = now
}

type SdrRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// OverviewRow is one client line of the admin overview.
type OverviewRow struct {
	ClientID          uuid.UUID                  `json:"clientId"`
	BusinessName      string                     `json:"businessName"`
	ContactName       string                     `json:"contactName"`
	PlanName          string                     `json:"planName"`
	PlanType          string                     `json:"planType"`
	TotalLicenses     int                        `json:"totalLicenses"`
	Target            int                        `json:"target"`
	Achieved          int                        `json:"achieved"`
	MeetingsTarget    int                        `json:"meetingsTarget"`
	MeetingsBooked    int                        `json:"meetingsBooked"`
	ProgressPercent   float64                    `json:"progressPercent"`
	BarPercent        float64                    `json:"barPercent"`
	AchievementStatus overview.AchievementStatus `json:"achievementStatus"`
	LastPaymentDate   *time.Time                 `json:"lastPaymentDate"`
	PaymentCount      int                        `json:"paymentCount"`
	AssignedSdr       *SdrRef                    `json:"assignedSdr"`
	AssignedSdrs      []SdrRef                   `json:"assignedSdrs"`
	Currency          string                     `json:"currency"`
	Cost              pricing.Breakdown          `json:"cost"`
	IsActive          bool                       `json:"isActive"`
}

// PaymentSummary totals a client's invoices.
type PaymentSummary struct {
	TotalInvoices   int             `json:"totalInvoices"`
	PaidCount       int             `json:"paidCount"`
	OverdueCount    int             `json:"overdueCount"`
	TotalPaid       decimal.Decimal `json:"totalPaid"`
	Outstanding     decimal.Decimal `json:"outstanding"`
	LastPaymentDate *time.Time      `json:"lastPaymentDate"`
	Display         struct {
		TotalPaid   string `json:"totalPaid"`
		Outstanding string `json:"outstanding"`
	} `json:"display"`
}

// ClientDetail is everything the admin client page shows.
type ClientDetail struct {
	Client         ClientView          `json:"client"`
	Plan           *models.Plan        `json:"plan"`
	Achievement    OverviewRow         `json:"achievement"`
	Licenses       []models.License    `json:"licenses"`
	Assignments    []models.Assignment `json:"assignments"`
	PaymentSummary PaymentSummary      `json:"paymentSummary"`
	PaymentHistory []InvoiceView       `json:"paymentHistory"`
	Updates        []models.SdrUpdate  `json:"updates"`
	Reports        []models.Report     `json:"reports"`
	Notes          []models.AdminNote  `json:"notes"`
}

// List returns one page of overview rows. The achievement status is derived,
// so a status filter is applied after computing every matching row.
func (s *OverviewService) List(ctx context.Context, filter models.OverviewFilter) (PagedResult[OverviewRow], error) {
	status, err := parseAchievementFilter(filter.Status)
	if err != nil {
		return PagedResult[OverviewRow]{}, err
	}
	clientFilter := models.ClientFilter{
		Pagination: filter.Pagination,
		Search:     filter.Search,
		SdrID:      filter.SdrID,
	}

	if status == "" {
		clients, total, err := s.clients.List(ctx, clientFilter)
		if err != nil {
			return PagedResult[OverviewRow]{}, apperr.FromDB(err, "client")
		}
		rows, err := s.rows(ctx, clients)
		if err != nil {
			return PagedResult[OverviewRow]{}, err
		}
		return newPage(rows, total, filter.Pagination), nil
	}

	rows, err := s.allRows(ctx, clientFilter, status)
	if err != nil {
		return PagedResult[OverviewRow]{}, err
	}
	return paginate(rows, filter.Pagination), nil
}

func (s *OverviewService) allRows(ctx context.Context, filter models.ClientFilter, status overview.AchievementStatus) ([]OverviewRow, error) {
	clients, err := s.clients.ListAll(ctx, filter)
	if err != nil {
		return nil, apperr.FromDB(err, "client")
	}
	rows, err := s.rows(ctx, clients)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return rows, nil
	}
	matched := make([]OverviewRow, 0, len(rows))
	for _, r := range rows {
		if r.AchievementStatus == status {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

func parseAchievementFilter(raw string) (overview.AchievementStatus, error) {
	if raw == "" {
		return "", nil
	}
	status, ok := overview.ParseStatus(raw)
	if !ok {
		return "", apperr.Validation("status", "must be one of [ACHIEVED IN_PROGRESS OVERDUE]")
	}
	return status, nil
}

// rows joins the per-client aggregates in memory with one query per source.
func (s *OverviewService) rows(ctx context.Context, clients []models.Client) ([]OverviewRow, error) {
	ids := make([]uuid.UUID, len(clients))
	for i, c := range clients {
		ids[i] = c.ID
	}

	licenseCounts, err := s.licenses.CountByClients(ctx, ids)
	if err != nil {
		return nil, apperr.FromDB(err, "license")
	}
	assignments, err := s.assignments.ListByClients(ctx, ids)
	if err != nil {
		return nil, apperr.FromDB(err, "assignment")
	}
	totals, err := s.reports.TotalsByClients(ctx, ids)
	if err != nil {
		return nil, apperr.FromDB(err, "report")
	}
	paid, err := s.invoices.ListPaidByClients(ctx, ids)
	if err != nil {
		return nil, apperr.FromDB(err, "invoice")
	}

	sdrs := make(map[uuid.UUID][]SdrRef)
	for _, a := range assignments {
		ref := SdrRef{ID: a.SdrID}
		if a.Sdr != nil {
			ref.Name = a.Sdr.Name
		}
		sdrs[a.ClientID] = append(sdrs[a.ClientID], ref)
	}

	type paymentStats struct {
		count int
		last  *time.Time
	}
	payments := make(map[uuid.UUID]paymentStats)
	for _, inv := range paid {
		st := payments[inv.ClientID]
		st.count++
		if inv.PaymentDate != nil && (st.last == nil || inv.PaymentDate.After(*st.last)) {
			d := *inv.PaymentDate
			st.last = &d
		}
		payments[inv.ClientID] = st
	}

	now := s.now()
	rows := make([]OverviewRow, len(clients))
	for i := range clients {
		c := &clients[i]
		t := totals[c.ID]
		pay := payments[c.ID]

		licenses := licenseCounts[c.ID]
		if licenses == 0 {
			licenses = c.NumberOfLicenses
		}

		achieved := int(t.PositiveResponses)
		target := c.TargetPositiveResponses
		end := overview.EngagementEnd(c.DealClosedDate, c.PaymentMonths)

		row := OverviewRow{
			ClientID:          c.ID,
			BusinessName:      c.BusinessName,
			ContactName:       c.ContactName,
			PlanName:          c.PlanName(),
			PlanType:          c.PlanType,
			TotalLicenses:     licenses,
			Target:            target,
			Achieved:          achieved,
			MeetingsTarget:    c.TargetMeetingsBooked,
			MeetingsBooked:    int(t.MeetingsBooked),
			ProgressPercent:   overview.ProgressPercent(target, achieved),
			BarPercent:        overview.BarPercent(target, achieved),
			AchievementStatus: overview.Status(target, achieved, end, now),
			LastPaymentDate:   pay.last,
			PaymentCount:      pay.count,
			AssignedSdrs:      sdrs[c.ID],
			Currency:          c.Currency,
			Cost:              c.Cost(),
			IsActive:          c.IsActive,
		}
		if row.AssignedSdrs == nil {
			row.AssignedSdrs = []SdrRef{}
		} else {
			first := row.AssignedSdrs[0]
			row.AssignedSdr = &first
		}
		rows[i] = row
	}
	return rows, nil
}

// Detail loads the full client page.
func (s *OverviewService) Detail(ctx context.Context, clientID uuid.UUID) (*ClientDetail, error) {
	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, apperr.FromDB(err, "client")
	}
	rows, err := s.rows(ctx, []models.Client{*client})
	if err != nil {
		return nil, err
	}

	licenses, err := s.licenses.ListByClient(ctx, clientID)
	if err != nil {
		return nil, apperr.FromDB(err, "license")
	}
	assignments, err := s.assignments.ListByClient(ctx, clientID)
	if err != nil {
		return nil, apperr.FromDB(err, "assignment")
	}
	invoices, err := s.invoices.ListByClient(ctx, clientID)
	if err != nil {
		return nil, apperr.FromDB(err, "invoice")
	}
	updates, err := s.activity.ListUpdates(ctx, clientID, DefaultActivityLimit)
	if err != nil {
		return nil, apperr.FromDB(err, "update")
	}
	reports, err := s.reports.ListByClient(ctx, clientID, DefaultActivityLimit)
	if err != nil {
		return nil, apperr.FromDB(err, "report")
	}
	notes, err := s.activity.ListNotes(ctx, clientID)
	if err != nil {
		return nil, apperr.FromDB(err, "note")
	}

	now := s.now()
	history := make([]InvoiceView, len(invoices))
	for i, inv := range invoices {
		inv.Status = string(invoicing.EffectiveStatus(invoicing.Status(inv.Status), inv.DueDate, now))
		history[i] = InvoiceView{
			Invoice:       inv,
			ClientName:    client.BusinessName,
			AmountDisplay: pricing.FormatMoney(inv.Amount, pricing.Currency(inv.Currency)),
		}
	}

	return &ClientDetail{
		Client:         newClientView(client),
		Plan:           client.Plan,
		Achievement:    rows[0],
		Licenses:       nonNil(licenses),
		Assignments:    nonNil(assignments),
		PaymentSummary: summarizePayments(invoices, pricing.Currency(client.Currency), now),
		PaymentHistory: history,
		Updates:        nonNil(updates),
		Reports:        nonNil(reports),
		Notes:          nonNil(notes),
	}, nil
}

func summarizePayments(invoices []models.Invoice, currency pricing.Currency, now time.Time) PaymentSummary {
	sum := PaymentSummary{
		TotalInvoices: len(invoices),
		TotalPaid:     decimal.Zero,
		Outstanding:   decimal.Zero,
	}
	for _, inv := range invoices {
		switch invoicing.EffectiveStatus(invoicing.Status(inv.Status), inv.DueDate, now) {
		case invoicing.StatusPaid:
			sum.PaidCount++
			sum.TotalPaid = sum.TotalPaid.Add(inv.Amount)
			if inv.PaymentDate != nil && (sum.LastPaymentDate == nil || inv.PaymentDate.After(*sum.LastPaymentDate)) {
				d := *inv.PaymentDate
				sum.LastPaymentDate = &d
			}
		case invoicing.StatusOverdue:
			sum.OverdueCount++
			sum.Outstanding = sum.Outstanding.Add(inv.Amount)
		default:
			sum.Outstanding = sum.Outstanding.Add(inv.Amount)
		}
	}
	sum.Display.TotalPaid = pricing.FormatMoney(sum.TotalPaid, currency)
	sum.Display.Outstanding = pricing.FormatMoney(sum.Outstanding, currency)
	return sum
}

// RevenueDashboard is paid revenue per month plus headline cards.
type RevenueDashboard struct {
	Period string               `json:"period"`
	Range  analytics.DateRange  `json:"range"`
	Chart  analytics.ChartData  `json:"chart"`
	Cards  []analytics.StatCard `json:"cards"`
}

func (s *OverviewService) Revenue(ctx context.Context, period string) (*RevenueDashboard, error) {
	now := s.now()
	r, err := analytics.PeriodRange(period, now)
	if err != nil {
		return nil, apperr.Validation("period", err.Error())
	}
	prev := r.Previous()

	current, err := s.payments(ctx, r)
	if err != nil {
		return nil, err
	}
	previous, err := s.payments(ctx, prev)
	if err != nil {
		return nil, err
	}

	curTotals := analytics.Sum(current)
	prevTotals := analytics.Sum(previous)
	currencies := make([]string, 0, len(curTotals))
	for c := range curTotals {
		currencies = append(currencies, c)
	}
	for c := range prevTotals {
		if _, ok := curTotals[c]; !ok {
			currencies = append(currencies, c)
		}
	}
	sort.Strings(currencies)

	cards := make([]analytics.StatCard, 0, len(currencies)+2)
	for _, c := range currencies {
		change, trend := analytics.Change(curTotals[c], prevTotals[c])
		cards = append(cards, analytics.StatCard{
			Title:       "Revenue (" + c + ")",
			Value:       pricing.FormatMoney(curTotals[c], pricing.Currency(c)),
			Change:      change,
			ChangeLabel: "vs previous period",
			Trend:       trend,
		})
	}

	generated, err := s.aggregator.Count(ctx, analytics.CountQuery{
		Table:     "invoices",
		DateField: "invoice_date",
		DateRange: &r,
	})
	if err != nil {
		return nil, apperr.Internal("failed to count invoices", err)
	}
	prevGenerated, err := s.aggregator.Count(ctx, analytics.CountQuery{
		Table:     "invoices",
		DateField: "invoice_date",
		DateRange: &prev,
	})
	if err != nil {
		return nil, apperr.Internal("failed to count invoices", err)
	}
	change, trend := analytics.Change(decimal.NewFromInt(generated), decimal.NewFromInt(prevGenerated))
	cards = append(cards, analytics.StatCard{
		Title:       "Invoices Generated",
		Value:       fmt.Sprintf("%d", generated),
		Change:      change,
		ChangeLabel: "vs previous period",
		Trend:       trend,
	})

	overdue, err := s.aggregator.Count(ctx, analytics.CountQuery{
		Table: "invoices",
		Filters: map[string]interface{}{
			"status <> ?":  string(invoicing.StatusPaid),
			"due_date < ?": invoicing.DateOnly(now),
		},
	})
	if err != nil {
		return nil, apperr.Internal("failed to count overdue invoices", err)
	}
	cards = append(cards, analytics.StatCard{
		Title: "Overdue Invoices",
		Value: fmt.Sprintf("%d", overdue),
		Trend: "neutral",
	})

	return &RevenueDashboard{
		Period: period,
		Range:  r,
		Chart:  analytics.ToLineChart(analytics.RevenueByMonth(current, r), r),
		Cards:  cards,
	}, nil
}

func (s *OverviewService) payments(ctx context.Context, r analytics.DateRange) ([]analytics.Payment, error) {
	invoices, err := s.invoices.ListPaidBetween(ctx, r.Start, r.End)
	if err != nil {
		return nil, apperr.FromDB(err, "invoice")
	}
	out := make([]analytics.Payment, 0, len(invoices))
	for _, inv := range invoices {
		if inv.PaymentDate == nil {
			continue
		}
		out = append(out, analytics.Payment{PaidAt: *inv.PaymentDate, Amount: inv.Amount, Currency: inv.Currency})
	}
	return out, nil
}

// Export renders every overview row matching filter, ignoring pagination.
func (s *OverviewService) Export(ctx context.Context, filter models.OverviewFilter, format export.Format) (*export.File, error) {
	status, err := parseAchievementFilter(filter.Status)
	if err != nil {
		return nil, err
	}
	rows, err := s.allRows(ctx, models.ClientFilter{Search: filter.Search, SdrID: filter.SdrID}, status)
	if err != nil {
		return nil, err
	}

	now := s.now()
	table := &export.Table{
		Title:       "Client Overview",
		Subtitle:    fmt.Sprintf("%d clients", len(rows)),
		GeneratedAt: now,
		Columns: []export.Column{
			{Header: "Client", Width: 3},
			{Header: "Contact", Width: 2},
			{Header: "Plan", Width: 2},
			{Header: "Licenses", Width: 1, AlignRight: true},
			{Header: "Target", Width: 1, AlignRight: true},
			{Header: "Achieved", Width: 1, AlignRight: true},
			{Header: "Progress %", Width: 1, AlignRight: true},
			{Header: "Status", Width: 1.5},
			{Header: "SDR", Width: 2},
			{Header: "Final Cost", Width: 1.5, AlignRight: true},
			{Header: "Last Payment", Width: 1.5},
		},
		Style: export.DefaultStyle(),
	}
	for _, r := range rows {
		sdr := ""
		if r.AssignedSdr != nil {
			sdr = r.AssignedSdr.Name
		}
		lastPayment := ""
		if r.LastPaymentDate != nil {
			lastPayment = r.LastPaymentDate.Format("2006-01-02")
		}
		table.Rows = append(table.Rows, []interface{}{
			r.BusinessName,
			r.ContactName,
			r.PlanName,
			r.TotalLicenses,
			r.Target,
			r.Achieved,
			r.ProgressPercent,
			string(r.AchievementStatus),
			sdr,
			r.Currency + " " + pricing.FormatAmount(r.Cost.FinalCost, pricing.Currency(r.Currency)),
			lastPayment,
		})
	}

	file, err := s.exporter.Export(table, format)
	if err != nil {
		return nil, apperr.Internal("failed to export overview", err)
	}
	return file, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
