package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/auth"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/models"
)

// Handlers groups every HTTP handler of the sales-ops API.
type Handlers struct {
	Health   *HealthHandler
	Client   *ClientHandler
	Account  *AccountHandler
	Activity *ActivityHandler
	Invoice  *InvoiceHandler
	Overview *OverviewHandler
	Audit    *AuditHandler
}

// RegisterRoutes mounts the public health check, the admin dashboard under
// /api/admin and the SDR endpoints under /api/sdr.
func RegisterRoutes(app *fiber.App, h Handlers, jwtService *auth.JWTService) {
	app.Get("/health", h.Health.Health)

	api := app.Group("/api", auth.AuthMiddleware(jwtService))

	admin := api.Group("/admin", auth.RequireRole(models.RoleAdmin))

	// Overview (static paths before :id)
	admin.Get("/overview", h.Overview.List)
	admin.Get("/overview/revenue", h.Overview.Revenue)
	admin.Get("/overview/export", h.Overview.Export)
	admin.Get("/overview/:id", h.Overview.Detail)

	// Clients and pricing
	admin.Get("/clients", h.Client.ListClients)
	admin.Post("/clients", h.Client.CreateClient)
	admin.Get("/clients/:id", h.Client.GetClient)
	admin.Put("/clients/:id", h.Client.UpdateClient)
	admin.Post("/pricing/preview", h.Client.PreviewPricing)
	admin.Get("/plans", h.Client.ListPlans)
	admin.Get("/plans/:id", h.Client.GetPlan)
	admin.Get("/sdrs", h.Client.ListSDRs)

	// Licenses and assignments
	admin.Get("/clients/:id/licenses", h.Account.ListLicenses)
	admin.Post("/clients/:id/licenses", h.Account.CreateLicense)
	admin.Patch("/licenses/:id", h.Account.UpdateLicense)
	admin.Get("/clients/:id/assignments", h.Account.ListAssignments)
	admin.Post("/assignments", h.Account.CreateAssignment)
	admin.Delete("/assignments/:id", h.Account.DeleteAssignment)

	// Notes
	admin.Get("/clients/:id/notes", h.Activity.ListNotes)
	admin.Post("/clients/:id/notes", h.Activity.CreateNote)

	// Invoices
	admin.Post("/clients/:id/invoice/generate", h.Invoice.GenerateInvoice)
	admin.Get("/invoices", h.Invoice.ListInvoices)
	admin.Post("/invoices/bulk", h.Invoice.Bulk)
	admin.Post("/invoices/bulk/download", h.Invoice.BulkDownload)
	admin.Post("/invoices/:id/mark-paid", h.Invoice.MarkPaid)
	admin.Get("/invoices/:id/pdf", h.Invoice.DownloadPDF)

	admin.Get("/audit-logs", h.Audit.ListLogs)

	sdr := api.Group("/sdr", auth.RequireRole(models.RoleSDR, models.RoleAdmin))
	sdr.Post("/reports", h.Activity.CreateReport)
	sdr.Get("/clients/:id/reports", h.Activity.ListReports)
	sdr.Post("/updates", h.Activity.CreateUpdate)
}
