package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/models"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/services"
)

type InvoiceHandler struct {
	invoices *services.InvoiceService
}

func NewInvoiceHandler(invoices *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

// GenerateInvoice godoc
// @Summary Generate invoice
// @Description Creates the client's invoice for a month. Amount defaults to the client's final cost, dates to the first and last day of the month.
// @Tags Invoices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Param invoice body services.GenerateInput true "Billing period and overrides"
// @Success 201 {object} services.InvoiceView
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/admin/clients/{id}/invoice/generate [post]
func (h *InvoiceHandler) GenerateInvoice(c *fiber.Ctx) error {
	clientID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req services.GenerateInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	invoice, err := h.invoices.Generate(c.UserContext(), requestMeta(c), clientID, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// ListInvoices godoc
// @Summary List invoices
// @Tags Invoices
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param clientId query string false "Client ID"
// @Param status query string false "GENERATED, PAID or OVERDUE"
// @Param search query string false "Invoice number or business name"
// @Param month query int false "Billing month"
// @Param year query int false "Billing year"
// @Success 200 {object} map[string]interface{}
// @Router /api/admin/invoices [get]
func (h *InvoiceHandler) ListInvoices(c *fiber.Ctx) error {
	page, err := pagination(c)
	if err != nil {
		return err
	}
	clientID, err := queryID(c, "clientId")
	if err != nil {
		return err
	}
	month, err := queryInt(c, "month")
	if err != nil {
		return err
	}
	year, err := queryInt(c, "year")
	if err != nil {
		return err
	}

	result, err := h.invoices.List(c.UserContext(), models.InvoiceFilter{
		Pagination: page,
		ClientID:   clientID,
		Status:     c.Query("status"),
		Search:     c.Query("search"),
		Month:      month,
		Year:       year,
	})
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// MarkPaid godoc
// @Summary Mark invoice paid
// @Tags Invoices
// @Produce json
// @Security BearerAuth
// @Param id path string true "Invoice ID"
// @Success 200 {object} services.InvoiceView
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/admin/invoices/{id}/mark-paid [post]
func (h *InvoiceHandler) MarkPaid(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	invoice, err := h.invoices.MarkPaid(c.UserContext(), requestMeta(c), id)
	if err != nil {
		return err
	}
	return c.JSON(invoice)
}

// Bulk godoc
// @Summary Bulk invoice action
// @Description Applies an action to many invoices. Already-paid invoices are skipped.
// @Tags Invoices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.BulkInput true "Action and invoice IDs"
// @Success 200 {object} services.BulkResult
// @Failure 400 {object} map[string]interface{}
// @Router /api/admin/invoices/bulk [post]
func (h *InvoiceHandler) Bulk(c *fiber.Ctx) error {
	var req services.BulkInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	result, err := h.invoices.Bulk(c.UserContext(), requestMeta(c), req)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// DownloadPDF godoc
// @Summary Download invoice PDF
// @Tags Invoices
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Invoice ID"
// @Param copy query string false "issued for the archived copy, current rendering otherwise"
// @Success 200 {file} file
// @Failure 404 {object} map[string]interface{}
// @Router /api/admin/invoices/{id}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	download := h.invoices.Download
	if c.Query("copy") == "issued" {
		download = h.invoices.DownloadIssued
	}
	file, err := download(c.UserContext(), id)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, file.Name))
	return c.Send(file.Data)
}

// BulkDownload godoc
// @Summary Download invoices as zip
// @Tags Invoices
// @Accept json
// @Produce application/zip
// @Security BearerAuth
// @Param request body services.BulkDownloadInput true "Invoice IDs"
// @Success 200 {file} file
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/admin/invoices/bulk/download [post]
func (h *InvoiceHandler) BulkDownload(c *fiber.Ctx) error {
	var req services.BulkDownloadInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	data, err := h.invoices.BulkDownload(c.UserContext(), req)
	if err != nil {
		return err
	}
	name := fmt.Sprintf("invoices-%s.zip", time.Now().UTC().Format("20060102-150405"))
	c.Set(fiber.HeaderContentType, "application/zip")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	return c.Send(data)
}
