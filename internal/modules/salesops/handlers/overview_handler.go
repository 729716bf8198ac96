package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/models"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/services"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/apperr"
)

type OverviewHandler struct {
	overview *services.OverviewService
}

func NewOverviewHandler(overview *services.OverviewService) *OverviewHandler {
	return &OverviewHandler{overview: overview}
}

func overviewFilter(c *fiber.Ctx) (models.OverviewFilter, error) {
	page, err := pagination(c)
	if err != nil {
		return models.OverviewFilter{}, err
	}
	sdrID, err := queryID(c, "sdrId")
	if err != nil {
		return models.OverviewFilter{}, err
	}
	return models.OverviewFilter{
		Pagination: page,
		Search:     c.Query("search"),
		SdrID:      sdrID,
		Status:     c.Query("status"),
	}, nil
}

// List godoc
// @Summary Client overview
// @Description One row per client with target progress, payments and cost
// @Tags Overview
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param search query string false "Business or contact name"
// @Param sdrId query string false "Assigned SDR"
// @Param status query string false "ACHIEVED, IN_PROGRESS or OVERDUE"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/admin/overview [get]
func (h *OverviewHandler) List(c *fiber.Ctx) error {
	filter, err := overviewFilter(c)
	if err != nil {
		return err
	}
	result, err := h.overview.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// Detail godoc
// @Summary Client overview detail
// @Tags Overview
// @Produce json
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Success 200 {object} services.ClientDetail
// @Failure 404 {object} map[string]interface{}
// @Router /api/admin/overview/{id} [get]
func (h *OverviewHandler) Detail(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	detail, err := h.overview.Detail(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(detail)
}

// Revenue godoc
// @Summary Revenue dashboard
// @Tags Overview
// @Produce json
// @Security BearerAuth
// @Param period query string false "this_month, last_month, last_90_days, last_12_months, this_year or last_year"
// @Success 200 {object} services.RevenueDashboard
// @Failure 400 {object} map[string]interface{}
// @Router /api/admin/overview/revenue [get]
func (h *OverviewHandler) Revenue(c *fiber.Ctx) error {
	dash, err := h.overview.Revenue(c.UserContext(), c.Query("period", "last_12_months"))
	if err != nil {
		return err
	}
	return c.JSON(dash)
}

// Export godoc
// @Summary Export overview
// @Tags Overview
// @Produce application/octet-stream
// @Security BearerAuth
// @Param format query string true "excel, pdf or csv"
// @Param search query string false "Business or contact name"
// @Param sdrId query string false "Assigned SDR"
// @Param status query string false "ACHIEVED, IN_PROGRESS or OVERDUE"
// @Success 200 {file} file
// @Failure 400 {object} map[string]interface{}
// @Router /api/admin/overview/export [get]
func (h *OverviewHandler) Export(c *fiber.Ctx) error {
	format, err := export.ParseFormat(c.Query("format", "excel"))
	if err != nil {
		return apperr.Validation("format", "must be one of [excel pdf csv]")
	}
	filter, err := overviewFilter(c)
	if err != nil {
		return err
	}
	file, err := h.overview.Export(c.UserContext(), filter, format)
	if err != nil {
		return err
	}

	name := fmt.Sprintf("client-overview-%s%s", time.Now().UTC().Format("20060102"), file.Extension)
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	return c.Send(file.Data)
}
