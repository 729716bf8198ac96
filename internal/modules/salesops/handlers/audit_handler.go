package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/invoicing"
)

type AuditHandler struct {
	audit *audit.Service
}

func NewAuditHandler(auditService *audit.Service) *AuditHandler {
	return &AuditHandler{audit: auditService}
}

// ListLogs godoc
// @Summary List audit log entries
// @Tags Audit
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(50)
// @Param clientId query string false "Client ID"
// @Param actorId query string false "Acting user ID"
// @Param entity query string false "client, license, assignment or invoice"
// @Param entityId query string false "Entity ID"
// @Param action query string false "create, update, delete, generate or mark_paid"
// @Param from query string false "First day (YYYY-MM-DD)"
// @Param to query string false "Last day (YYYY-MM-DD), inclusive"
// @Success 200 {object} audit.AuditLogResponse
// @Failure 400 {object} map[string]interface{}
// @Router /api/admin/audit-logs [get]
func (h *AuditHandler) ListLogs(c *fiber.Ctx) error {
	page, err := queryInt(c, "page")
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}
	clientID, err := queryID(c, "clientId")
	if err != nil {
		return err
	}
	actorID, err := queryID(c, "actorId")
	if err != nil {
		return err
	}

	filter := audit.AuditFilter{
		ClientID: clientID,
		ActorID:  actorID,
		Action:   c.Query("action"),
		Entity:   c.Query("entity"),
		EntityID: c.Query("entityId"),
		Page:     page,
		PageSize: limit,
	}
	if raw := c.Query("from"); raw != "" {
		from, err := invoicing.ParseDate("from", raw)
		if err != nil {
			return err
		}
		filter.StartDate = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := invoicing.ParseDate("to", raw)
		if err != nil {
			return err
		}
		end := to.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &end
	}

	result, err := h.audit.GetLogs(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(result)
}
