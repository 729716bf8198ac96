package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/services"
)

// ActivityHandler serves SDR reports and updates and admin notes.
type ActivityHandler struct {
	activity *services.ActivityService
}

func NewActivityHandler(activity *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

// CreateReport godoc
// @Summary Submit SDR report
// @Tags SDR
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param report body services.CreateReportInput true "Report"
// @Success 201 {object} models.Report
// @Failure 400 {object} map[string]interface{}
// @Router /api/sdr/reports [post]
func (h *ActivityHandler) CreateReport(c *fiber.Ctx) error {
	sdrID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req services.CreateReportInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	report, err := h.activity.CreateReport(c.UserContext(), sdrID, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

// ListReports godoc
// @Summary List client reports
// @Tags SDR
// @Produce json
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Param limit query int false "Maximum reports" default(50)
// @Success 200 {array} models.Report
// @Router /api/sdr/clients/{id}/reports [get]
func (h *ActivityHandler) ListReports(c *fiber.Ctx) error {
	clientID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}
	reports, err := h.activity.ListReports(c.UserContext(), clientID, limit)
	if err != nil {
		return err
	}
	return c.JSON(reports)
}

// CreateUpdate godoc
// @Summary Post SDR update
// @Tags SDR
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param update body services.CreateUpdateInput true "Update"
// @Success 201 {object} models.SdrUpdate
// @Failure 400 {object} map[string]interface{}
// @Router /api/sdr/updates [post]
func (h *ActivityHandler) CreateUpdate(c *fiber.Ctx) error {
	sdrID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req services.CreateUpdateInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	update, err := h.activity.CreateUpdate(c.UserContext(), sdrID, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(update)
}

// ListNotes godoc
// @Summary List admin notes
// @Description Pinned notes first, newest first
// @Tags Notes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Success 200 {array} models.AdminNote
// @Router /api/admin/clients/{id}/notes [get]
func (h *ActivityHandler) ListNotes(c *fiber.Ctx) error {
	clientID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	notes, err := h.activity.ListNotes(c.UserContext(), clientID)
	if err != nil {
		return err
	}
	return c.JSON(notes)
}

// CreateNote godoc
// @Summary Add admin note
// @Tags Notes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Param note body services.CreateNoteInput true "Note"
// @Success 201 {object} models.AdminNote
// @Failure 400 {object} map[string]interface{}
// @Router /api/admin/clients/{id}/notes [post]
func (h *ActivityHandler) CreateNote(c *fiber.Ctx) error {
	clientID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	authorID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req services.CreateNoteInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	note, err := h.activity.CreateNote(c.UserContext(), authorID, clientID, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(note)
}
