package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/services"
)

// AccountHandler manages the licenses and SDR assignments of a client.
type AccountHandler struct {
	licenses    *services.LicenseService
	assignments *services.AssignmentService
}

func NewAccountHandler(licenses *services.LicenseService, assignments *services.AssignmentService) *AccountHandler {
	return &AccountHandler{licenses: licenses, assignments: assignments}
}

// ListLicenses godoc
// @Summary List client licenses
// @Tags Licenses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Success 200 {array} models.License
// @Router /api/admin/clients/{id}/licenses [get]
func (h *AccountHandler) ListLicenses(c *fiber.Ctx) error {
	clientID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	licenses, err := h.licenses.ListByClient(c.UserContext(), clientID)
	if err != nil {
		return err
	}
	return c.JSON(licenses)
}

// CreateLicense godoc
// @Summary Add license
// @Tags Licenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Param license body services.CreateLicenseInput true "License"
// @Success 201 {object} models.License
// @Failure 400 {object} map[string]interface{}
// @Router /api/admin/clients/{id}/licenses [post]
func (h *AccountHandler) CreateLicense(c *fiber.Ctx) error {
	clientID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req services.CreateLicenseInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	license, err := h.licenses.Create(c.UserContext(), requestMeta(c), clientID, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(license)
}

// UpdateLicense godoc
// @Summary Update license
// @Tags Licenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "License ID"
// @Param license body services.UpdateLicenseInput true "Fields to change"
// @Success 200 {object} models.License
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/admin/licenses/{id} [patch]
func (h *AccountHandler) UpdateLicense(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req services.UpdateLicenseInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	license, err := h.licenses.Update(c.UserContext(), requestMeta(c), id, req)
	if err != nil {
		return err
	}
	return c.JSON(license)
}

// ListAssignments godoc
// @Summary List client assignments
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Success 200 {array} models.Assignment
// @Router /api/admin/clients/{id}/assignments [get]
func (h *AccountHandler) ListAssignments(c *fiber.Ctx) error {
	clientID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	assignments, err := h.assignments.ListByClient(c.UserContext(), clientID)
	if err != nil {
		return err
	}
	return c.JSON(assignments)
}

// CreateAssignment godoc
// @Summary Assign SDR
// @Tags Assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param assignment body services.CreateAssignmentInput true "Assignment"
// @Success 201 {object} models.Assignment
// @Failure 400 {object} map[string]interface{}
// @Router /api/admin/assignments [post]
func (h *AccountHandler) CreateAssignment(c *fiber.Ctx) error {
	var req services.CreateAssignmentInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	assignment, err := h.assignments.Create(c.UserContext(), requestMeta(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(assignment)
}

// DeleteAssignment godoc
// @Summary Remove SDR assignment
// @Description The removed assignment is kept in the audit log
// @Tags Assignments
// @Security BearerAuth
// @Param id path string true "Assignment ID"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /api/admin/assignments/{id} [delete]
func (h *AccountHandler) DeleteAssignment(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.assignments.Delete(c.UserContext(), requestMeta(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
