package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/models"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/services"
)

type ClientHandler struct {
	clients *services.ClientService
	pricing *services.PricingService
	plans   *services.PlanService
	users   *services.UserService
}

func NewClientHandler(
	clients *services.ClientService,
	pricing *services.PricingService,
	plans *services.PlanService,
	users *services.UserService,
) *ClientHandler {
	return &ClientHandler{
		clients: clients,
		pricing: pricing,
		plans:   plans,
		users:   users,
	}
}

// ListClients godoc
// @Summary List clients
// @Description Paginated clients with their cost breakdown
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param search query string false "Business or contact name"
// @Param planType query string false "REGULAR or POC"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/admin/clients [get]
func (h *ClientHandler) ListClients(c *fiber.Ctx) error {
	page, err := pagination(c)
	if err != nil {
		return err
	}
	result, err := h.clients.List(c.UserContext(), models.ClientFilter{
		Pagination: page,
		Search:     c.Query("search"),
		PlanType:   c.Query("planType"),
	})
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// GetClient godoc
// @Summary Get client
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Success 200 {object} services.ClientView
// @Failure 404 {object} map[string]interface{}
// @Router /api/admin/clients/{id} [get]
func (h *ClientHandler) GetClient(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	client, err := h.clients.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(client)
}

// CreateClient godoc
// @Summary Create client
// @Description Plan pricing rules are applied before the client is stored
// @Tags Clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param client body services.ClientInput true "Client data"
// @Success 201 {object} services.ClientView
// @Failure 400 {object} map[string]interface{}
// @Router /api/admin/clients [post]
func (h *ClientHandler) CreateClient(c *fiber.Ctx) error {
	var req services.ClientInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	client, err := h.clients.Create(c.UserContext(), requestMeta(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}

// UpdateClient godoc
// @Summary Update client
// @Tags Clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Param client body services.ClientInput true "Client data"
// @Success 200 {object} services.ClientView
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/admin/clients/{id} [put]
func (h *ClientHandler) UpdateClient(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req services.ClientInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	client, err := h.clients.Update(c.UserContext(), requestMeta(c), id, req)
	if err != nil {
		return err
	}
	return c.JSON(client)
}

// PreviewPricing godoc
// @Summary Preview client cost
// @Description Live cost breakdown for the client form
// @Tags Clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body services.PreviewInput true "Pricing inputs"
// @Success 200 {object} services.Preview
// @Failure 400 {object} map[string]interface{}
// @Router /api/admin/pricing/preview [post]
func (h *ClientHandler) PreviewPricing(c *fiber.Ctx) error {
	var req services.PreviewInput
	if err := parseBody(c, &req); err != nil {
		return err
	}
	preview, err := h.pricing.Preview(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(preview)
}

// ListPlans godoc
// @Summary List plans
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param all query bool false "Include inactive plans"
// @Success 200 {array} models.Plan
// @Router /api/admin/plans [get]
func (h *ClientHandler) ListPlans(c *fiber.Ctx) error {
	plans, err := h.plans.List(c.UserContext(), !c.QueryBool("all", false))
	if err != nil {
		return err
	}
	return c.JSON(plans)
}

// GetPlan godoc
// @Summary Get plan
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Success 200 {object} models.Plan
// @Failure 404 {object} map[string]interface{}
// @Router /api/admin/plans/{id} [get]
func (h *ClientHandler) GetPlan(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	plan, err := h.plans.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(plan)
}

// ListSDRs godoc
// @Summary List SDRs
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.User
// @Router /api/admin/sdrs [get]
func (h *ClientHandler) ListSDRs(c *fiber.Ctx) error {
	users, err := h.users.ListSDRs(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(users)
}
