package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/auth"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/models"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/apperr"
)

func paramID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperr.Validation(name, "must be a valid UUID")
	}
	return id, nil
}

func queryID(c *fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperr.Validation(name, "must be a valid UUID")
	}
	return &id, nil
}

func queryInt(c *fiber.Ctx, name string) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation(name, "must be a number")
	}
	return n, nil
}

func pagination(c *fiber.Ctx) (models.Pagination, error) {
	page, err := queryInt(c, "page")
	if err != nil {
		return models.Pagination{}, err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return models.Pagination{}, err
	}
	return models.Pagination{Page: page, Limit: limit}.Normalize(), nil
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperr.Validation("body", "invalid request body")
	}
	return nil
}

// requestMeta captures who made the request for the audit log.
func requestMeta(c *fiber.Ctx) audit.RequestMeta {
	meta := audit.RequestMeta{
		IPAddress: c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
		Method:    c.Method(),
		Endpoint:  c.Path(),
	}
	if id, _, ok := auth.CurrentUser(c); ok {
		meta.ActorID = &id
	}
	return meta
}

func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	id, _, ok := auth.CurrentUser(c)
	if !ok {
		return uuid.Nil, apperr.Unauthorized("missing user")
	}
	return id, nil
}
