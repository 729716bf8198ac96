// Package seed loads the plan catalog and the initial users from a YAML
// file into the database.
package seed

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/pricing"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/models"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/repositories"
)

// Catalog is the seed file layout. Prices are decimal strings.
type Catalog struct {
	Plans []PlanEntry `yaml:"plans"`
	Users []UserEntry `yaml:"users"`
}

type PlanEntry struct {
	Name             string `yaml:"name"`
	Description      string `yaml:"description"`
	PricePerMonth    string `yaml:"pricePerMonth"`
	CreditsPerMonth  int    `yaml:"creditsPerMonth"`
	RequiresSdrCount bool   `yaml:"requiresSdrCount"`
	FixedPrice       bool   `yaml:"fixedPrice"`
	PricePerSdr      string `yaml:"pricePerSdr"`
	PricePerLicense  string `yaml:"pricePerLicense"`
	Inactive         bool   `yaml:"inactive"`
}

type UserEntry struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Role  string `yaml:"role"`
}

// Result counts the rows written by Apply.
type Result struct {
	Plans int
	Users int
}

func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &catalog, nil
}

// Apply upserts every plan by name and every user by email, so running the
// seeder twice leaves the database unchanged.
func Apply(ctx context.Context, plans repositories.PlanRepo, users repositories.UserRepo, catalog *Catalog) (*Result, error) {
	result := &Result{}
	for i, entry := range catalog.Plans {
		plan, err := entry.toModel()
		if err != nil {
			return result, fmt.Errorf("plans[%d]: %w", i, err)
		}
		if err := plans.UpsertByName(ctx, plan); err != nil {
			return result, fmt.Errorf("upsert plan %q: %w", plan.Name, err)
		}
		result.Plans++
	}

	for i, entry := range catalog.Users {
		user, err := entry.toModel()
		if err != nil {
			return result, fmt.Errorf("users[%d]: %w", i, err)
		}
		if err := users.UpsertByEmail(ctx, user); err != nil {
			return result, fmt.Errorf("upsert user %q: %w", user.Email, err)
		}
		result.Users++
	}
	return result, nil
}

func (e PlanEntry) toModel() (*models.Plan, error) {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	monthly, err := parsePrice("pricePerMonth", e.PricePerMonth)
	if err != nil {
		return nil, err
	}
	perSdr, err := parsePrice("pricePerSdr", e.PricePerSdr)
	if err != nil {
		return nil, err
	}
	perLicense, err := parsePrice("pricePerLicense", e.PricePerLicense)
	if err != nil {
		return nil, err
	}

	plan := &models.Plan{
		Name:            name,
		Description:     e.Description,
		PricePerMonth:   decimal.Zero,
		CreditsPerMonth: e.CreditsPerMonth,
		Configuration: pricing.PlanConfiguration{
			RequiresSdrCount: e.RequiresSdrCount,
			FixedPrice:       e.FixedPrice,
			PricePerSdr:      perSdr,
			PricePerLicense:  perLicense,
		},
		IsActive: !e.Inactive,
	}
	if monthly != nil {
		plan.PricePerMonth = *monthly
	}
	return plan, nil
}

func (e UserEntry) toModel() (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(e.Email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	role := strings.ToUpper(strings.TrimSpace(e.Role))
	switch role {
	case models.RoleAdmin, models.RoleSDR, models.RoleClient:
	default:
		return nil, fmt.Errorf("unknown role %q", e.Role)
	}
	name := strings.TrimSpace(e.Name)
	if name == "" {
		name = email
	}
	return &models.User{Name: name, Email: email, Role: role, IsActive: true}, nil
}

func parsePrice(field, raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid price %q", field, raw)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("%s: must not be negative", field)
	}
	return &d, nil
}
