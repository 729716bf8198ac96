package seed

import (
	"context"
	"testing"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/models"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/repositories"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/database"
)

const catalogYAML = `
plans:
  - name: Starter
    pricePerLicense: "50"
  - name: SDR Pod
    requiresSdrCount: true
    fixedPrice: true
    pricePerSdr: "2500"
  - name: Legacy
    inactive: true
users:
  - name: Admin
    email: Admin@Example.com
    role: admin
  - name: Sam
    email: sam@example.com
    role: SDR
`

func TestApplyIsIdempotent(t *testing.T) {
	conn, err := database.Open("sqlite::memory:", database.DefaultOptions())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer conn.Close()
	if err := conn.GORM.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	catalog, err := Parse([]byte(catalogYAML))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	plans := repositories.NewPlanRepo(conn.GORM)
	users := repositories.NewUserRepo(conn.GORM)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := Apply(ctx, plans, users, catalog)
		if err != nil {
			t.Fatalf("apply #%d: %v", i+1, err)
		}
		if res.Plans != 3 || res.Users != 2 {
			t.Fatalf("apply #%d wrote %+v", i+1, res)
		}
	}

	all, err := plans.List(ctx, false)
	if err != nil || len(all) != 3 {
		t.Fatalf("plans: %d %v", len(all), err)
	}
	active, _ := plans.List(ctx, true)
	if len(active) != 2 {
		t.Fatalf("expected 2 active plans, got %d", len(active))
	}
	for _, p := range all {
		if p.Name == "SDR Pod" && (!p.Configuration.RequiresSdrCount || p.Configuration.PricePerSdr == nil || p.Configuration.PricePerSdr.String() != "2500") {
			t.Fatalf("sdr plan config %+v", p.Configuration)
		}
	}

	admins, _ := users.ListByRole(ctx, models.RoleAdmin)
	if len(admins) != 1 || admins[0].Email != "admin@example.com" {
		t.Fatalf("admins %+v", admins)
	}
}

func TestParseRejectsBadEntries(t *testing.T) {
	cases := []string{
		"plans:\n  - pricePerLicense: \"10\"\n",
		"plans:\n  - name: X\n    pricePerSdr: abc\n",
		"plans:\n  - name: X\n    pricePerLicense: \"-5\"\n",
		"users:\n  - email: a@b.c\n    role: OWNER\n",
	}
	for _, raw := range cases {
		catalog, err := Parse([]byte(raw))
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if _, err := Apply(context.Background(), nil, nil, catalog); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
