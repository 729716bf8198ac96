package pricing

import "github.com/shopspring/decimal"

type Kind string

const (
	PerLicense Kind = "perLicense"
	PerSdr     Kind = "perSdr"
)

// PlanConfiguration controls how a plan is priced.
type PlanConfiguration struct {
	RequiresSdrCount bool             `json:"requiresSdrCount" yaml:"requiresSdrCount"`
	FixedPrice       bool             `json:"fixedPrice" yaml:"fixedPrice"`
	PricePerSdr      *decimal.Decimal `json:"pricePerSdr,omitempty" yaml:"pricePerSdr,omitempty"`
	PricePerLicense  *decimal.Decimal `json:"pricePerLicense,omitempty" yaml:"pricePerLicense,omitempty"`
}

// Pricing is the resolved billing basis of a client: what is counted and
// what one unit costs.
type Pricing struct {
	Kind      Kind            `json:"kind"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// FormState holds the pricing inputs the admin edits on the client form.
// UnitPrice is nil while the field is blank.
type FormState struct {
	NumberOfLicenses int
	NumberOfSdrs     int
	UnitPrice        *decimal.Decimal
}

// DefaultUnitPrice returns the plan's price for the unit it bills by.
func DefaultUnitPrice(cfg *PlanConfiguration) (decimal.Decimal, bool) {
	if cfg == nil {
		return decimal.Zero, false
	}
	if cfg.RequiresSdrCount {
		if cfg.PricePerSdr != nil {
			return *cfg.PricePerSdr, true
		}
		return decimal.Zero, false
	}
	if cfg.PricePerLicense != nil {
		return *cfg.PricePerLicense, true
	}
	return decimal.Zero, false
}

// Resolve derives the pricing of a client from its plan configuration and
// the form inputs. A nil configuration (custom or unknown plan) leaves the
// admin-entered values untouched. Fixed-price plans always use the plan price.
func Resolve(cfg *PlanConfiguration, form FormState) Pricing {
	unit := decimal.Zero
	if form.UnitPrice != nil {
		unit = *form.UnitPrice
	}

	p := Pricing{Kind: PerLicense, Quantity: form.NumberOfLicenses, UnitPrice: unit}
	if cfg == nil {
		return p
	}
	if cfg.RequiresSdrCount {
		p.Kind = PerSdr
		p.Quantity = form.NumberOfSdrs
	}

	if planPrice, ok := DefaultUnitPrice(cfg); ok && (cfg.FixedPrice || form.UnitPrice == nil) {
		p.UnitPrice = planPrice
	}
	return p
}

// Locked reports whether the unit price field is read-only for this plan.
func Locked(cfg *PlanConfiguration) bool {
	if cfg == nil || !cfg.FixedPrice {
		return false
	}
	_, ok := DefaultUnitPrice(cfg)
	return ok
}

// ApplyPlanChange returns the form state after the plan selection moved from
// prev to next. The SDR count survives only when both plans bill per SDR, so
// re-selecting the same SDR plan keeps it and any other transition clears it.
// The unit price is prefilled from the new plan when it defines one.
func ApplyPlanChange(prev, next *PlanConfiguration, form FormState) FormState {
	out := form
	keepSdrs := prev != nil && prev.RequiresSdrCount && next != nil && next.RequiresSdrCount
	if !keepSdrs {
		out.NumberOfSdrs = 0
	}
	if price, ok := DefaultUnitPrice(next); ok {
		out.UnitPrice = &price
	}
	return out
}
