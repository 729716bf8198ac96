package pricing

import (
	"strings"

	"github.com/google/uuid"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/apperr"
)

// OtherPlanID is the value sent in planId when the admin types a custom plan
// name instead of picking one from the catalog.
const OtherPlanID = "OTHER"

type SelectionKind string

const (
	SelectionStandard SelectionKind = "standard"
	SelectionCustom   SelectionKind = "custom"
)

// PlanSelection is either a catalog plan (PlanID) or a free-text plan name.
type PlanSelection struct {
	Kind       SelectionKind
	PlanID     uuid.UUID
	CustomName string
}

func StandardPlan(id uuid.UUID) PlanSelection {
	return PlanSelection{Kind: SelectionStandard, PlanID: id}
}

func CustomPlan(name string) PlanSelection {
	return PlanSelection{Kind: SelectionCustom, CustomName: strings.TrimSpace(name)}
}

func (s PlanSelection) IsCustom() bool { return s.Kind == SelectionCustom }

// ParseSelection turns the form fields into a PlanSelection.
func ParseSelection(planID, customName string) (PlanSelection, error) {
	planID = strings.TrimSpace(planID)
	switch {
	case planID == "":
		return PlanSelection{}, apperr.Validation("planId", "is required")
	case strings.EqualFold(planID, OtherPlanID):
		if strings.TrimSpace(customName) == "" {
			return PlanSelection{}, apperr.Validation("customPlanName", "is required when planId is OTHER")
		}
		return CustomPlan(customName), nil
	}

	id, err := uuid.Parse(planID)
	if err != nil {
		return PlanSelection{}, apperr.Validation("planId", "must be a valid UUID")
	}
	return StandardPlan(id), nil
}
