package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/models"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/repositories"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/apperr"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/utils"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/validation"
)

type AssignmentService struct {
	repo     repositories.AssignmentRepo
	clients  repositories.ClientRepo
	users    repositories.UserRepo
	licenses repositories.LicenseRepo
	audit    auditor
}

func NewAssignmentService(
	repo repositories.AssignmentRepo,
	clients repositories.ClientRepo,
	users repositories.UserRepo,
	licenses repositories.LicenseRepo,
	auditSvc *audit.Service,
) *AssignmentService {
	return &AssignmentService{
		repo:     repo,
		clients:  clients,
		users:    users,
		licenses: licenses,
		audit:    auditor{svc: auditSvc},
	}
}

type CreateAssignmentInput struct {
	SdrID      uuid.UUID   `json:"sdrId" validate:"required"`
	ClientID   uuid.UUID   `json:"clientId" validate:"required"`
	LicenseIDs []uuid.UUID `json:"licenseIds"`
}

func (s *AssignmentService) Create(ctx context.Context, meta audit.RequestMeta, in CreateAssignmentInput) (*models.Assignment, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	sdr, err := s.users.GetByID(ctx, in.SdrID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Validation("sdrId", "does not match any user")
		}
		return nil, apperr.FromDB(err, "user")
	}
	if sdr.Role != models.RoleSDR {
		return nil, apperr.Validation("sdrId", "must reference an SDR")
	}

	if _, err := s.clients.GetByID(ctx, in.ClientID); err != nil {
		return nil, apperr.FromDB(err, "client")
	}

	if len(in.LicenseIDs) > 0 {
		licenses, err := s.licenses.ListByClient(ctx, in.ClientID)
		if err != nil {
			return nil, apperr.FromDB(err, "license")
		}
		owned := make(map[uuid.UUID]bool, len(licenses))
		for _, l := range licenses {
			owned[l.ID] = true
		}
		for i, id := range in.LicenseIDs {
			if !owned[id] {
				return nil, apperr.Validation(fmt.Sprintf("licenseIds[%d]", i), "does not belong to the client")
			}
		}
	}

	assignment := &models.Assignment{
		SdrID:      in.SdrID,
		ClientID:   in.ClientID,
		LicenseIDs: in.LicenseIDs,
	}
	if assignment.LicenseIDs == nil {
		assignment.LicenseIDs = []uuid.UUID{}
	}
	if err := s.repo.Create(ctx, assignment); err != nil {
		return nil, apperr.FromDB(err, "assignment")
	}
	assignment.Sdr = sdr

	s.audit.record(ctx, audit.Entry{
		Meta:     meta,
		ClientID: uuidPtr(in.ClientID),
		Action:   audit.ActionCreate,
		Entity:   audit.EntityAssignment,
		EntityID: assignment.ID.String(),
		NewValue: assignment,
	})
	return assignment, nil
}

func (s *AssignmentService) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Assignment, error) {
	assignments, err := s.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, apperr.FromDB(err, "assignment")
	}
	return assignments, nil
}

// Delete removes an assignment and keeps a copy of it in the audit log.
func (s *AssignmentService) Delete(ctx context.Context, meta audit.RequestMeta, id uuid.UUID) error {
	assignment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return apperr.FromDB(err, "assignment")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperr.FromDB(err, "assignment")
	}

	s.audit.record(ctx, audit.Entry{
		Meta:        meta,
		ClientID:    uuidPtr(assignment.ClientID),
		Action:      audit.ActionDelete,
		Entity:      audit.EntityAssignment,
		EntityID:    assignment.ID.String(),
		OldValue:    assignment,
		Description: "assignment removed",
	})
	utils.LogInfo("assignment deleted", map[string]interface{}{
		"assignment_id": id.String(),
		"client_id":     assignment.ClientID.String(),
	})
	return nil
}
