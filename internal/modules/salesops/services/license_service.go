package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/invoicing"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/models"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/repositories"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/apperr"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/validation"
)

type LicenseService struct {
	repo    repositories.LicenseRepo
	clients repositories.ClientRepo
	audit   auditor
}

func NewLicenseService(repo repositories.LicenseRepo, clients repositories.ClientRepo, auditSvc *audit.Service) *LicenseService {
	return &LicenseService{repo: repo, clients: clients, audit: auditor{svc: auditSvc}}
}

type CreateLicenseInput struct {
	ServiceType string `json:"serviceType" validate:"required,max=100"`
	Label       string `json:"label" validate:"max=200"`
	Status      string `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE EXPIRED"`
	StartDate   string `json:"startDate" validate:"required"`
	EndDate     string `json:"endDate"`
}

// UpdateLicenseInput changes only the fields that are present.
type UpdateLicenseInput struct {
	Label   *string `json:"label" validate:"omitempty,max=200"`
	Status  *string `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE EXPIRED"`
	EndDate *string `json:"endDate"`
}

func (s *LicenseService) Create(ctx context.Context, meta audit.RequestMeta, clientID uuid.UUID, in CreateLicenseInput) (*models.License, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if _, err := s.clients.GetByID(ctx, clientID); err != nil {
		return nil, apperr.FromDB(err, "client")
	}

	start, err := invoicing.ParseDate("startDate", in.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := optionalDate("endDate", in.EndDate)
	if err != nil {
		return nil, err
	}
	if end != nil && end.Before(start) {
		return nil, apperr.Validation("endDate", "must not be before startDate")
	}

	status := in.Status
	if status == "" {
		status = models.LicenseStatusActive
	}

	license := &models.License{
		ClientID:    clientID,
		ServiceType: strings.TrimSpace(in.ServiceType),
		Label:       in.Label,
		Status:      status,
		StartDate:   start,
		EndDate:     end,
	}
	if err := s.repo.Create(ctx, license); err != nil {
		return nil, apperr.FromDB(err, "license")
	}

	s.audit.record(ctx, audit.Entry{
		Meta:     meta,
		ClientID: uuidPtr(clientID),
		Action:   audit.ActionCreate,
		Entity:   audit.EntityLicense,
		EntityID: license.ID.String(),
		NewValue: license,
	})
	return license, nil
}

func (s *LicenseService) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.License, error) {
	licenses, err := s.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, apperr.FromDB(err, "license")
	}
	return licenses, nil
}

func (s *LicenseService) Update(ctx context.Context, meta audit.RequestMeta, id uuid.UUID, in UpdateLicenseInput) (*models.License, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	license, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromDB(err, "license")
	}
	before := *license

	if in.Label != nil {
		license.Label = *in.Label
	}
	if in.Status != nil {
		license.Status = *in.Status
	}
	if in.EndDate != nil {
		end, err := optionalDate("endDate", *in.EndDate)
		if err != nil {
			return nil, err
		}
		if end != nil && end.Before(license.StartDate) {
			return nil, apperr.Validation("endDate", "must not be before startDate")
		}
		license.EndDate = end
	}

	if err := s.repo.Update(ctx, license); err != nil {
		return nil, apperr.FromDB(err, "license")
	}

	s.audit.record(ctx, audit.Entry{
		Meta:     meta,
		ClientID: uuidPtr(license.ClientID),
		Action:   audit.ActionUpdate,
		Entity:   audit.EntityLicense,
		EntityID: license.ID.String(),
		OldValue: before,
		NewValue: license,
	})
	return license, nil
}

// optionalDate parses raw unless it is blank.
func optionalDate(field, raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	d, err := invoicing.ParseDate(field, strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	return &d, nil
}
