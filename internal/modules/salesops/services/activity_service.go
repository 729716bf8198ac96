package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/core/invoicing"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/models"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/repositories"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/apperr"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/validation"
)

// DefaultActivityLimit caps the reports and updates returned per client.
const DefaultActivityLimit = 50

// ActivityService handles what SDRs and admins write about a client:
// performance reports, activity updates and admin notes.
type ActivityService struct {
	reports  repositories.ReportRepo
	activity repositories.ActivityRepo
	clients  repositories.ClientRepo
}

func NewActivityService(reports repositories.ReportRepo, activity repositories.ActivityRepo, clients repositories.ClientRepo) *ActivityService {
	return &ActivityService{reports: reports, activity: activity, clients: clients}
}

type CreateReportInput struct {
	ClientID    uuid.UUID  `json:"clientId" validate:"required"`
	LicenseID   *uuid.UUID `json:"licenseId"`
	PeriodStart string     `json:"periodStart" validate:"required"`
	PeriodEnd   string     `json:"periodEnd" validate:"required"`

	InmailsSent                 int `json:"inmailsSent" validate:"gte=0"`
	InmailPositiveResponses     int `json:"inmailPositiveResponses" validate:"gte=0"`
	ConnectionRequestsSent      int `json:"connectionRequestsSent" validate:"gte=0"`
	ConnectionPositiveResponses int `json:"connectionPositiveResponses" validate:"gte=0"`
	MeetingsBooked              int `json:"meetingsBooked" validate:"gte=0"`

	Summary string `json:"summary" validate:"max=5000"`
}

type CreateUpdateInput struct {
	ClientID uuid.UUID `json:"clientId" validate:"required"`
	Kind     string    `json:"kind" validate:"required,oneof=CALL EMAIL MEETING NOTE"`
	Message  string    `json:"message" validate:"required,max=5000"`
}

type CreateNoteInput struct {
	Tag    string `json:"tag" validate:"required,oneof=ACCOUNT BILLING RISK"`
	Pinned bool   `json:"pinned"`
	Body   string `json:"body" validate:"required,max=10000"`
}

// CreateReport stores a report filed by sdrID. Reports are never edited.
func (s *ActivityService) CreateReport(ctx context.Context, sdrID uuid.UUID, in CreateReportInput) (*models.Report, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	start, err := invoicing.ParseDate("periodStart", in.PeriodStart)
	if err != nil {
		return nil, err
	}
	end, err := invoicing.ParseDate("periodEnd", in.PeriodEnd)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, apperr.Validation("periodEnd", "must not be before periodStart")
	}
	if in.InmailPositiveResponses > in.InmailsSent {
		return nil, apperr.Validation("inmailPositiveResponses", "must not exceed inmailsSent")
	}
	if in.ConnectionPositiveResponses > in.ConnectionRequestsSent {
		return nil, apperr.Validation("connectionPositiveResponses", "must not exceed connectionRequestsSent")
	}
	if _, err := s.clients.GetByID(ctx, in.ClientID); err != nil {
		return nil, apperr.FromDB(err, "client")
	}

	report := &models.Report{
		ClientID:    in.ClientID,
		LicenseID:   in.LicenseID,
		SdrID:       sdrID,
		PeriodStart: start,
		PeriodEnd:   end,
		Metrics: models.ReportMetrics{
			InmailsSent:                 in.InmailsSent,
			InmailPositiveResponses:     in.InmailPositiveResponses,
			ConnectionRequestsSent:      in.ConnectionRequestsSent,
			ConnectionPositiveResponses: in.ConnectionPositiveResponses,
			MeetingsBooked:              in.MeetingsBooked,
		},
		Summary: strings.TrimSpace(in.Summary),
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, apperr.FromDB(err, "report")
	}
	return report, nil
}

func (s *ActivityService) ListReports(ctx context.Context, clientID uuid.UUID, limit int) ([]models.Report, error) {
	if limit <= 0 || limit > DefaultActivityLimit {
		limit = DefaultActivityLimit
	}
	reports, err := s.reports.ListByClient(ctx, clientID, limit)
	if err != nil {
		return nil, apperr.FromDB(err, "report")
	}
	return reports, nil
}

func (s *ActivityService) CreateUpdate(ctx context.Context, sdrID uuid.UUID, in CreateUpdateInput) (*models.SdrUpdate, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if _, err := s.clients.GetByID(ctx, in.ClientID); err != nil {
		return nil, apperr.FromDB(err, "client")
	}
	update := &models.SdrUpdate{
		ClientID: in.ClientID,
		SdrID:    sdrID,
		Kind:     in.Kind,
		Message:  strings.TrimSpace(in.Message),
	}
	if err := s.activity.CreateUpdate(ctx, update); err != nil {
		return nil, apperr.FromDB(err, "update")
	}
	return update, nil
}

func (s *ActivityService) CreateNote(ctx context.Context, authorID, clientID uuid.UUID, in CreateNoteInput) (*models.AdminNote, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if _, err := s.clients.GetByID(ctx, clientID); err != nil {
		return nil, apperr.FromDB(err, "client")
	}
	note := &models.AdminNote{
		ClientID: clientID,
		AuthorID: authorID,
		Tag:      in.Tag,
		Pinned:   in.Pinned,
		Body:     strings.TrimSpace(in.Body),
	}
	if err := s.activity.CreateNote(ctx, note); err != nil {
		return nil, apperr.FromDB(err, "note")
	}
	return note, nil
}

// ListNotes returns pinned notes first, newest first within each group.
func (s *ActivityService) ListNotes(ctx context.Context, clientID uuid.UUID) ([]models.AdminNote, error) {
	notes, err := s.activity.ListNotes(ctx, clientID)
	if err != nil {
		return nil, apperr.FromDB(err, "note")
	}
	return notes, nil
}
