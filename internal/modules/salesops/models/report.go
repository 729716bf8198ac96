package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportMetrics are the outreach counters an SDR reports for a period.
type ReportMetrics struct {
	InmailsSent                 int `gorm:"type:integer;not null" json:"inmailsSent"`
	InmailPositiveResponses     int `gorm:"type:integer;not null" json:"inmailPositiveResponses"`
	ConnectionRequestsSent      int `gorm:"type:integer;not null" json:"connectionRequestsSent"`
	ConnectionPositiveResponses int `gorm:"type:integer;not null" json:"connectionPositiveResponses"`
	MeetingsBooked              int `gorm:"type:integer;not null" json:"meetingsBooked"`
}

// PositiveResponses counts positive replies across channels.
func (m ReportMetrics) PositiveResponses() int {
	return m.InmailPositiveResponses + m.ConnectionPositiveResponses
}

// Report is an immutable SDR performance report.
type Report struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"clientId"`
	LicenseID   *uuid.UUID    `gorm:"type:uuid" json:"licenseId,omitempty"`
	SdrID       uuid.UUID     `gorm:"type:uuid;not null;index" json:"sdrId"`
	PeriodStart time.Time     `gorm:"type:date;not null" json:"periodStart"`
	PeriodEnd   time.Time     `gorm:"type:date;not null" json:"periodEnd"`
	Metrics     ReportMetrics `gorm:"embedded" json:"metrics"`
	Summary     string        `gorm:"type:text" json:"summary,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
}

func (Report) TableName() string {
	return "reports"
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
