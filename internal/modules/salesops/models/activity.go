package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SdrUpdate is a free-form activity log entry posted by an SDR.
type SdrUpdate struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID uuid.UUID `gorm:"type:uuid;not null;index" json:"clientId"`
	SdrID    uuid.UUID `gorm:"type:uuid;not null;index" json:"sdrId"`
	Kind     string    `gorm:"type:text;not null" json:"kind"`
	Message  string    `gorm:"type:text;not null" json:"message"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
}

func (SdrUpdate) TableName() string {
	return "sdr_updates"
}

func (u *SdrUpdate) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

const (
	UpdateKindCall    = "CALL"
	UpdateKindEmail   = "EMAIL"
	UpdateKindMeeting = "MEETING"
	UpdateKindNote    = "NOTE"
)

// AdminNote is an append-only note admins keep on a client.
type AdminNote struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID uuid.UUID `gorm:"type:uuid;not null;index" json:"clientId"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null" json:"authorId"`
	Tag      string    `gorm:"type:text;not null" json:"tag"`
	Pinned   bool      `gorm:"type:boolean;not null" json:"pinned"`
	Body     string    `gorm:"type:text;not null" json:"body"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (AdminNote) TableName() string {
	return "admin_notes"
}

func (n *AdminNote) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

const (
	NoteTagAccount = "ACCOUNT"
	NoteTagBilling = "BILLING"
	NoteTagRisk    = "RISK"
)
