package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Assignment links an SDR to a client, optionally to a subset of its licenses.
type Assignment struct {
	ID         uuid.UUID                      `gorm:"type:uuid;primaryKey" json:"id"`
	SdrID      uuid.UUID                      `gorm:"type:uuid;not null;index" json:"sdrId"`
	Sdr        *User                          `gorm:"foreignKey:SdrID" json:"sdr,omitempty"`
	ClientID   uuid.UUID                      `gorm:"type:uuid;not null;index" json:"clientId"`
	LicenseIDs datatypes.JSONSlice[uuid.UUID] `json:"licenseIds"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Assignment) TableName() string {
	return "assignments"
}

func (a *Assignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
