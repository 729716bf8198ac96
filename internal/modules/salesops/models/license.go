package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// License is one seat of a service sold to a client.
type License struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"clientId"`
	ServiceType string     `gorm:"type:text;not null" json:"serviceType"`
	Label       string     `gorm:"type:text" json:"label,omitempty"`
	Status      string     `gorm:"type:text;not null;index" json:"status"`
	StartDate   time.Time  `gorm:"type:date;not null" json:"startDate"`
	EndDate     *time.Time `gorm:"type:date" json:"endDate,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (License) TableName() string {
	return "licenses"
}

func (l *License) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

const (
	LicenseStatusActive   = "ACTIVE"
	LicenseStatusInactive = "INACTIVE"
	LicenseStatusExpired  = "EXPIRED"
)
