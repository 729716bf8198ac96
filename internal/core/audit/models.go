package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog records who changed what on a client account.
type AuditLog struct {
	ID uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`

	// Context
	ActorID  *uuid.UUID `json:"actorId,omitempty" gorm:"type:uuid;index"`
	ClientID *uuid.UUID `json:"clientId,omitempty" gorm:"type:uuid;index"`

	// Action details
	Action   string `json:"action" gorm:"type:text;not null;index"`
	Entity   string `json:"entity" gorm:"type:text;not null;index"`
	EntityID string `json:"entityId" gorm:"type:text;index"`

	// Change tracking
	OldValue datatypes.JSON `json:"oldValue,omitempty"`
	NewValue datatypes.JSON `json:"newValue,omitempty"`

	// Request metadata
	IPAddress string `json:"ipAddress,omitempty" gorm:"type:text"`
	UserAgent string `json:"userAgent,omitempty" gorm:"type:text"`
	Method    string `json:"method,omitempty" gorm:"type:text"`
	Endpoint  string `json:"endpoint,omitempty" gorm:"type:text"`

	Description string `json:"description,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"createdAt" gorm:"index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

const (
	ActionCreate   = "create"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionGenerate = "generate"
	ActionMarkPaid = "mark_paid"
)

const (
	EntityClient     = "client"
	EntityAssignment = "assignment"
	EntityInvoice    = "invoice"
	EntityLicense    = "license"
)

// RequestMeta carries the HTTP request an action came from.
type RequestMeta struct {
	ActorID   *uuid.UUID
	IPAddress string
	UserAgent string
	Method    string
	Endpoint  string
}

// Entry is one change to be recorded.
type Entry struct {
	Meta        RequestMeta
	ClientID    *uuid.UUID
	Action      string
	Entity      string
	EntityID    string
	OldValue    interface{}
	NewValue    interface{}
	Description string
}

// AuditFilter represents filters for querying audit logs
type AuditFilter struct {
	ClientID  *uuid.UUID
	ActorID   *uuid.UUID
	Action    string
	Entity    string
	EntityID  string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PageSize  int
}

// AuditLogResponse represents paginated audit log response
type AuditLogResponse struct {
	Logs       []AuditLog `json:"logs"`
	TotalCount int64      `json:"totalCount"`
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
	TotalPages int        `json:"totalPages"`
}
