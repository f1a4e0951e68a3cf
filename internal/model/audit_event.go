package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit event categories.
const (
	AuditCategoryAuth  = "auth"
	AuditCategoryAdmin = "admin"
)

// AuditEvent is a persisted record of a security-relevant action.
type AuditEvent struct {
	ID             uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	Category       string            `json:"category" gorm:"type:varchar(20);not null;index"`
	EventType      string            `json:"event_type" gorm:"type:varchar(50);not null;index"`
	Success        bool              `json:"success"`
	ActorID        *uuid.UUID        `json:"actor_id,omitempty" gorm:"type:uuid;index"`
	ActorEmail     string            `json:"actor_email,omitempty" gorm:"type:varchar(255)"`
	EntityType     string            `json:"entity_type,omitempty" gorm:"type:varchar(50)"`
	EntityID       *uuid.UUID        `json:"entity_id,omitempty" gorm:"type:uuid"`
	OrganizationID *uuid.UUID        `json:"organization_id,omitempty" gorm:"type:uuid"`
	IP             string            `json:"ip,omitempty" gorm:"type:varchar(45)"`
	UserAgent      string            `json:"user_agent,omitempty" gorm:"type:varchar(255)"`
	FailureReason  string            `json:"failure_reason,omitempty" gorm:"type:varchar(255)"`
	Details        map[string]string `json:"details,omitempty" gorm:"serializer:json;type:jsonb"`
	CreatedAt      time.Time         `json:"created_at" gorm:"index"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (e *AuditEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
