package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contact represents a person at an organization.
// OrganizationID is required at creation; the foreign key is the only
// referential guarantee after that.
type Contact struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID      `json:"organization_id" gorm:"type:uuid;not null;index"`
	FirstName      string         `json:"first_name" gorm:"type:varchar(100);not null"`
	LastName       string         `json:"last_name" gorm:"type:varchar(100);not null"`
	Position       string         `json:"position,omitempty" gorm:"type:varchar(100)"`
	Email          string         `json:"email,omitempty" gorm:"type:varchar(255)"`
	Phone          string         `json:"phone,omitempty" gorm:"type:varchar(50)"`
	IsPrimary      bool           `json:"is_primary" gorm:"default:false"`
	Tags           []string       `json:"tags" gorm:"serializer:json;type:jsonb"`
	Notes          string         `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
