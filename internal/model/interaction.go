package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Interaction types a sales rep can log against a contact.
const (
	InteractionCall    = "call"
	InteractionEmail   = "email"
	InteractionMeeting = "meeting"
	InteractionNote    = "note"
	InteractionTask    = "task"
)

// Interaction represents a logged touchpoint scoped to a contact, its
// organization, and the user who recorded it.
type Interaction struct {
	ID              uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	OrganizationID  uuid.UUID      `json:"organization_id" gorm:"type:uuid;not null;index"`
	ContactID       uuid.UUID      `json:"contact_id" gorm:"type:uuid;not null;index"`
	CreatedByUserID uuid.UUID      `json:"created_by_user_id" gorm:"type:uuid;not null;index"`
	Type            string         `json:"type" gorm:"type:varchar(20);not null"`
	Subject         string         `json:"subject" gorm:"type:varchar(255);not null"`
	Description     string         `json:"description,omitempty" gorm:"type:text"`
	InteractionDate time.Time      `json:"interaction_date"`
	FollowUpDate    *time.Time     `json:"follow_up_date,omitempty"`
	DurationMinutes *int           `json:"duration_minutes,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (i *Interaction) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
