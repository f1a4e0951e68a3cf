package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Pipeline stages for an opportunity, ordered by progression.
const (
	StageProspecting   = "prospecting"
	StageQualification = "qualification"
	StageProposal      = "proposal"
	StageNegotiation   = "negotiation"
	StageClosedWon     = "closed_won"
	StageClosedLost    = "closed_lost"
)

// Opportunity represents a potential deal with an organization.
type Opportunity struct {
	ID                uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Name              string         `json:"name" gorm:"type:varchar(255);not null"`
	OrganizationID    uuid.UUID      `json:"organization_id" gorm:"type:uuid;not null;index"`
	ContactID         *uuid.UUID     `json:"contact_id,omitempty" gorm:"type:uuid;index"`
	AssignedUserID    *uuid.UUID     `json:"assigned_user_id,omitempty" gorm:"type:uuid;index"`
	Stage             string         `json:"stage" gorm:"type:varchar(20);not null;default:'prospecting'"`
	Value             float64        `json:"value" gorm:"type:numeric(12,2);default:0"`
	Probability       int            `json:"probability" gorm:"default:0"`
	ExpectedCloseDate *time.Time     `json:"expected_close_date,omitempty"`
	Notes             string         `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (o *Opportunity) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
