package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Address is a postal address embedded into organizations.
type Address struct {
	Street  string `json:"street,omitempty" gorm:"type:varchar(255)"`
	City    string `json:"city,omitempty" gorm:"type:varchar(100)"`
	State   string `json:"state,omitempty" gorm:"type:varchar(100)"`
	ZipCode string `json:"zip_code,omitempty" gorm:"type:varchar(20)"`
	Country string `json:"country,omitempty" gorm:"type:varchar(100)"`
}

// Organization represents a food-service business account.
// Every contact, interaction, and opportunity hangs off exactly one organization.
type Organization struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Name           string         `json:"name" gorm:"type:varchar(255);not null;index"`
	Type           string         `json:"type" gorm:"type:varchar(50)"`
	Priority       string         `json:"priority" gorm:"type:varchar(20);default:'medium'"`
	Segment        string         `json:"segment,omitempty" gorm:"type:varchar(100)"`
	Address        Address        `json:"address" gorm:"embedded;embeddedPrefix:address_"`
	Phone          string         `json:"phone,omitempty" gorm:"type:varchar(50)"`
	Email          string         `json:"email,omitempty" gorm:"type:varchar(255)"`
	Website        string         `json:"website,omitempty" gorm:"type:varchar(255)"`
	AssignedUserID *uuid.UUID     `json:"assigned_user_id,omitempty" gorm:"type:uuid;index"`
	Tags           []string       `json:"tags" gorm:"serializer:json;type:jsonb"`
	Notes          string         `json:"notes,omitempty" gorm:"type:text"`
	IsActive       bool           `json:"is_active" gorm:"default:true"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
