package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the coarse application-level role attached to a user.
// Row-level ownership stays a database concern; roles only gate routes.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleSalesRep Role = "sales_rep"
	RoleReadOnly Role = "read_only"
)

// KnownRoles lists every role the application recognizes.
var KnownRoles = []Role{RoleAdmin, RoleManager, RoleSalesRep, RoleReadOnly}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, known := range KnownRoles {
		if r == known {
			return true
		}
	}
	return false
}

// User represents an application user stored in the database
type User struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Email          string         `json:"email" gorm:"type:varchar(255);uniqueIndex"`
	PasswordHash   string         `json:"-" gorm:"type:varchar(255)"`
	FirstName      string         `json:"first_name" gorm:"type:varchar(100)"`
	LastName       string         `json:"last_name" gorm:"type:varchar(100)"`
	Role           Role           `json:"role" gorm:"type:varchar(20);not null;default:'read_only'"`
	OrganizationID *uuid.UUID     `json:"organization_id,omitempty" gorm:"type:uuid;index"`
	IsActive       bool           `json:"is_active" gorm:"default:true"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
