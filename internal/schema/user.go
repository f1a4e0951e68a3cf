package schema

import (
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/model"
)

// CreateUserRequest is the admin payload for provisioning a user with an
// explicit role. Self-registration uses RegisterRequest instead.
type CreateUserRequest struct {
	Email          string `json:"email" validate:"required,email,max=255"`
	Password       string `json:"password" validate:"required,min=8,max=72"`
	FirstName      string `json:"first_name" validate:"required,max=100"`
	LastName       string `json:"last_name" validate:"required,max=100"`
	Role           string `json:"role" validate:"required,oneof=admin manager sales_rep read_only"`
	OrganizationID string `json:"organization_id" validate:"omitempty,uuid"`
	IsActive       *bool  `json:"is_active"`
}

// Defaults fills the declared defaults for fields the payload omitted.
func (r *CreateUserRequest) Defaults() {
	if r.IsActive == nil {
		r.IsActive = boolPtr(true)
	}
}

// ToModel converts the validated, defaulted request into a user row.
// The password hash is supplied by the caller; plaintext never reaches
// the model layer.
func (r *CreateUserRequest) ToModel(passwordHash string) model.User {
	user := model.User{
		Email:        r.Email,
		PasswordHash: passwordHash,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Role:         model.Role(r.Role),
		IsActive:     *r.IsActive,
	}
	if r.OrganizationID != "" {
		id := parseUUID(r.OrganizationID)
		user.OrganizationID = &id
	}
	return user
}

// UpdateUserRequest is the admin partial-update payload.
type UpdateUserRequest struct {
	Email          *string `json:"email" validate:"omitempty,email,max=255"`
	FirstName      *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName       *string `json:"last_name" validate:"omitempty,min=1,max=100"`
	Role           *string `json:"role" validate:"omitempty,oneof=admin manager sales_rep read_only"`
	OrganizationID *string `json:"organization_id" validate:"omitempty,uuid"`
	IsActive       *bool   `json:"is_active"`
}

// Apply copies the provided fields onto the user row.
func (r *UpdateUserRequest) Apply(user *model.User) {
	if r.Email != nil {
		user.Email = *r.Email
	}
	if r.FirstName != nil {
		user.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		user.LastName = *r.LastName
	}
	if r.Role != nil {
		user.Role = model.Role(*r.Role)
	}
	if r.OrganizationID != nil {
		user.OrganizationID = parseUUIDPtr(r.OrganizationID)
	}
	if r.IsActive != nil {
		user.IsActive = *r.IsActive
	}
}

// SearchUserRequest is bound from query parameters.
type SearchUserRequest struct {
	Query          *string `json:"q" query:"q" validate:"omitempty,max=255"`
	Role           *string `json:"role" query:"role" validate:"omitempty,oneof=admin manager sales_rep read_only"`
	OrganizationID *string `json:"organization_id" query:"organization_id" validate:"omitempty,uuid"`
	IsActive       *bool   `json:"is_active" query:"is_active"`
	Limit          *int    `json:"limit" query:"limit" validate:"omitempty,gt=0,lte=100"`
	Offset         *int    `json:"offset" query:"offset" validate:"omitempty,gte=0"`
}

// Defaults fills pagination bounds the request omitted.
func (r *SearchUserRequest) Defaults() {
	r.Limit = defaultLimit(r.Limit)
	r.Offset = defaultOffset(r.Offset)
}
