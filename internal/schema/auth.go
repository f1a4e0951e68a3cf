package schema

import (
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/model"
)

// RegisterRequest is the self-registration payload. New accounts start
// with the read_only role; an admin elevates them afterwards.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
}

// ToModel converts the validated request into a user row with the
// least-privilege role.
func (r *RegisterRequest) ToModel(passwordHash string) model.User {
	return model.User{
		Email:        r.Email,
		PasswordHash: passwordHash,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Role:         model.RoleReadOnly,
		IsActive:     true,
	}
}

// LoginRequest is the credential payload for token issuance.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest carries a password rotation. The confirmation
// must equal the new password; a mismatch is reported against the
// confirmation field.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

// UpdateProfileRequest is the self-service partial update of the
// caller's own profile. Role and activation changes stay admin-only.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,min=1,max=100"`
}

// Apply copies the provided fields onto the user row.
func (r *UpdateProfileRequest) Apply(user *model.User) {
	if r.FirstName != nil {
		user.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		user.LastName = *r.LastName
	}
}
