package schema

import (
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/model"
)

// CreateContactRequest is the payload for creating a contact. The owning
// organization is required; a contact never exists on its own.
type CreateContactRequest struct {
	OrganizationID string   `json:"organization_id" validate:"required,uuid"`
	FirstName      string   `json:"first_name" validate:"required,max=100"`
	LastName       string   `json:"last_name" validate:"required,max=100"`
	Position       string   `json:"position" validate:"omitempty,max=100"`
	Email          string   `json:"email" validate:"omitempty,email"`
	Phone          string   `json:"phone" validate:"omitempty,phone"`
	IsPrimary      bool     `json:"is_primary"`
	Tags           []string `json:"tags" validate:"omitempty,max=20,dive,max=50"`
	Notes          string   `json:"notes" validate:"omitempty,max=2000"`
}

// Defaults fills the declared defaults for fields the payload omitted.
func (r *CreateContactRequest) Defaults() {
	if r.Tags == nil {
		r.Tags = []string{}
	}
}

// ToModel converts the validated, defaulted request into a model row.
func (r *CreateContactRequest) ToModel() model.Contact {
	return model.Contact{
		OrganizationID: parseUUID(r.OrganizationID),
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Position:       r.Position,
		Email:          r.Email,
		Phone:          r.Phone,
		IsPrimary:      r.IsPrimary,
		Tags:           r.Tags,
		Notes:          r.Notes,
	}
}

// UpdateContactRequest is the partial-update payload.
type UpdateContactRequest struct {
	OrganizationID *string   `json:"organization_id" validate:"omitempty,uuid"`
	FirstName      *string   `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName       *string   `json:"last_name" validate:"omitempty,min=1,max=100"`
	Position       *string   `json:"position" validate:"omitempty,max=100"`
	Email          *string   `json:"email" validate:"omitempty,email"`
	Phone          *string   `json:"phone" validate:"omitempty,phone"`
	IsPrimary      *bool     `json:"is_primary"`
	Tags           *[]string `json:"tags" validate:"omitempty,max=20,dive,max=50"`
	Notes          *string   `json:"notes" validate:"omitempty,max=2000"`
}

// Apply copies the provided fields onto the contact row.
func (r *UpdateContactRequest) Apply(contact *model.Contact) {
	if r.OrganizationID != nil {
		contact.OrganizationID = parseUUID(*r.OrganizationID)
	}
	if r.FirstName != nil {
		contact.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		contact.LastName = *r.LastName
	}
	if r.Position != nil {
		contact.Position = *r.Position
	}
	if r.Email != nil {
		contact.Email = *r.Email
	}
	if r.Phone != nil {
		contact.Phone = *r.Phone
	}
	if r.IsPrimary != nil {
		contact.IsPrimary = *r.IsPrimary
	}
	if r.Tags != nil {
		contact.Tags = *r.Tags
	}
	if r.Notes != nil {
		contact.Notes = *r.Notes
	}
}

// SearchContactRequest is bound from query parameters.
type SearchContactRequest struct {
	Query          *string `json:"q" query:"q" validate:"omitempty,max=255"`
	OrganizationID *string `json:"organization_id" query:"organization_id" validate:"omitempty,uuid"`
	IsPrimary      *bool   `json:"is_primary" query:"is_primary"`
	Limit          *int    `json:"limit" query:"limit" validate:"omitempty,gt=0,lte=100"`
	Offset         *int    `json:"offset" query:"offset" validate:"omitempty,gte=0"`
}

// Defaults fills pagination bounds the request omitted.
func (r *SearchContactRequest) Defaults() {
	r.Limit = defaultLimit(r.Limit)
	r.Offset = defaultOffset(r.Offset)
}
