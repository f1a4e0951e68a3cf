package schema

import (
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/model"
)

// AddressRequest is the nested address payload. Every field is optional;
// constraint violations report dotted paths such as "address.zip_code".
type AddressRequest struct {
	Street  string `json:"street" validate:"omitempty,max=255"`
	City    string `json:"city" validate:"omitempty,max=100"`
	State   string `json:"state" validate:"omitempty,max=100"`
	ZipCode string `json:"zip_code" validate:"omitempty,max=20"`
	Country string `json:"country" validate:"omitempty,max=100"`
}

func (a *AddressRequest) toModel() model.Address {
	return model.Address{
		Street:  a.Street,
		City:    a.City,
		State:   a.State,
		ZipCode: a.ZipCode,
		Country: a.Country,
	}
}

// CreateOrganizationRequest is the payload for creating an organization.
type CreateOrganizationRequest struct {
	Name           string          `json:"name" validate:"required,max=255"`
	Type           string          `json:"type" validate:"omitempty,oneof=restaurant grocery distributor catering institutional other"`
	Priority       string          `json:"priority" validate:"omitempty,oneof=low medium high"`
	Segment        string          `json:"segment" validate:"omitempty,max=100"`
	Address        *AddressRequest `json:"address"`
	Phone          string          `json:"phone" validate:"omitempty,phone"`
	Email          string          `json:"email" validate:"omitempty,email"`
	Website        string          `json:"website" validate:"omitempty,url"`
	AssignedUserID string          `json:"assigned_user_id" validate:"omitempty,uuid"`
	Tags           []string        `json:"tags" validate:"omitempty,max=20,dive,max=50"`
	Notes          string          `json:"notes" validate:"omitempty,max=2000"`
	IsActive       *bool           `json:"is_active"`
}

// Defaults fills the declared defaults for fields the payload omitted.
func (r *CreateOrganizationRequest) Defaults() {
	if r.Priority == "" {
		r.Priority = "medium"
	}
	if r.IsActive == nil {
		r.IsActive = boolPtr(true)
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
}

// ToModel converts the validated, defaulted request into a model row.
func (r *CreateOrganizationRequest) ToModel() model.Organization {
	org := model.Organization{
		Name:     r.Name,
		Type:     r.Type,
		Priority: r.Priority,
		Segment:  r.Segment,
		Phone:    r.Phone,
		Email:    r.Email,
		Website:  r.Website,
		Tags:     r.Tags,
		Notes:    r.Notes,
		IsActive: *r.IsActive,
	}
	if r.Address != nil {
		org.Address = r.Address.toModel()
	}
	if r.AssignedUserID != "" {
		id := parseUUID(r.AssignedUserID)
		org.AssignedUserID = &id
	}
	return org
}

// UpdateOrganizationRequest is the partial-update payload. Every field is
// optional; only fields present in the payload are applied.
type UpdateOrganizationRequest struct {
	Name           *string         `json:"name" validate:"omitempty,min=1,max=255"`
	Type           *string         `json:"type" validate:"omitempty,oneof=restaurant grocery distributor catering institutional other"`
	Priority       *string         `json:"priority" validate:"omitempty,oneof=low medium high"`
	Segment        *string         `json:"segment" validate:"omitempty,max=100"`
	Address        *AddressRequest `json:"address"`
	Phone          *string         `json:"phone" validate:"omitempty,phone"`
	Email          *string         `json:"email" validate:"omitempty,email"`
	Website        *string         `json:"website" validate:"omitempty,url"`
	AssignedUserID *string         `json:"assigned_user_id" validate:"omitempty,uuid"`
	Tags           *[]string       `json:"tags" validate:"omitempty,max=20,dive,max=50"`
	Notes          *string         `json:"notes" validate:"omitempty,max=2000"`
	IsActive       *bool           `json:"is_active"`
}

// Apply copies the provided fields onto the organization row.
func (r *UpdateOrganizationRequest) Apply(org *model.Organization) {
	if r.Name != nil {
		org.Name = *r.Name
	}
	if r.Type != nil {
		org.Type = *r.Type
	}
	if r.Priority != nil {
		org.Priority = *r.Priority
	}
	if r.Segment != nil {
		org.Segment = *r.Segment
	}
	if r.Address != nil {
		org.Address = r.Address.toModel()
	}
	if r.Phone != nil {
		org.Phone = *r.Phone
	}
	if r.Email != nil {
		org.Email = *r.Email
	}
	if r.Website != nil {
		org.Website = *r.Website
	}
	if r.AssignedUserID != nil {
		org.AssignedUserID = parseUUIDPtr(r.AssignedUserID)
	}
	if r.Tags != nil {
		org.Tags = *r.Tags
	}
	if r.Notes != nil {
		org.Notes = *r.Notes
	}
	if r.IsActive != nil {
		org.IsActive = *r.IsActive
	}
}

// SearchOrganizationRequest is bound from query parameters.
type SearchOrganizationRequest struct {
	Query          *string `json:"q" query:"q" validate:"omitempty,max=255"`
	Type           *string `json:"type" query:"type" validate:"omitempty,oneof=restaurant grocery distributor catering institutional other"`
	Priority       *string `json:"priority" query:"priority" validate:"omitempty,oneof=low medium high"`
	Segment        *string `json:"segment" query:"segment" validate:"omitempty,max=100"`
	AssignedUserID *string `json:"assigned_user_id" query:"assigned_user_id" validate:"omitempty,uuid"`
	IsActive       *bool   `json:"is_active" query:"is_active"`
	Limit          *int    `json:"limit" query:"limit" validate:"omitempty,gt=0,lte=100"`
	Offset         *int    `json:"offset" query:"offset" validate:"omitempty,gte=0"`
}

// Defaults fills pagination bounds the request omitted.
func (r *SearchOrganizationRequest) Defaults() {
	r.Limit = defaultLimit(r.Limit)
	r.Offset = defaultOffset(r.Offset)
}
