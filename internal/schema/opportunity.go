package schema

import (
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/model"
)

// CreateOpportunityRequest is the payload for opening a pipeline record.
type CreateOpportunityRequest struct {
	Name              string  `json:"name" validate:"required,max=255"`
	OrganizationID    string  `json:"organization_id" validate:"required,uuid"`
	ContactID         string  `json:"contact_id" validate:"omitempty,uuid"`
	AssignedUserID    string  `json:"assigned_user_id" validate:"omitempty,uuid"`
	Stage             string  `json:"stage" validate:"omitempty,oneof=prospecting qualification proposal negotiation closed_won closed_lost"`
	Value             float64 `json:"value" validate:"omitempty,gte=0,currency"`
	Probability       int     `json:"probability" validate:"omitempty,gte=0,lte=100"`
	ExpectedCloseDate string  `json:"expected_close_date" validate:"omitempty,datetime=2006-01-02"`
	Notes             string  `json:"notes" validate:"omitempty,max=2000"`
}

// Defaults fills the declared defaults for fields the payload omitted.
func (r *CreateOpportunityRequest) Defaults() {
	if r.Stage == "" {
		r.Stage = model.StageProspecting
	}
}

// ToModel converts the validated, defaulted request into a model row.
func (r *CreateOpportunityRequest) ToModel() model.Opportunity {
	opp := model.Opportunity{
		Name:           r.Name,
		OrganizationID: parseUUID(r.OrganizationID),
		Stage:          r.Stage,
		Value:          r.Value,
		Probability:    r.Probability,
		Notes:          r.Notes,
	}
	if r.ContactID != "" {
		id := parseUUID(r.ContactID)
		opp.ContactID = &id
	}
	if r.AssignedUserID != "" {
		id := parseUUID(r.AssignedUserID)
		opp.AssignedUserID = &id
	}
	if r.ExpectedCloseDate != "" {
		opp.ExpectedCloseDate = parseDatePtr(&r.ExpectedCloseDate)
	}
	return opp
}

// UpdateOpportunityRequest is the partial-update payload.
type UpdateOpportunityRequest struct {
	Name              *string  `json:"name" validate:"omitempty,min=1,max=255"`
	ContactID         *string  `json:"contact_id" validate:"omitempty,uuid"`
	AssignedUserID    *string  `json:"assigned_user_id" validate:"omitempty,uuid"`
	Stage             *string  `json:"stage" validate:"omitempty,oneof=prospecting qualification proposal negotiation closed_won closed_lost"`
	Value             *float64 `json:"value" validate:"omitempty,gte=0,currency"`
	Probability       *int     `json:"probability" validate:"omitempty,gte=0,lte=100"`
	ExpectedCloseDate *string  `json:"expected_close_date" validate:"omitempty,datetime=2006-01-02"`
	Notes             *string  `json:"notes" validate:"omitempty,max=2000"`
}

// Apply copies the provided fields onto the opportunity row.
func (r *UpdateOpportunityRequest) Apply(opp *model.Opportunity) {
	if r.Name != nil {
		opp.Name = *r.Name
	}
	if r.ContactID != nil {
		opp.ContactID = parseUUIDPtr(r.ContactID)
	}
	if r.AssignedUserID != nil {
		opp.AssignedUserID = parseUUIDPtr(r.AssignedUserID)
	}
	if r.Stage != nil {
		opp.Stage = *r.Stage
	}
	if r.Value != nil {
		opp.Value = *r.Value
	}
	if r.Probability != nil {
		opp.Probability = *r.Probability
	}
	if r.ExpectedCloseDate != nil {
		opp.ExpectedCloseDate = parseDatePtr(r.ExpectedCloseDate)
	}
	if r.Notes != nil {
		opp.Notes = *r.Notes
	}
}

// SearchOpportunityRequest is bound from query parameters.
type SearchOpportunityRequest struct {
	Query          *string  `json:"q" query:"q" validate:"omitempty,max=255"`
	OrganizationID *string  `json:"organization_id" query:"organization_id" validate:"omitempty,uuid"`
	AssignedUserID *string  `json:"assigned_user_id" query:"assigned_user_id" validate:"omitempty,uuid"`
	Stage          *string  `json:"stage" query:"stage" validate:"omitempty,oneof=prospecting qualification proposal negotiation closed_won closed_lost"`
	MinValue       *float64 `json:"min_value" query:"min_value" validate:"omitempty,gte=0"`
	MaxValue       *float64 `json:"max_value" query:"max_value" validate:"omitempty,gte=0"`
	Limit          *int     `json:"limit" query:"limit" validate:"omitempty,gt=0,lte=100"`
	Offset         *int     `json:"offset" query:"offset" validate:"omitempty,gte=0"`
}

// Defaults fills pagination bounds the request omitted.
func (r *SearchOpportunityRequest) Defaults() {
	r.Limit = defaultLimit(r.Limit)
	r.Offset = defaultOffset(r.Offset)
}
