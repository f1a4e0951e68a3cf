package schema

import (
	"time"

	"github.com/google/uuid"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/model"
)

// CreateInteractionRequest is the payload for logging a touchpoint.
// The creating user is taken from the authenticated context, never from
// the payload.
type CreateInteractionRequest struct {
	OrganizationID  string `json:"organization_id" validate:"required,uuid"`
	ContactID       string `json:"contact_id" validate:"required,uuid"`
	Type            string `json:"type" validate:"required,oneof=call email meeting note task"`
	Subject         string `json:"subject" validate:"required,max=255"`
	Description     string `json:"description" validate:"omitempty,max=2000"`
	InteractionDate string `json:"interaction_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	FollowUpDate    string `json:"follow_up_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	DurationMinutes *int   `json:"duration_minutes" validate:"omitempty,gte=0"`
}

// ToModel converts the validated request into a model row attributed to
// the given user. An omitted interaction date defaults to now.
func (r *CreateInteractionRequest) ToModel(createdBy uuid.UUID) model.Interaction {
	interaction := model.Interaction{
		OrganizationID:  parseUUID(r.OrganizationID),
		ContactID:       parseUUID(r.ContactID),
		CreatedByUserID: createdBy,
		Type:            r.Type,
		Subject:         r.Subject,
		Description:     r.Description,
		DurationMinutes: r.DurationMinutes,
	}
	if r.InteractionDate != "" {
		interaction.InteractionDate = parseTimestamp(r.InteractionDate)
	} else {
		interaction.InteractionDate = time.Now()
	}
	if r.FollowUpDate != "" {
		t := parseTimestamp(r.FollowUpDate)
		interaction.FollowUpDate = &t
	}
	return interaction
}

// UpdateInteractionRequest is the partial-update payload.
type UpdateInteractionRequest struct {
	Type            *string `json:"type" validate:"omitempty,oneof=call email meeting note task"`
	Subject         *string `json:"subject" validate:"omitempty,min=1,max=255"`
	Description     *string `json:"description" validate:"omitempty,max=2000"`
	InteractionDate *string `json:"interaction_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	FollowUpDate    *string `json:"follow_up_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	DurationMinutes *int    `json:"duration_minutes" validate:"omitempty,gte=0"`
}

// Apply copies the provided fields onto the interaction row.
func (r *UpdateInteractionRequest) Apply(interaction *model.Interaction) {
	if r.Type != nil {
		interaction.Type = *r.Type
	}
	if r.Subject != nil {
		interaction.Subject = *r.Subject
	}
	if r.Description != nil {
		interaction.Description = *r.Description
	}
	if r.InteractionDate != nil {
		interaction.InteractionDate = parseTimestamp(*r.InteractionDate)
	}
	if r.FollowUpDate != nil {
		interaction.FollowUpDate = parseTimestampPtr(r.FollowUpDate)
	}
	if r.DurationMinutes != nil {
		interaction.DurationMinutes = r.DurationMinutes
	}
}

// SearchInteractionRequest is bound from query parameters.
type SearchInteractionRequest struct {
	Query          *string `json:"q" query:"q" validate:"omitempty,max=255"`
	OrganizationID *string `json:"organization_id" query:"organization_id" validate:"omitempty,uuid"`
	ContactID      *string `json:"contact_id" query:"contact_id" validate:"omitempty,uuid"`
	Type           *string `json:"type" query:"type" validate:"omitempty,oneof=call email meeting note task"`
	Limit          *int    `json:"limit" query:"limit" validate:"omitempty,gt=0,lte=100"`
	Offset         *int    `json:"offset" query:"offset" validate:"omitempty,gte=0"`
}

// Defaults fills pagination bounds the request omitted.
func (r *SearchInteractionRequest) Defaults() {
	r.Limit = defaultLimit(r.Limit)
	r.Offset = defaultOffset(r.Offset)
}
