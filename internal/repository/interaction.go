package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/model"
	"gorm.io/gorm"
)

// InteractionStore persists logged touchpoints.
type InteractionStore struct {
	*Store[model.Interaction]
}

// NewInteractionStore creates the interaction store.
func NewInteractionStore(db *gorm.DB) *InteractionStore {
	return &InteractionStore{Store: NewStore[model.Interaction](db)}
}

// InteractionFilter carries interaction search parameters.
type InteractionFilter struct {
	Query          string
	OrganizationID *uuid.UUID
	ContactID      *uuid.UUID
	Type           string
	Limit          int
	Offset         int
}

// Search returns one page of interactions matching the filter.
func (s *InteractionStore) Search(ctx context.Context, f InteractionFilter) ([]model.Interaction, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if f.Query != "" {
			db = db.Where("subject ILIKE ?", "%"+f.Query+"%")
		}
		if f.OrganizationID != nil {
			db = db.Where("organization_id = ?", *f.OrganizationID)
		}
		if f.ContactID != nil {
			db = db.Where("contact_id = ?", *f.ContactID)
		}
		if f.Type != "" {
			db = db.Where("type = ?", f.Type)
		}
		return db
	}
	return s.List(ctx, f.Limit, f.Offset, scope)
}
