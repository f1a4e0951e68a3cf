package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/model"
	"gorm.io/gorm"
)

// OpportunityStore persists pipeline records.
type OpportunityStore struct {
	*Store[model.Opportunity]
}

// NewOpportunityStore creates the opportunity store.
func NewOpportunityStore(db *gorm.DB) *OpportunityStore {
	return &OpportunityStore{Store: NewStore[model.Opportunity](db)}
}

// OpportunityFilter carries opportunity search parameters.
type OpportunityFilter struct {
	Query          string
	OrganizationID *uuid.UUID
	AssignedUserID *uuid.UUID
	Stage          string
	MinValue       *float64
	MaxValue       *float64
	Limit          int
	Offset         int
}

// Search returns one page of opportunities matching the filter.
func (s *OpportunityStore) Search(ctx context.Context, f OpportunityFilter) ([]model.Opportunity, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if f.Query != "" {
			db = db.Where("name ILIKE ?", "%"+f.Query+"%")
		}
		if f.OrganizationID != nil {
			db = db.Where("organization_id = ?", *f.OrganizationID)
		}
		if f.AssignedUserID != nil {
			db = db.Where("assigned_user_id = ?", *f.AssignedUserID)
		}
		if f.Stage != "" {
			db = db.Where("stage = ?", f.Stage)
		}
		if f.MinValue != nil {
			db = db.Where("value >= ?", *f.MinValue)
		}
		if f.MaxValue != nil {
			db = db.Where("value <= ?", *f.MaxValue)
		}
		return db
	}
	return s.List(ctx, f.Limit, f.Offset, scope)
}
