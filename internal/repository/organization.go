package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/model"
	"gorm.io/gorm"
)

// OrganizationStore persists organizations.
type OrganizationStore struct {
	*Store[model.Organization]
}

// NewOrganizationStore creates the organization store.
func NewOrganizationStore(db *gorm.DB) *OrganizationStore {
	return &OrganizationStore{Store: NewStore[model.Organization](db)}
}

// OrganizationFilter carries organization search parameters.
type OrganizationFilter struct {
	Query          string
	Type           string
	Priority       string
	Segment        string
	AssignedUserID *uuid.UUID
	IsActive       *bool
	Limit          int
	Offset         int
}

// Search returns one page of organizations matching the filter.
func (s *OrganizationStore) Search(ctx context.Context, f OrganizationFilter) ([]model.Organization, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if f.Query != "" {
			db = db.Where("name ILIKE ?", "%"+f.Query+"%")
		}
		if f.Type != "" {
			db = db.Where("type = ?", f.Type)
		}
		if f.Priority != "" {
			db = db.Where("priority = ?", f.Priority)
		}
		if f.Segment != "" {
			db = db.Where("segment = ?", f.Segment)
		}
		if f.AssignedUserID != nil {
			db = db.Where("assigned_user_id = ?", *f.AssignedUserID)
		}
		if f.IsActive != nil {
			db = db.Where("is_active = ?", *f.IsActive)
		}
		return db
	}
	return s.List(ctx, f.Limit, f.Offset, scope)
}
