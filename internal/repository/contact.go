package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/model"
	"gorm.io/gorm"
)

// ContactStore persists contacts.
type ContactStore struct {
	*Store[model.Contact]
}

// NewContactStore creates the contact store.
func NewContactStore(db *gorm.DB) *ContactStore {
	return &ContactStore{Store: NewStore[model.Contact](db)}
}

// ContactFilter carries contact search parameters.
type ContactFilter struct {
	Query          string
	OrganizationID *uuid.UUID
	IsPrimary      *bool
	Limit          int
	Offset         int
}

// Search returns one page of contacts matching the filter.
func (s *ContactStore) Search(ctx context.Context, f ContactFilter) ([]model.Contact, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if f.Query != "" {
			pattern := "%" + f.Query + "%"
			db = db.Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?", pattern, pattern, pattern)
		}
		if f.OrganizationID != nil {
			db = db.Where("organization_id = ?", *f.OrganizationID)
		}
		if f.IsPrimary != nil {
			db = db.Where("is_primary = ?", *f.IsPrimary)
		}
		return db
	}
	return s.List(ctx, f.Limit, f.Offset, scope)
}
