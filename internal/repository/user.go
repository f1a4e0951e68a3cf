package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/model"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/prometheus"
	"gorm.io/gorm"
)

// UserStore persists application users.
type UserStore struct {
	*Store[model.User]
}

// NewUserStore creates the user store.
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{Store: NewStore[model.User](db)}
}

// FindByEmail fetches one user by email.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UserFilter carries user search parameters.
type UserFilter struct {
	Query          string
	Role           string
	OrganizationID *uuid.UUID
	IsActive       *bool
	Limit          int
	Offset         int
}

// Search returns one page of users matching the filter.
func (s *UserStore) Search(ctx context.Context, f UserFilter) ([]model.User, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if f.Query != "" {
			pattern := "%" + f.Query + "%"
			db = db.Where("email ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?", pattern, pattern, pattern)
		}
		if f.Role != "" {
			db = db.Where("role = ?", f.Role)
		}
		if f.OrganizationID != nil {
			db = db.Where("organization_id = ?", *f.OrganizationID)
		}
		if f.IsActive != nil {
			db = db.Where("is_active = ?", *f.IsActive)
		}
		return db
	}
	return s.List(ctx, f.Limit, f.Offset, scope)
}
