// Package repository provides the gorm-backed persistence layer: one
// generic CRUD core shared by every entity store through delegation,
// plus per-entity search filters. No store holds state beyond the
// database handle.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/prometheus"
	"gorm.io/gorm"
)

// Store is the generic CRUD core. The type parameter selects the table
// through gorm's model mapping; soft deletes stay transparent.
type Store[T any] struct {
	db *gorm.DB
}

// NewStore creates a store for one entity type.
func NewStore[T any](db *gorm.DB) *Store[T] {
	return &Store[T]{db: db}
}

// Create inserts one row.
func (s *Store[T]) Create(ctx context.Context, row *T) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return s.db.WithContext(ctx).Create(row).Error
}

// FindByID fetches one row by primary key. gorm.ErrRecordNotFound is
// preserved for not-found mapping at the HTTP boundary.
func (s *Store[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var row T
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Save writes every field of the row back.
func (s *Store[T]) Save(ctx context.Context, row *T) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	return s.db.WithContext(ctx).Save(row).Error
}

// Delete soft-deletes one row by primary key.
func (s *Store[T]) Delete(ctx context.Context, id uuid.UUID) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())
	var row T
	result := s.db.WithContext(ctx).Delete(&row, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns one page of rows plus the unpaged total. The scope
// carries entity-specific filter conditions.
func (s *Store[T]) List(ctx context.Context, limit, offset int, scope func(*gorm.DB) *gorm.DB) ([]T, int64, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var total int64
	if err := scope(s.db.WithContext(ctx).Model(new(T))).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := make([]T, 0, limit)
	err := scope(s.db.WithContext(ctx).Model(new(T))).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
