package repository

import (
	"context"
	"time"

	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/model"
	"github.com/krwhynot/kitchen-pantry-crm-sub006/prometheus"
	"gorm.io/gorm"
)

// ProductStore persists catalog items.
type ProductStore struct {
	*Store[model.Product]
}

// NewProductStore creates the product store.
func NewProductStore(db *gorm.DB) *ProductStore {
	return &ProductStore{Store: NewStore[model.Product](db)}
}

// FindBySKU fetches one product by SKU.
func (s *ProductStore) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var product model.Product
	if err := s.db.WithContext(ctx).First(&product, "sku = ?", sku).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ProductFilter carries product search parameters.
type ProductFilter struct {
	Query    string
	Category string
	IsActive *bool
	MinPrice *float64
	MaxPrice *float64
	Limit    int
	Offset   int
}

// Search returns one page of products matching the filter.
func (s *ProductStore) Search(ctx context.Context, f ProductFilter) ([]model.Product, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if f.Query != "" {
			pattern := "%" + f.Query + "%"
			db = db.Where("name ILIKE ? OR sku ILIKE ?", pattern, pattern)
		}
		if f.Category != "" {
			db = db.Where("category = ?", f.Category)
		}
		if f.IsActive != nil {
			db = db.Where("is_active = ?", *f.IsActive)
		}
		if f.MinPrice != nil {
			db = db.Where("unit_price >= ?", *f.MinPrice)
		}
		if f.MaxPrice != nil {
			db = db.Where("unit_price <= ?", *f.MaxPrice)
		}
		return db
	}
	return s.List(ctx, f.Limit, f.Offset, scope)
}
