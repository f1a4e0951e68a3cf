package schema

import (
	"github.com/krwhynot/kitchen-pantry-crm-sub006/internal/model"
)

// CreateProductRequest is the payload for adding a catalog item.
type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required,max=255"`
	SKU         string  `json:"sku" validate:"required,max=100"`
	Category    string  `json:"category" validate:"omitempty,max=100"`
	Description string  `json:"description" validate:"omitempty,max=2000"`
	UnitPrice   float64 `json:"unit_price" validate:"omitempty,gte=0,currency"`
	Unit        string  `json:"unit" validate:"omitempty,max=50"`
	IsActive    *bool   `json:"is_active"`
}

// Defaults fills the declared defaults for fields the payload omitted.
func (r *CreateProductRequest) Defaults() {
	if r.IsActive == nil {
		r.IsActive = boolPtr(true)
	}
}

// ToModel converts the validated, defaulted request into a model row.
func (r *CreateProductRequest) ToModel() model.Product {
	return model.Product{
		Name:        r.Name,
		SKU:         r.SKU,
		Category:    r.Category,
		Description: r.Description,
		UnitPrice:   r.UnitPrice,
		Unit:        r.Unit,
		IsActive:    *r.IsActive,
	}
}

// UpdateProductRequest is the partial-update payload.
type UpdateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=255"`
	SKU         *string  `json:"sku" validate:"omitempty,min=1,max=100"`
	Category    *string  `json:"category" validate:"omitempty,max=100"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	UnitPrice   *float64 `json:"unit_price" validate:"omitempty,gte=0,currency"`
	Unit        *string  `json:"unit" validate:"omitempty,max=50"`
	IsActive    *bool    `json:"is_active"`
}

// Apply copies the provided fields onto the product row.
func (r *UpdateProductRequest) Apply(product *model.Product) {
	if r.Name != nil {
		product.Name = *r.Name
	}
	if r.SKU != nil {
		product.SKU = *r.SKU
	}
	if r.Category != nil {
		product.Category = *r.Category
	}
	if r.Description != nil {
		product.Description = *r.Description
	}
	if r.UnitPrice != nil {
		product.UnitPrice = *r.UnitPrice
	}
	if r.Unit != nil {
		product.Unit = *r.Unit
	}
	if r.IsActive != nil {
		product.IsActive = *r.IsActive
	}
}

// SearchProductRequest is bound from query parameters.
type SearchProductRequest struct {
	Query    *string  `json:"q" query:"q" validate:"omitempty,max=255"`
	Category *string  `json:"category" query:"category" validate:"omitempty,max=100"`
	IsActive *bool    `json:"is_active" query:"is_active"`
	MinPrice *float64 `json:"min_price" query:"min_price" validate:"omitempty,gte=0"`
	MaxPrice *float64 `json:"max_price" query:"max_price" validate:"omitempty,gte=0"`
	Limit    *int     `json:"limit" query:"limit" validate:"omitempty,gt=0,lte=100"`
	Offset   *int     `json:"offset" query:"offset" validate:"omitempty,gte=0"`
}

// Defaults fills pagination bounds the request omitted.
func (r *SearchProductRequest) Defaults() {
	r.Limit = defaultLimit(r.Limit)
	r.Offset = defaultOffset(r.Offset)
}
