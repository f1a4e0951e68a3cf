package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents a catalog item offered to customer organizations.
type Product struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string         `json:"name" gorm:"type:varchar(255);not null;index"`
	SKU         string         `json:"sku" gorm:"type:varchar(100);not null;uniqueIndex"`
	Category    string         `json:"category,omitempty" gorm:"type:varchar(100);index"`
	Description string         `json:"description,omitempty" gorm:"type:text"`
	UnitPrice   float64        `json:"unit_price" gorm:"type:numeric(12,2);default:0"`
	Unit        string         `json:"unit,omitempty" gorm:"type:varchar(50)"`
	IsActive    bool           `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
