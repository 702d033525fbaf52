// internal/domain/catalog/entity.go
package catalog

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultImageURL is used when a product is created without an image.
const DefaultImageURL = "https://placehold.co/400x300/E0D0D4/6B4950?text=Sem+Imagem"

// Product represents a catalog product
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"not null;size:255" json:"name"`
	Price       decimal.Decimal `gorm:"not null;type:numeric(10,2)" json:"price"`
	Description string          `gorm:"type:text" json:"description"`
	ImageURL    string          `gorm:"size:500" json:"image_url"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	Category    string          `gorm:"index;size:100" json:"category"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Product) TableName() string {
	return "products"
}

// InStock reports whether the product has at least one unit available.
func (p *Product) InStock() bool {
	return p.Stock > 0
}
