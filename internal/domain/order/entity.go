// internal/domain/order/entity.go
package order

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentMethod represents how an order was paid
type PaymentMethod string

const (
	PaymentMethodPix  PaymentMethod = "pix"
	PaymentMethodCard PaymentMethod = "card"
)

// Valid reports whether the payment method is one we accept.
func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodPix || m == PaymentMethodCard
}

// OrderStatus represents the order status
type OrderStatus string

const OrderStatusPaid OrderStatus = "paid"

// Order represents a committed purchase. Orders are immutable once
// created; the committer is the only writer.
type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	OrderNumber     string          `gorm:"uniqueIndex;size:50" json:"order_number"`
	UserID          uint            `gorm:"not null;index" json:"user_id"`
	Status          OrderStatus     `gorm:"not null;default:'paid'" json:"status"`
	PaymentMethod   PaymentMethod   `gorm:"not null;size:20" json:"payment_method"`
	SubtotalAmount  decimal.Decimal `gorm:"not null;type:numeric(10,2)" json:"subtotal_amount"`
	ShippingAmount  decimal.Decimal `gorm:"not null;type:numeric(10,2)" json:"shipping_amount"`
	TotalAmount     decimal.Decimal `gorm:"not null;type:numeric(10,2)" json:"total_amount"`
	ShippingAddress string          `gorm:"size:500" json:"shipping_address"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// OrderItem captures one purchased line. UnitPrice is the price at the
// moment of sale, not the live catalog price.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Name      string          `gorm:"not null;size:255" json:"name"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"not null;type:numeric(10,2)" json:"unit_price"`
	CreatedAt time.Time       `json:"created_at"`
}

// Total returns the line total at the sale-time price.
func (i OrderItem) Total() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// TableName overrides
func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }

// GenerateOrderNumber generates a unique order number.
// Format: ORD-YYYYMMDD-XXXXX
func (o *Order) GenerateOrderNumber() string {
	return fmt.Sprintf("ORD-%s-%05d", time.Now().UTC().Format("20060102"), o.ID)
}
