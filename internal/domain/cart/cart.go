// internal/domain/cart/cart.go
package cart

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
)

var (
	// ErrOutOfStock is returned when adding a product with zero live stock.
	ErrOutOfStock = errors.New("product is out of stock")

	// ErrInsufficientStock is returned when merging an add would push the
	// line quantity above live stock. The cart is left unchanged.
	ErrInsufficientStock = errors.New("insufficient stock for requested quantity")

	// ErrStockCeilingReached signals that an increase was rejected because
	// the line is already at its snapshotted stock ceiling. The cart is
	// left unchanged; callers surface this as a warning, not a failure.
	ErrStockCeilingReached = errors.New("stock ceiling reached")
)

// QuantityAction selects the direction of a quantity adjustment.
type QuantityAction string

const (
	QuantityIncrease QuantityAction = "increase"
	QuantityDecrease QuantityAction = "decrease"
)

// LineItem is one product line within a cart. UnitPrice and StockCeiling
// are snapshots taken when the line was created; the ceiling is advisory
// only and the authoritative stock check happens at order commit.
type LineItem struct {
	ProductID    uint            `json:"product_id"`
	Name         string          `json:"name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	StockCeiling int             `json:"stock_ceiling"`
}

// Total returns unit price times quantity for this line.
func (li LineItem) Total() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Cart is a shopper's in-progress collection of line items, insertion
// ordered, with at most one line per product. It carries no notion of
// session or user; callers persist it through a Store keyed however
// they see fit.
type Cart struct {
	Items []LineItem `json:"items"`
}

// Add puts quantity units of product into the cart, merging with an
// existing line for the same product by summing quantities. The live
// catalog product supplies the price and stock snapshots.
func (c *Cart) Add(product *catalog.Product, quantity int) error {
	if !product.InStock() {
		return ErrOutOfStock
	}
	if quantity < 1 {
		quantity = 1
	}

	for i := range c.Items {
		if c.Items[i].ProductID != product.ID {
			continue
		}
		if c.Items[i].Quantity+quantity > product.Stock {
			return ErrInsufficientStock
		}
		c.Items[i].Quantity += quantity
		return nil
	}

	c.Items = append(c.Items, LineItem{
		ProductID:    product.ID,
		Name:         product.Name,
		UnitPrice:    product.Price,
		Quantity:     quantity,
		StockCeiling: product.Stock,
	})
	return nil
}

// AdjustQuantity steps a line's quantity up or down by one. Increase is
// rejected with ErrStockCeilingReached once the line sits at its stock
// ceiling; decrease floors at 1 and never removes the line. An unknown
// product id is a no-op.
func (c *Cart) AdjustQuantity(productID uint, action QuantityAction) error {
	for i := range c.Items {
		if c.Items[i].ProductID != productID {
			continue
		}
		switch action {
		case QuantityIncrease:
			if c.Items[i].Quantity >= c.Items[i].StockCeiling {
				return ErrStockCeilingReached
			}
			c.Items[i].Quantity++
		case QuantityDecrease:
			if c.Items[i].Quantity > 1 {
				c.Items[i].Quantity--
			}
		}
		return nil
	}
	return nil
}

// Remove deletes the line for productID. Removing an absent product is
// a no-op.
func (c *Cart) Remove(productID uint) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// Subtotal returns the sum of unit price times quantity over all lines.
func (c *Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range c.Items {
		subtotal = subtotal.Add(item.Total())
	}
	return subtotal
}

// ItemCount returns the total number of units across all lines.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Clear drops all lines.
func (c *Cart) Clear() {
	c.Items = nil
}
