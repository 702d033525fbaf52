// internal/domain/cart/service.go
package cart

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/shipping"
)

// Service handles cart business logic. Every mutation re-derives the
// stored shipping quote so a free-shipping grant never goes stale when
// the subtotal crosses the threshold in either direction.
type Service struct {
	catalog *catalog.Service
	carts   Store
	quotes  shipping.QuoteStore
	logger  *logrus.Logger
}

// NewService creates a new cart service
func NewService(catalogService *catalog.Service, carts Store, quotes shipping.QuoteStore, logger *logrus.Logger) *Service {
	return &Service{
		catalog: catalogService,
		carts:   carts,
		quotes:  quotes,
		logger:  logger,
	}
}

// AddItemRequest represents add to cart request
type AddItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// AdjustItemRequest represents a quantity step request
type AdjustItemRequest struct {
	Action QuantityAction `json:"action" binding:"required,oneof=increase decrease"`
}

// View represents a cart with derived totals and the active shipping quote
type View struct {
	Items     []LineItem      `json:"items"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Shipping  shipping.Quote  `json:"shipping"`
	Total     decimal.Decimal `json:"total"`
	Warning   string          `json:"warning,omitempty"`
}

// GetView loads the cart and returns it with reconciled totals.
func (s *Service) GetView(ctx context.Context, userID uint) (*View, error) {
	c, err := s.carts.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	quote, err := s.reconcileQuote(ctx, userID, c)
	if err != nil {
		return nil, err
	}
	return s.buildView(c, quote, ""), nil
}

// AddItem adds quantity units of a product to the user's cart. Stock is
// checked against the live catalog; the check is advisory and the
// authoritative one happens at order commit.
func (s *Service) AddItem(ctx context.Context, userID uint, req *AddItemRequest) (*View, error) {
	product, err := s.catalog.GetProduct(req.ProductID)
	if err != nil {
		return nil, err
	}

	c, err := s.carts.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := c.Add(product, req.Quantity); err != nil {
		return nil, err
	}

	return s.persist(ctx, userID, c, "")
}

// AdjustItem steps a line quantity up or down by one. Hitting the stock
// ceiling leaves the cart unchanged and surfaces a warning on the view.
func (s *Service) AdjustItem(ctx context.Context, userID uint, productID uint, action QuantityAction) (*View, error) {
	c, err := s.carts.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	warning := ""
	if err := c.AdjustQuantity(productID, action); err != nil {
		if err != ErrStockCeilingReached {
			return nil, err
		}
		warning = "stock ceiling reached"
		s.logger.WithFields(logrus.Fields{
			"user_id":    userID,
			"product_id": productID,
		}).Warn("Quantity increase rejected at stock ceiling")
	}

	return s.persist(ctx, userID, c, warning)
}

// RemoveItem removes a product line from the cart. Removing an absent
// product is a no-op.
func (s *Service) RemoveItem(ctx context.Context, userID uint, productID uint) (*View, error) {
	c, err := s.carts.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.Remove(productID)
	return s.persist(ctx, userID, c, "")
}

// Clear empties the cart and drops the shipping quote.
func (s *Service) Clear(ctx context.Context, userID uint) error {
	if err := s.carts.Delete(ctx, userID); err != nil {
		return err
	}
	return s.quotes.Delete(ctx, userID)
}

// QuoteShipping computes a shipping quote for the user's current cart
// subtotal and stores it for checkout.
func (s *Service) QuoteShipping(ctx context.Context, userID uint, postalCode string) (*View, error) {
	c, err := s.carts.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	quote, err := shipping.Estimate(c.Subtotal(), postalCode)
	if err != nil {
		return nil, err
	}
	if err := s.quotes.Save(ctx, userID, quote); err != nil {
		return nil, err
	}

	return s.buildView(c, quote, ""), nil
}

// persist saves the cart, reconciles the quote against the new subtotal
// and returns the resulting view.
func (s *Service) persist(ctx context.Context, userID uint, c *Cart, warning string) (*View, error) {
	if err := s.carts.Save(ctx, userID, c); err != nil {
		return nil, err
	}
	quote, err := s.reconcileQuote(ctx, userID, c)
	if err != nil {
		return nil, err
	}
	return s.buildView(c, quote, warning), nil
}

func (s *Service) reconcileQuote(ctx context.Context, userID uint, c *Cart) (shipping.Quote, error) {
	stored, err := s.quotes.Load(ctx, userID)
	if err != nil {
		return stored, err
	}

	reconciled := shipping.Reconcile(stored, c.Subtotal())
	if reconciled.Basis != stored.Basis || !reconciled.Amount.Equal(stored.Amount) {
		if err := s.quotes.Save(ctx, userID, reconciled); err != nil {
			return reconciled, fmt.Errorf("failed to persist reconciled quote: %w", err)
		}
	}
	return reconciled, nil
}

func (s *Service) buildView(c *Cart, quote shipping.Quote, warning string) *View {
	subtotal := c.Subtotal()
	return &View{
		Items:     append([]LineItem{}, c.Items...),
		ItemCount: c.ItemCount(),
		Subtotal:  subtotal,
		Shipping:  quote,
		Total:     subtotal.Add(quote.Amount),
		Warning:   warning,
	}
}
