// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/shipping"
	"github.com/your-org/storefront-backend/internal/domain/user"
)

var (
	// ErrEmptyCart blocks checkout when the cart has no lines.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrShippingRequired blocks commit until a shipping quote exists.
	ErrShippingRequired = errors.New("shipping quote required before checkout")

	// ErrInvalidPaymentMethod is returned for unknown payment methods.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

// State is the checkout pipeline state exposed to the presentation layer.
type State string

const (
	StateEmpty           State = "empty"
	StateReviewing       State = "reviewing"
	StateShippingPending State = "shipping_pending"
	StateShippingQuoted  State = "shipping_quoted"
	StateCommitted       State = "committed"
	StateFailed          State = "failed"
)

// Snapshot is the frozen cart-plus-shipping view the commit is computed
// from, so totals cannot drift between review and commit.
type Snapshot struct {
	Items    []cart.LineItem `json:"items"`
	Shipping shipping.Quote  `json:"shipping"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Total    decimal.Decimal `json:"total"`
}

// Review is what the shopper sees before committing.
type Review struct {
	State    State           `json:"state"`
	Items    []cart.LineItem `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping shipping.Quote  `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// CommitResult reports a successful commit.
type CommitResult struct {
	State       State  `json:"state"`
	OrderID     uint   `json:"order_id"`
	OrderNumber string `json:"order_number"`
}

// Service orchestrates the cart → shipping → commit pipeline
type Service struct {
	carts     cart.Store
	quotes    shipping.QuoteStore
	users     *user.Service
	committer *order.Service
	logger    *logrus.Logger
}

// NewService creates a new checkout service
func NewService(carts cart.Store, quotes shipping.QuoteStore, users *user.Service, committer *order.Service, logger *logrus.Logger) *Service {
	return &Service{
		carts:     carts,
		quotes:    quotes,
		users:     users,
		committer: committer,
		logger:    logger,
	}
}

// Begin enters the review step. It requires a non-empty cart and reports
// whether shipping is still pending.
func (s *Service) Begin(ctx context.Context, userID uint) (*Review, error) {
	c, quote, err := s.loadState(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	state := StateShippingQuoted
	if !quote.IsSet() {
		state = StateShippingPending
	}

	subtotal := c.Subtotal()
	return &Review{
		State:    state,
		Items:    append([]cart.LineItem{}, c.Items...),
		Subtotal: subtotal,
		Shipping: quote,
		Total:    subtotal.Add(quote.Amount),
	}, nil
}

// Commit freezes the current cart and quote into a snapshot and hands it
// to the order committer. On success the cart and quote are cleared; on
// failure both are preserved untouched so the shopper can retry.
func (s *Service) Commit(ctx context.Context, userID uint, method order.PaymentMethod) (*CommitResult, error) {
	if !method.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, method)
	}

	c, quote, err := s.loadState(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if !quote.IsSet() {
		return nil, ErrShippingRequired
	}

	snapshot := s.buildSnapshot(c, quote)
	address := s.users.DeliveryAddressFor(userID)

	req := &order.CommitRequest{
		UserID:         userID,
		Method:         method,
		Address:        address,
		Subtotal:       snapshot.Subtotal,
		ShippingAmount: snapshot.Shipping.Amount,
		Total:          snapshot.Total,
	}
	for _, item := range snapshot.Items {
		req.Items = append(req.Items, order.CommitItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	committed, err := s.committer.Commit(ctx, req)
	if err != nil {
		// Cart and quote stay as they were so the shopper can re-review.
		s.logger.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Warn("Checkout commit failed")
		return nil, err
	}

	if err := s.carts.Delete(ctx, userID); err != nil {
		s.logger.WithField("user_id", userID).Warnf("Failed to clear cart after commit: %v", err)
	}
	if err := s.quotes.Delete(ctx, userID); err != nil {
		s.logger.WithField("user_id", userID).Warnf("Failed to clear shipping quote after commit: %v", err)
	}

	return &CommitResult{
		State:       StateCommitted,
		OrderID:     committed.ID,
		OrderNumber: committed.OrderNumber,
	}, nil
}

// loadState loads the cart and its quote, reconciled against the
// current subtotal so a stale free-shipping grant never reaches commit.
func (s *Service) loadState(ctx context.Context, userID uint) (*cart.Cart, shipping.Quote, error) {
	c, err := s.carts.Load(ctx, userID)
	if err != nil {
		return nil, shipping.Quote{}, err
	}

	stored, err := s.quotes.Load(ctx, userID)
	if err != nil {
		return nil, shipping.Quote{}, err
	}

	quote := shipping.Reconcile(stored, c.Subtotal())
	if quote.Basis != stored.Basis {
		if err := s.quotes.Save(ctx, userID, quote); err != nil {
			return nil, shipping.Quote{}, fmt.Errorf("failed to persist reconciled quote: %w", err)
		}
	}
	return c, quote, nil
}

func (s *Service) buildSnapshot(c *cart.Cart, quote shipping.Quote) Snapshot {
	subtotal := c.Subtotal()
	return Snapshot{
		Items:    append([]cart.LineItem{}, c.Items...),
		Shipping: quote,
		Subtotal: subtotal,
		Total:    subtotal.Add(quote.Amount),
	}
}
