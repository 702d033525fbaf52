// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"gorm.io/gorm"
)

var (
	// ErrStockConflict is returned when live stock can no longer satisfy a
	// committed cart line. The whole commit is rolled back.
	ErrStockConflict = errors.New("stock conflict: inventory changed since cart was reviewed")

	// ErrOrderNotFound is returned for order ids that do not exist or do
	// not belong to the requesting user.
	ErrOrderNotFound = errors.New("order not found")
)

// Service handles order persistence and the commit unit of work
type Service struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewService creates a new order service
func NewService(db *gorm.DB, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger,
	}
}

// CommitItem is one purchased line carried into the commit. UnitPrice is
// the cart snapshot price.
type CommitItem struct {
	ProductID uint
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// CommitRequest is everything the committer needs to turn a checkout
// snapshot into a durable order.
type CommitRequest struct {
	UserID         uint
	Method         PaymentMethod
	Address        string
	Items          []CommitItem
	Subtotal       decimal.Decimal
	ShippingAmount decimal.Decimal
	Total          decimal.Decimal
}

// Commit writes the order header, its line items and the matching stock
// decrements in a single transaction. Either everything becomes durable
// or nothing does: a stock decrement that cannot be covered aborts the
// transaction with ErrStockConflict and leaves store and ledger exactly
// as they were.
func (s *Service) Commit(ctx context.Context, req *CommitRequest) (*Order, error) {
	var committed Order

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o := Order{
			UserID:          req.UserID,
			Status:          OrderStatusPaid,
			PaymentMethod:   req.Method,
			SubtotalAmount:  req.Subtotal,
			ShippingAmount:  req.ShippingAmount,
			TotalAmount:     req.Total,
			ShippingAddress: req.Address,
		}

		if err := tx.Create(&o).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		o.OrderNumber = o.GenerateOrderNumber()
		if err := tx.Model(&o).Update("order_number", o.OrderNumber).Error; err != nil {
			return fmt.Errorf("failed to update order number: %w", err)
		}

		for _, item := range req.Items {
			orderItem := OrderItem{
				OrderID:   o.ID,
				ProductID: item.ProductID,
				Name:      item.Name,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
		}

		// Stock is claimed here, not at add-to-cart time, so the losing
		// side of a race surfaces a conflict instead of oversubscribing.
		for _, item := range req.Items {
			if err := catalog.DecrementStock(tx, item.ProductID, item.Quantity); err != nil {
				if errors.Is(err, catalog.ErrInsufficientStock) {
					return fmt.Errorf("%s: %w", item.Name, ErrStockConflict)
				}
				return err
			}
		}

		committed = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":     committed.ID,
		"order_number": committed.OrderNumber,
		"user_id":      committed.UserID,
		"total":        committed.TotalAmount.StringFixed(2),
	}).Info("Order committed")

	return &committed, nil
}

// GetUserOrders retrieves a user's orders, most recent first.
func (s *Service) GetUserOrders(userID uint) ([]Order, error) {
	var orders []Order
	err := s.db.
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}
	return orders, nil
}

// GetUserOrder retrieves a single order scoped to its owner.
func (s *Service) GetUserOrder(userID, orderID uint) (*Order, error) {
	var o Order
	err := s.db.
		Preload("Items").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	return &o, nil
}
