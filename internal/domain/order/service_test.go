package order

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:order_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&catalog.Product{}, &Order{}, &OrderItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewService(db, logger), db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price string, stock int) *catalog.Product {
	t.Helper()
	p := catalog.Product{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		Category: "rosto",
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return &p
}

func TestCommitDecrementsStockAndPersistsOrder(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	ctx := context.Background()

	batom := seedProduct(t, db, "Batom Líquido", "10.00", 5)
	esponja := seedProduct(t, db, "Esponja 360", "5.00", 8)

	req := &CommitRequest{
		UserID:  1,
		Method:  PaymentMethodPix,
		Address: "Rua das Flores 100, Florianópolis",
		Items: []CommitItem{
			{ProductID: batom.ID, Name: batom.Name, Quantity: 2, UnitPrice: batom.Price},
			{ProductID: esponja.ID, Name: esponja.Name, Quantity: 1, UnitPrice: esponja.Price},
		},
		Subtotal:       decimal.RequireFromString("25.00"),
		ShippingAmount: decimal.RequireFromString("12.50"),
		Total:          decimal.RequireFromString("37.50"),
	}

	committed, err := svc.Commit(ctx, req)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	if committed.ID == 0 {
		t.Fatal("committed order must have an id")
	}
	if !strings.HasPrefix(committed.OrderNumber, "ORD-") {
		t.Errorf("order number = %q, want ORD- prefix", committed.OrderNumber)
	}
	if committed.Status != OrderStatusPaid {
		t.Errorf("status = %s, want paid", committed.Status)
	}
	if !committed.TotalAmount.Equal(decimal.RequireFromString("37.50")) {
		t.Errorf("total = %s, want 37.50", committed.TotalAmount)
	}

	var stored Order
	if err := db.Preload("Items").First(&stored, committed.ID).Error; err != nil {
		t.Fatalf("load order: %v", err)
	}
	if len(stored.Items) != 2 {
		t.Fatalf("expected 2 order items, got %d", len(stored.Items))
	}
	if !stored.Items[0].UnitPrice.Equal(decimal.RequireFromString("10.00")) {
		t.Errorf("item unit price = %s, want snapshot 10.00", stored.Items[0].UnitPrice)
	}

	var p catalog.Product
	if err := db.First(&p, batom.ID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if p.Stock != 3 {
		t.Errorf("batom stock = %d, want 3", p.Stock)
	}
	var p2 catalog.Product
	if err := db.First(&p2, esponja.ID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if p2.Stock != 7 {
		t.Errorf("esponja stock = %d, want 7", p2.Stock)
	}
}

func TestCommitStockConflictRollsBackEverything(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	ctx := context.Background()

	ok := seedProduct(t, db, "Blush", "45.50", 10)
	scarce := seedProduct(t, db, "Maleta", "890.00", 1)

	req := &CommitRequest{
		UserID:  1,
		Method:  PaymentMethodCard,
		Address: "Rua das Flores 100",
		Items: []CommitItem{
			{ProductID: ok.ID, Name: ok.Name, Quantity: 1, UnitPrice: ok.Price},
			{ProductID: scarce.ID, Name: scarce.Name, Quantity: 2, UnitPrice: scarce.Price},
		},
		Subtotal:       decimal.RequireFromString("1825.50"),
		ShippingAmount: decimal.Zero,
		Total:          decimal.RequireFromString("1825.50"),
	}

	_, err := svc.Commit(ctx, req)
	if !errors.Is(err, ErrStockConflict) {
		t.Fatalf("error = %v, want ErrStockConflict", err)
	}

	// nothing may survive the rollback, including the decrement that succeeded
	var orderCount, itemCount int64
	db.Model(&Order{}).Count(&orderCount)
	db.Model(&OrderItem{}).Count(&itemCount)
	if orderCount != 0 || itemCount != 0 {
		t.Errorf("rollback left orders=%d items=%d, want 0/0", orderCount, itemCount)
	}

	var p catalog.Product
	if err := db.First(&p, ok.ID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if p.Stock != 10 {
		t.Errorf("blush stock = %d, rollback must restore 10", p.Stock)
	}
}

func TestCommitLastUnitExactlyOneWinner(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	ctx := context.Background()

	scarce := seedProduct(t, db, "Paleta Nude Glam", "120.00", 1)

	buildReq := func(userID uint) *CommitRequest {
		return &CommitRequest{
			UserID:  userID,
			Method:  PaymentMethodPix,
			Address: "Rua das Flores 100",
			Items: []CommitItem{
				{ProductID: scarce.ID, Name: scarce.Name, Quantity: 1, UnitPrice: scarce.Price},
			},
			Subtotal:       scarce.Price,
			ShippingAmount: decimal.Zero,
			Total:          scarce.Price,
		}
	}

	// serialize at the pool so concurrent sqlite writers queue instead of erroring
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("raw db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	// both shoppers reviewed the same last unit and race to commit it
	results := make(chan error, 2)
	var wg sync.WaitGroup
	for _, userID := range []uint{1, 2} {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			_, err := svc.Commit(ctx, buildReq(userID))
			results <- err
		}(userID)
	}
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrStockConflict):
			conflicts++
		default:
			t.Fatalf("unexpected commit error: %v", err)
		}
	}
	if wins != 1 || conflicts != 1 {
		t.Fatalf("wins=%d conflicts=%d, want exactly one of each", wins, conflicts)
	}

	var p catalog.Product
	if err := db.First(&p, scarce.ID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if p.Stock != 0 {
		t.Errorf("stock = %d, want 0", p.Stock)
	}

	var orderCount int64
	db.Model(&Order{}).Count(&orderCount)
	if orderCount != 1 {
		t.Errorf("order count = %d, want exactly one winner", orderCount)
	}
}

func TestGetUserOrderScopedToOwner(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	ctx := context.Background()

	p := seedProduct(t, db, "Sérum", "99.90", 5)
	committed, err := svc.Commit(ctx, &CommitRequest{
		UserID:  1,
		Method:  PaymentMethodPix,
		Address: "Rua das Flores 100",
		Items: []CommitItem{
			{ProductID: p.ID, Name: p.Name, Quantity: 1, UnitPrice: p.Price},
		},
		Subtotal:       p.Price,
		ShippingAmount: decimal.Zero,
		Total:          p.Price,
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	if _, err := svc.GetUserOrder(1, committed.ID); err != nil {
		t.Fatalf("owner lookup: %v", err)
	}
	if _, err := svc.GetUserOrder(2, committed.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("foreign lookup error = %v, want ErrOrderNotFound", err)
	}
}

func TestGetUserOrdersMostRecentFirst(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	ctx := context.Background()

	p := seedProduct(t, db, "Batom", "10.00", 50)
	for i := 0; i < 3; i++ {
		if _, err := svc.Commit(ctx, &CommitRequest{
			UserID:  7,
			Method:  PaymentMethodCard,
			Address: "Rua das Flores 100",
			Items: []CommitItem{
				{ProductID: p.ID, Name: p.Name, Quantity: 1, UnitPrice: p.Price},
			},
			Subtotal:       p.Price,
			ShippingAmount: decimal.Zero,
			Total:          p.Price,
		}); err != nil {
			t.Fatalf("commit %d: %v", i, err)
		}
	}

	orders, err := svc.GetUserOrders(7)
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(orders) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(orders))
	}
	for i := 1; i < len(orders); i++ {
		if orders[i].CreatedAt.After(orders[i-1].CreatedAt) {
			t.Errorf("orders not sorted most recent first at index %d", i)
		}
	}
	if len(orders[0].Items) != 1 {
		t.Errorf("items not preloaded")
	}
}
