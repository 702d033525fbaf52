package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/shipping"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type memStore struct {
	carts map[uint]*Cart
}

func (s *memStore) Load(_ context.Context, userID uint) (*Cart, error) {
	if c, ok := s.carts[userID]; ok {
		return &Cart{Items: append([]LineItem{}, c.Items...)}, nil
	}
	return &Cart{}, nil
}

func (s *memStore) Save(_ context.Context, userID uint, c *Cart) error {
	if c.IsEmpty() {
		delete(s.carts, userID)
		return nil
	}
	s.carts[userID] = &Cart{Items: append([]LineItem{}, c.Items...)}
	return nil
}

func (s *memStore) Delete(_ context.Context, userID uint) error {
	delete(s.carts, userID)
	return nil
}

type memQuotes struct {
	quotes map[uint]shipping.Quote
}

func (s *memQuotes) Load(_ context.Context, userID uint) (shipping.Quote, error) {
	if q, ok := s.quotes[userID]; ok {
		return q, nil
	}
	return shipping.Quote{Basis: shipping.BasisUnset}, nil
}

func (s *memQuotes) Save(_ context.Context, userID uint, q shipping.Quote) error {
	if !q.IsSet() {
		delete(s.quotes, userID)
		return nil
	}
	s.quotes[userID] = q
	return nil
}

func (s *memQuotes) Delete(_ context.Context, userID uint) error {
	delete(s.quotes, userID)
	return nil
}

func newServiceEnv(t *testing.T) (*Service, *gorm.DB, *memQuotes) {
	t.Helper()
	dsn := "file:cartsvc_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&catalog.Product{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	quotes := &memQuotes{quotes: make(map[uint]shipping.Quote)}
	svc := NewService(
		catalog.NewService(db, &config.Config{}),
		&memStore{carts: make(map[uint]*Cart)},
		quotes,
		logger,
	)
	return svc, db, quotes
}

func seedServiceProduct(t *testing.T, db *gorm.DB, name string, price string, stock int) *catalog.Product {
	t.Helper()
	p := catalog.Product{Name: name, Price: decimal.RequireFromString(price), Stock: stock, Category: "rosto"}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return &p
}

func TestAddItemPersistsView(t *testing.T) {
	t.Parallel()

	svc, db, _ := newServiceEnv(t)
	ctx := context.Background()
	p := seedServiceProduct(t, db, "Batom", "10.00", 10)

	view, err := svc.AddItem(ctx, 1, &AddItemRequest{ProductID: p.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if view.ItemCount != 2 {
		t.Errorf("item count = %d, want 2", view.ItemCount)
	}
	if !view.Subtotal.Equal(decimal.RequireFromString("20.00")) {
		t.Errorf("subtotal = %s, want 20.00", view.Subtotal)
	}

	// reload through the store on a fresh view
	again, err := svc.GetView(ctx, 1)
	if err != nil {
		t.Fatalf("get view: %v", err)
	}
	if again.ItemCount != 2 {
		t.Errorf("persisted item count = %d, want 2", again.ItemCount)
	}
}

func TestAdjustItemCeilingSurfacesWarning(t *testing.T) {
	t.Parallel()

	svc, db, _ := newServiceEnv(t)
	ctx := context.Background()
	p := seedServiceProduct(t, db, "Maleta", "890.00", 1)

	if _, err := svc.AddItem(ctx, 1, &AddItemRequest{ProductID: p.ID, Quantity: 1}); err != nil {
		t.Fatalf("add item: %v", err)
	}

	view, err := svc.AdjustItem(ctx, 1, p.ID, QuantityIncrease)
	if err != nil {
		t.Fatalf("adjust must not fail at ceiling: %v", err)
	}
	if view.Warning == "" {
		t.Error("expected a warning at the stock ceiling")
	}
	if view.Items[0].Quantity != 1 {
		t.Errorf("quantity = %d, rejected increase must not mutate", view.Items[0].Quantity)
	}
}

func TestQuoteShippingStoredAndAppliedToTotal(t *testing.T) {
	t.Parallel()

	svc, db, quotes := newServiceEnv(t)
	ctx := context.Background()
	p := seedServiceProduct(t, db, "Paleta", "120.00", 10)

	if _, err := svc.AddItem(ctx, 1, &AddItemRequest{ProductID: p.ID, Quantity: 1}); err != nil {
		t.Fatalf("add item: %v", err)
	}

	view, err := svc.QuoteShipping(ctx, 1, "20040-000")
	if err != nil {
		t.Fatalf("quote shipping: %v", err)
	}
	if !view.Shipping.Amount.Equal(decimal.RequireFromString("22.00")) {
		t.Errorf("shipping = %s, want 22.00", view.Shipping.Amount)
	}
	if !view.Total.Equal(decimal.RequireFromString("142.00")) {
		t.Errorf("total = %s, want 142.00", view.Total)
	}

	stored, err := quotes.Load(ctx, 1)
	if err != nil {
		t.Fatalf("load quote: %v", err)
	}
	if !stored.IsSet() {
		t.Error("quote must be stored for checkout")
	}
}

func TestMutationReconcilesQuoteAcrossThreshold(t *testing.T) {
	t.Parallel()

	svc, db, _ := newServiceEnv(t)
	ctx := context.Background()
	cheap := seedServiceProduct(t, db, "Esponja", "25.00", 50)
	expensive := seedServiceProduct(t, db, "Maleta", "890.00", 5)

	if _, err := svc.AddItem(ctx, 1, &AddItemRequest{ProductID: cheap.ID, Quantity: 1}); err != nil {
		t.Fatalf("add cheap: %v", err)
	}
	if _, err := svc.QuoteShipping(ctx, 1, "88010000"); err != nil {
		t.Fatalf("quote: %v", err)
	}

	// adding the expensive item pushes the subtotal over the threshold
	view, err := svc.AddItem(ctx, 1, &AddItemRequest{ProductID: expensive.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("add expensive: %v", err)
	}
	if view.Shipping.Basis != shipping.BasisFreeThreshold {
		t.Errorf("basis = %s, want free_threshold after crossing up", view.Shipping.Basis)
	}
	if !view.Total.Equal(view.Subtotal) {
		t.Errorf("total = %s, want free shipping", view.Total)
	}

	// removing it drops back below; the free grant must not linger
	view, err = svc.RemoveItem(ctx, 1, expensive.ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if view.Shipping.IsSet() {
		t.Errorf("basis = %s, free quote must be invalidated below threshold", view.Shipping.Basis)
	}
}

func TestClearDropsCartAndQuote(t *testing.T) {
	t.Parallel()

	svc, db, quotes := newServiceEnv(t)
	ctx := context.Background()
	p := seedServiceProduct(t, db, "Batom", "10.00", 10)

	if _, err := svc.AddItem(ctx, 1, &AddItemRequest{ProductID: p.ID, Quantity: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.QuoteShipping(ctx, 1, "88010000"); err != nil {
		t.Fatalf("quote: %v", err)
	}

	if err := svc.Clear(ctx, 1); err != nil {
		t.Fatalf("clear: %v", err)
	}

	view, err := svc.GetView(ctx, 1)
	if err != nil {
		t.Fatalf("get view: %v", err)
	}
	if len(view.Items) != 0 {
		t.Error("cart must be empty after clear")
	}
	stored, _ := quotes.Load(ctx, 1)
	if stored.IsSet() {
		t.Error("quote must be dropped after clear")
	}
}
