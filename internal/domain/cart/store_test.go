package cart

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/redis"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := &redis.Client{Redis: goredis.NewClient(&goredis.Options{Addr: mr.Addr()})}
	return NewRedisStore(client), mr
}

func TestRedisStoreLoadMissingIsEmptyCart(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	c, err := store.Load(context.Background(), 1)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !c.IsEmpty() {
		t.Errorf("missing key must load as empty cart, got %d items", len(c.Items))
	}
}

func TestRedisStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	var c Cart
	if err := c.Add(testProduct(3, "Batom Líquido", "39.90", 10), 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := store.Save(ctx, 7, &c); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load(ctx, 7)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(loaded.Items))
	}
	if loaded.Items[0].ProductID != 3 || loaded.Items[0].Quantity != 2 {
		t.Errorf("line = %+v, want product 3 qty 2", loaded.Items[0])
	}
	if !loaded.Items[0].UnitPrice.Equal(decimal.RequireFromString("39.90")) {
		t.Errorf("unit price = %s, want 39.90", loaded.Items[0].UnitPrice)
	}
	if loaded.Items[0].StockCeiling != 10 {
		t.Errorf("stock ceiling = %d, want 10", loaded.Items[0].StockCeiling)
	}
}

func TestRedisStoreSaveEmptyDeletesKey(t *testing.T) {
	t.Parallel()

	store, mr := newTestStore(t)
	ctx := context.Background()

	var c Cart
	if err := c.Add(testProduct(1, "Esponja", "5.00", 8), 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := store.Save(ctx, 2, &c); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !mr.Exists("cart:user:2") {
		t.Fatal("expected cart key after save")
	}

	c.Clear()
	if err := store.Save(ctx, 2, &c); err != nil {
		t.Fatalf("save empty: %v", err)
	}
	if mr.Exists("cart:user:2") {
		t.Error("saving an empty cart must delete the key")
	}
}

func TestRedisStoreDelete(t *testing.T) {
	t.Parallel()

	store, mr := newTestStore(t)
	ctx := context.Background()

	var c Cart
	if err := c.Add(testProduct(1, "Esponja", "5.00", 8), 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := store.Save(ctx, 5, &c); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Delete(ctx, 5); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if mr.Exists("cart:user:5") {
		t.Error("delete must remove the cart key")
	}
	// deleting again is a no-op
	if err := store.Delete(ctx, 5); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}
