package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	dsn := "file:catalog_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Product{}))
	return NewService(db, &config.Config{}), db
}

func seedProducts(t *testing.T, svc *Service) {
	t.Helper()
	for _, req := range []UpsertProductRequest{
		{Name: "Base Líquida Lumina Matte", Price: decimal.RequireFromString("89.90"), Category: "rosto", Stock: 50},
		{Name: "Paleta de Sombras Nude Glam", Price: decimal.RequireFromString("120.00"), Category: "olhos", Stock: 25},
		{Name: "Batom Líquido Matte Vermelho", Price: decimal.RequireFromString("39.90"), Category: "labios", Stock: 100},
	} {
		_, err := svc.CreateProduct(&req)
		require.NoError(t, err)
	}
}

func TestGetProductsFiltersByCategory(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	seedProducts(t, svc)

	all, err := svc.GetProducts("")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	rosto, err := svc.GetProducts("rosto")
	require.NoError(t, err)
	require.Len(t, rosto, 1)
	assert.Equal(t, "Base Líquida Lumina Matte", rosto[0].Name)
}

func TestSearchProductsMatchesNameAndCategory(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	seedProducts(t, svc)

	byName, err := svc.SearchProducts("MATTE")
	require.NoError(t, err)
	assert.Len(t, byName, 2)

	byCategory, err := svc.SearchProducts("olhos")
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Paleta de Sombras Nude Glam", byCategory[0].Name)

	empty, err := svc.SearchProducts("   ")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCreateProductDefaultsImage(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	created, err := svc.CreateProduct(&UpsertProductRequest{
		Name:     "Esponja 360",
		Price:    decimal.RequireFromString("25.00"),
		Category: "pinceis",
		Stock:    10,
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultImageURL, created.ImageURL)
}

func TestUpdateProductKeepsImageWhenEmpty(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	created, err := svc.CreateProduct(&UpsertProductRequest{
		Name:     "Sérum Vitamina C",
		Price:    decimal.RequireFromString("99.90"),
		Category: "skincare",
		Stock:    10,
		ImageURL: "https://example.com/serum.jpg",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(created.ID, &UpsertProductRequest{
		Name:     "Sérum Vitamina C 10%",
		Price:    decimal.RequireFromString("109.90"),
		Category: "skincare",
		Stock:    8,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/serum.jpg", updated.ImageURL)
	assert.Equal(t, "Sérum Vitamina C 10%", updated.Name)
	assert.True(t, updated.Price.Equal(decimal.RequireFromString("109.90")))
}

func TestDeleteProduct(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	seedProducts(t, svc)

	products, err := svc.GetProducts("")
	require.NoError(t, err)
	id := products[0].ID

	require.NoError(t, svc.DeleteProduct(id))

	_, err = svc.GetProduct(id)
	assert.ErrorIs(t, err, ErrProductNotFound)

	assert.ErrorIs(t, svc.DeleteProduct(9999), ErrProductNotFound)
}

func TestDecrementStock(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	created, err := svc.CreateProduct(&UpsertProductRequest{
		Name:     "Maleta",
		Price:    decimal.RequireFromString("890.00"),
		Category: "kits",
		Stock:    3,
	})
	require.NoError(t, err)

	require.NoError(t, DecrementStock(db, created.ID, 2))

	reloaded, err := svc.GetProduct(created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Stock)

	// remaining stock cannot cover the quantity
	assert.ErrorIs(t, DecrementStock(db, created.ID, 2), ErrInsufficientStock)

	reloaded, err = svc.GetProduct(created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Stock, "failed decrement must not change stock")
}
