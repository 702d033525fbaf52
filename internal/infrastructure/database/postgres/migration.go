// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"gorm.io/gorm"
)

// RunMigrations runs the schema migrations for all domain entities
func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&user.User{},
		&catalog.Product{},
		&order.Order{},
		&order.OrderItem{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("✅ Database migrations completed successfully")
	return nil
}

// SeedDevData inserts the admin account and the starter catalog when the
// database is empty. Intended for development environments only.
func SeedDevData(db *gorm.DB, adminPasswordHash string) error {
	var userCount int64
	if err := db.Model(&user.User{}).Count(&userCount).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if userCount == 0 {
		admin := user.User{
			Name:     "Administrador",
			Username: "admin",
			Email:    "admin@lumina.com",
			Password: adminPasswordHash,
			Role:     user.RoleAdmin,
		}
		if err := db.Create(&admin).Error; err != nil {
			return fmt.Errorf("failed to seed admin user: %w", err)
		}
		log.Println("Seeded admin account")
	}

	var productCount int64
	if err := db.Model(&catalog.Product{}).Count(&productCount).Error; err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if productCount == 0 {
		if err := db.Create(starterCatalog()).Error; err != nil {
			return fmt.Errorf("failed to seed catalog: %w", err)
		}
		log.Println("Seeded starter catalog")
	}

	return nil
}

func starterCatalog() []catalog.Product {
	price := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }

	return []catalog.Product{
		{Name: "Base Líquida Lumina Matte", Price: price("89.90"), Description: "Cobertura média a alta com acabamento aveludado.", Category: "rosto", Stock: 50, ImageURL: "https://images.unsplash.com/photo-1631729371254-42c2892f0e6e?w=600&q=80"},
		{Name: "Blush Compacto Rosé", Price: price("45.50"), Description: "Pigmentação intensa com toque suave.", Category: "rosto", Stock: 30, ImageURL: catalog.DefaultImageURL},
		{Name: "Paleta de Sombras Nude Glam", Price: price("120.00"), Description: "12 cores neutras e cintilantes.", Category: "olhos", Stock: 25, ImageURL: "https://images.unsplash.com/photo-1512496015851-a90fb38ba796?w=600&q=80"},
		{Name: "Máscara de Cílios Volume Max", Price: price("55.90"), Description: "Cílios 3x mais volumosos.", Category: "olhos", Stock: 60, ImageURL: "https://images.unsplash.com/photo-1631214524020-7e18db9a8f92?w=600&q=80"},
		{Name: "Batom Líquido Matte Vermelho", Price: price("39.90"), Description: "Duração de 12 horas. Não transfere.", Category: "labios", Stock: 100, ImageURL: "https://images.unsplash.com/photo-1586495777744-4413f21062fa?w=600&q=80"},
		{Name: "Sérum Vitamina C 10%", Price: price("99.90"), Description: "Antioxidante poderoso. Uniformiza o tom.", Category: "skincare", Stock: 40, ImageURL: "https://images.unsplash.com/photo-1620916566398-39f1143ab7be?w=600&q=80"},
		{Name: "Kit Pincéis Essenciais", Price: price("149.90"), Description: "Cerdas sintéticas super macias.", Category: "pinceis", Stock: 20, ImageURL: "https://images.unsplash.com/photo-1522337660859-02fbefca4702?w=600&q=80"},
		{Name: "Esponja de Maquiagem 360", Price: price("25.00"), Description: "Perfeita para base e corretivo.", Category: "pinceis", Stock: 150, ImageURL: "https://images.unsplash.com/photo-1599305090598-fe179d501227?w=600&q=80"},
		{Name: "Maleta Completa Profissional", Price: price("890.00"), Description: "Tudo o que você precisa.", Category: "kits", Stock: 5, ImageURL: "https://images.unsplash.com/photo-1516975080664-ed2fc6a32937?w=600&q=80"},
	}
}
