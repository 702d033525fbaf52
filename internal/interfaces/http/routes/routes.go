// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/payment"
	"github.com/your-org/storefront-backend/internal/pkg/pdf"
)

// Services carries the wired domain services the routes dispatch to
type Services struct {
	Users    *user.Service
	Catalog  *catalog.Service
	Cart     *cart.Service
	Checkout *checkout.Service
	Orders   *order.Service
	Pix      *payment.PixGenerator
	PDF      *pdf.Service
}

// SetupRoutes sets up all API routes
func SetupRoutes(rg *gin.RouterGroup, svc *Services, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(svc.Users)
	productHandler := handlers.NewProductHandler(svc.Catalog)
	cartHandler := handlers.NewCartHandler(svc.Cart)
	checkoutHandler := handlers.NewCheckoutHandler(svc.Checkout, svc.Pix)
	orderHandler := handlers.NewOrderHandler(svc.Orders, svc.PDF)

	// Authentication and account management
	auth := rg.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)
		auth.POST("/reset-password", authHandler.ResetPassword)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("/profile", authHandler.GetProfile)
			protected.PUT("/profile", authHandler.UpdateProfile)
			protected.POST("/change-password", authHandler.ChangePassword)
		}
	}

	// Public catalog browsing
	products := rg.Group("/products")
	{
		products.GET("", productHandler.ListProducts)
		products.GET("/:id", productHandler.GetProduct)
	}

	// Admin catalog management
	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.AdminMiddleware())
	{
		admin.POST("/products", productHandler.CreateProduct)
		admin.PUT("/products/:id", productHandler.UpdateProduct)
		admin.DELETE("/products/:id", productHandler.DeleteProduct)
	}

	// Cart and shipping quote
	cartRoutes := rg.Group("/cart")
	cartRoutes.Use(middleware.AuthMiddleware(cfg))
	{
		cartRoutes.GET("", cartHandler.GetCart)
		cartRoutes.DELETE("", cartHandler.ClearCart)
		cartRoutes.POST("/items", cartHandler.AddItem)
		cartRoutes.PUT("/items/:id", cartHandler.AdjustItem)
		cartRoutes.DELETE("/items/:id", cartHandler.RemoveItem)
		cartRoutes.POST("/shipping", cartHandler.QuoteShipping)
	}

	// Checkout pipeline
	checkoutRoutes := rg.Group("/checkout")
	checkoutRoutes.Use(middleware.AuthMiddleware(cfg))
	{
		checkoutRoutes.GET("", checkoutHandler.Begin)
		checkoutRoutes.POST("/commit", checkoutHandler.Commit)
		checkoutRoutes.POST("/pix", checkoutHandler.PixCharge)
	}

	// Order history
	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(cfg))
	{
		orders.GET("", orderHandler.ListOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.GET("/:id/receipt", orderHandler.Receipt)
	}
}
