// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/payment"
)

// CheckoutHandler handles the checkout pipeline endpoints
type CheckoutHandler struct {
	checkoutService *checkout.Service
	pixGenerator    *payment.PixGenerator
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *checkout.Service, pixGenerator *payment.PixGenerator) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		pixGenerator:    pixGenerator,
	}
}

// Begin handles GET /checkout
func (h *CheckoutHandler) Begin(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	review, err := h.checkoutService.Begin(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": review})
}

// Commit handles POST /checkout/commit
func (h *CheckoutHandler) Commit(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var req struct {
		PaymentMethod order.PaymentMethod `json:"payment_method" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.checkoutService.Commit(c.Request.Context(), userID, req.PaymentMethod)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data":    result,
	})
}

// PixCharge handles POST /checkout/pix. It generates a scannable charge
// for the current checkout total without committing the order.
func (h *CheckoutHandler) PixCharge(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	review, err := h.checkoutService.Begin(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if review.State != checkout.StateShippingQuoted {
		respondError(c, checkout.ErrShippingRequired)
		return
	}

	txid := fmt.Sprintf("LUM%d%d", userID, time.Now().UTC().Unix())
	charge, err := h.pixGenerator.GenerateCharge(review.Total, txid)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Pix charge generated",
		"data":    charge,
	})
}
