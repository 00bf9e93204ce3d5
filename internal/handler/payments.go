package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/set-night/cryptoshop/internal/service"
)

func (h *Handler) handleProducts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"products": h.catalog.Products(),
	})
}

func (h *Handler) handleCreatePayment(c *gin.Context) {
	var req service.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	invoice, err := h.payments.Checkout(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"invoice": gin.H{
			"uuid":           invoice.UUID,
			"order_id":       invoice.OrderID,
			"amount":         invoice.Amount,
			"currency":       invoice.Currency,
			"payment_url":    invoice.URL,
			"address":        invoice.Address,
			"network":        invoice.Network,
			"payer_currency": invoice.PayerCurrency,
			"payer_amount":   invoice.PayerAmount,
			"payment_status": invoice.PaymentStatus,
			"expired_at":     invoice.ExpiredAt,
			"created_at":     invoice.CreatedAt,
		},
	})
}

func (h *Handler) handlePaymentStatus(c *gin.Context) {
	uuid := c.Query("uuid")
	orderID := c.Query("order_id")

	invoice, err := h.payments.Status(c.Request.Context(), uuid, orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"payment": invoice,
	})
}

func (h *Handler) handleResendWebhook(c *gin.Context) {
	var req struct {
		UUID    string `json:"uuid"`
		OrderID string `json:"order_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.payments.Resend(c.Request.Context(), req.UUID, req.OrderID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
