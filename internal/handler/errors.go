package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/set-night/cryptoshop/internal/cryptomus"
	"github.com/set-night/cryptoshop/internal/domain"
)

// respondError translates the error taxonomy into user-facing responses.
// Configuration and credential problems get actionable setup guidance;
// everything else stays generic so processor internals never leak.
func respondError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	var configErr *cryptomus.ConfigError
	var processorErr *cryptomus.ProcessorError
	var transportErr *cryptomus.TransportError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})

	case errors.Is(err, domain.ErrMissingIdentifier):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either uuid or order_id parameter is required"})

	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrInvoiceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.As(err, &configErr):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Configuration Error: " + configErr.Field,
			"details": configErr.Field + " " + configErr.Hint,
		})

	case errors.As(err, &processorErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   processorErr.Message,
			"details": processorErr.FieldErrors,
		})

	case errors.As(err, &transportErr) && transportErr.StatusCode == http.StatusUnauthorized:
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "Authentication Failed",
			"details": "Invalid API credentials. Check CRYPTOMUS_API_KEY and CRYPTOMUS_MERCHANT_UUID",
		})

	case errors.As(err, &transportErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment processor unavailable"})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
