package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvoiceNotFound   = errors.New("invoice not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrInvalidSignature  = errors.New("invalid webhook signature")
	ErrMissingIdentifier = errors.New("either uuid or order_id is required")
)

// ValidationError reports caller-supplied input rejected before any
// network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
