package services

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderCompleted     = errors.New("order is completed")
	ErrInvalidPayment     = errors.New("invalid payment")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrReceiptNotFound    = errors.New("receipt not found")
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrDuplicatePhone     = errors.New("phone already registered")
	ErrStockNotFound      = errors.New("stock item not found")
	ErrCashflowNotFound   = errors.New("cashflow entry not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// ValidationError describes one rejected input field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Unwrap lets errors.Is(err, ErrValidation) match
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
