package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/printshop-api/services"
	"github.com/kendall-kelly/printshop-api/utils"
	"go.uber.org/zap"
)

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondErrorDetails(c *gin.Context, status int, code, message, details string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// bindError reports a request body that failed binding or validation
func bindError(c *gin.Context, err error) {
	respondErrorDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", err.Error())
}

var notFoundCodes = []struct {
	err     error
	code    string
	message string
}{
	{services.ErrOrderNotFound, "ORDER_NOT_FOUND", "Order not found"},
	{services.ErrPaymentNotFound, "PAYMENT_NOT_FOUND", "Payment not found"},
	{services.ErrReceiptNotFound, "RECEIPT_NOT_FOUND", "No receipt was uploaded with this payment"},
	{services.ErrCustomerNotFound, "CUSTOMER_NOT_FOUND", "Customer not found"},
	{services.ErrStockNotFound, "STOCK_NOT_FOUND", "Stock item not found"},
	{services.ErrCashflowNotFound, "CASHFLOW_NOT_FOUND", "Cashflow entry not found"},
	{services.ErrUserNotFound, "USER_NOT_FOUND", "User not found"},
}

// serviceError maps a service error onto the response envelope
func serviceError(c *gin.Context, log *zap.Logger, err error, action string) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		respondErrorDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", verr.Error())
		return
	}

	var uploadErr *utils.FileUploadError
	if errors.As(err, &uploadErr) {
		respondError(c, http.StatusBadRequest, uploadErr.Code, uploadErr.Message)
		return
	}

	for _, nf := range notFoundCodes {
		if errors.Is(err, nf.err) {
			respondError(c, http.StatusNotFound, nf.code, nf.message)
			return
		}
	}

	switch {
	case errors.Is(err, services.ErrInvalidPayment):
		respondErrorDetails(c, http.StatusBadRequest, "INVALID_PAYMENT", "Invalid payment", err.Error())
	case errors.Is(err, services.ErrOrderCompleted):
		respondError(c, http.StatusConflict, "ORDER_COMPLETED", "Completed orders cannot be changed")
	case errors.Is(err, services.ErrDuplicatePhone):
		respondError(c, http.StatusConflict, "DUPLICATE_PHONE", "A customer with this phone number already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	default:
		log.Error("request failed", zap.String("action", action), zap.String("path", c.FullPath()), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to "+action)
	}
}
