package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/printshop-api/ledger"
	"github.com/kendall-kelly/printshop-api/models"
	"github.com/kendall-kelly/printshop-api/services"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderRequest is the body of POST /orders and PUT /orders/:id
type OrderRequest struct {
	UserName  string           `json:"userName" binding:"required"`
	Phone     string           `json:"phone" binding:"required,mobile"`
	City      string           `json:"city"`
	Address   string           `json:"address"`
	OrderType string           `json:"orderType" binding:"omitempty,oneof=Local Online"`
	ItemName  string           `json:"itemName"`
	ItemSize  *decimal.Decimal `json:"itemSize" binding:"required"`
	ItemRate  *decimal.Decimal `json:"itemRate" binding:"required"`
}

func (r OrderRequest) input() services.OrderInput {
	return services.OrderInput{
		UserName:  r.UserName,
		Phone:     r.Phone,
		City:      r.City,
		Address:   r.Address,
		OrderType: r.OrderType,
		ItemName:  r.ItemName,
		ItemSize:  *r.ItemSize,
		ItemRate:  *r.ItemRate,
	}
}

// PaymentRequest is the JSON body of POST /orders/:id/payments
type PaymentRequest struct {
	Cash     *decimal.Decimal `json:"cash"`
	Transfer *decimal.Decimal `json:"transfer"`
	File     string           `json:"file"`
}

type OrderController struct {
	orders *services.OrderService
	loc    *time.Location
	log    *zap.Logger
}

func NewOrderController(orders *services.OrderService, loc *time.Location, log *zap.Logger) *OrderController {
	if loc == nil {
		loc = time.Local
	}
	return &OrderController{orders: orders, loc: loc, log: log}
}

// ListOrders handles GET /api/v1/orders
func (ctl *OrderController) ListOrders(c *gin.Context) {
	filter, err := parseOrderFilter(c, ctl.loc)
	if err != nil {
		respondErrorDetails(c, http.StatusBadRequest, "INVALID_QUERY", "Invalid query parameters", err.Error())
		return
	}

	listing, err := ctl.orders.List(c.Request.Context(), filter)
	if err != nil {
		serviceError(c, ctl.log, err, "list orders")
		return
	}
	respondOK(c, http.StatusOK, listing)
}

// CreateOrder handles POST /api/v1/orders
func (ctl *OrderController) CreateOrder(c *gin.Context) {
	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	order, err := ctl.orders.Create(c.Request.Context(), req.input())
	if err != nil {
		serviceError(c, ctl.log, err, "create order")
		return
	}
	respondOK(c, http.StatusCreated, order)
}

// GetOrder handles GET /api/v1/orders/:id
func (ctl *OrderController) GetOrder(c *gin.Context) {
	detail, err := ctl.orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, ctl.log, err, "load order")
		return
	}
	respondOK(c, http.StatusOK, detail)
}

// UpdateOrder handles PUT /api/v1/orders/:id
func (ctl *OrderController) UpdateOrder(c *gin.Context) {
	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	order, err := ctl.orders.Update(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		serviceError(c, ctl.log, err, "update order")
		return
	}
	respondOK(c, http.StatusOK, order)
}

// DeleteOrder handles DELETE /api/v1/orders/:id (admin only)
func (ctl *OrderController) DeleteOrder(c *gin.Context) {
	id := c.Param("id")
	if err := ctl.orders.Delete(c.Request.Context(), id); err != nil {
		serviceError(c, ctl.log, err, "delete order")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"id": id})
}

// ListPayments handles GET /api/v1/orders/:id/payments
func (ctl *OrderController) ListPayments(c *gin.Context) {
	payments, err := ctl.orders.Payments(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, ctl.log, err, "list payments")
		return
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	respondOK(c, http.StatusOK, payments)
}

// AddPayment handles POST /api/v1/orders/:id/payments. The body is JSON or
// multipart/form-data with fields cash, transfer, file and an optional
// receipt file.
func (ctl *OrderController) AddPayment(c *gin.Context) {
	var in services.PaymentInput

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		var err error
		if in.Cash, err = formDecimal(c, "cash"); err != nil {
			bindError(c, err)
			return
		}
		if in.Transfer, err = formDecimal(c, "transfer"); err != nil {
			bindError(c, err)
			return
		}
		in.File = c.PostForm("file")

		if fh, err := c.FormFile("receipt"); err == nil {
			in.Receipt = fh
		} else if err != http.ErrMissingFile {
			respondErrorDetails(c, http.StatusBadRequest, "INVALID_FILE", "Could not read the uploaded receipt", err.Error())
			return
		}
	} else {
		var req PaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		if req.Cash != nil {
			in.Cash = *req.Cash
		}
		if req.Transfer != nil {
			in.Transfer = *req.Transfer
		}
		in.File = req.File
	}

	res, err := ctl.orders.AddPayment(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		serviceError(c, ctl.log, err, "record payment")
		return
	}
	respondOK(c, http.StatusCreated, res)
}

// GetPaymentReceipt handles GET /api/v1/payments/:id/receipt by redirecting
// to the stored receipt
func (ctl *OrderController) GetPaymentReceipt(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Payment id must be a positive integer")
		return
	}

	url, err := ctl.orders.ReceiptURL(c.Request.Context(), uint(id))
	if err != nil {
		serviceError(c, ctl.log, err, "load receipt")
		return
	}
	c.Redirect(http.StatusFound, url)
}

// Dashboard handles GET /api/v1/dashboard/summary?month=&from=&to=
func (ctl *OrderController) Dashboard(c *gin.Context) {
	f := ledger.Filter{Location: ctl.loc}
	month, err := parseMonth(c.Query("month"))
	if err == nil {
		f.Month = month
		err = parseDateRange(c, &f)
	}
	if err != nil {
		respondErrorDetails(c, http.StatusBadRequest, "INVALID_QUERY", "Invalid query parameters", err.Error())
		return
	}

	summary, err := ctl.orders.Dashboard(c.Request.Context(), f)
	if err != nil {
		serviceError(c, ctl.log, err, "load dashboard")
		return
	}
	respondOK(c, http.StatusOK, summary)
}

// GetInvoice handles GET /api/v1/invoice?query= by exact order id or phone
func (ctl *OrderController) GetInvoice(c *gin.Context) {
	detail, err := ctl.orders.Invoice(c.Request.Context(), c.Query("query"))
	if err != nil {
		serviceError(c, ctl.log, err, "load invoice")
		return
	}
	respondOK(c, http.StatusOK, detail)
}

func formDecimal(c *gin.Context, field string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s must be a number", field)
	}
	return v, nil
}

// parseOrderFilter reads search, status, month, date, from, to, orderType
// and paymentType from the query string
func parseOrderFilter(c *gin.Context, loc *time.Location) (ledger.Filter, error) {
	f := ledger.Filter{
		Search:   strings.TrimSpace(c.Query("search")),
		Location: loc,
	}

	if raw := c.Query("status"); raw != "" {
		status, ok := ledger.ParseStatus(raw)
		if !ok {
			return f, fmt.Errorf("status must be one of Pending, InProgress, Completed")
		}
		f.Status = status
	}

	month, err := parseMonth(c.Query("month"))
	if err != nil {
		return f, err
	}
	f.Month = month

	if raw := c.Query("date"); raw != "" {
		if _, err := time.ParseInLocation(ledger.DateLayout, raw, loc); err != nil {
			return f, fmt.Errorf("date must be formatted as YYYY-MM-DD")
		}
		f.Date = raw
	}

	if err := parseDateRange(c, &f); err != nil {
		return f, err
	}

	switch raw := c.Query("orderType"); raw {
	case "", models.OrderTypeLocal, models.OrderTypeOnline:
		f.OrderType = raw
	default:
		return f, fmt.Errorf("orderType must be Local or Online")
	}

	switch raw := strings.ToLower(c.Query("paymentType")); raw {
	case "", ledger.PaymentTypeCash, ledger.PaymentTypeTransfer, ledger.PaymentTypeBalance:
		f.PaymentType = raw
	default:
		return f, fmt.Errorf("paymentType must be cash, transfer or balance")
	}

	return f, nil
}

// parseDateRange fills the inclusive from/to bounds
func parseDateRange(c *gin.Context, f *ledger.Filter) error {
	for _, bound := range []struct {
		name string
		dst  *string
	}{{"from", &f.From}, {"to", &f.To}} {
		raw := c.Query(bound.name)
		if raw == "" {
			continue
		}
		if _, err := time.Parse(ledger.DateLayout, raw); err != nil {
			return fmt.Errorf("%s must be formatted as YYYY-MM-DD", bound.name)
		}
		*bound.dst = raw
	}
	if f.From != "" && f.To != "" && f.From > f.To {
		return fmt.Errorf("from must not be after to")
	}
	return nil
}

func parseMonth(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	month, err := strconv.Atoi(raw)
	if err != nil || month < 1 || month > 12 {
		return 0, fmt.Errorf("month must be between 1 and 12")
	}
	return month, nil
}
