package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kendall-kelly/printshop-api/ledger"
	"github.com/kendall-kelly/printshop-api/services"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CashflowRequest is the body of cashflow writes. Date is YYYY-MM-DD and
// defaults to today on create.
type CashflowRequest struct {
	Date string           `json:"date"`
	Paid *decimal.Decimal `json:"paid" binding:"required"`
}

type CashflowController struct {
	cashflow *services.CashflowService
	loc      *time.Location
	log      *zap.Logger
}

func NewCashflowController(cashflow *services.CashflowService, loc *time.Location, log *zap.Logger) *CashflowController {
	if loc == nil {
		loc = time.Local
	}
	return &CashflowController{cashflow: cashflow, loc: loc, log: log}
}

// ListCashflow handles GET /api/v1/cashflow?month=
func (ctl *CashflowController) ListCashflow(c *gin.Context) {
	month, err := parseMonth(c.Query("month"))
	if err != nil {
		respondErrorDetails(c, http.StatusBadRequest, "INVALID_QUERY", "Invalid query parameters", err.Error())
		return
	}

	listing, err := ctl.cashflow.List(c.Request.Context(), services.CashflowFilter{Month: month})
	if err != nil {
		serviceError(c, ctl.log, err, "list cashflow")
		return
	}
	respondOK(c, http.StatusOK, listing)
}

func (ctl *CashflowController) CreateCashflow(c *gin.Context) {
	in, ok := ctl.bind(c)
	if !ok {
		return
	}

	entry, err := ctl.cashflow.Create(c.Request.Context(), in)
	if err != nil {
		serviceError(c, ctl.log, err, "create cashflow entry")
		return
	}
	respondOK(c, http.StatusCreated, entry)
}

func (ctl *CashflowController) UpdateCashflow(c *gin.Context) {
	id, ok := parseUUID(c)
	if !ok {
		return
	}
	in, ok := ctl.bind(c)
	if !ok {
		return
	}

	entry, err := ctl.cashflow.Update(c.Request.Context(), id, in)
	if err != nil {
		serviceError(c, ctl.log, err, "update cashflow entry")
		return
	}
	respondOK(c, http.StatusOK, entry)
}

func (ctl *CashflowController) DeleteCashflow(c *gin.Context) {
	id, ok := parseUUID(c)
	if !ok {
		return
	}

	if err := ctl.cashflow.Delete(c.Request.Context(), id); err != nil {
		serviceError(c, ctl.log, err, "delete cashflow entry")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"id": id})
}

func (ctl *CashflowController) bind(c *gin.Context) (services.CashflowInput, bool) {
	var req CashflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return services.CashflowInput{}, false
	}

	in := services.CashflowInput{Paid: *req.Paid}
	if req.Date != "" {
		date, err := time.ParseInLocation(ledger.DateLayout, req.Date, ctl.loc)
		if err != nil {
			respondErrorDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", "date must be formatted as YYYY-MM-DD")
			return services.CashflowInput{}, false
		}
		in.Date = &date
	}
	return in, true
}

func parseUUID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Cashflow id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}
