package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/printshop-api/services"
	"go.uber.org/zap"
)

type StockRequest struct {
	Item     string `json:"item" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
}

type StockController struct {
	stock *services.StockService
	log   *zap.Logger
}

func NewStockController(stock *services.StockService, log *zap.Logger) *StockController {
	return &StockController{stock: stock, log: log}
}

// ListStock handles GET /api/v1/stock?search=&month=
func (ctl *StockController) ListStock(c *gin.Context) {
	month, err := parseMonth(c.Query("month"))
	if err != nil {
		respondErrorDetails(c, http.StatusBadRequest, "INVALID_QUERY", "Invalid query parameters", err.Error())
		return
	}

	listing, err := ctl.stock.List(c.Request.Context(), services.StockFilter{Search: c.Query("search"), Month: month})
	if err != nil {
		serviceError(c, ctl.log, err, "list stock")
		return
	}
	respondOK(c, http.StatusOK, listing)
}

func (ctl *StockController) CreateStock(c *gin.Context) {
	var req StockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	item, err := ctl.stock.Create(c.Request.Context(), services.StockInput{Item: req.Item, Quantity: req.Quantity})
	if err != nil {
		serviceError(c, ctl.log, err, "create stock item")
		return
	}
	respondOK(c, http.StatusCreated, item)
}

func (ctl *StockController) UpdateStock(c *gin.Context) {
	sr, ok := parseSr(c)
	if !ok {
		return
	}

	var req StockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	item, err := ctl.stock.Update(c.Request.Context(), sr, services.StockInput{Item: req.Item, Quantity: req.Quantity})
	if err != nil {
		serviceError(c, ctl.log, err, "update stock item")
		return
	}
	respondOK(c, http.StatusOK, item)
}

func (ctl *StockController) DeleteStock(c *gin.Context) {
	sr, ok := parseSr(c)
	if !ok {
		return
	}

	if err := ctl.stock.Delete(c.Request.Context(), sr); err != nil {
		serviceError(c, ctl.log, err, "delete stock item")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"sr": sr})
}

func parseSr(c *gin.Context) (int64, bool) {
	sr, err := strconv.ParseInt(c.Param("sr"), 10, 64)
	if err != nil || sr <= 0 {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Stock sr must be a positive integer")
		return 0, false
	}
	return sr, true
}
