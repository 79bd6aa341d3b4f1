package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/printshop-api/services"
	"go.uber.org/zap"
)

type CustomerRequest struct {
	Name      string `json:"name" binding:"required"`
	Phone     string `json:"phone" binding:"required,mobile"`
	City      string `json:"city"`
	Address   string `json:"address"`
	OrderType string `json:"orderType" binding:"omitempty,oneof=Local Online"`
	Status    string `json:"status" binding:"omitempty,oneof=Active Inactive"`
}

func (r CustomerRequest) input() services.CustomerInput {
	return services.CustomerInput{
		Name:      r.Name,
		Phone:     r.Phone,
		City:      r.City,
		Address:   r.Address,
		OrderType: r.OrderType,
		Status:    r.Status,
	}
}

type CustomerController struct {
	customers *services.CustomerService
	log       *zap.Logger
}

func NewCustomerController(customers *services.CustomerService, log *zap.Logger) *CustomerController {
	return &CustomerController{customers: customers, log: log}
}

// ListCustomers handles GET /api/v1/customers?search=&name=&city=&orderType=
func (ctl *CustomerController) ListCustomers(c *gin.Context) {
	listing, err := ctl.customers.List(c.Request.Context(), services.CustomerFilter{
		Search:    c.Query("search"),
		Name:      c.Query("name"),
		City:      c.Query("city"),
		OrderType: c.Query("orderType"),
	})
	if err != nil {
		serviceError(c, ctl.log, err, "list customers")
		return
	}
	respondOK(c, http.StatusOK, listing)
}

func (ctl *CustomerController) CreateCustomer(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	customer, err := ctl.customers.Create(c.Request.Context(), req.input())
	if err != nil {
		serviceError(c, ctl.log, err, "create customer")
		return
	}
	respondOK(c, http.StatusCreated, customer)
}

func (ctl *CustomerController) GetCustomer(c *gin.Context) {
	customer, err := ctl.customers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, ctl.log, err, "load customer")
		return
	}
	respondOK(c, http.StatusOK, customer)
}

func (ctl *CustomerController) UpdateCustomer(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	customer, err := ctl.customers.Update(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		serviceError(c, ctl.log, err, "update customer")
		return
	}
	respondOK(c, http.StatusOK, customer)
}

func (ctl *CustomerController) DeleteCustomer(c *gin.Context) {
	id := c.Param("id")
	if err := ctl.customers.Delete(c.Request.Context(), id); err != nil {
		serviceError(c, ctl.log, err, "delete customer")
		return
	}
	respondOK(c, http.StatusOK, gin.H{"id": id})
}
