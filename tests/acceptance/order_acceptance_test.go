package acceptance

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/printshop-api/ledger"
	"github.com/kendall-kelly/printshop-api/middleware"
	"github.com/kendall-kelly/printshop-api/repository"
	"github.com/kendall-kelly/printshop-api/routes"
	"github.com/kendall-kelly/printshop-api/services"
	"github.com/kendall-kelly/printshop-api/tests/testutil"
	"github.com/kendall-kelly/printshop-api/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type client struct {
	t      *testing.T
	server *httptest.Server
	token  string
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code string `json:"code"`
	} `json:"error"`
}

// startServer runs the full router on a real listener and logs in as the
// bootstrap user
func startServer(t *testing.T) *client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, utils.RegisterValidators())

	cfg := testutil.TestConfig()
	db := testutil.NewTestDB(t)
	log := zap.NewNop()
	repo := repository.New(db)

	auth := services.NewAuthService(repo, cfg, log).WithHashCost(bcrypt.MinCost)
	require.NoError(t, auth.EnsureBootstrapUsers(context.Background()))

	jwtValidator, err := middleware.NewTokenValidator(cfg)
	require.NoError(t, err)

	router := routes.SetupRouter(routes.Dependencies{
		DB:             db,
		Log:            log,
		Validator:      jwtValidator,
		AllowedOrigins: cfg.AllowedOrigins,
		Location:       time.UTC,
		Orders: services.NewOrderService(repo, services.NewMockReceiptStore(), nil, nil, log, services.OrderServiceOptions{
			IDPrefix: cfg.OrderIDPrefix,
			Location: time.UTC,
		}),
		Customers: services.NewCustomerService(repo, log, cfg.CustomerIDPrefix),
		Stock:     services.NewStockService(repo, log, time.UTC),
		Cashflow:  services.NewCashflowService(repo, log, time.UTC),
		Auth:      auth,
	})

	c := &client{t: t, server: httptest.NewServer(router)}
	t.Cleanup(c.server.Close)

	status, env := c.call(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "user@printshop.test",
		"password": "user-password",
	})
	require.Equal(t, http.StatusOK, status)
	var login services.LoginResult
	require.NoError(t, json.Unmarshal(env.Data, &login))
	c.token = login.AccessToken
	return c
}

func (c *client) call(method, path string, body any) (int, envelope) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.server.URL+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func (c *client) createOrder(name, phone string, size, rate int) ledger.ProjectedOrder {
	c.t.Helper()
	status, env := c.call(http.MethodPost, "/api/v1/orders", map[string]any{
		"userName":  name,
		"phone":     phone,
		"city":      "Karachi",
		"itemName":  "DTF sheet",
		"itemSize":  size,
		"itemRate":  rate,
		"orderType": "Online",
	})
	require.Equal(c.t, http.StatusCreated, status)
	var order ledger.ProjectedOrder
	require.NoError(c.t, json.Unmarshal(env.Data, &order))
	return order
}

func (c *client) pay(id string, cash, transfer int) (int, ledger.ProjectedOrder) {
	c.t.Helper()
	status, env := c.call(http.MethodPost, "/api/v1/orders/"+id+"/payments", map[string]any{
		"cash":     cash,
		"transfer": transfer,
	})
	var res services.PaymentResult
	if status == http.StatusCreated {
		require.NoError(c.t, json.Unmarshal(env.Data, &res))
	}
	return status, res.Order
}

func (c *client) get(id string) services.OrderDetail {
	c.t.Helper()
	status, env := c.call(http.MethodGet, "/api/v1/orders/"+id, nil)
	require.Equal(c.t, http.StatusOK, status)
	var detail services.OrderDetail
	require.NoError(c.t, json.Unmarshal(env.Data, &detail))
	return detail
}

func assertMoney(t *testing.T, want int64, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, decimal.NewFromInt(want).Equal(got), "%s: want %d, got %s", field, want, got)
}

// TestOrderSettlement follows one order from creation through an overpayment
func TestOrderSettlement(t *testing.T) {
	c := startServer(t)

	order := c.createOrder("Ali Raza", "03001234567", 20, 50)
	require.Equal(t, "DTF-001", order.ID)
	assertMoney(t, 1000, order.TotalCost, "totalCost")
	assertMoney(t, 0, order.Amount, "amount")
	assertMoney(t, 1000, order.Balance, "balance")
	assert.Equal(t, ledger.StatusPending, order.Status)
	assert.Nil(t, order.LastPaymentDate)

	steps := []struct {
		cash, transfer int
		amount         int64
		balance        int64
		status         ledger.Status
	}{
		{400, 0, 400, 600, ledger.StatusInProgress},
		{0, 600, 1000, 0, ledger.StatusCompleted},
		{100, 0, 1100, 0, ledger.StatusCompleted},
	}
	for _, step := range steps {
		status, projected := c.pay("DTF-001", step.cash, step.transfer)
		require.Equal(t, http.StatusCreated, status)
		assertMoney(t, step.amount, projected.Amount, "amount")
		assertMoney(t, step.balance, projected.Balance, "balance")
		assert.Equal(t, step.status, projected.Status)
		assert.NotNil(t, projected.LastPaymentDate)
	}

	detail := c.get("DTF-001")
	assert.Len(t, detail.Payments, 3)
	assertMoney(t, 500, detail.Cash, "cash")
	assertMoney(t, 600, detail.Transfer, "transfer")
}

// TestPaymentForUnknownOrder leaves existing orders untouched
func TestPaymentForUnknownOrder(t *testing.T) {
	c := startServer(t)
	c.createOrder("Ali Raza", "03001234567", 20, 50)

	status, _ := c.pay("DTF-999", 50, 0)
	assert.Equal(t, http.StatusNotFound, status)

	detail := c.get("DTF-001")
	assert.Empty(t, detail.Payments)
	assert.Equal(t, ledger.StatusPending, detail.Status)
	assertMoney(t, 1000, detail.Balance, "balance")
}

// TestDashboardCounts reduces a pending and a completed order
func TestDashboardCounts(t *testing.T) {
	c := startServer(t)
	c.createOrder("Ali Raza", "03001234567", 20, 50)
	c.createOrder("Sara Khan", "03111111111", 15, 10)

	status, _ := c.pay("DTF-002", 150, 0)
	require.Equal(t, http.StatusCreated, status)

	status, env := c.call(http.MethodGet, "/api/v1/dashboard/summary", nil)
	require.Equal(t, http.StatusOK, status)

	var summary ledger.Summary
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 2, summary.CreatedOrders)
	assert.Equal(t, 1, summary.PendingOrders)
	assert.Equal(t, 0, summary.InProgressOrders)
	assert.Equal(t, 1, summary.CompletedOrders)
	assertMoney(t, 35, summary.TotalItemSize, "totalItemSize")
	assertMoney(t, 1150, summary.TotalItemCost, "totalItemCost")
	assertMoney(t, 1000, summary.TotalBalance, "totalBalance")
}

// TestListFilters combines search and status filters over the listing
func TestListFilters(t *testing.T) {
	c := startServer(t)
	c.createOrder("Ali Raza", "03001234567", 20, 50)
	c.createOrder("Sara Khan", "03111111111", 15, 10)
	status, _ := c.pay("DTF-001", 100, 0)
	require.Equal(t, http.StatusCreated, status)

	cases := []struct {
		query string
		ids   []string
	}{
		{"", []string{"DTF-001", "DTF-002"}},
		{"?search=sara", []string{"DTF-002"}},
		{"?search=DTF-001", []string{"DTF-001"}},
		{"?status=InProgress", []string{"DTF-001"}},
		{"?status=Completed", []string{}},
		{"?paymentType=cash", []string{"DTF-001"}},
	}
	for _, tc := range cases {
		status, env := c.call(http.MethodGet, "/api/v1/orders"+tc.query, nil)
		require.Equal(t, http.StatusOK, status, tc.query)

		var listing services.OrderListing
		require.NoError(t, json.Unmarshal(env.Data, &listing))
		ids := []string{}
		for _, o := range listing.Orders {
			ids = append(ids, o.ID)
		}
		assert.ElementsMatch(t, tc.ids, ids, tc.query)
		assert.Equal(t, 2, listing.Summary.CreatedOrders, tc.query)
	}

	status, env := c.call(http.MethodGet, "/api/v1/orders?status=Done", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_QUERY", env.Error.Code)
}
