package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/printshop-api/repository"
	"github.com/kendall-kelly/printshop-api/services"
	"github.com/kendall-kelly/printshop-api/tests/testutil"
	"github.com/kendall-kelly/printshop-api/utils"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	repo      *repository.Repository
	receipts  *services.MockReceiptStore
	orders    *services.OrderService
	customers *services.CustomerService
	stock     *services.StockService
	cashflow  *services.CashflowService
	auth      *services.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, utils.RegisterValidators())

	repo := repository.New(testutil.NewTestDB(t))
	receipts := services.NewMockReceiptStore()
	log := zap.NewNop()

	return &testEnv{
		repo:      repo,
		receipts:  receipts,
		orders:    services.NewOrderService(repo, receipts, nil, nil, log, services.OrderServiceOptions{IDPrefix: "DTF", Location: time.UTC}),
		customers: services.NewCustomerService(repo, log, "CUS"),
		stock:     services.NewStockService(repo, log, time.UTC),
		cashflow:  services.NewCashflowService(repo, log, time.UTC),
		auth:      services.NewAuthService(repo, testutil.TestConfig(), log).WithHashCost(bcrypt.MinCost),
	}
}

// router registers the order routes behind a mock authenticated user with role
func (e *testEnv) router(role string) *gin.Engine {
	r := gin.New()
	log := zap.NewNop()

	orders := NewOrderController(e.orders, time.UTC, log)
	customers := NewCustomerController(e.customers, log)
	stock := NewStockController(e.stock, log)
	cashflow := NewCashflowController(e.cashflow, time.UTC, log)
	users := NewUserController(e.auth, log)

	v1 := r.Group("/api/v1")
	v1.POST("/auth/login", users.Login)

	authed := v1.Group("", testutil.MockAuthMiddleware("1", role))
	authed.GET("/users/me", users.GetMyProfile)
	authed.GET("/dashboard/summary", orders.Dashboard)
	authed.GET("/orders", orders.ListOrders)
	authed.POST("/orders", orders.CreateOrder)
	authed.GET("/orders/:id", orders.GetOrder)
	authed.PUT("/orders/:id", orders.UpdateOrder)
	authed.DELETE("/orders/:id", orders.DeleteOrder)
	authed.GET("/orders/:id/payments", orders.ListPayments)
	authed.POST("/orders/:id/payments", orders.AddPayment)
	authed.GET("/payments/:id/receipt", orders.GetPaymentReceipt)
	authed.GET("/invoice", orders.GetInvoice)
	authed.GET("/customers", customers.ListCustomers)
	authed.POST("/customers", customers.CreateCustomer)
	authed.GET("/customers/:id", customers.GetCustomer)
	authed.PUT("/customers/:id", customers.UpdateCustomer)
	authed.DELETE("/customers/:id", customers.DeleteCustomer)
	authed.GET("/stock", stock.ListStock)
	authed.POST("/stock", stock.CreateStock)
	authed.PUT("/stock/:sr", stock.UpdateStock)
	authed.DELETE("/stock/:sr", stock.DeleteStock)
	authed.GET("/cashflow", cashflow.ListCashflow)
	authed.POST("/cashflow", cashflow.CreateCashflow)
	authed.PUT("/cashflow/:id", cashflow.UpdateCashflow)
	authed.DELETE("/cashflow/:id", cashflow.DeleteCashflow)
	return r
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
	} `json:"error"`
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return serve(t, r, req)
}

func serve(t *testing.T, r http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

// multipartPayment builds a multipart payment body with an optional receipt
func multipartPayment(t *testing.T, fields map[string]string, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if filename != "" {
		part, err := writer.CreateFormFile("receipt", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

var orderBody = map[string]any{
	"userName":  "Ali Raza",
	"phone":     "03001234567",
	"city":      "Lahore",
	"itemName":  "DTF transfer",
	"itemSize":  20,
	"itemRate":  50,
	"orderType": "Local",
}

func withField(base map[string]any, key string, value any) map[string]any {
	out := make(map[string]any, len(base))
	for k, v := range base {
		out[k] = v
	}
	if value == nil {
		delete(out, key)
	} else {
		out[key] = value
	}
	return out
}
