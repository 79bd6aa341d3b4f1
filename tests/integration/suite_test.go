package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/printshop-api/config"
	"github.com/kendall-kelly/printshop-api/middleware"
	"github.com/kendall-kelly/printshop-api/repository"
	"github.com/kendall-kelly/printshop-api/routes"
	"github.com/kendall-kelly/printshop-api/services"
	"github.com/kendall-kelly/printshop-api/tests/testutil"
	"github.com/kendall-kelly/printshop-api/utils"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// apiSuite wires the real router over an in-memory database with mock
// receipt storage and event bus
type apiSuite struct {
	suite.Suite
	cfg      *config.Config
	db       *gorm.DB
	router   *gin.Engine
	receipts services.ReceiptStore
	bus      *services.MockEventBus

	adminToken string
	userToken  string
}

// localReceipts switches the suite to on-disk receipts in a temp dir
func (s *apiSuite) useLocalReceipts() {
	s.receipts = services.NewLocalReceiptStore(s.T().TempDir())
}

func (s *apiSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	s.Require().NoError(utils.RegisterValidators())
	s.cfg = testutil.TestConfig()
}

func (s *apiSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.bus = services.NewMockEventBus()
	if s.receipts == nil {
		s.receipts = services.NewMockReceiptStore()
	}

	log := zap.NewNop()
	repo := repository.New(s.db)
	auth := services.NewAuthService(repo, s.cfg, log).WithHashCost(bcrypt.MinCost)
	s.Require().NoError(auth.EnsureBootstrapUsers(context.Background()))

	jwtValidator, err := middleware.NewTokenValidator(s.cfg)
	s.Require().NoError(err)

	deps := routes.Dependencies{
		DB:             s.db,
		Log:            log,
		Validator:      jwtValidator,
		AllowedOrigins: s.cfg.AllowedOrigins,
		Location:       time.UTC,
		Orders: services.NewOrderService(repo, s.receipts, nil, s.bus, log, services.OrderServiceOptions{
			IDPrefix: s.cfg.OrderIDPrefix,
			Location: time.UTC,
		}),
		Customers: services.NewCustomerService(repo, log, s.cfg.CustomerIDPrefix),
		Stock:     services.NewStockService(repo, log, time.UTC),
		Cashflow:  services.NewCashflowService(repo, log, time.UTC),
		Auth:      auth,
	}
	if local, ok := s.receipts.(*services.LocalReceiptStore); ok {
		deps.ReceiptDir = local.Dir()
	}
	s.router = routes.SetupRouter(deps)

	s.adminToken = s.login("admin@printshop.test", "admin-password")
	s.userToken = s.login("user@printshop.test", "user-password")
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *apiSuite) login(email, password string) string {
	w, env := s.request(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": email, "password": password})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var res struct {
		AccessToken string `json:"accessToken"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &res))
	return res.AccessToken
}

func (s *apiSuite) request(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, path, reader)
	s.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.do(req, token)
}

func (s *apiSuite) do(req *http.Request, token string) (*httptest.ResponseRecorder, envelope) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (s *apiSuite) decode(raw json.RawMessage, out any) {
	s.Require().NoError(json.Unmarshal(raw, out), string(raw))
}

func newOrderBody(name, phone string, size, rate int) map[string]any {
	return map[string]any{
		"userName":  name,
		"phone":     phone,
		"city":      "Lahore",
		"itemName":  "DTF transfer",
		"itemSize":  size,
		"itemRate":  rate,
		"orderType": "Local",
	}
}
