package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/printshop-api/config"
	"github.com/kendall-kelly/printshop-api/logger"
	"github.com/kendall-kelly/printshop-api/middleware"
	"github.com/kendall-kelly/printshop-api/repository"
	"github.com/kendall-kelly/printshop-api/routes"
	"github.com/kendall-kelly/printshop-api/services"
	"github.com/kendall-kelly/printshop-api/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	if err := logger.Init(cfg.IsDevelopment(), cfg.LogLevel); err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()
	log := logger.L()

	log.Info("Starting print shop API server...", zap.String("env", cfg.GoEnv))

	if err := config.ConnectDatabase(cfg.DatabaseURL); err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	db := config.GetDB()

	if err := config.MigrateDatabase(db); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	log.Info("Database migration completed successfully")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	app, err := newApp(ctx, cfg, db, log)
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server is running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
}

// app holds the router and the connections that need closing
type app struct {
	Router *gin.Engine
	Auth   *services.AuthService

	closers []func() error
	log     *zap.Logger
}

// newApp builds services and routes on top of an open, migrated database
func newApp(ctx context.Context, cfg *config.Config, db *gorm.DB, log *zap.Logger) (*app, error) {
	if err := utils.RegisterValidators(); err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	a := &app{log: log}
	repo := repository.New(db)

	receipts, err := services.NewReceiptStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	var cache services.SummaryCache = services.NoopSummaryCache{}
	if cfg.RedisAddr != "" {
		redisCache, err := services.NewRedisSummaryCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SummaryCacheTTL(), log)
		if err != nil {
			log.Warn("Redis unavailable, dashboard summary will not be cached", zap.Error(err))
		} else {
			cache = redisCache
			a.closers = append(a.closers, redisCache.Close)
		}
	}

	var bus services.EventBus
	if len(cfg.KafkaBrokers) > 0 {
		kafkaBus := services.NewKafkaEventBus(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		bus = kafkaBus
		a.closers = append(a.closers, kafkaBus.Close)
		log.Info("Publishing events to Kafka", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}

	orders := services.NewOrderService(repo, receipts, cache, bus, log, services.OrderServiceOptions{
		IDPrefix: cfg.OrderIDPrefix,
		Location: loc,
	})
	a.Auth = services.NewAuthService(repo, cfg, log)
	if err := a.Auth.EnsureBootstrapUsers(ctx); err != nil {
		return nil, err
	}

	jwtValidator, err := middleware.NewTokenValidator(cfg)
	if err != nil {
		return nil, err
	}

	deps := routes.Dependencies{
		DB:             db,
		Log:            log,
		Validator:      jwtValidator,
		AllowedOrigins: cfg.AllowedOrigins,
		Location:       loc,
		Orders:         orders,
		Customers:      services.NewCustomerService(repo, log, cfg.CustomerIDPrefix),
		Stock:          services.NewStockService(repo, log, loc),
		Cashflow:       services.NewCashflowService(repo, log, loc),
		Auth:           a.Auth,
	}
	if local, ok := receipts.(*services.LocalReceiptStore); ok {
		deps.ReceiptDir = local.Dir()
	}

	a.Router = routes.SetupRouter(deps)
	return a, nil
}

func (a *app) Close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.log.Warn("close failed", zap.Error(err))
		}
	}
}
