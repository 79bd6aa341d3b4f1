package testutil

import (
	"testing"

	"github.com/kendall-kelly/printshop-api/config"
	"github.com/kendall-kelly/printshop-api/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a migrated in-memory SQLite database private to the test.
// A single connection keeps every query on the same in-memory database, so
// callers must not hold a transaction open while using the outer handle.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// TestConfig returns a configuration suitable for unit tests
func TestConfig() *config.Config {
	return &config.Config{
		DatabaseURL:            ":memory:",
		Port:                   "8080",
		GoEnv:                  "test",
		LogLevel:               "error",
		JWTSecret:              "test-secret",
		JWTIssuer:              "printshop-api",
		JWTAudience:            "printshop-backoffice",
		JWTTTLMinutes:          60,
		AdminEmail:             "admin@printshop.test",
		AdminPassword:          "admin-password",
		UserEmail:              "user@printshop.test",
		UserPassword:           "user-password",
		OrderIDPrefix:          "DTF",
		CustomerIDPrefix:       "CUS",
		Timezone:               "UTC",
		AllowedOrigins:         []string{"http://localhost:3000"},
		AWSRegion:              "us-east-1",
		UploadDir:              "uploads",
		SummaryCacheTTLSeconds: 60,
		KafkaTopic:             "printshop.events",
	}
}
