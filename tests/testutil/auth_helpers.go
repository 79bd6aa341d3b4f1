package testutil

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/printshop-api/config"
	"github.com/kendall-kelly/printshop-api/middleware"
	"github.com/kendall-kelly/printshop-api/utils"
)

// SetMockAuthContext sets up a mock authenticated context for testing
func SetMockAuthContext(c *gin.Context, userID, role string) {
	c.Set(middleware.ContextUserID, userID)
	c.Set(middleware.ContextRole, role)
}

// MockAuthMiddleware authenticates every request as userID with role
func MockAuthMiddleware(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		SetMockAuthContext(c, userID, role)
		c.Next()
	}
}

// IssueToken signs a real access token accepted by middleware.EnsureValidToken
func IssueToken(t *testing.T, cfg *config.Config, userID, role string) string {
	t.Helper()

	token, _, err := utils.GenerateAccessToken(utils.TokenParams{
		Subject:  userID,
		Role:     role,
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      time.Hour,
	}, time.Now())
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

// CreateTestContext creates a test Gin context
func CreateTestContext() (*gin.Context, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	c, engine := gin.CreateTestContext(nil)
	return c, engine
}
