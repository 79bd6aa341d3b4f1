package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/printshop-api/middleware"
	"github.com/kendall-kelly/printshop-api/services"
	"go.uber.org/zap"
)

// LoginRequest represents the request body for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserController struct {
	auth *services.AuthService
	log  *zap.Logger
}

func NewUserController(auth *services.AuthService, log *zap.Logger) *UserController {
	return &UserController{auth: auth, log: log}
}

// Login handles POST /api/v1/auth/login
func (ctl *UserController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	res, err := ctl.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if err == services.ErrInvalidCredentials {
			ctl.log.Info("login rejected", zap.String("email", req.Email))
		}
		serviceError(c, ctl.log, err, "log in")
		return
	}
	respondOK(c, http.StatusOK, res)
}

// GetMyProfile handles GET /api/v1/users/me
func (ctl *UserController) GetMyProfile(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	user, err := ctl.auth.Me(c.Request.Context(), userID)
	if err != nil {
		serviceError(c, ctl.log, err, "load profile")
		return
	}
	respondOK(c, http.StatusOK, user)
}
