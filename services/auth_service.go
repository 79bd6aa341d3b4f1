package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kendall-kelly/printshop-api/config"
	"github.com/kendall-kelly/printshop-api/models"
	"github.com/kendall-kelly/printshop-api/repository"
	"github.com/kendall-kelly/printshop-api/utils"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// LoginResult is returned on a successful login
type LoginResult struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	User        *models.User `json:"user"`
}

type AuthService struct {
	repo *repository.Repository
	cfg  *config.Config
	log  *zap.Logger
	cost int
	now  func() time.Time
}

func NewAuthService(repo *repository.Repository, cfg *config.Config, log *zap.Logger) *AuthService {
	return &AuthService{repo: repo, cfg: cfg, log: log, cost: bcrypt.DefaultCost, now: time.Now}
}

// WithHashCost overrides the bcrypt cost, tests use bcrypt.MinCost
func (s *AuthService) WithHashCost(cost int) *AuthService {
	s.cost = cost
	return s
}

// EnsureBootstrapUsers creates the configured admin and user accounts.
// An existing account gets its password and role reset to the configured ones.
func (s *AuthService) EnsureBootstrapUsers(ctx context.Context) error {
	accounts := []struct {
		email, password, role string
	}{
		{s.cfg.AdminEmail, s.cfg.AdminPassword, models.RoleAdmin},
		{s.cfg.UserEmail, s.cfg.UserPassword, models.RoleUser},
	}

	for _, a := range accounts {
		if a.email == "" || a.password == "" {
			continue
		}
		if err := s.ensureUser(ctx, strings.ToLower(a.email), a.password, a.role); err != nil {
			return fmt.Errorf("bootstrap %s: %w", a.role, err)
		}
	}
	return nil
}

func (s *AuthService) ensureUser(ctx context.Context, email, password, role string) error {
	existing, err := s.repo.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	if existing != nil {
		if existing.Role == role && bcrypt.CompareHashAndPassword([]byte(existing.PasswordHash), []byte(password)) == nil {
			return nil
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
		if err != nil {
			return err
		}
		if err := s.repo.Users.UpdatePassword(ctx, existing.ID, string(hash)); err != nil {
			return err
		}
		if existing.Role != role {
			if err := s.repo.Users.UpdateRole(ctx, existing.ID, role); err != nil {
				return err
			}
		}
		s.log.Info("bootstrap account refreshed", zap.String("email", email), zap.String("role", role))
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return err
	}
	if err := s.repo.Users.Create(ctx, &models.User{Email: email, PasswordHash: string(hash), Role: role}); err != nil {
		return err
	}
	s.log.Info("bootstrap account created", zap.String("email", email), zap.String("role", role))
	return nil
}

// Login checks the credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repo.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := utils.GenerateAccessToken(utils.TokenParams{
		Subject:  strconv.FormatUint(uint64(user.ID), 10),
		Role:     user.Role,
		Secret:   s.cfg.JWTSecret,
		Issuer:   s.cfg.JWTIssuer,
		Audience: s.cfg.JWTAudience,
		TTL:      s.cfg.JWTTTL(),
	}, s.now())
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	s.log.Info("user logged in", zap.Uint("user_id", user.ID), zap.String("role", user.Role))
	return &LoginResult{AccessToken: token, TokenType: "Bearer", ExpiresAt: expiresAt, User: user}, nil
}

// Me resolves the user behind a token subject
func (s *AuthService) Me(ctx context.Context, subject string) (*models.User, error) {
	id, err := strconv.ParseUint(subject, 10, 64)
	if err != nil {
		return nil, ErrUserNotFound
	}
	user, err := s.repo.Users.GetByID(ctx, uint(id))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
