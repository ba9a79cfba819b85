// Package identities implements the registration and authentication flows
// over the relational store.
package identities

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/brieflyai/backend/internal/security"
	"github.com/brieflyai/backend/pkg/errors"
	"github.com/brieflyai/backend/pkg/logger"
	"github.com/brieflyai/backend/pkg/metrics"
	"github.com/brieflyai/backend/pkg/models"
)

// IdentityService defines the account operations exposed to the HTTP layer.
type IdentityService interface {
	Register(ctx context.Context, req *models.RegisterRequest) error
	Login(ctx context.Context, req *models.LoginRequest, clientIP string) (*models.TokenResponse, error)
	GetAccount(ctx context.Context, email string) (*models.Account, error)
	DecodeToken(token string) (subject string, ok bool)
}

// Service implements IdentityService
type Service struct {
	logger  *zap.Logger
	repo    *Repository
	tokens  *security.TokenIssuer
	limiter *LoginRateLimiter

	// placeholderHash is compared against when no account matches the
	// login email, so unknown-email and wrong-password attempts cost the
	// same bcrypt work and stay indistinguishable by response timing.
	placeholderHash string
}

// NewService creates a new IdentityService. The limiter may be nil, which
// disables login rate limiting.
func NewService(log *zap.Logger, db *gorm.DB, tokens *security.TokenIssuer, limiter *LoginRateLimiter) (*Service, error) {
	placeholder, err := security.HashPassword("brieflyai-placeholder-credential")
	if err != nil {
		return nil, errors.ErrHashing.WithCause(err)
	}

	return &Service{
		logger:          log,
		repo:            NewRepository(db),
		tokens:          tokens,
		limiter:         limiter,
		placeholderHash: placeholder,
	}, nil
}

// NormalizeEmail lowercases and trims an email address. Both flows apply
// it before any lookup so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// cleanInterests trims and de-duplicates the requested topic labels,
// preserving first-seen order and casing. Duplicates are compared
// case-insensitively, so "AI", "ai" and " AI " collapse to one label.
func cleanInterests(raw []string) ([]string, error) {
	cleaned := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, item := range raw {
		s := strings.TrimSpace(item)
		if s == "" {
			return nil, errors.Validation("Interest values must not be empty strings.",
				errors.NewFieldError("interests", "must not contain blank entries"))
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		cleaned = append(cleaned, s)
	}
	return cleaned, nil
}

// Register creates a new account with its declared interests.
//
// The flow is a single pass: duplicate-email check, topic resolution
// (get-or-create), password hashing, then one transactional commit. The
// database uniqueness constraint on email is the source of truth for
// concurrent duplicate registrations; a violation on commit is reported
// as a duplicate, not as an internal fault.
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) error {
	email := NormalizeEmail(req.Email)

	fullName := strings.TrimSpace(req.FullName)
	if len(fullName) < 2 {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return errors.Validation("Full name must not be blank.",
			errors.NewFieldError("full_name", "must be at least 2 characters"))
	}

	interests, err := cleanInterests(req.Interests)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return err
	}

	existing, err := s.repo.FindAccountByEmail(ctx, email)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return err
	}
	if existing != nil {
		s.logger.Warn("Registration attempt with existing email",
			zap.String("email", logger.MaskEmail(email)))
		metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		return errors.ErrDuplicateEmail
	}

	topics := make([]models.Topic, 0, len(interests))
	for _, name := range interests {
		topic, err := s.repo.GetOrCreateTopic(ctx, name)
		if err != nil {
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
			return err
		}
		topics = append(topics, *topic)
	}

	passwordHash, err := security.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("Password hashing failed", zap.Error(err))
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return errors.ErrHashing.WithCause(err)
	}

	account := &models.Account{
		FullName:     fullName,
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
		Topics:       topics,
	}

	if err := s.repo.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, errors.ErrDuplicateEmail) {
			s.logger.Warn("Race condition: email already registered",
				zap.String("email", logger.MaskEmail(email)))
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
		} else {
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	s.logger.Info("Account registered",
		zap.Uint64("account_id", account.ID),
		zap.String("email", logger.MaskEmail(email)),
		zap.Int("topics", len(topics)))
	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	return nil
}

// Login authenticates an account and issues a bearer token keyed on its
// email. The same INVALID_CREDENTIALS error is returned whether the email
// is unknown or the password is wrong, and password verification runs in
// both cases so the two are indistinguishable by timing.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest, clientIP string) (*models.TokenResponse, error) {
	if s.limiter != nil && clientIP != "" {
		allowed, err := s.limiter.Allow(ctx, clientIP)
		if err != nil {
			// Limiter outages must not take logins down with them
			s.logger.Warn("Login rate limiter unavailable", zap.Error(err))
		} else if !allowed {
			s.logger.Warn("Login rate limit exceeded", zap.String("client_ip", clientIP))
			return nil, errors.ErrRateLimited
		}
	}

	email := NormalizeEmail(req.Email)

	account, err := s.repo.FindAccountByEmail(ctx, email)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	storedHash := s.placeholderHash
	if account != nil {
		storedHash = account.PasswordHash
	}
	passwordValid := security.VerifyPassword(req.Password, storedHash)

	if account == nil || !passwordValid {
		s.logger.Warn("Failed login attempt",
			zap.String("email", logger.MaskEmail(email)))
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, errors.ErrInvalidCredentials
	}

	if !account.IsActive {
		s.logger.Warn("Login attempt with disabled account",
			zap.String("email", logger.MaskEmail(email)))
		metrics.LoginsTotal.WithLabelValues("disabled").Inc()
		return nil, errors.ErrAccountDisabled
	}

	token, err := s.tokens.Issue(account.Email)
	if err != nil {
		s.logger.Error("Token generation failed", zap.Error(err))
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, errors.ErrToken.WithCause(err)
	}

	s.logger.Info("Successful login", zap.String("email", logger.MaskEmail(email)))
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return &models.TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// GetAccount loads the account behind a verified token subject, topics
// included. An account that disappeared since token issuance reports as
// unauthorized.
func (s *Service) GetAccount(ctx context.Context, email string) (*models.Account, error) {
	account, err := s.repo.GetAccountByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, errors.ErrUnauthorized
	}
	return account, nil
}

// DecodeToken verifies a bearer token and returns its subject.
func (s *Service) DecodeToken(token string) (string, bool) {
	return s.tokens.Decode(token)
}
