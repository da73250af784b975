package service

import (
	"context"
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-gateway/internal/auth"
	"github.com/spec-kit/auth-gateway/internal/config"
	"github.com/spec-kit/auth-gateway/internal/domain"
	"github.com/spec-kit/auth-gateway/internal/events"
	"github.com/spec-kit/auth-gateway/internal/ratelimit"
	"github.com/spec-kit/auth-gateway/internal/repository"
	apperrors "github.com/spec-kit/auth-gateway/pkg/util"
)

// AuthService coordinates the registration pipeline and token lifecycle.
type AuthService struct {
	users       repository.UserRepository
	revocations repository.RevocationRepository
	limiter     ratelimit.Limiter
	tokenMgr    *auth.TokenManager
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	bcryptCost  int
}

// AuthDependencies encapsulates collaborator requirements for the service.
type AuthDependencies struct {
	UserRepo       repository.UserRepository
	RevocationRepo repository.RevocationRepository
	Limiter        ratelimit.Limiter
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:       deps.UserRepo,
		revocations: deps.RevocationRepo,
		limiter:     deps.Limiter,
		tokenMgr:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL()),
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
		bcryptCost:  cfg.Auth.BcryptCost,
	}
}

// Register runs the registration pipeline for one attempt from the given
// origin. Stages gate each other; failure at any stage aborts with nothing
// persisted. The users table's unique email index remains the authoritative
// duplicate guard, the lookup here is the fast path.
func (s *AuthService) Register(ctx context.Context, origin string, input RegisterInput) (*domain.User, string, error) {
	input = input.Sanitized()

	allowed, err := s.limiter.Allow(ctx, origin)
	if err != nil {
		return nil, "", apperrors.NewInternalError(err)
	}
	if !allowed {
		return nil, "", apperrors.NewRateLimited("Too many registration attempts. Please try again later.")
	}

	if err := input.Validate(); err != nil {
		return nil, "", asValidationError(err)
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, "", apperrors.NewDuplicateEmail()
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", apperrors.NewInternalError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, "", apperrors.NewInternalError(err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PhoneNumber:  input.PhoneNumber,
		PasswordHash: hash,
		Role:         domain.Role(input.Role),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", apperrors.NewDuplicateEmail()
		}
		return nil, "", apperrors.NewInternalError(err)
	}

	token, _, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		// The record now exists without a returned token; flag it for
		// compensating action instead of rolling back silently.
		s.logger.Error("user persisted but token issuance failed",
			zap.String("user_id", user.ID), zap.Error(err))
		return nil, "", apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		Role:        user.Role,
	})

	return user, token, nil
}

// Login authenticates an existing user and issues a fresh token. Failures
// never disclose which of email or password was wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", apperrors.NewInvalidCredentials()
		}
		return nil, "", apperrors.NewInternalError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", apperrors.NewInvalidCredentials()
	}

	token, _, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.EventUserLoggedIn, user.ID, nil)
	return user, token, nil
}

// Logout invalidates the presented token by recording it in the revocation
// store. The record carries the token's natural expiry so it can be garbage
// collected once revocation no longer matters.
func (s *AuthService) Logout(ctx context.Context, subjectID, token string) error {
	expiresAt, err := s.tokenMgr.ExpiryOf(token)
	if err != nil {
		return apperrors.NewTokenInvalid("Invalid token.")
	}
	if err := s.revocations.Add(ctx, token, expiresAt, "logout"); err != nil {
		return apperrors.NewInternalError(err)
	}
	s.publish(ctx, events.EventTokenRevoked, subjectID, events.TokenRevokedPayload{
		Reason:    "logout",
		ExpiresAt: expiresAt,
	})
	return nil
}

// GetUser loads a single user by id.
func (s *AuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// ListUsers returns all registered users, for admin consumption.
func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return users, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, subjectID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

// asValidationError converts ozzo field errors into the shared error shape,
// keeping per-field human-readable messages in the details map.
func asValidationError(err error) error {
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		details := make(map[string]any, len(fieldErrs))
		for field, fieldErr := range fieldErrs {
			details[field] = fieldErr.Error()
		}
		return apperrors.NewValidationError("validation failed", details)
	}
	return apperrors.NewValidationError(err.Error(), nil)
}
