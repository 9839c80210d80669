package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/campus-booking/internal/auth"
	"github.com/spec-kit/campus-booking/internal/config"
	"github.com/spec-kit/campus-booking/internal/domain"
	"github.com/spec-kit/campus-booking/internal/events"
	"github.com/spec-kit/campus-booking/internal/observability"
	"github.com/spec-kit/campus-booking/internal/repository"
	apperrors "github.com/spec-kit/campus-booking/pkg/util"
)

const (
	InvalidCredentialsMessage = "Invalid email or password"
	InactiveAccountMessage    = "Account is inactive"
)

// Login outcomes reported to metrics.
const (
	loginSuccess            = "success"
	loginInvalidCredentials = "invalid_credentials"
	loginInactive           = "inactive"
)

// AuthService drives the single-active-user session state machine.
type AuthService struct {
	users          repository.UserRepository
	dispatcher     events.Dispatcher
	metrics        *observability.Metrics
	logger         *zap.Logger
	rejectInactive bool
}

// AuthDependencies encapsulates collaborators of the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:          deps.UserRepo,
		dispatcher:     deps.Dispatcher,
		metrics:        deps.Metrics,
		logger:         logger,
		rejectInactive: cfg.Auth.RejectInactiveLogin,
	}
}

// Login verifies credentials and makes the user the only ACTIVE account.
// The email must match exactly.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.metrics.RecordLogin(loginInvalidCredentials)
			return nil, apperrors.NewUnauthorized(InvalidCredentialsMessage)
		}
		return nil, apperrors.NewInternalError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.metrics.RecordLogin(loginInvalidCredentials)
		return nil, apperrors.NewUnauthorized(InvalidCredentialsMessage)
	}
	if s.rejectInactive && user.Status != domain.UserStatusActive {
		s.metrics.RecordLogin(loginInactive)
		return nil, apperrors.NewForbidden(InactiveAccountMessage)
	}

	if err := s.users.Activate(ctx, user.ID); err != nil {
		return nil, storeError("user", user.ID, err)
	}
	user.Status = domain.UserStatusActive

	s.metrics.RecordLogin(loginSuccess)
	s.logger.Info("user logged in", zap.String("user_id", user.ID))
	publish(ctx, s.dispatcher, s.logger, events.Event{Type: events.EventUserLoggedIn, EntityID: user.ID})
	return user, nil
}

// Logout marks the user INACTIVE whatever its current status.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.users.Deactivate(ctx, userID); err != nil {
		return storeError("user", userID, err)
	}
	s.logger.Info("user logged out", zap.String("user_id", userID))
	publish(ctx, s.dispatcher, s.logger, events.Event{Type: events.EventUserLoggedOut, EntityID: userID})
	return nil
}

// ResetSessions deactivates every user and returns how many changed.
func (s *AuthService) ResetSessions(ctx context.Context) (int64, error) {
	n, err := s.users.DeactivateAll(ctx)
	if err != nil {
		return 0, storeError("user", "", err)
	}
	s.logger.Info("all sessions reset", zap.Int64("users", n))
	return n, nil
}
