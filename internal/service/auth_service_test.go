package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/campus-booking/internal/auth"
	"github.com/spec-kit/campus-booking/internal/config"
	"github.com/spec-kit/campus-booking/internal/domain"
	"github.com/spec-kit/campus-booking/internal/events"
	"github.com/spec-kit/campus-booking/internal/repository"
	"github.com/spec-kit/campus-booking/internal/repository/mocks"
	apperrors "github.com/spec-kit/campus-booking/pkg/util"
)

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	return hash
}

type AuthServiceSuite struct {
	suite.Suite
	users     *mocks.UserRepository
	published []events.Event
	svc       *AuthService
}

func (s *AuthServiceSuite) SetupTest() {
	s.users = new(mocks.UserRepository)
	s.published = nil
	s.svc = s.newService(config.Config{})
}

func (s *AuthServiceSuite) newService(cfg config.Config) *AuthService {
	dispatcher := events.NewInMemoryDispatcher()
	for _, eventType := range events.AllEventTypes {
		dispatcher.Subscribe(eventType, func(_ context.Context, e events.Event) error {
			s.published = append(s.published, e)
			return nil
		})
	}
	return NewAuthService(cfg, AuthDependencies{UserRepo: s.users, Dispatcher: dispatcher})
}

func (s *AuthServiceSuite) TearDownTest() {
	s.users.AssertExpectations(s.T())
}

func (s *AuthServiceSuite) TestLoginActivatesUser() {
	ctx := context.Background()
	user := &domain.User{
		ID:           "u-1",
		Email:        "admin@campus.edu",
		PasswordHash: mustHash(s.T(), "Admin@123"),
		Status:       domain.UserStatusInactive,
	}
	s.users.On("GetByEmail", ctx, "admin@campus.edu").Return(user, nil)
	s.users.On("Activate", ctx, "u-1").Return(nil)

	got, err := s.svc.Login(ctx, "admin@campus.edu", "Admin@123")
	s.Require().NoError(err)
	s.Equal(domain.UserStatusActive, got.Status)
	s.Require().Len(s.published, 1)
	s.Equal(events.EventUserLoggedIn, s.published[0].Type)
	s.Equal("u-1", s.published[0].EntityID)
}

func (s *AuthServiceSuite) TestLoginUnknownEmail() {
	ctx := context.Background()
	s.users.On("GetByEmail", ctx, "ghost@campus.edu").Return(nil, repository.ErrNotFound)

	_, err := s.svc.Login(ctx, "ghost@campus.edu", "whatever")
	s.True(apperrors.IsStatus(err, http.StatusUnauthorized))
	s.Equal(InvalidCredentialsMessage, apperrors.ToDomainError(err).Message)
	s.users.AssertNotCalled(s.T(), "Activate", mock.Anything, mock.Anything)
}

func (s *AuthServiceSuite) TestLoginWrongPassword() {
	ctx := context.Background()
	user := &domain.User{ID: "u-1", PasswordHash: mustHash(s.T(), "Admin@123")}
	s.users.On("GetByEmail", ctx, "admin@campus.edu").Return(user, nil)

	_, err := s.svc.Login(ctx, "admin@campus.edu", "admin@123")
	s.True(apperrors.IsStatus(err, http.StatusUnauthorized))
	s.Empty(s.published)
}

func (s *AuthServiceSuite) TestLoginRejectsInactiveWhenConfigured() {
	ctx := context.Background()
	cfg := config.Config{Auth: config.AuthConfig{RejectInactiveLogin: true}}
	svc := s.newService(cfg)
	user := &domain.User{
		ID:           "u-1",
		PasswordHash: mustHash(s.T(), "Admin@123"),
		Status:       domain.UserStatusInactive,
	}
	s.users.On("GetByEmail", ctx, "admin@campus.edu").Return(user, nil)

	_, err := svc.Login(ctx, "admin@campus.edu", "Admin@123")
	s.True(apperrors.IsStatus(err, http.StatusForbidden))
}

func (s *AuthServiceSuite) TestLogoutDeactivates() {
	ctx := context.Background()
	s.users.On("Deactivate", ctx, "u-2").Return(nil)

	s.Require().NoError(s.svc.Logout(ctx, "u-2"))
	s.Require().Len(s.published, 1)
	s.Equal(events.EventUserLoggedOut, s.published[0].Type)
}

func (s *AuthServiceSuite) TestLogoutUnknownUser() {
	ctx := context.Background()
	s.users.On("Deactivate", ctx, "missing").Return(repository.ErrNotFound)

	err := s.svc.Logout(ctx, "missing")
	s.True(apperrors.IsStatus(err, http.StatusNotFound))
}

func (s *AuthServiceSuite) TestResetSessions() {
	ctx := context.Background()
	s.users.On("DeactivateAll", ctx).Return(int64(3), nil)

	n, err := s.svc.ResetSessions(ctx)
	s.Require().NoError(err)
	s.Equal(int64(3), n)
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

// memoryUsers keeps users in a map; only the session transitions are
// implemented.
type memoryUsers struct {
	repository.UserRepository
	byID map[string]*domain.User
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryUsers) Activate(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	for _, u := range m.byID {
		u.Status = domain.UserStatusInactive
	}
	m.byID[id].Status = domain.UserStatusActive
	return nil
}

func (m *memoryUsers) Deactivate(_ context.Context, id string) error {
	u, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Status = domain.UserStatusInactive
	return nil
}

func (m *memoryUsers) active() []string {
	var ids []string
	for id, u := range m.byID {
		if u.Status == domain.UserStatusActive {
			ids = append(ids, id)
		}
	}
	return ids
}

func TestLoginLeavesSingleActiveUser(t *testing.T) {
	ctx := context.Background()
	hash := mustHash(t, "Admin@123")
	repo := &memoryUsers{byID: map[string]*domain.User{
		"admin": {ID: "admin", Email: "admin@campus.edu", PasswordHash: hash, Status: domain.UserStatusInactive},
		"b":     {ID: "b", Email: "b@campus.edu", PasswordHash: hash, Status: domain.UserStatusActive},
		"c":     {ID: "c", Email: "c@campus.edu", PasswordHash: hash, Status: domain.UserStatusInactive},
	}}
	svc := NewAuthService(config.Config{}, AuthDependencies{UserRepo: repo})

	_, err := svc.Login(ctx, "admin@campus.edu", "Admin@123")
	require.NoError(t, err)
	assert.Equal(t, []string{"admin"}, repo.active())
	assert.Equal(t, domain.UserStatusInactive, repo.byID["b"].Status)

	_, err = svc.Login(ctx, "c@campus.edu", "Admin@123")
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, repo.active())

	// logging out a user that is already inactive is not an error
	require.NoError(t, svc.Logout(ctx, "admin"))
	require.NoError(t, svc.Logout(ctx, "c"))
	assert.Empty(t, repo.active())
}
