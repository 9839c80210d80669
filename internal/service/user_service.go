package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/campus-booking/internal/auth"
	"github.com/spec-kit/campus-booking/internal/config"
	"github.com/spec-kit/campus-booking/internal/domain"
	"github.com/spec-kit/campus-booking/internal/events"
	"github.com/spec-kit/campus-booking/internal/repository"
)

// UserService manages campus accounts.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
}

// UserDependencies encapsulates collaborators of the user service.
type UserDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// CreateUserInput carries the fields of a new account.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     domain.UserRole
	Status   *domain.UserStatus
}

// UpdateUserInput carries a partial update; nil fields are left unchanged.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Phone    *string
	Role     *domain.UserRole
	Status   *domain.UserStatus
}

// NewUserService constructs the service.
func NewUserService(cfg config.Config, deps UserDependencies) *UserService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Create validates and stores a new user. Accounts start INACTIVE unless a
// status is supplied.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	errs := fieldErrors{}
	if err := auth.CheckPasswordStrength(input.Password); err != nil {
		errs.add("password", err.Error())
	}
	if err := s.checkUnique(ctx, errs, &input.Name, &input.Email, ""); err != nil {
		return nil, err
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, storeError("user", "", err)
	}

	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Phone:        input.Phone,
		Role:         input.Role,
		Status:       domain.UserStatusInactive,
	}
	if input.Status != nil {
		user.Status = *input.Status
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, storeError("user", "", err)
	}

	s.changed(ctx, user.ID, events.ChangeCreated)
	return user, nil
}

// Update applies the supplied fields. The password is re-validated and
// re-hashed only when present.
func (s *UserService) Update(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("user", id, err)
	}

	errs := fieldErrors{}
	if input.Password != nil {
		if err := auth.CheckPasswordStrength(*input.Password); err != nil {
			errs.add("password", err.Error())
		}
	}
	if err := s.checkUnique(ctx, errs, input.Name, input.Email, id); err != nil {
		return nil, err
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.Status != nil {
		user.Status = *input.Status
	}
	if input.Password != nil {
		hash, err := auth.HashPassword(*input.Password, s.bcryptCost)
		if err != nil {
			return nil, storeError("user", id, err)
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, storeError("user", id, err)
	}
	s.changed(ctx, id, events.ChangeUpdated)
	return user, nil
}

// checkUnique records case-insensitive name and email clashes with users
// other than excludeID. Nil values are skipped.
func (s *UserService) checkUnique(ctx context.Context, errs fieldErrors, name, email *string, excludeID string) error {
	if name != nil {
		taken, err := s.users.NameTaken(ctx, *name, excludeID)
		if err != nil {
			return storeError("user", excludeID, err)
		}
		if taken {
			errs.add("name", NameTakenMessage)
		}
	}
	if email != nil {
		taken, err := s.users.EmailTaken(ctx, *email, excludeID)
		if err != nil {
			return storeError("user", excludeID, err)
		}
		if taken {
			errs.add("email", EmailTakenMessage)
		}
	}
	return nil
}

// Delete removes a user together with their bookings.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return storeError("user", id, err)
	}
	s.changed(ctx, id, events.ChangeDeleted)
	return nil
}

// Get fetches a user by id.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("user", id, err)
	}
	return user, nil
}

// List returns users matching filter.
func (s *UserService) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, storeError("user", "", err)
	}
	return users, nil
}

// ByStatus lists users with the given status.
func (s *UserService) ByStatus(ctx context.Context, status domain.UserStatus, opts repository.ListOptions) ([]domain.User, error) {
	return s.List(ctx, repository.UserFilter{Status: &status, ListOptions: opts})
}

func (s *UserService) changed(ctx context.Context, id string, action events.ChangeAction) {
	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:     events.EventUserChanged,
		EntityID: id,
		Payload:  events.EntityChangedPayload{Action: action},
	})
}
