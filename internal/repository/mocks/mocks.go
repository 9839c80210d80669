// Package mocks provides testify mocks of the repository interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/spec-kit/campus-booking/internal/domain"
	"github.com/spec-kit/campus-booking/internal/repository"
)

// UserRepository mocks repository.UserRepository.
type UserRepository struct {
	mock.Mock
}

var _ repository.UserRepository = (*UserRepository)(nil)

func (m *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepository) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *UserRepository) NameTaken(ctx context.Context, name, excludeID string) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepository) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepository) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	args := m.Called(ctx, filter)
	users, _ := args.Get(0).([]domain.User)
	return users, args.Error(1)
}

func (m *UserRepository) Activate(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *UserRepository) Deactivate(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *UserRepository) DeactivateAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// ResourceRepository mocks repository.ResourceRepository.
type ResourceRepository struct {
	mock.Mock
}

var _ repository.ResourceRepository = (*ResourceRepository)(nil)

func (m *ResourceRepository) Create(ctx context.Context, res *domain.Resource) error {
	return m.Called(ctx, res).Error(0)
}

func (m *ResourceRepository) Update(ctx context.Context, res *domain.Resource) error {
	return m.Called(ctx, res).Error(0)
}

func (m *ResourceRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *ResourceRepository) GetByID(ctx context.Context, id string) (*domain.Resource, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*domain.Resource)
	return res, args.Error(1)
}

func (m *ResourceRepository) List(ctx context.Context, filter repository.ResourceFilter) ([]domain.Resource, error) {
	args := m.Called(ctx, filter)
	list, _ := args.Get(0).([]domain.Resource)
	return list, args.Error(1)
}

// BookingRepository mocks repository.BookingRepository.
//
// CreateChecked expectations return (snapshot []domain.Booking, err error):
// a non-nil snapshot is handed to the conflict check before err is returned.
type BookingRepository struct {
	mock.Mock
}

var _ repository.BookingRepository = (*BookingRepository)(nil)

func (m *BookingRepository) CreateChecked(ctx context.Context, booking *domain.Booking, check repository.ConflictCheck) error {
	args := m.Called(ctx, booking)
	if snapshot, ok := args.Get(0).([]domain.Booking); ok {
		if err := check(snapshot); err != nil {
			return err
		}
	}
	return args.Error(1)
}

func (m *BookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *BookingRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	booking, _ := args.Get(0).(*domain.Booking)
	return booking, args.Error(1)
}

func (m *BookingRepository) List(ctx context.Context, filter repository.BookingFilter) ([]domain.Booking, error) {
	args := m.Called(ctx, filter)
	list, _ := args.Get(0).([]domain.Booking)
	return list, args.Error(1)
}

// StatsRepository mocks repository.StatsRepository.
type StatsRepository struct {
	mock.Mock
}

var _ repository.StatsRepository = (*StatsRepository)(nil)

func (m *StatsRepository) Collect(ctx context.Context) (*domain.Stats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*domain.Stats)
	return stats, args.Error(1)
}
