package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/campus-booking/internal/domain"
	"github.com/spec-kit/campus-booking/internal/events"
	"github.com/spec-kit/campus-booking/internal/repository/mocks"
	apperrors "github.com/spec-kit/campus-booking/pkg/util"
)

type mockStatsCache struct {
	mock.Mock
}

func (m *mockStatsCache) Get(ctx context.Context) (*domain.Stats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*domain.Stats)
	return stats, args.Error(1)
}

func (m *mockStatsCache) Set(ctx context.Context, stats *domain.Stats) error {
	return m.Called(ctx, stats).Error(0)
}

func (m *mockStatsCache) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func sampleStats() *domain.Stats {
	return &domain.Stats{
		TotalUsers:      3,
		TotalResources:  2,
		TotalBookings:   4,
		PendingBookings: 1,
		UserBreakdown:   domain.UserBreakdown{Students: 2, Admins: 1},
		ResourceBreakdown: domain.ResourceBreakdown{
			Labs:      1,
			Computers: 1,
		},
	}
}

func TestStatsServedFromCache(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.StatsRepository)
	cache := new(mockStatsCache)
	cache.On("Get", ctx).Return(sampleStats(), nil)

	got, err := NewStatsService(repo, cache, nil).Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.TotalBookings)
	repo.AssertNotCalled(t, "Collect", mock.Anything)
}

func TestStatsMissAggregatesAndStores(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.StatsRepository)
	cache := new(mockStatsCache)
	stats := sampleStats()
	cache.On("Get", ctx).Return(nil, nil)
	repo.On("Collect", ctx).Return(stats, nil)
	cache.On("Set", ctx, stats).Return(nil)

	got, err := NewStatsService(repo, cache, nil).Stats(ctx)
	require.NoError(t, err)
	assert.Same(t, stats, got)
	cache.AssertExpectations(t)
}

func TestStatsCacheOutageFallsBack(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.StatsRepository)
	cache := new(mockStatsCache)
	cache.On("Get", ctx).Return(nil, errors.New("dial tcp: connection refused"))
	repo.On("Collect", ctx).Return(sampleStats(), nil)
	cache.On("Set", ctx, mock.Anything).Return(errors.New("dial tcp: connection refused"))

	got, err := NewStatsService(repo, cache, nil).Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.TotalUsers)
}

func TestStatsAggregationFailure(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.StatsRepository)
	repo.On("Collect", ctx).Return(nil, errors.New("relation \"bookings\" does not exist"))

	_, err := NewStatsService(repo, nil, nil).Stats(ctx)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	assert.NotContains(t, de.Message, "bookings")
}

func TestNewRedisStatsCacheDisabled(t *testing.T) {
	assert.Nil(t, NewRedisStatsCache(nil, 30))
}

func TestAuditSubscriberInvalidatesOnWrites(t *testing.T) {
	ctx := context.Background()
	cache := new(mockStatsCache)
	cache.On("Invalidate", ctx).Return(nil).Twice()

	dispatcher := events.NewInMemoryDispatcher()
	stats := NewStatsService(new(mocks.StatsRepository), cache, nil)
	NewAuditSubscriber(dispatcher, stats, nil).RegisterHandlers()

	require.NoError(t, dispatcher.Publish(ctx, events.Event{Type: events.EventBookingCreated, EntityID: "b-1"}))
	require.NoError(t, dispatcher.Publish(ctx, events.Event{Type: events.EventResourceChanged, EntityID: "r-1"}))
	require.NoError(t, dispatcher.Publish(ctx, events.Event{Type: events.EventUserLoggedIn, EntityID: "u-1"}))
	cache.AssertExpectations(t)
}
