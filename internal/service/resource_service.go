package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/campus-booking/internal/domain"
	"github.com/spec-kit/campus-booking/internal/events"
	"github.com/spec-kit/campus-booking/internal/repository"
)

// ResourceService manages bookable resources.
type ResourceService struct {
	resources  repository.ResourceRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// ResourceDependencies encapsulates collaborators of the resource service.
type ResourceDependencies struct {
	ResourceRepo repository.ResourceRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// UpdateResourceInput carries a partial update; nil fields are left unchanged.
type UpdateResourceInput struct {
	Name     *string
	Type     *domain.ResourceType
	Capacity *int
	Status   *domain.ResourceStatus
	Location *string
}

// NewResourceService constructs the service.
func NewResourceService(deps ResourceDependencies) *ResourceService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResourceService{
		resources:  deps.ResourceRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Create stores a resource, AVAILABLE unless stated otherwise.
func (s *ResourceService) Create(ctx context.Context, res *domain.Resource) (*domain.Resource, error) {
	if res.Status == "" {
		res.Status = domain.ResourceStatusAvailable
	}
	if err := s.resources.Create(ctx, res); err != nil {
		return nil, storeError("resource", "", err)
	}
	s.changed(ctx, res.ID, events.ChangeCreated)
	return res, nil
}

// Update applies the supplied fields.
func (s *ResourceService) Update(ctx context.Context, id string, input UpdateResourceInput) (*domain.Resource, error) {
	res, err := s.resources.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("resource", id, err)
	}
	if input.Name != nil {
		res.Name = *input.Name
	}
	if input.Type != nil {
		res.Type = *input.Type
	}
	if input.Capacity != nil {
		res.Capacity = *input.Capacity
	}
	if input.Status != nil {
		res.Status = *input.Status
	}
	if input.Location != nil {
		res.Location = input.Location
	}
	if err := s.resources.Update(ctx, res); err != nil {
		return nil, storeError("resource", id, err)
	}
	s.changed(ctx, id, events.ChangeUpdated)
	return res, nil
}

// Delete removes a resource together with its bookings.
func (s *ResourceService) Delete(ctx context.Context, id string) error {
	if err := s.resources.Delete(ctx, id); err != nil {
		return storeError("resource", id, err)
	}
	s.changed(ctx, id, events.ChangeDeleted)
	return nil
}

// Get fetches a resource by id.
func (s *ResourceService) Get(ctx context.Context, id string) (*domain.Resource, error) {
	res, err := s.resources.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("resource", id, err)
	}
	return res, nil
}

// List returns resources matching filter.
func (s *ResourceService) List(ctx context.Context, filter repository.ResourceFilter) ([]domain.Resource, error) {
	list, err := s.resources.List(ctx, filter)
	if err != nil {
		return nil, storeError("resource", "", err)
	}
	return list, nil
}

// Available lists AVAILABLE resources.
func (s *ResourceService) Available(ctx context.Context, opts repository.ListOptions) ([]domain.Resource, error) {
	status := domain.ResourceStatusAvailable
	return s.List(ctx, repository.ResourceFilter{Status: &status, ListOptions: opts})
}

func (s *ResourceService) changed(ctx context.Context, id string, action events.ChangeAction) {
	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:     events.EventResourceChanged,
		EntityID: id,
		Payload:  events.EntityChangedPayload{Action: action},
	})
}
