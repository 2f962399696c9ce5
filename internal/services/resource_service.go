package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"resourcesvc/internal/models"
	"resourcesvc/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Resource lifecycle event types.
const (
	EventResourceCreated = "resource.created"
	EventResourceUpdated = "resource.updated"
	EventResourceDeleted = "resource.deleted"
)

// EventPublisher delivers serialized lifecycle events. *rabbitmq.Client
// satisfies it.
type EventPublisher interface {
	Publish(eventType string, body []byte) error
}

// ResourceEvent is the message body published for every lifecycle change.
type ResourceEvent struct {
	EventID    string           `json:"event_id"`
	Type       string           `json:"type"`
	ResourceID int64            `json:"resource_id"`
	Resource   *models.Resource `json:"resource,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// ResourceService handles business logic related to resources.
type ResourceService struct {
	repo      repositories.ResourceRepository
	publisher EventPublisher
	log       *zap.Logger
}

// NewResourceService creates a new ResourceService. publisher may be nil, in
// which case no events are emitted.
func NewResourceService(repo repositories.ResourceRepository, publisher EventPublisher, log *zap.Logger) *ResourceService {
	return &ResourceService{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// CreateResource stores a new resource and returns it as persisted.
func (s *ResourceService) CreateResource(ctx context.Context, in models.CreateResourceInput) (*models.Resource, error) {
	id, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	resource, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if resource == nil {
		return nil, fmt.Errorf("resource %d vanished after insert", id)
	}
	s.emit(EventResourceCreated, id, resource)
	return resource, nil
}

// ListResources retrieves the resources matching filter.
func (s *ResourceService) ListResources(ctx context.Context, filter models.ResourceFilter) ([]models.Resource, error) {
	return s.repo.FindAll(ctx, filter)
}

// GetResource retrieves a single resource; nil means it does not exist.
func (s *ResourceService) GetResource(ctx context.Context, id int64) (*models.Resource, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateResource applies a partial update and returns the refreshed
// resource. The resource is nil when nothing was updated.
func (s *ResourceService) UpdateResource(ctx context.Context, id int64, in models.UpdateResourceInput) (*models.Resource, error) {
	ok, err := s.repo.Update(ctx, id, in)
	if err != nil || !ok {
		return nil, err
	}
	resource, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if resource != nil {
		s.emit(EventResourceUpdated, id, resource)
	}
	return resource, nil
}

// DeleteResource removes a resource by its ID.
func (s *ResourceService) DeleteResource(ctx context.Context, id int64) (bool, error) {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if ok {
		s.emit(EventResourceDeleted, id, nil)
	}
	return ok, nil
}

// emit publishes a lifecycle event. Failures are logged and never reach the
// caller.
func (s *ResourceService) emit(eventType string, id int64, resource *models.Resource) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(ResourceEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		ResourceID: id,
		Resource:   resource,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		s.log.Warn("failed to marshal resource event", zap.String("type", eventType), zap.Error(err))
		return
	}
	if err := s.publisher.Publish(eventType, body); err != nil {
		s.log.Warn("failed to publish resource event",
			zap.String("type", eventType),
			zap.Int64("resource_id", id),
			zap.Error(err),
		)
	}
}
