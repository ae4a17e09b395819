package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/ignitron2k25/ignitron-api/internal/dto"
	"github.com/ignitron2k25/ignitron-api/internal/models"
	"github.com/ignitron2k25/ignitron-api/internal/repository"
)

// ErrEventNotFound indicates the requested event does not exist.
var ErrEventNotFound = errors.New("event not found")

// Actor identifies the caller of a scoped operation.
type Actor struct {
	ID   string
	Role string
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// EventService exposes event administration and listing use cases.
type EventService interface {
	Create(ctx context.Context, payload dto.EventCreateRequest) (dto.EventResponse, error)
	ListForActor(ctx context.Context, actor Actor) ([]dto.EventResponse, error)
	ListAll(ctx context.Context) ([]dto.EventResponse, error)
	Delete(ctx context.Context, id string) error
}

type eventService struct {
	repo      repository.EventRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewEventService builds a new event service.
func NewEventService(repo repository.EventRepository, validate *validator.Validate, logger zerolog.Logger) EventService {
	return &eventService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "event_service").Logger(),
	}
}

func (s *eventService) Create(ctx context.Context, payload dto.EventCreateRequest) (dto.EventResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EventResponse{}, err
	}

	event := models.Event{
		ID:             uuid.NewString(),
		Title:          payload.Title,
		Code:           payload.Code,
		CoordinatorIDs: payload.CoordinatorIDs,
	}

	if err := s.repo.Create(ctx, &event); err != nil {
		return dto.EventResponse{}, err
	}

	s.logger.Info().Str("event_id", event.ID).Str("code", event.Code).Msg("event created")

	return dto.NewEventResponse(event), nil
}

// ListForActor returns every event for admins and only the events the actor
// coordinates otherwise. The coordinator set lives in a JSON column, so the
// filter runs in process; event counts at festival scale stay small.
func (s *eventService) ListForActor(ctx context.Context, actor Actor) ([]dto.EventResponse, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if actor.IsAdmin() {
		return dto.NewEventResponseSlice(events), nil
	}

	scoped := make([]models.Event, 0, len(events))
	for _, event := range events {
		if event.HasCoordinator(actor.ID) {
			scoped = append(scoped, event)
		}
	}

	return dto.NewEventResponseSlice(scoped), nil
}

func (s *eventService) ListAll(ctx context.Context) ([]dto.EventResponse, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewEventResponseSlice(events), nil
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return err
	}

	s.logger.Info().Str("event_id", id).Msg("event deleted")
	return nil
}
