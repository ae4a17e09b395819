package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/ignitron2k25/ignitron-api/internal/dto"
	"github.com/ignitron2k25/ignitron-api/internal/models"
	"github.com/ignitron2k25/ignitron-api/internal/observability"
	"github.com/ignitron2k25/ignitron-api/internal/repository"
)

var (
	// ErrResultNotFound indicates the requested ledger entry does not exist.
	ErrResultNotFound = errors.New("result not found")
	// ErrNotEventCoordinator indicates the actor lacks ownership of the event.
	ErrNotEventCoordinator = errors.New("not authorized for this event")
	// ErrEmptyAchievement indicates the achievement text was empty after sanitization.
	ErrEmptyAchievement = errors.New("achievement statement must not be empty")
)

// ChangeNotifier receives a signal after every successful ledger mutation.
type ChangeNotifier interface {
	NotifyChange(ctx context.Context)
}

// ResultService is the scoring ledger: it owns result creation and deletion
// and keeps each college's running total in sync through atomic adjustments.
type ResultService interface {
	Record(ctx context.Context, actor Actor, payload dto.ResultCreateRequest) (dto.ResultResponse, error)
	Remove(ctx context.Context, actor Actor, resultID string) error
	List(ctx context.Context, eventID string) ([]dto.ResultResponse, error)
}

type resultService struct {
	results   repository.ResultRepository
	events    repository.EventRepository
	colleges  repository.CollegeRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	notifier  ChangeNotifier
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewResultService builds the ledger service.
func NewResultService(results repository.ResultRepository, events repository.EventRepository, colleges repository.CollegeRepository, validate *validator.Validate, notifier ChangeNotifier, logger zerolog.Logger) ResultService {
	return &resultService{
		results:   results,
		events:    events,
		colleges:  colleges,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		notifier:  notifier,
		logger:    logger.With().Str("component", "result_service").Logger(),
		tracer:    otel.Tracer("github.com/ignitron2k25/ignitron-api/internal/service/result"),
		now:       time.Now,
	}
}

func (s *resultService) Record(ctx context.Context, actor Actor, payload dto.ResultCreateRequest) (dto.ResultResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ResultResponse{}, err
	}

	achievement := strings.TrimSpace(s.sanitizer.Sanitize(payload.AchievementStatement))
	if achievement == "" {
		return dto.ResultResponse{}, ErrEmptyAchievement
	}

	event, err := s.events.GetByID(ctx, payload.EventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ResultResponse{}, ErrEventNotFound
		}
		return dto.ResultResponse{}, err
	}

	if !actor.IsAdmin() && !event.HasCoordinator(actor.ID) {
		return dto.ResultResponse{}, ErrNotEventCoordinator
	}

	if _, err := s.colleges.GetByID(ctx, payload.CollegeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ResultResponse{}, ErrCollegeNotFound
		}
		return dto.ResultResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "ledger.record", trace.WithAttributes(
		attribute.String("event_id", payload.EventID),
		attribute.String("college_id", payload.CollegeID),
		attribute.Int("points", payload.Points),
	))
	defer span.End()

	result := models.Result{
		ID:                   uuid.NewString(),
		EventID:              payload.EventID,
		CollegeID:            payload.CollegeID,
		Points:               payload.Points,
		AchievementStatement: achievement,
		RecordedBy:           actor.ID,
		CreatedAt:            s.now().UTC(),
	}

	if err := s.results.Create(spanCtx, &result); err != nil {
		span.RecordError(err)
		return dto.ResultResponse{}, err
	}

	if err := s.adjustCollegePoints(spanCtx, result.CollegeID, result.Points); err != nil {
		span.RecordError(err)
		return dto.ResultResponse{}, err
	}
	observability.ResultsRecorded().WithLabelValues("record").Inc()

	s.logger.Info().
		Str("result_id", result.ID).
		Str("event_id", result.EventID).
		Str("college_id", result.CollegeID).
		Int("points", result.Points).
		Str("recorded_by", actor.ID).
		Msg("result recorded")

	s.notifier.NotifyChange(spanCtx)

	return dto.NewResultResponse(result), nil
}

func (s *resultService) Remove(ctx context.Context, actor Actor, resultID string) error {
	result, err := s.results.GetByID(ctx, resultID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResultNotFound
		}
		return err
	}

	if !actor.IsAdmin() {
		event, err := s.events.GetByID(ctx, result.EventID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Ownership cannot be proven once the event is gone.
				return ErrNotEventCoordinator
			}
			return err
		}
		if !event.HasCoordinator(actor.ID) {
			return ErrNotEventCoordinator
		}
	}

	spanCtx, span := s.tracer.Start(ctx, "ledger.remove", trace.WithAttributes(
		attribute.String("result_id", resultID),
		attribute.String("college_id", result.CollegeID),
		attribute.Int("points", result.Points),
	))
	defer span.End()

	if err := s.results.Delete(spanCtx, resultID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// A concurrent remove already reversed this entry.
			return ErrResultNotFound
		}
		span.RecordError(err)
		return err
	}

	// Reverse the stored points value of this exact entry, never a recomputed
	// sum, so interleaved records keep the aggregate invariant intact.
	if err := s.adjustCollegePoints(spanCtx, result.CollegeID, -result.Points); err != nil {
		span.RecordError(err)
		return err
	}
	observability.ResultsRecorded().WithLabelValues("remove").Inc()

	s.logger.Info().
		Str("result_id", resultID).
		Str("college_id", result.CollegeID).
		Int("points", result.Points).
		Str("removed_by", actor.ID).
		Msg("result removed")

	s.notifier.NotifyChange(spanCtx)

	return nil
}

func (s *resultService) List(ctx context.Context, eventID string) ([]dto.ResultResponse, error) {
	results, err := s.results.List(ctx, eventID)
	if err != nil {
		return nil, err
	}

	return dto.NewResultResponseSlice(results), nil
}

// adjustCollegePoints applies the delta through the store's atomic increment.
// A missing college means it was deleted between validation and adjustment;
// the ledger mutation is not rolled back, the skipped adjustment is logged
// and the operation continues.
func (s *resultService) adjustCollegePoints(ctx context.Context, collegeID string, delta int) error {
	if err := s.colleges.IncrementPoints(ctx, collegeID, delta); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn().
				Str("college_id", collegeID).
				Int("delta", delta).
				Msg("college removed concurrently, point adjustment skipped")
			return nil
		}
		return err
	}
	return nil
}
