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

// ErrCollegeNotFound indicates the requested college does not exist.
var ErrCollegeNotFound = errors.New("college not found")

// CollegeService exposes college administration use cases.
type CollegeService interface {
	Create(ctx context.Context, payload dto.CollegeCreateRequest) (dto.CollegeResponse, error)
	List(ctx context.Context) ([]dto.CollegeResponse, error)
	Delete(ctx context.Context, id string) error
}

type collegeService struct {
	repo      repository.CollegeRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewCollegeService builds a new college service.
func NewCollegeService(repo repository.CollegeRepository, validate *validator.Validate, logger zerolog.Logger) CollegeService {
	return &collegeService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "college_service").Logger(),
	}
}

func (s *collegeService) Create(ctx context.Context, payload dto.CollegeCreateRequest) (dto.CollegeResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CollegeResponse{}, err
	}

	college := models.College{
		ID:   uuid.NewString(),
		Name: payload.Name,
		Code: payload.Code,
	}

	if err := s.repo.Create(ctx, &college); err != nil {
		return dto.CollegeResponse{}, err
	}

	s.logger.Info().Str("college_id", college.ID).Str("code", college.Code).Msg("college created")

	return dto.NewCollegeResponse(college), nil
}

func (s *collegeService) List(ctx context.Context) ([]dto.CollegeResponse, error) {
	colleges, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewCollegeResponseSlice(colleges), nil
}

func (s *collegeService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCollegeNotFound
		}
		return err
	}

	s.logger.Info().Str("college_id", id).Msg("college deleted")
	return nil
}
