package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ignitron2k25/ignitron-api/internal/models"
)

// CollegeRepository defines persistence operations for colleges, including
// the atomic point adjustment the leaderboard aggregate depends on.
type CollegeRepository interface {
	Create(ctx context.Context, college *models.College) error
	GetByID(ctx context.Context, id string) (models.College, error)
	List(ctx context.Context) ([]models.College, error)
	ListRanked(ctx context.Context) ([]models.College, error)
	Delete(ctx context.Context, id string) error
	IncrementPoints(ctx context.Context, id string, delta int) error
}

type collegeRepository struct {
	db *gorm.DB
}

// NewCollegeRepository instantiates a GORM-backed repository.
func NewCollegeRepository(db *gorm.DB) CollegeRepository {
	return &collegeRepository{db: db}
}

func (r *collegeRepository) Create(ctx context.Context, college *models.College) error {
	return r.db.WithContext(ctx).Create(college).Error
}

func (r *collegeRepository) GetByID(ctx context.Context, id string) (models.College, error) {
	var college models.College
	if err := r.db.WithContext(ctx).First(&college, "id = ?", id).Error; err != nil {
		return models.College{}, err
	}

	return college, nil
}

func (r *collegeRepository) List(ctx context.Context) ([]models.College, error) {
	var colleges []models.College
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&colleges).Error; err != nil {
		return nil, err
	}

	return colleges, nil
}

// ListRanked returns colleges in leaderboard order: total points descending,
// code ascending as the deterministic tie-break.
func (r *collegeRepository) ListRanked(ctx context.Context) ([]models.College, error) {
	var colleges []models.College
	if err := r.db.WithContext(ctx).Order("total_points DESC, code ASC").Find(&colleges).Error; err != nil {
		return nil, err
	}

	return colleges, nil
}

func (r *collegeRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.College{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementPoints adds delta to the college's total in a single UPDATE so
// concurrent adjustments to the same college serialize at the store and no
// update is lost. Returns gorm.ErrRecordNotFound when the college no longer
// exists; callers decide whether that is fatal.
func (r *collegeRepository) IncrementPoints(ctx context.Context, id string, delta int) error {
	result := r.db.WithContext(ctx).
		Model(&models.College{}).
		Where("id = ?", id).
		UpdateColumn("total_points", gorm.Expr("total_points + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
