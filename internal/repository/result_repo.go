package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ignitron2k25/ignitron-api/internal/models"
)

// ResultRepository defines persistence operations for the scoring ledger.
// Rows are immutable: there is no update operation.
type ResultRepository interface {
	Create(ctx context.Context, result *models.Result) error
	GetByID(ctx context.Context, id string) (models.Result, error)
	List(ctx context.Context, eventID string) ([]models.Result, error)
	Delete(ctx context.Context, id string) error
}

type resultRepository struct {
	db *gorm.DB
}

// NewResultRepository instantiates a GORM-backed repository.
func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) Create(ctx context.Context, result *models.Result) error {
	return r.db.WithContext(ctx).Create(result).Error
}

func (r *resultRepository) GetByID(ctx context.Context, id string) (models.Result, error) {
	var result models.Result
	if err := r.db.WithContext(ctx).First(&result, "id = ?", id).Error; err != nil {
		return models.Result{}, err
	}

	return result, nil
}

// List returns ledger entries newest first, optionally filtered to one event.
func (r *resultRepository) List(ctx context.Context, eventID string) ([]models.Result, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if eventID != "" {
		query = query.Where("event_id = ?", eventID)
	}

	var results []models.Result
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

// Delete removes a ledger entry. Zero affected rows surfaces as
// gorm.ErrRecordNotFound, which makes the row delete the serialization point
// for concurrent removals: only the caller that actually deleted the row
// reverses its points.
func (r *resultRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Result{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
