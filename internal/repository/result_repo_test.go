package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ignitron2k25/ignitron-api/internal/models"
)

func seedTestResult(t *testing.T, repo ResultRepository, eventID string, points int, createdAt time.Time) models.Result {
	t.Helper()
	result := models.Result{
		ID:                   uuid.NewString(),
		EventID:              eventID,
		CollegeID:            uuid.NewString(),
		Points:               points,
		AchievementStatement: "Winner",
		RecordedBy:           uuid.NewString(),
		CreatedAt:            createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), &result))
	return result
}

func TestResultRepositoryListOrdersNewestFirst(t *testing.T) {
	db := setupTestDB(t, &models.Result{})
	repo := NewResultRepository(db)

	eventID := uuid.NewString()
	now := time.Now().UTC()
	oldest := seedTestResult(t, repo, eventID, 10, now.Add(-2*time.Hour))
	newest := seedTestResult(t, repo, eventID, 30, now)
	middle := seedTestResult(t, repo, eventID, 20, now.Add(-time.Hour))

	results, err := repo.List(context.Background(), eventID)
	require.NoError(t, err)
	require.Len(t, results, 3)
	require.Equal(t, newest.ID, results[0].ID)
	require.Equal(t, middle.ID, results[1].ID)
	require.Equal(t, oldest.ID, results[2].ID)
}

func TestResultRepositoryListFiltersByEvent(t *testing.T) {
	db := setupTestDB(t, &models.Result{})
	repo := NewResultRepository(db)

	eventID := uuid.NewString()
	seedTestResult(t, repo, eventID, 10, time.Now().UTC())
	seedTestResult(t, repo, uuid.NewString(), 20, time.Now().UTC())

	scoped, err := repo.List(context.Background(), eventID)
	require.NoError(t, err)
	require.Len(t, scoped, 1)

	all, err := repo.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestResultRepositoryDeleteOnlyOnce(t *testing.T) {
	db := setupTestDB(t, &models.Result{})
	repo := NewResultRepository(db)

	result := seedTestResult(t, repo, uuid.NewString(), 10, time.Now().UTC())

	require.NoError(t, repo.Delete(context.Background(), result.ID))
	require.ErrorIs(t, repo.Delete(context.Background(), result.ID), gorm.ErrRecordNotFound)

	_, err := repo.GetByID(context.Background(), result.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
