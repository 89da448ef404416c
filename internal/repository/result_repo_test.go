package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/benchlab/gaia-eval-api/internal/models"
)

func TestResultRepositoryUpsertCreatesThenUpdates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewResultRepository(db)

	first := models.EvaluationResult{
		UserID:       "user-1",
		TaskID:       "task-a",
		Status:       models.StatusIncorrectWithoutInstruction,
		Instructions: "retry with care",
		LatestAnswer: "5",
	}
	require.NoError(t, repo.Upsert(context.Background(), &first))

	second := models.EvaluationResult{
		UserID:       "user-1",
		TaskID:       "task-a",
		Status:       models.StatusCorrectWithInstruction,
		Instructions: "retry with care",
		LatestAnswer: "4",
	}
	require.NoError(t, repo.Upsert(context.Background(), &second))

	stored, err := repo.GetByUserAndTask(context.Background(), "user-1", "task-a")
	require.NoError(t, err)
	require.Equal(t, models.StatusCorrectWithInstruction, stored.Status)
	require.Equal(t, "4", stored.LatestAnswer)

	var count int64
	require.NoError(t, db.Model(&models.EvaluationResult{}).Count(&count).Error)
	require.Equal(t, int64(1), count, "upsert must not create a second row for the same (user, task)")
}

func TestResultRepositoryRowsAreScopedPerUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewResultRepository(db)

	require.NoError(t, repo.Upsert(context.Background(), &models.EvaluationResult{
		UserID: "user-1", TaskID: "task-a", Status: models.StatusCorrectWithoutInstruction,
	}))
	require.NoError(t, repo.Upsert(context.Background(), &models.EvaluationResult{
		UserID: "user-2", TaskID: "task-a", Status: models.StatusIncorrectWithoutInstruction,
	}))

	first, err := repo.GetByUserAndTask(context.Background(), "user-1", "task-a")
	require.NoError(t, err)
	require.Equal(t, models.StatusCorrectWithoutInstruction, first.Status)

	second, err := repo.GetByUserAndTask(context.Background(), "user-2", "task-a")
	require.NoError(t, err)
	require.Equal(t, models.StatusIncorrectWithoutInstruction, second.Status)
}

func TestResultRepositoryGetMissingRow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewResultRepository(db)

	_, err := repo.GetByUserAndTask(context.Background(), "user-1", "task-a")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestResultRepositoryListByUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewResultRepository(db)

	require.NoError(t, repo.Upsert(context.Background(), &models.EvaluationResult{
		UserID: "user-1", TaskID: "task-a", Status: models.StatusCorrectWithoutInstruction,
	}))
	require.NoError(t, repo.Upsert(context.Background(), &models.EvaluationResult{
		UserID: "user-1", TaskID: "task-b", Status: models.StatusError,
	}))
	require.NoError(t, repo.Upsert(context.Background(), &models.EvaluationResult{
		UserID: "user-2", TaskID: "task-a", Status: models.StatusNotAttempted,
	}))

	results, err := repo.ListByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, result := range results {
		require.Equal(t, "user-1", result.UserID)
	}
}
