package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/benchlab/gaia-eval-api/internal/models"
)

// ResultRepository persists per-user grading outcomes.
type ResultRepository interface {
	GetByUserAndTask(ctx context.Context, userID, taskID string) (models.EvaluationResult, error)
	ListByUser(ctx context.Context, userID string) ([]models.EvaluationResult, error)
	Upsert(ctx context.Context, result *models.EvaluationResult) error
}

type resultRepository struct {
	db *gorm.DB
}

// NewResultRepository instantiates the repository.
func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) GetByUserAndTask(ctx context.Context, userID, taskID string) (models.EvaluationResult, error) {
	var result models.EvaluationResult
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("task_id = ?", taskID).
		First(&result).Error; err != nil {
		return models.EvaluationResult{}, err
	}

	return result, nil
}

func (r *resultRepository) ListByUser(ctx context.Context, userID string) ([]models.EvaluationResult, error) {
	var results []models.EvaluationResult
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

// Upsert writes the result in one statement keyed by (user_id, task_id).
// The single-statement form closes the read-then-write staleness window
// between concurrent graders of the same row.
func (r *resultRepository) Upsert(ctx context.Context, result *models.EvaluationResult) error {
	result.UpdatedAt = time.Now().UTC()

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "task_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "instructions", "latest_answer", "updated_at"}),
	}).Create(result).Error
}
