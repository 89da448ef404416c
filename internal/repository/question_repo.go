package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/benchlab/gaia-eval-api/internal/models"
)

// QuestionFilter narrows benchmark question queries.
type QuestionFilter struct {
	Level    *int
	Page     int
	PageSize int
}

// QuestionRepository defines read and ingest operations over the benchmark set.
type QuestionRepository interface {
	List(ctx context.Context, filter QuestionFilter) ([]models.Question, int64, error)
	GetByTaskID(ctx context.Context, taskID string) (models.Question, error)
	Levels(ctx context.Context) (map[string]int, error)
	UpsertBatch(ctx context.Context, questions []models.Question) (int64, error)
}

type questionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository instantiates the repository.
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) List(ctx context.Context, filter QuestionFilter) ([]models.Question, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Question{})

	if filter.Level != nil {
		query = query.Where("level = ?", *filter.Level)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	var questions []models.Question
	if err := query.
		Order("task_id ASC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&questions).Error; err != nil {
		return nil, 0, err
	}

	return questions, total, nil
}

func (r *questionRepository) GetByTaskID(ctx context.Context, taskID string) (models.Question, error) {
	var question models.Question
	if err := r.db.WithContext(ctx).First(&question, "task_id = ?", taskID).Error; err != nil {
		return models.Question{}, err
	}

	return question, nil
}

// Levels maps every task id to its difficulty level. The benchmark set is
// small enough to hold in memory for summary aggregation.
func (r *questionRepository) Levels(ctx context.Context) (map[string]int, error) {
	type row struct {
		TaskID string
		Level  int
	}

	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&models.Question{}).
		Select("task_id", "level").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	levels := make(map[string]int, len(rows))
	for _, item := range rows {
		levels[item.TaskID] = item.Level
	}

	return levels, nil
}

func (r *questionRepository) UpsertBatch(ctx context.Context, questions []models.Question) (int64, error) {
	if len(questions) == 0 {
		return 0, nil
	}

	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "task_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"question", "level", "final_answer", "file_name", "file_path", "annotator_steps", "annotator_tools", "metadata"}),
	}).Create(&questions)

	return tx.RowsAffected, tx.Error
}
