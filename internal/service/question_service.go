package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/benchlab/gaia-eval-api/internal/dto"
	"github.com/benchlab/gaia-eval-api/internal/repository"
)

// QuestionService exposes read access to the benchmark question set.
type QuestionService interface {
	List(ctx context.Context, filter dto.QuestionListFilter) (dto.QuestionListResponse, error)
	Get(ctx context.Context, taskID string) (dto.QuestionResponse, error)
}

type questionService struct {
	questions repository.QuestionRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewQuestionService constructs a QuestionService instance.
func NewQuestionService(questions repository.QuestionRepository, validate *validator.Validate, logger zerolog.Logger) QuestionService {
	return &questionService{
		questions: questions,
		validator: validate,
		logger:    logger.With().Str("component", "question_service").Logger(),
	}
}

func (s *questionService) List(ctx context.Context, filter dto.QuestionListFilter) (dto.QuestionListResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return dto.QuestionListResponse{}, err
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	questions, total, err := s.questions.List(ctx, repository.QuestionFilter{
		Level:    filter.Level,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return dto.QuestionListResponse{}, err
	}

	return dto.QuestionListResponse{
		Items:    dto.NewQuestionResponseSlice(questions),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *questionService) Get(ctx context.Context, taskID string) (dto.QuestionResponse, error) {
	question, err := s.questions.GetByTaskID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuestionResponse{}, ErrQuestionNotFound
		}
		return dto.QuestionResponse{}, err
	}

	return dto.NewQuestionResponse(question), nil
}
