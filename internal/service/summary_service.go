package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/benchlab/gaia-eval-api/internal/dto"
	"github.com/benchlab/gaia-eval-api/internal/models"
	"github.com/benchlab/gaia-eval-api/internal/repository"
)

// SummaryService aggregates a user's grading outcomes across the benchmark.
type SummaryService interface {
	GetSummary(ctx context.Context, userID string) (dto.SummaryResponse, error)
}

type summaryService struct {
	questions repository.QuestionRepository
	results   repository.ResultRepository
	cache     *redis.Client
	cacheTTL  time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

// NewSummaryService builds the summary aggregator. The cache client may be nil.
func NewSummaryService(questions repository.QuestionRepository, results repository.ResultRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) SummaryService {
	return &summaryService{
		questions: questions,
		results:   results,
		cache:     cache,
		cacheTTL:  ttl,
		logger:    logger.With().Str("component", "summary_service").Logger(),
		now:       time.Now,
	}
}

func (s *summaryService) GetSummary(ctx context.Context, userID string) (dto.SummaryResponse, error) {
	cacheKey := fmt.Sprintf("summary:user:%s", userID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.SummaryResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Str("user_id", userID).Msg("summary cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read summary cache")
		}
	}

	levels, err := s.questions.Levels(ctx)
	if err != nil {
		return dto.SummaryResponse{}, err
	}

	results, err := s.results.ListByUser(ctx, userID)
	if err != nil {
		return dto.SummaryResponse{}, err
	}

	response := s.buildResponse(userID, levels, results)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store summary cache")
			}
		}
	}

	return response, nil
}

func (s *summaryService) buildResponse(userID string, levels map[string]int, results []models.EvaluationResult) dto.SummaryResponse {
	byStatus := map[string]int{}
	byLevel := map[int]*dto.LevelSummary{}

	for _, level := range levels {
		if _, ok := byLevel[level]; !ok {
			byLevel[level] = &dto.LevelSummary{Level: level}
		}
	}

	statusByTask := make(map[string]models.ResultStatus, len(results))
	for _, result := range results {
		byStatus[string(result.Status)]++
		statusByTask[result.TaskID] = result.Status
	}

	for taskID, level := range levels {
		summary := byLevel[level]
		summary.Total++

		status, attempted := statusByTask[taskID]
		switch {
		case !attempted || status == models.StatusNotAttempted:
			summary.Pending++
		case status.IsCorrect():
			summary.Correct++
		case status.IsIncorrect():
			summary.Incorrect++
		default:
			summary.Errors++
		}
	}

	levelSummaries := make([]dto.LevelSummary, 0, len(byLevel))
	for _, summary := range byLevel {
		levelSummaries = append(levelSummaries, *summary)
	}
	sort.Slice(levelSummaries, func(i, j int) bool {
		return levelSummaries[i].Level < levelSummaries[j].Level
	})

	return dto.SummaryResponse{
		UserID:      userID,
		Total:       len(levels),
		Attempted:   len(results),
		ByStatus:    byStatus,
		ByLevel:     levelSummaries,
		GeneratedAt: s.now().UTC(),
	}
}
