package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/benchlab/gaia-eval-api/internal/dto"
	"github.com/benchlab/gaia-eval-api/internal/models"
	"github.com/benchlab/gaia-eval-api/internal/observability"
	"github.com/benchlab/gaia-eval-api/internal/repository"
	"github.com/benchlab/gaia-eval-api/pkg/extract"
)

// ErrQuestionNotFound indicates the task id does not exist in the benchmark set.
var ErrQuestionNotFound = errors.New("question not found")

// ErrNoAttachment indicates a preview was requested for a question without a file.
var ErrNoAttachment = errors.New("question has no attachment")

// ErrGraderUnavailable wraps transport failures from either model call. The
// attempt is aborted and the stored status left untouched.
var ErrGraderUnavailable = errors.New("completion service unavailable")

// ObjectDownloader is the narrow object-store contract the coordinator needs.
type ObjectDownloader interface {
	Download(ctx context.Context, fileName string) (string, error)
}

// EvaluationService drives the grading state machine per question: it
// decides whether stored instructions accompany the attempt, runs extraction
// and the two grader calls, applies the verdict, and persists the outcome.
type EvaluationService interface {
	Evaluate(ctx context.Context, userID string, payload dto.EvaluationRequest) (dto.EvaluationResponse, error)
	GetResult(ctx context.Context, userID, taskID string) (dto.ResultResponse, error)
	UpdateInstructions(ctx context.Context, userID, taskID string, payload dto.InstructionsUpdateRequest) (dto.ResultResponse, error)
	PreviewAttachment(ctx context.Context, taskID string) (dto.AttachmentPreviewResponse, error)
}

type evaluationService struct {
	questions repository.QuestionRepository
	results   repository.ResultRepository
	answers   AnswerService
	store     ObjectDownloader
	extractor *extract.Extractor
	events    EventPublisher
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewEvaluationService constructs the coordinator. The event publisher may
// be nil.
func NewEvaluationService(
	questions repository.QuestionRepository,
	results repository.ResultRepository,
	answers AnswerService,
	store ObjectDownloader,
	extractor *extract.Extractor,
	events EventPublisher,
	validate *validator.Validate,
	logger zerolog.Logger,
) EvaluationService {
	return &evaluationService{
		questions: questions,
		results:   results,
		answers:   answers,
		store:     store,
		extractor: extractor,
		events:    events,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "evaluation_service").Logger(),
		now:       time.Now,
	}
}

func (s *evaluationService) Evaluate(ctx context.Context, userID string, payload dto.EvaluationRequest) (dto.EvaluationResponse, error) {
	tracer := otel.Tracer("github.com/benchlab/gaia-eval-api/internal/service/evaluation")
	ctx, span := tracer.Start(ctx, "evaluation.attempt")
	span.SetAttributes(
		attribute.String("evaluation.user_id", userID),
		attribute.String("evaluation.task_id", payload.TaskID),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.EvaluationResponse{}, err
	}

	question, err := s.questions.GetByTaskID(ctx, payload.TaskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationResponse{}, ErrQuestionNotFound
		}
		return dto.EvaluationResponse{}, err
	}

	current, err := s.currentResult(ctx, userID, question.TaskID)
	if err != nil {
		return dto.EvaluationResponse{}, err
	}

	// Instructions accompany the attempt only after an incorrect answer and
	// only when a non-empty instruction string is available: the operator's
	// text wins over the stored text, which wins over the annotator steps.
	instructions := strings.TrimSpace(s.sanitizer.Sanitize(payload.Instructions))
	if instructions == "" {
		instructions = strings.TrimSpace(current.Instructions)
	}
	if instructions == "" {
		instructions = strings.TrimSpace(question.AnnotatorSteps)
	}
	useInstructions := current.Status.IsIncorrect() && instructions != ""

	contextText, contextNote := s.attachmentContext(ctx, question)
	span.SetAttributes(
		attribute.Bool("evaluation.with_instructions", useInstructions),
		attribute.Bool("evaluation.with_content", contextText != ""),
	)

	attemptInstructions := ""
	if useInstructions {
		attemptInstructions = instructions
	}

	answer, err := s.answers.GenerateAnswer(ctx, question, attemptInstructions, contextText)
	if err != nil {
		// Transport failure: the status row stays exactly as it was so the
		// next retry presents the same instruction text.
		span.RecordError(err)
		span.SetStatus(codes.Error, "answer_generation_failed")
		return dto.EvaluationResponse{}, fmt.Errorf("%w: %v", ErrGraderUnavailable, err)
	}

	verdict, err := s.answers.Grade(ctx, question, answer)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "comparison_failed")
		return dto.EvaluationResponse{}, fmt.Errorf("%w: %v", ErrGraderUnavailable, err)
	}

	status := nextStatus(verdict, useInstructions)

	persistedInstructions := instructions
	result := models.EvaluationResult{
		UserID:       userID,
		TaskID:       question.TaskID,
		Status:       status,
		Instructions: persistedInstructions,
		LatestAnswer: answer,
	}
	if err := s.results.Upsert(ctx, &result); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "result_persist_failed")
		return dto.EvaluationResponse{}, err
	}

	observability.EvaluationOutcomes().WithLabelValues(string(status)).Inc()

	if s.events != nil {
		s.events.PublishResult(ctx, ResultEvent{
			UserID:     userID,
			TaskID:     question.TaskID,
			Status:     status,
			Verdict:    string(verdict),
			OccurredAt: s.now().UTC(),
		})
	}

	s.logger.Info().
		Str("task_id", question.TaskID).
		Str("user_id", userID).
		Str("status", string(status)).
		Bool("instructions_used", useInstructions).
		Msg("evaluation attempt completed")

	span.SetAttributes(attribute.String("evaluation.status", string(status)))

	return dto.EvaluationResponse{
		TaskID:           question.TaskID,
		UserID:           userID,
		Status:           status,
		Verdict:          string(verdict),
		Answer:           answer,
		InstructionsUsed: useInstructions,
		Instructions:     persistedInstructions,
		ContextNote:      contextNote,
	}, nil
}

func (s *evaluationService) GetResult(ctx context.Context, userID, taskID string) (dto.ResultResponse, error) {
	if _, err := s.questions.GetByTaskID(ctx, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ResultResponse{}, ErrQuestionNotFound
		}
		return dto.ResultResponse{}, err
	}

	result, err := s.currentResult(ctx, userID, taskID)
	if err != nil {
		return dto.ResultResponse{}, err
	}

	return dto.NewResultResponse(result), nil
}

// UpdateInstructions stores revised operator instructions without grading.
// The next attempt from an Incorrect* state re-enters the same transition
// rule with the new text.
func (s *evaluationService) UpdateInstructions(ctx context.Context, userID, taskID string, payload dto.InstructionsUpdateRequest) (dto.ResultResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ResultResponse{}, err
	}

	if _, err := s.questions.GetByTaskID(ctx, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ResultResponse{}, ErrQuestionNotFound
		}
		return dto.ResultResponse{}, err
	}

	current, err := s.currentResult(ctx, userID, taskID)
	if err != nil {
		return dto.ResultResponse{}, err
	}

	current.UserID = userID
	current.TaskID = taskID
	current.Instructions = strings.TrimSpace(s.sanitizer.Sanitize(payload.Instructions))
	if err := s.results.Upsert(ctx, &current); err != nil {
		return dto.ResultResponse{}, err
	}

	s.logger.Info().Str("task_id", taskID).Str("user_id", userID).Msg("instructions updated")

	return dto.NewResultResponse(current), nil
}

func (s *evaluationService) PreviewAttachment(ctx context.Context, taskID string) (dto.AttachmentPreviewResponse, error) {
	question, err := s.questions.GetByTaskID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AttachmentPreviewResponse{}, ErrQuestionNotFound
		}
		return dto.AttachmentPreviewResponse{}, err
	}

	if !question.HasAttachment() {
		return dto.AttachmentPreviewResponse{}, ErrNoAttachment
	}

	localPath, err := s.store.Download(ctx, question.FileName)
	if err != nil {
		return dto.AttachmentPreviewResponse{}, err
	}

	content := s.extractor.Extract(localPath)

	return dto.AttachmentPreviewResponse{
		FileName:  question.FileName,
		FileKind:  string(content.FileKind),
		Kind:      string(content.Kind),
		Text:      content.Text,
		Truncated: content.Truncated,
		Gradable:  content.FileKind.Gradable(),
	}, nil
}

// currentResult loads the persisted status, defaulting to Not Attempted when
// the user has never graded this question.
func (s *evaluationService) currentResult(ctx context.Context, userID, taskID string) (models.EvaluationResult, error) {
	result, err := s.results.GetByUserAndTask(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.EvaluationResult{
				UserID: userID,
				TaskID: taskID,
				Status: models.StatusNotAttempted,
			}, nil
		}
		return models.EvaluationResult{}, err
	}

	return result, nil
}

// attachmentContext resolves the extracted content for the attempt, or a
// human-readable note explaining why no content accompanies it. Every
// failure here degrades to a note: a bad attachment must not abort grading.
func (s *evaluationService) attachmentContext(ctx context.Context, question models.Question) (string, string) {
	if !question.HasAttachment() {
		return "", ""
	}

	kind := extract.KindForPath(question.FileName)
	if !kind.Gradable() {
		return "", fmt.Sprintf("attachment %s (%s) is excluded from grading context", question.FileName, kind)
	}

	localPath, err := s.store.Download(ctx, question.FileName)
	if err != nil {
		s.logger.Warn().Err(err).Str("file", question.FileName).Msg("attachment download failed, grading without content")
		return "", fmt.Sprintf("attachment %s could not be downloaded", question.FileName)
	}

	content := s.extractor.Extract(localPath)
	if content.Kind == extract.ContentUnsupported {
		return "", fmt.Sprintf("attachment %s is an unsupported type (%s)", question.FileName, content.Extension)
	}

	return content.Text, ""
}

// nextStatus maps a verdict and the instructions-used flag onto the status
// enumeration. The mapping is total: every pair yields exactly one status,
// and an ambiguous verdict always yields Error.
func nextStatus(verdict Verdict, withInstructions bool) models.ResultStatus {
	switch verdict {
	case VerdictMatch:
		if withInstructions {
			return models.StatusCorrectWithInstruction
		}
		return models.StatusCorrectWithoutInstruction
	case VerdictNoMatch:
		if withInstructions {
			return models.StatusIncorrectWithInstruction
		}
		return models.StatusIncorrectWithoutInstruction
	default:
		return models.StatusError
	}
}
