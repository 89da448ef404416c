package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/benchlab/gaia-eval-api/internal/dto"
	"github.com/benchlab/gaia-eval-api/internal/service"
)

type stubQuestionService struct {
	listResponse dto.QuestionListResponse
	listErr      error
	getResponse  dto.QuestionResponse
	getErr       error

	lastFilter dto.QuestionListFilter
}

func (s *stubQuestionService) List(_ context.Context, filter dto.QuestionListFilter) (dto.QuestionListResponse, error) {
	s.lastFilter = filter
	return s.listResponse, s.listErr
}

func (s *stubQuestionService) Get(_ context.Context, taskID string) (dto.QuestionResponse, error) {
	return s.getResponse, s.getErr
}

func newQuestionApp(questions *stubQuestionService, evaluations *stubEvaluationService) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v2/questions")
	NewQuestionHandler(questions, evaluations, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop()).Register(group)
	return app
}

func TestListQuestionsPassesFilter(t *testing.T) {
	stub := &stubQuestionService{
		listResponse: dto.QuestionListResponse{
			Items:    []dto.QuestionResponse{{TaskID: "task-1", Question: "What is 2 + 2?", Level: 1}},
			Total:    1,
			Page:     2,
			PageSize: 5,
		},
	}
	app := newQuestionApp(stub, &stubEvaluationService{})

	req := jsonRequest(t, http.MethodGet, "/api/v2/questions?level=1&page=2&page_size=5", nil, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload dto.QuestionListResponse
	success, _ := decodeEnvelope(t, resp, &payload)
	require.True(t, success)
	require.Len(t, payload.Items, 1)

	require.NotNil(t, stub.lastFilter.Level)
	require.Equal(t, 1, *stub.lastFilter.Level)
	require.Equal(t, 2, stub.lastFilter.Page)
	require.Equal(t, 5, stub.lastFilter.PageSize)
}

func TestListQuestionsRejectsBadLevel(t *testing.T) {
	app := newQuestionApp(&stubQuestionService{}, &stubEvaluationService{})

	req := jsonRequest(t, http.MethodGet, "/api/v2/questions?level=abc", nil, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetQuestionByTaskID(t *testing.T) {
	stub := &stubQuestionService{
		getResponse: dto.QuestionResponse{TaskID: "task-1", Question: "What is 2 + 2?", FinalAnswer: "4"},
	}
	app := newQuestionApp(stub, &stubEvaluationService{})

	req := jsonRequest(t, http.MethodGet, "/api/v2/questions/task-1", nil, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload dto.QuestionResponse
	success, _ := decodeEnvelope(t, resp, &payload)
	require.True(t, success)
	require.Equal(t, "4", payload.FinalAnswer)
}

func TestGetQuestionUnknownTaskIs404(t *testing.T) {
	app := newQuestionApp(&stubQuestionService{getErr: service.ErrQuestionNotFound}, &stubEvaluationService{})

	req := jsonRequest(t, http.MethodGet, "/api/v2/questions/missing", nil, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestPreviewAttachmentReturnsExtractedContent(t *testing.T) {
	evaluations := &stubEvaluationService{
		previewResponse: dto.AttachmentPreviewResponse{
			FileName: "notes.txt",
			FileKind: "text",
			Kind:     "text",
			Text:     "hello preview",
			Gradable: true,
		},
	}
	app := newQuestionApp(&stubQuestionService{}, evaluations)

	req := jsonRequest(t, http.MethodGet, "/api/v2/questions/task-1/attachment", nil, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload dto.AttachmentPreviewResponse
	success, _ := decodeEnvelope(t, resp, &payload)
	require.True(t, success)
	require.Equal(t, "hello preview", payload.Text)
	require.True(t, payload.Gradable)
}

func TestPreviewAttachmentMissingFileIs404(t *testing.T) {
	app := newQuestionApp(&stubQuestionService{}, &stubEvaluationService{previewErr: service.ErrNoAttachment})

	req := jsonRequest(t, http.MethodGet, "/api/v2/questions/task-1/attachment", nil, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
