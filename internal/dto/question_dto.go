package dto

import (
	"time"

	"github.com/benchlab/gaia-eval-api/internal/models"
)

// QuestionResponse is the API projection of a benchmark question.
type QuestionResponse struct {
	TaskID         string    `json:"task_id"`
	Question       string    `json:"question"`
	Level          int       `json:"level"`
	FinalAnswer    string    `json:"final_answer"`
	FileName       string    `json:"file_name,omitempty"`
	FilePath       string    `json:"file_path,omitempty"`
	AnnotatorSteps string    `json:"annotator_steps,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// QuestionListResponse wraps a page of questions.
type QuestionListResponse struct {
	Items    []QuestionResponse `json:"items"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

// QuestionListFilter carries the supported list query parameters.
type QuestionListFilter struct {
	Level    *int `validate:"omitempty,min=1,max=3"`
	Page     int  `validate:"omitempty,min=1"`
	PageSize int  `validate:"omitempty,min=1,max=100"`
}

// AttachmentPreviewResponse exposes what the extractor would feed the model
// for a question's attachment.
type AttachmentPreviewResponse struct {
	FileName  string `json:"file_name"`
	FileKind  string `json:"file_kind"`
	Kind      string `json:"kind"`
	Text      string `json:"text"`
	Truncated bool   `json:"truncated"`
	Gradable  bool   `json:"gradable"`
}

// NewQuestionResponse maps the model to its API projection.
func NewQuestionResponse(q models.Question) QuestionResponse {
	return QuestionResponse{
		TaskID:         q.TaskID,
		Question:       q.Question,
		Level:          q.Level,
		FinalAnswer:    q.FinalAnswer,
		FileName:       q.FileName,
		FilePath:       q.FilePath,
		AnnotatorSteps: q.AnnotatorSteps,
		CreatedAt:      q.CreatedAt,
	}
}

// NewQuestionResponseSlice maps a slice of questions.
func NewQuestionResponseSlice(questions []models.Question) []QuestionResponse {
	responses := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		responses = append(responses, NewQuestionResponse(q))
	}
	return responses
}
