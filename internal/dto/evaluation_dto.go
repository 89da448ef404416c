package dto

import (
	"time"

	"github.com/benchlab/gaia-eval-api/internal/models"
)

// EvaluationRequest triggers one grading attempt for a question.
type EvaluationRequest struct {
	TaskID       string `json:"task_id" validate:"required"`
	Instructions string `json:"instructions"`
}

// InstructionsUpdateRequest stores revised operator instructions for a
// question so the next retry can use them.
type InstructionsUpdateRequest struct {
	Instructions string `json:"instructions" validate:"required"`
}

// EvaluationResponse reports the outcome of a completed grading attempt.
type EvaluationResponse struct {
	TaskID           string              `json:"task_id"`
	UserID           string              `json:"user_id"`
	Status           models.ResultStatus `json:"status"`
	Verdict          string              `json:"verdict"`
	Answer           string              `json:"answer"`
	InstructionsUsed bool                `json:"instructions_used"`
	Instructions     string              `json:"instructions,omitempty"`
	ContextNote      string              `json:"context_note,omitempty"`
}

// ResultResponse is the persisted grading state for one question.
type ResultResponse struct {
	TaskID       string              `json:"task_id"`
	UserID       string              `json:"user_id"`
	Status       models.ResultStatus `json:"status"`
	Instructions string              `json:"instructions,omitempty"`
	LatestAnswer string              `json:"latest_answer,omitempty"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// NewResultResponse maps the model to its API projection.
func NewResultResponse(r models.EvaluationResult) ResultResponse {
	return ResultResponse{
		TaskID:       r.TaskID,
		UserID:       r.UserID,
		Status:       r.Status,
		Instructions: r.Instructions,
		LatestAnswer: r.LatestAnswer,
		UpdatedAt:    r.UpdatedAt,
	}
}
