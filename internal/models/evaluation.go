package models

import (
	"strings"
	"time"
)

// ResultStatus classifies the grading outcome of a question for one user,
// crossed with whether operator instructions were used for the attempt.
type ResultStatus string

const (
	// StatusNotAttempted is the initial state before any grading attempt.
	StatusNotAttempted ResultStatus = "Not Attempted"
	// StatusCorrectWithoutInstruction marks a match on a plain attempt.
	StatusCorrectWithoutInstruction ResultStatus = "Correct without Instruction"
	// StatusCorrectWithInstruction marks a match on an instruction-assisted retry.
	StatusCorrectWithInstruction ResultStatus = "Correct with Instruction"
	// StatusIncorrectWithoutInstruction marks a mismatch on a plain attempt.
	StatusIncorrectWithoutInstruction ResultStatus = "Incorrect without Instruction"
	// StatusIncorrectWithInstruction marks a mismatch on an instruction-assisted retry.
	StatusIncorrectWithInstruction ResultStatus = "Incorrect with Instruction"
	// StatusError marks an attempt whose comparison produced no usable verdict.
	StatusError ResultStatus = "Error"
)

// IsCorrect reports whether the status represents a matched answer.
func (s ResultStatus) IsCorrect() bool {
	return strings.HasPrefix(string(s), "Correct")
}

// IsIncorrect reports whether the status represents a mismatched answer.
// Incorrect statuses are the only ones eligible for an instruction-assisted retry.
func (s ResultStatus) IsIncorrect() bool {
	return strings.HasPrefix(string(s), "Incorrect")
}

// Valid reports whether the value belongs to the closed status enumeration.
func (s ResultStatus) Valid() bool {
	switch s {
	case StatusNotAttempted,
		StatusCorrectWithoutInstruction,
		StatusCorrectWithInstruction,
		StatusIncorrectWithoutInstruction,
		StatusIncorrectWithInstruction,
		StatusError:
		return true
	}
	return false
}

// EvaluationResult is the persisted grading state for one (user, question)
// pair. The row is written through a single atomic upsert keyed by
// (user_id, task_id) so concurrent graders cannot lose updates.
type EvaluationResult struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	UserID       string       `gorm:"size:64;not null;uniqueIndex:idx_user_task" json:"user_id"`
	TaskID       string       `gorm:"size:64;not null;uniqueIndex:idx_user_task" json:"task_id"`
	Status       ResultStatus `gorm:"size:50;not null;default:'Not Attempted'" json:"status"`
	Instructions string       `gorm:"type:text" json:"instructions"`
	LatestAnswer string       `gorm:"type:text" json:"latest_answer"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
