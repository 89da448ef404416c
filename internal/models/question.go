package models

import (
	"time"

	"gorm.io/datatypes"
)

// Question is a single benchmark entry loaded from the dataset manifest.
// Records are owned by the benchmark source and are read-only to the
// evaluation core.
type Question struct {
	TaskID         string            `gorm:"primaryKey;size:64" json:"task_id"`
	Question       string            `gorm:"type:text;not null" json:"question"`
	Level          int               `gorm:"not null;default:1" json:"level"`
	FinalAnswer    string            `gorm:"type:text" json:"final_answer"`
	FileName       string            `gorm:"size:255" json:"file_name"`
	FilePath       string            `gorm:"size:1024" json:"file_path"`
	AnnotatorSteps string            `gorm:"type:text" json:"annotator_steps"`
	AnnotatorTools string            `gorm:"type:text" json:"annotator_tools"`
	Metadata       datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt      time.Time         `json:"created_at"`
}

// HasAttachment reports whether the question references an uploaded file.
func (q Question) HasAttachment() bool {
	return q.FileName != ""
}
