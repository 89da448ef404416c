package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gorm.io/datatypes"

	"github.com/benchlab/gaia-eval-api/internal/models"
	"github.com/benchlab/gaia-eval-api/internal/repository"
)

// ErrEmptyManifest indicates the manifest contained no records.
var ErrEmptyManifest = errors.New("manifest contains no records")

// ObjectUploader pushes local attachment files into the object store.
type ObjectUploader interface {
	Upload(ctx context.Context, localPath, key string) (string, error)
}

// DatasetService ingests a benchmark manifest into the question store,
// optionally uploading the referenced attachments.
type DatasetService interface {
	Import(ctx context.Context, manifestPath, attachmentsDir string) (int64, error)
}

type datasetService struct {
	questions repository.QuestionRepository
	uploader  ObjectUploader
	schema    *jsonschema.Schema
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// manifestSchema validates each benchmark record before it touches the
// database. A single malformed record fails the import with its index so the
// manifest can be repaired, instead of half-loading the benchmark.
const manifestSchema = `{
	"type": "object",
	"required": ["task_id", "question", "final_answer"],
	"properties": {
		"task_id": {"type": "string", "minLength": 1},
		"question": {"type": "string", "minLength": 1},
		"level": {"type": "integer", "minimum": 1, "maximum": 3},
		"final_answer": {"type": "string"},
		"file_name": {"type": "string"},
		"annotator_metadata": {
			"type": "object",
			"properties": {
				"steps": {"type": "string"},
				"number_of_steps": {"type": ["string", "integer"]},
				"how_long_did_this_take": {"type": "string"},
				"tools": {"type": "string"},
				"number_of_tools": {"type": ["string", "integer"]}
			}
		}
	}
}`

type manifestRecord struct {
	TaskID      string `json:"task_id"`
	Question    string `json:"question"`
	Level       int    `json:"level"`
	FinalAnswer string `json:"final_answer"`
	FileName    string `json:"file_name"`
	Annotator   struct {
		Steps         string      `json:"steps"`
		NumberOfSteps interface{} `json:"number_of_steps"`
		HowLong       string      `json:"how_long_did_this_take"`
		Tools         string      `json:"tools"`
		NumberOfTools interface{} `json:"number_of_tools"`
	} `json:"annotator_metadata"`
}

// NewDatasetService constructs the manifest importer. The uploader may be
// nil, in which case attachments are assumed to already live in the bucket.
func NewDatasetService(questions repository.QuestionRepository, uploader ObjectUploader, logger zerolog.Logger) (DatasetService, error) {
	schema, err := jsonschema.CompileString("manifest.schema.json", manifestSchema)
	if err != nil {
		return nil, fmt.Errorf("compile manifest schema: %w", err)
	}

	return &datasetService{
		questions: questions,
		uploader:  uploader,
		schema:    schema,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "dataset_service").Logger(),
	}, nil
}

func (s *datasetService) Import(ctx context.Context, manifestPath, attachmentsDir string) (int64, error) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return 0, fmt.Errorf("read manifest: %w", err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, fmt.Errorf("parse manifest: %w", err)
	}
	if len(raw) == 0 {
		return 0, ErrEmptyManifest
	}

	questions := make([]models.Question, 0, len(raw))
	for i, item := range raw {
		record, err := s.decodeRecord(item)
		if err != nil {
			return 0, fmt.Errorf("manifest record %d: %w", i, err)
		}

		question := s.buildQuestion(record)

		if question.FileName != "" && attachmentsDir != "" && s.uploader != nil {
			localPath := filepath.Join(attachmentsDir, question.FileName)
			url, err := s.uploader.Upload(ctx, localPath, question.FileName)
			if err != nil {
				s.logger.Warn().Err(err).Str("file", question.FileName).Msg("attachment upload failed, keeping manifest path")
			} else {
				question.FilePath = url
			}
		}

		questions = append(questions, question)
	}

	affected, err := s.questions.UpsertBatch(ctx, questions)
	if err != nil {
		return 0, err
	}

	s.logger.Info().Int64("affected", affected).Int("records", len(questions)).Msg("benchmark manifest imported")

	return affected, nil
}

func (s *datasetService) decodeRecord(item json.RawMessage) (manifestRecord, error) {
	var value interface{}
	if err := json.Unmarshal(item, &value); err != nil {
		return manifestRecord{}, err
	}
	if err := s.schema.Validate(value); err != nil {
		return manifestRecord{}, err
	}

	var record manifestRecord
	if err := json.Unmarshal(item, &record); err != nil {
		return manifestRecord{}, err
	}
	return record, nil
}

func (s *datasetService) buildQuestion(record manifestRecord) models.Question {
	level := record.Level
	if level <= 0 {
		level = 1
	}

	metadata := datatypes.JSONMap{}
	if record.Annotator.NumberOfSteps != nil {
		metadata["number_of_steps"] = record.Annotator.NumberOfSteps
	}
	if record.Annotator.HowLong != "" {
		metadata["how_long_did_this_take"] = record.Annotator.HowLong
	}
	if record.Annotator.NumberOfTools != nil {
		metadata["number_of_tools"] = record.Annotator.NumberOfTools
	}

	return models.Question{
		TaskID:         strings.TrimSpace(record.TaskID),
		Question:       strings.TrimSpace(record.Question),
		Level:          level,
		FinalAnswer:    strings.TrimSpace(record.FinalAnswer),
		FileName:       strings.TrimSpace(record.FileName),
		AnnotatorSteps: strings.TrimSpace(s.sanitizer.Sanitize(record.Annotator.Steps)),
		AnnotatorTools: strings.TrimSpace(s.sanitizer.Sanitize(record.Annotator.Tools)),
		Metadata:       metadata,
	}
}
