package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
)

// Extractor normalizes heterogeneous attachment formats into bounded text
// usable as completion context. Extract never returns an error: per-kind
// failures degrade into descriptive text payloads so one corrupt attachment
// cannot abort a batch evaluation run.
type Extractor struct {
	logger zerolog.Logger
}

// New builds an extractor.
func New(logger zerolog.Logger) *Extractor {
	return &Extractor{
		logger: logger.With().Str("component", "extractor").Logger(),
	}
}

// Extract dispatches on the path's extension and returns the normalized
// content. Unknown extensions yield a ContentUnsupported sentinel carrying
// the literal extension; this is a normal return value, not a failure.
func (e *Extractor) Extract(path string) Content {
	kind := KindForPath(path)

	switch kind {
	case KindText:
		text, err := readPlainText(path)
		return e.wrap(kind, ContentText, text, err)
	case KindTabular:
		text, err := renderCSV(path)
		return e.bounded(kind, ContentTable, text, err)
	case KindSpreadsheet:
		text, err := renderWorkbook(path)
		return e.bounded(kind, ContentTable, text, err)
	case KindStructured:
		text, err := reindentJSON(path)
		return e.wrap(kind, ContentStructured, text, err)
	case KindArchive:
		text, err := listArchive(path)
		return e.wrap(kind, ContentListing, text, err)
	case KindWordDoc:
		text, err := readWordDocument(path)
		return e.wrap(kind, ContentText, text, err)
	case KindPDF:
		text, err := readPDF(path)
		return e.bounded(kind, ContentText, text, err)
	case KindSlides:
		text, err := readSlides(path)
		return e.wrap(kind, ContentText, text, err)
	case KindImage:
		text, err := describeImage(path)
		return e.wrap(kind, ContentMetadata, text, err)
	case KindAudio:
		text, err := describeAudio(path)
		return e.wrap(kind, ContentMetadata, text, err)
	default:
		return e.unsupported(path)
	}
}

// wrap converts a handler result into content, mapping a failure into a
// descriptive text payload.
func (e *Extractor) wrap(kind FileKind, contentKind ContentKind, text string, err error) Content {
	if err != nil {
		e.logger.Warn().Err(err).Str("kind", string(kind)).Msg("extraction degraded to error description")
		return Content{
			Kind:     ContentText,
			FileKind: kind,
			Text:     fmt.Sprintf("error processing %s file: %v", kind, err),
		}
	}

	return Content{Kind: contentKind, FileKind: kind, Text: text}
}

// bounded applies the character budget on top of wrap for payloads that can
// grow past downstream context limits.
func (e *Extractor) bounded(kind FileKind, contentKind ContentKind, text string, err error) Content {
	content := e.wrap(kind, contentKind, text, err)
	if err != nil {
		return content
	}

	content.Text, content.Truncated = truncate(content.Text)
	return content
}

func (e *Extractor) unsupported(path string) Content {
	ext := strings.ToLower(filepath.Ext(path))

	detail := ""
	if mime, err := mimetype.DetectFile(path); err == nil {
		detail = mime.String()
	}

	text := fmt.Sprintf("unsupported file type: %s", ext)
	if detail != "" {
		text = fmt.Sprintf("%s (detected %s)", text, detail)
	}

	return Content{
		Kind:      ContentUnsupported,
		FileKind:  KindUnsupported,
		Text:      text,
		Extension: ext,
	}
}

func readPlainText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
