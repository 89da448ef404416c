package extract

import "unicode/utf8"

// MaxContentChars bounds the text handed to the completion service as
// reference material. Truncation keeps the prefix and is silent.
const MaxContentChars = 16000

// ContentKind tags the shape of an extracted payload.
type ContentKind string

const (
	// ContentText is free-form text read or recovered from the file.
	ContentText ContentKind = "text"
	// ContentTable is a rendered preview of row-oriented data.
	ContentTable ContentKind = "table"
	// ContentStructured is re-indented structured markup.
	ContentStructured ContentKind = "structured"
	// ContentListing enumerates archive entry names, not their bytes.
	ContentListing ContentKind = "listing"
	// ContentMetadata describes media files without decoding their payload.
	ContentMetadata ContentKind = "metadata"
	// ContentUnsupported marks an extension the extractor has no handler for.
	ContentUnsupported ContentKind = "unsupported"
)

// Content is the bounded textual representation of an attachment. It is
// recomputed on every grading attempt and never cached.
type Content struct {
	Kind      ContentKind `json:"kind"`
	FileKind  FileKind    `json:"file_kind"`
	Text      string      `json:"text"`
	Extension string      `json:"extension,omitempty"`
	Truncated bool        `json:"truncated"`
}

// Empty reports whether the content carries no usable text.
func (c Content) Empty() bool {
	return c.Text == ""
}

func truncate(text string) (string, bool) {
	if len(text) <= MaxContentChars {
		return text, false
	}

	// Back off to a rune boundary so the cut never leaves an invalid
	// trailing sequence in the model context.
	cut := MaxContentChars
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut], true
}
