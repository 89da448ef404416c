package extract

import (
	"path/filepath"
	"strings"
)

// FileKind is the closed set of attachment types the extractor understands.
// Dispatch is keyed by filename extension, case-insensitive; anything outside
// the table maps to KindUnsupported rather than an error.
type FileKind string

const (
	KindText        FileKind = "text"
	KindTabular     FileKind = "tabular"
	KindSpreadsheet FileKind = "spreadsheet"
	KindStructured  FileKind = "structured"
	KindArchive     FileKind = "archive"
	KindWordDoc     FileKind = "worddoc"
	KindPDF         FileKind = "pdf"
	KindSlides      FileKind = "slides"
	KindImage       FileKind = "image"
	KindAudio       FileKind = "audio"
	KindUnsupported FileKind = "unsupported"
)

var kindByExtension = map[string]FileKind{
	".txt":    KindText,
	".py":     KindText,
	".pdb":    KindText,
	".md":     KindText,
	".csv":    KindTabular,
	".xlsx":   KindSpreadsheet,
	".json":   KindStructured,
	".jsonld": KindStructured,
	".zip":    KindArchive,
	".docx":   KindWordDoc,
	".pdf":    KindPDF,
	".pptx":   KindSlides,
	".jpg":    KindImage,
	".jpeg":   KindImage,
	".png":    KindImage,
	".mp3":    KindAudio,
}

// KindForPath resolves the file kind from the path's extension.
func KindForPath(path string) FileKind {
	ext := strings.ToLower(filepath.Ext(path))
	if kind, ok := kindByExtension[ext]; ok {
		return kind
	}
	return KindUnsupported
}

// Gradable reports whether content of this kind carries enough text to be
// useful as model context. Images are never OCRed, audio is never
// transcribed, and archives only yield entry names, so questions that depend
// on them cannot be answered from the extracted text.
func (k FileKind) Gradable() bool {
	switch k {
	case KindImage, KindAudio, KindArchive, KindUnsupported:
		return false
	}
	return true
}
