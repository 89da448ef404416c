package extract

import (
	"archive/zip"
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFixture(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func writeZipFixture(t *testing.T, name string, entries map[string]string) string {
	t.Helper()

	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	for entryName, body := range entries {
		entry, err := writer.Create(entryName)
		require.NoError(t, err)
		_, err = entry.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	return writeFixture(t, name, buf.Bytes())
}

func TestKindForPath(t *testing.T) {
	cases := map[string]FileKind{
		"notes.txt":     KindText,
		"script.py":     KindText,
		"protein.pdb":   KindText,
		"README.md":     KindText,
		"data.csv":      KindTabular,
		"sheet.XLSX":    KindSpreadsheet,
		"payload.json":  KindStructured,
		"graph.jsonld":  KindStructured,
		"bundle.zip":    KindArchive,
		"report.docx":   KindWordDoc,
		"paper.pdf":     KindPDF,
		"deck.pptx":     KindSlides,
		"photo.jpg":     KindImage,
		"photo.jpeg":    KindImage,
		"chart.png":     KindImage,
		"clip.mp3":      KindAudio,
		"movie.mp4":     KindUnsupported,
		"binary":        KindUnsupported,
		"archive.tar.g": KindUnsupported,
	}

	for path, want := range cases {
		require.Equal(t, want, KindForPath(path), path)
	}
}

func TestGradable(t *testing.T) {
	require.True(t, KindText.Gradable())
	require.True(t, KindTabular.Gradable())
	require.True(t, KindSpreadsheet.Gradable())
	require.True(t, KindStructured.Gradable())
	require.True(t, KindWordDoc.Gradable())
	require.True(t, KindPDF.Gradable())
	require.True(t, KindSlides.Gradable())

	require.False(t, KindImage.Gradable())
	require.False(t, KindAudio.Gradable())
	require.False(t, KindArchive.Gradable())
	require.False(t, KindUnsupported.Gradable())
}

func TestExtractPlainText(t *testing.T) {
	path := writeFixture(t, "notes.txt", []byte("line one\nline two"))

	content := New(zerolog.Nop()).Extract(path)
	require.Equal(t, ContentText, content.Kind)
	require.Equal(t, KindText, content.FileKind)
	require.Equal(t, "line one\nline two", content.Text)
	require.False(t, content.Truncated)
}

func TestExtractPythonSourceAsText(t *testing.T) {
	path := writeFixture(t, "solve.py", []byte("print(2 + 2)\n"))

	content := New(zerolog.Nop()).Extract(path)
	require.Equal(t, ContentText, content.Kind)
	require.Contains(t, content.Text, "print(2 + 2)")
}

func TestExtractCSVRendersTable(t *testing.T) {
	path := writeFixture(t, "data.csv", []byte("city,country\nParis,France\nTokyo,Japan\n"))

	content := New(zerolog.Nop()).Extract(path)
	require.Equal(t, ContentTable, content.Kind)
	require.Equal(t, KindTabular, content.FileKind)
	require.Contains(t, content.Text, "Paris")
	require.Contains(t, content.Text, "Japan")
	require.Contains(t, strings.ToUpper(content.Text), "CITY")
}

func TestExtractCSVWithRaggedRows(t *testing.T) {
	path := writeFixture(t, "ragged.csv", []byte("a,b,c\n1,2\n3,4,5,6\n"))

	content := New(zerolog.Nop()).Extract(path)
	require.Equal(t, ContentTable, content.Kind)
	require.NotContains(t, content.Text, "error processing")
}

func TestExtractLargeCSVTruncates(t *testing.T) {
	var builder strings.Builder
	builder.WriteString("id,payload\n")
	row := strings.Repeat("x", 120)
	for i := 0; i < 400; i++ {
		builder.WriteString("1,")
		builder.WriteString(row)
		builder.WriteString("\n")
	}
	path := writeFixture(t, "big.csv", []byte(builder.String()))

	content := New(zerolog.Nop()).Extract(path)
	require.True(t, content.Truncated)
	require.Len(t, content.Text, MaxContentChars)
}

func TestExtractWorkbookFirstSheet(t *testing.T) {
	workbook := excelize.NewFile()
	require.NoError(t, workbook.SetSheetRow("Sheet1", "A1", &[]interface{}{"name", "score"}))
	require.NoError(t, workbook.SetSheetRow("Sheet1", "A2", &[]interface{}{"alice", 42}))

	path := filepath.Join(t.TempDir(), "scores.xlsx")
	require.NoError(t, workbook.SaveAs(path))

	content := New(zerolog.Nop()).Extract(path)
	require.Equal(t, ContentTable, content.Kind)
	require.Equal(t, KindSpreadsheet, content.FileKind)
	require.Contains(t, content.Text, "alice")
	require.Contains(t, content.Text, "42")
}

func TestExtractJSONReindents(t *testing.T) {
	path := writeFixture(t, "payload.json", []byte(`{"b":1,"a":{"nested":true}}`))

	content := New(zerolog.Nop()).Extract(path)
	require.Equal(t, ContentStructured, content.Kind)
	require.Contains(t, content.Text, "  \"a\": {")
	require.Contains(t, content.Text, "\"nested\": true")
}

func TestExtractInvalidJSONDegrades(t *testing.T) {
	path := writeFixture(t, "broken.json", []byte("{not json"))

	content := New(zerolog.Nop()).Extract(path)
	require.Equal(t, ContentText, content.Kind)
	require.Contains(t, content.Text, "error processing structured file")
}

func TestExtractZipListsEntries(t *testing.T) {
	path := writeZipFixture(t, "bundle.zip", map[string]string{
		"inner/readme.txt": "hello",
		"inner/data.csv":   "a,b",
	})

	content := New(zerolog.Nop()).Extract(path)
	require.Equal(t, ContentListing, content.Kind)
	require.Contains(t, content.Text, "inner/readme.txt")
	require.Contains(t, content.Text, "inner/data.csv")
	require.NotContains(t, content.Text, "hello")
}

func TestExtractWordDocumentParagraphs(t *testing.T) {
	documentXML := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`
	path := writeZipFixture(t, "report.docx", map[string]string{
		"word/document.xml": documentXML,
	})

	content := New(zerolog.Nop()).Extract(path)
	require.Equal(t, ContentText, content.Kind)
	require.Equal(t, KindWordDoc, content.FileKind)
	require.Equal(t, "First paragraph.\nSecond paragraph.", content.Text)
}

func TestExtractWordDocumentMissingPartDegrades(t *testing.T) {
	path := writeZipFixture(t, "empty.docx", map[string]string{
		"placeholder.xml": "<x/>",
	})

	content := New(zerolog.Nop()).Extract(path)
	require.Contains(t, content.Text, "error processing worddoc file")
}

func TestExtractSlidesInOrder(t *testing.T) {
	slideXML := func(text string) string {
		return `<?xml version="1.0"?>
<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">
  <a:t>` + text + `</a:t>
</p:sld>`
	}
	path := writeZipFixture(t, "deck.pptx", map[string]string{
		"ppt/slides/slide2.xml":  slideXML("second slide"),
		"ppt/slides/slide1.xml":  slideXML("first slide"),
		"ppt/slides/slide10.xml": slideXML("tenth slide"),
	})

	content := New(zerolog.Nop()).Extract(path)
	require.Equal(t, ContentText, content.Kind)
	require.Equal(t, "first slide\nsecond slide\ntenth slide", content.Text)
}

func TestExtractImageMetadata(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	path := writeFixture(t, "chart.png", buf.Bytes())

	content := New(zerolog.Nop()).Extract(path)
	require.Equal(t, ContentMetadata, content.Kind)
	require.Equal(t, KindImage, content.FileKind)
	require.Contains(t, content.Text, "image size: 4x2")
	require.Contains(t, content.Text, "format: png")
}

func TestExtractUnsupportedExtension(t *testing.T) {
	path := writeFixture(t, "movie.mp4", []byte("not really a video"))

	content := New(zerolog.Nop()).Extract(path)
	require.Equal(t, ContentUnsupported, content.Kind)
	require.Equal(t, KindUnsupported, content.FileKind)
	require.Equal(t, ".mp4", content.Extension)
	require.Contains(t, content.Text, "unsupported file type: .mp4")
}

func TestExtractMissingFileDegrades(t *testing.T) {
	content := New(zerolog.Nop()).Extract(filepath.Join(t.TempDir(), "missing.txt"))
	require.Equal(t, ContentText, content.Kind)
	require.Contains(t, content.Text, "error processing text file")
}

func TestTruncateKeepsPrefix(t *testing.T) {
	text := strings.Repeat("a", MaxContentChars+10)

	truncated, wasTruncated := truncate(text)
	require.True(t, wasTruncated)
	require.Len(t, truncated, MaxContentChars)
	require.Equal(t, text[:MaxContentChars], truncated)

	exact, wasTruncated := truncate(strings.Repeat("b", MaxContentChars))
	require.False(t, wasTruncated)
	require.Len(t, exact, MaxContentChars)
}

func TestTruncateNeverSplitsRunes(t *testing.T) {
	// Three-byte runes guarantee the byte budget lands mid-rune.
	text := strings.Repeat("値", MaxContentChars/3+10)

	truncated, wasTruncated := truncate(text)
	require.True(t, wasTruncated)
	require.LessOrEqual(t, len(truncated), MaxContentChars)
	require.True(t, utf8.ValidString(truncated))
	require.True(t, strings.HasPrefix(text, truncated))
}
