package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"resume.pdf", "pdf"},
		{"Resume.PDF", "pdf"},
		{"cv.docx", "docx"},
		{"notes.txt", "txt"},
		{"photo.JPEG", "jpeg"},
		{"noextension", ""},
		{"archive.tar.gz", "gz"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Extension(tt.filename), "filename: %s", tt.filename)
	}
}

func TestSupported(t *testing.T) {
	allowed := []string{"pdf", "docx", "doc", "txt", "jpg", "png", "jpeg"}

	assert.True(t, Supported("resume.pdf", allowed))
	assert.True(t, Supported("resume.PDF", allowed))
	assert.True(t, Supported("photo.jpeg", allowed))
	assert.False(t, Supported("malware.exe", allowed))
	assert.False(t, Supported("noextension", allowed))
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"clean name unchanged", "resume.pdf", "resume.pdf"},
		{"spaces replaced", "my resume.pdf", "my_resume.pdf"},
		{"path traversal stripped", "../../etc/passwd", "passwd"},
		{"special characters replaced", "résumé (final).pdf", "r_sum___final_.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

func TestMIMEType(t *testing.T) {
	assert.Equal(t, "application/pdf", MIMEType("resume.pdf"))
	assert.Equal(t, "text/plain", MIMEType("notes.txt"))
	assert.Equal(t, "image/jpeg", MIMEType("scan.jpg"))
	assert.Equal(t, "application/octet-stream", MIMEType("unknown.xyz"))
}

func TestCleanText(t *testing.T) {
	t.Run("normalizes line endings", func(t *testing.T) {
		result := CleanText("line1\r\nline2\rline3")
		assert.Equal(t, "line1\nline2\nline3", result)
	})

	t.Run("collapses internal whitespace", func(t *testing.T) {
		result := CleanText("John    Doe\tSoftware  Engineer")
		assert.Equal(t, "John Doe Software Engineer", result)
	})

	t.Run("limits consecutive blank lines", func(t *testing.T) {
		result := CleanText("section one\n\n\n\n\nsection two")
		assert.Equal(t, "section one\n\nsection two", result)
	})

	t.Run("preserves bullet lines", func(t *testing.T) {
		result := CleanText("Experience\n- Built APIs\n• Led team")
		assert.Contains(t, result, "- Built APIs")
		assert.Contains(t, result, "• Led team")
	})

	t.Run("removes page markers", func(t *testing.T) {
		result := CleanText("intro\n--- Page 2 ---\nmore text")
		assert.NotContains(t, result, "--- Page 2 ---")
		assert.Contains(t, result, "more text")
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, "", CleanText(""))
	})
}

func TestText_TXT(t *testing.T) {
	content := strings.Repeat("John Doe is a software engineer with Go experience. ", 3)

	text, err := Text(context.Background(), []byte(content), "resume.txt", Options{})
	require.NoError(t, err)
	assert.Contains(t, text, "John Doe")
}

func TestText_UnsupportedFormat(t *testing.T) {
	_, err := Text(context.Background(), []byte("content"), "resume.xyz", Options{})
	require.Error(t, err)

	var unsupported *ErrUnsupportedFormat
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "xyz", unsupported.Format)
}

func TestText_InsufficientText(t *testing.T) {
	_, err := Text(context.Background(), []byte("too short"), "resume.txt", Options{})
	require.Error(t, err)

	var insufficient *ErrInsufficientText
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, "txt", insufficient.Format)
}

func TestText_ImageWithoutOCR(t *testing.T) {
	_, err := Text(context.Background(), []byte{0xFF, 0xD8}, "scan.jpg", Options{PerformOCR: false})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OCR")
}

func TestText_ImageCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Text(ctx, []byte{0xFF, 0xD8}, "scan.jpg", Options{PerformOCR: true})
	assert.Error(t, err)
}

func TestText_CorruptPDF(t *testing.T) {
	_, err := Text(context.Background(), []byte("not a pdf at all"), "resume.pdf", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PDF")
}

func TestText_CorruptDOCX(t *testing.T) {
	_, err := Text(context.Background(), []byte("not a zip archive"), "resume.docx", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DOCX")
}

func TestText_DOCXMissingDocumentPart(t *testing.T) {
	// A valid zip that is not a word processing document
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	fw, err := zw.Create("unrelated.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = Text(context.Background(), buf.Bytes(), "resume.docx", Options{})
	assert.Error(t, err)
}
