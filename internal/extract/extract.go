// Package extract provides text extraction from uploaded resume documents.
// It supports text-based formats (PDF, DOCX, TXT) directly and image
// formats through OCR.
package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinTextLength is the minimum number of characters an extraction must
// yield to be considered usable downstream.
const MinTextLength = 50

// Options controls extraction behavior.
type Options struct {
	PerformOCR   bool   // Attempt OCR for image formats
	TesseractCmd string // Path to the tesseract binary
}

// ErrInsufficientText indicates extraction produced too little text to parse.
type ErrInsufficientText struct {
	Format string
	Length int
}

func (e *ErrInsufficientText) Error() string {
	return fmt.Sprintf("could not extract sufficient text from %s file (%d characters)", strings.ToUpper(e.Format), e.Length)
}

// ErrUnsupportedFormat indicates the file extension has no extractor.
type ErrUnsupportedFormat struct {
	Format string
}

func (e *ErrUnsupportedFormat) Error() string {
	return fmt.Sprintf("unsupported file format: %s", e.Format)
}

// Text extracts plain text from file content, dispatching on the filename
// extension. The returned text is cleaned and normalized. Cancelling ctx
// stops a running OCR subprocess.
func Text(ctx context.Context, content []byte, filename string, opts Options) (string, error) {
	ext := Extension(filename)

	var text string
	var err error

	switch ext {
	case "pdf":
		text, err = extractPDF(content)
	case "docx", "doc":
		text, err = extractDOCX(content)
	case "txt":
		text = decodeText(content)
	case "jpg", "jpeg", "png":
		if !opts.PerformOCR {
			return "", fmt.Errorf("OCR is required for image files but was disabled")
		}
		text, err = extractImage(ctx, content, opts.TesseractCmd)
	default:
		return "", &ErrUnsupportedFormat{Format: ext}
	}
	if err != nil {
		return "", fmt.Errorf("failed to extract text from %s file: %w", strings.ToUpper(ext), err)
	}

	text = CleanText(text)
	if len(strings.TrimSpace(text)) < MinTextLength {
		return "", &ErrInsufficientText{Format: ext, Length: len(strings.TrimSpace(text))}
	}

	return text, nil
}

// Extension returns the lowercased filename extension without the dot.
func Extension(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}

// Supported reports whether the filename extension appears in the allowed
// extension list.
func Supported(filename string, allowed []string) bool {
	ext := Extension(filename)
	for _, a := range allowed {
		if strings.EqualFold(strings.TrimSpace(a), ext) {
			return true
		}
	}
	return false
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeFilename replaces characters that could form unsafe paths.
func SanitizeFilename(filename string) string {
	// Strip any directory components first
	filename = filepath.Base(filename)
	return unsafeFilenameChars.ReplaceAllString(filename, "_")
}

// MIMEType returns the MIME type for a filename based on its extension.
func MIMEType(filename string) string {
	switch Extension(filename) {
	case "pdf":
		return "application/pdf"
	case "docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case "doc":
		return "application/msword"
	case "txt":
		return "text/plain"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

// decodeText interprets raw bytes as UTF-8 text, dropping invalid sequences.
func decodeText(content []byte) string {
	if utf8.Valid(content) {
		return string(content)
	}
	return strings.ToValidUTF8(string(content), "")
}
