package extract

import (
	"bytes"
	"fmt"
	"log"
	"strings"

	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// extractPDF extracts text from PDF content using unipdf. Pages that fail
// to extract are skipped so a single corrupt page does not lose the whole
// document.
func extractPDF(data []byte) (string, error) {
	pdfReader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to read PDF: %w", err)
	}

	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("failed to get page count: %w", err)
	}
	if numPages == 0 {
		return "", fmt.Errorf("PDF has no pages")
	}

	var sb strings.Builder
	extractedAnyText := false

	for i := 1; i <= numPages; i++ {
		page, err := pdfReader.GetPage(i)
		if err != nil {
			log.Printf("pdf: skipping page %d: %v", i, err)
			continue
		}

		ex, err := extractor.New(page)
		if err != nil {
			log.Printf("pdf: skipping page %d: %v", i, err)
			continue
		}

		pageText, err := ex.ExtractText()
		if err != nil {
			log.Printf("pdf: skipping page %d: %v", i, err)
			continue
		}

		if pageText != "" {
			extractedAnyText = true
			sb.WriteString(pageText)
			sb.WriteString("\n\n")
		}
	}

	if !extractedAnyText {
		return "", fmt.Errorf("no text could be extracted from any page")
	}

	return strings.TrimSpace(sb.String()), nil
}
