package extract

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

var (
	paragraphCloseRe = regexp.MustCompile(`</w:p>`)
	tabRe            = regexp.MustCompile(`<w:tab[^>]*/>`)
	breakRe          = regexp.MustCompile(`<w:br[^>]*/>`)
	xmlTagRe         = regexp.MustCompile(`<[^>]+>`)
)

// extractDOCX extracts text from DOCX content. The document XML is read
// through the docx package and flattened to plain text, mapping paragraph
// and line break elements to newlines.
func extractDOCX(data []byte) (string, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read DOCX: %w", err)
	}
	defer r.Close()

	content := r.Editable().GetContent()

	content = paragraphCloseRe.ReplaceAllString(content, "\n")
	content = breakRe.ReplaceAllString(content, "\n")
	content = tabRe.ReplaceAllString(content, "\t")
	content = xmlTagRe.ReplaceAllString(content, "")

	content = strings.ReplaceAll(content, "&amp;", "&")
	content = strings.ReplaceAll(content, "&lt;", "<")
	content = strings.ReplaceAll(content, "&gt;", ">")
	content = strings.ReplaceAll(content, "&quot;", `"`)
	content = strings.ReplaceAll(content, "&apos;", "'")

	return content, nil
}
