package extract

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"
)

const ocrTimeout = 60 * time.Second

// extractImage runs OCR over image content using the tesseract CLI.
// tesseractCmd is the binary path; empty means "tesseract" on PATH.
func extractImage(ctx context.Context, content []byte, tesseractCmd string) (string, error) {
	if tesseractCmd == "" {
		tesseractCmd = "tesseract"
	}
	if _, err := exec.LookPath(tesseractCmd); err != nil {
		return "", fmt.Errorf("tesseract not available: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, ocrTimeout)
	defer cancel()

	// Read image from stdin, write recognized text to stdout
	cmd := exec.CommandContext(ctx, tesseractCmd, "stdin", "stdout", "-l", "eng")
	cmd.Stdin = bytes.NewReader(content)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract failed: %w (%s)", err, stderr.String())
	}

	return stdout.String(), nil
}
