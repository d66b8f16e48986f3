// Package parser orchestrates the resume processing pipeline: text
// extraction, LLM structured extraction with regex fallback, optional AI
// enhancement, and post-processing.
package parser

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/jonathan/resume-parser/internal/extract"
	"github.com/jonathan/resume-parser/internal/llm"
	"github.com/jonathan/resume-parser/internal/schemas"
	"github.com/jonathan/resume-parser/internal/store"
	"github.com/jonathan/resume-parser/internal/types"
)

// Pipeline steps reported through the status endpoint.
const (
	StepExtractingText = "extracting_text"
	StepAIAnalysis     = "ai_analysis"
	StepEnhancement    = "ai_enhancement"
	StepFinalizing     = "finalizing"
)

// rawTextLimit caps how much extracted text is persisted with the resume.
const rawTextLimit = 5000

// processTimeout bounds a single background parse.
const processTimeout = 5 * time.Minute

// Config controls parsing behavior.
type Config struct {
	MaxConcurrent  int64 // Max parallel background parses
	DefaultOCR     bool  // OCR images unless the upload says otherwise
	DefaultEnhance bool  // Run AI enhancement unless the upload says otherwise
	TesseractCmd   string
}

// Service runs the parsing pipeline. The LLM client may be nil, in which
// case every parse uses the regex fallback.
type Service struct {
	client llm.Client
	store  store.Store
	config Config
	sem    *semaphore.Weighted
	steps  sync.Map // uuid.UUID -> step string
}

// NewService creates a parsing service.
func NewService(client llm.Client, st store.Store, config Config) *Service {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 4
	}
	return &Service{
		client: client,
		store:  st,
		config: config,
		sem:    semaphore.NewWeighted(config.MaxConcurrent),
	}
}

// CurrentStep returns the pipeline step for an in-flight resume, or ""
// when the resume is not being processed.
func (s *Service) CurrentStep(id uuid.UUID) string {
	if v, ok := s.steps.Load(id); ok {
		return v.(string)
	}
	return ""
}

// ProcessAsync runs the pipeline for an already-stored resume in the
// background, bounded by the concurrency limit, and records the outcome.
func (s *Service) ProcessAsync(resume *types.Resume, content []byte, opts types.ParseOptions) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
		defer cancel()

		if err := s.sem.Acquire(ctx, 1); err != nil {
			s.recordFailure(ctx, resume, fmt.Errorf("processing queue full: %w", err))
			return
		}
		defer s.sem.Release(1)
		defer s.steps.Delete(resume.ID)

		if err := s.process(ctx, resume, content, opts); err != nil {
			s.recordFailure(ctx, resume, err)
		}
	}()
}

// process runs the pipeline and persists the completed resume.
func (s *Service) process(ctx context.Context, resume *types.Resume, content []byte, opts types.ParseOptions) error {
	startTime := time.Now()
	s.steps.Store(resume.ID, StepExtractingText)

	text, err := extract.Text(ctx, content, resume.Metadata.FileName, extract.Options{
		PerformOCR:   opts.OCREnabled(s.config.DefaultOCR),
		TesseractCmd: s.config.TesseractCmd,
	})
	if err != nil {
		return err
	}

	s.steps.Store(resume.ID, StepAIAnalysis)
	doc, method := s.extractDocument(ctx, text)

	if opts.EnhancementEnabled(s.config.DefaultEnhance) && s.client != nil && method == types.ParsingMethodAI {
		s.steps.Store(resume.ID, StepEnhancement)
		if enhancements, err := s.enhance(ctx, doc); err != nil {
			log.Printf("parser: enhancement failed for %s: %v", resume.ID, err)
		} else {
			resume.Enhancements = enhancements
		}
	}

	s.steps.Store(resume.ID, StepFinalizing)
	resume.Confidence = postprocess(doc, method)
	resume.Document = doc
	resume.RawText = truncate(text, rawTextLimit)
	resume.Status = types.StatusCompleted
	resume.Error = ""

	now := time.Now()
	resume.Metadata.FileHash = fileHash(content)
	resume.Metadata.ProcessedAt = now
	resume.Metadata.ProcessingTime = now.Sub(startTime).Seconds()
	resume.Metadata.RawTextLength = len(text)
	resume.Metadata.ParsingMethod = method
	resume.UpdatedAt = now

	if err := s.store.UpdateResume(ctx, resume); err != nil {
		return fmt.Errorf("failed to persist parsed resume: %w", err)
	}
	log.Printf("parser: completed %s in %.2fs (method=%s)", resume.ID, resume.Metadata.ProcessingTime, method)
	return nil
}

// extractDocument runs LLM extraction and falls back to regex parsing on
// any failure.
func (s *Service) extractDocument(ctx context.Context, text string) (*types.ResumeDocument, string) {
	if s.client == nil {
		return fallbackParse(text), types.ParsingMethodFallback
	}

	doc, err := s.llmExtract(ctx, text)
	if err != nil {
		log.Printf("parser: LLM extraction failed, using fallback: %v", err)
		return fallbackParse(text), types.ParsingMethodFallback
	}
	return doc, types.ParsingMethodAI
}

func (s *Service) llmExtract(ctx context.Context, text string) (*types.ResumeDocument, error) {
	prompt := llm.BuildExtractionPrompt(llm.ResumeSchema(), text)

	raw, err := s.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, err
	}

	if err := schemas.ValidateResumeDocument([]byte(raw)); err != nil {
		return nil, fmt.Errorf("model output rejected: %w", err)
	}

	var doc types.ResumeDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model output: %w", err)
	}
	return &doc, nil
}

// enhance asks the LLM for quality insights on the parsed document.
func (s *Service) enhance(ctx context.Context, doc *types.ResumeDocument) (*types.AIEnhancements, error) {
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}

	prompt := llm.BuildExtractionPrompt(llm.EnhancementSchema(), string(docJSON))
	raw, err := s.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, err
	}

	var enhancements types.AIEnhancements
	if err := json.Unmarshal([]byte(raw), &enhancements); err != nil {
		return nil, fmt.Errorf("failed to unmarshal enhancements: %w", err)
	}
	if enhancements.QualityScore < 0 {
		enhancements.QualityScore = 0
	}
	if enhancements.QualityScore > 100 {
		enhancements.QualityScore = 100
	}
	if len(enhancements.Suggestions) > 5 {
		enhancements.Suggestions = enhancements.Suggestions[:5]
	}
	return &enhancements, nil
}

// ParseSync runs the pipeline inline and returns the parsed resume. Used
// by the CLI parse command.
func (s *Service) ParseSync(ctx context.Context, content []byte, filename string, opts types.ParseOptions) (*types.Resume, error) {
	now := time.Now()
	resume := &types.Resume{
		ID:     uuid.New(),
		Status: types.StatusProcessing,
		Metadata: types.FileMetadata{
			FileName:   extract.SanitizeFilename(filename),
			FileSize:   int64(len(content)),
			FileType:   extract.MIMEType(filename),
			UploadedAt: now,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateResume(ctx, resume); err != nil {
		return nil, err
	}
	defer s.steps.Delete(resume.ID)

	if err := s.process(ctx, resume, content, opts); err != nil {
		s.recordFailure(ctx, resume, err)
		return nil, err
	}
	return resume, nil
}

func (s *Service) recordFailure(ctx context.Context, resume *types.Resume, cause error) {
	log.Printf("parser: failed %s: %v", resume.ID, cause)
	resume.Status = types.StatusFailed
	resume.Error = cause.Error()
	resume.UpdatedAt = time.Now()
	if err := s.store.UpdateResume(ctx, resume); err != nil {
		log.Printf("parser: failed to record failure for %s: %v", resume.ID, err)
	}
}

func fileHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	// Back up to a rune boundary so the cut never leaves invalid UTF-8
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
