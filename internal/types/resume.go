// Package types defines the shared data structures for parsed resumes and
// job matching.
package types

import (
	"time"

	"github.com/google/uuid"
)

// Resume processing statuses.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Parsing methods recorded in file metadata.
const (
	ParsingMethodAI       = "ai"
	ParsingMethodFallback = "fallback"
)

// ContactInfo holds contact details extracted from a resume.
type ContactInfo struct {
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	LinkedIn   string `json:"linkedin,omitempty"`
	Location   string `json:"location,omitempty"`
	Portfolio  string `json:"portfolio,omitempty"`
	EmailValid *bool  `json:"emailValid,omitempty"`
	PhoneValid *bool  `json:"phoneValid,omitempty"`
}

// Experience is a single work history entry.
type Experience struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location,omitempty"`
	StartDate   string   `json:"start_date,omitempty"` // YYYY-MM
	EndDate     string   `json:"end_date,omitempty"`   // YYYY-MM or "Present"
	Description []string `json:"description,omitempty"`
}

// Education is a single education history entry.
type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
}

// Project is a personal or professional project entry.
type Project struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Link        string `json:"link,omitempty"`
}

// ResumeDocument is the structured resume content as returned by the LLM
// (or the fallback parser).
type ResumeDocument struct {
	Name                   string       `json:"name"`
	ContactInfo            ContactInfo  `json:"contact_info"`
	Summary                string       `json:"summary,omitempty"`
	WorkExperience         []Experience `json:"work_experience"`
	Education              []Education  `json:"education"`
	Projects               []Project    `json:"projects,omitempty"`
	Skills                 []string     `json:"skills"`
	Tools                  []string     `json:"tools,omitempty"`
	Certifications         []string     `json:"certifications,omitempty"`
	TotalYearsOfExperience float64      `json:"totalYearsOfExperience"`
}

// FileMetadata describes the uploaded file and how it was processed.
type FileMetadata struct {
	FileName       string    `json:"fileName"`
	FileSize       int64     `json:"fileSize"`
	FileType       string    `json:"fileType"`
	FileHash       string    `json:"fileHash"`
	UploadedAt     time.Time `json:"uploadedAt"`
	ProcessedAt    time.Time `json:"processedAt,omitempty"`
	ProcessingTime float64   `json:"processingTime,omitempty"` // seconds
	RawTextLength  int       `json:"rawTextLength,omitempty"`
	ParsingMethod  string    `json:"parsingMethod,omitempty"`
}

// AIEnhancements holds optional AI-generated insights about a resume.
type AIEnhancements struct {
	EnhancedSummary string   `json:"enhancedSummary,omitempty"`
	QualityScore    float64  `json:"qualityScore,omitempty"` // 0-100
	CareerLevel     string   `json:"careerLevel,omitempty"`
	Suggestions     []string `json:"suggestions,omitempty"`
}

// ConfidenceScores expresses per-section extraction confidence (0-1).
type ConfidenceScores struct {
	Overall     float64 `json:"overall"`
	ContactInfo float64 `json:"contactInfo"`
	Experience  float64 `json:"experience"`
	Education   float64 `json:"education"`
	Skills      float64 `json:"skills"`
}

// Resume is the persisted resume record.
type Resume struct {
	ID           uuid.UUID         `json:"id"`
	Status       string            `json:"status"`
	Metadata     FileMetadata      `json:"metadata"`
	RawText      string            `json:"rawText,omitempty"`
	Document     *ResumeDocument   `json:"document,omitempty"`
	Enhancements *AIEnhancements   `json:"aiEnhancements,omitempty"`
	Confidence   *ConfidenceScores `json:"confidenceScores,omitempty"`
	Error        string            `json:"error,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// ParseOptions controls optional parsing behavior, supplied alongside an
// upload as a JSON form field. Pointer fields distinguish "unset" from
// explicit false.
type ParseOptions struct {
	PerformOCR    *bool `json:"performOCR,omitempty"`
	EnhanceWithAI *bool `json:"enhanceWithAI,omitempty"`
}

// OCREnabled reports whether OCR should be attempted, using the service
// default when the option is unset.
func (o ParseOptions) OCREnabled(def bool) bool {
	if o.PerformOCR == nil {
		return def
	}
	return *o.PerformOCR
}

// EnhancementEnabled reports whether AI enhancement should run, using the
// service default when the option is unset.
func (o ParseOptions) EnhancementEnabled(def bool) bool {
	if o.EnhanceWithAI == nil {
		return def
	}
	return *o.EnhanceWithAI
}
