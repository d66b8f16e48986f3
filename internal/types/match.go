package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ExperienceRequirement describes the experience expectations of a job.
type ExperienceRequirement struct {
	Minimum   int    `json:"minimum,omitempty"`
	Preferred int    `json:"preferred,omitempty"`
	Level     string `json:"level,omitempty"`
}

// RequirementSet splits job requirements into required and preferred.
type RequirementSet struct {
	Required  []string `json:"required"`
	Preferred []string `json:"preferred,omitempty"`
}

// JobDescription is the job posting a resume is matched against.
type JobDescription struct {
	Title        string                `json:"title" validate:"required"`
	Company      string                `json:"company,omitempty"`
	Location     string                `json:"location,omitempty"`
	Type         string                `json:"type,omitempty"`
	Description  string                `json:"description" validate:"required"`
	Experience   ExperienceRequirement `json:"experience,omitempty"`
	Requirements RequirementSet        `json:"requirements"`
	Skills       RequirementSet        `json:"skills"`
}

// MatchOptions controls optional matching behavior.
type MatchOptions struct {
	IncludeExplanation  bool `json:"includeExplanation,omitempty"`
	DetailedBreakdown   bool `json:"detailedBreakdown,omitempty"`
	SuggestImprovements bool `json:"suggestImprovements,omitempty"`
}

// MatchRequest is the body of POST /resumes/{id}/match.
type MatchRequest struct {
	JobDescription JobDescription `json:"jobDescription" validate:"required"`
	Options        MatchOptions   `json:"options,omitempty"`
}

var matchValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the request against its struct tags.
func (r *MatchRequest) Validate() error {
	return matchValidator.Struct(r)
}

// CategoryScore is the per-category breakdown of a match.
type CategoryScore struct {
	Score   float64  `json:"score"` // 0-100
	Weight  float64  `json:"weight"`
	Matched []string `json:"matched,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

// Gap describes a missing requirement and how to address it.
type Gap struct {
	Missing    string `json:"missing"`
	Suggestion string `json:"suggestion,omitempty"`
}

// GapAnalysis summarizes where the resume falls short of the job.
type GapAnalysis struct {
	CriticalGaps []Gap    `json:"criticalGaps,omitempty"`
	Improvements []string `json:"improvements,omitempty"`
}

// MatchingResults is the scoring outcome of a resume/job match.
type MatchingResults struct {
	OverallScore   float64                  `json:"overallScore"` // 0-100
	Confidence     float64                  `json:"confidence"`   // 0-1
	Recommendation string                   `json:"recommendation"`
	CategoryScores map[string]CategoryScore `json:"categoryScores,omitempty"`
	StrengthAreas  []string                 `json:"strengthAreas,omitempty"`
	GapAnalysis    *GapAnalysis             `json:"gapAnalysis,omitempty"`
	Explanation    string                   `json:"explanation,omitempty"`
}

// MatchRecord is the persisted result of a match operation.
type MatchRecord struct {
	ID           uuid.UUID       `json:"matchId"`
	ResumeID     uuid.UUID       `json:"resumeId"`
	JobTitle     string          `json:"jobTitle"`
	JobCompany   string          `json:"jobCompany,omitempty"`
	OverallScore float64         `json:"overallScore"`
	Results      MatchingResults `json:"matchingResults"`
	CreatedAt    time.Time       `json:"createdAt"`
}
