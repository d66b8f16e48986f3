package matching

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-parser/internal/types"
)

func strongCandidate() *types.ResumeDocument {
	return &types.ResumeDocument{
		Name:    "Jane Smith",
		Summary: "Backend engineer building distributed systems in Go and PostgreSQL on Kubernetes.",
		Skills:  []string{"Golang", "PostgreSQL", "Kubernetes", "Docker", "REST APIs"},
		Tools:   []string{"Git", "Terraform"},
		WorkExperience: []types.Experience{
			{Title: "Senior Engineer", Company: "Acme", StartDate: "2018-01", EndDate: "Present",
				Description: []string{"Designed Go microservices", "Operated Kubernetes clusters"}},
		},
		Education: []types.Education{
			{Institution: "State University", Degree: "B.Sc", Field: "Computer Science"},
		},
		TotalYearsOfExperience: 8.0,
	}
}

func backendJob() *types.JobDescription {
	return &types.JobDescription{
		Title:       "Senior Backend Engineer",
		Company:     "Widget Co",
		Description: "We are looking for a senior backend engineer with strong Go and PostgreSQL experience to build distributed systems. Computer science background preferred. Kubernetes operations knowledge required.",
		Experience:  types.ExperienceRequirement{Minimum: 5, Preferred: 8},
		Requirements: types.RequirementSet{
			Required:  []string{"Go", "PostgreSQL", "Kubernetes"},
			Preferred: []string{"Terraform", "gRPC"},
		},
	}
}

func TestMatch_StrongCandidate(t *testing.T) {
	m := NewMatcher(nil, 0.6)

	results, err := m.Match(context.Background(), strongCandidate(), backendJob(), types.MatchOptions{DetailedBreakdown: true})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, results.OverallScore, 80.0)
	assert.Equal(t, RecommendationStrong, results.Recommendation)
	assert.Contains(t, results.StrengthAreas, "skills")
	assert.Contains(t, results.StrengthAreas, "experience")

	skills := results.CategoryScores["skills"]
	assert.GreaterOrEqual(t, skills.Score, 85.0)
	assert.Equal(t, []string{"gRPC"}, skills.Missing)
	assert.InDelta(t, 0.4, skills.Weight, 0.001)

	assert.Equal(t, 100.0, results.CategoryScores["experience"].Score)
	assert.Equal(t, 100.0, results.CategoryScores["education"].Score)
	assert.GreaterOrEqual(t, results.Confidence, 0.9)
}

func TestMatch_AliasNormalization(t *testing.T) {
	m := NewMatcher(nil, 0.6)

	doc := strongCandidate()
	doc.Skills = []string{"golang", "postgres", "k8s"}
	job := backendJob()
	job.Requirements.Preferred = nil

	results, err := m.Match(context.Background(), doc, job, types.MatchOptions{DetailedBreakdown: true})
	require.NoError(t, err)
	assert.Equal(t, 100.0, results.CategoryScores["skills"].Score)
}

func TestMatch_JobSkillsField(t *testing.T) {
	m := NewMatcher(nil, 0.6)

	// Skills supplied through the jobDescription.skills field rather
	// than requirements
	job := &types.JobDescription{
		Title:       "Platform Engineer",
		Description: "Platform team building internal tooling.",
		Skills: types.RequirementSet{
			Required:  []string{"Go", "Docker"},
			Preferred: []string{"Terraform"},
		},
	}

	results, err := m.Match(context.Background(), strongCandidate(), job, types.MatchOptions{DetailedBreakdown: true})
	require.NoError(t, err)

	skills := results.CategoryScores["skills"]
	assert.Equal(t, 100.0, skills.Score)
	assert.ElementsMatch(t, []string{"Go", "Docker", "Terraform"}, skills.Matched)

	// Missing entries from the skills field weigh like requirements
	job.Skills.Required = []string{"Rust"}
	results, err = m.Match(context.Background(), strongCandidate(), job, types.MatchOptions{DetailedBreakdown: true})
	require.NoError(t, err)
	assert.Contains(t, results.CategoryScores["skills"].Missing, "Rust")
	assert.Less(t, results.CategoryScores["skills"].Score, 100.0)
}

func TestMatch_WeakCandidate(t *testing.T) {
	m := NewMatcher(nil, 0.6)

	doc := &types.ResumeDocument{
		Name:                   "Sam Lee",
		Skills:                 []string{"Photoshop", "Illustrator"},
		TotalYearsOfExperience: 1.0,
	}

	results, err := m.Match(context.Background(), doc, backendJob(), types.MatchOptions{SuggestImprovements: true})
	require.NoError(t, err)

	assert.Less(t, results.OverallScore, 60.0)
	assert.Equal(t, RecommendationNotRecommended, results.Recommendation)

	require.NotNil(t, results.GapAnalysis)
	require.NotEmpty(t, results.GapAnalysis.CriticalGaps)

	var missing []string
	for _, gap := range results.GapAnalysis.CriticalGaps {
		missing = append(missing, gap.Missing)
		assert.NotEmpty(t, gap.Suggestion)
	}
	assert.Contains(t, missing, "Go")
	assert.Contains(t, missing, "5+ years of experience")
}

func TestMatch_NoRequirements(t *testing.T) {
	m := NewMatcher(nil, 0.6)

	job := &types.JobDescription{
		Title:       "Engineer",
		Description: "General engineering role.",
	}

	results, err := m.Match(context.Background(), strongCandidate(), job, types.MatchOptions{})
	require.NoError(t, err)
	assert.Greater(t, results.OverallScore, 0.0)
	assert.NotEmpty(t, results.Recommendation)
}

func TestMatch_NilDocument(t *testing.T) {
	m := NewMatcher(nil, 0.6)
	_, err := m.Match(context.Background(), nil, backendJob(), types.MatchOptions{})
	assert.Error(t, err)
}

func TestMatch_BreakdownTrimmedByDefault(t *testing.T) {
	m := NewMatcher(nil, 0.6)

	results, err := m.Match(context.Background(), strongCandidate(), backendJob(), types.MatchOptions{})
	require.NoError(t, err)
	for name, cat := range results.CategoryScores {
		assert.Nil(t, cat.Matched, "category %s", name)
		assert.Nil(t, cat.Missing, "category %s", name)
	}
}

func TestMatch_FallbackExplanation(t *testing.T) {
	m := NewMatcher(nil, 0.6)

	results, err := m.Match(context.Background(), strongCandidate(), backendJob(), types.MatchOptions{IncludeExplanation: true})
	require.NoError(t, err)
	assert.NotEmpty(t, results.Explanation)
	assert.Contains(t, results.Explanation, "Overall score")
}

func TestRecommendationThresholds(t *testing.T) {
	m := NewMatcher(nil, 0.6)

	assert.Equal(t, RecommendationStrong, m.recommendation(85))
	assert.Equal(t, RecommendationGood, m.recommendation(70))
	assert.Equal(t, RecommendationPossible, m.recommendation(62))
	assert.Equal(t, RecommendationNotRecommended, m.recommendation(40))
}

func TestNormalizeSkill(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Golang", "go"},
		{"  Postgres ", "postgresql"},
		{"K8s", "kubernetes"},
		{"Python", "python"},
		{"Node.JS", "node.js"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeSkill(tt.in), "input: %q", tt.in)
	}
}

func TestExtractKeywords(t *testing.T) {
	keywords := extractKeywords("We are looking for a senior Go engineer with PostgreSQL experience.")
	assert.Contains(t, keywords, "senior")
	assert.Contains(t, keywords, "postgresql")
	assert.NotContains(t, keywords, "the")
	assert.NotContains(t, keywords, "are")
}
