// Package analytics derives quality metrics for individual resumes and
// aggregate market insights across the stored corpus.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jonathan/resume-parser/internal/matching"
	"github.com/jonathan/resume-parser/internal/store"
	"github.com/jonathan/resume-parser/internal/types"
)

// Career levels in ascending seniority.
const (
	LevelEntry     = "entry"
	LevelMid       = "mid"
	LevelSenior    = "senior"
	LevelLead      = "lead"
	LevelExecutive = "executive"
)

// SalaryEstimate is a rough annual salary range for a career level.
type SalaryEstimate struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Currency string `json:"currency"`
}

// ResumeAnalytics summarizes the quality of a single resume.
type ResumeAnalytics struct {
	QualityScore           float64        `json:"qualityScore"`
	CompletenessScore      float64        `json:"completenessScore"`
	CareerLevel            string         `json:"careerLevel"`
	SalaryEstimate         SalaryEstimate `json:"salaryEstimate"`
	ImprovementSuggestions []string       `json:"improvementSuggestions"`
}

// SkillCount is a skill with its frequency across the corpus.
type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// SalaryTrend is the estimated salary range for a career level with its
// share of the corpus.
type SalaryTrend struct {
	CareerLevel string         `json:"careerLevel"`
	Estimate    SalaryEstimate `json:"estimate"`
	Share       float64        `json:"share"`
}

// MarketAnalytics aggregates insights across processed resumes.
type MarketAnalytics struct {
	TopSkills            []SkillCount   `json:"topSkills"`
	SalaryTrends         []SalaryTrend  `json:"salaryTrends"`
	IndustryDistribution map[string]int `json:"industryDistribution"`
	TotalResumes         int            `json:"totalResumes"`
	Timeframe            string         `json:"timeframe"`
	Industry             string         `json:"industry,omitempty"`
}

// salaryTable maps career level to a default USD salary range.
var salaryTable = map[string]SalaryEstimate{
	LevelEntry:     {Min: 55000, Max: 85000, Currency: "USD"},
	LevelMid:       {Min: 85000, Max: 125000, Currency: "USD"},
	LevelSenior:    {Min: 125000, Max: 175000, Currency: "USD"},
	LevelLead:      {Min: 160000, Max: 220000, Currency: "USD"},
	LevelExecutive: {Min: 200000, Max: 320000, Currency: "USD"},
}

// Service computes analytics over the store.
type Service struct {
	store store.Store
}

// NewService creates an analytics service.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// ForResume computes quality analytics for a completed resume. AI
// assessments take precedence over heuristics when present.
func (s *Service) ForResume(resume *types.Resume) (*ResumeAnalytics, error) {
	if resume.Document == nil {
		return nil, fmt.Errorf("resume has no parsed document")
	}
	doc := resume.Document

	completeness := completenessScore(doc)

	level := careerLevel(doc)
	if resume.Enhancements != nil && resume.Enhancements.CareerLevel != "" {
		if _, ok := salaryTable[resume.Enhancements.CareerLevel]; ok {
			level = resume.Enhancements.CareerLevel
		}
	}

	quality := qualityScore(doc, completeness)
	if resume.Enhancements != nil && resume.Enhancements.QualityScore > 0 {
		quality = resume.Enhancements.QualityScore
	}

	analytics := &ResumeAnalytics{
		QualityScore:      round1(quality),
		CompletenessScore: round1(completeness),
		CareerLevel:       level,
		SalaryEstimate:    salaryTable[level],
	}

	analytics.ImprovementSuggestions = suggestions(doc)
	if resume.Enhancements != nil && len(resume.Enhancements.Suggestions) > 0 {
		analytics.ImprovementSuggestions = resume.Enhancements.Suggestions
	}

	return analytics, nil
}

// Market aggregates skills, career levels, and industries across
// completed resumes. timeframe and industry are echoed back so clients
// can correlate responses with requests.
func (s *Service) Market(ctx context.Context, timeframe, industry string) (*MarketAnalytics, error) {
	resumes, err := s.store.ListResumes(ctx, store.ResumeFilter{
		Status: types.StatusCompleted,
		Limit:  1000,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load resumes: %w", err)
	}

	if timeframe == "" {
		timeframe = "all"
	}
	result := &MarketAnalytics{
		Timeframe:            timeframe,
		Industry:             industry,
		IndustryDistribution: make(map[string]int),
	}

	cutoff := timeframeCutoff(timeframe)

	skillCounts := make(map[string]int)
	levelCounts := make(map[string]int)
	total := 0

	for _, resume := range resumes {
		if resume.Document == nil {
			continue
		}
		if cutoff != nil && resume.CreatedAt.Before(*cutoff) {
			continue
		}

		doc := resume.Document
		resumeIndustry := inferIndustry(doc)
		if industry != "" && !strings.EqualFold(resumeIndustry, industry) {
			continue
		}

		total++
		result.IndustryDistribution[resumeIndustry]++
		levelCounts[careerLevel(doc)]++
		for _, skill := range doc.Skills {
			if normalized := matching.NormalizeSkill(skill); normalized != "" {
				skillCounts[normalized]++
			}
		}
	}

	result.TotalResumes = total
	result.TopSkills = topSkills(skillCounts, 10)
	result.SalaryTrends = salaryTrends(levelCounts, total)
	return result, nil
}

// completenessScore measures how many expected sections are populated,
// as a 0-100 percentage.
func completenessScore(doc *types.ResumeDocument) float64 {
	checks := []bool{
		doc.Name != "",
		doc.ContactInfo.Email != "" || doc.ContactInfo.Phone != "",
		doc.Summary != "",
		len(doc.WorkExperience) > 0,
		len(doc.Education) > 0,
		len(doc.Skills) > 0,
	}
	populated := 0
	for _, ok := range checks {
		if ok {
			populated++
		}
	}
	return float64(populated) / float64(len(checks)) * 100
}

// qualityScore is a heuristic blend of completeness and content depth.
func qualityScore(doc *types.ResumeDocument, completeness float64) float64 {
	score := completeness * 0.6

	// Depth of experience descriptions
	bullets := 0
	for _, exp := range doc.WorkExperience {
		bullets += len(exp.Description)
	}
	switch {
	case bullets >= 8:
		score += 20
	case bullets >= 4:
		score += 14
	case bullets >= 1:
		score += 8
	}

	// Breadth of skills
	switch {
	case len(doc.Skills) >= 10:
		score += 12
	case len(doc.Skills) >= 5:
		score += 9
	case len(doc.Skills) >= 1:
		score += 5
	}

	if len(doc.Certifications) > 0 || len(doc.Projects) > 0 {
		score += 8
	}
	if score > 100 {
		score = 100
	}
	return score
}

// careerLevel buckets total experience, bumped for leadership titles.
func careerLevel(doc *types.ResumeDocument) string {
	years := doc.TotalYearsOfExperience

	for _, exp := range doc.WorkExperience {
		if hasExecutiveTitle(strings.ToLower(exp.Title)) {
			return LevelExecutive
		}
	}

	switch {
	case years >= 12:
		return LevelLead
	case years >= 7:
		return LevelSenior
	case years >= 3:
		return LevelMid
	default:
		return LevelEntry
	}
}

// hasExecutiveTitle reports whether a lowercased job title names an
// executive role. Acronyms are matched as whole words so titles like
// "Engineering VP" count and incidental substrings do not.
func hasExecutiveTitle(title string) bool {
	if strings.Contains(title, "vice president") ||
		strings.Contains(title, "director") || strings.Contains(title, "chief") {
		return true
	}
	for _, word := range strings.Fields(title) {
		switch strings.Trim(word, ".,()") {
		case "vp", "cto", "ceo", "coo":
			return true
		}
	}
	return false
}

// industryKeywords maps title keywords to an industry bucket.
var industryKeywords = []struct {
	keywords []string
	industry string
}{
	{[]string{"software", "developer", "engineer", "devops", "sre", "programmer", "architect"}, "technology"},
	{[]string{"data", "analyst", "scientist", "machine learning"}, "data"},
	{[]string{"designer", "ux", "ui", "creative"}, "design"},
	{[]string{"marketing", "seo", "content", "brand"}, "marketing"},
	{[]string{"sales", "account executive", "business development"}, "sales"},
	{[]string{"finance", "accountant", "accounting", "auditor"}, "finance"},
	{[]string{"nurse", "doctor", "medical", "clinical", "health"}, "healthcare"},
	{[]string{"teacher", "professor", "instructor", "education"}, "education"},
}

// inferIndustry guesses the industry from the most recent job title.
func inferIndustry(doc *types.ResumeDocument) string {
	for _, exp := range doc.WorkExperience {
		title := strings.ToLower(exp.Title)
		for _, entry := range industryKeywords {
			for _, kw := range entry.keywords {
				if strings.Contains(title, kw) {
					return entry.industry
				}
			}
		}
	}
	return "other"
}

// suggestions derives improvement advice from missing or thin sections.
func suggestions(doc *types.ResumeDocument) []string {
	var out []string
	if doc.Summary == "" {
		out = append(out, "Add a professional summary highlighting your key strengths")
	}
	if doc.ContactInfo.Email == "" {
		out = append(out, "Include an email address so recruiters can reach you")
	}
	if doc.ContactInfo.LinkedIn == "" {
		out = append(out, "Add a LinkedIn profile link")
	}
	if len(doc.Skills) < 5 {
		out = append(out, "List more skills relevant to your target roles")
	}
	bullets := 0
	for _, exp := range doc.WorkExperience {
		bullets += len(exp.Description)
	}
	if len(doc.WorkExperience) > 0 && bullets < len(doc.WorkExperience)*2 {
		out = append(out, "Expand work experience entries with accomplishment bullets")
	}
	if len(doc.Certifications) == 0 && len(doc.Projects) == 0 {
		out = append(out, "Add certifications or projects to demonstrate initiative")
	}
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}

// timeframeCutoff translates a timeframe token into a creation-time
// cutoff. Unknown tokens mean no cutoff.
func timeframeCutoff(timeframe string) *time.Time {
	var d time.Duration
	switch strings.ToLower(timeframe) {
	case "7d", "week":
		d = 7 * 24 * time.Hour
	case "30d", "month":
		d = 30 * 24 * time.Hour
	case "90d", "quarter":
		d = 90 * 24 * time.Hour
	case "365d", "year":
		d = 365 * 24 * time.Hour
	default:
		return nil
	}
	cutoff := time.Now().Add(-d)
	return &cutoff
}

func topSkills(counts map[string]int, limit int) []SkillCount {
	skills := make([]SkillCount, 0, len(counts))
	for skill, count := range counts {
		skills = append(skills, SkillCount{Skill: skill, Count: count})
	}
	sort.Slice(skills, func(i, j int) bool {
		if skills[i].Count != skills[j].Count {
			return skills[i].Count > skills[j].Count
		}
		return skills[i].Skill < skills[j].Skill
	})
	if len(skills) > limit {
		skills = skills[:limit]
	}
	return skills
}

func salaryTrends(levelCounts map[string]int, total int) []SalaryTrend {
	if total == 0 {
		return nil
	}
	levels := []string{LevelEntry, LevelMid, LevelSenior, LevelLead, LevelExecutive}
	var trends []SalaryTrend
	for _, level := range levels {
		count := levelCounts[level]
		if count == 0 {
			continue
		}
		trends = append(trends, SalaryTrend{
			CareerLevel: level,
			Estimate:    salaryTable[level],
			Share:       round2(float64(count) / float64(total)),
		})
	}
	return trends
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
