// Package matching scores parsed resumes against job descriptions using
// weighted category scoring with an optional LLM-generated explanation.
package matching

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/jonathan/resume-parser/internal/llm"
	"github.com/jonathan/resume-parser/internal/types"
)

// Category weights. They sum to 1.0 so the overall score stays on the
// 0-100 scale.
const (
	skillsWeight     = 0.40
	experienceWeight = 0.25
	educationWeight  = 0.15
	keywordsWeight   = 0.20
)

// Required skills count double against preferred ones.
const requiredSkillFactor = 2.0

// Recommendation labels returned with a match.
const (
	RecommendationStrong         = "strong_match"
	RecommendationGood           = "good_match"
	RecommendationPossible       = "possible_match"
	RecommendationNotRecommended = "not_recommended"
)

const strengthThreshold = 75.0

// Matcher scores resumes against job descriptions. The LLM client is
// optional; without it explanations fall back to a generated summary.
type Matcher struct {
	client    llm.Client
	threshold float64 // Minimum 0-1 score for a possible match
}

// NewMatcher creates a matcher. threshold is the 0-1 cutoff below which a
// match is not recommended.
func NewMatcher(client llm.Client, threshold float64) *Matcher {
	if threshold <= 0 || threshold > 1 {
		threshold = 0.6
	}
	return &Matcher{client: client, threshold: threshold}
}

// Match scores a resume document against a job description.
func (m *Matcher) Match(ctx context.Context, doc *types.ResumeDocument, job *types.JobDescription, opts types.MatchOptions) (*types.MatchingResults, error) {
	if doc == nil {
		return nil, fmt.Errorf("resume document is required")
	}

	resumeSkills := normalizeSkillSet(doc.Skills, doc.Tools)

	skillsScore := m.scoreSkills(resumeSkills, job)
	experienceScore := m.scoreExperience(doc, job)
	educationScore := m.scoreEducation(doc, job)
	keywordsScore := m.scoreKeywords(doc, job)

	categories := map[string]types.CategoryScore{
		"skills":     skillsScore,
		"experience": experienceScore,
		"education":  educationScore,
		"keywords":   keywordsScore,
	}

	overall := skillsScore.Score*skillsWeight +
		experienceScore.Score*experienceWeight +
		educationScore.Score*educationWeight +
		keywordsScore.Score*keywordsWeight

	results := &types.MatchingResults{
		OverallScore:   round1(overall),
		Confidence:     m.confidence(doc, job),
		Recommendation: m.recommendation(overall),
		CategoryScores: categories,
		StrengthAreas:  strengthAreas(categories),
	}

	if opts.SuggestImprovements || opts.DetailedBreakdown {
		results.GapAnalysis = gapAnalysis(skillsScore, experienceScore, doc, job)
	}
	if !opts.DetailedBreakdown {
		// Trim per-category matched/missing detail from the response
		for name, cat := range results.CategoryScores {
			cat.Matched = nil
			cat.Missing = nil
			results.CategoryScores[name] = cat
		}
	}

	if opts.IncludeExplanation {
		results.Explanation = m.explain(ctx, results, doc, job)
	}

	return results, nil
}

// scoreSkills computes weighted overlap between resume skills and the
// job's required and preferred skills.
func (m *Matcher) scoreSkills(resumeSkills map[string]bool, job *types.JobDescription) types.CategoryScore {
	score := types.CategoryScore{Weight: skillsWeight}

	var totalWeight, matchedWeight float64
	var matched, missing []string

	scoreSet := func(skills []string, weight float64) {
		for _, skill := range skills {
			normalized := NormalizeSkill(skill)
			if normalized == "" {
				continue
			}
			totalWeight += weight
			if resumeSkills[normalized] {
				matchedWeight += weight
				matched = append(matched, skill)
			} else {
				missing = append(missing, skill)
			}
		}
	}
	scoreSet(job.Requirements.Required, requiredSkillFactor)
	scoreSet(job.Requirements.Preferred, 1.0)
	scoreSet(job.Skills.Required, requiredSkillFactor)
	scoreSet(job.Skills.Preferred, 1.0)

	if totalWeight == 0 {
		// Nothing to match against, neutral score
		score.Score = 50
		return score
	}

	score.Score = round1(matchedWeight / totalWeight * 100)
	score.Matched = matched
	score.Missing = missing
	return score
}

// scoreExperience compares total years of experience to the job minimum
// and preferred levels.
func (m *Matcher) scoreExperience(doc *types.ResumeDocument, job *types.JobDescription) types.CategoryScore {
	score := types.CategoryScore{Weight: experienceWeight}

	years := doc.TotalYearsOfExperience
	minimum := float64(job.Experience.Minimum)
	preferred := float64(job.Experience.Preferred)

	switch {
	case minimum == 0 && preferred == 0:
		// No stated requirement, score on having any history at all
		if len(doc.WorkExperience) > 0 {
			score.Score = 75
		} else {
			score.Score = 40
		}
	case preferred > minimum && years >= preferred:
		score.Score = 100
	case years >= minimum:
		if preferred > minimum {
			// Scale between minimum and preferred
			score.Score = round1(70 + 30*(years-minimum)/(preferred-minimum))
		} else {
			score.Score = 100
		}
	case minimum > 0:
		// Partial credit approaching the minimum
		score.Score = round1(70 * years / minimum)
	}

	if score.Score > 100 {
		score.Score = 100
	}
	return score
}

// scoreEducation checks whether the resume carries any degree, and
// whether its field overlaps the job description text.
func (m *Matcher) scoreEducation(doc *types.ResumeDocument, job *types.JobDescription) types.CategoryScore {
	score := types.CategoryScore{Weight: educationWeight}

	if len(doc.Education) == 0 {
		score.Score = 30
		return score
	}
	score.Score = 70

	jobText := strings.ToLower(job.Description + " " + job.Title)
	for _, edu := range doc.Education {
		field := strings.ToLower(edu.Field)
		if field != "" && strings.Contains(jobText, field) {
			score.Score = 100
			score.Matched = append(score.Matched, edu.Field)
			break
		}
	}
	return score
}

// scoreKeywords measures how many distinctive words from the job
// description appear in the resume text.
func (m *Matcher) scoreKeywords(doc *types.ResumeDocument, job *types.JobDescription) types.CategoryScore {
	score := types.CategoryScore{Weight: keywordsWeight}

	keywords := extractKeywords(job.Description)
	if len(keywords) == 0 {
		score.Score = 50
		return score
	}

	resumeText := strings.ToLower(documentText(doc))
	var matched []string
	for _, kw := range keywords {
		if strings.Contains(resumeText, kw) {
			matched = append(matched, kw)
		}
	}

	score.Score = round1(float64(len(matched)) / float64(len(keywords)) * 100)
	score.Matched = matched
	return score
}

// recommendation maps an overall score to a label.
func (m *Matcher) recommendation(overall float64) string {
	switch {
	case overall >= 80:
		return RecommendationStrong
	case overall >= 65:
		return RecommendationGood
	case overall >= m.threshold*100:
		return RecommendationPossible
	default:
		return RecommendationNotRecommended
	}
}

// confidence reflects how much signal both sides provided.
func (m *Matcher) confidence(doc *types.ResumeDocument, job *types.JobDescription) float64 {
	confidence := 0.5
	if len(doc.Skills) > 0 {
		confidence += 0.15
	}
	if len(doc.WorkExperience) > 0 {
		confidence += 0.15
	}
	if len(job.Requirements.Required) > 0 {
		confidence += 0.1
	}
	if len(strings.Fields(job.Description)) >= 30 {
		confidence += 0.1
	}
	if confidence > 1 {
		confidence = 1
	}
	return round2(confidence)
}

// strengthAreas lists categories scoring at or above the strength cutoff.
func strengthAreas(categories map[string]types.CategoryScore) []string {
	var areas []string
	for name, cat := range categories {
		if cat.Score >= strengthThreshold {
			areas = append(areas, name)
		}
	}
	sort.Strings(areas)
	return areas
}

// gapAnalysis turns missing required skills and experience shortfalls
// into actionable gaps.
func gapAnalysis(skills, experience types.CategoryScore, doc *types.ResumeDocument, job *types.JobDescription) *types.GapAnalysis {
	ga := &types.GapAnalysis{}

	requiredSet := normalizeSkillSet(job.Requirements.Required)
	for _, missing := range skills.Missing {
		if requiredSet[NormalizeSkill(missing)] {
			ga.CriticalGaps = append(ga.CriticalGaps, types.Gap{
				Missing:    missing,
				Suggestion: fmt.Sprintf("Gain hands-on experience with %s or highlight related work already done", missing),
			})
		} else {
			ga.Improvements = append(ga.Improvements, fmt.Sprintf("Consider adding %s to strengthen the application", missing))
		}
	}

	if minimum := job.Experience.Minimum; minimum > 0 && doc.TotalYearsOfExperience < float64(minimum) {
		ga.CriticalGaps = append(ga.CriticalGaps, types.Gap{
			Missing: fmt.Sprintf("%d+ years of experience", minimum),
			Suggestion: fmt.Sprintf("Resume shows %.1f years against a %d year minimum; surface earlier or freelance work if applicable",
				doc.TotalYearsOfExperience, minimum),
		})
	}
	return ga
}

// explain produces a prose explanation of the match, preferring the LLM
// and falling back to a deterministic summary.
func (m *Matcher) explain(ctx context.Context, results *types.MatchingResults, doc *types.ResumeDocument, job *types.JobDescription) string {
	if m.client != nil {
		prompt := fmt.Sprintf(`You are a technical recruiter. In 2-3 sentences, explain why a candidate scored %.0f/100 for the role "%s".
Candidate skills: %s. Candidate experience: %.1f years.
Category scores: skills %.0f, experience %.0f, education %.0f, keywords %.0f.
Be specific and neutral. Return plain text only.`,
			results.OverallScore, job.Title,
			strings.Join(doc.Skills, ", "), doc.TotalYearsOfExperience,
			results.CategoryScores["skills"].Score, results.CategoryScores["experience"].Score,
			results.CategoryScores["education"].Score, results.CategoryScores["keywords"].Score)

		explanation, err := m.client.GenerateContent(ctx, prompt, llm.TierLite)
		if err == nil && strings.TrimSpace(explanation) != "" {
			return strings.TrimSpace(explanation)
		}
		log.Printf("matching: explanation generation failed: %v", err)
	}

	return fmt.Sprintf("Overall score %.0f/100 (%s). Skills matched at %.0f%%, experience at %.0f%%.",
		results.OverallScore, results.Recommendation,
		results.CategoryScores["skills"].Score, results.CategoryScores["experience"].Score)
}

// documentText flattens the parts of a document used for keyword search.
func documentText(doc *types.ResumeDocument) string {
	var sb strings.Builder
	sb.WriteString(doc.Summary)
	sb.WriteString(" ")
	sb.WriteString(strings.Join(doc.Skills, " "))
	sb.WriteString(" ")
	sb.WriteString(strings.Join(doc.Tools, " "))
	for _, exp := range doc.WorkExperience {
		sb.WriteString(" ")
		sb.WriteString(exp.Title)
		sb.WriteString(" ")
		sb.WriteString(strings.Join(exp.Description, " "))
	}
	for _, edu := range doc.Education {
		sb.WriteString(" ")
		sb.WriteString(edu.Degree)
		sb.WriteString(" ")
		sb.WriteString(edu.Field)
	}
	return sb.String()
}

// stopWords excluded from keyword extraction.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "you": true,
	"will": true, "are": true, "our": true, "have": true, "this": true,
	"that": true, "from": true, "your": true, "their": true, "work": true,
	"team": true, "role": true, "who": true, "can": true, "all": true,
	"has": true, "not": true, "but": true, "job": true, "about": true,
	"what": true, "when": true, "they": true, "them": true, "were": true,
	"been": true, "being": true, "into": true, "over": true, "under": true,
	"more": true, "than": true, "such": true, "other": true, "using": true,
	"able": true, "well": true, "also": true, "etc": true, "per": true,
}

// extractKeywords pulls distinctive lowercase words of 3+ characters from
// the job description, capped at 25.
func extractKeywords(description string) []string {
	seen := make(map[string]bool)
	var keywords []string
	for _, word := range strings.Fields(strings.ToLower(description)) {
		word = strings.Trim(word, ".,;:()[]{}\"'!?/")
		if len(word) < 3 || stopWords[word] || seen[word] {
			continue
		}
		seen[word] = true
		keywords = append(keywords, word)
		if len(keywords) >= 25 {
			break
		}
	}
	return keywords
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
