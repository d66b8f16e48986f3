package parser

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-parser/internal/types"
)

// Regex-based extraction used when no LLM client is configured or the
// LLM call fails. Produces a best-effort document with reduced confidence.

var (
	emailRe    = regexp.MustCompile(`[\w.+-]+@[\w-]+\.[\w.-]+`)
	phoneRe    = regexp.MustCompile(`\+?[0-9][0-9()\s.-]{6,18}[0-9]`)
	linkedinRe = regexp.MustCompile(`(?i)linkedin\.com/in/[A-Za-z0-9_-]+`)
	urlRe      = regexp.MustCompile(`(?i)https?://[^\s]+|(?:github\.io|github\.com)/[A-Za-z0-9_-]+`)
)

// sectionHeadings maps normalized heading text to a canonical section name.
var sectionHeadings = map[string]string{
	"summary":                 "summary",
	"professional summary":    "summary",
	"objective":               "summary",
	"about":                   "summary",
	"experience":              "experience",
	"work experience":         "experience",
	"employment history":      "experience",
	"professional experience": "experience",
	"education":               "education",
	"skills":                  "skills",
	"technical skills":        "skills",
	"core competencies":       "skills",
	"certifications":          "certifications",
	"certificates":            "certifications",
	"projects":                "projects",
}

// fallbackParse extracts a resume document from raw text using pattern
// matching and section heuristics.
func fallbackParse(text string) *types.ResumeDocument {
	doc := &types.ResumeDocument{}
	lines := strings.Split(text, "\n")

	// Name: first non-empty line that is not contact info
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if emailRe.MatchString(line) || phoneRe.MatchString(line) || urlRe.MatchString(line) {
			continue
		}
		if len(line) <= 60 {
			doc.Name = line
		}
		break
	}

	if email := emailRe.FindString(text); email != "" {
		doc.ContactInfo.Email = email
	}
	if phone := phoneRe.FindString(text); phone != "" {
		doc.ContactInfo.Phone = strings.TrimSpace(phone)
	}
	if linkedin := linkedinRe.FindString(text); linkedin != "" {
		doc.ContactInfo.LinkedIn = linkedin
	}

	sections := splitSections(lines)

	if summary, ok := sections["summary"]; ok {
		doc.Summary = strings.TrimSpace(strings.Join(summary, " "))
	}
	if skills, ok := sections["skills"]; ok {
		doc.Skills = parseSkillList(skills)
	}
	if certs, ok := sections["certifications"]; ok {
		doc.Certifications = parseItemList(certs)
	}
	if exp, ok := sections["experience"]; ok {
		doc.WorkExperience = parseExperienceSection(exp)
	}
	if edu, ok := sections["education"]; ok {
		doc.Education = parseEducationSection(edu)
	}

	return doc
}

// splitSections groups lines under recognized section headings.
func splitSections(lines []string) map[string][]string {
	sections := make(map[string][]string)
	current := ""
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		normalized := strings.ToLower(strings.TrimRight(trimmed, ":"))
		if section, ok := sectionHeadings[normalized]; ok {
			current = section
			continue
		}
		if current != "" {
			sections[current] = append(sections[current], trimmed)
		}
	}
	return sections
}

// parseSkillList splits skill lines on common separators.
func parseSkillList(lines []string) []string {
	var skills []string
	seen := make(map[string]bool)
	for _, line := range lines {
		line = strings.TrimLeft(line, "-•·* ")
		for _, part := range strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ';' || r == '|'
		}) {
			skill := strings.TrimSpace(part)
			if skill == "" || len(skill) > 50 {
				continue
			}
			key := strings.ToLower(skill)
			if !seen[key] {
				seen[key] = true
				skills = append(skills, skill)
			}
		}
	}
	return skills
}

// parseItemList returns one entry per non-empty line, bullets stripped.
func parseItemList(lines []string) []string {
	var items []string
	for _, line := range lines {
		item := strings.TrimSpace(strings.TrimLeft(line, "-•·* "))
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

var dateRangeRe = regexp.MustCompile(`(?i)((?:19|20)\d{2})(?:[-/](\d{1,2}))?\s*(?:-|–|to)\s*((?:19|20)\d{2}(?:[-/]\d{1,2})?|present|current)`)

// parseExperienceSection builds experience entries. A line containing a
// date range starts a new entry; bullet lines attach to the current one.
func parseExperienceSection(lines []string) []types.Experience {
	var experiences []types.Experience
	var current *types.Experience

	for _, line := range lines {
		if m := dateRangeRe.FindStringSubmatch(line); m != nil {
			if current != nil {
				experiences = append(experiences, *current)
			}
			current = &types.Experience{
				StartDate: normalizeDate(m[1], m[2]),
				EndDate:   normalizeEndDate(m[3]),
			}
			header := strings.TrimSpace(dateRangeRe.ReplaceAllString(line, ""))
			header = strings.Trim(header, " -–|,")
			// "Title at Company" or "Title, Company" or "Title | Company"
			title, company := splitTitleCompany(header)
			current.Title = title
			current.Company = company
			continue
		}

		if current == nil {
			continue
		}
		if bullet := strings.TrimLeft(line, "-•·* "); bullet != line {
			current.Description = append(current.Description, strings.TrimSpace(bullet))
		} else if current.Company == "" && current.Title != "" {
			current.Company = strings.TrimSpace(line)
		} else {
			current.Description = append(current.Description, strings.TrimSpace(line))
		}
	}
	if current != nil {
		experiences = append(experiences, *current)
	}
	return experiences
}

func splitTitleCompany(header string) (title, company string) {
	for _, sep := range []string{" at ", " @ ", " | ", ", ", " - "} {
		if idx := strings.Index(header, sep); idx > 0 {
			return strings.TrimSpace(header[:idx]), strings.TrimSpace(header[idx+len(sep):])
		}
	}
	return strings.TrimSpace(header), ""
}

// parseEducationSection builds one education entry per line mentioning a
// degree keyword, otherwise per line with a date range.
func parseEducationSection(lines []string) []types.Education {
	degreeRe := regexp.MustCompile(`(?i)\b(bachelor|master|ph\.?d|b\.?sc?|m\.?sc?|b\.?a|m\.?a|mba|associate|diploma)\b`)

	var education []types.Education
	for _, line := range lines {
		line = strings.TrimLeft(line, "-•·* ")
		hasDegree := degreeRe.MatchString(line)
		dates := dateRangeRe.FindStringSubmatch(line)
		if !hasDegree && dates == nil {
			continue
		}

		entry := types.Education{}
		if dates != nil {
			entry.StartDate = normalizeDate(dates[1], dates[2])
			entry.EndDate = normalizeEndDate(dates[3])
			line = strings.Trim(strings.TrimSpace(dateRangeRe.ReplaceAllString(line, "")), " -–|,")
		}
		if hasDegree {
			degree, institution := splitTitleCompany(line)
			entry.Degree = degree
			entry.Institution = institution
		} else {
			entry.Institution = strings.TrimSpace(line)
		}
		education = append(education, entry)
	}
	return education
}

// normalizeDate renders a year and optional month as YYYY-MM.
func normalizeDate(year, month string) string {
	if year == "" {
		return ""
	}
	if month == "" {
		return year + "-01"
	}
	if len(month) == 1 {
		month = "0" + month
	}
	return year + "-" + month
}

func normalizeEndDate(raw string) string {
	lower := strings.ToLower(raw)
	if lower == "present" || lower == "current" {
		return "Present"
	}
	parts := strings.SplitN(strings.ReplaceAll(raw, "/", "-"), "-", 2)
	if len(parts) == 2 {
		return normalizeDate(parts[0], parts[1])
	}
	return normalizeDate(parts[0], "")
}
