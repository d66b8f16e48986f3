package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/jonathan/resume-parser/internal/types"
)

var (
	strictEmailRe = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)
	strictPhoneRe = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	yearMonthRe   = regexp.MustCompile(`^((?:19|20)\d{2})-(\d{2})$`)
)

// postprocess validates contact fields, computes total experience, and
// assigns confidence scores after a document has been parsed.
func postprocess(doc *types.ResumeDocument, method string) *types.ConfidenceScores {
	validateContactInfo(&doc.ContactInfo)
	doc.TotalYearsOfExperience = totalYearsOfExperience(doc.WorkExperience, time.Now())
	return confidenceScores(doc, method)
}

// validateContactInfo sets validity flags for email and phone fields.
func validateContactInfo(contact *types.ContactInfo) {
	if contact.Email != "" {
		valid := strictEmailRe.MatchString(contact.Email)
		contact.EmailValid = &valid
	}
	if contact.Phone != "" {
		digits := strings.Map(func(r rune) rune {
			if r == '+' || (r >= '0' && r <= '9') {
				return r
			}
			return -1
		}, contact.Phone)
		valid := strictPhoneRe.MatchString(digits)
		contact.PhoneValid = &valid
	}
}

// totalYearsOfExperience sums the duration of all positions with parseable
// YYYY-MM date ranges. "Present" counts up to now. Result is rounded to
// one decimal place.
func totalYearsOfExperience(experiences []types.Experience, now time.Time) float64 {
	var months int
	for _, exp := range experiences {
		start, ok := parseYearMonth(exp.StartDate)
		if !ok {
			continue
		}
		var end time.Time
		if strings.EqualFold(strings.TrimSpace(exp.EndDate), "present") || exp.EndDate == "" {
			end = now
		} else if parsed, ok := parseYearMonth(exp.EndDate); ok {
			end = parsed
		} else {
			continue
		}
		if end.Before(start) {
			continue
		}
		months += int(end.Year()-start.Year())*12 + int(end.Month()-start.Month())
	}
	years := float64(months) / 12
	return float64(int(years*10+0.5)) / 10
}

func parseYearMonth(s string) (time.Time, bool) {
	m := yearMonthRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01", m[1]+"-"+m[2])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// confidenceScores assigns per-section confidence based on which sections
// were populated and which parsing method produced them.
func confidenceScores(doc *types.ResumeDocument, method string) *types.ConfidenceScores {
	ai := method == types.ParsingMethodAI

	scores := &types.ConfidenceScores{}

	if doc.ContactInfo.Email != "" || doc.ContactInfo.Phone != "" {
		scores.ContactInfo = 0.90
	} else {
		scores.ContactInfo = 0.5
	}

	if len(doc.WorkExperience) > 0 {
		scores.Experience = 0.85
	} else {
		scores.Experience = 0.3
	}

	if len(doc.Education) > 0 {
		scores.Education = 0.80
	} else {
		scores.Education = 0.4
	}

	if len(doc.Skills) > 0 {
		scores.Skills = 0.75
	} else {
		scores.Skills = 0.2
	}

	if ai {
		scores.Overall = 0.85
	} else {
		// Regex extraction carries lower certainty across the board
		scores.ContactInfo *= 0.8
		scores.Experience *= 0.7
		scores.Education *= 0.7
		scores.Skills *= 0.8
		scores.Overall = 0.55
	}

	return scores
}
