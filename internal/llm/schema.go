// Package llm - schema.go provides generic LLM-based structured extraction.
package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
// It provides a reusable way to define what information to extract from text.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "ResumeDocument")
	Description string        // System prompt preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "[]string", "map[string]string"
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	// System description
	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	// Output schema
	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	// Instructions
	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Extract information directly from the text, do not invent or summarize.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	// Input text
	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// --- Predefined Schemas ---

// ResumeSchema returns the extraction schema for resume documents.
// Extracts personal info, work history, education, projects, and skills.
func ResumeSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "ResumeDocument",
		Description: `You are an expert resume parser. COPY TEXT VERBATIM - do not paraphrase or embellish.
Your task is to extract structured candidate information from raw resume text.
Dates must use the YYYY-MM format where possible; use "Present" for ongoing positions.
If a field is absent from the text, omit it or use an empty value - never invent data.`,
		Fields: []SchemaField{
			{
				Name:        "name",
				Type:        "\"string\"",
				Description: "Candidate full name",
				Required:    true,
			},
			{
				Name:        "contact_info",
				Type:        "{\"email\": \"string\", \"phone\": \"string\", \"linkedin\": \"string\", \"location\": \"string\", \"portfolio\": \"string\"}",
				Description: "Contact details exactly as written",
				Required:    true,
			},
			{
				Name:        "summary",
				Type:        "\"string\"",
				Description: "Professional summary or objective, verbatim",
				Required:    false,
			},
			{
				Name:        "work_experience",
				Type:        "[{\"title\": \"string\", \"company\": \"string\", \"location\": \"string\", \"start_date\": \"YYYY-MM\", \"end_date\": \"YYYY-MM\", \"description\": [\"string\"]}]",
				Description: "Work history, most recent first, bullet descriptions verbatim",
				Required:    true,
			},
			{
				Name:        "education",
				Type:        "[{\"institution\": \"string\", \"degree\": \"string\", \"field\": \"string\", \"start_date\": \"YYYY-MM\", \"end_date\": \"YYYY-MM\"}]",
				Description: "Education history",
				Required:    true,
			},
			{
				Name:        "projects",
				Type:        "[{\"title\": \"string\", \"description\": \"string\", \"link\": \"string\"}]",
				Description: "Personal or professional projects",
				Required:    false,
			},
			{
				Name:        "skills",
				Type:        "[\"string\"]",
				Description: "Technical and professional skills as individual entries",
				Required:    true,
			},
			{
				Name:        "tools",
				Type:        "[\"string\"]",
				Description: "Tools and platforms distinct from core skills",
				Required:    false,
			},
			{
				Name:        "certifications",
				Type:        "[\"string\"]",
				Description: "Certifications with issuer and year when present",
				Required:    false,
			},
		},
	}
}

// EnhancementSchema returns the extraction schema for AI resume insights.
// Produces a quality assessment of an already-parsed resume.
func EnhancementSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "ResumeEnhancements",
		Description: `You are an expert career coach and resume reviewer.
Your task is to assess a structured resume and produce concise, actionable insights.
Score quality on completeness, clarity, and evidence of impact.`,
		Fields: []SchemaField{
			{
				Name:        "enhancedSummary",
				Type:        "\"string\"",
				Description: "Concise 2-3 sentence professional summary of the candidate",
				Required:    true,
			},
			{
				Name:        "qualityScore",
				Type:        "number",
				Description: "Overall resume quality from 0 to 100",
				Required:    true,
			},
			{
				Name:        "careerLevel",
				Type:        "\"string\"",
				Description: "One of: entry, mid, senior, lead, executive",
				Required:    true,
			},
			{
				Name:        "suggestions",
				Type:        "[\"string\"]",
				Description: "Specific improvement suggestions, max 5",
				Required:    false,
			},
		},
	}
}
