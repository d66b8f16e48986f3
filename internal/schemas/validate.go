// Package schemas provides JSON Schema validation for LLM-produced resume
// documents. The schema guards against malformed or hallucinated model
// output before it is persisted.
package schemas

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// resumeDocumentSchema is the JSON Schema for the structured resume document
// returned by the LLM extraction step.
const resumeDocumentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "ResumeDocument",
  "type": "object",
  "required": ["name", "contact_info"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "contact_info": {
      "type": "object",
      "properties": {
        "email": {"type": "string"},
        "phone": {"type": "string"},
        "linkedin": {"type": "string"},
        "location": {"type": "string"},
        "portfolio": {"type": "string"}
      }
    },
    "summary": {"type": "string"},
    "work_experience": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title", "company"],
        "properties": {
          "title": {"type": "string"},
          "company": {"type": "string"},
          "location": {"type": "string"},
          "start_date": {"type": "string"},
          "end_date": {"type": "string"},
          "description": {"type": "array", "items": {"type": "string"}}
        }
      }
    },
    "education": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["institution", "degree"],
        "properties": {
          "institution": {"type": "string"},
          "degree": {"type": "string"},
          "field": {"type": "string"},
          "start_date": {"type": "string"},
          "end_date": {"type": "string"}
        }
      }
    },
    "projects": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title"],
        "properties": {
          "title": {"type": "string"},
          "description": {"type": "string"},
          "link": {"type": "string"}
        }
      }
    },
    "skills": {"type": "array", "items": {"type": "string"}},
    "tools": {"type": "array", "items": {"type": "string"}},
    "certifications": {"type": "array", "items": {"type": "string"}}
  }
}`

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateResumeDocument validates raw JSON bytes against the resume
// document schema. Returns a *ValidationError listing every violation.
func ValidateResumeDocument(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(resumeDocumentSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to validate resume document: %w", err)
	}

	if result.Valid() {
		return nil
	}

	ve := &ValidationError{}
	for _, desc := range result.Errors() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return ve
}
