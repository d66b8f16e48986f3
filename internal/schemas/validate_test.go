package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateResumeDocument_Valid(t *testing.T) {
	doc := []byte(`{
		"name": "Jane Smith",
		"contact_info": {"email": "jane@example.com", "phone": "+1 555 0100"},
		"summary": "Backend engineer.",
		"work_experience": [
			{"title": "Engineer", "company": "Acme", "start_date": "2019-03", "end_date": "Present",
			 "description": ["Built APIs"]}
		],
		"education": [
			{"institution": "State University", "degree": "B.Sc", "field": "Computer Science"}
		],
		"skills": ["Go", "PostgreSQL"]
	}`)

	assert.NoError(t, ValidateResumeDocument(doc))
}

func TestValidateResumeDocument_MinimalValid(t *testing.T) {
	doc := []byte(`{"name": "Jane Smith", "contact_info": {}}`)
	assert.NoError(t, ValidateResumeDocument(doc))
}

func TestValidateResumeDocument_MissingName(t *testing.T) {
	doc := []byte(`{"contact_info": {"email": "jane@example.com"}}`)

	err := ValidateResumeDocument(doc)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)
	assert.Contains(t, err.Error(), "name")
}

func TestValidateResumeDocument_WrongTypes(t *testing.T) {
	doc := []byte(`{
		"name": "Jane Smith",
		"contact_info": {},
		"skills": "Go, PostgreSQL",
		"work_experience": [{"title": "Engineer"}]
	}`)

	err := ValidateResumeDocument(doc)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	// skills must be an array, experience entries need a company
	assert.GreaterOrEqual(t, len(validationErr.Errors), 2)
}

func TestValidateResumeDocument_NotJSON(t *testing.T) {
	err := ValidateResumeDocument([]byte("not json at all"))
	assert.Error(t, err)
}
