package llm

import (
	"strings"
	"testing"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "```json\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "code block with language",
			input:    "```javascript\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "plain JSON",
			input:    `{"key": "value"}`,
			expected: `{"key": "value"}`,
		},
		{
			name:     "surrounding whitespace",
			input:    "  \n{\"key\": \"value\"}\n  ",
			expected: `{"key": "value"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanJSONBlock(tt.input)
			if result != tt.expected {
				t.Errorf("CleanJSONBlock() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestBuildExtractionPrompt(t *testing.T) {
	prompt := BuildExtractionPrompt(ResumeSchema(), "John Doe\njohn@example.com")

	if !strings.Contains(prompt, "expert resume parser") {
		t.Errorf("prompt missing task description: %q", prompt)
	}
	if !strings.Contains(prompt, `"name"`) || !strings.Contains(prompt, "(required)") {
		t.Errorf("prompt missing required field hints: %q", prompt)
	}
	if !strings.Contains(prompt, "John Doe") {
		t.Errorf("prompt missing input text: %q", prompt)
	}
	if !strings.Contains(prompt, "Return ONLY valid JSON") {
		t.Errorf("prompt missing output instruction: %q", prompt)
	}
}

func TestEnhancementSchema_Fields(t *testing.T) {
	schema := EnhancementSchema()

	names := make(map[string]bool)
	for _, f := range schema.Fields {
		names[f.Name] = true
	}
	for _, want := range []string{"enhancedSummary", "qualityScore", "careerLevel", "suggestions"} {
		if !names[want] {
			t.Errorf("enhancement schema missing field %q", want)
		}
	}
}
