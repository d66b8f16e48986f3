package parser

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-parser/internal/llm"
	"github.com/jonathan/resume-parser/internal/store"
	"github.com/jonathan/resume-parser/internal/types"
)

const sampleResume = `John Doe
john.doe@example.com | +14155551234 | linkedin.com/in/johndoe

Summary
Senior backend engineer with a focus on distributed systems.

Experience
Software Engineer at Acme Corp 2019-03 - Present
- Built payment APIs in Go
- Led migration to Postgres

Junior Developer, Widget Inc 2016-06 - 2019-02
- Maintained internal tooling

Education
B.Sc Computer Science, State University 2012 - 2016

Skills
Go, Python, PostgreSQL, Docker, Kubernetes
`

// stubClient returns canned responses for LLM calls.
type stubClient struct {
	response string
	err      error
	calls    int
}

func (c *stubClient) GenerateContent(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	c.calls++
	return c.response, c.err
}

func (c *stubClient) GenerateJSON(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	c.calls++
	return c.response, c.err
}

func (c *stubClient) GetModel(_ llm.ModelTier) string { return "stub-model" }
func (c *stubClient) Close() error                    { return nil }

const validLLMOutput = `{
	"name": "John Doe",
	"contact_info": {"email": "john.doe@example.com", "phone": "+14155551234"},
	"summary": "Senior backend engineer.",
	"work_experience": [
		{"title": "Software Engineer", "company": "Acme Corp", "start_date": "2019-03", "end_date": "Present", "description": ["Built payment APIs in Go"]}
	],
	"education": [
		{"institution": "State University", "degree": "B.Sc", "field": "Computer Science"}
	],
	"skills": ["Go", "PostgreSQL"]
}`

func TestParseSync_WithLLM(t *testing.T) {
	st := store.NewMemoryStore()
	client := &stubClient{response: validLLMOutput}
	svc := NewService(client, st, Config{})

	resume, err := svc.ParseSync(context.Background(), []byte(sampleResume), "resume.txt", types.ParseOptions{})
	require.NoError(t, err)

	assert.Equal(t, types.StatusCompleted, resume.Status)
	assert.Equal(t, types.ParsingMethodAI, resume.Metadata.ParsingMethod)
	require.NotNil(t, resume.Document)
	assert.Equal(t, "John Doe", resume.Document.Name)
	assert.Equal(t, "john.doe@example.com", resume.Document.ContactInfo.Email)
	assert.NotEmpty(t, resume.Metadata.FileHash)
	assert.Greater(t, resume.Metadata.RawTextLength, 0)
	require.NotNil(t, resume.Confidence)
	assert.InDelta(t, 0.85, resume.Confidence.Overall, 0.001)

	// Persisted
	stored, err := st.GetResume(context.Background(), resume.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, types.StatusCompleted, stored.Status)
}

func TestParseSync_LLMFailureFallsBack(t *testing.T) {
	st := store.NewMemoryStore()
	client := &stubClient{err: errors.New("model unavailable")}
	svc := NewService(client, st, Config{})

	resume, err := svc.ParseSync(context.Background(), []byte(sampleResume), "resume.txt", types.ParseOptions{})
	require.NoError(t, err)

	assert.Equal(t, types.StatusCompleted, resume.Status)
	assert.Equal(t, types.ParsingMethodFallback, resume.Metadata.ParsingMethod)
	require.NotNil(t, resume.Document)
	assert.Equal(t, "John Doe", resume.Document.Name)
	assert.Equal(t, "john.doe@example.com", resume.Document.ContactInfo.Email)
	assert.Contains(t, resume.Document.Skills, "Go")
}

func TestParseSync_InvalidLLMOutputFallsBack(t *testing.T) {
	st := store.NewMemoryStore()
	// Missing required name field
	client := &stubClient{response: `{"contact_info": {}}`}
	svc := NewService(client, st, Config{})

	resume, err := svc.ParseSync(context.Background(), []byte(sampleResume), "resume.txt", types.ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, types.ParsingMethodFallback, resume.Metadata.ParsingMethod)
}

func TestParseSync_NoClientUsesFallback(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewService(nil, st, Config{})

	resume, err := svc.ParseSync(context.Background(), []byte(sampleResume), "resume.txt", types.ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, types.ParsingMethodFallback, resume.Metadata.ParsingMethod)
	assert.True(t, resume.Confidence.Overall < 0.85)
}

func TestParseSync_ExtractionFailureRecorded(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewService(nil, st, Config{})

	resume, err := svc.ParseSync(context.Background(), []byte("too short"), "resume.txt", types.ParseOptions{})
	require.Error(t, err)
	assert.Nil(t, resume)

	// The failure is recorded on the stored resume
	list, err := st.ListResumes(context.Background(), store.ResumeFilter{Status: types.StatusFailed})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.NotEmpty(t, list[0].Error)
}

func TestProcessAsync(t *testing.T) {
	st := store.NewMemoryStore()
	client := &stubClient{response: validLLMOutput}
	svc := NewService(client, st, Config{MaxConcurrent: 2})

	ctx := context.Background()
	now := time.Now()
	resume := &types.Resume{
		ID:     uuid.New(),
		Status: types.StatusProcessing,
		Metadata: types.FileMetadata{
			FileName:   "resume.txt",
			FileSize:   int64(len(sampleResume)),
			FileType:   "text/plain",
			UploadedAt: now,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, st.CreateResume(ctx, resume))

	svc.ProcessAsync(resume, []byte(sampleResume), types.ParseOptions{})

	require.Eventually(t, func() bool {
		got, err := st.GetResume(ctx, resume.ID)
		return err == nil && got != nil && got.Status == types.StatusCompleted
	}, 5*time.Second, 10*time.Millisecond)

	got, err := st.GetResume(ctx, resume.ID)
	require.NoError(t, err)
	assert.Equal(t, types.ParsingMethodAI, got.Metadata.ParsingMethod)
	assert.Empty(t, svc.CurrentStep(resume.ID))
}

func TestEnhancementDisabledByDefault(t *testing.T) {
	st := store.NewMemoryStore()
	client := &stubClient{response: validLLMOutput}
	svc := NewService(client, st, Config{DefaultEnhance: false})

	resume, err := svc.ParseSync(context.Background(), []byte(sampleResume), "resume.txt", types.ParseOptions{})
	require.NoError(t, err)
	assert.Nil(t, resume.Enhancements)
	// Only the extraction call, no enhancement call
	assert.Equal(t, 1, client.calls)
}

func TestFallbackParse(t *testing.T) {
	doc := fallbackParse(sampleResume)

	assert.Equal(t, "John Doe", doc.Name)
	assert.Equal(t, "john.doe@example.com", doc.ContactInfo.Email)
	assert.Equal(t, "linkedin.com/in/johndoe", doc.ContactInfo.LinkedIn)
	assert.Contains(t, doc.Summary, "distributed systems")

	require.Len(t, doc.WorkExperience, 2)
	assert.Equal(t, "Software Engineer", doc.WorkExperience[0].Title)
	assert.Equal(t, "Acme Corp", doc.WorkExperience[0].Company)
	assert.Equal(t, "2019-03", doc.WorkExperience[0].StartDate)
	assert.Equal(t, "Present", doc.WorkExperience[0].EndDate)
	assert.NotEmpty(t, doc.WorkExperience[0].Description)

	require.NotEmpty(t, doc.Education)
	assert.Contains(t, strings.ToLower(doc.Education[0].Degree), "b.sc")

	assert.Contains(t, doc.Skills, "Go")
	assert.Contains(t, doc.Skills, "Kubernetes")
}

func TestTotalYearsOfExperience(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		experiences []types.Experience
		want        float64
	}{
		{
			name: "closed range",
			experiences: []types.Experience{
				{StartDate: "2016-06", EndDate: "2019-06"},
			},
			want: 3.0,
		},
		{
			name: "present counts to now",
			experiences: []types.Experience{
				{StartDate: "2024-08", EndDate: "Present"},
			},
			want: 2.0,
		},
		{
			name: "multiple positions sum",
			experiences: []types.Experience{
				{StartDate: "2016-06", EndDate: "2019-06"},
				{StartDate: "2019-06", EndDate: "2021-06"},
			},
			want: 5.0,
		},
		{
			name: "unparseable dates skipped",
			experiences: []types.Experience{
				{StartDate: "unknown", EndDate: "2020-01"},
				{StartDate: "2018-01", EndDate: "2019-01"},
			},
			want: 1.0,
		},
		{
			name:        "empty",
			experiences: nil,
			want:        0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, totalYearsOfExperience(tt.experiences, now), 0.01)
		})
	}
}

func TestValidateContactInfo(t *testing.T) {
	contact := &types.ContactInfo{Email: "john@example.com", Phone: "+1 (415) 555-1234"}
	validateContactInfo(contact)
	require.NotNil(t, contact.EmailValid)
	assert.True(t, *contact.EmailValid)
	require.NotNil(t, contact.PhoneValid)
	assert.True(t, *contact.PhoneValid)

	bad := &types.ContactInfo{Email: "not-an-email", Phone: "12"}
	validateContactInfo(bad)
	require.NotNil(t, bad.EmailValid)
	assert.False(t, *bad.EmailValid)
	require.NotNil(t, bad.PhoneValid)
	assert.False(t, *bad.PhoneValid)
}

func TestTruncate_RuneBoundary(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 10))

	// Cutting inside a multi-byte rune backs up to the boundary
	assert.Equal(t, "a", truncate("aéb", 2))

	long := strings.Repeat("é", 100)
	cut := truncate(long, 99)
	assert.True(t, utf8.ValidString(cut))
	assert.Len(t, cut, 98)
}
