package formatters

import (
	"encoding/json"
	"strings"
	"testing"

	"recruitflow/internal/types"
)

func sampleScreening() *types.ScreeningResult {
	return &types.ScreeningResult{
		MatchScore:     66.7,
		ResumeSkills:   []string{"Python", "SQL"},
		RequiredSkills: []string{"Python", "SQL", "Docker"},
		Recommendation: types.RecommendationReview,
	}
}

func TestJSONFormatterAnyType(t *testing.T) {
	out, err := GlobalRegistry.Format(sampleScreening(), "json")
	if err != nil {
		t.Fatalf("Format() unexpected error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["recommendation"] != "REVIEW" {
		t.Errorf("recommendation = %v, expected REVIEW", decoded["recommendation"])
	}
}

func TestScreeningTextFormatter(t *testing.T) {
	out, err := GlobalRegistry.Format(sampleScreening(), "text")
	if err != nil {
		t.Fatalf("Format() unexpected error: %v", err)
	}

	for _, want := range []string{
		"=== SCREENING RESULT ===",
		"Match Score: 66.7/100",
		"Recommendation: REVIEW",
		"- Python",
		"- Docker",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestMatchingFormatters(t *testing.T) {
	result := &types.MatchingResult{
		CandidateID:  "Dana",
		TotalMatches: 5,
		TopMatches: []types.JobMatch{
			{JobID: "j1", Title: "Data Engineer", Company: "Acme", MatchScore: 100, KeyMatches: []string{"Python", "SQL"}},
		},
	}

	text, err := GlobalRegistry.Format(result, "text")
	if err != nil {
		t.Fatalf("Format(text) unexpected error: %v", err)
	}
	if !strings.Contains(text, "Total Matches Found: 5") {
		t.Errorf("text output missing total matches:\n%s", text)
	}
	if !strings.Contains(text, "1. Data Engineer at Acme") {
		t.Errorf("text output missing ranked match:\n%s", text)
	}

	md, err := GlobalRegistry.Format(result, "markdown")
	if err != nil {
		t.Fatalf("Format(markdown) unexpected error: %v", err)
	}
	if !strings.Contains(md, "**Key Matches:** Python, SQL") {
		t.Errorf("markdown output missing key matches:\n%s", md)
	}
}

func TestMatchingTextFormatterEmpty(t *testing.T) {
	out, err := GlobalRegistry.Format(&types.MatchingResult{CandidateID: "Dana"}, "text")
	if err != nil {
		t.Fatalf("Format() unexpected error: %v", err)
	}
	if !strings.Contains(out, "No jobs scored above the match cutoff.") {
		t.Errorf("empty matching output should say so:\n%s", out)
	}
}

func TestInterviewTextFormatter(t *testing.T) {
	plan := &types.InterviewPlan{
		Role:            "Data Engineer",
		TotalQuestions:  2,
		DifficultyLevel: "MEDIUM",
		Questions: []types.InterviewQuestion{
			{ID: 1, Category: "Technical", Question: "Describe your experience with Python?"},
			{ID: 2, Category: "Behavioral", Question: "Tell us about a time you failed and what you learned."},
		},
	}

	out, err := GlobalRegistry.Format(plan, "text")
	if err != nil {
		t.Fatalf("Format() unexpected error: %v", err)
	}
	if !strings.Contains(out, "1. [Technical] Describe your experience with Python?") {
		t.Errorf("interview output missing question line:\n%s", out)
	}
	if !strings.Contains(out, "Difficulty: MEDIUM") {
		t.Errorf("interview output missing difficulty:\n%s", out)
	}
}

func TestWorkflowTextFormatter(t *testing.T) {
	t.Run("rejected run shows the halt stage", func(t *testing.T) {
		result := &types.WorkflowResult{
			CandidateName: "Riley",
			Status:        types.StatusRejected,
			Stage:         "screening",
			Screening:     sampleScreening(),
		}

		out, err := GlobalRegistry.Format(result, "text")
		if err != nil {
			t.Fatalf("Format() unexpected error: %v", err)
		}
		if !strings.Contains(out, "Status: REJECTED") {
			t.Errorf("output missing status:\n%s", out)
		}
		if !strings.Contains(out, "Halted At: screening") {
			t.Errorf("output missing halt stage:\n%s", out)
		}
		if strings.Contains(out, "JOB MATCHES") {
			t.Errorf("rejected run must not print matching output:\n%s", out)
		}
	})

	t.Run("no matches outcome", func(t *testing.T) {
		result := &types.WorkflowResult{
			CandidateName: "Dana",
			Status:        types.StatusCompleted,
			Screening:     sampleScreening(),
			Matching:      &types.MatchingResult{CandidateID: "Dana"},
			Interview:     &types.InterviewOutcome{NoMatches: true},
		}

		out, err := GlobalRegistry.Format(result, "text")
		if err != nil {
			t.Fatalf("Format() unexpected error: %v", err)
		}
		if !strings.Contains(out, "No matching jobs; interview generation skipped.") {
			t.Errorf("output missing no-matches message:\n%s", out)
		}
	})
}

func TestFormatValueAndPointer(t *testing.T) {
	// Both value and pointer types resolve to the same formatter
	value := *sampleScreening()

	fromValue, err := GlobalRegistry.Format(value, "text")
	if err != nil {
		t.Fatalf("Format(value) unexpected error: %v", err)
	}
	fromPointer, err := GlobalRegistry.Format(sampleScreening(), "text")
	if err != nil {
		t.Fatalf("Format(pointer) unexpected error: %v", err)
	}
	if fromValue != fromPointer {
		t.Error("value and pointer formatting should match")
	}
}

func TestFormatUnknownFormat(t *testing.T) {
	_, err := GlobalRegistry.Format(sampleScreening(), "xml")
	if err == nil {
		t.Error("expected error for unsupported format")
	}
}
