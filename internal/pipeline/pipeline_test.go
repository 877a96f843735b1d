package pipeline

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"recruitflow/internal/config"
	"recruitflow/internal/errors"
	"recruitflow/internal/memory"
	"recruitflow/internal/types"
)

func newTestPipeline() *Pipeline {
	// Nil extractor falls back to the default vocabulary matcher.
	return New(nil, config.PipelineConfig{}, nil, nil)
}

func TestScreen(t *testing.T) {
	tests := []struct {
		name           string
		resumeText     string
		jobDescription string
		expectedScore  float64
		expectedRec    types.Recommendation
	}{
		{
			name:           "full match passes",
			resumeText:     "Senior engineer with Python, SQL and Docker experience",
			jobDescription: "We need Python, SQL and Docker",
			expectedScore:  100,
			expectedRec:    types.RecommendationPass,
		},
		{
			name:           "half match goes to review",
			resumeText:     "Python and SQL developer",
			jobDescription: "Looking for Python, SQL, Docker and Cloud skills",
			expectedScore:  50,
			expectedRec:    types.RecommendationReview,
		},
		{
			name:           "no overlap is rejected",
			resumeText:     "Embedded firmware developer",
			jobDescription: "Python data engineer wanted",
			expectedScore:  0,
			expectedRec:    types.RecommendationReject,
		},
		{
			name:           "job with no recognized skills scores zero",
			resumeText:     "Python and SQL developer",
			jobDescription: "Friendly team, great benefits",
			expectedScore:  0,
			expectedRec:    types.RecommendationReject,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPipeline()

			result, err := p.Screen(context.Background(), tt.resumeText, tt.jobDescription)
			if err != nil {
				t.Fatalf("Screen() unexpected error: %v", err)
			}

			if result.MatchScore != tt.expectedScore {
				t.Errorf("MatchScore = %v, expected %v", result.MatchScore, tt.expectedScore)
			}
			if result.Recommendation != tt.expectedRec {
				t.Errorf("Recommendation = %v, expected %v", result.Recommendation, tt.expectedRec)
			}
			if result.Timestamp.IsZero() {
				t.Error("Timestamp should be set")
			}

			stored, ok := p.Memory()[memory.KeyScreeningResult]
			if !ok {
				t.Fatal("screening result not recorded in session memory")
			}
			if stored.(*types.ScreeningResult) != result {
				t.Error("session memory holds a different screening result")
			}
		})
	}
}

func TestMatchRankingAndTruncation(t *testing.T) {
	p := newTestPipeline()

	candidate := types.CandidateProfile{
		Name:            "Dana",
		Skills:          []string{"Python", "SQL", "Docker"},
		ExperienceYears: 5,
	}

	// Three jobs score 100 (ties keep catalog order), one scores 60,
	// one scores exactly 50 (excluded, cutoff is strict), one scores 40.
	catalog := []types.JobRecord{
		{ID: "j1", Title: "Data Engineer", Company: "Acme", RequiredSkills: []string{"Python"}, YearsExperienceRequired: 2},
		{ID: "j2", Title: "Backend Engineer", Company: "Beta", RequiredSkills: []string{"Python", "SQL"}, YearsExperienceRequired: 5},
		{ID: "j3", Title: "Platform Engineer", Company: "Gamma", RequiredSkills: []string{"Java", "API", "Docker"}, YearsExperienceRequired: 4},
		{ID: "j4", Title: "Java Developer", Company: "Delta", RequiredSkills: []string{"Java"}, YearsExperienceRequired: 2},
		{ID: "j5", Title: "Generalist", Company: "Epsilon", RequiredSkills: []string{"Python", "Java", "API", "Cloud", "Machine Learning", "Data Analysis"}, YearsExperienceRequired: 1},
		{ID: "j6", Title: "Full Stack Engineer", Company: "Zeta", RequiredSkills: []string{"Python", "SQL", "Docker"}, YearsExperienceRequired: 5},
	}

	result, err := p.Match(context.Background(), candidate, catalog)
	if err != nil {
		t.Fatalf("Match() unexpected error: %v", err)
	}

	// j1, j2, j3 and j6 qualify; only the top three are kept
	if result.TotalMatches != 4 {
		t.Errorf("TotalMatches = %d, expected 4 (counted before truncation)", result.TotalMatches)
	}
	if len(result.TopMatches) != 3 {
		t.Fatalf("len(TopMatches) = %d, expected 3", len(result.TopMatches))
	}

	expectedOrder := []string{"j1", "j2", "j6"}
	for i, expected := range expectedOrder {
		if result.TopMatches[i].JobID != expected {
			t.Errorf("TopMatches[%d].JobID = %s, expected %s (stable tie order)", i, result.TopMatches[i].JobID, expected)
		}
	}

	if result.CandidateID != "Dana" {
		t.Errorf("CandidateID = %s, expected Dana", result.CandidateID)
	}

	if _, ok := p.Memory()[memory.KeyMatchingResult]; !ok {
		t.Error("matching result not recorded in session memory")
	}
}

func TestMatchKeyMatches(t *testing.T) {
	p := newTestPipeline()

	candidate := types.CandidateProfile{
		Name:            "Dana",
		Skills:          []string{"Docker", "Python"},
		ExperienceYears: 3,
	}
	catalog := []types.JobRecord{
		{ID: "j1", Title: "Engineer", RequiredSkills: []string{"Python", "Docker"}, YearsExperienceRequired: 1},
	}

	result, err := p.Match(context.Background(), candidate, catalog)
	if err != nil {
		t.Fatalf("Match() unexpected error: %v", err)
	}
	if len(result.TopMatches) != 1 {
		t.Fatalf("len(TopMatches) = %d, expected 1", len(result.TopMatches))
	}

	// KeyMatches keeps the candidate's skill order
	key := result.TopMatches[0].KeyMatches
	if len(key) != 2 || key[0] != "Docker" || key[1] != "Python" {
		t.Errorf("KeyMatches = %v, expected [Docker Python]", key)
	}
}

func TestMatchEmptyCatalog(t *testing.T) {
	p := newTestPipeline()

	result, err := p.Match(context.Background(), types.CandidateProfile{Name: "Dana"}, nil)
	if err != nil {
		t.Fatalf("Match() unexpected error: %v", err)
	}
	if result.TotalMatches != 0 {
		t.Errorf("TotalMatches = %d, expected 0", result.TotalMatches)
	}
	if len(result.TopMatches) != 0 {
		t.Errorf("TopMatches = %v, expected empty", result.TopMatches)
	}
}

func TestGenerateInterview(t *testing.T) {
	p := newTestPipeline()

	plan, err := p.GenerateInterview(context.Background(), "Data Engineer", []string{"Python", "SQL"})
	if err != nil {
		t.Fatalf("GenerateInterview() unexpected error: %v", err)
	}

	if plan.Role != "Data Engineer" {
		t.Errorf("Role = %s, expected Data Engineer", plan.Role)
	}
	if plan.TotalQuestions != 5 || len(plan.Questions) != 5 {
		t.Fatalf("expected exactly 5 questions, got %d/%d", plan.TotalQuestions, len(plan.Questions))
	}
	if plan.DifficultyLevel != "MEDIUM" {
		t.Errorf("DifficultyLevel = %s, expected MEDIUM", plan.DifficultyLevel)
	}

	expectedCategories := []string{"Technical", "Technical", "Behavioral", "Behavioral", "Role-Specific"}
	for i, q := range plan.Questions {
		if q.ID != i+1 {
			t.Errorf("Questions[%d].ID = %d, expected %d", i, q.ID, i+1)
		}
		if q.Category != expectedCategories[i] {
			t.Errorf("Questions[%d].Category = %s, expected %s", i, q.Category, expectedCategories[i])
		}
	}

	if !strings.Contains(plan.Questions[0].Question, "Python") {
		t.Errorf("first question should mention the first skill, got %q", plan.Questions[0].Question)
	}
	if !strings.Contains(plan.Questions[4].Question, "Data Engineer") {
		t.Errorf("last question should mention the role, got %q", plan.Questions[4].Question)
	}

	if _, ok := p.Memory()[memory.KeyInterviewQuestions]; !ok {
		t.Error("interview plan not recorded in session memory")
	}
}

func TestGenerateInterviewNoSkills(t *testing.T) {
	p := newTestPipeline()

	plan, err := p.GenerateInterview(context.Background(), "Engineer", nil)
	if err != nil {
		t.Fatalf("GenerateInterview() unexpected error: %v", err)
	}

	if !strings.Contains(plan.Questions[0].Question, "software development") {
		t.Errorf("first question should fall back to the generic opener, got %q", plan.Questions[0].Question)
	}
}

func TestRunWorkflowCompleted(t *testing.T) {
	p := newTestPipeline()

	input := types.CandidateInput{
		Name:            "Dana",
		Email:           "dana@example.com",
		Resume:          "Python, SQL and Docker experience",
		Skills:          []string{"Python", "SQL", "Docker"},
		ExperienceYears: 5,
	}
	catalog := []types.JobRecord{
		{ID: "j1", Title: "Backend Engineer", Company: "Acme", RequiredSkills: []string{"Python", "SQL"}, YearsExperienceRequired: 3},
	}

	result, err := p.RunWorkflow(context.Background(), input, "Python and SQL required", catalog)
	if err != nil {
		t.Fatalf("RunWorkflow() unexpected error: %v", err)
	}

	if result.Status != types.StatusCompleted {
		t.Errorf("Status = %s, expected COMPLETED", result.Status)
	}
	if result.CandidateName != "Dana" {
		t.Errorf("CandidateName = %s, expected Dana", result.CandidateName)
	}
	if result.Screening == nil || result.Screening.Recommendation != types.RecommendationPass {
		t.Fatalf("expected PASS screening, got %+v", result.Screening)
	}
	if result.Matching == nil || result.Matching.TotalMatches != 1 {
		t.Fatalf("expected one match, got %+v", result.Matching)
	}
	if result.Interview == nil || result.Interview.Plan == nil {
		t.Fatal("expected an interview plan")
	}
	if result.Interview.NoMatches {
		t.Error("NoMatches should be false when a plan exists")
	}
	if result.Interview.Plan.Role != "Backend Engineer" {
		t.Errorf("interview role = %s, expected the top match title", result.Interview.Plan.Role)
	}

	// All three stages left their output in session memory
	mem := p.Memory()
	for _, key := range []string{memory.KeyScreeningResult, memory.KeyMatchingResult, memory.KeyInterviewQuestions} {
		if _, ok := mem[key]; !ok {
			t.Errorf("session memory missing key %s", key)
		}
	}
}

func TestRunWorkflowRejectedHalts(t *testing.T) {
	p := newTestPipeline()

	input := types.CandidateInput{
		Name:   "Riley",
		Email:  "riley@example.com",
		Resume: "Embedded firmware, C and assembly",
	}

	result, err := p.RunWorkflow(context.Background(), input, "Python data engineer", nil)
	if err != nil {
		t.Fatalf("RunWorkflow() unexpected error: %v", err)
	}

	if result.Status != types.StatusRejected {
		t.Errorf("Status = %s, expected REJECTED", result.Status)
	}
	if result.Stage != StageScreening {
		t.Errorf("Stage = %s, expected %s", result.Stage, StageScreening)
	}
	if result.Screening == nil {
		t.Error("rejected result should still carry the screening output")
	}
	if result.Matching != nil || result.Interview != nil {
		t.Error("later stages must not run after a screening rejection")
	}

	// Only the screening stage wrote to memory
	mem := p.Memory()
	if _, ok := mem[memory.KeyScreeningResult]; !ok {
		t.Error("session memory missing the screening result")
	}
	if _, ok := mem[memory.KeyMatchingResult]; ok {
		t.Error("matching must not have run")
	}
	if _, ok := mem[memory.KeyInterviewQuestions]; ok {
		t.Error("interviewing must not have run")
	}
}

func TestRunWorkflowNoMatches(t *testing.T) {
	p := newTestPipeline()

	input := types.CandidateInput{
		Name:   "Dana",
		Email:  "dana@example.com",
		Resume: "Python and SQL developer",
		Skills: []string{"Python", "SQL"},
	}

	result, err := p.RunWorkflow(context.Background(), input, "Python and SQL required", nil)
	if err != nil {
		t.Fatalf("RunWorkflow() unexpected error: %v", err)
	}

	// An empty catalog is a degraded but successful outcome
	if result.Status != types.StatusCompleted {
		t.Errorf("Status = %s, expected COMPLETED", result.Status)
	}
	if result.Interview == nil || !result.Interview.NoMatches {
		t.Fatalf("expected a NoMatches interview outcome, got %+v", result.Interview)
	}
	if result.Interview.Plan != nil {
		t.Error("NoMatches outcome must not carry a plan")
	}
}

func TestValidateCandidateInput(t *testing.T) {
	tests := []struct {
		name          string
		input         types.CandidateInput
		expectError   bool
		expectedField string
	}{
		{
			name: "valid input",
			input: types.CandidateInput{
				Name:   "Dana",
				Email:  "dana@example.com",
				Resume: "Python developer",
			},
			expectError: false,
		},
		{
			name: "missing name",
			input: types.CandidateInput{
				Email:  "dana@example.com",
				Resume: "Python developer",
			},
			expectError:   true,
			expectedField: "name",
		},
		{
			name: "missing email",
			input: types.CandidateInput{
				Name:   "Dana",
				Resume: "Python developer",
			},
			expectError:   true,
			expectedField: "email",
		},
		{
			name: "missing resume",
			input: types.CandidateInput{
				Name:  "Dana",
				Email: "dana@example.com",
			},
			expectError:   true,
			expectedField: "resume",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCandidateInput(tt.input)

			if !tt.expectError {
				if err != nil {
					t.Errorf("Expected no error but got: %v", err)
				}
				return
			}

			if err == nil {
				t.Fatal("Expected error but got none")
			}
			var appErr *errors.AppError
			if !stderrors.As(err, &appErr) {
				t.Fatalf("Expected AppError, got %T", err)
			}
			if appErr.Type != errors.ErrorTypeValidation {
				t.Errorf("Expected validation error, got %s", appErr.Type)
			}
			if appErr.Code != errors.ErrCodeMissingField {
				t.Errorf("Expected code %s, got %s", errors.ErrCodeMissingField, appErr.Code)
			}
			if appErr.Context["field"] != tt.expectedField {
				t.Errorf("Expected field %s, got %v", tt.expectedField, appErr.Context["field"])
			}
		})
	}
}

func TestRunWorkflowInvalidInput(t *testing.T) {
	p := newTestPipeline()

	_, err := p.RunWorkflow(context.Background(), types.CandidateInput{}, "Python", nil)
	if err == nil {
		t.Fatal("Expected validation error for empty input")
	}

	// Nothing ran, so memory stays empty
	if len(p.Memory()) != 0 {
		t.Errorf("session memory should be empty after validation failure, got %v", p.Memory())
	}
}

func TestPipelineThresholdOverrides(t *testing.T) {
	// A stricter review threshold turns a 50-score screening into a rejection.
	p := New(nil, config.PipelineConfig{
		PassThreshold:   90,
		ReviewThreshold: 60,
		JobMatchCutoff:  50,
		MaxTopMatches:   3,
	}, nil, nil)

	result, err := p.Screen(context.Background(),
		"Python and SQL developer",
		"Looking for Python, SQL, Docker and Cloud skills")
	if err != nil {
		t.Fatalf("Screen() unexpected error: %v", err)
	}
	if result.MatchScore != 50 {
		t.Fatalf("MatchScore = %v, expected 50", result.MatchScore)
	}
	if result.Recommendation != types.RecommendationReject {
		t.Errorf("Recommendation = %v, expected REJECT under stricter thresholds", result.Recommendation)
	}
}
