package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"recruitflow/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "ScreeningResult", &ScreeningTextFormatter{})
	registry.RegisterFormatter("markdown", "ScreeningResult", &ScreeningMarkdownFormatter{})
	registry.RegisterFormatter("text", "MatchingResult", &MatchingTextFormatter{})
	registry.RegisterFormatter("markdown", "MatchingResult", &MatchingMarkdownFormatter{})
	registry.RegisterFormatter("text", "InterviewPlan", &InterviewTextFormatter{})
	registry.RegisterFormatter("markdown", "InterviewPlan", &InterviewMarkdownFormatter{})
	registry.RegisterFormatter("text", "WorkflowResult", &WorkflowTextFormatter{})
	registry.RegisterFormatter("markdown", "WorkflowResult", &WorkflowMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.ScreeningResult, *types.ScreeningResult:
		return "ScreeningResult"
	case types.MatchingResult, *types.MatchingResult:
		return "MatchingResult"
	case types.InterviewPlan, *types.InterviewPlan:
		return "InterviewPlan"
	case types.WorkflowResult, *types.WorkflowResult:
		return "WorkflowResult"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

func asScreeningResult(data any) (*types.ScreeningResult, error) {
	switch v := data.(type) {
	case types.ScreeningResult:
		return &v, nil
	case *types.ScreeningResult:
		return v, nil
	default:
		return nil, fmt.Errorf("expected ScreeningResult, got %T", data)
	}
}

func asMatchingResult(data any) (*types.MatchingResult, error) {
	switch v := data.(type) {
	case types.MatchingResult:
		return &v, nil
	case *types.MatchingResult:
		return v, nil
	default:
		return nil, fmt.Errorf("expected MatchingResult, got %T", data)
	}
}

func asInterviewPlan(data any) (*types.InterviewPlan, error) {
	switch v := data.(type) {
	case types.InterviewPlan:
		return &v, nil
	case *types.InterviewPlan:
		return v, nil
	default:
		return nil, fmt.Errorf("expected InterviewPlan, got %T", data)
	}
}

func asWorkflowResult(data any) (*types.WorkflowResult, error) {
	switch v := data.(type) {
	case types.WorkflowResult:
		return &v, nil
	case *types.WorkflowResult:
		return v, nil
	default:
		return nil, fmt.Errorf("expected WorkflowResult, got %T", data)
	}
}

// ScreeningTextFormatter handles text formatting for screening results
type ScreeningTextFormatter struct{}

func (stf *ScreeningTextFormatter) Format(data any) (string, error) {
	result, err := asScreeningResult(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("=== SCREENING RESULT ===\n\n")
	output.WriteString(fmt.Sprintf("Match Score: %.1f/100\n", result.MatchScore))
	output.WriteString(fmt.Sprintf("Recommendation: %s\n\n", result.Recommendation))

	output.WriteString("Resume Skills:\n")
	writeSkillList(&output, result.ResumeSkills)
	output.WriteString("\nRequired Skills:\n")
	writeSkillList(&output, result.RequiredSkills)

	return output.String(), nil
}

func (stf *ScreeningTextFormatter) SupportedType() string {
	return "ScreeningResult"
}

// ScreeningMarkdownFormatter handles markdown formatting for screening results
type ScreeningMarkdownFormatter struct{}

func (smf *ScreeningMarkdownFormatter) Format(data any) (string, error) {
	result, err := asScreeningResult(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("# Screening Result\n\n")
	output.WriteString(fmt.Sprintf("**Match Score:** %.1f/100\n\n", result.MatchScore))
	output.WriteString(fmt.Sprintf("**Recommendation:** %s\n\n", result.Recommendation))

	output.WriteString("## Resume Skills\n")
	writeSkillList(&output, result.ResumeSkills)
	output.WriteString("\n## Required Skills\n")
	writeSkillList(&output, result.RequiredSkills)

	return output.String(), nil
}

func (smf *ScreeningMarkdownFormatter) SupportedType() string {
	return "ScreeningResult"
}

// MatchingTextFormatter handles text formatting for matching results
type MatchingTextFormatter struct{}

func (mtf *MatchingTextFormatter) Format(data any) (string, error) {
	result, err := asMatchingResult(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("=== JOB MATCHES ===\n\n")
	output.WriteString(fmt.Sprintf("Candidate: %s\n", result.CandidateID))
	output.WriteString(fmt.Sprintf("Total Matches Found: %d\n\n", result.TotalMatches))

	if len(result.TopMatches) == 0 {
		output.WriteString("No jobs scored above the match cutoff.\n")
		return output.String(), nil
	}

	for i, match := range result.TopMatches {
		output.WriteString(fmt.Sprintf("%d. %s at %s\n", i+1, match.Title, match.Company))
		output.WriteString(fmt.Sprintf("   Score: %.1f/100\n", match.MatchScore))
		if len(match.KeyMatches) > 0 {
			output.WriteString(fmt.Sprintf("   Key Matches: %s\n", strings.Join(match.KeyMatches, ", ")))
		}
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (mtf *MatchingTextFormatter) SupportedType() string {
	return "MatchingResult"
}

// MatchingMarkdownFormatter handles markdown formatting for matching results
type MatchingMarkdownFormatter struct{}

func (mmf *MatchingMarkdownFormatter) Format(data any) (string, error) {
	result, err := asMatchingResult(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("# Job Matches\n\n")
	output.WriteString(fmt.Sprintf("**Candidate:** %s\n\n", result.CandidateID))
	output.WriteString(fmt.Sprintf("**Total Matches Found:** %d\n\n", result.TotalMatches))

	if len(result.TopMatches) == 0 {
		output.WriteString("No jobs scored above the match cutoff.\n")
		return output.String(), nil
	}

	for i, match := range result.TopMatches {
		output.WriteString(fmt.Sprintf("## %d. %s at %s\n\n", i+1, match.Title, match.Company))
		output.WriteString(fmt.Sprintf("**Score:** %.1f/100\n\n", match.MatchScore))
		if len(match.KeyMatches) > 0 {
			output.WriteString(fmt.Sprintf("**Key Matches:** %s\n\n", strings.Join(match.KeyMatches, ", ")))
		}
	}

	return output.String(), nil
}

func (mmf *MatchingMarkdownFormatter) SupportedType() string {
	return "MatchingResult"
}

// InterviewTextFormatter handles text formatting for interview plans
type InterviewTextFormatter struct{}

func (itf *InterviewTextFormatter) Format(data any) (string, error) {
	plan, err := asInterviewPlan(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("=== INTERVIEW PLAN ===\n\n")
	output.WriteString(fmt.Sprintf("Role: %s\n", plan.Role))
	output.WriteString(fmt.Sprintf("Difficulty: %s\n", plan.DifficultyLevel))
	output.WriteString(fmt.Sprintf("Questions: %d\n\n", plan.TotalQuestions))

	for _, q := range plan.Questions {
		output.WriteString(fmt.Sprintf("%d. [%s] %s\n", q.ID, q.Category, q.Question))
	}

	return output.String(), nil
}

func (itf *InterviewTextFormatter) SupportedType() string {
	return "InterviewPlan"
}

// InterviewMarkdownFormatter handles markdown formatting for interview plans
type InterviewMarkdownFormatter struct{}

func (imf *InterviewMarkdownFormatter) Format(data any) (string, error) {
	plan, err := asInterviewPlan(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("# Interview Plan\n\n")
	output.WriteString(fmt.Sprintf("**Role:** %s\n\n", plan.Role))
	output.WriteString(fmt.Sprintf("**Difficulty:** %s\n\n", plan.DifficultyLevel))

	output.WriteString("## Questions\n\n")
	for _, q := range plan.Questions {
		output.WriteString(fmt.Sprintf("%d. **[%s]** %s\n", q.ID, q.Category, q.Question))
	}

	return output.String(), nil
}

func (imf *InterviewMarkdownFormatter) SupportedType() string {
	return "InterviewPlan"
}

// WorkflowTextFormatter handles text formatting for full workflow results
type WorkflowTextFormatter struct{}

func (wtf *WorkflowTextFormatter) Format(data any) (string, error) {
	result, err := asWorkflowResult(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("=== WORKFLOW RESULT ===\n\n")
	output.WriteString(fmt.Sprintf("Candidate: %s\n", result.CandidateName))
	output.WriteString(fmt.Sprintf("Status: %s\n", result.Status))
	if result.Stage != "" {
		output.WriteString(fmt.Sprintf("Halted At: %s\n", result.Stage))
	}
	output.WriteString("\n")

	if result.Screening != nil {
		screening, err := (&ScreeningTextFormatter{}).Format(result.Screening)
		if err != nil {
			return "", err
		}
		output.WriteString(screening)
		output.WriteString("\n")
	}

	if result.Matching != nil {
		matching, err := (&MatchingTextFormatter{}).Format(result.Matching)
		if err != nil {
			return "", err
		}
		output.WriteString(matching)
		output.WriteString("\n")
	}

	if result.Interview != nil {
		if result.Interview.NoMatches {
			output.WriteString("=== INTERVIEW PLAN ===\n\nNo matching jobs; interview generation skipped.\n")
		} else if result.Interview.Plan != nil {
			interview, err := (&InterviewTextFormatter{}).Format(result.Interview.Plan)
			if err != nil {
				return "", err
			}
			output.WriteString(interview)
		}
	}

	return output.String(), nil
}

func (wtf *WorkflowTextFormatter) SupportedType() string {
	return "WorkflowResult"
}

// WorkflowMarkdownFormatter handles markdown formatting for full workflow results
type WorkflowMarkdownFormatter struct{}

func (wmf *WorkflowMarkdownFormatter) Format(data any) (string, error) {
	result, err := asWorkflowResult(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("# Workflow Result\n\n")
	output.WriteString(fmt.Sprintf("**Candidate:** %s\n\n", result.CandidateName))
	output.WriteString(fmt.Sprintf("**Status:** %s\n\n", result.Status))
	if result.Stage != "" {
		output.WriteString(fmt.Sprintf("**Halted At:** %s\n\n", result.Stage))
	}

	if result.Screening != nil {
		screening, err := (&ScreeningMarkdownFormatter{}).Format(result.Screening)
		if err != nil {
			return "", err
		}
		output.WriteString(screening)
		output.WriteString("\n")
	}

	if result.Matching != nil {
		matching, err := (&MatchingMarkdownFormatter{}).Format(result.Matching)
		if err != nil {
			return "", err
		}
		output.WriteString(matching)
		output.WriteString("\n")
	}

	if result.Interview != nil {
		if result.Interview.NoMatches {
			output.WriteString("# Interview Plan\n\nNo matching jobs; interview generation skipped.\n")
		} else if result.Interview.Plan != nil {
			interview, err := (&InterviewMarkdownFormatter{}).Format(result.Interview.Plan)
			if err != nil {
				return "", err
			}
			output.WriteString(interview)
		}
	}

	return output.String(), nil
}

func (wmf *WorkflowMarkdownFormatter) SupportedType() string {
	return "WorkflowResult"
}

func writeSkillList(output *strings.Builder, skills []string) {
	if len(skills) == 0 {
		output.WriteString("- (none)\n")
		return
	}
	for _, skill := range skills {
		output.WriteString(fmt.Sprintf("- %s\n", skill))
	}
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
