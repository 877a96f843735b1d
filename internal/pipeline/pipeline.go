// Package pipeline implements the sequential recruitment workflow:
// screening, job matching, and interview generation, with each stage's
// output recorded in session memory.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"recruitflow/internal/config"
	"recruitflow/internal/errors"
	"recruitflow/internal/extract"
	"recruitflow/internal/memory"
	"recruitflow/internal/observability"
	"recruitflow/internal/scoring"
	"recruitflow/internal/types"
)

// Stage names reported in workflow results and telemetry.
const (
	StageScreening    = "screening"
	StageMatching     = "matching"
	StageInterviewing = "interviewing"
)

// Pipeline orchestrates the recruitment stages. A pipeline instance
// owns one session memory store; concurrent workflow runs should each
// use their own instance.
type Pipeline struct {
	extractor extract.Extractor
	memory    *memory.Store
	cfg       config.PipelineConfig
	logger    *errors.Logger
	obs       *observability.ObservabilityManager
}

// New creates a pipeline over the given extractor. Zero-valued
// thresholds in cfg fall back to the scoring package defaults, so an
// empty PipelineConfig yields the standard 70/50/50 behavior.
func New(extractor extract.Extractor, cfg config.PipelineConfig, logger *errors.Logger, obs *observability.ObservabilityManager) *Pipeline {
	if extractor == nil {
		extractor = extract.NewVocabularyExtractor(cfg.Vocabulary)
	}
	if cfg.PassThreshold == 0 {
		cfg.PassThreshold = scoring.PassThreshold
	}
	if cfg.ReviewThreshold == 0 {
		cfg.ReviewThreshold = scoring.ReviewThreshold
	}
	if cfg.JobMatchCutoff == 0 {
		cfg.JobMatchCutoff = scoring.JobMatchCutoff
	}
	if cfg.MaxTopMatches == 0 {
		cfg.MaxTopMatches = scoring.MaxTopMatches
	}

	return &Pipeline{
		extractor: extractor,
		memory:    memory.NewStore(),
		cfg:       cfg,
		logger:    logger,
		obs:       obs,
	}
}

// Screen extracts skills from both texts, scores the overlap, and
// classifies the recommendation. The result is written to session
// memory under the screening key.
func (p *Pipeline) Screen(ctx context.Context, resumeText, jobDescription string) (*types.ScreeningResult, error) {
	var result *types.ScreeningResult

	err := p.trackStage(ctx, StageScreening, func(ctx context.Context) error {
		if p.logger != nil {
			p.logger.Info("Screening candidate resume against job")
		}

		resumeSkills, err := p.extractor.Extract(ctx, resumeText)
		if err != nil {
			return err
		}
		requiredSkills, err := p.extractor.Extract(ctx, jobDescription)
		if err != nil {
			return err
		}

		score := scoring.ScreeningScore(resumeSkills, requiredSkills)
		result = &types.ScreeningResult{
			MatchScore:     score,
			ResumeSkills:   resumeSkills,
			RequiredSkills: requiredSkills,
			Recommendation: scoring.RecommendWith(score, p.cfg.PassThreshold, p.cfg.ReviewThreshold),
			Timestamp:      time.Now(),
		}

		p.memory.Put(memory.KeyScreeningResult, result)
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.recordBusiness(ctx, "candidate_screened", true,
		attribute.String("recommendation", string(result.Recommendation)))
	if result.Recommendation == types.RecommendationReject {
		p.recordBusiness(ctx, "screening_rejected", true)
	}

	return result, nil
}

// Match scores every catalog job against the candidate, keeps those
// strictly above the cutoff, and ranks them. Ties keep catalog order;
// TotalMatches counts all qualifying jobs before truncation.
func (p *Pipeline) Match(ctx context.Context, candidate types.CandidateProfile, jobs []types.JobRecord) (*types.MatchingResult, error) {
	var result *types.MatchingResult

	err := p.trackStage(ctx, StageMatching, func(ctx context.Context) error {
		if p.logger != nil {
			p.logger.Info("Matching jobs for candidate", "candidate", candidate.Name, "catalog_size", len(jobs))
		}

		var matches []types.JobMatch
		for _, job := range jobs {
			score := scoring.JobFitScore(candidate, job)
			if score > p.cfg.JobMatchCutoff {
				matches = append(matches, types.JobMatch{
					JobID:      job.ID,
					Title:      job.Title,
					Company:    job.Company,
					MatchScore: score,
					KeyMatches: scoring.SkillOverlap(candidate.Skills, job.RequiredSkills),
				})
			}
		}

		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].MatchScore > matches[j].MatchScore
		})

		total := len(matches)
		if len(matches) > p.cfg.MaxTopMatches {
			matches = matches[:p.cfg.MaxTopMatches]
		}

		result = &types.MatchingResult{
			CandidateID:  candidate.Name,
			TotalMatches: total,
			TopMatches:   matches,
			Timestamp:    time.Now(),
		}

		p.memory.Put(memory.KeyMatchingResult, result)
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.recordBusiness(ctx, "jobs_matched", true,
		attribute.Int("total_matches", result.TotalMatches))

	return result, nil
}

// GenerateInterview produces the fixed five-question plan for a role,
// personalized by the candidate's first listed skill. Candidates with
// no skills get a generic opener.
func (p *Pipeline) GenerateInterview(ctx context.Context, roleTitle string, candidateSkills []string) (*types.InterviewPlan, error) {
	var plan *types.InterviewPlan

	err := p.trackStage(ctx, StageInterviewing, func(ctx context.Context) error {
		if p.logger != nil {
			p.logger.Info("Generating interview questions", "role", roleTitle)
		}

		firstSkill := "software development"
		if len(candidateSkills) > 0 {
			firstSkill = candidateSkills[0]
		}

		questions := []types.InterviewQuestion{
			{ID: 1, Category: "Technical", Question: fmt.Sprintf("Describe your experience with %s?", firstSkill)},
			{ID: 2, Category: "Technical", Question: "Walk us through a challenging project you've worked on."},
			{ID: 3, Category: "Behavioral", Question: "How do you handle conflicts in a team environment?"},
			{ID: 4, Category: "Behavioral", Question: "Tell us about a time you failed and what you learned."},
			{ID: 5, Category: "Role-Specific", Question: fmt.Sprintf("Why are you interested in this %s position?", roleTitle)},
		}

		plan = &types.InterviewPlan{
			Role:            roleTitle,
			TotalQuestions:  len(questions),
			Questions:       questions,
			DifficultyLevel: "MEDIUM",
			Timestamp:       time.Now(),
		}

		p.memory.Put(memory.KeyInterviewQuestions, plan)
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.recordBusiness(ctx, "interview_planned", true)
	return plan, nil
}

// RunWorkflow executes the full sequential workflow. A REJECT at
// screening halts the run with only the screening output; a run with
// no job matches completes with a NoMatches interview outcome.
func (p *Pipeline) RunWorkflow(ctx context.Context, input types.CandidateInput, jobDescription string, catalog []types.JobRecord) (*types.WorkflowResult, error) {
	if err := ValidateCandidateInput(input); err != nil {
		return nil, err
	}

	if p.logger != nil {
		p.logger.Info("Starting full workflow", "candidate", input.Name)
	}

	screening, err := p.Screen(ctx, input.Resume, jobDescription)
	if err != nil {
		return nil, err
	}

	if screening.Recommendation == types.RecommendationReject {
		if p.logger != nil {
			p.logger.Warn("Candidate rejected in screening",
				"candidate", input.Name,
				"match_score", screening.MatchScore)
		}
		return &types.WorkflowResult{
			CandidateName: input.Name,
			Status:        types.StatusRejected,
			Stage:         StageScreening,
			Screening:     screening,
			Timestamp:     time.Now(),
		}, nil
	}

	candidate := types.CandidateProfile{
		Name:            input.Name,
		Email:           input.Email,
		ResumeText:      input.Resume,
		Skills:          input.Skills,
		ExperienceYears: input.ExperienceYears,
	}

	matching, err := p.Match(ctx, candidate, catalog)
	if err != nil {
		return nil, err
	}

	var interview types.InterviewOutcome
	if len(matching.TopMatches) > 0 {
		plan, err := p.GenerateInterview(ctx, matching.TopMatches[0].Title, candidate.Skills)
		if err != nil {
			return nil, err
		}
		interview.Plan = plan
	} else {
		// Degraded but successful outcome, not an error.
		interview.NoMatches = true
	}

	result := &types.WorkflowResult{
		CandidateName: input.Name,
		Status:        types.StatusCompleted,
		Screening:     screening,
		Matching:      matching,
		Interview:     &interview,
		Timestamp:     time.Now(),
	}

	p.recordBusiness(ctx, "workflow_completed", true)
	if p.logger != nil {
		p.logger.Info("Workflow completed", "candidate", input.Name)
	}
	return result, nil
}

// Memory returns a snapshot of the session memory accumulated so far.
func (p *Pipeline) Memory() map[string]any {
	return p.memory.Snapshot()
}

// ValidateCandidateInput enforces the caller contract: name, email,
// and resume text are required.
func ValidateCandidateInput(input types.CandidateInput) error {
	if input.Name == "" {
		return errors.NewValidationError(errors.ErrCodeMissingField,
			"Candidate name is required", nil).WithContext("field", "name")
	}
	if input.Email == "" {
		return errors.NewValidationError(errors.ErrCodeMissingField,
			"Candidate email is required", nil).WithContext("field", "email")
	}
	if input.Resume == "" {
		return errors.NewValidationError(errors.ErrCodeMissingField,
			"Candidate resume text is required", nil).WithContext("field", "resume")
	}
	return nil
}

// trackStage wraps a stage function with tracing and metrics when
// observability is wired up.
func (p *Pipeline) trackStage(ctx context.Context, stage string, fn func(context.Context) error) error {
	if p.obs == nil {
		return fn(ctx)
	}
	return p.obs.GetMetrics().TrackStageOperation(ctx, stage, p.obs, fn)
}

func (p *Pipeline) recordBusiness(ctx context.Context, metricType string, success bool, attrs ...attribute.KeyValue) {
	if p.obs == nil {
		return
	}
	p.obs.GetMetrics().RecordBusinessMetric(ctx, metricType, success, p.obs, attrs...)
}
