package types

import "time"

// Recommendation is the screening verdict for a candidate
type Recommendation string

const (
	RecommendationPass   Recommendation = "PASS"
	RecommendationReview Recommendation = "REVIEW"
	RecommendationReject Recommendation = "REJECT"
)

// WorkflowStatus represents the terminal outcome of a workflow run
type WorkflowStatus string

const (
	StatusCompleted WorkflowStatus = "COMPLETED"
	StatusRejected  WorkflowStatus = "REJECTED"
)

// CandidateInput is the caller-supplied candidate record. Skills and
// ExperienceYears are optional and default to empty/zero.
type CandidateInput struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Resume          string   `json:"resume"`
	Skills          []string `json:"skills,omitempty"`
	ExperienceYears float64  `json:"experienceYears,omitempty"`
}

// CandidateProfile represents a candidate profile, immutable once
// constructed for a workflow run
type CandidateProfile struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	ResumeText      string   `json:"resumeText"`
	Skills          []string `json:"skills"`
	ExperienceYears float64  `json:"experienceYears"`
}

// JobRecord is one entry of the externally supplied job catalog. The
// pipeline never mutates it.
type JobRecord struct {
	ID                      string   `json:"id"`
	Title                   string   `json:"title"`
	Company                 string   `json:"company"`
	RequiredSkills          []string `json:"requiredSkills"`
	YearsExperienceRequired float64  `json:"yearsExperienceRequired"`
}

// ScreeningResult represents the output of the screening stage
type ScreeningResult struct {
	MatchScore     float64        `json:"matchScore"`
	ResumeSkills   []string       `json:"resumeSkills"`
	RequiredSkills []string       `json:"requiredSkills"`
	Recommendation Recommendation `json:"recommendation"`
	Timestamp      time.Time      `json:"timestamp"`
}

// JobMatch is one ranked entry in a MatchingResult
type JobMatch struct {
	JobID      string   `json:"jobId"`
	Title      string   `json:"title"`
	Company    string   `json:"company"`
	MatchScore float64  `json:"matchScore"`
	KeyMatches []string `json:"keyMatches"`
}

// MatchingResult represents the output of the job matching stage.
// TopMatches is sorted descending by score, ties broken by catalog
// order, and capped at the configured maximum. TotalMatches counts all
// jobs above the cutoff before truncation.
type MatchingResult struct {
	CandidateID  string     `json:"candidateId"`
	TotalMatches int        `json:"totalMatchesFound"`
	TopMatches   []JobMatch `json:"topMatches"`
	Timestamp    time.Time  `json:"timestamp"`
}

// InterviewQuestion is a single generated question with its category
type InterviewQuestion struct {
	ID       int    `json:"id"`
	Category string `json:"category"`
	Question string `json:"question"`
}

// InterviewPlan represents a generated interview question set
type InterviewPlan struct {
	Role            string              `json:"role"`
	TotalQuestions  int                 `json:"totalQuestions"`
	Questions       []InterviewQuestion `json:"questions"`
	DifficultyLevel string              `json:"difficultyLevel"`
	Timestamp       time.Time           `json:"timestamp"`
}

// InterviewOutcome is the tagged result of the interview stage: either
// a plan or a no-matches marker, never both
type InterviewOutcome struct {
	Plan      *InterviewPlan `json:"plan,omitempty"`
	NoMatches bool           `json:"noMatches,omitempty"`
}

// WorkflowResult aggregates the stage outputs of one workflow run. For
// a rejected run only Screening is populated and Stage names the stage
// that halted the pipeline.
type WorkflowResult struct {
	CandidateName string            `json:"candidateName"`
	Status        WorkflowStatus    `json:"status"`
	Stage         string            `json:"stage,omitempty"`
	Screening     *ScreeningResult  `json:"screening,omitempty"`
	Matching      *MatchingResult   `json:"matching,omitempty"`
	Interview     *InterviewOutcome `json:"interview,omitempty"`
	Timestamp     time.Time         `json:"timestamp"`
}
