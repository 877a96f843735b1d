// Package scoring holds the pure scoring functions used by the
// recruitment pipeline: the screening match score, the weighted
// job-fit score, and skill set intersection. All functions are
// deterministic and perform no I/O.
package scoring

import (
	"math"

	"recruitflow/internal/types"
)

// Scoring thresholds and weights. The 70/50 screening thresholds and
// the 50-point job-match cutoff are deliberate product constants;
// config may override them per deployment.
const (
	PassThreshold   = 70.0
	ReviewThreshold = 50.0
	JobMatchCutoff  = 50.0

	SkillWeight      = 60.0
	ExperienceWeight = 40.0

	MaxTopMatches = 3
)

// ScreeningScore calculates the resume-to-job match percentage in
// [0,100]. An empty required set scores 0 regardless of the resume
// skills, avoiding a division by zero.
func ScreeningScore(resumeSkills, requiredSkills []string) float64 {
	if len(requiredSkills) == 0 {
		return 0
	}
	matches := len(SkillOverlap(resumeSkills, requiredSkills))
	return float64(matches) / float64(len(requiredSkills)) * 100
}

// JobFitScore calculates the weighted candidate-job fit score in
// [0,100]: skill overlap weighted 60, experience sufficiency weighted
// 40. A job with no required skills yields a skill ratio of 0 (the
// denominator is floored at 1, not an error). The experience ratio is
// capped at 1.0 so excess experience never inflates the score.
func JobFitScore(candidate types.CandidateProfile, job types.JobRecord) float64 {
	overlap := len(SkillOverlap(candidate.Skills, job.RequiredSkills))
	skillRatio := float64(overlap) / math.Max(1, float64(len(job.RequiredSkills)))

	expRatio := math.Min(1.0, candidate.ExperienceYears/math.Max(1, job.YearsExperienceRequired))

	return skillRatio*SkillWeight + expRatio*ExperienceWeight
}

// SkillOverlap returns the intersection of two skill sets, preserving
// the order of the first argument.
func SkillOverlap(a, b []string) []string {
	inB := make(map[string]bool, len(b))
	for _, skill := range b {
		inB[skill] = true
	}

	var overlap []string
	seen := make(map[string]bool, len(a))
	for _, skill := range a {
		if inB[skill] && !seen[skill] {
			overlap = append(overlap, skill)
			seen[skill] = true
		}
	}
	return overlap
}

// Recommend classifies a screening score into a recommendation using
// the default thresholds. The mapping is a monotonic step function of
// the score.
func Recommend(score float64) types.Recommendation {
	return RecommendWith(score, PassThreshold, ReviewThreshold)
}

// RecommendWith classifies a screening score against explicit
// thresholds, for deployments that override the defaults.
func RecommendWith(score, pass, review float64) types.Recommendation {
	switch {
	case score >= pass:
		return types.RecommendationPass
	case score >= review:
		return types.RecommendationReview
	default:
		return types.RecommendationReject
	}
}
