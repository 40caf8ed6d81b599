package engine

import (
	"fmt"
	"strings"
)

// Fit labels are ordinal and part of the wire contract.
const (
	FitExcellent = "Excellent"
	FitStrong    = "Strong"
	FitModerate  = "Moderate"
	FitWeak      = "Weak"
	FitPoor      = "Poor"
)

// JobRequirements is the read-only job side of a match.
type JobRequirements struct {
	StackMust          []string `json:"stack_must"`
	StackNice          []string `json:"stack_nice"`
	Seniority          string   `json:"seniority"`
	ExperienceRequired float64  `json:"experience_required"`
}

// MatchResult is recomputed per (candidate, job) pair and never cached
// by the engine.
type MatchResult struct {
	Score       float64  `json:"score"`
	Fit         string   `json:"fit"`
	Highlights  []string `json:"highlights"`
	Risks       []string `json:"risks"`
	Explanation string   `json:"explanation"`
}

// CandidateRecord is a directly-stored candidate, the input shape of the
// stack rubric.
type CandidateRecord struct {
	Name            string   `json:"name"`
	Skills          []string `json:"skills"`
	ExperienceYears float64  `json:"experience_years"`
	Seniority       string   `json:"seniority"`
}

// Candidate carries exactly one of the two candidate shapes the scoring
// strategies accept.
type Candidate struct {
	Signals *CandidateSignals
	Record  *CandidateRecord
}

// ScoringStrategy is implemented by the two scoring rubrics. They are
// deliberately kept separate: collapsing them would silently change
// observable scores for one of the two candidate-data shapes.
type ScoringStrategy interface {
	Name() string
	Score(candidate Candidate, job JobRequirements) (MatchResult, error)
}

// SignalRubric scores hosting-platform-derived signals: 15 points per
// required skill, 7 per preferred, 15 for senior-level exposure, 15 for
// strong recent activity.
type SignalRubric struct{}

func (SignalRubric) Name() string { return "signal" }

func (SignalRubric) Score(candidate Candidate, job JobRequirements) (MatchResult, error) {
	signals := candidate.Signals
	if signals == nil {
		return MatchResult{}, fmt.Errorf("signal rubric requires candidate signals")
	}

	known := make(map[string]bool)
	for _, lang := range signals.PrimaryLanguages {
		known[strings.ToLower(lang.Name)] = true
	}
	for _, skill := range deriveSkills(*signals) {
		known[strings.ToLower(skill.Skill)] = true
	}

	var (
		score      float64
		matched    int
		highlights []string
		risks      []string
	)
	for _, must := range job.StackMust {
		if known[strings.ToLower(must)] {
			score += 15
			matched++
			highlights = append(highlights, "Strong match for required skill: "+must)
		} else {
			risks = append(risks, "Missing required skill: "+must)
		}
	}
	for _, nice := range job.StackNice {
		if known[strings.ToLower(nice)] {
			score += 7
			highlights = append(highlights, "Bonus skill: "+nice)
		}
	}

	if signals.StarsTotal >= 50 || signals.RepoCount >= 15 {
		score += 15
		highlights = append(highlights, "Senior-level project exposure")
	}
	if signals.RecentCommitVelocity >= 15 {
		score += 15
		highlights = append(highlights, "Strong recent activity")
	} else {
		risks = append(risks, "Low recent activity in the last 30 days")
	}

	score = clampScore(score)
	fit := signalFitLabel(score)

	return MatchResult{
		Score:      score,
		Fit:        fit,
		Highlights: highlights,
		Risks:      risks,
		Explanation: fmt.Sprintf("Matched %d of %d required skills; overall fit: %s",
			matched, len(job.StackMust), fit),
	}, nil
}

// StackRubric scores a stored candidate record against the job's stack
// lists: 60% must-have coverage, 20% nice-to-have coverage, 10% exact
// seniority match, 10% meeting the experience-years threshold.
type StackRubric struct{}

func (StackRubric) Name() string { return "stack" }

func (StackRubric) Score(candidate Candidate, job JobRequirements) (MatchResult, error) {
	record := candidate.Record
	if record == nil {
		return MatchResult{}, fmt.Errorf("stack rubric requires a stored candidate record")
	}

	known := make(map[string]bool)
	for _, skill := range record.Skills {
		known[strings.ToLower(skill)] = true
	}

	var (
		mustMatched int
		niceMatched int
		highlights  []string
		risks       []string
	)
	for _, must := range job.StackMust {
		if known[strings.ToLower(must)] {
			mustMatched++
			highlights = append(highlights, "Has required skill: "+must)
		} else {
			risks = append(risks, "Missing required skill: "+must)
		}
	}
	for _, nice := range job.StackNice {
		if known[strings.ToLower(nice)] {
			niceMatched++
			highlights = append(highlights, "Has preferred skill: "+nice)
		}
	}

	score := coverage(mustMatched, len(job.StackMust))*60 + coverage(niceMatched, len(job.StackNice))*20
	if job.Seniority != "" && strings.EqualFold(record.Seniority, job.Seniority) {
		score += 10
		highlights = append(highlights, "Seniority matches: "+job.Seniority)
	}
	if record.ExperienceYears >= job.ExperienceRequired {
		score += 10
	} else {
		risks = append(risks, fmt.Sprintf("Below the required %.0f years of experience", job.ExperienceRequired))
	}

	score = clampScore(score)
	fit := stackFitLabel(score)

	return MatchResult{
		Score:      score,
		Fit:        fit,
		Highlights: highlights,
		Risks:      risks,
		Explanation: fmt.Sprintf("Matched %d of %d required skills; overall fit: %s",
			mustMatched, len(job.StackMust), fit),
	}, nil
}

// coverage treats an empty requirement list as fully covered.
func coverage(matched, total int) float64 {
	if total == 0 {
		return 1
	}
	return float64(matched) / float64(total)
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func signalFitLabel(score float64) string {
	switch {
	case score >= 85:
		return FitExcellent
	case score >= 70:
		return FitStrong
	case score >= 55:
		return FitModerate
	case score >= 40:
		return FitWeak
	default:
		return FitPoor
	}
}

func stackFitLabel(score float64) string {
	switch {
	case score >= 80:
		return FitExcellent
	case score >= 60:
		return FitStrong
	case score >= 40:
		return FitModerate
	default:
		return FitWeak
	}
}
