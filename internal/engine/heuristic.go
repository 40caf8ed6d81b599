package engine

import (
	"fmt"
	"math"
	"strings"
)

const (
	maxSkills       = 10
	maxEvidence     = 6
	maxRoleFits     = 5
	daysPerYear     = 365
	windowDays      = 30
	activeDaysBusy  = 15
	repoCountBroad  = 10
	velocityShipper = 30
)

// DeriveProfile is the deterministic synthesis strategy. It is a pure
// function of the signals: the same input always yields the same
// profile. Profiles it produces are always flagged as mock.
func DeriveProfile(signals CandidateSignals) WorkabilityProfile {
	level := deriveExperience(signals)
	return WorkabilityProfile{
		Skills:           deriveSkills(signals),
		RealWorkEvidence: deriveEvidence(signals),
		ExperienceLevel:  level,
		WorkStyle:        deriveWorkStyle(signals),
		RoleFits:         deriveRoleFits(signals, level.Level),
		WorkabilityScore: deriveScore(signals, level.Level),
		IsMock:           true,
	}
}

func deriveSkills(signals CandidateSignals) []SkillAssessment {
	confidenceByRank := []string{ConfidenceHigh, ConfidenceMedium, ConfidenceLow}

	skills := make([]SkillAssessment, 0, maxSkills)
	for i, lang := range signals.PrimaryLanguages {
		confidence := ConfidenceLow
		if i < len(confidenceByRank) {
			confidence = confidenceByRank[i]
		}
		skills = append(skills, SkillAssessment{Skill: lang.Name, Confidence: confidence})
	}
	if signals.HasProjectType("web") {
		skills = append(skills, SkillAssessment{Skill: "Web Development", Confidence: ConfidenceMedium})
	}
	if signals.HasProjectType("data") {
		skills = append(skills, SkillAssessment{Skill: "Data Engineering", Confidence: ConfidenceMedium})
	}
	if signals.CollaborationHint {
		skills = append(skills, SkillAssessment{Skill: "Team Collaboration", Confidence: ConfidenceMedium})
	}
	skills = append(skills, SkillAssessment{Skill: "Version Control (Git)", Confidence: ConfidenceHigh})

	if len(skills) > maxSkills {
		skills = skills[:maxSkills]
	}
	return skills
}

func deriveEvidence(signals CandidateSignals) []string {
	evidence := []string{
		fmt.Sprintf("%d public repositories, %d stars across top projects", signals.RepoCount, signals.StarsTotal),
	}
	if len(signals.TopRepos) > 0 {
		top := signals.TopRepos[0]
		language := top.Language
		if language == "" {
			language = "unspecified language"
		}
		evidence = append(evidence, fmt.Sprintf("Most starred project: %s (%d stars, %s)", top.Name, top.Stars, language))
	}
	evidence = append(evidence,
		fmt.Sprintf("%d commits in the last %d days across %d active days", signals.RecentCommitVelocity, windowDays, signals.ActiveDays))
	if signals.CollaborationHint {
		evidence = append(evidence, "Commits land alongside other contributors on shared repositories")
	} else {
		evidence = append(evidence, "Owns and drives their repositories end to end")
	}

	recentlyActive := 0
	for _, repo := range signals.TopRepos {
		if repo.RecentActivity {
			recentlyActive++
		}
	}
	if recentlyActive >= 2 {
		evidence = append(evidence, fmt.Sprintf("%d actively maintained projects pushed to within the last month", recentlyActive))
	}

	if len(evidence) > maxEvidence {
		evidence = evidence[:maxEvidence]
	}
	return evidence
}

func deriveExperience(signals CandidateSignals) ExperienceLevel {
	years := float64(signals.AccountAgeDays) / daysPerYear
	activityScore := float64(signals.RecentCommitVelocity) / windowDays * float64(signals.ActiveDays)

	level := LevelJunior
	switch {
	case years >= 5 && signals.StarsTotal >= 50 && activityScore >= 20:
		level = LevelSenior
	case years >= 2 && (signals.StarsTotal >= 10 || activityScore >= 10):
		level = LevelMid
	}

	return ExperienceLevel{
		Level: level,
		Rationale: fmt.Sprintf("%.1f years on the platform, %d stars on top projects, recent activity score %.0f",
			years, signals.StarsTotal, activityScore),
	}
}

func deriveWorkStyle(signals CandidateSignals) []WorkStyleTrait {
	pick := func(cond bool, yes, no string) string {
		if cond {
			return yes
		}
		return no
	}
	return []WorkStyleTrait{
		{
			Trait: "Consistency",
			Description: pick(signals.ActiveDays >= activeDaysBusy,
				"Commits steadily throughout the month",
				"Activity arrives in bursts rather than a daily cadence"),
		},
		{
			Trait: "Ownership",
			Description: pick(signals.RepoCount >= repoCountBroad,
				"Maintains a broad portfolio of own projects",
				"Focuses effort on a small number of projects"),
		},
		{
			Trait: "Collaboration",
			Description: pick(signals.CollaborationHint,
				"Comfortable working in shared codebases with other authors",
				"Mostly works solo; limited co-authorship visible"),
		},
		{
			Trait: "Shipping Velocity",
			Description: pick(signals.RecentCommitVelocity >= velocityShipper,
				"Ships changes at a high, sustained pace",
				"Ships at a measured pace"),
		},
	}
}

func deriveRoleFits(signals CandidateSignals, level string) []string {
	fits := make([]string, 0, maxRoleFits)
	add := func(role string) {
		if len(fits) >= maxRoleFits {
			return
		}
		for _, existing := range fits {
			if existing == role {
				return
			}
		}
		fits = append(fits, role)
	}

	primary := signals.PrimaryLanguage()
	languageRuleFired := false
	switch strings.ToLower(primary) {
	case "javascript", "typescript":
		if signals.HasProjectType("web") {
			add("Full-Stack Developer")
			add("Frontend Developer")
			languageRuleFired = true
		}
	case "python":
		add("Backend Developer")
		if signals.HasProjectType("data") {
			add("Data Engineer")
		}
		languageRuleFired = true
	}
	if signals.HasProjectType("devops") {
		add("DevOps Engineer")
	}
	if !languageRuleFired && primary != "" {
		add(primary + " Developer")
	}
	if signals.HasProjectType("library") {
		add("SDK/Library Developer")
	}
	if level == LevelSenior {
		add("Technical Lead")
	}
	return fits
}

func deriveScore(signals CandidateSignals, level string) WorkabilityScore {
	levelBonus := map[string]float64{
		LevelSenior: 20,
		LevelMid:    10,
		LevelJunior: 5,
	}[level]

	raw := float64(signals.StarsTotal)/10*0.2 +
		float64(signals.RecentCommitVelocity)/2*0.3 +
		float64(signals.ActiveDays)*1.5 +
		levelBonus
	if signals.CollaborationHint {
		raw += 10
	}

	score := int(math.Round(raw))
	if score > 100 {
		score = 100
	}

	rationale := "Limited public signal; score reflects a small observable footprint"
	switch {
	case score >= 75:
		rationale = "Strong, well-rounded public footprint with sustained recent delivery"
	case score >= 50:
		rationale = "Solid activity with clear room to grow visibility and cadence"
	}

	return WorkabilityScore{Score: score, Rationale: rationale}
}
