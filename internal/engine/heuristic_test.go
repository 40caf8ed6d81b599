package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveProfileIsDeterministic(t *testing.T) {
	signals := CandidateSignals{
		PrimaryLanguages:     []LanguageShare{{Name: "Go", Percentage: 60}, {Name: "Python", Percentage: 30}},
		RepoCount:            12,
		StarsTotal:           80,
		RecentCommitVelocity: 40,
		ActiveDays:           18,
		ProjectTypes:         []string{"cli", "web"},
		CollaborationHint:    true,
		AccountAgeDays:       2200,
		TopRepos:             []TopRepo{{Name: "alpha", Stars: 50, Language: "Go", RecentActivity: true}},
	}

	first := DeriveProfile(signals)
	second := DeriveProfile(signals)

	assert.Equal(t, first, second)
	assert.True(t, first.IsMock)
}

func TestDeriveSkills(t *testing.T) {
	signals := CandidateSignals{
		PrimaryLanguages:  []LanguageShare{{Name: "Go"}, {Name: "Python"}, {Name: "Shell"}},
		ProjectTypes:      []string{"data", "web"},
		CollaborationHint: true,
	}

	skills := deriveSkills(signals)

	require.GreaterOrEqual(t, len(skills), 6)
	assert.Equal(t, SkillAssessment{Skill: "Go", Confidence: ConfidenceHigh}, skills[0])
	assert.Equal(t, SkillAssessment{Skill: "Python", Confidence: ConfidenceMedium}, skills[1])
	assert.Equal(t, SkillAssessment{Skill: "Shell", Confidence: ConfidenceLow}, skills[2])
	assert.Contains(t, skills, SkillAssessment{Skill: "Web Development", Confidence: ConfidenceMedium})
	assert.Contains(t, skills, SkillAssessment{Skill: "Data Engineering", Confidence: ConfidenceMedium})
	assert.Contains(t, skills, SkillAssessment{Skill: "Team Collaboration", Confidence: ConfidenceMedium})
	assert.Contains(t, skills, SkillAssessment{Skill: "Version Control (Git)", Confidence: ConfidenceHigh})
	assert.LessOrEqual(t, len(skills), 10)
}

func TestDeriveExperienceLevels(t *testing.T) {
	cases := []struct {
		name    string
		signals CandidateSignals
		want    string
	}{
		{
			name:    "fresh account is junior",
			signals: CandidateSignals{AccountAgeDays: 200},
			want:    LevelJunior,
		},
		{
			name: "two years with stars is mid",
			signals: CandidateSignals{
				AccountAgeDays: 800,
				StarsTotal:     15,
			},
			want: LevelMid,
		},
		{
			name: "two years with activity is mid",
			signals: CandidateSignals{
				AccountAgeDays:       800,
				RecentCommitVelocity: 30,
				ActiveDays:           12,
			},
			want: LevelMid,
		},
		{
			name: "five years, stars and activity is senior",
			signals: CandidateSignals{
				AccountAgeDays:       5 * 365,
				StarsTotal:           60,
				RecentCommitVelocity: 30,
				ActiveDays:           20,
			},
			want: LevelSenior,
		},
		{
			name: "old but inactive account stays junior",
			signals: CandidateSignals{
				AccountAgeDays: 10 * 365,
			},
			want: LevelJunior,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			level := deriveExperience(tc.signals)
			assert.Equal(t, tc.want, level.Level)
			assert.NotEmpty(t, level.Rationale)
		})
	}
}

func TestDeriveExperienceRationaleIncludesYears(t *testing.T) {
	level := deriveExperience(CandidateSignals{AccountAgeDays: 912}) // 2.498... years
	assert.Contains(t, level.Rationale, "2.5 years")
}

func TestEmptyRepositoriesYieldJuniorProfile(t *testing.T) {
	signals := CandidateSignals{
		PrimaryLanguages: []LanguageShare{},
		TopRepos:         []TopRepo{},
		AccountAgeDays:   365,
	}

	profile := DeriveProfile(signals)

	assert.Equal(t, LevelJunior, profile.ExperienceLevel.Level)
	assert.True(t, profile.IsMock)
	assert.NotEmpty(t, profile.RealWorkEvidence)
	assert.Len(t, profile.WorkStyle, 4)
}

func TestDeriveWorkStyle(t *testing.T) {
	active := deriveWorkStyle(CandidateSignals{
		ActiveDays:           20,
		RepoCount:            15,
		CollaborationHint:    true,
		RecentCommitVelocity: 35,
	})
	quiet := deriveWorkStyle(CandidateSignals{})

	require.Len(t, active, 4)
	require.Len(t, quiet, 4)
	for i := range active {
		assert.Equal(t, active[i].Trait, quiet[i].Trait)
		assert.NotEqual(t, active[i].Description, quiet[i].Description)
	}
	assert.Equal(t, "Consistency", active[0].Trait)
	assert.Equal(t, "Shipping Velocity", active[3].Trait)
}

func TestDeriveRoleFits(t *testing.T) {
	cases := []struct {
		name    string
		signals CandidateSignals
		level   string
		want    []string
	}{
		{
			name: "typescript with web projects",
			signals: CandidateSignals{
				PrimaryLanguages: []LanguageShare{{Name: "TypeScript"}},
				ProjectTypes:     []string{"web"},
			},
			level: LevelMid,
			want:  []string{"Full-Stack Developer", "Frontend Developer"},
		},
		{
			name: "javascript without web falls back",
			signals: CandidateSignals{
				PrimaryLanguages: []LanguageShare{{Name: "JavaScript"}},
			},
			level: LevelJunior,
			want:  []string{"JavaScript Developer"},
		},
		{
			name: "python with data projects",
			signals: CandidateSignals{
				PrimaryLanguages: []LanguageShare{{Name: "Python"}},
				ProjectTypes:     []string{"data"},
			},
			level: LevelMid,
			want:  []string{"Backend Developer", "Data Engineer"},
		},
		{
			name: "devops and library tags append",
			signals: CandidateSignals{
				PrimaryLanguages: []LanguageShare{{Name: "Go"}},
				ProjectTypes:     []string{"devops", "library"},
			},
			level: LevelJunior,
			want:  []string{"DevOps Engineer", "Go Developer", "SDK/Library Developer"},
		},
		{
			name: "senior appends technical lead",
			signals: CandidateSignals{
				PrimaryLanguages: []LanguageShare{{Name: "Rust"}},
			},
			level: LevelSenior,
			want:  []string{"Rust Developer", "Technical Lead"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fits := deriveRoleFits(tc.signals, tc.level)
			assert.Equal(t, tc.want, fits)
			assert.LessOrEqual(t, len(fits), 5)
		})
	}
}

func TestDeriveScoreClamps(t *testing.T) {
	score := deriveScore(CandidateSignals{
		StarsTotal:           10000,
		RecentCommitVelocity: 500,
		ActiveDays:           30,
		CollaborationHint:    true,
	}, LevelSenior)

	assert.Equal(t, 100, score.Score)
	assert.NotEmpty(t, score.Rationale)
}

func TestDeriveScoreFormula(t *testing.T) {
	// 50/10*0.2 + 20/2*0.3 + 10*1.5 + 10 + 10 = 1 + 3 + 15 + 10 + 10 = 39
	score := deriveScore(CandidateSignals{
		StarsTotal:           50,
		RecentCommitVelocity: 20,
		ActiveDays:           10,
		CollaborationHint:    true,
	}, LevelMid)

	assert.Equal(t, 39, score.Score)
}
