package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

const validProfileJSON = `{
  "skills": [{"skill": "Go", "confidence": "High"}],
  "real_work_evidence": ["Ships production services"],
  "experience_level": {"level": "Senior", "rationale": "Long track record"},
  "work_style": [{"trait": "Consistency", "description": "Daily commits"}],
  "role_fits": ["Backend Developer"],
  "workability_score": {"score": 82, "rationale": "Strong footprint"}
}`

func testSignals() CandidateSignals {
	return CandidateSignals{
		PrimaryLanguages:     []LanguageShare{{Name: "Go", Percentage: 80}},
		RepoCount:            8,
		StarsTotal:           120,
		RecentCommitVelocity: 22,
		ActiveDays:           14,
		AccountAgeDays:       2000,
	}
}

func TestSynthesizeRemoteSuccess(t *testing.T) {
	stub := &stubGenerator{response: validProfileJSON}
	s := NewSynthesizer(stub, zap.NewNop())

	profile := s.Synthesize(context.Background(), testSignals())

	assert.False(t, profile.IsMock)
	require.Len(t, profile.Skills, 1)
	assert.Equal(t, "Go", profile.Skills[0].Skill)
	assert.Equal(t, LevelSenior, profile.ExperienceLevel.Level)
	assert.Equal(t, 82, profile.WorkabilityScore.Score)
	// The serialized signals go into the prompt.
	assert.Contains(t, stub.lastPrompt, `"stars_total": 120`)
}

func TestSynthesizeRemoteHandlesCodeFences(t *testing.T) {
	stub := &stubGenerator{response: "```json\n" + validProfileJSON + "\n```"}
	s := NewSynthesizer(stub, zap.NewNop())

	profile := s.Synthesize(context.Background(), testSignals())

	assert.False(t, profile.IsMock)
	assert.Equal(t, 82, profile.WorkabilityScore.Score)
}

func TestSynthesizeFallsBackOnGeneratorError(t *testing.T) {
	stub := &stubGenerator{err: errors.New("deadline exceeded")}
	s := NewSynthesizer(stub, zap.NewNop())

	profile := s.Synthesize(context.Background(), testSignals())

	assert.True(t, profile.IsMock)
	assert.NotEmpty(t, profile.Skills)
	assert.NotEmpty(t, profile.RealWorkEvidence)
	assert.Len(t, profile.WorkStyle, 4)
	assert.NotEmpty(t, profile.ExperienceLevel.Level)
}

func TestSynthesizeFallsBackOnMalformedJSON(t *testing.T) {
	stub := &stubGenerator{response: "I think this candidate is great!"}
	s := NewSynthesizer(stub, zap.NewNop())

	profile := s.Synthesize(context.Background(), testSignals())

	assert.True(t, profile.IsMock)
}

func TestSynthesizeFallsBackOnSchemaViolation(t *testing.T) {
	bad := strings.Replace(validProfileJSON, `"Senior"`, `"Wizard"`, 1)
	stub := &stubGenerator{response: bad}
	s := NewSynthesizer(stub, zap.NewNop())

	profile := s.Synthesize(context.Background(), testSignals())

	assert.True(t, profile.IsMock)
}

func TestSynthesizeWithoutGeneratorUsesHeuristic(t *testing.T) {
	s := NewSynthesizer(nil, zap.NewNop())

	profile := s.Synthesize(context.Background(), testSignals())

	assert.True(t, profile.IsMock)
	assert.Equal(t, DeriveProfile(testSignals()), profile)
}

func TestParseProfileRejectsOutOfRangeScore(t *testing.T) {
	bad := strings.Replace(validProfileJSON, `"score": 82`, `"score": 140`, 1)
	_, err := parseProfile(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestParseProfileTruncatesLists(t *testing.T) {
	long := strings.Replace(validProfileJSON,
		`"role_fits": ["Backend Developer"]`,
		`"role_fits": ["A", "B", "C", "D", "E", "F", "G"]`, 1)
	profile, err := parseProfile(long)
	require.NoError(t, err)
	assert.Len(t, profile.RoleFits, 5)
}
