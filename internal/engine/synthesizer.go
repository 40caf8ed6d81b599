package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// ContentGenerator is the reasoning service the remote strategy submits
// signal payloads to.
type ContentGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

const profilePrompt = `You are an experienced technical recruiter. Based on the public activity
signals below, assess how workable this software engineering candidate is.

Return your answer STRICTLY as a single JSON object with this schema and
nothing else:
{
  "skills": [{"skill": "<name>", "confidence": "<High|Med|Low>"}],
  "real_work_evidence": ["<max 6 short evidence statements>"],
  "experience_level": {"level": "<Junior|Mid|Senior>", "rationale": "<why>"},
  "work_style": [{"trait": "<name>", "description": "<one sentence>"}],
  "role_fits": ["<max 5 role titles>"],
  "workability_score": {"score": <integer 0-100>, "rationale": "<why>"}
}

Candidate signals:
{{SIGNALS_JSON}}
`

// Synthesizer turns CandidateSignals into a WorkabilityProfile. When a
// content generator is configured it asks the reasoning service first
// and falls back to the deterministic heuristic on any failure; a
// remote failure never propagates past Synthesize.
type Synthesizer struct {
	generator ContentGenerator
	logger    *zap.Logger
}

func NewSynthesizer(generator ContentGenerator, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{generator: generator, logger: logger}
}

func (s *Synthesizer) Synthesize(ctx context.Context, signals CandidateSignals) WorkabilityProfile {
	if s.generator != nil {
		profile, err := s.remote(ctx, signals)
		if err == nil {
			return profile
		}
		s.logger.Warn("remote synthesis failed, using heuristic profile", zap.Error(err))
	}
	return DeriveProfile(signals)
}

func (s *Synthesizer) remote(ctx context.Context, signals CandidateSignals) (WorkabilityProfile, error) {
	payload, err := json.MarshalIndent(signals, "", "  ")
	if err != nil {
		return WorkabilityProfile{}, fmt.Errorf("marshal signals: %w", err)
	}

	prompt := strings.ReplaceAll(profilePrompt, "{{SIGNALS_JSON}}", string(payload))

	raw, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		return WorkabilityProfile{}, fmt.Errorf("reasoning service: %w", err)
	}

	profile, err := parseProfile(raw)
	if err != nil {
		return WorkabilityProfile{}, err
	}
	return profile, nil
}

// parseProfile decodes a reasoning-service response into a profile and
// rejects anything that violates the schema.
func parseProfile(raw string) (WorkabilityProfile, error) {
	cleaned := stripCodeFence(raw)
	if !gjson.Valid(cleaned) {
		return WorkabilityProfile{}, fmt.Errorf("reasoning service returned non-JSON output")
	}
	body := gjson.Parse(cleaned)

	var profile WorkabilityProfile
	for _, entry := range body.Get("skills").Array() {
		profile.Skills = append(profile.Skills, SkillAssessment{
			Skill:      entry.Get("skill").String(),
			Confidence: entry.Get("confidence").String(),
		})
	}
	for _, entry := range body.Get("real_work_evidence").Array() {
		profile.RealWorkEvidence = append(profile.RealWorkEvidence, entry.String())
	}
	profile.ExperienceLevel = ExperienceLevel{
		Level:     body.Get("experience_level.level").String(),
		Rationale: body.Get("experience_level.rationale").String(),
	}
	for _, entry := range body.Get("work_style").Array() {
		profile.WorkStyle = append(profile.WorkStyle, WorkStyleTrait{
			Trait:       entry.Get("trait").String(),
			Description: entry.Get("description").String(),
		})
	}
	for _, entry := range body.Get("role_fits").Array() {
		profile.RoleFits = append(profile.RoleFits, entry.String())
	}
	profile.WorkabilityScore = WorkabilityScore{
		Score:     int(body.Get("workability_score.score").Int()),
		Rationale: body.Get("workability_score.rationale").String(),
	}

	if err := validateProfile(profile); err != nil {
		return WorkabilityProfile{}, fmt.Errorf("reasoning service response violates schema: %w", err)
	}

	if len(profile.RealWorkEvidence) > maxEvidence {
		profile.RealWorkEvidence = profile.RealWorkEvidence[:maxEvidence]
	}
	if len(profile.RoleFits) > maxRoleFits {
		profile.RoleFits = profile.RoleFits[:maxRoleFits]
	}
	return profile, nil
}

func validateProfile(profile WorkabilityProfile) error {
	if len(profile.Skills) == 0 {
		return fmt.Errorf("skills must not be empty")
	}
	for _, skill := range profile.Skills {
		switch skill.Confidence {
		case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		default:
			return fmt.Errorf("unknown confidence %q for skill %q", skill.Confidence, skill.Skill)
		}
	}
	switch profile.ExperienceLevel.Level {
	case LevelJunior, LevelMid, LevelSenior:
	default:
		return fmt.Errorf("unknown experience level %q", profile.ExperienceLevel.Level)
	}
	if score := profile.WorkabilityScore.Score; score < 0 || score > 100 {
		return fmt.Errorf("workability score %d out of range", score)
	}
	return nil
}

func stripCodeFence(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(raw)
}
