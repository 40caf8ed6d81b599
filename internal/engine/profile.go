package engine

// Confidence levels and experience levels are part of the wire contract;
// consumers match on the exact strings.
const (
	ConfidenceHigh   = "High"
	ConfidenceMedium = "Med"
	ConfidenceLow    = "Low"

	LevelJunior = "Junior"
	LevelMid    = "Mid"
	LevelSenior = "Senior"
)

type SkillAssessment struct {
	Skill      string `json:"skill"`
	Confidence string `json:"confidence"`
}

type ExperienceLevel struct {
	Level     string `json:"level"`
	Rationale string `json:"rationale"`
}

type WorkStyleTrait struct {
	Trait       string `json:"trait"`
	Description string `json:"description"`
}

type WorkabilityScore struct {
	Score     int    `json:"score"`
	Rationale string `json:"rationale"`
}

// WorkabilityProfile is the qualitative assessment synthesized from a
// CandidateSignals vector. A new evaluation always produces a fresh
// profile; nothing mutates one after creation. IsMock marks profiles
// produced by the deterministic fallback rather than the reasoning
// service.
type WorkabilityProfile struct {
	Skills           []SkillAssessment `json:"skills"`
	RealWorkEvidence []string          `json:"real_work_evidence"`
	ExperienceLevel  ExperienceLevel   `json:"experience_level"`
	WorkStyle        []WorkStyleTrait  `json:"work_style"`
	RoleFits         []string          `json:"role_fits"`
	WorkabilityScore WorkabilityScore  `json:"workability_score"`
	IsMock           bool              `json:"is_mock"`
}
