package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/mfaqihw/dev-screener/internal/engine"
)

// CandidateEvaluation is a persisted evaluation: the signal vector and
// the synthesized profile for one login, reused within the freshness
// window instead of re-fetching upstream data.
type CandidateEvaluation struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Login     string    `gorm:"type:varchar(100);index" json:"login"`
	Status    string    `gorm:"type:varchar(50)" json:"status"` // "completed" or "failed"
	Signals   string    `gorm:"type:jsonb" json:"signals"`
	Profile   string    `gorm:"type:jsonb" json:"profile"`
	IsMock    bool      `json:"is_mock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *CandidateEvaluation) SetSignals(signals engine.CandidateSignals) error {
	raw, err := json.Marshal(signals)
	if err != nil {
		return err
	}
	e.Signals = string(raw)
	return nil
}

func (e *CandidateEvaluation) DecodeSignals() (engine.CandidateSignals, error) {
	var signals engine.CandidateSignals
	err := json.Unmarshal([]byte(e.Signals), &signals)
	return signals, err
}

func (e *CandidateEvaluation) SetProfile(profile engine.WorkabilityProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	e.Profile = string(raw)
	e.IsMock = profile.IsMock
	return nil
}

func (e *CandidateEvaluation) DecodeProfile() (engine.WorkabilityProfile, error) {
	var profile engine.WorkabilityProfile
	err := json.Unmarshal([]byte(e.Profile), &profile)
	return profile, err
}
