package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/mfaqihw/dev-screener/internal/engine"
)

// MatchRecord is a stored scoring outcome keyed by (job, candidate).
// CandidateKey is either a platform login (signal rubric) or a stored
// candidate id (stack rubric).
type MatchRecord struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	JobID        uuid.UUID `gorm:"type:uuid;index:idx_match_job_candidate" json:"job_id"`
	CandidateKey string    `gorm:"type:varchar(100);index:idx_match_job_candidate" json:"candidate_key"`
	Rubric       string    `gorm:"type:varchar(20)" json:"rubric"`
	Score        float64   `json:"score"`
	Fit          string    `gorm:"type:varchar(20)" json:"fit"`
	Highlights   string    `gorm:"type:jsonb" json:"highlights"`
	Risks        string    `gorm:"type:jsonb" json:"risks"`
	Explanation  string    `gorm:"type:text" json:"explanation"`
	CreatedAt    time.Time `json:"created_at"`
}

func (m *MatchRecord) SetResult(result engine.MatchResult) error {
	highlights, err := json.Marshal(result.Highlights)
	if err != nil {
		return err
	}
	risks, err := json.Marshal(result.Risks)
	if err != nil {
		return err
	}
	m.Score = result.Score
	m.Fit = result.Fit
	m.Highlights = string(highlights)
	m.Risks = string(risks)
	m.Explanation = result.Explanation
	return nil
}
