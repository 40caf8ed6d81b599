package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/mfaqihw/dev-screener/internal/engine"
)

// StoredCandidate is a directly-registered candidate record, scored
// against jobs by the stack rubric rather than derived signals.
type StoredCandidate struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name            string    `json:"name"`
	Skills          string    `gorm:"type:jsonb" json:"skills"`
	ExperienceYears float64   `json:"experience_years"`
	Seniority       string    `gorm:"type:varchar(50)" json:"seniority"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (c *StoredCandidate) SetSkills(skills []string) error {
	raw, err := json.Marshal(skills)
	if err != nil {
		return err
	}
	c.Skills = string(raw)
	return nil
}

func (c *StoredCandidate) Record() (engine.CandidateRecord, error) {
	record := engine.CandidateRecord{
		Name:            c.Name,
		ExperienceYears: c.ExperienceYears,
		Seniority:       c.Seniority,
	}
	if c.Skills != "" {
		if err := json.Unmarshal([]byte(c.Skills), &record.Skills); err != nil {
			return record, err
		}
	}
	return record, nil
}
