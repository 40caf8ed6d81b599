package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/mfaqihw/dev-screener/internal/engine"
)

// Job stores a position's requirements plus an embedding of its
// description for semantic recommendation.
type Job struct {
	ID                 uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title              string          `json:"title"`
	Description        string          `gorm:"type:text" json:"description"`
	StackMust          string          `gorm:"type:jsonb" json:"stack_must"`
	StackNice          string          `gorm:"type:jsonb" json:"stack_nice"`
	Seniority          string          `gorm:"type:varchar(50)" json:"seniority"`
	ExperienceRequired float64         `json:"experience_required"`
	Embedding          pgvector.Vector `gorm:"type:vector(3072)" json:"-"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func (j *Job) TableName() string {
	return "jobs"
}

func (j *Job) SetStacks(must, nice []string) error {
	rawMust, err := json.Marshal(must)
	if err != nil {
		return err
	}
	rawNice, err := json.Marshal(nice)
	if err != nil {
		return err
	}
	j.StackMust = string(rawMust)
	j.StackNice = string(rawNice)
	return nil
}

// Requirements decodes the stored stack lists into the engine's
// read-only job shape.
func (j *Job) Requirements() (engine.JobRequirements, error) {
	req := engine.JobRequirements{
		Seniority:          j.Seniority,
		ExperienceRequired: j.ExperienceRequired,
	}
	if j.StackMust != "" {
		if err := json.Unmarshal([]byte(j.StackMust), &req.StackMust); err != nil {
			return req, err
		}
	}
	if j.StackNice != "" {
		if err := json.Unmarshal([]byte(j.StackNice), &req.StackNice); err != nil {
			return req, err
		}
	}
	return req, nil
}
