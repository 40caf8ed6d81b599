package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/mfaqihw/dev-screener/internal/engine"
)

// EvaluationDTO is the API shape of a stored evaluation, with the
// signal and profile payloads decoded.
type EvaluationDTO struct {
	ID        uuid.UUID                 `json:"id"`
	Login     string                    `json:"login"`
	Status    string                    `json:"status"`
	Signals   engine.CandidateSignals   `json:"signals"`
	Profile   engine.WorkabilityProfile `json:"profile"`
	IsMock    bool                      `json:"is_mock"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`
}
