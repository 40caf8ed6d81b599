package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mfaqihw/dev-screener/internal/model"
)

type EvaluationRepository struct {
	db *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) *EvaluationRepository {
	return &EvaluationRepository{db}
}

func (r *EvaluationRepository) Create(evaluation *model.CandidateEvaluation) error {
	return r.db.Create(evaluation).Error
}

func (r *EvaluationRepository) FindByID(id string) (*model.CandidateEvaluation, error) {
	var evaluation model.CandidateEvaluation
	err := r.db.First(&evaluation, "id = ?", id).Error
	return &evaluation, err
}

// FindRecentByLogin returns the latest completed evaluation for the
// login if it is younger than maxAge, or nil when none qualifies.
func (r *EvaluationRepository) FindRecentByLogin(login string, maxAge time.Duration) (*model.CandidateEvaluation, error) {
	var evaluation model.CandidateEvaluation
	cutoff := time.Now().Add(-maxAge)
	err := r.db.
		Where("login = ? AND status = ? AND updated_at > ?", login, "completed", cutoff).
		Order("updated_at DESC").
		First(&evaluation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &evaluation, nil
}
