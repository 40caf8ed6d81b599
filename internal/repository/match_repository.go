package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mfaqihw/dev-screener/internal/model"
)

type MatchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) *MatchRepository {
	return &MatchRepository{db}
}

func (r *MatchRepository) Save(record *model.MatchRecord) error {
	return r.db.Create(record).Error
}

func (r *MatchRepository) FindByJobAndCandidate(jobID, candidateKey string) (*model.MatchRecord, error) {
	var record model.MatchRecord
	err := r.db.
		Where("job_id = ? AND candidate_key = ?", jobID, candidateKey).
		Order("created_at DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}
