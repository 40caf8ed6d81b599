package repository

import (
	"gorm.io/gorm"

	"github.com/mfaqihw/dev-screener/internal/model"
)

type CandidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) *CandidateRepository {
	return &CandidateRepository{db}
}

func (r *CandidateRepository) Create(candidate *model.StoredCandidate) error {
	return r.db.Create(candidate).Error
}

func (r *CandidateRepository) FindByID(id string) (*model.StoredCandidate, error) {
	var candidate model.StoredCandidate
	err := r.db.First(&candidate, "id = ?", id).Error
	return &candidate, err
}

func (r *CandidateRepository) List(page, pageSize int) ([]model.StoredCandidate, int64, error) {
	var candidates []model.StoredCandidate
	var total int64
	if err := r.db.Model(&model.StoredCandidate{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&candidates).Error
	return candidates, total, err
}
