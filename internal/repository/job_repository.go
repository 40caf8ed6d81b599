package repository

import (
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/mfaqihw/dev-screener/internal/model"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db}
}

func (r *JobRepository) Create(job *model.Job) error {
	return r.db.Create(job).Error
}

func (r *JobRepository) Update(job *model.Job) error {
	return r.db.Save(job).Error
}

func (r *JobRepository) FindByID(id string) (*model.Job, error) {
	var job model.Job
	err := r.db.First(&job, "id = ?", id).Error
	return &job, err
}

func (r *JobRepository) List(page, pageSize int) ([]model.Job, int64, error) {
	var jobs []model.Job
	var total int64
	if err := r.db.Model(&model.Job{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&jobs).Error
	return jobs, total, err
}

// SearchByEmbedding ranks jobs by vector distance to the candidate
// profile embedding.
func (r *JobRepository) SearchByEmbedding(embedding pgvector.Vector, topK int) ([]model.Job, error) {
	var jobs []model.Job
	err := r.db.Raw(`
        SELECT *, embedding <-> ? AS distance
        FROM jobs
        ORDER BY embedding <-> ?
        LIMIT ?
    `, embedding, embedding, topK).Scan(&jobs).Error
	return jobs, err
}
