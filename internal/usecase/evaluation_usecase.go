package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mfaqihw/dev-screener/internal/engine"
	"github.com/mfaqihw/dev-screener/internal/model"
	"github.com/mfaqihw/dev-screener/internal/repository"
	"github.com/mfaqihw/dev-screener/internal/service"
)

const (
	// profileTTL is the freshness window for a cached evaluation.
	profileTTL = 6 * time.Hour

	repoFetchLimit = 100

	// rankConcurrency bounds parallel candidate evaluations in a batch
	// so the upstream rate limit is respected.
	rankConcurrency = 4
)

type EvaluationUsecase struct {
	evaluations *repository.EvaluationRepository
	jobs        *repository.JobRepository
	candidates  *repository.CandidateRepository
	matches     *repository.MatchRepository
	github      service.GitHubServiceInterface
	gemini      service.GeminiServiceInterface
	extractor   *engine.Extractor
	synthesizer *engine.Synthesizer
	logger      *zap.Logger
}

func NewEvaluationUsecase(
	evaluations *repository.EvaluationRepository,
	jobs *repository.JobRepository,
	candidates *repository.CandidateRepository,
	matches *repository.MatchRepository,
	github service.GitHubServiceInterface,
	gemini service.GeminiServiceInterface,
	extractor *engine.Extractor,
	synthesizer *engine.Synthesizer,
	logger *zap.Logger,
) *EvaluationUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EvaluationUsecase{
		evaluations: evaluations,
		jobs:        jobs,
		candidates:  candidates,
		matches:     matches,
		github:      github,
		gemini:      gemini,
		extractor:   extractor,
		synthesizer: synthesizer,
		logger:      logger,
	}
}

// EvaluateCandidate runs the full pipeline for one login: cached lookup,
// upstream fetch, signal extraction, profile synthesis, persistence.
func (uc *EvaluationUsecase) EvaluateCandidate(ctx context.Context, login string) (*model.CandidateEvaluation, error) {
	cached, err := uc.evaluations.FindRecentByLogin(login, profileTTL)
	if err != nil {
		return nil, fmt.Errorf("lookup cached evaluation: %w", err)
	}
	if cached != nil {
		uc.logger.Debug("serving cached evaluation", zap.String("login", login))
		return cached, nil
	}

	user, err := uc.github.GetUser(ctx, login)
	if err != nil {
		return nil, err
	}
	repos, err := uc.github.ListRepos(ctx, login, repoFetchLimit)
	if err != nil {
		return nil, err
	}

	signals := uc.extractor.Extract(ctx, *user, repos, uc.github, uc.github)
	profile := uc.synthesizer.Synthesize(ctx, signals)

	evaluation := &model.CandidateEvaluation{
		Login:     user.Login,
		Status:    "completed",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := evaluation.SetSignals(signals); err != nil {
		return nil, fmt.Errorf("encode signals: %w", err)
	}
	if err := evaluation.SetProfile(profile); err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}
	if err := uc.evaluations.Create(evaluation); err != nil {
		return nil, fmt.Errorf("persist evaluation: %w", err)
	}

	uc.logger.Info("candidate evaluated",
		zap.String("login", login),
		zap.Int("repos", signals.RepoCount),
		zap.Bool("is_mock", profile.IsMock))
	return evaluation, nil
}

func (uc *EvaluationUsecase) GetResult(id string) (*model.CandidateEvaluation, error) {
	return uc.evaluations.FindByID(id)
}

// MatchCandidate scores a platform login against a job with the signal
// rubric and stores the outcome.
func (uc *EvaluationUsecase) MatchCandidate(ctx context.Context, login, jobID string) (*engine.MatchResult, error) {
	evaluation, err := uc.EvaluateCandidate(ctx, login)
	if err != nil {
		return nil, err
	}
	signals, err := evaluation.DecodeSignals()
	if err != nil {
		return nil, fmt.Errorf("decode signals: %w", err)
	}

	job, err := uc.jobs.FindByID(jobID)
	if err != nil {
		return nil, fmt.Errorf("load job: %w", err)
	}
	requirements, err := job.Requirements()
	if err != nil {
		return nil, fmt.Errorf("decode job requirements: %w", err)
	}

	rubric := engine.SignalRubric{}
	result, err := rubric.Score(engine.Candidate{Signals: &signals}, requirements)
	if err != nil {
		return nil, err
	}

	uc.saveMatch(job.ID.String(), login, rubric.Name(), result)
	return &result, nil
}

// MatchStoredCandidate scores a directly-stored candidate record against
// a job with the stack rubric.
func (uc *EvaluationUsecase) MatchStoredCandidate(ctx context.Context, candidateID, jobID string) (*engine.MatchResult, error) {
	candidate, err := uc.candidates.FindByID(candidateID)
	if err != nil {
		return nil, fmt.Errorf("load candidate: %w", err)
	}
	record, err := candidate.Record()
	if err != nil {
		return nil, fmt.Errorf("decode candidate record: %w", err)
	}

	job, err := uc.jobs.FindByID(jobID)
	if err != nil {
		return nil, fmt.Errorf("load job: %w", err)
	}
	requirements, err := job.Requirements()
	if err != nil {
		return nil, fmt.Errorf("decode job requirements: %w", err)
	}

	rubric := engine.StackRubric{}
	result, err := rubric.Score(engine.Candidate{Record: &record}, requirements)
	if err != nil {
		return nil, err
	}

	uc.saveMatch(job.ID.String(), candidateID, rubric.Name(), result)
	return &result, nil
}

// RankedCandidate pairs a login with its match outcome; Err is set when
// that candidate's evaluation failed.
type RankedCandidate struct {
	Login  string              `json:"login"`
	Result *engine.MatchResult `json:"result,omitempty"`
	Err    string              `json:"error,omitempty"`
}

// RankCandidatesForJob evaluates and scores many logins against one job
// with bounded concurrency, returning candidates sorted by score. One
// candidate failing does not fail the batch.
func (uc *EvaluationUsecase) RankCandidatesForJob(ctx context.Context, jobID string, logins []string) ([]RankedCandidate, error) {
	if _, err := uc.jobs.FindByID(jobID); err != nil {
		return nil, fmt.Errorf("load job: %w", err)
	}

	ranked := make([]RankedCandidate, len(logins))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rankConcurrency)
	for i, login := range logins {
		g.Go(func() error {
			result, err := uc.MatchCandidate(gctx, login, jobID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				ranked[i] = RankedCandidate{Login: login, Err: err.Error()}
				return nil
			}
			ranked[i] = RankedCandidate{Login: login, Result: result}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		switch {
		case ranked[i].Result == nil:
			return false
		case ranked[j].Result == nil:
			return true
		default:
			return ranked[i].Result.Score > ranked[j].Result.Score
		}
	})
	return ranked, nil
}

// RecommendJobs embeds a short summary of the candidate's profile and
// returns the closest stored jobs by vector distance.
func (uc *EvaluationUsecase) RecommendJobs(ctx context.Context, login string, topK int) ([]model.Job, error) {
	if uc.gemini == nil {
		return nil, fmt.Errorf("job recommendation requires a configured reasoning service")
	}
	if topK <= 0 {
		topK = 5
	}

	evaluation, err := uc.EvaluateCandidate(ctx, login)
	if err != nil {
		return nil, err
	}
	profile, err := evaluation.DecodeProfile()
	if err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}

	embedding, err := uc.gemini.GenerateEmbedding(ctx, profileSummary(profile))
	if err != nil {
		return nil, fmt.Errorf("embed candidate profile: %w", err)
	}
	return uc.jobs.SearchByEmbedding(pgvector.NewVector(embedding), topK)
}

type CreateJobInput struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	StackMust          []string `json:"stack_must"`
	StackNice          []string `json:"stack_nice"`
	Seniority          string   `json:"seniority"`
	ExperienceRequired float64  `json:"experience_required"`
}

// CreateJob stores a job and, when the reasoning service is available,
// embeds its description for recommendation search. A failed embedding
// is not fatal; the job is still stored and searchable by id.
func (uc *EvaluationUsecase) CreateJob(ctx context.Context, input CreateJobInput) (*model.Job, error) {
	job := &model.Job{
		Title:              input.Title,
		Description:        input.Description,
		Seniority:          input.Seniority,
		ExperienceRequired: input.ExperienceRequired,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}
	if err := job.SetStacks(input.StackMust, input.StackNice); err != nil {
		return nil, fmt.Errorf("encode stacks: %w", err)
	}

	if uc.gemini != nil && input.Description != "" {
		embedding, err := uc.gemini.GenerateEmbedding(ctx, input.Description)
		if err != nil {
			uc.logger.Warn("job embedding skipped", zap.Error(err))
		} else {
			job.Embedding = pgvector.NewVector(embedding)
		}
	}

	if err := uc.jobs.Create(job); err != nil {
		return nil, fmt.Errorf("persist job: %w", err)
	}
	return job, nil
}

func (uc *EvaluationUsecase) ListJobs(page, pageSize int) ([]model.Job, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return uc.jobs.List(page, pageSize)
}

type CreateCandidateInput struct {
	Name            string   `json:"name"`
	Skills          []string `json:"skills"`
	ExperienceYears float64  `json:"experience_years"`
	Seniority       string   `json:"seniority"`
}

func (uc *EvaluationUsecase) CreateCandidate(input CreateCandidateInput) (*model.StoredCandidate, error) {
	candidate := &model.StoredCandidate{
		Name:            input.Name,
		ExperienceYears: input.ExperienceYears,
		Seniority:       input.Seniority,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	if err := candidate.SetSkills(input.Skills); err != nil {
		return nil, fmt.Errorf("encode skills: %w", err)
	}
	if err := uc.candidates.Create(candidate); err != nil {
		return nil, fmt.Errorf("persist candidate: %w", err)
	}
	return candidate, nil
}

func (uc *EvaluationUsecase) saveMatch(jobID, candidateKey, rubric string, result engine.MatchResult) {
	record := &model.MatchRecord{
		CandidateKey: candidateKey,
		Rubric:       rubric,
		CreatedAt:    time.Now(),
	}
	if id, err := uuid.Parse(jobID); err == nil {
		record.JobID = id
	}
	if err := record.SetResult(result); err != nil {
		uc.logger.Warn("match record not stored", zap.Error(err))
		return
	}
	if err := uc.matches.Save(record); err != nil {
		uc.logger.Warn("match record not stored", zap.Error(err))
	}
}

func profileSummary(profile engine.WorkabilityProfile) string {
	var parts []string
	for _, skill := range profile.Skills {
		parts = append(parts, skill.Skill)
	}
	parts = append(parts, profile.ExperienceLevel.Level)
	parts = append(parts, profile.RoleFits...)
	return strings.Join(parts, ", ")
}
