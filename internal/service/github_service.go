package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/mfaqihw/dev-screener/internal/config"
	"github.com/mfaqihw/dev-screener/internal/engine"
)

// Upstream error taxonomy. Not-found is non-retryable; rate-limited is
// surfaced distinctly so callers can retry later or supply a token.
var (
	ErrUserNotFound = errors.New("github user not found")
	ErrRateLimited  = errors.New("github api rate limit exceeded")
)

type GitHubServiceInterface interface {
	GetUser(ctx context.Context, login string) (*engine.UserProfile, error)
	ListRepos(ctx context.Context, login string, limit int) ([]engine.Repository, error)
	Languages(ctx context.Context, owner, repo string) (map[string]int64, error)
	Commits(ctx context.Context, owner, repo string, limit int) ([]engine.Commit, error)
}

// GitHubService talks to the GitHub REST API. Per-repo language and
// commit lookups degrade to empty results on any error so one broken
// repository never poisons an evaluation.
type GitHubService struct {
	client *resty.Client
	logger *zap.Logger
}

func NewGitHubService(cfg *config.GitHubConfig, logger *zap.Logger) *GitHubService {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(8 * time.Second).
		SetHeader("Accept", "application/vnd.github+json")
	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}
	return &GitHubService{client: client, logger: logger}
}

type githubUser struct {
	Login     string    `json:"login"`
	Name      string    `json:"name"`
	Followers int       `json:"followers"`
	CreatedAt time.Time `json:"created_at"`
}

type githubRepo struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Stars       int       `json:"stargazers_count"`
	Forks       int       `json:"forks_count"`
	Language    string    `json:"language"`
	PushedAt    time.Time `json:"pushed_at"`
}

type githubCommit struct {
	Author *struct {
		Login string `json:"login"`
	} `json:"author"`
	Commit struct {
		Author struct {
			Date time.Time `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}

func (s *GitHubService) GetUser(ctx context.Context, login string) (*engine.UserProfile, error) {
	var user githubUser
	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&user).
		Get("/users/" + login)
	if err != nil {
		return nil, fmt.Errorf("fetch user %s: %w", login, err)
	}
	if err := classifyStatus(resp); err != nil {
		return nil, err
	}

	return &engine.UserProfile{
		Login:     user.Login,
		Name:      user.Name,
		Followers: user.Followers,
		CreatedAt: user.CreatedAt,
	}, nil
}

func (s *GitHubService) ListRepos(ctx context.Context, login string, limit int) ([]engine.Repository, error) {
	var raw []githubRepo
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"per_page": fmt.Sprint(limit),
			"sort":     "pushed",
			"type":     "owner",
		}).
		SetResult(&raw).
		Get("/users/" + login + "/repos")
	if err != nil {
		return nil, fmt.Errorf("list repos for %s: %w", login, err)
	}
	if err := classifyStatus(resp); err != nil {
		return nil, err
	}

	repos := make([]engine.Repository, 0, len(raw))
	for _, r := range raw {
		repos = append(repos, engine.Repository{
			Name:        r.Name,
			Description: r.Description,
			Stars:       r.Stars,
			Forks:       r.Forks,
			Language:    r.Language,
			PushedAt:    r.PushedAt,
		})
	}
	return repos, nil
}

func (s *GitHubService) Languages(ctx context.Context, owner, repo string) (map[string]int64, error) {
	var byteCounts map[string]int64
	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&byteCounts).
		Get(fmt.Sprintf("/repos/%s/%s/languages", owner, repo))
	if err != nil || resp.IsError() {
		s.logger.Debug("languages lookup degraded",
			zap.String("repo", owner+"/"+repo), zap.Error(err))
		return map[string]int64{}, nil
	}
	if byteCounts == nil {
		byteCounts = map[string]int64{}
	}
	return byteCounts, nil
}

func (s *GitHubService) Commits(ctx context.Context, owner, repo string, limit int) ([]engine.Commit, error) {
	var raw []githubCommit
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("per_page", fmt.Sprint(limit)).
		SetResult(&raw).
		Get(fmt.Sprintf("/repos/%s/%s/commits", owner, repo))
	// A 409 means the repository has no commits yet; treat it like every
	// other per-repo failure and contribute nothing.
	if err != nil || resp.IsError() {
		s.logger.Debug("commits lookup degraded",
			zap.String("repo", owner+"/"+repo), zap.Error(err))
		return []engine.Commit{}, nil
	}

	commits := make([]engine.Commit, 0, len(raw))
	for _, c := range raw {
		commit := engine.Commit{AuthoredAt: c.Commit.Author.Date}
		if c.Author != nil {
			commit.AuthorLogin = c.Author.Login
		}
		commits = append(commits, commit)
	}
	return commits, nil
}

func classifyStatus(resp *resty.Response) error {
	switch resp.StatusCode() {
	case 200:
		return nil
	case 404:
		return ErrUserNotFound
	case 403, 429:
		return ErrRateLimited
	default:
		return fmt.Errorf("github api returned status %d", resp.StatusCode())
	}
}
