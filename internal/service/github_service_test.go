package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mfaqihw/dev-screener/internal/config"
)

func newTestService(t *testing.T, handler http.Handler) *GitHubService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGitHubService(&config.GitHubConfig{BaseURL: srv.URL}, zap.NewNop())
}

func TestGetUser(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/octocat", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"login": "octocat",
			"name": "The Octocat",
			"followers": 42,
			"created_at": "2015-04-01T10:00:00Z"
		}`))
	}))

	user, err := svc.GetUser(context.Background(), "octocat")
	require.NoError(t, err)

	assert.Equal(t, "octocat", user.Login)
	assert.Equal(t, "The Octocat", user.Name)
	assert.Equal(t, 42, user.Followers)
	assert.Equal(t, 2015, user.CreatedAt.Year())
}

func TestGetUserNotFound(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := svc.GetUser(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetUserRateLimited(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	_, err := svc.GetUser(context.Background(), "octocat")
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestListRepos(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/octocat/repos", r.URL.Path)
		assert.Equal(t, "30", r.URL.Query().Get("per_page"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"name": "alpha", "description": "a web app", "stargazers_count": 7,
			 "forks_count": 2, "language": "Go", "pushed_at": "2025-06-01T00:00:00Z"},
			{"name": "beta", "stargazers_count": 1}
		]`))
	}))

	repos, err := svc.ListRepos(context.Background(), "octocat", 30)
	require.NoError(t, err)

	require.Len(t, repos, 2)
	assert.Equal(t, "alpha", repos[0].Name)
	assert.Equal(t, 7, repos[0].Stars)
	assert.Equal(t, "Go", repos[0].Language)
	assert.Equal(t, 2, repos[0].Forks)
}

func TestLanguages(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octocat/alpha/languages", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Go": 12345, "Makefile": 200}`))
	}))

	langs, err := svc.Languages(context.Background(), "octocat", "alpha")
	require.NoError(t, err)

	assert.Equal(t, int64(12345), langs["Go"])
	assert.Equal(t, int64(200), langs["Makefile"])
}

func TestLanguagesDegradeOnServerError(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	langs, err := svc.Languages(context.Background(), "octocat", "alpha")

	require.NoError(t, err)
	assert.Empty(t, langs)
	assert.NotNil(t, langs)
}

func TestCommits(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octocat/alpha/commits", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"author": {"login": "octocat"},
			 "commit": {"author": {"date": "2025-06-10T08:00:00Z"}}},
			{"author": null,
			 "commit": {"author": {"date": "2025-06-09T08:00:00Z"}}}
		]`))
	}))

	commits, err := svc.Commits(context.Background(), "octocat", "alpha", 50)
	require.NoError(t, err)

	require.Len(t, commits, 2)
	assert.Equal(t, "octocat", commits[0].AuthorLogin)
	assert.Equal(t, 10, commits[0].AuthoredAt.Day())
	// Deleted accounts come back with a null author.
	assert.Empty(t, commits[1].AuthorLogin)
}

func TestCommitsDegradeOnEmptyRepository(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict) // GitHub's "Git Repository is empty"
	}))

	commits, err := svc.Commits(context.Background(), "octocat", "empty", 50)

	require.NoError(t, err)
	assert.Empty(t, commits)
	assert.NotNil(t, commits)
}
