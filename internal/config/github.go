package config

import (
	"os"
	"sync"
)

type GitHubConfig struct {
	BaseURL string
	Token   string
}

var (
	githubConfig *GitHubConfig
	githubOnce   sync.Once
)

func LoadGitHubConfig() *GitHubConfig {
	githubOnce.Do(func() {
		baseURL := os.Getenv("GITHUB_API_URL")
		if baseURL == "" {
			baseURL = "https://api.github.com"
		}
		githubConfig = &GitHubConfig{
			BaseURL: baseURL,
			Token:   os.Getenv("GITHUB_TOKEN"),
		}
	})
	return githubConfig
}
