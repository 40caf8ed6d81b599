package engine

import "time"

// UserProfile is the hosting-platform account the signals are derived from.
type UserProfile struct {
	Login     string    `json:"login"`
	Name      string    `json:"name"`
	Followers int       `json:"followers"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository is a repo summary as returned by the hosting platform.
type Repository struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	Language    string    `json:"language"`
	PushedAt    time.Time `json:"pushed_at"`
}

// Commit carries the two fields the extractor cares about: who authored
// it and when.
type Commit struct {
	AuthorLogin string    `json:"author_login"`
	AuthoredAt  time.Time `json:"authored_at"`
}

type LanguageShare struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}

type TopRepo struct {
	Name           string `json:"name"`
	Stars          int    `json:"stars"`
	Language       string `json:"language"`
	RecentActivity bool   `json:"recent_activity"`
}

// CandidateSignals is the compact signal vector reduced from a user's
// public activity. It is immutable once computed.
//
// StarsTotal, ForksTotal, RecentCommitVelocity, ActiveDays and TopRepos
// are aggregated over the top-10-by-stars repository sample only.
// RepoCount reflects the full repository list; the two counts are on
// different bases on purpose.
type CandidateSignals struct {
	PrimaryLanguages     []LanguageShare `json:"primary_languages"`
	RepoCount            int             `json:"repo_count"`
	StarsTotal           int             `json:"stars_total"`
	ForksTotal           int             `json:"forks_total"`
	RecentCommitVelocity int             `json:"recent_commit_velocity"`
	ActiveDays           int             `json:"active_days"`
	ProjectTypes         []string        `json:"project_types"`
	CollaborationHint    bool            `json:"collaboration_hint"`
	AccountAgeDays       int             `json:"account_age_days"`
	TopRepos             []TopRepo       `json:"top_repos"`
}

func (s CandidateSignals) HasProjectType(category string) bool {
	for _, t := range s.ProjectTypes {
		if t == category {
			return true
		}
	}
	return false
}

// PrimaryLanguage returns the name of the top language, or "" when no
// language bytes were observed.
func (s CandidateSignals) PrimaryLanguage() string {
	if len(s.PrimaryLanguages) == 0 {
		return ""
	}
	return s.PrimaryLanguages[0].Name
}
