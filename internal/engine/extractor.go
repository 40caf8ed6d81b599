package engine

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// repoSampleSize bounds the expensive per-repo aggregation to the
	// top repositories by stars.
	repoSampleSize = 10
	topRepoCount   = 5
	topLanguages   = 3
	recentWindow   = 30 * 24 * time.Hour
	maxActiveDays  = 30
	commitLimit    = 50
)

// LanguageFetcher returns the language byte counts of one repository.
type LanguageFetcher interface {
	Languages(ctx context.Context, owner, repo string) (map[string]int64, error)
}

// CommitFetcher returns the most recent commits of one repository.
type CommitFetcher interface {
	Commits(ctx context.Context, owner, repo string, limit int) ([]Commit, error)
}

// Extractor reduces a user profile plus its repository list into a
// CandidateSignals vector. It performs no network calls of its own; the
// per-repo fetchers are injected per call.
type Extractor struct {
	categories []CategoryRule
	logger     *zap.Logger
	now        func() time.Time
}

func NewExtractor(categories []CategoryRule, logger *zap.Logger) *Extractor {
	if len(categories) == 0 {
		categories = DefaultCategories
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		categories: categories,
		logger:     logger,
		now:        time.Now,
	}
}

// Extract aggregates signals over the top-10-by-stars sample of repos.
// A failed language or commit fetch degrades to "no data" for that
// repository only; it never aborts the siblings.
func (e *Extractor) Extract(ctx context.Context, user UserProfile, repos []Repository, langs LanguageFetcher, commits CommitFetcher) CandidateSignals {
	now := e.now().UTC()

	signals := CandidateSignals{
		RepoCount:        len(repos),
		PrimaryLanguages: []LanguageShare{},
		ProjectTypes:     []string{},
		TopRepos:         []TopRepo{},
	}
	if !user.CreatedAt.IsZero() {
		signals.AccountAgeDays = int(now.Sub(user.CreatedAt).Hours() / 24)
	}

	sample := make([]Repository, len(repos))
	copy(sample, repos)
	sort.SliceStable(sample, func(i, j int) bool {
		return sample[i].Stars > sample[j].Stars
	})
	if len(sample) > repoSampleSize {
		sample = sample[:repoSampleSize]
	}

	typeSet := make(map[string]bool)
	for _, repo := range sample {
		signals.StarsTotal += repo.Stars
		signals.ForksTotal += repo.Forks
		for _, category := range matchCategories(e.categories, repo) {
			typeSet[category] = true
		}
	}
	for category := range typeSet {
		signals.ProjectTypes = append(signals.ProjectTypes, category)
	}
	sort.Strings(signals.ProjectTypes)

	langResults := make([]map[string]int64, len(sample))
	commitResults := make([][]Commit, len(sample))

	g, gctx := errgroup.WithContext(ctx)
	for i, repo := range sample {
		g.Go(func() error {
			byteCounts, err := langs.Languages(gctx, user.Login, repo.Name)
			if err != nil {
				e.logger.Debug("language fetch degraded to empty",
					zap.String("repo", repo.Name), zap.Error(err))
				return nil
			}
			langResults[i] = byteCounts
			return nil
		})
		g.Go(func() error {
			list, err := commits.Commits(gctx, user.Login, repo.Name, commitLimit)
			if err != nil {
				e.logger.Debug("commit fetch degraded to empty",
					zap.String("repo", repo.Name), zap.Error(err))
				return nil
			}
			commitResults[i] = list
			return nil
		})
	}
	_ = g.Wait()

	merged := make(map[string]int64)
	for _, byteCounts := range langResults {
		for name, count := range byteCounts {
			merged[name] += count
		}
	}
	signals.PrimaryLanguages = topLanguageShares(merged)

	activeDates := make(map[string]bool)
	windowStart := now.Add(-recentWindow)
	for _, list := range commitResults {
		for _, commit := range list {
			if commit.AuthoredAt.IsZero() {
				continue
			}
			if commit.AuthoredAt.After(windowStart) && !commit.AuthoredAt.After(now) {
				signals.RecentCommitVelocity++
				activeDates[commit.AuthoredAt.UTC().Format("2006-01-02")] = true
			}
			if commit.AuthorLogin != "" && !strings.EqualFold(commit.AuthorLogin, user.Login) {
				signals.CollaborationHint = true
			}
		}
	}
	signals.ActiveDays = len(activeDates)
	// A window that opens mid-day clips two partial calendar dates, so
	// the raw distinct-date count can reach 31.
	if signals.ActiveDays > maxActiveDays {
		signals.ActiveDays = maxActiveDays
	}

	shown := sample
	if len(shown) > topRepoCount {
		shown = shown[:topRepoCount]
	}
	for _, repo := range shown {
		signals.TopRepos = append(signals.TopRepos, TopRepo{
			Name:           repo.Name,
			Stars:          repo.Stars,
			Language:       repo.Language,
			RecentActivity: repo.PushedAt.After(windowStart) && !repo.PushedAt.After(now),
		})
	}

	return signals
}

// topLanguageShares merges the byte counts into percentage shares and
// keeps the top entries. An empty or zero-byte map yields an empty
// slice, never NaN percentages.
func topLanguageShares(byteCounts map[string]int64) []LanguageShare {
	var total int64
	for _, count := range byteCounts {
		total += count
	}
	if total == 0 {
		return []LanguageShare{}
	}

	shares := make([]LanguageShare, 0, len(byteCounts))
	for name, count := range byteCounts {
		pct := float64(count) / float64(total) * 100
		// Floor keeps the share sum at or under 100 no matter how the
		// top slots align.
		shares = append(shares, LanguageShare{
			Name:       name,
			Percentage: math.Floor(pct*10) / 10,
		})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Percentage != shares[j].Percentage {
			return shares[i].Percentage > shares[j].Percentage
		}
		return shares[i].Name < shares[j].Name
	})
	if len(shares) > topLanguages {
		shares = shares[:topLanguages]
	}
	return shares
}
