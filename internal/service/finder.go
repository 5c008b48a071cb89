package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github-pr-finder/internal/domain"
	"github-pr-finder/internal/github"
	"github-pr-finder/internal/prfilter"
	"github-pr-finder/internal/repository"
)

const (
	TokenSettingKey = "github_access_token"

	// MaxDiffChanges is the largest additions+deletions total whose diff is stored.
	MaxDiffChanges = 2000
)

var (
	ErrTokenNotSet  = errors.New("github token is not set")
	ErrUnknownUser  = errors.New("github user does not exist")
	ErrInvalidInput = errors.New("invalid input")
)

type GithubClient interface {
	FetchPullRequests(ctx context.Context, owner, repo, token string) ([]domain.PullRequest, error)
	FetchDiff(ctx context.Context, owner, repo string, number uint64, token string) (string, error)
	FetchImageBytes(ctx context.Context, url, token string) ([]byte, error)
	LookupUser(ctx context.Context, login, token string) (*domain.GithubUser, error)
	ValidateToken(ctx context.Context, token string) (*domain.Viewer, error)
}

type Finder struct {
	github GithubClient
	repo   repository.Repository
	logger *zap.Logger
}

func New(gh GithubClient, repo repository.Repository, logger *zap.Logger) *Finder {
	return &Finder{
		github: gh,
		repo:   repo,
		logger: logger.Named("finder"),
	}
}

func (f *Finder) Greet(name string) string {
	return fmt.Sprintf("Hello, %s! You've been greeted from Go!", name)
}

// SyncPullRequests fetches one page of pull requests and keeps those created
// within [start, end] by string comparison. Nothing is persisted.
func (f *Finder) SyncPullRequests(ctx context.Context, owner, repo, token, start, end string) (*domain.SyncResult, error) {
	records, err := f.github.FetchPullRequests(ctx, owner, repo, token)
	if err != nil {
		return nil, err
	}

	prs := prfilter.FilterAndProject(records, start, end)

	f.logger.Info("synced pull requests",
		zap.String("owner", owner),
		zap.String("repo", repo),
		zap.Int("fetched", len(records)),
		zap.Int("kept", len(prs)),
	)

	return &domain.SyncResult{PRs: prs, Count: len(prs)}, nil
}

func (f *Finder) FetchGithubImage(ctx context.Context, url, token string) ([]byte, error) {
	return f.github.FetchImageBytes(ctx, url, token)
}

func (f *Finder) FetchPrDiff(ctx context.Context, owner, repo string, number uint64, token string) (string, error) {
	return f.github.FetchDiff(ctx, owner, repo, number, token)
}

// StorePullRequests writes synced pull requests into the local store. The
// repository has to be registered first; authors are added as members and a
// diff is attached unless the change is larger than MaxDiffChanges lines.
func (f *Finder) StorePullRequests(ctx context.Context, owner, repo, token string, prs []domain.ProjectedPullRequest) (int, error) {
	repositoryID, err := f.repo.GetRepositoryID(ctx, owner, repo)
	if err != nil {
		return 0, err
	}

	seen := make(map[string]struct{}, len(prs))
	for _, pr := range prs {
		if _, ok := seen[pr.Author]; ok {
			continue
		}
		seen[pr.Author] = struct{}{}

		err = f.repo.EnsureMember(ctx, pr.Author, pr.Author)
		if err != nil {
			return 0, err
		}
	}

	saved := 0
	for _, pr := range prs {
		stored := domain.StoredPullRequest{
			RepositoryID: repositoryID,
			Number:       pr.Number,
			Title:        pr.Title,
			Body:         pr.Body,
			Author:       pr.Author,
			State:        pr.State,
			CreatedAt:    pr.CreatedAt,
			UpdatedAt:    pr.UpdatedAt,
			MergedAt:     pr.MergedAt,
			HTMLURL:      pr.HTMLURL,
			DiffURL:      pr.DiffURL,
			ChangedFiles: pr.ChangedFiles,
			Additions:    pr.Additions,
			Deletions:    pr.Deletions,
		}

		if changes := value(pr.Additions) + value(pr.Deletions); changes <= MaxDiffChanges {
			diff, err := f.github.FetchDiff(ctx, owner, repo, pr.Number, token)
			if err != nil {
				f.logger.Warn("failed to fetch diff, storing without it", zap.Uint64("pr_number", pr.Number), zap.Error(err))
			} else {
				stored.DiffContent = &diff
			}
		} else {
			f.logger.Info("diff too large, storing without it", zap.Uint64("pr_number", pr.Number), zap.Uint64("changes", changes))
		}

		err = f.repo.SavePullRequest(ctx, stored)
		if err != nil {
			return saved, err
		}
		saved++
	}

	f.logger.Info("stored pull requests", zap.String("owner", owner), zap.String("repo", repo), zap.Int("saved", saved))
	return saved, nil
}

func (f *Finder) Token(ctx context.Context) (string, error) {
	token, err := f.repo.GetSetting(ctx, TokenSettingKey)
	if errors.Is(err, repository.ErrSettingNotFound) || (err == nil && token == "") {
		return "", ErrTokenNotSet
	}
	if err != nil {
		return "", err
	}

	return token, nil
}

// SaveToken stores the token trimmed; an empty value clears it.
func (f *Finder) SaveToken(ctx context.Context, token string) error {
	return f.repo.SetSetting(ctx, TokenSettingKey, strings.TrimSpace(token))
}

func (f *Finder) ValidateToken(ctx context.Context, token string) (*domain.Viewer, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: token is empty", ErrInvalidInput)
	}

	return f.github.ValidateToken(ctx, token)
}

func (f *Finder) ListRepositories(ctx context.Context) ([]domain.Repository, error) {
	return f.repo.ListRepositories(ctx)
}

func (f *Finder) AddRepository(ctx context.Context, repo domain.Repository) (*domain.Repository, error) {
	if repo.Name == "" || repo.Owner == "" || repo.URL == "" {
		return nil, fmt.Errorf("%w: name, owner and url are required", ErrInvalidInput)
	}

	return f.repo.AddRepository(ctx, repo)
}

func (f *Finder) DeleteRepository(ctx context.Context, id int64) error {
	return f.repo.DeleteRepository(ctx, id)
}

func (f *Finder) ListMembers(ctx context.Context) ([]domain.Member, error) {
	return f.repo.ListMembers(ctx)
}

// AddMember checks the login against GitHub with the stored token and fills
// in the display name from the profile when none is given.
func (f *Finder) AddMember(ctx context.Context, username string, displayName *string) (*domain.Member, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}

	token, err := f.Token(ctx)
	if err != nil {
		return nil, err
	}

	user, err := f.github.LookupUser(ctx, username, token)
	if err != nil {
		if github.IsStatus(err, http.StatusNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownUser, username)
		}
		return nil, err
	}

	if (displayName == nil || *displayName == "") && user.Name != nil && *user.Name != "" {
		displayName = user.Name
	}
	if displayName != nil && *displayName == "" {
		displayName = nil
	}

	return f.repo.AddMember(ctx, domain.Member{Username: username, DisplayName: displayName})
}

func (f *Finder) DeleteMember(ctx context.Context, id int64) error {
	return f.repo.DeleteMember(ctx, id)
}

func (f *Finder) ListPullRequests(ctx context.Context, query domain.PullRequestQuery) ([]domain.StoredPullRequest, error) {
	if query.From == "" || query.To == "" {
		return nil, fmt.Errorf("%w: from and to are required", ErrInvalidInput)
	}

	return f.repo.ListPullRequests(ctx, query)
}

// StoredPullRequestDiff returns the diff saved with a pull request. Rows stored
// without one yield an empty string.
func (f *Finder) StoredPullRequestDiff(ctx context.Context, repositoryID int64, number uint64) (string, error) {
	return f.repo.GetPullRequestDiff(ctx, repositoryID, number)
}

func value(n *uint64) uint64 {
	if n == nil {
		return 0
	}
	return *n
}
