package handler

import (
	"context"

	"github-pr-finder/internal/domain"
)

type Finder interface {
	Greet(name string) string
	SyncPullRequests(ctx context.Context, owner, repo, token, start, end string) (*domain.SyncResult, error)
	FetchGithubImage(ctx context.Context, url, token string) ([]byte, error)
	FetchPrDiff(ctx context.Context, owner, repo string, number uint64, token string) (string, error)
	StorePullRequests(ctx context.Context, owner, repo, token string, prs []domain.ProjectedPullRequest) (int, error)

	Token(ctx context.Context) (string, error)
	SaveToken(ctx context.Context, token string) error
	ValidateToken(ctx context.Context, token string) (*domain.Viewer, error)

	ListRepositories(ctx context.Context) ([]domain.Repository, error)
	AddRepository(ctx context.Context, repo domain.Repository) (*domain.Repository, error)
	DeleteRepository(ctx context.Context, id int64) error

	ListMembers(ctx context.Context) ([]domain.Member, error)
	AddMember(ctx context.Context, username string, displayName *string) (*domain.Member, error)
	DeleteMember(ctx context.Context, id int64) error

	ListPullRequests(ctx context.Context, query domain.PullRequestQuery) ([]domain.StoredPullRequest, error)
	StoredPullRequestDiff(ctx context.Context, repositoryID int64, number uint64) (string, error)
}
