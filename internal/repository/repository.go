package repository

import (
	"context"

	"github-pr-finder/internal/domain"
)

type Repository interface {
	ListRepositories(ctx context.Context) ([]domain.Repository, error)
	AddRepository(ctx context.Context, repo domain.Repository) (*domain.Repository, error)
	DeleteRepository(ctx context.Context, id int64) error
	GetRepositoryID(ctx context.Context, owner, name string) (int64, error)

	ListMembers(ctx context.Context) ([]domain.Member, error)
	AddMember(ctx context.Context, member domain.Member) (*domain.Member, error)
	EnsureMember(ctx context.Context, username, displayName string) error
	DeleteMember(ctx context.Context, id int64) error

	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error

	SavePullRequest(ctx context.Context, pr domain.StoredPullRequest) error
	ListPullRequests(ctx context.Context, query domain.PullRequestQuery) ([]domain.StoredPullRequest, error)
	GetPullRequestDiff(ctx context.Context, repositoryID int64, number uint64) (string, error)

	Close()
}
