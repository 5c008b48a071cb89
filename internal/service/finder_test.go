package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github-pr-finder/internal/domain"
	"github-pr-finder/internal/github"
	"github-pr-finder/internal/repository"
)

func ptr[T any](v T) *T {
	return &v
}

func record(number uint64, author, createdAt string) domain.PullRequest {
	return domain.PullRequest{
		Number:    number,
		Title:     "title",
		Author:    author,
		State:     "open",
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
		HTMLURL:   "https://github.com/octo/hello/pull/1",
	}
}

func TestGreet(t *testing.T) {
	f := New(&fakeGithub{}, newFakeRepo(), zap.NewNop())
	require.Equal(t, "Hello, octo! You've been greeted from Go!", f.Greet("octo"))
}

func TestSyncPullRequests(t *testing.T) {
	gh := &fakeGithub{
		FetchPullRequestsFunc: func(_ context.Context, owner, repo, token string) ([]domain.PullRequest, error) {
			require.Equal(t, "octo", owner)
			require.Equal(t, "hello", repo)
			require.Equal(t, "tok", token)
			return []domain.PullRequest{
				record(1, "alice", "2024-01-01T00:00:00Z"),
				record(2, "bob", "2024-06-15T10:00:00Z"),
			}, nil
		},
	}

	f := New(gh, newFakeRepo(), zap.NewNop())

	res, err := f.SyncPullRequests(context.Background(), "octo", "hello", "tok", "2024-01-01T00:00:00Z", "2024-03-01T00:00:00Z")
	require.NoError(t, err)
	require.Equal(t, 1, res.Count)
	require.Len(t, res.PRs, 1)
	require.Equal(t, uint64(1), res.PRs[0].Number)
	require.Equal(t, "https://github.com/octo/hello/pull/1.diff", res.PRs[0].DiffURL)
}

func TestSyncPullRequestsEmpty(t *testing.T) {
	gh := &fakeGithub{
		FetchPullRequestsFunc: func(context.Context, string, string, string) ([]domain.PullRequest, error) {
			return nil, nil
		},
	}

	res, err := New(gh, newFakeRepo(), zap.NewNop()).
		SyncPullRequests(context.Background(), "octo", "hello", "tok", "2024-01-01T00:00:00Z", "2024-03-01T00:00:00Z")
	require.NoError(t, err)
	require.Zero(t, res.Count)
	require.NotNil(t, res.PRs)
	require.Empty(t, res.PRs)
}

func TestSyncPullRequestsError(t *testing.T) {
	gh := &fakeGithub{
		FetchPullRequestsFunc: func(context.Context, string, string, string) ([]domain.PullRequest, error) {
			return nil, &github.StatusError{StatusCode: http.StatusUnauthorized, Status: "401 Unauthorized"}
		},
	}

	res, err := New(gh, newFakeRepo(), zap.NewNop()).
		SyncPullRequests(context.Background(), "octo", "hello", "tok", "a", "b")
	require.True(t, github.IsStatus(err, http.StatusUnauthorized))
	require.Nil(t, res)
}

func TestFetchPassthrough(t *testing.T) {
	gh := &fakeGithub{
		FetchImageBytesFunc: func(_ context.Context, url, token string) ([]byte, error) {
			require.Equal(t, "https://avatars/1", url)
			return []byte{1, 2, 3}, nil
		},
		FetchDiffFunc: func(_ context.Context, owner, repo string, number uint64, token string) (string, error) {
			require.Equal(t, uint64(42), number)
			return "diff", nil
		},
	}
	f := New(gh, newFakeRepo(), zap.NewNop())

	img, err := f.FetchGithubImage(context.Background(), "https://avatars/1", "tok")
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, img)

	diff, err := f.FetchPrDiff(context.Background(), "octo", "hello", 42, "tok")
	require.NoError(t, err)
	require.Equal(t, "diff", diff)
}

func TestStorePullRequests(t *testing.T) {
	gh := &fakeGithub{
		FetchDiffFunc: func(_ context.Context, _, _ string, number uint64, _ string) (string, error) {
			if number == 3 {
				return "", github.ErrNetwork
			}
			return "diff", nil
		},
	}
	repo := newFakeRepo()
	repo.repos["octo/hello"] = 7

	prs := []domain.ProjectedPullRequest{
		{Number: 1, Author: "alice", Additions: ptr(uint64(1500)), Deletions: ptr(uint64(500))},
		{Number: 2, Author: "alice", Additions: ptr(uint64(2000)), Deletions: ptr(uint64(1))},
		{Number: 3, Author: "bob"},
	}

	saved, err := New(gh, repo, zap.NewNop()).StorePullRequests(context.Background(), "octo", "hello", "tok", prs)
	require.NoError(t, err)
	require.Equal(t, 3, saved)

	require.ElementsMatch(t, []uint64{1, 3}, gh.diffCalls)

	require.Equal(t, int64(7), repo.prs[1].RepositoryID)
	require.Equal(t, "diff", *repo.prs[1].DiffContent)
	require.Nil(t, repo.prs[2].DiffContent)
	require.Nil(t, repo.prs[3].DiffContent)

	require.Len(t, repo.members, 2)
	require.Equal(t, "alice", *repo.members["alice"].DisplayName)
}

func TestStorePullRequestsUnknownRepository(t *testing.T) {
	saved, err := New(&fakeGithub{}, newFakeRepo(), zap.NewNop()).
		StorePullRequests(context.Background(), "octo", "hello", "tok", []domain.ProjectedPullRequest{{Number: 1}})
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.Zero(t, saved)
}

func TestToken(t *testing.T) {
	repo := newFakeRepo()
	f := New(&fakeGithub{}, repo, zap.NewNop())

	_, err := f.Token(context.Background())
	require.ErrorIs(t, err, ErrTokenNotSet)

	require.NoError(t, f.SaveToken(context.Background(), "  ghp_abc \n"))
	token, err := f.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ghp_abc", token)

	require.NoError(t, f.SaveToken(context.Background(), ""))
	_, err = f.Token(context.Background())
	require.ErrorIs(t, err, ErrTokenNotSet)
}

func TestValidateToken(t *testing.T) {
	gh := &fakeGithub{
		ValidateTokenFunc: func(_ context.Context, token string) (*domain.Viewer, error) {
			require.Equal(t, "ghp_abc", token)
			return &domain.Viewer{Login: "octocat"}, nil
		},
	}
	f := New(gh, newFakeRepo(), zap.NewNop())

	viewer, err := f.ValidateToken(context.Background(), " ghp_abc ")
	require.NoError(t, err)
	require.Equal(t, "octocat", viewer.Login)

	_, err = f.ValidateToken(context.Background(), "  ")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestAddMember(t *testing.T) {
	gh := &fakeGithub{
		LookupUserFunc: func(_ context.Context, login, token string) (*domain.GithubUser, error) {
			require.Equal(t, "tok", token)
			switch login {
			case "alice":
				return &domain.GithubUser{Login: "alice", Name: ptr("Alice Liddell")}, nil
			case "bob":
				return &domain.GithubUser{Login: "bob"}, nil
			}
			return nil, &github.StatusError{StatusCode: http.StatusNotFound, Status: "404 Not Found"}
		},
	}
	repo := newFakeRepo()
	repo.settings[TokenSettingKey] = "tok"
	f := New(gh, repo, zap.NewNop())

	alice, err := f.AddMember(context.Background(), "alice", nil)
	require.NoError(t, err)
	require.Equal(t, "Alice Liddell", *alice.DisplayName)

	bob, err := f.AddMember(context.Background(), " bob ", ptr(""))
	require.NoError(t, err)
	require.Equal(t, "bob", bob.Username)
	require.Nil(t, bob.DisplayName)

	_, err = f.AddMember(context.Background(), "ghost", nil)
	require.ErrorIs(t, err, ErrUnknownUser)

	_, err = f.AddMember(context.Background(), "alice", ptr("Al"))
	require.ErrorIs(t, err, repository.ErrAlreadyExists)
}

func TestAddMemberRequiresToken(t *testing.T) {
	_, err := New(&fakeGithub{}, newFakeRepo(), zap.NewNop()).AddMember(context.Background(), "alice", nil)
	require.ErrorIs(t, err, ErrTokenNotSet)

	_, err = New(&fakeGithub{}, newFakeRepo(), zap.NewNop()).AddMember(context.Background(), " ", nil)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestAddMemberUpstreamError(t *testing.T) {
	gh := &fakeGithub{
		LookupUserFunc: func(context.Context, string, string) (*domain.GithubUser, error) {
			return nil, github.ErrNetwork
		},
	}
	repo := newFakeRepo()
	repo.settings[TokenSettingKey] = "tok"

	_, err := New(gh, repo, zap.NewNop()).AddMember(context.Background(), "alice", nil)
	require.ErrorIs(t, err, github.ErrNetwork)
	require.False(t, errors.Is(err, ErrUnknownUser))
}

func TestInputValidation(t *testing.T) {
	f := New(&fakeGithub{}, newFakeRepo(), zap.NewNop())

	_, err := f.AddRepository(context.Background(), domain.Repository{Name: "hello"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.ListPullRequests(context.Background(), domain.PullRequestQuery{Author: "alice"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestStoredPullRequestDiff(t *testing.T) {
	repo := newFakeRepo()
	repo.prs[1] = domain.StoredPullRequest{RepositoryID: 7, Number: 1, DiffContent: ptr("diff --git a b")}
	repo.prs[2] = domain.StoredPullRequest{RepositoryID: 7, Number: 2}
	f := New(&fakeGithub{}, repo, zap.NewNop())

	diff, err := f.StoredPullRequestDiff(context.Background(), 7, 1)
	require.NoError(t, err)
	require.Equal(t, "diff --git a b", diff)

	diff, err = f.StoredPullRequestDiff(context.Background(), 7, 2)
	require.NoError(t, err)
	require.Empty(t, diff)

	_, err = f.StoredPullRequestDiff(context.Background(), 8, 1)
	require.ErrorIs(t, err, repository.ErrNotFound)
}
