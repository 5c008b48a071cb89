package service

import (
	"context"
	"fmt"
	"sync"

	"github-pr-finder/internal/domain"
	"github-pr-finder/internal/repository"
)

type fakeGithub struct {
	FetchPullRequestsFunc func(ctx context.Context, owner, repo, token string) ([]domain.PullRequest, error)
	FetchDiffFunc         func(ctx context.Context, owner, repo string, number uint64, token string) (string, error)
	FetchImageBytesFunc   func(ctx context.Context, url, token string) ([]byte, error)
	LookupUserFunc        func(ctx context.Context, login, token string) (*domain.GithubUser, error)
	ValidateTokenFunc     func(ctx context.Context, token string) (*domain.Viewer, error)

	mu        sync.Mutex
	diffCalls []uint64
}

func (f *fakeGithub) FetchPullRequests(ctx context.Context, owner, repo, token string) ([]domain.PullRequest, error) {
	return f.FetchPullRequestsFunc(ctx, owner, repo, token)
}

func (f *fakeGithub) FetchDiff(ctx context.Context, owner, repo string, number uint64, token string) (string, error) {
	f.mu.Lock()
	f.diffCalls = append(f.diffCalls, number)
	f.mu.Unlock()

	if f.FetchDiffFunc == nil {
		return fmt.Sprintf("diff %d", number), nil
	}
	return f.FetchDiffFunc(ctx, owner, repo, number, token)
}

func (f *fakeGithub) FetchImageBytes(ctx context.Context, url, token string) ([]byte, error) {
	return f.FetchImageBytesFunc(ctx, url, token)
}

func (f *fakeGithub) LookupUser(ctx context.Context, login, token string) (*domain.GithubUser, error) {
	return f.LookupUserFunc(ctx, login, token)
}

func (f *fakeGithub) ValidateToken(ctx context.Context, token string) (*domain.Viewer, error) {
	return f.ValidateTokenFunc(ctx, token)
}

// fakeRepo keeps everything in maps; it only implements what the tests touch.
type fakeRepo struct {
	repository.Repository

	mu       sync.Mutex
	repos    map[string]int64
	members  map[string]domain.Member
	settings map[string]string
	prs      map[uint64]domain.StoredPullRequest
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		repos:    make(map[string]int64),
		members:  make(map[string]domain.Member),
		settings: make(map[string]string),
		prs:      make(map[uint64]domain.StoredPullRequest),
	}
}

func (r *fakeRepo) GetRepositoryID(_ context.Context, owner, name string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.repos[owner+"/"+name]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return id, nil
}

func (r *fakeRepo) AddMember(_ context.Context, member domain.Member) (*domain.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.members[member.Username]; ok {
		return nil, repository.ErrAlreadyExists
	}
	member.ID = int64(len(r.members) + 1)
	r.members[member.Username] = member
	return &member, nil
}

func (r *fakeRepo) EnsureMember(_ context.Context, username, displayName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.members[username]; !ok {
		r.members[username] = domain.Member{ID: int64(len(r.members) + 1), Username: username, DisplayName: &displayName}
	}
	return nil
}

func (r *fakeRepo) GetSetting(_ context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.settings[key]
	if !ok {
		return "", repository.ErrSettingNotFound
	}
	return v, nil
}

func (r *fakeRepo) SetSetting(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.settings[key] = value
	return nil
}

func (r *fakeRepo) SavePullRequest(_ context.Context, pr domain.StoredPullRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.prs[pr.Number] = pr
	return nil
}

func (r *fakeRepo) GetPullRequestDiff(_ context.Context, repositoryID int64, number uint64) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pr, ok := r.prs[number]
	if !ok || pr.RepositoryID != repositoryID {
		return "", repository.ErrNotFound
	}
	if pr.DiffContent == nil {
		return "", nil
	}
	return *pr.DiffContent, nil
}
