package api

import "github-pr-finder/internal/domain"

type GreetRequest struct {
	Name string `json:"name"`
}

type SyncPullRequestsRequest struct {
	Owner     string `json:"owner"`
	Repo      string `json:"repo"`
	Token     string `json:"token"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	// StartDay and EndDay take YYYY-MM-DD and cover whole days. They are
	// used only when both are set and override StartDate and EndDate.
	StartDay string `json:"start_day"`
	EndDay   string `json:"end_day"`
}

type FetchGithubImageRequest struct {
	URL   string `json:"url"`
	Token string `json:"token"`
}

type FetchPrDiffRequest struct {
	Owner    string `json:"owner"`
	Repo     string `json:"repo"`
	PRNumber uint64 `json:"pr_number"`
	Token    string `json:"token"`
}

type StorePullRequestsRequest struct {
	Owner string                        `json:"owner"`
	Repo  string                        `json:"repo"`
	Token string                        `json:"token"`
	PRs   []domain.ProjectedPullRequest `json:"prs"`
}

type StorePullRequestsResponse struct {
	Saved int `json:"saved"`
}

type TokenRequest struct {
	Token string `json:"token"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type TokenValidation struct {
	Valid   bool   `json:"valid"`
	Login   string `json:"login,omitempty"`
	Message string `json:"message"`
}

type Repository struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Owner string `json:"owner"`
	URL   string `json:"url"`
}

type Member struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	DisplayName *string `json:"display_name"`
}

type PullRequest struct {
	ID           int64   `json:"id"`
	RepositoryID int64   `json:"repository_id"`
	Number       uint64  `json:"pr_number"`
	Title        string  `json:"title"`
	Body         *string `json:"body"`
	Author       string  `json:"author"`
	State        string  `json:"state"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
	MergedAt     *string `json:"merged_at"`
	HTMLURL      string  `json:"html_url"`
	DiffURL      string  `json:"diff_url"`
	DiffContent  *string `json:"diff_content"`
	ChangedFiles *uint64 `json:"changed_files"`
	Additions    *uint64 `json:"additions"`
	Deletions    *uint64 `json:"deletions"`
}

func ToRepository(r domain.Repository) Repository {
	return Repository{ID: r.ID, Name: r.Name, Owner: r.Owner, URL: r.URL}
}

func ToMember(m domain.Member) Member {
	return Member{ID: m.ID, Username: m.Username, DisplayName: m.DisplayName}
}

func ToPullRequest(pr domain.StoredPullRequest) PullRequest {
	return PullRequest{
		ID:           pr.ID,
		RepositoryID: pr.RepositoryID,
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
		DiffContent:  pr.DiffContent,
		ChangedFiles: pr.ChangedFiles,
		Additions:    pr.Additions,
		Deletions:    pr.Deletions,
	}
}
