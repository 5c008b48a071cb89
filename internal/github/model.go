package github

import (
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github-pr-finder/internal/domain"
)

type Config struct {
	BaseURL    string        `env:"GITHUB_BASE_URL" env-default:"https://api.github.com"`
	GraphQLURL string        `env:"GITHUB_GRAPHQL_URL" env-default:"https://api.github.com/graphql"`
	UserAgent  string        `env:"GITHUB_USER_AGENT" env-default:"github-pr-finder"`
	Timeout    time.Duration `env:"GITHUB_TIMEOUT" env-default:"0s"`
}

type Client struct {
	baseURL    *url.URL
	graphqlURL string
	userAgent  string
	timeout    time.Duration
	transport  http.RoundTripper
	logger     *zap.Logger
}

type pullRequest struct {
	Number       *uint64 `json:"number"`
	Title        *string `json:"title"`
	Body         *string `json:"body"`
	User         *user   `json:"user"`
	State        *string `json:"state"`
	CreatedAt    *string `json:"created_at"`
	UpdatedAt    *string `json:"updated_at"`
	MergedAt     *string `json:"merged_at"`
	HTMLURL      *string `json:"html_url"`
	ChangedFiles *uint64 `json:"changed_files"`
	Additions    *uint64 `json:"additions"`
	Deletions    *uint64 `json:"deletions"`
}

type user struct {
	Login *string `json:"login"`
}

func (pr *pullRequest) toDomain() (domain.PullRequest, bool) {
	if pr.Number == nil || pr.Title == nil || pr.User == nil || pr.User.Login == nil || pr.State == nil ||
		pr.CreatedAt == nil || pr.UpdatedAt == nil || pr.HTMLURL == nil {
		return domain.PullRequest{}, false
	}

	return domain.PullRequest{
		Number:       *pr.Number,
		Title:        *pr.Title,
		Body:         pr.Body,
		Author:       *pr.User.Login,
		State:        *pr.State,
		CreatedAt:    *pr.CreatedAt,
		UpdatedAt:    *pr.UpdatedAt,
		MergedAt:     pr.MergedAt,
		HTMLURL:      *pr.HTMLURL,
		ChangedFiles: pr.ChangedFiles,
		Additions:    pr.Additions,
		Deletions:    pr.Deletions,
	}, true
}
