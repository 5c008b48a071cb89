package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"
	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github-pr-finder/internal/domain"
)

// PerPage is the only page size requested; results beyond it are not fetched.
const PerPage = 100

func New(config *Config, logger *zap.Logger) (*Client, error) {
	baseURL, err := url.Parse(strings.TrimRight(config.BaseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("failed to parse base url: %w", err)
	}

	return &Client{
		baseURL:    baseURL,
		graphqlURL: config.GraphQLURL,
		userAgent:  config.UserAgent,
		timeout:    config.Timeout,
		transport:  http.DefaultTransport,
		logger:     logger.Named("github"),
	}, nil
}

// FetchPullRequests returns the first page of pull requests in any state.
// Records are decoded into local wire structs so timestamps stay verbatim.
func (c *Client) FetchPullRequests(ctx context.Context, owner, repo, token string) ([]domain.PullRequest, error) {
	gh := c.rest(token)

	endpoint := fmt.Sprintf("repos/%s/%s/pulls?state=all&per_page=%d", url.PathEscape(owner), url.PathEscape(repo), PerPage)
	req, err := gh.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pull requests: %w: %w", ErrNetwork, err)
	}

	var raw []pullRequest
	resp, err := gh.Do(ctx, req, &raw)
	if err != nil {
		err = wrapError(resp, err)
		c.logger.Warn("failed to fetch pull requests", zap.String("owner", owner), zap.String("repo", repo), zap.Error(err))
		if errors.Is(err, ErrDecode) {
			return nil, fmt.Errorf("failed to decode pull requests: %w", err)
		}
		return nil, fmt.Errorf("failed to fetch pull requests: %w", err)
	}

	prs := make([]domain.PullRequest, 0, len(raw))
	for i := range raw {
		pr, ok := raw[i].toDomain()
		if !ok {
			c.logger.Warn("pull request is missing required fields", zap.Int("index", i))
			return nil, fmt.Errorf("failed to decode pull requests: %w: record %d is missing required fields", ErrDecode, i)
		}
		prs = append(prs, pr)
	}

	c.logger.Info("fetched pull requests", zap.String("owner", owner), zap.String("repo", repo), zap.Int("count", len(prs)))
	return prs, nil
}

// FetchDiff returns the unified diff of a single pull request.
func (c *Client) FetchDiff(ctx context.Context, owner, repo string, number uint64, token string) (string, error) {
	diff, resp, err := c.rest(token).PullRequests.GetRaw(ctx, owner, repo, int(number), github.RawOptions{Type: github.Diff})
	if err != nil {
		err = wrapError(resp, err)
		c.logger.Warn("failed to fetch diff", zap.Uint64("pr_number", number), zap.Error(err))
		return "", fmt.Errorf("failed to fetch diff: %w", err)
	}

	return diff, nil
}

// FetchImageBytes downloads an arbitrary URL with the token attached.
func (c *Client) FetchImageBytes(ctx context.Context, rawURL, token string) ([]byte, error) {
	body, err := c.get(ctx, rawURL, token)
	if err != nil {
		c.logger.Warn("failed to fetch image", zap.String("url", rawURL), zap.Error(err))
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w: %w", ErrNetwork, err)
	}

	return data, nil
}

// LookupUser resolves a GitHub account by login.
func (c *Client) LookupUser(ctx context.Context, login, token string) (*domain.GithubUser, error) {
	u, resp, err := c.rest(token).Users.Get(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", wrapError(resp, err))
	}
	if u.Login == nil {
		return nil, fmt.Errorf("failed to decode user: %w: missing login", ErrDecode)
	}

	return &domain.GithubUser{
		Login:     u.GetLogin(),
		Name:      u.Name,
		AvatarURL: u.GetAvatarURL(),
	}, nil
}

// ValidateToken asks the GraphQL API who owns the token.
func (c *Client) ValidateToken(ctx context.Context, token string) (*domain.Viewer, error) {
	var query struct {
		Viewer struct {
			Login githubv4.String
			Name  githubv4.String
		}
	}

	client := githubv4.NewEnterpriseClient(c.graphqlURL, c.httpClient(token))
	err := client.Query(ctx, &query, nil)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return nil, fmt.Errorf("failed to validate token: %w: %w", ErrNetwork, err)
		}

		c.logger.Warn("token rejected", zap.Error(err))
		return nil, fmt.Errorf("failed to validate token: %w: %w", ErrInvalidToken, err)
	}

	return &domain.Viewer{
		Login: string(query.Viewer.Login),
		Name:  string(query.Viewer.Name),
	}, nil
}

// get issues an authenticated GET against an arbitrary URL and returns the
// body of a 2xx response.
func (c *Client) get(ctx context.Context, endpoint, token string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	resp, err := c.httpClient(token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	return resp.Body, nil
}

// rest wraps the per-call http client in a REST client rooted at baseURL.
func (c *Client) rest(token string) *github.Client {
	gh := github.NewClient(c.httpClient(token))
	gh.BaseURL = c.baseURL
	gh.UserAgent = c.userAgent
	return gh
}

// wrapError folds a REST failure into ErrNetwork, *StatusError or ErrDecode.
// No response means the request never completed; a 2xx with an error means
// the body did not decode.
func wrapError(resp *github.Response, err error) error {
	if resp == nil || resp.Response == nil {
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	return fmt.Errorf("%w: %w", ErrDecode, err)
}

// httpClient builds a per-call client; the only shared piece is the base transport.
func (c *Client) httpClient(token string) *http.Client {
	return &http.Client{
		Timeout: c.timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   &userAgentTransport{userAgent: c.userAgent, base: c.transport},
		},
	}
}

type userAgentTransport struct {
	userAgent string
	base      http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(req)
}
