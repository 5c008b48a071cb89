package domain

// PullRequest is a pull request as returned by the GitHub list endpoint.
// Timestamps stay in the API's ISO-8601 string form.
type PullRequest struct {
	Number       uint64
	Title        string
	Body         *string
	Author       string
	State        string
	CreatedAt    string
	UpdatedAt    string
	MergedAt     *string
	HTMLURL      string
	ChangedFiles *uint64
	Additions    *uint64
	Deletions    *uint64
}

// ProjectedPullRequest is a PullRequest plus the derived diff link.
type ProjectedPullRequest struct {
	Number       uint64  `json:"number"`
	Title        string  `json:"title"`
	Body         *string `json:"body"`
	Author       string  `json:"author"`
	State        string  `json:"state"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
	MergedAt     *string `json:"merged_at"`
	HTMLURL      string  `json:"html_url"`
	DiffURL      string  `json:"diff_url"`
	ChangedFiles *uint64 `json:"changed_files"`
	Additions    *uint64 `json:"additions"`
	Deletions    *uint64 `json:"deletions"`
}

type SyncResult struct {
	PRs   []ProjectedPullRequest `json:"prs"`
	Count int                    `json:"count"`
}

type Repository struct {
	ID    int64
	Name  string
	Owner string
	URL   string
}

type Member struct {
	ID          int64
	Username    string
	DisplayName *string
}

// StoredPullRequest is a row of the pull_requests table.
type StoredPullRequest struct {
	ID           int64
	RepositoryID int64
	Number       uint64
	Title        string
	Body         *string
	Author       string
	State        string
	CreatedAt    string
	UpdatedAt    string
	MergedAt     *string
	HTMLURL      string
	DiffURL      string
	DiffContent  *string
	ChangedFiles *uint64
	Additions    *uint64
	Deletions    *uint64
}

// PullRequestQuery selects stored pull requests by author and creation day.
// From and To are inclusive YYYY-MM-DD values; an empty Author matches everyone.
type PullRequestQuery struct {
	Author string
	From   string
	To     string
}

// Viewer is the owner of a GitHub token.
type Viewer struct {
	Login string
	Name  string
}

type GithubUser struct {
	Login     string
	Name      *string
	AvatarURL string
}
