package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github-pr-finder/internal/domain"
	"github-pr-finder/internal/repository"
)

func New(ctx context.Context, config *Config, logger *zap.Logger) (*Client, error) {
	ctx, cancel := context.WithTimeout(ctx, config.Timeout)
	defer cancel()

	err := os.MkdirAll(config.Dir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	path, err := filepath.Abs(filepath.Join(config.Dir, DatabaseName))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database path: %w", err)
	}

	db, err := sql.Open("sqlite3", buildDSN(path, config))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	// Single writer: every statement goes through one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	err = db.PingContext(ctx)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite: %w", err)
	}

	logger = logger.Named("sqlite")
	logger.Info("opened database", zap.String("path", path))

	return &Client{
		db:      db,
		path:    path,
		logger:  logger,
		timeout: config.Timeout,
	}, nil
}

func (c *Client) Path() string {
	return c.path
}

func (c *Client) ListRepositories(ctx context.Context) ([]domain.Repository, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	rows, err := c.db.QueryContext(ctx, queryListRepositories)
	if err != nil {
		c.logger.Error("failed to list repositories", zap.Error(err))
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}
	defer rows.Close()

	repos := make([]domain.Repository, 0)
	for rows.Next() {
		var repo domain.Repository

		err = rows.Scan(&repo.ID, &repo.Name, &repo.Owner, &repo.URL)
		if err != nil {
			c.logger.Error("failed to scan repository", zap.Error(err))
			return nil, fmt.Errorf("failed to scan repository: %w", err)
		}

		repos = append(repos, repo)
	}
	err = rows.Err()
	if err != nil {
		c.logger.Error("rows error", zap.Error(err))
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return repos, nil
}

func (c *Client) AddRepository(ctx context.Context, repo domain.Repository) (*domain.Repository, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.db.ExecContext(ctx, queryAddRepository, repo.Name, repo.Owner, repo.URL)
	if err != nil {
		if isConstraint(err, sqlite3.ErrConstraintUnique) {
			c.logger.Warn("repository already exists", zap.String("owner", repo.Owner), zap.String("name", repo.Name))
			return nil, fmt.Errorf("%w: %s/%s", repository.ErrAlreadyExists, repo.Owner, repo.Name)
		}

		c.logger.Error("failed to add repository", zap.String("owner", repo.Owner), zap.String("name", repo.Name), zap.Error(err))
		return nil, fmt.Errorf("failed to add repository: %w", err)
	}

	repo.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read repository id: %w", err)
	}

	c.logger.Info("successfully added repository", zap.String("owner", repo.Owner), zap.String("name", repo.Name))
	return &repo, nil
}

// DeleteRepository removes the repository together with its stored pull requests.
func (c *Client) DeleteRepository(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		c.logger.Error("failed to start transaction", zap.Error(err))
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, queryDeleteRepositoryPRs, id)
	if err != nil {
		c.logger.Error("failed to delete repository pull requests", zap.Int64("repository_id", id), zap.Error(err))
		return fmt.Errorf("failed to delete repository pull requests: %w", err)
	}

	res, err := tx.ExecContext(ctx, queryDeleteRepository, id)
	if err != nil {
		c.logger.Error("failed to delete repository", zap.Int64("repository_id", id), zap.Error(err))
		return fmt.Errorf("failed to delete repository: %w", err)
	}

	err = requireAffected(res)
	if err != nil {
		c.logger.Warn("repository not found", zap.Int64("repository_id", id))
		return err
	}

	err = tx.Commit()
	if err != nil {
		c.logger.Error("failed to commit transaction", zap.Error(err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	c.logger.Info("successfully deleted repository", zap.Int64("repository_id", id))
	return nil
}

func (c *Client) GetRepositoryID(ctx context.Context, owner, name string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var id int64
	err := c.db.QueryRowContext(ctx, queryGetRepositoryID, owner, name).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("repository %s/%s: %w", owner, name, repository.ErrNotFound)
		}

		c.logger.Error("failed to get repository id", zap.String("owner", owner), zap.String("name", name), zap.Error(err))
		return 0, fmt.Errorf("failed to get repository id: %w", err)
	}

	return id, nil
}

func (c *Client) ListMembers(ctx context.Context) ([]domain.Member, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	rows, err := c.db.QueryContext(ctx, queryListMembers)
	if err != nil {
		c.logger.Error("failed to list members", zap.Error(err))
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	members := make([]domain.Member, 0)
	for rows.Next() {
		var (
			member      domain.Member
			displayName sql.NullString
		)

		err = rows.Scan(&member.ID, &member.Username, &displayName)
		if err != nil {
			c.logger.Error("failed to scan member", zap.Error(err))
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		member.DisplayName = fromNullString(displayName)

		members = append(members, member)
	}
	err = rows.Err()
	if err != nil {
		c.logger.Error("rows error", zap.Error(err))
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return members, nil
}

func (c *Client) AddMember(ctx context.Context, member domain.Member) (*domain.Member, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.db.ExecContext(ctx, queryAddMember, member.Username, toNullString(member.DisplayName))
	if err != nil {
		if isConstraint(err, sqlite3.ErrConstraintUnique) {
			c.logger.Warn("member already exists", zap.String("username", member.Username))
			return nil, fmt.Errorf("%w: %s", repository.ErrAlreadyExists, member.Username)
		}

		c.logger.Error("failed to add member", zap.String("username", member.Username), zap.Error(err))
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	member.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read member id: %w", err)
	}

	c.logger.Info("successfully added member", zap.String("username", member.Username))
	return &member, nil
}

// EnsureMember inserts the member unless the username is already known.
func (c *Client) EnsureMember(ctx context.Context, username, displayName string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err := c.db.ExecContext(ctx, queryEnsureMember, username, displayName)
	if err != nil {
		c.logger.Error("failed to ensure member", zap.String("username", username), zap.Error(err))
		return fmt.Errorf("failed to ensure member: %w", err)
	}

	return nil
}

func (c *Client) DeleteMember(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.db.ExecContext(ctx, queryDeleteMember, id)
	if err != nil {
		c.logger.Error("failed to delete member", zap.Int64("member_id", id), zap.Error(err))
		return fmt.Errorf("failed to delete member: %w", err)
	}

	err = requireAffected(res)
	if err != nil {
		c.logger.Warn("member not found", zap.Int64("member_id", id))
		return err
	}

	c.logger.Info("successfully deleted member", zap.Int64("member_id", id))
	return nil
}

func (c *Client) GetSetting(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var value string
	err := c.db.QueryRowContext(ctx, queryGetSetting, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", repository.ErrSettingNotFound, key)
		}

		c.logger.Error("failed to get setting", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("failed to get setting: %w", err)
	}

	return value, nil
}

func (c *Client) SetSetting(ctx context.Context, key, value string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err := c.db.ExecContext(ctx, querySetSetting, key, value)
	if err != nil {
		c.logger.Error("failed to set setting", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to set setting: %w", err)
	}

	c.logger.Info("successfully stored setting", zap.String("key", key))
	return nil
}

// SavePullRequest inserts the row or replaces the one with the same repository and number.
func (c *Client) SavePullRequest(ctx context.Context, pr domain.StoredPullRequest) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err := c.db.ExecContext(ctx, querySavePullRequest,
		pr.Number, pr.Title, toNullString(pr.Body), pr.Author, pr.RepositoryID, pr.State,
		pr.CreatedAt, pr.UpdatedAt, toNullString(pr.MergedAt), pr.HTMLURL, pr.DiffURL,
		toNullString(pr.DiffContent), toNullInt64(pr.ChangedFiles), toNullInt64(pr.Additions), toNullInt64(pr.Deletions),
	)
	if err != nil {
		if isConstraint(err, sqlite3.ErrConstraintForeignKey) {
			c.logger.Warn("repository not found", zap.Int64("repository_id", pr.RepositoryID))
			return fmt.Errorf("repository %d: %w", pr.RepositoryID, repository.ErrNotFound)
		}

		c.logger.Error("failed to save pull request", zap.Uint64("pr_number", pr.Number), zap.Error(err))
		return fmt.Errorf("failed to save pull request: %d: %w", pr.Number, err)
	}

	return nil
}

func (c *Client) ListPullRequests(ctx context.Context, query domain.PullRequestQuery) ([]domain.StoredPullRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	rows, err := c.db.QueryContext(ctx, queryListPullRequests, query.Author, query.Author, query.From, query.To)
	if err != nil {
		c.logger.Error("failed to list pull requests", zap.Error(err))
		return nil, fmt.Errorf("failed to list pull requests: %w", err)
	}
	defer rows.Close()

	prs := make([]domain.StoredPullRequest, 0)
	for rows.Next() {
		var (
			pr                                 domain.StoredPullRequest
			body, mergedAt, diffContent        sql.NullString
			changedFiles, additions, deletions sql.NullInt64
		)

		err = rows.Scan(&pr.ID, &pr.RepositoryID, &pr.Number, &pr.Title, &body, &pr.Author, &pr.State,
			&pr.CreatedAt, &pr.UpdatedAt, &mergedAt, &pr.HTMLURL, &pr.DiffURL, &diffContent,
			&changedFiles, &additions, &deletions)
		if err != nil {
			c.logger.Error("failed to scan pull request", zap.Error(err))
			return nil, fmt.Errorf("failed to scan pull request: %w", err)
		}

		pr.Body = fromNullString(body)
		pr.MergedAt = fromNullString(mergedAt)
		pr.DiffContent = fromNullString(diffContent)
		pr.ChangedFiles = fromNullInt64(changedFiles)
		pr.Additions = fromNullInt64(additions)
		pr.Deletions = fromNullInt64(deletions)

		prs = append(prs, pr)
	}
	err = rows.Err()
	if err != nil {
		c.logger.Error("rows error", zap.Error(err))
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return prs, nil
}

func (c *Client) GetPullRequestDiff(ctx context.Context, repositoryID int64, number uint64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var diff sql.NullString
	err := c.db.QueryRowContext(ctx, queryGetPullRequestDiff, repositoryID, number).Scan(&diff)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("pull request %d: %w", number, repository.ErrNotFound)
		}

		c.logger.Error("failed to get diff", zap.Uint64("pr_number", number), zap.Error(err))
		return "", fmt.Errorf("failed to get diff: %w", err)
	}

	return diff.String, nil
}

func (c *Client) Close() {
	err := c.db.Close()
	if err != nil {
		c.logger.Warn("failed to close database", zap.Error(err))
	}
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func isConstraint(err error, code sqlite3.ErrNoExtended) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == code
}

func buildDSN(path string, config *Config) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=%d",
		path, config.BusyTimeout.Milliseconds())
}
