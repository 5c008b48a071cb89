package sqlite

const (
	queryListRepositories = `select id, name, owner, url from repositories order by name`

	queryAddRepository = `insert into repositories (name, owner, url) values (?, ?, ?)`

	queryDeleteRepositoryPRs = `delete from pull_requests where repository_id = ?`

	queryDeleteRepository = `delete from repositories where id = ?`

	queryGetRepositoryID = `select id from repositories where owner = ? and name = ?`

	queryListMembers = `select id, username, display_name from members order by username`

	queryAddMember = `insert into members (username, display_name) values (?, ?)`

	queryEnsureMember = `insert or ignore into members (username, display_name) values (?, ?)`

	queryDeleteMember = `delete from members where id = ?`

	queryGetSetting = `select value from settings where key = ?`

	querySetSetting = `insert into settings (key, value, updated_at) values (?, ?, current_timestamp)
			on conflict (key) do update set value = excluded.value, updated_at = current_timestamp`

	querySavePullRequest = `insert into pull_requests
			(pr_number, title, body, author, repository_id, state, created_at, updated_at, merged_at,
			 html_url, diff_url, diff_content, changed_files, additions, deletions)
			values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			on conflict (repository_id, pr_number) do update set
				title = excluded.title,
				body = excluded.body,
				author = excluded.author,
				state = excluded.state,
				created_at = excluded.created_at,
				updated_at = excluded.updated_at,
				merged_at = excluded.merged_at,
				html_url = excluded.html_url,
				diff_url = excluded.diff_url,
				diff_content = excluded.diff_content,
				changed_files = excluded.changed_files,
				additions = excluded.additions,
				deletions = excluded.deletions`

	queryListPullRequests = `select id, repository_id, pr_number, title, body, author, state,
			cast(created_at as text), cast(updated_at as text), cast(merged_at as text),
			html_url, diff_url, diff_content, changed_files, additions, deletions
			from pull_requests
			where (? = '' or author = ?) and date(created_at) >= ? and date(created_at) <= ?
			order by created_at desc`

	queryGetPullRequestDiff = `select diff_content from pull_requests where repository_id = ? and pr_number = ?`
)
