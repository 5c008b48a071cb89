// Package prfilter narrows fetched pull requests to a creation-date window
// and projects them into the shape handed back to callers.
package prfilter

import (
	"fmt"
	"time"

	"github-pr-finder/internal/domain"
)

// Range decides whether a created_at value falls inside a window.
type Range interface {
	Contains(createdAt string) bool
}

// LexicalRange compares raw strings. Bounds must use the same ISO-8601 layout
// as the API ("2024-01-01T00:00:00Z"); a bare date such as "2024-01-31" sorts
// before every timestamp of that day and excludes it.
type LexicalRange struct {
	Start string
	End   string
}

func (r LexicalRange) Contains(createdAt string) bool {
	return r.Start <= createdAt && createdAt <= r.End
}

// CalendarRange compares parsed RFC 3339 instants. Unparseable values are excluded.
type CalendarRange struct {
	Start time.Time
	End   time.Time
}

func NewCalendarRange(start, end string) (CalendarRange, error) {
	s, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return CalendarRange{}, fmt.Errorf("failed to parse start: %w", err)
	}

	e, err := time.Parse(time.RFC3339, end)
	if err != nil {
		return CalendarRange{}, fmt.Errorf("failed to parse end: %w", err)
	}

	return CalendarRange{Start: s, End: e}, nil
}

func (r CalendarRange) Contains(createdAt string) bool {
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return false
	}

	return !t.Before(r.Start) && !t.After(r.End)
}

// FilterAndProject keeps records with start <= created_at <= end by string
// comparison, in input order.
func FilterAndProject(records []domain.PullRequest, start, end string) []domain.ProjectedPullRequest {
	return Filter(records, LexicalRange{Start: start, End: end})
}

// Filter keeps the records rng contains and projects them. The result is never nil.
func Filter(records []domain.PullRequest, rng Range) []domain.ProjectedPullRequest {
	out := make([]domain.ProjectedPullRequest, 0, len(records))
	for _, pr := range records {
		if rng.Contains(pr.CreatedAt) {
			out = append(out, Project(pr))
		}
	}

	return out
}

func Project(pr domain.PullRequest) domain.ProjectedPullRequest {
	return domain.ProjectedPullRequest{
		Number:       pr.Number,
		Title:        pr.Title,
		Body:         pr.Body,
		Author:       pr.Author,
		State:        pr.State,
		CreatedAt:    pr.CreatedAt,
		UpdatedAt:    pr.UpdatedAt,
		MergedAt:     pr.MergedAt,
		HTMLURL:      pr.HTMLURL,
		DiffURL:      DiffURL(pr.HTMLURL),
		ChangedFiles: pr.ChangedFiles,
		Additions:    pr.Additions,
		Deletions:    pr.Deletions,
	}
}

func DiffURL(htmlURL string) string {
	return htmlURL + ".diff"
}

// DayBounds widens two YYYY-MM-DD values to the first and last second of those days.
func DayBounds(startDay, endDay string) (string, string) {
	return startDay + "T00:00:00Z", endDay + "T23:59:59Z"
}
