package prfilter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github-pr-finder/internal/domain"
)

func pr(number uint64, createdAt string) domain.PullRequest {
	return domain.PullRequest{
		Number:    number,
		Title:     "title",
		Author:    "alice",
		State:     "open",
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
		HTMLURL:   "https://github.com/octo/hello/pull/" + string(rune('0'+number)),
	}
}

func numbers(prs []domain.ProjectedPullRequest) []uint64 {
	out := make([]uint64, 0, len(prs))
	for _, p := range prs {
		out = append(out, p.Number)
	}
	return out
}

func TestFilterAndProject(t *testing.T) {
	records := []domain.PullRequest{
		pr(1, "2024-01-01T00:00:00Z"),
		pr(2, "2024-06-15T10:00:00Z"),
	}

	got := FilterAndProject(records, "2024-01-01T00:00:00Z", "2024-03-01T00:00:00Z")
	require.Equal(t, []uint64{1}, numbers(got))
}

func TestFilterAndProjectInclusiveBounds(t *testing.T) {
	records := []domain.PullRequest{
		pr(1, "2024-01-01T00:00:00Z"),
		pr(2, "2024-02-01T00:00:00Z"),
		pr(3, "2024-03-01T00:00:00Z"),
		pr(4, "2024-03-01T00:00:01Z"),
	}

	got := FilterAndProject(records, "2024-01-01T00:00:00Z", "2024-03-01T00:00:00Z")
	require.Equal(t, []uint64{1, 2, 3}, numbers(got))
}

func TestFilterAndProjectKeepsOrder(t *testing.T) {
	records := []domain.PullRequest{
		pr(5, "2024-05-01T00:00:00Z"),
		pr(1, "2023-01-01T00:00:00Z"),
		pr(3, "2024-03-01T00:00:00Z"),
		pr(4, "2024-04-01T00:00:00Z"),
	}

	got := FilterAndProject(records, "2024-01-01T00:00:00Z", "2024-12-31T23:59:59Z")
	require.Equal(t, []uint64{5, 3, 4}, numbers(got))
}

func TestFilterAndProjectEmpty(t *testing.T) {
	got := FilterAndProject(nil, "2024-01-01T00:00:00Z", "2024-12-31T23:59:59Z")
	require.NotNil(t, got)
	require.Empty(t, got)

	got = FilterAndProject([]domain.PullRequest{pr(1, "2020-01-01T00:00:00Z")}, "2024-01-01T00:00:00Z", "2024-12-31T23:59:59Z")
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestProject(t *testing.T) {
	body := "body"
	merged := "2024-01-03T00:00:00Z"
	additions := uint64(7)

	in := domain.PullRequest{
		Number:    9,
		Title:     "Fix",
		Body:      &body,
		Author:    "bob",
		State:     "closed",
		CreatedAt: "2024-01-01T00:00:00Z",
		UpdatedAt: "2024-01-02T00:00:00Z",
		MergedAt:  &merged,
		HTMLURL:   "https://github.com/octo/hello/pull/9",
		Additions: &additions,
	}

	out := Project(in)
	require.Equal(t, "https://github.com/octo/hello/pull/9.diff", out.DiffURL)
	require.Equal(t, in.HTMLURL, out.HTMLURL)
	require.Equal(t, "bob", out.Author)
	require.Equal(t, &body, out.Body)
	require.Equal(t, &merged, out.MergedAt)
	require.Equal(t, &additions, out.Additions)
	require.Nil(t, out.Deletions)
}

func TestLexicalRangeDateOnlyBounds(t *testing.T) {
	// A date-only end bound sorts before any timestamp on that day.
	rng := LexicalRange{Start: "2024-01-01", End: "2024-01-31"}
	require.True(t, rng.Contains("2024-01-15T12:00:00Z"))
	require.False(t, rng.Contains("2024-01-31T08:00:00Z"))
}

func TestCalendarRange(t *testing.T) {
	rng, err := NewCalendarRange("2024-01-01T00:00:00Z", "2024-01-31T23:59:59Z")
	require.NoError(t, err)

	require.True(t, rng.Contains("2024-01-01T00:00:00Z"))
	require.True(t, rng.Contains("2024-01-31T23:59:59Z"))
	require.True(t, rng.Contains("2024-02-01T08:00:00+09:00"))
	require.False(t, rng.Contains("2024-02-01T00:00:00Z"))
	require.False(t, rng.Contains("not a date"))

	_, err = NewCalendarRange("2024-01-01", "2024-01-31T23:59:59Z")
	require.Error(t, err)
}

func TestFilterWithCalendarRange(t *testing.T) {
	records := []domain.PullRequest{
		pr(1, "2024-01-31T23:30:00-01:00"),
		pr(2, "2024-01-15T00:00:00Z"),
	}

	rng, err := NewCalendarRange("2024-01-01T00:00:00Z", "2024-01-31T23:59:59Z")
	require.NoError(t, err)

	require.Equal(t, []uint64{2}, numbers(Filter(records, rng)))
	// Lexically the offset timestamp is still inside the window.
	require.Equal(t, []uint64{1, 2}, numbers(FilterAndProject(records, "2024-01-01T00:00:00Z", "2024-01-31T23:59:59Z")))
}

func TestDayBounds(t *testing.T) {
	start, end := DayBounds("2024-01-01", "2024-01-31")
	require.Equal(t, "2024-01-01T00:00:00Z", start)
	require.Equal(t, "2024-01-31T23:59:59Z", end)
}
