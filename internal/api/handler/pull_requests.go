package handler

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"go.uber.org/zap"

	"github-pr-finder/internal/api"
	"github-pr-finder/internal/domain"
)

// ListPullRequests serves stored pull requests, newest first.
// Query: author (optional), from and to as YYYY-MM-DD.
func ListPullRequests(svc Finder, requestTimeout time.Duration, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		q := r.URL.Query()
		query := domain.PullRequestQuery{
			Author: q.Get("author"),
			From:   q.Get("from"),
			To:     q.Get("to"),
		}

		prs, err := svc.ListPullRequests(ctx, query)
		if err != nil {
			logger.Warn("ListPullRequests: failed to list pull requests", zap.Error(err))
			api.WriteCommandError(w, logger, err)
			return
		}

		resp := make([]api.PullRequest, 0, len(prs))
		for _, pr := range prs {
			resp = append(resp, api.ToPullRequest(pr))
		}

		writeJSON(w, logger, resp, http.StatusOK)
	}
}

// GetPullRequestDiff serves the diff stored with a pull request as plain text.
func GetPullRequestDiff(svc Finder, requestTimeout time.Duration, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		repositoryID, err := strconv.ParseInt(chi.URLParam(r, "repository_id"), 10, 64)
		if err != nil || repositoryID <= 0 {
			logger.Warn("GetPullRequestDiff: bad repository id", zap.String("repository_id", chi.URLParam(r, "repository_id")))
			api.WriteError(w, logger, "invalid repository id", http.StatusBadRequest)
			return
		}

		number, err := strconv.ParseUint(chi.URLParam(r, "number"), 10, 64)
		if err != nil || number == 0 {
			logger.Warn("GetPullRequestDiff: bad pull request number", zap.String("number", chi.URLParam(r, "number")))
			api.WriteError(w, logger, "invalid pull request number", http.StatusBadRequest)
			return
		}

		diff, err := svc.StoredPullRequestDiff(ctx, repositoryID, number)
		if err != nil {
			logger.Warn("GetPullRequestDiff: failed to load diff",
				zap.Int64("repository_id", repositoryID), zap.Uint64("pr_number", number), zap.Error(err))
			api.WriteCommandError(w, logger, err)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, err = io.WriteString(w, diff)
		if err != nil {
			logger.Error("GetPullRequestDiff: failed to write response", zap.Error(err))
		}
	}
}
