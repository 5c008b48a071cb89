package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github-pr-finder/internal/api"
	"github-pr-finder/internal/prfilter"
)

func SyncPullRequests(svc Finder, requestTimeout time.Duration, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		var req api.SyncPullRequestsRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			logger.Warn("SyncPullRequests: failed to decode body", zap.Error(err))
			api.WriteError(w, logger, "failed to decode body", http.StatusBadRequest)
			return
		}

		if req.Owner == "" || req.Repo == "" {
			logger.Warn("SyncPullRequests: owner and repo are required")
			api.WriteError(w, logger, "owner and repo are required", http.StatusBadRequest)
			return
		}

		start, end := req.StartDate, req.EndDate
		if req.StartDay != "" && req.EndDay != "" {
			start, end = prfilter.DayBounds(req.StartDay, req.EndDay)
		}

		res, err := svc.SyncPullRequests(ctx, req.Owner, req.Repo, req.Token, start, end)
		if err != nil {
			logger.Warn("SyncPullRequests: failed to sync pull requests",
				zap.String("owner", req.Owner), zap.String("repo", req.Repo), zap.Error(err))
			api.WriteCommandError(w, logger, err)
			return
		}

		writeJSON(w, logger, res, http.StatusOK)

		logger.Info("SyncPullRequests: successfully synced pull requests",
			zap.String("owner", req.Owner), zap.String("repo", req.Repo), zap.Int("count", res.Count))
	}
}
