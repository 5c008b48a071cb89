package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github-pr-finder/internal/api"
)

// StorePullRequests persists a sync result. Without a token in the body the
// stored one is used.
func StorePullRequests(svc Finder, requestTimeout time.Duration, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		var req api.StorePullRequestsRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			logger.Warn("StorePullRequests: failed to decode body", zap.Error(err))
			api.WriteError(w, logger, "failed to decode body", http.StatusBadRequest)
			return
		}

		token := req.Token
		if token == "" {
			token, err = svc.Token(ctx)
			if err != nil {
				logger.Warn("StorePullRequests: no token", zap.Error(err))
				api.WriteCommandError(w, logger, err)
				return
			}
		}

		saved, err := svc.StorePullRequests(ctx, req.Owner, req.Repo, token, req.PRs)
		if err != nil {
			logger.Warn("StorePullRequests: failed to store pull requests",
				zap.String("owner", req.Owner), zap.String("repo", req.Repo), zap.Int("saved", saved), zap.Error(err))
			api.WriteCommandError(w, logger, err)
			return
		}

		writeJSON(w, logger, api.StorePullRequestsResponse{Saved: saved}, http.StatusOK)

		logger.Info("StorePullRequests: successfully stored pull requests", zap.Int("saved", saved))
	}
}
