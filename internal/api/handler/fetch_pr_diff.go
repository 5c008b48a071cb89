package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github-pr-finder/internal/api"
)

func FetchPrDiff(svc Finder, requestTimeout time.Duration, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		var req api.FetchPrDiffRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			logger.Warn("FetchPrDiff: failed to decode body", zap.Error(err))
			api.WriteError(w, logger, "failed to decode body", http.StatusBadRequest)
			return
		}

		if req.Owner == "" || req.Repo == "" {
			logger.Warn("FetchPrDiff: owner and repo are required")
			api.WriteError(w, logger, "owner and repo are required", http.StatusBadRequest)
			return
		}

		diff, err := svc.FetchPrDiff(ctx, req.Owner, req.Repo, req.PRNumber, req.Token)
		if err != nil {
			logger.Warn("FetchPrDiff: failed to fetch diff", zap.Uint64("pr_number", req.PRNumber), zap.Error(err))
			api.WriteCommandError(w, logger, err)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, err = io.WriteString(w, diff)
		if err != nil {
			logger.Error("FetchPrDiff: failed to write response", zap.Error(err))
		}
	}
}
