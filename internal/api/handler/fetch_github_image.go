package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github-pr-finder/internal/api"
)

func FetchGithubImage(svc Finder, requestTimeout time.Duration, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		var req api.FetchGithubImageRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			logger.Warn("FetchGithubImage: failed to decode body", zap.Error(err))
			api.WriteError(w, logger, "failed to decode body", http.StatusBadRequest)
			return
		}

		data, err := svc.FetchGithubImage(ctx, req.URL, req.Token)
		if err != nil {
			logger.Warn("FetchGithubImage: failed to fetch image", zap.String("url", req.URL), zap.Error(err))
			api.WriteCommandError(w, logger, err)
			return
		}

		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.WriteHeader(http.StatusOK)
		_, err = w.Write(data)
		if err != nil {
			logger.Error("FetchGithubImage: failed to write response", zap.Error(err))
		}
	}
}
