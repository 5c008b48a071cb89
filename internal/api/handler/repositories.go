package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github-pr-finder/internal/api"
	"github-pr-finder/internal/domain"
)

func ListRepositories(svc Finder, requestTimeout time.Duration, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		repos, err := svc.ListRepositories(ctx)
		if err != nil {
			logger.Error("ListRepositories: failed to list repositories", zap.Error(err))
			api.WriteCommandError(w, logger, err)
			return
		}

		resp := make([]api.Repository, 0, len(repos))
		for _, repo := range repos {
			resp = append(resp, api.ToRepository(repo))
		}

		writeJSON(w, logger, resp, http.StatusOK)
	}
}

func AddRepository(svc Finder, requestTimeout time.Duration, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		var req api.Repository
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			logger.Warn("AddRepository: failed to decode body", zap.Error(err))
			api.WriteError(w, logger, "failed to decode body", http.StatusBadRequest)
			return
		}

		repo, err := svc.AddRepository(ctx, domain.Repository{Name: req.Name, Owner: req.Owner, URL: req.URL})
		if err != nil {
			logger.Warn("AddRepository: failed to add repository", zap.String("owner", req.Owner), zap.String("name", req.Name), zap.Error(err))
			api.WriteCommandError(w, logger, err)
			return
		}

		writeJSON(w, logger, api.ToRepository(*repo), http.StatusCreated)

		logger.Info("AddRepository: successfully added repository", zap.String("owner", repo.Owner), zap.String("name", repo.Name))
	}
}

func DeleteRepository(svc Finder, requestTimeout time.Duration, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		id, err := idParam(r)
		if err != nil {
			logger.Warn("DeleteRepository: bad id", zap.Error(err))
			api.WriteError(w, logger, err.Error(), http.StatusBadRequest)
			return
		}

		err = svc.DeleteRepository(ctx, id)
		if err != nil {
			logger.Warn("DeleteRepository: failed to delete repository", zap.Int64("id", id), zap.Error(err))
			api.WriteCommandError(w, logger, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
		logger.Info("DeleteRepository: successfully deleted repository", zap.Int64("id", id))
	}
}
