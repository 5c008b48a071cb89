package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github-pr-finder/internal/api"
)

func ListMembers(svc Finder, requestTimeout time.Duration, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		members, err := svc.ListMembers(ctx)
		if err != nil {
			logger.Error("ListMembers: failed to list members", zap.Error(err))
			api.WriteCommandError(w, logger, err)
			return
		}

		resp := make([]api.Member, 0, len(members))
		for _, m := range members {
			resp = append(resp, api.ToMember(m))
		}

		writeJSON(w, logger, resp, http.StatusOK)
	}
}

func AddMember(svc Finder, requestTimeout time.Duration, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		var req api.Member
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			logger.Warn("AddMember: failed to decode body", zap.Error(err))
			api.WriteError(w, logger, "failed to decode body", http.StatusBadRequest)
			return
		}

		member, err := svc.AddMember(ctx, req.Username, req.DisplayName)
		if err != nil {
			logger.Warn("AddMember: failed to add member", zap.String("username", req.Username), zap.Error(err))
			api.WriteCommandError(w, logger, err)
			return
		}

		writeJSON(w, logger, api.ToMember(*member), http.StatusCreated)

		logger.Info("AddMember: successfully added member", zap.String("username", member.Username))
	}
}

func DeleteMember(svc Finder, requestTimeout time.Duration, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		id, err := idParam(r)
		if err != nil {
			logger.Warn("DeleteMember: bad id", zap.Error(err))
			api.WriteError(w, logger, err.Error(), http.StatusBadRequest)
			return
		}

		err = svc.DeleteMember(ctx, id)
		if err != nil {
			logger.Warn("DeleteMember: failed to delete member", zap.Int64("id", id), zap.Error(err))
			api.WriteCommandError(w, logger, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
		logger.Info("DeleteMember: successfully deleted member", zap.Int64("id", id))
	}
}
