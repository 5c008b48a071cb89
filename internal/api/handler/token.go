package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github-pr-finder/internal/api"
	"github-pr-finder/internal/github"
)

func GetToken(svc Finder, requestTimeout time.Duration, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		token, err := svc.Token(ctx)
		if err != nil {
			logger.Warn("GetToken: failed to load token", zap.Error(err))
			api.WriteCommandError(w, logger, err)
			return
		}

		writeJSON(w, logger, api.TokenResponse{Token: token}, http.StatusOK)
	}
}

func SaveToken(svc Finder, requestTimeout time.Duration, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		var req api.TokenRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			logger.Warn("SaveToken: failed to decode body", zap.Error(err))
			api.WriteError(w, logger, "failed to decode body", http.StatusBadRequest)
			return
		}

		err = svc.SaveToken(ctx, req.Token)
		if err != nil {
			logger.Error("SaveToken: failed to save token", zap.Error(err))
			api.WriteCommandError(w, logger, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
		logger.Info("SaveToken: successfully saved token")
	}
}

// ValidateToken answers 200 either way; a rejected token is a result, not a failure.
func ValidateToken(svc Finder, requestTimeout time.Duration, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		var req api.TokenRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			logger.Warn("ValidateToken: failed to decode body", zap.Error(err))
			api.WriteError(w, logger, "failed to decode body", http.StatusBadRequest)
			return
		}

		viewer, err := svc.ValidateToken(ctx, req.Token)
		if err != nil {
			if errors.Is(err, github.ErrInvalidToken) {
				logger.Warn("ValidateToken: token rejected", zap.Error(err))
				writeJSON(w, logger, api.TokenValidation{Valid: false, Message: "invalid token"}, http.StatusOK)
				return
			}

			logger.Warn("ValidateToken: failed to validate token", zap.Error(err))
			api.WriteCommandError(w, logger, err)
			return
		}

		name := viewer.Name
		if name == "" {
			name = viewer.Login
		}

		writeJSON(w, logger, api.TokenValidation{
			Valid:   true,
			Login:   viewer.Login,
			Message: "authenticated as " + name,
		}, http.StatusOK)
	}
}
