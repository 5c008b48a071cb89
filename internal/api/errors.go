package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github-pr-finder/internal/github"
	"github-pr-finder/internal/repository"
	"github-pr-finder/internal/service"
)

// ErrorResponse is the only error shape crossing the boundary: a human
// readable message, no machine code.
type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteError(w http.ResponseWriter, logger *zap.Logger, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	err := json.NewEncoder(w).Encode(ErrorResponse{Error: message})
	if err != nil {
		logger.Error("WriteError: failed to encode response", zap.Error(err))
	}
}

// WriteCommandError flattens err to its message.
func WriteCommandError(w http.ResponseWriter, logger *zap.Logger, err error) {
	WriteError(w, logger, err.Error(), StatusCode(err))
}

func StatusCode(err error) int {
	var statusErr *github.StatusError

	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrTokenNotSet):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrSettingNotFound),
		errors.Is(err, service.ErrUnknownUser):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, github.ErrNetwork), errors.Is(err, github.ErrDecode),
		errors.Is(err, github.ErrInvalidToken), errors.As(err, &statusErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
