package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github-pr-finder/internal/github"
	"github-pr-finder/internal/repository"
	"github-pr-finder/internal/service"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: owner is required", service.ErrInvalidInput), http.StatusBadRequest},
		{service.ErrTokenNotSet, http.StatusBadRequest},
		{fmt.Errorf("repository: %w", repository.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: ghost", service.ErrUnknownUser), http.StatusNotFound},
		{repository.ErrAlreadyExists, http.StatusConflict},
		{fmt.Errorf("fetch: %w", &github.StatusError{StatusCode: 500, Status: "500 Internal Server Error"}), http.StatusBadGateway},
		{github.ErrNetwork, http.StatusBadGateway},
		{github.ErrDecode, http.StatusBadGateway},
		{github.ErrInvalidToken, http.StatusBadGateway},
		{errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			require.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestWriteCommandError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteCommandError(w, zap.NewNop(), fmt.Errorf("failed to fetch diff: %w", &github.StatusError{StatusCode: 404, Status: "404 Not Found"}))

	require.Equal(t, http.StatusBadGateway, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Equal(t, map[string]string{"error": "failed to fetch diff: unexpected response status: 404 Not Found"}, body)
}
