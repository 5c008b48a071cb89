package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github-pr-finder/internal/api"
)

func Greet(svc Finder, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req api.GreetRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			logger.Warn("Greet: failed to decode body", zap.Error(err))
			api.WriteError(w, logger, "failed to decode body", http.StatusBadRequest)
			return
		}

		writeJSON(w, logger, svc.Greet(req.Name), http.StatusOK)
	}
}
