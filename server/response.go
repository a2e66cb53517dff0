package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"TuneMart/core/discovery"
	"TuneMart/logger"
)

// errorResponse is the shape of every error payload.
type errorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", logger.ErrorField(err))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}

// writeDiscoveryError maps domain errors onto the HTTP surface. Store
// failures are reported opaquely; internal detail goes to the log only.
func writeDiscoveryError(w http.ResponseWriter, err error) {
	var validation *discovery.ValidationError
	if errors.As(err, &validation) {
		writeError(w, http.StatusBadRequest, validation.Message)
		return
	}

	var notFound *discovery.NotFoundError
	if errors.As(err, &notFound) {
		writeError(w, http.StatusNotFound, notFound.Message)
		return
	}

	logger.Error("discovery request failed", logger.ErrorField(err))
	writeError(w, http.StatusInternalServerError, "internal server error")
}
