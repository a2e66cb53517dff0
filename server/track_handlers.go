package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"TuneMart/logger"
	"TuneMart/model"
)

// addExampleRequest is the body of POST /api/tracks/{id}/examples.
type addExampleRequest struct {
	URL   string `json:"url"`
	Label string `json:"label"`
}

// AddTrackExampleHandler attaches a promotional example clip to a track.
// Examples feed the featured curation, so the feed cache keys are dropped
// before responding.
func (h *APIHandler) AddTrackExampleHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	trackID := vars["id"]
	if _, err := primitive.ObjectIDFromHex(trackID); err != nil {
		writeError(w, http.StatusBadRequest, "invalid track id")
		return
	}

	var req addExampleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "example url is required")
		return
	}

	example := model.TrackExample{
		ID:      uuid.New().String(),
		Label:   req.Label,
		URL:     req.URL,
		AddedAt: time.Now(),
	}

	if err := h.tracks.AddExample(r.Context(), trackID, example); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			writeError(w, http.StatusNotFound, "track not found")
			return
		}
		logger.Error("failed to add track example",
			logger.String("trackId", trackID),
			logger.ErrorField(err),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.curator.InvalidateAll(r.Context())

	logger.Info("track example added",
		logger.String("trackId", trackID),
		logger.String("exampleId", example.ID),
	)
	writeJSON(w, http.StatusCreated, example)
}

// RemoveTrackExampleHandler detaches an example clip from a track and
// drops the feed cache keys.
func (h *APIHandler) RemoveTrackExampleHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	trackID := vars["id"]
	exampleID := vars["example_id"]
	if _, err := primitive.ObjectIDFromHex(trackID); err != nil {
		writeError(w, http.StatusBadRequest, "invalid track id")
		return
	}

	if err := h.tracks.RemoveExample(r.Context(), trackID, exampleID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			writeError(w, http.StatusNotFound, "track not found")
			return
		}
		logger.Error("failed to remove track example",
			logger.String("trackId", trackID),
			logger.String("exampleId", exampleID),
			logger.ErrorField(err),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.curator.InvalidateAll(r.Context())

	logger.Info("track example removed",
		logger.String("trackId", trackID),
		logger.String("exampleId", exampleID),
	)
	w.WriteHeader(http.StatusNoContent)
}
