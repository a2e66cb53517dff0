package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"TuneMart/core/discovery"
	"TuneMart/logger"
	"TuneMart/repository"
)

// APIHandler serves the discovery API.
type APIHandler struct {
	engine    *discovery.Engine
	curator   *discovery.Curator
	tracks    repository.TrackStore
	jwtSecret []byte
}

// NewAPIHandler creates the API handler.
func NewAPIHandler(
	engine *discovery.Engine,
	curator *discovery.Curator,
	tracks repository.TrackStore,
	jwtSecret []byte,
) *APIHandler {
	return &APIHandler{
		engine:    engine,
		curator:   curator,
		tracks:    tracks,
		jwtSecret: jwtSecret,
	}
}

// SearchTracksHandler answers GET /api/tracks.
func (h *APIHandler) SearchTracksHandler(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	q := discovery.TrackQuery{
		Genre:        params.Get("genre"),
		KeySignature: params.Get("keySignature"),
		VocalRange:   params.Get("vocalRange"),
		TrackType:    params.Get("trackType"),
		ArtistID:     params.Get("artist"),
		OrderBy:      params.Get("orderBy"),
		Query:        params.Get("query"),
		Page:         discovery.ParsePagination(params.Get("page"), params.Get("limit")),
	}

	page, err := h.engine.SearchTracks(r.Context(), q)
	if err != nil {
		writeDiscoveryError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// SearchArtistsHandler answers GET /api/artists.
func (h *APIHandler) SearchArtistsHandler(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	q := discovery.ArtistQuery{
		Available: params.Get("available"),
		OrderBy:   params.Get("orderBy"),
		Query:     params.Get("query"),
		Page:      discovery.ParsePagination(params.Get("page"), params.Get("limit")),
	}

	page, err := h.engine.SearchArtists(r.Context(), q)
	if err != nil {
		writeDiscoveryError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// FeaturedTracksHandler answers GET /api/tracks/featured.
func (h *APIHandler) FeaturedTracksHandler(w http.ResponseWriter, r *http.Request) {
	feed, err := h.curator.FeaturedTracks(r.Context())
	if err != nil {
		writeDiscoveryError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"tracks": feed})
}

// FeaturedArtistsHandler answers GET /api/artists/featured.
func (h *APIHandler) FeaturedArtistsHandler(w http.ResponseWriter, r *http.Request) {
	feed, err := h.curator.FeaturedArtists(r.Context())
	if err != nil {
		writeDiscoveryError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"artists": feed})
}

// GetTrackHandler answers GET /api/tracks/{id}.
func (h *APIHandler) GetTrackHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	track, err := h.engine.TrackByID(r.Context(), vars["id"])
	if err != nil {
		writeDiscoveryError(w, err)
		return
	}

	logger.Debug("served track lookup", logger.String("trackId", track.ID))
	writeJSON(w, http.StatusOK, track)
}
