package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"TuneMart/core/auth"
	"TuneMart/logger"
)

type contextKey string

const (
	viewerKey    contextKey = "viewer"
	requestIDKey contextKey = "requestId"
)

// RequestIDMiddleware tags every request with an id for log correlation.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ViewerMiddleware parses an optional Bearer token into a viewer
// identity. Listing and feed endpoints work without one; an invalid
// token is ignored rather than rejected here.
func (h *APIHandler) ViewerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			viewer, err := auth.ParseToken(parts[1], h.jwtSecret)
			if err == nil {
				ctx := context.WithValue(r.Context(), viewerKey, viewer)
				r = r.WithContext(ctx)
			} else {
				logger.Debug("ignoring invalid viewer token", logger.ErrorField(err))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth guards mutating endpoints: the request must carry a valid
// viewer token.
func (h *APIHandler) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "authorization header is required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeError(w, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		viewer, err := auth.ParseToken(parts[1], h.jwtSecret)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), viewerKey, viewer)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// ViewerFromContext returns the viewer identity, if the request carried
// a valid token.
func ViewerFromContext(ctx context.Context) (*auth.Viewer, bool) {
	viewer, ok := ctx.Value(viewerKey).(*auth.Viewer)
	return viewer, ok
}
