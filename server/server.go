package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"TuneMart/cache"
	"TuneMart/config"
	"TuneMart/core/discovery"
	"TuneMart/db"
	"TuneMart/logger"
	"TuneMart/repository"
)

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Connect to the record store.
	mongoClient, mongoDB, err := db.ConnectMongo(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", logger.ErrorField(err))
	}
	defer db.CloseMongo(mongoClient)
	logger.Info("Connected to MongoDB", logger.String("db", cfg.MongoDB))

	// Connect to the feed cache. A missing Redis degrades to an
	// in-process cache rather than failing startup; per-operation Redis
	// failures already degrade to a miss.
	var feedCache cache.Cache
	redisClient, err := db.ConnectRedis(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory feed cache",
			logger.ErrorField(err),
		)
		feedCache = cache.NewMemory(cfg.FeedTTL)
	} else {
		defer redisClient.Close()
		feedCache = cache.NewRedis(redisClient, cfg.FeedTTL)
		logger.Info("Connected to Redis feed cache")
	}

	store := repository.NewMongoStore(mongoDB)
	ratings := repository.NewMongoRatingStore(mongoDB)

	engine := discovery.NewEngine(store)
	curator := discovery.NewCurator(store, feedCache, ratings)

	apiHandler := NewAPIHandler(engine, curator, store, []byte(cfg.JWTSecret))

	// A config edit can change feed parameters; drop the cached feeds so
	// the next request recomputes with the fresh settings.
	stopWatch, err := config.Watch(cfg.EnvFile, func() {
		curator.InvalidateAll(context.Background())
	})
	if err != nil {
		logger.Warn("config watcher unavailable", logger.ErrorField(err))
	} else {
		defer stopWatch()
	}

	router := mux.NewRouter()

	router.Use(RequestIDMiddleware)
	router.Use(apiHandler.ViewerMiddleware)
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "86400")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// Discovery endpoints
	router.HandleFunc("/api/tracks/featured", apiHandler.FeaturedTracksHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/artists/featured", apiHandler.FeaturedArtistsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/tracks", apiHandler.SearchTracksHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/artists", apiHandler.SearchArtistsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/tracks/{id}", apiHandler.GetTrackHandler).Methods(http.MethodGet)

	// Example-media mutations; these invalidate the featured feeds.
	router.HandleFunc("/api/tracks/{id}/examples", apiHandler.RequireAuth(apiHandler.AddTrackExampleHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/tracks/{id}/examples/{example_id}", apiHandler.RequireAuth(apiHandler.RemoveTrackExampleHandler)).Methods(http.MethodDelete)

	server.Handler = router

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Server starting", logger.String("addr", cfg.HTTPAddr))

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("Server stopped")
}
