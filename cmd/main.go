// roofboard jobs-service
//
// Job board backend for the roofing industry. Ingests postings from the
// TheirStack aggregator on a schedule, classifies them by job function,
// geocodes their locations and serves radius search plus manual posting
// creation over a REST API:
//   - POST /jobs                  — create a manual posting
//   - GET  /jobs/search/location  — ZIP + radius proximity search
//   - POST /jobs/sync             — trigger an ingestion run
//   - POST /jobs/cleanup-external — resync aggregator postings
//   - POST /jobs/cleanup          — wipe everything and resync
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"roofboard/jobs-service/internal/classify"
	"roofboard/jobs-service/internal/config"
	"roofboard/jobs-service/internal/db"
	"roofboard/jobs-service/internal/geocode"
	"roofboard/jobs-service/internal/ingest"
	"roofboard/jobs-service/internal/jobs"
	"roofboard/jobs-service/internal/scheduler"
	"roofboard/jobs-service/internal/search"
	"roofboard/jobs-service/internal/store"
	"roofboard/jobs-service/internal/theirstack"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	if err := godotenv.Load(); err != nil {
		log.Println("[jobs-service] No .env file found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[jobs-service] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Println("[jobs-service] Connecting to PostgreSQL…")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[jobs-service] PostgreSQL: %v", err)
	}
	defer pool.Close()
	log.Println("[jobs-service] PostgreSQL connected ✓")

	jobStore := store.New(pool)
	if err := jobStore.Migrate(ctx); err != nil {
		log.Fatalf("[jobs-service] Migrate: %v", err)
	}

	// ── Redis ────────────────────────────────────────────────────────────────
	log.Println("[jobs-service] Connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[jobs-service] Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("[jobs-service] Redis connected ✓")

	// ── Geocoding ────────────────────────────────────────────────────────────
	offline, err := geocode.NewOffline()
	if err != nil {
		log.Fatalf("[jobs-service] Offline geocoder: %v", err)
	}

	var geocoder geocode.Geocoder = offline
	if cfg.GoogleMapsAPIKey != "" {
		geocoder = geocode.NewGoogle(cfg.GoogleMapsAPIKey)
		log.Println("[jobs-service] Geocoding via Google Maps")
	} else {
		log.Println("[jobs-service] GOOGLE_MAPS_API_KEY not set — using offline ZIP table")
	}
	geocoder = geocode.NewCached(geocoder, rdb)

	// ── Classification ───────────────────────────────────────────────────────
	var classifier classify.Classifier = classify.Noop{}
	if cfg.OpenAIAPIKey != "" {
		llm, err := classify.NewOpenAI(cfg.OpenAIAPIKey)
		if err != nil {
			log.Fatalf("[jobs-service] OpenAI client: %v", err)
		}
		classifier = llm
		log.Println("[jobs-service] Job function classification enabled")
	} else {
		log.Println("[jobs-service] OPENAI_API_KEY not set — postings stay unclassified")
	}

	// ── Ingestion pipeline ───────────────────────────────────────────────────
	fetcher := theirstack.NewClient(cfg.TheirStackURL, cfg.TheirStackAPIKey)
	mapper := theirstack.NewMapper(geocoder, classifier)
	lock := db.NewSyncLock(rdb, "jobs:sync:lock")
	pipeline := ingest.New(fetcher, mapper, jobStore, lock)

	// Search origins always resolve against the offline table so a lookup
	// never costs a third-party call per request.
	searcher := search.New(jobStore, offline)

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)

	h := jobs.NewHandler(jobStore, pipeline, searcher, geocoder)
	h.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("[jobs-service] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[jobs-service] HTTP server error: %v", err)
		}
	}()

	// ── Scheduler ────────────────────────────────────────────────────────────
	sched := scheduler.New(pipeline, cfg.SyncIntervalHours)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("[jobs-service] Scheduler: %v", err)
	}

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[jobs-service] Shutting down…")
	sched.Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[jobs-service] Shutdown error: %v", err)
	}
	log.Println("[jobs-service] Stopped.")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "jobs-service",
		"version": version,
	})
}
