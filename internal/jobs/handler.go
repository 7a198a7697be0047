// Package jobs implements the HTTP surface of the jobs service.
//
// Routes:
//
//	POST /jobs                    → create a manual posting
//	GET  /jobs/search/location    → proximity search (zip_code, radius)
//	POST /jobs/sync               → run the ingestion pipeline
//	POST /jobs/cleanup-external   → resync aggregator postings, keep manual ones
//	POST /jobs/cleanup            → wipe everything and resync
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"roofboard/jobs-service/internal/geocode"
	"roofboard/jobs-service/internal/ingest"
	"roofboard/jobs-service/internal/model"
	"roofboard/jobs-service/internal/sanitize"
	"roofboard/jobs-service/internal/search"
)

// Syncer triggers pipeline runs.
type Syncer interface {
	Sync(ctx context.Context) (int, error)
	Resync(ctx context.Context) (ingest.ResyncResult, error)
	FullResync(ctx context.Context) (ingest.ResyncResult, error)
}

// PostingWriter stores manual postings.
type PostingWriter interface {
	Insert(ctx context.Context, p model.JobPosting) (model.JobPosting, error)
}

// Searcher answers proximity queries.
type Searcher interface {
	Nearby(ctx context.Context, zipCode string, radiusMiles float64) ([]model.JobPosting, error)
}

// Handler holds shared dependencies.
type Handler struct {
	writer   PostingWriter
	syncer   Syncer
	searcher Searcher
	geocoder geocode.Geocoder
}

// NewHandler returns a configured Handler.
func NewHandler(writer PostingWriter, syncer Syncer, searcher Searcher, geocoder geocode.Geocoder) *Handler {
	return &Handler{writer: writer, syncer: syncer, searcher: searcher, geocoder: geocoder}
}

// RegisterRoutes mounts all job routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /jobs", h.createJob)
	mux.HandleFunc("GET /jobs/search/location", h.searchByLocation)
	mux.HandleFunc("POST /jobs/sync", h.syncJobs)
	mux.HandleFunc("POST /jobs/cleanup-external", h.cleanupExternal)
	mux.HandleFunc("POST /jobs/cleanup", h.cleanupAll)
}

// ─── Manual posting creation ──────────────────────────────────────────────

type createJobRequest struct {
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	Location         string  `json:"location"`
	City             *string `json:"city,omitempty"`
	State            *string `json:"state,omitempty"`
	PostalCode       string  `json:"postal_code"`
	CompanyID        *int64  `json:"company_id,omitempty"`
	EmploymentType   *string `json:"employment_type,omitempty"`
	RemoteType       *string `json:"remote_type,omitempty"`
	SalaryRange      *string `json:"salary_range,omitempty"`
	ApplicationEmail *string `json:"application_email,omitempty"`
	ApplicationLink  *string `json:"application_link,omitempty"`
	CompanyURL       *string `json:"company_url,omitempty"`
	JobFunction      string  `json:"job_function,omitempty"`
}

func (h *Handler) createJob(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Title == "" || req.Description == "" || req.Location == "" {
		jsonError(w, "title, description and location are required", http.StatusBadRequest)
		return
	}
	if req.PostalCode != "" && !model.ValidPostalCode(req.PostalCode) {
		jsonError(w, "ZIP code must be 5 digits", http.StatusBadRequest)
		return
	}

	var fn model.JobFunction
	if req.JobFunction != "" {
		parsed, err := model.ParseJobFunction(req.JobFunction)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		fn = parsed
	}

	posting := model.JobPosting{
		CompanyID:        req.CompanyID,
		Title:            req.Title,
		Description:      sanitize.Description(req.Description),
		Location:         req.Location,
		City:             req.City,
		State:            req.State,
		EmploymentType:   req.EmploymentType,
		RemoteType:       req.RemoteType,
		SalaryRange:      req.SalaryRange,
		ApplicationEmail: req.ApplicationEmail,
		ApplicationLink:  req.ApplicationLink,
		CompanyURL:       req.CompanyURL,
		JobFunction:      fn,
		PostedDate:       time.Now().UTC(),
		IsActive:         true,
	}

	if req.PostalCode != "" {
		posting.PostalCode = &req.PostalCode
		if coords, ok := h.geocoder.Resolve(r.Context(), req.PostalCode); ok {
			posting.Latitude = &coords.Latitude
			posting.Longitude = &coords.Longitude
		} else {
			log.Printf("[jobs] Could not geocode ZIP %s for manual posting", req.PostalCode)
		}
	}

	created, err := h.writer.Insert(r.Context(), posting)
	if err != nil {
		log.Printf("[jobs] createJob insert error: %v", err)
		jsonError(w, "database error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// ─── Proximity search ─────────────────────────────────────────────────────

func (h *Handler) searchByLocation(w http.ResponseWriter, r *http.Request) {
	zip := r.URL.Query().Get("zip_code")
	radius := search.DefaultRadiusMiles
	if s := r.URL.Query().Get("radius"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			jsonError(w, fmt.Sprintf("invalid radius %q", s), http.StatusBadRequest)
			return
		}
		radius = v
	}

	postings, err := h.searcher.Nearby(r.Context(), zip, radius)
	if err != nil {
		var verr *search.ValidationError
		if errors.As(err, &verr) {
			jsonError(w, verr.Msg, http.StatusBadRequest)
			return
		}
		log.Printf("[jobs] searchByLocation error: %v", err)
		jsonError(w, "database error", http.StatusInternalServerError)
		return
	}

	jsonOK(w, postings)
}

// ─── Sync triggers ────────────────────────────────────────────────────────

func (h *Handler) syncJobs(w http.ResponseWriter, r *http.Request) {
	synced, err := h.syncer.Sync(r.Context())
	if err != nil {
		h.syncError(w, "sync", err)
		return
	}
	jsonOK(w, map[string]any{
		"message": fmt.Sprintf("Successfully synced %d jobs from TheirStack", synced),
		"synced":  synced,
	})
}

func (h *Handler) cleanupExternal(w http.ResponseWriter, r *http.Request) {
	res, err := h.syncer.Resync(r.Context())
	if err != nil {
		h.syncError(w, "resync", err)
		return
	}
	jsonOK(w, map[string]any{
		"message":          fmt.Sprintf("Cleaned up TheirStack jobs and re-synced %d jobs", res.Synced),
		"deleted":          res.Deleted,
		"synced":           res.Synced,
		"manual_preserved": res.ManualPreserved,
	})
}

func (h *Handler) cleanupAll(w http.ResponseWriter, r *http.Request) {
	res, err := h.syncer.FullResync(r.Context())
	if err != nil {
		h.syncError(w, "full resync", err)
		return
	}
	jsonOK(w, map[string]any{
		"message": fmt.Sprintf("Cleaned up ALL jobs and re-synced %d jobs", res.Synced),
		"deleted": res.Deleted,
		"synced":  res.Synced,
	})
}

func (h *Handler) syncError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, ingest.ErrSyncInProgress) {
		jsonError(w, err.Error(), http.StatusConflict)
		return
	}
	log.Printf("[jobs] %s error: %v", op, err)
	jsonError(w, fmt.Sprintf("%s failed", op), http.StatusInternalServerError)
}

// ─── Helpers ──────────────────────────────────────────────────────────────

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
