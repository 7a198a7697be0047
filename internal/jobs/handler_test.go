package jobs_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"roofboard/jobs-service/internal/geocode"
	"roofboard/jobs-service/internal/ingest"
	"roofboard/jobs-service/internal/jobs"
	"roofboard/jobs-service/internal/model"
	"roofboard/jobs-service/internal/search"
)

// ─── Fakes ─────────────────────────────────────────────────────────────────

type fakeWriter struct {
	inserted []model.JobPosting
}

func (f *fakeWriter) Insert(_ context.Context, p model.JobPosting) (model.JobPosting, error) {
	p.ID = int64(len(f.inserted) + 1)
	f.inserted = append(f.inserted, p)
	return p, nil
}

type fakeSyncer struct {
	synced int
	err    error
}

func (f *fakeSyncer) Sync(context.Context) (int, error) { return f.synced, f.err }

func (f *fakeSyncer) Resync(context.Context) (ingest.ResyncResult, error) {
	return ingest.ResyncResult{Deleted: 3, Synced: f.synced, ManualPreserved: 2}, f.err
}

func (f *fakeSyncer) FullResync(context.Context) (ingest.ResyncResult, error) {
	return ingest.ResyncResult{Deleted: 5, Synced: f.synced}, f.err
}

type fakeSearcher struct {
	results []model.JobPosting
	err     error
}

func (f *fakeSearcher) Nearby(context.Context, string, float64) ([]model.JobPosting, error) {
	return f.results, f.err
}

func newServer(t *testing.T, w *fakeWriter, sy *fakeSyncer, se *fakeSearcher) *httptest.Server {
	t.Helper()
	g, err := geocode.NewOffline()
	if err != nil {
		t.Fatalf("NewOffline: %v", err)
	}
	mux := http.NewServeMux()
	jobs.NewHandler(w, sy, se, g).RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// ─── Manual posting creation ───────────────────────────────────────────────

func TestCreateJob_GeocodesPostalCode(t *testing.T) {
	writer := &fakeWriter{}
	srv := newServer(t, writer, &fakeSyncer{}, &fakeSearcher{})

	body := `{"title":"Roofing Foreman","description":"Lead a crew","location":"Beverly Hills, CA","postal_code":"90210"}`
	resp, err := http.Post(srv.URL+"/jobs", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /jobs: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var created model.JobPosting
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !created.HasCoordinates() {
		t.Error("posting with a known ZIP should come back geocoded")
	}
	if created.ExternalID != nil {
		t.Error("manual postings must not carry an external_id")
	}
	if !created.IsActive {
		t.Error("new postings must default to active")
	}
}

func TestCreateJob_RejectsBadPostalCodes(t *testing.T) {
	srv := newServer(t, &fakeWriter{}, &fakeSyncer{}, &fakeSearcher{})

	for _, zip := range []string{"1234", "123456", "abcde"} {
		body := `{"title":"Roofer","description":"d","location":"l","postal_code":"` + zip + `"}`
		resp, err := http.Post(srv.URL+"/jobs", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("POST /jobs: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("postal_code %q: status = %d, want 400", zip, resp.StatusCode)
		}
	}
}

// An unknown but well-formed ZIP creates the posting without coordinates.
func TestCreateJob_GeocodeMissIsNotFatal(t *testing.T) {
	writer := &fakeWriter{}
	srv := newServer(t, writer, &fakeSyncer{}, &fakeSearcher{})

	body := `{"title":"Roofer","description":"d","location":"Nowhere","postal_code":"99999"}`
	resp, err := http.Post(srv.URL+"/jobs", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /jobs: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	if len(writer.inserted) != 1 || writer.inserted[0].HasCoordinates() {
		t.Error("posting should be stored with null coordinates")
	}
}

func TestCreateJob_RequiresCoreFields(t *testing.T) {
	srv := newServer(t, &fakeWriter{}, &fakeSyncer{}, &fakeSearcher{})

	resp, err := http.Post(srv.URL+"/jobs", "application/json", strings.NewReader(`{"title":"only a title"}`))
	if err != nil {
		t.Fatalf("POST /jobs: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

// ─── Search ────────────────────────────────────────────────────────────────

func TestSearchByLocation_BadZIPIsClientError(t *testing.T) {
	srv := newServer(t, &fakeWriter{}, &fakeSyncer{},
		&fakeSearcher{err: &search.ValidationError{Msg: "unknown ZIP"}})

	resp, err := http.Get(srv.URL + "/jobs/search/location?zip_code=00000&radius=25")
	if err != nil {
		t.Fatalf("GET search: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSearchByLocation_ReturnsMatches(t *testing.T) {
	lat, lng := 34.0901, -118.4065
	srv := newServer(t, &fakeWriter{}, &fakeSyncer{}, &fakeSearcher{
		results: []model.JobPosting{{Title: "Roofer", Latitude: &lat, Longitude: &lng}},
	})

	resp, err := http.Get(srv.URL + "/jobs/search/location?zip_code=90210")
	if err != nil {
		t.Fatalf("GET search: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var got []model.JobPosting
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Roofer" {
		t.Errorf("got %+v, want the single match", got)
	}
}

// ─── Sync triggers ─────────────────────────────────────────────────────────

func TestSyncJobs_ReportsCount(t *testing.T) {
	srv := newServer(t, &fakeWriter{}, &fakeSyncer{synced: 4}, &fakeSearcher{})

	resp, err := http.Post(srv.URL+"/jobs/sync", "application/json", nil)
	if err != nil {
		t.Fatalf("POST sync: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		Synced int `json:"synced"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Synced != 4 {
		t.Errorf("synced = %d, want 4", body.Synced)
	}
}

// A sync that found nothing new is still a success, not an error.
func TestSyncJobs_ZeroIsSuccess(t *testing.T) {
	srv := newServer(t, &fakeWriter{}, &fakeSyncer{synced: 0}, &fakeSearcher{})

	resp, err := http.Post(srv.URL+"/jobs/sync", "application/json", nil)
	if err != nil {
		t.Fatalf("POST sync: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestSyncJobs_ConcurrentSyncConflicts(t *testing.T) {
	srv := newServer(t, &fakeWriter{}, &fakeSyncer{err: ingest.ErrSyncInProgress}, &fakeSearcher{})

	resp, err := http.Post(srv.URL+"/jobs/sync", "application/json", nil)
	if err != nil {
		t.Fatalf("POST sync: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", resp.StatusCode)
	}
}

func TestCleanupExternal_ReportsCounts(t *testing.T) {
	srv := newServer(t, &fakeWriter{}, &fakeSyncer{synced: 7}, &fakeSearcher{})

	resp, err := http.Post(srv.URL+"/jobs/cleanup-external", "application/json", nil)
	if err != nil {
		t.Fatalf("POST cleanup-external: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Deleted         int64 `json:"deleted"`
		Synced          int   `json:"synced"`
		ManualPreserved int64 `json:"manual_preserved"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Deleted != 3 || body.Synced != 7 || body.ManualPreserved != 2 {
		t.Errorf("counts = %+v, want deleted=3 synced=7 manual_preserved=2", body)
	}
}
