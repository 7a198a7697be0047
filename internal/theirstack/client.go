// Package theirstack implements job posting ingestion from the TheirStack
// aggregator: a paginated search client and the mapper that turns raw
// payloads into JobPosting records.
package theirstack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const (
	pageSize    = 25
	maxPages    = 4 // max 100 postings per sync
	maxRetries  = 3
	retryDelay  = 2 * time.Second
	httpTimeout = 30 * time.Second
	maxAgeDays  = 30
)

// Client fetches roofing job postings from the TheirStack search API.
// If APIKey is empty, FetchJobs returns (nil, nil) gracefully — the
// pipeline simply syncs zero jobs for that round and logs a warning.
type Client struct {
	APIKey  string
	BaseURL string
	client  *http.Client
	delay   time.Duration // between retry attempts; shortened in tests
}

// NewClient constructs a client with a shared HTTP client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		APIKey:  apiKey,
		BaseURL: baseURL,
		client:  &http.Client{Timeout: httpTimeout},
		delay:   retryDelay,
	}
}

// searchRequest mirrors the TheirStack search body. The filter is fixed:
// roofing titles, US only, postings at most maxAgeDays old.
type searchRequest struct {
	Page                int      `json:"page"`
	Limit               int      `json:"limit"`
	PostedAtMaxAgeDays  int      `json:"posted_at_max_age_days"`
	JobTitlePatternOr   []string `json:"job_title_pattern_or"`
	JobCountryCodeOr    []string `json:"job_country_code_or"`
	IncludeTotalResults bool     `json:"include_total_results"`
	BlurCompanyData     bool     `json:"blur_company_data"`
}

// searchResponse mirrors the top-level TheirStack JSON response.
type searchResponse struct {
	Data []RawJob `json:"data"`
}

// RawJob mirrors a single TheirStack posting. The dynamic payload is typed
// here, at the ingestion boundary, so everything downstream works on a
// fixed schema.
type RawJob struct {
	ID             json.Number `json:"id"`
	JobTitle       string      `json:"job_title"`
	Description    string      `json:"description"`
	Location       string      `json:"location"`
	LongLocation   string      `json:"long_location"`
	EmploymentType string      `json:"employment_type"`
	RemoteType     string      `json:"remote_type"`
	SalaryString   string      `json:"salary_string"`
	CompanyURL     string      `json:"company_url"`
	SourceURL      string      `json:"source_url"`
	ApplyURL       string      `json:"apply_url"`
	ApplyEmail     string      `json:"apply_email"`
	DatePosted     string      `json:"date_posted"`
	Latitude       *float64    `json:"latitude"`
	Longitude      *float64    `json:"longitude"`
}

// FetchJobs retrieves all postings matching the fixed roofing filter,
// iterating pages until a short page or maxPages. Each page request is
// retried up to maxRetries times with a fixed delay; an exhausted page
// returns whatever was collected so far along with the error.
func (c *Client) FetchJobs(ctx context.Context) ([]RawJob, error) {
	if c.APIKey == "" {
		log.Println("[theirstack] THEIRSTACK_API_KEY not set — skipping fetch")
		return nil, nil
	}

	var jobs []RawJob

	for page := 0; page < maxPages; page++ {
		batch, err := c.fetchPage(ctx, page)
		if err != nil {
			return jobs, fmt.Errorf("page %d: %w", page, err)
		}
		if len(batch) == 0 {
			break
		}
		jobs = append(jobs, batch...)
		if len(batch) < pageSize {
			break // last page
		}
	}

	return jobs, nil
}

// fetchPage issues one search request, retrying transport errors, timeouts
// and non-OK statuses up to maxRetries attempts with a fixed delay.
func (c *Client) fetchPage(ctx context.Context, page int) ([]RawJob, error) {
	payload, err := json.Marshal(searchRequest{
		Page:               page,
		Limit:              pageSize,
		PostedAtMaxAgeDays: maxAgeDays,
		JobTitlePatternOr:  []string{"roofing", "roofer"},
		JobCountryCodeOr:   []string{"US"},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if attempt > 1 {
			log.Printf("[theirstack] Retrying page %d in %s (attempt %d/%d)", page, c.delay, attempt, maxRetries)
			select {
			case <-time.After(c.delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		batch, err := c.doSearch(ctx, payload)
		if err == nil {
			return batch, nil
		}
		lastErr = err
		log.Printf("[theirstack] Page %d attempt %d failed: %v", page, attempt, err)
	}

	return nil, fmt.Errorf("max retries reached: %w", lastErr)
}

func (c *Client) doSearch(ctx context.Context, payload []byte) ([]RawJob, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http POST: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("theirstack returned %d: %s", resp.StatusCode, string(body))
	}

	var apiResp searchResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	return apiResp.Data, nil
}
