// Package model defines shared data structures for the jobs service.
package model

import "time"

// JobPosting is a single job listing, either ingested from TheirStack or
// created manually through the API. Latitude/Longitude are set together or
// not at all — a posting is only reachable by proximity search when both
// coordinates exist.
type JobPosting struct {
	ID         int64   `json:"id"`
	ExternalID *string `json:"external_id,omitempty"` // TheirStack ID; nil for manual postings
	CompanyID  *int64  `json:"company_id,omitempty"`

	Title       string  `json:"title"`
	Description string  `json:"description"` // sanitized HTML, safe to render
	Location    string  `json:"location"`
	City        *string `json:"city,omitempty"`
	State       *string `json:"state,omitempty"`
	PostalCode  *string `json:"postal_code,omitempty"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	EmploymentType   *string `json:"employment_type,omitempty"`
	RemoteType       *string `json:"remote_type,omitempty"`
	SalaryRange      *string `json:"salary_range,omitempty"`
	ApplicationEmail *string `json:"application_email,omitempty"`
	ApplicationLink  *string `json:"application_link,omitempty"`
	CompanyURL       *string `json:"company_url,omitempty"`
	SourceURL        *string `json:"source_url,omitempty"`

	JobFunction JobFunction `json:"job_function,omitempty"`
	PostedDate  time.Time   `json:"posted_date"`
	IsActive    bool        `json:"is_active"`
}

// HasCoordinates reports whether the posting carries a full coordinate pair.
func (j *JobPosting) HasCoordinates() bool {
	return j.Latitude != nil && j.Longitude != nil
}

// Company owns zero or more postings. External postings frequently have no
// matching company record, so JobPosting.CompanyID stays nullable.
type Company struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Website   *string   `json:"website,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
