// Package store persists job postings in PostgreSQL.
//
// Plain SQL over pgx, no ORM. Batch ingestion is the one transactional
// surface: all staged postings for a sync commit together or not at all.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"roofboard/jobs-service/internal/model"
)

// Store encapsulates all posting persistence.
type Store struct {
	pool *pgxpool.Pool
}

// New returns a configured Store.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Migrate creates the companies and jobs tables when missing. external_id
// is nullable and unique: multiple manual postings (NULL) coexist, while an
// aggregator posting can only be stored once.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS companies (
			id          BIGSERIAL PRIMARY KEY,
			name        TEXT NOT NULL UNIQUE,
			website     TEXT,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS jobs (
			id                 BIGSERIAL PRIMARY KEY,
			external_id        TEXT UNIQUE,
			company_id         BIGINT REFERENCES companies(id),
			title              TEXT NOT NULL,
			description        TEXT NOT NULL DEFAULT '',
			location           TEXT NOT NULL DEFAULT '',
			city               TEXT,
			state              TEXT,
			postal_code        TEXT,
			latitude           DOUBLE PRECISION,
			longitude          DOUBLE PRECISION,
			employment_type    TEXT,
			remote_type        TEXT,
			salary_range       TEXT,
			application_email  TEXT,
			application_link   TEXT,
			company_url        TEXT,
			source_url         TEXT,
			job_function       TEXT,
			posted_date        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			is_active          BOOLEAN NOT NULL DEFAULT TRUE,
			created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS jobs_coordinates_idx
			ON jobs (latitude, longitude) WHERE latitude IS NOT NULL;
	`)
	if err != nil {
		return fmt.Errorf("migrate jobs schema: %w", err)
	}
	return nil
}

const jobColumns = `
	id, external_id, company_id, title, description, location,
	city, state, postal_code, latitude, longitude,
	employment_type, remote_type, salary_range,
	application_email, application_link, company_url, source_url,
	COALESCE(job_function, ''), posted_date, is_active`

const insertJobSQL = `
	INSERT INTO jobs (
		external_id, company_id, title, description, location,
		city, state, postal_code, latitude, longitude,
		employment_type, remote_type, salary_range,
		application_email, application_link, company_url, source_url,
		job_function, posted_date, is_active
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		$11, $12, $13, $14, $15, $16, $17, NULLIF($18, ''), $19, $20
	) RETURNING id`

func insertArgs(p *model.JobPosting) []any {
	return []any{
		p.ExternalID, p.CompanyID, p.Title, p.Description, p.Location,
		p.City, p.State, p.PostalCode, p.Latitude, p.Longitude,
		p.EmploymentType, p.RemoteType, p.SalaryRange,
		p.ApplicationEmail, p.ApplicationLink, p.CompanyURL, p.SourceURL,
		string(p.JobFunction), p.PostedDate, p.IsActive,
	}
}

func scanJob(row pgx.Row, p *model.JobPosting) error {
	var fn string
	err := row.Scan(
		&p.ID, &p.ExternalID, &p.CompanyID, &p.Title, &p.Description, &p.Location,
		&p.City, &p.State, &p.PostalCode, &p.Latitude, &p.Longitude,
		&p.EmploymentType, &p.RemoteType, &p.SalaryRange,
		&p.ApplicationEmail, &p.ApplicationLink, &p.CompanyURL, &p.SourceURL,
		&fn, &p.PostedDate, &p.IsActive,
	)
	p.JobFunction = model.JobFunction(fn)
	return err
}

// ExternalIDs returns the set of external IDs already stored — the dedup
// index for one sync invocation.
func (s *Store) ExternalIDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT external_id FROM jobs WHERE external_id IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("externalIDs query: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("externalIDs scan: %w", err)
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// InsertBatch inserts all staged postings inside one transaction. Any
// failure (constraint violation included) rolls the whole batch back and
// the error propagates to the caller.
func (s *Store) InsertBatch(ctx context.Context, postings []model.JobPosting) (int, error) {
	if len(postings) == 0 {
		return 0, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin batch insert: %w", err)
	}
	defer tx.Rollback(ctx)

	for i := range postings {
		var id int64
		if err := tx.QueryRow(ctx, insertJobSQL, insertArgs(&postings[i])...).Scan(&id); err != nil {
			return 0, fmt.Errorf("insert job %q: %w", postings[i].Title, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit batch insert: %w", err)
	}
	return len(postings), nil
}

// Insert stores a single posting and returns it with its assigned ID.
// Used by manual posting creation.
func (s *Store) Insert(ctx context.Context, p model.JobPosting) (model.JobPosting, error) {
	if err := s.pool.QueryRow(ctx, insertJobSQL, insertArgs(&p)...).Scan(&p.ID); err != nil {
		return model.JobPosting{}, fmt.Errorf("insert job: %w", err)
	}
	return p, nil
}

// DeleteExternal removes every aggregator-sourced posting (non-null
// external_id), preserving manual postings. Returns the deleted count.
func (s *Store) DeleteExternal(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM jobs WHERE external_id IS NOT NULL`)
	if err != nil {
		return 0, fmt.Errorf("delete external jobs: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteAll wipes the postings table unconditionally.
func (s *Store) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM jobs`)
	if err != nil {
		return 0, fmt.Errorf("delete all jobs: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CountManual returns how many manually created postings exist.
func (s *Store) CountManual(ctx context.Context) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM jobs WHERE external_id IS NULL`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count manual jobs: %w", err)
	}
	return n, nil
}

// ListGeocoded returns every active posting carrying a full coordinate
// pair — the candidate set for proximity search.
func (s *Store) ListGeocoded(ctx context.Context) ([]model.JobPosting, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+jobColumns+`
		 FROM jobs
		 WHERE latitude IS NOT NULL AND longitude IS NOT NULL AND is_active`)
	if err != nil {
		return nil, fmt.Errorf("listGeocoded query: %w", err)
	}
	defer rows.Close()

	postings := make([]model.JobPosting, 0)
	for rows.Next() {
		var p model.JobPosting
		if err := scanJob(rows, &p); err != nil {
			return nil, fmt.Errorf("listGeocoded scan: %w", err)
		}
		postings = append(postings, p)
	}
	return postings, rows.Err()
}
