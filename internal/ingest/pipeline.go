// Package ingest orchestrates the job sync pipeline: fetch raw postings
// from TheirStack, map and enrich each one, dedup against stored records
// and persist the new ones in a single transaction.
//
// Stage order per invocation:
//
//	FETCHING → MAPPING → DEDUPING → PERSISTING → DONE
//
// Fetch failures degrade to an empty result (zero jobs synced, not an
// error). Mapping failures skip the record and continue. Persistence
// failures roll back the whole batch and propagate.
package ingest

import (
	"context"
	"fmt"
	"log"

	"roofboard/jobs-service/internal/model"
	"roofboard/jobs-service/internal/theirstack"
)

// Stage labels one phase of a sync invocation, for logging.
type Stage string

const (
	StageFetching   Stage = "FETCHING"
	StageMapping    Stage = "MAPPING"
	StageDeduping   Stage = "DEDUPING"
	StagePersisting Stage = "PERSISTING"
	StageDone       Stage = "DONE"
)

// ErrSyncInProgress is returned when another sync holds the advisory lock.
var ErrSyncInProgress = fmt.Errorf("a sync is already running")

// Fetcher supplies raw postings from the external source.
type Fetcher interface {
	FetchJobs(ctx context.Context) ([]theirstack.RawJob, error)
}

// Store is the slice of posting persistence the pipeline needs.
type Store interface {
	ExternalIDs(ctx context.Context) (map[string]struct{}, error)
	InsertBatch(ctx context.Context, postings []model.JobPosting) (int, error)
	DeleteExternal(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
	CountManual(ctx context.Context) (int64, error)
}

// Locker serializes sync invocations against the shared store.
type Locker interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// Pipeline runs the full sync cycle.
type Pipeline struct {
	fetcher Fetcher
	mapper  *theirstack.Mapper
	store   Store
	lock    Locker
}

// New constructs a Pipeline.
func New(fetcher Fetcher, mapper *theirstack.Mapper, store Store, lock Locker) *Pipeline {
	return &Pipeline{fetcher: fetcher, mapper: mapper, store: store, lock: lock}
}

// ResyncResult reports the outcome of a cleanup-then-sync cycle.
type ResyncResult struct {
	Deleted         int64 `json:"deleted"`
	Synced          int   `json:"synced"`
	ManualPreserved int64 `json:"manual_preserved,omitempty"`
}

// Sync runs one fetch→map→dedup→persist cycle and returns the count of
// newly inserted postings. Returns ErrSyncInProgress when another
// invocation holds the lock.
func (p *Pipeline) Sync(ctx context.Context) (int, error) {
	release, err := p.acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer release()

	return p.run(ctx)
}

// Resync deletes aggregator-sourced postings (manual ones are preserved)
// and runs a fresh sync cycle.
func (p *Pipeline) Resync(ctx context.Context) (ResyncResult, error) {
	release, err := p.acquire(ctx)
	if err != nil {
		return ResyncResult{}, err
	}
	defer release()

	deleted, err := p.store.DeleteExternal(ctx)
	if err != nil {
		return ResyncResult{}, fmt.Errorf("cleanup external jobs: %w", err)
	}
	log.Printf("[ingest] Deleted %d aggregator postings before resync", deleted)

	synced, err := p.run(ctx)
	if err != nil {
		return ResyncResult{Deleted: deleted}, err
	}

	manual, err := p.store.CountManual(ctx)
	if err != nil {
		return ResyncResult{}, fmt.Errorf("count manual jobs: %w", err)
	}

	return ResyncResult{Deleted: deleted, Synced: synced, ManualPreserved: manual}, nil
}

// FullResync wipes every posting, manual ones included, then syncs.
// A concurrent read during the wipe may see an empty table; that snapshot
// is stale but consistent, an accepted race.
func (p *Pipeline) FullResync(ctx context.Context) (ResyncResult, error) {
	release, err := p.acquire(ctx)
	if err != nil {
		return ResyncResult{}, err
	}
	defer release()

	deleted, err := p.store.DeleteAll(ctx)
	if err != nil {
		return ResyncResult{}, fmt.Errorf("cleanup all jobs: %w", err)
	}
	log.Printf("[ingest] Deleted %d postings before full resync", deleted)

	synced, err := p.run(ctx)
	if err != nil {
		return ResyncResult{Deleted: deleted}, err
	}

	return ResyncResult{Deleted: deleted, Synced: synced}, nil
}

func (p *Pipeline) acquire(ctx context.Context) (func(), error) {
	ok, err := p.lock.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("sync lock: %w", err)
	}
	if !ok {
		return nil, ErrSyncInProgress
	}
	return func() {
		if err := p.lock.Release(ctx); err != nil {
			log.Printf("[ingest] Release sync lock: %v", err)
		}
	}, nil
}

// run executes one locked cycle and returns the new-posting count.
func (p *Pipeline) run(ctx context.Context) (int, error) {
	// ── FETCHING ──────────────────────────────────────────
	log.Printf("[ingest] Stage %s", StageFetching)
	raw, err := p.fetcher.FetchJobs(ctx)
	if err != nil {
		// Degrade to "nothing to sync" — the external source being down
		// must not fail the caller.
		log.Printf("[ingest] Fetch failed, syncing zero jobs: %v", err)
		return 0, nil
	}
	log.Printf("[ingest] Fetched %d raw postings", len(raw))

	// ── MAPPING ───────────────────────────────────────────
	log.Printf("[ingest] Stage %s", StageMapping)
	mapped := make([]model.JobPosting, 0, len(raw))
	skipped := 0
	for _, r := range raw {
		posting, err := p.mapper.Map(ctx, r)
		if err != nil {
			skipped++
			log.Printf("[ingest] Skipping record: %v", err)
			continue
		}
		mapped = append(mapped, posting)
	}

	// ── DEDUPING ──────────────────────────────────────────
	log.Printf("[ingest] Stage %s", StageDeduping)
	existing, err := p.store.ExternalIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("load dedup index: %w", err)
	}

	staged := make([]model.JobPosting, 0, len(mapped))
	duplicates := 0
	for _, posting := range mapped {
		if _, seen := existing[*posting.ExternalID]; seen {
			// First write wins: a re-seen posting is skipped, never updated.
			duplicates++
			continue
		}
		staged = append(staged, posting)
		// A fetch can carry the same posting twice; dedup within the
		// batch too, or the unique constraint would sink the commit.
		existing[*posting.ExternalID] = struct{}{}
	}

	// ── PERSISTING ────────────────────────────────────────
	log.Printf("[ingest] Stage %s", StagePersisting)
	inserted, err := p.store.InsertBatch(ctx, staged)
	if err != nil {
		return 0, fmt.Errorf("persist batch: %w", err)
	}

	log.Printf("[ingest] Stage %s — inserted=%d duplicates=%d skipped=%d",
		StageDone, inserted, duplicates, skipped)
	return inserted, nil
}
