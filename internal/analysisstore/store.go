// Package analysisstore persists and lists completed checks. A Store is
// append-only from the caller's perspective: Put is idempotent on
// RequestID, never overwriting a prior record.
package analysisstore

import (
	"context"
	"time"

	"github.com/finopsguard/finopsguard/internal/types"
)

// Store is the persistence contract for completed analyses. Both the
// in-memory and Postgres implementations satisfy it identically from a
// caller's view.
type Store interface {
	// Put persists record. If a record with the same RequestID already
	// exists, Put is a no-op; the first write for a given request wins.
	Put(ctx context.Context, record *types.AnalysisRecord) error

	// Get returns the record for requestID, or a not_found error.
	Get(ctx context.Context, requestID string) (*types.AnalysisRecord, error)

	// List returns records with StartedAt in [since, until), newest first,
	// up to limit records, resuming from cursor (empty for the first page).
	// The returned nextCursor is empty once the range is exhausted.
	List(ctx context.Context, since, until time.Time, limit int, cursor string) (records []*types.AnalysisRecord, nextCursor string, err error)
}
