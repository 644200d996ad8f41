package finops

import (
	"context"
	"time"

	apperrors "github.com/finopsguard/finopsguard/internal/errors"
	"github.com/finopsguard/finopsguard/internal/types"
)

const defaultListLimit = 50

// ListRecentAnalyses returns a page of persisted analyses ordered newest
// first. A zero q.Until defaults to now; a non-positive q.Limit defaults
// to defaultListLimit.
func (c *Core) ListRecentAnalyses(ctx context.Context, q ListQuery) (*ListResponse, error) {
	until := q.Until
	if until.IsZero() {
		until = time.Now().UTC().Add(time.Second)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	items, next, err := c.store.List(ctx, q.Since, until, limit, q.Cursor)
	if err != nil {
		return nil, err
	}
	return &ListResponse{Items: items, NextCursor: next}, nil
}

// GetAnalysis returns the persisted analysis for requestID, or a not_found
// error.
func (c *Core) GetAnalysis(ctx context.Context, requestID string) (*types.AnalysisRecord, error) {
	if requestID == "" {
		return nil, apperrors.InvalidRequest("request_id is required")
	}
	return c.store.Get(ctx, requestID)
}
