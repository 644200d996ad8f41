package analysisstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	apperrors "github.com/finopsguard/finopsguard/internal/errors"
	"github.com/finopsguard/finopsguard/internal/types"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS analysis_records (
	request_id              TEXT PRIMARY KEY,
	started_at              TIMESTAMPTZ NOT NULL,
	completed_at            TIMESTAMPTZ NOT NULL,
	duration_ms             BIGINT NOT NULL,
	iac_type                TEXT NOT NULL,
	environment             TEXT NOT NULL,
	estimated_monthly_cost  NUMERIC NOT NULL,
	estimated_first_week_cost NUMERIC NOT NULL,
	resource_count          INTEGER NOT NULL,
	policy_status           TEXT,
	policy_id               TEXT,
	risk_flags              TEXT[],
	recommendations_count   INTEGER NOT NULL DEFAULT 0,
	result_json             JSONB NOT NULL,
	created_at              TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS analysis_records_started_at_idx ON analysis_records (started_at DESC, request_id);
`

// PostgresStore is the production Store, backed by lib/pq over
// database/sql. Put is idempotent via ON CONFLICT DO NOTHING on the
// request_id primary key, matching the Store contract's "first write wins".
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens dsn and ensures the analysis_records table exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, apperrors.Internal("failed to open analysis store database", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, apperrors.Internal("failed to reach analysis store database", err)
	}
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		return nil, apperrors.Internal("failed to apply analysis store schema", err)
	}
	return &PostgresStore{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) Put(ctx context.Context, record *types.AnalysisRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analysis_records (
			request_id, started_at, completed_at, duration_ms, iac_type,
			environment, estimated_monthly_cost, estimated_first_week_cost,
			resource_count, policy_status, policy_id, risk_flags,
			recommendations_count, result_json
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		ON CONFLICT (request_id) DO NOTHING`,
		record.RequestID, record.StartedAt, record.CompletedAt, record.DurationMS,
		record.IACType, record.Environment,
		record.EstimatedMonthlyCost.String(), record.EstimatedFirstWeekCost.String(),
		record.ResourceCount, nullableString(record.PolicyStatus), nullableString(record.PolicyID),
		pq.Array(record.RiskFlags), record.RecommendationsCount, record.ResultJSON)
	if err != nil {
		return apperrors.Internal("failed to persist analysis record", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, requestID string) (*types.AnalysisRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT request_id, started_at, completed_at, duration_ms, iac_type,
		       environment, estimated_monthly_cost, estimated_first_week_cost,
		       resource_count, policy_status, policy_id, risk_flags,
		       recommendations_count, result_json, created_at
		FROM analysis_records WHERE request_id = $1`, requestID)

	record, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("analysis", requestID)
	}
	if err != nil {
		return nil, apperrors.Internal("failed to read analysis record", err)
	}
	return record, nil
}

func (s *PostgresStore) List(ctx context.Context, since, until time.Time, limit int, cursorToken string) ([]*types.AnalysisRecord, string, error) {
	cur, err := decodeCursor(cursorToken)
	if err != nil {
		return nil, "", apperrors.InvalidRequest(err.Error())
	}
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT request_id, started_at, completed_at, duration_ms, iac_type,
		       environment, estimated_monthly_cost, estimated_first_week_cost,
		       resource_count, policy_status, policy_id, risk_flags,
		       recommendations_count, result_json, created_at
		FROM analysis_records
		WHERE started_at >= $1 AND started_at < $2`
	args := []any{since, until}
	if cursorToken != "" {
		query += fmt.Sprintf(" AND (started_at, request_id) < ($%d, $%d)", len(args)+1, len(args)+2)
		args = append(args, cur.startedAt, cur.requestID)
	}
	query += fmt.Sprintf(" ORDER BY started_at DESC, request_id DESC LIMIT $%d", len(args)+1)
	args = append(args, limit+1)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, "", apperrors.Internal("failed to list analysis records", err)
	}
	defer rows.Close()

	var records []*types.AnalysisRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, "", apperrors.Internal("failed to scan analysis record", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, "", apperrors.Internal("failed to list analysis records", err)
	}

	var next string
	if len(records) > limit {
		last := records[limit-1]
		next = encodeCursor(cursor{startedAt: last.StartedAt, requestID: last.RequestID})
		records = records[:limit]
	}
	return records, next, nil
}

// scanner abstracts over *sql.Row and *sql.Rows, both of which implement
// Scan with this signature.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*types.AnalysisRecord, error) {
	var (
		r                          types.AnalysisRecord
		monthly, firstWeek         string
		policyStatus, policyID     sql.NullString
		riskFlags                  pq.StringArray
	)
	if err := s.Scan(
		&r.RequestID, &r.StartedAt, &r.CompletedAt, &r.DurationMS, &r.IACType,
		&r.Environment, &monthly, &firstWeek, &r.ResourceCount,
		&policyStatus, &policyID, &riskFlags, &r.RecommendationsCount,
		&r.ResultJSON, &r.CreatedAt,
	); err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(monthly)
	if err != nil {
		return nil, fmt.Errorf("invalid stored estimated_monthly_cost: %w", err)
	}
	firstWeekAmount, err := decimal.NewFromString(firstWeek)
	if err != nil {
		return nil, fmt.Errorf("invalid stored estimated_first_week_cost: %w", err)
	}
	r.EstimatedMonthlyCost = amount
	r.EstimatedFirstWeekCost = firstWeekAmount
	r.PolicyStatus = policyStatus.String
	r.PolicyID = policyID.String
	r.RiskFlags = []string(riskFlags)

	return &r, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
