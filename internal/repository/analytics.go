package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stayagent/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// AnalyticsRepository is an optional Postgres sidecar that records one
// row per dialogue turn and per recommendation, for offline tuning of
// question order and ranking weights. Booking flow never depends on it;
// writes are fire-and-forget from the services.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository connects to Postgres and ensures the analytics
// tables exist.
func NewAnalyticsRepository(dsn string, maxConn, maxIdleConn int) (*AnalyticsRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)

	r := &AnalyticsRepository{db: db}
	if err := r.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

// Close closes the database connection.
func (r *AnalyticsRepository) Close() error {
	return r.db.Close()
}

func (r *AnalyticsRepository) ensureSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS turn_logs (
		id BIGSERIAL PRIMARY KEY,
		session_id TEXT NOT NULL,
		utterance TEXT NOT NULL,
		outcome TEXT NOT NULL,
		missing_slots TEXT[],
		response_time_ms INT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE TABLE IF NOT EXISTS search_logs (
		id BIGSERIAL PRIMARY KEY,
		session_id TEXT NOT NULL,
		criteria JSONB,
		result_count INT,
		returned_listing_ids BIGINT[],
		response_time_ms INT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE TABLE IF NOT EXISTS booking_logs (
		id BIGSERIAL PRIMARY KEY,
		session_id TEXT NOT NULL,
		reservation_id TEXT NOT NULL,
		listing_id BIGINT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`
	if _, err := r.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to ensure analytics schema: %w", err)
	}
	return nil
}

// LogTurn records the outcome of one dialogue turn.
func (r *AnalyticsRepository) LogTurn(ctx context.Context, sessionID, utterance, outcome string, missingSlots []string, responseTimeMs int) error {
	query := `
		INSERT INTO turn_logs (session_id, utterance, outcome, missing_slots, response_time_ms)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, sessionID, utterance, outcome, pq.Array(missingSlots), responseTimeMs)
	if err != nil {
		return fmt.Errorf("failed to log turn: %w", err)
	}
	return nil
}

// LogSearch records a recommendation run against finalized criteria.
func (r *AnalyticsRepository) LogSearch(ctx context.Context, sessionID string, criteria *model.FinalizedCriteria, resultCount int, listingIDs []int64, responseTimeMs int) error {
	payload, err := json.Marshal(criteria)
	if err != nil {
		return fmt.Errorf("failed to marshal criteria: %w", err)
	}

	query := `
		INSERT INTO search_logs (session_id, criteria, result_count, returned_listing_ids, response_time_ms)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = r.db.ExecContext(ctx, query, sessionID, payload, resultCount, pq.Array(listingIDs), responseTimeMs)
	if err != nil {
		return fmt.Errorf("failed to log search: %w", err)
	}
	return nil
}

// LogBooking records a confirmed reservation.
func (r *AnalyticsRepository) LogBooking(ctx context.Context, sessionID, reservationID string, listingID int64) error {
	query := `
		INSERT INTO booking_logs (session_id, reservation_id, listing_id)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.ExecContext(ctx, query, sessionID, reservationID, listingID)
	if err != nil {
		return fmt.Errorf("failed to log booking: %w", err)
	}
	return nil
}
