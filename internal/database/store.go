package database

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for query log operations.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SaveQuery inserts a new query log record.
	SaveQuery(ctx context.Context, query *Query) error

	// CountQueriesSince returns the number of recorded queries newer than the given time.
	CountQueriesSince(ctx context.Context, since time.Time) (int, error)

	// PruneQueries deletes query records older than the given time and returns
	// the number of rows removed.
	PruneQueries(ctx context.Context, olderThan time.Time) (int64, error)

	// RunMaintenance performs database maintenance tasks like VACUUM.
	RunMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SaveQuery inserts a new query log record.
func (s *sqlxStore) SaveQuery(ctx context.Context, query *Query) error {
	if query == nil {
		return fmt.Errorf("cannot save nil query")
	}
	if query.ChannelID == "" {
		return fmt.Errorf("query must have a non-empty channel_id")
	}
	if query.Outcome == "" {
		return fmt.Errorf("query must have a non-empty outcome")
	}

	query.CreatedAt = time.Now().UTC()

	const insertQuery = `
		INSERT INTO queries (created_at, channel_id, author_id, question, city, outcome, reply)
		VALUES (:created_at, :channel_id, :author_id, :question, :city, :outcome, :reply)`

	result, err := s.db.NamedExecContext(ctx, insertQuery, query)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to save query record",
			"channel_id", query.ChannelID, "outcome", query.Outcome, "error", err)
		return fmt.Errorf("failed to save query: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		query.ID = uint(id)
	}

	s.logger.DebugContext(ctx, "Saved query record", "id", query.ID, "outcome", query.Outcome)
	return nil
}

// CountQueriesSince returns the number of recorded queries newer than the given time.
func (s *sqlxStore) CountQueriesSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM queries WHERE created_at >= ?`, since.UTC()); err != nil {
		return 0, fmt.Errorf("failed to count queries: %w", err)
	}
	return count, nil
}

// PruneQueries deletes query records older than the given time.
func (s *sqlxStore) PruneQueries(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM queries WHERE created_at < ?`, olderThan.UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to prune query records", "older_than", olderThan, "error", err)
		return 0, fmt.Errorf("failed to prune queries: %w", err)
	}

	pruned, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read pruned row count: %w", err)
	}

	s.logger.InfoContext(ctx, "Pruned query records", "rows", pruned, "older_than", olderThan)
	return pruned, nil
}

// RunMaintenance performs database maintenance tasks.
func (s *sqlxStore) RunMaintenance(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "ANALYZE"); err != nil {
		return fmt.Errorf("failed to analyze database: %w", err)
	}
	return nil
}
