// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/vesting/internal/models"
	"github.com/mmynk/vesting/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateStream persists a new stream to the database. Recipients are stored
// lower-cased so filtered lists can use idx_streams_recipient.
func (s *SQLiteStore) CreateStream(ctx context.Context, stream *models.Stream) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Check if stream exists
	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM streams WHERE id = ?", stream.ID).Scan(&exists)
	if err == nil {
		return fmt.Errorf("stream %s: %w", stream.ID, models.ErrDuplicateStreamID)
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("failed to check stream existence: %w", err)
	}

	claimed := "0"
	if stream.ClaimedAmount != nil {
		claimed = stream.ClaimedAmount.String()
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO streams (id, recipient, total_amount, claimed_amount, start_time_ns, duration_seconds, cliff_seconds, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		stream.ID, strings.ToLower(stream.Recipient), stream.TotalAmount.String(), claimed,
		stream.StartTime.UnixNano(), stream.DurationSeconds, stream.CliffSeconds, stream.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert stream: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetStream retrieves a stream by ID.
func (s *SQLiteStore) GetStream(ctx context.Context, streamID string) (*models.Stream, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, recipient, total_amount, claimed_amount, start_time_ns, duration_seconds, cliff_seconds, created_at
		 FROM streams WHERE id = ?`,
		streamID,
	)

	stream, err := scanStream(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("stream %s: %w", streamID, models.ErrStreamNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stream: %w", err)
	}

	return stream, nil
}

// SetClaimed overwrites the claimed amount of a stream.
func (s *SQLiteStore) SetClaimed(ctx context.Context, streamID string, claimed *big.Int) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE streams SET claimed_amount = ? WHERE id = ?",
		claimed.String(), streamID,
	)
	if err != nil {
		return fmt.Errorf("failed to update claimed amount: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("stream %s: %w", streamID, models.ErrStreamNotFound)
	}

	return nil
}

// ListStreams retrieves streams in insertion order, optionally for one recipient.
func (s *SQLiteStore) ListStreams(ctx context.Context, filter models.StreamFilter) ([]*models.Stream, error) {
	query, args := listStreamsQuery(filter)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list streams: %w", err)
	}
	defer rows.Close()

	var streams []*models.Stream
	for rows.Next() {
		stream, err := scanStream(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stream: %w", err)
		}
		streams = append(streams, stream)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate streams: %w", err)
	}

	return streams, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanStream(row scanner) (*models.Stream, error) {
	var (
		stream         models.Stream
		total, claimed string
		startNanos     int64
	)
	if err := row.Scan(&stream.ID, &stream.Recipient, &total, &claimed, &startNanos,
		&stream.DurationSeconds, &stream.CliffSeconds, &stream.CreatedAt); err != nil {
		return nil, err
	}

	var ok bool
	if stream.TotalAmount, ok = new(big.Int).SetString(total, 10); !ok {
		return nil, fmt.Errorf("stream %s total_amount %q: %w", stream.ID, total, models.ErrLedgerCorrupt)
	}
	if stream.ClaimedAmount, ok = new(big.Int).SetString(claimed, 10); !ok {
		return nil, fmt.Errorf("stream %s claimed_amount %q: %w", stream.ID, claimed, models.ErrLedgerCorrupt)
	}
	stream.StartTime = time.Unix(0, startNanos).UTC()

	return &stream, nil
}

func listStreamsQuery(filter models.StreamFilter) (string, []interface{}) {
	query := `SELECT id, recipient, total_amount, claimed_amount, start_time_ns, duration_seconds, cliff_seconds, created_at
		 FROM streams`
	var args []interface{}
	if filter.Recipient != "" {
		query += " WHERE recipient = ?"
		args = append(args, strings.ToLower(filter.Recipient))
	}
	query += " ORDER BY rowid"
	return query, args
}
