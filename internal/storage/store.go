// Package storage provides abstractions for persistent ledger storage.
package storage

import (
	"context"
	"math/big"

	"github.com/mmynk/vesting/internal/models"
)

// Store defines the interface for stream ledger storage operations.
// This abstraction allows swapping storage backends (memory, SQLite, etc.)
// without changing the ledger.
//
// Stores do not enforce vesting rules. The ledger serializes writes per
// stream and decides what may be written.
type Store interface {
	// CreateStream persists a new stream.
	// Returns an error wrapping models.ErrDuplicateStreamID if the ID exists.
	CreateStream(ctx context.Context, stream *models.Stream) error

	// GetStream retrieves a stream by its ID.
	// Returns an error wrapping models.ErrStreamNotFound if absent.
	GetStream(ctx context.Context, streamID string) (*models.Stream, error)

	// SetClaimed overwrites the claimed amount of an existing stream.
	// Returns an error wrapping models.ErrStreamNotFound if absent.
	SetClaimed(ctx context.Context, streamID string, claimed *big.Int) error

	// ListStreams returns streams matching filter, oldest first.
	ListStreams(ctx context.Context, filter models.StreamFilter) ([]*models.Stream, error)

	// Close releases any resources held by the store.
	Close() error
}
