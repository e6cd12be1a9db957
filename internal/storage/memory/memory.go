// Package memory provides an in-process implementation of the storage.Store interface.
package memory

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/mmynk/vesting/internal/models"
	"github.com/mmynk/vesting/internal/storage"
)

// Ensure MemoryStore implements storage.Store
var _ storage.Store = (*MemoryStore)(nil)

// MemoryStore keeps streams in a map. Values are cloned on the way in and out,
// so callers never share *big.Int state with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	streams map[string]*models.Stream
	order   []string
}

// New creates an empty MemoryStore.
func New() *MemoryStore {
	return &MemoryStore{streams: make(map[string]*models.Stream)}
}

// CreateStream stores a copy of stream.
func (s *MemoryStore) CreateStream(ctx context.Context, stream *models.Stream) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.streams[stream.ID]; exists {
		return fmt.Errorf("stream %s: %w", stream.ID, models.ErrDuplicateStreamID)
	}
	s.streams[stream.ID] = stream.Clone()
	s.order = append(s.order, stream.ID)
	return nil
}

// GetStream returns a copy of the stored stream.
func (s *MemoryStore) GetStream(ctx context.Context, streamID string) (*models.Stream, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stream, exists := s.streams[streamID]
	if !exists {
		return nil, fmt.Errorf("stream %s: %w", streamID, models.ErrStreamNotFound)
	}
	return stream.Clone(), nil
}

// SetClaimed overwrites the claimed amount.
func (s *MemoryStore) SetClaimed(ctx context.Context, streamID string, claimed *big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stream, exists := s.streams[streamID]
	if !exists {
		return fmt.Errorf("stream %s: %w", streamID, models.ErrStreamNotFound)
	}
	stream.ClaimedAmount = new(big.Int).Set(claimed)
	return nil
}

// ListStreams returns copies of matching streams in creation order.
func (s *MemoryStore) ListStreams(ctx context.Context, filter models.StreamFilter) ([]*models.Stream, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recipient := strings.ToLower(filter.Recipient)
	var streams []*models.Stream
	for _, id := range s.order {
		stream := s.streams[id]
		if recipient != "" && strings.ToLower(stream.Recipient) != recipient {
			continue
		}
		streams = append(streams, stream.Clone())
	}
	return streams, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
