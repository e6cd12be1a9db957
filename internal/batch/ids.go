package batch

import "github.com/google/uuid"

// IDAllocator hands out stream identifiers for newly validated rows.
//
// Allocators do not consult the ledger. The ledger rejects duplicates.
type IDAllocator interface {
	Allocate(count int) []string
}

// UUIDAllocator allocates random version-4 UUIDs (122 random bits each).
type UUIDAllocator struct{}

var _ IDAllocator = UUIDAllocator{}

// Allocate returns count fresh identifiers.
func (UUIDAllocator) Allocate(count int) []string {
	if count <= 0 {
		return nil
	}
	ids := make([]string, count)
	for i := range ids {
		ids[i] = uuid.NewString()
	}
	return ids
}
