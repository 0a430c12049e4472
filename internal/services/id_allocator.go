package services

import (
	"fmt"
	"sync"

	"fruitbasket/internal/repositories"
)

// UserIDAllocator hands out the sequential public user IDs. It is seeded
// once at startup from the highest userID already in the store and is the
// only in-process shared mutable state in the system; Allocate serializes
// concurrent registrations so no two users get the same ID.
//
// The counter itself is never persisted. A crash between Allocate and the
// insert leaves a gap, which is fine: only uniqueness and monotonicity are
// promised, not density.
type UserIDAllocator struct {
	mu   sync.Mutex
	next int
}

// NewUserIDAllocator seeds an allocator from the store. The first allocation
// on an empty store yields 1.
func NewUserIDAllocator(repo repositories.UserRepository) (*UserIDAllocator, error) {
	maxID, err := repo.MaxUserID()
	if err != nil {
		return nil, fmt.Errorf("failed to seed userID allocator: %w", err)
	}
	return &UserIDAllocator{next: maxID + 1}, nil
}

// Allocate returns the next userID and advances the counter.
func (a *UserIDAllocator) Allocate() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.next
	a.next++
	return id
}
