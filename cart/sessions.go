package cart

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
)

const lockStripes = 64

// Sessions opens the cart store of a browsing session and writes it back.
// Updates of one session are serialized within the process.
type Sessions struct {
	repo  Repository
	locks [lockStripes]sync.Mutex
}

func NewSessions(repo Repository) *Sessions {
	return &Sessions{repo: repo}
}

func (s *Sessions) lock(sessionID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	return &s.locks[h.Sum32()%lockStripes]
}

// Open loads the session cart into a fresh store
func (s *Sessions) Open(ctx context.Context, sessionID string) (*Store, error) {
	lines, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("open cart: %w", err)
	}
	return NewStore(lines...), nil
}

// Save writes the store's current lines for the session
func (s *Sessions) Save(ctx context.Context, sessionID string, store *Store) error {
	if err := s.repo.Save(ctx, sessionID, store.Lines()); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// Update opens the session cart, applies fn and saves the result
func (s *Sessions) Update(ctx context.Context, sessionID string, fn func(*Store)) (Snapshot, error) {
	mu := s.lock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	store, err := s.Open(ctx, sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	fn(store)
	if err := s.Save(ctx, sessionID, store); err != nil {
		return Snapshot{}, err
	}
	return store.Snapshot(), nil
}

// Deduct takes the given quantities per product id out of the current
// session cart. Lines added meanwhile are kept.
func (s *Sessions) Deduct(ctx context.Context, sessionID string, quantities map[string]int) (Snapshot, error) {
	return s.Update(ctx, sessionID, func(store *Store) {
		for id, qty := range quantities {
			store.Take(id, qty)
		}
	})
}
