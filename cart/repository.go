package cart

import (
	"context"
	"sync"

	"cosmetics-storefront/models"
)

// Repository keeps the cart lines of each browsing session
type Repository interface {
	Load(ctx context.Context, sessionID string) ([]models.CartLine, error)
	Save(ctx context.Context, sessionID string, lines []models.CartLine) error
	Delete(ctx context.Context, sessionID string) error
}

// MemoryRepository keeps carts in process memory. It is used when no
// Redis address is configured.
type MemoryRepository struct {
	mu    sync.Mutex
	carts map[string][]models.CartLine
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{carts: make(map[string][]models.CartLine)}
}

func (r *MemoryRepository) Load(_ context.Context, sessionID string) ([]models.CartLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lines := r.carts[sessionID]
	out := make([]models.CartLine, len(lines))
	copy(out, lines)
	return out, nil
}

func (r *MemoryRepository) Save(_ context.Context, sessionID string, lines []models.CartLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(lines) == 0 {
		delete(r.carts, sessionID)
		return nil
	}
	r.carts[sessionID] = append([]models.CartLine(nil), lines...)
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, sessionID)
	return nil
}
