// Package cart holds the shopping cart of one browsing session and keeps
// it between requests.
package cart

import (
	"sync"

	"cosmetics-storefront/models"

	"github.com/shopspring/decimal"
)

// Snapshot is an immutable view of the cart published to subscribers
type Snapshot struct {
	Lines      []models.CartLine `json:"items"`
	TotalItems int               `json:"total_items"`
	TotalPrice decimal.Decimal   `json:"total_price"`
}

// Store aggregates cart lines by product id. Lines keep insertion order
// and a product appears at most once.
type Store struct {
	mu      sync.RWMutex
	lines   []models.CartLine
	subs    map[int]func(Snapshot)
	nextSub int
}

// NewStore creates a store holding the given lines. Lines with a
// non-positive quantity are dropped and duplicates are merged.
func NewStore(lines ...models.CartLine) *Store {
	s := &Store{subs: make(map[int]func(Snapshot))}
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		if i := s.indexOf(l.Product.ID); i >= 0 {
			s.lines[i].Quantity += l.Quantity
			continue
		}
		s.lines = append(s.lines, l)
	}
	return s
}

func (s *Store) indexOf(productID string) int {
	for i, l := range s.lines {
		if l.Product.ID == productID {
			return i
		}
	}
	return -1
}

// Add puts one unit of product in the cart
func (s *Store) Add(product models.Product) {
	s.AddN(product, 1)
}

// AddN puts n units of product in the cart; n below 1 counts as 1
func (s *Store) AddN(product models.Product, n int) {
	if n < 1 {
		n = 1
	}
	s.mutate(func() {
		if i := s.indexOf(product.ID); i >= 0 {
			s.lines[i].Quantity += n
			return
		}
		s.lines = append(s.lines, models.CartLine{Product: product, Quantity: n})
	})
}

// Remove deletes the line of productID, if any
func (s *Store) Remove(productID string) {
	s.mutate(func() {
		if i := s.indexOf(productID); i >= 0 {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
		}
	})
}

// SetQuantity sets the quantity of an existing line. qty <= 0 removes it.
// Unknown products are ignored.
func (s *Store) SetQuantity(productID string, qty int) {
	if qty <= 0 {
		s.Remove(productID)
		return
	}
	s.mutate(func() {
		if i := s.indexOf(productID); i >= 0 {
			s.lines[i].Quantity = qty
		}
	})
}

// Take removes qty units of productID, dropping the line when nothing
// is left. Unknown products are ignored.
func (s *Store) Take(productID string, qty int) {
	if qty <= 0 {
		return
	}
	s.mutate(func() {
		i := s.indexOf(productID)
		if i < 0 {
			return
		}
		if s.lines[i].Quantity <= qty {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return
		}
		s.lines[i].Quantity -= qty
	})
}

// Clear empties the cart
func (s *Store) Clear() {
	s.mutate(func() {
		s.lines = nil
	})
}

// Lines returns a copy of the cart lines
func (s *Store) Lines() []models.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLines()
}

func (s *Store) copyLines() []models.CartLine {
	out := make([]models.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// Len is the number of distinct products
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lines)
}

// TotalItems is the sum of quantities
func (s *Store) TotalItems() int {
	return s.Snapshot().TotalItems
}

// TotalPrice is the sum of unit price × quantity
func (s *Store) TotalPrice() decimal.Decimal {
	return s.Snapshot().TotalPrice
}

// Snapshot returns the lines together with the derived totals
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{Lines: s.copyLines(), TotalPrice: decimal.Zero}
	for _, l := range s.lines {
		snap.TotalItems += l.Quantity
		snap.TotalPrice = snap.TotalPrice.Add(l.Total())
	}
	return snap
}

// Subscribe registers fn to receive a snapshot after every mutation.
// The returned func removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// mutate applies change under the write lock, then notifies subscribers
// outside of it so they may read the store.
func (s *Store) mutate(change func()) {
	s.mu.Lock()
	change()
	snap := s.snapshotLocked()
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}
