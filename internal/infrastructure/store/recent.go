package store

import (
	"context"
	"sync"

	"github.com/shopscout/backend/internal/domain"
)

// RecentProducts is a bounded FIFO list of previously seen products.
// Once the capacity is reached, adding a product evicts the oldest one.
// The similarity pipeline only reads it; writes happen at the request
// boundary.
type RecentProducts struct {
	capacity int
	items    []domain.Product
	mutex    sync.Mutex
}

// NewRecentProducts creates a store holding at most capacity products
func NewRecentProducts(capacity int) *RecentProducts {
	if capacity <= 0 {
		capacity = 50
	}
	return &RecentProducts{
		capacity: capacity,
		items:    make([]domain.Product, 0, capacity),
	}
}

// Recent returns the stored products, oldest first. The returned slice
// is a copy; mutating it does not affect the store.
func (s *RecentProducts) Recent(ctx context.Context) ([]domain.Product, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	out := make([]domain.Product, len(s.items))
	copy(out, s.items)
	return out, nil
}

// Add appends a product, evicting the oldest entry when full. A product
// already present (same URL and title) is not duplicated.
func (s *RecentProducts) Add(ctx context.Context, p domain.Product) error {
	if p.Title == "" {
		return domain.ErrInvalidRequest
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, existing := range s.items {
		if existing.URL == p.URL && existing.Title == p.Title {
			return nil
		}
	}

	if len(s.items) >= s.capacity {
		s.items = s.items[1:]
	}
	s.items = append(s.items, p)
	return nil
}

// Len returns the current number of stored products
func (s *RecentProducts) Len() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.items)
}
