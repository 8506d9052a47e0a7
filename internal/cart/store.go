package cart

import (
	"context"
	"sync"
	"time"

	"minimart/internal/models"
)

// Store keeps carts keyed by session id. Loading an unknown session yields an
// empty cart, not an error.
type Store interface {
	Load(ctx context.Context, sessionID string) (models.Cart, error)
	Save(ctx context.Context, c models.Cart) error
	Delete(ctx context.Context, sessionID string) error
}

// MemoryStore keeps carts in process memory. Carts untouched for longer than
// ttl are forgotten on the next load.
type MemoryStore struct {
	mu    sync.Mutex
	carts map[string]models.Cart
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		carts: make(map[string]models.Cart),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) (models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[sessionID]
	if !ok {
		return models.Cart{SessionID: sessionID}, nil
	}
	if s.ttl > 0 && !c.UpdatedAt.IsZero() && s.now().Sub(c.UpdatedAt) > s.ttl {
		delete(s.carts, sessionID)
		return models.Cart{SessionID: sessionID}, nil
	}
	return cloneCart(c), nil
}

func (s *MemoryStore) Save(_ context.Context, c models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[c.SessionID] = cloneCart(c)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, sessionID)
	return nil
}

func cloneCart(c models.Cart) models.Cart {
	if c.Lines != nil {
		lines := make([]models.CartLine, len(c.Lines))
		copy(lines, c.Lines)
		c.Lines = lines
	}
	return c
}
