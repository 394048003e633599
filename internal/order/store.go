package order

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Store persists orders. The engine itself only needs get and save; the
// production deployment backs this with the order database.
type Store interface {
	Save(o *Order) error
	Get(id ID) (*Order, error)
	GetByProjectID(p ProjectID) (*Order, error)
}

// MemoryStore keeps orders in process. Safe for concurrent use at the map
// level; per-order mutation is still single-writer.
type MemoryStore struct {
	mu        sync.RWMutex
	orders    map[ID]*Order
	byProject map[ProjectID]ID

	seqMu     sync.Mutex
	daily     map[string]int
	orderSeq  atomic.Int64
}

// NewMemoryStore returns an empty store. Order numbers start in the
// special-order range so they never collide with POS receipts.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		orders:    make(map[ID]*Order),
		byProject: make(map[ProjectID]ID),
		daily:     make(map[string]int),
	}
	s.orderSeq.Store(3000000000)
	return s
}

func (s *MemoryStore) Save(o *Order) error {
	if o == nil {
		return fmt.Errorf("nil order")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = o
	if o.ProjectID != "" {
		s.byProject[o.ProjectID] = o.ID
	}
	return nil
}

func (s *MemoryStore) Get(id ID) (*Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, ErrOrderNotFound)
	}
	return o, nil
}

func (s *MemoryStore) GetByProjectID(p ProjectID) (*Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byProject[p]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", p, ErrOrderNotFound)
	}
	return s.orders[id], nil
}

// NextProjectSequence hands out the next daily per-store sequence used to
// mint project ids.
func (s *MemoryStore) NextProjectSequence(storeID string, date time.Time) int {
	s.seqMu.Lock()
	defer s.seqMu.Unlock()
	key := storeID + date.Format("060102")
	s.daily[key]++
	return s.daily[key]
}

// NextOrderNumber hands out the next global order number.
func (s *MemoryStore) NextOrderNumber() int64 {
	return s.orderSeq.Add(1)
}
