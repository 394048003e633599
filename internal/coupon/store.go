package coupon

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tgfc/som/internal/money"
)

// Store resolves coupons and tracks their redemption quota.
type Store interface {
	Find(id string) (Coupon, bool)
	Redeem(id string) error
	Restore(id string) error
}

// MemoryStore keeps coupons in process.
type MemoryStore struct {
	mu      sync.Mutex
	coupons map[string]*Coupon
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{coupons: make(map[string]*Coupon)}
}

// NewMemoryStoreWithSamples returns a store seeded with the standard demo
// coupons: spend 1000 save 100, 10% off capped at 500, free installation.
func NewMemoryStoreWithSamples(now time.Time) *MemoryStore {
	s := NewMemoryStore()
	from, to := now.AddDate(0, 0, -30), now.AddDate(0, 0, 30)
	s.Put(FixedAmount("FIXED100", "Spend 1000 save 100", money.New(100), money.New(1000), from, to))
	s.Put(Percentage("PERCENT10", "10 percent off", decimal.RequireFromString("0.10"), money.New(500), from, to))
	s.Put(FreeInstallation("FREEINSTALL", "Free installation", from, to))
	return s
}

// Put inserts or replaces a coupon.
func (s *MemoryStore) Put(c Coupon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coupons[c.ID] = &c
}

func (s *MemoryStore) Find(id string) (Coupon, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.coupons[id]
	if !ok {
		return Coupon{}, false
	}
	return *c, true
}

// Redeem consumes one use of the coupon's quota.
func (s *MemoryStore) Redeem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.coupons[id]
	if !ok {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if c.Remaining <= 0 {
		return fmt.Errorf("%s: %w", id, ErrExhausted)
	}
	c.Remaining--
	return nil
}

// Restore returns one use to the coupon's quota, for coupon removal.
func (s *MemoryStore) Restore(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.coupons[id]
	if !ok {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	c.Remaining++
	return nil
}
