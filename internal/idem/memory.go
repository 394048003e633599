package idem

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type record struct {
	orderID   string
	expiresAt time.Time
}

// MemoryGuard keeps records in a sync.Map so lookups on unrelated keys
// never contend, and the sweep never blocks them.
type MemoryGuard struct {
	records sync.Map

	TTL           time.Duration
	SweepInterval time.Duration
	Logger        zerolog.Logger

	Now func() time.Time
}

// NewMemoryGuard returns a guard with the standard window.
func NewMemoryGuard(logger zerolog.Logger) *MemoryGuard {
	return &MemoryGuard{
		TTL:           DefaultTTL,
		SweepInterval: DefaultSweepInterval,
		Logger:        logger,
		Now:           time.Now,
	}
}

// CheckDuplicate reports whether the key was recorded inside the window.
// An expired record counts as absent and is removed on sight.
func (g *MemoryGuard) CheckDuplicate(_ context.Context, key string) (string, bool, error) {
	hashed := hashKey(key)
	v, ok := g.records.Load(hashed)
	if !ok {
		return "", false, nil
	}
	rec := v.(record)
	if g.Now().After(rec.expiresAt) {
		g.records.Delete(hashed)
		return "", false, nil
	}
	return rec.orderID, true, nil
}

// Record inserts or refreshes the key with a fresh expiry.
func (g *MemoryGuard) Record(_ context.Context, key, orderID string) error {
	g.records.Store(hashKey(key), record{orderID: orderID, expiresAt: g.Now().Add(g.TTL)})
	return nil
}

// Run sweeps expired records until the context ends.
func (g *MemoryGuard) Run(ctx context.Context) error {
	ticker := time.NewTicker(g.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			g.sweep()
		}
	}
}

func (g *MemoryGuard) sweep() {
	now := g.Now()
	removed := 0
	g.records.Range(func(key, v any) bool {
		if now.After(v.(record).expiresAt) {
			g.records.Delete(key)
			removed++
		}
		return true
	})
	if removed > 0 {
		g.Logger.Debug().Int("removed", removed).Msg("idempotency sweep")
	}
}
