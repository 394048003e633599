// Package catalog resolves product records for order lines. Upstream
// eligibility rules decide whether a SKU may be sold at all; this package
// only serves the price, tax and cost fields pricing needs.
package catalog

import (
	"sort"
	"sync"

	"github.com/tgfc/som/internal/money"
)

// Product is the per-SKU record pricing reads.
type Product struct {
	SKU          string
	Name         string
	Category     string
	TaxType      money.TaxType
	MarketPrice  money.Money
	ListPrice    money.Money
	POSPrice     money.Money
	Cost         money.Money
	AllowSales   bool
	HoldOrder    bool
	SystemSKU    bool
	FreeDelivery bool
	AllowDirect  bool
	AllowHome    bool
}

// Sellable reports whether the SKU may appear on a new line.
func (p Product) Sellable() bool {
	return p.AllowSales && !p.HoldOrder && !p.SystemSKU
}

// EffectivePrice picks the unit price in precedence order, POS first.
func (p Product) EffectivePrice() money.Money {
	if p.POSPrice.IsPositive() {
		return p.POSPrice
	}
	if p.ListPrice.IsPositive() {
		return p.ListPrice
	}
	return p.MarketPrice
}

// Provider resolves products by SKU.
type Provider interface {
	Get(sku string) (Product, bool)
}

// MemoryStore is an in-process product table guarded for concurrent reads
// and test-time writes.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[string]Product
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{products: make(map[string]Product)}
}

func (s *MemoryStore) Put(p Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.SKU] = p
}

func (s *MemoryStore) Get(sku string) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[sku]
	return p, ok
}

func (s *MemoryStore) All() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out
}
