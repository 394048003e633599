package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgfc/som/internal/money"
)

func TestEffectivePricePrecedence(t *testing.T) {
	p := Product{MarketPrice: money.New(300), ListPrice: money.New(200), POSPrice: money.New(100)}
	assert.Equal(t, money.New(100), p.EffectivePrice())

	p.POSPrice = money.Zero
	assert.Equal(t, money.New(200), p.EffectivePrice())

	p.ListPrice = money.Zero
	assert.Equal(t, money.New(300), p.EffectivePrice())
}

func TestSellable(t *testing.T) {
	p := Product{AllowSales: true}
	assert.True(t, p.Sellable())
	assert.False(t, Product{AllowSales: true, HoldOrder: true}.Sellable())
	assert.False(t, Product{AllowSales: true, SystemSKU: true}.Sellable())
	assert.False(t, Product{}.Sellable())
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	s.Put(Product{SKU: "B001", TaxType: money.TaxTaxable})
	s.Put(Product{SKU: "A001", TaxType: money.TaxFree})

	got, ok := s.Get("A001")
	require.True(t, ok)
	assert.Equal(t, money.TaxFree, got.TaxType)

	_, ok = s.Get("C001")
	assert.False(t, ok)

	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, "A001", all[0].SKU)
}
