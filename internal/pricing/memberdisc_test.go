package pricing

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgfc/som/internal/catalog"
	"github.com/tgfc/som/internal/member"
	"github.com/tgfc/som/internal/money"
	"github.com/tgfc/som/internal/order"
)

func testCalculator(products catalog.Provider) *MemberDiscountCalculator {
	return NewMemberDiscountCalculator(member.NewStaticParams(nil), products, zerolog.Nop())
}

func customerOfType(t *testing.T, dt member.DiscountType) member.Customer {
	t.Helper()
	c, err := member.NewCustomer("M001", "Lin", "0911222333", dt)
	require.NoError(t, err)
	return c
}

func orderWithLine(t *testing.T, sku string, qty int, price int64) (*order.Order, *order.Line) {
	t.Helper()
	pid, err := order.NewProjectID("12345", time.Date(2024, 12, 18, 0, 0, 0, 0, time.UTC), 1)
	require.NoError(t, err)
	o, err := order.New(pid, customerOfType(t, member.Discounting), order.Address{}, "12345", "01", "op")
	require.NoError(t, err)
	l, err := o.AddLine(sku, sku, qty, money.New(price), money.TaxTaxable, order.DeliveryManaged, order.StockInStock)
	require.NoError(t, err)
	return o, l
}

func TestDiscountingFormula(t *testing.T) {
	calc := testCalculator(nil)
	o, _ := orderWithLine(t, "A001", 1, 1000)

	results, warnings := calc.CalculateAll(customerOfType(t, member.Discounting), o.Lines())
	require.Len(t, results, 1)
	assert.Empty(t, warnings)

	// 1000 * 0.95 = 950, delta -50
	assert.Equal(t, money.New(1000), results[0].OriginalPrice)
	assert.Equal(t, money.New(950), results[0].DiscountedPrice)
	assert.Equal(t, money.New(-50), results[0].Delta)
	assert.False(t, results[0].Anomalous)
	assert.Equal(t, money.New(-50), TotalDelta(results))
}

func TestDownMarginAndSpecialRates(t *testing.T) {
	calc := testCalculator(nil)
	o, _ := orderWithLine(t, "A001", 1, 1000)

	results, _ := calc.CalculateAll(customerOfType(t, member.DownMargin), o.Lines())
	require.Len(t, results, 1)
	assert.Equal(t, money.New(-100), results[0].Delta)

	results, _ = calc.CalculateAll(customerOfType(t, member.Special), o.Lines())
	require.Len(t, results, 1)
	assert.Equal(t, money.New(-150), results[0].Delta)
}

func TestHalfUpRounding(t *testing.T) {
	calc := testCalculator(nil)
	// 999 * 0.95 = 949.05 -> 949, delta -50
	o, _ := orderWithLine(t, "A001", 1, 999)
	results, _ := calc.CalculateAll(customerOfType(t, member.Discounting), o.Lines())
	require.Len(t, results, 1)
	assert.Equal(t, money.New(949), results[0].DiscountedPrice)
	assert.Equal(t, money.New(-50), results[0].Delta)
}

func TestCostMarkupUsesCatalogCost(t *testing.T) {
	products := catalog.NewMemoryStore()
	products.Put(catalog.Product{SKU: "A001", Cost: money.New(600)})
	calc := testCalculator(products)

	o, _ := orderWithLine(t, "A001", 2, 1000)
	results, warnings := calc.CalculateAll(customerOfType(t, member.CostMarkup), o.Lines())
	require.Len(t, results, 1)
	assert.Empty(t, warnings)

	// cost 600*2 = 1200, * 1.05 = 1260, delta -740 against 2000
	assert.Equal(t, money.New(1260), results[0].DiscountedPrice)
	assert.Equal(t, money.New(-740), results[0].Delta)
}

func TestCostMarkupFallbackEstimatesCost(t *testing.T) {
	calc := testCalculator(catalog.NewMemoryStore())

	o, _ := orderWithLine(t, "A001", 1, 1000)
	results, warnings := calc.CalculateAll(customerOfType(t, member.CostMarkup), o.Lines())
	require.Len(t, results, 1)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "no cost on file")

	// estimated cost floor(1000*0.7)=700, * 1.05 = 735
	assert.Equal(t, money.New(735), results[0].DiscountedPrice)
	assert.Equal(t, money.New(-265), results[0].Delta)
}

func TestCostMarkupAnomalyForcedToZero(t *testing.T) {
	products := catalog.NewMemoryStore()
	products.Put(catalog.Product{SKU: "A001", Cost: money.New(1100)})
	calc := testCalculator(products)

	// cost 1100 * 1.05 = 1155 > original 1000: anomaly
	o, _ := orderWithLine(t, "A001", 1, 1000)
	results, warnings := calc.CalculateAll(customerOfType(t, member.CostMarkup), o.Lines())
	require.Len(t, results, 1)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "forced to zero")

	assert.True(t, results[0].Anomalous)
	assert.Equal(t, money.Zero, results[0].Delta)
	assert.Equal(t, results[0].OriginalPrice, results[0].DiscountedPrice)
	assert.Equal(t, money.Zero, TotalDelta(results))
}

func TestNoDiscountForUnclassifiedOrTempCard(t *testing.T) {
	calc := testCalculator(nil)
	o, _ := orderWithLine(t, "A001", 1, 1000)

	plain, err := member.NewCustomer("M002", "Chen", "0911", "")
	require.NoError(t, err)
	results, warnings := calc.CalculateAll(plain, o.Lines())
	assert.Nil(t, results)
	assert.Nil(t, warnings)

	temp, err := member.NewTempCardCustomer("Wang", "0955")
	require.NoError(t, err)
	results, _ = calc.CalculateAll(temp, o.Lines())
	assert.Nil(t, results)
}

func TestCustomRateOverride(t *testing.T) {
	params := member.NewStaticParams(map[member.DiscountType]member.DiscountParams{
		member.Discounting: {Type: member.Discounting, Rate: decimal.RequireFromString("0.80")},
	})
	calc := NewMemberDiscountCalculator(params, nil, zerolog.Nop())

	o, _ := orderWithLine(t, "A001", 1, 1000)
	results, _ := calc.CalculateAll(customerOfType(t, member.Discounting), o.Lines())
	require.Len(t, results, 1)
	assert.Equal(t, money.New(-200), results[0].Delta)
}
