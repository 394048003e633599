package pricing

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgfc/som/internal/catalog"
	"github.com/tgfc/som/internal/member"
	"github.com/tgfc/som/internal/money"
	"github.com/tgfc/som/internal/order"
	"github.com/tgfc/som/internal/worktype"
)

var engineNow = time.Date(2024, 12, 18, 10, 0, 0, 0, time.UTC)

func testEngine(products catalog.Provider) *Engine {
	e := NewEngine(testCalculator(products), worktype.NewMemoryCatalog(), zerolog.Nop())
	e.Now = func() time.Time { return engineNow }
	return e
}

func draftOrder(t *testing.T, customer member.Customer) *order.Order {
	t.Helper()
	pid, err := order.NewProjectID("12345", engineNow, 1)
	require.NoError(t, err)
	o, err := order.New(pid, customer, order.Address{}, "12345", "01", "op")
	require.NoError(t, err)
	return o
}

func TestCalculateSingleLineMemberDiscount(t *testing.T) {
	e := testEngine(nil)
	o := draftOrder(t, customerOfType(t, member.Discounting))
	_, err := o.AddLine("A001", "a", 1, money.New(1000), money.TaxZeroRated, order.DeliveryManaged, order.StockInStock)
	require.NoError(t, err)

	calc := e.Calculate(o)

	assert.Equal(t, money.New(1000), calc.ProductTotal)
	assert.Equal(t, money.New(-50), calc.MemberDiscount)
	assert.Equal(t, money.Zero, calc.InstallationTotal)
	assert.Equal(t, money.Zero, calc.DeliveryTotal)
	assert.Equal(t, money.Zero, calc.DirectShipmentTotal)
	assert.Equal(t, money.New(950), calc.GrandTotal)
	assert.Equal(t, engineNow, calc.CalculatedAt)
	require.Len(t, calc.MemberDiscounts, 1)
	assert.Empty(t, calc.Warnings)
}

func TestCalculateAggregatesAllComponents(t *testing.T) {
	e := testEngine(nil)
	plain, err := member.NewCustomer("M002", "Chen", "0911", "")
	require.NoError(t, err)
	o := draftOrder(t, plain)

	l1, err := o.AddLine("A001", "a", 1, money.New(2000), money.TaxZeroRated, order.DeliveryManaged, order.StockInStock)
	require.NoError(t, err)
	require.NoError(t, o.AttachInstallation(l1.ID, order.InstallationDetail{
		WorkTypeID: "0002", WorkTypeName: "Air conditioner installation",
		ServiceTypes: []string{"I"}, Cost: money.New(1600),
	}))
	_, err = o.AttachDelivery(l1.ID, order.DeliveryDetail{Method: order.DeliveryManaged, Cost: money.New(200)})
	require.NoError(t, err)

	l2, err := o.AddLine("A002", "b", 2, money.New(500), money.TaxZeroRated, order.DeliveryManaged, order.StockInStock)
	require.NoError(t, err)

	// coupon and bonus discounts arrive pre-allocated on the lines
	l1.CouponDisc = money.New(100)
	l2.BonusDisc = money.New(50)

	calc := e.Calculate(o)

	assert.Equal(t, money.New(3000), calc.ProductTotal)
	assert.Equal(t, money.New(1600), calc.InstallationTotal)
	assert.Equal(t, money.New(200), calc.DeliveryTotal)
	assert.Equal(t, money.Zero, calc.MemberDiscount)
	assert.Equal(t, money.New(100), calc.CouponDiscount)
	assert.Equal(t, money.New(50), calc.BonusDiscount)
	// 3000 + 1600 + 200 - 100 - 50
	assert.Equal(t, money.New(4650), calc.GrandTotal)
}

func TestCalculateMinimumWageWarning(t *testing.T) {
	e := testEngine(nil)
	o := draftOrder(t, customerOfType(t, member.Discounting))

	l, err := o.AddLine("A001", "a", 1, money.New(2000), money.TaxZeroRated, order.DeliveryManaged, order.StockInStock)
	require.NoError(t, err)
	// air conditioner install floor is 1500
	require.NoError(t, o.AttachInstallation(l.ID, order.InstallationDetail{
		WorkTypeID: "0002", WorkTypeName: "Air conditioner installation",
		ServiceTypes: []string{"I"}, Cost: money.New(1200),
	}))

	calc := e.Calculate(o)
	require.Len(t, calc.Warnings, 1)
	assert.Contains(t, calc.Warnings[0], "minimum wage")

	// warnings never zero out the figures
	assert.Equal(t, money.New(1200), calc.InstallationTotal)
}

func TestCalculateApportionsOverrides(t *testing.T) {
	e := testEngine(nil)
	plain, err := member.NewCustomer("M002", "Chen", "0911", "")
	require.NoError(t, err)
	o := draftOrder(t, plain)

	var lineIDs []order.LineID
	for _, sku := range []string{"A001", "A002", "A003"} {
		l, err := o.AddLine(sku, sku, 1, money.New(1000), money.TaxZeroRated, order.DeliveryManaged, order.StockInStock)
		require.NoError(t, err)
		require.NoError(t, o.AttachInstallation(l.ID, order.InstallationDetail{
			WorkTypeID: "0001", WorkTypeName: "Standard installation",
			ServiceTypes: []string{"I"}, Cost: money.New(600),
		}))
		lineIDs = append(lineIDs, l.ID)
	}

	// catalog charge 1800 authorized down to 1700: delta +100 over 3 lines
	require.NoError(t, o.AuthorizeWorkTypePrice(order.WorkTypeOverride{
		Kind: order.OverrideInstallation, WorkTypeID: "0001",
		Original: money.New(1800), Actual: money.New(1700), AuthorizedBy: "mgr-1",
	}))

	calc := e.Calculate(o)

	require.Len(t, calc.Apportionments, 1)
	app := calc.Apportionments[0]
	assert.Equal(t, money.New(100), app.TotalDelta)
	require.Len(t, app.PerLine, 3)
	assert.Equal(t, money.New(34), app.PerLine[0].Amount)
	assert.Equal(t, money.New(33), app.PerLine[1].Amount)
	assert.Equal(t, money.New(33), app.PerLine[2].Amount)
	assert.Equal(t, lineIDs[0], app.PerLine[0].LineID)

	// installation total drops by the authorized delta
	assert.Equal(t, money.New(1700), calc.InstallationTotal)
	assert.Equal(t, money.New(4700), calc.GrandTotal)
}

func TestCalculateOverrideWithNoMatchingLineWarns(t *testing.T) {
	e := testEngine(nil)
	plain, err := member.NewCustomer("M002", "Chen", "0911", "")
	require.NoError(t, err)
	o := draftOrder(t, plain)
	_, err = o.AddLine("A001", "a", 1, money.New(1000), money.TaxZeroRated, order.DeliveryManaged, order.StockInStock)
	require.NoError(t, err)

	require.NoError(t, o.AuthorizeWorkTypePrice(order.WorkTypeOverride{
		Kind: order.OverrideInstallation, WorkTypeID: "0004",
		Original: money.New(300), Actual: money.New(200), AuthorizedBy: "mgr-1",
	}))

	calc := e.Calculate(o)
	require.Len(t, calc.Warnings, 1)
	assert.Contains(t, calc.Warnings[0], "matches no line")
	assert.Empty(t, calc.Apportionments)
	assert.Equal(t, money.Zero, calc.InstallationTotal)
}

func TestCalculateTax(t *testing.T) {
	e := testEngine(nil)
	plain, err := member.NewCustomer("M002", "Chen", "0911", "")
	require.NoError(t, err)
	o := draftOrder(t, plain)
	_, err = o.AddLine("A001", "a", 1, money.New(1050), money.TaxTaxable, order.DeliveryManaged, order.StockInStock)
	require.NoError(t, err)
	_, err = o.AddLine("A002", "b", 1, money.New(500), money.TaxFree, order.DeliveryManaged, order.StockInStock)
	require.NoError(t, err)

	calc := e.Calculate(o)
	assert.Equal(t, money.New(50), calc.TaxAmount)
	assert.Equal(t, money.New(1550), calc.GrandTotal)
}
