package checkout_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgfc/som/internal/bonus"
	"github.com/tgfc/som/internal/catalog"
	"github.com/tgfc/som/internal/checkout"
	"github.com/tgfc/som/internal/common"
	"github.com/tgfc/som/internal/coupon"
	"github.com/tgfc/som/internal/idem"
	"github.com/tgfc/som/internal/member"
	"github.com/tgfc/som/internal/money"
	"github.com/tgfc/som/internal/order"
	"github.com/tgfc/som/internal/pricing"
	"github.com/tgfc/som/internal/worktype"
)

func newTestService(t *testing.T) *checkout.Service {
	t.Helper()
	logger := zerolog.Nop()

	products := catalog.NewMemoryStore()
	products.Put(catalog.Product{
		SKU: "SKU001", Name: "Refrigerator", Category: "APPLIANCE",
		TaxType: money.TaxTaxable, ListPrice: money.New(30000), Cost: money.New(20000),
		AllowSales: true, AllowHome: true,
	})
	products.Put(catalog.Product{
		SKU: "SKU002", Name: "Air Conditioner", Category: "AC",
		TaxType: money.TaxTaxable, ListPrice: money.New(45000),
		AllowSales: true, AllowDirect: true,
	})
	products.Put(catalog.Product{
		SKU: "SKUHOLD", Name: "Held Item", TaxType: money.TaxTaxable,
		ListPrice: money.New(1000), AllowSales: true, HoldOrder: true,
	})

	workTypes := worktype.NewMemoryCatalog()
	store := order.NewMemoryStore()
	members := pricing.NewMemberDiscountCalculator(member.NewStaticParams(nil), products, logger)

	now := time.Date(2024, 12, 18, 10, 0, 0, 0, time.UTC)
	couponStore := coupon.NewMemoryStoreWithSamples(now)
	couponEngine := coupon.NewEngine(couponStore, logger)
	couponEngine.Now = func() time.Time { return now }

	return &checkout.Service{
		Orders:    store,
		Seq:       store,
		Products:  products,
		WorkTypes: workTypes,
		Engine:    pricing.NewEngine(members, workTypes, logger),
		Coupons:   couponEngine,
		Bonus:     bonus.NewService(bonus.NewMemoryBalancesWithSamples(), logger),
		Guard:     idem.NewMemoryGuard(logger),
		Logger:    logger,
		StoreID:   "12345",
		Now:       func() time.Time { return now },
	}
}

func createOrder(t *testing.T, svc *checkout.Service, customer checkout.CustomerInput) *order.Order {
	t.Helper()
	o, err := svc.CreateOrder(context.Background(), "", checkout.CreateOrderInput{
		Customer:  customer,
		CreatedBy: "clerk-01",
	})
	require.NoError(t, err)
	return o
}

func regularMember() checkout.CustomerInput {
	return checkout.CustomerInput{MemberID: "K00123", Name: "Lin", Phone: "0911222333", DiscountType: "0"}
}

func TestCreateOrderMintsProjectID(t *testing.T) {
	svc := newTestService(t)
	o := createOrder(t, svc, regularMember())

	require.Len(t, o.ProjectID.String(), 16)
	assert.Equal(t, "12345", o.ProjectID.StoreID())
	assert.Equal(t, order.StatusDraft, o.Status)

	second := createOrder(t, svc, regularMember())
	assert.NotEqual(t, o.ProjectID, second.ProjectID)
}

func TestCreateOrderDuplicateSubmission(t *testing.T) {
	svc := newTestService(t)
	in := checkout.CreateOrderInput{Customer: regularMember(), CreatedBy: "clerk-01"}

	first, err := svc.CreateOrder(context.Background(), "req-abc", in)
	require.NoError(t, err)

	_, err = svc.CreateOrder(context.Background(), "req-abc", in)
	require.Error(t, err)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "DUPLICATE_SUBMISSION", appErr.Code)
	assert.Equal(t, 409, appErr.HTTPStatus)
	assert.Equal(t, map[string]any{"orderId": string(first.ID)}, appErr.Details)
}

func TestAddLineResolvesCatalog(t *testing.T) {
	svc := newTestService(t)
	o := createOrder(t, svc, regularMember())

	_, line, err := svc.AddLine(context.Background(), string(o.ID), checkout.AddLineInput{
		SKU: "SKU001", Quantity: 2, DeliveryMethod: "N", StockMethod: "X",
	})
	require.NoError(t, err)
	assert.Equal(t, "Refrigerator", line.SKUName)
	assert.EqualValues(t, 30000, line.UnitPrice.Int64())
	assert.EqualValues(t, 60000, line.Subtotal().Int64())

	_, _, err = svc.AddLine(context.Background(), string(o.ID), checkout.AddLineInput{
		SKU: "NOPE", Quantity: 1, DeliveryMethod: "N", StockMethod: "X",
	})
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.HTTPStatus)

	_, _, err = svc.AddLine(context.Background(), string(o.ID), checkout.AddLineInput{
		SKU: "SKUHOLD", Quantity: 1, DeliveryMethod: "N", StockMethod: "X",
	})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SKU_NOT_SELLABLE", appErr.Code)

	// direct shipment requires catalog permission
	_, _, err = svc.AddLine(context.Background(), string(o.ID), checkout.AddLineInput{
		SKU: "SKU001", Quantity: 1, DeliveryMethod: "V", StockMethod: "Y",
	})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "DIRECT_NOT_ALLOWED", appErr.Code)
}

func TestAttachInstallationAndCalculate(t *testing.T) {
	svc := newTestService(t)
	o := createOrder(t, svc, regularMember())
	ctx := context.Background()

	_, line, err := svc.AddLine(ctx, string(o.ID), checkout.AddLineInput{
		SKU: "SKU001", Quantity: 1, DeliveryMethod: "N", StockMethod: "X",
	})
	require.NoError(t, err)

	_, err = svc.AttachInstallation(ctx, string(o.ID), string(line.ID), checkout.InstallationInput{
		WorkTypeID: "0003", ServiceTypes: []string{"INSTALL"},
	})
	require.NoError(t, err)

	got, err := svc.Calculate(ctx, string(o.ID))
	require.NoError(t, err)
	calc := got.Calculation
	require.False(t, calc.Empty())
	// 30000 * 0.82 floor for installation cost
	assert.EqualValues(t, 24600, calc.InstallationTotal.Int64())
	assert.EqualValues(t, 30000, calc.ProductTotal.Int64())
	// Discounting tier: 30000 * 0.95 - 30000
	assert.EqualValues(t, -1500, calc.MemberDiscount.Int64())
	assert.EqualValues(t, calc.ProductTotal.Int64()+calc.InstallationTotal.Int64()-1500, calc.GrandTotal.Int64())

	// member discount written back onto the line
	assert.EqualValues(t, -1500, got.Lines()[0].MemberDisc.Int64())
}

func TestAttachInstallationRejectsNonManagedDelivery(t *testing.T) {
	svc := newTestService(t)
	o := createOrder(t, svc, regularMember())
	ctx := context.Background()

	_, line, err := svc.AddLine(ctx, string(o.ID), checkout.AddLineInput{
		SKU: "SKU001", Quantity: 1, DeliveryMethod: "D", StockMethod: "X",
	})
	require.NoError(t, err)

	_, err = svc.AttachInstallation(ctx, string(o.ID), string(line.ID), checkout.InstallationInput{
		WorkTypeID: "0001",
	})
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INCOMPATIBLE_METHODS", appErr.Code)
}

func TestAttachDeliveryCorrectsStockMethod(t *testing.T) {
	svc := newTestService(t)
	o := createOrder(t, svc, regularMember())
	ctx := context.Background()

	_, line, err := svc.AddLine(ctx, string(o.ID), checkout.AddLineInput{
		SKU: "SKU002", Quantity: 1, DeliveryMethod: "N", StockMethod: "X",
	})
	require.NoError(t, err)

	// direct shipment forces vendor stock
	got, corrected, err := svc.AttachDelivery(ctx, string(o.ID), string(line.ID), checkout.DeliveryInput{
		Method: "V",
	})
	require.NoError(t, err)
	assert.True(t, corrected)
	assert.Equal(t, order.StockPurchaseOrder, got.Lines()[0].StockMethod)
}

func TestOverrideApportionedOnCalculate(t *testing.T) {
	svc := newTestService(t)
	o := createOrder(t, svc, checkout.CustomerInput{Name: "Walk In", Phone: "0900111222"})
	ctx := context.Background()

	_, line, err := svc.AddLine(ctx, string(o.ID), checkout.AddLineInput{
		SKU: "SKU001", Quantity: 1, DeliveryMethod: "N", StockMethod: "X",
	})
	require.NoError(t, err)
	_, err = svc.AttachInstallation(ctx, string(o.ID), string(line.ID), checkout.InstallationInput{
		WorkTypeID: "0003",
	})
	require.NoError(t, err)

	_, err = svc.AuthorizeOverride(ctx, string(o.ID), checkout.OverrideInput{
		Kind: "INSTALL", WorkTypeID: "0003", Original: 24600, Actual: 20000, AuthorizedBy: "mgr-7",
	})
	require.NoError(t, err)

	got, err := svc.Calculate(ctx, string(o.ID))
	require.NoError(t, err)
	assert.EqualValues(t, 20000, got.Calculation.InstallationTotal.Int64())
	require.Len(t, got.Calculation.Apportionments, 1)
	assert.EqualValues(t, 4600, got.Calculation.Apportionments[0].TotalDelta.Int64())
}

func TestCouponApplyAndRemove(t *testing.T) {
	svc := newTestService(t)
	o := createOrder(t, svc, checkout.CustomerInput{Name: "Walk In", Phone: "0900111222"})
	ctx := context.Background()

	_, _, err := svc.AddLine(ctx, string(o.ID), checkout.AddLineInput{
		SKU: "SKU001", Quantity: 1, DeliveryMethod: "N", StockMethod: "X",
	})
	require.NoError(t, err)

	got, result, err := svc.ApplyCoupon(ctx, string(o.ID), "FIXED100")
	require.NoError(t, err)
	assert.EqualValues(t, 100, result.Discount.Int64())
	assert.EqualValues(t, 100, got.Lines()[0].CouponDisc.Int64())
	assert.Equal(t, "FIXED100", got.CouponCode)

	_, _, err = svc.ApplyCoupon(ctx, string(o.ID), "PERCENT10")
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "COUPON_ALREADY_APPLIED", appErr.Code)

	got, err = svc.RemoveCoupon(ctx, string(o.ID))
	require.NoError(t, err)
	assert.True(t, got.Lines()[0].CouponDisc.IsZero())
	assert.Empty(t, got.CouponCode)
}

func TestBonusRedeemAndCancel(t *testing.T) {
	svc := newTestService(t)
	o := createOrder(t, svc, regularMember())
	ctx := context.Background()

	_, _, err := svc.AddLine(ctx, string(o.ID), checkout.AddLineInput{
		SKU: "SKU001", Quantity: 1, DeliveryMethod: "N", StockMethod: "X",
	})
	require.NoError(t, err)

	got, redemption, err := svc.RedeemBonus(ctx, string(o.ID), checkout.BonusRedeemInput{SKU: "SKU001", Points: 500})
	require.NoError(t, err)
	assert.Equal(t, 500, redemption.Points)
	assert.EqualValues(t, 500, got.Lines()[0].BonusDisc.Int64())

	got, points, err := svc.CancelBonus(ctx, string(o.ID), checkout.BonusCancelInput{SKU: "SKU001"})
	require.NoError(t, err)
	assert.Equal(t, 500, points)
	assert.True(t, got.Lines()[0].BonusDisc.IsZero())

	_, _, err = svc.CancelBonus(ctx, string(o.ID), checkout.BonusCancelInput{SKU: "SKU001"})
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOTHING_TO_CANCEL", appErr.Code)
}

func TestBonusPointsTempCard(t *testing.T) {
	svc := newTestService(t)
	o := createOrder(t, svc, checkout.CustomerInput{Name: "Walk In", Phone: "0900111222", TempCard: true})

	_, _, err := svc.AvailablePoints(context.Background(), string(o.ID))
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "TEMP_CARD_NO_BONUS", appErr.Code)
}

func TestSubmitRequiresCalculation(t *testing.T) {
	svc := newTestService(t)
	o := createOrder(t, svc, regularMember())
	ctx := context.Background()

	_, _, err := svc.AddLine(ctx, string(o.ID), checkout.AddLineInput{
		SKU: "SKU001", Quantity: 1, DeliveryMethod: "N", StockMethod: "X",
	})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, string(o.ID))
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CALCULATION_REQUIRED", appErr.Code)

	_, err = svc.Calculate(ctx, string(o.ID))
	require.NoError(t, err)

	got, err := svc.Submit(ctx, string(o.ID))
	require.NoError(t, err)
	assert.Equal(t, order.StatusQuotation, got.Status)
}

func TestGetOrderNotFound(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.GetOrder(context.Background(), "missing")
	require.True(t, errors.Is(err, order.ErrOrderNotFound) || common.IsAppError(err))
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.HTTPStatus)
}
