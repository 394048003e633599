package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tgfc/som/internal/money"
)

// LineID identifies a line within its order.
type LineID string

// NewLineID generates a fresh line id.
func NewLineID() LineID { return LineID(uuid.NewString()) }

// Line is one product row of an order: quantity, pricing, the delivery and
// installation configuration, and the three independently-tracked
// discounts written onto it by the coupon, bonus and pricing flows.
type Line struct {
	ID       LineID
	SerialNo int

	SKU     string
	SKUName string

	Quantity        int
	UnitPrice       money.Money
	ActualUnitPrice money.Money
	TaxType         money.TaxType

	DeliveryMethod DeliveryMethod
	StockMethod    StockMethod
	DeliveryDate   time.Time
	WorkTypeID     string

	Installation     InstallationDetail
	Delivery         DeliveryDetail
	InstallationCost money.Money
	DeliveryCost     money.Money

	MemberDisc money.Money
	CouponDisc money.Money
	BonusDisc  money.Money

	PriceOverridden bool
	FreeInstall     bool
}

// newLine validates and builds a line. Incompatible delivery/stock pairs
// are rejected here; the attachment paths correct them before reaching
// this constructor.
func newLine(serialNo int, sku, skuName string, quantity int, unitPrice money.Money,
	taxType money.TaxType, deliveryMethod DeliveryMethod, stockMethod StockMethod) (*Line, error) {

	if sku == "" {
		return nil, fmt.Errorf("line requires a sku")
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("line quantity must be positive, got %d", quantity)
	}
	if !deliveryMethod.CompatibleWith(stockMethod) {
		return nil, fmt.Errorf("%w: delivery %s with stock %s", ErrIncompatibleMethods, deliveryMethod, stockMethod)
	}

	return &Line{
		ID:              NewLineID(),
		SerialNo:        serialNo,
		SKU:             sku,
		SKUName:         skuName,
		Quantity:        quantity,
		UnitPrice:       unitPrice,
		ActualUnitPrice: unitPrice,
		TaxType:         taxType,
		DeliveryMethod:  deliveryMethod,
		StockMethod:     stockMethod,
		Installation:    NoInstallation(),
		Delivery:        DefaultDelivery(),
	}, nil
}

// Subtotal is actual unit price times quantity.
func (l *Line) Subtotal() money.Money { return l.ActualUnitPrice.MulInt(l.Quantity) }

// OriginalSubtotal is list unit price times quantity.
func (l *Line) OriginalSubtotal() money.Money { return l.UnitPrice.MulInt(l.Quantity) }

// DiscountAmount is how far the actual subtotal sits below list.
func (l *Line) DiscountAmount() money.Money {
	return l.OriginalSubtotal().Sub(l.Subtotal())
}

// TaxAmount is the tax embedded in the subtotal.
func (l *Line) TaxAmount() money.Money { return l.Subtotal().Tax(l.TaxType) }

// TotalDiscount sums the three discount channels.
func (l *Line) TotalDiscount() money.Money {
	return l.MemberDisc.Add(l.CouponDisc).Add(l.BonusDisc)
}

// HasInstallation reports whether installation services are configured.
func (l *Line) HasInstallation() bool { return l.Installation.HasInstallation() }

// IsDirectShipment reports whether the vendor ships this line.
func (l *Line) IsDirectShipment() bool { return l.DeliveryMethod == DeliveryDirect }

func (l *Line) updateQuantity(quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("line quantity must be positive, got %d", quantity)
	}
	l.Quantity = quantity
	return nil
}

func (l *Line) updateActualUnitPrice(price money.Money) {
	if price != l.UnitPrice {
		l.PriceOverridden = true
	}
	l.ActualUnitPrice = price
}

// updateMethods applies a delivery/stock pair together, auto-correcting an
// incompatible stock choice in favor of the delivery method.
func (l *Line) updateMethods(d DeliveryMethod, s StockMethod) (corrected bool) {
	s, corrected = CorrectStockMethod(d, s)
	l.DeliveryMethod = d
	l.StockMethod = s
	return corrected
}

// attachInstallation replaces the installation configuration.
func (l *Line) attachInstallation(detail InstallationDetail) {
	l.Installation = detail
	l.WorkTypeID = detail.WorkTypeID
	if detail.HasInstallation() {
		l.InstallationCost = detail.TotalCost()
	} else {
		l.InstallationCost = money.Zero
	}
}

// attachDelivery replaces the transport configuration, auto-correcting the
// stock method when the new transport method conflicts with it.
func (l *Line) attachDelivery(detail DeliveryDetail) (corrected bool) {
	l.Delivery = detail
	corrected = l.updateMethods(detail.Method, l.StockMethod)
	l.DeliveryCost = detail.Cost
	if !detail.ScheduledDate.IsZero() {
		l.DeliveryDate = detail.ScheduledDate
	}
	return corrected
}
