package order

import (
	"time"

	"github.com/tgfc/som/internal/money"
)

// MemberDiscResult is the per-line outcome of member discount calculation.
// Delta is discounted minus original and is expected non-positive; a
// positive delta is an anomaly the calculator forces to zero.
type MemberDiscResult struct {
	SKU             string
	TypeCode        string
	OriginalPrice   money.Money
	DiscountedPrice money.Money
	Delta           money.Money
	Anomalous       bool
}

// OverrideKind says which charge an authorized price override targets.
type OverrideKind string

const (
	OverrideInstallation OverrideKind = "INSTALL"
	OverrideDelivery     OverrideKind = "DELIVERY"
)

// WorkTypeOverride is an authorized deviation from the catalog price for
// one work type's installation or delivery charge. The delta between
// original and actual is apportioned across the lines sharing the work
// type at calculation time.
type WorkTypeOverride struct {
	Kind         OverrideKind
	WorkTypeID   string
	Original     money.Money
	Actual       money.Money
	AuthorizedBy string
}

// Delta is original minus actual; positive means the charge was reduced.
func (o WorkTypeOverride) Delta() money.Money { return o.Original.Sub(o.Actual) }

// Apportionment is the distribution record of one override delta.
type Apportionment struct {
	Kind         OverrideKind
	WorkTypeID   string
	TotalDelta   money.Money
	PerLine      []LineDelta
	AuthorizedBy string
}

// LineDelta is one line's share of an apportioned delta.
type LineDelta struct {
	LineID   LineID
	SerialNo int
	Amount   money.Money
}

// Calculation is the immutable pricing snapshot: seven component totals,
// tax, grand total, the per-line member discount trail and any warnings.
// Replaced wholesale on each pricing run.
type Calculation struct {
	ProductTotal        money.Money
	InstallationTotal   money.Money
	DeliveryTotal       money.Money
	MemberDiscount      money.Money
	DirectShipmentTotal money.Money
	CouponDiscount      money.Money
	BonusDiscount       money.Money
	TaxAmount           money.Money
	GrandTotal          money.Money
	MemberDiscounts     []MemberDiscResult
	Apportionments      []Apportionment
	Warnings            []string
	CalculatedAt        time.Time
}

// EmptyCalculation is the snapshot before any pricing run.
func EmptyCalculation(now time.Time) Calculation {
	return Calculation{CalculatedAt: now}
}

// HasWarnings reports whether the run collected any warnings.
func (c Calculation) HasWarnings() bool { return len(c.Warnings) > 0 }

// TotalDiscount sums the three discount components.
func (c Calculation) TotalDiscount() money.Money {
	return c.MemberDiscount.Add(c.CouponDiscount).Add(c.BonusDiscount)
}

// Empty reports whether a pricing run produced this snapshot.
func (c Calculation) Empty() bool {
	return c.GrandTotal.IsZero() && c.ProductTotal.IsZero() && len(c.MemberDiscounts) == 0
}
