// Package coupon validates coupons against an order's lines and allocates
// the resulting discount proportionally across the eligible ones. It sees
// lines only through the Item view, so it stays decoupled from the order
// aggregate.
package coupon

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tgfc/som/internal/money"
)

// Kind is the coupon mechanism.
type Kind string

const (
	KindFixedAmount      Kind = "F"
	KindPercentage       Kind = "P"
	KindFreeInstallation Kind = "I"
)

var (
	ErrNotFound        = errors.New("coupon not found")
	ErrNotYetValid     = errors.New("coupon not yet valid")
	ErrExpired         = errors.New("coupon expired")
	ErrExhausted       = errors.New("coupon redemption quota exhausted")
	ErrNoEligibleLines = errors.New("no order line is eligible for the coupon")
	ErrBelowMinimum    = errors.New("eligible subtotal below coupon minimum")
)

// Coupon is one coupon definition.
type Coupon struct {
	ID             string
	Name           string
	Kind           Kind
	Amount         money.Money
	Rate           decimal.Decimal
	MinimumOrder   money.Money
	MaximumDisc    money.Money
	ValidFrom      time.Time
	ValidTo        time.Time
	ApplicableSKUs []string
	ExcludedSKUs   []string
	Remaining      int
}

// InWindow reports whether now falls inside the validity window. Zero
// bounds are open ended.
func (c Coupon) InWindow(now time.Time) bool {
	if !c.ValidFrom.IsZero() && now.Before(c.ValidFrom) {
		return false
	}
	if !c.ValidTo.IsZero() && now.After(c.ValidTo) {
		return false
	}
	return true
}

// AppliesTo reports whether the SKU is in scope. The exclusion list wins;
// an empty applicable list means every SKU qualifies.
func (c Coupon) AppliesTo(sku string) bool {
	for _, excluded := range c.ExcludedSKUs {
		if excluded == sku {
			return false
		}
	}
	if len(c.ApplicableSKUs) == 0 {
		return true
	}
	for _, applicable := range c.ApplicableSKUs {
		if applicable == sku {
			return true
		}
	}
	return false
}

// MeetsMinimum reports whether the eligible subtotal clears the threshold.
func (c Coupon) MeetsMinimum(eligibleTotal money.Money) bool {
	if c.MinimumOrder.IsZero() {
		return true
	}
	return !eligibleTotal.LessThan(c.MinimumOrder)
}

// Discount computes the base discount against the eligible subtotal.
// Percentage discounts floor, then cap at the coupon maximum; every kind
// caps at the eligible subtotal so the payable never goes negative.
func (c Coupon) Discount(eligibleTotal money.Money) money.Money {
	var discount money.Money
	switch c.Kind {
	case KindFixedAmount:
		discount = c.Amount
	case KindPercentage:
		if c.Rate.IsPositive() {
			discount = eligibleTotal.MulRate(c.Rate, money.RoundFloor)
		}
	case KindFreeInstallation:
		// the installation waiver is applied per line, not here
	}

	if !c.MaximumDisc.IsZero() && discount.GreaterThan(c.MaximumDisc) {
		discount = c.MaximumDisc
	}
	if discount.GreaterThan(eligibleTotal) {
		discount = eligibleTotal
	}
	return discount
}

// FixedAmount builds a fixed-amount coupon.
func FixedAmount(id, name string, amount, minimumOrder money.Money, from, to time.Time) Coupon {
	return Coupon{
		ID: id, Name: name, Kind: KindFixedAmount,
		Amount: amount, MinimumOrder: minimumOrder,
		ValidFrom: from, ValidTo: to, Remaining: 1,
	}
}

// Percentage builds a percentage coupon capped at maximumDisc.
func Percentage(id, name string, rate decimal.Decimal, maximumDisc money.Money, from, to time.Time) Coupon {
	return Coupon{
		ID: id, Name: name, Kind: KindPercentage,
		Rate: rate, MaximumDisc: maximumDisc,
		ValidFrom: from, ValidTo: to, Remaining: 1,
	}
}

// FreeInstallation builds an installation-waiver coupon.
func FreeInstallation(id, name string, from, to time.Time) Coupon {
	return Coupon{
		ID: id, Name: name, Kind: KindFreeInstallation,
		ValidFrom: from, ValidTo: to, Remaining: 1,
	}
}

func (c Coupon) String() string {
	return fmt.Sprintf("coupon %s (%s)", c.ID, c.Kind)
}
