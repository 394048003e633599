package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is a signed monetary amount in the store's base unit. Amounts are
// always whole units; negative values are legal and represent discounts.
type Money int64

// Zero is the additive identity.
const Zero Money = 0

// Rounding selects how a fractional intermediate result collapses back to a
// whole-unit amount. There is no default: every rate multiplication names
// its mode at the call site.
type Rounding int

const (
	// RoundHalfUp rounds halves away from zero.
	RoundHalfUp Rounding = iota
	// RoundFloor rounds toward negative infinity.
	RoundFloor
)

// New returns a Money holding the given whole-unit amount.
func New(amount int64) Money { return Money(amount) }

// Int64 returns the raw whole-unit amount.
func (m Money) Int64() int64 { return int64(m) }

// Add returns m + other.
func (m Money) Add(other Money) Money { return m + other }

// Sub returns m - other.
func (m Money) Sub(other Money) Money { return m - other }

// MulInt returns m multiplied by an integer quantity.
func (m Money) MulInt(n int) Money { return m * Money(n) }

// MulRate multiplies by a fractional rate, collapsing the result to a whole
// unit with the given rounding mode.
func (m Money) MulRate(rate decimal.Decimal, mode Rounding) Money {
	product := decimal.NewFromInt(int64(m)).Mul(rate)
	return Money(applyRounding(product, mode))
}

// DivRate divides by a fractional rate, collapsing the result to a whole
// unit with the given rounding mode.
func (m Money) DivRate(rate decimal.Decimal, mode Rounding) Money {
	quotient := decimal.NewFromInt(int64(m)).DivRound(rate, 10)
	return Money(applyRounding(quotient, mode))
}

// Neg returns -m.
func (m Money) Neg() Money { return -m }

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m == 0 }

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool { return m < 0 }

// IsPositive reports whether the amount is above zero.
func (m Money) IsPositive() bool { return m > 0 }

// GreaterThan reports whether m > other.
func (m Money) GreaterThan(other Money) bool { return m > other }

// LessThan reports whether m < other.
func (m Money) LessThan(other Money) bool { return m < other }

// Min returns the smaller of the two amounts.
func Min(a, b Money) Money {
	if a <= b {
		return a
	}
	return b
}

// Max returns the larger of the two amounts.
func Max(a, b Money) Money {
	if a >= b {
		return a
	}
	return b
}

// Abs returns the magnitude of the amount.
func (m Money) Abs() Money {
	if m < 0 {
		return -m
	}
	return m
}

// EnsureNonNegative clamps negative amounts to zero. Used when capping a
// payable figure that must never go below zero.
func (m Money) EnsureNonNegative() Money {
	if m < 0 {
		return Zero
	}
	return m
}

func (m Money) String() string { return fmt.Sprintf("%d", int64(m)) }

func applyRounding(d decimal.Decimal, mode Rounding) int64 {
	switch mode {
	case RoundFloor:
		return d.Floor().IntPart()
	default:
		return d.Round(0).IntPart()
	}
}
