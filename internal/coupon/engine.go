package coupon

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tgfc/som/internal/money"
)

// Item is the engine's view of one order line, in serial order. Results
// refer to items by slice index.
type Item struct {
	SKU              string
	Subtotal         money.Money
	InstallationCost money.Money
	HasInstallation  bool
}

// Result is a validated, fully allocated coupon application.
type Result struct {
	Coupon           Coupon
	Discount         money.Money
	EligibleIndexes  []int
	Allocations      []money.Money
	FreeInstallation bool
}

// TotalAllocated sums the per-item allocations, installation waivers
// included.
func (r Result) TotalAllocated() money.Money {
	total := money.Zero
	for _, a := range r.Allocations {
		total = total.Add(a)
	}
	return total
}

// Engine validates and allocates coupons.
type Engine struct {
	Store  Store
	Logger zerolog.Logger

	Now func() time.Time
}

// NewEngine wires an engine around a coupon store.
func NewEngine(store Store, logger zerolog.Logger) *Engine {
	return &Engine{Store: store, Logger: logger, Now: time.Now}
}

// Validate runs the check chain in order, stopping at the first failure:
// existence, validity window, remaining quantity, eligibility, minimum
// spend on the eligible subset. On success the discount is computed and
// allocated across the eligible items.
func (e *Engine) Validate(couponID string, items []Item) (Result, error) {
	c, ok := e.Store.Find(couponID)
	if !ok {
		return Result{}, fmt.Errorf("%s: %w", couponID, ErrNotFound)
	}

	now := e.Now()
	if !c.InWindow(now) {
		if !c.ValidFrom.IsZero() && now.Before(c.ValidFrom) {
			return Result{}, fmt.Errorf("%s valid from %s: %w", couponID, c.ValidFrom.Format("2006-01-02"), ErrNotYetValid)
		}
		return Result{}, fmt.Errorf("%s valid until %s: %w", couponID, c.ValidTo.Format("2006-01-02"), ErrExpired)
	}

	if c.Remaining <= 0 {
		return Result{}, fmt.Errorf("%s: %w", couponID, ErrExhausted)
	}

	eligible := make([]int, 0, len(items))
	eligibleTotal := money.Zero
	for i, item := range items {
		if c.AppliesTo(item.SKU) {
			eligible = append(eligible, i)
			eligibleTotal = eligibleTotal.Add(item.Subtotal)
		}
	}
	if len(eligible) == 0 {
		return Result{}, fmt.Errorf("%s: %w", couponID, ErrNoEligibleLines)
	}

	if !c.MeetsMinimum(eligibleTotal) {
		return Result{}, fmt.Errorf("%s requires %s, eligible subtotal %s: %w",
			couponID, c.MinimumOrder, eligibleTotal, ErrBelowMinimum)
	}

	discount := c.Discount(eligibleTotal)
	result := Result{
		Coupon:           c,
		Discount:         discount,
		EligibleIndexes:  eligible,
		Allocations:      e.allocate(c, discount, eligible, eligibleTotal, items),
		FreeInstallation: c.Kind == KindFreeInstallation,
	}

	e.Logger.Info().
		Str("coupon_id", couponID).
		Int64("discount", discount.Int64()).
		Int("eligible_lines", len(eligible)).
		Msg("coupon validated")

	return result, nil
}

// allocate distributes the discount proportionally to each eligible item's
// share of the eligible subtotal, floor division for all but the last
// eligible item, which absorbs the remainder. Installation-waiver coupons
// additionally credit each installed item its installation cost.
func (e *Engine) allocate(c Coupon, discount money.Money, eligible []int, eligibleTotal money.Money, items []Item) []money.Money {
	allocations := make([]money.Money, len(items))

	if !discount.IsZero() && !eligibleTotal.IsZero() {
		allocated := money.Zero
		for pos, idx := range eligible {
			var share money.Money
			if pos == len(eligible)-1 {
				share = discount.Sub(allocated)
			} else {
				share = money.New(discount.Int64() * items[idx].Subtotal.Int64() / eligibleTotal.Int64())
			}
			allocations[idx] = share
			allocated = allocated.Add(share)
		}
	}

	if c.Kind == KindFreeInstallation {
		for i, item := range items {
			if item.HasInstallation {
				allocations[i] = allocations[i].Add(item.InstallationCost)
			}
		}
	}

	return allocations
}
