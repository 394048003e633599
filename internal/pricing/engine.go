// Package pricing runs the fixed pricing pipeline over an order: member
// discount formulas, work-type override apportionment and the seven
// component totals that make up the payable amount.
package pricing

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tgfc/som/internal/money"
	"github.com/tgfc/som/internal/order"
	"github.com/tgfc/som/internal/worktype"
)

// Engine aggregates an order's line state into an immutable calculation
// snapshot. It reads lines but never writes them; coupon and bonus
// discounts arrive pre-allocated on the lines, member discount results are
// computed here and returned inside the snapshot.
type Engine struct {
	Members   *MemberDiscountCalculator
	WorkTypes worktype.Catalog
	Logger    zerolog.Logger

	Now func() time.Time
}

// NewEngine wires an engine.
func NewEngine(members *MemberDiscountCalculator, workTypes worktype.Catalog, logger zerolog.Logger) *Engine {
	return &Engine{Members: members, WorkTypes: workTypes, Logger: logger, Now: time.Now}
}

// Calculate runs the seven stages in their fixed order and returns the
// snapshot. Warnings accumulate; they never abort the run.
func (e *Engine) Calculate(o *order.Order) order.Calculation {
	lines := o.Lines()
	var warnings []string

	// work-type override apportionment, resolved before the charge totals
	// so the effective installation and delivery figures reflect it
	apportionments, installAdjust, deliveryAdjust, apportionWarnings := e.apportionOverrides(o)
	warnings = append(warnings, apportionWarnings...)

	// stage 1: product subtotal
	productTotal := money.Zero
	for _, l := range lines {
		productTotal = productTotal.Add(l.Subtotal())
	}

	// stage 2: installation subtotal, net of authorized reductions
	installationTotal := money.Zero
	for _, l := range lines {
		installationTotal = installationTotal.Add(l.InstallationCost)
	}
	installationTotal = installationTotal.Sub(installAdjust)

	// stage 3: delivery subtotal, net of authorized reductions
	deliveryTotal := money.Zero
	for _, l := range lines {
		deliveryTotal = deliveryTotal.Add(l.DeliveryCost)
	}
	deliveryTotal = deliveryTotal.Sub(deliveryAdjust)

	// stage 4: member discount
	memberResults, memberWarnings := e.Members.CalculateAll(o.Customer, lines)
	warnings = append(warnings, memberWarnings...)
	memberDiscount := TotalDelta(memberResults)

	// stage 5: direct shipment, an extension point that currently always
	// contributes zero
	directShipmentTotal := money.Zero

	// stage 6: coupon discount, pre-allocated onto lines
	couponDiscount := money.Zero
	for _, l := range lines {
		couponDiscount = couponDiscount.Add(l.CouponDisc)
	}

	// stage 7: bonus discount, pre-applied onto lines
	bonusDiscount := money.Zero
	for _, l := range lines {
		bonusDiscount = bonusDiscount.Add(l.BonusDisc)
	}

	warnings = append(warnings, e.checkMinimumWage(lines)...)

	taxAmount := money.Zero
	for _, l := range lines {
		taxAmount = taxAmount.Add(l.TaxAmount())
	}

	grandTotal := productTotal.
		Add(installationTotal).
		Add(deliveryTotal).
		Add(memberDiscount).
		Add(directShipmentTotal).
		Sub(couponDiscount).
		Sub(bonusDiscount)

	e.Logger.Info().
		Str("order_id", string(o.ID)).
		Int64("product_total", productTotal.Int64()).
		Int64("installation_total", installationTotal.Int64()).
		Int64("delivery_total", deliveryTotal.Int64()).
		Int64("member_discount", memberDiscount.Int64()).
		Int64("coupon_discount", couponDiscount.Int64()).
		Int64("bonus_discount", bonusDiscount.Int64()).
		Int64("grand_total", grandTotal.Int64()).
		Int("warnings", len(warnings)).
		Msg("price calculation complete")

	return order.Calculation{
		ProductTotal:        productTotal,
		InstallationTotal:   installationTotal,
		DeliveryTotal:       deliveryTotal,
		MemberDiscount:      memberDiscount,
		DirectShipmentTotal: directShipmentTotal,
		CouponDiscount:      couponDiscount,
		BonusDiscount:       bonusDiscount,
		TaxAmount:           taxAmount,
		GrandTotal:          grandTotal,
		MemberDiscounts:     memberResults,
		Apportionments:      apportionments,
		Warnings:            warnings,
		CalculatedAt:        e.Now(),
	}
}

// apportionOverrides distributes each authorized override's delta across
// the lines sharing its work type and returns the aggregate reductions to
// apply to the installation and delivery totals.
func (e *Engine) apportionOverrides(o *order.Order) ([]order.Apportionment, money.Money, money.Money, []string) {
	var apportionments []order.Apportionment
	var warnings []string
	installAdjust, deliveryAdjust := money.Zero, money.Zero

	for _, override := range o.Overrides {
		if override.Delta().IsZero() {
			continue
		}
		shared := e.linesForOverride(o.Lines(), override)
		if len(shared) == 0 {
			warnings = append(warnings, fmt.Sprintf("authorized override for work type %s matches no line, skipped", override.WorkTypeID))
			continue
		}
		apportionments = append(apportionments, Apportion(override, shared))
		switch override.Kind {
		case order.OverrideInstallation:
			installAdjust = installAdjust.Add(override.Delta())
		case order.OverrideDelivery:
			deliveryAdjust = deliveryAdjust.Add(override.Delta())
		}
	}
	return apportionments, installAdjust, deliveryAdjust, warnings
}

func (e *Engine) linesForOverride(lines []*order.Line, override order.WorkTypeOverride) []*order.Line {
	var shared []*order.Line
	for _, l := range lines {
		switch override.Kind {
		case order.OverrideInstallation:
			if l.HasInstallation() && l.WorkTypeID == override.WorkTypeID {
				shared = append(shared, l)
			}
		case order.OverrideDelivery:
			if !l.DeliveryMethod.RequiresDelivery() {
				continue
			}
			if l.Delivery.WorkTypeID == override.WorkTypeID || l.WorkTypeID == override.WorkTypeID {
				shared = append(shared, l)
			}
		}
	}
	return shared
}

// checkMinimumWage flags installed lines whose installation cost sits
// below the work type's floor. Pure delivery and home delivery are exempt.
func (e *Engine) checkMinimumWage(lines []*order.Line) []string {
	var warnings []string
	for _, l := range lines {
		if !l.HasInstallation() || l.WorkTypeID == "" {
			continue
		}
		if l.DeliveryMethod.SkipMinimumWageCheck() {
			continue
		}
		wt, ok := e.WorkTypes.Get(l.WorkTypeID)
		if !ok {
			continue
		}
		if !wt.MeetsMinimumWage(l.InstallationCost) {
			warnings = append(warnings, fmt.Sprintf(
				"installation cost %s for sku %s below work type %s minimum wage %s",
				l.InstallationCost, l.SKU, wt.Name, wt.MinimumWage))
		}
	}
	return warnings
}
