package pricing

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tgfc/som/internal/catalog"
	"github.com/tgfc/som/internal/member"
	"github.com/tgfc/som/internal/money"
	"github.com/tgfc/som/internal/order"
)

// costFallbackRate estimates product cost as a share of the unit price
// when the catalog carries no cost figure.
var costFallbackRate = decimal.RequireFromString("0.7")

// MemberDiscountCalculator computes the per-line member discount for the
// four tier formulas. It never mutates lines; results are returned for the
// caller to apply.
type MemberDiscountCalculator struct {
	Params   member.ParamsProvider
	Products catalog.Provider
	Logger   zerolog.Logger
}

// NewMemberDiscountCalculator wires a calculator.
func NewMemberDiscountCalculator(params member.ParamsProvider, products catalog.Provider, logger zerolog.Logger) *MemberDiscountCalculator {
	return &MemberDiscountCalculator{Params: params, Products: products, Logger: logger}
}

// CalculateAll runs the customer's formula over every line. Customers
// without a discount classification and temp cards get no results. A
// cost-markup result that would raise the price is an anomaly: the delta
// is forced to zero and a warning recorded, never a failure.
func (c *MemberDiscountCalculator) CalculateAll(customer member.Customer, lines []*order.Line) ([]order.MemberDiscResult, []string) {
	if !customer.HasDiscount() {
		return nil, nil
	}
	params, ok := c.Params.DiscountParams(customer.DiscountType)
	if !ok {
		return nil, []string{fmt.Sprintf("no discount parameters for member type %s", customer.DiscountType)}
	}

	var results []order.MemberDiscResult
	var warnings []string
	for _, line := range lines {
		result, warning := c.calculateLine(params, line)
		if warning != "" {
			warnings = append(warnings, warning)
		}
		results = append(results, result)
	}
	return results, warnings
}

func (c *MemberDiscountCalculator) calculateLine(params member.DiscountParams, line *order.Line) (order.MemberDiscResult, string) {
	original := line.OriginalSubtotal()
	result := order.MemberDiscResult{
		SKU:           line.SKU,
		TypeCode:      params.Type.String(),
		OriginalPrice: original,
	}

	var discounted money.Money
	warning := ""
	switch params.Type {
	case member.CostMarkup:
		cost, costWarning := c.lineCost(line)
		warning = costWarning
		discounted = cost.MulRate(params.MarkupRate, money.RoundHalfUp)
	default:
		// Discounting, DownMargin and Special all scale the original
		// subtotal by the tier rate; they differ only in where the rate
		// comes from.
		if !params.Rate.IsPositive() {
			result.DiscountedPrice = original
			return result, fmt.Sprintf("invalid discount rate for member type %s on sku %s", params.Type, line.SKU)
		}
		discounted = original.MulRate(params.Rate, money.RoundHalfUp)
	}

	delta := discounted.Sub(original)
	if delta.IsPositive() {
		// Cost markup exceeded the selling price. Never raise the total:
		// record the anomaly and apply no discount.
		c.Logger.Warn().
			Str("sku", line.SKU).
			Int64("original", original.Int64()).
			Int64("marked_up", discounted.Int64()).
			Msg("cost markup above selling price, discount forced to zero")
		result.DiscountedPrice = original
		result.Delta = money.Zero
		result.Anomalous = true
		return result, fmt.Sprintf("cost markup exceeds selling price for sku %s, discount forced to zero", line.SKU)
	}

	result.DiscountedPrice = discounted
	result.Delta = delta
	return result, warning
}

// lineCost resolves the cost basis for cost-markup pricing: catalog cost
// per unit times quantity, estimated from the unit price when the catalog
// has none.
func (c *MemberDiscountCalculator) lineCost(line *order.Line) (money.Money, string) {
	if c.Products != nil {
		if product, ok := c.Products.Get(line.SKU); ok && !product.Cost.IsZero() {
			return product.Cost.MulInt(line.Quantity), ""
		}
	}
	estimated := line.UnitPrice.MulRate(costFallbackRate, money.RoundFloor).MulInt(line.Quantity)
	return estimated, fmt.Sprintf("no cost on file for sku %s, estimated from unit price", line.SKU)
}

// TotalDelta sums result deltas; the sum is non-positive.
func TotalDelta(results []order.MemberDiscResult) money.Money {
	total := money.Zero
	for _, r := range results {
		total = total.Add(r.Delta)
	}
	return total
}
