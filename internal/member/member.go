package member

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DiscountType classifies how a member's pricing deviates from list price.
type DiscountType string

const (
	// Discounting applies a percentage rate to the original subtotal.
	Discounting DiscountType = "0"
	// DownMargin targets a fixed discounted price derived from the member's
	// margin-reduction rate.
	DownMargin DiscountType = "1"
	// CostMarkup reprices the line from product cost times a markup rate.
	CostMarkup DiscountType = "2"
	// Special is the flat VIP or employee rate.
	Special DiscountType = "SPECIAL"
)

// ParseDiscountType validates a wire code and returns the matching type.
func ParseDiscountType(code string) (DiscountType, error) {
	switch DiscountType(code) {
	case Discounting, DownMargin, CostMarkup, Special:
		return DiscountType(code), nil
	default:
		return "", fmt.Errorf("unknown member discount type code %q", code)
	}
}

// UsesCost reports whether the formula reads product cost instead of a rate
// against the original price.
func (t DiscountType) UsesCost() bool { return t == CostMarkup }

func (t DiscountType) String() string { return string(t) }

// Customer is the buyer profile carried on an order. Temp-card customers
// never receive member discounts regardless of classification.
type Customer struct {
	MemberID     string
	CardType     string
	Name         string
	Phone        string
	DiscountType DiscountType
	TempCard     bool
}

// NewCustomer builds a regular member profile.
func NewCustomer(memberID, name, phone string, discountType DiscountType) (Customer, error) {
	if memberID == "" && phone == "" {
		return Customer{}, fmt.Errorf("customer requires a member id or phone")
	}
	return Customer{
		MemberID:     memberID,
		CardType:     "M",
		Name:         name,
		Phone:        phone,
		DiscountType: discountType,
	}, nil
}

// NewTempCardCustomer builds a walk-in profile. Temp cards carry no member
// discount and cannot redeem loyalty points.
func NewTempCardCustomer(name, phone string) (Customer, error) {
	if name == "" || phone == "" {
		return Customer{}, fmt.Errorf("temp card customer requires name and phone")
	}
	return Customer{
		CardType: "T",
		Name:     name,
		Phone:    phone,
		TempCard: true,
	}, nil
}

// HasDiscount reports whether member discount calculation applies at all.
func (c Customer) HasDiscount() bool {
	return c.DiscountType != "" && !c.TempCard
}

// DiscountParams are the rate parameters resolved from the member's tier.
type DiscountParams struct {
	Type       DiscountType
	Rate       decimal.Decimal
	MarkupRate decimal.Decimal
}

// Default tier rates. Rate feeds types 0, 1 and SPECIAL; MarkupRate feeds
// type 2 cost repricing.
var defaultParams = map[DiscountType]DiscountParams{
	Discounting: {Type: Discounting, Rate: decimal.RequireFromString("0.95")},
	DownMargin:  {Type: DownMargin, Rate: decimal.RequireFromString("0.90")},
	CostMarkup:  {Type: CostMarkup, MarkupRate: decimal.RequireFromString("1.05")},
	Special:     {Type: Special, Rate: decimal.RequireFromString("0.85")},
}

// ParamsProvider resolves tier discount parameters for a customer. The
// upstream CRM owns the data; the engine accepts the result as given.
type ParamsProvider interface {
	DiscountParams(t DiscountType) (DiscountParams, bool)
}

// StaticParams serves the built-in tier table, optionally overridden per type.
type StaticParams struct {
	overrides map[DiscountType]DiscountParams
}

// NewStaticParams returns a provider backed by the default tier table.
func NewStaticParams(overrides map[DiscountType]DiscountParams) *StaticParams {
	return &StaticParams{overrides: overrides}
}

func (p *StaticParams) DiscountParams(t DiscountType) (DiscountParams, bool) {
	if p.overrides != nil {
		if params, ok := p.overrides[t]; ok {
			return params, true
		}
	}
	params, ok := defaultParams[t]
	return params, ok
}
