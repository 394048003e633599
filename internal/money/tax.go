package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TaxType classifies how an amount carries consumption tax. Amounts in this
// system are tax inclusive, so the taxable rate is used to back the tax
// component out of a gross figure.
type TaxType string

const (
	TaxZeroRated TaxType = "0"
	TaxTaxable   TaxType = "1"
	TaxFree      TaxType = "2"
)

// taxableRate is the gross-to-net divisor for taxable amounts (5% tax).
var taxableRate = decimal.RequireFromString("1.05")

// ParseTaxType validates a wire code and returns the matching TaxType.
func ParseTaxType(code string) (TaxType, error) {
	switch TaxType(code) {
	case TaxZeroRated, TaxTaxable, TaxFree:
		return TaxType(code), nil
	default:
		return "", fmt.Errorf("unknown tax type code %q", code)
	}
}

// Taxable reports whether amounts of this type carry a tax component.
func (t TaxType) Taxable() bool { return t == TaxTaxable }

// Tax returns the tax component embedded in the gross amount m. Zero-rated
// and tax-free amounts carry no tax. For taxable amounts the net portion is
// computed with half-up rounding and the tax is the remainder, so net plus
// tax always reproduces the gross amount exactly.
func (m Money) Tax(t TaxType) Money {
	if !t.Taxable() {
		return Zero
	}
	net := m.DivRate(taxableRate, RoundHalfUp)
	return m.Sub(net)
}

// Net returns the tax-exclusive portion of the gross amount m.
func (m Money) Net(t TaxType) Money {
	return m.Sub(m.Tax(t))
}
