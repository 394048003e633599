package worktype

import (
	"github.com/shopspring/decimal"

	"github.com/tgfc/som/internal/money"
)

// Category groups work types by the kind of labor they bill.
type Category string

const (
	CategoryInstallation Category = "INSTALLATION"
	CategoryPureDelivery Category = "PURE_DELIVERY"
	CategoryHomeDelivery Category = "HOME_DELIVERY"
)

// IsDelivery reports whether the category bills transport rather than labor.
func (c Category) IsDelivery() bool {
	return c == CategoryPureDelivery || c == CategoryHomeDelivery
}

// PureDeliveryID is the catalog id of the no-installation transport row.
const PureDeliveryID = "0000"

// WorkType is one row of the labor catalog: a category, a minimum-wage
// floor and the cost-rate factors used to derive internal cost from the
// customer-facing price.
type WorkType struct {
	ID               string
	Name             string
	Category         Category
	MinimumWage      money.Money
	BasicRate        decimal.Decimal
	AdvancedRate     decimal.Decimal
	DeliveryCostRate decimal.Decimal
}

// InstallationCost derives the internal installation cost from the base
// price. Cost rates always round down.
func (w WorkType) InstallationCost(basePrice money.Money, basic bool) money.Money {
	rate := w.BasicRate
	if !basic {
		rate = w.AdvancedRate
	}
	if rate.IsZero() {
		rate = decimal.NewFromInt(1)
	}
	return basePrice.MulRate(rate, money.RoundFloor)
}

// DeliveryCost derives the internal delivery cost from the base price.
func (w WorkType) DeliveryCost(basePrice money.Money) money.Money {
	rate := w.DeliveryCostRate
	if rate.IsZero() {
		rate = decimal.NewFromInt(1)
	}
	return basePrice.MulRate(rate, money.RoundFloor)
}

// MeetsMinimumWage reports whether the installation total clears the floor.
// Pure delivery and home delivery never check the floor.
func (w WorkType) MeetsMinimumWage(installationTotal money.Money) bool {
	if w.IsPureDelivery() || w.IsHomeDelivery() {
		return true
	}
	if w.MinimumWage.IsZero() {
		return true
	}
	return !installationTotal.LessThan(w.MinimumWage)
}

// MinimumWageGap returns how far the installation total falls short of the
// floor, zero when the floor is met.
func (w WorkType) MinimumWageGap(installationTotal money.Money) money.Money {
	if w.MeetsMinimumWage(installationTotal) {
		return money.Zero
	}
	return w.MinimumWage.Sub(installationTotal)
}

func (w WorkType) IsPureDelivery() bool {
	return w.ID == PureDeliveryID || w.Category == CategoryPureDelivery
}

func (w WorkType) IsHomeDelivery() bool { return w.Category == CategoryHomeDelivery }

func (w WorkType) IsInstallation() bool { return w.Category == CategoryInstallation }
