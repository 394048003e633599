package order

import "fmt"

// DeliveryMethod is how a line reaches the customer.
type DeliveryMethod string

const (
	// DeliveryManaged is store-arranged transport with optional installation.
	DeliveryManaged DeliveryMethod = "N"
	// DeliveryPure is transport only, no installation.
	DeliveryPure DeliveryMethod = "D"
	// DeliveryDirect ships from the vendor straight to the customer.
	DeliveryDirect DeliveryMethod = "V"
	// DeliveryPickupNow is carry-out at the register.
	DeliveryPickupNow DeliveryMethod = "C"
	// DeliveryHome is parcel home delivery.
	DeliveryHome DeliveryMethod = "F"
	// DeliveryPickupLater is pickup on a later visit.
	DeliveryPickupLater DeliveryMethod = "P"
)

// ParseDeliveryMethod validates a wire code.
func ParseDeliveryMethod(code string) (DeliveryMethod, error) {
	switch DeliveryMethod(code) {
	case DeliveryManaged, DeliveryPure, DeliveryDirect, DeliveryPickupNow, DeliveryHome, DeliveryPickupLater:
		return DeliveryMethod(code), nil
	default:
		return "", fmt.Errorf("unknown delivery method code %q", code)
	}
}

// CompatibleWith reports whether the method may pair with the stock method.
// Direct shipment requires purchase order; immediate pickup requires stock
// on hand. Everything else pairs freely.
func (d DeliveryMethod) CompatibleWith(s StockMethod) bool {
	switch d {
	case DeliveryDirect:
		return s == StockPurchaseOrder
	case DeliveryPickupNow:
		return s == StockInStock
	default:
		return true
	}
}

// CanHaveInstallation reports whether installation services may attach.
func (d DeliveryMethod) CanHaveInstallation() bool { return d == DeliveryManaged }

// SkipMinimumWageCheck reports whether the minimum-wage floor is waived.
// Pure delivery and home delivery bill no labor.
func (d DeliveryMethod) SkipMinimumWageCheck() bool {
	return d == DeliveryPure || d == DeliveryHome
}

// RequiresDelivery reports whether the method involves transport at all.
func (d DeliveryMethod) RequiresDelivery() bool {
	return d == DeliveryManaged || d == DeliveryPure || d == DeliveryHome
}

// StockMethod is how the store sources a line.
type StockMethod string

const (
	StockInStock       StockMethod = "X"
	StockPurchaseOrder StockMethod = "Y"
)

// ParseStockMethod validates a wire code.
func ParseStockMethod(code string) (StockMethod, error) {
	switch StockMethod(code) {
	case StockInStock, StockPurchaseOrder:
		return StockMethod(code), nil
	default:
		return "", fmt.Errorf("unknown stock method code %q", code)
	}
}

// CorrectStockMethod resolves an incompatible delivery/stock pair by
// adjusting the stock method, returning the corrected value and whether a
// correction happened. Used on the service-attachment and update paths,
// where the pair arrives together and the delivery choice wins.
func CorrectStockMethod(d DeliveryMethod, s StockMethod) (StockMethod, bool) {
	if d == DeliveryDirect && s == StockInStock {
		return StockPurchaseOrder, true
	}
	if d == DeliveryPickupNow && s == StockPurchaseOrder {
		return StockInStock, true
	}
	return s, false
}

// Status is the order lifecycle state.
type Status string

const (
	StatusDraft     Status = "1"
	StatusQuotation Status = "2"
	StatusPaid      Status = "3"
	StatusActive    Status = "4"
	StatusClosed    Status = "5"
	StatusCancelled Status = "6"
)

// ParseStatus validates a wire code.
func ParseStatus(code string) (Status, error) {
	switch Status(code) {
	case StatusDraft, StatusQuotation, StatusPaid, StatusActive, StatusClosed, StatusCancelled:
		return Status(code), nil
	default:
		return "", fmt.Errorf("unknown order status code %q", code)
	}
}

// CanTransitionTo reports whether the lifecycle allows moving to target.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusDraft:
		return target == StatusQuotation || target == StatusActive
	case StatusQuotation:
		return target == StatusActive || target == StatusDraft
	case StatusPaid:
		return target == StatusActive || target == StatusClosed || target == StatusCancelled
	case StatusActive:
		return target == StatusPaid || target == StatusClosed || target == StatusCancelled
	default:
		return false
	}
}

// CanModify reports whether line mutations are allowed in this state.
func (s Status) CanModify() bool { return s == StatusDraft || s == StatusQuotation }

// CanUseBonusPoints reports whether loyalty redemption is allowed.
func (s Status) CanUseBonusPoints() bool { return s == StatusActive || s == StatusPaid }

// Final reports whether the state is terminal.
func (s Status) Final() bool { return s == StatusClosed || s == StatusCancelled }
