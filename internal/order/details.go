package order

import (
	"time"

	"github.com/tgfc/som/internal/money"
)

// InstallationDetail records the installation configuration attached to a
// line: the work type, selected service types and the billed cost.
type InstallationDetail struct {
	WorkTypeID   string
	WorkTypeName string
	ServiceTypes []string
	Cost         money.Money
	LaborCost    money.Money
	Mandatory    bool
}

// NoInstallation is the pure-delivery placeholder detail.
func NoInstallation() InstallationDetail {
	return InstallationDetail{WorkTypeID: "0000", WorkTypeName: "no installation"}
}

// HasInstallation reports whether the detail carries real services.
func (d InstallationDetail) HasInstallation() bool {
	return len(d.ServiceTypes) > 0 && d.WorkTypeID != "0000"
}

// TotalCost sums service cost and labor cost.
func (d InstallationDetail) TotalCost() money.Money {
	return d.Cost.Add(d.LaborCost)
}

// HasServiceType reports whether the given service type was selected.
func (d InstallationDetail) HasServiceType(serviceType string) bool {
	for _, s := range d.ServiceTypes {
		if s == serviceType {
			return true
		}
	}
	return false
}

// DeliveryDetail records the transport configuration attached to a line.
type DeliveryDetail struct {
	Method        DeliveryMethod
	WorkTypeID    string
	ScheduledDate time.Time
	Cost          money.Money
	ReceiverName  string
	ReceiverPhone string
	Address       string
	ZipCode       string
	Note          string
}

// DefaultDelivery is store-arranged transport with no cost resolved yet.
func DefaultDelivery() DeliveryDetail {
	return DeliveryDetail{Method: DeliveryManaged}
}

// RequiresAddress reports whether the method needs a destination address.
func (d DeliveryDetail) RequiresAddress() bool {
	return d.Method == DeliveryDirect || d.Method == DeliveryHome || d.Method == DeliveryManaged
}

// Pickup reports whether the customer collects the goods themselves.
func (d DeliveryDetail) Pickup() bool {
	return d.Method == DeliveryPickupNow || d.Method == DeliveryPickupLater
}

// Address is the order-level delivery address.
type Address struct {
	ZipCode string
	City    string
	Street  string
	Note    string
}
