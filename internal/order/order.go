// Package order holds the special-order aggregate: the draft an operator
// builds line by line before pricing and submission. Lines are owned
// exclusively by their Order; callers mutate them only through aggregate
// methods so the line-count and compatibility invariants hold.
package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tgfc/som/internal/member"
	"github.com/tgfc/som/internal/money"
)

// MaxLines bounds how many product rows one order may carry.
const MaxLines = 999

var (
	ErrNotModifiable       = errors.New("order is not modifiable in its current status")
	ErrLineLimit           = errors.New("order line limit reached")
	ErrLineNotFound        = errors.New("order line not found")
	ErrIncompatibleMethods = errors.New("delivery method incompatible with stock method")
	ErrEmptyOrder          = errors.New("order has no lines")
	ErrCalculationRequired = errors.New("price calculation required before submit")
	ErrInvalidTransition   = errors.New("invalid order status transition")
	ErrOrderNotFound       = errors.New("order not found")
)

// ID identifies an order.
type ID string

// NewID generates a fresh order id.
func NewID() ID { return ID(uuid.NewString()) }

// Order is the aggregate root. Not safe for concurrent mutation; the
// calling layer serializes operations per order id.
type Order struct {
	ID        ID
	ProjectID ProjectID

	Customer member.Customer
	Address  Address

	StoreID   string
	ChannelID string
	Status    Status
	Source    string

	HandlerID string

	lines []*Line

	Calculation Calculation
	Overrides   []WorkTypeOverride

	CouponCode     string
	IdempotencyKey string

	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy string
	UpdatedBy string

	now func() time.Time
}

// New builds a draft order.
func New(projectID ProjectID, customer member.Customer, address Address, storeID, channelID, createdBy string) (*Order, error) {
	if storeID == "" || channelID == "" {
		return nil, fmt.Errorf("order requires store and channel ids")
	}
	o := &Order{
		ID:        NewID(),
		ProjectID: projectID,
		Customer:  customer,
		Address:   address,
		StoreID:   storeID,
		ChannelID: channelID,
		Status:    StatusDraft,
		CreatedBy: createdBy,
		UpdatedBy: createdBy,
		now:       time.Now,
	}
	o.CreatedAt = o.now()
	o.UpdatedAt = o.CreatedAt
	o.Calculation = EmptyCalculation(o.CreatedAt)
	return o, nil
}

// WithClock replaces the aggregate clock. Test hook.
func (o *Order) WithClock(now func() time.Time) *Order {
	o.now = now
	return o
}

// AddLine appends a product row. The delivery/stock pair must be
// compatible; this path rejects rather than corrects.
func (o *Order) AddLine(sku, skuName string, quantity int, unitPrice money.Money,
	taxType money.TaxType, deliveryMethod DeliveryMethod, stockMethod StockMethod) (*Line, error) {

	if err := o.ensureModifiable(); err != nil {
		return nil, err
	}
	if len(o.lines) >= MaxLines {
		return nil, fmt.Errorf("%w (%d)", ErrLineLimit, MaxLines)
	}

	line, err := newLine(len(o.lines)+1, sku, skuName, quantity, unitPrice, taxType, deliveryMethod, stockMethod)
	if err != nil {
		return nil, err
	}
	o.lines = append(o.lines, line)
	o.touch()
	return line, nil
}

// RemoveLine deletes a row and renumbers the remainder so serials stay
// dense and ascending.
func (o *Order) RemoveLine(lineID LineID) error {
	if err := o.ensureModifiable(); err != nil {
		return err
	}
	idx := -1
	for i, l := range o.lines {
		if l.ID == lineID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrLineNotFound, lineID)
	}
	o.lines = append(o.lines[:idx], o.lines[idx+1:]...)
	for i, l := range o.lines {
		l.SerialNo = i + 1
	}
	o.touch()
	return nil
}

// Line returns the row with the given id.
func (o *Order) Line(lineID LineID) (*Line, error) {
	for _, l := range o.lines {
		if l.ID == lineID {
			return l, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrLineNotFound, lineID)
}

// Lines returns the rows in serial order. The slice is shared; callers
// must not reorder it.
func (o *Order) Lines() []*Line { return o.lines }

// LineCount returns the number of rows.
func (o *Order) LineCount() int { return len(o.lines) }

// UpdateLine applies quantity, price and method changes to one row.
// Incompatible delivery/stock pairs are auto-corrected in favor of the
// delivery method; the returned flag reports whether that happened.
func (o *Order) UpdateLine(lineID LineID, quantity int, actualUnitPrice money.Money,
	deliveryMethod DeliveryMethod, stockMethod StockMethod) (corrected bool, err error) {

	if err := o.ensureModifiable(); err != nil {
		return false, err
	}
	line, err := o.Line(lineID)
	if err != nil {
		return false, err
	}
	if err := line.updateQuantity(quantity); err != nil {
		return false, err
	}
	line.updateActualUnitPrice(actualUnitPrice)
	corrected = line.updateMethods(deliveryMethod, stockMethod)
	o.touch()
	return corrected, nil
}

// AttachInstallation configures installation services on one row.
// Installation is only legal on store-arranged transport.
func (o *Order) AttachInstallation(lineID LineID, detail InstallationDetail) error {
	if err := o.ensureModifiable(); err != nil {
		return err
	}
	line, err := o.Line(lineID)
	if err != nil {
		return err
	}
	if detail.HasInstallation() && !line.DeliveryMethod.CanHaveInstallation() {
		return fmt.Errorf("%w: installation requires managed delivery, line has %s",
			ErrIncompatibleMethods, line.DeliveryMethod)
	}
	line.attachInstallation(detail)
	o.touch()
	return nil
}

// AttachDelivery configures transport on one row, auto-correcting the
// stock method when the new transport conflicts with it.
func (o *Order) AttachDelivery(lineID LineID, detail DeliveryDetail) (corrected bool, err error) {
	if err := o.ensureModifiable(); err != nil {
		return false, err
	}
	line, err := o.Line(lineID)
	if err != nil {
		return false, err
	}
	corrected = line.attachDelivery(detail)
	o.touch()
	return corrected, nil
}

// AuthorizeWorkTypePrice records an approved charge override for one work
// type. The apportionment of its delta happens at calculation time.
func (o *Order) AuthorizeWorkTypePrice(override WorkTypeOverride) error {
	if err := o.ensureModifiable(); err != nil {
		return err
	}
	if override.WorkTypeID == "" || override.AuthorizedBy == "" {
		return fmt.Errorf("override requires a work type and an authorizing identity")
	}
	// One override per kind and work type; a later authorization replaces
	// the earlier one.
	for i, existing := range o.Overrides {
		if existing.Kind == override.Kind && existing.WorkTypeID == override.WorkTypeID {
			o.Overrides[i] = override
			o.touch()
			return nil
		}
	}
	o.Overrides = append(o.Overrides, override)
	o.touch()
	return nil
}

// SetCalculation replaces the pricing snapshot.
func (o *Order) SetCalculation(c Calculation) {
	o.Calculation = c
	o.touch()
}

// Submit moves the draft to quotation. Requires at least one line and a
// non-empty pricing snapshot.
func (o *Order) Submit() error {
	if !o.Status.CanTransitionTo(StatusQuotation) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, StatusQuotation)
	}
	if len(o.lines) == 0 {
		return ErrEmptyOrder
	}
	if o.Calculation.Empty() {
		return ErrCalculationRequired
	}
	o.Status = StatusQuotation
	o.touch()
	return nil
}

// Activate marks the order effective.
func (o *Order) Activate() error {
	if !o.Status.CanTransitionTo(StatusActive) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, StatusActive)
	}
	o.Status = StatusActive
	o.touch()
	return nil
}

// Cancel voids the order.
func (o *Order) Cancel() error {
	if !o.Status.CanTransitionTo(StatusCancelled) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, StatusCancelled)
	}
	o.Status = StatusCancelled
	o.touch()
	return nil
}

// ProductTotal sums list-price subtotals.
func (o *Order) ProductTotal() money.Money {
	total := money.Zero
	for _, l := range o.lines {
		total = total.Add(l.OriginalSubtotal())
	}
	return total
}

// ActualProductTotal sums post-discount subtotals.
func (o *Order) ActualProductTotal() money.Money {
	total := money.Zero
	for _, l := range o.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// TotalTax sums per-line embedded tax.
func (o *Order) TotalTax() money.Money {
	total := money.Zero
	for _, l := range o.lines {
		total = total.Add(l.TaxAmount())
	}
	return total
}

func (o *Order) ensureModifiable() error {
	if !o.Status.CanModify() {
		return fmt.Errorf("%w: status %s", ErrNotModifiable, o.Status)
	}
	return nil
}

func (o *Order) touch() {
	if o.now != nil {
		o.UpdatedAt = o.now()
	}
}
