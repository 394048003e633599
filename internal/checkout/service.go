// Package checkout is the application layer of the special order
// platform: it owns order intake, line configuration, coupon and bonus
// application and the pricing runs, translating domain outcomes into
// transport-friendly errors.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tgfc/som/internal/bonus"
	"github.com/tgfc/som/internal/catalog"
	"github.com/tgfc/som/internal/common"
	"github.com/tgfc/som/internal/coupon"
	"github.com/tgfc/som/internal/events"
	"github.com/tgfc/som/internal/idem"
	"github.com/tgfc/som/internal/member"
	"github.com/tgfc/som/internal/money"
	"github.com/tgfc/som/internal/obs"
	"github.com/tgfc/som/internal/order"
	"github.com/tgfc/som/internal/pricing"
	"github.com/tgfc/som/internal/worktype"
)

// Sequencer hands out per-store, per-day project id sequence numbers.
type Sequencer interface {
	NextProjectSequence(storeID string, date time.Time) int
}

// Service wires the order aggregate to its supporting engines.
type Service struct {
	Orders    order.Store
	Seq       Sequencer
	Products  catalog.Provider
	WorkTypes worktype.Catalog
	Engine    *pricing.Engine
	Coupons   *coupon.Engine
	Bonus     *bonus.Service
	Guard     idem.Guard
	Events    *events.Bus
	Logger    zerolog.Logger

	StoreID string
	Now     func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// CustomerInput identifies the buyer on order creation.
type CustomerInput struct {
	MemberID     string `json:"memberId"`
	Name         string `json:"name" validate:"required"`
	Phone        string `json:"phone"`
	DiscountType string `json:"discountType"`
	TempCard     bool   `json:"tempCard"`
}

// AddressInput is the order-level delivery address.
type AddressInput struct {
	ZipCode string `json:"zipCode"`
	City    string `json:"city"`
	Street  string `json:"street"`
	Note    string `json:"note"`
}

// CreateOrderInput is the payload for opening a draft order.
type CreateOrderInput struct {
	Customer  CustomerInput `json:"customer" validate:"required"`
	Address   AddressInput  `json:"address"`
	ChannelID string        `json:"channelId"`
	CreatedBy string        `json:"createdBy" validate:"required"`
}

// CreateOrder opens a draft order, minting its project id. A repeated
// idempotency key within the guard window returns the original order's
// id as a duplicate submission error instead of opening a second draft.
func (s *Service) CreateOrder(ctx context.Context, idemKey string, in CreateOrderInput) (*order.Order, error) {
	if idemKey != "" && s.Guard != nil {
		orderID, dup, err := s.Guard.CheckDuplicate(ctx, idemKey)
		if err != nil {
			return nil, fmt.Errorf("idempotency check: %w", err)
		}
		if dup {
			if obs.DuplicateSubmissionsTotal != nil {
				obs.DuplicateSubmissionsTotal.Inc()
			}
			return nil, common.DuplicateSubmission(orderID)
		}
	}

	customer, err := buildCustomer(in.Customer)
	if err != nil {
		return nil, common.ValidationError(err.Error(), err)
	}

	day := s.now()
	seq := s.Seq.NextProjectSequence(s.StoreID, day)
	projectID, err := order.NewProjectID(s.StoreID, day, seq)
	if err != nil {
		return nil, fmt.Errorf("mint project id: %w", err)
	}

	address := order.Address{
		ZipCode: in.Address.ZipCode,
		City:    in.Address.City,
		Street:  in.Address.Street,
		Note:    in.Address.Note,
	}
	o, err := order.New(projectID, customer, address, s.StoreID, in.ChannelID, in.CreatedBy)
	if err != nil {
		return nil, common.ValidationError(err.Error(), err)
	}
	o.IdempotencyKey = idemKey

	if err := s.Orders.Save(o); err != nil {
		return nil, err
	}
	if idemKey != "" && s.Guard != nil {
		if err := s.Guard.Record(ctx, idemKey, string(o.ID)); err != nil {
			s.Logger.Warn().Err(err).Str("order_id", string(o.ID)).Msg("record idempotency key failed")
		}
	}
	if obs.OrdersCreatedTotal != nil {
		obs.OrdersCreatedTotal.WithLabelValues("ok").Inc()
	}
	s.emit(ctx, events.TopicOrderCreated, o, map[string]any{
		"orderId":   string(o.ID),
		"projectId": o.ProjectID.String(),
		"storeId":   o.StoreID,
	})
	return o, nil
}

func buildCustomer(in CustomerInput) (member.Customer, error) {
	if in.TempCard {
		return member.NewTempCardCustomer(in.Name, in.Phone)
	}
	discountType := member.DiscountType("")
	if in.DiscountType != "" {
		parsed, err := member.ParseDiscountType(in.DiscountType)
		if err != nil {
			return member.Customer{}, err
		}
		discountType = parsed
	}
	return member.NewCustomer(in.MemberID, in.Name, in.Phone, discountType)
}

// GetOrder loads one order by id.
func (s *Service) GetOrder(_ context.Context, id string) (*order.Order, error) {
	o, err := s.Orders.Get(order.ID(id))
	if err != nil {
		return nil, s.mapDomainError(err)
	}
	return o, nil
}

// AddLineInput is the payload for appending a product row.
type AddLineInput struct {
	SKU            string `json:"sku" validate:"required"`
	Quantity       int    `json:"quantity" validate:"required,gt=0"`
	UnitPrice      *int64 `json:"unitPrice"`
	DeliveryMethod string `json:"deliveryMethod" validate:"required"`
	StockMethod    string `json:"stockMethod" validate:"required"`
}

// AddLine appends a product row, resolving price and tax handling from
// the catalog. An explicit unit price overrides the catalog price.
func (s *Service) AddLine(_ context.Context, orderID string, in AddLineInput) (*order.Order, *order.Line, error) {
	o, err := s.Orders.Get(order.ID(orderID))
	if err != nil {
		return nil, nil, s.mapDomainError(err)
	}

	product, ok := s.Products.Get(in.SKU)
	if !ok {
		return nil, nil, common.NotFound(fmt.Sprintf("sku %s not found", in.SKU), nil)
	}
	if !product.Sellable() {
		return nil, nil, common.RuleViolation("SKU_NOT_SELLABLE", fmt.Sprintf("sku %s is not sellable", in.SKU), nil)
	}

	deliveryMethod, err := order.ParseDeliveryMethod(in.DeliveryMethod)
	if err != nil {
		return nil, nil, common.ValidationError(err.Error(), err)
	}
	stockMethod, err := order.ParseStockMethod(in.StockMethod)
	if err != nil {
		return nil, nil, common.ValidationError(err.Error(), err)
	}
	if deliveryMethod == order.DeliveryDirect && !product.AllowDirect {
		return nil, nil, common.RuleViolation("DIRECT_NOT_ALLOWED", fmt.Sprintf("sku %s does not allow direct shipment", in.SKU), nil)
	}
	if deliveryMethod == order.DeliveryHome && !product.AllowHome {
		return nil, nil, common.RuleViolation("HOME_NOT_ALLOWED", fmt.Sprintf("sku %s does not allow home delivery", in.SKU), nil)
	}

	price := product.EffectivePrice()
	if in.UnitPrice != nil {
		price = money.New(*in.UnitPrice)
	}
	line, err := o.AddLine(in.SKU, product.Name, in.Quantity, price, product.TaxType, deliveryMethod, stockMethod)
	if err != nil {
		return nil, nil, s.mapDomainError(err)
	}
	if err := s.Orders.Save(o); err != nil {
		return nil, nil, err
	}
	return o, line, nil
}

// UpdateLineInput is the payload for reconfiguring a row.
type UpdateLineInput struct {
	Quantity        int    `json:"quantity" validate:"required,gt=0"`
	ActualUnitPrice *int64 `json:"actualUnitPrice"`
	DeliveryMethod  string `json:"deliveryMethod" validate:"required"`
	StockMethod     string `json:"stockMethod" validate:"required"`
}

// UpdateLine reconfigures a row. Incompatible delivery and stock pairs
// are corrected in favor of the delivery method; corrected reports
// whether that happened.
func (s *Service) UpdateLine(_ context.Context, orderID, lineID string, in UpdateLineInput) (*order.Order, bool, error) {
	o, err := s.Orders.Get(order.ID(orderID))
	if err != nil {
		return nil, false, s.mapDomainError(err)
	}
	line, err := o.Line(order.LineID(lineID))
	if err != nil {
		return nil, false, s.mapDomainError(err)
	}

	deliveryMethod, err := order.ParseDeliveryMethod(in.DeliveryMethod)
	if err != nil {
		return nil, false, common.ValidationError(err.Error(), err)
	}
	stockMethod, err := order.ParseStockMethod(in.StockMethod)
	if err != nil {
		return nil, false, common.ValidationError(err.Error(), err)
	}

	price := line.ActualUnitPrice
	if in.ActualUnitPrice != nil {
		price = money.New(*in.ActualUnitPrice)
	}
	corrected, err := o.UpdateLine(line.ID, in.Quantity, price, deliveryMethod, stockMethod)
	if err != nil {
		return nil, false, s.mapDomainError(err)
	}
	if err := s.Orders.Save(o); err != nil {
		return nil, false, err
	}
	return o, corrected, nil
}

// RemoveLine deletes a row; remaining rows are renumbered.
func (s *Service) RemoveLine(_ context.Context, orderID, lineID string) (*order.Order, error) {
	o, err := s.Orders.Get(order.ID(orderID))
	if err != nil {
		return nil, s.mapDomainError(err)
	}
	if err := o.RemoveLine(order.LineID(lineID)); err != nil {
		return nil, s.mapDomainError(err)
	}
	if err := s.Orders.Save(o); err != nil {
		return nil, err
	}
	return o, nil
}

// InstallationInput configures installation services on a row.
type InstallationInput struct {
	WorkTypeID   string   `json:"workTypeId" validate:"required"`
	ServiceTypes []string `json:"serviceTypes"`
	Advanced     bool     `json:"advanced"`
	Mandatory    bool     `json:"mandatory"`
}

// AttachInstallation configures installation on a row, pricing it from
// the work type's rate against the row subtotal.
func (s *Service) AttachInstallation(_ context.Context, orderID, lineID string, in InstallationInput) (*order.Order, error) {
	o, err := s.Orders.Get(order.ID(orderID))
	if err != nil {
		return nil, s.mapDomainError(err)
	}
	line, err := o.Line(order.LineID(lineID))
	if err != nil {
		return nil, s.mapDomainError(err)
	}

	wt, ok := s.WorkTypes.Get(in.WorkTypeID)
	if !ok {
		return nil, common.NotFound(fmt.Sprintf("work type %s not found", in.WorkTypeID), nil)
	}
	detail := order.InstallationDetail{
		WorkTypeID:   wt.ID,
		WorkTypeName: wt.Name,
		ServiceTypes: in.ServiceTypes,
		Mandatory:    in.Mandatory,
	}
	if !wt.IsPureDelivery() {
		detail.Cost = wt.InstallationCost(line.Subtotal(), !in.Advanced)
	}
	if err := o.AttachInstallation(line.ID, detail); err != nil {
		return nil, s.mapDomainError(err)
	}
	if err := s.Orders.Save(o); err != nil {
		return nil, err
	}
	return o, nil
}

// DeliveryInput configures transport on a row.
type DeliveryInput struct {
	Method        string     `json:"method" validate:"required"`
	WorkTypeID    string     `json:"workTypeId"`
	ScheduledDate *time.Time `json:"scheduledDate"`
	Cost          *int64     `json:"cost"`
	ReceiverName  string     `json:"receiverName"`
	ReceiverPhone string     `json:"receiverPhone"`
	Address       string     `json:"address"`
	ZipCode       string     `json:"zipCode"`
	Note          string     `json:"note"`
}

// AttachDelivery configures transport on a row. Home delivery picks up
// its cost from the ambient work type when no explicit cost is given;
// an incompatible stock method is corrected, reported via corrected.
func (s *Service) AttachDelivery(_ context.Context, orderID, lineID string, in DeliveryInput) (*order.Order, bool, error) {
	o, err := s.Orders.Get(order.ID(orderID))
	if err != nil {
		return nil, false, s.mapDomainError(err)
	}
	line, err := o.Line(order.LineID(lineID))
	if err != nil {
		return nil, false, s.mapDomainError(err)
	}

	method, err := order.ParseDeliveryMethod(in.Method)
	if err != nil {
		return nil, false, common.ValidationError(err.Error(), err)
	}
	detail := order.DeliveryDetail{
		Method:        method,
		WorkTypeID:    in.WorkTypeID,
		ReceiverName:  in.ReceiverName,
		ReceiverPhone: in.ReceiverPhone,
		Address:       in.Address,
		ZipCode:       in.ZipCode,
		Note:          in.Note,
	}
	if in.ScheduledDate != nil {
		detail.ScheduledDate = *in.ScheduledDate
	}
	switch {
	case in.Cost != nil:
		detail.Cost = money.New(*in.Cost)
	case in.WorkTypeID != "":
		wt, ok := s.WorkTypes.Get(in.WorkTypeID)
		if !ok {
			return nil, false, common.NotFound(fmt.Sprintf("work type %s not found", in.WorkTypeID), nil)
		}
		detail.Cost = wt.DeliveryCost(line.Subtotal())
	}
	corrected, err := o.AttachDelivery(line.ID, detail)
	if err != nil {
		return nil, false, s.mapDomainError(err)
	}
	if err := s.Orders.Save(o); err != nil {
		return nil, false, err
	}
	return o, corrected, nil
}

// OverrideInput authorizes an adjusted charge for one work type.
type OverrideInput struct {
	Kind         string `json:"kind" validate:"required,oneof=INSTALL DELIVERY"`
	WorkTypeID   string `json:"workTypeId" validate:"required"`
	Original     int64  `json:"original" validate:"gte=0"`
	Actual       int64  `json:"actual" validate:"gte=0"`
	AuthorizedBy string `json:"authorizedBy" validate:"required"`
}

// AuthorizeOverride records an approved work type charge override. Its
// delta is apportioned across matching rows on the next calculation.
func (s *Service) AuthorizeOverride(_ context.Context, orderID string, in OverrideInput) (*order.Order, error) {
	o, err := s.Orders.Get(order.ID(orderID))
	if err != nil {
		return nil, s.mapDomainError(err)
	}
	override := order.WorkTypeOverride{
		Kind:         order.OverrideKind(in.Kind),
		WorkTypeID:   in.WorkTypeID,
		Original:     money.New(in.Original),
		Actual:       money.New(in.Actual),
		AuthorizedBy: in.AuthorizedBy,
	}
	if err := o.AuthorizeWorkTypePrice(override); err != nil {
		return nil, s.mapDomainError(err)
	}
	if err := s.Orders.Save(o); err != nil {
		return nil, err
	}
	return o, nil
}

// Calculate runs the pricing pipeline and stores the snapshot on the
// order. Member discount results are written back onto their lines so
// the rows show what each formula produced.
func (s *Service) Calculate(ctx context.Context, orderID string) (*order.Order, error) {
	o, err := s.Orders.Get(order.ID(orderID))
	if err != nil {
		return nil, s.mapDomainError(err)
	}

	started := time.Now()
	calc := s.Engine.Calculate(o)
	if obs.CalculationDuration != nil {
		obs.CalculationDuration.Observe(obs.DurationMillis(time.Since(started)))
	}
	if obs.CalculationsTotal != nil {
		result := "ok"
		if calc.HasWarnings() {
			result = "warnings"
		}
		obs.CalculationsTotal.WithLabelValues(result).Inc()
	}

	lines := o.Lines()
	for i, res := range calc.MemberDiscounts {
		if i < len(lines) {
			lines[i].MemberDisc = res.Delta
		}
	}
	o.SetCalculation(calc)
	if err := s.Orders.Save(o); err != nil {
		return nil, err
	}
	s.emit(ctx, events.TopicOrderPriced, o, map[string]any{
		"orderId":    string(o.ID),
		"grandTotal": calc.GrandTotal.Int64(),
		"warnings":   len(calc.Warnings),
	})
	return o, nil
}

// Submit promotes a calculated draft to a quotation.
func (s *Service) Submit(ctx context.Context, orderID string) (*order.Order, error) {
	o, err := s.Orders.Get(order.ID(orderID))
	if err != nil {
		return nil, s.mapDomainError(err)
	}
	if err := o.Submit(); err != nil {
		return nil, s.mapDomainError(err)
	}
	if err := s.Orders.Save(o); err != nil {
		return nil, err
	}
	s.emit(ctx, events.TopicOrderSubmitted, o, map[string]any{
		"orderId":   string(o.ID),
		"projectId": o.ProjectID.String(),
	})
	return o, nil
}

// ApplyCoupon validates a coupon against the order's rows, redeems one
// use from its quota and writes the allocated discounts onto the rows.
func (s *Service) ApplyCoupon(ctx context.Context, orderID, couponID string) (*order.Order, coupon.Result, error) {
	o, err := s.Orders.Get(order.ID(orderID))
	if err != nil {
		return nil, coupon.Result{}, s.mapDomainError(err)
	}
	if !o.Status.CanModify() {
		return nil, coupon.Result{}, s.mapDomainError(order.ErrNotModifiable)
	}
	if o.CouponCode != "" {
		return nil, coupon.Result{}, common.RuleViolation("COUPON_ALREADY_APPLIED",
			fmt.Sprintf("coupon %s is already applied", o.CouponCode), nil)
	}

	lines := o.Lines()
	items := make([]coupon.Item, len(lines))
	for i, l := range lines {
		items[i] = coupon.Item{
			SKU:              l.SKU,
			Subtotal:         l.Subtotal(),
			InstallationCost: l.InstallationCost,
			HasInstallation:  l.HasInstallation(),
		}
	}
	result, err := s.Coupons.Validate(couponID, items)
	if err != nil {
		if obs.CouponApplicationsTotal != nil {
			obs.CouponApplicationsTotal.WithLabelValues("rejected").Inc()
		}
		return nil, coupon.Result{}, s.mapCouponError(err)
	}
	if err := s.Coupons.Store.Redeem(couponID); err != nil {
		return nil, coupon.Result{}, s.mapCouponError(err)
	}

	for i, alloc := range result.Allocations {
		lines[i].CouponDisc = alloc
		if result.FreeInstallation && lines[i].HasInstallation() {
			lines[i].FreeInstall = true
		}
	}
	o.CouponCode = couponID
	if err := s.Orders.Save(o); err != nil {
		return nil, coupon.Result{}, err
	}
	if obs.CouponApplicationsTotal != nil {
		obs.CouponApplicationsTotal.WithLabelValues("ok").Inc()
	}
	s.emit(ctx, events.TopicCouponApplied, o, map[string]any{
		"orderId":  string(o.ID),
		"couponId": couponID,
		"discount": result.TotalAllocated().Int64(),
	})
	return o, result, nil
}

// RemoveCoupon clears the applied coupon from the order and returns its
// use to the quota.
func (s *Service) RemoveCoupon(ctx context.Context, orderID string) (*order.Order, error) {
	o, err := s.Orders.Get(order.ID(orderID))
	if err != nil {
		return nil, s.mapDomainError(err)
	}
	if o.CouponCode == "" {
		return nil, common.RuleViolation("NO_COUPON_APPLIED", "order has no coupon applied", nil)
	}
	couponID := o.CouponCode
	for _, l := range o.Lines() {
		l.CouponDisc = money.Zero
		l.FreeInstall = false
	}
	o.CouponCode = ""
	if err := s.Coupons.Store.Restore(couponID); err != nil {
		s.Logger.Warn().Err(err).Str("coupon_id", couponID).Msg("restore coupon quota failed")
	}
	if err := s.Orders.Save(o); err != nil {
		return nil, err
	}
	s.emit(ctx, events.TopicCouponRemoved, o, map[string]any{
		"orderId":  string(o.ID),
		"couponId": couponID,
	})
	return o, nil
}

// BonusRedeemInput requests a point redemption against one row.
type BonusRedeemInput struct {
	SKU    string `json:"sku" validate:"required"`
	Points int    `json:"points" validate:"required,gt=0"`
}

// RedeemBonus converts member points into a discount on one row. The
// point count is silently capped at the row subtotal.
func (s *Service) RedeemBonus(ctx context.Context, orderID string, in BonusRedeemInput) (*order.Order, bonus.Redemption, error) {
	o, err := s.Orders.Get(order.ID(orderID))
	if err != nil {
		return nil, bonus.Redemption{}, s.mapDomainError(err)
	}

	redemption, err := s.Bonus.Redeem(o.Customer.MemberID, in.SKU, in.Points, o.Customer.TempCard, bonusLines(o))
	if err != nil {
		if obs.BonusRedemptionsTotal != nil {
			obs.BonusRedemptionsTotal.WithLabelValues("rejected").Inc()
		}
		return nil, bonus.Redemption{}, s.mapBonusError(err)
	}

	for _, l := range o.Lines() {
		if l.SKU == in.SKU {
			l.BonusDisc = l.BonusDisc.Add(redemption.Discount)
			break
		}
	}
	if err := s.Orders.Save(o); err != nil {
		return nil, bonus.Redemption{}, err
	}
	if obs.BonusRedemptionsTotal != nil {
		obs.BonusRedemptionsTotal.WithLabelValues("ok").Inc()
	}
	s.emit(ctx, events.TopicBonusRedeemed, o, map[string]any{
		"orderId": string(o.ID),
		"sku":     in.SKU,
		"points":  redemption.Points,
	})
	return o, redemption, nil
}

// BonusCancelInput reverses a redemption on one row.
type BonusCancelInput struct {
	SKU string `json:"sku" validate:"required"`
}

// CancelBonus reverses the bonus discount on one row and credits the
// points back to the member.
func (s *Service) CancelBonus(ctx context.Context, orderID string, in BonusCancelInput) (*order.Order, int, error) {
	o, err := s.Orders.Get(order.ID(orderID))
	if err != nil {
		return nil, 0, s.mapDomainError(err)
	}

	points, err := s.Bonus.Cancel(o.Customer.MemberID, in.SKU, bonusLines(o))
	if err != nil {
		return nil, 0, s.mapBonusError(err)
	}
	for _, l := range o.Lines() {
		if l.SKU == in.SKU {
			l.BonusDisc = money.Zero
			break
		}
	}
	if err := s.Orders.Save(o); err != nil {
		return nil, 0, err
	}
	s.emit(ctx, events.TopicBonusCanceled, o, map[string]any{
		"orderId": string(o.ID),
		"sku":     in.SKU,
		"points":  points,
	})
	return o, points, nil
}

// AvailablePoints reports the point balance for the order's member.
func (s *Service) AvailablePoints(_ context.Context, orderID string) (string, int, error) {
	o, err := s.Orders.Get(order.ID(orderID))
	if err != nil {
		return "", 0, s.mapDomainError(err)
	}
	if o.Customer.TempCard {
		return "", 0, s.mapBonusError(bonus.ErrTempCard)
	}
	return o.Customer.MemberID, s.Bonus.AvailablePoints(o.Customer.MemberID), nil
}

func bonusLines(o *order.Order) []bonus.Line {
	lines := o.Lines()
	out := make([]bonus.Line, len(lines))
	for i, l := range lines {
		out[i] = bonus.Line{
			SKU:       l.SKU,
			Name:      l.SKUName,
			Subtotal:  l.Subtotal(),
			BonusDisc: l.BonusDisc,
		}
	}
	return out
}

func (s *Service) emit(ctx context.Context, topic string, o *order.Order, payload map[string]any) {
	if s.Events == nil {
		return
	}
	aggregate, err := uuid.Parse(string(o.ID))
	if err != nil {
		return
	}
	if _, err := s.Events.Emit(ctx, topic, aggregate, payload); err != nil {
		s.Logger.Warn().Err(err).Str("topic", topic).Msg("emit domain event failed")
	}
}

func (s *Service) mapDomainError(err error) error {
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		return common.NotFound("order not found", err)
	case errors.Is(err, order.ErrLineNotFound):
		return common.NotFound("order line not found", err)
	case errors.Is(err, order.ErrNotModifiable):
		return common.RuleViolation("ORDER_NOT_MODIFIABLE", err.Error(), err)
	case errors.Is(err, order.ErrLineLimit):
		return common.RuleViolation("LINE_LIMIT_REACHED", err.Error(), err)
	case errors.Is(err, order.ErrIncompatibleMethods):
		return common.RuleViolation("INCOMPATIBLE_METHODS", err.Error(), err)
	case errors.Is(err, order.ErrEmptyOrder):
		return common.RuleViolation("EMPTY_ORDER", err.Error(), err)
	case errors.Is(err, order.ErrCalculationRequired):
		return common.RuleViolation("CALCULATION_REQUIRED", err.Error(), err)
	case errors.Is(err, order.ErrInvalidTransition):
		return common.RuleViolation("INVALID_TRANSITION", err.Error(), err)
	default:
		return err
	}
}

func (s *Service) mapCouponError(err error) error {
	switch {
	case errors.Is(err, coupon.ErrNotFound):
		return common.NotFound(err.Error(), err)
	case errors.Is(err, coupon.ErrNotYetValid):
		return common.RuleViolation("COUPON_NOT_YET_VALID", err.Error(), err)
	case errors.Is(err, coupon.ErrExpired):
		return common.RuleViolation("COUPON_EXPIRED", err.Error(), err)
	case errors.Is(err, coupon.ErrExhausted):
		return common.RuleViolation("COUPON_EXHAUSTED", err.Error(), err)
	case errors.Is(err, coupon.ErrNoEligibleLines):
		return common.RuleViolation("COUPON_NOT_ELIGIBLE", err.Error(), err)
	case errors.Is(err, coupon.ErrBelowMinimum):
		return common.RuleViolation("COUPON_BELOW_MINIMUM", err.Error(), err)
	default:
		return err
	}
}

func (s *Service) mapBonusError(err error) error {
	switch {
	case errors.Is(err, bonus.ErrTempCard):
		return common.RuleViolation("TEMP_CARD_NO_BONUS", err.Error(), err)
	case errors.Is(err, bonus.ErrInsufficientPoints):
		return common.RuleViolation("INSUFFICIENT_POINTS", err.Error(), err)
	case errors.Is(err, bonus.ErrBelowMinimum):
		return common.RuleViolation("BELOW_MINIMUM_POINTS", err.Error(), err)
	case errors.Is(err, bonus.ErrLineNotFound):
		return common.NotFound(err.Error(), err)
	case errors.Is(err, bonus.ErrNothingToCancel):
		return common.RuleViolation("NOTHING_TO_CANCEL", err.Error(), err)
	default:
		return err
	}
}
