package checkout

import (
	"time"

	"github.com/tgfc/som/internal/order"
)

// orderView flattens the aggregate into the JSON shape the storefront
// consumes. Amounts are integral currency units.
func orderView(o *order.Order) map[string]any {
	lines := o.Lines()
	lineViews := make([]map[string]any, 0, len(lines))
	for _, l := range lines {
		lineViews = append(lineViews, lineView(l))
	}

	view := map[string]any{
		"orderId":   string(o.ID),
		"projectId": o.ProjectID.String(),
		"status":    string(o.Status),
		"storeId":   o.StoreID,
		"channelId": o.ChannelID,
		"customer": map[string]any{
			"memberId":     o.Customer.MemberID,
			"cardType":     o.Customer.CardType,
			"name":         o.Customer.Name,
			"phone":        o.Customer.Phone,
			"discountType": o.Customer.DiscountType.String(),
			"tempCard":     o.Customer.TempCard,
		},
		"couponCode": o.CouponCode,
		"lines":      lineViews,
		"createdAt":  o.CreatedAt.Format(time.RFC3339),
		"updatedAt":  o.UpdatedAt.Format(time.RFC3339),
	}
	if !o.Calculation.Empty() {
		view["calculation"] = calculationView(o.Calculation)
	}
	return view
}

func lineView(l *order.Line) map[string]any {
	view := map[string]any{
		"lineId":           string(l.ID),
		"serialNo":         l.SerialNo,
		"sku":              l.SKU,
		"skuName":          l.SKUName,
		"quantity":         l.Quantity,
		"unitPrice":        l.UnitPrice.Int64(),
		"actualUnitPrice":  l.ActualUnitPrice.Int64(),
		"subtotal":         l.Subtotal().Int64(),
		"taxType":          string(l.TaxType),
		"deliveryMethod":   string(l.DeliveryMethod),
		"stockMethod":      string(l.StockMethod),
		"installationCost": l.InstallationCost.Int64(),
		"deliveryCost":     l.DeliveryCost.Int64(),
		"memberDisc":       l.MemberDisc.Int64(),
		"couponDisc":       l.CouponDisc.Int64(),
		"bonusDisc":        l.BonusDisc.Int64(),
		"priceOverridden":  l.PriceOverridden,
		"freeInstall":      l.FreeInstall,
	}
	if l.HasInstallation() {
		view["installation"] = map[string]any{
			"workTypeId":   l.Installation.WorkTypeID,
			"workTypeName": l.Installation.WorkTypeName,
			"serviceTypes": l.Installation.ServiceTypes,
			"cost":         l.Installation.Cost.Int64(),
			"mandatory":    l.Installation.Mandatory,
		}
	}
	if l.Delivery.Method != "" {
		delivery := map[string]any{
			"method":       string(l.Delivery.Method),
			"workTypeId":   l.Delivery.WorkTypeID,
			"cost":         l.Delivery.Cost.Int64(),
			"receiverName": l.Delivery.ReceiverName,
			"address":      l.Delivery.Address,
			"zipCode":      l.Delivery.ZipCode,
		}
		if !l.Delivery.ScheduledDate.IsZero() {
			delivery["scheduledDate"] = l.Delivery.ScheduledDate.Format(time.RFC3339)
		}
		view["delivery"] = delivery
	}
	return view
}

func calculationView(c order.Calculation) map[string]any {
	memberDiscounts := make([]map[string]any, 0, len(c.MemberDiscounts))
	for _, m := range c.MemberDiscounts {
		memberDiscounts = append(memberDiscounts, map[string]any{
			"sku":             m.SKU,
			"typeCode":        m.TypeCode,
			"originalPrice":   m.OriginalPrice.Int64(),
			"discountedPrice": m.DiscountedPrice.Int64(),
			"delta":           m.Delta.Int64(),
			"anomalous":       m.Anomalous,
		})
	}
	apportionments := make([]map[string]any, 0, len(c.Apportionments))
	for _, a := range c.Apportionments {
		perLine := make([]map[string]any, 0, len(a.PerLine))
		for _, d := range a.PerLine {
			perLine = append(perLine, map[string]any{
				"lineId":   string(d.LineID),
				"serialNo": d.SerialNo,
				"amount":   d.Amount.Int64(),
			})
		}
		apportionments = append(apportionments, map[string]any{
			"kind":         string(a.Kind),
			"workTypeId":   a.WorkTypeID,
			"totalDelta":   a.TotalDelta.Int64(),
			"perLine":      perLine,
			"authorizedBy": a.AuthorizedBy,
		})
	}
	return map[string]any{
		"productTotal":        c.ProductTotal.Int64(),
		"installationTotal":   c.InstallationTotal.Int64(),
		"deliveryTotal":       c.DeliveryTotal.Int64(),
		"memberDiscount":      c.MemberDiscount.Int64(),
		"directShipmentTotal": c.DirectShipmentTotal.Int64(),
		"couponDiscount":      c.CouponDiscount.Int64(),
		"bonusDiscount":       c.BonusDiscount.Int64(),
		"taxAmount":           c.TaxAmount.Int64(),
		"grandTotal":          c.GrandTotal.Int64(),
		"memberDiscounts":     memberDiscounts,
		"apportionments":      apportionments,
		"warnings":            c.Warnings,
		"calculatedAt":        c.CalculatedAt.Format(time.RFC3339),
	}
}
