package events

// Topic constants for domain events emitted by the platform.
const (
	TopicOrderCreated   = "order.created"
	TopicOrderPriced    = "order.priced"
	TopicOrderSubmitted = "order.submitted"
	TopicOrderActivated = "order.activated"
	TopicOrderCanceled  = "order.canceled"
	TopicCouponApplied  = "coupon.applied"
	TopicCouponRemoved  = "coupon.removed"
	TopicBonusRedeemed  = "bonus.redeemed"
	TopicBonusCanceled  = "bonus.canceled"
)

// DefaultTopics returns the canonical list of topics that support notifications.
func DefaultTopics() []string {
	return []string{
		TopicOrderCreated,
		TopicOrderPriced,
		TopicOrderSubmitted,
		TopicOrderActivated,
		TopicOrderCanceled,
		TopicCouponApplied,
		TopicCouponRemoved,
		TopicBonusRedeemed,
		TopicBonusCanceled,
	}
}
