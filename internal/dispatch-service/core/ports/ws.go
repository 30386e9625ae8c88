package ports

import "quickdrop/internal/dispatch-service/core/domain/model"

// IRealtimeBus fans events out to interested subscriber rooms.
// Delivery is best-effort and fire-and-forget: a disconnected subscriber
// silently misses messages.
type IRealtimeBus interface {
	// PublishLocation delivers a courier position to the admin room only.
	PublishLocation(ev model.LocationEvent)

	// PublishOffer delivers an assignment offer to the winning courier's
	// own room.
	PublishOffer(offer model.AssignmentOffer)

	// PublishOrderStatus delivers to the order's watchers and duplicates
	// to the admin room.
	PublishOrderStatus(orderID string, status model.OrderStatus, payload []byte)
}
