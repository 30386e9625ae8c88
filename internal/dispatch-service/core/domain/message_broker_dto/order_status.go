package messagebrokerdto

import "encoding/json"

// OrderStatusChanged <- dispatch_topic exchange, order.status.{order_id}
type OrderStatusChanged struct {
	OrderID   string          `json:"order_id"`
	Status    string          `json:"status"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp string          `json:"timestamp"`
}
