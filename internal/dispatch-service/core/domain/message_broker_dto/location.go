package messagebrokerdto

// CourierLocation <- dispatch_topic exchange, courier.location.{courier_id}
type CourierLocation struct {
	CourierID string  `json:"courier_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timestamp string  `json:"timestamp"`
}
