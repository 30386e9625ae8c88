package messagebrokerdto

// AssignmentOffer <- dispatch_topic exchange, courier.offer.{courier_id}
type AssignmentOffer struct {
	CourierID        string  `json:"courier_id"`
	OrderID          string  `json:"order_id"`
	AssignmentID     string  `json:"assignment_id"`
	DistanceKm       float64 `json:"distance_km"`
	EstimatedMinutes int     `json:"estimated_minutes"`
	MaxMinutes       int     `json:"max_minutes"`
	Timestamp        string  `json:"timestamp"`
}
