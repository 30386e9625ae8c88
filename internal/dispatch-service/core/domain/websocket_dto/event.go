package websocketdto

import "encoding/json"

type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	EventAuth        = "auth"
	EventLocation    = "location"
	EventOrderStatus = "order_status"
	EventOffer       = "offer"
	EventError       = "error"
)

type AuthMessage struct {
	Token string `json:"token"`
}

type LocationMessage struct {
	CourierID string  `json:"courier_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timestamp string  `json:"timestamp"`
}

type OfferMessage struct {
	OrderID          string  `json:"order_id"`
	AssignmentID     string  `json:"assignment_id"`
	DistanceKm       float64 `json:"distance_km"`
	EstimatedMinutes int     `json:"estimated_minutes"`
	MaxMinutes       int     `json:"max_minutes"`
}

type OrderStatusMessage struct {
	OrderID string          `json:"order_id"`
	Status  string          `json:"status"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type ErrorMessage struct {
	Message string `json:"message"`
}
