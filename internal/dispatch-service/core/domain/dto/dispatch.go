package dto

// API transfer data

type AssignRequestDto struct {
	StoreID         string `json:"store_id"`
	DeliveryAddress string `json:"delivery_address"`
}

type AssignedCourierDto struct {
	CourierID string  `json:"courier_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type AssignResponseDto struct {
	OrderID          string              `json:"order_id"`
	AssignmentID     string              `json:"assignment_id,omitempty"`
	Courier          *AssignedCourierDto `json:"courier"`
	DistanceKm       float64             `json:"distance_km"`
	EstimatedMinutes int                 `json:"estimated_minutes"`
	MaxMinutes       int                 `json:"max_minutes"`
}

type EstimateResponseDto struct {
	StoreID          string  `json:"store_id"`
	DistanceKm       float64 `json:"distance_km"`
	EstimatedMinutes int     `json:"estimated_minutes"`
	MaxMinutes       int     `json:"max_minutes"`
}
