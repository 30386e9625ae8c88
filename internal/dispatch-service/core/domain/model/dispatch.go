package model

// DispatchResult is the outcome of a courier-assignment request.
// Courier is nil when nobody is available; that is a legitimate outcome,
// the caller is expected to queue the order and retry later.
type DispatchResult struct {
	Courier          *Courier
	AssignmentID     string // uuid, empty when Courier is nil
	DistanceKm       float64
	EstimatedMinutes int
	MaxMinutes       int
}

// AssignmentOffer is the notification pushed to the courier that won the
// claim, carrying everything needed to start the delivery.
type AssignmentOffer struct {
	CourierID        string
	OrderID          string
	AssignmentID     string
	DistanceKm       float64
	EstimatedMinutes int
	MaxMinutes       int
}
