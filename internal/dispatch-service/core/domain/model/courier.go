package model

import "time"

type Courier struct {
	CourierID      string // uuid
	StoreID        string // uuid, home dark store
	Latitude       float64
	Longitude      float64
	IsActive       bool
	CurrentOrderID *string // nil means available
	UpdatedAt      time.Time
}

// Available reports whether the courier can take a new order.
func (c Courier) Available() bool {
	return c.IsActive && c.CurrentOrderID == nil
}

// CandidateCourier is a courier that passed the dispatch filters,
// annotated with its distance to the dark store.
type CandidateCourier struct {
	Courier
	DistanceKm float64
}
