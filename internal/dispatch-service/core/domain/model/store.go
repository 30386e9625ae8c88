package model

// DarkStore is a fulfillment hub: orders are picked here and couriers
// depart from here. Not open to walk-in customers.
type DarkStore struct {
	StoreID   string // uuid
	Name      string
	Latitude  float64
	Longitude float64
}

// GeoPoint is a resolved geographic position.
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}
