package model

import "time"

// LocationEvent is an ephemeral courier position update. It is forwarded
// to subscribers and never persisted beyond the courier's current position.
type LocationEvent struct {
	CourierID string
	Latitude  float64
	Longitude float64
	Timestamp time.Time
}
