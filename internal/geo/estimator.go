package geo

import "math"

const (
	// EarthRadiusKm is Earth's radius in kilometers for the haversine formula.
	EarthRadiusKm = 6371.0

	// PickMinutes is the fixed time a picker needs to collect an order.
	PickMinutes = 5
	// HandoffMinutes is the fixed overhead for locating the exact address.
	HandoffMinutes = 5
	// MinutesPerKm is the assumed courier travel pace.
	MinutesPerKm = 2
	// SlackMinutes pads the point estimate into an upper bound.
	SlackMinutes = 10
)

// DistanceKm calculates the great-circle distance between two points
// on Earth in kilometers using the haversine formula.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	const degToRad = math.Pi / 180
	dLat := (lat2 - lat1) * degToRad
	dLng := (lng2 - lng1) * degToRad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// Estimate is a delivery-time prediction: a point estimate and an upper bound.
type Estimate struct {
	Minutes    int
	MaxMinutes int
}

// EstimateDelivery predicts delivery time for a store-to-door distance.
// The distance is assumed non-negative.
func EstimateDelivery(distanceKm float64) Estimate {
	minutes := int(math.Round(PickMinutes + distanceKm*MinutesPerKm + HandoffMinutes))
	return Estimate{
		Minutes:    minutes,
		MaxMinutes: minutes + SlackMinutes,
	}
}

// RoundKm rounds a distance to one decimal place for reporting.
func RoundKm(distanceKm float64) float64 {
	return math.Round(distanceKm*10) / 10
}
