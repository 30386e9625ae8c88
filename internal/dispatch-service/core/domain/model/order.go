package model

type OrderStatus string

const (
	StatusCreated    OrderStatus = "created"
	StatusAssigned   OrderStatus = "assigned"
	StatusPicking    OrderStatus = "picking"
	StatusDelivering OrderStatus = "delivering"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusCreated, StatusAssigned, StatusPicking, StatusDelivering, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s OrderStatus) String() string {
	return string(s)
}

// FleetOverview is the operational snapshot shown on the admin dashboard.
type FleetOverview struct {
	ActiveCouriers    int64
	AvailableCouriers int64
	BusyCouriers      int64
	OfflineCouriers   int64
	Stores            int64
}
