package dto

type FleetOverviewDto struct {
	ActiveCouriers    int64 `json:"active_couriers"`
	AvailableCouriers int64 `json:"available_couriers"`
	BusyCouriers      int64 `json:"busy_couriers"`
	OfflineCouriers   int64 `json:"offline_couriers"`
	Stores            int64 `json:"stores"`
}
