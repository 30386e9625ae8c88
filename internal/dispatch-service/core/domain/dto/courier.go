package dto

type LocationPingDto struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type LocationPingResponseDto struct {
	CourierID string `json:"courier_id"`
	UpdatedAt string `json:"updated_at"`
}

type ShiftRequestDto struct {
	Active bool `json:"active"`
}

type ShiftResponseDto struct {
	CourierID string `json:"courier_id"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

type CompleteRequestDto struct {
	OrderID string `json:"order_id"`
}

type CompleteResponseDto struct {
	CourierID string `json:"courier_id"`
	OrderID   string `json:"order_id"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}
