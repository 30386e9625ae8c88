package ports

import (
	"context"

	"quickdrop/internal/dispatch-service/core/domain/model"
	"quickdrop/internal/geo"
)

type IDispatchService interface {
	AssignCourier(ctx context.Context, storeID, orderID, deliveryAddress string) (model.DispatchResult, error)
	EstimateDeliveryTime(ctx context.Context, storeID, deliveryAddress string) (float64, geo.Estimate, error)
	CompleteDelivery(ctx context.Context, courierID, orderID string) error
}

type ICourierService interface {
	UpdateLocation(ctx context.Context, courierID string, lat, lng float64) (model.Courier, error)
	SetShift(ctx context.Context, courierID string, active bool) error
	CheckCourierById(ctx context.Context, courierID string) (bool, error)
}

type IAdminService interface {
	Overview(ctx context.Context) (model.FleetOverview, error)
}
