package services

import (
	"context"

	"quickdrop/internal/config"
	"quickdrop/internal/dispatch-service/core/ports"
	"quickdrop/internal/mylogger"
)

type Service struct {
	DispatchService ports.IDispatchService
	CourierService  ports.ICourierService
	AdminService    ports.IAdminService
}

func New(ctx context.Context,
	log mylogger.Logger,
	couriers ports.ICourierRepo,
	stores ports.IStoreRepo,
	geocoder ports.IGeocoder,
	broker ports.IDispatchBroker,
	dispatchCfg config.Dispatchconfig,
) *Service {
	return &Service{
		DispatchService: NewDispatchService(ctx, log, couriers, stores, geocoder, broker, dispatchCfg),
		CourierService:  NewCourierService(ctx, log, couriers, broker),
		AdminService:    NewAdminService(log, couriers),
	}
}
