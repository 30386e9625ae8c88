package services

import (
	"context"
	"time"

	"quickdrop/internal/dispatch-service/core/domain/model"
	"quickdrop/internal/dispatch-service/core/ports"
	"quickdrop/internal/mylogger"
)

type AdminService struct {
	mylog    mylogger.Logger
	couriers ports.ICourierRepo
}

func NewAdminService(log mylogger.Logger, couriers ports.ICourierRepo) ports.IAdminService {
	return &AdminService{
		mylog:    log,
		couriers: couriers,
	}
}

func (as *AdminService) Overview(ctx context.Context) (model.FleetOverview, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()
	return as.couriers.FleetOverview(ctx)
}
