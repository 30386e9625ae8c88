package services

import (
	"context"
	"fmt"
	"time"

	"quickdrop/internal/dispatch-service/core/domain/model"
	"quickdrop/internal/dispatch-service/core/ports"
	"quickdrop/internal/mylogger"

	messagebrokerdto "quickdrop/internal/dispatch-service/core/domain/message_broker_dto"
)

type CourierService struct {
	ctx      context.Context
	mylog    mylogger.Logger
	couriers ports.ICourierRepo
	broker   ports.IDispatchBroker
}

func NewCourierService(ctx context.Context,
	log mylogger.Logger,
	couriers ports.ICourierRepo,
	broker ports.IDispatchBroker,
) ports.ICourierService {
	return &CourierService{
		ctx:      ctx,
		mylog:    log,
		couriers: couriers,
		broker:   broker,
	}
}

// UpdateLocation persists the courier's position and forwards the ping to
// the realtime pipeline. The ping itself is ephemeral: only the current
// position survives.
func (cs *CourierService) UpdateLocation(ctx context.Context, courierID string, lat, lng float64) (model.Courier, error) {
	log := cs.mylog.Action("UpdateLocation").With("courier_id", courierID)

	ctx, cancel := context.WithTimeout(ctx, time.Second*15)
	defer cancel()

	courier, err := cs.couriers.UpdateLocation(ctx, courierID, lat, lng)
	if err != nil {
		return model.Courier{}, err
	}

	if cs.broker != nil {
		msg := messagebrokerdto.CourierLocation{
			CourierID: courierID,
			Latitude:  lat,
			Longitude: lng,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}
		key := fmt.Sprintf("courier.location.%s", courierID)
		if err := cs.broker.PublishJSON(cs.ctx, ports.DispatchExchange, key, msg); err != nil {
			log.Error("cannot publish location update", err)
		}
	}

	return courier, nil
}

func (cs *CourierService) SetShift(ctx context.Context, courierID string, active bool) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*15)
	defer cancel()

	if err := cs.couriers.SetActive(ctx, courierID, active); err != nil {
		return err
	}
	cs.mylog.Action("SetShift").Info("courier shift changed", "courier_id", courierID, "active", active)
	return nil
}

func (cs *CourierService) CheckCourierById(ctx context.Context, courierID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()
	return cs.couriers.CheckCourierById(ctx, courierID)
}
