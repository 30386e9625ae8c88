package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quickdrop/internal/config"
	"quickdrop/internal/dispatch-service/core/domain/model"
	"quickdrop/internal/dispatch-service/core/myerrors"
	"quickdrop/internal/dispatch-service/core/ports"
	"quickdrop/internal/geo"
	"quickdrop/internal/mylogger"

	messagebrokerdto "quickdrop/internal/dispatch-service/core/domain/message_broker_dto"

	"github.com/google/uuid"
)

type DispatchService struct {
	ctx      context.Context
	mylog    mylogger.Logger
	couriers ports.ICourierRepo
	stores   ports.IStoreRepo
	geocoder ports.IGeocoder
	broker   ports.IDispatchBroker
	cfg      config.Dispatchconfig
}

func NewDispatchService(ctx context.Context,
	log mylogger.Logger,
	couriers ports.ICourierRepo,
	stores ports.IStoreRepo,
	geocoder ports.IGeocoder,
	broker ports.IDispatchBroker,
	cfg config.Dispatchconfig,
) ports.IDispatchService {
	return &DispatchService{
		ctx:      ctx,
		mylog:    log,
		couriers: couriers,
		stores:   stores,
		geocoder: geocoder,
		broker:   broker,
		cfg:      cfg,
	}
}

// AssignCourier selects a courier for the order and binds it atomically.
// A result with a nil Courier means nobody is available right now; the
// caller must queue the order, it is not an error.
func (ds *DispatchService) AssignCourier(ctx context.Context, storeID, orderID, deliveryAddress string) (model.DispatchResult, error) {
	log := ds.mylog.Action("AssignCourier").With("order_id", orderID, "store_id", storeID)

	ctx, cancel := context.WithTimeout(ctx, time.Second*15)
	defer cancel()

	dest, err := ds.geocoder.ResolveAddress(ctx, deliveryAddress)
	if err != nil {
		return model.DispatchResult{}, fmt.Errorf("resolve %q: %w", deliveryAddress, err)
	}

	store, err := ds.stores.FindByID(ctx, storeID)
	if err != nil {
		return model.DispatchResult{}, err
	}

	distance := geo.DistanceKm(store.Latitude, store.Longitude, dest.Latitude, dest.Longitude)
	estimate := geo.EstimateDelivery(distance)
	result := model.DispatchResult{
		DistanceKm:       geo.RoundKm(distance),
		EstimatedMinutes: estimate.Minutes,
		MaxMinutes:       estimate.MaxMinutes,
	}

	for attempt := 0; attempt < ds.cfg.ClaimRetries; attempt++ {
		courier, err := ds.selectAndClaim(ctx, store, orderID)
		if err == nil {
			result.Courier = &courier
			result.AssignmentID = uuid.NewString()
			log.Info("courier assigned",
				"courier_id", courier.CourierID,
				"assignment_id", result.AssignmentID,
				"distance_km", result.DistanceKm,
				"estimated_minutes", result.EstimatedMinutes,
			)
			ds.publishOffer(orderID, result, log)
			ds.publishStatus(orderID, model.StatusAssigned, log)
			return result, nil
		}
		if errors.Is(err, myerrors.ErrCourierNotFound) {
			log.Info("no courier available", "attempt", attempt+1)
			return result, nil
		}
		if errors.Is(err, myerrors.ErrCourierClaimed) {
			// every candidate of this round was taken mid-flight; re-query
			log.Warn("all candidates claimed by concurrent requests, reselecting", "attempt", attempt+1)
			continue
		}
		return model.DispatchResult{}, err
	}

	log.Info("claim contention exhausted retries, leaving order unassigned")
	return result, nil
}

// selectAndClaim runs one selection round: nearest candidates first, then
// the no-distance fallback. Returns ErrCourierNotFound when the store has
// no available courier at all, ErrCourierClaimed when every courier seen
// this round was snatched by a concurrent request.
func (ds *DispatchService) selectAndClaim(ctx context.Context, store model.DarkStore, orderID string) (model.Courier, error) {
	candidates, err := ds.couriers.FindCandidates(ctx, store.StoreID, store.Latitude, store.Longitude, ds.cfg.SearchRadiusKm, ds.cfg.CandidateLimit)
	if err != nil {
		return model.Courier{}, err
	}

	raced := false
	for _, cand := range candidates {
		err := ds.couriers.ClaimCourier(ctx, cand.CourierID, orderID)
		if errors.Is(err, myerrors.ErrCourierClaimed) {
			raced = true
			continue
		}
		if err != nil {
			return model.Courier{}, err
		}
		return cand.Courier, nil
	}

	fallback, err := ds.couriers.FindAnyAvailable(ctx, store.StoreID)
	if err != nil {
		if errors.Is(err, myerrors.ErrCourierNotFound) && raced {
			return model.Courier{}, myerrors.ErrCourierClaimed
		}
		return model.Courier{}, err
	}

	if err := ds.couriers.ClaimCourier(ctx, fallback.CourierID, orderID); err != nil {
		return model.Courier{}, err
	}
	return fallback, nil
}

// EstimateDeliveryTime computes distance and ETA for a store-to-address
// delivery without consulting courier availability. Callable standalone,
// e.g. to show an ETA before the order is placed.
func (ds *DispatchService) EstimateDeliveryTime(ctx context.Context, storeID, deliveryAddress string) (float64, geo.Estimate, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*15)
	defer cancel()

	dest, err := ds.geocoder.ResolveAddress(ctx, deliveryAddress)
	if err != nil {
		return 0, geo.Estimate{}, fmt.Errorf("resolve %q: %w", deliveryAddress, err)
	}

	store, err := ds.stores.FindByID(ctx, storeID)
	if err != nil {
		return 0, geo.Estimate{}, err
	}

	distance := geo.DistanceKm(store.Latitude, store.Longitude, dest.Latitude, dest.Longitude)
	return geo.RoundKm(distance), geo.EstimateDelivery(distance), nil
}

// CompleteDelivery clears the courier's current order and announces the
// delivered status.
func (ds *DispatchService) CompleteDelivery(ctx context.Context, courierID, orderID string) error {
	log := ds.mylog.Action("CompleteDelivery").With("courier_id", courierID, "order_id", orderID)

	ctx, cancel := context.WithTimeout(ctx, time.Second*15)
	defer cancel()

	if err := ds.couriers.ReleaseCourier(ctx, courierID); err != nil {
		return err
	}
	log.Info("delivery completed")
	ds.publishStatus(orderID, model.StatusDelivered, log)
	return nil
}

// publishOffer routes the assignment to the winning courier's websocket
// room through the broker bridge. Best-effort like publishStatus.
func (ds *DispatchService) publishOffer(orderID string, result model.DispatchResult, log mylogger.Logger) {
	if ds.broker == nil || result.Courier == nil {
		return
	}
	msg := messagebrokerdto.AssignmentOffer{
		CourierID:        result.Courier.CourierID,
		OrderID:          orderID,
		AssignmentID:     result.AssignmentID,
		DistanceKm:       result.DistanceKm,
		EstimatedMinutes: result.EstimatedMinutes,
		MaxMinutes:       result.MaxMinutes,
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
	}
	key := fmt.Sprintf("courier.offer.%s", result.Courier.CourierID)
	if err := ds.broker.PublishJSON(ds.ctx, ports.DispatchExchange, key, msg); err != nil {
		log.Error("cannot publish assignment offer", err)
	}
}

// publishStatus is a best-effort side effect: a broker outage must not fail
// the assignment that already committed.
func (ds *DispatchService) publishStatus(orderID string, status model.OrderStatus, log mylogger.Logger) {
	if ds.broker == nil {
		return
	}
	msg := messagebrokerdto.OrderStatusChanged{
		OrderID:   orderID,
		Status:    status.String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	key := fmt.Sprintf("order.status.%s", orderID)
	if err := ds.broker.PublishJSON(ds.ctx, ports.DispatchExchange, key, msg); err != nil {
		log.Error("cannot publish order status", err, "status", status.String())
	}
}
