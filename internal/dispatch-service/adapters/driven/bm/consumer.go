package bm

import (
	"context"
	"encoding/json"
	"time"

	"quickdrop/internal/dispatch-service/core/domain/model"
	"quickdrop/internal/dispatch-service/core/ports"
	"quickdrop/internal/mylogger"

	messagebrokerdto "quickdrop/internal/dispatch-service/core/domain/message_broker_dto"
)

// Consumer bridges broker deliveries into the realtime bus, so every
// service instance fans out location and status events regardless of which
// instance accepted the originating request.
type Consumer struct {
	ctx    context.Context
	log    mylogger.Logger
	broker ports.IDispatchBroker
	bus    ports.IRealtimeBus
}

func NewConsumer(ctx context.Context, broker ports.IDispatchBroker, bus ports.IRealtimeBus, log mylogger.Logger) *Consumer {
	return &Consumer{
		ctx:    ctx,
		log:    log,
		broker: broker,
		bus:    bus,
	}
}

func (c *Consumer) SubscribeForMessages() error {
	locations, err := c.broker.Consume(c.ctx, "courier_locations", ports.CourierLocationKeys, ports.ConsumeOptions{
		Prefetch:     10,
		AutoAck:      true,
		QueueDurable: false,
	})
	if err != nil {
		return err
	}

	offers, err := c.broker.Consume(c.ctx, "courier_offers", ports.CourierOfferKeys, ports.ConsumeOptions{
		Prefetch:     10,
		AutoAck:      true,
		QueueDurable: false,
	})
	if err != nil {
		return err
	}

	statuses, err := c.broker.Consume(c.ctx, "order_status_events", ports.OrderStatusKeys, ports.ConsumeOptions{
		Prefetch:     10,
		AutoAck:      true,
		QueueDurable: false,
	})
	if err != nil {
		return err
	}

	go func() {
		log := c.log.Action("consume")
		for {
			select {
			case <-c.ctx.Done():
				return
			case msg, ok := <-locations:
				if !ok {
					return
				}
				var loc messagebrokerdto.CourierLocation
				if err := json.Unmarshal(msg.Body, &loc); err != nil {
					log.Error("failed to unmarshal location update", err)
					continue
				}
				ts, err := time.Parse(time.RFC3339, loc.Timestamp)
				if err != nil {
					ts = time.Now().UTC()
				}
				c.bus.PublishLocation(model.LocationEvent{
					CourierID: loc.CourierID,
					Latitude:  loc.Latitude,
					Longitude: loc.Longitude,
					Timestamp: ts,
				})
			case msg, ok := <-offers:
				if !ok {
					return
				}
				var offer messagebrokerdto.AssignmentOffer
				if err := json.Unmarshal(msg.Body, &offer); err != nil {
					log.Error("failed to unmarshal assignment offer", err)
					continue
				}
				c.bus.PublishOffer(model.AssignmentOffer{
					CourierID:        offer.CourierID,
					OrderID:          offer.OrderID,
					AssignmentID:     offer.AssignmentID,
					DistanceKm:       offer.DistanceKm,
					EstimatedMinutes: offer.EstimatedMinutes,
					MaxMinutes:       offer.MaxMinutes,
				})
			case msg, ok := <-statuses:
				if !ok {
					return
				}
				var st messagebrokerdto.OrderStatusChanged
				if err := json.Unmarshal(msg.Body, &st); err != nil {
					log.Error("failed to unmarshal order status", err)
					continue
				}
				c.bus.PublishOrderStatus(st.OrderID, model.OrderStatus(st.Status), st.Payload)
			}
		}
	}()
	return nil
}
