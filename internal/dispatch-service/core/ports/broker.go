package ports

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DispatchExchange    = "dispatch_topic"
	CourierLocationKeys = "courier.location.#"
	CourierOfferKeys    = "courier.offer.#"
	OrderStatusKeys     = "order.status.#"
)

type ConsumeOptions struct {
	Prefetch     int
	AutoAck      bool
	QueueDurable bool
}

type IDispatchBroker interface {
	PublishJSON(ctx context.Context, exchange, routingKey string, msg any) error
	Consume(ctx context.Context, queueName, bindingKey string, opts ConsumeOptions) (<-chan amqp.Delivery, error)
	IsAlive() bool
	Close() error
}
