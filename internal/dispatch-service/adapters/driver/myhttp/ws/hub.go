package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"quickdrop/internal/dispatch-service/core/domain/model"
	"quickdrop/internal/dispatch-service/core/ports"
	"quickdrop/internal/mylogger"

	websocketdto "quickdrop/internal/dispatch-service/core/domain/websocket_dto"

	"github.com/gorilla/websocket"
)

// websocketUpgrader is used to upgrade incoming HTTP requests into a
// persistent websocket connection.
var websocketUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// AdminRoom is the single operational-oversight channel: it sees every
// courier location ping and every order status change.
const AdminRoom = "admin"

func RoomForCourier(courierID string) string { return "courier:" + courierID }
func RoomForOrder(orderID string) string     { return "order:" + orderID }

// Hub is a room-based fan-out. Delivery is best-effort: a subscriber whose
// egress buffer is full misses the message, and a disconnected subscriber
// gets no replay.
type Hub struct {
	mu      sync.RWMutex
	rooms   map[string]map[*Client]bool
	members map[*Client][]string
	log     mylogger.Logger
}

var _ ports.IRealtimeBus = (*Hub)(nil)

func NewHub(log mylogger.Logger) *Hub {
	return &Hub{
		rooms:   make(map[string]map[*Client]bool),
		members: make(map[*Client][]string),
		log:     log,
	}
}

func (h *Hub) Subscribe(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][c] = true
	h.members[c] = append(h.members[c], room)
}

// Unsubscribe removes the client from every room it joined.
func (h *Hub) Unsubscribe(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, room := range h.members[c] {
		delete(h.rooms[room], c)
		if len(h.rooms[room]) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(h.members, c)
}

func (h *Hub) PublishLocation(ev model.LocationEvent) {
	data, err := json.Marshal(websocketdto.LocationMessage{
		CourierID: ev.CourierID,
		Latitude:  ev.Latitude,
		Longitude: ev.Longitude,
		Timestamp: ev.Timestamp.UTC().Format(time.RFC3339),
	})
	if err != nil {
		h.log.Action("PublishLocation").Error("cannot marshal location event", err)
		return
	}
	// couriers' own location is not echoed back to them
	h.publish(AdminRoom, websocketdto.Event{Type: websocketdto.EventLocation, Data: data})
}

// PublishOffer notifies the courier that won the claim. Only the courier's
// own room sees it; admins follow the order-status stream instead.
func (h *Hub) PublishOffer(offer model.AssignmentOffer) {
	data, err := json.Marshal(websocketdto.OfferMessage{
		OrderID:          offer.OrderID,
		AssignmentID:     offer.AssignmentID,
		DistanceKm:       offer.DistanceKm,
		EstimatedMinutes: offer.EstimatedMinutes,
		MaxMinutes:       offer.MaxMinutes,
	})
	if err != nil {
		h.log.Action("PublishOffer").Error("cannot marshal assignment offer", err)
		return
	}
	h.publish(RoomForCourier(offer.CourierID), websocketdto.Event{Type: websocketdto.EventOffer, Data: data})
}

func (h *Hub) PublishOrderStatus(orderID string, status model.OrderStatus, payload []byte) {
	data, err := json.Marshal(websocketdto.OrderStatusMessage{
		OrderID: orderID,
		Status:  status.String(),
		Payload: payload,
	})
	if err != nil {
		h.log.Action("PublishOrderStatus").Error("cannot marshal order status", err)
		return
	}
	ev := websocketdto.Event{Type: websocketdto.EventOrderStatus, Data: data}
	h.publish(RoomForOrder(orderID), ev)
	h.publish(AdminRoom, ev)
}

func (h *Hub) publish(room string, ev websocketdto.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[room] {
		if !c.send(ev) {
			h.log.Action("publish").Warn("dropping message for slow subscriber", "room", room)
		}
	}
}

// CourierHandler upgrades a courier connection. After the auth event the
// client joins its own room and may stream location pings.
func (h *Hub) CourierHandler(eh *EventHandler, courierService ports.ICourierService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := h.log.Action("courierWsHandler")
		courierID := r.PathValue("courier_id")
		if courierID == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		exists, err := courierService.CheckCourierById(r.Context(), courierID)
		if err != nil {
			log.Error("cannot check courier", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if !exists {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		conn, err := websocketUpgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("cannot upgrade", err)
			return
		}

		// the request context dies with the handler; the connection outlives it
		client := newClient(context.Background(), conn, h, kindCourier, courierID)
		go client.WritePump()
		go client.ReadPump(h.courierEvents(eh, courierService))
	}
}

func (h *Hub) courierEvents(eh *EventHandler, courierService ports.ICourierService) EventHandle {
	return func(c *Client, e websocketdto.Event) error {
		switch e.Type {
		case websocketdto.EventAuth:
			if err := eh.Authorize(c, e); err != nil {
				return err
			}
			h.Subscribe(RoomForCourier(c.subjectID), c)
			return nil
		case websocketdto.EventLocation:
			if !c.authed {
				return ErrNotAuthorized
			}
			var ping websocketdto.LocationMessage
			if err := json.Unmarshal(e.Data, &ping); err != nil {
				return err
			}
			_, err := courierService.UpdateLocation(c.ctx, c.subjectID, ping.Latitude, ping.Longitude)
			return err
		default:
			return ErrUnknownEvent
		}
	}
}

// OrderHandler upgrades an order-watcher connection (the customer and the
// assigned courier watching one order's progress).
func (h *Hub) OrderHandler(eh *EventHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := h.log.Action("orderWsHandler")
		orderID := r.PathValue("order_id")
		if orderID == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		conn, err := websocketUpgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("cannot upgrade", err)
			return
		}

		client := newClient(context.Background(), conn, h, kindOrder, orderID)
		go client.WritePump()
		go client.ReadPump(h.watcherEvents(eh, RoomForOrder(orderID)))
	}
}

// AdminHandler upgrades an oversight connection into the admin room.
func (h *Hub) AdminHandler(eh *EventHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := h.log.Action("adminWsHandler")

		conn, err := websocketUpgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("cannot upgrade", err)
			return
		}

		client := newClient(context.Background(), conn, h, kindAdmin, AdminRoom)
		go client.WritePump()
		go client.ReadPump(h.watcherEvents(eh, AdminRoom))
	}
}

// watcherEvents is the read-side protocol for subscribe-only connections:
// an auth event joins the room, everything else is rejected.
func (h *Hub) watcherEvents(eh *EventHandler, room string) EventHandle {
	return func(c *Client, e websocketdto.Event) error {
		switch e.Type {
		case websocketdto.EventAuth:
			if err := eh.Authorize(c, e); err != nil {
				return err
			}
			h.Subscribe(room, c)
			return nil
		default:
			return ErrUnknownEvent
		}
	}
}
