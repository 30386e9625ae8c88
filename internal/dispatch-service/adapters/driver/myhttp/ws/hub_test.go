package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"quickdrop/internal/dispatch-service/core/domain/model"
	"quickdrop/internal/mylogger"

	websocketdto "quickdrop/internal/dispatch-service/core/domain/websocket_dto"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	log, err := mylogger.New(mylogger.LevelError)
	require.NoError(t, err)
	return NewHub(log)
}

// testClient builds a client without a network connection; events are read
// straight from its egress buffer.
func testClient(hub *Hub, kind, subjectID string) *Client {
	return newClient(context.Background(), nil, hub, kind, subjectID)
}

func drain(c *Client) []websocketdto.Event {
	var events []websocketdto.Event
	for {
		select {
		case e := <-c.egress:
			events = append(events, e)
		default:
			return events
		}
	}
}

func TestPublishLocationReachesAdminOnly(t *testing.T) {
	hub := newTestHub(t)

	admin := testClient(hub, kindAdmin, AdminRoom)
	courier := testClient(hub, kindCourier, "c1")
	watcher := testClient(hub, kindOrder, "order-1")

	hub.Subscribe(AdminRoom, admin)
	hub.Subscribe(RoomForCourier("c1"), courier)
	hub.Subscribe(RoomForOrder("order-1"), watcher)

	hub.PublishLocation(model.LocationEvent{
		CourierID: "c1",
		Latitude:  51.5,
		Longitude: -0.12,
		Timestamp: time.Now(),
	})

	adminEvents := drain(admin)
	require.Len(t, adminEvents, 1)
	assert.Equal(t, websocketdto.EventLocation, adminEvents[0].Type)

	var msg websocketdto.LocationMessage
	require.NoError(t, json.Unmarshal(adminEvents[0].Data, &msg))
	assert.Equal(t, "c1", msg.CourierID)

	assert.Empty(t, drain(courier))
	assert.Empty(t, drain(watcher))
}

func TestPublishOfferReachesWinningCourierOnly(t *testing.T) {
	hub := newTestHub(t)

	winner := testClient(hub, kindCourier, "c1")
	other := testClient(hub, kindCourier, "c2")
	admin := testClient(hub, kindAdmin, AdminRoom)

	hub.Subscribe(RoomForCourier("c1"), winner)
	hub.Subscribe(RoomForCourier("c2"), other)
	hub.Subscribe(AdminRoom, admin)

	hub.PublishOffer(model.AssignmentOffer{
		CourierID:        "c1",
		OrderID:          "order-1",
		AssignmentID:     "assign-1",
		DistanceKm:       1.2,
		EstimatedMinutes: 12,
		MaxMinutes:       22,
	})

	events := drain(winner)
	require.Len(t, events, 1)
	assert.Equal(t, websocketdto.EventOffer, events[0].Type)

	var msg websocketdto.OfferMessage
	require.NoError(t, json.Unmarshal(events[0].Data, &msg))
	assert.Equal(t, "order-1", msg.OrderID)
	assert.Equal(t, "assign-1", msg.AssignmentID)
	assert.Equal(t, 12, msg.EstimatedMinutes)

	assert.Empty(t, drain(other))
	assert.Empty(t, drain(admin))
}

func TestPublishOrderStatusReachesWatchersAndAdmin(t *testing.T) {
	hub := newTestHub(t)

	admin := testClient(hub, kindAdmin, AdminRoom)
	watcher := testClient(hub, kindOrder, "order-1")
	other := testClient(hub, kindOrder, "order-2")

	hub.Subscribe(AdminRoom, admin)
	hub.Subscribe(RoomForOrder("order-1"), watcher)
	hub.Subscribe(RoomForOrder("order-2"), other)

	hub.PublishOrderStatus("order-1", model.StatusAssigned, nil)

	watcherEvents := drain(watcher)
	require.Len(t, watcherEvents, 1)
	assert.Equal(t, websocketdto.EventOrderStatus, watcherEvents[0].Type)

	var msg websocketdto.OrderStatusMessage
	require.NoError(t, json.Unmarshal(watcherEvents[0].Data, &msg))
	assert.Equal(t, "order-1", msg.OrderID)
	assert.Equal(t, "assigned", msg.Status)

	require.Len(t, drain(admin), 1)
	assert.Empty(t, drain(other))
}

func TestPublishPreservesOrderPerSubscriber(t *testing.T) {
	hub := newTestHub(t)

	watcher := testClient(hub, kindOrder, "order-1")
	hub.Subscribe(RoomForOrder("order-1"), watcher)

	statuses := []model.OrderStatus{model.StatusAssigned, model.StatusPicking, model.StatusDelivering, model.StatusDelivered}
	for _, s := range statuses {
		hub.PublishOrderStatus("order-1", s, nil)
	}

	events := drain(watcher)
	require.Len(t, events, len(statuses))
	for i, e := range events {
		var msg websocketdto.OrderStatusMessage
		require.NoError(t, json.Unmarshal(e.Data, &msg))
		assert.Equal(t, statuses[i].String(), msg.Status)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	hub := newTestHub(t)

	watcher := testClient(hub, kindOrder, "order-1")
	hub.Subscribe(RoomForOrder("order-1"), watcher)
	hub.Unsubscribe(watcher)

	hub.PublishOrderStatus("order-1", model.StatusAssigned, nil)
	assert.Empty(t, drain(watcher))
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	hub := newTestHub(t)

	watcher := testClient(hub, kindOrder, "order-1")
	hub.Subscribe(RoomForOrder("order-1"), watcher)

	for i := 0; i < egressBuffer+5; i++ {
		hub.PublishOrderStatus("order-1", model.StatusDelivering, nil)
	}

	// the buffer caps what a subscriber that never reads can hold
	assert.Len(t, drain(watcher), egressBuffer)
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func authEvent(t *testing.T, token string) websocketdto.Event {
	t.Helper()
	data, err := json.Marshal(websocketdto.AuthMessage{Token: token})
	require.NoError(t, err)
	return websocketdto.Event{Type: websocketdto.EventAuth, Data: data}
}

func TestAuthorizeCourierToken(t *testing.T) {
	const secret = "test-secret"
	eh := NewEventHandler(secret)
	hub := newTestHub(t)

	client := testClient(hub, kindCourier, "c1")
	token := signToken(t, secret, jwt.MapClaims{
		"user_id": "c1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	require.NoError(t, eh.Authorize(client, authEvent(t, token)))
	assert.True(t, client.authed)
}

func TestAuthorizeRejectsForeignCourierToken(t *testing.T) {
	const secret = "test-secret"
	eh := NewEventHandler(secret)
	hub := newTestHub(t)

	client := testClient(hub, kindCourier, "c1")
	token := signToken(t, secret, jwt.MapClaims{
		"user_id": "someone-else",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	assert.ErrorIs(t, eh.Authorize(client, authEvent(t, token)), ErrNotAuthorized)
	assert.False(t, client.authed)
}

func TestAuthorizeAdminRequiresRole(t *testing.T) {
	const secret = "test-secret"
	eh := NewEventHandler(secret)
	hub := newTestHub(t)

	client := testClient(hub, kindAdmin, AdminRoom)
	token := signToken(t, secret, jwt.MapClaims{
		"user_id": "ops-1",
		"role":    "COURIER",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	assert.ErrorIs(t, eh.Authorize(client, authEvent(t, token)), ErrNotAuthorized)

	adminToken := signToken(t, secret, jwt.MapClaims{
		"user_id": "ops-1",
		"role":    "ADMIN",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, eh.Authorize(client, authEvent(t, adminToken)))
	assert.True(t, client.authed)
}

func TestAuthorizeRejectsExpiredToken(t *testing.T) {
	const secret = "test-secret"
	eh := NewEventHandler(secret)
	hub := newTestHub(t)

	client := testClient(hub, kindCourier, "c1")
	token := signToken(t, secret, jwt.MapClaims{
		"user_id": "c1",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})

	assert.Error(t, eh.Authorize(client, authEvent(t, token)))
	assert.False(t, client.authed)
}
