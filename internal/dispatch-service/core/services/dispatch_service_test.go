package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"quickdrop/internal/config"
	"quickdrop/internal/dispatch-service/core/domain/model"
	"quickdrop/internal/dispatch-service/core/myerrors"
	"quickdrop/internal/dispatch-service/core/ports"
	"quickdrop/internal/geo"
	"quickdrop/internal/mylogger"

	messagebrokerdto "quickdrop/internal/dispatch-service/core/domain/message_broker_dto"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCourierRepo struct {
	mu       sync.Mutex
	couriers map[string]*model.Courier
}

func newFakeCourierRepo(couriers ...model.Courier) *fakeCourierRepo {
	r := &fakeCourierRepo{couriers: make(map[string]*model.Courier)}
	for i := range couriers {
		c := couriers[i]
		r.couriers[c.CourierID] = &c
	}
	return r
}

func (r *fakeCourierRepo) FindCandidates(_ context.Context, storeID string, lat, lng, radiusKm float64, limit int) ([]model.CandidateCourier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []model.CandidateCourier
	for _, c := range r.couriers {
		if c.StoreID != storeID || !c.Available() {
			continue
		}
		d := geo.DistanceKm(lat, lng, c.Latitude, c.Longitude)
		if d >= radiusKm {
			continue
		}
		out = append(out, model.CandidateCourier{Courier: *c, DistanceKm: d})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeCourierRepo) FindAnyAvailable(_ context.Context, storeID string) (model.Courier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.couriers {
		if c.StoreID == storeID && c.Available() {
			return *c, nil
		}
	}
	return model.Courier{}, myerrors.ErrCourierNotFound
}

func (r *fakeCourierRepo) ClaimCourier(_ context.Context, courierID, orderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.couriers[courierID]
	if !ok || !c.Available() {
		return myerrors.ErrCourierClaimed
	}
	c.CurrentOrderID = &orderID
	return nil
}

func (r *fakeCourierRepo) ReleaseCourier(_ context.Context, courierID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.couriers[courierID]
	if !ok {
		return myerrors.ErrCourierNotFound
	}
	c.CurrentOrderID = nil
	return nil
}

func (r *fakeCourierRepo) UpdateLocation(_ context.Context, courierID string, lat, lng float64) (model.Courier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.couriers[courierID]
	if !ok {
		return model.Courier{}, myerrors.ErrCourierNotFound
	}
	c.Latitude, c.Longitude = lat, lng
	c.UpdatedAt = time.Now()
	return *c, nil
}

func (r *fakeCourierRepo) SetActive(_ context.Context, courierID string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.couriers[courierID]
	if !ok {
		return myerrors.ErrCourierNotFound
	}
	c.IsActive = active
	return nil
}

func (r *fakeCourierRepo) CheckCourierById(_ context.Context, courierID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.couriers[courierID]
	return ok, nil
}

func (r *fakeCourierRepo) FleetOverview(_ context.Context) (model.FleetOverview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ov model.FleetOverview
	for _, c := range r.couriers {
		if !c.IsActive {
			ov.OfflineCouriers++
			continue
		}
		ov.ActiveCouriers++
		if c.CurrentOrderID == nil {
			ov.AvailableCouriers++
		} else {
			ov.BusyCouriers++
		}
	}
	return ov, nil
}

func (r *fakeCourierRepo) get(courierID string) model.Courier {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.couriers[courierID]
}

type fakeStoreRepo struct {
	stores map[string]model.DarkStore
}

func (r *fakeStoreRepo) FindByID(_ context.Context, storeID string) (model.DarkStore, error) {
	s, ok := r.stores[storeID]
	if !ok {
		return model.DarkStore{}, myerrors.ErrStoreNotFound
	}
	return s, nil
}

type fakeGeocoder struct {
	points map[string]model.GeoPoint
}

func (g *fakeGeocoder) ResolveAddress(_ context.Context, address string) (model.GeoPoint, error) {
	p, ok := g.points[address]
	if !ok {
		return model.GeoPoint{}, fmt.Errorf("%q: %w", address, myerrors.ErrGeocodeFailed)
	}
	return p, nil
}

type brokerRecord struct {
	exchange string
	key      string
	msg      any
}

type fakeBroker struct {
	mu        sync.Mutex
	published []brokerRecord
}

func (b *fakeBroker) PublishJSON(_ context.Context, exchange, routingKey string, msg any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, brokerRecord{exchange: exchange, key: routingKey, msg: msg})
	return nil
}

func (b *fakeBroker) Consume(context.Context, string, string, ports.ConsumeOptions) (<-chan amqp.Delivery, error) {
	return nil, nil
}

func (b *fakeBroker) IsAlive() bool { return true }
func (b *fakeBroker) Close() error  { return nil }

func (b *fakeBroker) keys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.published))
	for i, rec := range b.published {
		out[i] = rec.key
	}
	return out
}

const (
	testStoreID = "store-1"
	testAddress = "22 baker street"
)

// store and destination chosen about 2 km apart
var (
	testStore = model.DarkStore{StoreID: testStoreID, Name: "Central", Latitude: 51.5074, Longitude: -0.1278}
	testDest  = model.GeoPoint{Latitude: 51.5237, Longitude: -0.1585}
)

func courierAt(id string, lat, lng float64) model.Courier {
	return model.Courier{CourierID: id, StoreID: testStoreID, Latitude: lat, Longitude: lng, IsActive: true}
}

func newTestDispatchService(t *testing.T, couriers ports.ICourierRepo) *DispatchService {
	t.Helper()
	log, err := mylogger.New(mylogger.LevelError)
	require.NoError(t, err)

	cfg := config.Dispatchconfig{SearchRadiusKm: 3, CandidateLimit: 5, ClaimRetries: 2}
	stores := &fakeStoreRepo{stores: map[string]model.DarkStore{testStoreID: testStore}}
	geocoder := &fakeGeocoder{points: map[string]model.GeoPoint{testAddress: testDest}}

	svc := NewDispatchService(context.Background(), log, couriers, stores, geocoder, nil, cfg)
	return svc.(*DispatchService)
}

func TestAssignCourierPicksNearest(t *testing.T) {
	repo := newFakeCourierRepo(
		courierAt("far", 51.5250, -0.1278),  // ~2 km north of the store
		courierAt("near", 51.5080, -0.1280), // right next to it
	)
	svc := newTestDispatchService(t, repo)

	result, err := svc.AssignCourier(context.Background(), testStoreID, "order-1", testAddress)
	require.NoError(t, err)
	require.NotNil(t, result.Courier)
	assert.Equal(t, "near", result.Courier.CourierID)
	assert.NotEmpty(t, result.AssignmentID)
	assert.Greater(t, result.EstimatedMinutes, 0)
	assert.Equal(t, result.EstimatedMinutes+10, result.MaxMinutes)

	claimed := repo.get("near")
	require.NotNil(t, claimed.CurrentOrderID)
	assert.Equal(t, "order-1", *claimed.CurrentOrderID)

	other := repo.get("far")
	assert.Nil(t, other.CurrentOrderID)
}

func TestAssignCourierFallsBackOutsideRadius(t *testing.T) {
	// ~5.5 km away, well outside the 3 km search radius
	repo := newFakeCourierRepo(courierAt("remote", 51.5574, -0.1278))
	svc := newTestDispatchService(t, repo)

	result, err := svc.AssignCourier(context.Background(), testStoreID, "order-1", testAddress)
	require.NoError(t, err)
	require.NotNil(t, result.Courier)
	assert.Equal(t, "remote", result.Courier.CourierID)
}

func TestAssignCourierNobodyAvailable(t *testing.T) {
	busyOrder := "order-0"
	busy := courierAt("busy", 51.5080, -0.1280)
	busy.CurrentOrderID = &busyOrder
	offline := courierAt("offline", 51.5081, -0.1281)
	offline.IsActive = false

	repo := newFakeCourierRepo(busy, offline)
	svc := newTestDispatchService(t, repo)

	result, err := svc.AssignCourier(context.Background(), testStoreID, "order-1", testAddress)
	require.NoError(t, err)
	assert.Nil(t, result.Courier)
	assert.Empty(t, result.AssignmentID)
	// the estimate is still produced so the order can be queued with an ETA
	assert.Greater(t, result.EstimatedMinutes, 0)
}

func TestAssignCourierUnknownStore(t *testing.T) {
	svc := newTestDispatchService(t, newFakeCourierRepo())

	_, err := svc.AssignCourier(context.Background(), "no-such-store", "order-1", testAddress)
	assert.ErrorIs(t, err, myerrors.ErrStoreNotFound)
}

func TestAssignCourierGeocodeFailure(t *testing.T) {
	svc := newTestDispatchService(t, newFakeCourierRepo(courierAt("c1", 51.5080, -0.1280)))

	_, err := svc.AssignCourier(context.Background(), testStoreID, "order-1", "gibberish address")
	assert.ErrorIs(t, err, myerrors.ErrGeocodeFailed)
}

// contestedRepo simulates a concurrent request snatching one courier
// between candidate selection and the claim.
type contestedRepo struct {
	*fakeCourierRepo
	contested string
}

func (r *contestedRepo) ClaimCourier(ctx context.Context, courierID, orderID string) error {
	if courierID == r.contested {
		return myerrors.ErrCourierClaimed
	}
	return r.fakeCourierRepo.ClaimCourier(ctx, courierID, orderID)
}

func TestAssignCourierWalksPastLostClaim(t *testing.T) {
	inner := newFakeCourierRepo(
		courierAt("near", 51.5080, -0.1280),
		courierAt("far", 51.5250, -0.1278),
	)
	repo := &contestedRepo{fakeCourierRepo: inner, contested: "near"}
	svc := newTestDispatchService(t, repo)

	result, err := svc.AssignCourier(context.Background(), testStoreID, "order-1", testAddress)
	require.NoError(t, err)
	require.NotNil(t, result.Courier)
	assert.Equal(t, "far", result.Courier.CourierID)
}

func TestAssignCourierConcurrentSingleWinner(t *testing.T) {
	repo := newFakeCourierRepo(courierAt("only", 51.5080, -0.1280))
	svc := newTestDispatchService(t, repo)

	const requests = 8
	results := make([]model.DispatchResult, requests)
	errs := make([]error, requests)

	var wg sync.WaitGroup
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.AssignCourier(context.Background(), testStoreID, fmt.Sprintf("order-%d", i), testAddress)
		}(i)
	}
	wg.Wait()

	winners := 0
	for i := 0; i < requests; i++ {
		require.NoError(t, errs[i])
		if results[i].Courier != nil {
			winners++
			assert.Equal(t, "only", results[i].Courier.CourierID)
		}
	}
	assert.Equal(t, 1, winners)
}

func TestAssignCourierPublishesOfferAndStatus(t *testing.T) {
	repo := newFakeCourierRepo(courierAt("c1", 51.5080, -0.1280))
	broker := &fakeBroker{}

	log, err := mylogger.New(mylogger.LevelError)
	require.NoError(t, err)
	cfg := config.Dispatchconfig{SearchRadiusKm: 3, CandidateLimit: 5, ClaimRetries: 2}
	stores := &fakeStoreRepo{stores: map[string]model.DarkStore{testStoreID: testStore}}
	geocoder := &fakeGeocoder{points: map[string]model.GeoPoint{testAddress: testDest}}
	svc := NewDispatchService(context.Background(), log, repo, stores, geocoder, broker, cfg)

	result, err := svc.AssignCourier(context.Background(), testStoreID, "order-1", testAddress)
	require.NoError(t, err)
	require.NotNil(t, result.Courier)

	assert.Equal(t, []string{"courier.offer.c1", "order.status.order-1"}, broker.keys())

	offer, ok := broker.published[0].msg.(messagebrokerdto.AssignmentOffer)
	require.True(t, ok)
	assert.Equal(t, "c1", offer.CourierID)
	assert.Equal(t, "order-1", offer.OrderID)
	assert.Equal(t, result.AssignmentID, offer.AssignmentID)
	assert.Equal(t, result.EstimatedMinutes, offer.EstimatedMinutes)
}

func TestAssignCourierNoOfferWhenNobodyAvailable(t *testing.T) {
	repo := newFakeCourierRepo()
	broker := &fakeBroker{}

	log, err := mylogger.New(mylogger.LevelError)
	require.NoError(t, err)
	cfg := config.Dispatchconfig{SearchRadiusKm: 3, CandidateLimit: 5, ClaimRetries: 2}
	stores := &fakeStoreRepo{stores: map[string]model.DarkStore{testStoreID: testStore}}
	geocoder := &fakeGeocoder{points: map[string]model.GeoPoint{testAddress: testDest}}
	svc := NewDispatchService(context.Background(), log, repo, stores, geocoder, broker, cfg)

	result, err := svc.AssignCourier(context.Background(), testStoreID, "order-1", testAddress)
	require.NoError(t, err)
	assert.Nil(t, result.Courier)
	assert.Empty(t, broker.keys())
}

func TestCompleteDeliveryReleasesCourier(t *testing.T) {
	repo := newFakeCourierRepo(courierAt("c1", 51.5080, -0.1280))
	svc := newTestDispatchService(t, repo)

	result, err := svc.AssignCourier(context.Background(), testStoreID, "order-1", testAddress)
	require.NoError(t, err)
	require.NotNil(t, result.Courier)

	err = svc.CompleteDelivery(context.Background(), "c1", "order-1")
	require.NoError(t, err)

	released := repo.get("c1")
	assert.Nil(t, released.CurrentOrderID)

	// the courier can immediately take the next order
	again, err := svc.AssignCourier(context.Background(), testStoreID, "order-2", testAddress)
	require.NoError(t, err)
	require.NotNil(t, again.Courier)
	assert.Equal(t, "c1", again.Courier.CourierID)
}

func TestEstimateDeliveryTime(t *testing.T) {
	svc := newTestDispatchService(t, newFakeCourierRepo())

	distance, estimate, err := svc.EstimateDeliveryTime(context.Background(), testStoreID, testAddress)
	require.NoError(t, err)
	assert.InDelta(t, 2.7, distance, 0.3)
	assert.Equal(t, estimate.Minutes+10, estimate.MaxMinutes)

	wantMinutes := int(5 + distance*2 + 5 + 0.5)
	assert.InDelta(t, wantMinutes, estimate.Minutes, 1)
}
