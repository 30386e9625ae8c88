package ports

import (
	"context"

	"quickdrop/internal/dispatch-service/core/domain/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type IDB interface {
	GetConn() *pgxpool.Pool
	IsAlive() error
	Close() error
}

// ICourierRepo is the read/claim view over persisted courier state.
// FindCandidates and FindAnyAvailable are read-only; ClaimCourier is the
// atomic conditional update that makes assignment race-free.
type ICourierRepo interface {
	// FindCandidates returns active, unassigned couriers bound to the store,
	// within radiusKm of the given origin, ascending by distance, at most
	// limit rows. An empty result is not an error.
	FindCandidates(ctx context.Context, storeID string, lat, lng, radiusKm float64, limit int) ([]model.CandidateCourier, error)

	// FindAnyAvailable ignores distance: any active, unassigned courier of
	// the store. Returns myerrors.ErrCourierNotFound when none qualifies.
	FindAnyAvailable(ctx context.Context, storeID string) (model.Courier, error)

	// ClaimCourier binds the courier to the order only if it is still
	// unassigned. Returns myerrors.ErrCourierClaimed when another request
	// won the race.
	ClaimCourier(ctx context.Context, courierID, orderID string) error

	// ReleaseCourier clears the courier's current order on delivery completion.
	ReleaseCourier(ctx context.Context, courierID string) error

	UpdateLocation(ctx context.Context, courierID string, lat, lng float64) (model.Courier, error)
	SetActive(ctx context.Context, courierID string, active bool) error
	CheckCourierById(ctx context.Context, courierID string) (bool, error)
	FleetOverview(ctx context.Context) (model.FleetOverview, error)
}

type IStoreRepo interface {
	// FindByID returns myerrors.ErrStoreNotFound for an unknown store.
	FindByID(ctx context.Context, storeID string) (model.DarkStore, error)
}
