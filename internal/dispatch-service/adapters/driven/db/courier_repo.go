package db

import (
	"context"
	"errors"

	"quickdrop/internal/dispatch-service/core/domain/model"
	"quickdrop/internal/dispatch-service/core/myerrors"
	"quickdrop/internal/dispatch-service/core/ports"

	"github.com/jackc/pgx/v5"
)

type CourierRepo struct {
	db *DataBase
}

func NewCourierRepo(db *DataBase) ports.ICourierRepo {
	return &CourierRepo{db: db}
}

// haversineKm is the great-circle distance, computed in SQL so filtering
// and ordering happen at the data-store layer. $2 = origin lat, $3 = origin lng.
const haversineKm = `
	2 * 6371 * asin(sqrt(
		power(sin(radians(c.latitude - $2) / 2), 2) +
		cos(radians($2)) * cos(radians(c.latitude)) *
		power(sin(radians(c.longitude - $3) / 2), 2)
	))`

func (cr *CourierRepo) FindCandidates(ctx context.Context, storeID string, lat, lng, radiusKm float64, limit int) ([]model.CandidateCourier, error) {
	Query := `
	SELECT courier_id, store_id, latitude, longitude, is_active, current_order_id, updated_at, distance_km
	FROM (
		SELECT c.courier_id, c.store_id, c.latitude, c.longitude, c.is_active, c.current_order_id, c.updated_at,
		       ` + haversineKm + ` AS distance_km
		FROM couriers c
		WHERE c.store_id = $1
		  AND c.is_active = true
		  AND c.current_order_id IS NULL
	) nearby
	WHERE distance_km < $4
	ORDER BY distance_km
	LIMIT $5;
	`
	rows, err := cr.db.GetConn().Query(ctx, Query, storeID, lat, lng, radiusKm, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.CandidateCourier
	for rows.Next() {
		var cand model.CandidateCourier
		err := rows.Scan(
			&cand.CourierID,
			&cand.StoreID,
			&cand.Latitude,
			&cand.Longitude,
			&cand.IsActive,
			&cand.CurrentOrderID,
			&cand.UpdatedAt,
			&cand.DistanceKm,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, cand)
	}
	return result, rows.Err()
}

func (cr *CourierRepo) FindAnyAvailable(ctx context.Context, storeID string) (model.Courier, error) {
	Query := `
	SELECT courier_id, store_id, latitude, longitude, is_active, current_order_id, updated_at
	FROM couriers
	WHERE store_id = $1
	  AND is_active = true
	  AND current_order_id IS NULL
	LIMIT 1;
	`
	var courier model.Courier
	err := cr.db.GetConn().QueryRow(ctx, Query, storeID).Scan(
		&courier.CourierID,
		&courier.StoreID,
		&courier.Latitude,
		&courier.Longitude,
		&courier.IsActive,
		&courier.CurrentOrderID,
		&courier.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Courier{}, myerrors.ErrCourierNotFound
		}
		return model.Courier{}, err
	}
	return courier, nil
}

// ClaimCourier is the atomic conditional claim: the UPDATE only succeeds
// while the courier is still active and unassigned, so two concurrent
// assignments can never both win the same courier.
func (cr *CourierRepo) ClaimCourier(ctx context.Context, courierID, orderID string) error {
	Query := `
	UPDATE couriers
	SET current_order_id = $2,
	    updated_at = NOW()
	WHERE courier_id = $1
	  AND is_active = true
	  AND current_order_id IS NULL;
	`
	tag, err := cr.db.GetConn().Exec(ctx, Query, courierID, orderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return myerrors.ErrCourierClaimed
	}
	return nil
}

func (cr *CourierRepo) ReleaseCourier(ctx context.Context, courierID string) error {
	Query := `
	UPDATE couriers
	SET current_order_id = NULL,
	    updated_at = NOW()
	WHERE courier_id = $1;
	`
	tag, err := cr.db.GetConn().Exec(ctx, Query, courierID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return myerrors.ErrCourierNotFound
	}
	return nil
}

func (cr *CourierRepo) UpdateLocation(ctx context.Context, courierID string, lat, lng float64) (model.Courier, error) {
	Query := `
	UPDATE couriers
	SET latitude = $2,
	    longitude = $3,
	    updated_at = NOW()
	WHERE courier_id = $1
	RETURNING courier_id, store_id, latitude, longitude, is_active, current_order_id, updated_at;
	`
	var courier model.Courier
	err := cr.db.GetConn().QueryRow(ctx, Query, courierID, lat, lng).Scan(
		&courier.CourierID,
		&courier.StoreID,
		&courier.Latitude,
		&courier.Longitude,
		&courier.IsActive,
		&courier.CurrentOrderID,
		&courier.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Courier{}, myerrors.ErrCourierNotFound
		}
		return model.Courier{}, err
	}
	return courier, nil
}

func (cr *CourierRepo) SetActive(ctx context.Context, courierID string, active bool) error {
	Query := `
	UPDATE couriers
	SET is_active = $2,
	    updated_at = NOW()
	WHERE courier_id = $1;
	`
	tag, err := cr.db.GetConn().Exec(ctx, Query, courierID, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return myerrors.ErrCourierNotFound
	}
	return nil
}

func (cr *CourierRepo) CheckCourierById(ctx context.Context, courierID string) (bool, error) {
	Query := `
	SELECT EXISTS(SELECT 1 FROM couriers WHERE courier_id = $1);
	`
	var exists bool
	err := cr.db.GetConn().QueryRow(ctx, Query, courierID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (cr *CourierRepo) FleetOverview(ctx context.Context) (model.FleetOverview, error) {
	var overview model.FleetOverview

	q1 := `
	SELECT
		COUNT(*) FILTER (WHERE is_active) AS active_couriers,
		COUNT(*) FILTER (WHERE is_active AND current_order_id IS NULL) AS available_couriers,
		COUNT(*) FILTER (WHERE is_active AND current_order_id IS NOT NULL) AS busy_couriers,
		COUNT(*) FILTER (WHERE NOT is_active) AS offline_couriers
	FROM couriers;
	`
	err := cr.db.GetConn().QueryRow(ctx, q1).Scan(
		&overview.ActiveCouriers,
		&overview.AvailableCouriers,
		&overview.BusyCouriers,
		&overview.OfflineCouriers,
	)
	if err != nil {
		return model.FleetOverview{}, err
	}

	q2 := `SELECT COUNT(*) FROM dark_stores;`
	if err := cr.db.GetConn().QueryRow(ctx, q2).Scan(&overview.Stores); err != nil {
		return model.FleetOverview{}, err
	}

	return overview, nil
}
