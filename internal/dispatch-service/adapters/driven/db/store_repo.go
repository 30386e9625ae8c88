package db

import (
	"context"
	"errors"

	"quickdrop/internal/dispatch-service/core/domain/model"
	"quickdrop/internal/dispatch-service/core/myerrors"
	"quickdrop/internal/dispatch-service/core/ports"

	"github.com/jackc/pgx/v5"
)

type StoreRepo struct {
	db *DataBase
}

func NewStoreRepo(db *DataBase) ports.IStoreRepo {
	return &StoreRepo{db: db}
}

func (sr *StoreRepo) FindByID(ctx context.Context, storeID string) (model.DarkStore, error) {
	Query := `
	SELECT store_id, name, latitude, longitude
	FROM dark_stores
	WHERE store_id = $1;
	`
	var store model.DarkStore
	err := sr.db.GetConn().QueryRow(ctx, Query, storeID).Scan(
		&store.StoreID,
		&store.Name,
		&store.Latitude,
		&store.Longitude,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.DarkStore{}, myerrors.ErrStoreNotFound
		}
		return model.DarkStore{}, err
	}
	return store, nil
}
