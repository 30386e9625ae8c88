package db

import "quickdrop/internal/dispatch-service/core/ports"

type Repository struct {
	CourierRepo ports.ICourierRepo
	StoreRepo   ports.IStoreRepo
}

func New(db *DataBase) *Repository {
	return &Repository{
		CourierRepo: NewCourierRepo(db),
		StoreRepo:   NewStoreRepo(db),
	}
}
