package ports

import (
	"context"

	"quickdrop/internal/dispatch-service/core/domain/model"
)

// IGeocoder resolves a free-text delivery address to coordinates.
// Implementations return myerrors.ErrGeocodeFailed for unresolvable input.
type IGeocoder interface {
	ResolveAddress(ctx context.Context, address string) (model.GeoPoint, error)
}
