package geocode

import (
	"context"
	"fmt"
	"strings"

	"quickdrop/internal/dispatch-service/core/domain/model"
	"quickdrop/internal/dispatch-service/core/myerrors"
	"quickdrop/internal/dispatch-service/core/ports"
)

// StaticGeocoder resolves addresses from a fixed in-memory table. Used in
// development and tests where no geocoding provider is reachable. Unknown
// addresses fail with ErrGeocodeFailed; there is no jitter or placeholder
// coordinate fallback.
type StaticGeocoder struct {
	entries map[string]model.GeoPoint
}

var _ ports.IGeocoder = (*StaticGeocoder)(nil)

func NewStaticGeocoder(entries map[string]model.GeoPoint) *StaticGeocoder {
	normalized := make(map[string]model.GeoPoint, len(entries))
	for addr, point := range entries {
		normalized[normalize(addr)] = point
	}
	return &StaticGeocoder{entries: normalized}
}

func (g *StaticGeocoder) ResolveAddress(ctx context.Context, address string) (model.GeoPoint, error) {
	point, ok := g.entries[normalize(address)]
	if !ok {
		return model.GeoPoint{}, fmt.Errorf("%q: %w", address, myerrors.ErrGeocodeFailed)
	}
	return point, nil
}

func normalize(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
