package geocode

import (
	"context"
	"testing"

	"quickdrop/internal/dispatch-service/core/domain/model"
	"quickdrop/internal/dispatch-service/core/myerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticGeocoder(t *testing.T) {
	g := NewStaticGeocoder(map[string]model.GeoPoint{
		"Tverskaya 7": {Latitude: 55.7602, Longitude: 37.6092},
	})

	t.Run("resolves a known address case-insensitively", func(t *testing.T) {
		point, err := g.ResolveAddress(context.Background(), "  tverskaya 7 ")
		require.NoError(t, err)
		assert.InDelta(t, 55.7602, point.Latitude, 1e-9)
		assert.InDelta(t, 37.6092, point.Longitude, 1e-9)
	})

	t.Run("fails on an unknown address", func(t *testing.T) {
		_, err := g.ResolveAddress(context.Background(), "Nowhere street 1")
		require.Error(t, err)
		require.ErrorIs(t, err, myerrors.ErrGeocodeFailed)
	})
}
