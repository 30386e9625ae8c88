package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"quickdrop/internal/dispatch-service/core/domain/model"
	"quickdrop/internal/dispatch-service/core/myerrors"
	"quickdrop/internal/dispatch-service/core/ports"
	"quickdrop/internal/mylogger"
)

// HTTPGeocoder resolves addresses against a Nominatim-compatible search
// endpoint. It is one implementation of ports.IGeocoder; swap in a provider
// SDK behind the same port if the platform adopts one.
type HTTPGeocoder struct {
	baseURL string
	client  *http.Client
	mylog   mylogger.Logger
}

var _ ports.IGeocoder = (*HTTPGeocoder)(nil)

func NewHTTPGeocoder(baseURL string, log mylogger.Logger) *HTTPGeocoder {
	return &HTTPGeocoder{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		mylog:   log,
	}
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (g *HTTPGeocoder) ResolveAddress(ctx context.Context, address string) (model.GeoPoint, error) {
	if address == "" {
		return model.GeoPoint{}, myerrors.ErrGeocodeFailed
	}

	endpoint := fmt.Sprintf("%s/search?format=json&limit=1&q=%s", g.baseURL, url.QueryEscape(address))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.GeoPoint{}, fmt.Errorf("build geocode request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return model.GeoPoint{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.GeoPoint{}, fmt.Errorf("geocode provider returned %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return model.GeoPoint{}, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(results) == 0 {
		return model.GeoPoint{}, myerrors.ErrGeocodeFailed
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return model.GeoPoint{}, fmt.Errorf("parse latitude %q: %w", results[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return model.GeoPoint{}, fmt.Errorf("parse longitude %q: %w", results[0].Lon, err)
	}

	g.mylog.Action("ResolveAddress").Debug("address resolved", "address", address, "lat", lat, "lng", lng)
	return model.GeoPoint{Latitude: lat, Longitude: lng}, nil
}
