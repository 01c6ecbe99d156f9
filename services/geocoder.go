package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"milano/pkg/apperr"
	"milano/pkg/logger"

	"github.com/tidwall/gjson"
)

// Geocoder turns a coordinate pair into a street address using an
// OpenCage-compatible endpoint.
type Geocoder struct {
	URL    string
	Key    string
	Lang   string
	Client *http.Client
}

func NewGeocoder(endpoint, key string, timeout time.Duration) *Geocoder {
	return &Geocoder{
		URL:    endpoint,
		Key:    key,
		Lang:   "en",
		Client: &http.Client{Timeout: timeout},
	}
}

func ValidateCoords(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return apperr.Validation("latitude must be within [-90, 90]")
	}
	if lng < -180 || lng > 180 {
		return apperr.Validation("longitude must be within [-180, 180]")
	}
	return nil
}

// FallbackAddress is used whenever the lookup cannot produce an address.
func FallbackAddress(lat, lng float64) string {
	return fmt.Sprintf("Lat: %.6f, Lng: %.6f", lat, lng)
}

// Reverse never fails: any lookup problem yields FallbackAddress. ok reports
// whether the address came from the geocoder.
func (g *Geocoder) Reverse(ctx context.Context, lat, lng float64) (address string, ok bool) {
	fallback := FallbackAddress(lat, lng)
	if g.Key == "" || g.URL == "" {
		return fallback, false
	}

	addr, err := g.lookup(ctx, lat, lng)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Warn("reverse geocoding failed")
		return fallback, false
	}
	if addr == "" {
		return fallback, false
	}
	return addr, true
}

func (g *Geocoder) lookup(ctx context.Context, lat, lng float64) (string, error) {
	u, err := url.Parse(g.URL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("q", fmt.Sprintf("%f,%f", lat, lng))
	q.Set("key", g.Key)
	q.Set("language", g.Lang)
	q.Set("no_annotations", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}
	res, err := g.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geocoder returned %d", res.StatusCode)
	}
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("geocoder returned invalid json")
	}
	return gjson.GetBytes(body, "results.0.formatted").String(), nil
}
