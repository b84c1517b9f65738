// Package cache provides a persistent geocode cache so repeated runs do not
// re-resolve the same delivery addresses against the external service.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"fleet-assignment-service/internal/ports"
)

// CachedGeocoder wraps a Geocoder with a SQL-backed address cache.
// Cache write failures are non-fatal: the resolved result is still returned.
type CachedGeocoder struct {
	DB    *sql.DB
	Inner ports.Geocoder
}

func NewCachedGeocoder(db *sql.DB, inner ports.Geocoder) *CachedGeocoder {
	return &CachedGeocoder{DB: db, Inner: inner}
}

func (c *CachedGeocoder) Geocode(ctx context.Context, address string) (ports.GeocodeResult, error) {
	if c.DB == nil {
		return ports.GeocodeResult{}, errors.New("geocode cache: db is nil")
	}

	address = strings.Join(strings.Fields(address), " ")
	if address == "" {
		return ports.GeocodeResult{}, errors.New("geocode cache: address must be non-empty")
	}

	var res ports.GeocodeResult
	err := c.DB.QueryRowContext(ctx, `
	SELECT lon, lat, region
	FROM geocode_cache
	WHERE address = $1;
	`, address).Scan(&res.Location.Lon, &res.Location.Lat, &res.Region)
	if err == nil {
		return res, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return ports.GeocodeResult{}, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}

	res, err = c.Inner.Geocode(ctx, address)
	if err != nil {
		return ports.GeocodeResult{}, err
	}

	// A failed cache write must not fail the lookup.
	_, _ = c.DB.ExecContext(ctx, `
	INSERT INTO geocode_cache (address, lon, lat, region)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (address) DO UPDATE
	SET lon = EXCLUDED.lon,
		lat = EXCLUDED.lat,
		region = EXCLUDED.region;
	`, address, res.Location.Lon, res.Location.Lat, res.Region)

	return res, nil
}
