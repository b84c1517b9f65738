package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"fleet-assignment-service/internal/domain"
	"fleet-assignment-service/internal/platform/obs"
	"fleet-assignment-service/internal/ports"
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Locality string `json:"locality"`
			Region   string `json:"region"`
		} `json:"properties"`
	} `json:"features"`
}

// Geocode resolves a free-text address to coordinates plus a region label
// using OpenRouteService (/geocode/search). The locality of the best match
// becomes the region label used for clustering.
func (o *ORSClient) Geocode(ctx context.Context, address string) (_ ports.GeocodeResult, err error) {
	defer obs.Time(o.log, "ors.geocode")(&err)

	norm := normalize(address)
	if norm == "" {
		return ports.GeocodeResult{}, errors.New("geocode: address must be non-empty")
	}

	endpoint := o.baseURL + "/geocode/search"

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", norm)
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return ports.GeocodeResult{}, fmt.Errorf("geocode %q: %w", norm, err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.GeocodeResult{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return ports.GeocodeResult{}, fmt.Errorf("no geocode results for %q", norm)
	}

	feat := decoded.Features[0]
	if len(feat.Geometry.Coordinates) != 2 {
		return ports.GeocodeResult{}, fmt.Errorf("invalid coordinate format for %q", norm)
	}

	region := feat.Properties.Locality
	if region == "" {
		region = feat.Properties.Region
	}

	return ports.GeocodeResult{
		Location: domain.Coordinates{
			Lon: feat.Geometry.Coordinates[0],
			Lat: feat.Geometry.Coordinates[1],
		},
		Region: region,
	}, nil
}
