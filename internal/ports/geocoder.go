package ports

import (
	"context"

	"fleet-assignment-service/internal/domain"
)

// A resolved address: coordinates plus a human-readable region label used for
// clustering before precise coordinates are available.
type GeocodeResult struct {
	Location domain.Coordinates
	Region   string
}

// Contract for resolving free-text addresses to coordinates. Implementations
// call a network service and are fallible; a failure marks the order as
// needing manual location setup rather than dropping it.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (GeocodeResult, error)
}
