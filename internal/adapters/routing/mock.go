package routing

import (
	"context"
	"fmt"

	"fleet-assignment-service/internal/domain"
	"fleet-assignment-service/internal/ports"
)

// MockOptimizer returns a canned result (or error) and counts calls.
type MockOptimizer struct {
	Result ports.OptimizedRoute
	Err    error
	Calls  int
}

func (m *MockOptimizer) Optimize(ctx context.Context, depot domain.Coordinates, stops []domain.Coordinates) (ports.OptimizedRoute, error) {
	m.Calls++
	if m.Err != nil {
		return ports.OptimizedRoute{}, m.Err
	}
	return m.Result, nil
}

// MockGeocoder resolves addresses from a fixed table.
type MockGeocoder struct {
	Results map[string]ports.GeocodeResult
}

func (m *MockGeocoder) Geocode(ctx context.Context, address string) (ports.GeocodeResult, error) {
	r, ok := m.Results[address]
	if !ok {
		return ports.GeocodeResult{}, fmt.Errorf("no geocode result for %q", address)
	}
	return r, nil
}
