package ports

import (
	"context"

	"fleet-assignment-service/internal/domain"
)

// Result of a multi-stop optimization: the visiting order of the input stops
// (indexes into the submitted stop slice), total round-trip metrics and the
// path geometry.
type OptimizedRoute struct {
	StopOrder     []int
	DistanceKm    float64
	DurationHours float64
	Geometry      string
}

// Contract for an external multi-stop route optimization service under a
// truck driving profile. The depot closes the loop: depot -> all stops ->
// depot. Implementations are fallible; callers fall back to a local heuristic
// on error.
type RouteOptimizer interface {
	Optimize(ctx context.Context, depot domain.Coordinates, stops []domain.Coordinates) (OptimizedRoute, error)
}
