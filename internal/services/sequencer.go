package services

import (
	"context"

	"github.com/rs/zerolog"

	"fleet-assignment-service/internal/domain"
	"fleet-assignment-service/internal/ports"
)

// Average truck speed assumed when the external service returns no duration.
const fallbackSpeedKmh = 60.0

// Service time budgeted per stop in the duration fallback, in hours.
const fallbackStopHours = 0.25

// Hard bound on 2-opt sweeps; see maxTwoOptIterations.
const twoOptIterationCap = 100

// Sequencer orders the stops of a planned route into an efficient round trip
// from the depot. The primary path delegates to an external multi-stop
// optimizer; on failure (or a stop-count mismatch in the response) it falls
// back to nearest-neighbor construction with 2-opt improvement over
// great-circle distances.
type Sequencer struct {
	Optimizer ports.RouteOptimizer
	Log       zerolog.Logger
}

// Sequence produces the stop order for the route's orders plus aggregate
// round-trip metrics. Orders lacking coordinates are appended unsequenced at
// the end in both paths. Sequence never fails: external errors short-circuit
// to the local heuristic.
func (s *Sequencer) Sequence(ctx context.Context, depot domain.Coordinates, route *domain.PlannedRoute) *domain.SequencedRoute {
	var located, unlocated []*domain.Order
	for _, o := range route.Orders {
		if o.Location != nil {
			located = append(located, o)
		} else {
			unlocated = append(unlocated, o)
		}
	}

	stopCount := len(route.Orders)

	if len(located) == 0 {
		return &domain.SequencedRoute{
			Orders:        unlocated,
			DurationHours: fallbackStopHours * float64(stopCount),
		}
	}

	coords := make([]domain.Coordinates, len(located))
	for i, o := range located {
		coords[i] = *o.Location
	}

	if s.Optimizer != nil {
		res, err := s.Optimizer.Optimize(ctx, depot, coords)
		switch {
		case err != nil:
			s.Log.Warn().Err(err).Str("route", route.Label).
				Msg("route optimization failed, using local fallback")
		case len(res.StopOrder) != len(located):
			s.Log.Warn().Str("route", route.Label).
				Int("want", len(located)).Int("got", len(res.StopOrder)).
				Msg("optimizer stop count mismatch, using local fallback")
		default:
			ordered := make([]*domain.Order, 0, stopCount)
			for _, idx := range res.StopOrder {
				ordered = append(ordered, located[idx])
			}
			ordered = append(ordered, unlocated...)

			duration := res.DurationHours
			if duration == 0 {
				duration = res.DistanceKm/fallbackSpeedKmh + fallbackStopHours*float64(stopCount)
			}
			return &domain.SequencedRoute{
				Orders:        ordered,
				DistanceKm:    res.DistanceKm,
				DurationHours: duration,
				Geometry:      res.Geometry,
			}
		}
	}

	order := nearestNeighborOrder(depot, coords)
	order = twoOptImprove(depot, coords, order, maxTwoOptIterations(len(located)))

	distance := roundTripKm(depot, coords, order)
	ordered := make([]*domain.Order, 0, stopCount)
	for _, idx := range order {
		ordered = append(ordered, located[idx])
	}
	ordered = append(ordered, unlocated...)

	return &domain.SequencedRoute{
		Orders:        ordered,
		DistanceKm:    distance,
		DurationHours: distance/fallbackSpeedKmh + fallbackStopHours*float64(stopCount),
	}
}

func maxTwoOptIterations(stops int) int {
	iters := 2 * stops
	if iters > twoOptIterationCap {
		return twoOptIterationCap
	}
	if iters < 1 {
		return 1
	}
	return iters
}

// nearestNeighborOrder builds a tour greedily from the depot, always visiting
// the closest unvisited stop next. Index tie-break keeps runs deterministic.
func nearestNeighborOrder(depot domain.Coordinates, coords []domain.Coordinates) []int {
	n := len(coords)
	order := make([]int, 0, n)
	visited := make([]bool, n)
	current := depot

	for len(order) < n {
		best := -1
		bestDist := 0.0
		for i := 0; i < n; i++ {
			if visited[i] {
				continue
			}
			d := domain.DistanceKm(current, coords[i])
			if best == -1 || d < bestDist {
				best = i
				bestDist = d
			}
		}
		visited[best] = true
		order = append(order, best)
		current = coords[best]
	}
	return order
}

// twoOptImprove reverses any sub-segment whose reversal shortens the total
// round trip, repeating until no improvement is found or the iteration bound
// is hit. The result is never worse than the input tour.
func twoOptImprove(depot domain.Coordinates, coords []domain.Coordinates, order []int, maxIterations int) []int {
	n := len(order)
	if n < 3 {
		return order
	}

	best := append([]int(nil), order...)
	bestDist := roundTripKm(depot, coords, best)

	for it := 0; it < maxIterations; it++ {
		improved := false
		for i := 0; i < n-1; i++ {
			for k := i + 1; k < n; k++ {
				cand := twoOptSwap(best, i, k)
				if d := roundTripKm(depot, coords, cand); d < bestDist {
					best = cand
					bestDist = d
					improved = true
				}
			}
		}
		if !improved {
			break
		}
	}
	return best
}

// twoOptSwap returns a copy of the tour with positions i..k reversed.
func twoOptSwap(order []int, i, k int) []int {
	out := make([]int, len(order))
	copy(out, order[:i])
	for j := 0; j <= k-i; j++ {
		out[i+j] = order[k-j]
	}
	copy(out[k+1:], order[k+1:])
	return out
}

// roundTripKm is the closed-loop distance depot -> stops in tour order -> depot.
func roundTripKm(depot domain.Coordinates, coords []domain.Coordinates, order []int) float64 {
	if len(order) == 0 {
		return 0
	}
	total := domain.DistanceKm(depot, coords[order[0]])
	for i := 0; i < len(order)-1; i++ {
		total += domain.DistanceKm(coords[order[i]], coords[order[i+1]])
	}
	total += domain.DistanceKm(coords[order[len(order)-1]], depot)
	return total
}
