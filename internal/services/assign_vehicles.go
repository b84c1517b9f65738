package services

import (
	"sort"
	"time"

	"fleet-assignment-service/internal/domain"
)

// AssignRoutes matches planned routes to vehicles by weight, best-fit.
//
// Routes are processed heaviest-first. For each route every still-unassigned
// vehicle whose usable capacity (after the committed base weight for the
// date) covers the route weight is a candidate, and the one yielding the
// highest utilization wins: the closest fit, not the first fit. Each vehicle
// receives at most one route per day. Routes no vehicle can carry are
// returned as unassignable; their orders remain candidates for the greedy
// top-up or the next day.
func AssignRoutes(
	routes []*domain.PlannedRoute,
	vehicles []*domain.Vehicle,
	date time.Time,
	baseWeightKg map[string]float64,
) (assigned []*domain.VehicleAssignment, unassigned []*domain.PlannedRoute) {
	sorted := append([]*domain.PlannedRoute(nil), routes...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].TotalWeightKg != sorted[j].TotalWeightKg {
			return sorted[i].TotalWeightKg > sorted[j].TotalWeightKg
		}
		return sorted[i].Label < sorted[j].Label
	})

	fleet := append([]*domain.Vehicle(nil), vehicles...)
	sort.Slice(fleet, func(i, j int) bool {
		if fleet[i].CapacityKg != fleet[j].CapacityKg {
			return fleet[i].CapacityKg > fleet[j].CapacityKg
		}
		return fleet[i].ID < fleet[j].ID
	})

	taken := make(map[string]bool, len(fleet))

	for _, route := range sorted {
		var best *domain.Vehicle
		bestUtil := 0.0

		for _, v := range fleet {
			if taken[v.ID] || v.CapacityKg <= 0 {
				continue
			}
			base := baseWeightKg[v.ID]
			if base+route.TotalWeightKg > v.UsableCapacityKg() {
				continue
			}
			util := (base + route.TotalWeightKg) / v.CapacityKg
			if best == nil || util > bestUtil {
				best = v
				bestUtil = util
			}
		}

		if best == nil {
			unassigned = append(unassigned, route)
			continue
		}

		taken[best.ID] = true
		assigned = append(assigned, &domain.VehicleAssignment{
			Vehicle:      best,
			Date:         date,
			Orders:       append([]*domain.Order(nil), route.Orders...),
			Label:        route.Label,
			BaseWeightKg: baseWeightKg[best.ID],
		})
	}

	return assigned, unassigned
}
