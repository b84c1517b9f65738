package services

import (
	"sort"

	"fleet-assignment-service/internal/domain"
)

// AssignDrivers matches available, license-qualified drivers to the given
// assignments. Drivers are sorted by known proximity to the vehicle's first
// stop (unknown positions last) and consumed from the pool as they are
// assigned. Paired vehicles share exactly one driver: the second member of a
// pair copies its partner's assignment and never consumes from the pool.
//
// Returned are the vehicle IDs left with zero drivers; this is a reportable
// condition, not an error, and the vehicle still carries its orders.
func AssignDrivers(assignments []*domain.VehicleAssignment, drivers []*domain.Driver) (unstaffed []string) {
	pool := make([]*domain.Driver, 0, len(drivers))
	for _, d := range drivers {
		if d.Available {
			pool = append(pool, d)
		}
	}
	consumed := make(map[string]bool, len(pool))

	ordered := append([]*domain.VehicleAssignment(nil), assignments...)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Vehicle.ID < ordered[j].Vehicle.ID
	})

	for _, a := range ordered {
		// Second pair member rides with the driver already assigned (or
		// pending) for its partner.
		if partner := pairPartner(a, ordered); partner != nil && len(partner.Drivers) > 0 {
			a.Drivers = partner.Drivers
			continue
		}

		picked := pickDriver(a, pool, consumed)
		if picked == nil {
			// A pending partner may still staff this pair later; only count
			// each pair once.
			if partner := pairPartner(a, ordered); partner == nil || a.Vehicle.ID < partner.Vehicle.ID {
				unstaffed = append(unstaffed, a.Vehicle.ID)
			}
			continue
		}
		consumed[picked.ID] = true
		a.Drivers = []*domain.Driver{picked}
	}

	return unstaffed
}

// pickDriver selects the closest qualified driver still in the pool.
func pickDriver(a *domain.VehicleAssignment, pool []*domain.Driver, consumed map[string]bool) *domain.Driver {
	var pickup *domain.Coordinates
	if first := a.FirstLocated(); first != nil {
		pickup = first.Location
	}

	qualified := make([]*domain.Driver, 0, len(pool))
	for _, d := range pool {
		if !consumed[d.ID] && d.HasRequiredLicense(a.Vehicle) {
			qualified = append(qualified, d)
		}
	}
	if len(qualified) == 0 {
		return nil
	}

	sort.Slice(qualified, func(i, j int) bool {
		di, dj := qualified[i], qualified[j]
		switch {
		case pickup == nil || (di.LastPosition == nil && dj.LastPosition == nil):
			return di.ID < dj.ID
		case di.LastPosition == nil:
			return false
		case dj.LastPosition == nil:
			return true
		}
		a := domain.DistanceKm(*di.LastPosition, *pickup)
		b := domain.DistanceKm(*dj.LastPosition, *pickup)
		if a != b {
			return a < b
		}
		return di.ID < dj.ID
	})

	return qualified[0]
}
