package services

import (
	"strings"

	"fleet-assignment-service/internal/domain"
)

// Maximum distance between the first stops of two paired vehicles before a
// further order is rejected for geographic incoherence.
const pairCoherenceKm = 50.0

// Penalty applied when a drum-carrying order would land on a vehicle that
// should ideally not carry drums.
const softDrumPenalty = 1000.0

// CanAssign reports whether the order may be loaded onto the assignment's
// vehicle without violating any hard constraint: capacity under the 5%
// safety margin (combined across a vehicle pair), customer restrictions,
// drum restrictions and paired-vehicle geographic coherence.
//
// allAssignments must contain every assignment for the same scheduling date
// so that a paired vehicle's partner can be located.
func CanAssign(o *domain.Order, a *domain.VehicleAssignment, allAssignments []*domain.VehicleAssignment) bool {
	if o.WeightKg < 0 || !o.Reassignable() {
		return false
	}

	partner := pairPartner(a, allAssignments)

	// Capacity. Paired vehicles are evaluated against the combined capacity
	// and combined load of the whole pair.
	capacityKg := a.Vehicle.UsableCapacityKg()
	loadKg := a.CurrentWeightKg()
	if partner != nil {
		capacityKg += partner.Vehicle.UsableCapacityKg()
		loadKg += partner.CurrentWeightKg()
	}
	if loadKg+o.WeightKg > capacityKg {
		return false
	}

	if restrictedCustomer(o, a.Vehicle) {
		return false
	}

	if !drumsAllowed(o, a) {
		return false
	}

	// Once either member of a pair carries orders, the other must share the
	// same destination region, and their first stops must stay within range.
	if partner != nil && len(partner.Orders) > 0 {
		if orderRegion(partner.Orders[0]) != orderRegion(o) {
			return false
		}
		if len(a.Orders) > 0 {
			first, partnerFirst := a.FirstLocated(), partner.FirstLocated()
			if first != nil && partnerFirst != nil &&
				domain.DistanceKm(*first.Location, *partnerFirst.Location) > pairCoherenceKm {
				return false
			}
		}
	}

	return true
}

// VehiclePriority scores a candidate vehicle for an order; lower is better.
// Best-fit: vehicles with less remaining space are preferred. Orders needing
// a soft drum-restricted vehicle are deprioritized so such vehicles stay a
// last resort for drums.
func VehiclePriority(o *domain.Order, a *domain.VehicleAssignment) float64 {
	score := a.RemainingKg()
	if o.Drums > 0 && a.Vehicle.HasRestriction(domain.RestrictSoftNoDrums) {
		score += softDrumPenalty
	}
	return score
}

func restrictedCustomer(o *domain.Order, v *domain.Vehicle) bool {
	name := strings.ToLower(o.CustomerName)
	for _, r := range v.Restrictions {
		if r.Kind == domain.RestrictCustomer && strings.Contains(name, r.Token) {
			return true
		}
	}
	return false
}

func drumsAllowed(o *domain.Order, a *domain.VehicleAssignment) bool {
	if o.Drums == 0 {
		return true
	}
	if a.Vehicle.HasRestriction(domain.RestrictNoDrums) {
		return false
	}
	if limit, ok := a.Vehicle.MaxDrums(); ok && a.DrumsLoaded()+o.Drums > limit {
		return false
	}
	return true
}

func orderRegion(o *domain.Order) string {
	if o.DestinationGroup != "" {
		return o.DestinationGroup
	}
	return o.Zone
}

// pairPartner finds the assignment of the other member of a's vehicle pair
// for the same date, or nil for unpaired vehicles.
func pairPartner(a *domain.VehicleAssignment, all []*domain.VehicleAssignment) *domain.VehicleAssignment {
	if !a.Vehicle.IsPaired() {
		return nil
	}
	for _, other := range all {
		if other == a || other.Vehicle.ID == a.Vehicle.ID {
			continue
		}
		if other.Vehicle.PairGroupID == a.Vehicle.PairGroupID && other.Date.Equal(a.Date) {
			return other
		}
	}
	return nil
}
