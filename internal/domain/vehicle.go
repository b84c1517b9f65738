package domain

// Safety margin: a vehicle is never loaded past 95% of its rated capacity.
const CapacitySafetyFactor = 0.95

// A fleet vehicle eligible to receive a planned route.
//
// PairGroupID couples two vehicles into a permanently linked unit (e.g. a
// tractor and its trailer) that shares one driver and one combined capacity
// pool. Pairing is declarative data, never inferred from registrations.
type Vehicle struct {
	ID           string
	Registration string
	CapacityKg   float64
	Restrictions []Restriction
	VehicleType  string
	PairGroupID  string
}

// Usable capacity after reserving the 5% safety margin.
func (v *Vehicle) UsableCapacityKg() float64 {
	return v.CapacityKg * CapacitySafetyFactor
}

func (v *Vehicle) IsPaired() bool { return v.PairGroupID != "" }

// MaxDrums returns the drum cap and whether one is configured.
func (v *Vehicle) MaxDrums() (int, bool) {
	for _, r := range v.Restrictions {
		if r.Kind == RestrictMaxDrums {
			return r.Limit, true
		}
	}
	return 0, false
}

// HasRestriction reports whether the vehicle carries a restriction of the
// given kind.
func (v *Vehicle) HasRestriction(kind RestrictionKind) bool {
	for _, r := range v.Restrictions {
		if r.Kind == kind {
			return true
		}
	}
	return false
}
