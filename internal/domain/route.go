package domain

import "time"

// A set of orders grouped for one vehicle-day by the clustering step.
//
// A PlannedRoute is planning data only: it is created by clustering, consumed
// by vehicle assignment and discarded after persistence.
type PlannedRoute struct {
	Label         string
	Orders        []*Order
	TotalWeightKg float64
	Centroid      *Coordinates
	RoundTripKm   float64
}

// A stop sequence produced by the route sequencer for one planned route.
// Orders appear in visiting order; orders lacking coordinates are appended
// unsequenced at the end.
type SequencedRoute struct {
	Orders        []*Order
	DistanceKm    float64
	DurationHours float64
	Geometry      string
}

// The join of a vehicle, its planned route, its drivers and the sequenced
// order list for one scheduled date. This is the unit persisted back to the
// order store and to the per-vehicle-per-day route record.
type VehicleAssignment struct {
	Vehicle       *Vehicle
	Date          time.Time
	Orders        []*Order
	Drivers       []*Driver
	Label         string
	DistanceKm    float64
	DurationHours float64
	Geometry      string

	// Weight already committed to the vehicle for this date by earlier,
	// persisted runs. Never overwritten.
	BaseWeightKg float64
}

// Total weight currently on the vehicle for this date, committed plus newly
// planned.
func (a *VehicleAssignment) CurrentWeightKg() float64 {
	w := a.BaseWeightKg
	for _, o := range a.Orders {
		w += o.WeightKg
	}
	return w
}

// Drums currently loaded for this date.
func (a *VehicleAssignment) DrumsLoaded() int {
	n := 0
	for _, o := range a.Orders {
		n += o.Drums
	}
	return n
}

// Remaining weight the vehicle may accept under the 5% safety margin.
func (a *VehicleAssignment) RemainingKg() float64 {
	return a.Vehicle.UsableCapacityKg() - a.CurrentWeightKg()
}

// Utilization is assigned weight over rated capacity, as a fraction.
func (a *VehicleAssignment) Utilization() float64 {
	if a.Vehicle.CapacityKg == 0 {
		return 0
	}
	return a.CurrentWeightKg() / a.Vehicle.CapacityKg
}

// FirstLocated returns the first order carrying a coordinate, in sequence
// order.
func (a *VehicleAssignment) FirstLocated() *Order {
	for _, o := range a.Orders {
		if o.Location != nil {
			return o
		}
	}
	return nil
}

// Persisted per-vehicle-per-day route record, upserted on each run.
type RouteRecord struct {
	VehicleID     string
	ScheduledDate time.Time
	Geometry      string
	DistanceKm    float64
	DurationHours float64
}
