package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fleet-assignment-service/internal/domain"
)

func day(offset int) time.Time {
	return time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func TestCanAssignCapacityMargin(t *testing.T) {
	v := &domain.Vehicle{ID: "v1", CapacityKg: 1000}
	a := &domain.VehicleAssignment{Vehicle: v, Date: day(0)}

	// 950 kg is exactly the 95% ceiling.
	assert.True(t, CanAssign(&domain.Order{ID: "o1", WeightKg: 950}, a, nil))
	assert.False(t, CanAssign(&domain.Order{ID: "o2", WeightKg: 951}, a, nil))

	a.Orders = append(a.Orders, &domain.Order{ID: "o3", WeightKg: 900})
	assert.False(t, CanAssign(&domain.Order{ID: "o4", WeightKg: 100}, a, nil))
	assert.True(t, CanAssign(&domain.Order{ID: "o5", WeightKg: 50}, a, nil))
}

func TestCanAssignCommittedBaseWeight(t *testing.T) {
	v := &domain.Vehicle{ID: "v1", CapacityKg: 1000}
	a := &domain.VehicleAssignment{Vehicle: v, Date: day(0), BaseWeightKg: 900}

	// Committed weight from earlier runs counts against the ceiling.
	assert.False(t, CanAssign(&domain.Order{ID: "o1", WeightKg: 100}, a, nil))
	assert.True(t, CanAssign(&domain.Order{ID: "o2", WeightKg: 50}, a, nil))
}

func TestCanAssignInTripImmutable(t *testing.T) {
	v := &domain.Vehicle{ID: "v1", CapacityKg: 1000}
	a := &domain.VehicleAssignment{Vehicle: v, Date: day(0)}

	o := &domain.Order{ID: "o1", WeightKg: 10, Status: domain.StatusInTrip}
	assert.False(t, CanAssign(o, a, nil))
}

func TestCanAssignCustomerRestriction(t *testing.T) {
	v := &domain.Vehicle{
		ID:           "v1",
		CapacityKg:   1000,
		Restrictions: domain.ParseRestrictions("no acme"),
	}
	a := &domain.VehicleAssignment{Vehicle: v, Date: day(0)}

	blocked := &domain.Order{ID: "o1", CustomerName: "Acme Chemicals", WeightKg: 10}
	other := &domain.Order{ID: "o2", CustomerName: "Bolt Supplies", WeightKg: 10}

	assert.False(t, CanAssign(blocked, a, nil))
	assert.True(t, CanAssign(other, a, nil))
}

func TestCanAssignDrumRestrictions(t *testing.T) {
	ban := &domain.VehicleAssignment{
		Vehicle: &domain.Vehicle{ID: "v1", CapacityKg: 1000, Restrictions: domain.ParseRestrictions("no drums")},
		Date:    day(0),
	}
	soft := &domain.VehicleAssignment{
		Vehicle: &domain.Vehicle{ID: "v2", CapacityKg: 1000, Restrictions: domain.ParseRestrictions("ideally no drums")},
		Date:    day(0),
	}
	capped := &domain.VehicleAssignment{
		Vehicle: &domain.Vehicle{ID: "v3", CapacityKg: 1000, Restrictions: domain.ParseRestrictions("max 4x 210L drums")},
		Date:    day(0),
	}

	drums := &domain.Order{ID: "o1", WeightKg: 10, Drums: 3}
	noDrums := &domain.Order{ID: "o2", WeightKg: 10}

	assert.False(t, CanAssign(drums, ban, nil))
	assert.True(t, CanAssign(noDrums, ban, nil))

	// "ideally" softens the prohibition to a priority penalty.
	assert.True(t, CanAssign(drums, soft, nil))
	assert.Greater(t, VehiclePriority(drums, soft), VehiclePriority(noDrums, soft)+999)

	assert.True(t, CanAssign(drums, capped, nil))
	capped.Orders = append(capped.Orders, &domain.Order{ID: "o3", WeightKg: 10, Drums: 2})
	assert.False(t, CanAssign(drums, capped, nil), "3 more drums would exceed the cap of 4")
}

func TestCanAssignPairedVehicles(t *testing.T) {
	tractor := &domain.Vehicle{ID: "v1", CapacityKg: 1000, PairGroupID: "pair-a"}
	trailer := &domain.Vehicle{ID: "v2", CapacityKg: 2000, PairGroupID: "pair-a"}

	a1 := &domain.VehicleAssignment{Vehicle: tractor, Date: day(0)}
	a2 := &domain.VehicleAssignment{Vehicle: trailer, Date: day(0)}
	all := []*domain.VehicleAssignment{a1, a2}

	// Combined usable capacity is (1000+2000)*0.95 = 2850.
	big := &domain.Order{ID: "o1", WeightKg: 2800, Zone: "West"}
	assert.True(t, CanAssign(big, a1, all))

	a2.Orders = append(a2.Orders, &domain.Order{
		ID: "o2", WeightKg: 2000, Zone: "West",
		Location: &domain.Coordinates{Lat: -26.2, Lon: 28.0},
	})

	// Combined load now rules the big order out.
	assert.False(t, CanAssign(big, a1, all))

	// Same region required once the partner carries orders.
	sameRegion := &domain.Order{ID: "o3", WeightKg: 100, Zone: "West"}
	otherRegion := &domain.Order{ID: "o4", WeightKg: 100, Zone: "East"}
	assert.True(t, CanAssign(sameRegion, a1, all))
	assert.False(t, CanAssign(otherRegion, a1, all))

	// First stops further than 50 km apart break pair coherence.
	a1.Orders = append(a1.Orders, &domain.Order{
		ID: "o5", WeightKg: 100, Zone: "West",
		Location: &domain.Coordinates{Lat: -27.5, Lon: 29.5},
	})
	assert.False(t, CanAssign(sameRegion, a1, all))
}

func TestVehiclePriorityBestFit(t *testing.T) {
	o := &domain.Order{ID: "o1", WeightKg: 100}

	roomy := &domain.VehicleAssignment{Vehicle: &domain.Vehicle{ID: "v1", CapacityKg: 5000}, Date: day(0)}
	snug := &domain.VehicleAssignment{Vehicle: &domain.Vehicle{ID: "v2", CapacityKg: 1000}, Date: day(0)}

	// Less remaining space scores better.
	assert.Less(t, VehiclePriority(o, snug), VehiclePriority(o, roomy))
}
