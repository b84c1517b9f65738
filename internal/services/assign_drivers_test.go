package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-assignment-service/internal/domain"
)

func TestAssignDriversProximity(t *testing.T) {
	a := &domain.VehicleAssignment{
		Vehicle: &domain.Vehicle{ID: "v1", CapacityKg: 2000, VehicleType: "rigid"},
		Date:    day(0),
		Orders:  []*domain.Order{locatedOrder("o1", -26.2, 28.0)},
	}

	drivers := []*domain.Driver{
		{ID: "d-far", Surname: "Far", Available: true, LicenseCode: "C",
			LastPosition: &domain.Coordinates{Lat: -28.0, Lon: 30.0}},
		{ID: "d-near", Surname: "Near", Available: true, LicenseCode: "C",
			LastPosition: &domain.Coordinates{Lat: -26.21, Lon: 28.01}},
		{ID: "d-unknown", Surname: "Unknown", Available: true, LicenseCode: "C"},
	}

	unstaffed := AssignDrivers([]*domain.VehicleAssignment{a}, drivers)

	assert.Empty(t, unstaffed)
	require.Len(t, a.Drivers, 1)
	assert.Equal(t, "d-near", a.Drivers[0].ID)
}

func TestAssignDriversLicenseFilter(t *testing.T) {
	a := &domain.VehicleAssignment{
		Vehicle: &domain.Vehicle{ID: "v1", CapacityKg: 20000, VehicleType: "articulated"},
		Date:    day(0),
		Orders:  []*domain.Order{locatedOrder("o1", -26.2, 28.0)},
	}

	drivers := []*domain.Driver{
		{ID: "d1", Surname: "VanOnly", Available: true, LicenseCode: "B"},
		{ID: "d2", Surname: "Rigid", Available: true, LicenseCode: "C"},
	}

	unstaffed := AssignDrivers([]*domain.VehicleAssignment{a}, drivers)

	// Nobody holds CE; the vehicle goes out unstaffed and is reported.
	assert.Equal(t, []string{"v1"}, unstaffed)
	assert.Empty(t, a.Drivers)
}

func TestAssignDriversUnavailableSkipped(t *testing.T) {
	a := &domain.VehicleAssignment{
		Vehicle: &domain.Vehicle{ID: "v1", CapacityKg: 2000, VehicleType: "van"},
		Date:    day(0),
		Orders:  []*domain.Order{locatedOrder("o1", -26.2, 28.0)},
	}

	drivers := []*domain.Driver{
		{ID: "d1", Surname: "Busy", Available: false, LicenseCode: "B"},
	}

	unstaffed := AssignDrivers([]*domain.VehicleAssignment{a}, drivers)
	assert.Equal(t, []string{"v1"}, unstaffed)
}

func TestAssignDriversEachConsumedOnce(t *testing.T) {
	a1 := &domain.VehicleAssignment{
		Vehicle: &domain.Vehicle{ID: "v1", CapacityKg: 2000, VehicleType: "rigid"},
		Date:    day(0),
		Orders:  []*domain.Order{locatedOrder("o1", -26.2, 28.0)},
	}
	a2 := &domain.VehicleAssignment{
		Vehicle: &domain.Vehicle{ID: "v2", CapacityKg: 2000, VehicleType: "rigid"},
		Date:    day(0),
		Orders:  []*domain.Order{locatedOrder("o2", -26.3, 28.1)},
	}

	drivers := []*domain.Driver{
		{ID: "d1", Surname: "Solo", Available: true, LicenseCode: "C"},
	}

	unstaffed := AssignDrivers([]*domain.VehicleAssignment{a1, a2}, drivers)

	require.Len(t, a1.Drivers, 1)
	assert.Empty(t, a2.Drivers)
	assert.Equal(t, []string{"v2"}, unstaffed)
}

func TestAssignDriversPairedVehiclesShareOne(t *testing.T) {
	tractor := &domain.VehicleAssignment{
		Vehicle: &domain.Vehicle{ID: "v1", CapacityKg: 8000, VehicleType: "articulated", PairGroupID: "pair-a"},
		Date:    day(0),
		Orders:  []*domain.Order{locatedOrder("o1", -26.2, 28.0)},
	}
	trailer := &domain.VehicleAssignment{
		Vehicle: &domain.Vehicle{ID: "v2", CapacityKg: 12000, VehicleType: "articulated", PairGroupID: "pair-a"},
		Date:    day(0),
		Orders:  []*domain.Order{locatedOrder("o2", -26.21, 28.01)},
	}

	drivers := []*domain.Driver{
		{ID: "d1", Surname: "Hauler", Available: true, LicenseCode: "CE"},
		{ID: "d2", Surname: "Spare", Available: true, LicenseCode: "CE"},
	}

	unstaffed := AssignDrivers([]*domain.VehicleAssignment{tractor, trailer}, drivers)

	assert.Empty(t, unstaffed)
	require.Len(t, tractor.Drivers, 1)
	require.Len(t, trailer.Drivers, 1)
	// One driver for the whole pair; the spare stays in the pool.
	assert.Equal(t, tractor.Drivers[0].ID, trailer.Drivers[0].ID)
}
