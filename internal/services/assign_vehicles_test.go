package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-assignment-service/internal/domain"
)

func plannedRoute(label string, weights ...float64) *domain.PlannedRoute {
	r := &domain.PlannedRoute{Label: label}
	for i, w := range weights {
		r.Orders = append(r.Orders, &domain.Order{ID: label + string(rune('a'+i)), WeightKg: w})
		r.TotalWeightKg += w
	}
	return r
}

func TestAssignRoutesBestFit(t *testing.T) {
	vehicles := []*domain.Vehicle{
		{ID: "big", CapacityKg: 5000},
		{ID: "mid", CapacityKg: 2500},
		{ID: "small", CapacityKg: 1200},
	}
	routes := []*domain.PlannedRoute{
		plannedRoute("r1", 1000, 1000), // 2000 kg
		plannedRoute("r2", 1000),       // 1000 kg
	}

	assigned, unassigned := AssignRoutes(routes, vehicles, day(0), nil)

	require.Len(t, assigned, 2)
	assert.Empty(t, unassigned)

	// 2000 kg fits mid (80% utilization) better than big (40%).
	assert.Equal(t, "mid", assigned[0].Vehicle.ID)
	// 1000 kg fits small (83%) better than big (20%).
	assert.Equal(t, "small", assigned[1].Vehicle.ID)
}

func TestAssignRoutesRespectsCapacityCeiling(t *testing.T) {
	vehicles := []*domain.Vehicle{{ID: "v1", CapacityKg: 2500}}
	// 2400 kg exceeds 2500*0.95 = 2375.
	routes := []*domain.PlannedRoute{plannedRoute("r1", 2400)}

	assigned, unassigned := AssignRoutes(routes, vehicles, day(0), nil)
	assert.Empty(t, assigned)
	require.Len(t, unassigned, 1)
	assert.Equal(t, "r1", unassigned[0].Label)
}

func TestAssignRoutesCountsCommittedWeight(t *testing.T) {
	vehicles := []*domain.Vehicle{{ID: "v1", CapacityKg: 2500}}
	routes := []*domain.PlannedRoute{plannedRoute("r1", 2000)}

	// Earlier runs already committed 1000 kg to the vehicle for this date.
	assigned, unassigned := AssignRoutes(routes, vehicles, day(0), map[string]float64{"v1": 1000})
	assert.Empty(t, assigned)
	assert.Len(t, unassigned, 1)
}

func TestAssignRoutesOneRoutePerVehicle(t *testing.T) {
	vehicles := []*domain.Vehicle{{ID: "v1", CapacityKg: 5000}}
	routes := []*domain.PlannedRoute{
		plannedRoute("r1", 1000),
		plannedRoute("r2", 1000),
	}

	assigned, unassigned := AssignRoutes(routes, vehicles, day(0), nil)
	assert.Len(t, assigned, 1)
	assert.Len(t, unassigned, 1)
}

func TestAssignRoutesHeaviestFirst(t *testing.T) {
	vehicles := []*domain.Vehicle{{ID: "v1", CapacityKg: 3000}}
	light := plannedRoute("light", 500)
	heavy := plannedRoute("heavy", 2500)

	assigned, unassigned := AssignRoutes([]*domain.PlannedRoute{light, heavy}, vehicles, day(0), nil)

	// The heavy route claims the only vehicle.
	require.Len(t, assigned, 1)
	assert.Equal(t, "heavy", assigned[0].Label)
	require.Len(t, unassigned, 1)
	assert.Equal(t, "light", unassigned[0].Label)
}
