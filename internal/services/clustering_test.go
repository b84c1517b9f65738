package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-assignment-service/internal/domain"
)

// Zone centroids roughly 20 km apart on a line, with one far outlier.
func clusterFixture() []*domain.Order {
	at := func(lat, lon float64) *domain.Coordinates {
		return &domain.Coordinates{Lat: lat, Lon: lon}
	}
	return []*domain.Order{
		{ID: "w1", Zone: "West", WeightKg: 1200, Location: at(-26.20, 27.80)},
		{ID: "w2", Zone: "West", WeightKg: 800, Location: at(-26.22, 27.82)},
		{ID: "c1", Zone: "Central", WeightKg: 600, Location: at(-26.20, 28.00)},
		{ID: "e1", Zone: "East", WeightKg: 400, Location: at(-26.20, 28.20)},
		{ID: "f1", Zone: "Farmland", WeightKg: 300, Location: at(-29.00, 31.00)},
	}
}

func TestClusterOrdersMergesNearbyRegions(t *testing.T) {
	routes := ClusterOrders(clusterFixture(), ClusterConfig{})

	require.Len(t, routes, 2)

	// Heaviest region (West, 2000 kg) seeds the first route and absorbs its
	// neighbors up to the weight ceiling.
	assert.Equal(t, "West / Central / East", routes[0].Label)
	assert.InDelta(t, 3000, routes[0].TotalWeightKg, 0.01)
	assert.Len(t, routes[0].Orders, 4)
	require.NotNil(t, routes[0].Centroid)

	// The outlier is beyond the 100 km merge radius and stands alone.
	assert.Equal(t, "Farmland", routes[1].Label)
	assert.InDelta(t, 300, routes[1].TotalWeightKg, 0.01)
}

func TestClusterOrdersWeightCeiling(t *testing.T) {
	orders := clusterFixture()
	// Shrinking the target so West alone exceeds the merge budget: the
	// ceiling is 1000*1.3 = 1300, so nothing may join West's 2000 kg.
	routes := ClusterOrders(orders, ClusterConfig{TargetWeightKg: 1000})

	require.NotEmpty(t, routes)
	assert.Equal(t, "West", routes[0].Label)

	// No merged route may exceed target*slack; a single oversize region may
	// stand alone above it.
	for _, r := range routes {
		if !singleZone(r.Orders) {
			assert.LessOrEqual(t, r.TotalWeightKg, 1000*1.3, "route %s", r.Label)
		}
	}
}

func TestClusterOrdersEachRegionConsumedOnce(t *testing.T) {
	routes := ClusterOrders(clusterFixture(), ClusterConfig{})

	seen := map[string]bool{}
	total := 0
	for _, r := range routes {
		for _, o := range r.Orders {
			assert.False(t, seen[o.ID], "order %s appears twice", o.ID)
			seen[o.ID] = true
			total++
		}
	}
	assert.Equal(t, 5, total)
}

func TestClusterOrdersNoCoordinatesStandAlone(t *testing.T) {
	orders := []*domain.Order{
		{ID: "a1", Zone: "Unknownville", WeightKg: 100},
		{ID: "b1", Zone: "West", WeightKg: 500, Location: &domain.Coordinates{Lat: -26.2, Lon: 27.8}},
	}

	routes := ClusterOrders(orders, ClusterConfig{})
	require.Len(t, routes, 2)

	// A region with no located orders has no centroid and cannot merge.
	for _, r := range routes {
		assert.Len(t, r.Orders, 1)
	}
}

func singleZone(orders []*domain.Order) bool {
	for _, o := range orders[1:] {
		if o.Zone != orders[0].Zone {
			return false
		}
	}
	return true
}
