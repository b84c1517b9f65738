package services

import (
	"sort"
	"strings"

	"fleet-assignment-service/internal/domain"
)

// Tunables for the clustering pipeline.
type ClusterConfig struct {
	// Target weight for a merged route; routes never grow past
	// TargetWeightKg * WeightSlack.
	TargetWeightKg float64
	// Regions further apart than this are never merged.
	MaxRegionDistanceKm float64
	// Slack factor over the target weight. The later vehicle-assignment step
	// still enforces the 95% capacity ceiling, so the slack only widens the
	// candidate pool.
	WeightSlack float64
}

func (c ClusterConfig) withDefaults() ClusterConfig {
	if c.TargetWeightKg <= 0 {
		c.TargetWeightKg = 2500
	}
	if c.MaxRegionDistanceKm <= 0 {
		c.MaxRegionDistanceKm = 100
	}
	if c.WeightSlack <= 0 {
		c.WeightSlack = 1.3
	}
	return c
}

type region struct {
	name     string
	orders   []*domain.Order
	weightKg float64
	centroid *domain.Coordinates
}

type regionNeighbor struct {
	name       string
	distanceKm float64
}

// MapLocations groups orders by their zone label. Orders without a zone are
// bucketed under the empty label and end up as a standalone route.
func MapLocations(orders []*domain.Order) map[string][]*domain.Order {
	byZone := make(map[string][]*domain.Order)
	for _, o := range orders {
		byZone[o.Zone] = append(byZone[o.Zone], o)
	}
	return byZone
}

// ClusterOrders runs the deterministic three-step pipeline: group orders by
// zone, compute inter-region centroid distances, then merge nearby regions
// heaviest-first into target-weight routes. Each region is consumed at most
// once; the result is ordered heaviest route first.
func ClusterOrders(orders []*domain.Order, cfg ClusterConfig) []*domain.PlannedRoute {
	cfg = cfg.withDefaults()

	regions := buildRegions(MapLocations(orders))
	if len(regions) == 0 {
		return nil
	}

	neighbors := analyzeRegionDistances(regions)
	maxWeight := cfg.TargetWeightKg * cfg.WeightSlack

	byName := make(map[string]*region, len(regions))
	for _, r := range regions {
		byName[r.name] = r
	}

	consumed := make(map[string]bool, len(regions))
	var routes []*domain.PlannedRoute

	// Heaviest regions seed routes first so the largest demand anchors each
	// merge rather than being split across leftovers.
	for _, seed := range regions {
		if consumed[seed.name] {
			continue
		}
		consumed[seed.name] = true

		names := []string{seed.name}
		merged := append([]*domain.Order(nil), seed.orders...)
		weight := seed.weightKg

		for _, nb := range neighbors[seed.name] {
			if consumed[nb.name] || nb.distanceKm > cfg.MaxRegionDistanceKm {
				continue
			}
			cand := byName[nb.name]
			if weight+cand.weightKg > maxWeight {
				continue
			}
			consumed[nb.name] = true
			names = append(names, nb.name)
			merged = append(merged, cand.orders...)
			weight += cand.weightKg
		}

		route := &domain.PlannedRoute{
			Label:         strings.Join(names, " / "),
			Orders:        merged,
			TotalWeightKg: weight,
		}
		if c, ok := domain.Centroid(merged); ok {
			route.Centroid = &c
		}
		routes = append(routes, route)
	}

	return routes
}

func buildRegions(byZone map[string][]*domain.Order) []*region {
	regions := make([]*region, 0, len(byZone))
	for name, orders := range byZone {
		r := &region{name: name, orders: orders}
		for _, o := range orders {
			r.weightKg += o.WeightKg
		}
		if c, ok := domain.Centroid(orders); ok {
			r.centroid = &c
		}
		regions = append(regions, r)
	}

	// Heaviest first; name tie-break keeps runs deterministic.
	sort.Slice(regions, func(i, j int) bool {
		if regions[i].weightKg != regions[j].weightKg {
			return regions[i].weightKg > regions[j].weightKg
		}
		return regions[i].name < regions[j].name
	})
	return regions
}

// analyzeRegionDistances builds a sorted nearest-neighbor list per region
// from centroid-to-centroid distances. Regions without a centroid (no order
// has coordinates yet) get no neighbors and stand alone.
func analyzeRegionDistances(regions []*region) map[string][]regionNeighbor {
	out := make(map[string][]regionNeighbor, len(regions))
	for _, a := range regions {
		if a.centroid == nil {
			continue
		}
		var list []regionNeighbor
		for _, b := range regions {
			if b.name == a.name || b.centroid == nil {
				continue
			}
			list = append(list, regionNeighbor{
				name:       b.name,
				distanceKm: domain.DistanceKm(*a.centroid, *b.centroid),
			})
		}
		sort.Slice(list, func(i, j int) bool {
			if list[i].distanceKm != list[j].distanceKm {
				return list[i].distanceKm < list[j].distanceKm
			}
			return list[i].name < list[j].name
		})
		out[a.name] = list
	}
	return out
}
