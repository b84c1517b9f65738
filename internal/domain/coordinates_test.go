package domain

import (
	"math"
	"testing"
)

func TestDistanceKm(t *testing.T) {
	// Johannesburg to Pretoria, roughly 50 km apart.
	jhb := Coordinates{Lat: -26.2041, Lon: 28.0473}
	pta := Coordinates{Lat: -25.7479, Lon: 28.2293}

	d := DistanceKm(jhb, pta)
	if d < 45 || d > 60 {
		t.Fatalf("distance = %.1f km, want roughly 50", d)
	}

	if got := DistanceKm(jhb, jhb); got != 0 {
		t.Fatalf("zero distance = %v, want 0", got)
	}

	// Symmetry.
	if a, b := DistanceKm(jhb, pta), DistanceKm(pta, jhb); math.Abs(a-b) > 1e-9 {
		t.Fatalf("distance not symmetric: %v vs %v", a, b)
	}
}

func TestCentroid(t *testing.T) {
	orders := []*Order{
		{ID: "1", Location: &Coordinates{Lat: 0, Lon: 0}},
		{ID: "2", Location: &Coordinates{Lat: 2, Lon: 4}},
		{ID: "3"}, // no coordinates, ignored
	}

	c, ok := Centroid(orders)
	if !ok {
		t.Fatal("expected a centroid")
	}
	if c.Lat != 1 || c.Lon != 2 {
		t.Fatalf("centroid = %+v, want (1, 2)", c)
	}

	if _, ok := Centroid([]*Order{{ID: "4"}}); ok {
		t.Fatal("expected no centroid when no order has coordinates")
	}
}
