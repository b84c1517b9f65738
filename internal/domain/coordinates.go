package domain

import "math"

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Earth radius used for great-circle math, in kilometers.
const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle (Haversine) distance between two points
// in kilometers.
func DistanceKm(a, b Coordinates) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Centroid returns the arithmetic mean of the orders' known coordinates.
// The second result is false when no order carries a coordinate.
func Centroid(orders []*Order) (Coordinates, bool) {
	var sumLat, sumLon float64
	n := 0
	for _, o := range orders {
		if o.Location == nil {
			continue
		}
		sumLat += o.Location.Lat
		sumLon += o.Location.Lon
		n++
	}
	if n == 0 {
		return Coordinates{}, false
	}
	return Coordinates{Lat: sumLat / float64(n), Lon: sumLon / float64(n)}, true
}
