// Package geo holds the great-circle helpers used by checkout proximity rules.
package geo

import "math"

const (
	// EarthRadiusKm is the mean Earth radius used by Haversine.
	EarthRadiusKm = 6371.0

	// DefaultDeliveryRadiusKm is the radius within which stores count as nearby.
	DefaultDeliveryRadiusKm = 10.0
)

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Lat float64
	Lng float64
}

// HaversineKm returns the great-circle distance between two points in kilometres.
func HaversineKm(a, b Point) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

// MaxPairwiseKm returns the largest distance between any two points. Fewer than two points yield 0.
func MaxPairwiseKm(points []Point) float64 {
	var max float64
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			if d := HaversineKm(points[i], points[j]); d > max {
				max = d
			}
		}
	}
	return max
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
