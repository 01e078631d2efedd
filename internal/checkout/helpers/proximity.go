package helpers

import (
	"github.com/shery7378/multifront/internal/stores"
	"github.com/shery7378/multifront/pkg/geo"
)

// AreStoresNearby reports whether every pair of stores with coordinates lies
// within thresholdKm. Stores without coordinates are ignored; fewer than two
// locatable stores is treated as nearby. thresholdKm <= 0 uses the default radius.
func AreStoresNearby(list []*stores.Metadata, thresholdKm float64) bool {
	if thresholdKm <= 0 {
		thresholdKm = geo.DefaultDeliveryRadiusKm
	}
	points := make([]geo.Point, 0, len(list))
	for _, s := range list {
		if s.HasCoordinates() {
			points = append(points, s.Point())
		}
	}
	if len(points) < 2 {
		return true
	}
	return geo.MaxPairwiseKm(points) <= thresholdKm
}
