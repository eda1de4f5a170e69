package geomath

import "math"

const earthRadiusMeters = 6371000

// DistanceMeters returns the great-circle distance between two coordinates
// in meters, using the haversine formula on a spherical earth.
func DistanceMeters(lat1 float64, lng1 float64, lat2 float64, lng2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// NearestDistanceMeters returns the distance from a point to the closest
// vertex of a LineString geometry. Coordinates are (longitude, latitude)
// pairs. Returns +Inf for an empty geometry.
func NearestDistanceMeters(lat float64, lng float64, coordinates [][]float64) float64 {
	nearest := math.Inf(1)

	for _, coordinate := range coordinates {
		if len(coordinate) < 2 {
			continue
		}

		distance := DistanceMeters(lat, lng, coordinate[1], coordinate[0])
		if distance < nearest {
			nearest = distance
		}
	}

	return nearest
}
