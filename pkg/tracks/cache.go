package tracks

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/signalrail/signalrail/pkg/overpass"
)

const (
	// DefaultTTL matches roughly how often the underlying OSM extracts
	// change for a given area.
	DefaultTTL = 2 * time.Hour

	// DefaultGridPrecision of two decimal places buckets requests into
	// roughly 1km cells.
	DefaultGridPrecision = 2
)

// Fetcher provides raw railway elements around a coordinate. A total
// upstream failure is an empty slice, not an error.
type Fetcher interface {
	NearbyRailways(ctx context.Context, lat float64, lng float64, radiusMeters int) []overpass.Element
}

type cellKey struct {
	Lat          float64
	Lng          float64
	RadiusMeters int
}

type cellEntry struct {
	CachedAt time.Time
	Segments []TrackSegment
}

// Cache buckets track lookups into a coordinate grid and serves repeat
// requests from memory. Entries are replaced whole on refresh, never
// merged, and live for the process lifetime only.
type Cache struct {
	TTL           time.Duration
	GridPrecision int

	fetcher Fetcher

	cellsMutex sync.Mutex
	cells      map[cellKey]cellEntry
}

func NewCache(fetcher Fetcher, ttl time.Duration, gridPrecision int) *Cache {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	if gridPrecision == 0 {
		gridPrecision = DefaultGridPrecision
	}

	cache := &Cache{
		TTL:           ttl,
		GridPrecision: gridPrecision,

		fetcher: fetcher,

		cells: map[cellKey]cellEntry{},
	}

	return cache
}

// Get returns the tracks near a coordinate, fetching and normalising
// from upstream on a cache miss. Concurrent misses for the same cell may
// each fetch; the last write wins.
func (cache *Cache) Get(ctx context.Context, lat float64, lng float64, radiusMeters int) []TrackSegment {
	if segments, hit := cache.lookup(lat, lng, radiusMeters); hit {
		log.Debug().Float64("lat", lat).Float64("lng", lng).Int("tracks", len(segments)).Msg("Track cache hit")
		return segments
	}

	elements := cache.fetcher.NearbyRailways(ctx, lat, lng, radiusMeters)
	segments := NormalizeElements(elements)

	cache.store(lat, lng, radiusMeters, segments)

	return segments
}

func (cache *Cache) lookup(lat float64, lng float64, radiusMeters int) ([]TrackSegment, bool) {
	cache.cellsMutex.Lock()
	defer cache.cellsMutex.Unlock()

	now := time.Now()

	if entry, exists := cache.cells[cache.key(lat, lng, radiusMeters)]; exists {
		if now.Sub(entry.CachedAt) < cache.TTL {
			return entry.Segments, true
		}
	}

	// probe neighbouring cells for wider coverage
	step := cache.gridStep()
	for _, deltaLat := range []float64{-step, 0, step} {
		for _, deltaLng := range []float64{-step, 0, step} {
			if deltaLat == 0 && deltaLng == 0 {
				continue
			}

			entry, exists := cache.cells[cache.key(lat+deltaLat, lng+deltaLng, radiusMeters)]
			if exists && now.Sub(entry.CachedAt) < cache.TTL {
				return entry.Segments, true
			}
		}
	}

	return nil, false
}

func (cache *Cache) store(lat float64, lng float64, radiusMeters int, segments []TrackSegment) {
	cache.cellsMutex.Lock()
	defer cache.cellsMutex.Unlock()

	now := time.Now()

	cache.cells[cache.key(lat, lng, radiusMeters)] = cellEntry{
		CachedAt: now,
		Segments: segments,
	}

	for key, entry := range cache.cells {
		if now.Sub(entry.CachedAt) > 2*cache.TTL {
			delete(cache.cells, key)
		}
	}
}

func (cache *Cache) key(lat float64, lng float64, radiusMeters int) cellKey {
	return cellKey{
		Lat:          roundTo(lat, cache.GridPrecision),
		Lng:          roundTo(lng, cache.GridPrecision),
		RadiusMeters: radiusMeters,
	}
}

func (cache *Cache) gridStep() float64 {
	return math.Pow(10, -float64(cache.GridPrecision))
}

func roundTo(value float64, decimalPlaces int) float64 {
	factor := math.Pow(10, float64(decimalPlaces))
	return math.Round(value*factor) / factor
}
