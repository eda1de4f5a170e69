package tracks

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/signalrail/signalrail/pkg/overpass"
)

type countingFetcher struct {
	mutex    sync.Mutex
	calls    int
	elements []overpass.Element
}

func (fetcher *countingFetcher) NearbyRailways(ctx context.Context, lat float64, lng float64, radiusMeters int) []overpass.Element {
	fetcher.mutex.Lock()
	defer fetcher.mutex.Unlock()

	fetcher.calls++
	return fetcher.elements
}

func (fetcher *countingFetcher) callCount() int {
	fetcher.mutex.Lock()
	defer fetcher.mutex.Unlock()

	return fetcher.calls
}

func twoPointWay(id int64) overpass.Element {
	return overpass.Element{
		Type: "way",
		ID:   id,
		Geometry: []overpass.Point{
			{Lat: 52.5, Lon: 13.4},
			{Lat: 52.51, Lon: 13.41},
		},
	}
}

func TestCacheServesRepeatLookups(t *testing.T) {
	fetcher := &countingFetcher{elements: []overpass.Element{twoPointWay(1)}}
	cache := NewCache(fetcher, time.Minute, 2)

	first := cache.Get(context.Background(), 52.504, 13.404, 2000)
	second := cache.Get(context.Background(), 52.504, 13.404, 2000)

	if fetcher.callCount() != 1 {
		t.Errorf("fetcher called %d times for repeat lookup, want 1", fetcher.callCount())
	}

	if len(first) != 1 || len(second) != 1 {
		t.Errorf("got %d and %d segments, want 1 and 1", len(first), len(second))
	}
}

func TestCacheRefetchesAfterTTL(t *testing.T) {
	fetcher := &countingFetcher{elements: []overpass.Element{twoPointWay(1)}}
	cache := NewCache(fetcher, 50*time.Millisecond, 2)

	cache.Get(context.Background(), 52.504, 13.404, 2000)
	cache.Get(context.Background(), 52.504, 13.404, 2000)

	time.Sleep(60 * time.Millisecond)

	cache.Get(context.Background(), 52.504, 13.404, 2000)

	if fetcher.callCount() != 2 {
		t.Errorf("fetcher called %d times across TTL expiry, want 2", fetcher.callCount())
	}
}

func TestCacheNeighbourCellProbe(t *testing.T) {
	fetcher := &countingFetcher{elements: []overpass.Element{twoPointWay(1)}}
	cache := NewCache(fetcher, time.Minute, 2)

	// populates cell (52.50, 13.40)
	cache.Get(context.Background(), 52.504, 13.404, 2000)

	// rounds to cell (52.51, 13.40), served by the neighbouring entry
	segments := cache.Get(context.Background(), 52.512, 13.398, 2000)

	if fetcher.callCount() != 1 {
		t.Errorf("fetcher called %d times, want neighbouring cell to be reused", fetcher.callCount())
	}

	if len(segments) != 1 {
		t.Errorf("got %d segments from neighbouring cell, want 1", len(segments))
	}
}

func TestCacheDistinctRadiusMisses(t *testing.T) {
	fetcher := &countingFetcher{elements: []overpass.Element{twoPointWay(1)}}
	cache := NewCache(fetcher, time.Minute, 2)

	cache.Get(context.Background(), 52.504, 13.404, 2000)
	cache.Get(context.Background(), 52.504, 13.404, 5000)

	if fetcher.callCount() != 2 {
		t.Errorf("fetcher called %d times, want a separate fetch per radius", fetcher.callCount())
	}
}

func TestCachePrunesStaleCells(t *testing.T) {
	fetcher := &countingFetcher{elements: []overpass.Element{twoPointWay(1)}}
	cache := NewCache(fetcher, 30*time.Millisecond, 2)

	cache.Get(context.Background(), 52.504, 13.404, 2000)

	time.Sleep(70 * time.Millisecond)

	// any write prunes cells older than twice the TTL
	cache.Get(context.Background(), 48.137, 11.575, 2000)

	cache.cellsMutex.Lock()
	defer cache.cellsMutex.Unlock()

	if len(cache.cells) != 1 {
		t.Errorf("%d cells left after pruning pass, want 1", len(cache.cells))
	}

	if _, exists := cache.cells[cache.key(52.504, 13.404, 2000)]; exists {
		t.Error("stale cell survived the pruning pass")
	}
}

func TestCacheReplacesCellValue(t *testing.T) {
	fetcher := &countingFetcher{elements: []overpass.Element{twoPointWay(1)}}
	cache := NewCache(fetcher, 40*time.Millisecond, 2)

	cache.Get(context.Background(), 52.504, 13.404, 2000)

	fetcher.mutex.Lock()
	fetcher.elements = []overpass.Element{twoPointWay(2), twoPointWay(3)}
	fetcher.mutex.Unlock()

	time.Sleep(50 * time.Millisecond)

	segments := cache.Get(context.Background(), 52.504, 13.404, 2000)

	if len(segments) != 2 {
		t.Errorf("refreshed cell returned %d segments, want full replacement with 2", len(segments))
	}
}

func TestCacheConcurrentLookups(t *testing.T) {
	fetcher := &countingFetcher{elements: []overpass.Element{twoPointWay(1)}}
	cache := NewCache(fetcher, time.Minute, 2)

	var waitGroup sync.WaitGroup
	for i := 0; i < 20; i++ {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			cache.Get(context.Background(), 52.504, 13.404, 2000)
		}()
	}
	waitGroup.Wait()

	// concurrent misses may each fetch, but the cache must stay
	// consistent and subsequent lookups must hit
	callsAfterBurst := fetcher.callCount()
	cache.Get(context.Background(), 52.504, 13.404, 2000)

	if fetcher.callCount() != callsAfterBurst {
		t.Error("lookup after concurrent burst should be a cache hit")
	}
}
