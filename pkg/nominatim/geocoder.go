package nominatim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/signalrail/signalrail/pkg/redis_client"
)

var ErrNotFound = errors.New("address not found")

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geocoder resolves German street addresses through Nominatim. Results
// are cached in Redis when available; Nominatim's usage policy frowns on
// repeat queries.
type Geocoder struct {
	BaseURL    string
	HTTPClient *http.Client

	Cache *cache.Cache[string]
}

func (geocoder *Geocoder) Setup() {
	if geocoder.BaseURL == "" {
		geocoder.BaseURL = "https://nominatim.openstreetmap.org"
	}

	if geocoder.HTTPClient == nil {
		geocoder.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}

	if redis_client.Client != nil {
		redisStore := redisstore.NewRedis(redis_client.Client, store.WithExpiration(24*time.Hour))

		geocoder.Cache = cache.New[string](redisStore)
	}
}

func (geocoder *Geocoder) Geocode(ctx context.Context, address string) (*Coordinates, error) {
	cacheKey := fmt.Sprintf("GEOCODE:%s", strings.ToLower(strings.TrimSpace(address)))

	if geocoder.Cache != nil {
		cacheValue, err := geocoder.Cache.Get(ctx, cacheKey)
		if err == nil {
			if cacheValue == "N/A" {
				return nil, ErrNotFound
			}

			var coordinates Coordinates
			if json.Unmarshal([]byte(cacheValue), &coordinates) == nil {
				return &coordinates, nil
			}
		}
	}

	coordinates, err := geocoder.lookup(ctx, address)
	if err != nil {
		if errors.Is(err, ErrNotFound) && geocoder.Cache != nil {
			geocoder.Cache.Set(ctx, cacheKey, "N/A")
		}

		return nil, err
	}

	if geocoder.Cache != nil {
		coordinatesJSON, _ := json.Marshal(coordinates)
		geocoder.Cache.Set(ctx, cacheKey, string(coordinatesJSON))
	}

	return coordinates, nil
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (geocoder *Geocoder) lookup(ctx context.Context, address string) (*Coordinates, error) {
	query := url.Values{}
	query.Set("q", address)
	query.Set("format", "json")
	query.Set("limit", "1")
	query.Set("countrycodes", "de")

	requestURL := fmt.Sprintf("%s/search?%s", geocoder.BaseURL, query.Encode())
	request, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("User-Agent", "signalrail/1.0")

	response, err := geocoder.HTTPClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	var results []searchResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, ErrNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, err
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, err
	}

	return &Coordinates{Lat: lat, Lng: lng}, nil
}
