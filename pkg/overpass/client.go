package overpass

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultEndpoints are the public Overpass instances queried in priority
// order. Any endpoint implementing the same interpreter contract can be
// substituted.
var DefaultEndpoints = []string{
	"https://overpass-api.de/api/interpreter",
	"https://overpass.kumi.systems/api/interpreter",
	"https://maps.mail.ru/osm/tools/overpass/api/interpreter",
}

const (
	maxAttemptsPerEndpoint = 2
	attemptTimeout         = 45 * time.Second

	userAgent = "signalrail/1.0"
)

// Client fetches railway ways near a coordinate, failing over across the
// configured endpoints. A degraded or unreachable upstream never surfaces
// as an error, only as an empty element list.
type Client struct {
	Endpoints  []string
	HTTPClient *http.Client

	sleep func(time.Duration)
}

func NewClient(endpoints []string) *Client {
	if len(endpoints) == 0 {
		endpoints = DefaultEndpoints
	}

	return &Client{
		Endpoints: endpoints,
		HTTPClient: &http.Client{
			Timeout: attemptTimeout,
		},
		sleep: time.Sleep,
	}
}

// NearbyRailways queries for rail, light rail & subway ways around the
// coordinate. Each endpoint gets up to two attempts; rate limiting backs
// off exponentially, server errors and garbled bodies advance to the next
// endpoint. The first well-formed payload wins.
func (client *Client) NearbyRailways(ctx context.Context, lat float64, lng float64, radiusMeters int) []Element {
	query := railwayQuery(lat, lng, radiusMeters)

	for _, endpoint := range client.Endpoints {
		elements, found := client.queryEndpoint(ctx, endpoint, query)
		if found {
			return elements
		}
	}

	log.Warn().Msg("All Overpass endpoints failed")
	return []Element{}
}

func (client *Client) queryEndpoint(ctx context.Context, endpoint string, query string) ([]Element, bool) {
	for attempt := 0; attempt < maxAttemptsPerEndpoint; attempt++ {
		elements, outcome := client.attempt(ctx, endpoint, query)

		switch outcome {
		case attemptSucceeded:
			log.Debug().Str("endpoint", endpoint).Int("elements", len(elements)).Msg("Overpass query succeeded")
			return elements, true
		case attemptRateLimited:
			waitTime := time.Duration(1<<attempt) * time.Second
			log.Info().Str("endpoint", endpoint).Dur("wait", waitTime).Msg("Overpass rate limited")
			client.sleep(waitTime)
		case attemptTimedOut:
			log.Info().Str("endpoint", endpoint).Int("attempt", attempt+1).Msg("Overpass timeout")
			client.sleep(1 * time.Second)
		case attemptFailed:
			return nil, false
		}
	}

	return nil, false
}

type attemptOutcome int

const (
	attemptSucceeded attemptOutcome = iota
	attemptRateLimited
	attemptTimedOut
	attemptFailed
)

func (client *Client) attempt(ctx context.Context, endpoint string, query string) ([]Element, attemptOutcome) {
	form := url.Values{}
	form.Set("data", query)

	request, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, attemptFailed
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	request.Header.Set("User-Agent", userAgent)

	response, err := client.HTTPClient.Do(request)
	if err != nil {
		var urlError *url.Error
		if errors.As(err, &urlError) && urlError.Timeout() {
			return nil, attemptTimedOut
		}

		log.Info().Err(err).Str("endpoint", endpoint).Msg("Overpass request failed")
		return nil, attemptFailed
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusTooManyRequests {
		return nil, attemptRateLimited
	}

	if response.StatusCode != http.StatusOK {
		log.Info().Int("status", response.StatusCode).Str("endpoint", endpoint).Msg("Overpass bad status")
		return nil, attemptFailed
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, attemptFailed
	}

	if !strings.HasPrefix(strings.TrimSpace(string(body)), "{") {
		log.Info().Str("endpoint", endpoint).Msg("Overpass returned non-JSON body")
		return nil, attemptFailed
	}

	var decoded Response
	if err := json.Unmarshal(body, &decoded); err != nil {
		log.Info().Err(err).Str("endpoint", endpoint).Msg("Overpass returned malformed JSON")
		return nil, attemptFailed
	}

	return decoded.Elements, attemptSucceeded
}

func railwayQuery(lat float64, lng float64, radiusMeters int) string {
	return fmt.Sprintf(`[out:json][timeout:30];
(
  way["railway"="rail"](around:%d,%f,%f);
  way["railway"="light_rail"](around:%d,%f,%f);
  way["railway"="subway"](around:%d,%f,%f);
);
out body geom;`,
		radiusMeters, lat, lng,
		radiusMeters, lat, lng,
		radiusMeters, lat, lng)
}
