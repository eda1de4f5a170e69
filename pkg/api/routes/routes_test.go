package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalrail/signalrail/pkg/nominatim"
	"github.com/signalrail/signalrail/pkg/tracks"
)

type stubTrackSource struct {
	segments []tracks.TrackSegment
}

func (source *stubTrackSource) Get(ctx context.Context, lat float64, lng float64, radiusMeters int) []tracks.TrackSegment {
	return source.segments
}

type stubGeocoder struct {
	coordinates *nominatim.Coordinates
	err         error
}

func (geocoder *stubGeocoder) Geocode(ctx context.Context, address string) (*nominatim.Coordinates, error) {
	return geocoder.coordinates, geocoder.err
}

func testSegment() tracks.TrackSegment {
	return tracks.TrackSegment{
		ID:        4711,
		SegmentID: "way/4711",
		Name:      "Berliner Ringbahn",
		TrackType: tracks.TrackTypeMain,

		Electrified: true,
		MultiTrack:  true,

		Geometry: tracks.Geometry{
			Type: "LineString",
			Coordinates: [][]float64{
				{13.4, 52.5},
				{13.41, 52.51},
			},
		},

		Properties: map[string]interface{}{
			"maxspeed": "160",
		},
	}
}

func setupTestApp(source TrackSource, geocoder Geocoder) *fiber.App {
	app := fiber.New()

	group := app.Group("/core")
	group.Get("version", APIVersion)
	group.Get("health", Health)

	TracksRouter(group.Group("/tracks"), source)
	LocationsRouter(group.Group("/locations"), geocoder)
	DashboardRouter(group.Group("/dashboard"), source)

	return app
}

func performRequest(t *testing.T, app *fiber.App, method string, target string, body string) (int, map[string]interface{}) {
	t.Helper()

	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}

	request := httptest.NewRequest(method, target, bodyReader)
	if body != "" {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := app.Test(request)
	require.NoError(t, err)
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	if len(responseBody) > 0 && responseBody[0] == '{' {
		require.NoError(t, json.Unmarshal(responseBody, &decoded))
	}

	return response.StatusCode, decoded
}

func TestAPIVersion(t *testing.T) {
	app := setupTestApp(&stubTrackSource{}, &stubGeocoder{})

	status, body := performRequest(t, app, "GET", "/core/version", "")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "signalrail", body["app"])
	assert.Equal(t, "v1.0", body["version"])
}

func TestHealth(t *testing.T) {
	app := setupTestApp(&stubTrackSource{}, &stubGeocoder{})

	status, body := performRequest(t, app, "GET", "/core/health", "")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
}

func TestTracksListRequiresCoordinates(t *testing.T) {
	app := setupTestApp(&stubTrackSource{}, &stubGeocoder{})

	status, body := performRequest(t, app, "GET", "/core/tracks/", "")

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "lat and lng")
}

func TestTracksListGroups(t *testing.T) {
	app := setupTestApp(&stubTrackSource{segments: []tracks.TrackSegment{testSegment()}}, &stubGeocoder{})

	request := httptest.NewRequest("GET", "/core/tracks/?lat=52.5&lng=13.4", nil)
	response, err := app.Test(request)
	require.NoError(t, err)
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, response.StatusCode)

	var basic []map[string]interface{}
	require.NoError(t, json.Unmarshal(responseBody, &basic))
	require.Len(t, basic, 1)

	assert.Equal(t, "Berliner Ringbahn", basic[0]["name"])
	assert.Equal(t, "main", basic[0]["track_type"])
	assert.NotContains(t, basic[0], "properties")

	request = httptest.NewRequest("GET", "/core/tracks/?lat=52.5&lng=13.4&detailed=true", nil)
	response, err = app.Test(request)
	require.NoError(t, err)
	defer response.Body.Close()

	responseBody, err = io.ReadAll(response.Body)
	require.NoError(t, err)

	var detailed []map[string]interface{}
	require.NoError(t, json.Unmarshal(responseBody, &detailed))
	require.Len(t, detailed, 1)

	assert.Contains(t, detailed[0], "properties")
}

func TestTrackTrains(t *testing.T) {
	app := setupTestApp(&stubTrackSource{}, &stubGeocoder{})

	request := httptest.NewRequest("GET", "/core/tracks/way-4711/trains?hours=3", nil)
	response, err := app.Test(request)
	require.NoError(t, err)
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, response.StatusCode)

	var passages []map[string]interface{}
	require.NoError(t, json.Unmarshal(responseBody, &passages))

	for _, passage := range passages {
		assert.GreaterOrEqual(t, passage["minutes_until"].(float64), float64(0))
	}
}

func TestTrackStats(t *testing.T) {
	app := setupTestApp(&stubTrackSource{}, &stubGeocoder{})

	status, body := performRequest(t, app, "GET", "/core/tracks/way-4711/stats?type=main", "")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(320), body["trains_per_day"])
	assert.Equal(t, float64(32), body["trains_per_night"])
	assert.Equal(t, float64(20), body["max_per_hour"])
	assert.Equal(t, 0.3, body["freight_percentage"])
	assert.Equal(t, float64(160), body["avg_speed"])
}

func TestTrackNoise(t *testing.T) {
	app := setupTestApp(&stubTrackSource{}, &stubGeocoder{})

	status, body := performRequest(t, app, "GET", "/core/tracks/way-4711/noise?distance=250&type=main", "")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "way-4711", body["track_segment_ref"])
	assert.Equal(t, float64(250), body["distance_m"])

	levels := body["levels"].(map[string]interface{})
	assert.Equal(t, 71.0, levels["day_level_db"])
	assert.Equal(t, 66.0, levels["night_level_db"])
	assert.Equal(t, 68.0, levels["max_level_db"])
}

func TestCreateLocationWithCoordinates(t *testing.T) {
	app := setupTestApp(&stubTrackSource{}, &stubGeocoder{})

	status, body := performRequest(t, app, "POST", "/core/locations/",
		`{"name": "Zuhause", "lat": 52.5, "lng": 13.4}`)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Zuhause", body["name"])
	assert.Equal(t, 52.5, body["lat"])
	assert.Equal(t, 13.4, body["lng"])
	assert.NotEmpty(t, body["id"])
}

func TestCreateLocationGeocodesAddress(t *testing.T) {
	geocoder := &stubGeocoder{coordinates: &nominatim.Coordinates{Lat: 48.1402, Lng: 11.56}}
	app := setupTestApp(&stubTrackSource{}, geocoder)

	status, body := performRequest(t, app, "POST", "/core/locations/",
		`{"name": "München Hbf", "address": "Bayerstraße 10a, München"}`)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 48.1402, body["lat"])
	assert.Equal(t, 11.56, body["lng"])
}

func TestCreateLocationAddressNotFound(t *testing.T) {
	geocoder := &stubGeocoder{err: nominatim.ErrNotFound}
	app := setupTestApp(&stubTrackSource{}, geocoder)

	status, body := performRequest(t, app, "POST", "/core/locations/",
		`{"name": "Nirgendwo", "address": "Nirgendwostraße 999"}`)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Address not found", body["error"])
}

func TestDashboard(t *testing.T) {
	app := setupTestApp(&stubTrackSource{segments: []tracks.TrackSegment{testSegment()}}, &stubGeocoder{})

	status, body := performRequest(t, app, "GET", "/core/dashboard/?lat=52.5&lng=13.4", "")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["tracks_found"])

	nearestTrack := body["nearest_track"].(map[string]interface{})
	assert.Equal(t, "Berliner Ringbahn", nearestTrack["name"])

	// the request sits on the first geometry vertex
	assert.Equal(t, float64(0), body["nearest_distance_m"])
}

func TestDashboardNoTracks(t *testing.T) {
	app := setupTestApp(&stubTrackSource{}, &stubGeocoder{})

	status, body := performRequest(t, app, "GET", "/core/dashboard/?lat=52.5&lng=13.4", "")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), body["tracks_found"])
	assert.Nil(t, body["nearest_track"])
	assert.Nil(t, body["nearest_distance_m"])
}
