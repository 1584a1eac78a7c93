package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/weather-lookup/internal/config"
	"github.com/vzahanych/weather-lookup/internal/models"
	"github.com/vzahanych/weather-lookup/pkg/telemetry"
	"go.uber.org/zap/zaptest"
)

const currentBody = `{
  "coord": {"lon": 2.3488, "lat": 48.8534},
  "weather": [{"id": 500, "main": "Rain", "description": "light rain", "icon": "10d"}],
  "main": {"temp": 14.62, "humidity": 81},
  "wind": {"speed": 4.12},
  "dt": 1741953600,
  "sys": {"country": "FR"},
  "name": "Paris"
}`

const forecastBody = `{
  "cod": "200",
  "list": [
    {"dt": 1741953600, "main": {"temp": 12.1, "humidity": 70}, "wind": {"speed": 3.2},
     "weather": [{"main": "Clouds", "description": "broken clouds", "icon": "04d"}]},
    {"dt": 1741964400, "main": {"temp": 13.4, "humidity": 65}, "wind": {"speed": 2.9},
     "weather": [{"main": "Clear", "description": "clear sky", "icon": "01d"}]}
  ],
  "city": {"name": "Paris", "country": "FR"}
}`

func newTestService(t *testing.T, handler http.HandlerFunc) *OpenWeatherMapService {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.OpenWeatherConfig{BaseURL: srv.URL, APIKey: "secret", Timeout: 5}
	return NewOpenWeatherMapService(cfg, zaptest.NewLogger(t), &telemetry.Telemetry{})
}

func TestCurrentByCity(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/weather", r.URL.Path)
		assert.Equal(t, "paris", r.URL.Query().Get("q"))
		assert.Equal(t, "imperial", r.URL.Query().Get("units"))
		assert.Equal(t, "secret", r.URL.Query().Get("appid"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(currentBody))
	})

	cur, err := svc.CurrentByCity(context.Background(), "paris", models.Imperial)
	require.NoError(t, err)

	assert.Equal(t, "Paris", cur.Name)
	assert.Equal(t, "FR", cur.Country)
	assert.Equal(t, models.Coordinates{Lat: 48.8534, Lon: 2.3488}, cur.Coord)
	assert.Equal(t, models.Sample{
		Timestamp:   1741953600,
		Temperature: 14.62,
		Humidity:    81,
		WindSpeed:   4.12,
		Condition:   "Rain",
		Description: "light rain",
		Icon:        "10d",
	}, cur.Sample)
}

func TestCurrentByCoords(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "48.8534", r.URL.Query().Get("lat"))
		assert.Equal(t, "-2.5", r.URL.Query().Get("lon"))
		assert.Empty(t, r.URL.Query().Get("q"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(currentBody))
	})

	cur, err := svc.CurrentByCoords(context.Background(), models.Coordinates{Lat: 48.8534, Lon: -2.5}, models.Metric)
	require.NoError(t, err)
	assert.Equal(t, "Paris", cur.Name)
}

func TestForecastByCoords(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forecast", r.URL.Path)
		assert.Equal(t, "metric", r.URL.Query().Get("units"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(forecastBody))
	})

	fc, err := svc.ForecastByCoords(context.Background(), models.Coordinates{Lat: 1, Lon: 2}, models.Metric)
	require.NoError(t, err)

	assert.Equal(t, "Paris", fc.City)
	require.Len(t, fc.Samples, 2)
	assert.Equal(t, "Clouds", fc.Samples[0].Condition)
	assert.Equal(t, int64(1741964400), fc.Samples[1].Timestamp)
	assert.Equal(t, 65, fc.Samples[1].Humidity)
}

func TestNotFound(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
	})

	_, err := svc.CurrentByCity(context.Background(), "Atlantis", models.Metric)
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrNotFound))

	var rerr *RemoteError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, http.StatusNotFound, rerr.StatusCode)
	assert.Equal(t, "city not found", rerr.Message)
}

func TestOtherStatusIsRemoteError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"cod":401,"message":"Invalid API key"}`))
	})

	_, err := svc.CurrentByCity(context.Background(), "Paris", models.Metric)
	require.Error(t, err)

	assert.False(t, errors.Is(err, ErrNotFound))

	var rerr *RemoteError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, http.StatusUnauthorized, rerr.StatusCode)
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	cfg := config.OpenWeatherConfig{BaseURL: url, Timeout: 1}
	svc := NewOpenWeatherMapService(cfg, zaptest.NewLogger(t), nil)

	_, err := svc.CurrentByCity(context.Background(), "Paris", models.Metric)
	require.Error(t, err)

	var rerr *RemoteError
	require.True(t, errors.As(err, &rerr))
	assert.Zero(t, rerr.StatusCode)
	assert.Contains(t, err.Error(), "fetch failed")
}

func TestRateLimitedService(t *testing.T) {
	calls := 0
	inner := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(currentBody))
	})

	svc := NewRateLimitedService(inner, 0.001, 1)
	assert.Equal(t, "openweathermap [Rate Limited]", svc.Name())

	_, err := svc.CurrentByCity(context.Background(), "Paris", models.Metric)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = svc.CurrentByCity(ctx, "Paris", models.Metric)
	require.Error(t, err)

	var rerr *RemoteError
	assert.True(t, errors.As(err, &rerr))
	assert.Equal(t, 1, calls)
}
