package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/weather-lookup/internal/config"
	"github.com/vzahanych/weather-lookup/internal/models"
	"go.uber.org/zap/zaptest"
)

func TestNew_Providers(t *testing.T) {
	log := zaptest.NewLogger(t)
	ctx := context.Background()

	loc, err := New(config.GeolocationConfig{Provider: "none", Allowed: true}, log)
	require.NoError(t, err)
	_, err = loc.Locate(ctx)
	assert.ErrorIs(t, err, ErrUnsupported)

	loc, err = New(config.GeolocationConfig{Provider: "static", Allowed: true, Latitude: 59.91, Longitude: 10.75}, log)
	require.NoError(t, err)
	coord, err := loc.Locate(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Coordinates{Lat: 59.91, Lon: 10.75}, coord)

	loc, err = New(config.GeolocationConfig{Provider: "static", Allowed: false}, log)
	require.NoError(t, err)
	_, err = loc.Locate(ctx)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = New(config.GeolocationConfig{Provider: "gps"}, log)
	assert.Error(t, err)
}

func TestStatic_OutOfRange(t *testing.T) {
	_, err := Static{Coord: models.Coordinates{Lat: 120}}.Locate(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestIPAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/json/", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"success","lat":52.52,"lon":13.405}`))
	}))
	defer srv.Close()

	coord, err := NewIPAPI(srv.URL, time.Second, zaptest.NewLogger(t)).Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.Coordinates{Lat: 52.52, Lon: 13.405}, coord)
}

func TestIPAPI_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "reserved range", status: http.StatusOK, body: `{"status":"fail","message":"reserved range"}`},
		{name: "quota", status: http.StatusTooManyRequests, body: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewIPAPI(srv.URL, time.Second, zaptest.NewLogger(t)).Locate(context.Background())
			assert.ErrorIs(t, err, ErrUnavailable)
		})
	}
}
