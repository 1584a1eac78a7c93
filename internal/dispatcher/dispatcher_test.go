package dispatcher

import (
	"context"
	"errors"
	"math"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/weather-lookup/internal/models"
	"github.com/vzahanych/weather-lookup/internal/service"
	"github.com/vzahanych/weather-lookup/internal/service/servicetest"
	"github.com/vzahanych/weather-lookup/pkg/telemetry"
	"go.uber.org/zap/zaptest"
)

type countingRecorder struct {
	mu    sync.Mutex
	calls map[string][]bool
}

func (r *countingRecorder) RecordWeatherCall(_ context.Context, endpoint string, success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.calls == nil {
		r.calls = make(map[string][]bool)
	}
	r.calls[endpoint] = append(r.calls[endpoint], success)
}

var paris = &models.Current{
	Name:    "Paris",
	Country: "FR",
	Coord:   models.Coordinates{Lat: 48.85, Lon: 2.35},
}

func newDispatcher(t *testing.T) (*Dispatcher, *servicetest.Fake, *countingRecorder) {
	fake := servicetest.New()
	fake.Cities["paris"] = paris
	fake.Forecast = &models.Forecast{City: "Paris", Samples: []models.Sample{{Timestamp: 1}}}

	rec := &countingRecorder{}
	d := New(fake, zaptest.NewLogger(t), &telemetry.Telemetry{})
	d.SetMetricsRecorder(rec)
	return d, fake, rec
}

func TestDispatch_ByCity(t *testing.T) {
	d, fake, rec := newDispatcher(t)

	res, err := d.Dispatch(context.Background(), Query{City: "  paris ", Units: models.Imperial})
	require.NoError(t, err)

	assert.Equal(t, "Paris", res.Current.Name)
	assert.Len(t, res.Forecast.Samples, 1)

	calls := fake.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, servicetest.Call{Endpoint: "current", City: "paris", Units: models.Imperial}, calls[0])
	assert.Equal(t, servicetest.Call{Endpoint: "forecast", Coord: paris.Coord, Units: models.Imperial}, calls[1])

	assert.Equal(t, []bool{true}, rec.calls[EndpointCurrent])
	assert.Equal(t, []bool{true}, rec.calls[EndpointForecast])
}

func TestDispatch_ByCoordsUsesInputCoordinates(t *testing.T) {
	d, fake, _ := newDispatcher(t)
	here := models.Coordinates{Lat: 10.5, Lon: -20.25}

	res, err := d.Dispatch(context.Background(), Query{Coords: &here, Units: models.Metric})
	require.NoError(t, err)
	assert.Equal(t, "Somewhere", res.Current.Name)

	calls := fake.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, here, calls[0].Coord)
	assert.Equal(t, here, calls[1].Coord)
}

func TestDispatch_ValidationBeforeNetwork(t *testing.T) {
	d, fake, _ := newDispatcher(t)

	tests := []struct {
		name  string
		query Query
		field string
	}{
		{name: "empty city", query: Query{City: "", Units: models.Metric}, field: "city"},
		{name: "whitespace city", query: Query{City: "   ", Units: models.Metric}, field: "city"},
		{name: "nan latitude", query: Query{Coords: &models.Coordinates{Lat: math.NaN()}, Units: models.Metric}, field: "coordinates"},
		{name: "infinite longitude", query: Query{Coords: &models.Coordinates{Lon: math.Inf(1)}, Units: models.Metric}, field: "coordinates"},
		{name: "unknown units", query: Query{City: "Paris", Units: "kelvin"}, field: "units"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Dispatch(context.Background(), tt.query)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	assert.Empty(t, fake.Calls())
}

func TestDispatch_NotFoundSkipsForecast(t *testing.T) {
	d, fake, rec := newDispatcher(t)

	_, err := d.Dispatch(context.Background(), Query{City: "Atlantis", Units: models.Metric})
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrNotFound)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "current", calls[0].Endpoint)
	assert.Equal(t, []bool{false}, rec.calls[EndpointCurrent])
	assert.Empty(t, rec.calls[EndpointForecast])
}

func TestDispatch_ForecastFailure(t *testing.T) {
	d, fake, rec := newDispatcher(t)
	fake.ForecastErr = &service.RemoteError{Endpoint: "/forecast", StatusCode: http.StatusBadGateway, Err: errors.New("bad gateway")}

	_, err := d.Dispatch(context.Background(), Query{City: "Paris", Units: models.Metric})
	require.Error(t, err)

	var rerr *service.RemoteError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, http.StatusBadGateway, rerr.StatusCode)
	assert.False(t, errors.Is(err, service.ErrNotFound))
	assert.Equal(t, []bool{false}, rec.calls[EndpointForecast])
}
