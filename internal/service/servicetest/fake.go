// Package servicetest provides an in-memory WeatherService for tests.
package servicetest

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/vzahanych/weather-lookup/internal/models"
	"github.com/vzahanych/weather-lookup/internal/service"
)

// Call is one recorded request.
type Call struct {
	Endpoint string
	City     string
	Coord    models.Coordinates
	Units    models.Units
}

// Fake answers from Cities, keyed by lower-case name. Unknown cities get a
// 404. Setting CurrentErr or ForecastErr makes the matching endpoint fail.
type Fake struct {
	mu sync.Mutex

	Cities      map[string]*models.Current
	Forecast    *models.Forecast
	CurrentErr  error
	ForecastErr error

	calls []Call
}

func New() *Fake {
	return &Fake{Cities: make(map[string]*models.Current)}
}

func (f *Fake) Name() string { return "fake" }

func (f *Fake) CurrentByCity(_ context.Context, city string, units models.Units) (*models.Current, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, Call{Endpoint: "current", City: city, Units: units})
	if f.CurrentErr != nil {
		return nil, f.CurrentErr
	}

	cur, ok := f.Cities[strings.ToLower(city)]
	if !ok {
		return nil, &service.RemoteError{Endpoint: "/weather", StatusCode: http.StatusNotFound, Err: service.ErrNotFound}
	}
	c := *cur
	return &c, nil
}

func (f *Fake) CurrentByCoords(_ context.Context, coord models.Coordinates, units models.Units) (*models.Current, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, Call{Endpoint: "current", Coord: coord, Units: units})
	if f.CurrentErr != nil {
		return nil, f.CurrentErr
	}

	for _, cur := range f.Cities {
		if cur.Coord == coord {
			c := *cur
			return &c, nil
		}
	}
	return &models.Current{Name: "Somewhere", Coord: coord}, nil
}

func (f *Fake) ForecastByCoords(_ context.Context, coord models.Coordinates, units models.Units) (*models.Forecast, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, Call{Endpoint: "forecast", Coord: coord, Units: units})
	if f.ForecastErr != nil {
		return nil, f.ForecastErr
	}
	if f.Forecast == nil {
		return &models.Forecast{}, nil
	}
	fc := *f.Forecast
	return &fc, nil
}

// Calls returns a copy of every request made so far.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

var _ service.WeatherService = (*Fake)(nil)
