package service

import (
	"context"
	"fmt"

	"github.com/vzahanych/weather-lookup/internal/models"
	"golang.org/x/time/rate"
)

// RateLimitedService paces calls to the wrapped service. It never retries; a
// call whose context ends while waiting fails like a transport error.
type RateLimitedService struct {
	service WeatherService
	limiter *rate.Limiter
	name    string
}

// NewRateLimitedService allows rps requests per second with the given burst.
// rps may be fractional.
func NewRateLimitedService(svc WeatherService, rps float64, burst int) *RateLimitedService {
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedService{
		service: svc,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:    fmt.Sprintf("%s [Rate Limited]", svc.Name()),
	}
}

func (r *RateLimitedService) CurrentByCity(ctx context.Context, city string, units models.Units) (*models.Current, error) {
	if err := r.wait(ctx, weatherEndpoint); err != nil {
		return nil, err
	}
	return r.service.CurrentByCity(ctx, city, units)
}

func (r *RateLimitedService) CurrentByCoords(ctx context.Context, coord models.Coordinates, units models.Units) (*models.Current, error) {
	if err := r.wait(ctx, weatherEndpoint); err != nil {
		return nil, err
	}
	return r.service.CurrentByCoords(ctx, coord, units)
}

func (r *RateLimitedService) ForecastByCoords(ctx context.Context, coord models.Coordinates, units models.Units) (*models.Forecast, error) {
	if err := r.wait(ctx, forecastEndpoint); err != nil {
		return nil, err
	}
	return r.service.ForecastByCoords(ctx, coord, units)
}

func (r *RateLimitedService) Name() string {
	return r.name
}

func (r *RateLimitedService) wait(ctx context.Context, endpoint string) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return &RemoteError{Endpoint: endpoint, Err: fmt.Errorf("rate limit wait canceled: %w", err)}
	}
	return nil
}

var (
	_ WeatherService = (*OpenWeatherMapService)(nil)
	_ WeatherService = (*RateLimitedService)(nil)
)
