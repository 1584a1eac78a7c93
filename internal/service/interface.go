package service

import (
	"context"

	"github.com/vzahanych/weather-lookup/internal/models"
)

// WeatherService is the remote weather API: three read-only endpoints, each
// answering in the requested unit system.
type WeatherService interface {
	CurrentByCity(ctx context.Context, city string, units models.Units) (*models.Current, error)
	CurrentByCoords(ctx context.Context, coord models.Coordinates, units models.Units) (*models.Current, error)
	ForecastByCoords(ctx context.Context, coord models.Coordinates, units models.Units) (*models.Forecast, error)
	Name() string
}
