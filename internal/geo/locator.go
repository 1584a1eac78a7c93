// Package geo answers "where am I" for location-based searches.
package geo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/vzahanych/weather-lookup/internal/config"
	"github.com/vzahanych/weather-lookup/internal/models"
	"go.uber.org/zap"
)

var (
	ErrUnsupported      = errors.New("geolocation not supported")
	ErrPermissionDenied = errors.New("geolocation permission denied")
	ErrUnavailable      = errors.New("position unavailable")
)

// Locator supplies a single position reading per call.
type Locator interface {
	Locate(ctx context.Context) (models.Coordinates, error)
}

// New builds the locator named by cfg.Provider. When cfg.Allowed is false
// every call fails with ErrPermissionDenied.
func New(cfg config.GeolocationConfig, logger *zap.Logger) (Locator, error) {
	var loc Locator
	switch cfg.Provider {
	case "", "none":
		loc = Unsupported{}
	case "static":
		loc = Static{Coord: models.Coordinates{Lat: cfg.Latitude, Lon: cfg.Longitude}}
	case "ipapi":
		loc = NewIPAPI(cfg.BaseURL, time.Duration(cfg.Timeout)*time.Second, logger)
	default:
		return nil, fmt.Errorf("unknown geolocation provider %q", cfg.Provider)
	}

	if !cfg.Allowed {
		return Denied{}, nil
	}
	return loc, nil
}

type Unsupported struct{}

func (Unsupported) Locate(context.Context) (models.Coordinates, error) {
	return models.Coordinates{}, ErrUnsupported
}

type Denied struct{}

func (Denied) Locate(context.Context) (models.Coordinates, error) {
	return models.Coordinates{}, ErrPermissionDenied
}

// Static always reports the configured position.
type Static struct {
	Coord models.Coordinates
}

func (s Static) Locate(context.Context) (models.Coordinates, error) {
	if !s.Coord.Valid() {
		return models.Coordinates{}, fmt.Errorf("%w: configured coordinates are out of range", ErrUnavailable)
	}
	return s.Coord, nil
}

// IPAPI estimates the position from the public IP via ip-api.com.
type IPAPI struct {
	client *resty.Client
	logger *zap.Logger
}

type ipapiResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func NewIPAPI(baseURL string, timeout time.Duration, logger *zap.Logger) *IPAPI {
	return &IPAPI{
		client: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetRetryCount(0),
		logger: logger,
	}
}

func (p *IPAPI) Locate(ctx context.Context) (models.Coordinates, error) {
	var body ipapiResponse

	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParam("fields", "status,message,lat,lon").
		ForceContentType("application/json").
		SetResult(&body).
		Get("/json/")
	if err != nil {
		p.logger.Warn("IP geolocation request failed", zap.Error(err))
		return models.Coordinates{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if !resp.IsSuccess() {
		return models.Coordinates{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode())
	}

	if body.Status != "success" {
		return models.Coordinates{}, fmt.Errorf("%w: %s", ErrUnavailable, body.Message)
	}

	coord := models.Coordinates{Lat: body.Lat, Lon: body.Lon}
	if !coord.Valid() {
		return models.Coordinates{}, fmt.Errorf("%w: invalid coordinates", ErrUnavailable)
	}

	p.logger.Debug("Located via IP", zap.Float64("lat", coord.Lat), zap.Float64("lon", coord.Lon))
	return coord, nil
}
