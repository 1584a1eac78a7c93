package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/vzahanych/weather-lookup/internal/config"
	"github.com/vzahanych/weather-lookup/internal/dispatcher"
	"github.com/vzahanych/weather-lookup/internal/geo"
	"github.com/vzahanych/weather-lookup/internal/models"
	"github.com/vzahanych/weather-lookup/internal/present"
	"github.com/vzahanych/weather-lookup/internal/recents"
	"github.com/vzahanych/weather-lookup/internal/service"
	"github.com/vzahanych/weather-lookup/internal/session"
	"github.com/vzahanych/weather-lookup/internal/storage"
	"go.uber.org/zap"
)

// errReported marks a failure the renderer has already shown to the user.
var errReported = errors.New("reported")

type reportedError struct{ err error }

func (e *reportedError) Error() string   { return e.err.Error() }
func (e *reportedError) Unwrap() []error { return []error{e.err, errReported} }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}

// app holds one session and what it was built from.
type app struct {
	session *session.Session
	store   storage.KV
}

type appOptions struct {
	// needAPIKey fails early when no OpenWeatherMap key is configured.
	needAPIKey bool
	metrics    dispatcher.MetricsRecorder
}

func newApp(ctx context.Context, renderer session.Renderer, opts appOptions) (*app, error) {
	cfg := config.GetConfig()
	zl := log.Logger

	if opts.needAPIKey && cfg.OpenWeather.APIKey == "" {
		return nil, fmt.Errorf("no OpenWeatherMap API key: set openweather.api_key or %s_OPENWEATHER_API_KEY", config.EnvPrefix)
	}

	units, err := models.ParseUnits(cfg.Units)
	if err != nil {
		return nil, err
	}

	formatter, err := present.NewFormatter(cfg.OpenWeather.IconBaseURL, cfg.Display.Timezone)
	if err != nil {
		return nil, err
	}

	locator, err := geo.New(cfg.Geolocation, zl)
	if err != nil {
		return nil, err
	}

	// Without a durable store the recents list simply starts empty each run.
	kv, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		log.Warn("Storage unavailable, recent cities will not be kept",
			zap.String("backend", cfg.Storage.Backend), zap.Error(err))
		kv = storage.NewMemory()
	}

	var svc service.WeatherService = service.NewOpenWeatherMapService(cfg.OpenWeather, zl, tele)
	if rl := cfg.OpenWeather.RateLimit; rl.RPS > 0 {
		svc = service.NewRateLimitedService(svc, rl.RPS, rl.Burst)
	}

	d := dispatcher.New(svc, zl, tele)
	if opts.metrics != nil {
		d.SetMetricsRecorder(opts.metrics)
	}

	sess := session.New(d, recents.NewStore(kv, zl), locator, renderer, formatter, zl, session.Options{
		Units:        units,
		DiscardStale: cfg.Session.DiscardStale,
	})

	log.Debug("Session ready",
		zap.String("units", string(units)),
		zap.String("storage", cfg.Storage.Backend),
		zap.String("geolocation", cfg.Geolocation.Provider))

	return &app{session: sess, store: kv}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		log.Warn("Failed to close storage", zap.Error(err))
	}
}
