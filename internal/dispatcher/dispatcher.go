// Package dispatcher runs one weather lookup: current conditions first, then
// the forecast for the coordinates they resolve to.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vzahanych/weather-lookup/internal/models"
	"github.com/vzahanych/weather-lookup/internal/service"
	"github.com/vzahanych/weather-lookup/pkg/logger"
	"github.com/vzahanych/weather-lookup/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	EndpointCurrent  = "current"
	EndpointForecast = "forecast"
)

// ErrValidation is matched by every ValidationError.
var ErrValidation = errors.New("invalid query")

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Query is either a city name or a coordinate pair. Coords wins when set.
type Query struct {
	City   string
	Coords *models.Coordinates
	Units  models.Units
}

type Result struct {
	Current  *models.Current
	Forecast *models.Forecast
}

// MetricsRecorder counts remote calls.
type MetricsRecorder interface {
	RecordWeatherCall(ctx context.Context, endpoint string, success bool)
}

type Dispatcher struct {
	service service.WeatherService
	logger  *zap.Logger
	tele    *telemetry.Telemetry
	metrics MetricsRecorder
}

func New(svc service.WeatherService, logger *zap.Logger, tele *telemetry.Telemetry) *Dispatcher {
	return &Dispatcher{
		service: svc,
		logger:  logger,
		tele:    tele,
	}
}

// SetMetricsRecorder sets the metrics recorder for the dispatcher
func (d *Dispatcher) SetMetricsRecorder(metrics MetricsRecorder) {
	d.metrics = metrics
}

// Dispatch validates q and performs the two calls in order. If the
// current-conditions call fails the forecast call is never made. Nothing is
// retried.
func (d *Dispatcher) Dispatch(ctx context.Context, q Query) (*Result, error) {
	tracer := d.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "dispatcher.Dispatch")
	defer span.End()

	if err := q.validate(); err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		return nil, err
	}

	reqLogger := logger.FromContext(ctx, d.logger).With(
		zap.String("query_id", uuid.NewString()),
		zap.String("units", string(q.Units)))

	span.SetAttributes(attribute.String("units", string(q.Units)))

	var (
		cur *models.Current
		err error
	)
	if q.Coords != nil {
		span.SetAttributes(
			attribute.Float64("lat", q.Coords.Lat),
			attribute.Float64("lon", q.Coords.Lon),
		)
		reqLogger.Debug("Fetching current conditions by coordinates",
			zap.Float64("lat", q.Coords.Lat),
			zap.Float64("lon", q.Coords.Lon))
		cur, err = d.service.CurrentByCoords(ctx, *q.Coords, q.Units)
	} else {
		city := strings.TrimSpace(q.City)
		span.SetAttributes(attribute.String("city", city))
		reqLogger.Debug("Fetching current conditions by city", zap.String("city", city))
		cur, err = d.service.CurrentByCity(ctx, city, q.Units)
	}
	d.record(ctx, EndpointCurrent, err)
	if err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		d.tele.RecordError(ctx, err)
		reqLogger.Warn("Current conditions request failed", zap.Error(err))
		return nil, fmt.Errorf("current conditions: %w", err)
	}

	coord := cur.Coord
	if q.Coords != nil {
		coord = *q.Coords
	}

	fc, err := d.service.ForecastByCoords(ctx, coord, q.Units)
	d.record(ctx, EndpointForecast, err)
	if err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		d.tele.RecordError(ctx, err)
		reqLogger.Warn("Forecast request failed", zap.Error(err))
		return nil, fmt.Errorf("forecast: %w", err)
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.String("resolved_city", cur.Name),
		attribute.Int("samples", len(fc.Samples)),
	)

	reqLogger.Info("Weather lookup completed",
		zap.String("city", cur.Name),
		zap.Int("samples", len(fc.Samples)))

	return &Result{Current: cur, Forecast: fc}, nil
}

func (d *Dispatcher) record(ctx context.Context, endpoint string, err error) {
	if d.metrics != nil {
		d.metrics.RecordWeatherCall(ctx, endpoint, err == nil)
	}
}

func (q Query) validate() error {
	if q.Units != models.Metric && q.Units != models.Imperial {
		return &ValidationError{Field: "units", Reason: fmt.Sprintf("unknown unit system %q", q.Units)}
	}
	if q.Coords != nil {
		if !q.Coords.Valid() {
			return &ValidationError{Field: "coordinates", Reason: "must be finite and within range"}
		}
		return nil
	}
	if strings.TrimSpace(q.City) == "" {
		return &ValidationError{Field: "city", Reason: "must not be empty"}
	}
	return nil
}
