package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/vzahanych/weather-lookup/internal/config"
	"github.com/vzahanych/weather-lookup/internal/models"
	"github.com/vzahanych/weather-lookup/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	weatherEndpoint  = "/weather"
	forecastEndpoint = "/forecast"

	userAgent = "weather-lookup/1.0"
)

type OpenWeatherMapService struct {
	client *resty.Client
	apiKey string
	logger *zap.Logger
	tele   *telemetry.Telemetry
}

type owmCondition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type owmReading struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []owmCondition `json:"weather"`
}

type owmCurrentResponse struct {
	owmReading
	Coord models.Coordinates `json:"coord"`
	Name  string             `json:"name"`
	Sys   struct {
		Country string `json:"country"`
	} `json:"sys"`
}

type owmForecastResponse struct {
	List []owmReading `json:"list"`
	City struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"city"`
}

type owmErrorResponse struct {
	Message string `json:"message"`
}

// NewOpenWeatherMapService builds a client without retries: every failed call
// is terminal for the action that issued it.
func NewOpenWeatherMapService(cfg config.OpenWeatherConfig, logger *zap.Logger, tele *telemetry.Telemetry) *OpenWeatherMapService {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json").
		SetTimeout(time.Duration(cfg.Timeout) * time.Second).
		SetRetryCount(0)

	client.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logger.Debug("OpenWeatherMap response",
			zap.String("path", resp.Request.RawRequest.URL.Path),
			zap.Int("status", resp.StatusCode()),
			zap.Duration("latency", resp.Time()),
			zap.Int("body_size", len(resp.Body())))
		return nil
	})

	return &OpenWeatherMapService{
		client: client,
		apiKey: cfg.APIKey,
		logger: logger,
		tele:   tele,
	}
}

func (s *OpenWeatherMapService) Name() string {
	return "openweathermap"
}

func (s *OpenWeatherMapService) CurrentByCity(ctx context.Context, city string, units models.Units) (*models.Current, error) {
	return s.current(ctx, units, map[string]string{"q": city})
}

func (s *OpenWeatherMapService) CurrentByCoords(ctx context.Context, coord models.Coordinates, units models.Units) (*models.Current, error) {
	return s.current(ctx, units, coordParams(coord))
}

func (s *OpenWeatherMapService) ForecastByCoords(ctx context.Context, coord models.Coordinates, units models.Units) (*models.Forecast, error) {
	var body owmForecastResponse
	if err := s.get(ctx, forecastEndpoint, units, coordParams(coord), &body); err != nil {
		return nil, err
	}

	forecast := &models.Forecast{
		City:    body.City.Name,
		Country: body.City.Country,
		Samples: make([]models.Sample, 0, len(body.List)),
	}
	for _, r := range body.List {
		forecast.Samples = append(forecast.Samples, r.sample())
	}

	return forecast, nil
}

func (s *OpenWeatherMapService) current(ctx context.Context, units models.Units, params map[string]string) (*models.Current, error) {
	var body owmCurrentResponse
	if err := s.get(ctx, weatherEndpoint, units, params, &body); err != nil {
		return nil, err
	}

	return &models.Current{
		Name:    body.Name,
		Country: body.Sys.Country,
		Coord:   body.Coord,
		Sample:  body.sample(),
	}, nil
}

func (s *OpenWeatherMapService) get(ctx context.Context, endpoint string, units models.Units, params map[string]string, result interface{}) error {
	tracer := s.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "openweathermap"+endpoint)
	defer span.End()

	span.SetAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("units", string(units)),
	)

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetQueryParam("units", string(units)).
		SetQueryParam("appid", s.apiKey).
		ForceContentType("application/json").
		SetResult(result).
		Get(endpoint)
	if err != nil {
		rerr := &RemoteError{Endpoint: endpoint, Err: err}
		s.tele.RecordError(ctx, rerr)
		return rerr
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode()))

	if !resp.IsSuccess() {
		rerr := parseError(endpoint, resp)
		s.tele.RecordError(ctx, rerr)
		return rerr
	}

	return nil
}

func parseError(endpoint string, resp *resty.Response) *RemoteError {
	rerr := &RemoteError{
		Endpoint:   endpoint,
		StatusCode: resp.StatusCode(),
	}

	var body owmErrorResponse
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		rerr.Message = body.Message
	}

	if resp.StatusCode() == http.StatusNotFound {
		rerr.Err = ErrNotFound
	} else {
		rerr.Err = fmt.Errorf("unexpected status %d", resp.StatusCode())
	}

	return rerr
}

func (r owmReading) sample() models.Sample {
	s := models.Sample{
		Timestamp:   r.Dt,
		Temperature: r.Main.Temp,
		Humidity:    r.Main.Humidity,
		WindSpeed:   r.Wind.Speed,
	}
	if len(r.Weather) > 0 {
		s.Condition = r.Weather[0].Main
		s.Description = r.Weather[0].Description
		s.Icon = r.Weather[0].Icon
	}
	return s
}

func coordParams(c models.Coordinates) map[string]string {
	return map[string]string{
		"lat": strconv.FormatFloat(c.Lat, 'f', -1, 64),
		"lon": strconv.FormatFloat(c.Lon, 'f', -1, 64),
	}
}
