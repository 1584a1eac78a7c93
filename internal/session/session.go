// Package session wires user actions to lookups. It owns the unit preference
// and the last searched city, and reports every outcome through a Renderer.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/vzahanych/weather-lookup/internal/dispatcher"
	"github.com/vzahanych/weather-lookup/internal/forecast"
	"github.com/vzahanych/weather-lookup/internal/geo"
	"github.com/vzahanych/weather-lookup/internal/models"
	"github.com/vzahanych/weather-lookup/internal/present"
	"github.com/vzahanych/weather-lookup/internal/recents"
	"github.com/vzahanych/weather-lookup/internal/service"
	"go.uber.org/zap"
)

// ErrStale is returned when a search finished after a newer one had already
// been rendered and DiscardStale is on.
var ErrStale = errors.New("stale response discarded")

// Renderer is the display. Implementations must not block for long; they
// run on the caller's goroutine.
type Renderer interface {
	ShowCurrent(present.CurrentView)
	ShowForecast([]present.DayCard)
	ShowMessage(text string, kind present.Kind)
	ShowRecents([]string)
}

// Dispatcher performs one lookup.
type Dispatcher interface {
	Dispatch(ctx context.Context, q dispatcher.Query) (*dispatcher.Result, error)
}

type Options struct {
	Units models.Units
	// DiscardStale drops a response when a later search has already been
	// rendered. Off means the last response to arrive wins.
	DiscardStale bool
}

type Session struct {
	dispatcher Dispatcher
	recents    *recents.Store
	locator    geo.Locator
	renderer   Renderer
	formatter  present.Formatter
	logger     *zap.Logger

	discardStale bool

	mu           sync.Mutex
	units        models.Units
	lastCity     string
	seq          uint64
	lastRendered uint64
}

func New(d Dispatcher, store *recents.Store, locator geo.Locator, renderer Renderer, formatter present.Formatter, logger *zap.Logger, opts Options) *Session {
	units := opts.Units
	if units == "" {
		units = models.Metric
	}
	if locator == nil {
		locator = geo.Unsupported{}
	}
	return &Session{
		dispatcher:   d,
		recents:      store,
		locator:      locator,
		renderer:     renderer,
		formatter:    formatter,
		logger:       logger.With(zap.String("component", "session")),
		discardStale: opts.DiscardStale,
		units:        units,
	}
}

// Start shows the recents restored from storage.
func (s *Session) Start(ctx context.Context) {
	s.renderer.ShowRecents(s.recents.List(ctx))
}

func (s *Session) Units() models.Units {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.units
}

// LastCity is the API name of the last successful search, or "".
func (s *Session) LastCity() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastCity
}

func (s *Session) Recents(ctx context.Context) []string {
	return s.recents.List(ctx)
}

// ClearRecents empties the recents list and shows it.
func (s *Session) ClearRecents(ctx context.Context) {
	s.recents.Clear(ctx)
	s.renderer.ShowRecents(s.recents.List(ctx))
}

// Search looks up a city typed by the user.
func (s *Session) Search(ctx context.Context, rawCity string) error {
	city := strings.TrimSpace(rawCity)
	if city == "" {
		s.renderer.ShowMessage(present.MsgEmptyCity, present.KindError)
		return &dispatcher.ValidationError{Field: "city", Reason: "must not be empty"}
	}

	s.renderer.ShowMessage(present.MsgLoading, present.KindInfo)
	return s.run(ctx, dispatcher.Query{City: city}, present.MsgFetchFailed)
}

// SearchCoords looks up the weather at a position, as delivered by a
// geolocation callback.
func (s *Session) SearchCoords(ctx context.Context, coord models.Coordinates) error {
	if !coord.Valid() {
		s.renderer.ShowMessage(present.MsgInvalidCoords, present.KindError)
		return &dispatcher.ValidationError{Field: "coordinates", Reason: "must be finite and within range"}
	}

	s.renderer.ShowMessage(present.MsgLoadingLocation, present.KindInfo)
	return s.run(ctx, dispatcher.Query{Coords: &coord}, present.MsgLocationFailed)
}

// SearchHere asks the locator for a position and searches there.
func (s *Session) SearchHere(ctx context.Context) error {
	s.renderer.ShowMessage(present.MsgLocating, present.KindInfo)

	coord, err := s.locator.Locate(ctx)
	if err != nil {
		s.logger.Info("Geolocation failed", zap.Error(err))
		s.renderer.ShowMessage(geoMessage(err), present.KindError)
		return err
	}

	return s.SearchCoords(ctx, coord)
}

// SelectRecent searches a city picked from the recents list. An empty pick
// does nothing.
func (s *Session) SelectRecent(ctx context.Context, city string) error {
	if city == "" {
		return nil
	}
	return s.Search(ctx, city)
}

// ToggleUnits flips the unit system. When a city has been searched it is
// fetched again in the new units; otherwise no request is made.
func (s *Session) ToggleUnits(ctx context.Context) (models.Units, error) {
	s.mu.Lock()
	s.units = s.units.Toggle()
	units, last := s.units, s.lastCity
	s.mu.Unlock()

	s.logger.Debug("Units toggled", zap.String("units", string(units)))

	if last == "" {
		s.renderer.ShowMessage(present.MsgToggleNoSearch, present.KindInfo)
		return units, nil
	}
	return units, s.Search(ctx, last)
}

func (s *Session) run(ctx context.Context, q dispatcher.Query, fetchFailedMsg string) error {
	s.mu.Lock()
	s.seq++
	id := s.seq
	q.Units = s.units
	s.mu.Unlock()

	res, err := s.dispatcher.Dispatch(ctx, q)
	if err != nil {
		s.renderer.ShowMessage(s.failureMessage(q, err, fetchFailedMsg), present.KindError)
		return err
	}

	if !s.claimRender(id) {
		s.logger.Debug("Discarding stale response", zap.Uint64("search", id))
		return ErrStale
	}

	s.renderer.ShowCurrent(s.formatter.Current(res.Current, q.Units))
	s.renderer.ShowForecast(s.formatter.Forecast(forecast.Bucket(res.Forecast.Samples), q.Units))

	s.renderer.ShowRecents(s.recents.Record(ctx, res.Current.Name))

	s.mu.Lock()
	s.lastCity = res.Current.Name
	s.mu.Unlock()

	s.renderer.ShowMessage("", present.KindInfo)
	return nil
}

func (s *Session) claimRender(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.discardStale && id < s.lastRendered {
		return false
	}
	if id > s.lastRendered {
		s.lastRendered = id
	}
	return true
}

func (s *Session) failureMessage(q dispatcher.Query, err error, fetchFailedMsg string) string {
	var verr *dispatcher.ValidationError
	switch {
	case errors.As(err, &verr):
		if verr.Field == "coordinates" {
			return present.MsgInvalidCoords
		}
		return present.MsgEmptyCity
	case q.Coords == nil && errors.Is(err, service.ErrNotFound):
		return present.MsgCityNotFound
	default:
		s.logger.Error("Weather lookup failed", zap.Error(err))
		return fetchFailedMsg
	}
}

func geoMessage(err error) string {
	switch {
	case errors.Is(err, geo.ErrUnsupported):
		return present.MsgGeoUnsupported
	case errors.Is(err, geo.ErrPermissionDenied):
		return present.MsgGeoDenied
	default:
		return present.MsgGeoUnavailable
	}
}
