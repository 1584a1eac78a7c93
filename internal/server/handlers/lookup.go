package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-lookup/internal/dispatcher"
	"github.com/vzahanych/weather-lookup/internal/geo"
	"github.com/vzahanych/weather-lookup/internal/models"
	"github.com/vzahanych/weather-lookup/internal/present"
	"github.com/vzahanych/weather-lookup/internal/server/utils"
	"github.com/vzahanych/weather-lookup/internal/service"
	"github.com/vzahanych/weather-lookup/internal/session"
	"github.com/vzahanych/weather-lookup/pkg/logger"
	"go.uber.org/zap"
)

// Session is the part of session.Session the HTTP surface drives.
type Session interface {
	Units() models.Units
	LastCity() string
	Recents(ctx context.Context) []string
	ClearRecents(ctx context.Context)
	Search(ctx context.Context, rawCity string) error
	SearchCoords(ctx context.Context, coord models.Coordinates) error
	SearchHere(ctx context.Context) error
	SelectRecent(ctx context.Context, city string) error
	ToggleUnits(ctx context.Context) (models.Units, error)
}

// LookupHandler serves the user actions. Every action answers with the
// shared display as it stands afterwards.
type LookupHandler struct {
	session Session
	state   *present.State
	logger  *zap.Logger
}

func NewLookupHandler(s Session, state *present.State, logger *zap.Logger) *LookupHandler {
	return &LookupHandler{
		session: s,
		state:   state,
		logger:  logger,
	}
}

func (h *LookupHandler) Search(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)

	var req SearchRequest
	if !h.bind(c, &req) {
		return
	}

	h.respond(c, h.session.Search(ctx, req.City))
}

// Locate searches at the coordinates in the body, or asks the server's
// locator when the body has none. An empty body counts as none.
func (h *LookupHandler) Locate(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)

	var req LocateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.badRequest(c, "Invalid request body", err.Error())
		return
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		h.badRequest(c, errs[0].Message, "")
		return
	}

	if req.Lat != nil && req.Lon != nil {
		h.respond(c, h.session.SearchCoords(ctx, models.Coordinates{Lat: *req.Lat, Lon: *req.Lon}))
		return
	}
	h.respond(c, h.session.SearchHere(ctx))
}

func (h *LookupHandler) ToggleUnits(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)

	_, err := h.session.ToggleUnits(ctx)
	h.respond(c, err)
}

func (h *LookupHandler) Recents(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	c.JSON(http.StatusOK, RecentsResponse{Cities: h.session.Recents(ctx)})
}

func (h *LookupHandler) SelectRecent(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)

	var req SelectRecentRequest
	if !h.bind(c, &req) {
		return
	}

	h.respond(c, h.session.SelectRecent(ctx, req.City))
}

func (h *LookupHandler) ClearRecents(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)

	h.session.ClearRecents(ctx)
	c.JSON(http.StatusOK, RecentsResponse{Cities: h.session.Recents(ctx)})
}

func (h *LookupHandler) View(c *gin.Context) {
	c.JSON(http.StatusOK, h.view())
}

func (h *LookupHandler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.badRequest(c, "Invalid request body", err.Error())
		return false
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		h.badRequest(c, errs[0].Message, "")
		return false
	}
	return true
}

func (h *LookupHandler) badRequest(c *gin.Context, msg, details string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   msg,
		Code:    "INVALID_REQUEST",
		Details: details,
	})
}

func (h *LookupHandler) respond(c *gin.Context, err error) {
	if err == nil {
		c.JSON(http.StatusOK, h.view())
		return
	}

	status, code := classify(err)
	view := h.view()

	msg := err.Error()
	if view.Message != nil {
		msg = view.Message.Text
	}

	reqLogger := logger.FromContext(c.Request.Context(), h.logger)
	if status >= http.StatusInternalServerError {
		reqLogger.Warn("Lookup failed", zap.Int("status", status), zap.Error(err))
	} else {
		reqLogger.Debug("Lookup rejected", zap.Int("status", status), zap.Error(err))
	}

	c.Error(err)
	c.JSON(status, ErrorResponse{
		Error: msg,
		Code:  code,
		View:  &view,
	})
}

func (h *LookupHandler) view() ViewResponse {
	return ViewResponse{
		Units:    h.session.Units(),
		LastCity: h.session.LastCity(),
		View:     h.state.Snapshot(),
	}
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, dispatcher.ErrValidation):
		return http.StatusBadRequest, "INVALID_QUERY"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, geo.ErrUnsupported):
		return http.StatusNotImplemented, "GEOLOCATION_UNSUPPORTED"
	case errors.Is(err, geo.ErrPermissionDenied):
		return http.StatusForbidden, "GEOLOCATION_DENIED"
	case errors.Is(err, geo.ErrUnavailable):
		return http.StatusServiceUnavailable, "GEOLOCATION_UNAVAILABLE"
	case errors.Is(err, session.ErrStale):
		return http.StatusConflict, "STALE_RESPONSE"
	default:
		return http.StatusBadGateway, "UPSTREAM_ERROR"
	}
}
