package handlers

import (
	"github.com/vzahanych/weather-lookup/internal/models"
	"github.com/vzahanych/weather-lookup/internal/present"
)

// SearchRequest carries the raw text typed by the user; blank input is
// reported by the session, not rejected here.
type SearchRequest struct {
	City string `json:"city" validate:"max=200"`
}

// LocateRequest holds a position from the browser's geolocation. Without
// one the server-side locator is asked.
type LocateRequest struct {
	Lat *float64 `json:"lat" validate:"required_with=Lon,omitempty,latitude"`
	Lon *float64 `json:"lon" validate:"required_with=Lat,omitempty,longitude"`
}

type SelectRecentRequest struct {
	City string `json:"city" validate:"max=200"`
}

// ViewResponse is the shared display after an action.
type ViewResponse struct {
	Units    models.Units `json:"units"`
	LastCity string       `json:"last_city,omitempty"`
	present.View
}

type RecentsResponse struct {
	Cities []string `json:"cities"`
}

// ErrorResponse carries the message the display shows and, for a failed
// lookup, the display itself.
type ErrorResponse struct {
	Error   string        `json:"error"`
	Code    string        `json:"code,omitempty"`
	Details string        `json:"details,omitempty"`
	View    *ViewResponse `json:"view,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp,omitempty"`
	Storage   string `json:"storage,omitempty"`
}
