package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Units is the unit system a request is made in. The API returns values
// already converted, so no local conversion ever happens.
type Units string

const (
	Metric   Units = "metric"
	Imperial Units = "imperial"
)

func ParseUnits(s string) (Units, error) {
	switch Units(strings.ToLower(strings.TrimSpace(s))) {
	case Metric:
		return Metric, nil
	case Imperial:
		return Imperial, nil
	default:
		return "", fmt.Errorf("unknown unit system %q", s)
	}
}

// Toggle flips between metric and imperial.
func (u Units) Toggle() Units {
	if u == Imperial {
		return Metric
	}
	return Imperial
}

func (u Units) TemperatureLabel() string {
	if u == Imperial {
		return "°F"
	}
	return "°C"
}

func (u Units) SpeedLabel() string {
	if u == Imperial {
		return "mph"
	}
	return "m/s"
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether both values are finite and within geographic range.
func (c Coordinates) Valid() bool {
	for _, v := range []float64{c.Lat, c.Lon} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Sample is one reading returned by the weather API.
type Sample struct {
	Timestamp   int64   `json:"dt"`
	Temperature float64 `json:"temp"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	Condition   string  `json:"condition"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
}

func (s Sample) Time() time.Time {
	return time.Unix(s.Timestamp, 0).UTC()
}

// Current is the current-conditions response. Name is the city name as
// resolved by the API, not the raw user input.
type Current struct {
	Name    string      `json:"name"`
	Country string      `json:"country"`
	Coord   Coordinates `json:"coord"`
	Sample  Sample      `json:"sample"`
}

type Forecast struct {
	City    string   `json:"city"`
	Country string   `json:"country"`
	Samples []Sample `json:"samples"`
}
