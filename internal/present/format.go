// Package present turns API data into display strings and hosts the
// renderers that show them.
package present

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/vzahanych/weather-lookup/internal/forecast"
	"github.com/vzahanych/weather-lookup/internal/models"
)

const DefaultIconBaseURL = "https://openweathermap.org/img/wn"

type CurrentView struct {
	City        string `json:"city"`
	Temperature string `json:"temperature"`
	Description string `json:"description"`
	Details     string `json:"details"`
	IconURL     string `json:"icon_url"`
	Theme       string `json:"theme"`
}

type DayCard struct {
	Date        string `json:"date"`
	Label       string `json:"label"`
	Temperature string `json:"temperature"`
	Condition   string `json:"condition"`
	Details     string `json:"details"`
	IconURL     string `json:"icon_url"`
}

// Formatter is pure: the same input always yields the same view.
// Day buckets are cut on UTC days but labelled in Location.
type Formatter struct {
	IconBaseURL string
	Location    *time.Location
}

func NewFormatter(iconBaseURL, timezone string) (Formatter, error) {
	if iconBaseURL == "" {
		iconBaseURL = DefaultIconBaseURL
	}
	loc := time.Local
	if timezone != "" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			return Formatter{}, fmt.Errorf("load timezone %q: %w", timezone, err)
		}
		loc = l
	}
	return Formatter{IconBaseURL: strings.TrimRight(iconBaseURL, "/"), Location: loc}, nil
}

func (f Formatter) Current(cur *models.Current, units models.Units) CurrentView {
	s := cur.Sample

	city := cur.Name
	if cur.Country != "" {
		city = fmt.Sprintf("%s, %s", cur.Name, cur.Country)
	}

	return CurrentView{
		City:        city,
		Temperature: Temperature(s.Temperature, units),
		Description: s.Description,
		Details: fmt.Sprintf("Humidity: %d%% · Wind: %s %s",
			s.Humidity, formatNumber(s.WindSpeed), units.SpeedLabel()),
		IconURL: f.IconURL(s.Icon),
		Theme:   Theme(s.Condition),
	}
}

func (f Formatter) Forecast(buckets []forecast.DayBucket, units models.Units) []DayCard {
	cards := make([]DayCard, 0, len(buckets))
	for _, b := range buckets {
		s := b.Representative
		cards = append(cards, DayCard{
			Date:        b.Key(),
			Label:       s.Time().In(f.location()).Format("Mon, Jan 2"),
			Temperature: Temperature(s.Temperature, units),
			Condition:   s.Condition,
			Details: fmt.Sprintf("Wind: %s %s · Hum: %d%%",
				formatNumber(s.WindSpeed), units.SpeedLabel(), s.Humidity),
			IconURL: f.IconURL(s.Icon),
		})
	}
	return cards
}

func (f Formatter) IconURL(code string) string {
	base := f.IconBaseURL
	if base == "" {
		base = DefaultIconBaseURL
	}
	return fmt.Sprintf("%s/%s@2x.png", base, code)
}

func (f Formatter) location() *time.Location {
	if f.Location == nil {
		return time.Local
	}
	return f.Location
}

// Temperature rounds half up, so -2.5 shows as -2.
func Temperature(v float64, units models.Units) string {
	return fmt.Sprintf("%d%s", int(math.Floor(v+0.5)), units.TemperatureLabel())
}

// Theme picks a background from the condition category.
func Theme(condition string) string {
	c := strings.ToLower(condition)
	switch {
	case strings.Contains(c, "rain"):
		return "rain"
	case strings.Contains(c, "cloud"):
		return "clouds"
	case strings.Contains(c, "clear"):
		return "clear"
	default:
		return ""
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
