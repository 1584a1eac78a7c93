// Package forecast groups the API's 3-hour forecast samples into calendar
// days and picks the sample shown on each day card.
package forecast

import (
	"sort"
	"time"

	"github.com/vzahanych/weather-lookup/internal/models"
)

const (
	// MaxDays caps the number of day buckets. The API covers five days, and
	// the first bucket is usually a partial "today".
	MaxDays = 6

	targetHour = 12
)

// DayBucket holds the samples of one UTC calendar day and the one chosen to
// represent it.
type DayBucket struct {
	Date           time.Time       `json:"date"`
	Samples        []models.Sample `json:"samples"`
	Representative models.Sample   `json:"representative"`
}

// Key returns the bucket date as YYYY-MM-DD.
func (b DayBucket) Key() string {
	return b.Date.Format(time.DateOnly)
}

// Bucket partitions samples by UTC date and selects, per date, the sample
// whose UTC hour is closest to noon. Ties go to the sample seen first in
// the input. The result is ascending by date and holds at most MaxDays
// buckets.
func Bucket(samples []models.Sample) []DayBucket {
	byDate := make(map[time.Time]*DayBucket)

	for _, s := range samples {
		t := s.Time()
		date := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)

		b, ok := byDate[date]
		if !ok {
			b = &DayBucket{Date: date}
			byDate[date] = b
		}
		b.Samples = append(b.Samples, s)
	}

	buckets := make([]DayBucket, 0, len(byDate))
	for _, b := range byDate {
		b.Representative = closestToNoon(b.Samples)
		buckets = append(buckets, *b)
	}

	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Date.Before(buckets[j].Date)
	})

	if len(buckets) > MaxDays {
		buckets = buckets[:MaxDays]
	}

	return buckets
}

// closestToNoon expects a non-empty slice.
func closestToNoon(samples []models.Sample) models.Sample {
	best := samples[0]
	bestDist := distanceFromNoon(best)

	for _, s := range samples[1:] {
		if d := distanceFromNoon(s); d < bestDist {
			best, bestDist = s, d
		}
	}

	return best
}

func distanceFromNoon(s models.Sample) int {
	d := s.Time().Hour() - targetHour
	if d < 0 {
		return -d
	}
	return d
}
