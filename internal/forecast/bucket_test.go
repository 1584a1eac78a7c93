package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/weather-lookup/internal/models"
)

func sampleAt(day, hour int, cond string) models.Sample {
	t := time.Date(2025, time.March, day, hour, 0, 0, 0, time.UTC)
	return models.Sample{Timestamp: t.Unix(), Condition: cond}
}

func TestBucket_Empty(t *testing.T) {
	assert.Empty(t, Bucket(nil))
	assert.Empty(t, Bucket([]models.Sample{}))
}

func TestBucket_SingleSampleDay(t *testing.T) {
	s := sampleAt(3, 21, "Rain")

	buckets := Bucket([]models.Sample{s})

	require.Len(t, buckets, 1)
	assert.Equal(t, s, buckets[0].Representative)
	assert.Equal(t, "2025-03-03", buckets[0].Key())
}

func TestBucket_PicksClosestToNoon(t *testing.T) {
	samples := []models.Sample{
		sampleAt(4, 0, "a"),
		sampleAt(4, 6, "b"),
		sampleAt(4, 12, "c"),
		sampleAt(4, 21, "d"),
	}

	buckets := Bucket(samples)

	require.Len(t, buckets, 1)
	assert.Equal(t, "c", buckets[0].Representative.Condition)
	assert.Len(t, buckets[0].Samples, 4)
}

func TestBucket_TieGoesToEarlierInput(t *testing.T) {
	samples := []models.Sample{
		sampleAt(5, 0, "h0"),
		sampleAt(5, 9, "h9"),
		sampleAt(5, 15, "h15"),
		sampleAt(5, 18, "h18"),
	}

	buckets := Bucket(samples)
	require.Len(t, buckets, 1)
	assert.Equal(t, "h9", buckets[0].Representative.Condition)

	// Same readings, 15:00 listed before 09:00.
	reordered := []models.Sample{samples[2], samples[0], samples[1], samples[3]}

	buckets = Bucket(reordered)
	require.Len(t, buckets, 1)
	assert.Equal(t, "h15", buckets[0].Representative.Condition)
}

func TestBucket_SortsDatesAndToleratesDisorder(t *testing.T) {
	samples := []models.Sample{
		sampleAt(7, 12, "d7"),
		sampleAt(5, 12, "d5"),
		sampleAt(6, 12, "d6"),
		sampleAt(5, 3, "d5-early"),
	}

	buckets := Bucket(samples)

	require.Len(t, buckets, 3)
	assert.Equal(t, "2025-03-05", buckets[0].Key())
	assert.Equal(t, "2025-03-06", buckets[1].Key())
	assert.Equal(t, "2025-03-07", buckets[2].Key())
	assert.Equal(t, "d5", buckets[0].Representative.Condition)
	assert.Equal(t, []models.Sample{samples[1], samples[3]}, buckets[0].Samples)
}

func TestBucket_CapsAtMaxDays(t *testing.T) {
	var samples []models.Sample
	for day := 1; day <= 8; day++ {
		for hour := 0; hour < 24; hour += 3 {
			samples = append(samples, sampleAt(day, hour, "x"))
		}
	}

	buckets := Bucket(samples)

	require.Len(t, buckets, MaxDays)
	assert.Equal(t, "2025-03-01", buckets[0].Key())
	assert.Equal(t, "2025-03-06", buckets[MaxDays-1].Key())
	for _, b := range buckets {
		assert.Equal(t, 12, b.Representative.Time().Hour())
	}
}

func TestBucket_FiveDayResponse(t *testing.T) {
	// A typical 40-sample response starting mid-afternoon.
	start := time.Date(2025, time.March, 10, 15, 0, 0, 0, time.UTC)
	samples := make([]models.Sample, 0, 40)
	for i := 0; i < 40; i++ {
		samples = append(samples, models.Sample{Timestamp: start.Add(time.Duration(i) * 3 * time.Hour).Unix()})
	}

	buckets := Bucket(samples)

	require.Len(t, buckets, 6)
	assert.Equal(t, 15, buckets[0].Representative.Time().Hour())
	assert.Len(t, buckets[0].Samples, 3)
	for _, b := range buckets[1:5] {
		assert.Equal(t, 12, b.Representative.Time().Hour())
		assert.Len(t, b.Samples, 8)
	}
	assert.Equal(t, 12, buckets[5].Representative.Time().Hour())
}
