package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTimeline_Daily(t *testing.T) {
	times := []time.Time{
		day0.Add(48 * time.Hour),
		day0,
		day0.Add(time.Hour),
	}

	tl := BuildTimeline(times, time.UTC)
	assert.Equal(t, GranularityDay, tl.Granularity)
	assert.Equal(t, []ActivityLevel{
		{Date: "2024-05-06", Count: 2, Level: 1},
		{Date: "2024-05-07", Count: 0, Level: 0},
		{Date: "2024-05-08", Count: 1, Level: 1},
	}, tl.Buckets)
}

func TestBuildTimeline_TimeZone(t *testing.T) {
	late := time.Date(2024, 5, 6, 23, 30, 0, 0, time.UTC)
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	tl := BuildTimeline([]time.Time{late}, tokyo)
	require.Len(t, tl.Buckets, 1)
	assert.Equal(t, "2024-05-07", tl.Buckets[0].Date)
}

func TestBuildTimeline_Weekly(t *testing.T) {
	// 2024-05-06 is a Monday
	times := []time.Time{day0, day0.Add(2 * 24 * time.Hour), day0.AddDate(0, 0, 100)}

	tl := BuildTimeline(times, time.UTC)
	assert.Equal(t, GranularityWeek, tl.Granularity)
	assert.Equal(t, "2024-05-06", tl.Buckets[0].Date)
	assert.Equal(t, 2, tl.Buckets[0].Count)
	assert.Equal(t, "2024-05-13", tl.Buckets[1].Date)

	last := tl.Buckets[len(tl.Buckets)-1]
	assert.Equal(t, "2024-08-12", last.Date)
	assert.Equal(t, 1, last.Count)
}

func TestBuildTimeline_Monthly(t *testing.T) {
	times := []time.Time{day0, day0.AddDate(3, 0, 0)}

	tl := BuildTimeline(times, time.UTC)
	assert.Equal(t, GranularityMonth, tl.Granularity)
	assert.Len(t, tl.Buckets, 37)
	assert.Equal(t, "2024-05", tl.Buckets[0].Date)
	assert.Equal(t, "2027-05", tl.Buckets[36].Date)
}

func TestBuildTimeline_Empty(t *testing.T) {
	tl := BuildTimeline(nil, time.UTC)
	assert.Equal(t, GranularityDay, tl.Granularity)
	assert.NotNil(t, tl.Buckets)
	assert.Empty(t, tl.Buckets)
}

func TestActivityLevel(t *testing.T) {
	cases := map[int]int{0: 0, 1: 1, 2: 1, 3: 2, 5: 2, 6: 3, 10: 3, 11: 4, 50: 4}
	for count, want := range cases {
		assert.Equal(t, want, activityLevel(count), "count=%d", count)
	}
}
