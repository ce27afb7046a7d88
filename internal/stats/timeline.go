package stats

import "time"

const (
	GranularityDay   = "day"
	GranularityWeek  = "week"
	GranularityMonth = "month"

	// Spans above these switch the timeline to coarser buckets
	WeeklyThreshold  = 92 * 24 * time.Hour
	MonthlyThreshold = 730 * 24 * time.Hour
)

// ActivityLevel represents the commit count for one bucket of the timeline
type ActivityLevel struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Level int    `json:"level"` // 0-4 based on count
}

// Timeline is the ascending activity series of a report
type Timeline struct {
	Granularity string          `json:"granularity"`
	Buckets     []ActivityLevel `json:"buckets"`
}

// BuildTimeline buckets commit times in loc. Gaps between the first and last
// bucket are filled with zero counts.
func BuildTimeline(times []time.Time, loc *time.Location) Timeline {
	if len(times) == 0 {
		return Timeline{Granularity: GranularityDay, Buckets: []ActivityLevel{}}
	}

	first, last := times[0], times[0]
	for _, t := range times[1:] {
		if t.Before(first) {
			first = t
		}
		if t.After(last) {
			last = t
		}
	}

	granularity := GranularityDay
	switch span := last.Sub(first); {
	case span > MonthlyThreshold:
		granularity = GranularityMonth
	case span > WeeklyThreshold:
		granularity = GranularityWeek
	}

	counts := make(map[string]int)
	for _, t := range times {
		counts[formatBucket(bucketStart(t.In(loc), granularity), granularity)]++
	}

	var buckets []ActivityLevel
	end := bucketStart(last.In(loc), granularity)
	for current := bucketStart(first.In(loc), granularity); !current.After(end); current = nextBucket(current, granularity) {
		date := formatBucket(current, granularity)
		count := counts[date]
		buckets = append(buckets, ActivityLevel{
			Date:  date,
			Count: count,
			Level: activityLevel(count),
		})
	}

	return Timeline{Granularity: granularity, Buckets: buckets}
}

func bucketStart(t time.Time, granularity string) time.Time {
	y, m, d := t.Date()
	switch granularity {
	case GranularityMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	case GranularityWeek:
		day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
		offset := (int(day.Weekday()) + 6) % 7 // days since Monday
		return day.AddDate(0, 0, -offset)
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	}
}

func nextBucket(t time.Time, granularity string) time.Time {
	switch granularity {
	case GranularityMonth:
		return t.AddDate(0, 1, 0)
	case GranularityWeek:
		return t.AddDate(0, 0, 7)
	default:
		return t.AddDate(0, 0, 1)
	}
}

func formatBucket(t time.Time, granularity string) string {
	if granularity == GranularityMonth {
		return t.Format("2006-01")
	}
	return t.Format("2006-01-02")
}

func activityLevel(count int) int {
	switch {
	case count == 0:
		return 0
	case count <= 2:
		return 1
	case count <= 5:
		return 2
	case count <= 10:
		return 3
	default:
		return 4
	}
}
