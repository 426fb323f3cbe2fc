package snapshot

import "time"

const (
	// TimestampLayout is ISO-8601 with microseconds and an explicit offset.
	TimestampLayout = "2006-01-02T15:04:05.000000-07:00"
	// DisplayLayout renders the same instant for the Korean dashboard header.
	DisplayLayout = "2006년 01월 02일 15:04 KST"
)

// KST is the zone both timestamp fields are rendered in.
var KST = time.FixedZone("KST", 9*60*60)

// Timestamp formats t as the machine-parsable last_updated value.
func Timestamp(t time.Time) string {
	return t.In(KST).Format(TimestampLayout)
}

// DisplayTime formats t as the human-readable last_updated_display value.
func DisplayTime(t time.Time) string {
	return t.In(KST).Format(DisplayLayout)
}

// ParseTimestamp parses a last_updated value.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(TimestampLayout, s)
}
