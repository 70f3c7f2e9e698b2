package timecalc

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// GenerateID creates a unique drink ID based on timestamp and random suffix.
func GenerateID(t time.Time) string {
	return fmt.Sprintf("%s-%s", t.Format("20060102-150405"), uuid.NewString()[:5])
}

// FormatDuration formats an hours/minutes pair as "3h 20m" or "45m".
func FormatDuration(hours, minutes int) string {
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatDurationHHMM formats a duration as HH:MM, truncating seconds.
func FormatDurationHHMM(d time.Duration) string {
	total := int64(d / time.Minute)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// SplitHours converts fractional hours into whole hours and the rounded
// remainder in minutes. The minute part can round up to 60.
func SplitHours(hours float64) (int, int) {
	totalMinutes := hours * 60
	return int(math.Floor(totalMinutes / 60)), int(math.Round(math.Mod(totalMinutes, 60)))
}

// AddHours returns t shifted by fractional hours.
func AddHours(t time.Time, hours float64) time.Time {
	return t.Add(time.Duration(hours * float64(time.Hour)))
}

// HoursBetween returns the fractional hours from a to b.
func HoursBetween(a, b time.Time) float64 {
	return b.Sub(a).Hours()
}

// MinutesBetween returns the whole minutes from a to b, truncated toward zero.
func MinutesBetween(a, b time.Time) int {
	return int(b.Sub(a) / time.Minute)
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParseClock parses either an RFC 3339 timestamp or a wall-clock "15:04"
// placed on the day of ref.
func ParseClock(value string, ref time.Time) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	c, err := time.Parse("15:04", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: want HH:MM or RFC 3339", value)
	}
	day := StartOfDay(ref)
	return day.Add(time.Duration(c.Hour())*time.Hour + time.Duration(c.Minute())*time.Minute), nil
}
