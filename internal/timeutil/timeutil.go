package timeutil

import (
	"math"
	"time"
)

// -----------------------------
// Time relative to J2000, in epoch milliseconds
// -----------------------------

// UTC2000Millis is 2000-01-01 12:00:00 UTC in milliseconds since the Unix epoch.
const UTC2000Millis int64 = 946728000000

// MillisPerDay is the length of a civil day in milliseconds.
const MillisPerDay int64 = 24 * 60 * 60 * 1000

// DaysSince2000 returns the fractional number of days between the J2000.0
// epoch and the instant ms (milliseconds since the Unix epoch).
//
// The subtraction happens in int64 before widening, so instants far from
// 2000 do not lose millisecond resolution before the division.
func DaysSince2000(ms int64) float64 {
	return float64(ms-UTC2000Millis) / float64(MillisPerDay)
}

// MillisFromDays converts fractional days since J2000 back to epoch
// milliseconds, rounding half-millisecond ties up (towards +Inf).
func MillisFromDays(days float64) int64 {
	return int64(RoundHalfUp(float64(days*float64(MillisPerDay)))) + UTC2000Millis
}

// RoundHalfUp rounds x to the nearest integer, ties towards +Inf.
// math.Round sends negative ties away from zero, which moves instants
// before J2000 one millisecond early. x+0.5 is exact for |x| < 2^52.
func RoundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// FromMillis returns the UTC instant for ms milliseconds since the Unix epoch.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// ToMillis returns t as milliseconds since the Unix epoch.
func ToMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// -----------------------------
// Basic degree/radian helpers.
// -----------------------------

const degreesToRadians = math.Pi / 180.0

func Deg2Rad(d float64) float64 {
	return d * degreesToRadians
}

func Rad2Deg(r float64) float64 {
	return r / degreesToRadians
}
