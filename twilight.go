// Package twilight decides whether a given instant is day or night at a
// location, using civil twilight (Sun's center 6° below the horizon) as the
// boundary, and reports the nearest civil sunrise and sunset.
//
// The model is a closed-form approximation of the Sun's position:
// mean anomaly, true anomaly, ecliptic longitude, declination and finally
// the hour angle at the twilight altitude. It agrees with published civil
// twilight tables to within a few minutes for the present era and degrades
// slowly over centuries from J2000.
//
// All times are instants in milliseconds since the Unix epoch (UTC). The
// package never converts to local wall-clock time; see internal/present for
// that.
package twilight

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/thurmanmarka/twilight/internal/sun"
	"github.com/thurmanmarka/twilight/internal/timeutil"
)

// MinTime and MaxTime bound the instants Calculate accepts: ±100,000,000
// days around the Unix epoch, the same range as an ECMAScript Date. Inside
// it, epoch milliseconds stay below 2^53 so the float64 pipeline never
// overflows int64. PrecisionSingle loses whole days long before these bounds.
const (
	MinTime int64 = -8_640_000_000_000_000
	MaxTime int64 = 8_640_000_000_000_000
)

// NoTransition is stored in Result.Sunrise and Result.Sunset when the Sun
// does not cross the civil twilight altitude on this day at this latitude.
const NoTransition int64 = -1

// Precision selects the floating-point profile of the calculation.
type Precision int

const (
	// PrecisionDouble evaluates the whole pipeline in float64. This is the default.
	PrecisionDouble Precision = iota

	// PrecisionSingle rounds every intermediate quantity to float32. Results
	// agree with PrecisionDouble to within about a minute and a half.
	PrecisionSingle
)

func (p Precision) String() string {
	switch p {
	case PrecisionDouble:
		return "double"
	case PrecisionSingle:
		return "single"
	default:
		return fmt.Sprintf("Precision(%d)", int(p))
	}
}

// ParsePrecision maps "double" or "single" (case-sensitive) to a Precision.
// The empty string selects PrecisionDouble.
func ParsePrecision(s string) (Precision, error) {
	switch s {
	case "", "double":
		return PrecisionDouble, nil
	case "single":
		return PrecisionSingle, nil
	default:
		return 0, fmt.Errorf("%w: %q (use double or single)", ErrInvalidPrecision, s)
	}
}

// State describes which side of civil twilight an instant falls on.
type State int

const (
	StateNight State = iota
	StateDay
	// StatePolarNight means the Sun stays below -6° for the whole day.
	StatePolarNight
	// StatePolarDay means the Sun stays above -6° for the whole day.
	StatePolarDay
)

func (s State) String() string {
	switch s {
	case StateNight:
		return "night"
	case StateDay:
		return "day"
	case StatePolarNight:
		return "polar night"
	case StatePolarDay:
		return "polar day"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Coordinates represent an observer's location.
type Coordinates struct {
	Lat float64 // degrees, north positive
	Lon float64 // degrees, east positive (west negative, e.g. -105 for 105°W)
}

// Query is a single request: an instant and a position.
type Query struct {
	Time      int64   // milliseconds since the Unix epoch
	Latitude  float64 // degrees, [-90, 90]
	Longitude float64 // degrees, [-180, 180]
}

// Result holds the outcome of one calculation.
type Result struct {
	// Time echoes the queried instant.
	Time int64
	// Sunset is the civil dusk in epoch milliseconds, or NoTransition.
	Sunset int64
	// Sunrise is the civil dawn in epoch milliseconds, or NoTransition.
	Sunrise int64
	// IsDay reports Sunrise < Time < Sunset. When both are NoTransition it
	// instead tells which perpetual state holds: true for polar day.
	IsDay bool
}

var (
	// ErrInvalidLatitude is returned for a latitude outside [-90, 90] or not finite.
	ErrInvalidLatitude = errors.New("latitude out of range [-90, 90]")

	// ErrInvalidLongitude is returned for a longitude outside [-180, 180] or not finite.
	ErrInvalidLongitude = errors.New("longitude out of range [-180, 180]")

	// ErrInvalidTime is returned for an instant outside [MinTime, MaxTime].
	ErrInvalidTime = errors.New("time out of range")

	// ErrInvalidPrecision is returned by ParsePrecision for unknown names.
	ErrInvalidPrecision = errors.New("unknown precision")
)

// Option adjusts a single calculation.
type Option func(*options)

type options struct {
	precision Precision
}

// WithPrecision selects the floating-point profile. Unknown values fall back
// to PrecisionDouble.
func WithPrecision(p Precision) Option {
	return func(o *options) {
		o.precision = p
	}
}

// Calculate returns civil sunrise, sunset and the day/night flag for the
// instant t (milliseconds since the Unix epoch) at latitude/longitude in
// degrees.
//
// The only failures are out-of-range coordinates or instants; every valid
// query produces a Result, including at the poles.
func Calculate(t int64, latitude, longitude float64, opts ...Option) (Result, error) {
	if err := validate(t, latitude, longitude); err != nil {
		return Result{}, err
	}

	o := options{precision: PrecisionDouble}
	for _, opt := range opts {
		opt(&o)
	}

	return calculate(t, latitude, longitude, o.precision.internal()), nil
}

// CalculateQuery is Calculate for a Query value.
func CalculateQuery(q Query, opts ...Option) (Result, error) {
	return Calculate(q.Time, q.Latitude, q.Longitude, opts...)
}

// CalculateAt is Calculate for a time.Time and Coordinates. Sub-millisecond
// precision of t is truncated.
func CalculateAt(t time.Time, loc Coordinates, opts ...Option) (Result, error) {
	return Calculate(timeutil.ToMillis(t), loc.Lat, loc.Lon, opts...)
}

func validate(t int64, latitude, longitude float64) error {
	if t < MinTime || t > MaxTime {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidTime, t, MinTime, MaxTime)
	}
	if math.IsNaN(latitude) || latitude < -90 || latitude > 90 {
		return fmt.Errorf("%w: %v", ErrInvalidLatitude, latitude)
	}
	if math.IsNaN(longitude) || longitude < -180 || longitude > 180 {
		return fmt.Errorf("%w: %v", ErrInvalidLongitude, longitude)
	}
	return nil
}

func (p Precision) internal() sun.Precision {
	if p == PrecisionSingle {
		return sun.Single
	}
	return sun.Double
}

// calculate is the unchecked core shared by every entry point.
func calculate(t int64, latitude, longitude float64, p sun.Precision) Result {
	days := timeutil.DaysSince2000(t)
	ev := sun.Civil(days, latitude, longitude, p)

	switch ev.Kind {
	case sun.AlwaysBelow:
		return Result{Time: t, Sunset: NoTransition, Sunrise: NoTransition, IsDay: false}
	case sun.AlwaysAbove:
		return Result{Time: t, Sunset: NoTransition, Sunrise: NoTransition, IsDay: true}
	}

	sunset := timeutil.MillisFromDays(ev.Sunset())
	sunrise := timeutil.MillisFromDays(ev.Sunrise())

	return Result{
		Time:    t,
		Sunset:  sunset,
		Sunrise: sunrise,
		IsDay:   between(t, sunrise, sunset),
	}
}

// between reports sunrise < t < sunset. An instant exactly at either
// transition is night.
func between(t, sunrise, sunset int64) bool {
	return sunrise < t && t < sunset
}

// Perpetual reports whether the result is a polar day or polar night, i.e.
// both transitions are NoTransition.
func (r Result) Perpetual() bool {
	return r.Sunrise == NoTransition && r.Sunset == NoTransition
}

// State classifies the result.
func (r Result) State() State {
	switch {
	case r.Perpetual() && r.IsDay:
		return StatePolarDay
	case r.Perpetual():
		return StatePolarNight
	case r.IsDay:
		return StateDay
	default:
		return StateNight
	}
}

// SunriseTime returns Sunrise as a UTC time, or the zero time for NoTransition.
func (r Result) SunriseTime() time.Time {
	if r.Sunrise == NoTransition {
		return time.Time{}
	}
	return timeutil.FromMillis(r.Sunrise)
}

// SunsetTime returns Sunset as a UTC time, or the zero time for NoTransition.
func (r Result) SunsetTime() time.Time {
	if r.Sunset == NoTransition {
		return time.Time{}
	}
	return timeutil.FromMillis(r.Sunset)
}

// DayLength returns the span between civil dawn and dusk, or 0 for a
// perpetual result.
func (r Result) DayLength() time.Duration {
	if r.Perpetual() {
		return 0
	}
	return time.Duration(r.Sunset-r.Sunrise) * time.Millisecond
}

// Event names returned by Result.Next.
const (
	EventSunrise = "sunrise"
	EventSunset  = "sunset"
)

// Next returns the first transition strictly after Time, if any. The
// sunrise and sunset of a Result belong to the same solar day, so the
// instant may also be past both (late evening) or before both (early
// morning of the next solar day); ok is false when nothing follows.
func (r Result) Next() (event string, at int64, ok bool) {
	if r.Perpetual() {
		return "", NoTransition, false
	}
	switch {
	case r.Time < r.Sunrise:
		return EventSunrise, r.Sunrise, true
	case r.Time < r.Sunset:
		return EventSunset, r.Sunset, true
	default:
		return "", NoTransition, false
	}
}
