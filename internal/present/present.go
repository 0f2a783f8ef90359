// Package present turns a twilight.Result into text and JSON for people.
// It is the only place where instants are converted to wall-clock times.
package present

import (
	"fmt"
	"io"
	"time"

	"github.com/thurmanmarka/twilight"
)

// NeverEnds is shown in place of a sunrise or sunset that does not happen.
const NeverEnds = "day/night never ends"

// ClockLayout is the default time-of-day layout.
const ClockLayout = "15:04"

// SunriseText returns "day starts at HH:MM" in loc, or NeverEnds.
func SunriseText(res twilight.Result, loc *time.Location, layout string) string {
	if res.Sunrise == twilight.NoTransition {
		return NeverEnds
	}
	return "day starts at " + clock(res.SunriseTime(), loc, layout)
}

// SunsetText returns "night starts at HH:MM" in loc, or NeverEnds.
func SunsetText(res twilight.Result, loc *time.Location, layout string) string {
	if res.Sunset == twilight.NoTransition {
		return NeverEnds
	}
	return "night starts at " + clock(res.SunsetTime(), loc, layout)
}

func clock(t time.Time, loc *time.Location, layout string) string {
	if loc == nil {
		loc = time.UTC
	}
	if layout == "" {
		layout = ClockLayout
	}
	return t.In(loc).Format(layout)
}

// Render writes the human-readable summary of res for coords.
func Render(w io.Writer, res twilight.Result, coords twilight.Coordinates, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}
	at := time.UnixMilli(res.Time).In(loc)

	_, err := fmt.Fprintf(w,
		"location: lat=%.6f lon=%.6f\ntime: %s (%s)\n%s\n%s\nis it day? %t\n",
		coords.Lat, coords.Lon,
		at.Format(time.RFC3339), loc,
		SunriseText(res, loc, ClockLayout),
		SunsetText(res, loc, ClockLayout),
		res.IsDay,
	)
	return err
}

// View is the JSON form of a result. Sunrise and Sunset are null when no
// transition happens; the *_ms fields keep the raw values including -1.
type View struct {
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Precision     string  `json:"precision"`
	Timezone      string  `json:"timezone"`
	Time          string  `json:"time"`
	TimeMillis    int64   `json:"time_ms"`
	Sunrise       *string `json:"sunrise"`
	SunriseMillis int64   `json:"sunrise_ms"`
	Sunset        *string `json:"sunset"`
	SunsetMillis  int64   `json:"sunset_ms"`
	IsDay         bool    `json:"is_day"`
	State         string  `json:"state"`
	DayLength     string  `json:"day_length,omitempty"`
	Next          string  `json:"next,omitempty"`
}

// NewView builds the JSON view of res, formatting instants in loc.
func NewView(res twilight.Result, coords twilight.Coordinates, p twilight.Precision, loc *time.Location) View {
	if loc == nil {
		loc = time.UTC
	}

	v := View{
		Latitude:      coords.Lat,
		Longitude:     coords.Lon,
		Precision:     p.String(),
		Timezone:      loc.String(),
		Time:          time.UnixMilli(res.Time).In(loc).Format(time.RFC3339),
		TimeMillis:    res.Time,
		SunriseMillis: res.Sunrise,
		SunsetMillis:  res.Sunset,
		IsDay:         res.IsDay,
		State:         res.State().String(),
	}

	if res.Sunrise != twilight.NoTransition {
		s := res.SunriseTime().In(loc).Format(time.RFC3339)
		v.Sunrise = &s
	}
	if res.Sunset != twilight.NoTransition {
		s := res.SunsetTime().In(loc).Format(time.RFC3339)
		v.Sunset = &s
	}
	if d := res.DayLength(); d > 0 {
		v.DayLength = d.Round(time.Second).String()
	}
	if event, _, ok := res.Next(); ok {
		v.Next = event
	}

	return v
}
