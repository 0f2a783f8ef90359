// Package crosscheck compares closed-form twilight results against
// independent references: the suncalc library's civil dawn/dusk and a
// numerical bisection on the solar altitude curve.
package crosscheck

import (
	"math"
	"time"

	"github.com/sixdouglas/suncalc"

	"github.com/thurmanmarka/twilight"
	"github.com/thurmanmarka/twilight/internal/solver"
	"github.com/thurmanmarka/twilight/internal/sun"
	"github.com/thurmanmarka/twilight/internal/timeutil"
)

const (
	// searchWindow is how far either side of a closed-form event the
	// solver looks for the matching crossing.
	searchWindow = 2 * time.Hour
	searchSteps  = 49 // every 5 minutes
	searchTol    = time.Second
)

// Reference holds dawn/dusk from one independent source, in epoch ms.
type Reference struct {
	Dawn   int64
	Dusk   int64
	OKDawn bool
	OKDusk bool
}

// Delta holds signed differences in minutes (ours - reference).
type Delta struct {
	Rise   float64
	Set    float64
	OKRise bool
	OKSet  bool
}

// Report is the outcome of cross-checking a single result.
type Report struct {
	Result  twilight.Result
	SunCalc Reference
	Solver  Reference

	VsSunCalc Delta
	VsSolver  Delta
}

// Compare cross-checks res, which must have been computed at (lat, lon).
// Perpetual results are returned with no deltas.
func Compare(res twilight.Result, lat, lon float64) Report {
	rep := Report{Result: res}
	if res.Perpetual() {
		return rep
	}

	rep.SunCalc = SunCalcReference(res, lat, lon)
	rep.Solver = SolverReference(res, lat, lon)
	rep.VsSunCalc = delta(res, rep.SunCalc)
	rep.VsSolver = delta(res, rep.Solver)
	return rep
}

// SunCalcReference returns suncalc's civil dawn and dusk for the solar day
// of res. suncalc picks its day from the nearest transit, so it is queried
// at res's own transit.
func SunCalcReference(res twilight.Result, lat, lon float64) Reference {
	noon := timeutil.FromMillis(res.Sunrise + (res.Sunset-res.Sunrise)/2)
	times := suncalc.GetTimes(noon, lat, lon)

	var ref Reference
	if dawn, ok := times[suncalc.Dawn]; ok && valid(dawn.Value) {
		ref.Dawn = timeutil.ToMillis(dawn.Value)
		ref.OKDawn = true
	}
	if dusk, ok := times[suncalc.Dusk]; ok && valid(dusk.Value) {
		ref.Dusk = timeutil.ToMillis(dusk.Value)
		ref.OKDusk = true
	}
	return ref
}

// SolverReference locates the -6° crossings numerically around the
// closed-form sunrise and sunset of res.
func SolverReference(res twilight.Result, lat, lon float64) Reference {
	alt := func(ms int64) float64 {
		return sun.Altitude(timeutil.DaysSince2000(ms), lat, lon)
	}
	target := timeutil.Rad2Deg(sun.CivilAltitude)
	window := searchWindow.Milliseconds()
	tol := searchTol.Milliseconds()

	var ref Reference

	up := solver.FindCrossing(alt, res.Sunrise-window, res.Sunrise+window, target, solver.Up, searchSteps, tol)
	if up.OK {
		ref.Dawn, ref.OKDawn = up.Time, true
	}

	down := solver.FindCrossing(alt, res.Sunset-window, res.Sunset+window, target, solver.Down, searchSteps, tol)
	if down.OK {
		ref.Dusk, ref.OKDusk = down.Time, true
	}

	return ref
}

func delta(res twilight.Result, ref Reference) Delta {
	var d Delta
	if ref.OKDawn {
		d.Rise = minutes(res.Sunrise - ref.Dawn)
		d.OKRise = true
	}
	if ref.OKDusk {
		d.Set = minutes(res.Sunset - ref.Dusk)
		d.OKSet = true
	}
	return d
}

func minutes(ms int64) float64 {
	return float64(ms) / float64(time.Minute.Milliseconds())
}

// valid rejects the zero time and the garbage instants suncalc produces
// from NaN hour angles at high latitudes.
func valid(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	y := t.Year()
	return y > 1000 && y < 3000
}

// Stats accumulates minute errors, signed or absolute.
type Stats struct {
	Count int
	Sum   float64
	Min   float64
	Max   float64
}

// Add records v; NaN values are ignored.
func (s *Stats) Add(v float64) {
	if math.IsNaN(v) {
		return
	}
	if s.Count == 0 {
		s.Min, s.Max = v, v
	} else {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Sum += v
	s.Count++
}

// Mean returns the average of recorded values, or NaN when empty.
func (s *Stats) Mean() float64 {
	if s.Count == 0 {
		return math.NaN()
	}
	return s.Sum / float64(s.Count)
}
