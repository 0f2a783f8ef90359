package sun

import (
	"math"

	"github.com/thurmanmarka/twilight/internal/timeutil"
)

// CivilAltitude is the altitude of the Sun's center (radians, about -6°)
// that bounds civil twilight.
const CivilAltitude = -0.104719755

// j0 is the fixed offset of solar transit from the start of a J2000 day.
const j0 = 0.0009

// Kind classifies a day by whether the Sun crosses the target altitude.
type Kind int

const (
	// Crossing means the Sun rises above and sets below the target altitude.
	Crossing Kind = iota
	// AlwaysBelow means the Sun stays below the target altitude all day (polar night).
	AlwaysBelow
	// AlwaysAbove means the Sun stays above the target altitude all day (polar day).
	AlwaysAbove
)

func (k Kind) String() string {
	switch k {
	case Crossing:
		return "crossing"
	case AlwaysBelow:
		return "always-below"
	case AlwaysAbove:
		return "always-above"
	default:
		return "unknown"
	}
}

// Events is the outcome of the twilight pipeline for one instant.
type Events struct {
	Position Position
	Transit  float64 // solar transit, days since J2000
	CosH     float64 // cosine of the hour angle at the target altitude
	HalfDay  float64 // hour angle as a fraction of a day; 0 unless Kind == Crossing
	Kind     Kind

	precision Precision
}

// Sunrise returns the upward crossing in days since J2000.
func (e Events) Sunrise() float64 {
	return e.precision.fix(e.Transit - e.HalfDay)
}

// Sunset returns the downward crossing in days since J2000.
func (e Events) Sunset() float64 {
	return e.precision.fix(e.Transit + e.HalfDay)
}

// Transit returns the time of solar transit nearest to days (days since
// J2000) for an observer at lon degrees east.
func Transit(days, lon float64, pos Position, p Precision) float64 {
	arcLongitude := p.fix(-lon / 360.0)
	n := timeutil.RoundHalfUp(p.fix(days - j0 - arcLongitude))

	return p.fix(n + j0 + arcLongitude +
		p.fix(0.0053*math.Sin(pos.MeanAnomaly)) +
		p.fix(-0.0069*math.Sin(2*pos.EclipticLongitude)))
}

// CosHourAngle returns cos H for the Sun at declination dec crossing altitude
// alt, seen from latitude latRad. All angles are in radians.
func CosHourAngle(latRad, dec, alt float64, p Precision) (float64, Kind) {
	num := p.fix(math.Sin(alt) - p.fix(math.Sin(latRad)*math.Sin(dec)))
	den := p.fix(math.Cos(latRad) * math.Cos(dec))
	return classify(num, den, p)
}

// classify divides num by den and maps the ratio onto a Kind. cos(lat) is
// never negative for a valid latitude, so a denominator <= 0 can only come
// from an observer at a pole (or rounding of 90° in single precision) and is
// decided by the sign of num alone.
func classify(num, den float64, p Precision) (float64, Kind) {
	if den <= 0 || math.IsNaN(num) || math.IsNaN(den) {
		if num > 0 {
			return 1, AlwaysBelow
		}
		return -1, AlwaysAbove
	}

	cosH := p.fix(num / den)
	switch {
	case cosH >= 1:
		return cosH, AlwaysBelow
	case cosH <= -1:
		return cosH, AlwaysAbove
	}
	return cosH, Crossing
}

// Civil runs the closed-form civil twilight model for days since J2000 at
// (lat, lon) degrees.
func Civil(days, lat, lon float64, p Precision) Events {
	days = p.fix(days)
	pos := PositionAt(days, p)
	transit := Transit(days, lon, pos, p)

	latRad := p.fix(timeutil.Deg2Rad(lat))
	cosH, kind := CosHourAngle(latRad, pos.Declination, CivilAltitude, p)

	ev := Events{
		Position: pos,
		Transit:  transit,
		CosH:     cosH,
		Kind:     kind,

		precision: p,
	}
	if kind == Crossing {
		ev.HalfDay = p.fix(math.Acos(cosH) / (2 * math.Pi))
	}
	return ev
}

// Altitude returns the Sun's geometric altitude in degrees at days since
// J2000 for an observer at (lat, lon) degrees, using the same position and
// transit model as Civil. The hour angle is measured from the transit
// nearest to days.
func Altitude(days, lat, lon float64) float64 {
	pos := PositionAt(days, Double)
	transit := Transit(days, lon, pos, Double)

	h := 2 * math.Pi * (days - transit)
	latRad := timeutil.Deg2Rad(lat)

	sinAlt := float64(math.Sin(latRad)*math.Sin(pos.Declination)) +
		float64(math.Cos(latRad)*math.Cos(pos.Declination)*math.Cos(h))

	// Clamp to handle numerical noise
	if sinAlt > 1 {
		sinAlt = 1
	} else if sinAlt < -1 {
		sinAlt = -1
	}
	return timeutil.Rad2Deg(math.Asin(sinAlt))
}
