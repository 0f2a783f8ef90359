package sun

import (
	"math"
)

// Precision selects the floating-point profile used by every step of the
// solar pipeline. A profile is applied to all intermediates; the two are
// never mixed within one computation.
type Precision int

const (
	// Double keeps every intermediate in float64.
	Double Precision = iota
	// Single rounds every intermediate to float32 before it feeds the next step.
	Single
)

// fix rounds x to the profile's precision. The explicit float64
// conversion also forbids the compiler from fusing x into a surrounding
// multiply-add, so Double results are identical on every GOARCH.
func (p Precision) fix(x float64) float64 {
	if p == Single {
		return float64(float32(x))
	}
	return float64(x)
}

// Orbital elements of the simplified solar model, in radians unless noted.
const (
	meanAnomalyAtJ2000 = 6.240059968
	meanAnomalyPerDay  = 0.01720197

	// Equation of Center coefficients.
	c1 = 0.0334196
	c2 = 0.000349066
	c3 = 0.000005236

	// Argument of perihelion.
	perihelion = 1.796593063

	// Obliquity is the mean obliquity of the ecliptic.
	Obliquity = 0.40927971
)

// Position is the Sun's place on the ecliptic for a given day.
type Position struct {
	MeanAnomaly       float64 // radians
	TrueAnomaly       float64 // radians
	EclipticLongitude float64 // radians
	Declination       float64 // radians
}

// PositionAt returns the Sun's position for days since J2000.0.
//
//	M = 6.240059968 + 0.01720197 d
//	v = M + C1 sin M + C2 sin 2M + C3 sin 3M
//	L = v + 1.796593063 + pi
//	dec = asin(sin L sin eps)
func PositionAt(days float64, p Precision) Position {
	days = p.fix(days)

	m := p.fix(meanAnomalyAtJ2000 + p.fix(days*meanAnomalyPerDay))

	v := p.fix(m +
		p.fix(c1*math.Sin(m)) +
		p.fix(c2*math.Sin(2*m)) +
		p.fix(c3*math.Sin(3*m)))

	lng := p.fix(v + perihelion + math.Pi)

	dec := p.fix(math.Asin(p.fix(math.Sin(lng) * math.Sin(Obliquity))))

	return Position{
		MeanAnomaly:       m,
		TrueAnomaly:       v,
		EclipticLongitude: lng,
		Declination:       dec,
	}
}
