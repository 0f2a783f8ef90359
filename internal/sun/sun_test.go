package sun

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thurmanmarka/twilight/internal/timeutil"
)

func TestPositionAt_J2000(t *testing.T) {
	pos := PositionAt(0, Double)

	assert.Equal(t, meanAnomalyAtJ2000, pos.MeanAnomaly)
	// Early January: the Sun is near ecliptic longitude 280° and
	// declination -23°.
	lng := timeutil.Rad2Deg(math.Mod(pos.EclipticLongitude, 2*math.Pi))
	assert.InDelta(t, 280.4, lng, 0.2)
	assert.InDelta(t, -23.0, timeutil.Rad2Deg(pos.Declination), 0.2)
}

func TestPositionAt_DeclinationBounds(t *testing.T) {
	for d := -400.0; d < 400; d += 0.5 {
		for _, p := range []Precision{Double, Single} {
			dec := PositionAt(d, p).Declination
			require.LessOrEqual(t, math.Abs(dec), Obliquity+1e-6, "days=%v", d)
		}
	}
}

func TestSinglePrecisionRoundsIntermediates(t *testing.T) {
	pos := PositionAt(9500.123456, Single)

	for _, v := range []float64{pos.MeanAnomaly, pos.TrueAnomaly, pos.EclipticLongitude, pos.Declination} {
		assert.Equal(t, v, float64(float32(v)))
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		num, den float64
		want     Kind
	}{
		{"crossing", -0.1, 0.5, Crossing},
		{"exactly one", 0.5, 0.5, AlwaysBelow},
		{"exactly minus one", -0.5, 0.5, AlwaysAbove},
		{"beyond one", 2, 0.5, AlwaysBelow},
		{"beyond minus one", -2, 0.5, AlwaysAbove},
		{"pole, positive numerator", 0.3, 0, AlwaysBelow},
		{"pole, negative numerator", -0.3, 0, AlwaysAbove},
		{"pole, zero numerator", 0, 0, AlwaysAbove},
		{"pole rounded past 90°", -0.3, -4e-8, AlwaysAbove},
		{"NaN numerator", math.NaN(), 0.5, AlwaysAbove},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cosH, kind := classify(tt.num, tt.den, Double)
			assert.Equal(t, tt.want, kind)
			assert.False(t, math.IsNaN(cosH))
			assert.False(t, math.IsInf(cosH, 0))
		})
	}
}

func TestCivil_PolesNeverNaN(t *testing.T) {
	for _, lat := range []float64{-90, 90} {
		for d := 9000.0; d < 9400; d += 3 {
			for _, p := range []Precision{Double, Single} {
				ev := Civil(d, lat, 0, p)
				require.NotEqual(t, Crossing, ev.Kind, "lat=%v days=%v", lat, d)
				require.False(t, math.IsNaN(ev.CosH))
				require.Zero(t, ev.HalfDay)
			}
		}
	}
}

func TestCivil_TransitNearQuery(t *testing.T) {
	for _, lon := range []float64{-180, -97.5, 0, 45, 180} {
		for d := 9000.0; d < 9010; d += 0.1 {
			ev := Civil(d, 30, lon, Double)
			assert.InDelta(t, d, ev.Transit, 0.52, "lon=%v days=%v", lon, d)
		}
	}
}

func TestAltitude_MatchesCivilCrossings(t *testing.T) {
	target := timeutil.Rad2Deg(CivilAltitude)

	for _, lat := range []float64{-40, 0, 33.4484, 55} {
		ev := Civil(9462.3, lat, -112.074, Double)
		require.Equal(t, Crossing, ev.Kind)

		// The closed form fixes the declination at the query instant,
		// so the altitude curve only matches to within a few tenths of a
		// degree at the transitions.
		assert.InDelta(t, target, Altitude(ev.Sunrise(), lat, -112.074), 0.4, "lat=%v sunrise", lat)
		assert.InDelta(t, target, Altitude(ev.Sunset(), lat, -112.074), 0.4, "lat=%v sunset", lat)

		// And the Sun culminates at transit.
		noon := Altitude(ev.Transit, lat, -112.074)
		assert.Greater(t, noon, Altitude(ev.Transit-0.05, lat, -112.074))
		assert.Greater(t, noon, Altitude(ev.Transit+0.05, lat, -112.074))
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "crossing", Crossing.String())
	assert.Equal(t, "always-below", AlwaysBelow.String())
	assert.Equal(t, "always-above", AlwaysAbove.String())
	assert.Equal(t, "unknown", Kind(9).String())
}
