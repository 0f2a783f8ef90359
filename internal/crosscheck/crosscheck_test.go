package crosscheck

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thurmanmarka/twilight"
)

var phoenix = twilight.Coordinates{Lat: 33.4484, Lon: -112.0740}

func TestCompare_MidLatitude(t *testing.T) {
	dates := []time.Time{
		time.Date(2025, time.March, 20, 19, 0, 0, 0, time.UTC),
		time.Date(2025, time.June, 21, 19, 0, 0, 0, time.UTC),
		time.Date(2025, time.November, 28, 19, 0, 0, 0, time.UTC),
	}

	for _, at := range dates {
		res, err := twilight.CalculateAt(at, phoenix)
		require.NoError(t, err)

		rep := Compare(res, phoenix.Lat, phoenix.Lon)
		assert.Equal(t, res, rep.Result)

		require.True(t, rep.VsSolver.OKRise, "%s: solver dawn", at.Format("2006-01-02"))
		require.True(t, rep.VsSolver.OKSet, "%s: solver dusk", at.Format("2006-01-02"))
		assert.InDelta(t, 0, rep.VsSolver.Rise, 2, "%s: dawn vs solver", at.Format("2006-01-02"))
		assert.InDelta(t, 0, rep.VsSolver.Set, 2, "%s: dusk vs solver", at.Format("2006-01-02"))

		require.True(t, rep.VsSunCalc.OKRise, "%s: suncalc dawn", at.Format("2006-01-02"))
		require.True(t, rep.VsSunCalc.OKSet, "%s: suncalc dusk", at.Format("2006-01-02"))
		assert.InDelta(t, 0, rep.VsSunCalc.Rise, 2, "%s: dawn vs suncalc", at.Format("2006-01-02"))
		assert.InDelta(t, 0, rep.VsSunCalc.Set, 2, "%s: dusk vs suncalc", at.Format("2006-01-02"))

		t.Logf("%s: solver %+.2f/%+.2f min, suncalc %+.2f/%+.2f min",
			at.Format("2006-01-02"),
			rep.VsSolver.Rise, rep.VsSolver.Set, rep.VsSunCalc.Rise, rep.VsSunCalc.Set)
	}
}

func TestCompare_PerpetualHasNoDeltas(t *testing.T) {
	res, err := twilight.CalculateAt(time.Date(2025, time.June, 21, 12, 0, 0, 0, time.UTC), twilight.Coordinates{Lat: 85})
	require.NoError(t, err)
	require.True(t, res.Perpetual())

	rep := Compare(res, 85, 0)
	assert.Equal(t, Delta{}, rep.VsSunCalc)
	assert.Equal(t, Delta{}, rep.VsSolver)
}

func TestStats(t *testing.T) {
	var s Stats
	assert.True(t, math.IsNaN(s.Mean()))

	for _, v := range []float64{2, -1, math.NaN(), 5} {
		s.Add(v)
	}
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, -1.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
	assert.Equal(t, 2.0, s.Mean())
}

func TestReadReference(t *testing.T) {
	const data = `date,dawn,dusk
2025-11-28,06:45,17:47
2025-11-29,06:46:30,17:47
bad-date,06:45,17:47
2025-11-30,6h45,17:47
2025-12-01
`
	days, skipped, err := ReadReference(strings.NewReader(data), time.UTC)
	require.NoError(t, err)

	require.Len(t, days, 2)
	assert.Equal(t, 2, days[0].Line)
	assert.Equal(t, time.Date(2025, time.November, 28, 6, 45, 0, 0, time.UTC), days[0].Dawn)
	assert.Equal(t, time.Date(2025, time.November, 29, 6, 46, 30, 0, time.UTC), days[1].Dawn)

	require.Len(t, skipped, 3)
	var rowErr *RowError
	require.ErrorAs(t, skipped[0], &rowErr)
	assert.Equal(t, 4, rowErr.Line)
}

func TestReadReference_Empty(t *testing.T) {
	_, _, err := ReadReference(strings.NewReader(""), time.UTC)
	require.ErrorIs(t, err, ErrEmptyReference)
}

func TestProfile(t *testing.T) {
	locPHX, err := time.LoadLocation("America/Phoenix")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	// Civil dawn/dusk for Phoenix from an online twilight calculator.
	days, skipped, err := ReadReference(strings.NewReader("2025-11-28,06:45,17:47\n"), locPHX)
	require.NoError(t, err)
	require.Empty(t, skipped)

	sum, err := Profile(days, phoenix)
	require.NoError(t, err)

	require.Len(t, sum.Rows, 1)
	assert.Zero(t, sum.Perpetual)
	assert.Equal(t, 1, sum.Rise.Count)
	assert.LessOrEqual(t, sum.Rise.Max, 4.0)
	assert.LessOrEqual(t, sum.Set.Max, 4.0)
	assert.Equal(t, 1, sum.SolverRise.Count)
	assert.Equal(t, 1, sum.SunCalcSet.Count)
}

func TestProfile_PerpetualRows(t *testing.T) {
	days := []ReferenceDay{{
		Line: 1,
		Date: time.Date(2025, time.December, 21, 0, 0, 0, 0, time.UTC),
		Dawn: time.Date(2025, time.December, 21, 9, 0, 0, 0, time.UTC),
		Dusk: time.Date(2025, time.December, 21, 15, 0, 0, 0, time.UTC),
	}}

	sum, err := Profile(days, twilight.Coordinates{Lat: 85, Lon: 0})
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Perpetual)
	assert.Zero(t, sum.Rise.Count)
	assert.True(t, math.IsNaN(sum.Rows[0].RiseErr))
}

func TestProfile_InvalidCoordinates(t *testing.T) {
	days := []ReferenceDay{{Date: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)}}

	_, err := Profile(days, twilight.Coordinates{Lat: 123})
	require.ErrorIs(t, err, twilight.ErrInvalidLatitude)
}
