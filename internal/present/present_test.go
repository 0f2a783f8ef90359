package present

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thurmanmarka/twilight"
)

const j2000 int64 = 946728000000

func equatorAtJ2000(t *testing.T) twilight.Result {
	t.Helper()
	res, err := twilight.Calculate(j2000, 0, 0)
	require.NoError(t, err)
	return res
}

func TestTexts(t *testing.T) {
	res := equatorAtJ2000(t)

	assert.Equal(t, "day starts at 05:38", SunriseText(res, time.UTC, ""))
	assert.Equal(t, "night starts at 18:30", SunsetText(res, nil, ClockLayout))

	plus2 := time.FixedZone("EET", 2*60*60)
	assert.Equal(t, "day starts at 07:38:23", SunriseText(res, plus2, "15:04:05"))
}

func TestTexts_NeverEnds(t *testing.T) {
	res := twilight.Result{Time: j2000, Sunrise: twilight.NoTransition, Sunset: twilight.NoTransition, IsDay: true}

	assert.Equal(t, NeverEnds, SunriseText(res, time.UTC, ""))
	assert.Equal(t, NeverEnds, SunsetText(res, time.UTC, ""))
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, equatorAtJ2000(t), twilight.Coordinates{}, nil)
	require.NoError(t, err)

	want := "location: lat=0.000000 lon=0.000000\n" +
		"time: 2000-01-01T12:00:00Z (UTC)\n" +
		"day starts at 05:38\n" +
		"night starts at 18:30\n" +
		"is it day? true\n"
	assert.Equal(t, want, buf.String())
}

func TestNewView(t *testing.T) {
	res := equatorAtJ2000(t)
	v := NewView(res, twilight.Coordinates{}, twilight.PrecisionSingle, nil)

	assert.Equal(t, "single", v.Precision)
	assert.Equal(t, "UTC", v.Timezone)
	assert.Equal(t, "2000-01-01T12:00:00Z", v.Time)
	require.NotNil(t, v.Sunrise)
	require.NotNil(t, v.Sunset)
	assert.Equal(t, "2000-01-01T05:38:23Z", *v.Sunrise)
	assert.Equal(t, "2000-01-01T18:30:34Z", *v.Sunset)
	assert.Equal(t, "day", v.State)
	assert.Equal(t, "sunset", v.Next)
	assert.NotEmpty(t, v.DayLength)
}

func TestNewView_PolarNight(t *testing.T) {
	res := twilight.Result{Time: j2000, Sunrise: twilight.NoTransition, Sunset: twilight.NoTransition}
	v := NewView(res, twilight.Coordinates{Lat: 89}, twilight.PrecisionDouble, time.UTC)

	raw, err := json.Marshal(v)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))

	assert.Nil(t, got["sunrise"])
	assert.Nil(t, got["sunset"])
	assert.Equal(t, float64(-1), got["sunrise_ms"])
	assert.Equal(t, "polar night", got["state"])
	assert.NotContains(t, got, "day_length")
	assert.NotContains(t, got, "next")
}
