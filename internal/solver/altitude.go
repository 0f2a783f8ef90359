package solver

// AltitudeFunc returns the Sun's altitude in degrees at ms milliseconds
// since the Unix epoch.
type AltitudeFunc func(ms int64) float64

// Direction describes whether we are looking for a rising or setting crossing.
type Direction int

const (
	// Up means altitude is increasing through the target value (dawn).
	Up Direction = iota
	// Down means altitude is decreasing through the target value (dusk).
	Down
)

// Result holds the output of an altitude crossing search.
type Result struct {
	Time int64 // epoch milliseconds of the crossing
	OK   bool  // true if a crossing was found
}

// FindCrossing searches [start, end] (epoch ms) for the first instant where f
// crosses targetDeg in direction dir. It samples steps points to bracket a
// sign change and then bisects the bracket down to tolMillis.
func FindCrossing(f AltitudeFunc, start, end int64, targetDeg float64, dir Direction, steps int, tolMillis int64) Result {
	if start >= end {
		return Result{}
	}
	if steps < 2 {
		steps = 2
	}
	if tolMillis < 1 {
		tolMillis = 1
	}

	interval := (end - start) / int64(steps-1)
	if interval < 1 {
		interval = 1
	}

	prevT := start
	prev := f(prevT) - targetDeg

	for t := start + interval; prevT < end; t += interval {
		// Integer division leaves a remainder; the last sample is end itself.
		if end-t < interval {
			t = end
		}
		cur := f(t) - targetDeg

		if crosses(prev, cur, dir) {
			return bisect(f, prevT, t, targetDeg, dir, tolMillis)
		}

		prevT, prev = t, cur
	}

	return Result{}
}

func crosses(a1, a2 float64, dir Direction) bool {
	switch dir {
	case Up:
		return a1 < 0 && a2 >= 0
	case Down:
		return a1 > 0 && a2 <= 0
	default:
		return a1*a2 <= 0
	}
}

func bisect(f AltitudeFunc, a, b int64, targetDeg float64, dir Direction, tolMillis int64) Result {
	altA := f(a) - targetDeg
	altB := f(b) - targetDeg

	if !crosses(altA, altB, dir) {
		return Result{}
	}

	for b-a > tolMillis {
		mid := a + (b-a)/2
		altM := f(mid) - targetDeg

		if crosses(altA, altM, dir) {
			b = mid
		} else {
			a = mid
			altA = altM
		}
	}

	return Result{
		Time: a + (b-a)/2,
		OK:   true,
	}
}
