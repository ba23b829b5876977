package pattern

import "math"

// GrowthPattern regenerates a per-year array from a new first-year
// value while preserving the base pattern's year-over-year ratios.
//
// FORMULA: r[0] = 1, r[i] = |base[i]| / |base[i-1]|
//
//	new[0] = v0, new[i] = new[i-1] * r[i]
//
// A zero prior-year base yields a neutral ratio of 1 rather than a
// division error. Round-trip property: GrowthPattern(base, base[0])
// reproduces base when all entries share base[0]'s sign.
func GrowthPattern(base []float64, firstYear float64) []float64 {
	out := make([]float64, len(base))
	if len(base) == 0 {
		return out
	}

	out[0] = firstYear
	for i := 1; i < len(base); i++ {
		ratio := 1.0
		if base[i-1] != 0 {
			ratio = math.Abs(base[i]) / math.Abs(base[i-1])
		}
		out[i] = out[i-1] * ratio
	}
	return out
}

// ProportionalPattern regenerates a per-year array from a new total
// while preserving each year's share of the base total. Zero entries
// stay zero, so a budget concentrated in year 1 stays concentrated.
//
// FORMULA: scale = T / Σ|base[i]|, new[i] = |base[i]| * scale
//
// A zero base total broadcasts the new total evenly across all years
// so the slider still has an effect on an empty base case.
func ProportionalPattern(base []float64, total float64) []float64 {
	out := make([]float64, len(base))
	if len(base) == 0 {
		return out
	}

	baseTotal := 0.0
	for _, v := range base {
		baseTotal += math.Abs(v)
	}

	if baseTotal == 0 {
		even := total / float64(len(base))
		for i := range out {
			out[i] = even
		}
		return out
	}

	scale := total / baseTotal
	for i, v := range base {
		out[i] = math.Abs(v) * scale
	}
	return out
}

// Reconstruct regenerates the array for a variable key from a single
// slider scalar, selecting growth or proportional mode from the policy
// table and reapplying the negative sign convention for cost keys.
func Reconstruct(key string, base []float64, scalar float64) []float64 {
	var out []float64
	switch ModeFor(key) {
	case Proportional:
		out = ProportionalPattern(base, scalar)
	default:
		out = GrowthPattern(base, scalar)
	}

	if IsCostKey(key) {
		for i, v := range out {
			out[i] = -math.Abs(v)
		}
	}
	return out
}
