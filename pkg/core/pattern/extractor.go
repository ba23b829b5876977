// Package pattern derives canonical per-year arrays from raw stored
// inputs and regenerates them from sensitivity slider scalars while
// preserving the shape of the base case.
package pattern

// YearRow is one raw stored value tagged with its model year.
type YearRow struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// FromYearRows builds a per-year array from year-tagged rows. Years
// absent from the rows default to 0; rows outside the horizon are
// dropped. Never errors.
func FromYearRows(rows []YearRow, years []int) []float64 {
	byYear := make(map[int]float64, len(rows))
	for _, r := range rows {
		byYear[r.Year] = r.Value
	}

	out := make([]float64, len(years))
	for i, y := range years {
		out[i] = byYear[y] // zero when missing
	}
	return out
}

// FromArray right-pads or truncates a stored array to the horizon
// length, filling gaps with 0.
func FromArray(values []float64, years []int) []float64 {
	out := make([]float64, len(years))
	copy(out, values)
	return out
}

// Broadcast applies a single scalar to every horizon year.
func Broadcast(value float64, years []int) []float64 {
	out := make([]float64, len(years))
	for i := range out {
		out[i] = value
	}
	return out
}

// FromValue dispatches on the shape of a raw stored value: year-tagged
// rows, a plain array, or a scalar. Absent data yields a zero-filled
// array (silent default; validate.CheckInputs surfaces the gap as an
// advisory).
func FromValue(raw interface{}, years []int) []float64 {
	switch v := raw.(type) {
	case nil:
		return make([]float64, len(years))
	case []YearRow:
		return FromYearRows(v, years)
	case []float64:
		return FromArray(v, years)
	case float64:
		return Broadcast(v, years)
	case int:
		return Broadcast(float64(v), years)
	case []interface{}:
		// Loose JSON arrays decode as []interface{}; coerce elementwise.
		vals := make([]float64, 0, len(v))
		for _, e := range v {
			if f, ok := asFloat(e); ok {
				vals = append(vals, f)
			} else {
				vals = append(vals, 0)
			}
		}
		return FromArray(vals, years)
	default:
		if f, ok := asFloat(raw); ok {
			return Broadcast(f, years)
		}
		return make([]float64, len(years))
	}
}

// asFloat coerces loose JSON values, including {"value": X} wrappers.
func asFloat(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case map[string]interface{}:
		if inner, ok := v["value"]; ok {
			return asFloat(inner)
		}
	}
	return 0, false
}
