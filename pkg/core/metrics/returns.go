// Package metrics derives the full investment and operational metric
// set from a computed YearlyStatements. All calculators here are pure
// functions over the statement arrays; none mutate their input.
package metrics

import "math"

const (
	irrLowerBound = -0.99
	irrUpperBound = 10.0
	irrScanStep   = 0.01
	irrMaxIter    = 200
	irrEpsilon    = 1e-7
)

// NPV discounts a cash-flow series at the given rate.
//
// FORMULA: NPV = Σ CF_t / (1 + rate)^t, t = 0..N
//
// Year 0 is the initial outlay (typically negative) and is not
// discounted, so NPV(0, cfs) == Σ cfs.
func NPV(rate float64, cashflows []float64) float64 {
	var npv float64
	for t, cf := range cashflows {
		npv += cf / math.Pow(1+rate, float64(t))
	}
	return npv
}

// CumulativeNPV returns the running discounted total per year.
func CumulativeNPV(rate float64, cashflows []float64) []float64 {
	out := make([]float64, len(cashflows))
	var cum float64
	for t, cf := range cashflows {
		cum += cf / math.Pow(1+rate, float64(t))
		out[t] = cum
	}
	return out
}

// IRR finds the rate at which NPV is zero, by bisection over a bounded
// domain (-99% to +1000%). Returns nil when the series has no sign
// change, no bracketing interval exists in the domain, or the search
// fails to converge within the iteration budget. Never panics.
func IRR(cashflows []float64) *float64 {
	if !hasSignChange(cashflows) {
		return nil
	}

	// Scan for a bracketing interval: NPV is not monotonic for
	// arbitrary sign patterns, so bisection needs an explicit bracket.
	lo, hi := irrLowerBound, irrLowerBound
	fLo := NPV(lo, cashflows)
	found := false
	for r := irrLowerBound + irrScanStep; r <= irrUpperBound; r += irrScanStep {
		fR := NPV(r, cashflows)
		if fLo*fR <= 0 {
			hi = r
			found = true
			break
		}
		lo, fLo = r, fR
	}
	if !found {
		return nil
	}

	for i := 0; i < irrMaxIter; i++ {
		mid := (lo + hi) / 2
		fMid := NPV(mid, cashflows)
		if math.Abs(fMid) < irrEpsilon {
			return &mid
		}
		if fLo*fMid < 0 {
			hi = mid
		} else {
			lo, fLo = mid, fMid
		}
	}

	mid := (lo + hi) / 2
	if math.Abs(NPV(mid, cashflows)) < 1e-4 {
		return &mid
	}
	return nil
}

// MIRR combines a finance rate (cost of negative flows) with a
// reinvestment rate (growth of positive flows) into a single modified
// rate.
//
// FORMULA: MIRR = (FV_pos / -PV_neg)^(1/N) - 1
//
// Where FV_pos compounds positive flows to year N at the reinvestment
// rate and PV_neg discounts negative flows to year 0 at the finance
// rate. Returns nil when the series lacks either a positive or a
// negative flow, or spans fewer than two years.
func MIRR(cashflows []float64, financeRate, reinvestRate float64) *float64 {
	n := len(cashflows) - 1
	if n < 1 {
		return nil
	}

	var fvPositive, pvNegative float64
	for t, cf := range cashflows {
		if cf > 0 {
			fvPositive += cf * math.Pow(1+reinvestRate, float64(n-t))
		} else if cf < 0 {
			pvNegative += cf / math.Pow(1+financeRate, float64(t))
		}
	}
	if fvPositive == 0 || pvNegative == 0 {
		return nil
	}

	mirr := math.Pow(fvPositive/-pvNegative, 1/float64(n)) - 1
	if math.IsNaN(mirr) || math.IsInf(mirr, 0) {
		return nil
	}
	return &mirr
}

// Payback returns the first year index at which the cumulative cash
// flow turns non-negative, or nil when it never does within the
// horizon.
func Payback(cashflows []float64) *int {
	var cum float64
	for t, cf := range cashflows {
		cum += cf
		if cum >= 0 {
			year := t
			return &year
		}
	}
	return nil
}

// DiscountedPayback is Payback over discounted flows.
func DiscountedPayback(rate float64, cashflows []float64) *int {
	var cum float64
	for t, cf := range cashflows {
		cum += cf / math.Pow(1+rate, float64(t))
		if cum >= 0 {
			year := t
			return &year
		}
	}
	return nil
}

func hasSignChange(cashflows []float64) bool {
	var hasPos, hasNeg bool
	for _, cf := range cashflows {
		if cf > 0 {
			hasPos = true
		} else if cf < 0 {
			hasNeg = true
		}
	}
	return hasPos && hasNeg
}

// safeDiv guards ratio metrics: a zero denominator yields nil rather
// than NaN/Infinity.
func safeDiv(num, den float64) *float64 {
	if den == 0 {
		return nil
	}
	v := num / den
	return &v
}
