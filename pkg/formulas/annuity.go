// Package formulas provides pure financial math used by the goal optimizer.
// All rates are periodic (monthly) decimal rates, e.g. an annual 10% return
// is passed in as 0.10/12.
package formulas

import "math"

// CompoundFutureValue returns the future value of a lump sum after n periods
// at periodic rate r.
func CompoundFutureValue(principal, r float64, n int) float64 {
	if n <= 0 {
		return principal
	}
	return principal * math.Pow(1+r, float64(n))
}

// AnnuityFutureValue returns the future value of an ordinary annuity: equal
// payments made at the end of each of n periods at periodic rate r.
func AnnuityFutureValue(payment, r float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	if r == 0 {
		return payment * float64(n)
	}
	return payment * (math.Pow(1+r, float64(n)) - 1) / r
}

// RequiredPayment solves the ordinary annuity formula for the periodic payment
// that grows principal to target in exactly n periods at periodic rate r.
// Returns 0 when the principal alone already compounds past the target, or
// when n <= 0.
func RequiredPayment(target, principal, r float64, n int) float64 {
	if n <= 0 {
		return 0
	}

	need := target - CompoundFutureValue(principal, r, n)
	if need <= 0 {
		return 0
	}

	if r == 0 {
		return need / float64(n)
	}
	return need / ((math.Pow(1+r, float64(n)) - 1) / r)
}

// MonthsToTarget simulates month-by-month compounding with a fixed periodic
// contribution and returns the number of months until capital reaches target.
// The second return value is false when the target is unreachable: a
// non-positive contribution, a non-positive target, or no convergence within
// maxMonths periods.
func MonthsToTarget(principal, target, contribution, r float64, maxMonths int) (int, bool) {
	if target <= 0 || contribution <= 0 {
		return 0, false
	}
	if principal >= target {
		return 0, true
	}

	capital := principal
	for month := 1; month <= maxMonths; month++ {
		capital = capital*(1+r) + contribution
		if capital >= target {
			return month, true
		}
	}

	return 0, false
}
