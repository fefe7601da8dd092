package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiredPayment_RoundTrip(t *testing.T) {
	// The payment returned by RequiredPayment, compounded forward alongside
	// the principal, must land on the target within rounding tolerance.
	cases := []struct {
		name      string
		target    float64
		principal float64
		rate      float64
		months    int
	}{
		{"two year horizon", 100000, 25000, 0.10 / 12, 24},
		{"long horizon", 500000, 10000, 0.08 / 12, 240},
		{"zero rate", 12000, 0, 0, 12},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payment := RequiredPayment(tc.target, tc.principal, tc.rate, tc.months)
			require.Greater(t, payment, 0.0)

			final := CompoundFutureValue(tc.principal, tc.rate, tc.months) +
				AnnuityFutureValue(payment, tc.rate, tc.months)
			assert.InDelta(t, tc.target, final, 0.01)
		})
	}
}

func TestRequiredPayment_PrincipalAlreadySufficient(t *testing.T) {
	// 50k compounding at 10%/yr for 10 years far exceeds 80k.
	payment := RequiredPayment(80000, 50000, 0.10/12, 120)
	assert.Equal(t, 0.0, payment)
}

func TestRequiredPayment_NoPeriods(t *testing.T) {
	assert.Equal(t, 0.0, RequiredPayment(100000, 0, 0.05/12, 0))
}

func TestAnnuityFutureValue_ZeroRate(t *testing.T) {
	assert.Equal(t, 1200.0, AnnuityFutureValue(100, 0, 12))
}

func TestMonthsToTarget(t *testing.T) {
	// 1000/month at 10%/yr from 25k: reaches 100k well inside 50 years.
	months, ok := MonthsToTarget(25000, 100000, 1000, 0.10/12, 600)
	require.True(t, ok)
	assert.Greater(t, months, 24)
	assert.Less(t, months, 600)
}

func TestMonthsToTarget_NoContribution(t *testing.T) {
	_, ok := MonthsToTarget(25000, 100000, 0, 0.10/12, 600)
	assert.False(t, ok)
}

func TestMonthsToTarget_AlreadyThere(t *testing.T) {
	months, ok := MonthsToTarget(100000, 100000, 100, 0, 600)
	require.True(t, ok)
	assert.Equal(t, 0, months)
}

func TestMonthsToTarget_HorizonCap(t *testing.T) {
	// 1/month with no return never reaches 1M within the cap.
	_, ok := MonthsToTarget(0, 1000000, 1, 0, 600)
	assert.False(t, ok)
}

func TestStdDev(t *testing.T) {
	assert.Equal(t, 0.0, StdDev(nil))
	assert.Equal(t, 0.0, StdDev([]float64{5}))
	assert.InDelta(t, 1.0, StdDev([]float64{1, 2, 3}), 1e-9)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 10.0, Clamp(3, 10, 95))
	assert.Equal(t, 95.0, Clamp(120, 10, 95))
	assert.Equal(t, 42.0, Clamp(42, 10, 95))
}
