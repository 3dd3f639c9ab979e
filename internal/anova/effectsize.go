package anova

import (
	"math"

	"goanova/domain/anova"
)

// EffectSizeIntervals holds the confidence intervals for the two effect
// sizes of one tested source, clamped to [0,1].
type EffectSizeIntervals struct {
	Eta   anova.Interval `json:"eta_ci"`
	Omega anova.Interval `json:"omega_ci"`
}

// EffectSizeCIs computes confidence intervals for eta-squared (Smithson
// 2003) and omega-squared (Fidler & Thompson 2001) from the central F
// distribution's critical values at the interval's tail probabilities.
//
// Both approximations use central-F critical values rather than a
// noncentral-F inversion. For omega-squared this is a known accuracy
// limitation at small and moderate effects, kept deliberately so output
// matches the original method's intent.
func (e *Engine) EffectSizeCIs(f float64, df1, df2 int, level float64) (EffectSizeIntervals, error) {
	tail := (1 - level) / 2

	lowerF, err := e.dist.FQuantile(tail, df1, df2)
	if err != nil {
		return EffectSizeIntervals{}, err
	}
	upperF, err := e.dist.FQuantile(1-tail, df1, df2)
	if err != nil {
		return EffectSizeIntervals{}, err
	}

	d1 := float64(df1)
	d2 := float64(df2)

	etaLow := (d1*lowerF - d1) / (d1*lowerF + d2)
	etaHigh := (d1*upperF - d1) / (d1*upperF + d2)

	omegaLow := d1 * (lowerF - 1) / (d1*lowerF + d2 + 1)
	omegaHigh := d1 * (upperF - 1) / (d1*upperF + d2 + 1)

	return EffectSizeIntervals{
		Eta:   clampInterval(etaLow, etaHigh),
		Omega: clampInterval(omegaLow, omegaHigh),
	}, nil
}

// clampInterval bounds both ends to [0,1] and keeps low <= high
func clampInterval(low, high float64) anova.Interval {
	low = math.Max(0, math.Min(1, low))
	high = math.Max(0, math.Min(1, high))
	if low > high {
		low, high = high, low
	}
	return anova.Interval{Low: low, High: high}
}
