// Package distributions provides unified access to the statistical
// distributions the analysis needs. It replaces the original tool's
// write-a-formula-into-a-cell evaluation trick with direct calls into
// gonum's distribution implementations.
package distributions

import (
	"goanova/domain/core"

	"gonum.org/v1/gonum/stat/distuv"
)

// Distributions wraps the F and standard-normal distributions with
// degrees-of-freedom guards so callers never receive NaN.
type Distributions struct{}

// New creates a new distributions utility
func New() *Distributions {
	return &Distributions{}
}

// FSurvival computes the right-tail probability P(F > f) for the F
// distribution with (df1, df2) degrees of freedom.
func (d *Distributions) FSurvival(f float64, df1, df2 int) (float64, error) {
	if df1 <= 0 || df2 <= 0 {
		return 0, core.NewInvalidDFError(float64(df1), float64(df2))
	}
	if f < 0 {
		return 1.0, nil
	}
	fDist := distuv.F{D1: float64(df1), D2: float64(df2)}
	return 1 - fDist.CDF(f), nil
}

// FQuantile computes the value x with P(F <= x) = p for the F
// distribution with (df1, df2) degrees of freedom.
func (d *Distributions) FQuantile(p float64, df1, df2 int) (float64, error) {
	if df1 <= 0 || df2 <= 0 {
		return 0, core.NewInvalidDFError(float64(df1), float64(df2))
	}
	if p <= 0 || p >= 1 {
		return 0, core.ErrInvalidProbability
	}
	fDist := distuv.F{D1: float64(df1), D2: float64(df2)}
	return fDist.Quantile(p), nil
}

// FCritical computes the right-tail critical value at significance alpha:
// the x with P(F > x) = alpha.
func (d *Distributions) FCritical(alpha float64, df1, df2 int) (float64, error) {
	return d.FQuantile(1-alpha, df1, df2)
}

// NormalQuantile computes the standard-normal inverse CDF (probit)
func (d *Distributions) NormalQuantile(p float64) (float64, error) {
	if p <= 0 || p >= 1 {
		return 0, core.ErrInvalidProbability
	}
	return distuv.UnitNormal.Quantile(p), nil
}

// NormalCDF computes the standard-normal cumulative distribution function
func (d *Distributions) NormalCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}
