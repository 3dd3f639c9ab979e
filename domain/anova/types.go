package anova

import (
	"fmt"
	"math"

	"goanova/domain/core"
)

// ============================================================================
// CONFIGURATION
// ============================================================================

// Config carries the two knobs the analysis recognizes. It is passed
// explicitly into every stage; there is no global mutable configuration.
type Config struct {
	Alpha           float64 `json:"alpha"`            // significance threshold, in (0,1)
	ConfidenceLevel float64 `json:"confidence_level"` // CI coverage for effect sizes, in (0,1)
}

// DefaultConfig returns the standard thresholds (alpha 0.05, 95% CIs)
func DefaultConfig() Config {
	return Config{Alpha: 0.05, ConfidenceLevel: 0.95}
}

// Validate checks both thresholds are proper probabilities
func (c Config) Validate() error {
	if c.Alpha <= 0 || c.Alpha >= 1 {
		return fmt.Errorf("%w: alpha must be in (0,1), got %g", core.ErrInvalidConfig, c.Alpha)
	}
	if c.ConfidenceLevel <= 0 || c.ConfidenceLevel >= 1 {
		return fmt.Errorf("%w: confidence level must be in (0,1), got %g", core.ErrInvalidConfig, c.ConfidenceLevel)
	}
	return nil
}

// NextAlpha returns the marginal-band upper threshold paired with alpha.
// 0.01 promotes to 0.05, 0.05 to 0.10, anything else doubles.
func (c Config) NextAlpha() float64 {
	switch c.Alpha {
	case 0.01:
		return 0.05
	case 0.05:
		return 0.10
	default:
		return 2 * c.Alpha
	}
}

// ============================================================================
// SUM OF SQUARES
// ============================================================================

// Source names a variance component in the decomposition
type Source string

const (
	SourceBlocks      Source = "blocks"
	SourceTreatments  Source = "treatments"
	SourceInteraction Source = "interaction"
	SourceError       Source = "error"
	SourceTotal       Source = "total"
)

// SumOfSquaresSet is the full two-way decomposition of total variance.
// INVARIANT: Total == Blocks + Treatments + Interaction + Error within
// floating-point tolerance; all components are non-negative.
type SumOfSquaresSet struct {
	Blocks      float64 `json:"ss_blocks"`
	Treatments  float64 `json:"ss_treatments"`
	Interaction float64 `json:"ss_interaction"`
	Error       float64 `json:"ss_error"`
	Total       float64 `json:"ss_total"`
}

// DecompositionResidual reports the relative gap between Total and the sum
// of components. Zero for an exact decomposition.
func (s SumOfSquaresSet) DecompositionResidual() float64 {
	sum := s.Blocks + s.Treatments + s.Interaction + s.Error
	if s.Total == 0 {
		return math.Abs(sum)
	}
	return math.Abs(s.Total-sum) / s.Total
}

// ============================================================================
// TABLE ROWS
// ============================================================================

// Significance is the three-tier classification of an F-test's p-value
type Significance string

const (
	Significant    Significance = "significant"
	Marginal       Significance = "marginal"
	NotSignificant Significance = "not significant"
)

// ClassifySignificance bands a p-value against alpha and its paired
// marginal threshold.
func ClassifySignificance(pValue float64, cfg Config) Significance {
	switch {
	case pValue < cfg.Alpha:
		return Significant
	case pValue < cfg.NextAlpha():
		return Marginal
	default:
		return NotSignificant
	}
}

// Magnitude is the interpretive tier of an effect size, following
// Cohen's conventions for eta-squared.
type Magnitude string

const (
	MagnitudeLarge      Magnitude = "large"
	MagnitudeMedium     Magnitude = "medium"
	MagnitudeSmall      Magnitude = "small"
	MagnitudeNegligible Magnitude = "negligible"
)

// Fixed magnitude thresholds (proportion of total variance)
const (
	largeEffectThreshold  = 0.14
	mediumEffectThreshold = 0.06
	smallEffectThreshold  = 0.01
)

// ClassifyMagnitude tiers an effect-size point estimate
func ClassifyMagnitude(effect float64) Magnitude {
	switch {
	case effect >= largeEffectThreshold:
		return MagnitudeLarge
	case effect >= mediumEffectThreshold:
		return MagnitudeMedium
	case effect >= smallEffectThreshold:
		return MagnitudeSmall
	default:
		return MagnitudeNegligible
	}
}

// Interval is a closed confidence interval with Low <= High
type Interval struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Row is one source line of the ANOVA table. Error and Total rows carry
// only the fields that are defined for them (Tested reports which kind
// this is; CIs may be individually absent when their computation failed).
type Row struct {
	Source Source  `json:"source"`
	SS     float64 `json:"ss"`
	DF     int     `json:"df"`
	MS     float64 `json:"ms,omitempty"`

	// Test statistics, present when Tested
	Tested       bool         `json:"tested"`
	F            float64      `json:"f,omitempty"`
	PValue       float64      `json:"p_value,omitempty"`
	FCritical    float64      `json:"f_critical,omitempty"`
	Significance Significance `json:"significance,omitempty"`

	// Effect sizes, present when Tested. The omega-squared point estimate
	// may be negative; only the intervals are clamped to [0,1].
	EtaSquared   float64   `json:"eta_squared,omitempty"`
	OmegaSquared float64   `json:"omega_squared,omitempty"`
	Magnitude    Magnitude `json:"magnitude,omitempty"`
	HasCI        bool      `json:"has_ci"`
	EtaCI        Interval  `json:"eta_ci,omitempty"`
	OmegaCI      Interval  `json:"omega_ci,omitempty"`
}

// Table is the full ANOVA output: three tested sources, the error row,
// and the total row, plus the decomposition and configuration they came from.
type Table struct {
	Blocks      Row             `json:"blocks"`
	Treatments  Row             `json:"treatments"`
	Interaction Row             `json:"interaction"`
	Error       Row             `json:"error"`
	Total       Row             `json:"total"`
	SumsSquares SumOfSquaresSet `json:"sums_of_squares"`
	Config      Config          `json:"config"`
}

// TestedRows returns the three F-tested rows in table order
func (t *Table) TestedRows() []Row {
	return []Row{t.Blocks, t.Treatments, t.Interaction}
}
