package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Design errors
	ErrEmptyDataset     = errors.New("dataset contains no observations")
	ErrUnbalancedDesign = errors.New("unbalanced design")
	ErrDegenerateDesign = errors.New("degenerate design")

	// Partition errors
	ErrEmptyPartition   = errors.New("empty partition")
	ErrInsufficientData = errors.New("insufficient data for analysis")

	// Distribution errors
	ErrInvalidDegreesOfFreedom = errors.New("invalid degrees of freedom")
	ErrInvalidProbability      = errors.New("probability outside (0,1)")

	// Pipeline errors
	ErrPrerequisiteMissing = errors.New("prerequisite stage output missing")

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Error constructors with context
func NewUnbalancedDesignError(block, treatment string, got, want int) error {
	return fmt.Errorf("%w: cell (%s, %s) has %d observations, expected %d",
		ErrUnbalancedDesign, block, treatment, got, want)
}

func NewEmptyPartitionError(kind, key string) error {
	return fmt.Errorf("%w: %s %q has no observations", ErrEmptyPartition, kind, key)
}

func NewInsufficientDataError(kind, key string, n int) error {
	return fmt.Errorf("%w: %s %q has %d observations, variance needs at least 2",
		ErrInsufficientData, kind, key, n)
}

func NewDegenerateDesignError(reason string) error {
	return fmt.Errorf("%w: %s", ErrDegenerateDesign, reason)
}

func NewInvalidDFError(df1, df2 float64) error {
	return fmt.Errorf("%w: df1=%g df2=%g", ErrInvalidDegreesOfFreedom, df1, df2)
}

func NewPrerequisiteError(stage, missing string) error {
	return fmt.Errorf("%w: %s requires %s", ErrPrerequisiteMissing, stage, missing)
}

// Error checking helpers
func IsDesignError(err error) bool {
	return errors.Is(err, ErrEmptyDataset) ||
		errors.Is(err, ErrUnbalancedDesign) ||
		errors.Is(err, ErrDegenerateDesign)
}

func IsPartitionError(err error) bool {
	return errors.Is(err, ErrEmptyPartition) ||
		errors.Is(err, ErrInsufficientData)
}

func IsDistributionError(err error) bool {
	return errors.Is(err, ErrInvalidDegreesOfFreedom) ||
		errors.Is(err, ErrInvalidProbability)
}
