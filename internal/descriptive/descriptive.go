// Package descriptive computes group-level summary statistics over
// arbitrary partitions of an observation set.
package descriptive

import (
	"errors"
	"fmt"

	"github.com/montanaflynn/stats"

	"goanova/domain/core"
	"goanova/domain/design"
)

// GroupStatistics summarizes one partition of observations.
// Variance is the sample variance (denominator n-1).
type GroupStatistics struct {
	Count    int     `json:"count"`
	Sum      float64 `json:"sum"`
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
}

// KeyFunc maps an observation to its partition key
type KeyFunc func(design.Observation) string

// ByBlock partitions observations by their block
func ByBlock(obs design.Observation) string {
	return obs.Block.String()
}

// ByTreatment partitions observations by their treatment
func ByTreatment(obs design.Observation) string {
	return obs.Treatment.String()
}

// ByCell partitions observations by their block x treatment cell
func ByCell(obs design.Observation) string {
	return fmt.Sprintf("%s\x1f%s", obs.Block, obs.Treatment)
}

// Partition pairs a partition key with its statistics, preserving
// first-appearance order across the observation sequence.
type Partition struct {
	Key   string          `json:"key"`
	Stats GroupStatistics `json:"stats"`
}

// Summarize computes count, sum, mean and sample variance for one group
// of values. An empty group and a single-value group are reported as
// errors rather than producing NaN through 0/0 division.
func Summarize(values []float64) (GroupStatistics, error) {
	if len(values) == 0 {
		return GroupStatistics{}, core.ErrEmptyPartition
	}

	sum, err := stats.Sum(values)
	if err != nil {
		return GroupStatistics{}, err
	}
	mean, err := stats.Mean(values)
	if err != nil {
		return GroupStatistics{}, err
	}

	if len(values) < 2 {
		return GroupStatistics{}, fmt.Errorf("%w: sample variance needs at least 2 values, got %d",
			core.ErrInsufficientData, len(values))
	}
	variance, err := stats.SampleVariance(values)
	if err != nil {
		return GroupStatistics{}, err
	}

	return GroupStatistics{
		Count:    len(values),
		Sum:      sum,
		Mean:     mean,
		Variance: variance,
	}, nil
}

// GroupBy partitions the observations with key and summarizes each
// partition, plus a grand summary pooled over every observation (the
// grand variance is computed around the grand mean, not averaged from
// the sub-variances).
func GroupBy(observations []design.Observation, key KeyFunc) ([]Partition, GroupStatistics, error) {
	if len(observations) == 0 {
		return nil, GroupStatistics{}, core.ErrEmptyDataset
	}

	var order []string
	groups := make(map[string][]float64)
	all := make([]float64, 0, len(observations))

	for _, obs := range observations {
		k := key(obs)
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], obs.Value)
		all = append(all, obs.Value)
	}

	partitions := make([]Partition, 0, len(order))
	for _, k := range order {
		vals := groups[k]
		s, err := Summarize(vals)
		switch {
		case errors.Is(err, core.ErrEmptyPartition):
			return nil, GroupStatistics{}, core.NewEmptyPartitionError("group", k)
		case errors.Is(err, core.ErrInsufficientData):
			return nil, GroupStatistics{}, core.NewInsufficientDataError("group", k, len(vals))
		case err != nil:
			return nil, GroupStatistics{}, fmt.Errorf("partition %q: %w", k, err)
		}
		partitions = append(partitions, Partition{Key: k, Stats: s})
	}

	grand, err := Summarize(all)
	if err != nil {
		return nil, GroupStatistics{}, fmt.Errorf("grand partition: %w", err)
	}

	return partitions, grand, nil
}
