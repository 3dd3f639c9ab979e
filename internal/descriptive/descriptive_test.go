package descriptive

import (
	"errors"
	"math"
	"testing"

	"goanova/domain/core"
	"goanova/domain/design"
)

func obs(block, treatment string, value float64) design.Observation {
	return design.Observation{
		Block:     design.BlockKey(block),
		Treatment: design.TreatmentKey(treatment),
		Value:     value,
	}
}

func TestSummarize_KnownValues(t *testing.T) {
	s, err := Summarize([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if s.Count != 8 {
		t.Errorf("Count = %d, want 8", s.Count)
	}
	if s.Sum != 40 {
		t.Errorf("Sum = %g, want 40", s.Sum)
	}
	if s.Mean != 5 {
		t.Errorf("Mean = %g, want 5", s.Mean)
	}
	// Sum of squared deviations is 32, sample variance 32/7.
	want := 32.0 / 7.0
	if math.Abs(s.Variance-want) > 1e-12 {
		t.Errorf("Variance = %g, want %g", s.Variance, want)
	}
}

func TestSummarize_EmptyPartition(t *testing.T) {
	_, err := Summarize(nil)
	if !errors.Is(err, core.ErrEmptyPartition) {
		t.Errorf("Expected ErrEmptyPartition, got %v", err)
	}
}

func TestSummarize_InsufficientDataForVariance(t *testing.T) {
	_, err := Summarize([]float64{42})
	if !errors.Is(err, core.ErrInsufficientData) {
		t.Errorf("Expected ErrInsufficientData for n=1, got %v", err)
	}
}

func TestGroupBy_PartitionsAndGrand(t *testing.T) {
	observations := []design.Observation{
		obs("b1", "t1", 10),
		obs("b1", "t2", 14),
		obs("b2", "t1", 12),
		obs("b2", "t2", 16),
	}

	partitions, grand, err := GroupBy(observations, ByBlock)
	if err != nil {
		t.Fatalf("GroupBy failed: %v", err)
	}

	if len(partitions) != 2 {
		t.Fatalf("Expected 2 block partitions, got %d", len(partitions))
	}
	if partitions[0].Key != "b1" || partitions[1].Key != "b2" {
		t.Errorf("Partition order should follow first appearance, got %v", partitions)
	}
	if partitions[0].Stats.Mean != 12 {
		t.Errorf("b1 mean = %g, want 12", partitions[0].Stats.Mean)
	}
	if partitions[1].Stats.Mean != 14 {
		t.Errorf("b2 mean = %g, want 14", partitions[1].Stats.Mean)
	}

	if grand.Count != 4 || grand.Mean != 13 {
		t.Errorf("Grand stats = %+v, want count 4 mean 13", grand)
	}
	// Pooled variance around the grand mean: deviations -3,1,-1,3 -> 20/3.
	want := 20.0 / 3.0
	if math.Abs(grand.Variance-want) > 1e-12 {
		t.Errorf("Grand variance = %g, want %g (pooled, not averaged)", grand.Variance, want)
	}
}

func TestGroupBy_CellPartitions(t *testing.T) {
	observations := []design.Observation{
		obs("b1", "t1", 10),
		obs("b1", "t1", 12),
		obs("b1", "t2", 14),
		obs("b1", "t2", 16),
	}

	partitions, _, err := GroupBy(observations, ByCell)
	if err != nil {
		t.Fatalf("GroupBy failed: %v", err)
	}

	if len(partitions) != 2 {
		t.Fatalf("Expected 2 cell partitions, got %d", len(partitions))
	}
	if partitions[0].Stats.Count != 2 || partitions[0].Stats.Mean != 11 {
		t.Errorf("First cell stats = %+v, want count 2 mean 11", partitions[0].Stats)
	}
}

func TestGroupBy_SingletonPartitionSurfacesError(t *testing.T) {
	observations := []design.Observation{
		obs("b1", "t1", 10),
		obs("b1", "t2", 14),
	}

	// Cell-level grouping yields one observation per cell; sample
	// variance is undefined there and must be an error, not NaN.
	_, _, err := GroupBy(observations, ByCell)
	if !errors.Is(err, core.ErrInsufficientData) {
		t.Errorf("Expected ErrInsufficientData, got %v", err)
	}
}
