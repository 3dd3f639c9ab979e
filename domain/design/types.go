package design

import (
	"goanova/domain/core"
)

// BlockKey identifies the blocking factor level of an observation
type BlockKey string

// TreatmentKey identifies the treatment factor level of an observation
type TreatmentKey string

func (k BlockKey) String() string     { return string(k) }
func (k TreatmentKey) String() string { return string(k) }

// Observation is a single measured value tagged with its block and treatment.
// Observations are immutable once read into a Dataset.
type Observation struct {
	Block     BlockKey     `json:"block"`
	Treatment TreatmentKey `json:"treatment"`
	Value     float64      `json:"value"`
}

// CellKey identifies a block x treatment cell
type CellKey struct {
	Block     BlockKey     `json:"block"`
	Treatment TreatmentKey `json:"treatment"`
}

// Design captures the shape of a randomized complete block experiment:
// the ordered factor levels and the uniform replication count per cell.
// INVARIANTS:
// - Blocks and Treatments preserve first-appearance order
// - every (block, treatment) cell holds exactly R observations
// - N == B * T * R
type Design struct {
	Blocks     []BlockKey     `json:"blocks"`
	Treatments []TreatmentKey `json:"treatments"`
	B          int            `json:"b"` // number of blocks
	T          int            `json:"t"` // number of treatments
	R          int            `json:"r"` // replications per cell
}

// N returns the total number of observations the design implies
func (d Design) N() int {
	return d.B * d.T * d.R
}

// Dataset is an immutable balanced set of observations plus its derived design.
// The only way to obtain one is NewDataset, which validates balance.
type Dataset struct {
	observations []Observation
	design       Design
}

// NewDataset derives the design from the observation order and validates
// that every block x treatment cell carries the same replication count.
func NewDataset(observations []Observation) (*Dataset, error) {
	if len(observations) == 0 {
		return nil, core.ErrEmptyDataset
	}

	var blocks []BlockKey
	var treatments []TreatmentKey
	seenBlocks := make(map[BlockKey]bool)
	seenTreatments := make(map[TreatmentKey]bool)
	cellCounts := make(map[CellKey]int)

	for _, obs := range observations {
		if !seenBlocks[obs.Block] {
			seenBlocks[obs.Block] = true
			blocks = append(blocks, obs.Block)
		}
		if !seenTreatments[obs.Treatment] {
			seenTreatments[obs.Treatment] = true
			treatments = append(treatments, obs.Treatment)
		}
		cellCounts[CellKey{Block: obs.Block, Treatment: obs.Treatment}]++
	}

	// Replication count comes from the first cell; every other cell must match.
	r := cellCounts[CellKey{Block: blocks[0], Treatment: treatments[0]}]
	for _, b := range blocks {
		for _, t := range treatments {
			got := cellCounts[CellKey{Block: b, Treatment: t}]
			if got != r {
				return nil, core.NewUnbalancedDesignError(b.String(), t.String(), got, r)
			}
		}
	}

	copied := make([]Observation, len(observations))
	copy(copied, observations)

	return &Dataset{
		observations: copied,
		design: Design{
			Blocks:     blocks,
			Treatments: treatments,
			B:          len(blocks),
			T:          len(treatments),
			R:          r,
		},
	}, nil
}

// Observations returns a copy of the observation sequence in input order
func (d *Dataset) Observations() []Observation {
	out := make([]Observation, len(d.observations))
	copy(out, d.observations)
	return out
}

// Design returns the derived design parameters
func (d *Dataset) Design() Design {
	return d.design
}

// Values returns the observed values in input order
func (d *Dataset) Values() []float64 {
	out := make([]float64, len(d.observations))
	for i, obs := range d.observations {
		out[i] = obs.Value
	}
	return out
}

// CellValues returns the replication values for one block x treatment cell
func (d *Dataset) CellValues(block BlockKey, treatment TreatmentKey) []float64 {
	var out []float64
	for _, obs := range d.observations {
		if obs.Block == block && obs.Treatment == treatment {
			out = append(out, obs.Value)
		}
	}
	return out
}

// BlockValues returns all values observed within a block
func (d *Dataset) BlockValues(block BlockKey) []float64 {
	var out []float64
	for _, obs := range d.observations {
		if obs.Block == block {
			out = append(out, obs.Value)
		}
	}
	return out
}

// TreatmentValues returns all values observed under a treatment
func (d *Dataset) TreatmentValues(treatment TreatmentKey) []float64 {
	var out []float64
	for _, obs := range d.observations {
		if obs.Treatment == treatment {
			out = append(out, obs.Value)
		}
	}
	return out
}

// Len returns the number of observations
func (d *Dataset) Len() int {
	return len(d.observations)
}
