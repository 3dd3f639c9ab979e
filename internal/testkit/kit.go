// Package testkit generates synthetic randomized-complete-block
// datasets with known planted structure, for tests and demos.
package testkit

import (
	"fmt"
	"math"

	"goanova/domain/design"
)

// Generator produces deterministic synthetic datasets. The same seed
// always yields the same observations.
type Generator struct {
	state float64
}

// NewGenerator creates a generator from a seed
func NewGenerator(seed int64) *Generator {
	if seed == 0 {
		seed = 12345
	}
	return &Generator{state: float64(seed)}
}

// Spec describes the planted structure of a synthetic dataset
type Spec struct {
	Blocks          int
	Treatments      int
	Replications    int
	GrandMean       float64
	BlockEffect     float64 // per-step additive shift across blocks
	TreatmentEffect float64 // per-step additive shift across treatments
	NoiseSD         float64
}

// Balanced generates a balanced dataset with additive block and
// treatment effects plus Gaussian noise.
func (g *Generator) Balanced(spec Spec) []design.Observation {
	observations := make([]design.Observation, 0, spec.Blocks*spec.Treatments*spec.Replications)
	for b := 0; b < spec.Blocks; b++ {
		for t := 0; t < spec.Treatments; t++ {
			for rep := 0; rep < spec.Replications; rep++ {
				value := spec.GrandMean +
					float64(b)*spec.BlockEffect +
					float64(t)*spec.TreatmentEffect +
					g.normal()*spec.NoiseSD
				observations = append(observations, design.Observation{
					Block:     design.BlockKey(fmt.Sprintf("block_%d", b+1)),
					Treatment: design.TreatmentKey(fmt.Sprintf("treatment_%d", t+1)),
					Value:     value,
				})
			}
		}
	}
	return observations
}

// Unbalanced generates a dataset with one extra observation in the
// first cell, for exercising balance validation.
func (g *Generator) Unbalanced(spec Spec) []design.Observation {
	observations := g.Balanced(spec)
	extra := observations[0]
	extra.Value += g.normal() * spec.NoiseSD
	return append(observations, extra)
}

// normal draws a standard-normal value using a Box-Muller transform
// over a linear congruential generator, so runs are reproducible
// without touching global random state.
func (g *Generator) normal() float64 {
	u1 := g.next()
	u2 := g.next()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

func (g *Generator) next() float64 {
	g.state = math.Mod(g.state*1103515245+12345, 2147483648)
	// Never return exactly 0 for the log in the Box-Muller transform.
	return (g.state + 1) / 2147483649.0
}
