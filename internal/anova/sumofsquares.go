// Package anova implements the two-factor ANOVA with replication for
// randomized complete block designs: the sum-of-squares decomposition,
// the table of F tests, and effect-size confidence intervals.
package anova

import (
	"goanova/domain/anova"
	"goanova/domain/core"
	"goanova/domain/design"
	"goanova/internal/distributions"
)

// Engine computes ANOVA results for balanced datasets. It holds no state
// beyond the distribution utility; every call recomputes from its inputs.
type Engine struct {
	dist *distributions.Distributions
}

// NewEngine creates an ANOVA engine
func NewEngine() *Engine {
	return &Engine{dist: distributions.New()}
}

// means holds the factor-level means the decomposition is built from
type means struct {
	grand     float64
	block     map[design.BlockKey]float64
	treatment map[design.TreatmentKey]float64
	cell      map[design.CellKey]float64
}

// computeMeans derives grand, block, treatment and cell means in one pass
func computeMeans(ds *design.Dataset) means {
	d := ds.Design()

	m := means{
		block:     make(map[design.BlockKey]float64, d.B),
		treatment: make(map[design.TreatmentKey]float64, d.T),
		cell:      make(map[design.CellKey]float64, d.B*d.T),
	}

	var grandSum float64
	blockSums := make(map[design.BlockKey]float64, d.B)
	treatmentSums := make(map[design.TreatmentKey]float64, d.T)
	cellSums := make(map[design.CellKey]float64, d.B*d.T)

	for _, obs := range ds.Observations() {
		grandSum += obs.Value
		blockSums[obs.Block] += obs.Value
		treatmentSums[obs.Treatment] += obs.Value
		cellSums[design.CellKey{Block: obs.Block, Treatment: obs.Treatment}] += obs.Value
	}

	m.grand = grandSum / float64(d.N())
	for _, b := range d.Blocks {
		m.block[b] = blockSums[b] / float64(d.T*d.R)
	}
	for _, t := range d.Treatments {
		m.treatment[t] = treatmentSums[t] / float64(d.B*d.R)
	}
	for _, b := range d.Blocks {
		for _, t := range d.Treatments {
			key := design.CellKey{Block: b, Treatment: t}
			m.cell[key] = cellSums[key] / float64(d.R)
		}
	}

	return m
}

// SumsOfSquares decomposes the total variance of a balanced dataset into
// block, treatment, interaction and error components.
func (e *Engine) SumsOfSquares(ds *design.Dataset) (anova.SumOfSquaresSet, error) {
	if ds == nil || ds.Len() == 0 {
		return anova.SumOfSquaresSet{}, core.NewPrerequisiteError("sum-of-squares decomposition", "a non-empty dataset")
	}

	d := ds.Design()
	m := computeMeans(ds)

	var set anova.SumOfSquaresSet

	for _, b := range d.Blocks {
		dev := m.block[b] - m.grand
		set.Blocks += dev * dev
	}
	set.Blocks *= float64(d.T * d.R)

	for _, t := range d.Treatments {
		dev := m.treatment[t] - m.grand
		set.Treatments += dev * dev
	}
	set.Treatments *= float64(d.B * d.R)

	for _, b := range d.Blocks {
		for _, t := range d.Treatments {
			dev := m.cell[design.CellKey{Block: b, Treatment: t}] - m.block[b] - m.treatment[t] + m.grand
			set.Interaction += dev * dev
		}
	}
	set.Interaction *= float64(d.R)

	for _, obs := range ds.Observations() {
		cellMean := m.cell[design.CellKey{Block: obs.Block, Treatment: obs.Treatment}]
		dev := obs.Value - cellMean
		set.Error += dev * dev

		total := obs.Value - m.grand
		set.Total += total * total
	}

	return set, nil
}
