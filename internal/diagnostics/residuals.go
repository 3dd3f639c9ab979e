// Package diagnostics computes residual diagnostics for the additive
// randomized-complete-block fit: fitted values, residuals, and the
// normal-order sequence backing an external Q-Q plot.
package diagnostics

import (
	"sort"

	"goanova/domain/core"
	"goanova/domain/design"
	"goanova/internal/distributions"
)

// ResidualRecord pairs one observation with its additive-model fit
type ResidualRecord struct {
	Observed float64 `json:"observed"`
	Fitted   float64 `json:"fitted"`
	Residual float64 `json:"residual"`
}

// NormalityPoint is one point of the Q-Q sequence: the i-th sorted
// residual against the theoretical z-score of its plotting position.
type NormalityPoint struct {
	SortedResidual float64 `json:"sorted_residual"`
	Percentile     float64 `json:"percentile"`
	ZScore         float64 `json:"z_score"`
}

// Report is the full diagnostics output. Records follow input order;
// Normality is sorted ascending by residual with ties kept in input order.
type Report struct {
	Records   []ResidualRecord `json:"records"`
	Normality []NormalityPoint `json:"normality"`
}

// Analyzer computes residual diagnostics
type Analyzer struct {
	dist *distributions.Distributions
}

// NewAnalyzer creates a diagnostics analyzer
func NewAnalyzer() *Analyzer {
	return &Analyzer{dist: distributions.New()}
}

// Analyze fits the additive two-way model (block effect plus treatment
// effect, no interaction) and derives residuals and the Q-Q sequence.
// The fitted value is blockMean + treatmentMean - grandMean, the
// Tukey-style RCBD fit, which is deliberately not the cell-mean fit the
// full ANOVA decomposes against.
func (a *Analyzer) Analyze(ds *design.Dataset) (*Report, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, core.NewPrerequisiteError("residual diagnostics", "a non-empty dataset")
	}

	d := ds.Design()

	var grandSum float64
	blockSums := make(map[design.BlockKey]float64, d.B)
	treatmentSums := make(map[design.TreatmentKey]float64, d.T)
	for _, obs := range ds.Observations() {
		grandSum += obs.Value
		blockSums[obs.Block] += obs.Value
		treatmentSums[obs.Treatment] += obs.Value
	}

	grandMean := grandSum / float64(d.N())
	blockMeans := make(map[design.BlockKey]float64, d.B)
	for _, b := range d.Blocks {
		blockMeans[b] = blockSums[b] / float64(d.T*d.R)
	}
	treatmentMeans := make(map[design.TreatmentKey]float64, d.T)
	for _, t := range d.Treatments {
		treatmentMeans[t] = treatmentSums[t] / float64(d.B*d.R)
	}

	records := make([]ResidualRecord, ds.Len())
	for i, obs := range ds.Observations() {
		fitted := blockMeans[obs.Block] + treatmentMeans[obs.Treatment] - grandMean
		records[i] = ResidualRecord{
			Observed: obs.Value,
			Fitted:   fitted,
			Residual: obs.Value - fitted,
		}
	}

	normality, err := a.normalitySequence(records)
	if err != nil {
		return nil, err
	}

	return &Report{Records: records, Normality: normality}, nil
}

// normalitySequence sorts residuals ascending (stable, ties by input
// order) and attaches the (i+0.5)/n plotting position and its probit.
func (a *Analyzer) normalitySequence(records []ResidualRecord) ([]NormalityPoint, error) {
	n := len(records)

	sorted := make([]float64, n)
	for i, rec := range records {
		sorted[i] = rec.Residual
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	points := make([]NormalityPoint, n)
	for i, r := range sorted {
		p := (float64(i) + 0.5) / float64(n)
		z, err := a.dist.NormalQuantile(p)
		if err != nil {
			return nil, err
		}
		points[i] = NormalityPoint{SortedResidual: r, Percentile: p, ZScore: z}
	}

	return points, nil
}
