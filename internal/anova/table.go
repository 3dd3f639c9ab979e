package anova

import (
	"goanova/domain/anova"
	"goanova/domain/core"
	"goanova/domain/design"
)

// BuildTable derives the full ANOVA table from a decomposition: degrees
// of freedom, mean squares, F ratios, p-values, critical values,
// effect sizes and their confidence intervals.
//
// A design with no replication variance (dfError == 0 or msError == 0)
// is reported as ErrDegenerateDesign rather than as infinite F ratios;
// there is no partially meaningful table in that case.
func (e *Engine) BuildTable(d design.Design, set anova.SumOfSquaresSet, cfg anova.Config) (*anova.Table, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if d.N() == 0 {
		return nil, core.NewPrerequisiteError("ANOVA table", "a derived design")
	}

	dfBlocks := d.B - 1
	dfTreatments := d.T - 1
	dfInteraction := (d.B - 1) * (d.T - 1)
	dfError := d.B * d.T * (d.R - 1)
	dfTotal := d.B*d.T*d.R - 1

	if dfError == 0 {
		return nil, core.NewDegenerateDesignError("no replication (r = 1), error degrees of freedom are zero")
	}

	msError := set.Error / float64(dfError)
	if msError == 0 {
		return nil, core.NewDegenerateDesignError("error mean square is zero, F ratios are undefined")
	}

	table := &anova.Table{
		SumsSquares: set,
		Config:      cfg,
		Error: anova.Row{
			Source: anova.SourceError,
			SS:     set.Error,
			DF:     dfError,
			MS:     msError,
		},
		Total: anova.Row{
			Source: anova.SourceTotal,
			SS:     set.Total,
			DF:     dfTotal,
		},
	}

	var err error
	table.Blocks, err = e.testedRow(anova.SourceBlocks, set.Blocks, dfBlocks, dfError, msError, set.Total, cfg)
	if err != nil {
		return nil, err
	}
	table.Treatments, err = e.testedRow(anova.SourceTreatments, set.Treatments, dfTreatments, dfError, msError, set.Total, cfg)
	if err != nil {
		return nil, err
	}
	table.Interaction, err = e.testedRow(anova.SourceInteraction, set.Interaction, dfInteraction, dfError, msError, set.Total, cfg)
	if err != nil {
		return nil, err
	}

	return table, nil
}

// testedRow builds one F-tested source row
func (e *Engine) testedRow(source anova.Source, ss float64, df, dfError int, msError, ssTotal float64, cfg anova.Config) (anova.Row, error) {
	if df <= 0 {
		return anova.Row{}, core.NewInvalidDFError(float64(df), float64(dfError))
	}

	ms := ss / float64(df)
	f := ms / msError

	pValue, err := e.dist.FSurvival(f, df, dfError)
	if err != nil {
		return anova.Row{}, err
	}
	fCritical, err := e.dist.FCritical(cfg.Alpha, df, dfError)
	if err != nil {
		return anova.Row{}, err
	}

	eta := ss / ssTotal
	// Omega-squared is bias corrected and may legitimately be negative;
	// only the confidence intervals are clamped.
	omega := (ss - float64(df)*msError) / (ssTotal + msError)

	row := anova.Row{
		Source:       source,
		SS:           ss,
		DF:           df,
		MS:           ms,
		Tested:       true,
		F:            f,
		PValue:       pValue,
		FCritical:    fCritical,
		Significance: anova.ClassifySignificance(pValue, cfg),
		EtaSquared:   eta,
		OmegaSquared: omega,
		Magnitude:    anova.ClassifyMagnitude(eta),
	}

	cis, err := e.EffectSizeCIs(f, df, dfError, cfg.ConfidenceLevel)
	switch {
	case err == nil:
		row.HasCI = true
		row.EtaCI = cis.Eta
		row.OmegaCI = cis.Omega
	case core.IsDistributionError(err):
		// A failed interval marks only this row's CI as unavailable;
		// the rest of the table stands.
		row.HasCI = false
	default:
		return anova.Row{}, err
	}

	return row, nil
}

// Analyze runs the decomposition and table build in one step
func (e *Engine) Analyze(ds *design.Dataset, cfg anova.Config) (*anova.Table, error) {
	set, err := e.SumsOfSquares(ds)
	if err != nil {
		return nil, err
	}
	return e.BuildTable(ds.Design(), set, cfg)
}
