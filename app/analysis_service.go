package app

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	domainanova "goanova/domain/anova"
	"goanova/domain/core"
	"goanova/domain/design"
	"goanova/internal"
	"goanova/internal/anova"
	"goanova/internal/descriptive"
	"goanova/internal/diagnostics"
)

// AnalysisService runs the full RCBD pipeline: descriptives, the
// sum-of-squares decomposition, the ANOVA table with effect-size CIs,
// and residual diagnostics. Every run recomputes from the raw
// observations; the service holds no per-run state.
type AnalysisService struct {
	engine      *anova.Engine
	diagnostics *diagnostics.Analyzer
	log         *internal.Logger
}

// NewAnalysisService creates an analysis service
func NewAnalysisService() *AnalysisService {
	return &AnalysisService{
		engine:      anova.NewEngine(),
		diagnostics: diagnostics.NewAnalyzer(),
		log:         internal.DefaultLogger,
	}
}

// AnalysisRequest defines the inputs for one analysis run
type AnalysisRequest struct {
	Observations []design.Observation `json:"observations"`
	Config       domainanova.Config   `json:"config"`
}

// Descriptives holds the group statistics at every partition level
type Descriptives struct {
	Blocks     []descriptive.Partition     `json:"blocks"`
	Treatments []descriptive.Partition     `json:"treatments"`
	Cells      []descriptive.Partition     `json:"cells"`
	Grand      descriptive.GroupStatistics `json:"grand"`
}

// AnalysisResult is the complete output of one run
type AnalysisResult struct {
	RunID        core.RunID          `json:"run_id"`
	Design       design.Design       `json:"design"`
	Descriptives Descriptives        `json:"descriptives"`
	Table        *domainanova.Table  `json:"table"`
	Diagnostics  *diagnostics.Report `json:"diagnostics"`
	RuntimeMs    int64               `json:"runtime_ms"`
	ComputedAt   core.Timestamp      `json:"computed_at"`
}

// RunAnalysis executes the pipeline on one observation set. Stages flow
// strictly forward; any stage failure surfaces as an explicit error,
// never as NaN in the result.
func (s *AnalysisService) RunAnalysis(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error) {
	start := time.Now()

	ds, err := design.NewDataset(req.Observations)
	if err != nil {
		s.logRunFailure("dataset", err)
		return nil, err
	}
	d := ds.Design()
	s.log.Debug("[Analysis] design derived: b=%d t=%d r=%d", d.B, d.T, d.R)

	// The table build runs first so a replication-free design surfaces
	// as a degenerate-design error before cell-level variances (which
	// are undefined for r = 1) can mask it.
	table, err := s.engine.Analyze(ds, req.Config)
	if err != nil {
		s.logRunFailure("table", err)
		return nil, err
	}

	descriptives, err := s.computeDescriptives(ds)
	if err != nil {
		s.logRunFailure("descriptives", err)
		return nil, err
	}

	report, err := s.diagnostics.Analyze(ds)
	if err != nil {
		s.logRunFailure("diagnostics", err)
		return nil, err
	}

	result := &AnalysisResult{
		RunID:        core.RunID(core.NewID()),
		Design:       d,
		Descriptives: *descriptives,
		Table:        table,
		Diagnostics:  report,
		RuntimeMs:    time.Since(start).Milliseconds(),
		ComputedAt:   core.Now(),
	}

	s.log.Info("[Analysis] run %s complete in %dms (n=%d)", result.RunID, result.RuntimeMs, ds.Len())
	return result, nil
}

// RunDiagnostics executes only the residual-diagnostics pass, for hosts
// that want the Q-Q sequence without the full table.
func (s *AnalysisService) RunDiagnostics(ctx context.Context, observations []design.Observation) (*diagnostics.Report, error) {
	ds, err := design.NewDataset(observations)
	if err != nil {
		return nil, err
	}
	return s.diagnostics.Analyze(ds)
}

// RunBatch analyzes independent datasets concurrently. Results keep
// request order; the first failure cancels the remaining work.
func (s *AnalysisService) RunBatch(ctx context.Context, reqs []AnalysisRequest) ([]*AnalysisResult, error) {
	results := make([]*AnalysisResult, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			result, err := s.RunAnalysis(ctx, req)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// logRunFailure separates caller data defects, which are warnings, from
// pipeline faults.
func (s *AnalysisService) logRunFailure(stage string, err error) {
	if core.IsDesignError(err) || core.IsPartitionError(err) {
		s.log.Warn("[Analysis] %s rejected input: %v", stage, err)
		return
	}
	s.log.Error("[Analysis] %s failed: %v", stage, err)
}

// computeDescriptives summarizes the observations at every partition level
func (s *AnalysisService) computeDescriptives(ds *design.Dataset) (*Descriptives, error) {
	observations := ds.Observations()

	blocks, grand, err := descriptive.GroupBy(observations, descriptive.ByBlock)
	if err != nil {
		return nil, err
	}
	treatments, _, err := descriptive.GroupBy(observations, descriptive.ByTreatment)
	if err != nil {
		return nil, err
	}
	cells, _, err := descriptive.GroupBy(observations, descriptive.ByCell)
	if err != nil {
		return nil, err
	}

	return &Descriptives{
		Blocks:     blocks,
		Treatments: treatments,
		Cells:      cells,
		Grand:      grand,
	}, nil
}
