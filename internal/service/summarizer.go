package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/amr-summary/internal/domain"
	"github.com/amr-summary/internal/ledger"
	"github.com/amr-summary/internal/summary"
)

// SummarizeParams describes one summary invocation.
type SummarizeParams struct {
	SummaryType domain.SummaryType
	// Inputs are the per-sample result directories, in output order.
	Inputs []string
	// Outputs are the summary file paths for the type, in the order listed by
	// domain.SummaryType.OutputCount: gene then phenotype for resfinder, result then
	// prediction for pointfinder, a single file otherwise.
	Outputs []string
}

// SummarizeResult reports what a summary invocation produced.
type SummarizeResult struct {
	RunID       string
	SummaryType domain.SummaryType
	Status      domain.Status
	Operations  []*summary.Result
	Outputs     []string
	Rows        int
	Duration    time.Duration
}

// SummarizerService dispatches a summary type to its builders and records the run.
type SummarizerService struct {
	logger    *logrus.Logger
	config    *domain.Config
	store     ledger.Store
	genes     *summary.GeneSummaryBuilder
	phenotype *summary.PhenotypeSummaryBuilder
	mutations *summary.PointMutationSummaryBuilder
	elements  *summary.ElementSummaryBuilder
}

// NewSummarizerService creates a new summarizer service
func NewSummarizerService(logger *logrus.Logger, config *domain.Config, store ledger.Store) *SummarizerService {
	if store == nil {
		store = ledger.NopStore{}
	}
	return &SummarizerService{
		logger:    logger,
		config:    config,
		store:     store,
		genes:     summary.NewGeneSummaryBuilder(logger),
		phenotype: summary.NewPhenotypeSummaryBuilder(logger),
		mutations: summary.NewPointMutationSummaryBuilder(logger),
		elements:  summary.NewElementSummaryBuilder(logger),
	}
}

// Summarize builds every summary of params.SummaryType. The run is recorded in the ledger
// whether it succeeds, is skipped or fails; a ledger failure is logged, not returned.
func (s *SummarizerService) Summarize(ctx context.Context, params *SummarizeParams) (*SummarizeResult, error) {
	startTime := time.Now()

	samples, err := s.validate(params)
	if err != nil {
		return nil, fmt.Errorf("invalid summary parameters: %w", err)
	}

	result := &SummarizeResult{
		RunID:       uuid.NewString(),
		SummaryType: params.SummaryType,
	}
	s.logger.WithFields(logrus.Fields{
		"run_id":       result.RunID,
		"summary_type": params.SummaryType,
		"samples":      len(samples),
		"species":      s.config.Species,
	}).Info("Starting summary")

	runErr := s.prepareSummaryDir()
	if runErr == nil {
		result.Operations, runErr = s.dispatch(ctx, params, samples)
	}
	result.Duration = time.Since(startTime)

	if runErr != nil {
		result.Status = domain.StatusFailed
	} else {
		result.Status = domain.StatusWritten
		for _, op := range result.Operations {
			result.Outputs = append(result.Outputs, op.Outputs...)
			result.Rows += op.Rows
			if op.Status == domain.StatusSkipped {
				result.Status = domain.StatusSkipped
			}
		}
	}

	s.record(ctx, result, samples, startTime, runErr)

	if runErr != nil {
		return nil, runErr
	}

	s.logger.WithFields(logrus.Fields{
		"run_id":          result.RunID,
		"summary_type":    result.SummaryType,
		"status":          result.Status,
		"outputs":         len(result.Outputs),
		"rows":            result.Rows,
		"processing_time": result.Duration,
	}).Info("Summary completed")

	return result, nil
}

func (s *SummarizerService) validate(params *SummarizeParams) ([]domain.SampleReportSet, error) {
	if params == nil {
		return nil, domain.NewValidationError("params", "summary parameters are required", nil)
	}
	if !params.SummaryType.IsValid() {
		return nil, errors.WithHintf(domain.ErrInvalidSummaryType,
			"choose one of %v", domain.SummaryTypes)
	}
	if want := params.SummaryType.OutputCount(); len(params.Outputs) != want {
		return nil, errors.WithHintf(
			errors.Wrapf(domain.ErrMissingOutputPaths, "%s needs %d, got %d", params.SummaryType, want, len(params.Outputs)),
			"pass --summary_%s with %d file name(s)", params.SummaryType, want)
	}
	for i, out := range params.Outputs {
		if out == "" {
			return nil, domain.NewValidationError("outputs", fmt.Sprintf("output %d is empty", i+1), params.Outputs)
		}
	}
	return domain.SamplesFromPaths(params.Inputs)
}

// prepareSummaryDir creates <out>/summary, the pipeline's summary location.
func (s *SummarizerService) prepareSummaryDir() error {
	if s.config.OutputDir == "" {
		return nil
	}
	dir := s.summaryDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create summary directory %s: %w", dir, err)
	}
	return nil
}

func (s *SummarizerService) summaryDir() string {
	return filepath.Join(s.config.OutputDir, domain.SummaryDirName)
}

func (s *SummarizerService) dispatch(ctx context.Context, params *SummarizeParams, samples []domain.SampleReportSet) ([]*summary.Result, error) {
	out := params.Outputs

	switch params.SummaryType {
	case domain.SummaryResFinder:
		return s.chain(ctx,
			func() (*summary.Result, error) { return s.genes.Build(ctx, samples, out[0]) },
			func() (*summary.Result, error) { return s.phenotype.InformationalHeader(ctx, samples[0], out[1]) },
			func() (*summary.Result, error) { return s.phenotype.Build(ctx, samples, out[1]) },
		)
	case domain.SummaryPointFinder:
		return s.chain(ctx,
			func() (*summary.Result, error) { return s.mutations.ResultSummary(ctx, samples, out[0]) },
			func() (*summary.Result, error) { return s.mutations.PredictionSummary(ctx, samples, out[1]) },
		)
	case domain.SummaryAMRFinderPlus:
		return s.chain(ctx,
			func() (*summary.Result, error) { return s.elements.Build(ctx, samples, out[0], summary.KindAMRElement) },
		)
	case domain.SummaryVirulenceFinder:
		return s.chain(ctx,
			func() (*summary.Result, error) { return s.elements.Build(ctx, samples, out[0], summary.KindVirulence) },
		)
	case domain.SummaryIles:
		return s.chain(ctx,
			func() (*summary.Result, error) { return s.phenotype.LabSummary(ctx, samples, s.config.Species, out[0]) },
		)
	default:
		return nil, domain.ErrInvalidSummaryType
	}
}

// chain runs the builders in order and stops at the first error.
func (s *SummarizerService) chain(ctx context.Context, steps ...func() (*summary.Result, error)) ([]*summary.Result, error) {
	results := make([]*summary.Result, 0, len(steps))
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		r, err := step()
		if err != nil {
			return results, err
		}
		results = append(results, r)
	}
	return results, nil
}

func (s *SummarizerService) record(ctx context.Context, result *SummarizeResult, samples []domain.SampleReportSet, startTime time.Time, runErr error) {
	run := &ledger.Run{
		RunID:       result.RunID,
		SummaryType: string(result.SummaryType),
		Species:     s.config.Species,
		Samples:     domain.SampleNames(samples),
		Outputs:     result.Outputs,
		Status:      result.Status,
		Rows:        result.Rows,
		StartedAt:   startTime.UTC(),
		FinishedAt:  startTime.Add(result.Duration).UTC(),
	}
	if runErr != nil {
		run.ErrorCode = ErrorCode(runErr)
		run.Error = runErr.Error()
	}

	// A cancelled run is still recorded.
	if err := s.store.Record(context.WithoutCancel(ctx), run); err != nil {
		s.logger.WithError(err).WithField("run_id", run.RunID).Warn("Failed to record summary run")
	}
}

// ErrorCode returns the taxonomy code of err, or INTERNAL_ERROR when it carries none.
func ErrorCode(err error) string {
	var coded domain.Coded
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return domain.ErrInternal
}
