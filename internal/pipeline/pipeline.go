// Package pipeline turns per-ticker raw tables into the aligned price, sigma,
// dollar-volume and return matrices of a RealizedDataset.
//
// The passes run in a fixed order:
//
//  1. drop instruments whose price is missing too often
//  2. drop dates on which too many instruments are missing
//  3. forward-fill price, sigma and volume
//  4. drop the first row
//  5. multiply volume by price
//  6. compute forward-filled simple returns without their first row
//  7. drop instruments with an implausible return
//  8. drop the risk-free column from price, sigma and volume
//
// Before pass 1 the risk-free price column is replaced by its compounded index.
//
// Forward filling cannot reach a gap at the start of a series, so a retained
// instrument may keep leading NaNs in price, sigma or volume. An instrument
// priced from the Value field alone has no open or close and keeps an
// all-NaN sigma.
package pipeline

import (
	"slices"

	"github.com/rxtech-lab/argo-alpha/internal/logger"
	"github.com/rxtech-lab/argo-alpha/internal/metrics"
	"github.com/rxtech-lab/argo-alpha/internal/types"
	"github.com/rxtech-lab/argo-alpha/pkg/errors"
	"go.uber.org/zap"
)

// Config parameterizes a pipeline run.
type Config struct {
	RiskFreeSymbol string
	RiskFree       RiskFreeParams
	Thresholds     Thresholds
}

// Pipeline cleans and aligns raw tables.
type Pipeline struct {
	config  Config
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// New creates a Pipeline. log and m may be nil.
func New(config Config, log *logger.Logger, m *metrics.Metrics) *Pipeline {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Pipeline{
		config:  config,
		logger:  log,
		metrics: m,
	}
}

// Process runs every pass over tables, whose columns follow universe order.
// The returned dataset has no factor returns; those come from a separate source.
func (p *Pipeline) Process(tables map[string]types.RawTable, universe []string) (*types.RealizedDataset, Report, error) {
	rf := p.config.RiskFreeSymbol
	extracted := Extract(tables, universe)
	report := newReport(extracted.Prices.Columns())

	prices, err := ApplyRiskFree(extracted.Prices, rf, p.config.RiskFree)
	if err != nil {
		return nil, report, err
	}

	m := matrices{
		prices:  prices,
		sigmas:  extracted.Sigmas,
		volumes: extracted.Volumes,
		returns: nil,
	}

	th := p.config.Thresholds

	m, dropped := dropSparseAssets(m, th.MaxAssetNaNFraction)
	report.removeAssets(ReasonSparse, dropped, p.logger, p.metrics)

	m, days := dropSparseDays(m, th.MaxDayNaNFraction)
	report.removeDays(days, p.logger, p.metrics)

	m = forwardFill(m)
	m = dropLeadRow(m)

	m = dollarVolume(m)
	m = computeReturns(m)

	m, dropped = dropDubiousReturns(m, th.MinReturn, th.MaxReturn)
	report.removeAssets(ReasonDubious, dropped, p.logger, p.metrics)

	if slices.Contains(report.Removed(), rf) {
		return nil, report, errors.Newf(errors.ErrCodeRiskFreeMissing,
			"risk-free symbol %s was removed by the quality filter", rf)
	}

	m = excludeRiskFree(m, rf)

	if m.prices.Width() == 0 || m.returns.Len() == 0 {
		return nil, report, errors.NewInsufficientDataErrorf(2, m.prices.Len(), "align",
			"no usable data left: %d instruments over %d dates", m.prices.Width(), m.prices.Len())
	}

	dataset := &types.RealizedDataset{
		Raw:           tables,
		Prices:        m.prices,
		Sigmas:        m.sigmas,
		Volumes:       m.volumes,
		Returns:       m.returns,
		FactorReturns: nil,
	}

	if err := dataset.Validate(rf); err != nil {
		return nil, report, err
	}

	report.Rows = m.prices.Len()
	report.Columns = m.prices.Columns()
	report.ReturnRows = m.returns.Len()

	p.logger.Info("Pipeline complete",
		zap.String("run_id", report.RunID.String()),
		zap.Int("instruments", len(report.Instruments)),
		zap.Int("retained", len(report.Columns)),
		zap.Int("rows", report.Rows),
		zap.Int("removed_days", len(report.RemovedDays)),
	)

	return dataset, report, nil
}
