// Package alpha is the base of an alpha model: it resolves the universe,
// refreshes the realized dataset once per day through the data pipeline and
// hands it to a Model for training and prediction.
package alpha

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-alpha/internal/logger"
	"github.com/rxtech-lab/argo-alpha/internal/metrics"
	"github.com/rxtech-lab/argo-alpha/internal/pipeline"
	"github.com/rxtech-lab/argo-alpha/internal/snapshot"
	"github.com/rxtech-lab/argo-alpha/internal/types"
	"github.com/rxtech-lab/argo-alpha/pkg/errors"
	"github.com/rxtech-lab/argo-alpha/pkg/factor"
	"github.com/rxtech-lab/argo-alpha/pkg/marketdata/provider"
	"go.uber.org/zap"
)

// State is the lifecycle state of a Base.
type State int

const (
	StateUninitialized State = iota
	StateConfigured
	StateLoaded
	StateFetching
	StateFetched
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateConfigured:
		return "configured"
	case StateLoaded:
		return "loaded"
	case StateFetching:
		return "fetching"
	case StateFetched:
		return "fetched"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Option customizes a Base.
type Option func(*Base)

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(b *Base) { b.logger = log }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Base) { b.metrics = m }
}

// WithSource replaces the provider built from the data_source section.
func WithSource(source provider.Provider) Option {
	return func(b *Base) { b.source = source }
}

// WithFactorSource replaces the Fama-French factor source.
func WithFactorSource(source factor.Source) Option {
	return func(b *Base) { b.factors = source }
}

// WithStore replaces the snapshot file store.
func WithStore(store snapshot.Store) Option {
	return func(b *Base) { b.store = store }
}

// WithProgress is notified as tickers are fetched.
func WithProgress(onProgress pipeline.OnFetchProgress) Option {
	return func(b *Base) { b.onProgress = onProgress }
}

// Base owns the realized dataset of one model.
type Base struct {
	config     Config
	universe   Universe
	start      time.Time
	end        time.Time
	source     provider.Provider
	factors    factor.Source
	store      snapshot.Store
	closers    []io.Closer
	logger     *logger.Logger
	metrics    *metrics.Metrics
	onProgress pipeline.OnFetchProgress

	mu      sync.RWMutex
	state   State
	dataset *types.RealizedDataset
	report  optional.Option[pipeline.Report]
}

// New validates config, resolves the universe and wires the collaborators.
// Collaborators not supplied through options are built from config.
func New(config Config, opts ...Option) (*Base, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	universe, err := ResolveUniverse(config.Universe)
	if err != nil {
		return nil, err
	}

	start, end, err := config.Model.Dates()
	if err != nil {
		return nil, err
	}

	b := &Base{
		config:     config,
		universe:   universe,
		start:      start,
		end:        end,
		source:     nil,
		factors:    nil,
		store:      nil,
		closers:    nil,
		logger:     nil,
		metrics:    nil,
		onProgress: nil,
		state:      StateUninitialized,
		dataset:    nil,
		report:     optional.None[pipeline.Report](),
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger, err = logger.NewLogger()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to create logger", err)
		}
	}

	if b.metrics == nil {
		b.metrics = metrics.New(config.Name)
	}

	if b.source == nil {
		b.source, b.closers, err = newSource(config)
		if err != nil {
			return nil, err
		}
	}

	if b.factors == nil && !config.Factors.Skip {
		b.factors = factor.NewFamaFrench(config.Factors.BaseURL, b.logger)
	}

	if b.store == nil {
		b.store, err = snapshot.NewFileStore(config.Model.DataDir, config.Name, b.logger)
		if err != nil {
			return nil, err
		}
	}

	b.state = StateConfigured

	b.logger.Info("Alpha model configured",
		zap.String("name", config.Name),
		zap.Strings("universe", universe.Tickers),
		zap.String("risk_free", universe.RiskFreeSymbol),
		zap.String("start", config.Model.StartDate),
		zap.String("end", config.Model.EndDate),
	)

	return b, nil
}

// Config returns the validated configuration.
func (b *Base) Config() Config {
	return b.config
}

// Universe returns the resolved universe.
func (b *Base) Universe() Universe {
	return b.universe
}

// Metrics returns the metrics collector.
func (b *Base) Metrics() *metrics.Metrics {
	return b.metrics
}

// State returns the current lifecycle state.
func (b *Base) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.state
}

// Realized returns the dataset once the model is ready.
func (b *Base) Realized() (*types.RealizedDataset, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.state != StateReady || b.dataset == nil {
		return nil, errors.Newf(errors.ErrCodeModelNotReady, "model %s is %s, refresh it first", b.config.Name, b.state)
	}

	return b.dataset, nil
}

// Report returns the pipeline report of the last fetch. It is None when the
// dataset came from a snapshot.
func (b *Base) Report() optional.Option[pipeline.Report] {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.report
}

func (b *Base) setState(state State) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.logger.Debug("Lifecycle transition",
		zap.String("name", b.config.Name),
		zap.Stringer("from", b.state),
		zap.Stringer("to", state),
	)

	b.state = state
}

// Refresh makes the dataset ready. Unless force is set, today's snapshot is
// used when it matches the configuration; otherwise the pipeline runs and its
// result is saved over today's snapshot. On failure the previous dataset and
// state are kept and nothing is saved.
func (b *Base) Refresh(ctx context.Context, force bool) error {
	echo := b.config.Echo(b.universe)

	if !force {
		loaded, err := b.loadSnapshot(ctx, echo)
		if err != nil {
			b.metrics.RefreshesTotal.WithLabelValues(metrics.OutcomeFailed).Inc()

			return err
		}

		if loaded.IsSome() {
			state := loaded.Unwrap()
			b.publish(StateLoaded, &state.Dataset, optional.None[pipeline.Report]())
			b.metrics.RefreshesTotal.WithLabelValues(metrics.OutcomeCacheHit).Inc()

			return nil
		}
	}

	b.mu.Lock()
	previous := b.state
	b.mu.Unlock()

	b.setState(StateFetching)

	dataset, report, err := b.fetch(ctx)
	if err == nil {
		b.setState(StateFetched)

		err = b.store.Save(ctx, snapshot.State{
			Config:    echo,
			RunID:     report.RunID.String(),
			CreatedAt: time.Now().UTC(),
			Dataset:   *dataset,
		})
	}

	if err != nil {
		b.setState(previous)
		b.metrics.RefreshesTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		b.logger.Error("Refresh failed", zap.String("name", b.config.Name), zap.Error(err))

		return err
	}

	b.publish(StateFetched, dataset, optional.Some(report))
	b.metrics.RefreshesTotal.WithLabelValues(metrics.OutcomeFetched).Inc()

	return nil
}

// loadSnapshot returns today's snapshot when it can be reused. Stale,
// corrupt and incompatible snapshots are a miss; they are overwritten by the
// next save.
func (b *Base) loadSnapshot(ctx context.Context, echo snapshot.ConfigEcho) (optional.Option[snapshot.State], error) {
	loaded, err := b.store.Load(ctx)

	switch {
	case errors.HasCode(err, errors.ErrCodeSnapshotCorrupt), errors.HasCode(err, errors.ErrCodeSnapshotVersion):
		b.logger.Warn("Ignoring unusable snapshot", zap.String("name", b.config.Name), zap.Error(err))

		return optional.None[snapshot.State](), nil
	case err != nil:
		return optional.None[snapshot.State](), err
	case loaded.IsNone():
		return loaded, nil
	}

	state := loaded.Unwrap()

	if !state.Config.Equal(echo) {
		b.logger.Warn("Snapshot is stale, refetching",
			zap.String("name", b.config.Name),
			zap.String("run_id", state.RunID),
		)

		return optional.None[snapshot.State](), nil
	}

	if err := state.Dataset.Validate(b.universe.RiskFreeSymbol); err != nil {
		b.logger.Warn("Snapshot dataset is invalid, refetching", zap.String("name", b.config.Name), zap.Error(err))

		return optional.None[snapshot.State](), nil
	}

	return loaded, nil
}

// publish exposes a complete dataset and moves through from to READY.
func (b *Base) publish(from State, dataset *types.RealizedDataset, report optional.Option[pipeline.Report]) {
	b.setState(from)

	b.mu.Lock()
	b.dataset = dataset
	b.report = report
	b.mu.Unlock()

	b.setState(StateReady)

	b.logger.Info("Alpha model ready",
		zap.String("name", b.config.Name),
		zap.Stringer("via", from),
		zap.Int("instruments", len(dataset.Symbols())),
		zap.Int("rows", dataset.Prices.Len()),
	)
}

// fetch runs the pipeline and the factor fetch. Nothing is exposed here.
func (b *Base) fetch(ctx context.Context) (*types.RealizedDataset, pipeline.Report, error) {
	began := time.Now()

	fetcher := pipeline.NewFetcher(b.source, pipeline.FetcherOptions{
		Concurrency:       b.config.Fetch.Concurrency,
		RequestsPerSecond: b.config.Fetch.RequestsPerSecond,
		OnProgress:        b.onProgress,
	}, b.logger, b.metrics)

	fetched, err := fetcher.Fetch(ctx, b.universe.Symbols(), b.start, b.end)
	if err != nil {
		return nil, pipeline.Report{}, err
	}

	dataset, report, err := pipeline.New(b.config.PipelineConfig(), b.logger, b.metrics).
		Process(fetched.Tables, fetched.Order)
	if err != nil {
		return nil, report, err
	}

	if b.factors != nil {
		factors, err := b.factors.FetchFactorSet(ctx, b.config.Factors.Name, b.start, b.end)
		if err != nil {
			return nil, report, err
		}

		dataset.FactorReturns = factors
	}

	b.logger.Info("Fetched dataset",
		zap.String("name", b.config.Name),
		zap.String("run_id", report.RunID.String()),
		zap.Strings("missing", fetched.Missing),
		zap.Duration("elapsed", time.Since(began)),
	)

	return dataset, report, nil
}

// Run refreshes the dataset and trains model on it.
func (b *Base) Run(ctx context.Context, model Model, force bool) error {
	if err := b.Refresh(ctx, force); err != nil {
		return err
	}

	dataset, err := b.Realized()
	if err != nil {
		return err
	}

	runID := uuid.New()

	b.logger.Info("Training model",
		zap.String("name", b.config.Name),
		zap.String("model", model.Name()),
		zap.String("train_id", runID.String()),
	)

	if err := model.Train(ctx, dataset); err != nil {
		return errors.Wrapf(errors.ErrCodeModelNotTrained, err, "model %s failed to train", model.Name())
	}

	return nil
}

// Close releases the data sources built by New.
func (b *Base) Close() error {
	if err := closeAll(b.closers); err != nil {
		return errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to close data source", err)
	}

	return nil
}
