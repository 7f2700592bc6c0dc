package pipeline

import (
	"context"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-alpha/internal/logger"
	"github.com/rxtech-lab/argo-alpha/internal/metrics"
	"github.com/rxtech-lab/argo-alpha/internal/types"
	"github.com/rxtech-lab/argo-alpha/pkg/errors"
	"github.com/rxtech-lab/argo-alpha/pkg/marketdata/provider"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// OnFetchProgress is called after each ticker completes. Calls are serialized.
type OnFetchProgress func(done int, total int, ticker string)

// FetchResult is the raw output of a fetch: tables keyed by ticker and the
// tickers that had data, in universe order.
type FetchResult struct {
	Tables  map[string]types.RawTable
	Order   []string
	Missing []string
}

// FetcherOptions tunes a Fetcher. Zero values give a sequential, unthrottled fetch.
type FetcherOptions struct {
	// Concurrency is the number of tickers fetched at once. Values below 2 fetch sequentially.
	Concurrency int
	// RequestsPerSecond caps the request rate. Zero disables the limit.
	RequestsPerSecond float64
	// OnProgress is notified as tickers complete.
	OnProgress OnFetchProgress
}

// Fetcher calls the data source once per ticker of a universe.
type Fetcher struct {
	source  provider.Provider
	options FetcherOptions
	limiter *rate.Limiter
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// NewFetcher creates a Fetcher over source.
func NewFetcher(source provider.Provider, options FetcherOptions, log *logger.Logger, m *metrics.Metrics) *Fetcher {
	var limiter *rate.Limiter
	if options.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(options.RequestsPerSecond), 1)
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Fetcher{
		source:  source,
		options: options,
		limiter: limiter,
		logger:  log,
		metrics: m,
	}
}

// Fetch requests every distinct ticker of universe between start and end.
// Tickers without data are left out of the result; any other source error
// aborts the fetch. The result is ordered by universe order whatever the
// completion order.
func (f *Fetcher) Fetch(ctx context.Context, universe []string, start time.Time, end time.Time) (FetchResult, error) {
	began := time.Now()
	tickers := dedupe(universe)
	results := make([]optional.Option[types.RawTable], len(tickers))

	progress := make(chan string, len(tickers))
	progressDone := make(chan struct{})

	go func() {
		defer close(progressDone)

		done := 0
		for ticker := range progress {
			done++
			if f.options.OnProgress != nil {
				f.options.OnProgress(done, len(tickers), ticker)
			}
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	if f.options.Concurrency > 1 {
		g.SetLimit(f.options.Concurrency)
	} else {
		g.SetLimit(1)
	}

	for i, ticker := range tickers {
		i, ticker := i, ticker
		g.Go(func() error {
			table, err := f.fetchOne(gctx, ticker, start, end)
			if err != nil {
				return err
			}

			results[i] = table
			progress <- ticker

			return nil
		})
	}

	err := g.Wait()

	close(progress)
	<-progressDone

	if err != nil {
		return FetchResult{}, err
	}

	result := FetchResult{
		Tables:  make(map[string]types.RawTable, len(tickers)),
		Order:   make([]string, 0, len(tickers)),
		Missing: nil,
	}

	for i, ticker := range tickers {
		if results[i].IsNone() {
			result.Missing = append(result.Missing, ticker)

			continue
		}

		result.Tables[ticker] = results[i].Unwrap()
		result.Order = append(result.Order, ticker)
	}

	if f.metrics != nil {
		f.metrics.TickersTotal.WithLabelValues("fetched").Add(float64(len(result.Order)))
		f.metrics.TickersTotal.WithLabelValues("missing").Add(float64(len(result.Missing)))
		f.metrics.FetchDuration.Observe(time.Since(began).Seconds())
	}

	f.logger.Info("Fetched raw data",
		zap.Int("requested", len(tickers)),
		zap.Int("fetched", len(result.Order)),
		zap.Strings("missing", result.Missing),
		zap.Duration("elapsed", time.Since(began)),
	)

	return result, nil
}

func (f *Fetcher) fetchOne(ctx context.Context, ticker string, start time.Time, end time.Time) (optional.Option[types.RawTable], error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return optional.None[types.RawTable](), err
		}
	}

	f.logger.Debug("Fetching ticker", zap.String("ticker", ticker))

	table, err := f.source.Fetch(ctx, ticker, start, end)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeDataNotFound) {
			f.logger.Debug("No data for ticker", zap.String("ticker", ticker))

			return optional.None[types.RawTable](), nil
		}

		return optional.None[types.RawTable](), errors.Wrapf(errors.ErrCodePipelineFailed, err, "fetch of %s failed", ticker)
	}

	if table.IsSome() {
		if err := table.Unwrap().Validate(); err != nil {
			return optional.None[types.RawTable](), errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "source returned a malformed table for %s", ticker)
		}

		if table.Unwrap().Len() == 0 {
			return optional.None[types.RawTable](), nil
		}
	}

	return table, nil
}

func dedupe(universe []string) []string {
	seen := make(map[string]struct{}, len(universe))
	out := make([]string, 0, len(universe))

	for _, ticker := range universe {
		if _, ok := seen[ticker]; ok {
			continue
		}

		seen[ticker] = struct{}{}
		out = append(out, ticker)
	}

	return out
}
