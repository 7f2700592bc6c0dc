// Package historical is the reference alpha model: the predicted return of
// each instrument is its mean return over a trailing window.
package historical

import (
	"context"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rxtech-lab/argo-alpha/internal/types"
	"github.com/rxtech-lab/argo-alpha/pkg/errors"
	"github.com/rxtech-lab/argo-alpha/pkg/frame"
	"gonum.org/v1/gonum/stat"
)

// Name identifies the model in logs and results.
const Name = "historical"

// DefaultLookback is the trailing window in trading days.
const DefaultLookback = 20

// Statistics accepted by PredictionQuality.
const (
	StatisticMSE         = "mse"
	StatisticMAE         = "mae"
	StatisticCorrelation = "correlation"
	StatisticHitRate     = "hit_rate"
)

// Model predicts tomorrow's return as the trailing mean of realized returns.
type Model struct {
	lookback int

	mu          sync.RWMutex
	returns     *frame.Frame
	predictions *frame.Frame
}

// New creates a model with the given window. A non-positive lookback selects
// DefaultLookback.
func New(lookback int) *Model {
	if lookback <= 0 {
		lookback = DefaultLookback
	}

	return &Model{
		lookback:    lookback,
		returns:     nil,
		predictions: nil,
	}
}

// NewFromParams reads the optional "lookback" entry of the model params.
func NewFromParams(params map[string]any) (*Model, error) {
	raw, ok := params["lookback"]
	if !ok {
		return New(DefaultLookback), nil
	}

	switch v := raw.(type) {
	case int:
		return New(v), nil
	case float64:
		if v != math.Trunc(v) {
			return nil, errors.Newf(errors.ErrCodeInvalidParameter, "lookback must be a whole number, got %v", v)
		}

		return New(int(v)), nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "lookback must be a number, got %T", raw)
	}
}

// Lookback returns the trailing window.
func (m *Model) Lookback() int {
	return m.lookback
}

// Name implements alpha.Model.
func (m *Model) Name() string {
	return Name
}

// Train implements alpha.Model.
func (m *Model) Train(ctx context.Context, dataset *types.RealizedDataset) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeModelNotTrained, "training cancelled", err)
	}

	if dataset == nil || dataset.Returns == nil {
		return errors.New(errors.ErrCodeModelNotTrained, "dataset has no returns")
	}

	returns := dataset.Returns
	if returns.Len() <= m.lookback {
		return errors.NewInsufficientDataErrorf(m.lookback+1, returns.Len(), "train",
			"%s needs more than %d return rows", Name, m.lookback)
	}

	predictions := m.rollingMean(returns)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.returns = returns
	m.predictions = predictions

	return nil
}

// rollingMean predicts row t from rows t-lookback..t-1. The first lookback
// rows have no prediction.
func (m *Model) rollingMean(returns *frame.Frame) *frame.Frame {
	columns := returns.Columns()
	values := make([][]float64, len(columns))

	for c, name := range columns {
		series, _ := returns.Column(name)
		out := make([]float64, len(series))

		for t := range series {
			if t < m.lookback {
				out[t] = math.NaN()

				continue
			}

			out[t] = finiteMean(series[t-m.lookback : t])
		}

		values[c] = out
	}

	f, _ := frame.New(returns.Index(), columns, values)

	return f
}

func (m *Model) trained() (*frame.Frame, *frame.Frame, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.predictions == nil {
		return nil, nil, errors.Newf(errors.ErrCodeModelNotTrained, "%s model has not been trained", Name)
	}

	return m.returns, m.predictions, nil
}

// Predict implements alpha.Model.
func (m *Model) Predict(_ context.Context) (*frame.Frame, error) {
	_, predictions, err := m.trained()
	if err != nil {
		return nil, err
	}

	return predictions, nil
}

// PredictNext implements alpha.Model. The single row is dated the calendar
// day after the last realized return.
func (m *Model) PredictNext(_ context.Context) (*frame.Frame, error) {
	returns, _, err := m.trained()
	if err != nil {
		return nil, err
	}

	columns := returns.Columns()
	values := make([][]float64, len(columns))
	last := returns.Len()

	for c, name := range columns {
		series, _ := returns.Column(name)
		values[c] = []float64{finiteMean(series[last-m.lookback : last])}
	}

	index := []time.Time{returns.Index()[last-1].AddDate(0, 0, 1)}

	next, err := frame.New(index, columns, values)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeModelNotTrained, "failed to build prediction", err)
	}

	return next, nil
}

// PredictionQuality implements alpha.Model. The default statistic is the mean
// squared error; cells where either side is NaN are skipped.
func (m *Model) PredictionQuality(statistic string) (float64, error) {
	returns, predictions, err := m.trained()
	if err != nil {
		return math.NaN(), err
	}

	if statistic == "" {
		statistic = StatisticMSE
	}

	predicted, realized := pairs(predictions, returns)
	if len(predicted) == 0 {
		return math.NaN(), errors.NewInsufficientDataError(1, 0, "quality", "no overlapping predictions")
	}

	switch statistic {
	case StatisticMSE:
		return meanOf(predicted, realized, func(p, r float64) float64 { return (p - r) * (p - r) }), nil
	case StatisticMAE:
		return meanOf(predicted, realized, func(p, r float64) float64 { return math.Abs(p - r) }), nil
	case StatisticCorrelation:
		return stat.Correlation(predicted, realized, nil), nil
	case StatisticHitRate:
		return meanOf(predicted, realized, func(p, r float64) float64 {
			if math.Signbit(p) == math.Signbit(r) {
				return 1
			}

			return 0
		}), nil
	default:
		return math.NaN(), errors.Newf(errors.ErrCodeUnknownStatistic,
			"unknown statistic %q, expected one of mse, mae, correlation or hit_rate", statistic)
	}
}

// ShowResults implements alpha.Model.
func (m *Model) ShowResults(w io.Writer) error {
	returns, predictions, err := m.trained()
	if err != nil {
		return err
	}

	next, err := m.PredictNext(context.Background())
	if err != nil {
		return err
	}

	rows := make([][]string, 0, returns.Width())

	for _, name := range returns.Columns() {
		realized, _ := returns.Column(name)
		predicted, _ := predictions.Column(name)
		p, r := finitePairs(predicted, realized)

		rows = append(rows, []string{
			name,
			fmt.Sprintf("%.6f", finiteMean(realized)),
			fmt.Sprintf("%.6f", next.At(0, name)),
			fmt.Sprintf("%.3f", stat.Correlation(p, r, nil)),
		})
	}

	header := lipgloss.NewStyle().Bold(true)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}

			return lipgloss.NewStyle()
		}).
		Headers("Instrument", "Mean return", "Next", "Correlation").
		Rows(rows...)

	mse, _ := m.PredictionQuality(StatisticMSE)
	hit, _ := m.PredictionQuality(StatisticHitRate)

	_, err = fmt.Fprintf(w, "%s (lookback %d) next %s\n%s\nmse %.8f  hit rate %.3f\n",
		header.Render(Name), m.lookback, next.Index()[0].Format(time.DateOnly), t.Render(), mse, hit)

	return err
}

func pairs(predictions *frame.Frame, returns *frame.Frame) ([]float64, []float64) {
	var predicted, realized []float64

	for _, name := range returns.Columns() {
		r, _ := returns.Column(name)
		p, _ := predictions.Column(name)
		fp, fr := finitePairs(p, r)
		predicted = append(predicted, fp...)
		realized = append(realized, fr...)
	}

	return predicted, realized
}

func finitePairs(a []float64, b []float64) ([]float64, []float64) {
	outA := make([]float64, 0, len(a))
	outB := make([]float64, 0, len(b))

	for i := range a {
		if isFinite(a[i]) && isFinite(b[i]) {
			outA = append(outA, a[i])
			outB = append(outB, b[i])
		}
	}

	return outA, outB
}

func finiteMean(values []float64) float64 {
	finite := make([]float64, 0, len(values))

	for _, v := range values {
		if isFinite(v) {
			finite = append(finite, v)
		}
	}

	if len(finite) == 0 {
		return math.NaN()
	}

	return stat.Mean(finite, nil)
}

func meanOf(predicted []float64, realized []float64, fn func(p, r float64) float64) float64 {
	scores := make([]float64, len(predicted))
	for i := range predicted {
		scores[i] = fn(predicted[i], realized[i])
	}

	return stat.Mean(scores, nil)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
