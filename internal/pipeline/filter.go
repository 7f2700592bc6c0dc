package pipeline

import (
	"math"
	"sort"
	"time"

	"github.com/rxtech-lab/argo-alpha/pkg/frame"
)

// Thresholds are the quality filter limits.
type Thresholds struct {
	// MaxAssetNaNFraction drops an instrument whose price is missing on more than this share of dates.
	MaxAssetNaNFraction float64 `yaml:"max_asset_nan_fraction" json:"max_asset_nan_fraction" jsonschema:"title=Max asset NaN fraction,default=0.02" validate:"gte=0,lte=1"`
	// MaxDayNaNFraction drops a date on which more than this share of instruments is missing.
	MaxDayNaNFraction float64 `yaml:"max_day_nan_fraction" json:"max_day_nan_fraction" jsonschema:"title=Max day NaN fraction,default=0.9" validate:"gte=0,lte=1"`
	// MinReturn and MaxReturn bound plausible daily returns.
	MinReturn float64 `yaml:"min_return" json:"min_return" jsonschema:"title=Min daily return,default=-0.5" validate:"ltfield=MaxReturn"`
	MaxReturn float64 `yaml:"max_return" json:"max_return" jsonschema:"title=Max daily return,default=2"`
}

// DefaultThresholds returns 2% per asset, 90% per day and returns in [-0.5, 2.0].
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxAssetNaNFraction: 0.02,
		MaxDayNaNFraction:   0.9,
		MinReturn:           -0.5,
		MaxReturn:           2.0,
	}
}

// matrices is the working set every pass transforms. returns is nil until
// returns are computed.
type matrices struct {
	prices  *frame.Frame
	sigmas  *frame.Frame
	volumes *frame.Frame
	returns *frame.Frame
}

func (m matrices) dropColumns(names ...string) matrices {
	out := matrices{
		prices:  m.prices.DropColumns(names...),
		sigmas:  m.sigmas.DropColumns(names...),
		volumes: m.volumes.DropColumns(names...),
		returns: nil,
	}

	if m.returns != nil {
		out.returns = m.returns.DropColumns(names...)
	}

	return out
}

// sparseAssets lists the columns of prices missing on more than maxFraction of its rows.
func sparseAssets(prices *frame.Frame, maxFraction float64) []string {
	limit := float64(prices.Len()) * maxFraction
	columns := prices.Columns()

	var out []string

	for c, count := range prices.NullCountByColumn() {
		if float64(count) > limit {
			out = append(out, columns[c])
		}
	}

	return out
}

// dropSparseAssets removes instruments whose price is too often missing.
func dropSparseAssets(m matrices, maxFraction float64) (matrices, []string) {
	dropped := sparseAssets(m.prices, maxFraction)

	return m.dropColumns(dropped...), dropped
}

// sparseDays lists, ascending, the dates on which sigma, price or volume is
// missing for more than maxFraction of the instruments.
func sparseDays(m matrices, maxFraction float64) []time.Time {
	limit := float64(m.prices.Width()) * maxFraction
	index := m.prices.Index()
	flagged := make(map[int]struct{})

	for _, f := range []*frame.Frame{m.sigmas, m.prices, m.volumes} {
		for r, count := range f.NullCountByRow() {
			if float64(count) > limit {
				flagged[r] = struct{}{}
			}
		}
	}

	rows := make([]int, 0, len(flagged))
	for r := range flagged {
		rows = append(rows, r)
	}

	sort.Ints(rows)

	out := make([]time.Time, len(rows))
	for i, r := range rows {
		out[i] = index[r]
	}

	return out
}

// dropSparseDays removes dates on which too many instruments are missing.
// The instrument count is taken from the matrices as passed in.
func dropSparseDays(m matrices, maxFraction float64) (matrices, []time.Time) {
	days := sparseDays(m, maxFraction)

	return matrices{
		prices:  m.prices.DropDates(days),
		sigmas:  m.sigmas.DropDates(days),
		volumes: m.volumes.DropDates(days),
		returns: m.returns,
	}, days
}

// dubiousAssets lists the columns of returns holding any value outside [minReturn, maxReturn].
func dubiousAssets(returns *frame.Frame, minReturn float64, maxReturn float64) []string {
	var out []string

	for _, name := range returns.Columns() {
		values, _ := returns.Column(name)
		for _, r := range values {
			if !math.IsNaN(r) && (r < minReturn || r > maxReturn) {
				out = append(out, name)

				break
			}
		}
	}

	return out
}

// dropDubiousReturns removes instruments with implausible returns from all four matrices.
func dropDubiousReturns(m matrices, minReturn float64, maxReturn float64) (matrices, []string) {
	dropped := dubiousAssets(m.returns, minReturn, maxReturn)

	return m.dropColumns(dropped...), dropped
}
