package pipeline

import (
	"math"

	"github.com/rxtech-lab/argo-alpha/pkg/errors"
	"github.com/rxtech-lab/argo-alpha/pkg/frame"
	"github.com/shopspring/decimal"
)

// RiskFreeParams controls how a quoted rate becomes a price index.
//
// The risk-free column arrives as an annualized rate. Each day it accrues
// rate/Divisor, so with rates in percent and 250 trading days a year the
// divisor is 100*250. The index starts at Base.
type RiskFreeParams struct {
	Base    float64 `yaml:"base" json:"base" jsonschema:"title=Base,description=Starting level of the compounded index,default=10000" validate:"gt=0"`
	Divisor float64 `yaml:"divisor" json:"divisor" jsonschema:"title=Divisor,description=Converts the quoted rate to a daily return,default=25000" validate:"gt=0"`
}

// DefaultRiskFreeParams returns a base of 10000 and a divisor of 25000.
func DefaultRiskFreeParams() RiskFreeParams {
	return RiskFreeParams{Base: 10000, Divisor: 25000}
}

// compounding keeps this many decimal places of the running product.
const compoundingPrecision = 24

// CompoundRate turns a daily series of quoted rates into Base × Π(1 + rate/Divisor).
// A NaN rate yields NaN at its position and is skipped by the running product.
func CompoundRate(rates []float64, params RiskFreeParams) []float64 {
	out := make([]float64, len(rates))
	one := decimal.NewFromInt(1)
	divisor := decimal.NewFromFloat(params.Divisor)
	base := decimal.NewFromFloat(params.Base)
	product := one

	for i, r := range rates {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			out[i] = math.NaN()

			continue
		}

		growth := one.Add(decimal.NewFromFloat(r).DivRound(divisor, compoundingPrecision))
		product = product.Mul(growth).Round(compoundingPrecision)
		out[i] = base.Mul(product).InexactFloat64()
	}

	return out
}

// ApplyRiskFree replaces the symbol column of prices with its compounded index.
func ApplyRiskFree(prices *frame.Frame, symbol string, params RiskFreeParams) (*frame.Frame, error) {
	rates, ok := prices.Column(symbol)
	if !ok {
		return nil, errors.Newf(errors.ErrCodeRiskFreeMissing, "risk-free symbol %s has no data", symbol)
	}

	out, err := prices.WithColumn(symbol, CompoundRate(rates, params))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePipelineFailed, "failed to replace risk-free column", err)
	}

	return out, nil
}
