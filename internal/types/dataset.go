package types

import (
	"slices"

	"github.com/rxtech-lab/argo-alpha/pkg/errors"
	"github.com/rxtech-lab/argo-alpha/pkg/frame"
)

// RealizedDataset is the cleaned, aligned output of one fetch cycle.
//
// Prices, Sigmas and Volumes share columns (retained instruments without the
// risk-free symbol) and dates. They are forward filled, so a column can only
// be missing at its start. Returns covers the same dates minus the first
// and keeps the risk-free column. FactorReturns is indexed independently.
type RealizedDataset struct {
	Raw           map[string]RawTable
	Prices        *frame.Frame
	Sigmas        *frame.Frame
	Volumes       *frame.Frame
	Returns       *frame.Frame
	FactorReturns *frame.Frame
}

// Validate checks the alignment invariants between the four instrument
// matrices. A dataset that fails is never exposed to models.
func (d *RealizedDataset) Validate(riskFreeSymbol string) error {
	if d == nil || d.Prices == nil || d.Sigmas == nil || d.Volumes == nil || d.Returns == nil {
		return errors.New(errors.ErrCodeMisalignedFrames, "dataset is incomplete")
	}

	if !d.Prices.SameLabels(d.Sigmas) || !d.Prices.SameLabels(d.Volumes) {
		return errors.New(errors.ErrCodeMisalignedFrames, "prices, sigmas and volumes do not share labels")
	}

	if d.Prices.HasColumn(riskFreeSymbol) || d.Sigmas.HasColumn(riskFreeSymbol) || d.Volumes.HasColumn(riskFreeSymbol) {
		return errors.Newf(errors.ErrCodeMisalignedFrames, "risk-free symbol %s present in price-relative matrices", riskFreeSymbol)
	}

	if d.Prices.HasGap() || d.Sigmas.HasGap() || d.Volumes.HasGap() {
		return errors.New(errors.ErrCodeMisalignedFrames, "prices, sigmas or volumes have gaps after forward filling")
	}

	returnCols := d.Returns.DropColumns(riskFreeSymbol).Columns()
	if !slices.Equal(returnCols, d.Prices.Columns()) {
		return errors.Newf(errors.ErrCodeMisalignedFrames, "returns columns %v do not match price columns %v", returnCols, d.Prices.Columns())
	}

	priceIndex := d.Prices.Index()
	returnIndex := d.Returns.Index()

	if len(priceIndex) == 0 {
		if len(returnIndex) != 0 {
			return errors.New(errors.ErrCodeMisalignedFrames, "returns has rows but prices is empty")
		}

		return nil
	}

	if len(returnIndex) != len(priceIndex)-1 {
		return errors.Newf(errors.ErrCodeMisalignedFrames, "returns has %d rows, expected %d", len(returnIndex), len(priceIndex)-1)
	}

	for i, t := range returnIndex {
		if !t.Equal(priceIndex[i+1]) {
			return errors.Newf(errors.ErrCodeMisalignedFrames, "returns row %d (%s) does not follow price index", i, t.Format("2006-01-02"))
		}
	}

	return nil
}

// Symbols returns the instruments retained in the price-relative matrices.
func (d *RealizedDataset) Symbols() []string {
	if d == nil || d.Prices == nil {
		return nil
	}

	return d.Prices.Columns()
}
