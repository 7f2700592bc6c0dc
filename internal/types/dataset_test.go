package types

import (
	"math"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-alpha/pkg/errors"
	"github.com/rxtech-lab/argo-alpha/pkg/frame"
	"github.com/stretchr/testify/suite"
)

type DatasetTestSuite struct {
	suite.Suite
}

func TestDatasetSuite(t *testing.T) {
	suite.Run(t, new(DatasetTestSuite))
}

func dates(n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC)
	}

	return out
}

func (suite *DatasetTestSuite) mustFrame(index []time.Time, columns []string, values [][]float64) *frame.Frame {
	f, err := frame.New(index, columns, values)
	suite.Require().NoError(err)

	return f
}

func (suite *DatasetTestSuite) validDataset() *RealizedDataset {
	idx := dates(3)
	prices := suite.mustFrame(idx, []string{"A"}, [][]float64{{10, 11, 12}})

	return &RealizedDataset{
		Raw:     map[string]RawTable{},
		Prices:  prices,
		Sigmas:  suite.mustFrame(idx, []string{"A"}, [][]float64{{0.1, 0.1, 0.1}}),
		Volumes: suite.mustFrame(idx, []string{"A"}, [][]float64{{100, 110, 120}}),
		Returns: suite.mustFrame(idx[1:], []string{"A", "RF"}, [][]float64{{0.1, 0.09}, {0.0001, 0.0001}}),
	}
}

func (suite *DatasetTestSuite) TestValidDataset() {
	ds := suite.validDataset()
	suite.NoError(ds.Validate("RF"))
	suite.Equal([]string{"A"}, ds.Symbols())
}

func (suite *DatasetTestSuite) TestRiskFreeInPrices() {
	ds := suite.validDataset()
	ds.Prices = suite.mustFrame(dates(3), []string{"A", "RF"}, [][]float64{{10, 11, 12}, {1, 1, 1}})

	err := ds.Validate("RF")
	suite.True(errors.HasCode(err, errors.ErrCodeMisalignedFrames))
}

func (suite *DatasetTestSuite) TestMissingValues() {
	ds := suite.validDataset()
	ds.Volumes = suite.mustFrame(dates(3), []string{"A"}, [][]float64{{100, math.NaN(), 120}})

	suite.Error(ds.Validate("RF"))
}

func (suite *DatasetTestSuite) TestLeadingMissingValuesAreAllowed() {
	ds := suite.validDataset()
	ds.Prices = suite.mustFrame(dates(3), []string{"A"}, [][]float64{{math.NaN(), 11, 12}})
	ds.Sigmas = suite.mustFrame(dates(3), []string{"A"}, [][]float64{{math.NaN(), math.NaN(), math.NaN()}})

	suite.NoError(ds.Validate("RF"))
}

func (suite *DatasetTestSuite) TestReturnsIndexMustTrailPrices() {
	ds := suite.validDataset()
	ds.Returns = suite.mustFrame(dates(2), []string{"A", "RF"}, [][]float64{{0.1, 0.09}, {0, 0}})

	suite.Error(ds.Validate("RF"))
}

func (suite *DatasetTestSuite) TestIncomplete() {
	var ds *RealizedDataset
	suite.Error(ds.Validate("RF"))
	suite.Nil(ds.Symbols())
}
