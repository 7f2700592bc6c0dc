package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type RawTableTestSuite struct {
	suite.Suite
}

func TestRawTableSuite(t *testing.T) {
	suite.Run(t, new(RawTableTestSuite))
}

func (suite *RawTableTestSuite) TestFromMarketDataSortsAndNormalizes() {
	bars := []MarketData{
		{Symbol: "AAPL", Time: time.Date(2024, 1, 3, 5, 0, 0, 0, time.UTC), Open: 3, High: 4, Low: 2, Close: 3.5, Volume: 300},
		{Symbol: "AAPL", Time: time.Date(2024, 1, 2, 5, 0, 0, 0, time.UTC), Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 100},
		{Symbol: "AAPL", Time: time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), Open: 1.1, High: 2, Low: 0.5, Close: 1.6, Volume: 110},
	}

	table := RawTableFromMarketData("AAPL", bars)

	suite.NoError(table.Validate())
	suite.Equal(2, table.Len())
	suite.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), table.Dates[0])
	suite.Equal([]float64{1.6, 3.5}, table.Fields[FieldClose])
	suite.Equal([]float64{110, 300}, table.Fields[FieldVolume])
	suite.Equal([]string{FieldClose, FieldHigh, FieldLow, FieldOpen, FieldVolume}, table.FieldNames())
}

func (suite *RawTableTestSuite) TestFirstField() {
	table := NewRawTable("DFF")
	table.Dates = []time.Time{time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}
	table.Fields[FieldValue] = []float64{5.33}

	name, values, ok := table.FirstField(FieldAdjClose, FieldClose, FieldValue)
	suite.True(ok)
	suite.Equal(FieldValue, name)
	suite.Equal([]float64{5.33}, values)

	_, _, ok = table.FirstField(FieldOpen)
	suite.False(ok)
}

func (suite *RawTableTestSuite) TestValidate() {
	table := NewRawTable("X")
	table.Dates = []time.Time{time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)}
	table.Fields[FieldClose] = []float64{1}
	suite.Error(table.Validate())

	table.Fields[FieldClose] = []float64{1, 2}
	suite.NoError(table.Validate())

	table.Dates[1] = table.Dates[0]
	suite.Error(table.Validate())
}
