package frame

import (
	"bytes"
	"encoding/gob"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type FrameTestSuite struct {
	suite.Suite
}

func TestFrameSuite(t *testing.T) {
	suite.Run(t, new(FrameTestSuite))
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func (suite *FrameTestSuite) TestNewValidatesShape() {
	_, err := New([]time.Time{day(1), day(2)}, []string{"A"}, [][]float64{{1}})
	suite.Error(err)

	_, err = New([]time.Time{day(2), day(1)}, []string{"A"}, [][]float64{{1, 2}})
	suite.Error(err)

	_, err = New([]time.Time{day(1)}, []string{"A", "A"}, [][]float64{{1}, {2}})
	suite.Error(err)

	f, err := New([]time.Time{day(1), day(2)}, []string{"A"}, [][]float64{{1, 2}})
	suite.NoError(err)
	suite.Equal(2, f.Len())
	suite.Equal(1, f.Width())
}

func (suite *FrameTestSuite) TestFromSeriesOuterJoin() {
	f := FromSeries([]string{"B", "A", "C"}, map[string]Series{
		"A": {Index: []time.Time{day(1), day(3)}, Values: []float64{1, 3}},
		"B": {Index: []time.Time{day(2), day(3)}, Values: []float64{20, 30}},
	})

	suite.Equal([]string{"B", "A", "C"}, f.Columns())
	suite.Equal([]time.Time{day(1), day(2), day(3)}, f.Index())

	a, ok := f.Column("A")
	suite.True(ok)
	suite.Equal(1.0, a[0])
	suite.True(math.IsNaN(a[1]))
	suite.Equal(3.0, a[2])

	c, ok := f.Column("C")
	suite.True(ok)
	for _, v := range c {
		suite.True(math.IsNaN(v))
	}
}

func (suite *FrameTestSuite) TestNullCounts() {
	nan := math.NaN()
	f, err := New([]time.Time{day(1), day(2), day(3)}, []string{"A", "B"}, [][]float64{{1, nan, nan}, {nan, 2, 3}})
	suite.Require().NoError(err)

	suite.Equal([]int{2, 1}, f.NullCountByColumn())
	suite.Equal([]int{1, 1, 1}, f.NullCountByRow())
	suite.True(f.HasGap())
	suite.False(f.ForwardFill().HasGap())
}

func (suite *FrameTestSuite) TestLeadingNaNIsNotAGap() {
	nan := math.NaN()
	f, err := New([]time.Time{day(1), day(2), day(3)}, []string{"A", "B"}, [][]float64{{nan, nan, 3}, {nan, nan, nan}})
	suite.Require().NoError(err)

	suite.False(f.HasGap())

	g, err := New([]time.Time{day(1), day(2), day(3)}, []string{"A"}, [][]float64{{1, nan, 3}})
	suite.Require().NoError(err)
	suite.True(g.HasGap())
}

func (suite *FrameTestSuite) TestForwardFillKeepsLeadingNaN() {
	nan := math.NaN()
	f, err := New([]time.Time{day(1), day(2), day(3), day(4)}, []string{"A"}, [][]float64{{nan, 2, nan, nan}})
	suite.Require().NoError(err)

	filled, _ := f.ForwardFill().Column("A")
	suite.True(math.IsNaN(filled[0]))
	suite.Equal([]float64{2, 2, 2}, filled[1:])

	// the source frame is untouched
	orig, _ := f.Column("A")
	suite.True(math.IsNaN(orig[2]))
}

func (suite *FrameTestSuite) TestDropColumnsAndDates() {
	f, err := New([]time.Time{day(1), day(2), day(3)}, []string{"A", "B", "C"}, [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})
	suite.Require().NoError(err)

	out := f.DropColumns("B", "missing").DropDates([]time.Time{day(2), day(9)})
	suite.Equal([]string{"A", "C"}, out.Columns())
	suite.Equal([]time.Time{day(1), day(3)}, out.Index())
	suite.Equal(9.0, out.At(1, "C"))

	head := f.DropHead(1)
	suite.Equal([]time.Time{day(2), day(3)}, head.Index())
	suite.Equal(0, f.DropHead(5).Len())
}

func (suite *FrameTestSuite) TestCombineAlignsOnReceiver() {
	a, err := New([]time.Time{day(1), day(2)}, []string{"X", "Y"}, [][]float64{{1, 2}, {3, 4}})
	suite.Require().NoError(err)
	b, err := New([]time.Time{day(2)}, []string{"X"}, [][]float64{{10}})
	suite.Require().NoError(err)

	out := a.Mul(b)
	suite.True(out.SameLabels(a))
	suite.True(math.IsNaN(out.At(0, "X")))
	suite.Equal(20.0, out.At(1, "X"))
	suite.True(math.IsNaN(out.At(1, "Y")))

	diff := a.Combine(a, func(x, y float64) float64 { return x - y })
	suite.Equal(0.0, diff.At(1, "Y"))
}

func (suite *FrameTestSuite) TestEmptyFrames() {
	noRows, err := New(nil, []string{"A", "B"}, [][]float64{{}, {}})
	suite.Require().NoError(err)

	suite.Equal([]int{0, 0}, noRows.NullCountByColumn())
	suite.Equal(0, noRows.ForwardFill().Len())
	suite.Equal(0, noRows.PctChange().Len())
	suite.Equal([]string{"B"}, noRows.DropColumns("A").Columns())
	suite.Equal(0, noRows.Mul(noRows).Len())
	suite.True(math.IsNaN(noRows.At(0, "A")))

	values, ok := noRows.Column("A")
	suite.True(ok)
	suite.Empty(values)

	withRF, err := noRows.WithColumn("RF", nil)
	suite.Require().NoError(err)
	suite.Equal([]string{"A", "B", "RF"}, withRF.Columns())

	full, err := New([]time.Time{day(1), day(2)}, []string{"A"}, [][]float64{{1, 2}})
	suite.Require().NoError(err)

	noColumns := full.DropColumns("A")
	suite.Equal(2, noColumns.Len())
	suite.Equal([]int{0, 0}, noColumns.NullCountByRow())
	suite.Equal(1, noColumns.DropHead(1).Len())
	suite.False(noColumns.HasGap())
}

func (suite *FrameTestSuite) TestPctChange() {
	f, err := New([]time.Time{day(1), day(2), day(3)}, []string{"A"}, [][]float64{{100, 110, 99}})
	suite.Require().NoError(err)

	r, _ := f.PctChange().Column("A")
	suite.True(math.IsNaN(r[0]))
	suite.InDelta(0.1, r[1], 1e-12)
	suite.InDelta(-0.1, r[2], 1e-12)
}

func (suite *FrameTestSuite) TestWithColumn() {
	f, err := New([]time.Time{day(1), day(2)}, []string{"A"}, [][]float64{{1, 2}})
	suite.Require().NoError(err)

	replaced, err := f.WithColumn("A", []float64{5, 6})
	suite.NoError(err)
	suite.Equal(6.0, replaced.At(1, "A"))

	appended, err := f.WithColumn("B", []float64{7, 8})
	suite.NoError(err)
	suite.Equal([]string{"A", "B"}, appended.Columns())

	_, err = f.WithColumn("C", []float64{1})
	suite.Error(err)
}

func (suite *FrameTestSuite) TestEqualTreatsNaNAsEqual() {
	nan := math.NaN()
	a, _ := New([]time.Time{day(1)}, []string{"A"}, [][]float64{{nan}})
	b, _ := New([]time.Time{day(1)}, []string{"A"}, [][]float64{{nan}})
	c, _ := New([]time.Time{day(1)}, []string{"A"}, [][]float64{{1}})

	suite.True(a.Equal(b))
	suite.False(a.Equal(c))
}

func (suite *FrameTestSuite) TestGobRoundTrip() {
	nan := math.NaN()
	f, err := New([]time.Time{day(1), day(2)}, []string{"A", "B"}, [][]float64{{1, nan}, {3, 4}})
	suite.Require().NoError(err)

	var buf bytes.Buffer
	suite.Require().NoError(gob.NewEncoder(&buf).Encode(f))

	var decoded Frame
	suite.Require().NoError(gob.NewDecoder(&buf).Decode(&decoded))
	suite.True(f.Equal(&decoded))
	suite.Equal(4.0, decoded.At(1, "B"))
	suite.True(math.IsNaN(decoded.At(1, "A")))
}

func (suite *FrameTestSuite) TestGobRoundTripWithoutRows() {
	f, err := New(nil, []string{"A"}, [][]float64{{}})
	suite.Require().NoError(err)

	var buf bytes.Buffer
	suite.Require().NoError(gob.NewEncoder(&buf).Encode(f))

	var decoded Frame
	suite.Require().NoError(gob.NewDecoder(&buf).Decode(&decoded))
	suite.True(f.Equal(&decoded))
	suite.Equal([]string{"A"}, decoded.Columns())
}
