package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-alpha/internal/types"
	argoErrors "github.com/rxtech-lab/argo-alpha/pkg/errors"
	"github.com/stretchr/testify/suite"
)

// mockPolygonAPIClient implements PolygonAPIClient for testing.
type mockPolygonAPIClient struct {
	iterator   PolygonAggsIterator
	lastParams *models.ListAggsParams
}

func (m *mockPolygonAPIClient) ListAggs(_ context.Context, params *models.ListAggsParams, _ ...models.RequestOption) PolygonAggsIterator {
	m.lastParams = params

	return m.iterator
}

// mockPolygonIterator implements PolygonAggsIterator for testing.
type mockPolygonIterator struct {
	aggs  []models.Agg
	index int
	err   error
}

func (m *mockPolygonIterator) Next() bool {
	if m.index < len(m.aggs) {
		m.index++
		return true
	}
	return false
}

func (m *mockPolygonIterator) Item() models.Agg {
	if m.index > 0 && m.index <= len(m.aggs) {
		return m.aggs[m.index-1]
	}
	return models.Agg{}
}

func (m *mockPolygonIterator) Err() error {
	return m.err
}

type PolygonClientTestSuite struct {
	suite.Suite
}

func TestPolygonClientSuite(t *testing.T) {
	suite.Run(t, new(PolygonClientTestSuite))
}

func (suite *PolygonClientTestSuite) TestNewPolygonClient_ValidApiKey() {
	client, err := NewPolygonClient("test-api-key")
	suite.NoError(err)
	suite.NotNil(client)

	polygonClient, ok := client.(*PolygonClient)
	suite.True(ok)
	suite.NotNil(polygonClient.apiClient)
}

func (suite *PolygonClientTestSuite) TestNewPolygonClient_EmptyApiKey() {
	client, err := NewPolygonClient("")
	suite.Error(err)
	suite.Nil(client)
	suite.True(argoErrors.HasCode(err, argoErrors.ErrCodeMissingParameter))
}

// TestFetchSuccess tests a successful fetch with mock API.
func (suite *PolygonClientTestSuite) TestFetchSuccess() {
	aggs := []models.Agg{
		{
			Timestamp: models.Millis(time.Date(2024, 1, 2, 5, 0, 0, 0, time.UTC)),
			Open:      100.0,
			High:      101.0,
			Low:       99.0,
			Close:     100.5,
			Volume:    1000000,
		},
		{
			Timestamp: models.Millis(time.Date(2024, 1, 3, 5, 0, 0, 0, time.UTC)),
			Open:      100.5,
			High:      102.0,
			Low:       100.0,
			Close:     101.5,
			Volume:    1500000,
		},
	}

	mockAPI := &mockPolygonAPIClient{iterator: &mockPolygonIterator{aggs: aggs}}
	client := NewPolygonClientWithAPI(mockAPI)

	startDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	endDate := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	result, err := client.Fetch(context.Background(), "SPY", startDate, endDate)
	suite.NoError(err)
	suite.True(result.IsSome())

	table := result.Unwrap()
	suite.Equal("SPY", table.Symbol)
	suite.Equal(2, table.Len())
	suite.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), table.Dates[0])
	suite.InDelta(100.5, table.Fields[types.FieldClose][0], 0.01)
	suite.InDelta(1500000, table.Fields[types.FieldVolume][1], 0.01)

	suite.Require().NotNil(mockAPI.lastParams)
	suite.Equal("SPY", mockAPI.lastParams.Ticker)
	suite.Equal(models.Day, mockAPI.lastParams.Timespan)
	suite.Equal(1, mockAPI.lastParams.Multiplier)
}

// TestFetchEmptyAggs tests fetch when API returns no data.
func (suite *PolygonClientTestSuite) TestFetchEmptyAggs() {
	client := NewPolygonClientWithAPI(&mockPolygonAPIClient{iterator: &mockPolygonIterator{aggs: []models.Agg{}}})

	result, err := client.Fetch(context.Background(), "DELISTED", time.Now().AddDate(0, -1, 0), time.Now())
	suite.NoError(err)
	suite.True(result.IsNone())
}

// TestFetchIteratorError tests error handling when iterator returns an error.
func (suite *PolygonClientTestSuite) TestFetchIteratorError() {
	client := NewPolygonClientWithAPI(&mockPolygonAPIClient{iterator: &mockPolygonIterator{
		aggs: []models.Agg{},
		err:  errors.New("API rate limit exceeded"),
	}})

	result, err := client.Fetch(context.Background(), "SPY", time.Now().AddDate(0, -1, 0), time.Now())
	suite.Error(err)
	suite.True(result.IsNone())
	suite.True(argoErrors.HasCode(err, argoErrors.ErrCodeMarketDataFetchFailed))
	suite.Contains(err.Error(), "API rate limit exceeded")
}
