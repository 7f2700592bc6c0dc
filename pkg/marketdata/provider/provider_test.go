package provider

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-alpha/internal/types"
	argoErrors "github.com/rxtech-lab/argo-alpha/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type stubProvider struct {
	name  string
	calls []string
}

func (s *stubProvider) Fetch(_ context.Context, ticker string, _ time.Time, _ time.Time) (optional.Option[types.RawTable], error) {
	s.calls = append(s.calls, ticker)

	table := types.NewRawTable(ticker)
	table.Symbol = s.name + ":" + ticker

	return optional.Some(table), nil
}

type ProviderTestSuite struct {
	suite.Suite
}

func TestProviderSuite(t *testing.T) {
	suite.Run(t, new(ProviderTestSuite))
}

func (suite *ProviderTestSuite) TestNewMarketDataProvider() {
	tempDir := suite.T().TempDir()

	tests := []struct {
		name     string
		config   Config
		wantErr  bool
		wantCode argoErrors.ErrorCode
	}{
		{name: "polygon", config: Config{Type: ProviderPolygon, APIKey: "key"}},
		{name: "polygon without key", config: Config{Type: ProviderPolygon}, wantErr: true, wantCode: argoErrors.ErrCodeMissingParameter},
		{name: "binance", config: Config{Type: ProviderBinance}},
		{name: "fred", config: Config{Type: ProviderFRED, APIKey: "key"}},
		{name: "parquet", config: Config{Type: ProviderParquet, DataPath: tempDir}},
		{name: "parquet without path", config: Config{Type: ProviderParquet}, wantErr: true, wantCode: argoErrors.ErrCodeMissingParameter},
		{name: "unknown", config: Config{Type: "quandl"}, wantErr: true, wantCode: argoErrors.ErrCodeInvalidProvider},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			p, err := NewMarketDataProvider(tc.config)
			if tc.wantErr {
				suite.Error(err)
				suite.Nil(p)
				suite.True(argoErrors.HasCode(err, tc.wantCode))

				return
			}

			suite.NoError(err)
			suite.NotNil(p)

			if closer, ok := p.(io.Closer); ok {
				suite.NoError(closer.Close())
			}
		})
	}
}

func (suite *ProviderTestSuite) TestRouter() {
	fallback := &stubProvider{name: "default"}
	rates := &stubProvider{name: "rates"}

	router := NewRouter(fallback).Route("USDOLLAR", rates)

	result, err := router.Fetch(context.Background(), "AAPL", time.Now(), time.Now())
	suite.NoError(err)
	suite.Equal("default:AAPL", result.Unwrap().Symbol)

	result, err = router.Fetch(context.Background(), "USDOLLAR", time.Now(), time.Now())
	suite.NoError(err)
	suite.Equal("rates:USDOLLAR", result.Unwrap().Symbol)

	suite.Equal([]string{"AAPL"}, fallback.calls)
	suite.Equal([]string{"USDOLLAR"}, rates.calls)
}
