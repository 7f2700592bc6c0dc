package provider

import (
	"context"
	"fmt"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-alpha/internal/types"
	"github.com/rxtech-lab/argo-alpha/pkg/errors"
)

// binance rejects unknown symbols with this API error code.
const binanceInvalidSymbolCode = -1121

const binanceKlineLimit = 1000

// KlinesFetcher loads one page of daily klines between two unix millisecond timestamps.
type KlinesFetcher func(ctx context.Context, symbol string, startMillis int64, endMillis int64) ([]*binance.Kline, error)

type BinanceClient struct {
	fetchKlines KlinesFetcher
}

func NewBinanceClient() (Provider, error) {
	client := binance.NewClient("", "")

	return NewBinanceClientWithFetcher(func(ctx context.Context, symbol string, startMillis int64, endMillis int64) ([]*binance.Kline, error) {
		return client.NewKlinesService().
			Symbol(symbol).
			Interval("1d").
			StartTime(startMillis).
			EndTime(endMillis).
			Limit(binanceKlineLimit).
			Do(ctx)
	}), nil
}

// NewBinanceClientWithFetcher creates a BinanceClient over a custom kline fetcher.
func NewBinanceClientWithFetcher(fetcher KlinesFetcher) *BinanceClient {
	return &BinanceClient{fetchKlines: fetcher}
}

// Fetch downloads daily klines for ticker, paging until endDate is reached.
func (c *BinanceClient) Fetch(ctx context.Context, ticker string, startDate time.Time, endDate time.Time) (optional.Option[types.RawTable], error) {
	endTimeMillis := endDate.UnixMilli()
	currentStartTime := startDate.UnixMilli()

	bars := make([]types.MarketData, 0)

	for {
		klines, err := c.fetchKlines(ctx, ticker, currentStartTime, endTimeMillis)
		if err != nil {
			var apiErr *common.APIError
			if errors.As(err, &apiErr) && apiErr.Code == binanceInvalidSymbolCode {
				return optional.None[types.RawTable](), nil
			}

			return optional.None[types.RawTable](), errors.Wrap(errors.ErrCodeMarketDataFetchFailed,
				fmt.Sprintf("failed to fetch klines from Binance for %s", ticker), err)
		}

		converted, err := convertKlines(ticker, klines)
		if err != nil {
			return optional.None[types.RawTable](), err
		}

		bars = append(bars, converted...)

		// Break conditions: no data or a short page (last page)
		if len(klines) < binanceKlineLimit {
			break
		}

		// Use the close time of the last kline + 1ms to avoid duplicates
		currentStartTime = klines[len(klines)-1].CloseTime + 1
		if currentStartTime >= endTimeMillis {
			break
		}
	}

	if len(bars) == 0 {
		return optional.None[types.RawTable](), nil
	}

	return optional.Some(types.RawTableFromMarketData(ticker, bars)), nil
}

// convertKlines converts Binance kline data to MarketData bars.
func convertKlines(ticker string, klines []*binance.Kline) ([]types.MarketData, error) {
	bars := make([]types.MarketData, 0, len(klines))

	for _, k := range klines {
		values := make([]float64, 5)
		for i, raw := range []string{k.Open, k.High, k.Low, k.Close, k.Volume} {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "invalid kline value %q for %s", raw, ticker)
			}

			values[i] = v
		}

		bars = append(bars, types.MarketData{
			Id:     "",
			Symbol: ticker,
			Time:   time.UnixMilli(k.OpenTime), // Using OpenTime as the timestamp for the bar
			Open:   values[0],
			High:   values[1],
			Low:    values[2],
			Close:  values[3],
			Volume: values[4],
		})
	}

	return bars, nil
}
