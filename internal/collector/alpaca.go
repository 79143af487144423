package collector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"GoldenCross/internal/model"
)

// AlpacaFetcher implements Fetcher using the Alpaca market-data API.
type AlpacaFetcher struct {
	client *marketdata.Client
}

// NewAlpacaFetcher creates a fetcher with the given credentials and optional proxy.
func NewAlpacaFetcher(apiKey, apiSecret, dataURL, proxyURL string) *AlpacaFetcher {
	opts := marketdata.ClientOpts{
		APIKey:     apiKey,
		APISecret:  apiSecret,
		HTTPClient: newHTTPClient(proxyURL),
	}
	if dataURL != "" {
		opts.BaseURL = dataURL
	}
	return &AlpacaFetcher{client: marketdata.NewClient(opts)}
}

func (f *AlpacaFetcher) Name() string { return "alpaca" }

// FetchDailyBars returns split- and dividend-adjusted daily bars from the IEX feed.
func (f *AlpacaFetcher) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	alpacaBars, err := f.client.GetBars(strings.ToUpper(symbol), marketdata.GetBarsRequest{
		TimeFrame:  marketdata.OneDay,
		Start:      start,
		End:        end,
		Adjustment: marketdata.All,
		Feed:       "iex",
	})
	if err != nil {
		return nil, fmt.Errorf("alpaca GetBars %s: %w", symbol, err)
	}
	if len(alpacaBars) == 0 {
		return nil, fmt.Errorf("alpaca %s: no rows: %w", symbol, model.ErrDataUnavailable)
	}

	bars := make([]model.OHLCV, len(alpacaBars))
	for i, ab := range alpacaBars {
		bars[i] = model.OHLCV{
			Time:   ab.Timestamp,
			Open:   ab.Open,
			High:   ab.High,
			Low:    ab.Low,
			Close:  ab.Close,
			Volume: float64(ab.Volume),
		}
	}
	return normalizeBars(bars), nil
}
