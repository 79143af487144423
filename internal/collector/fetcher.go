package collector

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"time"

	"GoldenCross/internal/model"
)

// Fetcher defines the interface for fetching daily market data.
type Fetcher interface {
	// FetchDailyBars returns bars in [start, end) ordered by date.
	FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error)
	Name() string
}

// newHTTPClient builds a client whose transport goes through proxyURL when set.
func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

// tradingDay drops the time of day so bars from different feeds line up.
func tradingDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// normalizeBars sorts bars by day and keeps the last bar seen for each day.
func normalizeBars(bars []model.OHLCV) []model.OHLCV {
	byDay := make(map[time.Time]int, len(bars))
	out := make([]model.OHLCV, 0, len(bars))
	for _, b := range bars {
		b.Time = tradingDay(b.Time)
		if idx, ok := byDay[b.Time]; ok {
			out[idx] = b
			continue
		}
		byDay[b.Time] = len(out)
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out
}
