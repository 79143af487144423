package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GoldenCross/internal/model"
)

const chartJSON = `{"chart":{"result":[{
	"timestamp":[1672756200,1672842600,1672929000,1672845000],
	"indicators":{"quote":[{
		"open":[130.28,126.89,null,127.13],
		"high":[130.9,128.66,null,127.77],
		"low":[124.17,125.08,null,124.76],
		"close":[125.07,126.36,null,125.02],
		"volume":[112117500,89113600,null,80962700]
	}]}}],"error":null}}`

func newTestYahoo(url string) *YahooFetcher {
	f := NewYahooFetcher("", 1000)
	f.BaseURL = url
	return f
}

func TestYahooFetcher_ParsesChart(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(chartJSON))
	}))
	defer srv.Close()

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC)
	bars, err := newTestYahoo(srv.URL).FetchDailyBars(context.Background(), "SPX", start, end)
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/^GSPC", gotPath)
	assert.Contains(t, gotQuery, "period1=1672531200")
	assert.Contains(t, gotQuery, "interval=1d")

	// null row dropped, a second bar for Jan 4 replaces the first
	require.Len(t, bars, 2)
	assert.Equal(t, 125.07, bars[0].Close)
	assert.Equal(t, 125.02, bars[1].Close)
	assert.Equal(t, time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC), bars[0].Time)
	assert.Equal(t, time.Date(2023, 1, 4, 0, 0, 0, 0, time.UTC), bars[1].Time)
}

func TestYahooFetcher_NoRowsIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
	}))
	defer srv.Close()

	_, err := newTestYahoo(srv.URL).FetchDailyBars(context.Background(), "AAPL", jan1, jun1)
	assert.ErrorIs(t, err, model.ErrDataUnavailable)
}

func TestYahooFetcher_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer srv.Close()

	_, err := newTestYahoo(srv.URL).FetchDailyBars(context.Background(), "ZZZZ", jan1, jun1)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrDataUnavailable)
	assert.Contains(t, err.Error(), "delisted")
}

func TestYahooFetcher_RetriesServerErrors(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(chartJSON))
	}))
	defer srv.Close()

	bars, err := newTestYahoo(srv.URL).FetchDailyBars(context.Background(), "AAPL", jan1, jun1)
	require.NoError(t, err)
	assert.Len(t, bars, 2)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestYahooFetcher_ClientErrorNotRetried(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestYahoo(srv.URL).FetchDailyBars(context.Background(), "AAPL", jan1, jun1)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}
