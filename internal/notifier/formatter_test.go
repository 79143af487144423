package notifier

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GoldenCross/internal/backtest"
	"GoldenCross/internal/model"
	"GoldenCross/internal/recorder"
	"GoldenCross/internal/strategy"
)

// sampleReport runs the crossing series 10,11,12,11,10,9,10,11,12 with MA2/MA3:
// a death cross at index 4 and a golden cross at index 7.
func sampleReport(t *testing.T, closes ...float64) *model.Report {
	t.Helper()
	if len(closes) == 0 {
		closes = []float64{10, 11, 12, 11, 10, 9, 10, 11, 12}
	}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	points := make([]model.PricePoint, len(closes))
	for i, c := range closes {
		points[i] = model.PricePoint{Date: start.AddDate(0, 0, i), Close: c}
	}
	series, err := model.NewPriceSeries("AAPL", points)
	require.NoError(t, err)
	series = series.WithSource("yahoo", false)

	set, err := strategy.Crossover(series, 2, 3)
	require.NoError(t, err)
	positions := strategy.TrackPositions(set.Signals)
	res, err := backtest.Run(series, positions)
	require.NoError(t, err)

	return &model.Report{
		RunID:               "test-run",
		GeneratedAt:         time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC),
		Series:              series,
		FastWindow:          2,
		SlowWindow:          3,
		FastMA:              set.FastMA,
		SlowMA:              set.SlowMA,
		Signals:             set.Signals,
		Positions:           positions,
		Result:              res,
		Metrics:             backtest.ComputeMetrics(res, set.Signals, positions),
		InsufficientHistory: set.InsufficientHistory,
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.1, "+10.00%"},
		{0, "0.00%"},
		{-0.0523, "-5.23%"},
		{1.23456, "+123.46%"},
		{-0.00001, "0.00%"},
		{math.NaN(), "n/a"},
		{math.Inf(1), "n/a"},
		{math.Inf(-1), "n/a"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPercent(tt.in), "input %v", tt.in)
	}
}

func TestFormatSummary(t *testing.T) {
	lost := FormatSummary(0.10, 0.0)
	assert.Contains(t, lost, "买入持有收益率: +10.00%")
	assert.Contains(t, lost, "均线策略收益率: 0.00%")
	assert.Contains(t, lost, "没有跑赢")

	won := FormatSummary(-0.05, 0.02)
	assert.Contains(t, won, "-5.00%")
	assert.Contains(t, won, "+2.00%")
	assert.Contains(t, won, "跑赢了")

	// a tie is not a win
	assert.Contains(t, FormatSummary(0.01, 0.01), "没有跑赢")
}

func TestFormatReport(t *testing.T) {
	r := sampleReport(t)
	text := FormatReport(r)

	assert.Contains(t, text, "AAPL | MA2 / MA3")
	assert.Contains(t, text, "2024-01-01 ~ 2024-01-09 (9 个交易日)")
	assert.Contains(t, text, "数据源: yahoo")
	assert.Contains(t, text, "买入持有: +20.00%")
	assert.Contains(t, text, "均线策略: +9.09%")
	assert.Contains(t, text, "金叉 1 次 | 死叉 1 次 | 完整交易 0 笔")
	assert.NotContains(t, text, "synthetic")
}

func TestFormatReport_Warnings(t *testing.T) {
	r := sampleReport(t, 10, 11)
	r.Series = r.Series.WithSource("synthetic", true)

	text := FormatReport(r)
	assert.True(t, r.InsufficientHistory)
	assert.Contains(t, text, "using synthetic data")
	assert.Contains(t, text, "历史数据不足 3 天")
}

func TestFormatRunRecord(t *testing.T) {
	rec := recorder.NewRunRecord(sampleReport(t))
	text := FormatRunRecord(rec)

	assert.Contains(t, text, "2024-02-01 09:30")
	assert.Contains(t, text, "AAPL | MA2 / MA3")
	assert.Contains(t, text, "2024-01-01 ~ 2024-01-09 (9 个交易日)")
	assert.Contains(t, text, "买入持有: +20.00% | 均线策略: +9.09%")
	assert.Contains(t, text, "最新持仓: HOLDING | 收盘 12.00 (2024-01-09)")
	assert.Contains(t, text, "run test-run")
	assert.NotContains(t, text, "synthetic")
}
