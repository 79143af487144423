package model

import "time"

// BacktestResult holds the return curves of one backtest run.
// Market returns are NaN at index 0; every cumulative curve starts at 1.0.
type BacktestResult struct {
	MarketReturns       []float64
	StrategyReturns     []float64
	CumulativeMarket    []float64
	CumulativeStrategy  []float64
	FinalMarketReturn   float64
	FinalStrategyReturn float64
}

// Metrics summarises a run beyond the final returns.
type Metrics struct {
	MaxDrawdownMarket   float64
	MaxDrawdownStrategy float64
	Exposure            float64 // fraction of steps spent holding
	BuySignals          int
	SellSignals         int
	RoundTrips          int
}

// Report bundles everything a presenter or recorder needs from one run.
type Report struct {
	RunID               string
	GeneratedAt         time.Time
	Series              *PriceSeries
	FastWindow          int
	SlowWindow          int
	FastMA              []float64
	SlowMA              []float64
	Signals             []CrossoverSignal
	Positions           []PositionState
	Result              *BacktestResult
	Metrics             Metrics
	InsufficientHistory bool
}

// BeatMarket reports whether the strategy finished above buy-and-hold.
func (r *Report) BeatMarket() bool {
	return r.Result.FinalStrategyReturn > r.Result.FinalMarketReturn
}
