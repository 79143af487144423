package recorder

import (
	"errors"
	"time"

	"GoldenCross/internal/model"
)

// ErrNoRuns is returned by LastRun when nothing has been recorded yet.
var ErrNoRuns = errors.New("no backtest runs recorded")

// EquityPoint is one day of both cumulative curves.
type EquityPoint struct {
	Date     time.Time
	Close    float64
	Market   float64
	Strategy float64
	Position string
}

// RunRecord holds the parameters and outcome of one backtest run.
type RunRecord struct {
	RunID               string
	CreatedAt           time.Time
	Symbol              string
	Source              string
	Synthetic           bool
	Start               time.Time
	End                 time.Time
	Bars                int
	FastWindow          int
	SlowWindow          int
	FinalMarketReturn   float64
	FinalStrategyReturn float64
	MaxDrawdownMarket   float64
	MaxDrawdownStrategy float64
	Exposure            float64
	BuySignals          int
	SellSignals         int
	RoundTrips          int
	Equity              []EquityPoint
}

// NewRunRecord flattens a finished report.
func NewRunRecord(r *model.Report) *RunRecord {
	s := r.Series
	rec := &RunRecord{
		RunID:               r.RunID,
		CreatedAt:           r.GeneratedAt,
		Symbol:              s.Symbol(),
		Source:              s.Source(),
		Synthetic:           s.Synthetic(),
		Bars:                s.Len(),
		FastWindow:          r.FastWindow,
		SlowWindow:          r.SlowWindow,
		FinalMarketReturn:   r.Result.FinalMarketReturn,
		FinalStrategyReturn: r.Result.FinalStrategyReturn,
		MaxDrawdownMarket:   r.Metrics.MaxDrawdownMarket,
		MaxDrawdownStrategy: r.Metrics.MaxDrawdownStrategy,
		Exposure:            r.Metrics.Exposure,
		BuySignals:          r.Metrics.BuySignals,
		SellSignals:         r.Metrics.SellSignals,
		RoundTrips:          r.Metrics.RoundTrips,
	}
	if s.Len() > 0 {
		rec.Start = s.At(0).Date
		rec.End = s.At(s.Len() - 1).Date
	}
	rec.Equity = make([]EquityPoint, s.Len())
	for i := range rec.Equity {
		p := s.At(i)
		rec.Equity[i] = EquityPoint{
			Date:     p.Date,
			Close:    p.Close,
			Market:   r.Result.CumulativeMarket[i],
			Strategy: r.Result.CumulativeStrategy[i],
			Position: r.Positions[i].String(),
		}
	}
	return rec
}

// Recorder persists backtest runs for later comparison.
type Recorder interface {
	RecordRun(rec *RunRecord) error
	// LastRun returns the most recent run without its equity curve.
	LastRun() (*RunRecord, error)
	EquityCurve(runID string) ([]EquityPoint, error)
	Close() error
}
