package backtest

import "GoldenCross/internal/model"

// ComputeMetrics derives drawdown, exposure and signal counts for a run.
func ComputeMetrics(res *model.BacktestResult, signals []model.CrossoverSignal, positions []model.PositionState) model.Metrics {
	m := model.Metrics{
		MaxDrawdownMarket:   MaxDrawdown(res.CumulativeMarket),
		MaxDrawdownStrategy: MaxDrawdown(res.CumulativeStrategy),
	}

	holding := 0
	for _, p := range positions {
		if p == model.Holding {
			holding++
		}
	}
	if len(positions) > 0 {
		m.Exposure = float64(holding) / float64(len(positions))
	}

	open := false
	for _, s := range signals {
		switch s {
		case model.SignalBuy:
			m.BuySignals++
			open = true
		case model.SignalSell:
			m.SellSignals++
			if open {
				m.RoundTrips++
				open = false
			}
		}
	}
	return m
}

// MaxDrawdown is the largest peak-to-trough fall of a growth curve, as a
// positive fraction of the peak.
func MaxDrawdown(curve []float64) float64 {
	peak, worst := 0.0, 0.0
	for _, v := range curve {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			if dd := (peak - v) / peak; dd > worst {
				worst = dd
			}
		}
	}
	return worst
}
