// Package backtest replays a position series against a price series and
// compounds the resulting market and strategy returns.
package backtest

import (
	"fmt"
	"math"

	"GoldenCross/internal/model"
)

// ArithmeticError reports a return that cannot be computed because a close
// is zero, negative or not finite. Index is the return being computed: the
// step that divides by the bad close, or the last index when the bad close
// is the final one.
type ArithmeticError struct {
	Index int
	Close float64
}

func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("return at index %d: close %g is not a positive finite price", e.Index, e.Close)
}

func (e *ArithmeticError) Unwrap() error { return model.ErrInvalidPriceData }

// Run computes market and strategy returns plus their cumulative curves.
// The strategy at index i is exposed according to positions[i-1].
func Run(series *model.PriceSeries, positions []model.PositionState) (*model.BacktestResult, error) {
	if series.Len() != len(positions) {
		return nil, fmt.Errorf("%w: %d prices but %d positions", model.ErrInvalidConfiguration, series.Len(), len(positions))
	}

	market, err := MarketReturns(series.Closes())
	if err != nil {
		return nil, err
	}
	strat := StrategyReturns(market, positions)

	res := &model.BacktestResult{
		MarketReturns:      market,
		StrategyReturns:    strat,
		CumulativeMarket:   Cumulative(market),
		CumulativeStrategy: Cumulative(strat),
	}
	if n := len(res.CumulativeMarket); n > 0 {
		res.FinalMarketReturn = res.CumulativeMarket[n-1] - 1
		res.FinalStrategyReturn = res.CumulativeStrategy[n-1] - 1
	}
	return res, nil
}

// MarketReturns is the simple percentage change of each close over the one
// before it. Index 0 has no return and holds NaN.
func MarketReturns(closes []float64) ([]float64, error) {
	out := make([]float64, len(closes))
	for i := range closes {
		if i == 0 {
			out[i] = math.NaN()
			continue
		}
		prev := closes[i-1]
		if !validClose(prev) {
			return nil, &ArithmeticError{Index: i, Close: prev}
		}
		out[i] = (closes[i] - prev) / prev
	}
	// every other close was checked as a divisor above
	if n := len(closes); n > 0 && !validClose(closes[n-1]) {
		return nil, &ArithmeticError{Index: n - 1, Close: closes[n-1]}
	}
	return out, nil
}

func validClose(c float64) bool {
	return c > 0 && !math.IsInf(c, 1)
}

// StrategyReturns applies the previous step's exposure to each market return.
// Nothing is held before the first index, so index 0 is always 0.
func StrategyReturns(market []float64, positions []model.PositionState) []float64 {
	out := make([]float64, len(market))
	for i := 1; i < len(market); i++ {
		out[i] = positions[i-1].Exposure() * market[i]
	}
	return out
}

// Cumulative compounds returns into a growth curve starting at exactly 1.0.
// The return at index 0 is ignored; a NaN anywhere after it propagates.
func Cumulative(returns []float64) []float64 {
	out := make([]float64, len(returns))
	acc := 1.0
	for i, r := range returns {
		if i > 0 {
			acc *= 1 + r
		}
		out[i] = acc
	}
	return out
}
