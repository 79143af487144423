package calculator

import (
	"errors"
	"math"
)

// CalculateSMA computes the simple moving average of the given prices over the specified period.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// SMASeries returns the moving average aligned index-for-index with prices.
// Entries with fewer than period prices behind them are NaN.
func SMASeries(prices []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	out := make([]float64, len(prices))
	for i := range prices {
		if i+1 < period {
			out[i] = math.NaN()
			continue
		}
		ma, err := CalculateSMA(prices[:i+1], period)
		if err != nil {
			return nil, err
		}
		out[i] = ma
	}
	return out, nil
}

// Defined reports whether v carries a value rather than the NaN marker.
func Defined(v float64) bool { return !math.IsNaN(v) }

// CountDefined returns how many entries of series carry a value.
func CountDefined(series []float64) int {
	n := 0
	for _, v := range series {
		if Defined(v) {
			n++
		}
	}
	return n
}
