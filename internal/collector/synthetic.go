package collector

import (
	"context"
	"math/rand/v2"
	"time"

	"GoldenCross/internal/model"
)

// SyntheticGenerator produces a random-walk close series with normally
// distributed daily returns. It stands in when no real data can be fetched.
type SyntheticGenerator struct {
	Seed       uint64 // 0 picks a time-based seed
	Length     int
	StartPrice float64
	Drift      float64 // mean daily return
	Volatility float64 // stddev of daily return
}

func (g *SyntheticGenerator) Name() string { return "synthetic" }

// FetchDailyBars ignores end and returns Length consecutive calendar days from start.
func (g *SyntheticGenerator) FetchDailyBars(_ context.Context, _ string, start, _ time.Time) ([]model.OHLCV, error) {
	return g.Generate(start), nil
}

// Generate returns Length bars. Close i is StartPrice compounded by i+1 draws.
func (g *SyntheticGenerator) Generate(start time.Time) []model.OHLCV {
	seed := g.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	day := tradingDay(start)
	price := g.StartPrice
	bars := make([]model.OHLCV, g.Length)
	for i := range bars {
		factor := 1 + g.Drift + g.Volatility*r.NormFloat64()
		if factor < 0.01 {
			factor = 0.01 // keep closes strictly positive
		}
		open := price
		price *= factor
		bars[i] = model.OHLCV{
			Time:   day.AddDate(0, 0, i),
			Open:   open,
			High:   max(open, price),
			Low:    min(open, price),
			Close:  price,
			Volume: 0,
		}
	}
	return bars
}
