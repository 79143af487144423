package collector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GoldenCross/internal/model"
)

func TestSyntheticGenerator_Deterministic(t *testing.T) {
	g := &SyntheticGenerator{Seed: 42, Length: 300, StartPrice: 150, Drift: 0.0005, Volatility: 0.02}

	a := g.Generate(jan1)
	b := g.Generate(jan1)
	require.Len(t, a, 300)
	assert.Equal(t, a, b)
}

func TestSyntheticGenerator_ValidSeries(t *testing.T) {
	g := &SyntheticGenerator{Seed: 3, Length: 500, StartPrice: 150, Drift: 0.0005, Volatility: 0.5}

	bars, err := g.FetchDailyBars(context.Background(), "AAPL", jan1, jun1)
	require.NoError(t, err)
	for i, b := range bars {
		assert.Greater(t, b.Close, 0.0, "index %d", i)
	}

	// consecutive calendar days, accepted by the series constructor
	series, err := model.SeriesFromBars("AAPL", bars)
	require.NoError(t, err)
	assert.Equal(t, jan1.AddDate(0, 0, 499), series.At(499).Date)
}

func TestSyntheticGenerator_ZeroVolatilityCompoundsDrift(t *testing.T) {
	g := &SyntheticGenerator{Seed: 1, Length: 3, StartPrice: 100, Drift: 0.01}
	bars := g.Generate(jan1)
	assert.InDelta(t, 101.0, bars[0].Close, 1e-9)
	assert.InDelta(t, 102.01, bars[1].Close, 1e-9)
	assert.InDelta(t, 103.0301, bars[2].Close, 1e-9)
}
