package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var d0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestNewPriceSeries_RejectsUnorderedDates(t *testing.T) {
	_, err := NewPriceSeries("AAPL", []PricePoint{
		{Date: d0, Close: 1},
		{Date: d0.AddDate(0, 0, 2), Close: 2},
		{Date: d0.AddDate(0, 0, 1), Close: 3},
	})
	assert.ErrorContains(t, err, "index 2")

	_, err = NewPriceSeries("AAPL", []PricePoint{{Date: d0, Close: 1}, {Date: d0, Close: 2}})
	assert.Error(t, err, "duplicate dates")
}

func TestPriceSeries_Immutable(t *testing.T) {
	points := []PricePoint{{Date: d0, Close: 1}, {Date: d0.AddDate(0, 0, 1), Close: 2}}
	s, err := NewPriceSeries("AAPL", points)
	require.NoError(t, err)

	points[0].Close = 99
	closes := s.Closes()
	closes[1] = 42
	s.Points()[0].Close = 7

	assert.Equal(t, []float64{1, 2}, s.Closes())
	assert.Equal(t, 2, s.Len())
}

func TestPriceSeries_WithSource(t *testing.T) {
	s, err := SeriesFromBars("MSFT", []OHLCV{{Time: d0, Close: 10}})
	require.NoError(t, err)
	tagged := s.WithSource("synthetic", true)

	assert.Equal(t, "", s.Source())
	assert.False(t, s.Synthetic())
	assert.Equal(t, "synthetic", tagged.Source())
	assert.True(t, tagged.Synthetic())
	assert.Equal(t, "MSFT", tagged.Symbol())
	assert.Equal(t, 10.0, tagged.At(0).Close)
}

func TestSignalAndPositionStrings(t *testing.T) {
	assert.Equal(t, "BUY", SignalBuy.String())
	assert.Equal(t, "SELL", SignalSell.String())
	assert.Equal(t, "NONE", SignalNone.String())
	assert.Equal(t, 1.0, Holding.Exposure())
	assert.Equal(t, 0.0, Flat.Exposure())
}
