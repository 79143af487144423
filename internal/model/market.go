package model

import (
	"fmt"
	"time"
)

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PricePoint is one trading day's closing price.
type PricePoint struct {
	Date  time.Time
	Close float64
}

// PriceSeries is an immutable, date-ordered sequence of daily closes.
type PriceSeries struct {
	symbol    string
	source    string
	synthetic bool
	points    []PricePoint
}

// NewPriceSeries copies points into a new series. Dates must be strictly increasing.
func NewPriceSeries(symbol string, points []PricePoint) (*PriceSeries, error) {
	for i := 1; i < len(points); i++ {
		if !points[i].Date.After(points[i-1].Date) {
			return nil, fmt.Errorf("price series %s: date %s at index %d does not follow %s",
				symbol, points[i].Date.Format("2006-01-02"), i, points[i-1].Date.Format("2006-01-02"))
		}
	}
	cp := make([]PricePoint, len(points))
	copy(cp, points)
	return &PriceSeries{symbol: symbol, points: cp}, nil
}

// SeriesFromBars builds a series from the close of each bar.
func SeriesFromBars(symbol string, bars []OHLCV) (*PriceSeries, error) {
	points := make([]PricePoint, len(bars))
	for i, b := range bars {
		points[i] = PricePoint{Date: b.Time, Close: b.Close}
	}
	return NewPriceSeries(symbol, points)
}

// WithSource returns a copy of the series tagged with its data origin.
func (s *PriceSeries) WithSource(source string, synthetic bool) *PriceSeries {
	return &PriceSeries{symbol: s.symbol, source: source, synthetic: synthetic, points: s.points}
}

func (s *PriceSeries) Symbol() string  { return s.symbol }
func (s *PriceSeries) Source() string  { return s.source }
func (s *PriceSeries) Synthetic() bool { return s.synthetic }
func (s *PriceSeries) Len() int        { return len(s.points) }

// At returns the point at index i.
func (s *PriceSeries) At(i int) PricePoint { return s.points[i] }

// Closes returns a copy of the closing prices.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.points))
	for i, p := range s.points {
		closes[i] = p.Close
	}
	return closes
}

// Dates returns a copy of the trading dates.
func (s *PriceSeries) Dates() []time.Time {
	dates := make([]time.Time, len(s.points))
	for i, p := range s.points {
		dates[i] = p.Date
	}
	return dates
}

// Points returns a copy of the underlying points.
func (s *PriceSeries) Points() []PricePoint {
	cp := make([]PricePoint, len(s.points))
	copy(cp, s.points)
	return cp
}
