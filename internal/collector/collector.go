package collector

import (
	"context"
	"fmt"
	"log"
	"time"

	"GoldenCross/internal/model"
)

// Collector fetches the price series for one symbol and date range, falling
// back to the local cache and then to synthetic data when the source fails.
type Collector struct {
	Fetcher   Fetcher
	Cache     *ParquetCache       // optional
	Synthetic *SyntheticGenerator // optional; nil disables the synthetic fallback
	Symbol    string
	Start     time.Time
	End       time.Time
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, symbol string, start, end time.Time) *Collector {
	return &Collector{Fetcher: fetcher, Symbol: symbol, Start: start, End: end}
}

// Collect returns the series together with where it came from. A series built
// from generated data is flagged Synthetic.
func (c *Collector) Collect(ctx context.Context) (*model.PriceSeries, error) {
	bars, err := c.Fetcher.FetchDailyBars(ctx, c.Symbol, c.Start, c.End)
	if err == nil && len(bars) == 0 {
		err = fmt.Errorf("%s returned no rows: %w", c.Fetcher.Name(), model.ErrDataUnavailable)
	}
	if err == nil {
		log.Printf("[INFO] fetched %d daily bars for %s from %s", len(bars), c.Symbol, c.Fetcher.Name())
		if c.Cache != nil {
			if cerr := c.Cache.Store(c.Symbol, bars); cerr != nil {
				log.Printf("[WARN] update bar cache: %v", cerr)
			}
		}
		return c.build(bars, c.Fetcher.Name(), false)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	log.Printf("[WARN] fetch %s from %s failed: %v", c.Symbol, c.Fetcher.Name(), err)

	if c.Cache != nil {
		cached, cerr := c.Cache.Load(c.Symbol, c.Start, c.End)
		if cerr != nil {
			log.Printf("[WARN] read bar cache: %v", cerr)
		} else if len(cached) > 0 {
			log.Printf("[WARN] using %d cached bars for %s", len(cached), c.Symbol)
			return c.build(cached, "cache", false)
		}
	}

	if c.Synthetic == nil {
		return nil, fmt.Errorf("collect %s: %w", c.Symbol, err)
	}
	log.Printf("[WARN] using synthetic data for %s (%d days, seed %d)", c.Symbol, c.Synthetic.Length, c.Synthetic.Seed)
	return c.build(c.Synthetic.Generate(c.Start), c.Synthetic.Name(), true)
}

func (c *Collector) build(bars []model.OHLCV, source string, synthetic bool) (*model.PriceSeries, error) {
	series, err := model.SeriesFromBars(c.Symbol, bars)
	if err != nil {
		return nil, fmt.Errorf("build series from %s: %w", source, err)
	}
	return series.WithSource(source, synthetic), nil
}
