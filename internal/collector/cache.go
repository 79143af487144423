package collector

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"GoldenCross/internal/model"
)

// BarRecord is the Parquet schema for cached daily bars.
type BarRecord struct {
	Symbol    string  `parquet:"symbol"`
	Timestamp int64   `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	Open      float64 `parquet:"open"`
	High      float64 `parquet:"high"`
	Low       float64 `parquet:"low"`
	Close     float64 `parquet:"close"`
	Volume    float64 `parquet:"volume"`
}

// ParquetCache keeps the last good download of each symbol on disk:
//
//	<DataDir>/<SYMBOL>/daily.parquet
type ParquetCache struct {
	DataDir string
}

// NewParquetCache creates a cache rooted at dataDir.
func NewParquetCache(dataDir string) *ParquetCache {
	return &ParquetCache{DataDir: dataDir}
}

func (c *ParquetCache) path(symbol string) string {
	return filepath.Join(c.DataDir, strings.ToUpper(symbol), "daily.parquet")
}

// Store merges bars into the symbol's cache file, newer bars winning on the same day.
func (c *ParquetCache) Store(symbol string, bars []model.OHLCV) error {
	if len(bars) == 0 {
		return nil
	}
	path := c.path(symbol)
	existing, err := readRecords(path)
	if err != nil {
		return err
	}

	incoming := make([]BarRecord, len(bars))
	for i, b := range bars {
		incoming[i] = BarRecord{
			Symbol:    strings.ToUpper(symbol),
			Timestamp: b.Time.UnixMilli(),
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	if err := parquet.WriteFile(path, mergeRecords(existing, incoming)); err != nil {
		return fmt.Errorf("write cache %s: %w", path, err)
	}
	return nil
}

// Load returns cached bars in [start, end). A missing file yields no bars.
func (c *ParquetCache) Load(symbol string, start, end time.Time) ([]model.OHLCV, error) {
	records, err := readRecords(c.path(symbol))
	if err != nil {
		return nil, err
	}
	var bars []model.OHLCV
	for _, r := range records {
		ts := time.UnixMilli(r.Timestamp).UTC()
		if ts.Before(start) || !ts.Before(end) {
			continue
		}
		bars = append(bars, model.OHLCV{
			Time:   ts,
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
		})
	}
	return bars, nil
}

func readRecords(path string) ([]BarRecord, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	rows, err := parquet.ReadFile[BarRecord](path)
	if err != nil {
		return nil, fmt.Errorf("read cache %s: %w", path, err)
	}
	return rows, nil
}

// mergeRecords deduplicates by timestamp, preferring incoming over existing.
func mergeRecords(existing, incoming []BarRecord) []BarRecord {
	seen := make(map[int64]BarRecord, len(existing)+len(incoming))
	for _, r := range existing {
		seen[r.Timestamp] = r
	}
	for _, r := range incoming {
		seen[r.Timestamp] = r
	}
	merged := make([]BarRecord, 0, len(seen))
	for _, r := range seen {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Timestamp < merged[j].Timestamp })
	return merged
}
