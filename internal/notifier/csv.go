package notifier

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"GoldenCross/internal/calculator"
	"GoldenCross/internal/model"
)

// WriteDailyCSVFile writes the per-day table of a run to path.
func WriteDailyCSVFile(path string, r *model.Report) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create csv dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	if err := WriteDailyCSV(f, r); err != nil {
		return err
	}
	return f.Close()
}

// WriteDailyCSV writes one row per bar. Undefined values are left empty.
func WriteDailyCSV(w io.Writer, r *model.Report) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		"date",
		"close",
		"fast_ma",
		"slow_ma",
		"signal",
		"position",
		"market_return",
		"strategy_return",
		"cum_market",
		"cum_strategy",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	res := r.Result
	for i := 0; i < r.Series.Len(); i++ {
		p := r.Series.At(i)
		row := []string{
			p.Date.Format("2006-01-02"),
			csvFloat(p.Close),
			csvFloat(r.FastMA[i]),
			csvFloat(r.SlowMA[i]),
			r.Signals[i].String(),
			r.Positions[i].String(),
			csvFloat(res.MarketReturns[i]),
			csvFloat(res.StrategyReturns[i]),
			csvFloat(res.CumulativeMarket[i]),
			csvFloat(res.CumulativeStrategy[i]),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func csvFloat(v float64) string {
	if !calculator.Defined(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
