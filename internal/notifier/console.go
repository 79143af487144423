package notifier

import (
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"

	"GoldenCross/internal/calculator"
	"GoldenCross/internal/model"
)

// Console prints a finished run to a terminal.
type Console struct {
	out io.Writer
}

// NewConsole creates a presenter that writes to stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWriter creates a presenter for tests.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// Present prints the data-source warnings, the signal log, a metrics table
// and the summary.
func (c *Console) Present(r *model.Report) {
	s := r.Series
	fmt.Fprintf(c.out, "\n%s MA%d/MA%d | %d bars | source: %s\n", s.Symbol(), r.FastWindow, r.SlowWindow, s.Len(), s.Source())
	if s.Synthetic() {
		fmt.Fprintln(c.out, "⚠️  WARNING: using synthetic data, real prices were unavailable")
	}
	if r.InsufficientHistory {
		fmt.Fprintf(c.out, "⚠️  WARNING: fewer than %d bars, slow MA undefined everywhere, no signals\n", r.SlowWindow)
	}

	c.printSignals(r)
	c.printMetrics(r)
	fmt.Fprint(c.out, "\n"+FormatSummary(r.Result.FinalMarketReturn, r.Result.FinalStrategyReturn))
}

func (c *Console) printSignals(r *model.Report) {
	table := tablewriter.NewWriter(c.out)
	table.Header("Date", "Signal", "Close", fmt.Sprintf("MA%d", r.FastWindow), fmt.Sprintf("MA%d", r.SlowWindow), "Cum Market", "Cum Strategy")

	rows := 0
	for i, sig := range r.Signals {
		if sig == model.SignalNone {
			continue
		}
		p := r.Series.At(i)
		table.Append(
			p.Date.Format("2006-01-02"),
			sig.String(),
			fmt.Sprintf("%.2f", p.Close),
			formatMA(r.FastMA[i]),
			formatMA(r.SlowMA[i]),
			fmt.Sprintf("%.4f", r.Result.CumulativeMarket[i]),
			fmt.Sprintf("%.4f", r.Result.CumulativeStrategy[i]),
		)
		rows++
	}
	if rows == 0 {
		fmt.Fprintln(c.out, "no crossover signals in range")
		return
	}
	table.Render()
}

func (c *Console) printMetrics(r *model.Report) {
	m := r.Metrics
	table := tablewriter.NewWriter(c.out)
	table.Header("", "Buy & Hold", "MA Strategy")
	table.Append("Total return", FormatPercent(r.Result.FinalMarketReturn), FormatPercent(r.Result.FinalStrategyReturn))
	table.Append("Max drawdown", FormatPercent(-m.MaxDrawdownMarket), FormatPercent(-m.MaxDrawdownStrategy))
	table.Append("Exposure", "100.0%", fmt.Sprintf("%.1f%%", m.Exposure*100))
	table.Append("Trades", "1", fmt.Sprintf("%d (%d buy / %d sell)", m.RoundTrips, m.BuySignals, m.SellSignals))
	table.Render()
}

func formatMA(v float64) string {
	if !calculator.Defined(v) {
		return "-"
	}
	return fmt.Sprintf("%.2f", v)
}
