// Package runner wires one backtest run end to end: collect prices, derive
// signals and positions, replay returns, then hand the report to the
// presenters and the run history.
package runner

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"GoldenCross/internal/backtest"
	"GoldenCross/internal/collector"
	"GoldenCross/internal/model"
	"GoldenCross/internal/notifier"
	"GoldenCross/internal/recorder"
	"GoldenCross/internal/strategy"
)

// Presenter prints a finished report.
type Presenter interface {
	Present(r *model.Report)
}

// Sender delivers reports to a remote chat.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
	SendPhoto(path, caption string) error
}

// Runner holds the collaborators of a backtest run. Everything except
// Collector is optional.
type Runner struct {
	Collector  *collector.Collector
	FastWindow int
	SlowWindow int
	Presenter  Presenter
	Chart      *notifier.ChartRenderer
	CSVPath    string
	Recorder   recorder.Recorder
	Sender     Sender

	now func() time.Time
}

// New creates a Runner with a no-op recorder.
func New(col *collector.Collector, fast, slow int) *Runner {
	return &Runner{
		Collector:  col,
		FastWindow: fast,
		SlowWindow: slow,
		Recorder:   recorder.NewNoopRecorder(),
		now:        time.Now,
	}
}

// Backtest runs the pure pipeline over an already collected series.
func Backtest(series *model.PriceSeries, fast, slow int) (*model.Report, error) {
	set, err := strategy.Crossover(series, fast, slow)
	if err != nil {
		return nil, err
	}
	positions := strategy.TrackPositions(set.Signals)
	res, err := backtest.Run(series, positions)
	if err != nil {
		return nil, fmt.Errorf("backtest %s: %w", series.Symbol(), err)
	}
	return &model.Report{
		Series:              series,
		FastWindow:          fast,
		SlowWindow:          slow,
		FastMA:              set.FastMA,
		SlowMA:              set.SlowMA,
		Signals:             set.Signals,
		Positions:           positions,
		Result:              res,
		Metrics:             backtest.ComputeMetrics(res, set.Signals, positions),
		InsufficientHistory: set.InsufficientHistory,
	}, nil
}

// Run executes one backtest. Configuration and arithmetic errors abort the
// run; presenter, recorder and delivery failures are only logged.
func (r *Runner) Run(ctx context.Context) (*model.Report, error) {
	if err := strategy.ValidateWindows(r.FastWindow, r.SlowWindow); err != nil {
		return nil, err
	}

	series, err := r.Collector.Collect(ctx)
	if err != nil {
		return nil, err
	}
	if series.Synthetic() {
		log.Printf("[WARN] %s: backtest runs on synthetic data", series.Symbol())
	}

	report, err := Backtest(series, r.FastWindow, r.SlowWindow)
	if err != nil {
		return nil, err
	}
	report.RunID = uuid.NewString()
	report.GeneratedAt = r.clock()
	if report.InsufficientHistory {
		log.Printf("[WARN] %s: %d bars < slow window %d: %v",
			series.Symbol(), series.Len(), r.SlowWindow, model.ErrInsufficientHistory)
	}
	log.Printf("[INFO] run %s: %s market %+.4f strategy %+.4f",
		report.RunID, series.Symbol(), report.Result.FinalMarketReturn, report.Result.FinalStrategyReturn)

	r.publish(ctx, report)
	return report, nil
}

func (r *Runner) publish(ctx context.Context, report *model.Report) {
	if r.Presenter != nil {
		r.Presenter.Present(report)
	}

	chartPath := ""
	if r.Chart != nil && r.Chart.Path != "" {
		if err := r.Chart.RenderCharts(notifier.ChartDataFromReport(report)); err != nil {
			log.Printf("[ERROR] render chart: %v", err)
		} else {
			chartPath = r.Chart.Path
			log.Printf("[INFO] chart written to %s", chartPath)
		}
	}

	if r.CSVPath != "" {
		if err := notifier.WriteDailyCSVFile(r.CSVPath, report); err != nil {
			log.Printf("[ERROR] write csv: %v", err)
		}
	}

	if r.Recorder != nil {
		if err := r.Recorder.RecordRun(recorder.NewRunRecord(report)); err != nil {
			log.Printf("[ERROR] record run: %v", err)
		}
	}

	if r.Sender != nil {
		if err := r.Sender.SendWithRetry(ctx, notifier.FormatReport(report), 3); err != nil {
			log.Printf("[ERROR] send report: %v", err)
		}
		if chartPath != "" {
			if err := r.Sender.SendPhoto(chartPath, report.Series.Symbol()); err != nil {
				log.Printf("[ERROR] send chart: %v", err)
			}
		}
	}
}

func (r *Runner) clock() time.Time {
	if r.now == nil {
		return time.Now()
	}
	return r.now()
}
