package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"GoldenCross/internal/collector"
	"GoldenCross/internal/config"
	"GoldenCross/internal/notifier"
	"GoldenCross/internal/recorder"
	"GoldenCross/internal/runner"
	"GoldenCross/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] GoldenCross starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	proxy := cfg.ProxyURL()
	if proxy != "" {
		log.Printf("[INFO] proxy enabled: %s", proxy)
	}

	// Init fetcher
	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "alpaca":
		fetcher = collector.NewAlpacaFetcher(cfg.DataSource.AlpacaAPIKey, cfg.DataSource.AlpacaAPISecret,
			cfg.DataSource.AlpacaDataURL, proxy)
	default:
		fetcher = collector.NewYahooFetcher(proxy, cfg.DataSource.RequestsPerSecond)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init collector
	col := collector.NewCollector(fetcher, cfg.Backtest.Symbol, cfg.StartDate(), cfg.EndDate())
	if cfg.DataSource.CacheDir != "" {
		col.Cache = collector.NewParquetCache(cfg.DataSource.CacheDir)
	}
	if !cfg.Synthetic.Disabled {
		col.Synthetic = &collector.SyntheticGenerator{
			Seed:       cfg.Synthetic.Seed,
			Length:     cfg.Synthetic.Length,
			StartPrice: cfg.Synthetic.StartPrice,
			Drift:      cfg.Synthetic.Drift,
			Volatility: cfg.Synthetic.Volatility,
		}
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init runner
	run := runner.New(col, cfg.Backtest.FastWindow, cfg.Backtest.SlowWindow)
	run.Presenter = notifier.NewConsole()
	run.Recorder = rec
	run.CSVPath = cfg.Report.CSVPath
	if cfg.Report.ChartPath != "" {
		run.Chart = notifier.NewChartRenderer(cfg.Report.ChartPath)
	}

	// Init Telegram notifier
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, proxy)
		run.Sender = tn
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Single run unless a schedule is configured
	if cfg.Schedule.Cron == "" {
		if err := runOnce(ctx, run, rec); err != nil {
			log.Fatalf("[FATAL] backtest: %v", err)
		}
		log.Println("[INFO] GoldenCross finished")
		return
	}

	sched := scheduler.NewScheduler(ctx, run, rec, tn)
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		_ = rec.Close()
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	defer rec.Close()
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing backtest now")
		go sched.RunNow()
	}

	log.Printf("[INFO] GoldenCross is running on schedule %q. Press Ctrl+C to stop.", cfg.Schedule.Cron)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] GoldenCross stopped")
}

// runOnce executes a single backtest and closes the recorder before
// returning, so a failed run still flushes the database.
func runOnce(ctx context.Context, r scheduler.BacktestRunner, rec recorder.Recorder) error {
	defer func() {
		if err := rec.Close(); err != nil {
			log.Printf("[WARN] close recorder: %v", err)
		}
	}()
	_, err := r.Run(ctx)
	return err
}
