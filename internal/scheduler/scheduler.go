package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"

	"GoldenCross/internal/model"
	"GoldenCross/internal/notifier"
	"GoldenCross/internal/recorder"
)

// BacktestRunner executes one backtest run.
type BacktestRunner interface {
	Run(ctx context.Context) (*model.Report, error)
}

// Scheduler re-runs the backtest on a cron schedule and answers chat commands.
type Scheduler struct {
	Cron     *cron.Cron
	Runner   BacktestRunner
	Recorder recorder.Recorder
	Notifier *notifier.TelegramNotifier // optional
	Ctx      context.Context

	running sync.Mutex
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, runner BacktestRunner, rec recorder.Recorder, tn *notifier.TelegramNotifier) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Runner:   runner,
		Recorder: rec,
		Notifier: tn,
		Ctx:      ctx,
	}
}

// Register schedules the backtest with a six-field cron spec (seconds first).
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, func() { s.backtestTask() }); err != nil {
		return fmt.Errorf("register backtest task %q: %w", spec, err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running backtest to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the backtest immediately. It reports false when another
// run is still in progress.
func (s *Scheduler) RunNow() bool {
	return s.backtestTask()
}

func (s *Scheduler) backtestTask() bool {
	if !s.running.TryLock() {
		log.Println("[WARN] backtest already running, skipped")
		return false
	}
	defer s.running.Unlock()

	log.Println("[INFO] running backtest task")
	if _, err := s.Runner.Run(s.Ctx); err != nil {
		log.Printf("[ERROR] backtest: %v", err)
		s.trySend(fmt.Sprintf("❌ 回测失败: %v", err))
	}
	return true
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	// "/run@MyBot" in group chats
	cmd, _, _ := strings.Cut(fields[0], "@")

	switch cmd {
	case "/run", "运行回测":
		if !s.RunNow() {
			return "⏳ 回测正在进行中, 请稍后"
		}
		return ""
	case "/last", "上次结果":
		last, err := s.Recorder.LastRun()
		if errors.Is(err, recorder.ErrNoRuns) {
			return "还没有回测记录"
		}
		if err != nil {
			log.Printf("[ERROR] load last run: %v", err)
			return fmt.Sprintf("❌ 读取回测记录失败: %v", err)
		}
		if curve, err := s.Recorder.EquityCurve(last.RunID); err != nil {
			log.Printf("[WARN] load equity curve of %s: %v", last.RunID, err)
		} else {
			last.Equity = curve
		}
		return notifier.FormatRunRecord(last)
	default:
		return helpText
	}
}

const helpText = "可用命令:\n• /run 运行回测\n• /last 上次结果\n• /help 帮助"

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
