package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"StructSentinel/internal/feed"
	"StructSentinel/internal/lifecycle"
	"StructSentinel/internal/metrics"
	"StructSentinel/internal/model"
	"StructSentinel/internal/notifier"
	"StructSentinel/internal/store"
	"StructSentinel/internal/structure"
)

// Scheduler wires the analysis cron task to the lifecycle workers.
type Scheduler struct {
	Cron      string
	Symbol    string
	Timeframe string
	Candles   int

	cron     *cron.Cron
	engine   *structure.Engine
	feed     feed.CandleFeed
	planner  *lifecycle.Planner
	watcher  *lifecycle.Watcher
	janitor  *lifecycle.Janitor
	store    store.Store
	notifier *notifier.TelegramNotifier
	ctx      context.Context
}

// Deps bundles everything the scheduler coordinates.
type Deps struct {
	Engine   *structure.Engine
	Feed     feed.CandleFeed
	Planner  *lifecycle.Planner
	Watcher  *lifecycle.Watcher
	Janitor  *lifecycle.Janitor
	Store    store.Store
	Notifier *notifier.TelegramNotifier
}

// NewScheduler creates a scheduler for one symbol/timeframe pair.
func NewScheduler(ctx context.Context, spec string, symbol, timeframe string, candles int, deps Deps) *Scheduler {
	return &Scheduler{
		Cron:      spec,
		Symbol:    symbol,
		Timeframe: timeframe,
		Candles:   candles,
		cron:      cron.New(cron.WithSeconds()),
		engine:    deps.Engine,
		feed:      deps.Feed,
		planner:   deps.Planner,
		watcher:   deps.Watcher,
		janitor:   deps.Janitor,
		store:     deps.Store,
		notifier:  deps.Notifier,
		ctx:       ctx,
	}
}

// Start registers the analysis cron task and launches the lifecycle workers.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.Cron, s.analysisTask); err != nil {
		return fmt.Errorf("register analysis task: %w", err)
	}
	s.cron.Start()
	go s.watcher.Run(s.ctx)
	go s.janitor.Run(s.ctx)
	log.Printf("[INFO] scheduler started, analysis cron %q for %s %s", s.Cron, s.Symbol, s.Timeframe)
	return nil
}

// Stop stops the cron scheduler gracefully. The lifecycle workers stop with
// the context.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunAnalysisNow executes the analysis task immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunAnalysisNow() {
	s.analysisTask()
}

func (s *Scheduler) analysisTask() {
	log.Printf("[INFO] running structure analysis for %s %s", s.Symbol, s.Timeframe)
	candles, err := s.feed.FetchCandles(s.ctx, s.Symbol, s.Timeframe, s.Candles)
	if err != nil {
		log.Printf("[ERROR] fetch candles: %v", err)
		s.trySend(fmt.Sprintf("❌ candle fetch failed for %s: %v", s.Symbol, err))
		return
	}

	st := s.engine.Analyze(candles, s.Symbol, s.Timeframe)
	metrics.AnalysisRuns.WithLabelValues(string(st.State)).Inc()

	s.trySend(notifier.FormatStructureReport(st))

	sig, err := s.planner.Seed(s.ctx, st, candles)
	if err != nil {
		log.Printf("[ERROR] seed signal: %v", err)
		return
	}
	if sig != nil {
		log.Printf("[INFO] seeded signal %s %s %s at %.5f", sig.ID, sig.Symbol, sig.Direction, sig.EntryPrice)
	}
}

// StatusReport renders the open signals for the /status command.
func (s *Scheduler) StatusReport() string {
	signals, err := s.store.FindByStates(s.ctx, model.NonTerminalStates()...)
	if err != nil {
		return fmt.Sprintf("❌ load signals: %v", err)
	}
	return notifier.FormatSignalList(signals)
}

func (s *Scheduler) trySend(text string) {
	if err := s.notifier.SendWithRetry(s.ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
