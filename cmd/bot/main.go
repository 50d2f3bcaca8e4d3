package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"StructSentinel/internal/config"
	"StructSentinel/internal/feed"
	"StructSentinel/internal/lifecycle"
	"StructSentinel/internal/metrics"
	"StructSentinel/internal/notifier"
	"StructSentinel/internal/scheduler"
	"StructSentinel/internal/store"
	"StructSentinel/internal/structure"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] StructSentinel starting...")

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

	// Init feed
	restFeed := feed.NewRESTFeed(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	log.Printf("[INFO] data source: %s", restFeed.Name())

	// Init signal store
	var st store.Store
	if cfg.Database.SQLitePath != "" {
		ss, err := store.NewSQLiteStore(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite store failed, using in-memory: %v", err)
			st = store.NewMemoryStore()
		} else {
			st = ss
			defer ss.Close()
		}
	} else {
		st = store.NewMemoryStore()
	}

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Wire the pipeline
	engine := structure.NewEngine(structure.Config{SwingWindow: cfg.Analysis.SwingWindow})
	trans := lifecycle.NewTransitioner(st, tn)
	planner := lifecycle.NewPlanner(st, trans, lifecycle.PlanConfig{
		EntryTTL:    cfg.Signals.EntryTTL.Std(),
		TradeTTL:    cfg.Signals.TradeTTL.Std(),
		StopBuffer:  cfg.Signals.StopBuffer,
		RewardRatio: cfg.Signals.RewardRatio,
		SwingWindow: cfg.Analysis.SwingWindow,
	})
	watcher := lifecycle.NewWatcher(st, restFeed, trans, lifecycle.WatcherConfig{
		Interval:     cfg.Signals.WatchEvery.Std(),
		Tolerance:    cfg.Signals.Tolerance,
		NearMissBand: cfg.Signals.NearMissBand,
	})
	janitor := lifecycle.NewJanitor(st, trans, lifecycle.JanitorConfig{
		Interval: cfg.Signals.SweepEvery.Std(),
		Grace:    cfg.Signals.SweepGrace.Std(),
	})

	// Metrics endpoint
	metricsSrv := metrics.Serve(cfg.Metrics.Addr)
	defer metricsSrv.Close()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, cfg.Analysis.Cron, cfg.DataSource.Symbol, cfg.DataSource.Timeframe, cfg.DataSource.Candles, scheduler.Deps{
		Engine:   engine,
		Feed:     restFeed,
		Planner:  planner,
		Watcher:  watcher,
		Janitor:  janitor,
		Store:    st,
		Notifier: tn,
	})
	if err := sched.Start(); err != nil {
		log.Fatalf("[FATAL] start scheduler: %v", err)
	}
	defer sched.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched)
	log.Println("[INFO] Telegram polling started")

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing analysis now")
		go sched.RunAnalysisNow()
	}

	log.Println("[INFO] StructSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] StructSentinel stopped")
}
