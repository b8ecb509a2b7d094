package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/gainboard/gainboard/internal/adapters/http/api"
	"github.com/gainboard/gainboard/internal/adapters/source"
	app "github.com/gainboard/gainboard/internal/app"
	"github.com/gainboard/gainboard/internal/config"
	"github.com/gainboard/gainboard/pkg/logger"
	"github.com/gainboard/gainboard/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 30 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics;
	// the system gauges below cover what the dashboards need.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	var src source.RecordSource
	switch cfg.DataSource {
	case config.SourceSQLite:
		src = source.NewSQLiteSource(cfg.DataFile)
	default:
		src = source.NewCSVSource(cfg.DataFile)
	}

	svc := app.New(
		app.WithLogger(log),
		app.WithRecordSource(src),
		app.WithNamesFile(cfg.NamesFile),
		app.WithCohortSize(cfg.CohortSize),
		app.WithLabelCohortSize(cfg.LabelCohortSize),
		app.WithMaxCohortSize(cfg.MaxCohortSize),
		app.WithRollingBounds(time.Duration(cfg.RollingMinHours)*time.Hour, time.Duration(cfg.RollingMaxHours)*time.Hour),
		app.WithWindowBounds(time.Duration(cfg.WindowMinHours)*time.Hour, time.Duration(cfg.WindowMaxHours)*time.Hour),
		app.WithWatch(cfg.Watch),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	minWindow, maxWindow := svc.WindowBounds()
	minRolling, maxRolling := svc.RollingBounds()
	cohort, labels, maxCohort := svc.CohortDefaults()

	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, svc, api.Limits{
		MinWindow:     minWindow,
		MaxWindow:     maxWindow,
		MinRolling:    minRolling,
		MaxRolling:    maxRolling,
		DefaultCohort: cohort,
		DefaultLabels: labels,
		MaxCohort:     maxCohort,
	})
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
}

// startSystemMetricsUpdater refreshes system gauges until ctx is cancelled.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			metrics.UpdateSystemMemoryUsage(m.Alloc)
			metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
		}
	}
}
