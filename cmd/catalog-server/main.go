// Command catalog-server serves the filter pipeline over HTTP, with
// Prometheus metrics on a separate listener and optional OTLP tracing.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/signalsfoundry/leo-catalog/internal/catalog"
	"github.com/signalsfoundry/leo-catalog/internal/config"
	"github.com/signalsfoundry/leo-catalog/internal/fetch"
	"github.com/signalsfoundry/leo-catalog/internal/httpapi"
	"github.com/signalsfoundry/leo-catalog/internal/logging"
	"github.com/signalsfoundry/leo-catalog/internal/observability"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (defaults to $LEO_CATALOG_CONFIG, then ./leo-catalog.yaml)")
	addr := flag.String("addr", "", "HTTP address the API listens on (overrides config)")
	metricsAddr := flag.String("metrics-addr", "", "HTTP address for Prometheus /metrics (overrides config)")
	flag.Parse()

	ctx := context.Background()

	cfg, path, err := loadConfig(*configPath)
	if err != nil {
		logging.NewFromEnv().Error(ctx, "failed to load config", logging.String("error", err.Error()))
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *metricsAddr != "" {
		cfg.Server.MetricsAddr = *metricsAddr
	}

	log := logging.New(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: true,
	})
	if path != "" {
		log.Info(ctx, "loaded config", logging.String("path", path))
	}

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdownTracing, log)

	collector, err := observability.NewCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to initialise metrics collector", logging.String("error", err.Error()))
		os.Exit(1)
	}
	metricsSrv := serveMetrics(cfg.Server.MetricsAddr, collector, log)

	client := fetch.New(
		fetch.WithTimeout(cfg.Source.Timeout()),
		fetch.WithLogger(log),
	)
	store := catalog.NewStore(catalog.WithMetricsRecorder(collector))

	server := httpapi.NewServer(client, store, collector, log, httpapi.Defaults{
		Group:        cfg.Source.Group,
		MaxPerigeeKm: cfg.Filter.MaxPerigeeKm,
		Basename:     cfg.Export.Basename,
		CacheTTL:     cfg.Server.CacheTTL(),
	})

	apiSrv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.Handler(),
	}

	go func() {
		log.Info(ctx, "starting catalog API server", logging.String("addr", cfg.Server.Addr))
		if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "API server exited", logging.String("error", err.Error()))
		}
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	<-stopCtx.Done()

	log.Info(ctx, "shutting down catalog server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = apiSrv.Shutdown(shutdownCtx)
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
}

func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

func serveMetrics(addr string, collector *observability.Collector, log logging.Logger) *http.Server {
	if collector == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(context.Background(), "metrics server exited", logging.String("error", err.Error()))
		}
	}()

	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}
