// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"business-idea-workers/internal/catalog"
	awsclients "business-idea-workers/internal/common/aws"
	"business-idea-workers/internal/common/camunda"
	"business-idea-workers/internal/common/config"
	"business-idea-workers/internal/common/database"
	"business-idea-workers/internal/common/logger"
	"business-idea-workers/internal/common/metrics"
	"business-idea-workers/internal/common/observability"
	"business-idea-workers/internal/common/validation"
	sendideareport "business-idea-workers/internal/workers/communication/send-idea-report"
	searchideas "business-idea-workers/internal/workers/data-access/search-ideas"
	"business-idea-workers/pkg/registry"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog, err := logger.New(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	log := logger.NewZapAdapter(zapLog)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, log)
	stop()

	if err != nil {
		zapLog.Error("worker manager failed", zap.Error(err))
		_ = zapLog.Sync()
		os.Exit(1)
	}
	_ = zapLog.Sync()
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	log.Info("starting worker manager", map[string]interface{}{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		return fmt.Errorf("observability init: %w", err)
	}
	defer shutdownWithin(config.GetDuration(cfg.Server.ShutdownTimeout), obs.Shutdown, "observability", log)

	// --- Zeebe ---
	zc, err := camunda.Connect(ctx, camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
		RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
	}, retryLogger("zeebe", log))
	if err != nil {
		return err
	}
	defer zc.Close()
	log.Info("zeebe client connected", map[string]interface{}{"gateway": cfg.Camunda.BrokerAddress})

	checks := map[string]database.Pinger{"zeebe": zc}

	// --- Redis ---
	rdb := database.NewRedis(cfg.Database.Redis)
	defer rdb.Close()
	if err := connect(ctx, "redis", rdb, log); err != nil {
		return err
	}
	checks["redis"] = rdb

	// --- Catalog ---
	var src catalog.Source
	switch cfg.Catalog.Source {
	case config.CatalogSourcePostgres:
		pg, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		defer pg.Close()
		if err := connect(ctx, "postgres", pg, log); err != nil {
			return err
		}
		checks["postgres"] = pg
		src = catalog.NewPostgresSource(pg.DB)
	default:
		src = catalog.NewFileSource(cfg.Catalog.Path)
	}

	cat, err := catalog.Load(ctx, src)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	metrics.CatalogSize.Set(float64(cat.Len()))
	log.Info("catalog loaded", map[string]interface{}{
		"source":  cfg.Catalog.Source,
		"ideas":   cat.Len(),
		"version": cat.Version(),
	})

	// --- Elasticsearch ---
	var es *database.ElasticsearchClient
	if cfg.Catalog.IndexOnStart || config.IsWorkerEnabled(cfg, searchideas.TaskType) {
		es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		if err := connect(ctx, "elasticsearch", es, log); err != nil {
			return err
		}
		checks["elasticsearch"] = es

		if cfg.Catalog.IndexOnStart {
			n, err := catalog.NewIndexer(es.Client, cfg.Catalog.Index).IndexAll(ctx, cat)
			if err != nil {
				log.Error("catalog indexing failed", map[string]interface{}{"indexed": n, "error": err})
			} else {
				log.Info("catalog indexed", map[string]interface{}{"index": cfg.Catalog.Index, "ideas": n})
			}
		}
	}

	// --- Input validation ---
	reg, err := registry.LoadRegistry(registry.DefaultPath)
	if err != nil {
		return fmt.Errorf("load activity registry: %w", err)
	}
	validator, err := validation.NewValidator(reg)
	if err != nil {
		return err
	}

	// --- Notifications ---
	var (
		sesAPI awsclients.SESAPI
		snsAPI awsclients.SNSAPI
	)
	notify := cfg.Notifications
	if config.IsWorkerEnabled(cfg, sendideareport.TaskType) && (notify.Email.Enabled || notify.SMS.Enabled) {
		clients, err := awsclients.NewClients(ctx, notify.AWS.Region)
		if err != nil {
			return err
		}
		if notify.Email.Enabled {
			sesAPI = clients.SES
		}
		if notify.SMS.Enabled {
			snsAPI = clients.SNS
		}
	}

	// --- Workers ---
	workers := camunda.NewWorkers(zc.Client, obs, log)
	deps := &dependencies{
		catalog:   cat,
		redis:     rdb.Client,
		validator: validator,
		ses:       sesAPI,
		sns:       snsAPI,
		log:       log,
	}
	if es != nil {
		deps.es = es.Client
	}
	registerWorkers(workers, cfg, deps)
	log.Info("workers registered", map[string]interface{}{"taskTypes": workers.TaskTypes()})

	// --- Health & metrics ---
	srv := newHealthServer(cfg.Server.Port, checks, workers.TaskTypes, log)
	go func() {
		log.Info("health/metrics server listening", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("health/metrics server failed", map[string]interface{}{"error": err})
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received, stopping workers", nil)

	workers.Close()
	shutdownWithin(config.GetDuration(cfg.Server.ShutdownTimeout), srv.Shutdown, "health server", log)
	return nil
}

// connect pings a dependency with backoff until it answers.
func connect(ctx context.Context, name string, p database.Pinger, log logger.Logger) error {
	err := camunda.Retry(ctx, camunda.DefaultRetryConfig, name+" connection", p.Ping, retryLogger(name, log))
	if err != nil {
		return err
	}
	log.Info("connected", map[string]interface{}{"dependency": name})
	return nil
}

func retryLogger(name string, log logger.Logger) camunda.RetryNotify {
	return func(attempt int, err error, next time.Duration) {
		log.Warn(name+" not ready, retrying", map[string]interface{}{
			"attempt":     attempt,
			"error":       err,
			"nextRetryIn": next.String(),
		})
	}
}

func shutdownWithin(timeout time.Duration, fn func(context.Context) error, name string, log logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Error("shutdown failed", map[string]interface{}{"component": name, "error": err})
	}
}
