package camunda

import (
	"context"
	"sync"
	"time"

	"business-idea-workers/internal/common/config"
	"business-idea-workers/internal/common/logger"
	"business-idea-workers/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// JobRecorder receives one call per handled job.
type JobRecorder interface {
	RecordJob(ctx context.Context, taskType string, duration time.Duration)
}

// Workers opens job workers and closes them together on shutdown.
type Workers struct {
	client   zbc.Client
	recorder JobRecorder
	log      logger.Logger

	mu      sync.Mutex
	opened  map[string]worker.JobWorker
	stopped bool
}

func NewWorkers(client zbc.Client, recorder JobRecorder, log logger.Logger) *Workers {
	return &Workers{
		client:   client,
		recorder: recorder,
		log:      log,
		opened:   make(map[string]worker.JobWorker),
	}
}

// Start opens a job worker for taskType unless it is disabled. It returns
// false when nothing was started.
func (w *Workers) Start(taskType string, wcfg config.WorkerConfig, handler worker.JobHandler) bool {
	if !wcfg.Enabled {
		w.log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return false
	}
	if _, dup := w.opened[taskType]; dup {
		w.log.Warn("worker already started", map[string]interface{}{"taskType": taskType})
		return false
	}

	jw := w.client.NewJobWorker().
		JobType(taskType).
		Handler(Instrument(taskType, handler, w.recorder)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()
	w.opened[taskType] = jw

	w.log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeoutMs":     wcfg.Timeout,
	})
	return true
}

// TaskTypes lists the running workers.
func (w *Workers) TaskTypes() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.opened))
	for t := range w.opened {
		out = append(out, t)
	}
	return out
}

// Close stops polling and waits for in-flight jobs.
func (w *Workers) Close() {
	w.mu.Lock()
	w.stopped = true
	opened := w.opened
	w.opened = make(map[string]worker.JobWorker)
	w.mu.Unlock()

	for taskType, jw := range opened {
		jw.Close()
		jw.AwaitClose()
		w.log.Info("worker stopped", map[string]interface{}{"taskType": taskType})
	}
}

// Instrument wraps a handler with a span and job timing.
func Instrument(taskType string, handler worker.JobHandler, recorder JobRecorder) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		ctx, span := observability.StartSpan(context.Background(), "job "+taskType)
		defer span.End()

		handler(client, job)

		if recorder != nil {
			recorder.RecordJob(ctx, taskType, time.Since(start))
		}
	}
}
