package searchideas

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"business-idea-workers/internal/catalog"
	apperrors "business-idea-workers/internal/common/errors"
	"business-idea-workers/internal/common/logger"
	"business-idea-workers/internal/common/metrics"
	"business-idea-workers/internal/common/observability"
	"business-idea-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
	"go.opentelemetry.io/otel/attribute"
)

const TaskType = "search-ideas"

// Handler runs free-text search over the indexed catalog and returns the ids
// of matching ideas, best first. Ids no longer present in the loaded catalog
// are dropped.
type Handler struct {
	config     *Config
	client     *elasticsearch.Client
	catalog    *catalog.Catalog
	validator  *validation.Validator
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, client *elasticsearch.Client, cat *catalog.Catalog, validator *validation.Validator, log logger.Logger) *Handler {
	if config.Index == "" {
		config.Index = catalog.DefaultIndex
	}
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		client:     client,
		catalog:    cat,
		validator:  validator,
		errHandler: apperrors.NewErrorHandler(scoped),
		logger:     scoped,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	defer metrics.JobStarted(TaskType)()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	if err := h.validator.ValidateVariables(TaskType, job.Variables); err != nil {
		h.failJob(client, job, apperrors.NewInputValidationError(err.Error()), start)
		return
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, apperrors.NewInputValidationError(fmt.Sprintf("parse input: %v", err)), start)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, err, start)
		return
	}

	h.completeJob(client, job, output)
	metrics.JobCompleted(TaskType, start)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.MaxBudget < 0 {
		return nil, apperrors.NewInputValidationError("maxBudget must not be negative")
	}

	ctx, span := observability.StartSpan(ctx, TaskType+".execute",
		attribute.String("search.index", h.config.Index),
		attribute.String("search.keywords", input.Keywords),
	)
	defer span.End()

	size := resolveSize(input.Size, h.config.DefaultSize)
	body, err := json.Marshal(buildQuery(input, size))
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	res, err := h.client.Search(
		h.client.Search.WithContext(ctx),
		h.client.Search.WithIndex(h.config.Index),
		h.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.NewSearchTimeoutError(h.config.Index)
		}
		return nil, apperrors.NewElasticsearchConnectionFailedError(err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, apperrors.NewIndexNotFoundError(h.config.Index)
	}
	if res.IsError() {
		return nil, apperrors.NewSearchQueryFailedError(fmt.Errorf("search returned %s", res.Status()))
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, apperrors.NewSearchQueryFailedError(fmt.Errorf("decode response: %w", err))
	}

	ids := make([]string, 0, len(sr.Hits.Hits))
	for _, hit := range sr.Hits.Hits {
		id := hit.Source.ID
		if id == "" {
			id = hit.ID
		}
		if _, ok := h.catalog.Get(id); !ok {
			h.logger.Warn("search hit not in catalog", map[string]interface{}{"ideaId": id})
			continue
		}
		ids = append(ids, id)
	}

	metrics.SearchHits.Observe(float64(len(ids)))
	span.SetAttributes(attribute.Int64("search.total_hits", sr.Hits.Total.Value))

	h.logger.Info("search completed", map[string]interface{}{
		"totalHits": sr.Hits.Total.Value,
		"returned":  len(ids),
		"took":      sr.Took,
	})

	return &Output{
		IdeaIDs:   ids,
		TotalHits: sr.Hits.Total.Value,
		Took:      sr.Took,
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error, start time.Time) {
	stdErr := apperrors.AsStandardError(err)
	metrics.JobFailed(TaskType, string(stdErr.Code), start)
	h.errHandler.HandleJobError(context.Background(), client, job, stdErr)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
