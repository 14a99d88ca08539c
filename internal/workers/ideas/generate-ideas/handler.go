package generateideas

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"business-idea-workers/internal/catalog"
	apperrors "business-idea-workers/internal/common/errors"
	"business-idea-workers/internal/common/logger"
	"business-idea-workers/internal/common/metrics"
	"business-idea-workers/internal/common/observability"
	"business-idea-workers/internal/common/validation"
	"business-idea-workers/internal/matcher"
	"business-idea-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
)

const (
	TaskType = "generate-ideas"

	resultKeyPrefix  = "ideas:generated:"
	sessionKeyPrefix = "ideas:session:"
)

type Handler struct {
	config     *Config
	catalog    *catalog.Catalog
	redis      *redis.Client
	validator  *validation.Validator
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

// NewHandler builds the handler. A nil redis client disables result caching.
func NewHandler(config *Config, cat *catalog.Catalog, rdb *redis.Client, validator *validation.Validator, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		catalog:    cat,
		redis:      rdb,
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
	if err := validation.ValidateProfile(input.Profile); err != nil {
		return nil, apperrors.NewProfileValidationError(err.Error())
	}

	ctx, span := observability.StartSpan(ctx, TaskType+".execute",
		attribute.Int("catalog.size", h.catalog.Len()),
		attribute.String("catalog.version", h.catalog.Version()),
	)
	defer span.End()

	key, err := h.cacheKey(input)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	output, hit := h.cached(ctx, key)
	if !hit {
		results := matcher.Generate(input.Profile, h.catalog.Ideas())
		output = &Output{
			Ideas:        results,
			TotalMatches: len(results),
			HasMatches:   len(results) > 0,
		}
		h.store(ctx, key, output)
	}
	span.SetAttributes(attribute.Bool("cache.hit", hit), attribute.Int("ideas.count", output.TotalMatches))

	if input.SessionID != "" {
		h.rememberSession(ctx, input.SessionID, output.Ideas)
	}

	metrics.IdeasReturned.Observe(float64(output.TotalMatches))
	for _, r := range output.Ideas {
		metrics.MatchScores.Observe(r.MatchScore)
	}
	if !output.HasMatches {
		metrics.EmptyResults.Inc()
	}

	h.logger.Info("ideas generated", map[string]interface{}{
		"totalMatches": output.TotalMatches,
		"cacheHit":     hit,
		"location":     input.Profile.Location,
		"experience":   input.Profile.Experience,
	})
	return output, nil
}

// cacheKey hashes the profile together with the catalog version, since the
// result is a pure function of both.
func (h *Handler) cacheKey(input *Input) (string, error) {
	data, err := json.Marshal(input.Profile)
	if err != nil {
		return "", fmt.Errorf("marshal profile: %w", err)
	}
	sum := sha256.Sum256(data)
	return resultKeyPrefix + h.catalog.Version() + ":" + hex.EncodeToString(sum[:]), nil
}

func (h *Handler) cached(ctx context.Context, key string) (*Output, bool) {
	if h.redis == nil {
		return nil, false
	}

	val, err := h.redis.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			metrics.CacheRequests.WithLabelValues(metrics.CacheError).Inc()
			h.logger.Warn("cache read failed", map[string]interface{}{"error": err})
			return nil, false
		}
		metrics.CacheRequests.WithLabelValues(metrics.CacheMiss).Inc()
		return nil, false
	}

	var output Output
	if err := json.Unmarshal([]byte(val), &output); err != nil {
		metrics.CacheRequests.WithLabelValues(metrics.CacheError).Inc()
		h.logger.Warn("discarding unreadable cache entry", map[string]interface{}{"key": key, "error": err})
		return nil, false
	}
	if output.Ideas == nil {
		output.Ideas = []models.MatchResult{}
	}
	metrics.CacheRequests.WithLabelValues(metrics.CacheHit).Inc()
	return &output, true
}

func (h *Handler) store(ctx context.Context, key string, output *Output) {
	if h.redis == nil {
		return
	}
	data, err := json.Marshal(output)
	if err != nil {
		return
	}
	if err := h.redis.Set(ctx, key, data, h.config.CacheTTL).Err(); err != nil {
		metrics.CacheRequests.WithLabelValues(metrics.CacheError).Inc()
		h.logger.Warn("cache write failed", map[string]interface{}{"error": err})
	}
}

// rememberSession replaces the session's latest result ids, in rank order.
func (h *Handler) rememberSession(ctx context.Context, sessionID string, ideas []models.MatchResult) {
	if h.redis == nil {
		return
	}
	key := sessionKeyPrefix + sessionID
	ids := make([]interface{}, len(ideas))
	for i, idea := range ideas {
		ids[i] = idea.ID
	}

	_, err := h.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(ids) > 0 {
			pipe.RPush(ctx, key, ids...)
			pipe.Expire(ctx, key, h.config.CacheTTL)
		}
		return nil
	})
	if err != nil {
		h.logger.Warn("session result write failed", map[string]interface{}{"sessionId": sessionID, "error": err})
	}
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
