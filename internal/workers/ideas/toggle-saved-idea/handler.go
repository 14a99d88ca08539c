package togglesavedidea

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"business-idea-workers/internal/catalog"
	apperrors "business-idea-workers/internal/common/errors"
	"business-idea-workers/internal/common/logger"
	"business-idea-workers/internal/common/metrics"
	"business-idea-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "toggle-saved-idea"

	savedKeyPrefix  = "ideas:saved:"
	defaultSavedTTL = 30 * 24 * time.Hour
)

// toggleScript flips membership atomically and returns 1 when the idea ends
// up saved. The TTL is refreshed on every toggle.
var toggleScript = redis.NewScript(`
local saved = 0
if redis.call("SISMEMBER", KEYS[1], ARGV[1]) == 1 then
	redis.call("SREM", KEYS[1], ARGV[1])
else
	redis.call("SADD", KEYS[1], ARGV[1])
	saved = 1
end
redis.call("EXPIRE", KEYS[1], ARGV[2])
return saved
`)

type Handler struct {
	config     *Config
	catalog    *catalog.Catalog
	redis      *redis.Client
	validator  *validation.Validator
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

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
	if input.SessionID == "" || input.IdeaID == "" {
		return nil, apperrors.NewInputValidationError("sessionId and ideaId are required")
	}
	if _, ok := h.catalog.Get(input.IdeaID); !ok {
		return nil, apperrors.NewIdeaNotFoundError(input.IdeaID)
	}

	key := savedKeyPrefix + input.SessionID
	ttl := h.config.SavedTTL
	if ttl <= 0 {
		ttl = defaultSavedTTL
	}

	state, err := toggleScript.Run(ctx, h.redis, []string{key}, input.IdeaID, int64(ttl/time.Second)).Int()
	if err != nil {
		return nil, apperrors.NewCacheOperationError("toggle", err)
	}
	saved := state == 1

	members, err := h.redis.SMembers(ctx, key).Result()
	if err != nil {
		return nil, apperrors.NewCacheOperationError("smembers", err)
	}
	sort.Strings(members)
	if members == nil {
		members = []string{}
	}

	action := "removed"
	if saved {
		action = "added"
	}
	metrics.SavedIdeaToggles.WithLabelValues(action).Inc()

	h.logger.Info("saved idea toggled", map[string]interface{}{
		"sessionId": input.SessionID,
		"ideaId":    input.IdeaID,
		"saved":     saved,
		"total":     len(members),
	})

	return &Output{IdeaID: input.IdeaID, Saved: saved, SavedIdeaIDs: members}, nil
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
