package refineresults

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "business-idea-workers/internal/common/errors"
	"business-idea-workers/internal/common/logger"
	"business-idea-workers/internal/common/metrics"
	"business-idea-workers/internal/common/validation"
	"business-idea-workers/internal/matcher"
	"business-idea-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "refine-results"

// Handler filters and re-orders a result list produced by generate-ideas.
// It never re-scores.
type Handler struct {
	config     *Config
	validator  *validation.Validator
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, validator *validation.Validator, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
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

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	difficulty := input.Difficulty
	if difficulty != "" && difficulty != matcher.DifficultyAll && !models.Difficulty(difficulty).Valid() {
		return nil, apperrors.NewInputValidationError(fmt.Sprintf("unknown difficulty %q", difficulty))
	}

	sortBy := matcher.SortKey(input.SortBy)
	if sortBy == "" {
		sortBy = matcher.SortByMatch
	}

	filtered := matcher.FilterByDifficulty(input.Ideas, difficulty)
	sorted, err := matcher.SortResults(filtered, sortBy)
	if err != nil {
		if errors.Is(err, matcher.ErrUnknownSortKey) {
			return nil, apperrors.NewInvalidSortKeyError(input.SortBy)
		}
		return nil, apperrors.NewInternalError(err)
	}
	if sorted == nil {
		sorted = []models.MatchResult{}
	}

	h.logger.Debug("results refined", map[string]interface{}{
		"difficulty": difficulty,
		"sortBy":     string(sortBy),
		"in":         len(input.Ideas),
		"out":        len(sorted),
	})
	return &Output{Ideas: sorted, Count: len(sorted)}, nil
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
