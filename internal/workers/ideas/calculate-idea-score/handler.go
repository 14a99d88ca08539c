package calculateideascore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"business-idea-workers/internal/catalog"
	apperrors "business-idea-workers/internal/common/errors"
	"business-idea-workers/internal/common/logger"
	"business-idea-workers/internal/common/metrics"
	"business-idea-workers/internal/common/observability"
	"business-idea-workers/internal/common/validation"
	"business-idea-workers/internal/matcher"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
)

const TaskType = "calculate-idea-score"

// Handler scores a single catalog idea and explains the result per criterion.
type Handler struct {
	config     *Config
	catalog    *catalog.Catalog
	validator  *validation.Validator
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, cat *catalog.Catalog, validator *validation.Validator, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
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
	if err := validation.ValidateProfile(input.Profile); err != nil {
		return nil, apperrors.NewProfileValidationError(err.Error())
	}

	idea, ok := h.catalog.Get(input.IdeaID)
	if !ok {
		return nil, apperrors.NewIdeaNotFoundError(input.IdeaID)
	}

	_, span := observability.StartSpan(ctx, TaskType+".execute", attribute.String("idea.id", idea.ID))
	defer span.End()

	breakdown := matcher.Breakdown(&idea, input.Profile)
	output := &Output{
		IdeaID:            idea.ID,
		MatchScore:        breakdown.Total,
		Breakdown:         breakdown,
		PersonalizedNotes: matcher.Notes(&idea, input.Profile),
		Qualifies:         breakdown.Total > matcher.InclusionThreshold,
	}
	span.SetAttributes(attribute.Float64("match.score", output.MatchScore))
	metrics.MatchScores.Observe(output.MatchScore)

	h.logger.Debug("idea scored", map[string]interface{}{
		"ideaId":     idea.ID,
		"matchScore": output.MatchScore,
		"qualifies":  output.Qualifies,
	})
	return output, nil
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
