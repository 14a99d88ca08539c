package sendideareport

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	awsclients "business-idea-workers/internal/common/aws"
	apperrors "business-idea-workers/internal/common/errors"
	"business-idea-workers/internal/common/logger"
	"business-idea-workers/internal/common/metrics"
	"business-idea-workers/internal/common/observability"
	"business-idea-workers/internal/common/validation"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

const TaskType = "send-idea-report"

// Handler delivers a generated result list to the user by email (SES) or
// SMS (SNS).
type Handler struct {
	config     *Config
	ses        awsclients.SESAPI
	sns        awsclients.SNSAPI
	validator  *validation.Validator
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
	now        func() time.Time
}

func NewHandler(config *Config, ses awsclients.SESAPI, sns awsclients.SNSAPI, validator *validation.Validator, log logger.Logger) *Handler {
	if config.Subject == "" {
		config.Subject = DefaultSubject
	}
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		ses:        ses,
		sns:        sns,
		validator:  validator,
		errHandler: apperrors.NewErrorHandler(scoped),
		logger:     scoped,
		now:        time.Now,
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
	if input.Recipient == "" {
		return nil, apperrors.NewInputValidationError("recipient is required")
	}

	ctx, span := observability.StartSpan(ctx, TaskType+".execute",
		attribute.String("notification.channel", input.Channel),
		attribute.Int("ideas.count", len(input.Ideas)),
	)
	defer span.End()

	var (
		providerID string
		err        error
	)
	switch input.Channel {
	case ChannelEmail:
		providerID, err = h.sendEmail(ctx, input)
	case ChannelSMS:
		providerID, err = h.sendSMS(ctx, input)
	default:
		return nil, apperrors.NewInputValidationError(fmt.Sprintf("unsupported channel %q", input.Channel))
	}
	if err != nil {
		return nil, err
	}

	metrics.ReportsSent.WithLabelValues(input.Channel).Inc()

	output := &Output{
		MessageID:         uuid.New().String(),
		ProviderMessageID: providerID,
		Channel:           input.Channel,
		SentAt:            h.now().UTC().Format(time.RFC3339),
	}
	h.logger.Info("idea report sent", map[string]interface{}{
		"channel":   input.Channel,
		"messageId": output.MessageID,
		"ideas":     len(input.Ideas),
	})
	return output, nil
}

func (h *Handler) sendEmail(ctx context.Context, input *Input) (string, error) {
	if !h.config.EmailEnabled || h.ses == nil {
		return "", apperrors.NewNotificationChannelDisabledError(ChannelEmail)
	}

	text, html, err := renderEmail(input.Name, input.Ideas)
	if err != nil {
		return "", apperrors.NewInternalError(fmt.Errorf("render email: %w", err))
	}

	res, err := h.ses.SendEmail(ctx, awsclients.EmailInput(h.config.FromEmail, input.Recipient, h.config.Subject, text, html))
	if err != nil {
		return "", apperrors.NewNotificationSendFailedError(ChannelEmail, err)
	}
	return aws.ToString(res.MessageId), nil
}

func (h *Handler) sendSMS(ctx context.Context, input *Input) (string, error) {
	if !h.config.SMSEnabled || h.sns == nil {
		return "", apperrors.NewNotificationChannelDisabledError(ChannelSMS)
	}

	res, err := h.sns.Publish(ctx, awsclients.SMSInput(input.Recipient, renderSMS(input.Ideas), h.config.SenderID))
	if err != nil {
		return "", apperrors.NewNotificationSendFailedError(ChannelSMS, err)
	}
	return aws.ToString(res.MessageId), nil
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
