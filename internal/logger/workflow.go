package logger

import (
	"go.temporal.io/sdk/workflow"
	"go.uber.org/zap"
)

// FromWorkflow returns a logger tagged with the workflow execution of ctx.
// Entries are dropped while the workflow history is replayed so every
// message is written once per execution.
func FromWorkflow(ctx workflow.Context) *zap.Logger {
	if workflow.IsReplaying(ctx) {
		return zap.NewNop()
	}

	info := workflow.GetInfo(ctx)
	if info == nil {
		return log
	}

	workflowType := info.WorkflowType.Name
	if workflowType == "" {
		workflowType = "unknown"
	}
	return log.With(
		zap.String("workflowType", workflowType),
		zap.String("workflowID", info.WorkflowExecution.ID),
		zap.String("runID", info.WorkflowExecution.RunID),
		zap.String("taskQueue", info.TaskQueueName),
	)
}

// InfoWf logs an info message with workflow context
func InfoWf(ctx workflow.Context, msg string, fields ...zap.Field) {
	FromWorkflow(ctx).Info(msg, fields...)
}

// WarnWf logs a warning message with workflow context
func WarnWf(ctx workflow.Context, msg string, fields ...zap.Field) {
	FromWorkflow(ctx).Warn(msg, fields...)
}

// ErrorWf logs an error with workflow context; the error text becomes the message
func ErrorWf(ctx workflow.Context, err error, fields ...zap.Field) {
	if err != nil {
		FromWorkflow(ctx).Error(err.Error(), fields...)
	} else {
		FromWorkflow(ctx).Error("error occurred", fields...)
	}
}
