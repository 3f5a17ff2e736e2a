// Package jobs holds the background task types, the Asynq worker wiring
// and the job handlers: the nightly report warmup and the daily critical
// stock alert.
package jobs

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportWarmup pre-populates the report caches for the current month.
	TaskReportWarmup = "report:warmup"
	// TaskStockAlert evaluates critical stock and mails the daily alert.
	TaskStockAlert = "stock:alert"
)

// ReportWarmupPayload selects the month to warm; empty means the current one.
type ReportWarmupPayload struct {
	Month string `json:"month,omitempty"`
}

// NewReportWarmupTask constructs an Asynq task.
func NewReportWarmupTask(payload ReportWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportWarmup, data), nil
}

// NewStockAlertTask constructs an Asynq task with an empty payload.
func NewStockAlertTask() *asynq.Task {
	return asynq.NewTask(TaskStockAlert, nil)
}

// Client submits jobs to the queue.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) (*Client, error) {
	client := asynq.NewClient(redisOpts)
	return &Client{client: client}, nil
}

// EnqueueReportWarmup enqueues a warmup run.
func (c *Client) EnqueueReportWarmup(ctx context.Context, payload ReportWarmupPayload) (*asynq.TaskInfo, error) {
	task, err := NewReportWarmupTask(payload)
	if err != nil {
		return nil, err
	}
	return c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault), asynq.TaskID(uuid.NewString()))
}

// EnqueueStockAlert enqueues an alert evaluation.
func (c *Client) EnqueueStockAlert(ctx context.Context) (*asynq.TaskInfo, error) {
	return c.client.EnqueueContext(ctx, NewStockAlertTask(), asynq.Queue(QueueDefault), asynq.TaskID(uuid.NewString()))
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}
