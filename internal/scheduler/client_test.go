package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSchedulerConfig struct {
	redisURL string
}

func (c testSchedulerConfig) GetRedisURL() string         { return c.redisURL }
func (c testSchedulerConfig) GetRedisTLSInsecure() bool   { return false }
func (c testSchedulerConfig) GetAsynqQueueName() string   { return "reminders" }
func (c testSchedulerConfig) GetAsynqConcurrency() int    { return 2 }
func (c testSchedulerConfig) GetReminderCronSpec() string { return "0 9 * * *" }

func TestNewClientRequiresRedisURL(t *testing.T) {
	_, err := NewClient(testSchedulerConfig{})
	assert.Error(t, err)
}

func TestEnqueueReminderScan(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := testSchedulerConfig{redisURL: "redis://" + mr.Addr()}
	client, err := NewClient(cfg)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.EnqueueReminderScan(context.Background()))

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: mr.Addr()})
	defer inspector.Close()

	tasks, err := inspector.ListPendingTasks("reminders")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, TaskReminderScan, tasks[0].Type)

	payload, err := ParseReminderScanPayload(asynq.NewTask(tasks[0].Type, tasks[0].Payload))
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), payload.RequestedAt, time.Minute)
}

func TestReminderScanPayloadRoundTrip(t *testing.T) {
	requested := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	task, err := NewReminderScanTask(ReminderScanPayload{RequestedAt: requested})
	require.NoError(t, err)

	payload, err := ParseReminderScanPayload(task)
	require.NoError(t, err)
	assert.Equal(t, requested, payload.RequestedAt)
}
