package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"academy-be/internal/config"
	"academy-be/internal/pkg/logger"
	"academy-be/pkg/billing"
	"academy-be/pkg/subscription"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJobs struct {
	fees, subs atomic.Int32
	failFees   bool
}

func (j *countingJobs) GenerateFees(ctx context.Context) (*billing.Result, error) {
	j.fees.Add(1)
	if j.failFees {
		return nil, errors.New("db down")
	}
	return &billing.Result{Generated: 1}, nil
}

func (j *countingJobs) CheckSubscriptions(ctx context.Context) (*subscription.Result, error) {
	j.subs.Add(1)
	return &subscription.Result{}, nil
}

func testConfig() config.SchedulerConfig {
	return config.SchedulerConfig{
		Enabled:              true,
		FeeSchedule:          "0 1 * * *",
		SubscriptionSchedule: "30 1 * * *",
	}
}

func TestNew_RegistersBothJobs(t *testing.T) {
	jobs := &countingJobs{}
	s, err := New(testConfig(), time.UTC, jobs, logger.NewNopLogger())
	require.NoError(t, err)

	entries := s.cron.Entries()
	require.Len(t, entries, 2)

	for _, e := range entries {
		e.WrappedJob.Run()
	}
	assert.Equal(t, int32(1), jobs.fees.Load())
	assert.Equal(t, int32(1), jobs.subs.Load())
}

func TestNew_RejectsBadSchedule(t *testing.T) {
	cfg := testConfig()
	cfg.SubscriptionSchedule = "every day"

	_, err := New(cfg, time.UTC, &countingJobs{}, logger.NewNopLogger())
	assert.Error(t, err)
}

func TestFailedRunDoesNotPanic(t *testing.T) {
	jobs := &countingJobs{failFees: true}
	s, err := New(testConfig(), time.UTC, jobs, logger.NewNopLogger())
	require.NoError(t, err)

	assert.NotPanics(t, s.generateFees)
	assert.Equal(t, int32(1), jobs.fees.Load())
}

func TestKV_PairsKeysAndValues(t *testing.T) {
	details := kv([]interface{}{"entry", 3, "dangling"})
	assert.Equal(t, map[string]interface{}{"entry": 3}, details)
}
