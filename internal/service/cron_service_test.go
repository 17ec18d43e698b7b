package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"academy-be/internal/pkg/logger"
	"academy-be/pkg/billing"
	"academy-be/pkg/subscription"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFeeJob struct {
	seen   time.Time
	result *billing.Result
	err    error
}

func (j *stubFeeJob) Run(_ context.Context, now time.Time) (*billing.Result, error) {
	j.seen = now
	return j.result, j.err
}

type stubSubscriptionJob struct {
	seen   time.Time
	result *subscription.Result
	err    error
}

func (j *stubSubscriptionJob) Run(_ context.Context, now time.Time) (*subscription.Result, error) {
	j.seen = now
	return j.result, j.err
}

func TestCronService_RunsJobsInConfiguredZone(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	fees := &stubFeeJob{result: &billing.Result{Generated: 2, Total: 3, Skipped: 1}}
	subs := &stubSubscriptionJob{result: &subscription.Result{SubscriptionsExpired: 1}}

	svc := NewCronService(fees, subs, jakarta, logger.NewNopLogger()).(*cronService)
	// 20:00 UTC on the 4th is already the 5th in Jakarta.
	svc.now = func() time.Time { return time.Date(2024, 3, 4, 20, 0, 0, 0, time.UTC) }

	res, err := svc.GenerateFees(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Generated)
	assert.Equal(t, 5, fees.seen.Day())
	assert.Equal(t, jakarta, fees.seen.Location())

	sres, err := svc.CheckSubscriptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sres.SubscriptionsExpired)
	assert.Equal(t, 5, subs.seen.Day())
}

func TestCronService_PropagatesFailures(t *testing.T) {
	boom := errors.New("database unavailable")
	svc := NewCronService(&stubFeeJob{err: boom}, &stubSubscriptionJob{err: boom}, nil, logger.NewNopLogger())

	_, err := svc.GenerateFees(context.Background())
	assert.ErrorIs(t, err, boom)

	_, err = svc.CheckSubscriptions(context.Background())
	assert.ErrorIs(t, err, boom)
}
