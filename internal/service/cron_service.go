package service

import (
	"context"
	"time"

	"academy-be/internal/pkg/logger"
	"academy-be/pkg/billing"
	"academy-be/pkg/subscription"
)

const cronModule = "CronService"

// FeeJob and SubscriptionJob are satisfied by billing.Generator and subscription.Checker.
type FeeJob interface {
	Run(ctx context.Context, now time.Time) (*billing.Result, error)
}

type SubscriptionJob interface {
	Run(ctx context.Context, now time.Time) (*subscription.Result, error)
}

type ICronService interface {
	GenerateFees(ctx context.Context) (*billing.Result, error)
	CheckSubscriptions(ctx context.Context) (*subscription.Result, error)
}

type cronService struct {
	fees          FeeJob
	subscriptions SubscriptionJob
	location      *time.Location
	logger        logger.ILogger
	now           func() time.Time
}

// NewCronService runs both jobs against the wall clock in loc, which decides
// what "today" means for generation days and the warning dedupe.
func NewCronService(fees FeeJob, subscriptions SubscriptionJob, loc *time.Location, log logger.ILogger) ICronService {
	if loc == nil {
		loc = time.UTC
	}
	return &cronService{
		fees:          fees,
		subscriptions: subscriptions,
		location:      loc,
		logger:        log,
		now:           time.Now,
	}
}

func (s *cronService) GenerateFees(ctx context.Context) (*billing.Result, error) {
	started := s.now().In(s.location)
	s.logger.Info(cronModule, "Fee generation started", map[string]interface{}{"now": started.Format(time.RFC3339)})

	result, err := s.fees.Run(ctx, started)
	if err != nil {
		s.logger.Error(cronModule, "Fee generation failed", map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	return result, nil
}

func (s *cronService) CheckSubscriptions(ctx context.Context) (*subscription.Result, error) {
	started := s.now().In(s.location)
	s.logger.Info(cronModule, "Subscription check started", map[string]interface{}{"now": started.Format(time.RFC3339)})

	result, err := s.subscriptions.Run(ctx, started)
	if err != nil {
		s.logger.Error(cronModule, "Subscription check failed", map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	return result, nil
}
