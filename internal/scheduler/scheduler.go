// Package scheduler runs the billing jobs in-process on cron schedules, for
// deployments without an external trigger hitting /api/cron.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"academy-be/internal/config"
	"academy-be/internal/pkg/logger"
	"academy-be/internal/service"

	"github.com/robfig/cron/v3"
)

const (
	module = "Scheduler"

	jobTimeout = 30 * time.Minute
)

type Scheduler struct {
	cron   *cron.Cron
	jobs   service.ICronService
	cfg    config.SchedulerConfig
	logger logger.ILogger
}

// New registers both jobs. A run still in progress makes the next tick skip.
func New(cfg config.SchedulerConfig, loc *time.Location, jobs service.ICronService, log logger.ILogger) (*Scheduler, error) {
	cronLogger := cronLogAdapter{log: log}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		jobs:   jobs,
		cfg:    cfg,
		logger: log,
	}

	if _, err := s.cron.AddFunc(cfg.FeeSchedule, s.generateFees); err != nil {
		return nil, fmt.Errorf("schedule fee generation %q: %w", cfg.FeeSchedule, err)
	}
	if _, err := s.cron.AddFunc(cfg.SubscriptionSchedule, s.checkSubscriptions); err != nil {
		return nil, fmt.Errorf("schedule subscription check %q: %w", cfg.SubscriptionSchedule, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info(module, "Scheduler started", map[string]interface{}{
		"fee_schedule":          s.cfg.FeeSchedule,
		"subscription_schedule": s.cfg.SubscriptionSchedule,
	})
}

// Stop waits for running jobs through the returned context.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) generateFees() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	result, err := s.jobs.GenerateFees(ctx)
	if err != nil {
		return
	}
	s.logger.Info(module, "Scheduled fee generation done", map[string]interface{}{
		"generated": result.Generated,
		"errors":    result.Errors,
	})
}

func (s *Scheduler) checkSubscriptions() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	result, err := s.jobs.CheckSubscriptions(ctx)
	if err != nil {
		return
	}
	s.logger.Info(module, "Scheduled subscription check done", map[string]interface{}{
		"expired": result.SubscriptionsExpired,
		"errors":  result.Errors,
	})
}

// cronLogAdapter satisfies cron.Logger on top of ILogger.
type cronLogAdapter struct {
	log logger.ILogger
}

func (a cronLogAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.log.Debug(module, msg, kv(keysAndValues))
}

func (a cronLogAdapter) Error(err error, msg string, keysAndValues ...interface{}) {
	details := kv(keysAndValues)
	details["error"] = err.Error()
	a.log.Error(module, msg, details)
}

func kv(keysAndValues []interface{}) map[string]interface{} {
	details := make(map[string]interface{}, len(keysAndValues)/2+1)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		details[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return details
}
