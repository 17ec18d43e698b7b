// Package subscription keeps tenant admin access in line with paid subscriptions.
package subscription

import (
	"context"
	"fmt"
	"math"
	"time"

	"academy-be/internal/entity"
	"academy-be/internal/pkg/logger"
	"academy-be/internal/pkg/mailer"
	"academy-be/internal/repository/unitofwork"
	"academy-be/pkg/events"
	"academy-be/pkg/notify"
)

const (
	module = "SubscriptionChecker"

	WarningWindow = 7 * 24 * time.Hour
	WarningTitle  = "Subscription Expiring Soon"
	ExpiredTitle  = "Subscription Expired"
)

type Result struct {
	SubscriptionsExpired       int `json:"subscriptionsExpired"`
	AdminsDisabled             int `json:"adminsDisabled"`
	WarningsSent               int `json:"warningsSent"`
	Errors                     int `json:"errors"`
	TotalExpiredSubscriptions  int `json:"totalExpiredSubscriptions"`
	TotalExpiringSubscriptions int `json:"totalExpiringSubscriptions"`
}

type Checker struct {
	factory   unitofwork.RepositoryFactory
	notifier  notify.Notifier
	mailer    mailer.IEmailService
	publisher events.Publisher
	logger    logger.ILogger
}

func NewChecker(factory unitofwork.RepositoryFactory, notifier notify.Notifier, mail mailer.IEmailService, publisher events.Publisher, log logger.ILogger) *Checker {
	if mail == nil {
		mail = mailer.NewNoopEmailService()
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Checker{
		factory:   factory,
		notifier:  notifier,
		mailer:    mail,
		publisher: publisher,
		logger:    log,
	}
}

// Run expires lapsed subscriptions, disables their tenants, and warns admins
// whose subscription ends within WarningWindow. Listing failures abort the run.
func (c *Checker) Run(ctx context.Context, now time.Time) (*Result, error) {
	result := &Result{}
	subs := c.factory.NewUnitOfWork(ctx).SubscriptionRepository()

	expired, err := subs.FindExpired(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("list expired subscriptions: %w", err)
	}
	result.TotalExpiredSubscriptions = len(expired)

	for _, sub := range expired {
		disabled, err := c.expire(ctx, sub, now)
		if err != nil {
			result.Errors++
			c.logger.Error(module, "Failed to expire subscription", map[string]interface{}{
				"subscription_id": sub.Id.String(),
				"admin_id":        sub.AdminId.String(),
				"error":           err.Error(),
			})
			continue
		}
		result.SubscriptionsExpired++
		if disabled {
			result.AdminsDisabled++
		}
	}

	expiring, err := subs.FindExpiring(ctx, now, now.Add(WarningWindow))
	if err != nil {
		return nil, fmt.Errorf("list expiring subscriptions: %w", err)
	}
	result.TotalExpiringSubscriptions = len(expiring)

	for _, sub := range expiring {
		sent, err := c.warn(ctx, sub, now)
		if err != nil {
			result.Errors++
			c.logger.Error(module, "Failed to send expiry warning", map[string]interface{}{
				"subscription_id": sub.Id.String(),
				"admin_id":        sub.AdminId.String(),
				"error":           err.Error(),
			})
			continue
		}
		if sent {
			result.WarningsSent++
		}
	}

	c.logger.Info(module, "Subscription check finished", map[string]interface{}{
		"expired":         result.SubscriptionsExpired,
		"admins_disabled": result.AdminsDisabled,
		"warnings_sent":   result.WarningsSent,
		"errors":          result.Errors,
	})
	return result, nil
}

// expire flips the subscription to EXPIRED and cascades the tenant
// deactivation in one unit of work. Notifications are sent after commit.
func (c *Checker) expire(ctx context.Context, sub *entity.Subscription, now time.Time) (bool, error) {
	uow := c.factory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}
	defer uow.Rollback()

	if err := uow.SubscriptionRepository().UpdateStatus(ctx, sub.Id, entity.SubscriptionStatusExpired); err != nil {
		return false, fmt.Errorf("update status: %w", err)
	}

	users := uow.UserRepository()
	admin, err := users.FindByID(ctx, sub.AdminId)
	if err != nil {
		return false, fmt.Errorf("load admin: %w", err)
	}

	disabled := false
	var dependents int64
	if admin != nil && admin.IsActive {
		if err := users.SetActive(ctx, admin.Id, false); err != nil {
			return false, fmt.Errorf("deactivate admin: %w", err)
		}
		dependents, err = users.SetActiveForDependents(ctx, admin.Id, entity.DependentRoles, false)
		if err != nil {
			return false, fmt.Errorf("deactivate dependents: %w", err)
		}
		disabled = true
	}

	if err := uow.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}

	c.logger.Info(module, "Subscription expired", map[string]interface{}{
		"subscription_id":     sub.Id.String(),
		"admin_id":            sub.AdminId.String(),
		"admin_disabled":      disabled,
		"dependents_disabled": dependents,
	})

	message := fmt.Sprintf("Your %s subscription ended on %s.", sub.Plan, sub.EndDate.Format("02 Jan 2006"))
	if disabled {
		message += " Your account and all teacher, parent and student accounts of your academy have been disabled. Renew the subscription to restore access."
	}
	c.notify(ctx, notify.Message{
		Type:       entity.NotificationTypeSubscriptionDue,
		Title:      ExpiredTitle,
		Message:    message,
		ReceiverID: sub.AdminId,
		Metadata: map[string]interface{}{
			"subscription_id": sub.Id.String(),
			"admin_disabled":  disabled,
		},
		CreatedAt: now,
	})

	if admin != nil {
		if err := c.mailer.SendSubscriptionExpired(admin.Email, admin.FullName, sub.Plan, sub.EndDate); err != nil {
			c.logger.Warn(module, "Failed to email expiry notice", map[string]interface{}{"admin_id": admin.Id.String(), "error": err.Error()})
		}
	}

	if err := c.publisher.Publish(ctx, events.BaseEvent{
		Type: events.TypeSubscriptionExpired,
		Data: map[string]interface{}{
			"subscription_id":     sub.Id.String(),
			"admin_id":            sub.AdminId.String(),
			"admin_disabled":      disabled,
			"dependents_disabled": dependents,
		},
		OccurredAt: now,
	}); err != nil {
		c.logger.Warn(module, "Failed to publish event", map[string]interface{}{"type": events.TypeSubscriptionExpired, "error": err.Error()})
	}

	return disabled, nil
}

// warn raises at most one expiry warning per admin per calendar day.
func (c *Checker) warn(ctx context.Context, sub *entity.Subscription, now time.Time) (bool, error) {
	uow := c.factory.NewUnitOfWork(ctx)

	exists, err := uow.NotificationRepository().ExistsSince(ctx, sub.AdminId,
		entity.NotificationTypeSubscriptionDue, WarningTitle, startOfDay(now))
	if err != nil {
		return false, fmt.Errorf("check existing warning: %w", err)
	}
	if exists {
		return false, nil
	}

	days := DaysLeft(sub.EndDate, now)
	_, err = c.notifier.Notify(ctx, notify.Message{
		Type:  entity.NotificationTypeSubscriptionDue,
		Title: WarningTitle,
		Message: fmt.Sprintf("Your %s subscription expires in %d day(s) on %s. Renew it to keep your academy active.",
			sub.Plan, days, sub.EndDate.Format("02 Jan 2006")),
		ReceiverID: sub.AdminId,
		Metadata: map[string]interface{}{
			"subscription_id": sub.Id.String(),
			"days_left":       days,
		},
		CreatedAt: now,
	})
	if err != nil {
		return false, err
	}

	if admin, err := uow.UserRepository().FindByID(ctx, sub.AdminId); err == nil && admin != nil {
		if err := c.mailer.SendSubscriptionExpiring(admin.Email, admin.FullName, sub.Plan, sub.EndDate); err != nil {
			c.logger.Warn(module, "Failed to email expiry warning", map[string]interface{}{"admin_id": admin.Id.String(), "error": err.Error()})
		}
	}

	return true, nil
}

func (c *Checker) notify(ctx context.Context, msg notify.Message) {
	if _, err := c.notifier.Notify(ctx, msg); err != nil {
		c.logger.Warn(module, "Failed to notify admin", map[string]interface{}{
			"admin_id": msg.ReceiverID.String(),
			"error":    err.Error(),
		})
	}
}

// DaysLeft rounds the remaining time up to whole days.
func DaysLeft(endDate, now time.Time) int {
	return int(math.Ceil(endDate.Sub(now).Hours() / 24))
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
