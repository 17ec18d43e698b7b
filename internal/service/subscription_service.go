package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"academy-be/internal/dto"
	"academy-be/internal/entity"
	"academy-be/internal/pkg/logger"
	"academy-be/internal/pkg/serverutils"
	"academy-be/internal/repository/contract"
	"academy-be/internal/repository/unitofwork"
	"academy-be/pkg/notify"

	"github.com/google/uuid"
)

const subscriptionModule = "SubscriptionService"

type ISubscriptionService interface {
	Create(ctx context.Context, caller serverutils.Principal, req *dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error)
	List(ctx context.Context, caller serverutils.Principal, query dto.ListSubscriptionsQuery) (*serverutils.Page[dto.SubscriptionResponse], error)
	SubmitPayment(ctx context.Context, caller serverutils.Principal, req *dto.SubmitSubscriptionPaymentRequest) (*dto.SubscriptionResponse, error)
	Verify(ctx context.Context, caller serverutils.Principal, id uuid.UUID) (*dto.SubscriptionResponse, error)
	Cancel(ctx context.Context, caller serverutils.Principal, id uuid.UUID) (*dto.SubscriptionResponse, error)
}

type subscriptionService struct {
	uowFactory unitofwork.RepositoryFactory
	notifier   notify.Notifier
	logger     logger.ILogger
	now        func() time.Time
}

func NewSubscriptionService(uowFactory unitofwork.RepositoryFactory, notifier notify.Notifier, log logger.ILogger) ISubscriptionService {
	return &subscriptionService{
		uowFactory: uowFactory,
		notifier:   notifier,
		logger:     log,
		now:        time.Now,
	}
}

// Create opens a PENDING renewal for the calling admin.
func (s *subscriptionService) Create(ctx context.Context, caller serverutils.Principal, req *dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", contract.ErrInvalidInput)
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, fmt.Errorf("%w: end date must be after start date", contract.ErrInvalidInput)
	}

	sub := &entity.Subscription{
		AdminId:   caller.UserId,
		Plan:      req.Plan,
		Amount:    req.Amount,
		Currency:  strings.ToUpper(req.Currency),
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    entity.SubscriptionStatusPending,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.SubscriptionRepository().Create(ctx, sub); err != nil {
		return nil, err
	}

	res := dto.NewSubscriptionResponse(sub)
	return &res, nil
}

func (s *subscriptionService) List(ctx context.Context, caller serverutils.Principal, query dto.ListSubscriptionsQuery) (*serverutils.Page[dto.SubscriptionResponse], error) {
	limit, offset := normalizePage(query.Limit, query.Offset)
	filter := contract.SubscriptionFilter{
		AdminId: query.AdminId,
		Status:  entity.SubscriptionStatus(query.Status),
		Limit:   limit,
		Offset:  offset,
	}
	if caller.Role != entity.UserRoleDeveloper {
		own := caller.UserId
		filter.AdminId = &own
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	subs, total, err := uow.SubscriptionRepository().FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]dto.SubscriptionResponse, 0, len(subs))
	for _, sub := range subs {
		items = append(items, dto.NewSubscriptionResponse(sub))
	}
	return &serverutils.Page[dto.SubscriptionResponse]{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

// SubmitPayment attaches the admin's proof of payment and waits for a developer to verify it.
func (s *subscriptionService) SubmitPayment(ctx context.Context, caller serverutils.Principal, req *dto.SubmitSubscriptionPaymentRequest) (*dto.SubscriptionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	sub, err := s.find(ctx, uow, req.Id)
	if err != nil {
		return nil, err
	}
	if sub.AdminId != caller.UserId {
		return nil, contract.ErrForbidden
	}
	if sub.Status != entity.SubscriptionStatusPending {
		return nil, fmt.Errorf("%w: subscription is %s", contract.ErrInvalidTransition, sub.Status)
	}

	proof := req.PaymentProofURL
	sub.Status = entity.SubscriptionStatusProcessing
	sub.PaymentDetails = paymentDetails(req.Details, req.PaymentMethod, req.Reference)
	sub.PaymentProofURL = &proof

	if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	developers, err := uow.UserRepository().FindActiveByRole(ctx, entity.UserRoleDeveloper)
	if err != nil {
		s.logger.Warn(subscriptionModule, "Failed to load developers", map[string]interface{}{"error": err.Error()})
	}
	for _, dev := range developers {
		s.send(ctx, notify.Message{
			Type:       entity.NotificationTypeSubscriptionPaymentSubmitted,
			Title:      "Subscription Payment Submitted",
			Message:    fmt.Sprintf("A payment of %s %s was submitted for the %s plan.", sub.Amount.StringFixed(2), sub.Currency, sub.Plan),
			SenderID:   &caller.UserId,
			ReceiverID: dev.Id,
			Metadata:   subscriptionMetadata(sub),
		})
	}

	res := dto.NewSubscriptionResponse(sub)
	return &res, nil
}

// Verify activates a paid subscription and restores the tenant's accounts.
func (s *subscriptionService) Verify(ctx context.Context, caller serverutils.Principal, id uuid.UUID) (*dto.SubscriptionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	sub, err := s.find(ctx, uow, id)
	if err != nil {
		return nil, err
	}
	if sub.Status != entity.SubscriptionStatusProcessing {
		return nil, fmt.Errorf("%w: subscription is %s", contract.ErrInvalidTransition, sub.Status)
	}

	now := s.now()
	sub.Status = entity.SubscriptionStatusActive
	sub.PaidDate = &now
	if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
		return nil, err
	}

	users := uow.UserRepository()
	if err := users.SetActive(ctx, sub.AdminId, true); err != nil {
		return nil, fmt.Errorf("activate admin: %w", err)
	}
	restored, err := users.SetActiveForDependents(ctx, sub.AdminId, entity.DependentRoles, true)
	if err != nil {
		return nil, fmt.Errorf("activate dependents: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info(subscriptionModule, "Subscription activated", map[string]interface{}{
		"subscription_id":     sub.Id.String(),
		"admin_id":            sub.AdminId.String(),
		"dependents_restored": restored,
	})

	s.send(ctx, notify.Message{
		Type:       entity.NotificationTypeSubscriptionActivated,
		Title:      "Subscription Activated",
		Message:    fmt.Sprintf("Your %s subscription is active until %s.", sub.Plan, sub.EndDate.Format("02 Jan 2006")),
		SenderID:   &caller.UserId,
		ReceiverID: sub.AdminId,
		Metadata:   subscriptionMetadata(sub),
	})

	res := dto.NewSubscriptionResponse(sub)
	return &res, nil
}

func (s *subscriptionService) Cancel(ctx context.Context, caller serverutils.Principal, id uuid.UUID) (*dto.SubscriptionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sub, err := s.find(ctx, uow, id)
	if err != nil {
		return nil, err
	}
	if caller.Role != entity.UserRoleDeveloper && sub.AdminId != caller.UserId {
		return nil, contract.ErrForbidden
	}
	if sub.Status != entity.SubscriptionStatusActive && sub.Status != entity.SubscriptionStatusPending {
		return nil, fmt.Errorf("%w: subscription is %s", contract.ErrInvalidTransition, sub.Status)
	}

	if err := uow.SubscriptionRepository().UpdateStatus(ctx, sub.Id, entity.SubscriptionStatusCancelled); err != nil {
		return nil, err
	}
	sub.Status = entity.SubscriptionStatusCancelled

	res := dto.NewSubscriptionResponse(sub)
	return &res, nil
}

func (s *subscriptionService) find(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*entity.Subscription, error) {
	sub, err := uow.SubscriptionRepository().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, fmt.Errorf("%w: subscription %s", contract.ErrNotFound, id)
	}
	return sub, nil
}

func (s *subscriptionService) send(ctx context.Context, msg notify.Message) {
	if _, err := s.notifier.Notify(ctx, msg); err != nil {
		s.logger.Warn(subscriptionModule, "Failed to send notification", map[string]interface{}{
			"type":        string(msg.Type),
			"receiver_id": msg.ReceiverID.String(),
			"error":       err.Error(),
		})
	}
}

func subscriptionMetadata(sub *entity.Subscription) map[string]interface{} {
	return map[string]interface{}{
		"subscription_id": sub.Id.String(),
		"status":          string(sub.Status),
	}
}
