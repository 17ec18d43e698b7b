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
	"academy-be/pkg/billing"
	"academy-be/pkg/notify"

	"github.com/google/uuid"
)

const feeModule = "FeeService"

type IFeeService interface {
	CreateDefinition(ctx context.Context, caller serverutils.Principal, req *dto.CreateFeeDefinitionRequest) (*dto.FeeDefinitionResponse, error)
	ListDefinitions(ctx context.Context, caller serverutils.Principal, query dto.ListFeeDefinitionsQuery) (*serverutils.Page[dto.FeeDefinitionResponse], error)
	UpdateDefinition(ctx context.Context, caller serverutils.Principal, req *dto.UpdateFeeDefinitionRequest) (*dto.FeeDefinitionResponse, error)
	DeactivateDefinition(ctx context.Context, caller serverutils.Principal, id uuid.UUID) error

	ListFees(ctx context.Context, caller serverutils.Principal, query dto.ListFeesQuery) (*serverutils.Page[dto.FeeResponse], error)
	CreateFee(ctx context.Context, caller serverutils.Principal, req *dto.CreateFeeRequest) (*dto.FeeResponse, error)
	SubmitPayment(ctx context.Context, caller serverutils.Principal, req *dto.SubmitFeePaymentRequest) (*dto.FeeResponse, error)
	VerifyPayment(ctx context.Context, caller serverutils.Principal, id uuid.UUID) (*dto.FeeResponse, error)
	RejectPayment(ctx context.Context, caller serverutils.Principal, req *dto.RejectPaymentRequest) (*dto.FeeResponse, error)
	CancelFee(ctx context.Context, caller serverutils.Principal, id uuid.UUID) (*dto.FeeResponse, error)
}

type feeService struct {
	uowFactory unitofwork.RepositoryFactory
	notifier   notify.Notifier
	logger     logger.ILogger
	now        func() time.Time
}

func NewFeeService(uowFactory unitofwork.RepositoryFactory, notifier notify.Notifier, log logger.ILogger) IFeeService {
	return &feeService{
		uowFactory: uowFactory,
		notifier:   notifier,
		logger:     log,
		now:        time.Now,
	}
}

// Definitions

func (s *feeService) CreateDefinition(ctx context.Context, caller serverutils.Principal, req *dto.CreateFeeDefinitionRequest) (*dto.FeeDefinitionResponse, error) {
	tenantId := caller.TenantId()
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := s.requireStudent(ctx, uow, tenantId, req.StudentId); err != nil {
		return nil, err
	}

	def := &entity.FeeDefinition{
		AdminId:       tenantId,
		StudentId:     req.StudentId,
		CourseId:      req.CourseId,
		Title:         req.Title,
		Description:   req.Description,
		Amount:        req.Amount,
		Currency:      strings.ToUpper(req.Currency),
		Cadence:       entity.FeeCadence(req.Cadence),
		GenerationDay: req.GenerationDay,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		IsActive:      true,
	}
	if err := checkDefinition(def); err != nil {
		return nil, err
	}

	if err := uow.FeeRepository().CreateDefinition(ctx, def); err != nil {
		return nil, err
	}

	res := dto.NewFeeDefinitionResponse(def)
	return &res, nil
}

func (s *feeService) ListDefinitions(ctx context.Context, caller serverutils.Principal, query dto.ListFeeDefinitionsQuery) (*serverutils.Page[dto.FeeDefinitionResponse], error) {
	tenantId := caller.TenantId()
	limit, offset := normalizePage(query.Limit, query.Offset)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	defs, total, err := uow.FeeRepository().FindAllDefinitions(ctx, contract.FeeDefinitionFilter{
		AdminId:    &tenantId,
		StudentId:  query.StudentId,
		ActiveOnly: query.ActiveOnly,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, err
	}

	items := make([]dto.FeeDefinitionResponse, 0, len(defs))
	for _, d := range defs {
		items = append(items, dto.NewFeeDefinitionResponse(d))
	}
	return &serverutils.Page[dto.FeeDefinitionResponse]{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *feeService) UpdateDefinition(ctx context.Context, caller serverutils.Principal, req *dto.UpdateFeeDefinitionRequest) (*dto.FeeDefinitionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	def, err := s.ownedDefinition(ctx, uow, caller, req.Id)
	if err != nil {
		return nil, err
	}

	def.Title = req.Title
	def.Description = req.Description
	def.Amount = req.Amount
	def.Currency = strings.ToUpper(req.Currency)
	def.Cadence = entity.FeeCadence(req.Cadence)
	def.GenerationDay = req.GenerationDay
	def.StartDate = req.StartDate
	def.EndDate = req.EndDate
	if req.IsActive != nil {
		def.IsActive = *req.IsActive
	}
	if err := checkDefinition(def); err != nil {
		return nil, err
	}

	if err := uow.FeeRepository().UpdateDefinition(ctx, def); err != nil {
		return nil, err
	}

	res := dto.NewFeeDefinitionResponse(def)
	return &res, nil
}

// DeactivateDefinition stops future generation. Fees already issued stay as they are.
func (s *feeService) DeactivateDefinition(ctx context.Context, caller serverutils.Principal, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	def, err := s.ownedDefinition(ctx, uow, caller, id)
	if err != nil {
		return err
	}
	if !def.IsActive {
		return nil
	}
	def.IsActive = false
	return uow.FeeRepository().UpdateDefinition(ctx, def)
}

// Fees

func (s *feeService) ListFees(ctx context.Context, caller serverutils.Principal, query dto.ListFeesQuery) (*serverutils.Page[dto.FeeResponse], error) {
	limit, offset := normalizePage(query.Limit, query.Offset)
	filter := contract.FeeFilter{
		Status: entity.FeeStatus(query.Status),
		Month:  query.Month,
		Year:   query.Year,
		Limit:  limit,
		Offset: offset,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	switch caller.Role {
	case entity.UserRoleParent:
		children, err := uow.UserRepository().FindStudentIdsOfParent(ctx, caller.UserId)
		if err != nil {
			return nil, err
		}
		if query.StudentId != nil {
			if !containsId(children, *query.StudentId) {
				return nil, contract.ErrForbidden
			}
			children = []uuid.UUID{*query.StudentId}
		}
		if len(children) == 0 {
			return &serverutils.Page[dto.FeeResponse]{Items: []dto.FeeResponse{}, Limit: limit, Offset: offset}, nil
		}
		filter.StudentIds = children
	default:
		tenantId := caller.TenantId()
		filter.AdminId = &tenantId
		if query.StudentId != nil {
			filter.StudentIds = []uuid.UUID{*query.StudentId}
		}
	}

	fees, total, err := uow.FeeRepository().FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]dto.FeeResponse, 0, len(fees))
	for _, f := range fees {
		items = append(items, dto.NewFeeResponse(f))
	}
	return &serverutils.Page[dto.FeeResponse]{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

// CreateFee issues an ad hoc fee outside any definition.
func (s *feeService) CreateFee(ctx context.Context, caller serverutils.Principal, req *dto.CreateFeeRequest) (*dto.FeeResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", contract.ErrInvalidInput)
	}

	tenantId := caller.TenantId()
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := s.requireStudent(ctx, uow, tenantId, req.StudentId); err != nil {
		return nil, err
	}

	fee := &entity.Fee{
		AdminId:     tenantId,
		StudentId:   req.StudentId,
		CourseId:    req.CourseId,
		Title:       req.Title,
		Description: req.Description,
		Amount:      req.Amount,
		Currency:    strings.ToUpper(req.Currency),
		DueDate:     req.DueDate,
		Month:       int(req.DueDate.Month()),
		Year:        req.DueDate.Year(),
		Status:      entity.FeeStatusPending,
	}
	if err := uow.FeeRepository().Create(ctx, fee); err != nil {
		return nil, err
	}

	s.notifyParents(ctx, uow, fee, &caller.UserId, entity.NotificationTypeFeeDue, "New Fee Due",
		fmt.Sprintf("A new fee \"%s\" of %s %s is due on %s.", fee.Title, fee.Amount.StringFixed(2), fee.Currency, fee.DueDate.Format("02 Jan 2006")))

	res := dto.NewFeeResponse(fee)
	return &res, nil
}

// SubmitPayment records a parent's proof of payment and hands the fee to the admin for review.
func (s *feeService) SubmitPayment(ctx context.Context, caller serverutils.Principal, req *dto.SubmitFeePaymentRequest) (*dto.FeeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	fee, err := s.parentFee(ctx, uow, caller, req.Id)
	if err != nil {
		return nil, err
	}
	if fee.Status != entity.FeeStatusPending && fee.Status != entity.FeeStatusOverdue {
		return nil, fmt.Errorf("%w: fee is %s", contract.ErrInvalidTransition, fee.Status)
	}

	paid := req.PaidAmount
	if paid.IsZero() {
		paid = fee.Amount
	}
	if !paid.IsPositive() {
		return nil, fmt.Errorf("%w: paid amount must be positive", contract.ErrInvalidInput)
	}

	details := paymentDetails(req.Details, req.PaymentMethod, req.Reference)
	proof := req.PaymentProofURL
	payer := caller.UserId

	fee.Status = entity.FeeStatusProcessing
	fee.PaidAmount = &paid
	fee.PaidById = &payer
	fee.PaymentDetails = details
	fee.PaymentProofURL = &proof

	if err := uow.FeeRepository().Update(ctx, fee); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.send(ctx, notify.Message{
		Type:       entity.NotificationTypeFeePaymentSubmitted,
		Title:      "Fee Payment Submitted",
		Message:    fmt.Sprintf("A payment of %s %s was submitted for \"%s\".", paid.StringFixed(2), fee.Currency, fee.Title),
		SenderID:   &payer,
		ReceiverID: fee.AdminId,
		Metadata:   feeMetadata(fee),
	})

	res := dto.NewFeeResponse(fee)
	return &res, nil
}

func (s *feeService) VerifyPayment(ctx context.Context, caller serverutils.Principal, id uuid.UUID) (*dto.FeeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	fee, err := s.tenantFee(ctx, uow, caller, id)
	if err != nil {
		return nil, err
	}
	if fee.Status != entity.FeeStatusProcessing {
		return nil, fmt.Errorf("%w: fee is %s", contract.ErrInvalidTransition, fee.Status)
	}

	now := s.now()
	fee.Status = entity.FeeStatusPaid
	fee.PaidDate = &now

	if err := uow.FeeRepository().Update(ctx, fee); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.notifyParents(ctx, uow, fee, &caller.UserId, entity.NotificationTypeFeePaid, "Fee Paid",
		fmt.Sprintf("Your payment for \"%s\" has been verified.", fee.Title))

	res := dto.NewFeeResponse(fee)
	return &res, nil
}

// RejectPayment sends the fee back to PENDING and clears the submitted payment.
func (s *feeService) RejectPayment(ctx context.Context, caller serverutils.Principal, req *dto.RejectPaymentRequest) (*dto.FeeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	fee, err := s.tenantFee(ctx, uow, caller, req.Id)
	if err != nil {
		return nil, err
	}
	if fee.Status != entity.FeeStatusProcessing {
		return nil, fmt.Errorf("%w: fee is %s", contract.ErrInvalidTransition, fee.Status)
	}

	payer := fee.PaidById
	fee.Status = entity.FeeStatusPending
	fee.PaidAmount = nil
	fee.PaidById = nil
	fee.PaidDate = nil
	fee.PaymentProofURL = nil
	fee.PaymentDetails = map[string]interface{}{"rejection_reason": req.Reason}

	if err := uow.FeeRepository().Update(ctx, fee); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Your payment for \"%s\" was rejected: %s", fee.Title, req.Reason)
	if payer != nil {
		s.send(ctx, notify.Message{
			Type:       entity.NotificationTypeFeePaymentRejected,
			Title:      "Fee Payment Rejected",
			Message:    msg,
			SenderID:   &caller.UserId,
			ReceiverID: *payer,
			Metadata:   feeMetadata(fee),
		})
	} else {
		s.notifyParents(ctx, uow, fee, &caller.UserId, entity.NotificationTypeFeePaymentRejected, "Fee Payment Rejected", msg)
	}

	res := dto.NewFeeResponse(fee)
	return &res, nil
}

func (s *feeService) CancelFee(ctx context.Context, caller serverutils.Principal, id uuid.UUID) (*dto.FeeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	fee, err := s.tenantFee(ctx, uow, caller, id)
	if err != nil {
		return nil, err
	}
	if fee.Status == entity.FeeStatusPaid || fee.Status == entity.FeeStatusCancelled {
		return nil, fmt.Errorf("%w: fee is %s", contract.ErrInvalidTransition, fee.Status)
	}

	fee.Status = entity.FeeStatusCancelled
	if err := uow.FeeRepository().Update(ctx, fee); err != nil {
		return nil, err
	}

	res := dto.NewFeeResponse(fee)
	return &res, nil
}

// helpers

func (s *feeService) requireStudent(ctx context.Context, uow unitofwork.UnitOfWork, tenantId, studentId uuid.UUID) error {
	student, err := uow.UserRepository().FindByID(ctx, studentId)
	if err != nil {
		return err
	}
	if student == nil || student.Role != entity.UserRoleStudent || student.AdminId == nil || *student.AdminId != tenantId {
		return fmt.Errorf("%w: student %s", contract.ErrNotFound, studentId)
	}
	return nil
}

func (s *feeService) ownedDefinition(ctx context.Context, uow unitofwork.UnitOfWork, caller serverutils.Principal, id uuid.UUID) (*entity.FeeDefinition, error) {
	def, err := uow.FeeRepository().FindDefinitionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if def == nil || def.AdminId != caller.TenantId() {
		return nil, fmt.Errorf("%w: fee definition %s", contract.ErrNotFound, id)
	}
	return def, nil
}

// tenantFee hides fees of other tenants behind ErrNotFound.
func (s *feeService) tenantFee(ctx context.Context, uow unitofwork.UnitOfWork, caller serverutils.Principal, id uuid.UUID) (*entity.Fee, error) {
	fee, err := uow.FeeRepository().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if fee == nil || fee.AdminId != caller.TenantId() {
		return nil, fmt.Errorf("%w: fee %s", contract.ErrNotFound, id)
	}
	return fee, nil
}

func (s *feeService) parentFee(ctx context.Context, uow unitofwork.UnitOfWork, caller serverutils.Principal, id uuid.UUID) (*entity.Fee, error) {
	fee, err := uow.FeeRepository().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if fee == nil {
		return nil, fmt.Errorf("%w: fee %s", contract.ErrNotFound, id)
	}

	children, err := uow.UserRepository().FindStudentIdsOfParent(ctx, caller.UserId)
	if err != nil {
		return nil, err
	}
	if !containsId(children, fee.StudentId) {
		return nil, contract.ErrForbidden
	}
	return fee, nil
}

func (s *feeService) notifyParents(ctx context.Context, uow unitofwork.UnitOfWork, fee *entity.Fee, sender *uuid.UUID, notifType entity.NotificationType, title, message string) {
	parents, err := uow.UserRepository().FindParentsOfStudent(ctx, fee.StudentId)
	if err != nil {
		s.logger.Warn(feeModule, "Failed to load parents", map[string]interface{}{
			"fee_id": fee.Id.String(),
			"error":  err.Error(),
		})
		return
	}

	for _, parentId := range billing.ParentIds(parents) {
		s.send(ctx, notify.Message{
			Type:       notifType,
			Title:      title,
			Message:    message,
			SenderID:   sender,
			ReceiverID: parentId,
			Metadata:   feeMetadata(fee),
		})
	}
}

func (s *feeService) send(ctx context.Context, msg notify.Message) {
	if _, err := s.notifier.Notify(ctx, msg); err != nil {
		s.logger.Warn(feeModule, "Failed to send notification", map[string]interface{}{
			"type":        string(msg.Type),
			"receiver_id": msg.ReceiverID.String(),
			"error":       err.Error(),
		})
	}
}

func checkDefinition(def *entity.FeeDefinition) error {
	if err := billing.ValidateDefinition(def); err != nil {
		return fmt.Errorf("%w: %v", contract.ErrInvalidInput, err)
	}
	if def.EndDate != nil && def.EndDate.Before(def.StartDate) {
		return fmt.Errorf("%w: end date before start date", contract.ErrInvalidInput)
	}
	return nil
}

func feeMetadata(fee *entity.Fee) map[string]interface{} {
	return map[string]interface{}{
		"fee_id":     fee.Id.String(),
		"student_id": fee.StudentId.String(),
		"status":     string(fee.Status),
	}
}

func paymentDetails(extra map[string]interface{}, method, reference string) map[string]interface{} {
	details := make(map[string]interface{}, len(extra)+2)
	for k, v := range extra {
		details[k] = v
	}
	details["payment_method"] = method
	if reference != "" {
		details["reference"] = reference
	}
	return details
}

func containsId(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
