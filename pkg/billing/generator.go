package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"academy-be/internal/entity"
	"academy-be/internal/pkg/logger"
	"academy-be/internal/repository/contract"
	"academy-be/internal/repository/unitofwork"
	"academy-be/pkg/events"
	"academy-be/pkg/notify"

	"github.com/google/uuid"
)

const module = "FeeGenerator"

type Result struct {
	Generated     int   `json:"generated"`
	Skipped       int   `json:"skipped"`
	Errors        int   `json:"errors"`
	Total         int   `json:"total"`
	MarkedOverdue int64 `json:"markedOverdue"`
}

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeGenerated
)

// Generator walks active fee definitions once per invocation.
type Generator struct {
	factory   unitofwork.RepositoryFactory
	notifier  notify.Notifier
	publisher events.Publisher
	logger    logger.ILogger
}

func NewGenerator(factory unitofwork.RepositoryFactory, notifier notify.Notifier, publisher events.Publisher, log logger.ILogger) *Generator {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Generator{
		factory:   factory,
		notifier:  notifier,
		publisher: publisher,
		logger:    log,
	}
}

// Run generates the fees due on now's calendar day, then flags PENDING fees
// whose due date has passed as OVERDUE. Only a failure to list definitions
// aborts the run; per-definition failures are counted in Result.Errors.
func (g *Generator) Run(ctx context.Context, now time.Time) (*Result, error) {
	uow := g.factory.NewUnitOfWork(ctx)

	defs, err := uow.FeeRepository().FindActiveDefinitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active fee definitions: %w", err)
	}

	result := &Result{Total: len(defs)}
	for _, def := range defs {
		out, err := g.process(ctx, uow, def, now)
		if err != nil {
			result.Errors++
			g.logger.Error(module, "Failed to process fee definition", map[string]interface{}{
				"definition_id": def.Id.String(),
				"error":         err.Error(),
			})
			continue
		}
		if out == outcomeGenerated {
			result.Generated++
		} else {
			result.Skipped++
		}
	}

	marked, err := uow.FeeRepository().MarkOverdue(ctx, StartOfDay(now))
	if err != nil {
		result.Errors++
		g.logger.Error(module, "Failed to mark overdue fees", map[string]interface{}{"error": err.Error()})
	} else {
		result.MarkedOverdue = marked
		if marked > 0 {
			g.publish(ctx, events.BaseEvent{
				Type:       events.TypeFeesMarkedOverdue,
				Data:       map[string]interface{}{"count": marked},
				OccurredAt: now,
			})
		}
	}

	g.logger.Info(module, "Fee generation finished", map[string]interface{}{
		"generated":      result.Generated,
		"skipped":        result.Skipped,
		"errors":         result.Errors,
		"total":          result.Total,
		"marked_overdue": result.MarkedOverdue,
	})
	return result, nil
}

func (g *Generator) process(ctx context.Context, uow unitofwork.UnitOfWork, def *entity.FeeDefinition, now time.Time) (outcome, error) {
	if err := ValidateDefinition(def); err != nil {
		return outcomeSkipped, err
	}

	fees := uow.FeeRepository()

	hasAnyFee := false
	if def.Cadence == entity.FeeCadenceOnce {
		count, err := fees.CountByDefinition(ctx, def.Id)
		if err != nil {
			return outcomeSkipped, fmt.Errorf("count fees: %w", err)
		}
		hasAnyFee = count > 0
	}

	if !ShouldGenerateFee(def, now, hasAnyFee) {
		return outcomeSkipped, nil
	}

	month, year := int(now.Month()), now.Year()
	exists, err := fees.ExistsForPeriod(ctx, def.Id, month, year)
	if err != nil {
		return outcomeSkipped, fmt.Errorf("check existing fee: %w", err)
	}
	if exists {
		return outcomeSkipped, nil
	}

	defId := def.Id
	fee := &entity.Fee{
		AdminId:         def.AdminId,
		StudentId:       def.StudentId,
		CourseId:        def.CourseId,
		FeeDefinitionId: &defId,
		Title:           def.Title,
		Description:     def.Description,
		Amount:          def.Amount,
		Currency:        def.Currency,
		DueDate:         DueDate(def, now),
		Month:           month,
		Year:            year,
		Status:          entity.FeeStatusPending,
	}

	if err := fees.Create(ctx, fee); err != nil {
		// A concurrent run won the race between the existence check and the insert.
		if errors.Is(err, contract.ErrDuplicate) {
			return outcomeSkipped, nil
		}
		return outcomeSkipped, fmt.Errorf("create fee: %w", err)
	}

	g.notifyParents(ctx, uow, fee, now)
	g.publish(ctx, events.BaseEvent{
		Type: events.TypeFeeGenerated,
		Data: map[string]interface{}{
			"fee_id":            fee.Id.String(),
			"fee_definition_id": defId.String(),
			"admin_id":          fee.AdminId.String(),
			"student_id":        fee.StudentId.String(),
			"amount":            fee.Amount.String(),
			"currency":          fee.Currency,
			"month":             fee.Month,
			"year":              fee.Year,
			"due_date":          fee.DueDate.Format("2006-01-02"),
		},
		OccurredAt: now,
	})

	return outcomeGenerated, nil
}

// notifyParents raises FEE_DUE for every parent linked to the fee's student.
func (g *Generator) notifyParents(ctx context.Context, uow unitofwork.UnitOfWork, fee *entity.Fee, now time.Time) {
	users := uow.UserRepository()

	parents, err := users.FindParentsOfStudent(ctx, fee.StudentId)
	if err != nil {
		g.logger.Warn(module, "Failed to load parents for fee notification", map[string]interface{}{
			"fee_id": fee.Id.String(),
			"error":  err.Error(),
		})
		return
	}
	if len(parents) == 0 {
		return
	}

	studentName := "your child"
	if student, err := users.FindByID(ctx, fee.StudentId); err == nil && student != nil {
		studentName = student.FullName
	}

	for _, parent := range parents {
		_, err := g.notifier.Notify(ctx, notify.Message{
			Type:  entity.NotificationTypeFeeDue,
			Title: "New Fee Due",
			Message: fmt.Sprintf("A new fee \"%s\" of %s %s for %s is due on %s.",
				fee.Title, fee.Amount.StringFixed(2), fee.Currency, studentName, fee.DueDate.Format("02 Jan 2006")),
			ReceiverID: parent.Id,
			Metadata: map[string]interface{}{
				"fee_id":     fee.Id.String(),
				"student_id": fee.StudentId.String(),
			},
			CreatedAt: now,
		})
		if err != nil {
			g.logger.Warn(module, "Failed to notify parent", map[string]interface{}{
				"fee_id":    fee.Id.String(),
				"parent_id": parent.Id.String(),
				"error":     err.Error(),
			})
		}
	}
}

func (g *Generator) publish(ctx context.Context, evt events.BaseEvent) {
	if err := g.publisher.Publish(ctx, evt); err != nil {
		g.logger.Warn(module, "Failed to publish event", map[string]interface{}{
			"type":  evt.Type,
			"error": err.Error(),
		})
	}
}

// ParentIds is a small helper for callers that only need receiver ids.
func ParentIds(parents []*entity.User) []uuid.UUID {
	ids := make([]uuid.UUID, len(parents))
	for i, p := range parents {
		ids[i] = p.Id
	}
	return ids
}
