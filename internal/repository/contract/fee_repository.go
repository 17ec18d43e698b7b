package contract

import (
	"context"
	"time"

	"academy-be/internal/entity"

	"github.com/google/uuid"
)

type FeeDefinitionFilter struct {
	AdminId    *uuid.UUID
	StudentId  *uuid.UUID
	ActiveOnly bool
	Limit      int
	Offset     int
}

type FeeFilter struct {
	AdminId    *uuid.UUID
	StudentIds []uuid.UUID
	Status     entity.FeeStatus
	Month      int
	Year       int
	Limit      int
	Offset     int
}

type FeeRepository interface {
	// Definitions
	CreateDefinition(ctx context.Context, def *entity.FeeDefinition) error
	UpdateDefinition(ctx context.Context, def *entity.FeeDefinition) error
	FindDefinitionByID(ctx context.Context, id uuid.UUID) (*entity.FeeDefinition, error)
	FindAllDefinitions(ctx context.Context, filter FeeDefinitionFilter) ([]*entity.FeeDefinition, int64, error)
	FindActiveDefinitions(ctx context.Context) ([]*entity.FeeDefinition, error)

	// Fees
	Create(ctx context.Context, fee *entity.Fee) error // ErrDuplicate on (definition, month, year) clash
	Update(ctx context.Context, fee *entity.Fee) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Fee, error)
	FindAll(ctx context.Context, filter FeeFilter) ([]*entity.Fee, int64, error)
	ExistsForPeriod(ctx context.Context, definitionId uuid.UUID, month, year int) (bool, error)
	CountByDefinition(ctx context.Context, definitionId uuid.UUID) (int64, error)
	MarkOverdue(ctx context.Context, dueBefore time.Time) (int64, error)
}
