package contract

import (
	"context"

	"academy-be/internal/entity"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindActiveByRole(ctx context.Context, role entity.UserRole) ([]*entity.User, error)

	// Activation
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	SetActiveForDependents(ctx context.Context, adminId uuid.UUID, roles []entity.UserRole, active bool) (int64, error)

	// Parent / Student links
	LinkParentStudent(ctx context.Context, link *entity.ParentStudent) error
	FindParentsOfStudent(ctx context.Context, studentId uuid.UUID) ([]*entity.User, error)
	FindStudentIdsOfParent(ctx context.Context, parentId uuid.UUID) ([]uuid.UUID, error)
}
