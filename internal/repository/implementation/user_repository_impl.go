package implementation

import (
	"context"
	"errors"

	"academy-be/internal/entity"
	"academy-be/internal/mapper"
	"academy-be/internal/model"
	"academy-be/internal/repository/contract"
	"academy-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	return &UserRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *entity.User) error {
	if user.Id == uuid.Nil {
		user.Id = uuid.New()
	}
	m := r.mapper.ToModel(user)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateWriteError(err)
	}
	*user = *r.mapper.ToEntity(m)
	return nil
}

func (r *UserRepositoryImpl) Update(ctx context.Context, user *entity.User) error {
	m := r.mapper.ToModel(user)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return translateWriteError(err)
	}
	*user = *r.mapper.ToEntity(m)
	return nil
}

func (r *UserRepositoryImpl) findOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	var m model.User
	query := specification.ApplyAll(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *UserRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.findOne(ctx, specification.ByID{ID: id})
}

func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, specification.ByEmail{Email: email})
}

func (r *UserRepositoryImpl) FindActiveByRole(ctx context.Context, role entity.UserRole) ([]*entity.User, error) {
	var models []*model.User
	query := specification.ApplyAll(
		r.db.WithContext(ctx),
		specification.WithRoles{Roles: []string{string(role)}},
		specification.FilterBy{Field: "is_active", Value: true},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	users := make([]*entity.User, len(models))
	for i, m := range models {
		users[i] = r.mapper.ToEntity(m)
	}
	return users, nil
}

func (r *UserRepositoryImpl) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return contract.ErrNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) SetActiveForDependents(ctx context.Context, adminId uuid.UUID, roles []entity.UserRole, active bool) (int64, error) {
	roleNames := make([]string, len(roles))
	for i, role := range roles {
		roleNames[i] = string(role)
	}
	query := specification.ApplyAll(
		r.db.WithContext(ctx).Model(&model.User{}),
		specification.OwnedByAdmin{AdminID: adminId},
		specification.WithRoles{Roles: roleNames},
	)
	result := query.Update("is_active", active)
	return result.RowsAffected, result.Error
}

func (r *UserRepositoryImpl) LinkParentStudent(ctx context.Context, link *entity.ParentStudent) error {
	if link.Id == uuid.Nil {
		link.Id = uuid.New()
	}
	m := r.mapper.ParentStudentToModel(link)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateWriteError(err)
	}
	*link = *r.mapper.ParentStudentToEntity(m)
	return nil
}

func (r *UserRepositoryImpl) FindParentsOfStudent(ctx context.Context, studentId uuid.UUID) ([]*entity.User, error) {
	var models []*model.User
	err := r.db.WithContext(ctx).
		Joins("JOIN parent_students ON parent_students.parent_id = users.id").
		Where("parent_students.student_id = ?", studentId).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	users := make([]*entity.User, len(models))
	for i, m := range models {
		users[i] = r.mapper.ToEntity(m)
	}
	return users, nil
}

func (r *UserRepositoryImpl) FindStudentIdsOfParent(ctx context.Context, parentId uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := specification.ApplyAll(
		r.db.WithContext(ctx).Model(&model.ParentStudent{}),
		specification.ByParent{ParentID: parentId},
	)
	if err := query.Pluck("student_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
