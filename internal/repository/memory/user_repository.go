package memory

import (
	"context"

	"academy-be/internal/entity"
	"academy-be/internal/repository/contract"

	"github.com/google/uuid"
)

type userRepository struct {
	store *Store
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if user.Id == uuid.Nil {
		user.Id = uuid.New()
	}
	for _, u := range r.store.users {
		if u.Email == user.Email || u.Id == user.Id {
			return contract.ErrDuplicate
		}
	}
	stamp(&user.CreatedAt, &user.UpdatedAt)
	cp := *user
	r.store.users[user.Id] = &cp
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.users[user.Id]; !ok {
		return contract.ErrNotFound
	}
	stamp(&user.CreatedAt, &user.UpdatedAt)
	cp := *user
	r.store.users[user.Id] = &cp
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, u := range r.store.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *userRepository) FindActiveByRole(ctx context.Context, role entity.UserRole) ([]*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var users []*entity.User
	for _, u := range r.store.users {
		if u.Role == role && u.IsActive {
			cp := *u
			users = append(users, &cp)
		}
	}
	return users, nil
}

func (r *userRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id]
	if !ok {
		return contract.ErrNotFound
	}
	u.IsActive = active
	return nil
}

func (r *userRepository) SetActiveForDependents(ctx context.Context, adminId uuid.UUID, roles []entity.UserRole, active bool) (int64, error) {
	if hook := r.store.BeforeDependentsUpdate; hook != nil {
		if err := hook(adminId, active); err != nil {
			return 0, err
		}
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var affected int64
	for _, u := range r.store.users {
		if u.AdminId == nil || *u.AdminId != adminId || !hasRole(roles, u.Role) {
			continue
		}
		u.IsActive = active
		affected++
	}
	return affected, nil
}

func (r *userRepository) LinkParentStudent(ctx context.Context, link *entity.ParentStudent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, ps := range r.store.parentStudents {
		if ps.ParentId == link.ParentId && ps.StudentId == link.StudentId {
			return contract.ErrDuplicate
		}
	}
	if link.Id == uuid.Nil {
		link.Id = uuid.New()
	}
	cp := *link
	r.store.parentStudents[link.Id] = &cp
	return nil
}

func (r *userRepository) FindParentsOfStudent(ctx context.Context, studentId uuid.UUID) ([]*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var parents []*entity.User
	for _, ps := range r.store.parentStudents {
		if ps.StudentId != studentId {
			continue
		}
		if u, ok := r.store.users[ps.ParentId]; ok {
			cp := *u
			parents = append(parents, &cp)
		}
	}
	return parents, nil
}

func (r *userRepository) FindStudentIdsOfParent(ctx context.Context, parentId uuid.UUID) ([]uuid.UUID, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var ids []uuid.UUID
	for _, ps := range r.store.parentStudents {
		if ps.ParentId == parentId {
			ids = append(ids, ps.StudentId)
		}
	}
	return ids, nil
}

func hasRole(roles []entity.UserRole, role entity.UserRole) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
