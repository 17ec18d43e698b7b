package memory

import (
	"context"
	"sort"
	"time"

	"academy-be/internal/entity"
	"academy-be/internal/repository/contract"

	"github.com/google/uuid"
)

type feeRepository struct {
	store *Store
}

func (r *feeRepository) CreateDefinition(ctx context.Context, def *entity.FeeDefinition) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if def.Id == uuid.Nil {
		def.Id = uuid.New()
	}
	if _, ok := r.store.definitions[def.Id]; ok {
		return contract.ErrDuplicate
	}
	stamp(&def.CreatedAt, &def.UpdatedAt)
	cp := *def
	r.store.definitions[def.Id] = &cp
	return nil
}

func (r *feeRepository) UpdateDefinition(ctx context.Context, def *entity.FeeDefinition) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.definitions[def.Id]; !ok {
		return contract.ErrNotFound
	}
	stamp(&def.CreatedAt, &def.UpdatedAt)
	cp := *def
	r.store.definitions[def.Id] = &cp
	return nil
}

func (r *feeRepository) FindDefinitionByID(ctx context.Context, id uuid.UUID) (*entity.FeeDefinition, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	def, ok := r.store.definitions[id]
	if !ok {
		return nil, nil
	}
	cp := *def
	return &cp, nil
}

func (r *feeRepository) FindAllDefinitions(ctx context.Context, filter contract.FeeDefinitionFilter) ([]*entity.FeeDefinition, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var defs []*entity.FeeDefinition
	for _, d := range r.store.definitions {
		if filter.AdminId != nil && d.AdminId != *filter.AdminId {
			continue
		}
		if filter.StudentId != nil && d.StudentId != *filter.StudentId {
			continue
		}
		if filter.ActiveOnly && !d.IsActive {
			continue
		}
		cp := *d
		defs = append(defs, &cp)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].CreatedAt.After(defs[j].CreatedAt) })
	return paginate(defs, filter.Limit, filter.Offset), int64(len(defs)), nil
}

func (r *feeRepository) FindActiveDefinitions(ctx context.Context) ([]*entity.FeeDefinition, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var defs []*entity.FeeDefinition
	for _, d := range r.store.definitions {
		if d.IsActive {
			cp := *d
			defs = append(defs, &cp)
		}
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].CreatedAt.Before(defs[j].CreatedAt) })
	return defs, nil
}

func (r *feeRepository) Create(ctx context.Context, fee *entity.Fee) error {
	if hook := r.store.BeforeFeeCreate; hook != nil {
		if err := hook(fee); err != nil {
			return err
		}
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if fee.Id == uuid.Nil {
		fee.Id = uuid.New()
	}
	if fee.FeeDefinitionId != nil {
		for _, f := range r.store.fees {
			if f.FeeDefinitionId != nil && *f.FeeDefinitionId == *fee.FeeDefinitionId &&
				f.Month == fee.Month && f.Year == fee.Year {
				return contract.ErrDuplicate
			}
		}
	}
	stamp(&fee.CreatedAt, &fee.UpdatedAt)
	cp := *fee
	r.store.fees[fee.Id] = &cp
	return nil
}

func (r *feeRepository) Update(ctx context.Context, fee *entity.Fee) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.fees[fee.Id]; !ok {
		return contract.ErrNotFound
	}
	stamp(&fee.CreatedAt, &fee.UpdatedAt)
	cp := *fee
	r.store.fees[fee.Id] = &cp
	return nil
}

func (r *feeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Fee, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	f, ok := r.store.fees[id]
	if !ok {
		return nil, nil
	}
	cp := *f
	return &cp, nil
}

func (r *feeRepository) FindAll(ctx context.Context, filter contract.FeeFilter) ([]*entity.Fee, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var fees []*entity.Fee
	for _, f := range r.store.fees {
		if filter.AdminId != nil && f.AdminId != *filter.AdminId {
			continue
		}
		if filter.StudentIds != nil && !containsID(filter.StudentIds, f.StudentId) {
			continue
		}
		if filter.Status != "" && f.Status != filter.Status {
			continue
		}
		if filter.Month > 0 && f.Month != filter.Month {
			continue
		}
		if filter.Year > 0 && f.Year != filter.Year {
			continue
		}
		cp := *f
		fees = append(fees, &cp)
	}
	sort.Slice(fees, func(i, j int) bool { return fees[i].DueDate.After(fees[j].DueDate) })
	return paginate(fees, filter.Limit, filter.Offset), int64(len(fees)), nil
}

func (r *feeRepository) ExistsForPeriod(ctx context.Context, definitionId uuid.UUID, month, year int) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, f := range r.store.fees {
		if f.FeeDefinitionId != nil && *f.FeeDefinitionId == definitionId && f.Month == month && f.Year == year {
			return true, nil
		}
	}
	return false, nil
}

func (r *feeRepository) CountByDefinition(ctx context.Context, definitionId uuid.UUID) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var count int64
	for _, f := range r.store.fees {
		if f.FeeDefinitionId != nil && *f.FeeDefinitionId == definitionId {
			count++
		}
	}
	return count, nil
}

func (r *feeRepository) MarkOverdue(ctx context.Context, dueBefore time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var affected int64
	for _, f := range r.store.fees {
		if f.Status == entity.FeeStatusPending && f.DueDate.Before(dueBefore) {
			f.Status = entity.FeeStatusOverdue
			affected++
		}
	}
	return affected, nil
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
