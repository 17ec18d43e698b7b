package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"academy-be/internal/entity"
	"academy-be/internal/pkg/logger"
	"academy-be/internal/repository/contract"
	"academy-be/internal/repository/memory"
	"academy-be/internal/repository/unitofwork"
	"academy-be/pkg/events"
	"academy-be/pkg/notify"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store     *memory.Store
	recorder  *events.Recorder
	generator *Generator
}

func newFixture() *fixture {
	store := memory.NewStore()
	recorder := &events.Recorder{}
	return &fixture{
		store:    store,
		recorder: recorder,
		generator: NewGenerator(
			store.Factory(),
			notify.NewRepositoryNotifier(store.Factory()),
			recorder,
			logger.NewNopLogger(),
		),
	}
}

func (f *fixture) addDefinition(t *testing.T, def *entity.FeeDefinition) *entity.FeeDefinition {
	t.Helper()
	require.NoError(t, f.store.Factory().NewUnitOfWork(context.Background()).FeeRepository().CreateDefinition(context.Background(), def))
	return def
}

func (f *fixture) addUser(t *testing.T, role entity.UserRole, adminId *uuid.UUID) *entity.User {
	t.Helper()
	u := &entity.User{
		Id:       uuid.New(),
		Email:    uuid.NewString() + "@academy.test",
		FullName: string(role) + " user",
		Role:     role,
		IsActive: true,
		AdminId:  adminId,
	}
	require.NoError(t, f.store.Factory().NewUnitOfWork(context.Background()).UserRepository().Create(context.Background(), u))
	return u
}

func (f *fixture) link(t *testing.T, parent, student *entity.User) {
	t.Helper()
	err := f.store.Factory().NewUnitOfWork(context.Background()).UserRepository().LinkParentStudent(context.Background(), &entity.ParentStudent{
		ParentId:  parent.Id,
		StudentId: student.Id,
	})
	require.NoError(t, err)
}

func feesFor(store *memory.Store, defId uuid.UUID) []*entity.Fee {
	var out []*entity.Fee
	for _, f := range store.Fees() {
		if f.FeeDefinitionId != nil && *f.FeeDefinitionId == defId {
			out = append(out, f)
		}
	}
	return out
}

func TestGenerator_IsIdempotentWithinPeriod(t *testing.T) {
	f := newFixture()
	def := f.addDefinition(t, definition(entity.FeeCadenceMonthly, 5, date(2024, 1, 5)))
	now := date(2024, 3, 5)

	first, err := f.generator.Run(context.Background(), now)
	require.NoError(t, err)
	second, err := f.generator.Run(context.Background(), now.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 1, first.Generated)
	assert.Equal(t, 0, second.Generated)
	assert.Equal(t, 1, second.Skipped)
	assert.Len(t, feesFor(f.store, def.Id), 1)
}

func TestGenerator_CadenceProducesFeeForCurrentPeriod(t *testing.T) {
	f := newFixture()
	def := f.addDefinition(t, definition(entity.FeeCadenceMonthly, 5, date(2024, 1, 5)))

	res, err := f.generator.Run(context.Background(), date(2024, 3, 4))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Generated)
	assert.Empty(t, feesFor(f.store, def.Id))

	res, err = f.generator.Run(context.Background(), date(2024, 3, 5))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Generated)

	fees := feesFor(f.store, def.Id)
	require.Len(t, fees, 1)
	fee := fees[0]
	assert.Equal(t, 3, fee.Month)
	assert.Equal(t, 2024, fee.Year)
	assert.Equal(t, entity.FeeStatusPending, fee.Status)
	assert.Equal(t, def.StudentId, fee.StudentId)
	assert.Equal(t, def.AdminId, fee.AdminId)
	assert.True(t, def.Amount.Equal(fee.Amount))
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), fee.DueDate)
}

func TestGenerator_OnceCadenceGeneratesAtMostOnce(t *testing.T) {
	f := newFixture()
	def := f.addDefinition(t, definition(entity.FeeCadenceOnce, 10, date(2024, 1, 1)))

	for _, now := range []time.Time{date(2024, 1, 1), date(2024, 1, 1), date(2024, 2, 10), date(2024, 7, 22), date(2025, 1, 10)} {
		_, err := f.generator.Run(context.Background(), now)
		require.NoError(t, err)
	}

	assert.Len(t, feesFor(f.store, def.Id), 1)
}

func TestGenerator_IsolatesMalformedDefinition(t *testing.T) {
	f := newFixture()
	now := date(2024, 3, 5)

	var valid []*entity.FeeDefinition
	for i := 0; i < 9; i++ {
		valid = append(valid, f.addDefinition(t, definition(entity.FeeCadenceMonthly, 5, date(2024, 1, 5))))
	}
	broken := definition(entity.FeeCadenceMonthly, 5, date(2024, 1, 5))
	broken.StudentId = uuid.Nil
	f.addDefinition(t, broken)

	res, err := f.generator.Run(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 10, res.Total)
	assert.Equal(t, 9, res.Generated)
	assert.Equal(t, 1, res.Errors)
	assert.Equal(t, 0, res.Skipped)
	for _, def := range valid {
		assert.Len(t, feesFor(f.store, def.Id), 1)
	}
}

func TestGenerator_CountsTransientCreateFailure(t *testing.T) {
	f := newFixture()
	def := f.addDefinition(t, definition(entity.FeeCadenceMonthly, 5, date(2024, 1, 5)))
	f.store.BeforeFeeCreate = func(*entity.Fee) error { return errors.New("connection reset") }

	res, err := f.generator.Run(context.Background(), date(2024, 3, 5))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Errors)
	assert.Empty(t, feesFor(f.store, def.Id))

	// The next invocation retries because nothing was written.
	f.store.BeforeFeeCreate = nil
	res, err = f.generator.Run(context.Background(), date(2024, 3, 5))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Generated)
}

func TestGenerator_UniqueViolationCountsAsSkipped(t *testing.T) {
	f := newFixture()
	f.addDefinition(t, definition(entity.FeeCadenceMonthly, 5, date(2024, 1, 5)))
	f.store.BeforeFeeCreate = func(*entity.Fee) error { return contract.ErrDuplicate }

	res, err := f.generator.Run(context.Background(), date(2024, 3, 5))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Errors)
	assert.Equal(t, 1, res.Skipped)
	assert.Empty(t, f.recorder.OfType(events.TypeFeeGenerated))
}

func TestGenerator_NotifiesEveryLinkedParent(t *testing.T) {
	f := newFixture()
	admin := f.addUser(t, entity.UserRoleAdmin, nil)
	student := f.addUser(t, entity.UserRoleStudent, &admin.Id)
	mother := f.addUser(t, entity.UserRoleParent, &admin.Id)
	father := f.addUser(t, entity.UserRoleParent, &admin.Id)
	f.link(t, mother, student)
	f.link(t, father, student)

	def := definition(entity.FeeCadenceMonthly, 5, date(2024, 1, 5))
	def.AdminId = admin.Id
	def.StudentId = student.Id
	f.addDefinition(t, def)

	_, err := f.generator.Run(context.Background(), date(2024, 3, 5))
	require.NoError(t, err)

	receivers := map[uuid.UUID]bool{}
	for _, n := range f.store.Notifications() {
		assert.Equal(t, entity.NotificationTypeFeeDue, n.Type)
		assert.Nil(t, n.SenderId)
		assert.Contains(t, n.Message, student.FullName)
		receivers[n.ReceiverId] = true
	}
	assert.Equal(t, map[uuid.UUID]bool{mother.Id: true, father.Id: true}, receivers)

	published := f.recorder.OfType(events.TypeFeeGenerated)
	require.Len(t, published, 1)
	assert.Equal(t, student.Id.String(), published[0].Payload()["student_id"])
}

func TestGenerator_NotificationFailureDoesNotFailFee(t *testing.T) {
	f := newFixture()
	admin := f.addUser(t, entity.UserRoleAdmin, nil)
	student := f.addUser(t, entity.UserRoleStudent, &admin.Id)
	parent := f.addUser(t, entity.UserRoleParent, &admin.Id)
	f.link(t, parent, student)
	f.store.BeforeNotificationCreate = func(*entity.Notification) error { return errors.New("disk full") }

	def := definition(entity.FeeCadenceMonthly, 5, date(2024, 1, 5))
	def.StudentId = student.Id
	f.addDefinition(t, def)

	res, err := f.generator.Run(context.Background(), date(2024, 3, 5))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Generated)
	assert.Equal(t, 0, res.Errors)
}

func TestGenerator_MarksPastDueFeesOverdue(t *testing.T) {
	f := newFixture()
	repo := f.store.Factory().NewUnitOfWork(context.Background()).FeeRepository()
	pastDue := &entity.Fee{AdminId: uuid.New(), StudentId: uuid.New(), Title: "Books", Amount: decimal.NewFromInt(20),
		DueDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Month: 3, Year: 2024, Status: entity.FeeStatusPending}
	dueToday := &entity.Fee{AdminId: uuid.New(), StudentId: uuid.New(), Title: "Trip", Amount: decimal.NewFromInt(20),
		DueDate: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), Month: 3, Year: 2024, Status: entity.FeeStatusPending}
	paid := &entity.Fee{AdminId: uuid.New(), StudentId: uuid.New(), Title: "Lab", Amount: decimal.NewFromInt(20),
		DueDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), Month: 2, Year: 2024, Status: entity.FeeStatusPaid}
	for _, fee := range []*entity.Fee{pastDue, dueToday, paid} {
		require.NoError(t, repo.Create(context.Background(), fee))
	}

	res, err := f.generator.Run(context.Background(), date(2024, 3, 5))
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.MarkedOverdue)

	statuses := map[uuid.UUID]entity.FeeStatus{}
	for _, fee := range f.store.Fees() {
		statuses[fee.Id] = fee.Status
	}
	assert.Equal(t, entity.FeeStatusOverdue, statuses[pastDue.Id])
	assert.Equal(t, entity.FeeStatusPending, statuses[dueToday.Id])
	assert.Equal(t, entity.FeeStatusPaid, statuses[paid.Id])
}

type brokenFees struct {
	contract.FeeRepository
}

func (brokenFees) FindActiveDefinitions(context.Context) ([]*entity.FeeDefinition, error) {
	return nil, errors.New("database unreachable")
}

type brokenUnitOfWork struct {
	unitofwork.UnitOfWork
}

func (u brokenUnitOfWork) FeeRepository() contract.FeeRepository {
	return brokenFees{u.UnitOfWork.FeeRepository()}
}

type brokenFactory struct {
	inner unitofwork.RepositoryFactory
}

func (f brokenFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return brokenUnitOfWork{f.inner.NewUnitOfWork(ctx)}
}

func TestGenerator_ListingFailureAbortsRun(t *testing.T) {
	store := memory.NewStore()
	g := NewGenerator(brokenFactory{store.Factory()}, notify.NewRepositoryNotifier(store.Factory()), nil, logger.NewNopLogger())

	res, err := g.Run(context.Background(), date(2024, 3, 5))
	assert.Error(t, err)
	assert.Nil(t, res)
}
