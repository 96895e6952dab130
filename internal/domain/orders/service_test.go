package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-care-management/internal/domain/pets"
	"pet-care-management/internal/domain/users"
	"pet-care-management/internal/platform/apperr"
	"pet-care-management/internal/platform/pagination"
	"pet-care-management/internal/platform/patch"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------------
// Fakes
// -------------------------

type fakeRepo struct {
	byID       map[int64]Order
	seq        int64
	price      decimal.Decimal
	createErrs []error
	createCall int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[int64]Order{}, price: decimal.RequireFromString("50.00")}
}

func (r *fakeRepo) CreatePriced(_ context.Context, o Order) (Order, error) {
	r.createCall++
	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		if err != nil {
			return Order{}, err
		}
	}
	r.seq++
	o.ID = r.seq
	o.TotalAmount = r.price
	r.byID[o.ID] = o
	return o, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (Order, error) {
	o, ok := r.byID[id]
	if !ok {
		return Order{}, apperr.ErrNotFound
	}
	return o, nil
}

func (r *fakeRepo) List(_ context.Context, _ ListFilter, _ pagination.Params) ([]Order, int64, error) {
	return nil, 0, nil
}

func (r *fakeRepo) Update(_ context.Context, o Order) error {
	if _, ok := r.byID[o.ID]; !ok {
		return apperr.ErrNotFound
	}
	r.byID[o.ID] = o
	return nil
}

func (r *fakeRepo) SoftDelete(_ context.Context, id int64, _ time.Time) (bool, error) {
	if _, ok := r.byID[id]; !ok {
		return false, nil
	}
	delete(r.byID, id)
	return true, nil
}

type fakePets map[int64]pets.Pet

func (f fakePets) Get(_ context.Context, id int64) (pets.Pet, error) {
	p, ok := f[id]
	if !ok {
		return pets.Pet{}, apperr.NotFound("pet not found")
	}
	return p, nil
}

type fakeUsers struct {
	byID  map[int64]users.User
	staff map[int64]bool
}

func (f fakeUsers) Get(_ context.Context, id int64) (users.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return users.User{}, apperr.NotFound("user not found")
	}
	return u, nil
}

func (f fakeUsers) RequireStaff(_ context.Context, id int64, field string) error {
	if !f.staff[id] {
		return apperr.Validation(field + " must reference a staff user")
	}
	return nil
}

var fixedNow = time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)

func newTestService(repo *fakeRepo) *Service {
	svc := NewService(repo,
		fakePets{10: {ID: 10, OwnerID: 1}, 20: {ID: 20, OwnerID: 2}},
		fakeUsers{
			byID:  map[int64]users.User{1: {ID: 1}, 2: {ID: 2}, 3: {ID: 3}},
			staff: map[int64]bool{3: true},
		},
	)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

// -------------------------
// Tests
// -------------------------

func TestGenerateOrderNo_Format(t *testing.T) {
	no := GenerateOrderNo(fixedNow)
	assert.Regexp(t, `^ORD20260115103000\d{4}$`, no)
}

func TestCreate_PendingWithServicePrice(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	o, err := svc.Create(context.Background(), CreateInput{UserID: 1, PetID: 10, ServiceID: 5})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, o.Status)
	assert.True(t, o.TotalAmount.Equal(decimal.RequireFromString("50")))
	assert.Equal(t, fixedNow, o.CreatedAt)
	assert.Regexp(t, `^ORD\d{18}$`, o.OrderNo)
}

func TestCreate_PetMustBelongToUser(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.Create(context.Background(), CreateInput{UserID: 1, PetID: 20, ServiceID: 5})
	assert.Equal(t, "pet does not belong to user", apperr.MessageOf(err))

	_, err = svc.Create(context.Background(), CreateInput{UserID: 1, PetID: 99, ServiceID: 5})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.Create(context.Background(), CreateInput{UserID: 42, PetID: 10, ServiceID: 5})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.Create(context.Background(), CreateInput{UserID: 1, PetID: 10})
	assert.Equal(t, "service_id is required", apperr.MessageOf(err))
}

func TestCreate_ServiceErrors(t *testing.T) {
	cases := []struct {
		repoErr error
		kind    apperr.Kind
		msg     string
	}{
		{ErrServiceNotFound, apperr.KindNotFound, "service not found"},
		{ErrServiceUnavailable, apperr.KindValidation, "service is not available"},
		{errors.New("disk full"), apperr.KindStorage, "storage failure"},
	}
	for _, tc := range cases {
		t.Run(tc.msg, func(t *testing.T) {
			repo := newFakeRepo()
			repo.createErrs = []error{tc.repoErr}
			svc := newTestService(repo)

			_, err := svc.Create(context.Background(), CreateInput{UserID: 1, PetID: 10, ServiceID: 5})
			assert.Equal(t, tc.kind, apperr.KindOf(err))
			assert.Equal(t, tc.msg, apperr.MessageOf(err))
		})
	}
}

func TestCreate_RetriesOrderNoCollision(t *testing.T) {
	repo := newFakeRepo()
	repo.createErrs = []error{ErrDuplicateOrderNo, ErrDuplicateOrderNo}
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), CreateInput{UserID: 1, PetID: 10, ServiceID: 5})
	require.NoError(t, err)
	assert.Equal(t, 3, repo.createCall)
}

func TestCreate_GivesUpAfterMaxAttempts(t *testing.T) {
	repo := newFakeRepo()
	repo.createErrs = []error{ErrDuplicateOrderNo, ErrDuplicateOrderNo, ErrDuplicateOrderNo}
	svc := newTestService(repo)

	_, err := svc.Create(context.Background(), CreateInput{UserID: 1, PetID: 10, ServiceID: 5})
	assert.Equal(t, apperr.KindStorage, apperr.KindOf(err))
	assert.Equal(t, maxOrderNoAttempts, repo.createCall)
}

func TestUpdate(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	o, err := svc.Create(ctx, CreateInput{UserID: 1, PetID: 10, ServiceID: 5})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, o.ID, UpdateInput{
		StaffID: patch.Of(int64(3)),
		Status:  patch.Of(StatusConfirmed),
		Notes:   patch.Of("  bring leash  "),
	})
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, updated.Status)
	require.NotNil(t, updated.StaffID)
	assert.Equal(t, int64(3), *updated.StaffID)
	assert.Equal(t, "bring leash", *updated.Notes)
	assert.True(t, updated.TotalAmount.Equal(o.TotalAmount))

	_, err = svc.Update(ctx, o.ID, UpdateInput{StaffID: patch.Of(int64(1))})
	assert.Equal(t, "staff_id must reference a staff user", apperr.MessageOf(err))

	_, err = svc.Update(ctx, o.ID, UpdateInput{Status: patch.Null[Status]()})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Update(ctx, 999, UpdateInput{})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestUpdateInput_RequiresManage(t *testing.T) {
	assert.False(t, UpdateInput{}.RequiresManage())
	assert.False(t, UpdateInput{Notes: patch.Of("x")}.RequiresManage())
	assert.False(t, UpdateInput{Status: patch.Of(StatusCancelled)}.RequiresManage())
	assert.True(t, UpdateInput{Status: patch.Of(StatusConfirmed)}.RequiresManage())
	assert.True(t, UpdateInput{StaffID: patch.Null[int64]()}.RequiresManage())
}

func TestDelete(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	o, err := svc.Create(ctx, CreateInput{UserID: 1, PetID: 10, ServiceID: 5})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, o.ID))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(svc.Delete(ctx, o.ID)))
}
