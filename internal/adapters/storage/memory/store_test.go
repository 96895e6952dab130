package memory

import (
	"context"
	"testing"
	"time"

	"pet-care-management/internal/authz"
	"pet-care-management/internal/domain/boardings"
	"pet-care-management/internal/domain/catalog"
	"pet-care-management/internal/domain/healthrecords"
	"pet-care-management/internal/domain/orders"
	"pet-care-management/internal/domain/pets"
	"pet-care-management/internal/domain/users"
	"pet-care-management/internal/platform/apperr"
	"pet-care-management/internal/platform/pagination"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

func seedUser(t *testing.T, s *Store, username string, role authz.Role) users.User {
	t.Helper()
	u, err := s.Users().Create(context.Background(), users.User{
		Username: username, PasswordHash: "x", Role: role, IsActive: true, CreatedAt: t0, UpdatedAt: t0,
	})
	require.NoError(t, err)
	return u
}

func seedPet(t *testing.T, s *Store, ownerID int64, name string, at time.Time) pets.Pet {
	t.Helper()
	p, err := s.Pets().Create(context.Background(), pets.Pet{
		OwnerID: ownerID, Name: name, Species: "dog", CreatedAt: at, UpdatedAt: at,
	})
	require.NoError(t, err)
	return p
}

func seedService(t *testing.T, s *Store, price string, available bool) catalog.CareService {
	t.Helper()
	cs, err := s.Services().Create(context.Background(), catalog.CareService{
		Name: "Bath", Category: "grooming", Price: decimal.RequireFromString(price),
		IsAvailable: available, CreatedAt: t0, UpdatedAt: t0,
	})
	require.NoError(t, err)
	return cs
}

func TestUsers_UsernameUniqueIncludingDeleted(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	u := seedUser(t, s, "alice", authz.RoleOwner)

	_, err := s.Users().Create(ctx, users.User{Username: "alice"})
	assert.ErrorIs(t, err, users.ErrUsernameTaken)

	ok, err := s.Users().SoftDelete(ctx, u.ID, t0)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.Users().Create(ctx, users.User{Username: "alice"})
	assert.ErrorIs(t, err, users.ErrUsernameTaken)

	_, err = s.Users().GetByUsername(ctx, "alice")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUsers_UpdateKeepsCredentials(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	u := seedUser(t, s, "alice", authz.RoleOwner)

	email := "alice@example.com"
	changed := u
	changed.Username = "mallory"
	changed.PasswordHash = "y"
	changed.Role = authz.RoleAdmin
	changed.Email = &email
	require.NoError(t, s.Users().Update(ctx, changed))

	got, err := s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "x", got.PasswordHash)
	assert.Equal(t, authz.RoleOwner, got.Role)
	assert.Equal(t, &email, got.Email)
}

func TestSoftDelete_HidesRow(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	owner := seedUser(t, s, "alice", authz.RoleOwner)
	p := seedPet(t, s, owner.ID, "Milo", t0)

	ok, err := s.Pets().SoftDelete(ctx, p.ID, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.Pets().GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// segundo delete => no encontrado
	ok, err = s.Pets().SoftDelete(ctx, p.ID, t0)
	require.NoError(t, err)
	assert.False(t, ok)

	// la propiedad sigue resolviéndose
	ownerID, err := s.Pets().OwnerOf(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, ownerID)

	assert.ErrorIs(t, s.Pets().Update(ctx, p), apperr.ErrNotFound)
}

func TestPets_ListNewestFirstAndPaged(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	alice := seedUser(t, s, "alice", authz.RoleOwner)
	bob := seedUser(t, s, "bob", authz.RoleOwner)

	seedPet(t, s, alice.ID, "Milo", t0)
	seedPet(t, s, alice.ID, "Luna", t0.Add(time.Minute))
	seedPet(t, s, alice.ID, "Max", t0.Add(2*time.Minute))
	seedPet(t, s, bob.ID, "Rex", t0.Add(3*time.Minute))

	items, total, err := s.Pets().List(ctx, pets.ListFilter{OwnerID: &alice.ID}, pagination.Params{Page: 1, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 2)
	assert.Equal(t, "Max", items[0].Name)
	assert.Equal(t, "Luna", items[1].Name)

	items, _, err = s.Pets().List(ctx, pets.ListFilter{OwnerID: &alice.ID}, pagination.Params{Page: 2, Size: 2})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Milo", items[0].Name)

	items, total, err = s.Pets().List(ctx, pets.ListFilter{Name: "LU"}, pagination.Default())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Luna", items[0].Name)

	items, total, err = s.Pets().List(ctx, pets.ListFilter{}, pagination.Params{Page: 5, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Empty(t, items)
}

func TestOrders_ListHugePageIsEmpty(t *testing.T) {
	s := NewStore()
	alice := seedUser(t, s, "alice", authz.RoleOwner)
	seedPet(t, s, alice.ID, "Milo", t0)

	p := pagination.Params{Page: 922337203685477582, Size: 10}
	items, total, err := s.Orders().List(context.Background(), orders.ListFilter{}, p)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)

	items2, total2, err := s.Pets().List(context.Background(), pets.ListFilter{}, p)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total2)
	assert.Empty(t, items2)
}

func TestOrders_CreatePriced(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	owner := seedUser(t, s, "alice", authz.RoleOwner)
	p := seedPet(t, s, owner.ID, "Milo", t0)
	svc := seedService(t, s, "50.00", true)
	off := seedService(t, s, "10.00", false)

	o, err := s.Orders().CreatePriced(ctx, orders.Order{
		OrderNo: "ORD202601010900000001", UserID: owner.ID, PetID: p.ID, ServiceID: svc.ID,
		Status: orders.StatusPending, CreatedAt: t0, UpdatedAt: t0,
	})
	require.NoError(t, err)
	assert.True(t, o.TotalAmount.Equal(decimal.RequireFromString("50")))
	assert.NotZero(t, o.ID)

	_, err = s.Orders().CreatePriced(ctx, orders.Order{OrderNo: "ORD202601010900000001", ServiceID: svc.ID})
	assert.ErrorIs(t, err, orders.ErrDuplicateOrderNo)

	_, err = s.Orders().CreatePriced(ctx, orders.Order{OrderNo: "ORD2", ServiceID: off.ID})
	assert.ErrorIs(t, err, orders.ErrServiceUnavailable)

	_, err = s.Orders().CreatePriced(ctx, orders.Order{OrderNo: "ORD3", ServiceID: 999})
	assert.ErrorIs(t, err, orders.ErrServiceNotFound)

	// el precio del servicio cambia; la orden conserva su total
	svc.Price = decimal.RequireFromString("80")
	require.NoError(t, s.Services().Update(ctx, svc))
	o.TotalAmount = decimal.Zero
	o.Status = orders.StatusConfirmed
	require.NoError(t, s.Orders().Update(ctx, o))

	got, err := s.Orders().GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, orders.StatusConfirmed, got.Status)
	assert.True(t, got.TotalAmount.Equal(decimal.RequireFromString("50")))
}

func TestBoardings_OnePerOrderAndOwnerFilter(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	alice := seedUser(t, s, "alice", authz.RoleOwner)
	bob := seedUser(t, s, "bob", authz.RoleOwner)
	p := seedPet(t, s, alice.ID, "Milo", t0)

	b := boardings.Boarding{
		OrderID: 1, PetID: p.ID, StaffID: 9, StartDate: t0, EndDate: t0.Add(48 * time.Hour),
		Status: boardings.StatusScheduled, CreatedAt: t0, UpdatedAt: t0,
	}
	first, err := s.Boardings().Create(ctx, b)
	require.NoError(t, err)

	_, err = s.Boardings().Create(ctx, b)
	assert.ErrorIs(t, err, boardings.ErrOrderHasBoarding)

	_, total, err := s.Boardings().List(ctx, boardings.ListFilter{OwnerID: &bob.ID}, pagination.Default())
	require.NoError(t, err)
	assert.Zero(t, total)

	_, total, err = s.Boardings().List(ctx, boardings.ListFilter{OwnerID: &alice.ID}, pagination.Default())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	// tras borrar, la orden admite un nuevo hospedaje
	ok, err := s.Boardings().SoftDelete(ctx, first.ID, t0)
	require.NoError(t, err)
	require.True(t, ok)
	_, err = s.Boardings().Create(ctx, b)
	assert.NoError(t, err)
}

func TestHealthRecords_OrderedByCheckDate(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	alice := seedUser(t, s, "alice", authz.RoleOwner)
	p := seedPet(t, s, alice.ID, "Milo", t0)

	for i, day := range []int{3, 10, 5} {
		_, err := s.HealthRecords().Create(ctx, healthrecords.Record{
			PetID: p.ID, VetID: 1, Type: healthrecords.TypeCheckup,
			CheckDate: time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC),
			CreatedAt: t0.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	items, total, err := s.HealthRecords().List(ctx, healthrecords.ListFilter{PetID: &p.ID}, pagination.Default())
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, 10, items[0].CheckDate.Day())
	assert.Equal(t, 5, items[1].CheckDate.Day())
	assert.Equal(t, 3, items[2].CheckDate.Day())

	from := time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC)
	_, total, err = s.HealthRecords().List(ctx, healthrecords.ListFilter{From: &from}, pagination.Default())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestDashboard_Stats(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	alice := seedUser(t, s, "alice", authz.RoleOwner)
	p := seedPet(t, s, alice.ID, "Milo", t0)
	svc := seedService(t, s, "50.00", true)

	create := func(no string, st orders.Status) orders.Order {
		o, err := s.Orders().CreatePriced(ctx, orders.Order{
			OrderNo: no, UserID: alice.ID, PetID: p.ID, ServiceID: svc.ID, Status: st, CreatedAt: t0,
		})
		require.NoError(t, err)
		return o
	}
	create("A", orders.StatusCompleted)
	create("B", orders.StatusCompleted)
	create("C", orders.StatusConfirmed)
	create("D", orders.StatusPending)
	deleted := create("E", orders.StatusCompleted)
	_, err := s.Orders().SoftDelete(ctx, deleted.ID, t0)
	require.NoError(t, err)

	st, err := s.Dashboard().Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), st.TotalUsers)
	assert.Equal(t, int64(1), st.TotalPets)
	assert.Equal(t, int64(4), st.TotalOrders)
	assert.Equal(t, int64(1), st.ActiveOrders)
	assert.True(t, st.TotalRevenue.Equal(decimal.RequireFromString("100")), st.TotalRevenue.String())
}

func TestDashboard_EmptyRevenueIsZero(t *testing.T) {
	st, err := NewStore().Dashboard().Stats(context.Background())
	require.NoError(t, err)
	assert.True(t, st.TotalRevenue.IsZero())
}
