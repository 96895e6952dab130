package pets_test

import (
	"context"
	"testing"

	"pet-care-management/internal/adapters/auth/password"
	"pet-care-management/internal/adapters/storage/memory"
	"pet-care-management/internal/domain/pets"
	"pet-care-management/internal/domain/users"
	"pet-care-management/internal/platform/apperr"
	"pet-care-management/internal/platform/pagination"
	"pet-care-management/internal/platform/patch"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setup(t *testing.T) (*pets.Service, users.User) {
	t.Helper()
	store := memory.NewStore()
	usersSvc := users.NewService(store.Users(), password.NewBcrypt(bcrypt.MinCost))
	owner, err := usersSvc.Create(context.Background(), users.CreateInput{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	return pets.NewService(store.Pets(), usersSvc), owner
}

func TestCreate(t *testing.T) {
	svc, owner := setup(t)
	g := pets.GenderFemale
	w := decimal.RequireFromString("4.25")

	p, err := svc.Create(context.Background(), pets.CreateInput{
		OwnerID: owner.ID,
		Name:    " Luna ",
		Species: "cat",
		Gender:  &g,
		Weight:  &w,
	})
	require.NoError(t, err)
	assert.Equal(t, "Luna", p.Name)
	assert.Equal(t, owner.ID, p.OwnerID)
	require.NotNil(t, p.Weight)
	assert.True(t, p.Weight.Equal(w))

	ownerID, err := svc.OwnerOf(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, ownerID)
}

func TestCreate_Rejections(t *testing.T) {
	svc, owner := setup(t)
	heavy := decimal.NewFromInt(1000)
	negative := decimal.NewFromInt(-1)
	bad := pets.Gender("other")

	cases := []struct {
		name string
		in   pets.CreateInput
		kind apperr.Kind
		msg  string
	}{
		{"missing name", pets.CreateInput{OwnerID: owner.ID, Species: "dog"}, apperr.KindValidation, "name is required"},
		{"blank species", pets.CreateInput{OwnerID: owner.ID, Name: "Rex", Species: "  "}, apperr.KindValidation, "species is required"},
		{"weight too high", pets.CreateInput{OwnerID: owner.ID, Name: "Rex", Species: "dog", Weight: &heavy}, apperr.KindValidation, "weight must be < 1000"},
		{"negative weight", pets.CreateInput{OwnerID: owner.ID, Name: "Rex", Species: "dog", Weight: &negative}, apperr.KindValidation, "weight must be >= 0"},
		{"bad gender", pets.CreateInput{OwnerID: owner.ID, Name: "Rex", Species: "dog", Gender: &bad}, apperr.KindValidation, "gender must be male or female"},
		{"unknown owner", pets.CreateInput{OwnerID: 999, Name: "Rex", Species: "dog"}, apperr.KindNotFound, "owner not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.in)
			assert.Equal(t, tc.kind, apperr.KindOf(err))
			assert.Equal(t, tc.msg, apperr.MessageOf(err))
		})
	}
}

func TestUpdate_PartialAndClear(t *testing.T) {
	svc, owner := setup(t)
	ctx := context.Background()
	breed := "Siamés"

	p, err := svc.Create(ctx, pets.CreateInput{OwnerID: owner.ID, Name: "Luna", Species: "cat", Breed: &breed})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, p.ID, pets.UpdateInput{
		Name:  patch.Of("Luna II"),
		Breed: patch.Null[string](),
		Color: patch.Of("  "),
	})
	require.NoError(t, err)
	assert.Equal(t, "Luna II", updated.Name)
	assert.Equal(t, "cat", updated.Species)
	assert.Nil(t, updated.Breed)
	assert.Nil(t, updated.Color)

	_, err = svc.Update(ctx, p.ID, pets.UpdateInput{Name: patch.Null[string]()})
	assert.Equal(t, "name cannot be empty", apperr.MessageOf(err))
}

func TestList_FiltersAndDelete(t *testing.T) {
	svc, owner := setup(t)
	ctx := context.Background()

	luna, err := svc.Create(ctx, pets.CreateInput{OwnerID: owner.ID, Name: "Luna", Species: "cat"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, pets.CreateInput{OwnerID: owner.ID, Name: "Rex", Species: "dog"})
	require.NoError(t, err)

	items, total, err := svc.List(ctx, pets.ListFilter{Name: "LU"}, pagination.Params{Page: 1, Size: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, luna.ID, items[0].ID)

	require.NoError(t, svc.Delete(ctx, luna.ID))
	_, total, err = svc.List(ctx, pets.ListFilter{OwnerID: &owner.ID}, pagination.Params{Page: 1, Size: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	// El dueño sigue resolviéndose para historiales de mascotas eliminadas.
	ownerID, err := svc.OwnerOf(ctx, luna.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, ownerID)
}
