package catalog_test

import (
	"context"
	"testing"

	"pet-care-management/internal/adapters/storage/memory"
	"pet-care-management/internal/domain/catalog"
	"pet-care-management/internal/platform/apperr"
	"pet-care-management/internal/platform/pagination"
	"pet-care-management/internal/platform/patch"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCreate_DefaultsAvailable(t *testing.T) {
	svc := catalog.NewService(memory.NewStore().Services())

	cs, err := svc.Create(context.Background(), catalog.CreateInput{
		Name:     " Baño completo ",
		Category: "grooming",
		Price:    price("25.50"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Baño completo", cs.Name)
	assert.True(t, cs.IsAvailable)
	assert.True(t, cs.Price.Equal(price("25.5")))
	assert.NotZero(t, cs.ID)
}

func TestCreate_PriceRules(t *testing.T) {
	svc := catalog.NewService(memory.NewStore().Services())

	cases := map[string]string{
		"0":      "price must be > 0",
		"-1":     "price must be > 0",
		"10.005": "price must have at most 2 decimal places",
	}
	for raw, msg := range cases {
		t.Run(raw, func(t *testing.T) {
			_, err := svc.Create(context.Background(), catalog.CreateInput{
				Name: "Consulta", Category: "medical", Price: price(raw),
			})
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			assert.Equal(t, msg, apperr.MessageOf(err))
		})
	}

	_, err := svc.Create(context.Background(), catalog.CreateInput{Category: "medical", Price: price("1")})
	assert.Equal(t, "name is required", apperr.MessageOf(err))
}

func TestUpdateAndFilter(t *testing.T) {
	svc := catalog.NewService(memory.NewStore().Services())
	ctx := context.Background()

	bath, err := svc.Create(ctx, catalog.CreateInput{Name: "Baño", Category: "grooming", Price: price("20")})
	require.NoError(t, err)
	_, err = svc.Create(ctx, catalog.CreateInput{Name: "Consulta", Category: "medical", Price: price("40")})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, bath.ID, catalog.UpdateInput{
		Price:       patch.Of(price("22.00")),
		IsAvailable: patch.Of(false),
		Duration:    patch.Of(45),
	})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(price("22")))
	assert.False(t, updated.IsAvailable)
	require.NotNil(t, updated.Duration)
	assert.Equal(t, 45, *updated.Duration)

	_, err = svc.Update(ctx, bath.ID, catalog.UpdateInput{Price: patch.Null[decimal.Decimal]()})
	assert.Equal(t, "price cannot be null", apperr.MessageOf(err))

	_, err = svc.Update(ctx, bath.ID, catalog.UpdateInput{Duration: patch.Of(-5)})
	assert.Equal(t, "duration must be >= 0", apperr.MessageOf(err))

	available := true
	items, total, err := svc.List(ctx, catalog.ListFilter{IsAvailable: &available}, pagination.Params{Page: 1, Size: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Consulta", items[0].Name)

	items, total, err = svc.List(ctx, catalog.ListFilter{Category: " grooming "}, pagination.Params{Page: 1, Size: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, bath.ID, items[0].ID)
}

func TestDelete_HidesService(t *testing.T) {
	svc := catalog.NewService(memory.NewStore().Services())
	ctx := context.Background()

	cs, err := svc.Create(ctx, catalog.CreateInput{Name: "Paseo", Category: "walk", Price: price("10")})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, cs.ID))
	_, err = svc.Get(ctx, cs.ID)
	assert.Equal(t, "service not found", apperr.MessageOf(err))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(svc.Delete(ctx, cs.ID)))
}
