package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghhamo/lootsy/internal/dto"
	"github.com/ghhamo/lootsy/internal/model"
)

func validShipping() dto.ShippingDTO {
	return dto.ShippingDTO{
		FirstName: "Ann", LastName: "Lee", Country: "Armenia", City: "Yerevan",
		StreetAddress: "1 Abovyan", PhoneNumber: "+37499000000",
	}
}

func TestShippingService_CRUD(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.shippings.Create(ctx, validShipping())
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := f.shippings.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *got)

	city := "Gyumri"
	updated, err := f.shippings.Update(ctx, created.ID, dto.UpdateShippingRequest{City: &city})
	require.NoError(t, err)
	assert.Equal(t, "Gyumri", updated.City)
	assert.Equal(t, "Ann", updated.FirstName)

	page, err := f.shippings.List(ctx, dto.Pagination{PageIndex: 0, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	require.NoError(t, f.shippings.Delete(ctx, created.ID))
	assert.ErrorIs(t, f.shippings.Delete(ctx, created.ID), ErrShippingNotFound)
	_, err = f.shippings.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrShippingNotFound)
}

func TestShippingService_Validation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	req := validShipping()
	req.City = "  "
	_, err := f.shippings.Create(ctx, req)
	assert.ErrorIs(t, err, ErrShippingInvalid)

	created, err := f.shippings.Create(ctx, validShipping())
	require.NoError(t, err)
	blank := ""
	_, err = f.shippings.Update(ctx, created.ID, dto.UpdateShippingRequest{Country: &blank})
	assert.ErrorIs(t, err, ErrShippingInvalid)
}

func TestShippingService_DeleteInUse(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, err := f.shippings.Create(ctx, validShipping())
	require.NoError(t, err)
	f.store.orders[1] = &model.Order{ID: 1, ShippingID: created.ID}

	assert.ErrorIs(t, f.shippings.Delete(ctx, created.ID), ErrShippingInUse)
}
