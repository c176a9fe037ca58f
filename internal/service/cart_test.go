package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghhamo/lootsy/internal/dto"
)

func TestCartService_AddSameProductTwiceMergesLine(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user, err := f.users.CreateUser(ctx, newUserRequest("cart@b.com"))
	require.NoError(t, err)
	p := f.addProduct("Mouse", "20.00")

	_, err = f.carts.AddItem(ctx, user.ID, p.ID, 2)
	require.NoError(t, err)
	cart, err := f.carts.AddItem(ctx, user.ID, p.ID, 1)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, "Mouse", cart.Items[0].Name)
	assert.Equal(t, "20.00", cart.Items[0].Price)
	assert.Equal(t, "/images/products/Mouse_200.jpg", cart.Items[0].ImageURL)
}

func TestCartService_AddItem_NonPositiveQuantityDefaultsToOne(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.addProduct("Pad", "5.00")

	cart, err := f.carts.AddItem(ctx, 99, p.ID, 0)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)

	cart, err = f.carts.AddItem(ctx, 99, p.ID, -4)
	require.NoError(t, err)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestCartService_AddItem_ProductNotFound(t *testing.T) {
	f := newFixture()
	_, err := f.carts.AddItem(context.Background(), 1, 12345, 2)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Empty(t, f.store.cartItems)
}

func TestCartService_GetCartCreatesLazily(t *testing.T) {
	f := newFixture()
	cart, err := f.carts.GetCart(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), cart.UserID)
	assert.Empty(t, cart.Items)
	assert.Len(t, f.store.carts, 1)

	_, err = f.carts.GetByUser(context.Background(), 6)
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestCartService_RemoveAndClear(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	err := f.carts.RemoveItem(ctx, 1, 1)
	assert.ErrorIs(t, err, ErrCartNotFound)
	err = f.carts.Clear(ctx, 1)
	assert.ErrorIs(t, err, ErrCartNotFound)

	a, b := f.addProduct("A", "1.00"), f.addProduct("B", "2.00")
	_, err = f.carts.AddItem(ctx, 1, a.ID, 1)
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, 1, b.ID, 1)
	require.NoError(t, err)

	require.NoError(t, f.carts.RemoveItem(ctx, 1, a.ID))
	require.NoError(t, f.carts.RemoveItem(ctx, 1, a.ID), "removing a missing line is a no-op")
	cart, err := f.carts.GetCart(ctx, 1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, b.ID, cart.Items[0].ProductID)

	require.NoError(t, f.carts.Clear(ctx, 1))
	cart, err = f.carts.GetCart(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartService_Create(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.carts.Create(ctx, 77)
	assert.ErrorIs(t, err, ErrUserNotFound)

	user, err := f.users.CreateUser(ctx, newUserRequest("c@b.com"))
	require.NoError(t, err)
	_, err = f.carts.Create(ctx, user.ID)
	assert.ErrorIs(t, err, ErrCartAlreadyExists)

	for id, c := range f.store.carts {
		if c.UserID == user.ID {
			delete(f.store.carts, id)
		}
	}
	created, err := f.carts.Create(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, created.UserID)

	page, err := f.carts.List(ctx, dto.Pagination{PageIndex: 0, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}
