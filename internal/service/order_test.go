package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghhamo/lootsy/internal/dto"
	"github.com/ghhamo/lootsy/internal/model"
)

func total(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// orderSetup returns a user with a cart worth 100.00 and a shipping record.
func orderSetup(t *testing.T, f *fixture) (userID, shippingID int64) {
	t.Helper()
	ctx := context.Background()
	user, err := f.users.CreateUser(ctx, newUserRequest("order@b.com"))
	require.NoError(t, err)
	a, b := f.addProduct("Keyboard", "30.00"), f.addProduct("Mouse", "20.00")
	_, err = f.carts.AddItem(ctx, user.ID, a.ID, 2)
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, user.ID, b.ID, 2)
	require.NoError(t, err)
	return user.ID, f.addShipping().ID
}

func TestOrderService_CreateOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID, shippingID := orderSetup(t, f)
	cartBefore, err := f.carts.GetCart(ctx, userID)
	require.NoError(t, err)

	order, err := f.orders.CreateOrder(ctx, userID, dto.CreateOrderRequest{ShippingID: shippingID, TotalAmount: total("100.00"), Currency: "USD"})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, order.OrderStatus)
	assert.True(t, decimal.NewFromInt(100).Equal(order.TotalAmount))
	assert.Equal(t, shippingID, order.ShippingID)
	require.Len(t, order.Items, 2)
	for _, it := range order.Items {
		assert.True(t, it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))).Equal(it.Subtotal))
		assert.Equal(t, order.ID, it.OrderID)
	}

	cartAfter, err := f.carts.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, cartAfter.Items)
	assert.Equal(t, cartBefore.ID, cartAfter.ID, "cart row is kept")

	require.Len(t, f.publisher.events, 1)
	ev := f.publisher.events[0]
	assert.Equal(t, model.OrderEventCreated, ev.Type)
	assert.Equal(t, order.ID, ev.OrderID)
	assert.Equal(t, userID, ev.UserID)
	assert.NotEmpty(t, ev.ID)
}

func TestOrderService_CreateOrder_TotalTolerance(t *testing.T) {
	tests := []struct {
		client  string
		wantErr bool
	}{
		{"100.00", false},
		{"100.005", false},
		{"99.995", false},
		{"100.01", false},
		{"99.00", true},
		{"100.02", true},
	}
	for _, tt := range tests {
		t.Run(tt.client, func(t *testing.T) {
			f := newFixture()
			userID, shippingID := orderSetup(t, f)

			_, err := f.orders.CreateOrder(context.Background(), userID, dto.CreateOrderRequest{ShippingID: shippingID, TotalAmount: total(tt.client)})
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrOrderTotalMismatch)
				assert.ErrorIs(t, err, ErrValidation)
				assert.Empty(t, f.store.orders)
				cart, cerr := f.carts.GetCart(context.Background(), userID)
				require.NoError(t, cerr)
				assert.Len(t, cart.Items, 2, "a rejected order leaves the cart alone")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestOrderService_CreateOrder_EmptyCart(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user, err := f.users.CreateUser(ctx, newUserRequest("empty@b.com"))
	require.NoError(t, err)
	shipping := f.addShipping()

	_, err = f.orders.CreateOrder(ctx, user.ID, dto.CreateOrderRequest{ShippingID: shipping.ID, TotalAmount: total("0")})
	assert.ErrorIs(t, err, ErrCartEmpty)
	assert.Empty(t, f.publisher.events)
}

func TestOrderService_CreateOrder_Lookups(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID, shippingID := orderSetup(t, f)

	_, err := f.orders.CreateOrder(ctx, 9999, dto.CreateOrderRequest{ShippingID: shippingID, TotalAmount: total("100")})
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = f.orders.CreateOrder(ctx, userID, dto.CreateOrderRequest{ShippingID: 9999, TotalAmount: total("100")})
	assert.ErrorIs(t, err, ErrShippingNotFound)
}

func TestOrderService_CreateOrder_PersistFailureKeepsCart(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID, shippingID := orderSetup(t, f)
	f.store.placeErr = errors.New("connection reset")

	_, err := f.orders.CreateOrder(ctx, userID, dto.CreateOrderRequest{ShippingID: shippingID, TotalAmount: total("100")})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrValidation)

	cart, err := f.carts.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
	assert.Empty(t, f.publisher.events)
}

func TestOrderService_CreateOrder_PublishFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	userID, shippingID := orderSetup(t, f)
	f.publisher.err = errors.New("broker down")

	order, err := f.orders.CreateOrder(context.Background(), userID, dto.CreateOrderRequest{ShippingID: shippingID, TotalAmount: total("100")})
	require.NoError(t, err)
	assert.NotZero(t, order.ID)
}

func TestOrderService_GetAndUpdateStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID, shippingID := orderSetup(t, f)
	created, err := f.orders.CreateOrder(ctx, userID, dto.CreateOrderRequest{ShippingID: shippingID, TotalAmount: total("100")})
	require.NoError(t, err)

	got, err := f.orders.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = f.orders.GetByID(ctx, 424242)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	updated, err := f.orders.UpdateStatus(ctx, created.ID, model.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, updated.OrderStatus)
	assert.Equal(t, model.OrderStatusShipped, f.store.orders[created.ID].Status)

	_, err = f.orders.UpdateStatus(ctx, created.ID, "LOST")
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)

	_, err = f.orders.UpdateStatus(ctx, 424242, model.OrderStatusPaid)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_ListByUserAndMine(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	user, err := f.users.CreateUser(ctx, newUserRequest("list@b.com"))
	require.NoError(t, err)

	now := time.Now()
	for i, age := range []time.Duration{0, 48 * time.Hour, 240 * time.Hour} {
		id := int64(1000 + i)
		f.store.orders[id] = &model.Order{ID: id, UserID: user.ID, Status: model.OrderStatusPending, CreatedAt: now.Add(-age)}
	}
	f.store.orders[2000] = &model.Order{ID: 2000, UserID: user.ID + 1, CreatedAt: now}

	page, err := f.orders.ListByUser(ctx, user.ID, dto.Pagination{PageIndex: 0, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(1000), page.Items[0].ID, "newest first")

	_, err = f.orders.ListByUser(ctx, 9999, dto.Pagination{PageSize: 10})
	assert.ErrorIs(t, err, ErrUserNotFound)

	from, to := now.Add(-72*time.Hour), now.Add(time.Minute)
	mine, err := f.orders.ListMine(ctx, user.ID, dto.Pagination{PageSize: 10}, &from, &to)
	require.NoError(t, err)
	assert.Equal(t, int64(2), mine.Total)

	onlyFrom, err := f.orders.ListMine(ctx, user.ID, dto.Pagination{PageSize: 10}, &from, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), onlyFrom.Total)
}

// Mirrors the full user journey: sign up, fill the cart, ship, order.
func TestEndToEnd_SignUpCartOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	user, err := f.users.CreateUser(ctx, newUserRequest("a@b.com"))
	require.NoError(t, err)
	product := f.addProduct("Headset", "33.33")

	_, err = f.carts.AddItem(ctx, user.ID, product.ID, 2)
	require.NoError(t, err)
	cart, err := f.carts.AddItem(ctx, user.ID, product.ID, 1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)

	shipping, err := f.shippings.Create(ctx, dto.ShippingDTO{
		FirstName: "Ann", LastName: "Lee", Country: "Armenia", City: "Yerevan",
		StreetAddress: "1 Abovyan", PhoneNumber: "+37499000000",
	})
	require.NoError(t, err)

	clientTotal := product.Price.Mul(decimal.NewFromInt(3))
	order, err := f.orders.CreateOrder(ctx, user.ID, dto.CreateOrderRequest{ShippingID: shipping.ID, TotalAmount: &clientTotal})
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, product.ID, order.Items[0].ProductID)
	assert.Equal(t, 3, order.Items[0].Quantity)

	cart, err = f.carts.GetCart(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}
