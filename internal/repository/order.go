package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ghhamo/lootsy/internal/model"
)

// OrderFilter narrows a user's orders. The creation-time range applies only when both bounds are set.
type OrderFilter struct {
	UserID int64
	From   *time.Time
	To     *time.Time
}

type OrderRepository interface {
	PlaceOrder(ctx context.Context, order *model.Order, cartID int64) error
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	ListByUser(ctx context.Context, f OrderFilter, limit, offset int) ([]model.Order, error)
	CountByUser(ctx context.Context, f OrderFilter) (int64, error)
	UpdateStatus(ctx context.Context, order *model.Order) error
	Stats(ctx context.Context, userID int64) (model.UserStats, error)
}

type pgOrderRepo struct{ pool *pgxpool.Pool }

func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &pgOrderRepo{pool: pool}
}

// PlaceOrder stores the order with its items and empties the cart in one transaction.
// The cart row itself is kept.
func (r *pgOrderRepo) PlaceOrder(ctx context.Context, order *model.Order, cartID int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO orders (status, total_amount, currency, user_id, shipping_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, NOW(), NOW()) RETURNING id, created_at, updated_at`,
		order.Status, order.TotalAmount, order.Currency, order.UserID, order.ShippingID,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return translate("insert order", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		_, err = tx.Exec(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, unit_price, subtotal)
			 VALUES ($1, $2, $3, $4, $5)`,
			item.OrderID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal,
		)
		if err != nil {
			return translate("insert order item", err)
		}
	}

	if err := clearCart(ctx, tx, cartID); err != nil {
		return err
	}
	if err := touchCart(ctx, tx, cartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

const orderColumns = `id, status, total_amount, currency, user_id, shipping_id, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	o := &model.Order{}
	err := row.Scan(&o.ID, &o.Status, &o.TotalAmount, &o.Currency, &o.UserID, &o.ShippingID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *pgOrderRepo) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	order, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	orders := []model.Order{*order}
	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (f OrderFilter) where() (string, []any) {
	conditions := []string{"user_id = $1"}
	args := []any{f.UserID}
	if f.From != nil && f.To != nil {
		conditions = append(conditions, "created_at BETWEEN $2 AND $3")
		args = append(args, *f.From, *f.To)
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// ListByUser returns the newest orders first, each with its items.
func (r *pgOrderRepo) ListByUser(ctx context.Context, f OrderFilter, limit, offset int) ([]model.Order, error) {
	where, args := f.where()
	query := fmt.Sprintf(`SELECT %s FROM orders%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		orderColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *pgOrderRepo) CountByUser(ctx context.Context, f OrderFilter) (int64, error) {
	where, args := f.where()
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

// loadItems fills Items for every order with a single query.
func (r *pgOrderRepo) loadItems(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, len(orders))
	index := make(map[int64]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
	}

	rows, err := r.pool.Query(ctx,
		`SELECT oi.order_id, oi.product_id, p.name, oi.quantity, oi.unit_price, oi.subtotal
		 FROM order_items oi JOIN products p ON p.id = oi.product_id
		 WHERE oi.order_id = ANY($1) ORDER BY oi.order_id, oi.product_id`, ids,
	)
	if err != nil {
		return fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.OrderID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.UnitPrice, &item.Subtotal); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		i := index[item.OrderID]
		orders[i].Items = append(orders[i].Items, item)
	}
	return rows.Err()
}

func (r *pgOrderRepo) UpdateStatus(ctx context.Context, order *model.Order) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1 RETURNING updated_at`,
		order.ID, order.Status,
	).Scan(&order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

func (r *pgOrderRepo) Stats(ctx context.Context, userID int64) (model.UserStats, error) {
	var stats model.UserStats
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total_amount), 0) FROM orders WHERE user_id = $1`, userID,
	).Scan(&stats.TotalOrders, &stats.TotalSpent)
	if err != nil {
		return model.UserStats{}, fmt.Errorf("order stats: %w", err)
	}
	return stats, nil
}
