package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ghhamo/lootsy/internal/model"
)

type CartRepository interface {
	Create(ctx context.Context, cart *model.Cart) error
	GetByUserID(ctx context.Context, userID int64) (*model.Cart, error)
	GetOrCreate(ctx context.Context, userID int64) (*model.Cart, error)
	List(ctx context.Context, limit, offset int) ([]model.Cart, error)
	Count(ctx context.Context) (int64, error)
	Lines(ctx context.Context, cartID int64) ([]model.CartLine, error)
	AddItem(ctx context.Context, item *model.CartItem) error
	RemoveItem(ctx context.Context, cartID, productID int64) error
	Clear(ctx context.Context, cartID int64) error
}

type pgCartRepo struct{ pool *pgxpool.Pool }

func NewCartRepository(pool *pgxpool.Pool) CartRepository {
	return &pgCartRepo{pool: pool}
}

func (r *pgCartRepo) Create(ctx context.Context, cart *model.Cart) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO carts (user_id, created_at, updated_at) VALUES ($1, NOW(), NOW())
		 RETURNING id, created_at, updated_at`, cart.UserID,
	).Scan(&cart.ID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		return translate("create cart", err)
	}
	return nil
}

func (r *pgCartRepo) GetByUserID(ctx context.Context, userID int64) (*model.Cart, error) {
	cart := &model.Cart{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = $1`, userID,
	).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return cart, nil
}

// GetOrCreate relies on the unique user_id constraint so concurrent callers share one cart.
func (r *pgCartRepo) GetOrCreate(ctx context.Context, userID int64) (*model.Cart, error) {
	cart, err := r.GetByUserID(ctx, userID)
	if err != nil || cart != nil {
		return cart, err
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO carts (user_id, created_at, updated_at) VALUES ($1, NOW(), NOW())
		 ON CONFLICT (user_id) DO NOTHING`, userID,
	)
	if err != nil {
		return nil, translate("create cart", err)
	}
	cart, err = r.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, fmt.Errorf("create cart: no row for user %d", userID)
	}
	return cart, nil
}

func (r *pgCartRepo) List(ctx context.Context, limit, offset int) ([]model.Cart, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, created_at, updated_at FROM carts ORDER BY id LIMIT $1 OFFSET $2`, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list carts: %w", err)
	}
	defer rows.Close()

	var carts []model.Cart
	for rows.Next() {
		var c model.Cart
		if err := rows.Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan cart: %w", err)
		}
		carts = append(carts, c)
	}
	return carts, rows.Err()
}

func (r *pgCartRepo) Lines(ctx context.Context, cartID int64) ([]model.CartLine, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT ci.product_id, p.name, p.price, ci.quantity, p.image_url_s, p.image_url_m, p.image_url_l, ci.added_at
		 FROM cart_items ci JOIN products p ON p.id = ci.product_id
		 WHERE ci.cart_id = $1 ORDER BY ci.added_at, ci.product_id`, cartID,
	)
	if err != nil {
		return nil, fmt.Errorf("get cart lines: %w", err)
	}
	defer rows.Close()

	var lines []model.CartLine
	for rows.Next() {
		var l model.CartLine
		if err := rows.Scan(&l.ProductID, &l.Name, &l.Price, &l.Quantity,
			&l.ImageURLS, &l.ImageURLM, &l.ImageURLL, &l.AddedAt); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// AddItem inserts the line or increments the existing quantity, then touches the cart.
func (r *pgCartRepo) AddItem(ctx context.Context, item *model.CartItem) error {
	return r.withTouch(ctx, item.CartID, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO cart_items (cart_id, product_id, quantity, added_at)
			 VALUES ($1, $2, $3, NOW())
			 ON CONFLICT (cart_id, product_id) DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, added_at = NOW()
			 RETURNING quantity, added_at`,
			item.CartID, item.ProductID, item.Quantity,
		).Scan(&item.Quantity, &item.AddedAt)
		if err != nil {
			return translate("add cart item", err)
		}
		return nil
	})
}

func (r *pgCartRepo) RemoveItem(ctx context.Context, cartID, productID int64) error {
	return r.withTouch(ctx, cartID, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`, cartID, productID); err != nil {
			return fmt.Errorf("remove cart item: %w", err)
		}
		return nil
	})
}

func (r *pgCartRepo) Clear(ctx context.Context, cartID int64) error {
	return r.withTouch(ctx, cartID, func(tx pgx.Tx) error {
		return clearCart(ctx, tx, cartID)
	})
}

func (r *pgCartRepo) withTouch(ctx context.Context, cartID int64, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	if err := touchCart(ctx, tx, cartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func clearCart(ctx context.Context, tx pgx.Tx, cartID int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func touchCart(ctx context.Context, tx pgx.Tx, cartID int64) error {
	if _, err := tx.Exec(ctx, `UPDATE carts SET updated_at = NOW() WHERE id = $1`, cartID); err != nil {
		return fmt.Errorf("touch cart: %w", err)
	}
	return nil
}

func (r *pgCartRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM carts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count carts: %w", err)
	}
	return n, nil
}
