package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ghhamo/lootsy/internal/model"
)

type ShippingRepository interface {
	Create(ctx context.Context, s *model.Shipping) error
	GetByID(ctx context.Context, id int64) (*model.Shipping, error)
	List(ctx context.Context, limit, offset int) ([]model.Shipping, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, s *model.Shipping) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type pgShippingRepo struct{ pool *pgxpool.Pool }

func NewShippingRepository(pool *pgxpool.Pool) ShippingRepository {
	return &pgShippingRepo{pool: pool}
}

const shippingColumns = `id, first_name, last_name, country, city, street_address, phone_number`

func scanShipping(row pgx.Row) (*model.Shipping, error) {
	s := &model.Shipping{}
	if err := row.Scan(&s.ID, &s.FirstName, &s.LastName, &s.Country, &s.City, &s.StreetAddress, &s.PhoneNumber); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *pgShippingRepo) Create(ctx context.Context, s *model.Shipping) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO shippings (first_name, last_name, country, city, street_address, phone_number)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		s.FirstName, s.LastName, s.Country, s.City, s.StreetAddress, s.PhoneNumber,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("create shipping: %w", err)
	}
	return nil
}

func (r *pgShippingRepo) GetByID(ctx context.Context, id int64) (*model.Shipping, error) {
	s, err := scanShipping(r.pool.QueryRow(ctx, `SELECT `+shippingColumns+` FROM shippings WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shipping: %w", err)
	}
	return s, nil
}

func (r *pgShippingRepo) List(ctx context.Context, limit, offset int) ([]model.Shipping, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+shippingColumns+` FROM shippings ORDER BY id LIMIT $1 OFFSET $2`, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list shippings: %w", err)
	}
	defer rows.Close()

	var out []model.Shipping
	for rows.Next() {
		s, err := scanShipping(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shipping: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *pgShippingRepo) Update(ctx context.Context, s *model.Shipping) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE shippings SET first_name = $2, last_name = $3, country = $4, city = $5,
		 street_address = $6, phone_number = $7 WHERE id = $1`,
		s.ID, s.FirstName, s.LastName, s.Country, s.City, s.StreetAddress, s.PhoneNumber,
	)
	if err != nil {
		return fmt.Errorf("update shipping: %w", err)
	}
	return nil
}

func (r *pgShippingRepo) Delete(ctx context.Context, id int64) (bool, error) {
	ct, err := r.pool.Exec(ctx, `DELETE FROM shippings WHERE id = $1`, id)
	if err != nil {
		return false, translate("delete shipping", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *pgShippingRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM shippings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count shippings: %w", err)
	}
	return n, nil
}
