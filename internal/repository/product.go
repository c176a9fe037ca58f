package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ghhamo/lootsy/internal/dto"
	"github.com/ghhamo/lootsy/internal/model"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	CreateBatch(ctx context.Context, products []model.Product) error
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	Search(ctx context.Context, q dto.ProductQuery, limit, offset int) ([]model.Product, int64, error)
	ListAll(ctx context.Context) ([]model.Product, error)
	Count(ctx context.Context) (int64, error)
}

type pgProductRepo struct{ pool *pgxpool.Pool }

func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &pgProductRepo{pool: pool}
}

const productSelect = `SELECT p.id, p.name, p.price, p.description, p.category_id, c.name,
	p.image_url_s, p.image_url_m, p.image_url_l, p.created_at, p.updated_at
	FROM products p JOIN categories c ON c.id = p.category_id`

func scanProduct(row pgx.Row) (*model.Product, error) {
	p := &model.Product{}
	err := row.Scan(
		&p.ID, &p.Name, &p.Price, &p.Description, &p.CategoryID, &p.CategoryName,
		&p.ImageURLS, &p.ImageURLM, &p.ImageURLL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

const productInsert = `INSERT INTO products (name, price, description, category_id, image_url_s, image_url_m, image_url_l, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW()) RETURNING id, created_at, updated_at`

func (r *pgProductRepo) Create(ctx context.Context, p *model.Product) error {
	err := r.pool.QueryRow(ctx, productInsert,
		p.Name, p.Price, p.Description, p.CategoryID, p.ImageURLS, p.ImageURLM, p.ImageURLL,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return translate("create product", err)
	}
	return nil
}

// CreateBatch inserts all products in one transaction.
func (r *pgProductRepo) CreateBatch(ctx context.Context, products []model.Product) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for i := range products {
		p := &products[i]
		err := tx.QueryRow(ctx, productInsert,
			p.Name, p.Price, p.Description, p.CategoryID, p.ImageURLS, p.ImageURLM, p.ImageURLL,
		).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return translate("create product", err)
		}
	}
	return tx.Commit(ctx)
}

func (r *pgProductRepo) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, productSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Search applies every filter present in q and returns one page plus the total match count.
// Empty search, empty category set and an incomplete price range are treated as absent.
func (r *pgProductRepo) Search(ctx context.Context, q dto.ProductQuery, limit, offset int) ([]model.Product, int64, error) {
	var (
		conditions []string
		args       []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.Search != "" {
		pattern := arg("%" + strings.ToLower(q.Search) + "%")
		conditions = append(conditions, fmt.Sprintf("(LOWER(p.name) LIKE %s OR LOWER(p.description) LIKE %s)", pattern, pattern))
	}
	if len(q.CategoryIDs) > 0 {
		conditions = append(conditions, "p.category_id = ANY("+arg(q.CategoryIDs)+")")
	}
	if q.MinPrice != nil && q.MaxPrice != nil {
		conditions = append(conditions, fmt.Sprintf("p.price BETWEEN %s AND %s", arg(*q.MinPrice), arg(*q.MaxPrice)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products p`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := productSelect + where + fmt.Sprintf(" ORDER BY p.id LIMIT %s OFFSET %s", arg(limit), arg(offset))
	products, err := r.list(ctx, "search products", query, args...)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *pgProductRepo) ListAll(ctx context.Context) ([]model.Product, error) {
	return r.list(ctx, "list products", productSelect+` ORDER BY p.id`)
}

func (r *pgProductRepo) list(ctx context.Context, op, query string, args ...any) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *pgProductRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}
