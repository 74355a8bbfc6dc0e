// Package menu provides the repository interface and PostgreSQL implementation
// for managing menu items.
package menu

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("menu item not found")
)

type Repository interface {
	Create(ctx context.Context, it *Item) error
	GetByID(ctx context.Context, id int64) (*Item, error)
	List(ctx context.Context, q Query) (*Page, error)
	Categories(ctx context.Context) ([]string, error)
	Update(ctx context.Context, it *Item) error
	Delete(ctx context.Context, id int64) (bool, error)
	Stats(ctx context.Context, id int64) (*Stats, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const itemCols = `id, name, description, price::text, stock, category, calories,
	ingredients, allergens, is_on_sale, sale_percentage, is_available,
	COALESCE(created_by, 0), created_at, updated_at`

func scanItem(row interface{ Scan(...any) error }) (*Item, error) {
	var it Item
	var price string
	if err := row.Scan(&it.ID, &it.Name, &it.Description, &price, &it.Stock,
		&it.Category, &it.Calories, &it.Ingredients, &it.Allergens,
		&it.IsOnSale, &it.SalePercentage, &it.IsAvailable, &it.CreatedBy,
		&it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	it.Price = d
	return &it, nil
}

func (r *PGRepo) Create(ctx context.Context, it *Item) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.db.QueryRow(ctx, `
		INSERT INTO menu_items
			(name, description, price, stock, category, calories, ingredients,
			 allergens, is_on_sale, sale_percentage, is_available, created_by,
			 created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,TRUE,NULLIF($11,0),NOW(),NOW())
		RETURNING id
	`, it.Name, it.Description, it.Price.StringFixed(2), it.Stock, it.Category,
		it.Calories, it.Ingredients, it.Allergens, it.IsOnSale,
		it.SalePercentage, it.CreatedBy).Scan(&it.ID)
}

func (r *PGRepo) GetByID(ctx context.Context, id int64) (*Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	it, err := scanItem(r.db.QueryRow(ctx,
		`SELECT `+itemCols+` FROM menu_items WHERE id=$1 AND is_available`, id))
	if err != nil {
		return nil, ErrNotFound
	}
	return it, nil
}

func (r *PGRepo) List(ctx context.Context, q Query) (*Page, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	search := strings.TrimSpace(q.Search)
	category := strings.TrimSpace(q.Category)
	if category == "All" {
		category = ""
	}

	const where = `
		is_available
		AND ($1 = '' OR category = $1)
		AND ($2 = '' OR name ILIKE '%'||$2||'%' OR description ILIKE '%'||$2||'%')`

	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM menu_items WHERE `+where, category, search,
	).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+itemCols+` FROM menu_items
		WHERE `+where+`
		ORDER BY category, name
		LIMIT $3 OFFSET $4
	`, category, search, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	page := &Page{Total: total, Limit: limit, Offset: offset, Items: []Item{}}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		page.Items = append(page.Items, *it)
	}
	return page, rows.Err()
}

func (r *PGRepo) Categories(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT category FROM menu_items
		WHERE is_available AND category <> ''
		ORDER BY category
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, it *Item) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE menu_items
		SET name = $2, description = $3, price = $4, stock = $5, category = $6,
		    calories = $7, ingredients = $8, allergens = $9, is_on_sale = $10,
		    sale_percentage = $11, updated_at = NOW()
		WHERE id = $1
	`, it.ID, it.Name, it.Description, it.Price.StringFixed(2), it.Stock,
		it.Category, it.Calories, it.Ingredients, it.Allergens, it.IsOnSale,
		it.SalePercentage)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete is a soft delete: the item stays for order history, it just stops
// being listed or orderable.
func (r *PGRepo) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx,
		`UPDATE menu_items SET is_available = FALSE, updated_at = NOW() WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PGRepo) Stats(ctx context.Context, id int64) (*Stats, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var s Stats
	var price string
	err := r.db.QueryRow(ctx,
		`SELECT name, category, price::text, stock FROM menu_items WHERE id=$1`, id,
	).Scan(&s.ItemName, &s.Category, &price, &s.CurrentStock)
	if err != nil {
		return nil, ErrNotFound
	}
	s.CurrentPrice, err = decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}

	var revenue string
	err = r.db.QueryRow(ctx, `
		SELECT COUNT(DISTINCT order_id),
		       COALESCE(SUM(quantity), 0),
		       COALESCE(SUM(quantity * unit_price), 0)::text
		FROM order_items WHERE menu_item_id=$1
	`, id).Scan(&s.TotalOrders, &s.TotalQuantitySold, &revenue)
	if err != nil {
		return nil, err
	}
	s.TotalRevenue, err = decimal.NewFromString(revenue)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
