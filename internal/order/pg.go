package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PGStore struct{ db *pgxpool.Pool }

func NewPGStore(db *pgxpool.Pool) *PGStore { return &PGStore{db: db} }

func (s *PGStore) InTx(ctx context.Context, fn func(Tx) error) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&pgTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

const orderCols = `id, customer_id, customer_name, delivery_address, contact_number,
	total_amount::text, payment_method, status, placed_at, preparing_at,
	out_for_delivery_at, delivered_at, cancelled_at, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*Order, error) {
	var o Order
	var total, status string
	if err := row.Scan(&o.ID, &o.CustomerID, &o.CustomerName, &o.DeliveryAddress,
		&o.ContactNumber, &total, &o.PaymentMethod, &status, &o.PlacedAt,
		&o.PreparingAt, &o.OutForDeliveryAt, &o.DeliveredAt, &o.CancelledAt,
		&o.CreatedAt, &o.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	d, err := decimal.NewFromString(total)
	if err != nil {
		return nil, err
	}
	o.Total = d
	o.Status = Status(status)
	return &o, nil
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func loadItems(ctx context.Context, q queryer, orderID int64) ([]LineItem, error) {
	rows, err := q.Query(ctx, `
		SELECT id, order_id, menu_item_id, quantity, unit_price::text
		FROM order_items WHERE order_id=$1 ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []LineItem
	for rows.Next() {
		var it LineItem
		var price string
		if err := rows.Scan(&it.ID, &it.OrderID, &it.MenuItemID, &it.Quantity, &price); err != nil {
			return nil, err
		}
		if it.UnitPrice, err = decimal.NewFromString(price); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *PGStore) OrderByID(ctx context.Context, id int64) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	o, err := scanOrder(s.db.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id=$1`, id))
	if err != nil {
		return nil, err
	}
	if o.Items, err = loadItems(ctx, s.db, id); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *PGStore) listNumbered(ctx context.Context, where string, args ...any) ([]Order, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+orderCols+`, customer_order_number FROM (
			SELECT *, ROW_NUMBER() OVER (
				PARTITION BY customer_id ORDER BY created_at, id
			) AS customer_order_number
			FROM orders
		) o `+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		var total, status string
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.CustomerName, &o.DeliveryAddress,
			&o.ContactNumber, &total, &o.PaymentMethod, &status, &o.PlacedAt,
			&o.PreparingAt, &o.OutForDeliveryAt, &o.DeliveredAt, &o.CancelledAt,
			&o.CreatedAt, &o.UpdatedAt, &o.CustomerOrderNumber); err != nil {
			return nil, err
		}
		if o.Total, err = decimal.NewFromString(total); err != nil {
			return nil, err
		}
		o.Status = Status(status)
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *PGStore) ListByCustomer(ctx context.Context, customerID int64) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return s.listNumbered(ctx, `WHERE customer_id=$1 ORDER BY created_at DESC, id DESC`, customerID)
}

func (s *PGStore) ListAll(ctx context.Context, limit, offset int) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.listNumbered(ctx, `ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`, limit, offset)
}

func (s *PGStore) CountByCustomer(ctx context.Context, customerID int64) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var n int
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE customer_id=$1`, customerID).Scan(&n)
	return n, err
}

// pgTx implements Tx on top of one pgx transaction.
type pgTx struct{ tx pgx.Tx }

func (t *pgTx) OrderForUpdate(ctx context.Context, id int64) (*Order, error) {
	o, err := scanOrder(t.tx.QueryRow(ctx,
		`SELECT `+orderCols+` FROM orders WHERE id=$1 FOR UPDATE`, id))
	if err != nil {
		return nil, err
	}
	if o.Items, err = loadItems(ctx, t.tx, id); err != nil {
		return nil, err
	}
	return o, nil
}

func (t *pgTx) InsertOrder(ctx context.Context, o *Order) error {
	err := t.tx.QueryRow(ctx, `
		INSERT INTO orders (customer_id, customer_name, delivery_address,
			contact_number, total_amount, payment_method, status, placed_at,
			created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW(),NOW())
		RETURNING id
	`, o.CustomerID, o.CustomerName, o.DeliveryAddress, o.ContactNumber,
		o.Total.StringFixed(2), o.PaymentMethod, string(o.Status), o.PlacedAt,
	).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range o.Items {
		it := &o.Items[i]
		it.OrderID = o.ID
		err := t.tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, menu_item_id, quantity, unit_price)
			VALUES ($1,$2,$3,$4)
			RETURNING id
		`, o.ID, it.MenuItemID, it.Quantity, it.UnitPrice.StringFixed(2)).Scan(&it.ID)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

// stampCol maps each non-initial status to its timeline column. Only values
// from this map ever reach the SQL below.
var stampCol = map[Status]string{
	StatusPreparing:      "preparing_at",
	StatusOutForDelivery: "out_for_delivery_at",
	StatusDelivered:      "delivered_at",
	StatusCancelled:      "cancelled_at",
}

func (t *pgTx) SetStatus(ctx context.Context, id int64, st Status, at time.Time) error {
	col, ok := stampCol[st]
	if !ok {
		return fmt.Errorf("no timeline column for status %q", st)
	}
	tag, err := t.tx.Exec(ctx, `
		UPDATE orders SET status = $2, `+col+` = $3, updated_at = NOW()
		WHERE id = $1
	`, id, string(st), at)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *pgTx) MenuItem(ctx context.Context, id int64) (*MenuItemRef, error) {
	var ref MenuItemRef
	var price string
	err := t.tx.QueryRow(ctx, `
		SELECT id, name, price::text, stock FROM menu_items WHERE id=$1 FOR UPDATE
	`, id).Scan(&ref.ID, &ref.Name, &price, &ref.Stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query menu item: %w", err)
	}
	if ref.Price, err = decimal.NewFromString(price); err != nil {
		return nil, err
	}
	return &ref, nil
}

func (t *pgTx) SetMenuItemStock(ctx context.Context, id int64, stock int) error {
	_, err := t.tx.Exec(ctx,
		`UPDATE menu_items SET stock = $2, updated_at = NOW() WHERE id = $1`, id, stock)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	return nil
}
