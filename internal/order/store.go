package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("order not found")

// InvalidTransitionError names both endpoints of a rejected status change so
// callers can show the exact attempted edge.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: %s -> %s", e.From, e.To)
}

// MenuItemRef is the slice of a menu item the order core touches: its current
// stock and the price captured onto new line items.
type MenuItemRef struct {
	ID    int64
	Name  string
	Price decimal.Decimal
	Stock int
}

// Store is the persistence port for the order service. All writes of one
// operation happen inside a single InTx callback, so a concurrent update on
// the same order sees either all of them or none.
type Store interface {
	InTx(ctx context.Context, fn func(Tx) error) error
	OrderByID(ctx context.Context, id int64) (*Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]Order, error)
	ListAll(ctx context.Context, limit, offset int) ([]Order, error)
	CountByCustomer(ctx context.Context, customerID int64) (int, error)
}

// Tx is the transaction-scoped view. OrderForUpdate must re-read the current
// row under the transaction (SELECT ... FOR UPDATE in Postgres), so the
// second of two racing status updates validates against the first one's
// committed result.
type Tx interface {
	OrderForUpdate(ctx context.Context, id int64) (*Order, error)
	InsertOrder(ctx context.Context, o *Order) error
	SetStatus(ctx context.Context, id int64, st Status, at time.Time) error
	MenuItem(ctx context.Context, id int64) (*MenuItemRef, error)
	SetMenuItemStock(ctx context.Context, id int64, stock int) error
}
