package order

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore keeps orders and menu stock in memory and satisfies both Store
// and Tx. Tests run single-threaded, so InTx just passes itself through.
type memStore struct {
	orders map[int64]*Order
	items  map[int64]*MenuItemRef
	nextID int64
}

func newMemStore() *memStore {
	return &memStore{
		orders: make(map[int64]*Order),
		items:  make(map[int64]*MenuItemRef),
	}
}

func (m *memStore) addItem(id int64, price string, stock int) {
	m.items[id] = &MenuItemRef{
		ID:    id,
		Name:  fmt.Sprintf("item-%d", id),
		Price: decimal.RequireFromString(price),
		Stock: stock,
	}
}

func (m *memStore) InTx(ctx context.Context, fn func(Tx) error) error { return fn(m) }

func (m *memStore) OrderByID(ctx context.Context, id int64) (*Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memStore) ListByCustomer(ctx context.Context, customerID int64) ([]Order, error) {
	var out []Order
	for _, o := range m.orders {
		if o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memStore) ListAll(ctx context.Context, limit, offset int) ([]Order, error) {
	var out []Order
	for _, o := range m.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (m *memStore) CountByCustomer(ctx context.Context, customerID int64) (int, error) {
	n := 0
	for _, o := range m.orders {
		if o.CustomerID == customerID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) OrderForUpdate(ctx context.Context, id int64) (*Order, error) {
	return m.OrderByID(ctx, id)
}

func (m *memStore) InsertOrder(ctx context.Context, o *Order) error {
	m.nextID++
	o.ID = m.nextID
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
	}
	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

func (m *memStore) SetStatus(ctx context.Context, id int64, st Status, at time.Time) error {
	o, ok := m.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Status = st
	ts := at
	switch st {
	case StatusPreparing:
		o.PreparingAt = &ts
	case StatusOutForDelivery:
		o.OutForDeliveryAt = &ts
	case StatusDelivered:
		o.DeliveredAt = &ts
	case StatusCancelled:
		o.CancelledAt = &ts
	}
	o.UpdatedAt = at
	return nil
}

func (m *memStore) MenuItem(ctx context.Context, id int64) (*MenuItemRef, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (m *memStore) SetMenuItemStock(ctx context.Context, id int64, stock int) error {
	it, ok := m.items[id]
	if !ok {
		return errors.New("unknown menu item")
	}
	it.Stock = stock
	return nil
}

type memAudit struct{ entries []string }

func (a *memAudit) Record(ctx context.Context, userID int64, action, details string) {
	a.entries = append(a.entries, action+" "+details)
}

func newTestService() (*Service, *memStore, *memAudit) {
	st := newMemStore()
	au := &memAudit{}
	return NewService(st, au), st, au
}

func place(t *testing.T, svc *Service, itemID int64, qty int) *Order {
	t.Helper()
	o, err := svc.Create(context.Background(), CreateInput{
		CustomerID:      7,
		CustomerName:    "Ana Torres",
		DeliveryAddress: "Av. Siempre Viva 742",
		ContactNumber:   "555-0101",
		Items:           []CreateItem{{MenuItemID: itemID, Quantity: qty}},
		Total:           decimal.RequireFromString("30.00"),
	})
	require.NoError(t, err)
	return o
}

func TestCreate_DecrementsStock(t *testing.T) {
	svc, st, au := newTestService()
	st.addItem(1, "10.00", 10)

	o := place(t, svc, 1, 3)

	assert.Equal(t, StatusPlaced, o.Status)
	assert.NotZero(t, o.ID)
	assert.Equal(t, 7, st.items[1].Stock)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "10.00", o.Items[0].UnitPrice.StringFixed(2))
	assert.False(t, o.PlacedAt.IsZero())
	require.Len(t, au.entries, 1)
	assert.Contains(t, au.entries[0], "ORDER_PLACED")
}

func TestCreate_ClampsStockAtZero(t *testing.T) {
	svc, st, _ := newTestService()
	st.addItem(1, "10.00", 2)

	// Over-quantity orders are accepted; stock floors at zero.
	o := place(t, svc, 1, 5)

	assert.Equal(t, 0, st.items[1].Stock)
	assert.Equal(t, StatusPlaced, o.Status)
}

func TestCreate_SkipsUnknownItemsAndBadQuantities(t *testing.T) {
	svc, st, _ := newTestService()
	st.addItem(1, "10.00", 10)

	o, err := svc.Create(context.Background(), CreateInput{
		CustomerID: 7,
		Items: []CreateItem{
			{MenuItemID: 1, Quantity: 2},
			{MenuItemID: 99, Quantity: 4}, // no such item
			{MenuItemID: 1, Quantity: 0},  // non-positive
		},
		Total: decimal.RequireFromString("20.00"),
	})
	require.NoError(t, err)
	assert.Len(t, o.Items, 1)
	assert.Equal(t, 8, st.items[1].Stock)
}

func TestCreate_EmptyOrderRejected(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.Create(context.Background(), CreateInput{CustomerID: 7})
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	svc, _, _ := newTestService()
	err := svc.UpdateStatus(context.Background(), 42, "preparing", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatus_InvalidTransitionNamesEndpoints(t *testing.T) {
	svc, st, _ := newTestService()
	st.addItem(1, "10.00", 10)
	o := place(t, svc, 1, 1)

	err := svc.UpdateStatus(context.Background(), o.ID, "delivered", 1)
	var ite *InvalidTransitionError
	require.ErrorAs(t, err, &ite)
	assert.Equal(t, StatusPlaced, ite.From)
	assert.Equal(t, StatusDelivered, ite.To)
	assert.Equal(t, "invalid status transition: placed -> delivered", ite.Error())
}

func TestUpdateStatus_NormalizesInput(t *testing.T) {
	svc, st, _ := newTestService()
	st.addItem(1, "10.00", 10)
	o := place(t, svc, 1, 1)

	require.NoError(t, svc.UpdateStatus(context.Background(), o.ID, "  Preparing ", 1))

	got, err := svc.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPreparing, got.Status)
	assert.NotNil(t, got.PreparingAt)
}

func TestUpdateStatus_AnonymousActorSkipsAudit(t *testing.T) {
	svc, st, au := newTestService()
	st.addItem(1, "10.00", 10)
	o := place(t, svc, 1, 1)
	placed := len(au.entries)

	require.NoError(t, svc.UpdateStatus(context.Background(), o.ID, "preparing", 0))
	assert.Len(t, au.entries, placed, "no audit entry without an actor")

	require.NoError(t, svc.UpdateStatus(context.Background(), o.ID, "out for delivery", 7))
	assert.Len(t, au.entries, placed+1)
}

func TestUpdateStatus_StockRoundTrip(t *testing.T) {
	svc, st, au := newTestService()
	st.addItem(1, "10.00", 10)
	o := place(t, svc, 1, 3)
	require.Equal(t, 7, st.items[1].Stock)

	// Cancelling while still placed restores the full quantity.
	require.NoError(t, svc.UpdateStatus(context.Background(), o.ID, "cancelled", 2))
	assert.Equal(t, 10, st.items[1].Stock)

	got, err := svc.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)
	assert.NotNil(t, got.CancelledAt)

	assert.Contains(t, au.entries[len(au.entries)-1], "placed -> cancelled")
}

func TestUpdateStatus_LateCancellationKeepsStock(t *testing.T) {
	for _, via := range []string{"preparing", "out for delivery"} {
		t.Run(via, func(t *testing.T) {
			svc, st, _ := newTestService()
			st.addItem(1, "10.00", 10)
			o := place(t, svc, 1, 3)

			require.NoError(t, svc.UpdateStatus(context.Background(), o.ID, "preparing", 1))
			if via == "out for delivery" {
				require.NoError(t, svc.UpdateStatus(context.Background(), o.ID, "out for delivery", 1))
			}
			require.NoError(t, svc.UpdateStatus(context.Background(), o.ID, "cancelled", 1))

			// Food already in preparation is not restocked.
			assert.Equal(t, 7, st.items[1].Stock)
		})
	}
}

func TestUpdateStatus_TerminalStaysTerminal(t *testing.T) {
	svc, st, _ := newTestService()
	st.addItem(1, "10.00", 10)
	o := place(t, svc, 1, 1)

	require.NoError(t, svc.UpdateStatus(context.Background(), o.ID, "cancelled", 1))

	for _, next := range []string{"placed", "preparing", "out for delivery", "delivered", "cancelled"} {
		err := svc.UpdateStatus(context.Background(), o.ID, next, 1)
		var ite *InvalidTransitionError
		assert.ErrorAs(t, err, &ite, "cancelled -> %s must fail", next)
	}
}

// The end-to-end lifecycle: stock 10, order qty 3, walk the happy path with
// one illegal jump on the way.
func TestLifecycle_EndToEnd(t *testing.T) {
	svc, st, _ := newTestService()
	st.addItem(1, "10.00", 10)
	ctx := context.Background()

	o := place(t, svc, 1, 3)
	assert.Equal(t, 7, st.items[1].Stock)

	require.NoError(t, svc.UpdateStatus(ctx, o.ID, "preparing", 1))
	assert.Equal(t, 7, st.items[1].Stock)

	// preparing cannot jump straight to delivered
	err := svc.UpdateStatus(ctx, o.ID, "delivered", 1)
	var ite *InvalidTransitionError
	require.ErrorAs(t, err, &ite)

	require.NoError(t, svc.UpdateStatus(ctx, o.ID, "out for delivery", 1))
	require.NoError(t, svc.UpdateStatus(ctx, o.ID, "delivered", 1))

	got, err := svc.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, got.Status)
	assert.NotNil(t, got.PreparingAt)
	assert.NotNil(t, got.OutForDeliveryAt)
	assert.NotNil(t, got.DeliveredAt)
	assert.Nil(t, got.CancelledAt)
	assert.Equal(t, 7, st.items[1].Stock)
}
