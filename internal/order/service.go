package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rmedina-dev/entrega-api/internal/audit"
)

var ErrEmptyOrder = errors.New("order has no items")

// Service owns the order lifecycle: placement with stock decrement, and the
// status state machine with its restock side effect.
type Service struct {
	store Store
	audit audit.Recorder
}

func NewService(store Store, rec audit.Recorder) *Service {
	return &Service{store: store, audit: rec}
}

type CreateItem struct {
	MenuItemID int64 `json:"id"`
	Quantity   int   `json:"quantity"`
}

type CreateInput struct {
	CustomerID      int64
	CustomerName    string
	DeliveryAddress string
	ContactNumber   string
	Items           []CreateItem
	Total           decimal.Decimal
	PaymentMethod   string
}

// Create places an order. For every line with a positive quantity and a
// resolvable menu item the stock is decremented, clamped at zero; an order
// asking for more than is in stock is still accepted and simply floors the
// stock. Lines with unknown items or non-positive quantities are skipped.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = "Cash on Delivery"
	}

	now := time.Now()
	o := &Order{
		CustomerID:      in.CustomerID,
		CustomerName:    in.CustomerName,
		DeliveryAddress: in.DeliveryAddress,
		ContactNumber:   in.ContactNumber,
		Total:           in.Total,
		PaymentMethod:   in.PaymentMethod,
		Status:          StatusPlaced,
		PlacedAt:        now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := s.store.InTx(ctx, func(tx Tx) error {
		for _, line := range in.Items {
			if line.Quantity <= 0 {
				continue
			}
			ref, err := tx.MenuItem(ctx, line.MenuItemID)
			if err != nil {
				return err
			}
			if ref == nil {
				continue
			}
			stock := ref.Stock - line.Quantity
			if stock < 0 {
				stock = 0
			}
			if err := tx.SetMenuItemStock(ctx, ref.ID, stock); err != nil {
				return err
			}
			o.Items = append(o.Items, LineItem{
				MenuItemID: ref.ID,
				Quantity:   line.Quantity,
				UnitPrice:  ref.Price,
			})
		}
		return tx.InsertOrder(ctx, o)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, in.CustomerID, "ORDER_PLACED",
		fmt.Sprintf("Order #%d - Amount: %s - Payment: %s", o.ID, o.Total.StringFixed(2), o.PaymentMethod))
	return o, nil
}

// UpdateStatus applies one edge of the status machine. The order is re-read
// inside the transaction, so of two racing updates the loser validates
// against the winner's result and fails with InvalidTransitionError.
//
// Stock is restored only on placed -> cancelled: once preparation has begun
// the food is assumed spent. actorID attributes the audit entry.
func (s *Service) UpdateStatus(ctx context.Context, orderID int64, requested string, actorID int64) error {
	to := ParseStatus(requested)

	var from Status
	err := s.store.InTx(ctx, func(tx Tx) error {
		o, err := tx.OrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		from = o.Status
		if !from.CanTransitionTo(to) {
			return &InvalidTransitionError{From: from, To: to}
		}

		if from == StatusPlaced && to == StatusCancelled {
			for _, line := range o.Items {
				if line.Quantity <= 0 {
					continue
				}
				ref, err := tx.MenuItem(ctx, line.MenuItemID)
				if err != nil {
					return err
				}
				if ref == nil {
					continue
				}
				if err := tx.SetMenuItemStock(ctx, ref.ID, ref.Stock+line.Quantity); err != nil {
					return err
				}
			}
		}

		return tx.SetStatus(ctx, orderID, to, time.Now())
	})
	if err != nil {
		return err
	}

	if actorID != 0 {
		s.audit.Record(ctx, actorID, "ORDER_STATUS_UPDATED",
			fmt.Sprintf("Order #%d: %s -> %s", orderID, from, to))
	}
	return nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Order, error) {
	return s.store.OrderByID(ctx, id)
}

// ListByCustomer returns the customer's orders newest first, each carrying
// its chronological per-customer number (the customer's first order is #1).
func (s *Service) ListByCustomer(ctx context.Context, customerID int64) ([]Order, error) {
	return s.store.ListByCustomer(ctx, customerID)
}

func (s *Service) ListAll(ctx context.Context, limit, offset int) ([]Order, error) {
	return s.store.ListAll(ctx, limit, offset)
}

// CountByCustomer backs the user-deletion guard: accounts with order history
// cannot be deleted.
func (s *Service) CountByCustomer(ctx context.Context, customerID int64) (int, error) {
	return s.store.CountByCustomer(ctx, customerID)
}
