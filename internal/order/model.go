package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID              int64           `json:"id"`
	CustomerID      int64           `json:"customer_id"`
	CustomerName    string          `json:"customer_name"`
	DeliveryAddress string          `json:"delivery_address"`
	ContactNumber   string          `json:"contact_number"`
	// NUMERIC -> decimal
	Total         decimal.Decimal `json:"total_amount"`
	PaymentMethod string          `json:"payment_method"`
	Status        Status          `json:"status"`
	Items         []LineItem      `json:"items,omitempty"`

	// One timestamp per lifecycle stage, nil until the stage is reached.
	PlacedAt         time.Time  `json:"placed_at"`
	PreparingAt      *time.Time `json:"preparing_at,omitempty"`
	OutForDeliveryAt *time.Time `json:"out_for_delivery_at,omitempty"`
	DeliveredAt      *time.Time `json:"delivered_at,omitempty"`
	CancelledAt      *time.Time `json:"cancelled_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Chronological position within the customer's own orders (1 = oldest),
	// filled by list queries only.
	CustomerOrderNumber int `json:"customer_order_number,omitempty"`
}

// LineItem captures the unit price at order time, so later menu price edits
// do not rewrite history.
type LineItem struct {
	ID         int64           `json:"id"`
	OrderID    int64           `json:"order_id"`
	MenuItemID int64           `json:"menu_item_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}
