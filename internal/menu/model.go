package menu

import (
	"time"

	"github.com/shopspring/decimal"
)

type Item struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// NUMERIC in Postgres, decimal here to avoid float rounding
	Price          decimal.Decimal `json:"price"`
	Stock          int             `json:"stock"`
	Category       string          `json:"category"`
	Calories       int             `json:"calories"`
	Ingredients    string          `json:"ingredients,omitempty"`
	Allergens      string          `json:"allergens,omitempty"`
	IsOnSale       bool            `json:"is_on_sale"`
	SalePercentage int             `json:"sale_percentage"`
	IsAvailable    bool            `json:"is_available"`
	CreatedBy      int64           `json:"created_by,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Query filters for the paginated listing.
type Query struct {
	Category string
	Search   string
	Limit    int
	Offset   int
}

// Page is the paginated response shape: total matching count plus one page.
type Page struct {
	Total  int    `json:"total"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
	Items  []Item `json:"items"`
}

// Stats aggregates sales for one menu item.
type Stats struct {
	ItemName          string          `json:"item_name"`
	Category          string          `json:"category"`
	CurrentPrice      decimal.Decimal `json:"current_price"`
	CurrentStock      int             `json:"current_stock"`
	TotalOrders       int             `json:"total_orders"`
	TotalQuantitySold int             `json:"total_quantity_sold"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
}
