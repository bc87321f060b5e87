package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TableAvailable = "available"
	TableOccupied  = "occupied"
)

type Table struct {
	ID         uint            `json:"id"`
	Name       string          `json:"name"`
	Status     string          `json:"status"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type Product struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductRequest is the body of product create and update calls.
type ProductRequest struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	IsActive    *bool           `json:"is_active,omitempty"`
}

func (r *ProductRequest) Validate() error {
	if r.Name == "" {
		return Invalid("product name is required")
	}
	switch r.Category {
	case "drink", "food", "accessory", "service":
	default:
		return Invalid("unknown product category %q", r.Category)
	}
	if !r.Price.IsPositive() {
		return Invalid("price must be positive")
	}
	return nil
}

type SessionOrder struct {
	ID          uint            `json:"id"`
	SessionID   uint            `json:"session_id"`
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	Status      string          `json:"status"`
	OrderedAt   time.Time       `json:"ordered_at"`
}

type AddOrderItem struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type AddOrderRequest struct {
	SessionID uint           `json:"session_id"`
	Items     []AddOrderItem `json:"items"`
}

type User struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
