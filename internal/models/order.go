package models

import (
	"database/sql"
	"time"
)

// Order represents a placed order
type Order struct {
	OrderID   int       `db:"order_id" json:"order_id"`
	RegNo     string    `db:"reg_no" json:"reg_no"`
	OrderDate time.Time `db:"order_date" json:"order_date"`
	TotalCost float64   `db:"total_cost" json:"total_cost"`
}

// OrderSummary is an order joined with the ordering student's name
type OrderSummary struct {
	OrderID   int            `db:"order_id" json:"order_id"`
	RegNo     string         `db:"reg_no" json:"reg_no"`
	OrderDate time.Time      `db:"order_date" json:"order_date"`
	TotalCost float64        `db:"total_cost" json:"total_cost"`
	FirstName sql.NullString `db:"first_name" json:"first_name,omitempty"`
	LastName  sql.NullString `db:"last_name" json:"last_name,omitempty"`
	LineCount int            `db:"line_count" json:"line_count"`
}

// StudentName returns the student's display name, or the reg number if the student row is gone
func (o *OrderSummary) StudentName() string {
	if !o.FirstName.Valid && !o.LastName.Valid {
		return o.RegNo
	}
	return o.FirstName.String + " " + o.LastName.String
}

// OrderLine is an order_details row with the item it refers to.
// Item fields are NULL when the item has since been removed.
type OrderLine struct {
	DetailsID int64           `db:"details_id" json:"details_id"`
	OrderID   int             `db:"order_id" json:"order_id"`
	ItemID    int             `db:"item_id" json:"item_id"`
	Quantity  int             `db:"quantity" json:"quantity"`
	ItemName  sql.NullString  `db:"item_name" json:"item_name,omitempty"`
	Price     sql.NullFloat64 `db:"price" json:"price,omitempty"`
}

// PaymentMethod is a row of the payment method lookup table
type PaymentMethod struct {
	MethodID int    `db:"method_id" json:"method_id"`
	Method   string `db:"method" json:"method"`
}

// Payment represents the payment recorded for an order
type Payment struct {
	PaymentID string         `db:"payment_id" json:"payment_id"`
	OrderID   int            `db:"order_id" json:"order_id"`
	Amount    float64        `db:"amount" json:"amount"`
	PaidAt    time.Time      `db:"paid_at" json:"paid_at"`
	MethodID  int            `db:"method_id" json:"method_id"`
	Method    sql.NullString `db:"method" json:"method,omitempty"`
}

// PlacedOrder is the result of a successful checkout
type PlacedOrder struct {
	OrderID    int       `json:"order_id"`
	PaymentID  string    `json:"payment_id"`
	PaidAt     time.Time `json:"paid_at"`
	Total      float64   `json:"total"`
	DetailIDs  []int64   `json:"detail_ids"`
	MethodName string    `json:"method_name"`
}

// OrderReceipt is everything needed to print a receipt
type OrderReceipt struct {
	Order   OrderSummary `json:"order"`
	Lines   []OrderLine  `json:"lines"`
	Payment *Payment     `json:"payment,omitempty"`
}

// ConfirmOrderRequest is the item selection form
type ConfirmOrderRequest struct {
	ItemIDs []int `form:"items"`
}

// PaymentRequest is the payment method form. MethodID is a string so that
// "missing" and "not a number" can be told apart.
type PaymentRequest struct {
	MethodID string `form:"payment_method"`
}
