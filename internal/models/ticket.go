package models

import (
	"errors"
	"time"
)

// TicketStatus represents the fulfillment status of a purchase ticket
type TicketStatus string

const (
	TicketCompleted TicketStatus = "completed"
	TicketPartial   TicketStatus = "partial"
)

// Ticket is an immutable record of a completed or partially-completed
// purchase. Tickets are append-only: once created they are never mutated.
type Ticket struct {
	ID                int               `json:"id" db:"id"`
	Code              string            `json:"code" db:"code"`
	PurchaserID       int               `json:"purchaser_id" db:"purchaser_id"`
	PurchaserEmail    string            `json:"purchaser_email" db:"purchaser_email"`
	Items             []TicketItem      `json:"items"`
	Amount            int               `json:"amount" db:"amount"` // in cents
	Status            TicketStatus      `json:"status" db:"status"`
	UnprocessedItems  []UnprocessedItem `json:"unprocessed_items"`
	PurchaseDatetime  time.Time         `json:"purchase_datetime" db:"purchase_datetime"`
}

// TicketItem is one fulfilled line of a purchase
type TicketItem struct {
	ProductID int    `json:"product_id" db:"product_id"`
	Name      string `json:"name" db:"name"`
	UnitPrice int    `json:"unit_price" db:"unit_price"` // in cents
	Quantity  int    `json:"quantity" db:"quantity"`
	Subtotal  int    `json:"subtotal" db:"subtotal"` // in cents
}

// UnprocessedItem is one cart line that could not be fulfilled at checkout
type UnprocessedItem struct {
	ProductID int    `json:"product_id" db:"product_id"`
	Name      string `json:"name" db:"name"`
	UnitPrice int    `json:"unit_price" db:"unit_price"` // in cents
	Quantity  int    `json:"quantity" db:"quantity"`
	Reason    string `json:"reason" db:"reason"`
}

// TicketCreateRequest represents the data needed to record a purchase
type TicketCreateRequest struct {
	PurchaserID      int
	PurchaserEmail   string
	Items            []TicketItem
	Amount           int
	Status           TicketStatus
	UnprocessedItems []UnprocessedItem
}

// Validate validates ticket creation data
func (req *TicketCreateRequest) Validate() error {
	if req.PurchaserID <= 0 {
		return errors.New("ticket purchaser is required")
	}

	if req.PurchaserEmail == "" {
		return errors.New("ticket purchaser email is required")
	}

	if len(req.Items) == 0 {
		return errors.New("ticket must contain at least one fulfilled item")
	}

	if req.Amount < 0 {
		return errors.New("ticket amount cannot be negative")
	}

	switch req.Status {
	case TicketCompleted, TicketPartial:
	default:
		return errors.New("invalid ticket status")
	}

	if req.Status == TicketCompleted && len(req.UnprocessedItems) > 0 {
		return errors.New("completed ticket cannot carry unprocessed items")
	}

	sum := 0
	for _, item := range req.Items {
		sum += item.Subtotal
	}
	if sum != req.Amount {
		return errors.New("ticket amount must equal the sum of item subtotals")
	}

	return nil
}

// IsPartial returns true if some cart lines could not be fulfilled
func (t *Ticket) IsPartial() bool {
	return t.Status == TicketPartial
}

// AmountInCurrency returns the amount in the main currency as a float
func (t *Ticket) AmountInCurrency() float64 {
	return float64(t.Amount) / 100.0
}
