package models

import (
	"errors"
	"time"
)

// Cart represents a user's shopping cart. Each user owns exactly one cart,
// created lazily on first access.
type Cart struct {
	ID        int        `json:"id" db:"id"`
	UserID    int        `json:"user_id" db:"user_id"`
	Items     []CartItem `json:"items"`
	Total     int        `json:"total" db:"total"` // in cents
	Version   int        `json:"-" db:"version"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// CartItem represents one product line in a cart. UnitPrice is a snapshot of
// the product price taken when the line was added.
type CartItem struct {
	ProductID int    `json:"product_id" db:"product_id"`
	Name      string `json:"name" db:"name"`
	UnitPrice int    `json:"unit_price" db:"unit_price"` // in cents
	Quantity  int    `json:"quantity" db:"quantity"`
	Subtotal  int    `json:"subtotal" db:"subtotal"` // in cents
}

// FindItem returns the index of the line for the given product, or -1
func (c *Cart) FindItem(productID int) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Recalculate recomputes every line subtotal and the cart total. It must be
// called after any mutation so that Total == sum of subtotals holds.
func (c *Cart) Recalculate() {
	c.Total = 0
	for i := range c.Items {
		c.Items[i].Subtotal = c.Items[i].UnitPrice * c.Items[i].Quantity
		c.Total += c.Items[i].Subtotal
	}
}

// RemoveItem deletes the line for the given product if present. Removing an
// absent product is a no-op, not an error.
func (c *Cart) RemoveItem(productID int) {
	idx := c.FindItem(productID)
	if idx == -1 {
		return
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	c.Recalculate()
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.Items = nil
	c.Total = 0
}

// IsEmpty returns true if the cart has no items
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Validate validates a cart item
func (ci *CartItem) Validate() error {
	if ci.ProductID <= 0 {
		return errors.New("cart item product id is required")
	}

	if ci.Quantity < 1 {
		return errors.New("cart item quantity must be at least 1")
	}

	if ci.UnitPrice < 0 {
		return errors.New("cart item unit price cannot be negative")
	}

	return nil
}
