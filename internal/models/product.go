package models

import (
	"errors"
	"strings"
	"time"
)

// Product represents a catalog product with live stock
type Product struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       int       `json:"price" db:"price"` // Price in cents
	Stock       int       `json:"stock" db:"stock"`
	Category    string    `json:"category" db:"category"`
	OwnerID     int       `json:"owner_id" db:"owner_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ProductCreateRequest represents the data needed to create a product
type ProductCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	Stock       int    `json:"stock"`
	Category    string `json:"category"`
	OwnerID     int    `json:"-"`
}

// ProductUpdateRequest represents the data that can be updated for a product
type ProductUpdateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	Stock       int    `json:"stock"`
	Category    string `json:"category"`
}

// Validate validates product creation data
func (req *ProductCreateRequest) Validate() error {
	if err := validateProductName(req.Name); err != nil {
		return err
	}

	if err := validateProductPrice(req.Price); err != nil {
		return err
	}

	if err := validateProductStock(req.Stock); err != nil {
		return err
	}

	return validateProductCategory(req.Category)
}

// Validate validates product update data
func (req *ProductUpdateRequest) Validate() error {
	if err := validateProductName(req.Name); err != nil {
		return err
	}

	if err := validateProductPrice(req.Price); err != nil {
		return err
	}

	if err := validateProductStock(req.Stock); err != nil {
		return err
	}

	return validateProductCategory(req.Category)
}

// validateProductName validates a product name
func validateProductName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("product name is required")
	}

	if len(name) > 200 {
		return errors.New("product name must be less than 200 characters")
	}

	return nil
}

// validateProductPrice validates a product price
func validateProductPrice(price int) error {
	if price < 0 {
		return errors.New("product price cannot be negative")
	}

	return nil
}

// validateProductStock validates a product stock count
func validateProductStock(stock int) error {
	if stock < 0 {
		return errors.New("product stock cannot be negative")
	}

	return nil
}

// validateProductCategory validates a product category
func validateProductCategory(category string) error {
	if len(category) > 100 {
		return errors.New("product category must be less than 100 characters")
	}

	return nil
}

// IsInStock returns true if at least the requested quantity is available
func (p *Product) IsInStock(quantity int) bool {
	return p.Stock >= quantity
}

// PriceInCurrency returns the price in the main currency as a float
func (p *Product) PriceInCurrency() float64 {
	return float64(p.Price) / 100.0
}
