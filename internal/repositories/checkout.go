package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"ecommerce-platform/internal/models"
)

// CheckoutRepository provides the transactional storage operations a
// checkout needs. Every step of a checkout (the per-product
// check-and-decrement, the ticket insert, and the cart rewrite) runs
// against one transaction, so a failure anywhere rolls the whole purchase
// back and a crash can never leave stock decremented without a ticket.
type CheckoutRepository struct {
	db *sql.DB
}

// NewCheckoutRepository creates a new checkout repository
func NewCheckoutRepository(db *sql.DB) *CheckoutRepository {
	return &CheckoutRepository{db: db}
}

// Begin starts a checkout transaction
func (r *CheckoutRepository) Begin() (*sql.Tx, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin checkout transaction: %w", err)
	}
	return tx, nil
}

// Commit commits a checkout transaction
func (r *CheckoutRepository) Commit(tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit checkout: %w", err)
	}
	return nil
}

// Rollback aborts a checkout transaction. Rolling back after a commit is a
// no-op, so callers may defer it unconditionally.
func (r *CheckoutRepository) Rollback(tx *sql.Tx) error {
	err := tx.Rollback()
	if err != nil && err != sql.ErrTxDone {
		return fmt.Errorf("failed to roll back checkout: %w", err)
	}
	return nil
}

// GetProductForUpdate fetches a product and row-locks it for the rest of
// the transaction, making the caller's stock check-and-decrement atomic.
func (r *CheckoutRepository) GetProductForUpdate(tx *sql.Tx, productID int) (*models.Product, error) {
	product := &models.Product{}
	err := tx.QueryRow(`
		SELECT `+productColumns+`
		FROM products
		WHERE id = $1
		FOR UPDATE`, productID).Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Stock,
		&product.Category,
		&product.OwnerID,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to lock product: %w", err)
	}

	return product, nil
}

// DecrementStock decrements a locked product's stock inside the transaction
func (r *CheckoutRepository) DecrementStock(tx *sql.Tx, productID, quantity int) error {
	result, err := tx.Exec(`
		UPDATE products
		SET stock = stock - $2, updated_at = $3
		WHERE id = $1 AND stock >= $2`, productID, quantity, time.Now())
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		var available int
		err := tx.QueryRow(`SELECT stock FROM products WHERE id = $1`, productID).Scan(&available)
		if err == sql.ErrNoRows {
			return models.ErrProductNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to check stock: %w", err)
		}
		return models.NewInsufficientStockError(available)
	}

	return nil
}

// CreateTicket records the purchase ticket inside the transaction
func (r *CheckoutRepository) CreateTicket(tx *sql.Tx, req *models.TicketCreateRequest) (*models.Ticket, error) {
	return createTicketInTx(tx, req)
}

// ReplaceCart rewrites the cart's items and total inside the transaction.
// The version guard aborts the checkout if the cart changed underneath it.
func (r *CheckoutRepository) ReplaceCart(tx *sql.Tx, cart *models.Cart) error {
	result, err := tx.Exec(`
		UPDATE carts
		SET total = $2, version = version + 1, updated_at = $3
		WHERE id = $1 AND version = $4`,
		cart.ID, cart.Total, time.Now(), cart.Version)
	if err != nil {
		return fmt.Errorf("failed to update cart: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrVersionConflict
	}

	if err := replaceCartItems(tx, cart); err != nil {
		return err
	}

	cart.Version++
	return nil
}
