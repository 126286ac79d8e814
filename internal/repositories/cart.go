package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"ecommerce-platform/internal/models"
)

// CartRepository handles cart data operations. Each user owns exactly one
// cart row; writes are guarded by an optimistic version token so that two
// concurrent mutations for the same user cannot silently lose an update.
type CartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new cart repository
func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{db: db}
}

// GetOrCreateByUser returns the user's cart, creating an empty one on first
// access. A missing cart is a normal creation path, never an error.
func (r *CartRepository) GetOrCreateByUser(userID int) (*models.Cart, error) {
	_, err := r.db.Exec(`
		INSERT INTO carts (user_id, total, version, updated_at)
		VALUES ($1, 0, 0, $2)
		ON CONFLICT (user_id) DO NOTHING`, userID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	cart := &models.Cart{}
	err = r.db.QueryRow(`
		SELECT id, user_id, total, version, updated_at
		FROM carts
		WHERE user_id = $1`, userID).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.Total,
		&cart.Version,
		&cart.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	items, err := r.getItems(cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items

	return cart, nil
}

// getItems loads a cart's line items in insertion order
func (r *CartRepository) getItems(cartID int) ([]models.CartItem, error) {
	rows, err := r.db.Query(`
		SELECT product_id, name, unit_price, quantity, subtotal
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY position ASC`, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}
	defer rows.Close()

	var items []models.CartItem
	for rows.Next() {
		var item models.CartItem
		err := rows.Scan(
			&item.ProductID,
			&item.Name,
			&item.UnitPrice,
			&item.Quantity,
			&item.Subtotal,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}

// Save persists the cart's items and total. The write succeeds only if the
// cart row still carries the version the cart was read at; otherwise it
// returns a version-conflict error and the caller re-reads and retries.
func (r *CartRepository) Save(cart *models.Cart) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

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

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cart: %w", err)
	}

	cart.Version++
	return nil
}

// replaceCartItems rewrites a cart's item rows inside the given transaction
func replaceCartItems(tx *sql.Tx, cart *models.Cart) error {
	if _, err := tx.Exec(`DELETE FROM cart_items WHERE cart_id = $1`, cart.ID); err != nil {
		return fmt.Errorf("failed to clear cart items: %w", err)
	}

	for i, item := range cart.Items {
		_, err := tx.Exec(`
			INSERT INTO cart_items (cart_id, product_id, name, unit_price, quantity, subtotal, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			cart.ID, item.ProductID, item.Name, item.UnitPrice, item.Quantity, item.Subtotal, i)
		if err != nil {
			return fmt.Errorf("failed to insert cart item: %w", err)
		}
	}

	return nil
}
