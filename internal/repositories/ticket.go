package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"ecommerce-platform/internal/models"

	"github.com/google/uuid"
)

// TicketRepository handles purchase ticket data operations. The tickets
// table is an append-only ledger: rows are inserted and read, never updated
// or deleted.
type TicketRepository struct {
	db *sql.DB
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// Create records a purchase ticket in its own transaction
func (r *TicketRepository) Create(req *models.TicketCreateRequest) (*models.Ticket, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ticket, err := createTicketInTx(tx, req)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit ticket: %w", err)
	}

	return ticket, nil
}

// createTicketInTx inserts a ticket and its item rows inside an existing
// transaction. The checkout path uses this so the ticket commits together
// with the stock decrements and the cart rewrite.
func createTicketInTx(tx *sql.Tx, req *models.TicketCreateRequest) (*models.Ticket, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	ticket := &models.Ticket{
		Code:             uuid.NewString(),
		PurchaserID:      req.PurchaserID,
		PurchaserEmail:   req.PurchaserEmail,
		Items:            req.Items,
		Amount:           req.Amount,
		Status:           req.Status,
		UnprocessedItems: req.UnprocessedItems,
	}

	err := tx.QueryRow(`
		INSERT INTO tickets (code, purchaser_id, purchaser_email, amount, status, purchase_datetime)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, purchase_datetime`,
		ticket.Code,
		ticket.PurchaserID,
		ticket.PurchaserEmail,
		ticket.Amount,
		ticket.Status,
		time.Now(),
	).Scan(&ticket.ID, &ticket.PurchaseDatetime)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	position := 0
	for _, item := range req.Items {
		_, err := tx.Exec(`
			INSERT INTO ticket_items (ticket_id, product_id, name, unit_price, quantity, subtotal, fulfilled, reason, position)
			VALUES ($1, $2, $3, $4, $5, $6, TRUE, '', $7)`,
			ticket.ID, item.ProductID, item.Name, item.UnitPrice, item.Quantity, item.Subtotal, position)
		if err != nil {
			return nil, fmt.Errorf("failed to insert ticket item: %w", err)
		}
		position++
	}

	for _, item := range req.UnprocessedItems {
		_, err := tx.Exec(`
			INSERT INTO ticket_items (ticket_id, product_id, name, unit_price, quantity, subtotal, fulfilled, reason, position)
			VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7, $8)`,
			ticket.ID, item.ProductID, item.Name, item.UnitPrice, item.Quantity, item.UnitPrice*item.Quantity, item.Reason, position)
		if err != nil {
			return nil, fmt.Errorf("failed to insert unprocessed ticket item: %w", err)
		}
		position++
	}

	return ticket, nil
}

const ticketColumns = "id, code, purchaser_id, purchaser_email, amount, status, purchase_datetime"

func (r *TicketRepository) scanTicket(row *sql.Row) (*models.Ticket, error) {
	ticket := &models.Ticket{}
	err := row.Scan(
		&ticket.ID,
		&ticket.Code,
		&ticket.PurchaserID,
		&ticket.PurchaserEmail,
		&ticket.Amount,
		&ticket.Status,
		&ticket.PurchaseDatetime,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	if err := r.loadItems(ticket); err != nil {
		return nil, err
	}

	return ticket, nil
}

// GetByID retrieves a ticket by ID
func (r *TicketRepository) GetByID(id int) (*models.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`
	return r.scanTicket(r.db.QueryRow(query, id))
}

// GetByCode retrieves a ticket by its unique code
func (r *TicketRepository) GetByCode(code string) (*models.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE code = $1`
	return r.scanTicket(r.db.QueryRow(query, code))
}

// GetByPurchaser retrieves all tickets purchased by a user, newest first
func (r *TicketRepository) GetByPurchaser(userID int) ([]*models.Ticket, error) {
	rows, err := r.db.Query(`
		SELECT `+ticketColumns+`
		FROM tickets
		WHERE purchaser_id = $1
		ORDER BY purchase_datetime DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets by purchaser: %w", err)
	}
	defer rows.Close()

	var tickets []*models.Ticket
	for rows.Next() {
		ticket := &models.Ticket{}
		err := rows.Scan(
			&ticket.ID,
			&ticket.Code,
			&ticket.PurchaserID,
			&ticket.PurchaserEmail,
			&ticket.Amount,
			&ticket.Status,
			&ticket.PurchaseDatetime,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tickets: %w", err)
	}

	for _, ticket := range tickets {
		if err := r.loadItems(ticket); err != nil {
			return nil, err
		}
	}

	return tickets, nil
}

// loadItems populates a ticket's fulfilled and unprocessed item lists
func (r *TicketRepository) loadItems(ticket *models.Ticket) error {
	rows, err := r.db.Query(`
		SELECT product_id, name, unit_price, quantity, subtotal, fulfilled, reason
		FROM ticket_items
		WHERE ticket_id = $1
		ORDER BY position ASC`, ticket.ID)
	if err != nil {
		return fmt.Errorf("failed to get ticket items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			productID, unitPrice, quantity, subtotal int
			name, reason                             string
			fulfilled                                bool
		)
		if err := rows.Scan(&productID, &name, &unitPrice, &quantity, &subtotal, &fulfilled, &reason); err != nil {
			return fmt.Errorf("failed to scan ticket item: %w", err)
		}

		if fulfilled {
			ticket.Items = append(ticket.Items, models.TicketItem{
				ProductID: productID,
				Name:      name,
				UnitPrice: unitPrice,
				Quantity:  quantity,
				Subtotal:  subtotal,
			})
		} else {
			ticket.UnprocessedItems = append(ticket.UnprocessedItems, models.UnprocessedItem{
				ProductID: productID,
				Name:      name,
				UnitPrice: unitPrice,
				Quantity:  quantity,
				Reason:    reason,
			})
		}
	}

	return rows.Err()
}
