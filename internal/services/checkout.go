package services

import (
	"database/sql"
	"fmt"

	"ecommerce-platform/internal/models"

	"github.com/sirupsen/logrus"
)

// UserRepository interface for user data operations
type UserRepository interface {
	Create(req *models.UserCreateRequest) (*models.User, error)
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
}

// CheckoutStore provides the transactional storage operations for a
// checkout. All methods after Begin act on the transaction they are given;
// the purchase commits or rolls back as a whole.
type CheckoutStore interface {
	Begin() (*sql.Tx, error)
	Commit(tx *sql.Tx) error
	Rollback(tx *sql.Tx) error
	GetProductForUpdate(tx *sql.Tx, productID int) (*models.Product, error)
	DecrementStock(tx *sql.Tx, productID, quantity int) error
	CreateTicket(tx *sql.Tx, req *models.TicketCreateRequest) (*models.Ticket, error)
	ReplaceCart(tx *sql.Tx, cart *models.Cart) error
}

// CheckoutResult is the outcome of a checkout: the recorded ticket and the
// cart lines that could not be fulfilled. A partial fulfillment is a normal
// result, not an error.
type CheckoutResult struct {
	Ticket           *models.Ticket           `json:"ticket"`
	UnprocessedItems []models.UnprocessedItem `json:"unprocessed_items"`
}

// CheckoutService converts a cart into a purchase ticket. It reconciles
// every cart line against live stock, decrements stock for the lines it can
// fulfill, records the ticket, and rewrites the cart to hold exactly the
// unfulfilled lines. The whole purchase runs inside a single transaction.
type CheckoutService struct {
	store    CheckoutStore
	cartRepo CartRepository
	userRepo UserRepository
	logger   *logrus.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(store CheckoutStore, cartRepo CartRepository, userRepo UserRepository, logger *logrus.Logger) *CheckoutService {
	return &CheckoutService{
		store:    store,
		cartRepo: cartRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

// Checkout processes the user's cart, retrying when the cart rewrite loses
// a version race against a concurrent cart mutation.
func (s *CheckoutService) Checkout(userID int) (*CheckoutResult, error) {
	var lastErr error

	for attempt := 0; attempt < maxSaveRetries; attempt++ {
		result, err := s.checkoutOnce(userID)
		if err == nil {
			return result, nil
		}
		if !models.IsKind(err, models.KindVersionConflict) {
			return nil, err
		}

		lastErr = err
		s.logger.WithFields(logrus.Fields{
			"user_id": userID,
			"attempt": attempt + 1,
		}).Warn("checkout lost a cart version race, retrying")
	}

	return nil, lastErr
}

func (s *CheckoutService) checkoutOnce(userID int) (*CheckoutResult, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.GetOrCreateByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if cart.IsEmpty() {
		return nil, models.ErrCartEmpty
	}

	tx, err := s.store.Begin()
	if err != nil {
		return nil, err
	}
	defer s.store.Rollback(tx)

	var (
		processed   []models.TicketItem
		unprocessed []models.UnprocessedItem
		remaining   []models.CartItem
		totalAmount int
	)

	for _, item := range cart.Items {
		product, err := s.store.GetProductForUpdate(tx, item.ProductID)
		if models.IsKind(err, models.KindProductNotFound) {
			// The product vanished since it was added; report it rather
			// than aborting the lines that can still be fulfilled.
			unprocessed = append(unprocessed, models.UnprocessedItem{
				ProductID: item.ProductID,
				Name:      item.Name,
				UnitPrice: item.UnitPrice,
				Quantity:  item.Quantity,
				Reason:    "Product no longer available",
			})
			remaining = append(remaining, item)
			continue
		}
		if err != nil {
			return nil, err
		}

		if !product.IsInStock(item.Quantity) {
			unprocessed = append(unprocessed, models.UnprocessedItem{
				ProductID: product.ID,
				Name:      product.Name,
				UnitPrice: product.Price,
				Quantity:  item.Quantity,
				Reason:    fmt.Sprintf("Insufficient stock. Available: %d", product.Stock),
			})
			remaining = append(remaining, item)
			continue
		}

		if err := s.store.DecrementStock(tx, product.ID, item.Quantity); err != nil {
			return nil, err
		}

		subtotal := product.Price * item.Quantity
		processed = append(processed, models.TicketItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  item.Quantity,
			Subtotal:  subtotal,
		})
		totalAmount += subtotal
	}

	if len(processed) == 0 {
		return nil, models.ErrNothingProcessed
	}

	status := models.TicketCompleted
	if len(unprocessed) > 0 {
		status = models.TicketPartial
	}

	ticket, err := s.store.CreateTicket(tx, &models.TicketCreateRequest{
		PurchaserID:      user.ID,
		PurchaserEmail:   user.Email,
		Items:            processed,
		Amount:           totalAmount,
		Status:           status,
		UnprocessedItems: unprocessed,
	})
	if err != nil {
		return nil, err
	}

	// Settle the cart: keep exactly the unfulfilled lines, quantities
	// unchanged, or clear it when everything was fulfilled.
	cart.Items = remaining
	cart.Recalculate()
	if err := s.store.ReplaceCart(tx, cart); err != nil {
		return nil, err
	}

	if err := s.store.Commit(tx); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":     userID,
		"ticket_code": ticket.Code,
		"status":      ticket.Status,
		"amount":      ticket.Amount,
		"unfulfilled": len(unprocessed),
	}).Info("checkout completed")

	return &CheckoutResult{
		Ticket:           ticket,
		UnprocessedItems: unprocessed,
	}, nil
}
