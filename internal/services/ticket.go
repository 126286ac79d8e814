package services

import (
	"ecommerce-platform/internal/models"
)

// TicketRepository interface for ticket data operations
type TicketRepository interface {
	Create(req *models.TicketCreateRequest) (*models.Ticket, error)
	GetByID(id int) (*models.Ticket, error)
	GetByCode(code string) (*models.Ticket, error)
	GetByPurchaser(userID int) ([]*models.Ticket, error)
}

// TicketService handles retrieval of purchase tickets. Tickets are
// append-only records; nothing here mutates them.
type TicketService struct {
	ticketRepo TicketRepository
}

// NewTicketService creates a new ticket service
func NewTicketService(ticketRepo TicketRepository) *TicketService {
	return &TicketService{ticketRepo: ticketRepo}
}

// GetTicketByID retrieves a ticket, visible only to its purchaser or an admin
func (s *TicketService) GetTicketByID(id int, requestingUser *models.User) (*models.Ticket, error) {
	if id <= 0 {
		return nil, models.ErrInvalidID
	}

	ticket, err := s.ticketRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if ticket.PurchaserID != requestingUser.ID && !requestingUser.IsAdmin() {
		// Report not-found rather than forbidden so ticket IDs cannot be
		// enumerated.
		return nil, models.ErrTicketNotFound
	}

	return ticket, nil
}

// GetTicketByCode retrieves a ticket by its public code, visible only to its
// purchaser or an admin
func (s *TicketService) GetTicketByCode(code string, requestingUser *models.User) (*models.Ticket, error) {
	if code == "" {
		return nil, models.NewError(models.KindInvalidInput, "ticket code is required")
	}

	ticket, err := s.ticketRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}

	if ticket.PurchaserID != requestingUser.ID && !requestingUser.IsAdmin() {
		return nil, models.ErrTicketNotFound
	}

	return ticket, nil
}

// GetUserTickets returns the user's tickets, newest first
func (s *TicketService) GetUserTickets(userID int) ([]*models.Ticket, error) {
	return s.ticketRepo.GetByPurchaser(userID)
}
