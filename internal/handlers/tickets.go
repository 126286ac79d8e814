package handlers

import (
	"net/http"

	"ecommerce-platform/internal/middleware"
	"ecommerce-platform/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// TicketHandler handles purchase ticket retrieval
type TicketHandler struct {
	ticketService services.TicketServiceInterface
	logger        *logrus.Logger
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(ticketService services.TicketServiceInterface, logger *logrus.Logger) *TicketHandler {
	return &TicketHandler{
		ticketService: ticketService,
		logger:        logger,
	}
}

// ListMine handles GET /api/tickets
func (h *TicketHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	tickets, err := h.ticketService.GetUserTickets(user.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, tickets)
}

// Get handles GET /api/tickets/{id}
func (h *TicketHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	ticket, err := h.ticketService.GetTicketByID(id, user)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, ticket)
}

// GetByCode handles GET /api/tickets/code/{code}
func (h *TicketHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	ticket, err := h.ticketService.GetTicketByCode(chi.URLParam(r, "code"), user)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, ticket)
}
