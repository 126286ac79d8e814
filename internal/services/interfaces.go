package services

import (
	"ecommerce-platform/internal/models"
	"ecommerce-platform/internal/repositories"
)

// CartServiceInterface defines the interface for cart operations
type CartServiceInterface interface {
	GetCart(userID int) (*models.Cart, error)
	AddItem(userID, productID, quantity int) (*models.Cart, error)
	UpdateItem(userID, productID, quantity int) (*models.Cart, error)
	RemoveItem(userID, productID int) (*models.Cart, error)
	ClearCart(userID int) (*models.Cart, error)
}

// CheckoutServiceInterface defines the interface for checkout
type CheckoutServiceInterface interface {
	Checkout(userID int) (*CheckoutResult, error)
}

// ProductServiceInterface defines the interface for catalog operations
type ProductServiceInterface interface {
	GetProductByID(id int) (*models.Product, error)
	SearchProducts(filters repositories.ProductSearchFilters) ([]*models.Product, int, error)
	CreateProduct(req *models.ProductCreateRequest, owner *models.User) (*models.Product, error)
	UpdateProduct(id int, req *models.ProductUpdateRequest, requestingUser *models.User) (*models.Product, error)
	DeleteProduct(id int, requestingUser *models.User) error
	UpdateStock(id int, newValue int, requestingUser *models.User) (*models.Product, error)
}

// TicketServiceInterface defines the interface for ticket retrieval
type TicketServiceInterface interface {
	GetTicketByID(id int, requestingUser *models.User) (*models.Ticket, error)
	GetTicketByCode(code string, requestingUser *models.User) (*models.Ticket, error)
	GetUserTickets(userID int) ([]*models.Ticket, error)
}

// AuthServiceInterface defines the interface for authentication services
type AuthServiceInterface interface {
	Register(req *RegisterRequest) (*AuthResponse, error)
	Login(req *LoginRequest) (*AuthResponse, error)
	ValidateToken(token string) (*models.User, error)
}
