package services

import (
	"fmt"

	"ecommerce-platform/internal/models"
	"ecommerce-platform/internal/repositories"

	"github.com/sirupsen/logrus"
)

// maxSaveRetries bounds how often a cart mutation is retried after losing a
// version race against a concurrent request for the same user.
const maxSaveRetries = 3

// CartRepository interface for cart data operations
type CartRepository interface {
	GetOrCreateByUser(userID int) (*models.Cart, error)
	Save(cart *models.Cart) error
}

// ProductRepository interface for product data operations
type ProductRepository interface {
	Create(req *models.ProductCreateRequest) (*models.Product, error)
	GetByID(id int) (*models.Product, error)
	Search(filters repositories.ProductSearchFilters) ([]*models.Product, int, error)
	Update(id int, req *models.ProductUpdateRequest) (*models.Product, error)
	Delete(id int) error
	UpdateStock(id int, newValue int) error
	DecrementStock(id int, quantity int) error
}

// CartService maintains the authoritative per-user cart. Every mutation is a
// get-modify-save cycle against the single cart row for that user; saves are
// version-guarded and retried, so concurrent mutations never lose an update.
type CartService struct {
	cartRepo    CartRepository
	productRepo ProductRepository
	logger      *logrus.Logger
}

// NewCartService creates a new cart service
func NewCartService(cartRepo CartRepository, productRepo ProductRepository, logger *logrus.Logger) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// GetCart returns the user's cart, creating an empty one on first access
func (s *CartService) GetCart(userID int) (*models.Cart, error) {
	cart, err := s.cartRepo.GetOrCreateByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return cart, nil
}

// AddItem adds a quantity of a product to the user's cart. If the product is
// already in the cart its quantity is incremented and its price snapshot is
// refreshed to the product's current price; otherwise a new line is appended
// with the current price as the snapshot.
func (s *CartService) AddItem(userID, productID, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, models.NewError(models.KindInvalidInput, "quantity must be at least 1")
	}

	return s.mutate(userID, func(cart *models.Cart) error {
		product, err := s.productRepo.GetByID(productID)
		if err != nil {
			return err
		}

		if !product.IsInStock(quantity) {
			return models.NewInsufficientStockError(product.Stock)
		}

		if idx := cart.FindItem(productID); idx != -1 {
			cart.Items[idx].Quantity += quantity
			cart.Items[idx].UnitPrice = product.Price
		} else {
			cart.Items = append(cart.Items, models.CartItem{
				ProductID: product.ID,
				Name:      product.Name,
				UnitPrice: product.Price,
				Quantity:  quantity,
			})
		}

		cart.Recalculate()
		return nil
	})
}

// UpdateItem sets the quantity of an existing cart line. Updating a product
// that is not in the cart is an error, not an implicit add.
func (s *CartService) UpdateItem(userID, productID, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, models.NewError(models.KindInvalidInput, "quantity must be at least 1")
	}

	return s.mutate(userID, func(cart *models.Cart) error {
		product, err := s.productRepo.GetByID(productID)
		if err != nil {
			return err
		}

		if !product.IsInStock(quantity) {
			return models.NewInsufficientStockError(product.Stock)
		}

		idx := cart.FindItem(productID)
		if idx == -1 {
			return models.ErrItemNotFound
		}

		cart.Items[idx].Quantity = quantity
		cart.Recalculate()
		return nil
	})
}

// RemoveItem removes a product line from the cart. Removing a product that
// is not in the cart is a no-op.
func (s *CartService) RemoveItem(userID, productID int) (*models.Cart, error) {
	return s.mutate(userID, func(cart *models.Cart) error {
		cart.RemoveItem(productID)
		return nil
	})
}

// ClearCart empties the user's cart
func (s *CartService) ClearCart(userID int) (*models.Cart, error) {
	return s.mutate(userID, func(cart *models.Cart) error {
		cart.Clear()
		return nil
	})
}

// mutate runs a get-modify-save cycle on the user's cart, retrying when the
// versioned save loses a race against a concurrent mutation.
func (s *CartService) mutate(userID int, fn func(cart *models.Cart) error) (*models.Cart, error) {
	var lastErr error

	for attempt := 0; attempt < maxSaveRetries; attempt++ {
		cart, err := s.cartRepo.GetOrCreateByUser(userID)
		if err != nil {
			return nil, fmt.Errorf("failed to get cart: %w", err)
		}

		if err := fn(cart); err != nil {
			return nil, err
		}

		err = s.cartRepo.Save(cart)
		if err == nil {
			return cart, nil
		}
		if !models.IsKind(err, models.KindVersionConflict) {
			return nil, fmt.Errorf("failed to save cart: %w", err)
		}

		lastErr = err
		s.logger.WithFields(logrus.Fields{
			"user_id": userID,
			"attempt": attempt + 1,
		}).Warn("cart save lost a version race, retrying")
	}

	return nil, lastErr
}
