package services

import (
	"fmt"

	"ecommerce-platform/internal/models"
	"ecommerce-platform/internal/repositories"

	"github.com/sirupsen/logrus"
)

// ProductService handles catalog operations. Writes are restricted to the
// product's owner or an admin.
type ProductService struct {
	productRepo ProductRepository
	logger      *logrus.Logger
}

// NewProductService creates a new product service
func NewProductService(productRepo ProductRepository, logger *logrus.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		logger:      logger,
	}
}

// GetProductByID retrieves a product by ID
func (s *ProductService) GetProductByID(id int) (*models.Product, error) {
	if id <= 0 {
		return nil, models.ErrInvalidID
	}
	return s.productRepo.GetByID(id)
}

// SearchProducts returns a page of products plus the total match count
func (s *ProductService) SearchProducts(filters repositories.ProductSearchFilters) ([]*models.Product, int, error) {
	if filters.Limit <= 0 || filters.Limit > 100 {
		filters.Limit = 20
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}
	return s.productRepo.Search(filters)
}

// CreateProduct creates a new product owned by the given user
func (s *ProductService) CreateProduct(req *models.ProductCreateRequest, owner *models.User) (*models.Product, error) {
	req.OwnerID = owner.ID

	product, err := s.productRepo.Create(req)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"product_id": product.ID,
		"owner_id":   owner.ID,
	}).Info("product created")

	return product, nil
}

// UpdateProduct updates a product after checking the requesting user may
// manage it
func (s *ProductService) UpdateProduct(id int, req *models.ProductUpdateRequest, requestingUser *models.User) (*models.Product, error) {
	product, err := s.GetProductByID(id)
	if err != nil {
		return nil, err
	}

	if !requestingUser.CanManageProduct(product) {
		return nil, models.NewError(models.KindUnauthorized, "not allowed to manage this product")
	}

	return s.productRepo.Update(id, req)
}

// DeleteProduct deletes a product after checking the requesting user may
// manage it
func (s *ProductService) DeleteProduct(id int, requestingUser *models.User) error {
	product, err := s.GetProductByID(id)
	if err != nil {
		return err
	}

	if !requestingUser.CanManageProduct(product) {
		return models.NewError(models.KindUnauthorized, "not allowed to manage this product")
	}

	if err := s.productRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.logger.WithField("product_id", id).Info("product deleted")
	return nil
}

// UpdateStock sets a product's stock to a new absolute value
func (s *ProductService) UpdateStock(id int, newValue int, requestingUser *models.User) (*models.Product, error) {
	if newValue < 0 {
		return nil, models.NewError(models.KindInvalidInput, "stock cannot be negative")
	}

	product, err := s.GetProductByID(id)
	if err != nil {
		return nil, err
	}

	if !requestingUser.CanManageProduct(product) {
		return nil, models.NewError(models.KindUnauthorized, "not allowed to manage this product")
	}

	if err := s.productRepo.UpdateStock(id, newValue); err != nil {
		return nil, err
	}

	return s.productRepo.GetByID(id)
}
