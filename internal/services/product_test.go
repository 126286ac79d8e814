package services

import (
	"testing"

	"ecommerce-platform/internal/models"
	"ecommerce-platform/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestProductService() (*ProductService, *mockProductRepository) {
	productRepo := newMockProductRepository()
	service := NewProductService(productRepo, testLogger())
	return service, productRepo
}

func TestProductService_CreateAndGet(t *testing.T) {
	service, _ := createTestProductService()
	owner := &models.User{ID: 7, Role: models.RoleUser}

	product, err := service.CreateProduct(&models.ProductCreateRequest{
		Name:     "Apple",
		Price:    100,
		Stock:    10,
		Category: "fruit",
	}, owner)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, product.OwnerID)

	got, err := service.GetProductByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Apple", got.Name)

	_, err = service.GetProductByID(0)
	assert.True(t, models.IsKind(err, models.KindInvalidID))

	_, err = service.GetProductByID(999)
	assert.True(t, models.IsKind(err, models.KindProductNotFound))
}

func TestProductService_SearchProducts(t *testing.T) {
	service, productRepo := createTestProductService()
	seedProduct(productRepo, "Apple", 100, 10)
	seedProduct(productRepo, "Pear", 250, 5)

	products, total, err := service.SearchProducts(repositories.ProductSearchFilters{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, products, 2)
}

func TestProductService_UpdateAuthorization(t *testing.T) {
	service, productRepo := createTestProductService()
	product := seedProduct(productRepo, "Apple", 100, 10)

	owner := &models.User{ID: product.OwnerID, Role: models.RoleUser}
	stranger := &models.User{ID: 99, Role: models.RoleUser}
	admin := &models.User{ID: 100, Role: models.RoleAdmin}

	req := &models.ProductUpdateRequest{
		Name:     "Green Apple",
		Price:    120,
		Category: "fruit",
	}

	t.Run("owner may update", func(t *testing.T) {
		updated, err := service.UpdateProduct(product.ID, req, owner)
		require.NoError(t, err)
		assert.Equal(t, "Green Apple", updated.Name)
	})

	t.Run("stranger may not", func(t *testing.T) {
		_, err := service.UpdateProduct(product.ID, req, stranger)
		require.Error(t, err)
		assert.True(t, models.IsKind(err, models.KindUnauthorized))
	})

	t.Run("admin may update any product", func(t *testing.T) {
		_, err := service.UpdateProduct(product.ID, req, admin)
		require.NoError(t, err)
	})
}

func TestProductService_DeleteAuthorization(t *testing.T) {
	service, productRepo := createTestProductService()
	product := seedProduct(productRepo, "Apple", 100, 10)
	stranger := &models.User{ID: 99, Role: models.RoleUser}
	owner := &models.User{ID: product.OwnerID, Role: models.RoleUser}

	err := service.DeleteProduct(product.ID, stranger)
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindUnauthorized))

	err = service.DeleteProduct(product.ID, owner)
	require.NoError(t, err)

	_, err = service.GetProductByID(product.ID)
	assert.True(t, models.IsKind(err, models.KindProductNotFound))
}

func TestProductService_UpdateStock(t *testing.T) {
	service, productRepo := createTestProductService()
	product := seedProduct(productRepo, "Apple", 100, 10)
	owner := &models.User{ID: product.OwnerID, Role: models.RoleUser}

	updated, err := service.UpdateStock(product.ID, 3, owner)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Stock)

	_, err = service.UpdateStock(product.ID, -1, owner)
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindInvalidInput))
}
