package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductCreateRequest_Validate(t *testing.T) {
	t.Run("valid request", func(t *testing.T) {
		req := &ProductCreateRequest{
			Name:     "Mechanical Keyboard",
			Price:    7999,
			Stock:    25,
			Category: "peripherals",
		}
		assert.NoError(t, req.Validate())
	})

	t.Run("blank name", func(t *testing.T) {
		req := &ProductCreateRequest{Name: "   ", Price: 100, Stock: 1}
		assert.Error(t, req.Validate())
	})

	t.Run("negative price", func(t *testing.T) {
		req := &ProductCreateRequest{Name: "Widget", Price: -1, Stock: 1}
		assert.Error(t, req.Validate())
	})

	t.Run("negative stock", func(t *testing.T) {
		req := &ProductCreateRequest{Name: "Widget", Price: 100, Stock: -1}
		assert.Error(t, req.Validate())
	})
}

func TestProduct_IsInStock(t *testing.T) {
	product := &Product{Stock: 5}

	assert.True(t, product.IsInStock(5))
	assert.True(t, product.IsInStock(1))
	assert.False(t, product.IsInStock(6))
}

func TestUser_CanManageProduct(t *testing.T) {
	product := &Product{ID: 1, OwnerID: 7}

	t.Run("owner", func(t *testing.T) {
		user := &User{ID: 7, Role: RoleUser}
		assert.True(t, user.CanManageProduct(product))
	})

	t.Run("admin", func(t *testing.T) {
		user := &User{ID: 99, Role: RoleAdmin}
		assert.True(t, user.CanManageProduct(product))
	})

	t.Run("other user", func(t *testing.T) {
		user := &User{ID: 2, Role: RoleUser}
		assert.False(t, user.CanManageProduct(product))
	})
}
