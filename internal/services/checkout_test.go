package services

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"ecommerce-platform/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockUserRepository struct {
	users         map[int]*models.User
	nextID        int
	shouldFailOps map[string]bool
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:         make(map[int]*models.User),
		nextID:        1,
		shouldFailOps: make(map[string]bool),
	}
}

func (m *mockUserRepository) Create(req *models.UserCreateRequest) (*models.User, error) {
	if m.shouldFailOps["Create"] {
		return nil, errors.New("mock error")
	}

	for _, user := range m.users {
		if user.Email == req.Email {
			return nil, models.ErrDuplicateEmail
		}
	}

	user := &models.User{
		ID:           m.nextID,
		Email:        req.Email,
		PasswordHash: req.PasswordHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		CreatedAt:    time.Now(),
	}
	m.users[m.nextID] = user
	m.nextID++
	return user, nil
}

func (m *mockUserRepository) GetByID(id int) (*models.User, error) {
	if m.shouldFailOps["GetByID"] {
		return nil, errors.New("mock error")
	}

	user, exists := m.users[id]
	if !exists {
		return nil, models.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) GetByEmail(email string) (*models.User, error) {
	if m.shouldFailOps["GetByEmail"] {
		return nil, errors.New("mock error")
	}

	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, models.ErrUserNotFound
}

// mockCheckoutStore shares the product and cart state with the other mocks
// so a checkout observes the same world the cart service built.
type mockCheckoutStore struct {
	productRepo   *mockProductRepository
	cartRepo      *mockCartRepository
	tickets       map[int]*models.Ticket
	nextTicketID  int
	committed     bool
	rolledBack    bool
	shouldFailOps map[string]bool
}

func newMockCheckoutStore(productRepo *mockProductRepository, cartRepo *mockCartRepository) *mockCheckoutStore {
	return &mockCheckoutStore{
		productRepo:   productRepo,
		cartRepo:      cartRepo,
		tickets:       make(map[int]*models.Ticket),
		nextTicketID:  1,
		shouldFailOps: make(map[string]bool),
	}
}

func (m *mockCheckoutStore) Begin() (*sql.Tx, error) {
	if m.shouldFailOps["Begin"] {
		return nil, errors.New("mock error")
	}
	m.committed = false
	m.rolledBack = false
	return nil, nil
}

func (m *mockCheckoutStore) Commit(tx *sql.Tx) error {
	if m.shouldFailOps["Commit"] {
		return errors.New("mock error")
	}
	m.committed = true
	return nil
}

func (m *mockCheckoutStore) Rollback(tx *sql.Tx) error {
	if !m.committed {
		m.rolledBack = true
	}
	return nil
}

func (m *mockCheckoutStore) GetProductForUpdate(tx *sql.Tx, productID int) (*models.Product, error) {
	if m.shouldFailOps["GetProductForUpdate"] {
		return nil, errors.New("mock error")
	}
	return m.productRepo.GetByID(productID)
}

func (m *mockCheckoutStore) DecrementStock(tx *sql.Tx, productID, quantity int) error {
	if m.shouldFailOps["DecrementStock"] {
		return errors.New("mock error")
	}
	return m.productRepo.DecrementStock(productID, quantity)
}

func (m *mockCheckoutStore) CreateTicket(tx *sql.Tx, req *models.TicketCreateRequest) (*models.Ticket, error) {
	if m.shouldFailOps["CreateTicket"] {
		return nil, errors.New("mock error")
	}

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	ticket := &models.Ticket{
		ID:               m.nextTicketID,
		Code:             fmt.Sprintf("ticket-%d", m.nextTicketID),
		PurchaserID:      req.PurchaserID,
		PurchaserEmail:   req.PurchaserEmail,
		Items:            req.Items,
		Amount:           req.Amount,
		Status:           req.Status,
		UnprocessedItems: req.UnprocessedItems,
		PurchaseDatetime: time.Now(),
	}
	m.tickets[m.nextTicketID] = ticket
	m.nextTicketID++
	return ticket, nil
}

func (m *mockCheckoutStore) ReplaceCart(tx *sql.Tx, cart *models.Cart) error {
	if m.shouldFailOps["ReplaceCart"] {
		return errors.New("mock error")
	}
	return m.cartRepo.Save(cart)
}

func createTestCheckoutService() (*CheckoutService, *CartService, *mockCheckoutStore, *mockCartRepository, *mockProductRepository, *mockUserRepository) {
	cartRepo := newMockCartRepository()
	productRepo := newMockProductRepository()
	userRepo := newMockUserRepository()
	store := newMockCheckoutStore(productRepo, cartRepo)

	cartService := NewCartService(cartRepo, productRepo, testLogger())
	service := NewCheckoutService(store, cartRepo, userRepo, testLogger())
	return service, cartService, store, cartRepo, productRepo, userRepo
}

func seedUser(userRepo *mockUserRepository, email string) *models.User {
	user, _ := userRepo.Create(&models.UserCreateRequest{
		Email:        email,
		PasswordHash: "hash",
		FirstName:    "Test",
		LastName:     "User",
		Role:         models.RoleUser,
	})
	return user
}

func TestCheckoutService_CompletedCheckout(t *testing.T) {
	service, cartService, store, _, productRepo, userRepo := createTestCheckoutService()
	user := seedUser(userRepo, "buyer@example.com")
	apple := seedProduct(productRepo, "Apple", 100, 10)
	pear := seedProduct(productRepo, "Pear", 250, 5)

	_, err := cartService.AddItem(user.ID, apple.ID, 2)
	require.NoError(t, err)
	_, err = cartService.AddItem(user.ID, pear.ID, 1)
	require.NoError(t, err)

	result, err := service.Checkout(user.ID)
	require.NoError(t, err)

	assert.Equal(t, models.TicketCompleted, result.Ticket.Status)
	assert.Equal(t, 450, result.Ticket.Amount)
	assert.Equal(t, user.ID, result.Ticket.PurchaserID)
	assert.Equal(t, user.Email, result.Ticket.PurchaserEmail)
	assert.Len(t, result.Ticket.Items, 2)
	assert.Empty(t, result.UnprocessedItems)
	assert.NotEmpty(t, result.Ticket.Code)
	assert.True(t, store.committed)

	// Stock was decremented.
	assert.Equal(t, 8, productRepo.products[apple.ID].Stock)
	assert.Equal(t, 4, productRepo.products[pear.ID].Stock)

	// Cart is empty afterwards.
	cart, err := cartService.GetCart(user.ID)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
	assert.Equal(t, 0, cart.Total)
}

func TestCheckoutService_PartialCheckout(t *testing.T) {
	service, cartService, _, _, productRepo, userRepo := createTestCheckoutService()
	user := seedUser(userRepo, "buyer@example.com")
	a := seedProduct(productRepo, "A", 1000, 5)
	b := seedProduct(productRepo, "B", 500, 1)

	_, err := cartService.AddItem(user.ID, a.ID, 2)
	require.NoError(t, err)
	_, err = cartService.AddItem(user.ID, b.ID, 1)
	require.NoError(t, err)

	// B sells out between the add and the checkout.
	productRepo.products[b.ID].Stock = 0

	result, err := service.Checkout(user.ID)
	require.NoError(t, err)

	assert.Equal(t, models.TicketPartial, result.Ticket.Status)
	assert.Equal(t, 2000, result.Ticket.Amount)
	require.Len(t, result.Ticket.Items, 1)
	assert.Equal(t, a.ID, result.Ticket.Items[0].ProductID)

	require.Len(t, result.UnprocessedItems, 1)
	assert.Equal(t, b.ID, result.UnprocessedItems[0].ProductID)
	assert.Equal(t, "Insufficient stock. Available: 0", result.UnprocessedItems[0].Reason)

	// Only the fulfilled line touched stock.
	assert.Equal(t, 3, productRepo.products[a.ID].Stock)
	assert.Equal(t, 0, productRepo.products[b.ID].Stock)

	// The cart holds exactly the unfulfilled line, quantity unchanged.
	cart, err := cartService.GetCart(user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, b.ID, cart.Items[0].ProductID)
	assert.Equal(t, 1, cart.Items[0].Quantity)
	assert.Equal(t, 500, cart.Total)
}

func TestCheckoutService_EmptyCart(t *testing.T) {
	service, _, store, _, _, userRepo := createTestCheckoutService()
	user := seedUser(userRepo, "buyer@example.com")

	_, err := service.Checkout(user.ID)
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindCartEmpty))
	assert.False(t, store.committed)
}

func TestCheckoutService_UnknownUser(t *testing.T) {
	service, _, _, _, _, _ := createTestCheckoutService()

	_, err := service.Checkout(999)
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindUserNotFound))
}

func TestCheckoutService_NothingProcessed(t *testing.T) {
	service, cartService, store, _, productRepo, userRepo := createTestCheckoutService()
	user := seedUser(userRepo, "buyer@example.com")
	a := seedProduct(productRepo, "A", 1000, 2)

	_, err := cartService.AddItem(user.ID, a.ID, 2)
	require.NoError(t, err)

	productRepo.products[a.ID].Stock = 0

	_, err = service.Checkout(user.ID)
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindNothingProcessed))

	// No ticket was recorded, no stock touched, cart untouched.
	assert.Empty(t, store.tickets)
	assert.False(t, store.committed)
	cart, err := cartService.GetCart(user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestCheckoutService_VanishedProduct(t *testing.T) {
	service, cartService, _, _, productRepo, userRepo := createTestCheckoutService()
	user := seedUser(userRepo, "buyer@example.com")
	a := seedProduct(productRepo, "A", 1000, 5)
	b := seedProduct(productRepo, "B", 500, 5)

	_, err := cartService.AddItem(user.ID, a.ID, 1)
	require.NoError(t, err)
	_, err = cartService.AddItem(user.ID, b.ID, 1)
	require.NoError(t, err)

	// B is deleted from the catalog before checkout. The cart line is a
	// snapshot, so it survives the deletion and checkout reports it.
	require.NoError(t, productRepo.Delete(b.ID))

	cart, err := cartService.GetCart(user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)

	result, err := service.Checkout(user.ID)
	require.NoError(t, err)

	assert.Equal(t, models.TicketPartial, result.Ticket.Status)
	require.Len(t, result.UnprocessedItems, 1)
	assert.Equal(t, b.ID, result.UnprocessedItems[0].ProductID)
	assert.Equal(t, "Product no longer available", result.UnprocessedItems[0].Reason)

	cart, err = cartService.GetCart(user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, b.ID, cart.Items[0].ProductID)
}

func TestCheckoutService_TicketLinesUseCurrentPrice(t *testing.T) {
	service, cartService, _, _, productRepo, userRepo := createTestCheckoutService()
	user := seedUser(userRepo, "buyer@example.com")
	a := seedProduct(productRepo, "A", 1000, 5)

	_, err := cartService.AddItem(user.ID, a.ID, 2)
	require.NoError(t, err)

	// Price changes between add and checkout.
	productRepo.products[a.ID].Price = 1200

	result, err := service.Checkout(user.ID)
	require.NoError(t, err)

	require.Len(t, result.Ticket.Items, 1)
	assert.Equal(t, 1200, result.Ticket.Items[0].UnitPrice)
	assert.Equal(t, 2400, result.Ticket.Items[0].Subtotal)
	assert.Equal(t, 2400, result.Ticket.Amount)
}

func TestCheckoutService_AmountMatchesSubtotals(t *testing.T) {
	service, cartService, _, _, productRepo, userRepo := createTestCheckoutService()
	user := seedUser(userRepo, "buyer@example.com")
	a := seedProduct(productRepo, "A", 199, 10)
	b := seedProduct(productRepo, "B", 49, 10)

	_, err := cartService.AddItem(user.ID, a.ID, 3)
	require.NoError(t, err)
	_, err = cartService.AddItem(user.ID, b.ID, 7)
	require.NoError(t, err)

	result, err := service.Checkout(user.ID)
	require.NoError(t, err)

	sum := 0
	for _, item := range result.Ticket.Items {
		sum += item.Subtotal
	}
	assert.Equal(t, sum, result.Ticket.Amount)
}

func TestCheckoutService_RetriesOnCartVersionConflict(t *testing.T) {
	service, cartService, store, cartRepo, productRepo, userRepo := createTestCheckoutService()
	user := seedUser(userRepo, "buyer@example.com")
	a := seedProduct(productRepo, "A", 1000, 10)

	_, err := cartService.AddItem(user.ID, a.ID, 1)
	require.NoError(t, err)

	cartRepo.conflictsLeft = 1

	result, err := service.Checkout(user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TicketCompleted, result.Ticket.Status)
	assert.True(t, store.committed)
}
