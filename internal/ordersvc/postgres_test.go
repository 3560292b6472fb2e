package ordersvc

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/levelup-gamer/checkout/internal/domain"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)

	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	creds := &Credentials{
		Host:              host,
		Port:              port.Int(),
		User:              "testuser",
		Password:          "testpass",
		DBName:            "testdb",
		MigrationsDirPath: "./migrations",
	}

	repo, err := NewRepository(creds)
	require.NoError(t, err)

	err = repo.RunMigrations(creds)
	require.NoError(t, err)

	cleanup := func() {
		repo.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return repo, cleanup
}

var testOrderSeq int

func newTestOrder(userID string) *domain.Order {
	testOrderSeq++
	return &domain.Order{
		Code:      fmt.Sprintf("20260901-1200%02d-%04d", testOrderSeq%60, testOrderSeq),
		UserID:    userID,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
		Shipping: domain.ShippingDetails{
			FirstName: "Valentina",
			LastName:  "Rojas",
			Email:     "valentina@duoc.cl",
			Phone:     "+56912345678",
			Address:   "Av. Providencia 1234",
			Region:    "Metropolitana",
			Locality:  "Providencia",
		},
		Items: []domain.CartLineItem{
			{ID: "ps5", DisplayName: "PlayStation 5", UnitPrice: 500000, Quantity: 1, Category: "Consolas"},
		},
		Subtotal: 500000,
		Tax:      95000,
		Total:    595000,
		Status:   domain.OrderStatusPending,
	}
}

func TestCreateOrder_Success(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	order := newTestOrder("user-123")

	err := repo.CreateOrder(ctx, order)
	require.NoError(t, err)

	fetched, err := repo.GetOrderByCode(ctx, order.Code)
	require.NoError(t, err)
	assert.Equal(t, order.Code, fetched.Code)
	assert.Equal(t, order.UserID, fetched.UserID)
	assert.Equal(t, order.Subtotal, fetched.Subtotal)
	assert.Equal(t, order.Total, fetched.Total)
	assert.Equal(t, order.Status, fetched.Status)
	assert.Equal(t, order.Shipping.Address, fetched.Shipping.Address)
	assert.Len(t, fetched.Items, 1)
	assert.Equal(t, "PlayStation 5", fetched.Items[0].DisplayName)
}

func TestCreateOrder_DuplicateCode(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	order := newTestOrder("user-123")
	require.NoError(t, repo.CreateOrder(ctx, order))

	dup := newTestOrder("user-456")
	dup.Code = order.Code
	err := repo.CreateOrder(ctx, dup)
	assert.ErrorIs(t, err, ErrDuplicateOrder)
}

func TestGetOrderByCode_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetOrderByCode(context.Background(), "20260901-000000-0000")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestListOrdersByUserID(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	userID := "user-list-test"

	order1 := newTestOrder(userID)
	require.NoError(t, repo.CreateOrder(ctx, order1))

	order2 := newTestOrder(userID)
	order2.CreatedAt = order1.CreatedAt.Add(10 * time.Millisecond)
	require.NoError(t, repo.CreateOrder(ctx, order2))

	require.NoError(t, repo.CreateOrder(ctx, newTestOrder("someone-else")))

	orders, err := repo.ListOrdersByUserID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	// newest first
	assert.Equal(t, order2.Code, orders[0].Code)
	assert.Equal(t, order1.Code, orders[1].Code)
}

func TestUpdateOrderStatus(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	order := newTestOrder("user-123")
	require.NoError(t, repo.CreateOrder(ctx, order))

	require.NoError(t, repo.UpdateOrderStatus(ctx, order.Code, domain.OrderStatusProcessing))
	require.NoError(t, repo.UpdateOrderStatus(ctx, order.Code, domain.OrderStatusCompleted))

	fetched, err := repo.GetOrderByCode(ctx, order.Code)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, fetched.Status)
}

func TestUpdateOrderStatus_IllegalTransition(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	order := newTestOrder("user-123")
	require.NoError(t, repo.CreateOrder(ctx, order))

	require.NoError(t, repo.UpdateOrderStatus(ctx, order.Code, domain.OrderStatusProcessing))
	require.NoError(t, repo.UpdateOrderStatus(ctx, order.Code, domain.OrderStatusCompleted))

	err := repo.UpdateOrderStatus(ctx, order.Code, domain.OrderStatusPending)
	assert.ErrorIs(t, err, ErrBadTransition)
}

func TestUpdateOrderStatus_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.UpdateOrderStatus(context.Background(), "20260901-000000-0000", domain.OrderStatusProcessing)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
