package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmdirect/backend/internal/core/domain/entity"
	"github.com/farmdirect/backend/internal/core/ports"
)

func setupTestDB(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedUser(t *testing.T, store *Store, role entity.Role, name string) *entity.User {
	t.Helper()
	now := time.Now()
	u := &entity.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        name + "@example.com",
		Phone:        "phone-" + uuid.NewString(),
		PasswordHash: "hash",
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, NewUserRepo(store).Create(context.Background(), u))
	return u
}

func seedProduct(t *testing.T, store *Store, farmerID, name, price string) *entity.Product {
	t.Helper()
	now := time.Now()
	p := &entity.Product{
		ID:        uuid.NewString(),
		Name:      name,
		Price:     decimal.RequireFromString(price),
		FarmerID:  farmerID,
		Quantity:  50,
		ImageURL:  "/img/" + name + ".jpg",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, NewProductRepo(store).Create(context.Background(), p))
	return p
}

func TestConnectionState(t *testing.T) {
	store := setupTestDB(t)
	assert.Equal(t, "connected", store.ConnectionState(context.Background()))

	require.NoError(t, store.Close())
	assert.Equal(t, "disconnected", store.ConnectionState(context.Background()))
}

func TestUserRepo(t *testing.T) {
	ctx := context.Background()
	store := setupTestDB(t)
	repo := NewUserRepo(store)

	t.Run("round-trips with badges and farm profile", func(t *testing.T) {
		now := time.Now()
		u := &entity.User{
			ID:           uuid.NewString(),
			Name:         "Green Acres",
			Email:        "farm@example.com",
			Phone:        "555-0101",
			PasswordHash: "hash",
			Role:         entity.RoleFarmer,
			Owner:        "Sam Green",
			Address:      "42 Orchard Lane",
			Latitude:     41.2,
			Longitude:    -73.9,
			Badges:       []string{"Organic", "Local"},
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		require.NoError(t, repo.Create(ctx, u))

		got, err := repo.ByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, u.Badges, got.Badges)
		assert.Equal(t, u.Owner, got.Owner)
		assert.Equal(t, entity.RoleFarmer, got.Role)

		byEmail, err := repo.ByEmail(ctx, "farm@example.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, byEmail.ID)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		u := seedUser(t, store, entity.RoleConsumer, "dupe")
		dup := *u
		dup.ID = uuid.NewString()
		dup.Phone = "other-phone"
		assert.ErrorIs(t, repo.Create(ctx, &dup), ports.ErrConflict)
	})

	t.Run("missing user is not found", func(t *testing.T) {
		_, err := repo.ByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, ports.ErrNotFound)
	})
}

func TestProductRepo(t *testing.T) {
	ctx := context.Background()
	store := setupTestDB(t)
	repo := NewProductRepo(store)
	farmer := seedUser(t, store, entity.RoleFarmer, "farmer")

	t.Run("price survives the text round-trip exactly", func(t *testing.T) {
		p := seedProduct(t, store, farmer.ID, "tomatoes", "3.99")

		got, err := repo.ByID(ctx, p.ID)
		require.NoError(t, err)
		assert.True(t, got.Price.Equal(decimal.RequireFromString("3.99")))
		assert.Equal(t, farmer.ID, got.FarmerID)
	})

	t.Run("missing product is not found", func(t *testing.T) {
		_, err := repo.ByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, ports.ErrNotFound)
	})

	t.Run("All returns every listing", func(t *testing.T) {
		seedProduct(t, store, farmer.ID, "honey", "5.50")
		all, err := repo.All(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(all), 2)
	})
}

func TestCartRepo(t *testing.T) {
	ctx := context.Background()
	store := setupTestDB(t)
	repo := NewCartRepo(store)
	consumer := seedUser(t, store, entity.RoleConsumer, "shopper")
	farmer := seedUser(t, store, entity.RoleFarmer, "grower")
	p := seedProduct(t, store, farmer.ID, "eggs", "4.25")

	t.Run("adding the same product tops up the quantity", func(t *testing.T) {
		require.NoError(t, repo.AddItem(ctx, consumer.ID, entity.CartItem{ProductID: p.ID, Quantity: 2}))
		require.NoError(t, repo.AddItem(ctx, consumer.ID, entity.CartItem{ProductID: p.ID, Quantity: 3}))

		items, err := repo.Items(ctx, consumer.ID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 5, items[0].Quantity)
	})

	t.Run("clear empties the cart", func(t *testing.T) {
		require.NoError(t, repo.Clear(ctx, consumer.ID))
		items, err := repo.Items(ctx, consumer.ID)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func placeOrder(t *testing.T, store *Store, consumerID string, items []entity.OrderItem, total string) *entity.Order {
	t.Helper()
	now := time.Now()
	o := &entity.Order{
		ID:         uuid.NewString(),
		ConsumerID: consumerID,
		Items:      items,
		TotalPrice: decimal.RequireFromString(total),
		Status:     entity.StatusPlaced,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, NewOrderRepo(store).Create(context.Background(), o))
	return o
}

func TestOrderRepo(t *testing.T) {
	ctx := context.Background()
	store := setupTestDB(t)
	repo := NewOrderRepo(store)

	consumer := seedUser(t, store, entity.RoleConsumer, "alice")
	otherConsumer := seedUser(t, store, entity.RoleConsumer, "bob")
	farmer1 := seedUser(t, store, entity.RoleFarmer, "farm1")
	farmer2 := seedUser(t, store, entity.RoleFarmer, "farm2")
	p1 := seedProduct(t, store, farmer1.ID, "tomatoes", "3.00")
	p2 := seedProduct(t, store, farmer2.ID, "honey", "5.50")

	order := placeOrder(t, store, consumer.ID, []entity.OrderItem{
		{ProductID: p1.ID, FarmerID: farmer1.ID, Quantity: 2},
		{ProductID: p2.ID, FarmerID: farmer2.ID, Quantity: 1},
	}, "11.50")
	otherOrder := placeOrder(t, store, otherConsumer.ID, []entity.OrderItem{
		{ProductID: p1.ID, FarmerID: farmer1.ID, Quantity: 1},
	}, "3.00")

	t.Run("ByID expands products and the consumer", func(t *testing.T) {
		v, err := repo.ByID(ctx, order.ID)
		require.NoError(t, err)

		assert.True(t, v.TotalPrice.Equal(decimal.RequireFromString("11.50")))
		require.Len(t, v.Items, 2)
		require.NotNil(t, v.Items[0].Product)
		assert.Equal(t, "tomatoes", v.Items[0].Product.Name)
		assert.Equal(t, farmer1.ID, v.Items[0].FarmerID)
		require.NotNil(t, v.Consumer)
		assert.Equal(t, "alice", v.Consumer.Name)
	})

	t.Run("ByID on a missing order is not found", func(t *testing.T) {
		_, err := repo.ByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, ports.ErrNotFound)
	})

	t.Run("ByConsumer only returns the caller's orders", func(t *testing.T) {
		views, err := repo.ByConsumer(ctx, consumer.ID)
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, order.ID, views[0].ID)
		assert.Nil(t, views[0].Consumer, "consumer view does not re-expand the caller")
	})

	t.Run("ByFarmer matches any owned line item", func(t *testing.T) {
		views, err := repo.ByFarmer(ctx, farmer2.ID)
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, order.ID, views[0].ID)
		require.NotNil(t, views[0].Consumer)
		assert.Equal(t, "alice", views[0].Consumer.Name)

		views, err = repo.ByFarmer(ctx, farmer1.ID)
		require.NoError(t, err)
		assert.Len(t, views, 2, "farmer1 has a line item in both orders")
	})

	t.Run("All expands each product's owning farmer", func(t *testing.T) {
		views, err := repo.All(ctx)
		require.NoError(t, err)
		require.Len(t, views, 2)

		for _, v := range views {
			if v.ID != order.ID {
				continue
			}
			require.NotNil(t, v.Items[0].Farmer)
			assert.Equal(t, "farm1", v.Items[0].Farmer.Name)
			assert.Equal(t, "farm1@example.com", v.Items[0].Farmer.Email)
		}
	})

	t.Run("creation records the placed event", func(t *testing.T) {
		events, err := repo.StatusHistory(ctx, order.ID)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, entity.StatusPlaced, events[0].Status)
	})

	t.Run("UpdateStatus appends an event", func(t *testing.T) {
		require.NoError(t, repo.UpdateStatus(ctx, otherOrder.ID, entity.StatusProcessing))

		v, err := repo.ByID(ctx, otherOrder.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusProcessing, v.Status)

		events, err := repo.StatusHistory(ctx, otherOrder.ID)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, entity.StatusProcessing, events[1].Status)
	})

	t.Run("UpdateStatus on a missing order is not found", func(t *testing.T) {
		err := repo.UpdateStatus(ctx, uuid.NewString(), entity.StatusProcessing)
		assert.ErrorIs(t, err, ports.ErrNotFound)
	})
}
