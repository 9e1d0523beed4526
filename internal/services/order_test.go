package services

import (
	"context"
	"sort"
	"testing"
	"time"

	"bazario_back_end/internal/apperr"
	"bazario_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Fakes en mémoire ---

type fakeOrderStore struct {
	orders map[string]*models.Order
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: map[string]*models.Order{}}
}

func (s *fakeOrderStore) Insert(_ context.Context, o *models.Order) error {
	copied := *o
	s.orders[o.ID] = &copied
	return nil
}

func (s *fakeOrderStore) GetByID(_ context.Context, orderID string) (*models.Order, error) {
	order, ok := s.orders[orderID]
	if !ok {
		return nil, nil
	}
	copied := *order
	return &copied, nil
}

func (s *fakeOrderStore) ListByCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	all, _ := s.ListAll(ctx)
	var orders []models.Order
	for _, order := range all {
		if order.CustomerID == customerID {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func (s *fakeOrderStore) ListAll(_ context.Context) ([]models.Order, error) {
	var orders []models.Order
	for _, order := range s.orders {
		orders = append(orders, *order)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (s *fakeOrderStore) UpdateStatus(_ context.Context, orderID, status string) error {
	s.orders[orderID].Status = status
	return nil
}

type fakeUsers struct {
	users map[string]models.UserSummary
}

func (f *fakeUsers) Summary(_ context.Context, userID string) (*models.UserSummary, error) {
	summary, ok := f.users[userID]
	if !ok {
		return nil, nil
	}
	return &summary, nil
}

const (
	sellerOne = "11111111-1111-4111-8111-111111111111"
	sellerTwo = "22222222-2222-4222-8222-222222222222"
)

type orderFixture struct {
	engine *OrderEngine
	store  *fakeOrderStore
	carts  *fakeCartStore
}

func newOrderFixture() orderFixture {
	store := newFakeOrderStore()
	carts := newFakeCartStore()
	products := &fakeProducts{products: map[string]models.ProductSummary{
		productA: {ID: productA, Title: "Clavier mécanique", Price: 89.9, SellerID: sellerOne},
		productB: {ID: productB, Title: "Souris sans fil", Price: 34.5, SellerID: sellerTwo},
	}}
	users := &fakeUsers{users: map[string]models.UserSummary{
		customer: {ID: customer, Name: "Alice Martin", Email: "alice@example.com"},
	}}
	return orderFixture{
		engine: NewOrderEngine(store, products, users, carts),
		store:  store,
		carts:  carts,
	}
}

// --- Tests ---

func TestOrderCreate_TrustsSuppliedPricesAndTotal(t *testing.T) {
	fx := newOrderFixture()
	ctx := context.Background()

	items := []models.OrderItem{
		{ProductID: productA, Quantity: 2, Price: 10}, // prix snapshot, pas le prix catalogue
	}
	order, err := fx.engine.Create(ctx, customer, items, 20)
	require.NoError(t, err)

	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, 20.0, order.TotalAmount)
	assert.Equal(t, 10.0, order.Items[0].Price)
	assert.NotEmpty(t, order.ID)

	stored, _ := fx.store.GetByID(ctx, order.ID)
	require.NotNil(t, stored)
}

func TestOrderCreate_Validation(t *testing.T) {
	fx := newOrderFixture()
	ctx := context.Background()

	_, err := fx.engine.Create(ctx, customer, nil, 0)
	assert.True(t, apperr.IsKind(err, apperr.Invalid))

	_, err = fx.engine.Create(ctx, customer, []models.OrderItem{{ProductID: "nope", Quantity: 1, Price: 1}}, 1)
	assert.True(t, apperr.IsKind(err, apperr.Invalid))

	_, err = fx.engine.Create(ctx, customer, []models.OrderItem{{ProductID: productA, Quantity: 0, Price: 1}}, 1)
	assert.True(t, apperr.IsKind(err, apperr.Invalid))

	assert.Empty(t, fx.store.orders)
}

func TestOrderCreate_ClearsExistingCart(t *testing.T) {
	fx := newOrderFixture()
	ctx := context.Background()

	fx.carts.carts[customer] = &models.Cart{
		CustomerID: customer,
		Products:   []models.CartLine{{ProductID: productA, Quantity: 2}},
	}

	_, err := fx.engine.Create(ctx, customer, []models.OrderItem{{ProductID: productA, Quantity: 2, Price: 89.9}}, 179.8)
	require.NoError(t, err)

	cart := fx.carts.carts[customer]
	require.NotNil(t, cart, "le document panier subsiste")
	assert.Empty(t, cart.Products)
}

func TestOrderList_CustomerSeesOnlyOwnOrders(t *testing.T) {
	fx := newOrderFixture()
	ctx := context.Background()

	_, err := fx.engine.Create(ctx, customer, []models.OrderItem{{ProductID: productA, Quantity: 1, Price: 89.9}}, 89.9)
	require.NoError(t, err)
	other := "33333333-3333-4333-8333-333333333333"
	_, err = fx.engine.Create(ctx, other, []models.OrderItem{{ProductID: productB, Quantity: 1, Price: 34.5}}, 34.5)
	require.NoError(t, err)

	orders, err := fx.engine.ListForViewer(ctx, models.Viewer{ID: customer, Role: models.RoleCustomer})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, customer, orders[0].CustomerID)
}

func TestOrderList_SellerScoping(t *testing.T) {
	fx := newOrderFixture()
	ctx := context.Background()

	// Commande mixte : un item de chaque vendeur
	_, err := fx.engine.Create(ctx, customer, []models.OrderItem{
		{ProductID: productA, Quantity: 2, Price: 89.9},
		{ProductID: productB, Quantity: 1, Price: 34.5},
	}, 2*89.9+34.5)
	require.NoError(t, err)

	// Commande ne contenant que des produits de l'autre vendeur
	_, err = fx.engine.Create(ctx, customer, []models.OrderItem{
		{ProductID: productB, Quantity: 3, Price: 34.5},
	}, 3*34.5)
	require.NoError(t, err)

	orders, err := fx.engine.ListForViewer(ctx, models.Viewer{ID: sellerOne, Role: models.RoleSeller})
	require.NoError(t, err)

	// La commande sans item du vendeur disparaît entièrement
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, productA, orders[0].Items[0].ProductID)
	// Total recalculé sur les seuls items restants
	assert.InDelta(t, 2*89.9, orders[0].TotalAmount, 1e-9)
}

func TestOrderList_AdminSeesEverythingUnfiltered(t *testing.T) {
	fx := newOrderFixture()
	ctx := context.Background()

	_, err := fx.engine.Create(ctx, customer, []models.OrderItem{
		{ProductID: productA, Quantity: 2, Price: 89.9},
		{ProductID: productB, Quantity: 1, Price: 34.5},
	}, 214.3)
	require.NoError(t, err)

	orders, err := fx.engine.ListForViewer(ctx, models.Viewer{ID: "a1", Role: models.RoleAdmin})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Len(t, orders[0].Items, 2)
	assert.Equal(t, 214.3, orders[0].TotalAmount)
}

func TestOrderList_NewestFirst(t *testing.T) {
	fx := newOrderFixture()
	ctx := context.Background()

	first, err := fx.engine.Create(ctx, customer, []models.OrderItem{{ProductID: productA, Quantity: 1, Price: 1}}, 1)
	require.NoError(t, err)
	fx.store.orders[first.ID].CreatedAt = time.Now().Add(-time.Hour)

	second, err := fx.engine.Create(ctx, customer, []models.OrderItem{{ProductID: productB, Quantity: 1, Price: 1}}, 1)
	require.NoError(t, err)

	orders, err := fx.engine.ListForViewer(ctx, models.Viewer{ID: customer, Role: models.RoleCustomer})
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)
}

func TestOrderGetByID_ExpandsCustomerAndProducts(t *testing.T) {
	fx := newOrderFixture()
	ctx := context.Background()

	order, err := fx.engine.Create(ctx, customer, []models.OrderItem{{ProductID: productA, Quantity: 1, Price: 89.9}}, 89.9)
	require.NoError(t, err)

	view, err := fx.engine.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, view.Customer)
	assert.Equal(t, "alice@example.com", view.Customer.Email)
	require.Len(t, view.Details, 1)
	assert.Equal(t, "Clavier mécanique", view.Details[0].Title)
	assert.Equal(t, sellerOne, view.Details[0].SellerID)
}

func TestOrderGetByID_NotFound(t *testing.T) {
	fx := newOrderFixture()

	_, err := fx.engine.GetByID(context.Background(), "44444444-4444-4444-8444-444444444444")
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestOrderUpdateStatus_RejectsUnknownStatusWithoutMutation(t *testing.T) {
	fx := newOrderFixture()
	ctx := context.Background()

	order, err := fx.engine.Create(ctx, customer, []models.OrderItem{{ProductID: productA, Quantity: 1, Price: 89.9}}, 89.9)
	require.NoError(t, err)

	_, err = fx.engine.UpdateStatus(ctx, order.ID, "Expédiée")
	assert.True(t, apperr.IsKind(err, apperr.Invalid))

	stored, _ := fx.store.GetByID(ctx, order.ID)
	assert.Equal(t, models.OrderPending, stored.Status)
}

func TestOrderUpdateStatus_AnyTransitionAllowed(t *testing.T) {
	fx := newOrderFixture()
	ctx := context.Background()

	order, err := fx.engine.Create(ctx, customer, []models.OrderItem{{ProductID: productA, Quantity: 1, Price: 89.9}}, 89.9)
	require.NoError(t, err)

	// Aucun graphe de transitions : Delivered peut revenir à Pending
	for _, status := range []string{models.OrderDelivered, models.OrderPending, models.OrderCancelled, models.OrderShipped} {
		updated, err := fx.engine.UpdateStatus(ctx, order.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}
}

func TestCheckoutEndToEnd(t *testing.T) {
	fx := newOrderFixture()
	cartEngine := NewCartEngine(fx.carts, fx.engine.products)
	ctx := context.Background()

	// Le client remplit son panier : A ×2 puis B ×1
	_, err := cartEngine.Add(ctx, customer, productA, 2)
	require.NoError(t, err)
	_, err = cartEngine.Add(ctx, customer, productB, 1)
	require.NoError(t, err)

	view, err := cartEngine.Get(ctx, customer)
	require.NoError(t, err)
	require.Len(t, view.Products, 2)

	// Checkout depuis l'instantané du panier
	items := make([]models.OrderItem, 0, len(view.Products))
	total := 0.0
	for _, line := range view.Products {
		items = append(items, models.OrderItem{ProductID: line.ProductID, Quantity: line.Quantity, Price: line.Price})
		total += line.Price * float64(line.Quantity)
	}

	order, err := fx.engine.Create(ctx, customer, items, total)
	require.NoError(t, err)

	require.Len(t, order.Items, 2)
	assert.InDelta(t, 2*89.9+34.5, order.TotalAmount, 1e-9)

	// Le panier est vidé par le checkout
	after, err := cartEngine.Get(ctx, customer)
	require.NoError(t, err)
	assert.Empty(t, after.Products)
}
