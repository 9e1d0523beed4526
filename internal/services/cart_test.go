package services

import (
	"context"
	"testing"

	"bazario_back_end/internal/apperr"
	"bazario_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Fakes en mémoire ---

type fakeCartStore struct {
	carts map[string]*models.Cart
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: map[string]*models.Cart{}}
}

func (s *fakeCartStore) Get(_ context.Context, customerID string) (*models.Cart, error) {
	cart, ok := s.carts[customerID]
	if !ok {
		return nil, nil
	}
	copied := *cart
	copied.Products = append([]models.CartLine(nil), cart.Products...)
	return &copied, nil
}

func (s *fakeCartStore) Mutate(_ context.Context, customerID string, create bool,
	fn func([]models.CartLine) ([]models.CartLine, error)) (*models.Cart, error) {

	cart, ok := s.carts[customerID]
	if !ok {
		if !create {
			return nil, nil
		}
		cart = &models.Cart{CustomerID: customerID}
	}

	lines, err := fn(append([]models.CartLine(nil), cart.Products...))
	if err != nil {
		return nil, err
	}
	if lines == nil {
		lines = []models.CartLine{}
	}
	cart.Products = lines
	s.carts[customerID] = cart

	copied := *cart
	copied.Products = append([]models.CartLine(nil), cart.Products...)
	return &copied, nil
}

type fakeProducts struct {
	products map[string]models.ProductSummary
}

func (f *fakeProducts) Summary(_ context.Context, productID string) (*models.ProductSummary, error) {
	summary, ok := f.products[productID]
	if !ok {
		return nil, nil
	}
	return &summary, nil
}

func (f *fakeProducts) Summaries(_ context.Context, productIDs []string) (map[string]models.ProductSummary, error) {
	result := map[string]models.ProductSummary{}
	for _, id := range productIDs {
		if summary, ok := f.products[id]; ok {
			result[id] = summary
		}
	}
	return result, nil
}

const (
	productA = "2f5b0c1a-9d3e-4b6f-8a70-1c2d3e4f5a6b"
	productB = "7a1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9"
	customer = "b1e2d3c4-f5a6-4788-99aa-bbccddeeff00"
)

func newCartEngine() (*CartEngine, *fakeCartStore) {
	store := newFakeCartStore()
	products := &fakeProducts{products: map[string]models.ProductSummary{
		productA: {ID: productA, Title: "Clavier mécanique", Price: 89.9, SellerID: "s1"},
		productB: {ID: productB, Title: "Souris sans fil", Price: 34.5, SellerID: "s2"},
	}}
	return NewCartEngine(store, products), store
}

// --- Tests ---

func TestCartAdd_MergesSameProduct(t *testing.T) {
	engine, _ := newCartEngine()
	ctx := context.Background()

	_, err := engine.Add(ctx, customer, productA, 2)
	require.NoError(t, err)

	view, err := engine.Add(ctx, customer, productA, 3)
	require.NoError(t, err)

	// Une seule ligne, quantités fusionnées
	require.Len(t, view.Products, 1)
	assert.Equal(t, 5, view.Products[0].Quantity)
	assert.Equal(t, "Clavier mécanique", view.Products[0].Title)
	assert.Equal(t, 89.9, view.Products[0].Price)
}

func TestCartAdd_AppendsDistinctProduct(t *testing.T) {
	engine, _ := newCartEngine()
	ctx := context.Background()

	_, err := engine.Add(ctx, customer, productA, 1)
	require.NoError(t, err)
	view, err := engine.Add(ctx, customer, productB, 2)
	require.NoError(t, err)

	require.Len(t, view.Products, 2)
}

func TestCartAdd_Validation(t *testing.T) {
	engine, store := newCartEngine()
	ctx := context.Background()

	_, err := engine.Add(ctx, customer, "pas-un-uuid", 1)
	assert.True(t, apperr.IsKind(err, apperr.Invalid))

	_, err = engine.Add(ctx, customer, productA, 0)
	assert.True(t, apperr.IsKind(err, apperr.Invalid))

	// Produit bien formé mais inconnu du catalogue
	_, err = engine.Add(ctx, customer, "00000000-0000-4000-8000-000000000000", 1)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))

	// Rien ne doit avoir été persisté
	assert.Empty(t, store.carts)
}

func TestCartGet_NoCartIsEmptyCart(t *testing.T) {
	engine, _ := newCartEngine()

	view, err := engine.Get(context.Background(), customer)
	require.NoError(t, err)
	assert.Empty(t, view.Products)
	assert.Equal(t, customer, view.CustomerID)
}

func TestCartUpdateQuantity_SetsAbsoluteValue(t *testing.T) {
	engine, _ := newCartEngine()
	ctx := context.Background()

	_, err := engine.Add(ctx, customer, productA, 2)
	require.NoError(t, err)

	view, err := engine.UpdateQuantity(ctx, customer, productA, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, view.Products[0].Quantity)
}

func TestCartUpdateQuantity_MissingLineLeavesCartUnchanged(t *testing.T) {
	engine, store := newCartEngine()
	ctx := context.Background()

	_, err := engine.Add(ctx, customer, productA, 2)
	require.NoError(t, err)

	_, err = engine.UpdateQuantity(ctx, customer, productB, 3)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))

	cart := store.carts[customer]
	require.Len(t, cart.Products, 1)
	assert.Equal(t, 2, cart.Products[0].Quantity)
}

func TestCartUpdateQuantity_NoCart(t *testing.T) {
	engine, _ := newCartEngine()

	_, err := engine.UpdateQuantity(context.Background(), customer, productA, 3)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestCartUpdateQuantity_RejectsBelowOne(t *testing.T) {
	engine, _ := newCartEngine()
	ctx := context.Background()

	_, err := engine.Add(ctx, customer, productA, 2)
	require.NoError(t, err)

	_, err = engine.UpdateQuantity(ctx, customer, productA, 0)
	assert.True(t, apperr.IsKind(err, apperr.Invalid))
	_, err = engine.UpdateQuantity(ctx, customer, productA, -4)
	assert.True(t, apperr.IsKind(err, apperr.Invalid))
}

func TestCartRemove_AbsentLineIsNoOp(t *testing.T) {
	engine, _ := newCartEngine()
	ctx := context.Background()

	_, err := engine.Add(ctx, customer, productA, 2)
	require.NoError(t, err)

	view, err := engine.Remove(ctx, customer, productB)
	require.NoError(t, err)
	require.Len(t, view.Products, 1)
	assert.Equal(t, productA, view.Products[0].ProductID)
}

func TestCartRemove_DropsLine(t *testing.T) {
	engine, _ := newCartEngine()
	ctx := context.Background()

	_, err := engine.Add(ctx, customer, productA, 2)
	require.NoError(t, err)
	_, err = engine.Add(ctx, customer, productB, 1)
	require.NoError(t, err)

	view, err := engine.Remove(ctx, customer, productA)
	require.NoError(t, err)
	require.Len(t, view.Products, 1)
	assert.Equal(t, productB, view.Products[0].ProductID)
}

func TestCartClear_ThenGetReturnsEmptyCart(t *testing.T) {
	engine, _ := newCartEngine()
	ctx := context.Background()

	_, err := engine.Add(ctx, customer, productA, 2)
	require.NoError(t, err)

	require.NoError(t, engine.Clear(ctx, customer))

	// Le document subsiste : Get renvoie un panier vide, pas une erreur
	view, err := engine.Get(ctx, customer)
	require.NoError(t, err)
	assert.Empty(t, view.Products)
}

func TestCartClear_NoCart(t *testing.T) {
	engine, _ := newCartEngine()

	err := engine.Clear(context.Background(), customer)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestCartExpand_DanglingProductKeepsLine(t *testing.T) {
	engine, store := newCartEngine()
	ctx := context.Background()

	_, err := engine.Add(ctx, customer, productA, 2)
	require.NoError(t, err)

	// Le produit disparaît du catalogue après l'ajout
	products := engine.products.(*fakeProducts)
	delete(products.products, productA)

	view, err := engine.Get(ctx, customer)
	require.NoError(t, err)
	require.Len(t, view.Products, 1)
	assert.Equal(t, productA, view.Products[0].ProductID)
	assert.Empty(t, view.Products[0].Title)

	_ = store
}
