package services

import (
	"context"
	"log"
	"time"

	"bazario_back_end/internal/apperr"
	"bazario_back_end/internal/models"

	"github.com/google/uuid"
)

// OrderStore persiste les commandes (implémentation ScyllaDB dans
// internal/database). GetByID renvoie (nil, nil) quand la commande
// n'existe pas ; les listes arrivent déjà triées du plus récent au
// plus ancien.
type OrderStore interface {
	Insert(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, orderID string) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, orderID, status string) error
}

// UserLookup résout le client d'une commande pour le détail.
type UserLookup interface {
	Summary(ctx context.Context, userID string) (*models.UserSummary, error)
}

// OrderEngine convertit un instantané de panier en commande durable et
// gère le cycle de vie du statut.
type OrderEngine struct {
	store    OrderStore
	products ProductLookup
	users    UserLookup
	carts    CartStore
}

func NewOrderEngine(store OrderStore, products ProductLookup, users UserLookup, carts CartStore) *OrderEngine {
	return &OrderEngine{store: store, products: products, users: users, carts: carts}
}

// Create fige les items et le total tels que fournis par le client :
// les prix sont des snapshots, aucun recalcul depuis le catalogue et
// aucun décrément de stock. Le panier est vidé après la persistance
// (action compensatoire : un échec du vidage est journalisé, jamais
// remonté : la commande existe déjà).
func (e *OrderEngine) Create(ctx context.Context, customerID string, items []models.OrderItem, totalAmount float64) (*models.Order, error) {
	if len(items) == 0 {
		return nil, apperr.Invalidf("commande sans items")
	}
	for _, item := range items {
		if _, err := uuid.Parse(item.ProductID); err != nil {
			return nil, apperr.Invalidf("productId invalide: %s", item.ProductID)
		}
		if item.Quantity < 1 {
			return nil, apperr.Invalidf("quantité invalide pour le produit %s", item.ProductID)
		}
	}

	order := &models.Order{
		ID:          uuid.New().String(),
		CustomerID:  customerID,
		Items:       items,
		TotalAmount: totalAmount,
		Status:      models.OrderPending,
		CreatedAt:   time.Now().UTC(),
	}

	if err := e.store.Insert(ctx, order); err != nil {
		return nil, err
	}

	if _, err := e.carts.Mutate(ctx, customerID, false, func([]models.CartLine) ([]models.CartLine, error) {
		return []models.CartLine{}, nil
	}); err != nil {
		log.Printf("⚠️ Commande %s créée mais panier %s non vidé: %v", order.ID, customerID, err)
	}

	return order, nil
}

// ListForViewer applique le scoping par rôle :
//   - customer : ses commandes uniquement ;
//   - seller   : toutes les commandes, items restreints à ses produits,
//     total recalculé sur les items restants, commandes vides écartées ;
//   - admin    : tout, sans filtre.
func (e *OrderEngine) ListForViewer(ctx context.Context, viewer models.Viewer) ([]models.Order, error) {
	if viewer.Role == models.RoleCustomer {
		orders, err := e.store.ListByCustomer(ctx, viewer.ID)
		if err != nil {
			return nil, err
		}
		if orders == nil {
			orders = []models.Order{}
		}
		return orders, nil
	}

	orders, err := e.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	if !viewer.IsSeller() {
		if orders == nil {
			orders = []models.Order{}
		}
		return orders, nil
	}

	summaries, err := e.summariesFor(ctx, orders)
	if err != nil {
		return nil, err
	}

	scoped := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		var items []models.OrderItem
		total := 0.0
		for _, item := range order.Items {
			summary, ok := summaries[item.ProductID]
			if !ok || summary.SellerID != viewer.ID {
				continue
			}
			items = append(items, item)
			total += item.Price * float64(item.Quantity)
		}
		if len(items) == 0 {
			continue
		}
		order.Items = items
		order.TotalAmount = total
		scoped = append(scoped, order)
	}
	return scoped, nil
}

// GetByID enrichit la commande avec le client et le détail produit /
// catégorie. Pas de contrôle de propriété ici : la route staff fait foi.
func (e *OrderEngine) GetByID(ctx context.Context, orderID string) (*models.OrderView, error) {
	order, err := e.store.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperr.NotFoundf("commande introuvable")
	}

	view := &models.OrderView{Order: *order}

	customer, err := e.users.Summary(ctx, order.CustomerID)
	if err != nil {
		return nil, err
	}
	view.Customer = customer

	summaries, err := e.summariesFor(ctx, []models.Order{*order})
	if err != nil {
		return nil, err
	}

	view.Details = make([]models.OrderItemView, 0, len(order.Items))
	for _, item := range order.Items {
		iv := models.OrderItemView{OrderItem: item}
		if summary, ok := summaries[item.ProductID]; ok {
			iv.Title = summary.Title
			iv.CategoryName = summary.CategoryName
			iv.SellerID = summary.SellerID
		}
		view.Details = append(view.Details, iv)
	}
	return view, nil
}

// UpdateStatus écrase le statut sans graphe de transitions : tout
// statut de l'énumération peut en remplacer un autre.
func (e *OrderEngine) UpdateStatus(ctx context.Context, orderID, status string) (*models.Order, error) {
	if !models.IsValidOrderStatus(status) {
		return nil, apperr.Invalidf("statut invalide: %s", status)
	}

	order, err := e.store.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperr.NotFoundf("commande introuvable")
	}

	if err := e.store.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, err
	}

	order.Status = status
	return order, nil
}

func (e *OrderEngine) summariesFor(ctx context.Context, orders []models.Order) (map[string]models.ProductSummary, error) {
	var ids []string
	seen := make(map[string]bool)
	for _, order := range orders {
		for _, item := range order.Items {
			if !seen[item.ProductID] {
				seen[item.ProductID] = true
				ids = append(ids, item.ProductID)
			}
		}
	}
	return e.products.Summaries(ctx, ids)
}
