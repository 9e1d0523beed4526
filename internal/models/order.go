package models

import "time"

const (
	OrderPending   = "Pending"
	OrderShipped   = "Shipped"
	OrderDelivered = "Delivered"
	OrderCancelled = "Cancelled"
)

// IsValidOrderStatus vérifie que le statut fait partie de l'énumération.
// Aucun graphe de transition n'est imposé : tout statut valide peut en
// écraser un autre.
func IsValidOrderStatus(status string) bool {
	switch status {
	case OrderPending, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

type Order struct {
	ID          string      `json:"id"`
	CustomerID  string      `json:"customer_id"`
	Items       []OrderItem `json:"items"`
	TotalAmount float64     `json:"total_amount"`
	Status      string      `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
}

// OrderItem fige le prix au moment de la commande (snapshot,
// indépendant du prix catalogue ultérieur).
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// OrderView est la commande enrichie renvoyée sur le détail :
// client + produits/catégories résolus.
type OrderView struct {
	Order
	Customer *UserSummary    `json:"customer,omitempty"`
	Details  []OrderItemView `json:"details,omitempty"`
}

type OrderItemView struct {
	OrderItem
	Title        string `json:"title,omitempty"`
	CategoryName string `json:"category_name,omitempty"`
	SellerID     string `json:"seller_id,omitempty"`
}

// OrderEvent est le message publié aux clients websocket lors
// d'un changement de statut.
type OrderEvent struct {
	Type    string `json:"type"`
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}
