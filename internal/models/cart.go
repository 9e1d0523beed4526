package models

// Cart est le document panier tel que stocké : une entrée au plus
// par produit (fusion à l'ajout).
type Cart struct {
	CustomerID string     `json:"customer_id"`
	Products   []CartLine `json:"products"`
}

type CartLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CartView est le panier renvoyé au client, lignes enrichies
// avec titre/prix/images du produit référencé.
type CartView struct {
	CustomerID string         `json:"customer_id"`
	Products   []CartLineView `json:"products"`
}

type CartLineView struct {
	ProductID string   `json:"product_id"`
	Title     string   `json:"title"`
	Price     float64  `json:"price"`
	ImageURLs []string `json:"images"`
	Quantity  int      `json:"quantity"`
}
