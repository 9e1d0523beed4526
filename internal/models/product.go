package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Product struct {
	ID          gocql.UUID  `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Price       float64     `json:"price"`
	Stock       int         `json:"stock"`
	ImageURLs   []string    `json:"images"`
	CategoryID  gocql.UUID  `json:"category_id"`
	SellerID    *gocql.UUID `json:"seller_id,omitempty"`
	CreatedAt   *time.Time  `json:"created_at,omitempty"`
	UpdatedAt   *time.Time  `json:"updated_at,omitempty"`
}

// ProductSummary est la projection produit consommée par les moteurs
// panier et commande (affichage + scoping vendeur).
type ProductSummary struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Price        float64  `json:"price"`
	ImageURLs    []string `json:"images"`
	SellerID     string   `json:"seller_id,omitempty"`
	CategoryName string   `json:"category_name,omitempty"`
}
