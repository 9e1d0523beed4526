// Package services contient les moteurs panier et commande : toute la
// logique métier, sans rien savoir du transport HTTP. Les handlers se
// contentent de traduire la taxonomie d'erreurs en codes de statut.
package services

import (
	"context"

	"bazario_back_end/internal/apperr"
	"bazario_back_end/internal/models"

	"github.com/google/uuid"
)

// CartStore est le document panier persistant (implémentation Redis
// dans internal/database). Get renvoie (nil, nil) quand aucun document
// n'existe ; Mutate applique fn atomiquement et renvoie (nil, nil) si
// le document n'existe pas et que create est faux.
type CartStore interface {
	Get(ctx context.Context, customerID string) (*models.Cart, error)
	Mutate(ctx context.Context, customerID string, create bool,
		fn func([]models.CartLine) ([]models.CartLine, error)) (*models.Cart, error)
}

// ProductLookup résout les produits référencés par les lignes.
// Un produit absent donne (nil, nil) / une map sans l'entrée.
type ProductLookup interface {
	Summary(ctx context.Context, productID string) (*models.ProductSummary, error)
	Summaries(ctx context.Context, productIDs []string) (map[string]models.ProductSummary, error)
}

// CartEngine maintient l'unique panier actif de chaque client.
type CartEngine struct {
	store    CartStore
	products ProductLookup
}

func NewCartEngine(store CartStore, products ProductLookup) *CartEngine {
	return &CartEngine{store: store, products: products}
}

// Add fusionne la quantité sur la ligne existante du produit (l'ajout
// est additif, pas une affectation) ou ajoute une nouvelle ligne.
// Le document est créé paresseusement au premier ajout.
func (e *CartEngine) Add(ctx context.Context, customerID, productID string, quantity int) (*models.CartView, error) {
	if _, err := uuid.Parse(productID); err != nil {
		return nil, apperr.Invalidf("productId invalide")
	}
	if quantity < 1 {
		return nil, apperr.Invalidf("quantité invalide")
	}

	product, err := e.products.Summary(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperr.NotFoundf("produit introuvable")
	}

	cart, err := e.store.Mutate(ctx, customerID, true, func(lines []models.CartLine) ([]models.CartLine, error) {
		for i := range lines {
			if lines[i].ProductID == productID {
				lines[i].Quantity += quantity
				return lines, nil
			}
		}
		return append(lines, models.CartLine{ProductID: productID, Quantity: quantity}), nil
	})
	if err != nil {
		return nil, err
	}

	return e.expand(ctx, cart)
}

// Get renvoie le panier enrichi. Un client sans document panier reçoit
// un panier vide, pas une erreur.
func (e *CartEngine) Get(ctx context.Context, customerID string) (*models.CartView, error) {
	cart, err := e.store.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return &models.CartView{CustomerID: customerID, Products: []models.CartLineView{}}, nil
	}
	return e.expand(ctx, cart)
}

// UpdateQuantity affecte la quantité de la ligne (affectation, pas
// d'addition : contraste avec Add).
func (e *CartEngine) UpdateQuantity(ctx context.Context, customerID, productID string, quantity int) (*models.CartView, error) {
	if _, err := uuid.Parse(productID); err != nil {
		return nil, apperr.Invalidf("productId invalide")
	}
	if quantity < 1 {
		return nil, apperr.Invalidf("quantité invalide")
	}

	cart, err := e.store.Mutate(ctx, customerID, false, func(lines []models.CartLine) ([]models.CartLine, error) {
		for i := range lines {
			if lines[i].ProductID == productID {
				lines[i].Quantity = quantity
				return lines, nil
			}
		}
		return nil, apperr.NotFoundf("produit absent du panier")
	})
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, apperr.NotFoundf("panier introuvable")
	}

	return e.expand(ctx, cart)
}

// Remove retire la ligne si elle existe. Retirer une ligne absente
// n'est pas une erreur : le panier inchangé est renvoyé.
func (e *CartEngine) Remove(ctx context.Context, customerID, productID string) (*models.CartView, error) {
	if _, err := uuid.Parse(productID); err != nil {
		return nil, apperr.Invalidf("productId invalide")
	}

	cart, err := e.store.Mutate(ctx, customerID, false, func(lines []models.CartLine) ([]models.CartLine, error) {
		kept := lines[:0]
		for _, line := range lines {
			if line.ProductID != productID {
				kept = append(kept, line)
			}
		}
		return kept, nil
	})
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, apperr.NotFoundf("panier introuvable")
	}

	return e.expand(ctx, cart)
}

// Clear vide la liste de lignes ; le document panier subsiste.
func (e *CartEngine) Clear(ctx context.Context, customerID string) error {
	cart, err := e.store.Mutate(ctx, customerID, false, func([]models.CartLine) ([]models.CartLine, error) {
		return []models.CartLine{}, nil
	})
	if err != nil {
		return err
	}
	if cart == nil {
		return apperr.NotFoundf("panier introuvable")
	}
	return nil
}

// expand enrichit chaque ligne avec titre/prix/images. Une référence
// produit pendante (produit supprimé depuis) garde la ligne telle
// quelle, champs produit vides.
func (e *CartEngine) expand(ctx context.Context, cart *models.Cart) (*models.CartView, error) {
	ids := make([]string, 0, len(cart.Products))
	for _, line := range cart.Products {
		ids = append(ids, line.ProductID)
	}

	summaries, err := e.products.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	view := &models.CartView{
		CustomerID: cart.CustomerID,
		Products:   make([]models.CartLineView, 0, len(cart.Products)),
	}
	for _, line := range cart.Products {
		lv := models.CartLineView{ProductID: line.ProductID, Quantity: line.Quantity}
		if summary, ok := summaries[line.ProductID]; ok {
			lv.Title = summary.Title
			lv.Price = summary.Price
			lv.ImageURLs = summary.ImageURLs
		}
		view.Products = append(view.Products, lv)
	}
	return view, nil
}
