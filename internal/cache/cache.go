package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"bazario_back_end/internal/database"
	"bazario_back_end/internal/models"

	"github.com/gocql/gocql"
)

const (
	UserCacheTTL    = 5 * time.Minute
	ProductCacheTTL = 10 * time.Minute
)

// ProductDirectory sert les projections produit aux moteurs panier et
// commande : lecture Redis d'abord, ScyllaDB ensuite, mise en cache au
// retour. Un produit absent donne (nil, nil), jamais une erreur.
type ProductDirectory struct{}

func NewProductDirectory() *ProductDirectory {
	return &ProductDirectory{}
}

func productSummaryKey(productID string) string {
	return "product:summary:" + productID
}

func (d *ProductDirectory) Summary(ctx context.Context, productID string) (*models.ProductSummary, error) {
	// 1. Essayer le cache Redis
	if data, err := database.Redis.Get(ctx, productSummaryKey(productID)).Result(); err == nil {
		var summary models.ProductSummary
		if json.Unmarshal([]byte(data), &summary) == nil {
			return &summary, nil
		}
	}

	// 2. Récupérer de ScyllaDB
	session, err := database.GetCatalogSession()
	if err != nil {
		return nil, err
	}

	productUUID, err := gocql.ParseUUID(productID)
	if err != nil {
		return nil, nil
	}

	var (
		title      string
		price      float64
		imageURLs  []string
		sellerID   *gocql.UUID
		categoryID gocql.UUID
	)

	err = session.Query(`SELECT title, price, image_urls, seller_id, category_id
		FROM products WHERE product_id = ?`, productUUID).
		WithContext(ctx).Scan(&title, &price, &imageURLs, &sellerID, &categoryID)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	summary := models.ProductSummary{
		ID:        productID,
		Title:     title,
		Price:     price,
		ImageURLs: imageURLs,
	}
	if sellerID != nil {
		summary.SellerID = sellerID.String()
	}
	// Référence catégorie possiblement pendante, le nom reste vide dans ce cas
	summary.CategoryName = categoryName(ctx, categoryID)

	// 3. Mettre en cache
	if jsonData, err := json.Marshal(summary); err == nil {
		database.Redis.Set(ctx, productSummaryKey(productID), jsonData, ProductCacheTTL)
	}

	return &summary, nil
}

// Summaries résout un lot d'identifiants ; les produits introuvables
// sont simplement absents de la map.
func (d *ProductDirectory) Summaries(ctx context.Context, productIDs []string) (map[string]models.ProductSummary, error) {
	result := make(map[string]models.ProductSummary, len(productIDs))
	for _, productID := range productIDs {
		if _, done := result[productID]; done {
			continue
		}
		summary, err := d.Summary(ctx, productID)
		if err != nil {
			return nil, err
		}
		if summary != nil {
			result[productID] = *summary
		}
	}
	return result, nil
}

func categoryName(ctx context.Context, categoryID gocql.UUID) string {
	key := "category:name:" + categoryID.String()
	if name, err := database.Redis.Get(ctx, key).Result(); err == nil {
		return name
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		return ""
	}

	var name string
	if err := session.Query(`SELECT name FROM categories WHERE category_id = ?`, categoryID).
		WithContext(ctx).Scan(&name); err != nil {
		return ""
	}

	database.Redis.Set(ctx, key, name, ProductCacheTTL)
	return name
}

// InvalidateProduct invalide le cache d'un produit après écriture
func InvalidateProduct(productID string) {
	ctx := context.Background()
	database.Redis.Del(ctx, productSummaryKey(productID), "products:all")
}

// InvalidateCategory invalide le cache d'une catégorie après écriture
func InvalidateCategory(categoryID string) {
	ctx := context.Background()
	database.Redis.Del(ctx, "category:name:"+categoryID, "categories:all")
}

// UserDirectory résout les clients référencés par les commandes.
type UserDirectory struct{}

func NewUserDirectory() *UserDirectory {
	return &UserDirectory{}
}

func (d *UserDirectory) Summary(ctx context.Context, userID string) (*models.UserSummary, error) {
	key := "user:summary:" + userID

	if data, err := database.Redis.Get(ctx, key).Result(); err == nil {
		var summary models.UserSummary
		if json.Unmarshal([]byte(data), &summary) == nil {
			return &summary, nil
		}
	}

	session, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}

	userUUID, err := gocql.ParseUUID(userID)
	if err != nil {
		return nil, nil
	}

	var name, email string
	err = session.Query(`SELECT name, email FROM users WHERE user_id = ?`, userUUID).
		WithContext(ctx).Scan(&name, &email)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	summary := models.UserSummary{ID: userID, Name: name, Email: email}
	if jsonData, err := json.Marshal(summary); err == nil {
		database.Redis.Set(ctx, key, jsonData, UserCacheTTL)
	}
	return &summary, nil
}

// InvalidateUser invalide le cache d'un utilisateur
func InvalidateUser(userID string) {
	ctx := context.Background()
	database.Redis.Del(ctx, "user:summary:"+userID)
}
