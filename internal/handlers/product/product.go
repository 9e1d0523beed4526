package product

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"bazario_back_end/internal/cache"
	"bazario_back_end/internal/database"
	"bazario_back_end/internal/middleware"
	"bazario_back_end/internal/models"
	"bazario_back_end/internal/services"
)

const productColumns = `product_id, title, description, price, stock, category_id, seller_id, image_urls, created_at, updated_at`

func scanProduct(q *gocql.Query) (models.Product, error) {
	var p models.Product
	err := q.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.Stock,
		&p.CategoryID, &p.SellerID, &p.ImageURLs, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func iterProducts(iter *gocql.Iter, keep func(models.Product) bool) ([]models.Product, error) {
	products := []models.Product{}
	var p models.Product
	for iter.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.Stock,
		&p.CategoryID, &p.SellerID, &p.ImageURLs, &p.CreatedAt, &p.UpdatedAt) {
		if keep == nil || keep(p) {
			products = append(products, p)
		}
		p = models.Product{} // Reset pour la prochaine itération
	}
	return products, iter.Close()
}

// GET /api/products
func GetAllProducts(c *gin.Context) {
	ctx := context.Background()
	cacheKey := "products:all"

	// Vérifie le cache Redis
	if val, err := database.Redis.Get(ctx, cacheKey).Result(); err == nil && val != "" {
		var cached []models.Product
		if err := json.Unmarshal([]byte(val), &cached); err == nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT ` + productColumns + ` FROM products`).Iter()
	products, err := iterProducts(iter, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produits: " + err.Error()})
		return
	}

	if data, err := json.Marshal(products); err == nil {
		database.Redis.Set(ctx, cacheKey, data, time.Hour)
	}

	c.JSON(http.StatusOK, products)
}

// GET /api/products/:id
func GetProduct(c *gin.Context) {
	productUUID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	p, err := scanProduct(session.Query(`SELECT `+productColumns+` FROM products WHERE product_id = ?`, productUUID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// POST /api/products : réservé seller/admin. Un vendeur devient
// propriétaire du produit qu'il crée ; un admin peut créer pour un
// vendeur en passant seller_id.
func CreateProduct(c *gin.Context) {
	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if strings.TrimSpace(p.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le champ 'title' est obligatoire"})
		return
	}
	if p.Price < 0 || p.Stock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prix et stock doivent être positifs"})
		return
	}
	if p.CategoryID == (gocql.UUID{}) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le champ 'category_id' est obligatoire"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// La catégorie doit exister au moment de la création
	var categoryName string
	if err := session.Query(`SELECT name FROM categories WHERE category_id = ?`, p.CategoryID).Scan(&categoryName); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Catégorie introuvable"})
		return
	}

	viewer := middleware.CurrentViewer(c)
	if viewer.IsSeller() || p.SellerID == nil {
		sellerUUID, err := gocql.ParseUUID(viewer.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
			return
		}
		p.SellerID = &sellerUUID
	}

	p.ID = gocql.TimeUUID()
	now := time.Now().UTC()
	p.CreatedAt = &now
	p.UpdatedAt = &now
	if p.ImageURLs == nil {
		p.ImageURLs = []string{}
	}

	if err := session.Query(`INSERT INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Description, p.Price, p.Stock, p.CategoryID, p.SellerID, p.ImageURLs, p.CreatedAt, p.UpdatedAt).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création produit: " + err.Error()})
		return
	}

	cache.InvalidateProduct(p.ID.String())
	go services.IndexProduct(p)

	c.JSON(http.StatusCreated, p)
}

// PUT /api/products/:id : mise à jour partielle, seuls les champs
// présents dans le JSON sont modifiés
func UpdateProduct(c *gin.Context) {
	productUUID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	var input struct {
		Title       *string   `json:"title"`
		Description *string   `json:"description"`
		Price       *float64  `json:"price"`
		Stock       *int      `json:"stock"`
		CategoryID  *string   `json:"category_id"`
		ImageURLs   *[]string `json:"images"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	p, err := scanProduct(session.Query(`SELECT `+productColumns+` FROM products WHERE product_id = ?`, productUUID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	if !ownsProduct(c, p) {
		return
	}

	if input.Title != nil {
		p.Title = *input.Title
	}
	if input.Description != nil {
		p.Description = *input.Description
	}
	if input.Price != nil {
		if *input.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Prix invalide"})
			return
		}
		p.Price = *input.Price
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Stock invalide"})
			return
		}
		p.Stock = *input.Stock
	}
	if input.CategoryID != nil {
		categoryUUID, err := gocql.ParseUUID(*input.CategoryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID catégorie invalide"})
			return
		}
		var categoryName string
		if err := session.Query(`SELECT name FROM categories WHERE category_id = ?`, categoryUUID).Scan(&categoryName); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Catégorie introuvable"})
			return
		}
		p.CategoryID = categoryUUID
	}
	if input.ImageURLs != nil {
		p.ImageURLs = *input.ImageURLs
	}

	now := time.Now().UTC()
	p.UpdatedAt = &now

	if err := session.Query(`UPDATE products SET title = ?, description = ?, price = ?, stock = ?,
		category_id = ?, image_urls = ?, updated_at = ? WHERE product_id = ?`,
		p.Title, p.Description, p.Price, p.Stock, p.CategoryID, p.ImageURLs, p.UpdatedAt, p.ID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour produit: " + err.Error()})
		return
	}

	cache.InvalidateProduct(p.ID.String())
	go services.IndexProduct(p)

	c.JSON(http.StatusOK, p)
}

// DELETE /api/products/:id
func DeleteProduct(c *gin.Context) {
	productUUID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	p, err := scanProduct(session.Query(`SELECT `+productColumns+` FROM products WHERE product_id = ?`, productUUID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	if !ownsProduct(c, p) {
		return
	}

	if err := session.Query(`DELETE FROM products WHERE product_id = ?`, productUUID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression produit: " + err.Error()})
		return
	}

	// Les lignes de panier et items de commande qui référencent ce
	// produit restent en place : les lectures tolèrent la référence
	// pendante
	cache.InvalidateProduct(p.ID.String())
	go services.RemoveProductFromIndex(p.ID.String())

	c.JSON(http.StatusOK, gin.H{"message": "Produit supprimé"})
}

// SearchProducts passe par Elasticsearch, avec repli sur un scan
// ScyllaDB filtré en mémoire si l'index est vide ou indisponible
func SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paramètre 'q' manquant"})
		return
	}

	results, err := services.SearchProducts(query)
	if err == nil && len(results) > 0 {
		c.JSON(http.StatusOK, results)
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT ` + productColumns + ` FROM products`).Iter()
	products, err := iterProducts(iter, func(p models.Product) bool {
		return containsIgnoreCase(p.Title, query) || containsIgnoreCase(p.Description, query)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur recherche: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, products)
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// ownsProduct autorise l'admin partout et le vendeur sur ses seuls
// produits. Écrit la réponse 403 lui-même.
func ownsProduct(c *gin.Context, p models.Product) bool {
	viewer := middleware.CurrentViewer(c)
	if viewer.IsAdmin() {
		return true
	}
	if p.SellerID != nil && p.SellerID.String() == viewer.ID {
		return true
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "Ce produit appartient à un autre vendeur"})
	return false
}
