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
	"bazario_back_end/internal/models"
)

// GET /api/categories
func GetAllCategories(c *gin.Context) {
	ctx := context.Background()
	cacheKey := "categories:all"

	if val, err := database.Redis.Get(ctx, cacheKey).Result(); err == nil && val != "" {
		var cached []models.Category
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

	iter := session.Query(`SELECT category_id, name, created_at FROM categories`).Iter()

	categories := []models.Category{}
	var cat models.Category
	for iter.Scan(&cat.ID, &cat.Name, &cat.CreatedAt) {
		categories = append(categories, cat)
		cat = models.Category{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture catégories: " + err.Error()})
		return
	}

	if data, err := json.Marshal(categories); err == nil {
		database.Redis.Set(ctx, cacheKey, data, time.Hour)
	}

	c.JSON(http.StatusOK, categories)
}

// POST /api/categories : admin
func CreateCategory(c *gin.Context) {
	var input struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le champ 'name' est obligatoire"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	now := time.Now().UTC()
	cat := models.Category{
		ID:        gocql.TimeUUID(),
		Name:      strings.TrimSpace(input.Name),
		CreatedAt: &now,
	}

	if err := session.Query(`INSERT INTO categories (category_id, name, created_at) VALUES (?, ?, ?)`,
		cat.ID, cat.Name, cat.CreatedAt).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création catégorie: " + err.Error()})
		return
	}

	cache.InvalidateCategory(cat.ID.String())
	c.JSON(http.StatusCreated, cat)
}

// PUT /api/categories/:id : admin
func UpdateCategory(c *gin.Context) {
	categoryUUID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID catégorie invalide"})
		return
	}

	var input struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le champ 'name' est obligatoire"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var existing string
	if err := session.Query(`SELECT name FROM categories WHERE category_id = ?`, categoryUUID).Scan(&existing); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Catégorie introuvable"})
		return
	}

	if err := session.Query(`UPDATE categories SET name = ? WHERE category_id = ?`,
		strings.TrimSpace(input.Name), categoryUUID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour catégorie: " + err.Error()})
		return
	}

	cache.InvalidateCategory(categoryUUID.String())
	c.JSON(http.StatusOK, gin.H{"message": "Catégorie mise à jour"})
}

// DELETE /api/categories/:id : admin. Les produits qui pointent encore
// vers la catégorie ne sont pas touchés : leur category_name s'affiche
// vide tant qu'ils ne sont pas réassignés.
func DeleteCategory(c *gin.Context) {
	categoryUUID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID catégorie invalide"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var existing string
	if err := session.Query(`SELECT name FROM categories WHERE category_id = ?`, categoryUUID).Scan(&existing); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Catégorie introuvable"})
		return
	}

	if err := session.Query(`DELETE FROM categories WHERE category_id = ?`, categoryUUID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression catégorie: " + err.Error()})
		return
	}

	cache.InvalidateCategory(categoryUUID.String())
	c.JSON(http.StatusOK, gin.H{"message": "Catégorie supprimée"})
}
