package product

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"bazario_back_end/internal/cache"
	"bazario_back_end/internal/database"
	"bazario_back_end/internal/services"
)

// POST /api/products/:id/image : ajoute une image au produit via MinIO
func UploadProductImage(c *gin.Context) {
	productUUID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier 'image' manquant"})
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

	url, err := services.UploadProductImage(c.Request.Context(), file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload image: " + err.Error()})
		return
	}

	p.ImageURLs = append(p.ImageURLs, url)
	now := time.Now().UTC()
	if err := session.Query(`UPDATE products SET image_urls = ?, updated_at = ? WHERE product_id = ?`,
		p.ImageURLs, now, p.ID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour produit: " + err.Error()})
		return
	}

	cache.InvalidateProduct(p.ID.String())
	go services.IndexProduct(p)

	c.JSON(http.StatusOK, gin.H{"url": url, "images": p.ImageURLs})
}

// GET /api/products/:id/image-url : URL signée de la première image
func GetSignedImageURL(c *gin.Context) {
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

	if len(p.ImageURLs) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit sans image"})
		return
	}

	signedURL, err := services.GenerateSignedURL(c.Request.Context(), p.ImageURLs[0], 24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération URL signée"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": signedURL})
}
