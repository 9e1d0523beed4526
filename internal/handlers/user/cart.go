package user

import (
	"net/http"

	"bazario_back_end/internal/handlers"

	"github.com/gin-gonic/gin"
)

// Les handlers panier sont de simples adaptateurs HTTP : toute la
// logique (fusion, validation, accès concurrent) vit dans le moteur.

// POST /api/cart
func AddToCart(c *gin.Context) {
	var input struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	view, err := handlers.Carts().Add(c.Request.Context(), c.GetString("user_id"), input.ProductID, input.Quantity)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GET /api/cart
func GetCart(c *gin.Context) {
	view, err := handlers.Carts().Get(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// PUT /api/cart/:productId
func UpdateCartQuantity(c *gin.Context) {
	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	view, err := handlers.Carts().UpdateQuantity(c.Request.Context(), c.GetString("user_id"), c.Param("productId"), input.Quantity)
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DELETE /api/cart/:productId
func RemoveFromCart(c *gin.Context) {
	view, err := handlers.Carts().Remove(c.Request.Context(), c.GetString("user_id"), c.Param("productId"))
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DELETE /api/cart/clear
func ClearCart(c *gin.Context) {
	if err := handlers.Carts().Clear(c.Request.Context(), c.GetString("user_id")); err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Panier vidé"})
}
