package user

import (
	"context"
	"log"
	"net/http"

	"bazario_back_end/internal/handlers"
	"bazario_back_end/internal/middleware"
	"bazario_back_end/internal/models"
	"bazario_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

// POST /api/orders
// Le client envoie l'instantané de son panier : items avec prix figés
// et total, tels qu'affichés au moment du checkout.
func CreateOrder(c *gin.Context) {
	var input struct {
		Items       []models.OrderItem `json:"items"`
		TotalAmount float64            `json:"totalAmount"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	userID := c.GetString("user_id")
	order, err := handlers.Orders().Create(c.Request.Context(), userID, input.Items, input.TotalAmount)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	// Confirmation par e-mail hors requête
	if email := c.GetString("email"); email != "" {
		go func(orderID, to string) {
			view, err := handlers.Orders().GetByID(context.Background(), orderID)
			if err != nil {
				log.Printf("⚠️ Détail commande %s indisponible pour l'e-mail: %v", orderID, err)
				return
			}
			if err := utils.SendOrderConfirmation(to, *view); err != nil {
				log.Printf("⚠️ E-mail de confirmation non envoyé pour %s: %v", orderID, err)
			}
		}(order.ID, email)
	}

	c.JSON(http.StatusCreated, order)
}

// GET /api/orders
func GetMyOrders(c *gin.Context) {
	orders, err := handlers.Orders().ListForViewer(c.Request.Context(), middleware.CurrentViewer(c))
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}
