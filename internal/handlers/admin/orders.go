package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"bazario_back_end/internal/database"
	"bazario_back_end/internal/handlers"
	"bazario_back_end/internal/middleware"
	"bazario_back_end/internal/models"
	"bazario_back_end/internal/utils"
)

// GET /api/admin/orders : un vendeur ne voit que les items de ses
// produits, un admin voit tout
func GetOrdersForStaff(c *gin.Context) {
	orders, err := handlers.Orders().ListForViewer(c.Request.Context(), middleware.CurrentViewer(c))
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GET /api/admin/orders/:id
func GetOrderByID(c *gin.Context) {
	view, err := handlers.Orders().GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// PUT /api/admin/orders/:id/status
func UpdateOrderStatus(c *gin.Context) {
	var input struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	order, err := handlers.Orders().UpdateStatus(c.Request.Context(), c.Param("id"), input.Status)
	if err != nil {
		handlers.Error(c, err)
		return
	}

	// Notifier le client en temps réel via son canal pub/sub
	event := models.OrderEvent{
		Type:    "order_status_updated",
		OrderID: order.ID,
		Status:  order.Status,
	}
	if payload, err := json.Marshal(event); err == nil {
		if err := database.Redis.Publish(context.Background(), "orders:"+order.CustomerID, payload).Err(); err != nil {
			log.Printf("⚠️ Notification statut non publiée pour %s: %v", order.ID, err)
		}
	}

	c.JSON(http.StatusOK, order)
}

// GET /api/admin/orders/:id/invoice : facture PDF rendue par Chrome
// headless
func OrderInvoicePDF(c *gin.Context) {
	view, err := handlers.Orders().GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	pdf, err := utils.RenderInvoicePDF(*view)
	if err != nil {
		log.Printf("❌ Erreur génération PDF pour %s: %v", view.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération facture"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="facture_%s.pdf"`, view.ID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// GET /api/admin/orders/:id/qr : QR de suivi en PNG
func OrderQR(c *gin.Context) {
	view, err := handlers.Orders().GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handlers.Error(c, err)
		return
	}

	png, err := utils.GenerateOrderQR(fmt.Sprintf("order:%s;status:%s", view.ID, view.Status))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération QR"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
