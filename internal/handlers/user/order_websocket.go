package user

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"bazario_back_end/internal/database"
	"bazario_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Autoriser toutes les origines (à ajuster en production)
		return true
	},
}

// OrderWebSocket pousse les changements de statut de commande au client
// en temps réel. Les événements arrivent via Redis pub/sub, publiés par
// le handler staff de mise à jour de statut.
func OrderWebSocket(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	ctx := context.Background()

	// S'abonner au canal des commandes de ce client
	pubsub := database.Redis.Subscribe(ctx, "orders:"+userID)
	defer pubsub.Close()

	ch := pubsub.Channel()

	conn.WriteJSON(map[string]interface{}{
		"type":    "connected",
		"message": "Suivi de commandes activé",
	})

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}

			var event models.OrderEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("⚠️ Événement commande illisible: %v", err)
				continue
			}

			if err := conn.WriteJSON(event); err != nil {
				log.Printf("❌ Erreur envoi WebSocket: %v", err)
				return
			}
		case <-time.After(30 * time.Second):
			// Ping pour garder la connexion active
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
