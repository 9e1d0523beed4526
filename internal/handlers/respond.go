package handlers

import (
	"log"
	"net/http"

	"bazario_back_end/internal/apperr"

	"github.com/gin-gonic/gin"
)

// Error traduit les erreurs des moteurs en réponse HTTP. Tout ce qui
// n'est pas une erreur métier typée devient un 500 générique, le détail
// part dans les logs.
func Error(c *gin.Context, err error) {
	switch apperr.KindOf(err) {
	case apperr.Invalid:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case apperr.NotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperr.Forbidden:
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		log.Printf("❌ Erreur interne sur %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
	}
}
