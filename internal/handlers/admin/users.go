package admin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"bazario_back_end/internal/cache"
	"bazario_back_end/internal/database"
	"bazario_back_end/internal/models"
)

// GET /api/admin/users
func GetAllUsers(c *gin.Context) {
	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT user_id, email, name, role, created_at FROM users`).Iter()

	users := []models.User{}
	var (
		userID    gocql.UUID
		email     string
		name      string
		role      string
		createdAt time.Time
	)
	for iter.Scan(&userID, &email, &name, &role, &createdAt) {
		created := createdAt
		users = append(users, models.User{
			ID:        userID.String(),
			Email:     email,
			Name:      name,
			Role:      role,
			CreatedAt: &created,
		})
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture utilisateurs: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, users)
}

// GET /api/admin/users/:id
func GetUser(c *gin.Context) {
	userUUID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID utilisateur invalide"})
		return
	}

	var (
		email, password, name, role string
		createdAt                   time.Time
	)
	if err := database.GetPreparedGetUserByID().Bind(userUUID).
		Scan(&email, &password, &name, &role, &createdAt); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	c.JSON(http.StatusOK, models.User{
		ID:        userUUID.String(),
		Email:     email,
		Name:      name,
		Role:      role,
		CreatedAt: &createdAt,
	})
}

// PUT /api/admin/users/:id/role : promotion customer/seller/admin
func UpdateUserRole(c *gin.Context) {
	userUUID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID utilisateur invalide"})
		return
	}

	var input struct {
		Role string `json:"role"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if !models.IsValidRole(input.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rôle invalide: " + input.Role})
		return
	}

	var (
		email, password, name, role string
		createdAt                   time.Time
	)
	if err := database.GetPreparedGetUserByID().Bind(userUUID).
		Scan(&email, &password, &name, &role, &createdAt); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	if err := database.GetPreparedUpdateUserRole().Bind(input.Role, userUUID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour rôle: " + err.Error()})
		return
	}

	cache.InvalidateUser(userUUID.String())
	c.JSON(http.StatusOK, gin.H{"message": "Rôle mis à jour", "role": input.Role})
}

// DELETE /api/admin/users/:id : les commandes de l'utilisateur restent
// en base, seul le compte disparaît
func DeleteUser(c *gin.Context) {
	userUUID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID utilisateur invalide"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var (
		email, password, name, role string
		createdAt                   time.Time
	)
	if err := database.GetPreparedGetUserByID().Bind(userUUID).
		Scan(&email, &password, &name, &role, &createdAt); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	if err := session.Query(`DELETE FROM users WHERE user_id = ?`, userUUID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression utilisateur: " + err.Error()})
		return
	}
	if err := session.Query(`DELETE FROM users_by_email WHERE email = ?`, email).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression users_by_email: " + err.Error()})
		return
	}

	cache.InvalidateUser(userUUID.String())
	c.JSON(http.StatusOK, gin.H{"message": "Utilisateur supprimé"})
}
