package user

import (
	"log"
	"net/http"
	"strings"
	"time"

	"bazario_back_end/internal/database"
	"bazario_back_end/internal/models"
	"bazario_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// Register crée un compte avec le rôle customer. Les vendeurs sont
// promus par un admin via PUT /api/admin/users/:id/role.
func Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Email == "" || input.Password == "" || input.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nom, email et mot de passe requis"})
		return
	}

	// L'email sert de clé d'unicité via la table users_by_email
	var existingID gocql.UUID
	err := database.GetPreparedGetUserByEmail().Bind(input.Email).Scan(&existingID)
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email déjà utilisé"})
		return
	}
	if err != gocql.ErrNotFound {
		log.Printf("❌ Erreur lookup email: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	userID := gocql.TimeUUID()
	now := time.Now().UTC()

	if err := database.GetPreparedInsertUser().
		Bind(userID, input.Email, hash, input.Name, models.RoleCustomer, now).Exec(); err != nil {
		log.Printf("❌ Erreur insertion utilisateur: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}
	if err := database.GetPreparedInsertUserByEmail().Bind(input.Email, userID).Exec(); err != nil {
		log.Printf("❌ Erreur insertion users_by_email: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	user := models.User{
		ID:        userID.String(),
		Name:      input.Name,
		Email:     input.Email,
		Role:      models.RoleCustomer,
		CreatedAt: &now,
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	log.Printf("✅ Nouvel utilisateur inscrit: %s", input.Email)
	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

// Login vérifie le mot de passe et renvoie un JWT de 24h
func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	var userID gocql.UUID
	if err := database.GetPreparedGetUserByEmail().Bind(input.Email).Scan(&userID); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	var (
		email, password, name, role string
		createdAt                   time.Time
	)
	if err := database.GetPreparedGetUserByID().Bind(userID).
		Scan(&email, &password, &name, &role, &createdAt); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	ok, err := utils.VerifyPassword(input.Password, password)
	if err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	user := models.User{
		ID:        userID.String(),
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: &createdAt,
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}
