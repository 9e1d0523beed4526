package routes

import (
	"bazario_back_end/internal/handlers/admin"
	"bazario_back_end/internal/handlers/product"
	"bazario_back_end/internal/handlers/user"
	"bazario_back_end/internal/middleware"
	"bazario_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	// Auth
	auth := api.Group("/auth")
	auth.POST("/register", middleware.RegisterRateLimit(), user.Register)
	auth.POST("/login", middleware.LoginRateLimit(), user.Login)

	// Catalogue public
	api.GET("/products", product.GetAllProducts)
	api.GET("/products/search", product.SearchProducts)
	api.GET("/products/:id", product.GetProduct)
	api.GET("/products/:id/image-url", product.GetSignedImageURL)
	api.GET("/categories", product.GetAllCategories)

	// Écriture catalogue : vendeurs et admins
	catalog := api.Group("/products", middleware.AuthRequired(),
		middleware.RequireRoles(models.RoleSeller, models.RoleAdmin))
	catalog.POST("", product.CreateProduct)
	catalog.PUT("/:id", product.UpdateProduct)
	catalog.DELETE("/:id", product.DeleteProduct)
	catalog.POST("/:id/image", product.UploadProductImage)

	// Catégories : admin uniquement
	categories := api.Group("/categories", middleware.AuthRequired(),
		middleware.RequireRoles(models.RoleAdmin))
	categories.POST("", product.CreateCategory)
	categories.PUT("/:id", product.UpdateCategory)
	categories.DELETE("/:id", product.DeleteCategory)

	// Panier : réservé au rôle customer, le staff passe par ses propres
	// routes
	cart := api.Group("/cart", middleware.AuthRequired(),
		middleware.RequireRoles(models.RoleCustomer))
	cart.POST("", user.AddToCart)
	cart.GET("", user.GetCart)
	// /clear doit précéder /:productId pour ne pas être capturé par le
	// paramètre de route
	cart.DELETE("/clear", user.ClearCart)
	cart.PUT("/:productId", user.UpdateCartQuantity)
	cart.DELETE("/:productId", user.RemoveFromCart)

	// Commandes côté client : customer uniquement (les vues vendeur et
	// admin vivent sous /admin/orders)
	orders := api.Group("/orders", middleware.AuthRequired(),
		middleware.RequireRoles(models.RoleCustomer))
	orders.POST("", user.CreateOrder)
	orders.GET("", user.GetMyOrders)
	orders.GET("/ws", user.OrderWebSocket)

	// Espace staff : vendeurs (lecture scoppée) et admins
	staff := api.Group("/admin/orders", middleware.AuthRequired(),
		middleware.RequireRoles(models.RoleSeller, models.RoleAdmin))
	staff.GET("", admin.GetOrdersForStaff)
	staff.GET("/:id", admin.GetOrderByID)
	staff.GET("/:id/invoice", admin.OrderInvoicePDF)
	staff.GET("/:id/qr", admin.OrderQR)
	staff.PUT("/:id/status", admin.UpdateOrderStatus)

	// Gestion des comptes : admin uniquement
	users := api.Group("/admin/users", middleware.AuthRequired(),
		middleware.RequireRoles(models.RoleAdmin))
	users.GET("", admin.GetAllUsers)
	users.GET("/:id", admin.GetUser)
	users.PUT("/:id/role", admin.UpdateUserRole)
	users.DELETE("/:id", admin.DeleteUser)
}
