package handlers

import (
	"sync"

	"bazario_back_end/internal/cache"
	"bazario_back_end/internal/database"
	"bazario_back_end/internal/services"
)

// Les moteurs sont construits paresseusement sur les clients globaux,
// une fois ConnectDatabases passé.
var (
	enginesOnce sync.Once
	cartEngine  *services.CartEngine
	orderEngine *services.OrderEngine
)

func initEngines() {
	carts := database.NewRedisCartStore(database.Redis)
	products := cache.NewProductDirectory()
	users := cache.NewUserDirectory()
	orders := database.NewScyllaOrderStore()

	cartEngine = services.NewCartEngine(carts, products)
	orderEngine = services.NewOrderEngine(orders, products, users, carts)
}

// Carts renvoie le moteur panier partagé
func Carts() *services.CartEngine {
	enginesOnce.Do(initEngines)
	return cartEngine
}

// Orders renvoie le moteur commandes partagé
func Orders() *services.OrderEngine {
	enginesOnce.Do(initEngines)
	return orderEngine
}
