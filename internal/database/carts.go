package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bazario_back_end/internal/models"

	"github.com/redis/go-redis/v9"
)

// Un document panier par client, clé cart:<customer_id>, TTL 30 jours.
const cartTTL = 30 * 24 * time.Hour

// Nombre d'essais avant d'abandonner une mutation en conflit
const cartMaxRetries = 5

// RedisCartStore stocke le panier comme un document JSON unique.
// Toute mutation passe par WATCH + pipeline transactionnel : deux
// ajouts simultanés sur le même client ne perdent jamais d'écriture.
type RedisCartStore struct {
	rdb *redis.Client
}

func NewRedisCartStore(rdb *redis.Client) *RedisCartStore {
	return &RedisCartStore{rdb: rdb}
}

func cartKey(customerID string) string {
	return "cart:" + customerID
}

// Get renvoie nil sans erreur quand aucun document panier n'existe.
func (s *RedisCartStore) Get(ctx context.Context, customerID string) (*models.Cart, error) {
	data, err := s.rdb.Get(ctx, cartKey(customerID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return nil, fmt.Errorf("décodage panier %s: %w", customerID, err)
	}
	return &cart, nil
}

// Mutate applique fn aux lignes du panier de façon atomique. Si aucun
// document n'existe et que create est faux, Mutate renvoie (nil, nil)
// sans appeler fn. Une erreur renvoyée par fn interrompt la mutation
// telle quelle (pas de retry).
func (s *RedisCartStore) Mutate(ctx context.Context, customerID string, create bool,
	fn func([]models.CartLine) ([]models.CartLine, error)) (*models.Cart, error) {

	key := cartKey(customerID)
	var out *models.Cart

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Result()
		missing := errors.Is(err, redis.Nil)
		if err != nil && !missing {
			return err
		}

		if missing && !create {
			out = nil
			return nil
		}

		cart := models.Cart{CustomerID: customerID}
		if !missing {
			if err := json.Unmarshal([]byte(data), &cart); err != nil {
				return fmt.Errorf("décodage panier %s: %w", customerID, err)
			}
		}

		lines, err := fn(cart.Products)
		if err != nil {
			return err
		}
		cart.Products = lines
		if cart.Products == nil {
			cart.Products = []models.CartLine{}
		}

		payload, err := json.Marshal(cart)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, cartTTL)
			return nil
		})
		if err != nil {
			return err
		}

		out = &cart
		return nil
	}

	for i := 0; i < cartMaxRetries; i++ {
		err := s.rdb.Watch(ctx, txf, key)
		if err == nil {
			return out, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			// Écriture concurrente sur la même clé, on rejoue
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("panier %s: trop de mutations concurrentes", customerID)
}
