package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"

	"bazario_back_end/internal/models"

	"github.com/gocql/gocql"
)

// ScyllaOrderStore persiste les commandes dans le keyspace orders.
// Deux tables : orders (accès par id) et orders_by_customer
// (clustering created_at DESC, listing du plus récent au plus ancien).
// Les items sont stockés en JSON dans une colonne text.
type ScyllaOrderStore struct{}

func NewScyllaOrderStore() *ScyllaOrderStore {
	return &ScyllaOrderStore{}
}

func (s *ScyllaOrderStore) Insert(ctx context.Context, o *models.Order) error {
	session, err := GetOrdersSession()
	if err != nil {
		return err
	}

	orderUUID, err := gocql.ParseUUID(o.ID)
	if err != nil {
		return fmt.Errorf("order_id invalide: %w", err)
	}
	customerUUID, err := gocql.ParseUUID(o.CustomerID)
	if err != nil {
		return fmt.Errorf("customer_id invalide: %w", err)
	}

	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}

	if err := session.Query(`INSERT INTO orders (order_id, customer_id, items, total_amount, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		orderUUID, customerUUID, string(itemsJSON), o.TotalAmount, o.Status, o.CreatedAt).
		WithContext(ctx).Exec(); err != nil {
		return err
	}

	return session.Query(`INSERT INTO orders_by_customer (customer_id, created_at, order_id, items, total_amount, status)
		VALUES (?, ?, ?, ?, ?, ?)`,
		customerUUID, o.CreatedAt, orderUUID, string(itemsJSON), o.TotalAmount, o.Status).
		WithContext(ctx).Exec()
}

// GetByID renvoie nil sans erreur quand la commande n'existe pas.
func (s *ScyllaOrderStore) GetByID(ctx context.Context, orderID string) (*models.Order, error) {
	session, err := GetOrdersSession()
	if err != nil {
		return nil, err
	}

	orderUUID, err := gocql.ParseUUID(orderID)
	if err != nil {
		return nil, nil
	}

	var o models.Order
	var customerUUID gocql.UUID
	var itemsJSON string

	err = session.Query(`SELECT order_id, customer_id, items, total_amount, status, created_at
		FROM orders WHERE order_id = ?`, orderUUID).
		WithContext(ctx).Scan(&orderUUID, &customerUUID, &itemsJSON, &o.TotalAmount, &o.Status, &o.CreatedAt)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	o.ID = orderUUID.String()
	o.CustomerID = customerUUID.String()
	if err := json.Unmarshal([]byte(itemsJSON), &o.Items); err != nil {
		return nil, fmt.Errorf("décodage items commande %s: %w", orderID, err)
	}
	return &o, nil
}

// ListByCustomer renvoie les commandes d'un client, la plus récente d'abord.
func (s *ScyllaOrderStore) ListByCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	session, err := GetOrdersSession()
	if err != nil {
		return nil, err
	}

	customerUUID, err := gocql.ParseUUID(customerID)
	if err != nil {
		return nil, nil
	}

	iter := session.Query(`SELECT order_id, created_at, items, total_amount, status
		FROM orders_by_customer WHERE customer_id = ?`, customerUUID).
		WithContext(ctx).Iter()

	var orders []models.Order
	var orderUUID gocql.UUID
	var o models.Order
	var itemsJSON string

	for iter.Scan(&orderUUID, &o.CreatedAt, &itemsJSON, &o.TotalAmount, &o.Status) {
		o.ID = orderUUID.String()
		o.CustomerID = customerID
		if err := json.Unmarshal([]byte(itemsJSON), &o.Items); err != nil {
			log.Printf("⚠️ Items illisibles pour la commande %s, ligne ignorée: %v", o.ID, err)
			o = models.Order{}
			continue
		}
		orders = append(orders, o)
		o = models.Order{}
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListAll scanne la table orders et trie en mémoire (vue staff,
// volumétrie modérée).
func (s *ScyllaOrderStore) ListAll(ctx context.Context) ([]models.Order, error) {
	session, err := GetOrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT order_id, customer_id, items, total_amount, status, created_at
		FROM orders`).WithContext(ctx).Iter()

	var orders []models.Order
	var orderUUID, customerUUID gocql.UUID
	var o models.Order
	var itemsJSON string

	for iter.Scan(&orderUUID, &customerUUID, &itemsJSON, &o.TotalAmount, &o.Status, &o.CreatedAt) {
		o.ID = orderUUID.String()
		o.CustomerID = customerUUID.String()
		if err := json.Unmarshal([]byte(itemsJSON), &o.Items); err != nil {
			log.Printf("⚠️ Items illisibles pour la commande %s, ligne ignorée: %v", o.ID, err)
			o = models.Order{}
			continue
		}
		orders = append(orders, o)
		o = models.Order{}
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

// UpdateStatus écrase le statut dans les deux tables.
func (s *ScyllaOrderStore) UpdateStatus(ctx context.Context, orderID, status string) error {
	session, err := GetOrdersSession()
	if err != nil {
		return err
	}

	order, err := s.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return fmt.Errorf("commande %s introuvable", orderID)
	}

	orderUUID, _ := gocql.ParseUUID(order.ID)
	customerUUID, _ := gocql.ParseUUID(order.CustomerID)

	if err := session.Query(`UPDATE orders SET status = ? WHERE order_id = ?`, status, orderUUID).
		WithContext(ctx).Exec(); err != nil {
		return err
	}

	return session.Query(`UPDATE orders_by_customer SET status = ? WHERE customer_id = ? AND created_at = ? AND order_id = ?`,
		status, customerUUID, order.CreatedAt, orderUUID).
		WithContext(ctx).Exec()
}
