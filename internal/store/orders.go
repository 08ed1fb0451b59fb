package store

import (
	"context"
	"encoding/json"
	"log"

	"github.com/gocql/gocql"

	"jamsfrag_back_end/internal/database"
	"jamsfrag_back_end/internal/models"
)

// ScyllaOrders persiste les commandes. Les lignes et le détail paiement sont
// stockés en JSON (blobs à schéma variable selon la méthode).
type ScyllaOrders struct {
	DB *database.Databases
}

func NewScyllaOrders(db *database.Databases) *ScyllaOrders {
	return &ScyllaOrders{DB: db}
}

func (s *ScyllaOrders) Create(ctx context.Context, o *models.Order) error {
	session, err := s.DB.Scylla.OrdersSession()
	if err != nil {
		return err
	}

	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}
	paymentJSON, err := json.Marshal(o.Payment)
	if err != nil {
		return err
	}

	if err := session.Query(`INSERT INTO orders (order_id, user_id, tracking_id, status, payment_method, payment,
		ship_name, ship_email, ship_phone, ship_address, ship_postal_code, ship_city, items, total, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.UserID, o.TrackingID, o.Status, o.PaymentMethod, string(paymentJSON),
		o.Shipping.Name, o.Shipping.Email, o.Shipping.Phone, o.Shipping.Address,
		o.Shipping.PostalCode, o.Shipping.City, string(itemsJSON), o.Total, o.CreatedAt).
		WithContext(ctx).Exec(); err != nil {
		return err
	}

	// ✅ Index secondaire pour "mes commandes"
	if err := session.Query(`INSERT INTO orders_by_user (user_id, order_id, tracking_id, status, total, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		o.UserID, o.ID, o.TrackingID, o.Status, o.Total, o.CreatedAt).WithContext(ctx).Exec(); err != nil {
		log.Printf("⚠️ Erreur indexation orders_by_user: %v", err)
	}

	// ✅ Index pour le suivi public par numéro TRK
	if err := session.Query(`INSERT INTO orders_by_tracking (tracking_id, order_id)
		VALUES (?, ?)`, o.TrackingID, o.ID).WithContext(ctx).Exec(); err != nil {
		log.Printf("⚠️ Erreur indexation orders_by_tracking: %v", err)
	}

	return nil
}

// GetByTracking résout un numéro de suivi TRK vers la commande complète.
func (s *ScyllaOrders) GetByTracking(ctx context.Context, trackingID string) (*models.Order, error) {
	session, err := s.DB.Scylla.OrdersSession()
	if err != nil {
		return nil, err
	}

	var orderID gocql.UUID
	err = session.Query(`SELECT order_id FROM orders_by_tracking WHERE tracking_id = ?`, trackingID).
		WithContext(ctx).Scan(&orderID)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, orderID)
}

// UpdateStatus fait avancer le statut depuis la console admin et répercute
// la valeur dans l'index utilisateur.
func (s *ScyllaOrders) UpdateStatus(ctx context.Context, id gocql.UUID, status string) error {
	order, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	session, err := s.DB.Scylla.OrdersSession()
	if err != nil {
		return err
	}
	if err := session.Query(`UPDATE orders SET status = ? WHERE order_id = ?`, status, id).
		WithContext(ctx).Exec(); err != nil {
		return err
	}
	if err := session.Query(`UPDATE orders_by_user SET status = ? WHERE user_id = ? AND order_id = ?`,
		status, order.UserID, id).WithContext(ctx).Exec(); err != nil {
		log.Printf("⚠️ Statut non répercuté dans orders_by_user pour %s: %v", id, err)
	}
	return nil
}

func (s *ScyllaOrders) Get(ctx context.Context, id gocql.UUID) (*models.Order, error) {
	session, err := s.DB.Scylla.OrdersSession()
	if err != nil {
		return nil, err
	}

	var o models.Order
	var itemsJSON, paymentJSON string
	err = session.Query(`SELECT order_id, user_id, tracking_id, status, payment_method, payment,
		ship_name, ship_email, ship_phone, ship_address, ship_postal_code, ship_city, items, total, created_at
		FROM orders WHERE order_id = ?`, id).WithContext(ctx).
		Scan(&o.ID, &o.UserID, &o.TrackingID, &o.Status, &o.PaymentMethod, &paymentJSON,
			&o.Shipping.Name, &o.Shipping.Email, &o.Shipping.Phone, &o.Shipping.Address,
			&o.Shipping.PostalCode, &o.Shipping.City, &itemsJSON, &o.Total, &o.CreatedAt)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	decodeOrderBlobs(&o, itemsJSON, paymentJSON)
	return &o, nil
}

func (s *ScyllaOrders) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	session, err := s.DB.Scylla.OrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT order_id, tracking_id, status, total, created_at
		FROM orders_by_user WHERE user_id = ?`, userID).WithContext(ctx).Iter()

	var orders []models.Order
	var o models.Order
	for iter.Scan(&o.ID, &o.TrackingID, &o.Status, &o.Total, &o.CreatedAt) {
		o.UserID = userID
		orders = append(orders, o)
		o = models.Order{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *ScyllaOrders) ListAll(ctx context.Context) ([]models.Order, error) {
	session, err := s.DB.Scylla.OrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT order_id, user_id, tracking_id, status, payment_method, payment,
		ship_name, ship_email, ship_phone, ship_address, ship_postal_code, ship_city, items, total, created_at
		FROM orders`).WithContext(ctx).Iter()

	var orders []models.Order
	var o models.Order
	var itemsJSON, paymentJSON string
	for iter.Scan(&o.ID, &o.UserID, &o.TrackingID, &o.Status, &o.PaymentMethod, &paymentJSON,
		&o.Shipping.Name, &o.Shipping.Email, &o.Shipping.Phone, &o.Shipping.Address,
		&o.Shipping.PostalCode, &o.Shipping.City, &itemsJSON, &o.Total, &o.CreatedAt) {
		decodeOrderBlobs(&o, itemsJSON, paymentJSON)
		orders = append(orders, o)
		o = models.Order{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return orders, nil
}

func decodeOrderBlobs(o *models.Order, itemsJSON, paymentJSON string) {
	if itemsJSON != "" {
		if err := json.Unmarshal([]byte(itemsJSON), &o.Items); err != nil {
			log.Printf("⚠️ Erreur décodage items commande %s: %v", o.ID, err)
		}
	}
	if paymentJSON != "" {
		if err := json.Unmarshal([]byte(paymentJSON), &o.Payment); err != nil {
			log.Printf("⚠️ Erreur décodage paiement commande %s: %v", o.ID, err)
		}
	}
}
