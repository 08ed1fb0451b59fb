package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gocql/gocql"
	"github.com/redis/go-redis/v9"

	"jamsfrag_back_end/internal/cart"
	"jamsfrag_back_end/internal/models"
	"jamsfrag_back_end/internal/store"
	"jamsfrag_back_end/internal/utils"
)

// ErrEmptyCart : on ne démarre pas un checkout sans article.
var ErrEmptyCart = errors.New("checkout: panier vide")

// ErrNoSession : aucun checkout en cours pour cet utilisateur.
var ErrNoSession = errors.New("checkout: aucune session en cours")

const sessionTTL = 30 * time.Minute

// Sessions persiste la machine sérialisée entre deux requêtes HTTP.
type Sessions interface {
	Get(ctx context.Context, userID string) ([]byte, error)
	Set(ctx context.Context, userID string, raw []byte, ttl time.Duration) error
	Del(ctx context.Context, userID string) error
}

// RedisSessions : implémentation Redis, une clé par utilisateur.
type RedisSessions struct {
	Client *redis.Client
}

func NewRedisSessions(client *redis.Client) *RedisSessions {
	return &RedisSessions{Client: client}
}

func sessionKey(userID string) string { return "checkout:" + userID }

func (s *RedisSessions) Get(ctx context.Context, userID string) ([]byte, error) {
	raw, err := s.Client.Get(ctx, sessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	return raw, err
}

func (s *RedisSessions) Set(ctx context.Context, userID string, raw []byte, ttl time.Duration) error {
	return s.Client.Set(ctx, sessionKey(userID), raw, ttl).Err()
}

func (s *RedisSessions) Del(ctx context.Context, userID string) error {
	return s.Client.Del(ctx, sessionKey(userID)).Err()
}

// Notifier envoie la confirmation de commande. Une implémentation nulle est
// acceptée : l'email ne conditionne jamais la création de la commande.
type Notifier interface {
	OrderConfirmation(ctx context.Context, email string, order *models.Order) error
}

// Service orchestre le checkout : machine à états persistée dans Redis,
// écriture de la commande dans Scylla, vidage du panier.
type Service struct {
	orders   store.Orders
	cart     *cart.Service
	sessions Sessions
	notifier Notifier
}

func NewService(orders store.Orders, cartSvc *cart.Service, sessions Sessions, notifier Notifier) *Service {
	return &Service{orders: orders, cart: cartSvc, sessions: sessions, notifier: notifier}
}

// Begin ouvre (ou réinitialise) un checkout pour l'utilisateur. Le panier doit
// contenir au moins un article.
func (s *Service) Begin(ctx context.Context, userID string) (*Machine, error) {
	snap, err := s.cart.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(snap.Items) == 0 {
		return nil, ErrEmptyCart
	}

	m := New()
	if err := s.save(ctx, userID, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Load relit la machine de l'utilisateur depuis le store de sessions.
func (s *Service) Load(ctx context.Context, userID string) (*Machine, error) {
	raw, err := s.sessions.Get(ctx, userID)
	if errors.Is(err, ErrNoSession) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("checkout: lecture session: %w", err)
	}

	var m Machine
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("checkout: session corrompue: %w", err)
	}
	return &m, nil
}

func (s *Service) save(ctx context.Context, userID string, m *Machine) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	if err := s.sessions.Set(ctx, userID, raw, sessionTTL); err != nil {
		return fmt.Errorf("checkout: sauvegarde session: %w", err)
	}
	return nil
}

// SubmitShipping applique le formulaire de livraison à la session en cours.
func (s *Service) SubmitShipping(ctx context.Context, userID string, info models.ShippingInfo) (*Machine, FieldErrors, error) {
	m, err := s.Load(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	fieldErrs, err := m.SubmitShipping(info)
	if err != nil {
		return nil, nil, err
	}
	if !fieldErrs.OK() {
		return m, fieldErrs, nil
	}
	if err := s.save(ctx, userID, m); err != nil {
		return nil, nil, err
	}
	return m, nil, nil
}

// ChoosePayment applique le choix de méthode à la session en cours.
func (s *Service) ChoosePayment(ctx context.Context, userID, method string, card *models.CardDetails, wallet *models.WalletDetails) (*Machine, FieldErrors, error) {
	m, err := s.Load(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	fieldErrs, err := m.ChoosePayment(method, card, wallet)
	if err != nil {
		return nil, nil, err
	}
	if !fieldErrs.OK() {
		return m, fieldErrs, nil
	}
	if err := s.save(ctx, userID, m); err != nil {
		return nil, nil, err
	}
	return m, nil, nil
}

// Submit crée la commande : une seule écriture, statut "Pending", identifiant
// de suivi généré côté serveur. En cas d'échec la machine revient au choix du
// paiement et l'utilisateur relance lui-même.
func (s *Service) Submit(ctx context.Context, userID string) (*models.Order, error) {
	m, err := s.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := m.BeginSubmit(); err != nil {
		return nil, err
	}

	snap, err := s.cart.Snapshot(ctx, userID)
	if err != nil {
		_ = m.Fail()
		_ = s.save(ctx, userID, m)
		return nil, err
	}
	if len(snap.Items) == 0 {
		_ = m.Fail()
		_ = s.save(ctx, userID, m)
		return nil, ErrEmptyCart
	}

	items := make([]models.OrderItem, 0, len(snap.Items))
	for _, it := range snap.Items {
		items = append(items, models.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
			ImageURL:  it.ImageURL,
		})
	}

	order := &models.Order{
		ID:            gocql.TimeUUID(),
		UserID:        userID,
		TrackingID:    utils.NewTrackingID(),
		Status:        models.OrderStatusPending,
		PaymentMethod: m.Method,
		Payment:       m.PaymentDetails(),
		Shipping:      m.Shipping,
		Items:         items,
		Total:         snap.Total,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.orders.Create(ctx, order); err != nil {
		if ferr := m.Fail(); ferr == nil {
			_ = s.save(ctx, userID, m)
		}
		return nil, fmt.Errorf("checkout: création commande: %w", err)
	}

	_ = m.Complete()
	if err := s.sessions.Del(ctx, userID); err != nil {
		log.Printf("⚠️ Suppression session checkout impossible pour %s: %v", userID, err)
	}
	if err := s.cart.Clear(ctx, userID); err != nil {
		log.Printf("⚠️ Vidage du panier impossible après commande %s: %v", order.TrackingID, err)
	}

	if s.notifier != nil && m.Shipping.Email != "" {
		if err := s.notifier.OrderConfirmation(ctx, m.Shipping.Email, order); err != nil {
			log.Printf("⚠️ Email de confirmation non envoyé pour %s: %v", order.TrackingID, err)
		}
	}

	log.Printf("✅ Commande %s créée pour %s (%s, %.2f)", order.TrackingID, userID, m.Method, order.Total)
	return order, nil
}
