// Package cart implémente la synchronisation du panier : chaque mutation
// écrit une seule fois dans le store puis notifie le canal de l'utilisateur ;
// les miroirs abonnés relisent alors le snapshot autoritaire. Aucune mise à
// jour optimiste : entre le clic et la notification, l'état local peut être
// brièvement en retard, c'est attendu.
package cart

import (
	"context"
	"fmt"
	"log"

	"github.com/gocql/gocql"

	"jamsfrag_back_end/internal/models"
	"jamsfrag_back_end/internal/realtime"
	"jamsfrag_back_end/internal/store"
)

// Snapshot est l'état complet du panier à un instant donné.
type Snapshot struct {
	Items []models.CartItem `json:"items"`
	Total float64           `json:"total"`
	Count int               `json:"count"`
}

type Service struct {
	Carts    store.Carts
	Products store.Products
	Bus      realtime.Bus
}

func NewService(carts store.Carts, products store.Products, bus realtime.Bus) *Service {
	return &Service{Carts: carts, Products: products, Bus: bus}
}

// Snapshot relit l'état autoritaire et recalcule le total exact
// Σ prix × quantité, quel que soit l'ordre d'arrivée des lignes.
func (s *Service) Snapshot(ctx context.Context, userID string) (Snapshot, error) {
	items, err := s.Carts.List(ctx, userID)
	if err != nil {
		return Snapshot{}, err
	}
	if items == nil {
		items = []models.CartItem{}
	}
	return Snapshot{Items: items, Total: models.CartTotal(items), Count: len(items)}, nil
}

// Add dénormalise le produit (nom, prix, image) dans la ligne panier,
// quantité initiale 1.
func (s *Service) Add(ctx context.Context, userID string, productID gocql.UUID) (*models.CartItem, error) {
	p, err := s.Products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}

	item := &models.CartItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.EffectivePrice(),
		ImageURL:  p.ImageURL,
		Quantity:  1,
	}
	if err := s.Carts.Add(ctx, userID, item); err != nil {
		return nil, err
	}

	s.notify(ctx, userID)
	return item, nil
}

// Increase ajoute 1 à la quantité de la ligne.
func (s *Service) Increase(ctx context.Context, userID string, itemID gocql.UUID) (int, error) {
	qty, err := s.Carts.AdjustQuantity(ctx, userID, itemID, +1)
	if err != nil {
		return 0, err
	}
	s.notify(ctx, userID)
	return qty, nil
}

// Decrease retire 1, plancher à 1 : en dessous c'est un no-op, jamais une
// suppression. Retirer la ligne est une action explicite (Remove).
func (s *Service) Decrease(ctx context.Context, userID string, itemID gocql.UUID) (int, error) {
	qty, err := s.Carts.AdjustQuantity(ctx, userID, itemID, -1)
	if err != nil {
		return 0, err
	}
	s.notify(ctx, userID)
	return qty, nil
}

// SetQuantity fixe une quantité arbitraire (>= 1).
func (s *Service) SetQuantity(ctx context.Context, userID string, itemID gocql.UUID, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantité invalide: %d", quantity)
	}
	if err := s.Carts.SetQuantity(ctx, userID, itemID, quantity); err != nil {
		return err
	}
	s.notify(ctx, userID)
	return nil
}

func (s *Service) Remove(ctx context.Context, userID string, itemID gocql.UUID) error {
	if err := s.Carts.Remove(ctx, userID, itemID); err != nil {
		return err
	}
	s.notify(ctx, userID)
	return nil
}

// Clear vide le panier ligne par ligne (après un checkout réussi).
func (s *Service) Clear(ctx context.Context, userID string) error {
	items, err := s.Carts.List(ctx, userID)
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := s.Carts.Remove(ctx, userID, item.ID); err != nil {
			return err
		}
	}
	s.notify(ctx, userID)
	return nil
}

func (s *Service) notify(ctx context.Context, userID string) {
	if err := s.Bus.Publish(ctx, realtime.CartChannel(userID), realtime.EventUpdated); err != nil {
		// L'écriture a réussi : les miroirs rattraperont au prochain snapshot
		log.Printf("⚠️ Erreur publication panier %s: %v", userID, err)
	}
}
