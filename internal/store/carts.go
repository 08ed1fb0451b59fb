package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gocql/gocql"

	"jamsfrag_back_end/internal/database"
	"jamsfrag_back_end/internal/models"
)

// ScyllaCarts persiste la sous-collection panier dans ScyllaDB
// (partition par utilisateur, une ligne par article).
type ScyllaCarts struct {
	DB *database.Databases
}

func NewScyllaCarts(db *database.Databases) *ScyllaCarts {
	return &ScyllaCarts{DB: db}
}

func (s *ScyllaCarts) List(ctx context.Context, userID string) ([]models.CartItem, error) {
	session, err := s.DB.Scylla.UsersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT item_id, product_id, name, price, image_url, quantity, added_at
		FROM cart_items_by_user WHERE user_id = ?`, userID).WithContext(ctx).Iter()

	var items []models.CartItem
	var it models.CartItem
	for iter.Scan(&it.ID, &it.ProductID, &it.Name, &it.Price, &it.ImageURL, &it.Quantity, &it.AddedAt) {
		items = append(items, it)
		it = models.CartItem{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *ScyllaCarts) Add(ctx context.Context, userID string, item *models.CartItem) error {
	if item.Quantity < 1 {
		return errors.New("quantité invalide")
	}

	session, err := s.DB.Scylla.UsersSession()
	if err != nil {
		return err
	}

	item.ID = gocql.TimeUUID()
	item.AddedAt = time.Now()

	return session.Query(`INSERT INTO cart_items_by_user (user_id, item_id, product_id, name, price, image_url, quantity, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, item.ID, item.ProductID, item.Name, item.Price, item.ImageURL, item.Quantity, item.AddedAt).
		WithContext(ctx).Exec()
}

// AdjustQuantity applique le delta via une boucle compare-and-set (LWT) pour
// que deux onglets qui cliquent en même temps ne s'écrasent pas mutuellement.
// Le plancher est 1 : un delta qui ferait descendre en dessous est un no-op.
func (s *ScyllaCarts) AdjustQuantity(ctx context.Context, userID string, itemID gocql.UUID, delta int) (int, error) {
	session, err := s.DB.Scylla.UsersSession()
	if err != nil {
		return 0, err
	}

	for attempt := 0; attempt < 5; attempt++ {
		var current int
		err := session.Query(`SELECT quantity FROM cart_items_by_user WHERE user_id = ? AND item_id = ?`,
			userID, itemID).WithContext(ctx).Scan(&current)
		if err == gocql.ErrNotFound {
			return 0, ErrNotFound
		}
		if err != nil {
			return 0, err
		}

		next := current + delta
		if next < 1 {
			return current, nil // plancher : la suppression est une action explicite
		}

		applied, err := session.Query(`UPDATE cart_items_by_user SET quantity = ? WHERE user_id = ? AND item_id = ? IF quantity = ?`,
			next, userID, itemID, current).WithContext(ctx).ScanCAS(&current)
		if err != nil {
			return 0, err
		}
		if applied {
			return next, nil
		}
		// Perdu la course : on repart de la quantité observée
	}

	return 0, fmt.Errorf("conflit persistant sur la quantité de l'article %s", itemID)
}

func (s *ScyllaCarts) SetQuantity(ctx context.Context, userID string, itemID gocql.UUID, quantity int) error {
	if quantity < 1 {
		return errors.New("quantité invalide")
	}

	session, err := s.DB.Scylla.UsersSession()
	if err != nil {
		return err
	}

	applied, err := session.Query(`UPDATE cart_items_by_user SET quantity = ? WHERE user_id = ? AND item_id = ? IF EXISTS`,
		quantity, userID, itemID).WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return err
	}
	if !applied {
		return ErrNotFound
	}
	return nil
}

func (s *ScyllaCarts) Remove(ctx context.Context, userID string, itemID gocql.UUID) error {
	session, err := s.DB.Scylla.UsersSession()
	if err != nil {
		return err
	}
	return session.Query(`DELETE FROM cart_items_by_user WHERE user_id = ? AND item_id = ?`, userID, itemID).
		WithContext(ctx).Exec()
}
