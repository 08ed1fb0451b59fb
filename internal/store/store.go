// Package store expose l'accès au document store (ScyllaDB) derrière des
// interfaces injectables, pour que les handlers et les tests puissent
// substituer des fakes.
package store

import (
	"context"
	"errors"

	"github.com/gocql/gocql"

	"jamsfrag_back_end/internal/models"
)

var ErrNotFound = errors.New("document introuvable")

// Products : lecture catalogue + écritures admin + likes/notes.
type Products interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByCategory(ctx context.Context, category string) ([]models.Product, error)
	Get(ctx context.Context, id gocql.UUID) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id gocql.UUID) error
	Like(ctx context.Context, id gocql.UUID) error
	Rate(ctx context.Context, id gocql.UUID, userID string, rating int) error
}

// Carts : sous-collection panier d'un utilisateur (users/{uid}/cart/{itemId}).
type Carts interface {
	List(ctx context.Context, userID string) ([]models.CartItem, error)
	Add(ctx context.Context, userID string, item *models.CartItem) error
	// AdjustQuantity applique un delta atomiquement (boucle compare-and-set).
	// La quantité ne descend jamais sous 1 : le retrait est une action distincte.
	AdjustQuantity(ctx context.Context, userID string, itemID gocql.UUID, delta int) (int, error)
	SetQuantity(ctx context.Context, userID string, itemID gocql.UUID, quantity int) error
	Remove(ctx context.Context, userID string, itemID gocql.UUID) error
}

// Orders : création au checkout, lecture pour le suivi et la console admin.
type Orders interface {
	Create(ctx context.Context, o *models.Order) error
	Get(ctx context.Context, id gocql.UUID) (*models.Order, error)
	GetByTracking(ctx context.Context, trackingID string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id gocql.UUID, status string) error
}

// Users : comptes et profils.
type Users interface {
	Get(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	UpdateProfile(ctx context.Context, id, name, picture string) error
	UpdatePassword(ctx context.Context, id, hash string) error
}

// Comments : sous-collection de commentaires d'un produit, réponses embarquées.
type Comments interface {
	ListByProduct(ctx context.Context, productID gocql.UUID) ([]models.Comment, error)
	Add(ctx context.Context, c *models.Comment) error
	AddReply(ctx context.Context, productID, commentID gocql.UUID, reply models.Reply) error
}

// Contacts : messages du formulaire de contact.
type Contacts interface {
	Add(ctx context.Context, m *models.ContactMessage) error
}
