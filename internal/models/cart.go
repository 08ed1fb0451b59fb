package models

import (
	"time"

	"github.com/gocql/gocql"
)

// CartItem est une ligne du panier d'un utilisateur.
// Nom, prix et image sont dénormalisés depuis le produit au moment de l'ajout.
type CartItem struct {
	ID        gocql.UUID `json:"id" db:"item_id"`
	ProductID gocql.UUID `json:"productId" db:"product_id"`
	Name      string     `json:"name" db:"name"`
	Price     float64    `json:"price" db:"price"`
	ImageURL  string     `json:"imageUrl" db:"image_url"`
	Quantity  int        `json:"quantity" db:"quantity"` // invariant: >= 1
	AddedAt   time.Time  `json:"addedAt" db:"added_at"`
}

// LineTotal retourne le sous-total de la ligne.
func (i CartItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// CartTotal calcule le total exact du panier, indépendamment de l'ordre des lignes.
func CartTotal(items []CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.LineTotal()
	}
	return total
}
