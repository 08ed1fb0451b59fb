package models

import (
	"math"
	"time"

	"github.com/gocql/gocql"
)

// Catégories autorisées (liste fermée, validée à l'écriture)
const (
	CategoryMen         = "Men"
	CategoryWomen       = "Women"
	CategoryKids        = "Kids"
	CategoryAccessories = "Accessories"
)

var Categories = []string{CategoryMen, CategoryWomen, CategoryKids, CategoryAccessories}

func IsValidCategory(c string) bool {
	for _, cat := range Categories {
		if cat == c {
			return true
		}
	}
	return false
}

type Product struct {
	ID          gocql.UUID `json:"id" db:"product_id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	Price       float64    `json:"price" db:"price"`
	Discount    float64    `json:"discount" db:"discount"` // pourcentage 0-100, 0 = pas de promo
	ImageURL    string     `json:"imageUrl" db:"image_url"`
	Category    string     `json:"category" db:"category"`
	Details     []string   `json:"details,omitempty" db:"details"`
	Likes       int64      `json:"likes" db:"likes"`
	Rating      float64    `json:"rating" db:"rating"`
	RatingCount int        `json:"ratingCount" db:"rating_count"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

// EffectivePrice applique la remise en pourcentage, arrondie à 2 décimales.
// Le prix remisé n'est jamais persisté : il est recalculé à chaque lecture.
func (p Product) EffectivePrice() float64 {
	if p.Discount <= 0 {
		return round2(p.Price)
	}
	return round2(p.Price * (100 - p.Discount) / 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
