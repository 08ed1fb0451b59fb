package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectivePrice(t *testing.T) {
	cases := []struct {
		name     string
		price    float64
		discount float64
		want     float64
	}{
		{"remise 20% sur 100", 100, 20, 80.00},
		{"pas de remise", 59.99, 0, 59.99},
		{"remise nulle négative ignorée", 45, -5, 45.00},
		{"arrondi à 2 décimales", 33.33, 10, 30.00},
		{"remise 100%", 80, 100, 0.00},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Product{Price: tc.price, Discount: tc.discount}
			assert.Equal(t, tc.want, p.EffectivePrice())
		})
	}
}

func TestIsValidCategory(t *testing.T) {
	for _, c := range []string{"Men", "Women", "Kids", "Accessories"} {
		assert.True(t, IsValidCategory(c), c)
	}
	assert.False(t, IsValidCategory("men"))
	assert.False(t, IsValidCategory("Perfumes"))
	assert.False(t, IsValidCategory(""))
}

func TestCartTotal(t *testing.T) {
	items := []CartItem{
		{Price: 80, Quantity: 2},
		{Price: 45.5, Quantity: 1},
		{Price: 19.99, Quantity: 3},
	}
	want := 80*2 + 45.5 + 19.99*3
	assert.InDelta(t, want, CartTotal(items), 0.001)

	// Indépendant de l'ordre des lignes
	reversed := []CartItem{items[2], items[0], items[1]}
	assert.Equal(t, CartTotal(items), CartTotal(reversed))

	assert.Zero(t, CartTotal(nil))
}
