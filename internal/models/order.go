package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Méthodes de paiement supportées au checkout
const (
	PaymentDebit     = "debit"
	PaymentEasypaisa = "easypaisa"
	PaymentJazzcash  = "jazzcash"
	PaymentCash      = "cash"
)

// Statut initial d'une commande ; les transitions ultérieures
// sont faites depuis la console admin.
const OrderStatusPending = "Pending"

// ShippingInfo est le bloc livraison embarqué dans la commande.
type ShippingInfo struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	PostalCode string `json:"postalCode"`
	City       string `json:"city"`
}

// CardDetails : paiement par carte (méthode "debit").
// Le numéro complet n'est jamais persisté, seulement les 4 derniers chiffres.
type CardDetails struct {
	Number string `json:"cardNumber"`
	Holder string `json:"cardHolder"`
	Expiry string `json:"expiryDate"` // MM/YY
	CVV    string `json:"cvv"`
}

// WalletDetails : easypaisa / jazzcash.
type WalletDetails struct {
	TransactionID string `json:"tid"`
	ScreenshotURL string `json:"screenshotUrl"`
}

// PaymentDetails porte le détail propre à la méthode choisie.
// Exactement un des deux blocs est renseigné (aucun pour "cash").
type PaymentDetails struct {
	CardLast4     string `json:"cardLast4,omitempty"`
	CardHolder    string `json:"cardHolder,omitempty"`
	CardExpiry    string `json:"cardExpiry,omitempty"`
	TransactionID string `json:"tid,omitempty"`
	ScreenshotURL string `json:"screenshotUrl,omitempty"`
}

type OrderItem struct {
	ProductID gocql.UUID `json:"productId"`
	Name      string     `json:"name"`
	Price     float64    `json:"price"`
	Quantity  int        `json:"quantity"`
	ImageURL  string     `json:"imageUrl,omitempty"`
}

type Order struct {
	ID            gocql.UUID     `json:"id" db:"order_id"`
	UserID        string         `json:"userId" db:"user_id"`
	TrackingID    string         `json:"trackingId" db:"tracking_id"`
	Status        string         `json:"status" db:"status"`
	PaymentMethod string         `json:"paymentMethod" db:"payment_method"`
	Payment       PaymentDetails `json:"payment" db:"payment"`
	Shipping      ShippingInfo   `json:"shipping" db:"shipping"`
	Items         []OrderItem    `json:"items" db:"items"`
	Total         float64        `json:"total" db:"total"`
	CreatedAt     time.Time      `json:"createdAt" db:"created_at"`
}
