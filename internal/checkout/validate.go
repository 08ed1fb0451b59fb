package checkout

import (
	"regexp"
	"strings"

	"jamsfrag_back_end/internal/models"
)

// Règles de validation des formulaires de checkout. Tout est vérifié ici,
// avant le moindre appel réseau : une violation bloque la transition et
// n'atteint jamais le store.
var (
	emailRe      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe      = regexp.MustCompile(`^\d{10,15}$`)
	postalCodeRe = regexp.MustCompile(`^\d{5}$`)
	cardNumberRe = regexp.MustCompile(`^\d{16}$`)
	expiryRe     = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvRe        = regexp.MustCompile(`^\d{3}$`)
)

// FieldErrors associe chaque champ invalide à son message. Vide = formulaire valide.
type FieldErrors map[string]string

func (e FieldErrors) OK() bool { return len(e) == 0 }

// ValidateShipping applique les gardes de sortie de CollectingShippingInfo.
func ValidateShipping(info models.ShippingInfo) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(info.Name) == "" {
		errs["name"] = "Le nom est obligatoire."
	}
	if !emailRe.MatchString(info.Email) {
		errs["email"] = "Adresse email invalide."
	}
	if !phoneRe.MatchString(info.Phone) {
		errs["phone"] = "Le téléphone doit comporter 10 à 15 chiffres."
	}
	if strings.TrimSpace(info.Address) == "" {
		errs["address"] = "L'adresse est obligatoire."
	}
	if !postalCodeRe.MatchString(info.PostalCode) {
		errs["postalCode"] = "Le code postal doit comporter exactement 5 chiffres."
	}
	if strings.TrimSpace(info.City) == "" {
		errs["city"] = "La ville est obligatoire."
	}

	return errs
}

// ValidateCard : méthode "debit".
func ValidateCard(card models.CardDetails) FieldErrors {
	errs := FieldErrors{}

	if !cardNumberRe.MatchString(card.Number) {
		errs["cardNumber"] = "Le numéro de carte doit comporter 16 chiffres."
	}
	if strings.TrimSpace(card.Holder) == "" {
		errs["cardHolder"] = "Le nom du titulaire est obligatoire."
	}
	if !expiryRe.MatchString(card.Expiry) {
		errs["expiryDate"] = "La date d'expiration doit être au format MM/YY."
	}
	if !cvvRe.MatchString(card.CVV) {
		errs["cvv"] = "Le CVV doit comporter 3 chiffres."
	}

	return errs
}

// ValidateWallet : méthodes "easypaisa" et "jazzcash" — identifiant de
// transaction et capture d'écran du virement.
func ValidateWallet(w models.WalletDetails) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(w.TransactionID) == "" {
		errs["tid"] = "L'identifiant de transaction est obligatoire."
	}
	if strings.TrimSpace(w.ScreenshotURL) == "" {
		errs["screenshot"] = "La capture d'écran du paiement est obligatoire."
	}

	return errs
}

func IsValidPaymentMethod(method string) bool {
	switch method {
	case models.PaymentDebit, models.PaymentEasypaisa, models.PaymentJazzcash, models.PaymentCash:
		return true
	}
	return false
}
