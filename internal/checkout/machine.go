package checkout

import (
	"fmt"

	"jamsfrag_back_end/internal/models"
)

// Le checkout est une machine à états explicite. Chaque transition est gardée
// par la validation du formulaire correspondant ; une soumission qui échoue
// ramène dans ChoosingPaymentMethod, jamais plus tôt.
type State string

const (
	StateCollectingShippingInfo State = "collecting_shipping_info"
	StateChoosingPaymentMethod  State = "choosing_payment_method"
	StateSubmittingOrder        State = "submitting_order"
	StateDone                   State = "done"
)

// ErrInvalidTransition : la transition demandée n'existe pas depuis l'état courant.
type ErrInvalidTransition struct {
	From State
	Op   string
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("checkout: opération %q impossible depuis l'état %q", e.Op, e.From)
}

// Machine porte l'état d'un checkout en cours pour un utilisateur. Elle est
// sérialisée en JSON dans Redis entre deux requêtes HTTP.
type Machine struct {
	State    State                 `json:"state"`
	Shipping models.ShippingInfo   `json:"shipping"`
	Method   string                `json:"method,omitempty"`
	Card     *models.CardDetails   `json:"card,omitempty"`
	Wallet   *models.WalletDetails `json:"wallet,omitempty"`
}

// New démarre un checkout sur la collecte des infos de livraison.
func New() *Machine {
	return &Machine{State: StateCollectingShippingInfo}
}

// SubmitShipping valide le formulaire de livraison et avance vers le choix du
// paiement. Les erreurs de champ laissent la machine en place.
func (m *Machine) SubmitShipping(info models.ShippingInfo) (FieldErrors, error) {
	if m.State != StateCollectingShippingInfo {
		return nil, &ErrInvalidTransition{From: m.State, Op: "submit_shipping"}
	}
	if errs := ValidateShipping(info); !errs.OK() {
		return errs, nil
	}
	m.Shipping = info
	m.State = StateChoosingPaymentMethod
	return nil, nil
}

// ChoosePayment valide la méthode choisie et ses détails. La machine reste
// dans ChoosingPaymentMethod : la soumission est une étape séparée.
func (m *Machine) ChoosePayment(method string, card *models.CardDetails, wallet *models.WalletDetails) (FieldErrors, error) {
	if m.State != StateChoosingPaymentMethod {
		return nil, &ErrInvalidTransition{From: m.State, Op: "choose_payment"}
	}
	if !IsValidPaymentMethod(method) {
		return FieldErrors{"method": "Méthode de paiement inconnue."}, nil
	}

	switch method {
	case models.PaymentDebit:
		if card == nil {
			return FieldErrors{"card": "Détails de carte manquants."}, nil
		}
		if errs := ValidateCard(*card); !errs.OK() {
			return errs, nil
		}
		m.Card = card
		m.Wallet = nil
	case models.PaymentEasypaisa, models.PaymentJazzcash:
		if wallet == nil {
			return FieldErrors{"wallet": "Détails de transaction manquants."}, nil
		}
		if errs := ValidateWallet(*wallet); !errs.OK() {
			return errs, nil
		}
		m.Wallet = wallet
		m.Card = nil
	case models.PaymentCash:
		// Paiement à la livraison : rien à valider.
		m.Card = nil
		m.Wallet = nil
	}

	m.Method = method
	return nil, nil
}

// BeginSubmit passe en SubmittingOrder. Exige une méthode déjà validée.
func (m *Machine) BeginSubmit() error {
	if m.State != StateChoosingPaymentMethod {
		return &ErrInvalidTransition{From: m.State, Op: "begin_submit"}
	}
	if m.Method == "" {
		return &ErrInvalidTransition{From: m.State, Op: "begin_submit"}
	}
	m.State = StateSubmittingOrder
	return nil
}

// Complete : la commande a été écrite, le checkout est terminé.
func (m *Machine) Complete() error {
	if m.State != StateSubmittingOrder {
		return &ErrInvalidTransition{From: m.State, Op: "complete"}
	}
	m.State = StateDone
	return nil
}

// Fail : l'écriture de la commande a échoué. On revient au choix du paiement,
// l'utilisateur re-soumet lui-même — aucune relance automatique.
func (m *Machine) Fail() error {
	if m.State != StateSubmittingOrder {
		return &ErrInvalidTransition{From: m.State, Op: "fail"}
	}
	m.State = StateChoosingPaymentMethod
	return nil
}

// PaymentDetails construit l'enregistrement persistable du paiement. Le numéro
// de carte complet et le CVV n'en font jamais partie.
func (m *Machine) PaymentDetails() models.PaymentDetails {
	var p models.PaymentDetails
	if m.Card != nil {
		n := m.Card.Number
		if len(n) >= 4 {
			p.CardLast4 = n[len(n)-4:]
		}
		p.CardHolder = m.Card.Holder
		p.CardExpiry = m.Card.Expiry
	}
	if m.Wallet != nil {
		p.TransactionID = m.Wallet.TransactionID
		p.ScreenshotURL = m.Wallet.ScreenshotURL
	}
	return p
}
