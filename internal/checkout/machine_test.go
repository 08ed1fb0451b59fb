package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jamsfrag_back_end/internal/models"
)

func validShipping() models.ShippingInfo {
	return models.ShippingInfo{
		Name:       "Ali Khan",
		Email:      "a@b.com",
		Phone:      "03001234567",
		Address:    "12 Rue des Lilas",
		PostalCode: "12345",
		City:       "Lahore",
	}
}

func validCard() models.CardDetails {
	return models.CardDetails{
		Number: "4111111111111111",
		Holder: "Ali Khan",
		Expiry: "04/29",
		CVV:    "123",
	}
}

func TestValidateShipping(t *testing.T) {
	assert.True(t, ValidateShipping(validShipping()).OK())

	cases := []struct {
		name  string
		mut   func(*models.ShippingInfo)
		field string
	}{
		{"code postal trop court", func(s *models.ShippingInfo) { s.PostalCode = "1234" }, "postalCode"},
		{"code postal non numérique", func(s *models.ShippingInfo) { s.PostalCode = "1234a" }, "postalCode"},
		{"téléphone trop court", func(s *models.ShippingInfo) { s.Phone = "12345" }, "phone"},
		{"téléphone trop long", func(s *models.ShippingInfo) { s.Phone = "1234567890123456" }, "phone"},
		{"email sans arobase", func(s *models.ShippingInfo) { s.Email = "not-an-email" }, "email"},
		{"email sans domaine", func(s *models.ShippingInfo) { s.Email = "a@b" }, "email"},
		{"nom vide", func(s *models.ShippingInfo) { s.Name = "  " }, "name"},
		{"adresse vide", func(s *models.ShippingInfo) { s.Address = "" }, "address"},
		{"ville vide", func(s *models.ShippingInfo) { s.City = "" }, "city"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			info := validShipping()
			tc.mut(&info)
			errs := ValidateShipping(info)
			assert.Contains(t, errs, tc.field)
		})
	}
}

func TestValidateCard(t *testing.T) {
	assert.True(t, ValidateCard(validCard()).OK())

	cases := []struct {
		name  string
		mut   func(*models.CardDetails)
		field string
	}{
		{"numéro trop court", func(c *models.CardDetails) { c.Number = "411111111111111" }, "cardNumber"},
		{"numéro avec lettres", func(c *models.CardDetails) { c.Number = "4111x11111111111" }, "cardNumber"},
		{"cvv à deux chiffres", func(c *models.CardDetails) { c.CVV = "12" }, "cvv"},
		{"mois d'expiration invalide", func(c *models.CardDetails) { c.Expiry = "13/29" }, "expiryDate"},
		{"expiration sans slash", func(c *models.CardDetails) { c.Expiry = "0429" }, "expiryDate"},
		{"titulaire vide", func(c *models.CardDetails) { c.Holder = "" }, "cardHolder"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			card := validCard()
			tc.mut(&card)
			errs := ValidateCard(card)
			assert.Contains(t, errs, tc.field)
		})
	}
}

func TestValidateWallet(t *testing.T) {
	assert.True(t, ValidateWallet(models.WalletDetails{TransactionID: "TX123", ScreenshotURL: "/payments/x.png"}).OK())
	assert.Contains(t, ValidateWallet(models.WalletDetails{ScreenshotURL: "/p.png"}), "tid")
	assert.Contains(t, ValidateWallet(models.WalletDetails{TransactionID: "TX123"}), "screenshot")
}

func TestMachineHappyPathCash(t *testing.T) {
	m := New()
	require.Equal(t, StateCollectingShippingInfo, m.State)

	errs, err := m.SubmitShipping(validShipping())
	require.NoError(t, err)
	require.True(t, errs.OK())
	require.Equal(t, StateChoosingPaymentMethod, m.State)

	errs, err = m.ChoosePayment(models.PaymentCash, nil, nil)
	require.NoError(t, err)
	require.True(t, errs.OK())
	require.Equal(t, StateChoosingPaymentMethod, m.State)

	require.NoError(t, m.BeginSubmit())
	require.Equal(t, StateSubmittingOrder, m.State)
	require.NoError(t, m.Complete())
	require.Equal(t, StateDone, m.State)
}

func TestMachineShippingErrorsBlockTransition(t *testing.T) {
	m := New()
	bad := validShipping()
	bad.PostalCode = "1234"

	errs, err := m.SubmitShipping(bad)
	require.NoError(t, err)
	assert.Contains(t, errs, "postalCode")
	assert.Equal(t, StateCollectingShippingInfo, m.State)
}

func TestMachineFailReturnsToPaymentChoice(t *testing.T) {
	m := New()
	_, err := m.SubmitShipping(validShipping())
	require.NoError(t, err)
	card := validCard()
	_, err = m.ChoosePayment(models.PaymentDebit, &card, nil)
	require.NoError(t, err)
	require.NoError(t, m.BeginSubmit())

	require.NoError(t, m.Fail())
	assert.Equal(t, StateChoosingPaymentMethod, m.State)

	// La méthode validée reste en place : on peut re-soumettre directement.
	require.NoError(t, m.BeginSubmit())
}

func TestMachineRejectsOutOfOrderOperations(t *testing.T) {
	m := New()

	_, err := m.ChoosePayment(models.PaymentCash, nil, nil)
	var inv *ErrInvalidTransition
	require.ErrorAs(t, err, &inv)

	err = m.BeginSubmit()
	require.ErrorAs(t, err, &inv)
}

func TestMachineSubmitWithoutMethodRejected(t *testing.T) {
	m := New()
	_, err := m.SubmitShipping(validShipping())
	require.NoError(t, err)

	var inv *ErrInvalidTransition
	require.ErrorAs(t, m.BeginSubmit(), &inv)
}

func TestChoosePaymentDebitRequiresValidCard(t *testing.T) {
	m := New()
	_, err := m.SubmitShipping(validShipping())
	require.NoError(t, err)

	card := validCard()
	card.Expiry = "13/29"
	errs, err := m.ChoosePayment(models.PaymentDebit, &card, nil)
	require.NoError(t, err)
	assert.Contains(t, errs, "expiryDate")
	assert.Empty(t, m.Method)
}

func TestChoosePaymentUnknownMethod(t *testing.T) {
	m := New()
	_, err := m.SubmitShipping(validShipping())
	require.NoError(t, err)

	errs, err := m.ChoosePayment("bitcoin", nil, nil)
	require.NoError(t, err)
	assert.Contains(t, errs, "method")
}

func TestPaymentDetailsNeverKeepsFullCardNumber(t *testing.T) {
	m := New()
	_, err := m.SubmitShipping(validShipping())
	require.NoError(t, err)
	card := validCard()
	_, err = m.ChoosePayment(models.PaymentDebit, &card, nil)
	require.NoError(t, err)

	p := m.PaymentDetails()
	assert.Equal(t, "1111", p.CardLast4)
	assert.Equal(t, "Ali Khan", p.CardHolder)
	assert.Equal(t, "04/29", p.CardExpiry)
	assert.NotContains(t, p.CardLast4, "4111111111111111")
}

func TestChoosePaymentSwitchClearsPreviousDetails(t *testing.T) {
	m := New()
	_, err := m.SubmitShipping(validShipping())
	require.NoError(t, err)

	card := validCard()
	_, err = m.ChoosePayment(models.PaymentDebit, &card, nil)
	require.NoError(t, err)
	require.NotNil(t, m.Card)

	_, err = m.ChoosePayment(models.PaymentEasypaisa, nil, &models.WalletDetails{TransactionID: "TX9", ScreenshotURL: "/s.png"})
	require.NoError(t, err)
	assert.Nil(t, m.Card)
	require.NotNil(t, m.Wallet)
	assert.Equal(t, models.PaymentEasypaisa, m.Method)
}
