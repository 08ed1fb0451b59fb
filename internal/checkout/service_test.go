package checkout

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jamsfrag_back_end/internal/cart"
	"jamsfrag_back_end/internal/models"
	"jamsfrag_back_end/internal/realtime"
	"jamsfrag_back_end/internal/store"
)

// ---------- fakes ----------

type memSessions struct {
	data map[string][]byte
}

func newMemSessions() *memSessions { return &memSessions{data: map[string][]byte{}} }

func (s *memSessions) Get(_ context.Context, userID string) ([]byte, error) {
	raw, ok := s.data[userID]
	if !ok {
		return nil, ErrNoSession
	}
	return raw, nil
}

func (s *memSessions) Set(_ context.Context, userID string, raw []byte, _ time.Duration) error {
	s.data[userID] = raw
	return nil
}

func (s *memSessions) Del(_ context.Context, userID string) error {
	delete(s.data, userID)
	return nil
}

type memOrders struct {
	created []models.Order
	failing bool
}

func (o *memOrders) Create(_ context.Context, order *models.Order) error {
	if o.failing {
		return errors.New("écriture refusée")
	}
	o.created = append(o.created, *order)
	return nil
}

func (o *memOrders) Get(_ context.Context, id gocql.UUID) (*models.Order, error) {
	for i := range o.created {
		if o.created[i].ID == id {
			return &o.created[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (o *memOrders) GetByTracking(_ context.Context, trackingID string) (*models.Order, error) {
	for i := range o.created {
		if o.created[i].TrackingID == trackingID {
			return &o.created[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (o *memOrders) ListByUser(_ context.Context, userID string) ([]models.Order, error) {
	var out []models.Order
	for _, ord := range o.created {
		if ord.UserID == userID {
			out = append(out, ord)
		}
	}
	return out, nil
}

func (o *memOrders) ListAll(_ context.Context) ([]models.Order, error) {
	return append([]models.Order(nil), o.created...), nil
}

func (o *memOrders) UpdateStatus(_ context.Context, id gocql.UUID, status string) error {
	for i := range o.created {
		if o.created[i].ID == id {
			o.created[i].Status = status
			return nil
		}
	}
	return store.ErrNotFound
}

type memCarts struct {
	items map[string][]models.CartItem
}

func newMemCarts() *memCarts { return &memCarts{items: map[string][]models.CartItem{}} }

func (c *memCarts) List(_ context.Context, userID string) ([]models.CartItem, error) {
	return append([]models.CartItem(nil), c.items[userID]...), nil
}

func (c *memCarts) Add(_ context.Context, userID string, item *models.CartItem) error {
	item.ID = gocql.TimeUUID()
	c.items[userID] = append(c.items[userID], *item)
	return nil
}

func (c *memCarts) AdjustQuantity(_ context.Context, userID string, itemID gocql.UUID, delta int) (int, error) {
	for i := range c.items[userID] {
		if c.items[userID][i].ID == itemID {
			next := c.items[userID][i].Quantity + delta
			if next < 1 {
				return c.items[userID][i].Quantity, nil
			}
			c.items[userID][i].Quantity = next
			return next, nil
		}
	}
	return 0, store.ErrNotFound
}

func (c *memCarts) SetQuantity(_ context.Context, userID string, itemID gocql.UUID, quantity int) error {
	for i := range c.items[userID] {
		if c.items[userID][i].ID == itemID {
			c.items[userID][i].Quantity = quantity
			return nil
		}
	}
	return store.ErrNotFound
}

func (c *memCarts) Remove(_ context.Context, userID string, itemID gocql.UUID) error {
	kept := c.items[userID][:0]
	for _, it := range c.items[userID] {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}
	c.items[userID] = kept
	return nil
}

type memProducts struct {
	byID map[gocql.UUID]models.Product
}

func (p *memProducts) GetAll(_ context.Context) ([]models.Product, error) { return nil, nil }
func (p *memProducts) GetByCategory(_ context.Context, _ string) ([]models.Product, error) {
	return nil, nil
}
func (p *memProducts) Get(_ context.Context, id gocql.UUID) (*models.Product, error) {
	prod, ok := p.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &prod, nil
}
func (p *memProducts) Create(_ context.Context, _ *models.Product) error          { return nil }
func (p *memProducts) Update(_ context.Context, _ *models.Product) error          { return nil }
func (p *memProducts) Delete(_ context.Context, _ gocql.UUID) error               { return nil }
func (p *memProducts) Like(_ context.Context, _ gocql.UUID) error                 { return nil }
func (p *memProducts) Rate(_ context.Context, _ gocql.UUID, _ string, _ int) error { return nil }

type nopBus struct{}

func (nopBus) Publish(_ context.Context, _, _ string) error { return nil }
func (nopBus) Subscribe(_ context.Context, _ string) (realtime.Subscription, error) {
	return nil, errors.New("non utilisé dans ces tests")
}

// ---------- montage ----------

const testUser = "user-1"

func newCheckoutFixture(t *testing.T) (*Service, *memOrders, *memCarts) {
	t.Helper()

	carts := newMemCarts()
	orders := &memOrders{}
	cartSvc := cart.NewService(carts, &memProducts{}, nopBus{})
	svc := NewService(orders, cartSvc, newMemSessions(), nil)

	carts.items[testUser] = []models.CartItem{
		{ID: gocql.TimeUUID(), ProductID: gocql.TimeUUID(), Name: "Oud Royal", Price: 80, Quantity: 2},
		{ID: gocql.TimeUUID(), ProductID: gocql.TimeUUID(), Name: "Musc Blanc", Price: 45.5, Quantity: 1},
	}
	return svc, orders, carts
}

func advanceToPayment(t *testing.T, svc *Service, method string) {
	t.Helper()
	ctx := context.Background()

	_, err := svc.Begin(ctx, testUser)
	require.NoError(t, err)

	_, fieldErrs, err := svc.SubmitShipping(ctx, testUser, validShipping())
	require.NoError(t, err)
	require.True(t, fieldErrs.OK())

	var card *models.CardDetails
	if method == models.PaymentDebit {
		c := validCard()
		card = &c
	}
	var wallet *models.WalletDetails
	if method == models.PaymentEasypaisa || method == models.PaymentJazzcash {
		wallet = &models.WalletDetails{TransactionID: "TX42", ScreenshotURL: "/payments/tx42.png"}
	}
	_, fieldErrs, err = svc.ChoosePayment(ctx, testUser, method, card, wallet)
	require.NoError(t, err)
	require.True(t, fieldErrs.OK())
}

// ---------- tests ----------

func TestCashCheckoutCreatesExactlyOnePendingOrder(t *testing.T) {
	svc, orders, carts := newCheckoutFixture(t)
	ctx := context.Background()

	advanceToPayment(t, svc, models.PaymentCash)

	order, err := svc.Submit(ctx, testUser)
	require.NoError(t, err)

	require.Len(t, orders.created, 1)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.True(t, strings.HasPrefix(order.TrackingID, "TRK"))
	assert.Greater(t, len(order.TrackingID), 3)
	assert.Equal(t, models.PaymentCash, order.PaymentMethod)
	assert.InDelta(t, 80*2+45.5, order.Total, 0.001)
	assert.Len(t, order.Items, 2)

	// Le panier est vidé après la commande
	assert.Empty(t, carts.items[testUser])

	// La session est consommée : re-soumettre échoue
	_, err = svc.Submit(ctx, testUser)
	assert.ErrorIs(t, err, ErrNoSession)
	assert.Len(t, orders.created, 1)
}

func TestSubmitFailureStaysInChoosingPaymentMethod(t *testing.T) {
	svc, orders, carts := newCheckoutFixture(t)
	ctx := context.Background()

	advanceToPayment(t, svc, models.PaymentCash)

	orders.failing = true
	_, err := svc.Submit(ctx, testUser)
	require.Error(t, err)
	assert.Empty(t, orders.created)

	// Le panier est intact et la machine attend un nouveau Submit
	assert.Len(t, carts.items[testUser], 2)
	m, err := svc.Load(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, StateChoosingPaymentMethod, m.State)

	// L'utilisateur relance lui-même : cette fois ça passe
	orders.failing = false
	order, err := svc.Submit(ctx, testUser)
	require.NoError(t, err)
	assert.Len(t, orders.created, 1)
	assert.Equal(t, models.OrderStatusPending, order.Status)
}

func TestBeginRejectsEmptyCart(t *testing.T) {
	svc, _, carts := newCheckoutFixture(t)
	carts.items[testUser] = nil

	_, err := svc.Begin(context.Background(), testUser)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestDebitOrderNeverPersistsFullCardNumber(t *testing.T) {
	svc, orders, _ := newCheckoutFixture(t)
	ctx := context.Background()

	advanceToPayment(t, svc, models.PaymentDebit)

	order, err := svc.Submit(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, orders.created, 1)

	assert.Equal(t, "1111", order.Payment.CardLast4)
	assert.Empty(t, order.Payment.TransactionID)

	// Aucune trace du PAN complet dans ce qui part au store
	assert.NotContains(t, order.Payment.CardHolder, "4111111111111111")
	assert.NotEqual(t, "4111111111111111", order.Payment.CardLast4)
}

func TestWalletOrderCarriesTransactionReference(t *testing.T) {
	svc, _, _ := newCheckoutFixture(t)
	ctx := context.Background()

	advanceToPayment(t, svc, models.PaymentJazzcash)

	order, err := svc.Submit(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, "TX42", order.Payment.TransactionID)
	assert.Equal(t, "/payments/tx42.png", order.Payment.ScreenshotURL)
	assert.Empty(t, order.Payment.CardLast4)
}
