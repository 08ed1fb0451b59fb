package cart

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jamsfrag_back_end/internal/models"
	"jamsfrag_back_end/internal/realtime"
	"jamsfrag_back_end/internal/store"
)

// ---------- fakes ----------

type memCarts struct {
	mu    sync.Mutex
	items map[string][]models.CartItem
}

func newMemCarts() *memCarts { return &memCarts{items: map[string][]models.CartItem{}} }

func (c *memCarts) List(_ context.Context, userID string) ([]models.CartItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.CartItem(nil), c.items[userID]...), nil
}

func (c *memCarts) Add(_ context.Context, userID string, item *models.CartItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	item.ID = gocql.TimeUUID()
	c.items[userID] = append(c.items[userID], *item)
	return nil
}

func (c *memCarts) AdjustQuantity(_ context.Context, userID string, itemID gocql.UUID, delta int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
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
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items[userID] {
		if c.items[userID][i].ID == itemID {
			c.items[userID][i].Quantity = quantity
			return nil
		}
	}
	return store.ErrNotFound
}

func (c *memCarts) Remove(_ context.Context, userID string, itemID gocql.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
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

// memBus : bus pub/sub en mémoire, même contrat que RedisBus.
type memBus struct {
	mu   sync.Mutex
	subs map[string][]*memSub
}

func newMemBus() *memBus { return &memBus{subs: map[string][]*memSub{}} }

type memSub struct {
	bus     *memBus
	channel string
	events  chan string
	once    sync.Once
}

func (s *memSub) Events() <-chan string { return s.events }

func (s *memSub) Close() error {
	s.once.Do(func() {
		s.bus.mu.Lock()
		kept := s.bus.subs[s.channel][:0]
		for _, sub := range s.bus.subs[s.channel] {
			if sub != s {
				kept = append(kept, sub)
			}
		}
		s.bus.subs[s.channel] = kept
		s.bus.mu.Unlock()
		close(s.events)
	})
	return nil
}

func (b *memBus) Publish(_ context.Context, channel, event string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.subs[channel] {
		sub.events <- event
	}
	return nil
}

func (b *memBus) Subscribe(_ context.Context, channel string) (realtime.Subscription, error) {
	sub := &memSub{bus: b, channel: channel, events: make(chan string, 16)}
	b.mu.Lock()
	b.subs[channel] = append(b.subs[channel], sub)
	b.mu.Unlock()
	return sub, nil
}

func (b *memBus) subscriberCount(channel string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[channel])
}

// ---------- montage ----------

const testUser = "user-1"

func newFixture() (*Service, *memCarts, *memProducts, *memBus) {
	carts := newMemCarts()
	products := &memProducts{byID: map[gocql.UUID]models.Product{}}
	bus := newMemBus()
	return NewService(carts, products, bus), carts, products, bus
}

func seedProduct(products *memProducts, price, discount float64) gocql.UUID {
	id := gocql.TimeUUID()
	products.byID[id] = models.Product{
		ID: id, Name: "Oud Royal", Price: price, Discount: discount,
		ImageURL: "/img/oud.png", Category: models.CategoryMen,
	}
	return id
}

// ---------- tests service ----------

func TestAddDenormalizesEffectivePrice(t *testing.T) {
	svc, _, products, _ := newFixture()
	ctx := context.Background()

	// 100 remisé de 20% → 80.00 exactement
	id := seedProduct(products, 100, 20)

	item, err := svc.Add(ctx, testUser, id)
	require.NoError(t, err)
	assert.Equal(t, 80.00, item.Price)
	assert.Equal(t, 1, item.Quantity)
	assert.Equal(t, "Oud Royal", item.Name)
}

func TestAddUnknownProduct(t *testing.T) {
	svc, _, _, _ := newFixture()

	_, err := svc.Add(context.Background(), testUser, gocql.TimeUUID())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestQuantityRoundTrip(t *testing.T) {
	svc, _, products, _ := newFixture()
	ctx := context.Background()

	id := seedProduct(products, 50, 0)
	item, err := svc.Add(ctx, testUser, id)
	require.NoError(t, err)

	qty, err := svc.Increase(ctx, testUser, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, qty)

	qty, err = svc.Decrease(ctx, testUser, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, qty)
}

func TestDecreaseFloorsAtOne(t *testing.T) {
	svc, carts, products, _ := newFixture()
	ctx := context.Background()

	id := seedProduct(products, 50, 0)
	item, err := svc.Add(ctx, testUser, id)
	require.NoError(t, err)

	// Décrémenter à quantité 1 : no-op, jamais de suppression
	qty, err := svc.Decrease(ctx, testUser, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, qty)

	items, _ := carts.List(ctx, testUser)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestSetQuantityRejectsBelowOne(t *testing.T) {
	svc, _, products, _ := newFixture()
	ctx := context.Background()

	id := seedProduct(products, 50, 0)
	item, err := svc.Add(ctx, testUser, id)
	require.NoError(t, err)

	assert.Error(t, svc.SetQuantity(ctx, testUser, item.ID, 0))
	assert.NoError(t, svc.SetQuantity(ctx, testUser, item.ID, 7))

	snap, err := svc.Snapshot(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 7, snap.Items[0].Quantity)
}

func TestSnapshotTotalIsOrderIndependent(t *testing.T) {
	svc, _, products, _ := newFixture()
	ctx := context.Background()

	a := seedProduct(products, 80, 0)
	b := seedProduct(products, 45.5, 0)
	c := seedProduct(products, 19.99, 0)

	itemA, _ := svc.Add(ctx, testUser, a)
	_, _ = svc.Add(ctx, testUser, b)
	_, _ = svc.Add(ctx, testUser, c)
	_, err := svc.Increase(ctx, testUser, itemA.ID)
	require.NoError(t, err)

	snap, err := svc.Snapshot(ctx, testUser)
	require.NoError(t, err)
	assert.InDelta(t, 80*2+45.5+19.99, snap.Total, 0.001)
	assert.Equal(t, 3, snap.Count)
}

// ---------- tests miroir ----------

func TestMirrorReplacesSnapshotOnEachPush(t *testing.T) {
	svc, _, products, _ := newFixture()
	ctx := context.Background()

	id := seedProduct(products, 100, 20)
	item, err := svc.Add(ctx, testUser, id)
	require.NoError(t, err)

	mirror, err := svc.OpenMirror(ctx, testUser)
	require.NoError(t, err)
	defer mirror.Close()

	assert.Equal(t, 1, mirror.Current().Count)
	assert.InDelta(t, 80.0, mirror.Current().Total, 0.001)

	_, err = svc.Increase(ctx, testUser, item.ID)
	require.NoError(t, err)

	select {
	case snap := <-mirror.Updates():
		assert.Equal(t, 2, snap.Items[0].Quantity)
		assert.InDelta(t, 160.0, snap.Total, 0.001)
	case <-time.After(time.Second):
		t.Fatal("aucun snapshot reçu après la mutation")
	}

	require.NoError(t, svc.Remove(ctx, testUser, item.ID))
	select {
	case snap := <-mirror.Updates():
		assert.Equal(t, 0, snap.Count)
		assert.Zero(t, snap.Total)
	case <-time.After(time.Second):
		t.Fatal("aucun snapshot reçu après le retrait")
	}
}

func TestMirrorCloseTearsDownSubscription(t *testing.T) {
	svc, _, products, bus := newFixture()
	ctx := context.Background()

	seedProduct(products, 10, 0)
	mirror, err := svc.OpenMirror(ctx, testUser)
	require.NoError(t, err)
	require.Equal(t, 1, bus.subscriberCount(realtime.CartChannel(testUser)))

	require.NoError(t, mirror.Close())
	assert.Equal(t, 0, bus.subscriberCount(realtime.CartChannel(testUser)))

	// Le canal d'updates finit par se fermer
	select {
	case _, open := <-mirror.Updates():
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("le canal d'updates n'a pas été fermé")
	}
}

func TestClearEmptiesCart(t *testing.T) {
	svc, carts, products, _ := newFixture()
	ctx := context.Background()

	id := seedProduct(products, 10, 0)
	_, err := svc.Add(ctx, testUser, id)
	require.NoError(t, err)
	_, err = svc.Add(ctx, testUser, id)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, testUser))
	items, _ := carts.List(ctx, testUser)
	assert.Empty(t, items)
}
