// Package realtime modélise les abonnements temps réel du magasin :
// un canal par panier (cart:{uid}) et par produit (product:{id}).
// Le message publié est une simple notification ; les consommateurs relisent
// le snapshot autoritaire dans le store, jamais un diff.
package realtime

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Messages publiés sur les canaux
const (
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// CartChannel retourne le canal pub/sub du panier d'un utilisateur.
func CartChannel(userID string) string { return "cart:" + userID }

// ProductChannel retourne le canal pub/sub d'une fiche produit.
func ProductChannel(productID string) string { return "product:" + productID }

// Subscription est un abonnement vivant. Events reste ouvert jusqu'à Close :
// le propriétaire DOIT appeler Close quand sa vue disparaît, sinon les
// abonnements s'accumulent sans limite au fil des navigations.
type Subscription interface {
	Events() <-chan string
	Close() error
}

// Bus publie et souscrit aux notifications de changement.
type Bus interface {
	Publish(ctx context.Context, channel, event string) error
	Subscribe(ctx context.Context, channel string) (Subscription, error)
}

// RedisBus implémente Bus sur le pub/sub Redis.
type RedisBus struct {
	Client *redis.Client
}

func NewRedisBus(client *redis.Client) *RedisBus {
	return &RedisBus{Client: client}
}

func (b *RedisBus) Publish(ctx context.Context, channel, event string) error {
	return b.Client.Publish(ctx, channel, event).Err()
}

func (b *RedisBus) Subscribe(ctx context.Context, channel string) (Subscription, error) {
	pubsub := b.Client.Subscribe(ctx, channel)

	// Attendre la confirmation d'abonnement pour ne pas perdre
	// les notifications émises juste après
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}

	sub := &redisSubscription{pubsub: pubsub, events: make(chan string, 8)}
	go sub.pump()
	return sub, nil
}

type redisSubscription struct {
	pubsub *redis.PubSub
	events chan string
}

func (s *redisSubscription) pump() {
	defer close(s.events)
	for msg := range s.pubsub.Channel() {
		s.events <- msg.Payload
	}
}

func (s *redisSubscription) Events() <-chan string { return s.events }

func (s *redisSubscription) Close() error { return s.pubsub.Close() }
