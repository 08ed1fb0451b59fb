package cart

import (
	"context"
	"log"
	"sync"

	"jamsfrag_back_end/internal/realtime"
)

// Mirror maintient une copie locale du panier d'un utilisateur, synchronisée
// par les notifications du bus. À chaque push il remplace l'état entier par
// le snapshot relu dans le store — le store reste la seule source de vérité.
// Le propriétaire DOIT appeler Close quand la vue disparaît.
type Mirror struct {
	userID  string
	service *Service
	sub     realtime.Subscription
	cancel  context.CancelFunc

	mu      sync.RWMutex
	current Snapshot

	updates chan Snapshot
}

// OpenMirror charge l'état initial puis s'abonne au canal de l'utilisateur.
func (s *Service) OpenMirror(ctx context.Context, userID string) (*Mirror, error) {
	initial, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	sub, err := s.Bus.Subscribe(ctx, realtime.CartChannel(userID))
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	m := &Mirror{
		userID:  userID,
		service: s,
		sub:     sub,
		cancel:  cancel,
		current: initial,
		updates: make(chan Snapshot, 8),
	}
	go m.run(runCtx)
	return m, nil
}

func (m *Mirror) run(ctx context.Context) {
	defer close(m.updates)

	for range m.sub.Events() {
		snap, err := m.service.Snapshot(ctx, m.userID)
		if err != nil {
			// Lecture ratée : on garde l'état courant, la prochaine
			// notification retentera
			log.Printf("⚠️ Erreur relecture panier %s: %v", m.userID, err)
			continue
		}

		m.mu.Lock()
		m.current = snap
		m.mu.Unlock()

		select {
		case m.updates <- snap:
		case <-ctx.Done():
			return
		}
	}
}

// Current retourne le dernier snapshot confirmé.
func (m *Mirror) Current() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Updates livre chaque snapshot de remplacement, dans l'ordre d'émission
// du backend. Le canal est fermé par Close.
func (m *Mirror) Updates() <-chan Snapshot { return m.updates }

// Close résilie l'abonnement. Idempotent côté pub/sub Redis.
func (m *Mirror) Close() error {
	m.cancel()
	return m.sub.Close()
}
