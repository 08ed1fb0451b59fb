package identity

import (
	"sync"

	"jamsfrag_back_end/internal/models"
)

// Les composants intéressés par l'état de session (nettoyage de miroirs,
// journalisation, caches par utilisateur) s'abonnent ici plutôt que
// d'interroger le service. Chaque abonnement se libère avec Close().

type EventKind string

const (
	EventSignedIn  EventKind = "signed_in"
	EventSignedOut EventKind = "signed_out"
)

// Event : un changement de session. User est nil pour un sign-out.
type Event struct {
	Kind   EventKind
	UserID string
	User   *models.User
}

// Observer diffuse les événements de session en mémoire, dans le processus.
type Observer struct {
	mu   sync.Mutex
	subs map[*SessionSubscription]struct{}
}

func NewObserver() *Observer {
	return &Observer{subs: make(map[*SessionSubscription]struct{})}
}

// SessionSubscription : flux d'événements de session, à fermer par son propriétaire.
type SessionSubscription struct {
	obs    *Observer
	events chan Event
	once   sync.Once
}

func (s *SessionSubscription) Events() <-chan Event { return s.events }

// Close désinscrit l'abonné et ferme le canal. Idempotent.
func (s *SessionSubscription) Close() error {
	s.once.Do(func() {
		s.obs.mu.Lock()
		delete(s.obs.subs, s)
		s.obs.mu.Unlock()
		close(s.events)
	})
	return nil
}

// Subscribe enregistre un nouvel abonné. Un abonné lent perd des événements
// plutôt que de bloquer l'émetteur.
func (o *Observer) Subscribe() *SessionSubscription {
	sub := &SessionSubscription{obs: o, events: make(chan Event, 8)}
	o.mu.Lock()
	o.subs[sub] = struct{}{}
	o.mu.Unlock()
	return sub
}

func (o *Observer) notifySignIn(user *models.User) {
	o.broadcast(Event{Kind: EventSignedIn, UserID: user.ID, User: user})
}

func (o *Observer) notifySignOut(userID string) {
	o.broadcast(Event{Kind: EventSignedOut, UserID: userID})
}

func (o *Observer) broadcast(ev Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for sub := range o.subs {
		select {
		case sub.events <- ev:
		default:
		}
	}
}
