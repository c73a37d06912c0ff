package backend

import (
	"log/slog"
	"sync"
)

// EventType distinguishes session notifications.
type EventType int

// Session event types. SessionEstablished fires on any successful
// authentication (including a signup that returns a session);
// SessionCleared fires on sign-out.
const (
	SessionEstablished EventType = iota
	SessionCleared
)

// Event is one discrete session-state transition.
type Event struct {
	Type    EventType
	Session Session
}

// Notifier broadcasts session events to subscribers. It decouples
// "credentials submitted" from what happens next: the auth operations
// publish, and the wizard/session-gate side reacts.
type Notifier struct {
	mu   sync.Mutex
	subs []chan Event
}

// NewNotifier creates an empty Notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe registers a new subscriber and returns its channel. Intended
// to be called once per consumer at startup.
func (n *Notifier) Subscribe() <-chan Event {
	ch := make(chan Event, 16)
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subs = append(n.subs, ch)
	return ch
}

// publish delivers ev to every subscriber. A subscriber that has fallen
// behind loses the event rather than blocking auth operations.
func (n *Notifier) publish(ev Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subs {
		select {
		case ch <- ev:
		default:
			slog.Warn("session_event_dropped", "type", int(ev.Type), "user_id", ev.Session.UserID)
		}
	}
}
