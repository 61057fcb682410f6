package editor

import "sync"

// Level classifies a notification for the presentation layer.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification reports the outcome of an intent.
type Notification struct {
	Level   Level
	Intent  Intent
	Message string
}

// Notifier renders notifications, e.g. as toasts.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

type EventKind int

const (
	// EventState carries a state snapshot taken after a change.
	EventState EventKind = iota
	// EventNotification carries an intent outcome.
	EventNotification
)

// Event is delivered to subscribers.
type Event struct {
	Kind         EventKind
	State        State
	Notification Notification
}

// Subscription receives controller events until it is closed.
type Subscription struct {
	C   <-chan Event
	ch  chan Event
	hub *hub
}

// Close detaches the subscription and closes C.
func (s *Subscription) Close() {
	s.hub.remove(s)
}

// hub fans events out to subscribers. Slow subscribers miss events rather
// than block the controller.
type hub struct {
	mu   sync.RWMutex
	subs map[*Subscription]bool
}

func newHub() *hub {
	return &hub{subs: make(map[*Subscription]bool)}
}

func (h *hub) add(buffer int) *Subscription {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	s := &Subscription{C: ch, ch: ch, hub: h}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[s] = true
	return s
}

func (h *hub) remove(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.subs[s] {
		return
	}
	delete(h.subs, s)
	close(s.ch)
}

func (h *hub) broadcast(e Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subs {
		select {
		case s.ch <- e:
		default:
		}
	}
}
