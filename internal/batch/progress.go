package batch

import "sync"

// EventType labels a progress event.
type EventType string

const (
	EventStarted  EventType = "started"
	EventTicker   EventType = "ticker"
	EventSkipped  EventType = "skipped"
	EventFinished EventType = "finished"
)

// Event is one progress update from a batch run.
type Event struct {
	Type           EventType `json:"type"`
	Ticker         string    `json:"ticker,omitempty"`
	Index          int       `json:"index,omitempty"`
	Total          int       `json:"total"`
	PredictedPrice float64   `json:"predicted_price,omitempty"`
	Direction      int       `json:"predicted_direction,omitempty"`
	Error          string    `json:"error,omitempty"`
}

const subscriberBuffer = 16

// Broker fans batch progress events out to subscribers. Slow subscribers
// drop events rather than stalling the batch run.
type Broker struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a new subscriber channel.
func (b *Broker) Subscribe() chan Event {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Broker) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

// Publish delivers an event to every subscriber without blocking.
func (b *Broker) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
			// Subscriber buffer full, drop.
		}
	}
}

// SubscriberCount reports the number of active subscribers.
func (b *Broker) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
