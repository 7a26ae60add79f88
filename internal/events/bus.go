package events

import "sync"

// mailboxSize bounds each subscriber's delivery queue. A client that falls
// this far behind is treated as dead and dropped on the next publish.
const mailboxSize = 64

// Subscriber is one client's mailbox. The SSE gateway owns it for the
// lifetime of a connection; the bus only holds a membership reference.
type Subscriber struct {
	ch chan []byte
}

// C is the receive side of the mailbox. Each value is one serialized event.
func (s *Subscriber) C() <-chan []byte {
	return s.ch
}

// Bus is an in-process broadcast dispatcher. Every published event is
// serialized once and fanned out to all current subscribers; a subscriber
// never sees events published before it joined.
type Bus struct {
	mu   sync.Mutex
	subs map[*Subscriber]struct{}
}

func NewBus() *Bus {
	return &Bus{subs: make(map[*Subscriber]struct{})}
}

// Subscribe registers a new mailbox. The connected handshake event is already
// queued on it, and only on it.
func (b *Bus) Subscribe() *Subscriber {
	sub := &Subscriber{ch: make(chan []byte, mailboxSize)}
	sub.ch <- Connected().Encode()

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	return sub
}

// Unsubscribe removes the mailbox and closes it. Safe to call more than once.
func (b *Bus) Unsubscribe(sub *Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[sub]; ok {
		delete(b.subs, sub)
		close(sub.ch)
	}
}

// Publish serializes the event and delivers it to every subscriber without
// blocking. A full mailbox means the client is gone or hopelessly behind;
// those subscribers are collected during the pass and removed after it, so
// the set is never mutated mid-iteration.
func (b *Bus) Publish(evt Event) {
	payload := evt.Encode()

	b.mu.Lock()
	defer b.mu.Unlock()

	var dead []*Subscriber
	for sub := range b.subs {
		select {
		case sub.ch <- payload:
		default:
			dead = append(dead, sub)
		}
	}

	for _, sub := range dead {
		delete(b.subs, sub)
		close(sub.ch)
	}
}

// Len reports the current subscriber count.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
