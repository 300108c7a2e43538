package events

import (
	"context"
	"sync"
)

// Subscriber receives events in the order they were produced.
type Subscriber interface {
	Notify(event Event)
}

// SubscriberFunc adapts a plain function to Subscriber.
type SubscriberFunc func(event Event)

func (f SubscriberFunc) Notify(event Event) { f(event) }

// Notifier fans events out to subscribers from a single goroutine. Publish
// never blocks, so subscribers are free to call back into the node.
type Notifier struct {
	mu          sync.Mutex
	cond        *sync.Cond
	queue       Events
	subscribers []Subscriber
	closed      bool
}

func NewNotifier() *Notifier {
	n := &Notifier{}
	n.cond = sync.NewCond(&n.mu)
	return n
}

func (n *Notifier) Subscribe(subscriber Subscriber) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.subscribers = append(n.subscribers, subscriber)
}

func (n *Notifier) Publish(events ...Event) {
	if len(events) == 0 {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}
	n.queue = append(n.queue, events...)
	n.cond.Signal()
}

// Run delivers queued events until ctx is done. Events still queued at that
// moment are delivered before Run returns.
func (n *Notifier) Run(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			n.mu.Lock()
			n.closed = true
			n.cond.Broadcast()
			n.mu.Unlock()
		case <-stop:
		}
	}()

	for {
		n.mu.Lock()
		for len(n.queue) == 0 && !n.closed {
			n.cond.Wait()
		}
		batch := n.queue
		n.queue = nil
		closed := n.closed
		subscribers := append([]Subscriber{}, n.subscribers...)
		n.mu.Unlock()

		for _, event := range batch {
			for _, subscriber := range subscribers {
				subscriber.Notify(event)
			}
		}

		if closed {
			return ctx.Err()
		}
	}
}
