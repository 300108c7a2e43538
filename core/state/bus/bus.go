package bus

import eventsdb "github.com/flightsurety/surety-node/core/events"

type Bus struct {
	app      App
	accounts Accounts
	events   eventsdb.IEventsDB
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) SetApp(app App) {
	b.app = app
}

func (b *Bus) App() App {
	return b.app
}

func (b *Bus) SetAccounts(accounts Accounts) {
	b.accounts = accounts
}

func (b *Bus) Accounts() Accounts {
	return b.accounts
}

func (b *Bus) SetEvents(events eventsdb.IEventsDB) {
	b.events = events
}

// Events returns the events sink. Read-only states have none, so a sink
// dropping everything is returned instead.
func (b *Bus) Events() eventsdb.IEventsDB {
	if b.events == nil {
		return discard{}
	}
	return b.events
}

type discard struct{}

func (discard) AddEvent(eventsdb.Event)           {}
func (discard) LoadEvents(uint32) eventsdb.Events { return nil }
func (discard) CommitEvents(uint32) error         { return nil }
func (discard) Pending() eventsdb.Events          { return nil }
