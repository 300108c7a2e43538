package events

import (
	"encoding/binary"
	"sync"

	"github.com/pkg/errors"
	"github.com/tendermint/go-amino"
	db "github.com/tendermint/tm-db"
)

// IEventsDB is an interface of Events
type IEventsDB interface {
	AddEvent(event Event)
	LoadEvents(height uint32) Events
	CommitEvents(height uint32) error
	Pending() Events
}

// Publisher receives every event as soon as it is added.
type Publisher interface {
	Publish(events ...Event)
}

type eventsStore struct {
	cdc *amino.Codec
	sync.RWMutex
	db         db.DB
	pending    pendingEvents
	publishers []Publisher
}

type pendingEvents struct {
	sync.Mutex
	items Events
}

// NewEventsStore creates new events store in given DB
func NewEventsStore(db db.DB, publishers ...Publisher) IEventsDB {
	codec := amino.NewCodec()
	registerAminoEvents(codec)

	return &eventsStore{
		cdc:        codec,
		db:         db,
		publishers: publishers,
	}
}

// NewPublishOnlyStore forwards events to publishers and drops them on commit.
func NewPublishOnlyStore(publishers ...Publisher) IEventsDB {
	return &eventsStore{publishers: publishers}
}

func (store *eventsStore) AddEvent(event Event) {
	store.pending.Lock()
	store.pending.items = append(store.pending.items, event)
	store.pending.Unlock()

	for _, publisher := range store.publishers {
		publisher.Publish(event)
	}
}

// Pending returns the events added since the last commit.
func (store *eventsStore) Pending() Events {
	store.pending.Lock()
	defer store.pending.Unlock()

	return append(Events{}, store.pending.items...)
}

func (store *eventsStore) LoadEvents(height uint32) Events {
	if store.db == nil {
		return Events{}
	}

	store.RLock()
	bytes, err := store.db.Get(uint32ToBytes(height))
	store.RUnlock()
	if err != nil {
		panic(err)
	}
	if len(bytes) == 0 {
		return Events{}
	}

	var items Events
	if err := store.cdc.UnmarshalBinaryBare(bytes, &items); err != nil {
		panic(err)
	}

	return items
}

// CommitEvents saves the pending events under height. Heights without events
// are not written.
func (store *eventsStore) CommitEvents(height uint32) error {
	store.pending.Lock()
	defer store.pending.Unlock()

	if len(store.pending.items) == 0 {
		return nil
	}

	if store.db == nil {
		store.pending.items = nil
		return nil
	}

	bytes, err := store.cdc.MarshalBinaryBare(store.pending.items)
	if err != nil {
		return errors.Wrapf(err, "encode events at %d", height)
	}

	store.Lock()
	defer store.Unlock()
	if err := store.db.Set(uint32ToBytes(height), bytes); err != nil {
		return errors.Wrapf(err, "save events at %d", height)
	}

	store.pending.items = nil
	return nil
}

func uint32ToBytes(height uint32) []byte {
	var h = make([]byte, 4)
	binary.BigEndian.PutUint32(h, height)
	return h
}
