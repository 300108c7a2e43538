package events

import (
	"testing"

	"github.com/flightsurety/surety-node/core/types"
	db "github.com/tendermint/tm-db"
)

type recorder struct {
	events Events
}

func (r *recorder) Publish(events ...Event) {
	r.events = append(r.events, events...)
}

func TestIEventsDB(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	store := NewEventsStore(db.NewMemDB(), rec)

	airline := types.HexToAddress("0x04bea23efb744dc93b4fda4c20bf4a21c6e195f1")
	passenger := types.HexToAddress("0x18467bbb64a8edf890201d526c35957d82be3d95")

	store.AddEvent(&AirlineRegisteredEvent{Airline: airline, Count: 2})
	store.AddEvent(&InsurancePurchasedEvent{
		Passenger: passenger,
		Flight:    "ND1309",
		Airline:   airline,
		Premium:   "1000000000000000000",
	})
	if len(store.Pending()) != 2 {
		t.Fatalf("pending events count %d", len(store.Pending()))
	}
	if err := store.CommitEvents(12); err != nil {
		t.Fatal(err)
	}
	if len(store.Pending()) != 0 {
		t.Fatal("pending events were not flushed")
	}

	store.AddEvent(&OracleRegisteredEvent{Oracle: passenger, Indexes: [3]uint8{1, 4, 9}})
	store.AddEvent(&OperatingStatusEvent{Operational: false})
	if err := store.CommitEvents(14); err != nil {
		t.Fatal(err)
	}

	if err := store.CommitEvents(15); err != nil {
		t.Fatal(err)
	}

	loadEvents := store.LoadEvents(12)
	if len(loadEvents) != 2 {
		t.Fatalf("count of events not equal 2, got %d", len(loadEvents))
	}
	if loadEvents[0].Type() != TypeAirlineRegisteredEvent {
		t.Fatal("invalid event type")
	}
	if loadEvents[0].(*AirlineRegisteredEvent).Airline != airline {
		t.Fatal("invalid Airline")
	}
	if loadEvents[0].(*AirlineRegisteredEvent).Count != 2 {
		t.Fatal("invalid Count")
	}
	if loadEvents[1].(*InsurancePurchasedEvent).Premium != "1000000000000000000" {
		t.Fatal("invalid Premium")
	}
	if loadEvents[1].(*InsurancePurchasedEvent).Flight != "ND1309" {
		t.Fatal("invalid Flight")
	}

	loadEvents = store.LoadEvents(14)
	if len(loadEvents) != 2 {
		t.Fatalf("count of events not equal 2, got %d", len(loadEvents))
	}
	if loadEvents[0].(*OracleRegisteredEvent).Indexes != [3]uint8{1, 4, 9} {
		t.Fatal("invalid Indexes")
	}
	if loadEvents[1].Type() != TypeOperatingStatusEvent {
		t.Fatal("invalid event type")
	}

	if len(store.LoadEvents(15)) != 0 {
		t.Fatal("empty height has events")
	}

	if len(rec.events) != 4 {
		t.Fatalf("publisher got %d events", len(rec.events))
	}
}

func TestMarshalJSON(t *testing.T) {
	t.Parallel()
	body, err := MarshalJSON(&FlightStatusInfoEvent{
		Airline:   types.HexToAddress("0x04bea23efb744dc93b4fda4c20bf4a21c6e195f1"),
		Flight:    "ND1309",
		Timestamp: 1700000000,
		Status:    types.StatusLateAirline,
	})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"type":"surety/FlightStatusInfo","value":{"airline":"0x04bea23efb744dc93b4fda4c20bf4a21c6e195f1","flight":"ND1309","timestamp":1700000000,"status":20}}`
	if string(body) != want {
		t.Fatalf("got %s", body)
	}
}

func TestPublishOnlyStore(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	store := NewPublishOnlyStore(rec)

	store.AddEvent(&OperatingStatusEvent{Operational: false})
	if err := store.CommitEvents(1); err != nil {
		t.Fatal(err)
	}

	if len(store.Pending()) != 0 {
		t.Fatal("pending events must be dropped on commit")
	}
	if len(store.LoadEvents(1)) != 0 {
		t.Fatal("publish only store must not persist events")
	}
	if len(rec.events) != 1 {
		t.Fatalf("publisher got %d events", len(rec.events))
	}
}
