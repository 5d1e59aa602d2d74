package event

import (
	"testing"

	"github.com/photonfront/server/internal/geom"
)

func TestFlushDeliversEmittedBatch(t *testing.T) {
	b := NewBus()
	var got []UnitDied
	Subscribe(b, func(ev UnitDied) { got = append(got, ev) })

	Emit(b, UnitDied{UnitID: 7, TypeKey: "striker", Owner: 0, Killer: 1})
	Emit(b, UnitDied{UnitID: 9, TypeKey: "medic", Owner: 1, Killer: -1})
	if len(got) != 0 {
		t.Fatalf("delivered %d events before Flush, expected 0", len(got))
	}

	b.Flush()
	if len(got) != 2 {
		t.Fatalf("delivered %d events after Flush, expected 2", len(got))
	}
	if got[0].UnitID != 7 || got[0].Killer != 1 {
		t.Errorf("first event = %+v, expected UnitID 7 killed by owner 1", got[0])
	}
	if got[1].UnitID != 9 || got[1].Killer != -1 {
		t.Errorf("second event = %+v, expected UnitID 9 unattributed", got[1])
	}
}

func TestDispatchKeyedByEventType(t *testing.T) {
	b := NewBus()
	var deaths, lasers int
	Subscribe(b, func(UnitDied) { deaths++ })
	Subscribe(b, func(LaserFired) { lasers++ })

	Emit(b, LaserFired{Owner: 0, Direction: geom.V(1, 0)})
	b.Flush()

	if deaths != 0 {
		t.Errorf("UnitDied handler fired %d times for a LaserFired event", deaths)
	}
	if lasers != 1 {
		t.Errorf("LaserFired handler fired %d times, expected 1", lasers)
	}
}

func TestEverySubscriberReceivesTheEvent(t *testing.T) {
	b := NewBus()
	var first, second int
	Subscribe(b, func(MatchDecided) { first++ })
	Subscribe(b, func(MatchDecided) { second++ })

	Emit(b, MatchDecided{Winner: 1, Elapsed: 42})
	b.Flush()

	if first != 1 || second != 1 {
		t.Errorf("handler calls = (%d, %d), expected (1, 1)", first, second)
	}
}

func TestEmitDuringFlushWaitsForNextFlush(t *testing.T) {
	b := NewBus()
	var seen []int32
	Subscribe(b, func(ev UnitDied) {
		seen = append(seen, ev.UnitID)
		if ev.UnitID == 1 {
			// A handler reacting to a death by emitting another event must
			// not have it delivered inside the same batch.
			Emit(b, UnitDied{UnitID: 2})
		}
	})

	Emit(b, UnitDied{UnitID: 1})
	b.Flush()
	if len(seen) != 1 || seen[0] != 1 {
		t.Fatalf("first batch = %v, expected [1]", seen)
	}

	b.Flush()
	if len(seen) != 2 || seen[1] != 2 {
		t.Fatalf("after second Flush seen = %v, expected [1 2]", seen)
	}
}

func TestFlushClearsDeliveredEvents(t *testing.T) {
	b := NewBus()
	var count int
	Subscribe(b, func(UnitSpawned) { count++ })

	Emit(b, UnitSpawned{UnitID: 1, TypeKey: "blade"})
	b.Flush()
	b.Flush()
	if count != 1 {
		t.Fatalf("handler fired %d times across two flushes of one event, expected 1", count)
	}

	Emit(b, UnitSpawned{UnitID: 2, TypeKey: "ghost"})
	b.Flush()
	if count != 2 {
		t.Fatalf("handler fired %d times total, expected 2", count)
	}
}

func TestNilBusDropsEverything(t *testing.T) {
	var b *Bus
	Emit(b, UnitDied{UnitID: 1})
	b.Flush()
	// Nothing to assert beyond the absence of a panic: a match with no hooks
	// attached runs with a nil bus throughout.
}
