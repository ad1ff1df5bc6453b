package nodeserver

import (
	"bytes"
	"strconv"

	"fiatjaf.com/nostrnode"
)

type memoryStore struct {
	events *nostrnode.MapOf[string, nostrnode.Event]
}

func newMemoryStore() *memoryStore {
	return &memoryStore{events: nostrnode.NewMapOf[string, nostrnode.Event]()}
}

// slotKey identifies where an event lives: replaceable events share a slot per
// author and kind, addressable ones per author, kind and "d" tag, regular ones
// are keyed by id (passed as d).
func slotKey(author nostrnode.PubKey, kind nostrnode.Kind, d string) string {
	key := author.Hex() + ":" + strconv.Itoa(int(kind))
	if !kind.IsReplaceable() {
		key += ":" + d
	}
	return key
}

func slotOf(evt nostrnode.Event) string {
	switch {
	case evt.Kind.IsReplaceable():
		return slotKey(evt.PubKey, evt.Kind, "")
	case evt.Kind.IsAddressable():
		return slotKey(evt.PubKey, evt.Kind, evt.Tags.GetD())
	default:
		return slotKey(evt.PubKey, evt.Kind, evt.ID.Hex())
	}
}

// save stores evt unless an equal or newer one is already in its slot.
// Ties on created_at are broken by the lowest id.
func (s *memoryStore) save(evt nostrnode.Event) (stored bool) {
	s.events.Compute(slotOf(evt), func(current nostrnode.Event, loaded bool) (nostrnode.Event, bool) {
		if loaded {
			if current.ID == evt.ID ||
				current.CreatedAt > evt.CreatedAt ||
				(current.CreatedAt == evt.CreatedAt && bytes.Compare(current.ID[:], evt.ID[:]) < 0) {
				return current, false
			}
		}
		stored = true
		return evt, false
	})
	return stored
}

func (s *memoryStore) get(key string) (nostrnode.Event, bool) {
	return s.events.Load(key)
}
