package openaddr

import "github.com/scottcagno/hashtable/pkg/hashmap"

// slotState tells apart the three things a slot can hold
type slotState uint8

const (
	stateEmpty     slotState = iota // never held an entry since the last resize
	stateLive                       // holds an entry
	stateTombstone                  // held an entry that has since been deleted
)

// isEmpty returns true if the slot never held an entry
func (s slotState) isEmpty() bool {
	return s == stateEmpty
}

// isLive returns true if the slot holds an entry
func (s slotState) isLive() bool {
	return s == stateLive
}

// isTombstone returns true if the slot held an entry that has since been deleted
func (s slotState) isTombstone() bool {
	return s == stateTombstone
}

// mustGrow reports whether placing one more entry would push live entries and
// tombstones together past the load factor. Tombstones are counted so the
// array always keeps at least one empty slot to end a probe on.
func mustGrow(live, tombs, n uint) bool {
	return hashmap.ExceedsLoad(uint64(live+tombs)+1, uint64(n))
}

// rebuildSize returns the slot count to rebuild a table of n slots into once
// mustGrow fires. The table only doubles when its live entries need the
// room, otherwise it is rebuilt at the same size to clear the tombstones.
func rebuildSize(live, n uint) uint {
	if hashmap.ExceedsLoad(uint64(live)+1, uint64(n)) {
		return n * 2
	}
	return n
}

// cloneKey returns a copy of key the table can own
func cloneKey(key []byte) []byte {
	return append([]byte(nil), key...)
}
