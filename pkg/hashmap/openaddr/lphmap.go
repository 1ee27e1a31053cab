package openaddr

import (
	"bytes"

	"github.com/scottcagno/hashtable/pkg/hash"
	"github.com/scottcagno/hashtable/pkg/hashmap"
	"go.uber.org/zap"
)

// slot represents a single slot in a probing table
type slot struct {
	key   []byte
	val   []byte
	state slotState
}

// probeMap is the table shared by LinearMap and ParametricMap. The two only
// differ in their probe sequence and in how they treat an existing key.
type probeMap struct {
	name   string
	hash   hash.HashFunc
	log    *zap.Logger
	seq    prober
	unique bool // overwrite existing keys on insert
	mask   uint64
	keys   uint // live entries
	tombs  uint // tombstoned slots
	slots  []slot
}

func newProbeMap(name string, conf *hashmap.TableConfig, seq prober, unique bool) probeMap {
	bukCnt := hashmap.AlignBucketCount(conf.Size)
	return probeMap{
		name:   name,
		hash:   conf.HashFunc,
		log:    conf.Logger,
		seq:    seq,
		unique: unique,
		mask:   bukCnt - 1, // this minus one is extremely important for using a mask over modulo
		slots:  make([]slot, bukCnt),
	}
}

// probe starts the probe sequence for key
func (m *probeMap) probe(key []byte) probeSeq {
	home := hash.BucketIndex(m.hash(key), m.mask+1)
	return makeProbeSeq(m.seq, home, m.mask)
}

// resize rebuilds the table with size slots, rehashing every live entry and
// dropping all tombstones. If a probe sequence cannot place every entry at
// that size, it keeps doubling.
func (m *probeMap) resize(size uint) {
	from, tombs := len(m.slots), m.tombs
	for !m.rehash(size) {
		size *= 2
	}
	m.log.Debug("resized table",
		zap.String("table", m.name),
		zap.Stringer("probe", m.seq),
		zap.Int("from", from),
		zap.Int("to", len(m.slots)),
		zap.Uint("live", m.keys),
		zap.Uint("tombstones", tombs))
}

// rehash makes a new table with the given size, copies every live entry
// over, and then frees the old table. The old table is left untouched if the
// new one cannot take every entry.
func (m *probeMap) rehash(size uint) bool {
	conf := &hashmap.TableConfig{Size: size, HashFunc: m.hash, Logger: m.log}
	newPM := newProbeMap(m.name, conf, m.seq, m.unique)
	for i := range m.slots {
		if !m.slots[i].state.isLive() {
			continue
		}
		if !newPM.place(m.slots[i].key, m.slots[i].val) {
			return false
		}
	}
	*m = newPM
	return true
}

// place writes the entry into the first empty or tombstoned slot along its
// probe sequence. It returns false if the sequence has no such slot.
func (m *probeMap) place(key, value []byte) bool {
	for seq := m.probe(key); !seq.done(); seq = seq.next() {
		s := &m.slots[seq.slot]
		if s.state.isLive() {
			continue
		}
		if s.state.isTombstone() {
			m.tombs--
		}
		*s = slot{key: key, val: value, state: stateLive}
		m.keys++
		return true
	}
	return false
}

// find walks the probe sequence of key until it reaches a live slot holding
// key (found) or an empty slot (not found). It also returns the number of
// slots visited.
func (m *probeMap) find(key []byte) (uint64, int, bool) {
	seq := m.probe(key)
	for ; !seq.done(); seq = seq.next() {
		s := &m.slots[seq.slot]
		// an empty slot means the key was never placed beyond this point
		if s.state.isEmpty() {
			return 0, seq.scans(), false
		}
		if s.state.isLive() && bytes.Equal(s.key, key) {
			return seq.slot, seq.scans(), true
		}
	}
	return 0, int(m.mask) + 1, false
}

// Insert inserts a key value entry
func (m *probeMap) Insert(key, value []byte) {
	// check and see if we need to resize
	if n := uint(len(m.slots)); mustGrow(m.keys, m.tombs, n) {
		m.resize(rebuildSize(m.keys, n))
	}
	if m.unique {
		if i, _, ok := m.find(key); ok {
			// existing key, only the value changes
			m.slots[i].val = value
			return
		}
	}
	key = cloneKey(key)
	// the probe sequence may not cover the whole table, grow until it fits
	for !m.place(key, value) {
		m.resize(uint(len(m.slots)) * 2)
	}
}

// Lookup returns the value for a given key and the number of slots probed
func (m *probeMap) Lookup(key []byte) ([]byte, int, error) {
	i, scans, ok := m.find(key)
	if !ok {
		return nil, scans, &hashmap.KeyNotFoundError{Key: key}
	}
	return m.slots[i].val, scans, nil
}

// Get returns the value for a given key, or def if none could be found
func (m *probeMap) Get(key, def []byte) []byte {
	if i, _, ok := m.find(key); ok {
		return m.slots[i].val
	}
	return def
}

// Delete tombstones the slot holding key. Without unique keys the walk goes
// on to the end of the run, so every copy of the key is removed.
func (m *probeMap) Delete(key []byte) {
	for seq := m.probe(key); !seq.done(); seq = seq.next() {
		s := &m.slots[seq.slot]
		if s.state.isEmpty() {
			return
		}
		if !s.state.isLive() || !bytes.Equal(s.key, key) {
			continue
		}
		*s = slot{state: stateTombstone}
		m.keys--
		m.tombs++
		if m.unique {
			return
		}
	}
}

// Range takes an Iterator and ranges the table as long as long
// as the iterator function continues to be true.
func (m *probeMap) Range(it hashmap.Iterator) {
	for i := range m.slots {
		if !m.slots[i].state.isLive() {
			continue
		}
		if !it(m.slots[i].key, m.slots[i].val) {
			return
		}
	}
}

// Len returns the number of live entries currently in the table
func (m *probeMap) Len() int {
	return int(m.keys)
}

// Cap returns the number of slots in the table
func (m *probeMap) Cap() int {
	return len(m.slots)
}

// Tombstones returns the number of tombstoned slots
func (m *probeMap) Tombstones() int {
	return int(m.tombs)
}

// LinearMap is an open addressing table probing at a fixed step
type LinearMap struct {
	probeMap
}

// NewLinearMap returns a new LinearMap instantiated with the specified size or
// the DefaultMapSize, whichever is larger, probing one slot at a time
func NewLinearMap(size uint) *LinearMap {
	return NewLinear(&hashmap.TableConfig{Size: size})
}

// NewLinear returns a new LinearMap using conf.ProbeStep as the probe step.
// Unless conf.UniqueKeys is set, inserting a key that is already present adds
// a second copy which lookups never reach.
func NewLinear(conf *hashmap.TableConfig) *LinearMap {
	conf = hashmap.CheckTableConfig(conf)
	return &LinearMap{
		probeMap: newProbeMap("linear", conf, linearProber{step: uint64(conf.ProbeStep)}, conf.UniqueKeys),
	}
}

// Step returns the probe step
func (m *LinearMap) Step() uint {
	return uint(m.seq.(linearProber).step)
}
