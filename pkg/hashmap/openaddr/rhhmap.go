package openaddr

import (
	"bytes"

	"github.com/scottcagno/hashtable/pkg/hash"
	"github.com/scottcagno/hashtable/pkg/hashmap"
	"go.uber.org/zap"
)

// bucket represents a single slot in the RobinHoodMap table. The digest is
// kept so the distance to the initial bucket never needs the key rehashed.
type bucket struct {
	key    []byte
	val    []byte
	digest uint64
	state  slotState
}

// RobinHoodMap represents a closed hashing hashtable implementation using
// robin hood hashing
type RobinHoodMap struct {
	hash       hash.HashFunc
	log        *zap.Logger
	tombstones bool // mark deleted buckets instead of shifting back
	mask       uint64
	keys       uint
	tombs      uint
	buckets    []bucket
}

// NewRobinHoodMap returns a new RobinHoodMap instantiated with the specified
// size or the DefaultMapSize, whichever is larger
func NewRobinHoodMap(size uint) *RobinHoodMap {
	return NewRobinHood(&hashmap.TableConfig{Size: size})
}

// NewRobinHood returns a new RobinHoodMap using the supplied configuration.
// Deletes shift the following entries back unless conf.Tombstones is set.
func NewRobinHood(conf *hashmap.TableConfig) *RobinHoodMap {
	return newRobinHoodMap(hashmap.CheckTableConfig(conf))
}

// newRobinHoodMap is the internal variant of the previous function and
// expects an already checked config
func newRobinHoodMap(conf *hashmap.TableConfig) *RobinHoodMap {
	bukCnt := hashmap.AlignBucketCount(conf.Size)
	return &RobinHoodMap{
		hash:       conf.HashFunc,
		log:        conf.Logger,
		tombstones: conf.Tombstones,
		mask:       bukCnt - 1, // this minus one is extremely important for using a mask over modulo
		buckets:    make([]bucket, bukCnt),
	}
}

// home returns the initial bucket for a digest
func (m *RobinHoodMap) home(digest uint64) uint64 {
	return hash.BucketIndex(digest, m.mask+1)
}

// dist returns how far bucket i is from the initial bucket of digest
func (m *RobinHoodMap) dist(i, digest uint64) uint64 {
	return (i - m.home(digest)) & m.mask
}

// resize rebuilds the RobinHoodMap with size buckets. It makes a new map
// with the new size, copies every live entry over using the cached digests,
// and then frees the old map. Tombstones are dropped.
func (m *RobinHoodMap) resize(size uint) {
	newHM := newRobinHoodMap(&hashmap.TableConfig{
		Size:       size,
		HashFunc:   m.hash,
		Logger:     m.log,
		Tombstones: m.tombstones,
	})
	for i := range m.buckets {
		if m.buckets[i].state.isLive() {
			newHM.place(m.buckets[i])
		}
	}
	m.log.Debug("resized table",
		zap.String("table", "robinhood"),
		zap.Int("from", len(m.buckets)),
		zap.Int("to", len(newHM.buckets)),
		zap.Uint("live", m.keys),
		zap.Uint("tombstones", m.tombs))
	*m = *newHM
}

// find walks from the initial bucket of digest looking for key. It stops as
// soon as it reaches an empty bucket, or an entry closer to its own initial
// bucket than key would be at that position, since key would have displaced
// that entry on insert. It also returns the number of buckets visited.
func (m *RobinHoodMap) find(key []byte, digest uint64) (uint64, int, bool) {
	// mask the digest to get the initial index
	i := m.home(digest)
	scans := 1
	// search the position linearly
	for d := uint64(0); d <= m.mask; d++ {
		cur := &m.buckets[i]
		// havent located anything
		if cur.state.isEmpty() {
			return 0, scans, false
		}
		cd := m.dist(i, cur.digest)
		if cd < d {
			// key would have taken this spot
			return 0, scans, false
		}
		if cd == d && cur.state.isLive() && cur.digest == digest && bytes.Equal(cur.key, key) {
			return i, scans, true
		}
		// keep on probing
		i = (i + 1) & m.mask
		scans++
	}
	return 0, int(m.mask) + 1, false
}

// place inserts an entry known not to be in the table. The table must have
// at least one empty bucket.
func (m *RobinHoodMap) place(cand bucket) {
	// mask the digest to get the initial index
	i := m.home(cand.digest)
	// distance of the candidate from its initial bucket
	var d uint64
	// search the position linearly
	for {
		cur := &m.buckets[i]
		// we found a spot, insert the candidate
		if cur.state.isEmpty() {
			*cur = cand
			m.keys++
			return
		}
		cd := m.dist(i, cur.digest)
		// a tombstone no further from home than the candidate can be reused
		if cur.state.isTombstone() && cd <= d {
			*cur = cand
			m.tombs--
			m.keys++
			return
		}
		if cd < d {
			// current position's distance is less than the candidate's,
			// swap and go on placing the entry we displaced
			cand, *cur = *cur, cand
			d = cd
		}
		// keep on probing until we find what we're looking for.
		// increase our search index by one as well as our candidate's
		// distance, then continue with the linear probe.
		i = (i + 1) & m.mask
		d++
	}
}

// Insert inserts a key value entry, overwriting the value if the key is
// already present
func (m *RobinHoodMap) Insert(key, value []byte) {
	// check and see if we need to resize
	if n := uint(len(m.buckets)); mustGrow(m.keys, m.tombs, n) {
		// if we do, then double the map size, or just clear out the
		// tombstones if the live entries still fit
		m.resize(rebuildSize(m.keys, n))
	}
	// calculate the digest value
	digest := m.hash(key)
	if i, _, ok := m.find(key, digest); ok {
		// hashes and keys are a match, update the value in place
		m.buckets[i].val = value
		return
	}
	m.place(bucket{
		key:    cloneKey(key),
		val:    value,
		digest: digest,
		state:  stateLive,
	})
}

// Lookup returns the value for a given key and the number of buckets probed
func (m *RobinHoodMap) Lookup(key []byte) ([]byte, int, error) {
	i, scans, ok := m.find(key, m.hash(key))
	if !ok {
		return nil, scans, &hashmap.KeyNotFoundError{Key: key}
	}
	return m.buckets[i].val, scans, nil
}

// Get returns the value for a given key, or def if none could be found
func (m *RobinHoodMap) Get(key, def []byte) []byte {
	if i, _, ok := m.find(key, m.hash(key)); ok {
		return m.buckets[i].val
	}
	return def
}

// Delete removes the entry for a given key
func (m *RobinHoodMap) Delete(key []byte) {
	i, _, ok := m.find(key, m.hash(key))
	if !ok {
		return
	}
	// decrement entry count
	m.keys--
	if m.tombstones {
		// the digest stays so the tombstone keeps its distance
		m.buckets[i] = bucket{digest: m.buckets[i].digest, state: stateTombstone}
		m.tombs++
		return
	}
	m.shiftBack(i)
}

// shiftBack empties bucket i and pulls every following entry that is not in
// its initial bucket back by one, until an empty bucket or an entry already
// at home is reached
func (m *RobinHoodMap) shiftBack(i uint64) {
	for {
		pi := i
		i = (i + 1) & m.mask
		if m.buckets[i].state.isEmpty() || m.dist(i, m.buckets[i].digest) == 0 {
			// im as free as a bird now!
			m.buckets[pi] = bucket{}
			return
		}
		// shift
		m.buckets[pi] = m.buckets[i]
	}
}

// Range takes an Iterator and ranges the RobinHoodMap as long as long
// as the iterator function continues to be true.
func (m *RobinHoodMap) Range(it hashmap.Iterator) {
	for i := range m.buckets {
		if !m.buckets[i].state.isLive() {
			continue
		}
		if !it(m.buckets[i].key, m.buckets[i].val) {
			return
		}
	}
}

// HighestDistance returns the highest distance to initial bucket of any live
// entry in the table
func (m *RobinHoodMap) HighestDistance() int {
	var hd uint64
	for i := range m.buckets {
		if !m.buckets[i].state.isLive() {
			continue
		}
		if d := m.dist(uint64(i), m.buckets[i].digest); d > hd {
			hd = d
		}
	}
	return int(hd)
}

// Len returns the number of entries currently in the RobinHoodMap
func (m *RobinHoodMap) Len() int {
	return int(m.keys)
}

// Cap returns the number of buckets in the RobinHoodMap
func (m *RobinHoodMap) Cap() int {
	return len(m.buckets)
}

// Tombstones returns the number of tombstoned buckets
func (m *RobinHoodMap) Tombstones() int {
	return int(m.tombs)
}
