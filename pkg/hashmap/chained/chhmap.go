package chained

import (
	"bytes"

	"github.com/scottcagno/hashtable/pkg/hash"
	"github.com/scottcagno/hashtable/pkg/hashmap"
	"go.uber.org/zap"
)

// nilNode terminates a chain. Slot zero of the arena is never handed out so
// the zero value of a bucket head means an empty bucket.
const nilNode = 0

// node is a single entry in a collision chain. Chains are linked through
// arena indices instead of pointers.
type node struct {
	key  []byte
	val  []byte
	next int
}

// HashMap represents a separate chaining hashtable implementation. Every
// bucket owns the head of a singly linked chain stored in a node arena.
type HashMap struct {
	hash  hash.HashFunc
	log   *zap.Logger
	mask  uint64
	keys  uint
	heads []int  // arena index of each bucket's chain head
	nodes []node // node arena, nodes[0] is reserved
	free  int    // free list of released arena slots, linked through next
}

// NewHashMap returns a new HashMap instantiated with the specified size or
// the DefaultMapSize, whichever is larger
func NewHashMap(size uint) *HashMap {
	return New(&hashmap.TableConfig{Size: size})
}

// New returns a new HashMap using the supplied configuration
func New(conf *hashmap.TableConfig) *HashMap {
	return newHashMap(hashmap.CheckTableConfig(conf))
}

// newHashMap is the internal variant of the previous function and
// expects an already checked config
func newHashMap(conf *hashmap.TableConfig) *HashMap {
	bukCnt := hashmap.AlignBucketCount(conf.Size)
	return &HashMap{
		hash:  conf.HashFunc,
		log:   conf.Logger,
		mask:  bukCnt - 1, // this minus one is extremely important for using a mask over modulo
		heads: make([]int, bukCnt),
		nodes: make([]node, 1, bukCnt),
	}
}

// alloc hands out an arena slot for a new node, reusing released slots first
func (m *HashMap) alloc(key, val []byte) int {
	if m.free != nilNode {
		i := m.free
		m.free = m.nodes[i].next
		m.nodes[i] = node{key: key, val: val}
		return i
	}
	m.nodes = append(m.nodes, node{key: key, val: val})
	return len(m.nodes) - 1
}

// release puts an unlinked arena slot onto the free list
func (m *HashMap) release(i int) {
	m.nodes[i] = node{next: m.free}
	m.free = i
}

// bucket returns the bucket index for key
func (m *HashMap) bucket(key []byte) uint64 {
	return hash.BucketIndex(m.hash(key), m.mask+1)
}

// resize doubles the HashMap. It makes a new map with the new size, copies
// everything over in bucket order, and then frees the old map
func (m *HashMap) resize() {
	conf := &hashmap.TableConfig{
		Size:     uint(len(m.heads)) * 2,
		HashFunc: m.hash,
		Logger:   m.log,
	}
	newHM := newHashMap(conf)
	for b := range m.heads {
		for i := m.heads[b]; i != nilNode; i = m.nodes[i].next {
			newHM.put(m.nodes[i].key, m.nodes[i].val)
		}
	}
	m.log.Debug("resized table",
		zap.String("table", "chained"),
		zap.Int("from", len(m.heads)),
		zap.Int("to", len(newHM.heads)),
		zap.Uint("live", m.keys))
	*m = *newHM
}

// Insert inserts a key value entry, overwriting the value if the key is
// already present
func (m *HashMap) Insert(key, value []byte) {
	// check and see if we need to resize
	if hashmap.ExceedsLoad(uint64(m.keys)+1, uint64(len(m.heads))) {
		// if we do, then double the map size
		m.resize()
	}
	// the table owns its keys
	m.put(append([]byte(nil), key...), value)
}

// put links the entry into its chain without checking the load factor
func (m *HashMap) put(key, value []byte) {
	b := m.bucket(key)
	// if nothing in bucket, start a new chain
	if m.heads[b] == nilNode {
		m.heads[b] = m.alloc(key, value)
		m.keys++
		return
	}
	// walk to the matching node or the tail of the chain
	i := m.heads[b]
	for m.nodes[i].next != nilNode && !bytes.Equal(m.nodes[i].key, key) {
		i = m.nodes[i].next
	}
	if bytes.Equal(m.nodes[i].key, key) {
		// existing key, only the value changes
		m.nodes[i].val = value
		return
	}
	// append at the tail
	n := m.alloc(key, value)
	m.nodes[i].next = n
	m.keys++
}

// Lookup returns the value for a given key and the number of nodes visited,
// counting the chain head as the first
func (m *HashMap) Lookup(key []byte) ([]byte, int, error) {
	scans := 1
	for i := m.heads[m.bucket(key)]; i != nilNode; i = m.nodes[i].next {
		if bytes.Equal(m.nodes[i].key, key) {
			return m.nodes[i].val, scans, nil
		}
		scans++
	}
	return nil, scans, &hashmap.KeyNotFoundError{Key: key}
}

// Get returns the value for a given key, or def if none could be found
func (m *HashMap) Get(key, def []byte) []byte {
	val, _, err := m.Lookup(key)
	if err != nil {
		return def
	}
	return val
}

// Delete unlinks the node holding key from its chain
func (m *HashMap) Delete(key []byte) {
	b := m.bucket(key)
	prev := nilNode
	for i := m.heads[b]; i != nilNode; prev, i = i, m.nodes[i].next {
		if !bytes.Equal(m.nodes[i].key, key) {
			continue
		}
		if prev == nilNode {
			// replace the chain head
			m.heads[b] = m.nodes[i].next
		} else {
			m.nodes[prev].next = m.nodes[i].next
		}
		m.release(i)
		// only count what was actually removed
		m.keys--
		return
	}
}

// Range takes an Iterator and ranges the HashMap as long as long
// as the iterator function continues to be true.
func (m *HashMap) Range(it hashmap.Iterator) {
	for b := range m.heads {
		for i := m.heads[b]; i != nilNode; i = m.nodes[i].next {
			if !it(m.nodes[i].key, m.nodes[i].val) {
				return
			}
		}
	}
}

// ChainLen returns the number of nodes in the chain of the given bucket
func (m *HashMap) ChainLen(bucket int) int {
	var n int
	for i := m.heads[bucket]; i != nilNode; i = m.nodes[i].next {
		n++
	}
	return n
}

// Len returns the number of entries currently in the HashMap
func (m *HashMap) Len() int {
	return int(m.keys)
}

// Cap returns the number of buckets in the HashMap
func (m *HashMap) Cap() int {
	return len(m.heads)
}
