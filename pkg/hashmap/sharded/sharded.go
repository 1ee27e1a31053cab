// Package sharded provides a hashmap.Table that can be shared between
// goroutines. Keys are spread over a fixed number of shards, each one an
// ordinary table guarded by its own lock.
package sharded

import (
	mathbits "math/bits"
	"runtime"
	"sync"

	"github.com/scottcagno/hashtable/pkg/hash"
	"github.com/scottcagno/hashtable/pkg/hashmap"
)

// Constructor builds the table behind one shard
type Constructor func(conf *hashmap.TableConfig) hashmap.Table

type shard struct {
	mu sync.RWMutex
	hm hashmap.Table
}

// ShardedTable is a hashmap.Table safe for concurrent use
type ShardedTable struct {
	shift  uint // digest >> shift is the shard index
	hash   hash.HashFunc
	shards []*shard
}

// NewShardedTable returns a new ShardedTable with count shards, rounded up to
// a power of two, each one built by fn. A zero count uses one shard per CPU.
// conf.Size is the size of the whole table and is split evenly between the
// shards.
func NewShardedTable(count uint, conf *hashmap.TableConfig, fn Constructor) *ShardedTable {
	if count == 0 {
		count = uint(runtime.NumCPU())
	}
	shCount := alignShardCount(count)
	conf = hashmap.CheckTableConfig(conf)
	shm := &ShardedTable{
		shift:  64 - uint(mathbits.TrailingZeros64(shCount)),
		hash:   conf.HashFunc,
		shards: make([]*shard, shCount),
	}
	for i := range shm.shards {
		shConf := *conf
		shConf.Size = conf.Size / uint(shCount)
		shm.shards[i] = &shard{
			hm: fn(&shConf),
		}
	}
	return shm
}

func alignShardCount(size uint) uint64 {
	count := uint(1)
	for count < size {
		count *= 2
	}
	return uint64(count)
}

// getShard picks a shard from the top bits of the digest. The tables
// inside index their buckets with the low bits.
func (s *ShardedTable) getShard(key []byte) *shard {
	if len(s.shards) == 1 {
		return s.shards[0]
	}
	return s.shards[s.hash(key)>>s.shift]
}

// Shards returns the number of shards
func (s *ShardedTable) Shards() int {
	return len(s.shards)
}

func (s *ShardedTable) Insert(key, value []byte) {
	sh := s.getShard(key)
	sh.mu.Lock()
	sh.hm.Insert(key, value)
	sh.mu.Unlock()
}

func (s *ShardedTable) Lookup(key []byte) ([]byte, int, error) {
	sh := s.getShard(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	return sh.hm.Lookup(key)
}

func (s *ShardedTable) Get(key, def []byte) []byte {
	sh := s.getShard(key)
	sh.mu.RLock()
	pv := sh.hm.Get(key, def)
	sh.mu.RUnlock()
	return pv
}

func (s *ShardedTable) Delete(key []byte) {
	sh := s.getShard(key)
	sh.mu.Lock()
	sh.hm.Delete(key)
	sh.mu.Unlock()
}

// Range ranges one shard at a time. The iterator must not call back into
// the ShardedTable.
func (s *ShardedTable) Range(it hashmap.Iterator) {
	for i := range s.shards {
		var stop bool
		s.shards[i].mu.RLock()
		s.shards[i].hm.Range(func(key, value []byte) bool {
			if !it(key, value) {
				stop = true
				return false
			}
			return true
		})
		s.shards[i].mu.RUnlock()
		if stop {
			return
		}
	}
}

func (s *ShardedTable) Len() int {
	var length int
	for i := range s.shards {
		s.shards[i].mu.RLock()
		length += s.shards[i].hm.Len()
		s.shards[i].mu.RUnlock()
	}
	return length
}

func (s *ShardedTable) Cap() int {
	var capacity int
	for i := range s.shards {
		s.shards[i].mu.RLock()
		capacity += s.shards[i].hm.Cap()
		s.shards[i].mu.RUnlock()
	}
	return capacity
}
