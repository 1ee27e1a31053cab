package hashmap

import (
	"errors"
	"fmt"

	"github.com/scottcagno/hashtable/pkg/hash"
	"go.uber.org/zap"
)

const (
	DefaultLoadFactor = 0.90 // a table never holds this fraction of its slots or more
	DefaultMapSize    = 16
	DefaultProbeStep  = 1
	DefaultProbeExp   = 1
)

// ErrKeyNotFound is matched by every KeyNotFoundError through errors.Is
var ErrKeyNotFound = errors.New("hashmap: key not found")

// KeyNotFoundError is returned by Lookup when no live entry matches Key
type KeyNotFoundError struct {
	Key []byte
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("hashmap: key %q not found", e.Key)
}

func (e *KeyNotFoundError) Is(target error) bool {
	return target == ErrKeyNotFound
}

// Iterator is an iterator function type
type Iterator func(key, value []byte) bool

// Table is the contract shared by every collision resolution strategy.
// A Table is not safe for concurrent use; see the sharded package.
type Table interface {
	// Insert adds key with value, or replaces the value of an existing key
	Insert(key, value []byte)
	// Lookup returns the value for key along with the number of slots or
	// nodes visited to find it
	Lookup(key []byte) ([]byte, int, error)
	// Get returns the value for key, or def if the key is not present
	Get(key, def []byte) []byte
	// Delete removes key. Deleting an absent key is a no-op.
	Delete(key []byte)
	// Range calls it for every live entry until it returns false. Range is
	// not safe to perform an insert or remove operation while ranging!
	Range(it Iterator)
	// Len returns the number of live entries
	Len() int
	// Cap returns the number of slots in the table
	Cap() int
}

// TableConfig holds configuration settings for a Table instance. Fields that
// do not apply to a strategy are ignored by it.
type TableConfig struct {
	Size          uint          // initial bucket count, rounded up to a power of two
	HashFunc      hash.HashFunc // key digest function
	Logger        *zap.Logger   // resize events are logged at debug level
	ProbeStep     uint          // linear probing step
	ProbeExponent uint          // parametric probing exponent
	UniqueKeys    bool          // linear probing updates existing keys instead of appending
	Tombstones    bool          // robin hood marks deleted slots instead of shifting back
}

var defaultTableConfig = TableConfig{
	Size:          DefaultMapSize,
	HashFunc:      hash.Default,
	Logger:        zap.NewNop(),
	ProbeStep:     DefaultProbeStep,
	ProbeExponent: DefaultProbeExp,
}

// CheckTableConfig returns a copy of conf with any missing options filled
// in with their defaults. A nil conf yields the default configuration.
func CheckTableConfig(conf *TableConfig) *TableConfig {
	c := defaultTableConfig
	if conf == nil {
		return &c
	}
	c = *conf
	if c.Size < DefaultMapSize {
		c.Size = DefaultMapSize
	}
	if c.HashFunc == nil {
		c.HashFunc = hash.Default
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.ProbeStep == 0 {
		c.ProbeStep = DefaultProbeStep
	}
	if c.ProbeExponent == 0 {
		c.ProbeExponent = DefaultProbeExp
	}
	return &c
}

// AlignBucketCount aligns buckets to ensure all sizes are powers of two
func AlignBucketCount(size uint) uint64 {
	count := uint(DefaultMapSize)
	for count < size {
		count *= 2
	}
	return uint64(count)
}

// ExceedsLoad reports whether count occupied slots out of n would reach the
// load factor. Tables call it with the count they would have after placing
// a new entry, so the bound holds once the insert returns.
func ExceedsLoad(count, n uint64) bool {
	return float64(count)/float64(n) >= DefaultLoadFactor
}

// PercentFull returns the current load factor of t
func PercentFull(t Table) float64 {
	return float64(t.Len()) / float64(t.Cap())
}
