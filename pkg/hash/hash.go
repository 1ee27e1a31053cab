package hash

import "github.com/cespare/xxhash/v2"

// HashFunc is a type definition for what a hash function should look like.
// It must be deterministic, every table assumes the same key always lands
// in the same home bucket for a given capacity.
type HashFunc func(key []byte) uint64

// Default is the hash function used by every table unless one is supplied
var Default HashFunc = Digest

// Digest returns the 64-bit xxhash digest of key
func Digest(key []byte) uint64 {
	return xxhash.Sum64(key)
}

// BucketIndex maps a digest onto a bucket in [0, n). Capacities are always
// powers of two, which lets the modulo be done with a mask.
func BucketIndex(digest, n uint64) uint64 {
	if n&(n-1) == 0 {
		return digest & (n - 1)
	}
	return digest % n
}
