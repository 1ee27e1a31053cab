package util

import (
	"math/rand"
	"time"
)

// Alphanumeric is the alphabet KeyGen draws from
const Alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// KeyGen generates random keys and values. A KeyGen is not safe for
// concurrent use.
type KeyGen struct {
	rnd *rand.Rand
	buf [len(Alphanumeric)]byte
}

// NewKeyGen returns a KeyGen seeded with seed. A zero seed uses the current
// time.
func NewKeyGen(seed int64) *KeyGen {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &KeyGen{
		rnd: rand.New(rand.NewSource(seed)),
	}
}

// Sample returns n distinct characters of Alphanumeric in random order. It
// panics if n is negative or larger than the alphabet.
func (g *KeyGen) Sample(n int) []byte {
	if n < 0 || n > len(Alphanumeric) {
		panic("util: sample larger than alphabet")
	}
	copy(g.buf[:], Alphanumeric)
	// partial fisher-yates, the first n bytes end up shuffled
	for i := 0; i < n; i++ {
		j := i + g.rnd.Intn(len(g.buf)-i)
		g.buf[i], g.buf[j] = g.buf[j], g.buf[i]
	}
	out := make([]byte, n)
	copy(out, g.buf[:n])
	return out
}
