package openaddr

import "github.com/scottcagno/hashtable/pkg/hash"

// 25 words
var words = []string{
	"reproducibility",
	"eruct",
	"acids",
	"flyspecks",
	"driveshafts",
	"volcanically",
	"discouraging",
	"acapnia",
	"phenazines",
	"hoarser",
	"abusing",
	"samara",
	"thromboses",
	"impolite",
	"drivennesses",
	"tenancy",
	"counterreaction",
	"kilted",
	"linty",
	"kistful",
	"biomarkers",
	"infusiblenesses",
	"capsulate",
	"reflowering",
	"heterophyllies",
}

// collide sends every key to the same bucket
func collide(key []byte) uint64 { return 7 }

// pinned returns a hash func that sends each listed key to the given digest
// and everything else to zero
func pinned(digests map[string]uint64) hash.HashFunc {
	return func(key []byte) uint64 {
		return digests[string(key)]
	}
}
