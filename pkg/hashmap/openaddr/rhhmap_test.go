package openaddr

import (
	"bytes"
	"errors"
	"strconv"
	"testing"

	"github.com/scottcagno/hashtable/pkg/hashmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ hashmap.Table = (*RobinHoodMap)(nil)

// checkDistances verifies that no live entry is more than one slot further
// from home than the live entry right before it, and, when deletes shift
// back, that every displaced entry follows another live entry
func checkDistances(t *testing.T, m *RobinHoodMap) {
	t.Helper()
	n := uint64(len(m.buckets))
	for i := uint64(0); i < n; i++ {
		cur := m.buckets[i]
		if !cur.state.isLive() {
			continue
		}
		d := m.dist(i, cur.digest)
		pi := (i + n - 1) & m.mask
		prev := m.buckets[pi]
		if prev.state.isLive() {
			require.LessOrEqual(t, d, m.dist(pi, prev.digest)+1, "bucket %d", i)
		} else if !m.tombstones {
			require.Zero(t, d, "bucket %d follows a free bucket", i)
		}
	}
}

func TestNewRobinHoodMap(t *testing.T) {
	hm := NewRobinHoodMap(128)
	assert.Equal(t, 0, hm.Len())
	assert.Equal(t, 128, hm.Cap())
	assert.Equal(t, hashmap.DefaultMapSize, NewRobinHoodMap(0).Cap())
	assert.False(t, hm.tombstones)
	assert.True(t, NewRobinHood(&hashmap.TableConfig{Tombstones: true}).tombstones)
}

func Test_RobinHoodMap_Scenario(t *testing.T) {
	hm := NewRobinHoodMap(16)
	hm.Insert([]byte("abc"), []byte("123"))
	hm.Insert([]byte("def"), []byte("456"))
	hm.Insert([]byte("abc"), []byte("789"))

	val, _, err := hm.Lookup([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, []byte("789"), val)
	assert.Equal(t, []byte("456"), hm.Get([]byte("def"), nil))
	assert.Equal(t, 2, hm.Len())
}

func Test_RobinHoodMap_Lookup_NotFound(t *testing.T) {
	hm := NewRobinHoodMap(0)
	hm.Insert([]byte("foo"), []byte("bar"))
	_, _, err := hm.Lookup([]byte("baz"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, hashmap.ErrKeyNotFound))
	assert.Equal(t, []byte("dflt"), hm.Get([]byte("baz"), []byte("dflt")))
}

func Test_RobinHoodMap_Swap(t *testing.T) {
	hm := NewRobinHood(&hashmap.TableConfig{HashFunc: pinned(map[string]uint64{
		"a": 3, "b": 4, "c": 3,
	})})
	hm.Insert([]byte("a"), nil)
	hm.Insert([]byte("b"), nil)
	// c is one away from home at bucket 4 while b is at home, so c takes
	// the bucket and b moves on to 5
	hm.Insert([]byte("c"), nil)
	assert.Equal(t, []byte("a"), hm.buckets[3].key)
	assert.Equal(t, []byte("c"), hm.buckets[4].key)
	assert.Equal(t, []byte("b"), hm.buckets[5].key)
	assert.Equal(t, 1, hm.HighestDistance())
	for _, k := range []string{"b", "c"} {
		_, scans, err := hm.Lookup([]byte(k))
		require.NoError(t, err)
		assert.Equal(t, 2, scans, "key %s", k)
	}
	checkDistances(t, hm)
}

func Test_RobinHoodMap_FailFast(t *testing.T) {
	hm := NewRobinHood(&hashmap.TableConfig{HashFunc: pinned(map[string]uint64{
		"a": 3, "b": 3, "c": 5, "z": 4,
	})})
	hm.Insert([]byte("a"), nil)
	hm.Insert([]byte("b"), nil)
	hm.Insert([]byte("c"), nil)
	// z would sit at distance 1 in bucket 5, where c is at home
	_, scans, err := hm.Lookup([]byte("z"))
	require.Error(t, err)
	assert.Equal(t, 2, scans)
}

func Test_RobinHoodMap_BackwardShift(t *testing.T) {
	hm := NewRobinHood(&hashmap.TableConfig{HashFunc: pinned(map[string]uint64{
		"a": 3, "b": 3, "c": 5,
	})})
	hm.Insert([]byte("a"), nil)
	hm.Insert([]byte("b"), nil)
	hm.Insert([]byte("c"), nil)
	hm.Delete([]byte("a"))
	assert.Equal(t, 2, hm.Len())
	assert.Equal(t, 0, hm.Tombstones())
	// b moves back home, c is already home and stays
	assert.Equal(t, []byte("b"), hm.buckets[3].key)
	assert.True(t, hm.buckets[4].state.isEmpty())
	assert.Equal(t, []byte("c"), hm.buckets[5].key)
	_, scans, err := hm.Lookup([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, 1, scans)
	checkDistances(t, hm)
}

func Test_RobinHoodMap_Tombstones(t *testing.T) {
	hm := NewRobinHood(&hashmap.TableConfig{
		Tombstones: true,
		HashFunc: pinned(map[string]uint64{
			"a": 3, "b": 3, "c": 5, "d": 3,
		}),
	})
	hm.Insert([]byte("a"), nil)
	hm.Insert([]byte("b"), nil)
	hm.Insert([]byte("c"), nil)
	hm.Delete([]byte("a"))
	assert.Equal(t, 2, hm.Len())
	assert.Equal(t, 1, hm.Tombstones())
	assert.True(t, hm.buckets[3].state.isTombstone())
	_, scans, err := hm.Lookup([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, 2, scans)

	// a key with the same home takes the tombstone back
	hm.Insert([]byte("d"), []byte("d"))
	assert.Equal(t, 0, hm.Tombstones())
	assert.Equal(t, 3, hm.Len())
	_, scans, err = hm.Lookup([]byte("d"))
	require.NoError(t, err)
	assert.Equal(t, 1, scans)
}

func Test_RobinHoodMap_Churn(t *testing.T) {
	for _, tombs := range []bool{false, true} {
		hm := NewRobinHood(&hashmap.TableConfig{Tombstones: tombs})
		for i := 0; i < 5; i++ {
			hm.Insert([]byte("keep"+strconv.Itoa(i)), nil)
		}
		for i := 0; i < 20000; i++ {
			k := []byte(strconv.Itoa(i))
			hm.Insert(k, k)
			hm.Delete(k)
		}
		assert.Equal(t, 5, hm.Len())
		assert.Equal(t, 16, hm.Cap(), "tombstones=%v", tombs)
		for i := 0; i < 5; i++ {
			_, _, err := hm.Lookup([]byte("keep" + strconv.Itoa(i)))
			require.NoError(t, err)
		}
		checkDistances(t, hm)
	}
}

func Test_RobinHoodMap_Del(t *testing.T) {
	for _, tombs := range []bool{false, true} {
		hm := NewRobinHood(&hashmap.TableConfig{Size: 128, Tombstones: tombs})
		for i := 0; i < len(words); i++ {
			hm.Insert([]byte(words[i]), []byte{0x69})
		}
		assert.Equal(t, 25, hm.Len())
		for i := 0; i < len(words); i++ {
			hm.Delete([]byte(words[i]))
			hm.Delete([]byte(words[i]))
			assert.Nil(t, hm.Get([]byte(words[i]), nil))
			assert.Equal(t, len(words)-i-1, hm.Len())
			checkDistances(t, hm)
		}
	}
}

func Test_RobinHoodMap_Distances(t *testing.T) {
	hm := NewRobinHoodMap(0)
	for i := 0; i < 3000; i++ {
		hm.Insert([]byte(strconv.Itoa(i)), nil)
		if i%7 == 0 {
			hm.Delete([]byte(strconv.Itoa(i / 2)))
		}
	}
	checkDistances(t, hm)
	assert.Less(t, hm.HighestDistance(), hm.Cap())
}

func Test_RobinHoodMap_Resize(t *testing.T) {
	hm := NewRobinHoodMap(16)
	for i := 0; i < 14; i++ {
		hm.Insert([]byte(strconv.Itoa(i)), []byte(strconv.Itoa(i)))
	}
	assert.Equal(t, 16, hm.Cap())
	hm.Insert([]byte("14"), []byte("14"))
	assert.Equal(t, 32, hm.Cap())
	assert.Equal(t, 15, hm.Len())
	for i := 0; i < 15; i++ {
		assert.Equal(t, []byte(strconv.Itoa(i)), hm.Get([]byte(strconv.Itoa(i)), nil))
	}
	checkDistances(t, hm)
}

func Test_RobinHoodMap_LoadFactor(t *testing.T) {
	hm := NewRobinHoodMap(0)
	for i := 0; i < 5000; i++ {
		hm.Insert([]byte(strconv.Itoa(i)), nil)
		require.Less(t, hashmap.PercentFull(hm), hashmap.DefaultLoadFactor)
	}
	assert.Equal(t, 5000, hm.Len())
}

func Test_RobinHoodMap_Range(t *testing.T) {
	hm := NewRobinHoodMap(128)
	for i := 0; i < len(words); i++ {
		hm.Insert([]byte(words[i]), []byte{0x69})
	}
	var counted int
	hm.Range(func(key, value []byte) bool {
		if len(key) > 0 && bytes.Equal(value, []byte{0x69}) {
			counted++
			return true
		}
		return false
	})
	assert.Equal(t, 25, counted)

	counted = 0
	hm.Range(func(key, value []byte) bool {
		counted++
		return counted < 3
	})
	assert.Equal(t, 3, counted)
}

func Test_RobinHoodMap_KeyIsCopied(t *testing.T) {
	hm := NewRobinHoodMap(0)
	key := []byte("foo")
	hm.Insert(key, []byte("bar"))
	key[0] = 'g'
	assert.Equal(t, []byte("bar"), hm.Get([]byte("foo"), nil))
}

func Test_RobinHoodMap_Model(t *testing.T) {
	for _, tombs := range []bool{false, true} {
		hm := NewRobinHood(&hashmap.TableConfig{Tombstones: tombs})
		model := make(map[string]string)
		for i := 0; i < 3000; i++ {
			k := strconv.Itoa(i % 701)
			switch i % 3 {
			case 0, 1:
				v := strconv.Itoa(i)
				hm.Insert([]byte(k), []byte(v))
				model[k] = v
			case 2:
				hm.Delete([]byte(k))
				delete(model, k)
			}
		}
		require.Equal(t, len(model), hm.Len(), "tombstones=%v", tombs)
		for k, v := range model {
			assert.Equal(t, []byte(v), hm.Get([]byte(k), nil), "tombstones=%v", tombs)
		}
		checkDistances(t, hm)
	}
}

func BenchmarkRobinHoodMap_Insert(b *testing.B) {
	keys := make([][]byte, 1024)
	for i := range keys {
		keys[i] = []byte(strconv.Itoa(i))
	}
	b.ResetTimer()
	b.ReportAllocs()
	for n := 0; n < b.N; n++ {
		hm := NewRobinHoodMap(0)
		for _, k := range keys {
			hm.Insert(k, k)
		}
	}
}

func BenchmarkRobinHoodMap_Lookup(b *testing.B) {
	hm := NewRobinHoodMap(0)
	keys := make([][]byte, 1024)
	for i := range keys {
		keys[i] = []byte(strconv.Itoa(i))
		hm.Insert(keys[i], keys[i])
	}
	b.ResetTimer()
	b.ReportAllocs()
	for n := 0; n < b.N; n++ {
		_, _, _ = hm.Lookup(keys[n%len(keys)])
	}
}
