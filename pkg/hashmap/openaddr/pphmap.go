package openaddr

import "github.com/scottcagno/hashtable/pkg/hashmap"

// ParametricMap is an open addressing table whose i-th probe lands
// floor(i/2 + i^p/2) slots past the home bucket. Inserting a key that is
// already present replaces its value.
type ParametricMap struct {
	probeMap
}

// NewParametricMap returns a new ParametricMap instantiated with the specified
// size or the DefaultMapSize, whichever is larger, probing along the
// triangular numbers. Note the exponent here is 2, while NewParametric falls
// back to an exponent of 1 (plain linear probing) when conf leaves it unset.
func NewParametricMap(size uint) *ParametricMap {
	return NewParametric(&hashmap.TableConfig{Size: size, ProbeExponent: 2})
}

// NewParametric returns a new ParametricMap using conf.ProbeExponent as the
// exponent p
func NewParametric(conf *hashmap.TableConfig) *ParametricMap {
	conf = hashmap.CheckTableConfig(conf)
	return &ParametricMap{
		probeMap: newProbeMap("parametric", conf, parametricProber{exp: conf.ProbeExponent}, true),
	}
}

// Exponent returns the probe exponent p
func (m *ParametricMap) Exponent() uint {
	return m.seq.(parametricProber).exp
}
