package openaddr

import "fmt"

// prober describes a probe sequence. offset returns how far from the home
// bucket the i-th probe lands, modulo the table size. offset(0) is always 0.
type prober interface {
	offset(i, mask uint64) uint64
	fmt.Stringer
}

// linearProber steps a fixed distance every probe
type linearProber struct {
	step uint64
}

func (p linearProber) offset(i, mask uint64) uint64 {
	return (i * p.step) & mask
}

func (p linearProber) String() string {
	return fmt.Sprintf("linear(step=%d)", p.step)
}

// parametricProber lands the i-th probe floor(i/2 + i^exp/2) past home
type parametricProber struct {
	exp uint
}

func (p parametricProber) offset(i, mask uint64) uint64 {
	pow := uint64(1)
	for e := uint(0); e < p.exp; e++ {
		pow *= i
	}
	// i + i^exp is reduced modulo 2n before halving. Both the wrapping
	// arithmetic and the reduction keep the result exact, because 2n
	// divides 2^64.
	return ((i + pow) & (mask<<1 | 1)) >> 1
}

func (p parametricProber) String() string {
	return fmt.Sprintf("parametric(exp=%d)", p.exp)
}

// probeSeq maintains the state for a walk along a probe sequence. At most
// n slots are visited, which is a full cycle for any sequence that covers
// the table. Sequences that do not cover it simply end early.
type probeSeq struct {
	p     prober
	mask  uint64
	home  uint64
	index uint64 // number of probes taken so far
	slot  uint64 // current slot
}

func makeProbeSeq(p prober, home, mask uint64) probeSeq {
	return probeSeq{
		p:    p,
		mask: mask,
		home: home & mask,
		slot: home & mask,
	}
}

// done reports whether the sequence has visited n slots
func (s probeSeq) done() bool {
	return s.index > s.mask
}

func (s probeSeq) next() probeSeq {
	s.index++
	s.slot = (s.home + s.p.offset(s.index, s.mask)) & s.mask
	return s
}

// scans returns the number of slots visited, counting the current one
func (s probeSeq) scans() int {
	return int(s.index) + 1
}
